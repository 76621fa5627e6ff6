package html

import (
	"io"

	"github.com/tdewolff/parse/v2"
)

// TokenType determines the type of token, eg. a start tag or a text node.
type TokenType uint32

// TokenType values.
const (
	ErrorToken TokenType = iota // extra token when errors occur
	DoctypeToken
	CommentToken
	TextToken
	StartTagToken
	EndTagToken
	RawTextToken
	CDATAToken
)

func (tt TokenType) String() string {
	switch tt {
	case ErrorToken:
		return "Error"
	case DoctypeToken:
		return "Doctype"
	case CommentToken:
		return "Comment"
	case TextToken:
		return "Text"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case RawTextToken:
		return "RawText"
	case CDATAToken:
		return "CDATA"
	}
	return "Invalid(" + string(rune(tt)) + ")"
}

// Attr is a single attribute of a start tag, in source order. Quote records
// the original quoting style, a double or single quote byte, or zero for an
// unquoted value.
type Attr struct {
	Name   []byte
	Val    []byte
	HasVal bool
	Quote  byte
}

// Token is a single structural unit produced by the lexer. Name holds the
// lowercased element name for tag tokens and, for RawTextToken, the element
// that opened the raw region. Data holds text, comment, doctype or raw
// content.
type Token struct {
	TokenType
	Name        []byte
	Data        []byte
	Attrs       []Attr
	SelfClosing bool
}

// Lexer is the state machine that turns input bytes into tokens. It tracks
// raw-text regions so that content of script, style, pre, textarea and title
// is never re-tokenized as markup.
type Lexer struct {
	r       *parse.Input
	err     error
	rawName []byte
}

// NewLexer returns a new Lexer for a given io reader.
func NewLexer(r *parse.Input) *Lexer {
	return &Lexer{r: r}
}

// Err returns the error encountered during lexing, this is often io.EOF but also other errors can be returned.
func (l *Lexer) Err() error {
	return l.err
}

// Next returns the next Token. It returns ErrorToken upon error or when the
// input has been fully consumed, in which case Err returns io.EOF.
func (l *Lexer) Next() Token {
	if l.err != nil {
		return Token{TokenType: ErrorToken}
	}
	if l.rawName != nil {
		name := l.rawName
		l.rawName = nil
		data, err := l.shiftRawText(name)
		if err != nil {
			l.err = err
			return Token{TokenType: ErrorToken}
		}
		if 0 < len(data) {
			return Token{TokenType: RawTextToken, Name: name, Data: data}
		}
		// empty raw region, fall through to the end tag
	}

	c := l.r.Peek(0)
	if c == 0 && l.r.Err() != nil {
		l.err = io.EOF
		return Token{TokenType: ErrorToken}
	}
	if c == '<' {
		switch c1 := l.r.Peek(1); {
		case c1 == '/':
			return l.shiftEndTag()
		case c1 == '!':
			return l.shiftMarkupDeclaration()
		case 'a' <= c1 && c1 <= 'z' || 'A' <= c1 && c1 <= 'Z':
			return l.shiftStartTag()
		}
	}
	return Token{TokenType: TextToken, Data: l.shiftText()}
}

// shiftText consumes a text run up to the next construct that opens a tag. A
// stray '<' that cannot open a tag belongs to the text.
func (l *Lexer) shiftText() []byte {
	l.r.Move(1)
	for {
		c := l.r.Peek(0)
		if c == 0 && l.r.Err() != nil {
			break
		}
		if c == '<' {
			c1 := l.r.Peek(1)
			if c1 == '/' || c1 == '!' || 'a' <= c1 && c1 <= 'z' || 'A' <= c1 && c1 <= 'Z' {
				break
			}
		}
		l.r.Move(1)
	}
	return l.r.Shift()
}

// shiftRawText consumes bytes verbatim until the case-insensitive end tag of
// the raw-text element is found; the end tag itself is left for the next call.
func (l *Lexer) shiftRawText(name []byte) ([]byte, error) {
	start := l.r.Offset()
	for {
		c := l.r.Peek(0)
		if c == 0 && l.r.Err() != nil {
			return nil, NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in <%s> content", string(name))
		}
		if c == '<' && l.r.Peek(1) == '/' {
			i := 0
			for i < len(name) {
				if d := l.r.Peek(2 + i); d != name[i] && d != name[i]-'a'+'A' {
					break
				}
				i++
			}
			if i == len(name) {
				if d := l.r.Peek(2 + i); d == '>' || d == '/' || parse.IsWhitespace(d) || d == 0 {
					return l.r.Shift(), nil
				}
			}
		}
		l.r.Move(1)
	}
}

func (l *Lexer) shiftStartTag() Token {
	start := l.r.Offset()
	l.r.Move(1)
	l.r.Skip()
	for {
		c := l.r.Peek(0)
		if c == '>' || c == '/' || parse.IsWhitespace(c) || c == 0 {
			break
		}
		l.r.Move(1)
	}
	name := toLower(l.r.Shift())

	t := Token{TokenType: StartTagToken, Name: name}
	for {
		for parse.IsWhitespace(l.r.Peek(0)) {
			l.r.Move(1)
		}
		c := l.r.Peek(0)
		if c == 0 && l.r.Err() != nil {
			l.err = NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in <%s> tag", string(name))
			return Token{TokenType: ErrorToken}
		}
		if c == '>' {
			l.r.Move(1)
			break
		}
		if c == '/' {
			if l.r.Peek(1) == '>' {
				l.r.Move(2)
				t.SelfClosing = true
				break
			}
			l.r.Move(1)
			continue
		}

		attr, err := l.shiftAttribute(start, name)
		if err != nil {
			l.err = err
			return Token{TokenType: ErrorToken}
		}
		t.Attrs = append(t.Attrs, attr)
	}
	l.r.Skip()

	if rawTextTagMap[string(name)] && !t.SelfClosing {
		l.rawName = name
	}
	return t
}

func (l *Lexer) shiftAttribute(start int, tag []byte) (Attr, error) {
	l.r.Skip()
	for {
		c := l.r.Peek(0)
		if c == '=' || c == '>' || c == '/' || parse.IsWhitespace(c) || c == 0 {
			break
		}
		l.r.Move(1)
	}
	attr := Attr{Name: toLower(l.r.Shift())}
	if len(attr.Name) == 0 {
		// skip a byte that can start neither a name nor close the tag
		l.r.Move(1)
		l.r.Skip()
		return attr, nil
	}

	for parse.IsWhitespace(l.r.Peek(0)) {
		l.r.Move(1)
	}
	if l.r.Peek(0) != '=' {
		l.r.Skip()
		return attr, nil
	}
	l.r.Move(1)
	for parse.IsWhitespace(l.r.Peek(0)) {
		l.r.Move(1)
	}
	attr.HasVal = true

	c := l.r.Peek(0)
	if c == '"' || c == '\'' {
		attr.Quote = c
		l.r.Move(1)
		l.r.Skip()
		for {
			d := l.r.Peek(0)
			if d == 0 && l.r.Err() != nil {
				return Attr{}, NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in attribute value of <%s>", string(tag))
			}
			if d == c {
				break
			}
			l.r.Move(1)
		}
		attr.Val = l.r.Shift()
		l.r.Move(1)
		l.r.Skip()
		return attr, nil
	}

	l.r.Skip()
	for {
		d := l.r.Peek(0)
		if d == '>' || parse.IsWhitespace(d) || d == 0 {
			break
		}
		l.r.Move(1)
	}
	attr.Val = l.r.Shift()
	return attr, nil
}

func (l *Lexer) shiftEndTag() Token {
	start := l.r.Offset()
	l.r.Move(2)
	l.r.Skip()
	for {
		c := l.r.Peek(0)
		if c == 0 && l.r.Err() != nil {
			l.err = NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in end tag")
			return Token{TokenType: ErrorToken}
		}
		if c == '>' {
			break
		}
		l.r.Move(1)
	}
	name := trimWS(l.r.Shift())
	for i, c := range name {
		if parse.IsWhitespace(c) {
			name = name[:i]
			break
		}
	}
	name = toLower(name)
	l.r.Move(1)
	l.r.Skip()
	return Token{TokenType: EndTagToken, Name: name}
}

func (l *Lexer) shiftMarkupDeclaration() Token {
	start := l.r.Offset()
	if l.r.Peek(2) == '-' && l.r.Peek(3) == '-' {
		l.r.Move(4)
		l.r.Skip()
		for {
			c := l.r.Peek(0)
			if c == 0 && l.r.Err() != nil {
				l.err = NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in comment")
				return Token{TokenType: ErrorToken}
			}
			if c == '-' && l.r.Peek(1) == '-' && l.r.Peek(2) == '>' {
				data := l.r.Shift()
				l.r.Move(3)
				l.r.Skip()
				return Token{TokenType: CommentToken, Data: data}
			}
			l.r.Move(1)
		}
	}
	if matchCDATA(l.r) {
		l.r.Move(9)
		l.r.Skip()
		for {
			c := l.r.Peek(0)
			if c == 0 && l.r.Err() != nil {
				l.err = NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in CDATA section")
				return Token{TokenType: ErrorToken}
			}
			if c == ']' && l.r.Peek(1) == ']' && l.r.Peek(2) == '>' {
				data := l.r.Shift()
				l.r.Move(3)
				l.r.Skip()
				return Token{TokenType: CDATAToken, Data: data}
			}
			l.r.Move(1)
		}
	}

	// doctype or an unrecognized markup declaration, consumed until '>'
	l.r.Move(2)
	l.r.Skip()
	for {
		c := l.r.Peek(0)
		if c == 0 && l.r.Err() != nil {
			l.err = NewError(UnterminatedConstruct, l.r, start, "unexpected EOF in markup declaration")
			return Token{TokenType: ErrorToken}
		}
		if c == '>' {
			break
		}
		l.r.Move(1)
	}
	data := l.r.Shift()
	l.r.Move(1)
	l.r.Skip()
	return Token{TokenType: DoctypeToken, Data: data}
}

func matchCDATA(r *parse.Input) bool {
	match := "![CDATA["
	for i := 0; i < len(match); i++ {
		if r.Peek(1+i) != match[i] {
			return false
		}
	}
	return true
}

func trimWS(b []byte) []byte {
	for 0 < len(b) && parse.IsWhitespace(b[0]) {
		b = b[1:]
	}
	for 0 < len(b) && parse.IsWhitespace(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

// toLower lowercases ASCII letters, copying only when needed so that the
// input buffer is never mutated.
func toLower(b []byte) []byte {
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			d := make([]byte, len(b))
			copy(d, b)
			for ; i < len(d); i++ {
				if 'A' <= d[i] && d[i] <= 'Z' {
					d[i] += 'a' - 'A'
				}
			}
			return d
		}
	}
	return b
}
