// Package html implements the HTML minification engine: a tokenizer with
// raw-text tracking and a single pass over the token stream that applies the
// enabled transformations and serializes the result.
package html

import (
	"bytes"
	"io"
	"regexp"

	"github.com/WilliamThogersen/htmlmin/css"
	"github.com/WilliamThogersen/htmlmin/js"
	"github.com/tdewolff/parse/v2"
)

var (
	ltBytes          = []byte("<")
	gtBytes          = []byte(">")
	isBytes          = []byte("=")
	spaceBytes       = []byte(" ")
	endBytes         = []byte("</")
	selfCloseBytes   = []byte("/>")
	commentOpenBytes = []byte("<!--")
	commentEndBytes  = []byte("-->")
	cdataOpenBytes   = []byte("<![CDATA[")
	cdataEndBytes    = []byte("]]>")
	doctypeBytes     = []byte("<!doctype html>")
	trueBytes        = []byte("true")
)

// jsMediatype matches mediatypes of executable script content; anything else
// inside <script> is data and passes through unmodified.
var jsMediatype = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma|j|live)script(1\.[0-5])?$|^module$`)

// Minifier is an HTML minifier. Each field enables one transformation pass;
// the zero value performs no transformation beyond retokenization.
type Minifier struct {
	RemoveComments              bool
	CollapseWhitespace          bool
	RemoveOptionalTags          bool
	RemoveAttributeQuotes       bool
	CollapseBooleanAttributes   bool
	RemoveDefaultAttributes     bool
	RemoveEmptyAttributes       bool
	MinifyJS                    bool
	MinifyCSS                   bool
	PreserveConditionalComments bool
}

// Minify minifies HTML read from r and writes the result to w. The engine is
// stateless: it may be called concurrently on the same Minifier value.
func (o *Minifier) Minify(w io.Writer, r *parse.Input) error {
	l := NewLexer(r)
	tb := NewTokenBuffer(l)

	var stack []string // open elements, for context decisions
	var rawMediatype []byte
	precededBySpace := true // on true the next text token must not start with a space
	elidedEnd := false      // the last emitted position ends in an elided end tag

	for {
		t := *tb.Shift()
		switch t.TokenType {
		case ErrorToken:
			if l.Err() == io.EOF {
				return nil
			}
			return l.Err()
		case DoctypeToken:
			if err := o.writeDoctype(w, t.Data); err != nil {
				return err
			}
		case CommentToken:
			if !o.RemoveComments || o.PreserveConditionalComments && isConditionalComment(t.Data) {
				if err := writeAll(w, commentOpenBytes, t.Data, commentEndBytes); err != nil {
					return err
				}
			}
		case CDATAToken:
			if err := writeAll(w, cdataOpenBytes, t.Data, cdataEndBytes); err != nil {
				return err
			}
			precededBySpace = false
		case TextToken:
			var err error
			precededBySpace, err = o.writeText(w, tb, t.Data, precededBySpace)
			if err != nil {
				return err
			}
		case RawTextToken:
			data := t.Data
			switch string(t.Name) {
			case "style":
				if o.MinifyCSS {
					data = css.Minify(data)
				}
			case "script":
				if o.MinifyJS && isJSMediatype(rawMediatype) {
					data = js.Minify(data)
				}
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
			precededBySpace = false
		case StartTagToken:
			name := string(t.Name)

			// start tags that implicitly close open elements pop them, so the
			// stack mirrors the parser even when end tags were elided; such a
			// start tag is load-bearing and must not be omitted itself
			for 0 < len(stack) {
				closers := omitEndTagMap[stack[len(stack)-1]]
				if closers == nil || !closers[name] {
					break
				}
				stack = stack[:len(stack)-1]
				elidedEnd = true
			}

			if !o.omitStartTag(tb, stack, &t, name, elidedEnd) {
				isRaw := rawTextTagMap[name] && !t.SelfClosing
				if isRaw {
					rawMediatype = nil
				}
				if err := o.writeStartTag(w, &t, name, isRaw, &rawMediatype); err != nil {
					return err
				}
				elidedEnd = false
			}
			if !voidTagMap[name] && !t.SelfClosing {
				stack = append(stack, name)
			}
			if !inlineTagMap[name] {
				precededBySpace = true
			}
		case EndTagToken:
			name := string(t.Name)
			if len(name) == 0 {
				break
			}
			for i := len(stack) - 1; 0 <= i; i-- {
				if stack[i] == name {
					stack = stack[:i]
					break
				}
			}
			if o.omitEndTag(tb, l, name) {
				elidedEnd = true
			} else {
				if err := writeAll(w, endBytes, t.Name, gtBytes); err != nil {
					return err
				}
				elidedEnd = false
			}
			if !inlineTagMap[name] {
				precededBySpace = true
			}
		}
	}
}

func (o *Minifier) writeDoctype(w io.Writer, data []byte) error {
	d := trimWS(data)
	if 7 <= len(d) && parse.EqualFold(d[:7], []byte("doctype")) {
		if parse.EqualFold(trimWS(d[7:]), []byte("html")) {
			_, err := w.Write(doctypeBytes)
			return err
		}
	}
	return writeAll(w, []byte("<!"), data, gtBytes)
}

// writeText applies the whitespace collapser and returns the new
// precededBySpace state.
func (o *Minifier) writeText(w io.Writer, tb *TokenBuffer, data []byte, precededBySpace bool) (bool, error) {
	if !o.CollapseWhitespace {
		if _, err := w.Write(data); err != nil {
			return precededBySpace, err
		}
		if 0 < len(data) {
			precededBySpace = parse.IsWhitespace(data[len(data)-1])
		}
		return precededBySpace, nil
	}

	data = collapseWhitespace(data)
	if precededBySpace && 0 < len(data) && data[0] == ' ' {
		data = data[1:]
	}
	precededBySpace = false
	if len(data) == 0 {
		precededBySpace = true
	} else if data[len(data)-1] == ' ' {
		precededBySpace = true
		trim := false
		for i := 0; ; i++ {
			next := tb.Peek(i)
			if next.TokenType == ErrorToken {
				trim = true
				break
			} else if next.TokenType == TextToken {
				// drop if the next text token starts with whitespace
				trim = 0 < len(next.Data) && parse.IsWhitespace(next.Data[0])
				break
			} else if next.TokenType == StartTagToken || next.TokenType == EndTagToken {
				if !inlineTagMap[string(next.Name)] {
					trim = true
					break
				} else if next.TokenType == StartTagToken {
					break
				}
			} else if next.TokenType == CDATAToken || next.TokenType == RawTextToken {
				break
			}
		}
		if trim {
			data = data[:len(data)-1]
			precededBySpace = false
		}
	}
	_, err := w.Write(data)
	return precededBySpace, err
}

// omitStartTag reports whether an attribute-less start tag sits exactly where
// the parser would insert the element implicitly. A tag directly preceded by
// an elided or implied end tag is kept, since it is what closes that element.
func (o *Minifier) omitStartTag(tb *TokenBuffer, stack []string, t *Token, name string, elidedEnd bool) bool {
	if !o.RemoveOptionalTags || len(t.Attrs) != 0 || t.SelfClosing || !omitStartTagMap[name] {
		return false
	}
	switch name {
	case "html":
		return len(stack) == 0
	case "head", "body":
		return len(stack) == 0 || len(stack) == 1 && stack[0] == "html"
	case "colgroup":
		return !elidedEnd && topIs(stack, "table") && o.nextStartIs(tb, "col")
	case "tbody":
		return !elidedEnd && topIs(stack, "table") && o.nextStartIs(tb, "tr")
	}
	return false
}

// omitEndTag implements the optional-tag transition table. An end tag is
// elided only when the following token is a start tag that implicitly closes
// the element, or end of input; a text token always blocks elision.
func (o *Minifier) omitEndTag(tb *TokenBuffer, l *Lexer, name string) bool {
	if !o.RemoveOptionalTags {
		return false
	}
	switch name {
	case "html", "head", "body":
		next := o.nextMeaningful(tb)
		if next.TokenType == ErrorToken {
			return l.Err() == io.EOF
		}
		return next.TokenType != TextToken && next.TokenType != CommentToken && next.TokenType != CDATAToken
	}
	closers, ok := omitEndTagMap[name]
	if !ok {
		return false
	}
	next := o.nextMeaningful(tb)
	if next.TokenType == ErrorToken {
		return l.Err() == io.EOF
	}
	return next.TokenType == StartTagToken && closers[string(next.Name)]
}

// nextMeaningful peeks past tokens that later passes will drop: whitespace-only
// text when collapsing is enabled, and comments that the comment pass removes.
func (o *Minifier) nextMeaningful(tb *TokenBuffer) *Token {
	for i := 0; ; i++ {
		next := tb.Peek(i)
		if next.TokenType == TextToken && o.CollapseWhitespace && parse.IsAllWhitespace(next.Data) {
			continue
		}
		if next.TokenType == CommentToken && o.RemoveComments &&
			!(o.PreserveConditionalComments && isConditionalComment(next.Data)) {
			continue
		}
		return next
	}
}

func (o *Minifier) nextStartIs(tb *TokenBuffer, name string) bool {
	next := o.nextMeaningful(tb)
	return next.TokenType == StartTagToken && string(next.Name) == name
}

// writeStartTag runs the attribute passes in order (default removal, empty
// removal, boolean collapse, quote removal) and serializes the tag.
func (o *Minifier) writeStartTag(w io.Writer, t *Token, name string, isRaw bool, rawMediatype *[]byte) error {
	if err := writeAll(w, ltBytes, t.Name); err != nil {
		return err
	}
	for _, attr := range t.Attrs {
		if len(attr.Name) == 0 {
			continue
		}
		attrName := string(attr.Name)
		val := attr.Val

		if isRaw && attrName == "type" {
			*rawMediatype = val
		}

		if o.RemoveDefaultAttributes && attr.HasVal {
			if def, ok := defaultAttrMap[elemAttr{name, attrName}]; ok && parse.EqualFold(val, []byte(def)) {
				continue
			}
		}
		if o.RemoveEmptyAttributes && (!attr.HasVal || len(val) == 0) && isEmptyRemovable(attrName) {
			continue
		}
		hasVal := attr.HasVal
		if o.CollapseBooleanAttributes && booleanAttrMap[attrName] && hasVal {
			if len(val) == 0 || parse.EqualFold(val, attr.Name) || parse.EqualFold(val, trueBytes) {
				hasVal = false
			}
		}

		if err := writeAll(w, spaceBytes, attr.Name); err != nil {
			return err
		}
		if !hasVal {
			continue
		}
		if attrName == "style" && o.MinifyCSS {
			val = css.MinifyDeclarations(val)
		}
		if err := writeAll(w, isBytes); err != nil {
			return err
		}
		quote := attr.Quote
		if o.RemoveAttributeQuotes && canUnquote(val) {
			quote = 0
		} else if quote == 0 && !canUnquote(val) {
			quote, val = quoteAttrVal(val)
		}
		if quote == 0 {
			if err := writeAll(w, val); err != nil {
				return err
			}
		} else if err := writeAll(w, []byte{quote}, val, []byte{quote}); err != nil {
			return err
		}
	}
	if t.SelfClosing && !voidTagMap[name] {
		return writeAll(w, selfCloseBytes)
	}
	return writeAll(w, gtBytes)
}

////////////////////////////////////////////////////////////////

func writeAll(w io.Writer, bs ...[]byte) error {
	for _, b := range bs {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

func topIs(stack []string, name string) bool {
	return 0 < len(stack) && stack[len(stack)-1] == name
}

// isConditionalComment reports whether a comment body follows the downlevel
// conditional convention: [if ...] or [endif] after an optional '!' or '<!'
// marker, as used by the downlevel-revealed form.
func isConditionalComment(b []byte) bool {
	if 1 < len(b) && b[0] == '<' && b[1] == '!' {
		b = b[2:]
	}
	if 0 < len(b) && b[0] == '!' {
		b = b[1:]
	}
	if 4 <= len(b) && parse.EqualFold(b[:4], []byte("[if ")) {
		return true
	}
	return 6 <= len(b) && parse.EqualFold(b[:6], []byte("[endif"))
}

func isEmptyRemovable(name string) bool {
	return emptyAttrMap[name] || 2 < len(name) && name[0] == 'o' && name[1] == 'n'
}

// quoteAttrVal picks a quote character that does not occur in val; when both
// kinds occur, embedded double quotes are escaped instead.
func quoteAttrVal(val []byte) (byte, []byte) {
	if bytes.IndexByte(val, '"') == -1 {
		return '"', val
	}
	if bytes.IndexByte(val, '\'') == -1 {
		return '\'', val
	}
	return '"', bytes.ReplaceAll(val, []byte(`"`), []byte("&#34;"))
}

// canUnquote reports whether an attribute value is valid without quotes.
func canUnquote(val []byte) bool {
	if len(val) == 0 {
		return false
	}
	for _, c := range val {
		if parse.IsWhitespace(c) || c == '"' || c == '\'' || c == '`' || c == '=' || c == '<' || c == '>' {
			return false
		}
	}
	return true
}

func isJSMediatype(val []byte) bool {
	if len(val) == 0 {
		return true
	}
	if i := bytes.IndexByte(val, ';'); i != -1 {
		val = val[:i]
	}
	return jsMediatype.Match(toLower(trimWS(val)))
}

// collapseWhitespace reduces every ASCII whitespace run to a single space,
// copying only when a change is needed; the input is never mutated.
func collapseWhitespace(b []byte) []byte {
	changed := false
	prev := false
	for _, c := range b {
		if parse.IsWhitespace(c) {
			if prev || c != ' ' {
				changed = true
				break
			}
			prev = true
		} else {
			prev = false
		}
	}
	if !changed {
		return b
	}
	out := make([]byte, 0, len(b))
	prev = false
	for _, c := range b {
		if parse.IsWhitespace(c) {
			if !prev {
				out = append(out, ' ')
				prev = true
			}
		} else {
			out = append(out, c)
			prev = false
		}
	}
	return out
}
