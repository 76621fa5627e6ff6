// Package js performs a lexical reduction of JavaScript: comment removal and
// whitespace collapsing guided by a scanner that understands string, template
// and regular-expression literals. It never renames identifiers or reorders
// statements, and it prefers leaving bytes untouched over risking a change in
// script semantics.
package js

import "bytes"

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '$' || 0x80 <= c
}

// regexKeywords are keywords after which a '/' starts a regular expression.
var regexKeywords = [][]byte{
	[]byte("return"),
	[]byte("throw"),
	[]byte("new"),
	[]byte("typeof"),
	[]byte("void"),
	[]byte("delete"),
	[]byte("in"),
	[]byte("of"),
	[]byte("instanceof"),
	[]byte("yield"),
	[]byte("await"),
	[]byte("case"),
	[]byte("do"),
	[]byte("else"),
}

// Minify returns a lexically reduced copy of b. Content inside string, template
// and regex literals is copied verbatim and never scanned for comment
// delimiters.
func Minify(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '\'':
			i = copyString(&out, b, i)
		case c == '`':
			i = copyTemplate(&out, b, i)
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			j := i + 2
			for j < len(b) && b[j] != '\n' {
				j++
			}
			i = j // the newline is handled by the whitespace rule
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			j := i + 2
			for j < len(b) && !(b[j] == '*' && j+1 < len(b) && b[j+1] == '/') {
				j++
			}
			newline := bytes.IndexByte(b[i:j], '\n') >= 0
			if j+1 < len(b) {
				j += 2
			} else {
				j = len(b)
			}
			i = j
			// a block comment separates tokens like the whitespace it replaces
			if newline {
				emitNewline(&out, b, i)
			} else {
				emitSpace(&out, b, i)
			}
		case c == '/':
			if isRegexContext(out) {
				i = copyRegex(&out, b, i)
			} else {
				out = append(out, c)
				i++
			}
		case isWhitespace(c):
			newline := false
			j := i
			for j < len(b) && isWhitespace(b[j]) {
				if b[j] == '\n' {
					newline = true
				}
				j++
			}
			i = j
			if newline {
				emitNewline(&out, b, i)
			} else {
				emitSpace(&out, b, i)
			}
		default:
			out = append(out, c)
			i++
		}
	}
	out = bytes.TrimRight(out, " \n")
	return out
}

// hazardPair reports byte pairs that must not be glued together: they would
// re-lex as a different token (increment, decrement or a comment opener).
func hazardPair(last, next byte) bool {
	return last == '+' && next == '+' || last == '-' && next == '-' ||
		last == '/' && (next == '/' || next == '*')
}

// emitSpace writes a single space when dropping the run would glue two
// identifier-like tokens or a hazardous operator pair together.
func emitSpace(out *[]byte, b []byte, next int) {
	if len(*out) == 0 {
		return
	}
	last := (*out)[len(*out)-1]
	if last == ' ' || last == '\n' {
		return
	}
	if next < len(b) && (isIdentChar(last) && isIdentChar(b[next]) || hazardPair(last, b[next])) {
		*out = append(*out, ' ')
	}
}

// emitNewline collapses a newline-bearing run. The newline is dropped only
// when the last emitted byte proves no statement boundary can be lost;
// otherwise a single newline is kept so automatic semicolon insertion is
// unaffected.
func emitNewline(out *[]byte, b []byte, next int) {
	if len(*out) == 0 {
		return
	}
	last := (*out)[len(*out)-1]
	if last == ' ' || last == '\n' {
		return
	}
	if next < len(b) && hazardPair(last, b[next]) {
		*out = append(*out, ' ')
		return
	}
	switch last {
	case ';', ',', '{', '(', '[', ':', '=', '&', '|', '+', '-', '*', '/', '<', '>', '!', '?', '%', '^', '~':
		// '}' is absent: a newline after '}' may end an object literal
		// initializer where automatic semicolon insertion applies
		return
	}
	if next < len(b) {
		switch b[next] {
		case '}', ')', ']', ';', ',', '.', ':', '=', '&', '|', '<', '>', '?':
			// continuation tokens cannot start a new statement
			return
		}
	}
	*out = append(*out, '\n')
}

func copyString(out *[]byte, b []byte, i int) int {
	quote := b[i]
	j := i + 1
	for j < len(b) {
		if b[j] == '\\' && j+1 < len(b) {
			j += 2
			continue
		}
		if b[j] == quote {
			j++
			break
		}
		j++
	}
	*out = append(*out, b[i:j]...)
	return j
}

func copyTemplate(out *[]byte, b []byte, i int) int {
	j := i + 1
	depth := 0
	for j < len(b) {
		switch b[j] {
		case '\\':
			j++
		case '$':
			if j+1 < len(b) && b[j+1] == '{' {
				depth++
				j++
			}
		case '}':
			if 0 < depth {
				depth--
			}
		case '`':
			if depth == 0 {
				j++
				*out = append(*out, b[i:j]...)
				return j
			}
		}
		j++
	}
	*out = append(*out, b[i:]...)
	return len(b)
}

func copyRegex(out *[]byte, b []byte, i int) int {
	j := i + 1
	inClass := false
	for j < len(b) {
		switch b[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n', '\r':
			// not a valid regex after all, emit what was scanned
			*out = append(*out, b[i:j]...)
			return j
		case '/':
			if !inClass {
				j++
				for j < len(b) && (b[j] == 'g' || b[j] == 'i' || b[j] == 'm' || b[j] == 's' || b[j] == 'u' || b[j] == 'y' || b[j] == 'd' || b[j] == 'v') {
					j++
				}
				*out = append(*out, b[i:j]...)
				return j
			}
		}
		j++
	}
	*out = append(*out, b[i:]...)
	return len(b)
}

// isRegexContext reports whether a '/' at the current position starts a regex
// literal rather than a division, judged from the already emitted output.
// When the evidence is ambiguous it reports false, since leaving a division
// untouched is always safe.
func isRegexContext(out []byte) bool {
	t := bytes.TrimRight(out, " \n")
	if len(t) == 0 {
		return true
	}
	last := t[len(t)-1]
	switch last {
	case '(', '[', '{', ',', ';', ':', '=', '!', '&', '|', '?', '~':
		return true
	}
	if 2 <= len(t) {
		switch string(t[len(t)-2:]) {
		case "++", "--", "**", "==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "??":
			return true
		}
	}
	switch last {
	case '+', '-', '*', '%', '<', '>':
		if 2 <= len(t) {
			prev := t[len(t)-2]
			if isIdentChar(prev) || prev == ')' || prev == ']' {
				return false
			}
		}
		return true
	}
	for _, kw := range regexKeywords {
		if bytes.HasSuffix(t, kw) {
			if len(t) == len(kw) || !isIdentChar(t[len(t)-len(kw)-1]) {
				return true
			}
		}
	}
	return false
}
