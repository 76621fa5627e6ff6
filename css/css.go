// Package css performs a lexical reduction of CSS: it strips comments and
// collapses whitespace without parsing selectors or properties. Malformed
// input is reduced best-effort and never causes an error.
package css

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// noSpaceAfter lists bytes after which a whitespace run carries no meaning.
func noSpaceAfter(c byte) bool {
	switch c {
	case '{', '}', ':', ';', ',', '>', '+', '~', '(', '[':
		return true
	}
	return false
}

// noSpaceBefore lists bytes before which a whitespace run carries no meaning.
func noSpaceBefore(c byte) bool {
	switch c {
	case '{', '}', ':', ';', ',', ')', ']':
		return true
	}
	return false
}

// Minify returns a lexically reduced copy of b: comments are removed,
// whitespace runs collapse to nothing around separators and to a single space
// elsewhere, and a semicolon directly before '}' is dropped. String literals
// pass through verbatim.
func Minify(b []byte) []byte {
	out := make([]byte, 0, len(b))
	var last byte
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(b) {
				if b[j] == '\\' && j+1 < len(b) {
					j += 2
					continue
				}
				if b[j] == c {
					j++
					break
				}
				j++
			}
			out = append(out, b[i:j]...)
			last = c
			i = j
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			j := i + 2
			for j < len(b) && !(b[j] == '*' && j+1 < len(b) && b[j+1] == '/') {
				j++
			}
			if j+1 < len(b) {
				j += 2
			} else {
				j = len(b)
			}
			i = j
		case isWhitespace(c):
			for i < len(b) && isWhitespace(b[i]) {
				i++
			}
			var next byte
			if i < len(b) {
				next = b[i]
			}
			if 0 < len(out) && last != ' ' && next != 0 && !noSpaceAfter(last) && !noSpaceBefore(next) {
				out = append(out, ' ')
				last = ' '
			}
		case c == ':' || c == ',' || c == '{' || c == '>' || c == '+' || c == '~':
			if last == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, c)
			last = c
			i++
		case c == ';':
			j := i + 1
			for j < len(b) && isWhitespace(b[j]) {
				j++
			}
			if j < len(b) && b[j] == '}' {
				// a semicolon before '}' is redundant
				last = ';'
				i++
				break
			}
			if last == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, ';')
			last = ';'
			i++
		case c == '}':
			if 0 < len(out) && (out[len(out)-1] == ' ' || out[len(out)-1] == ';') {
				out = out[:len(out)-1]
			}
			out = append(out, '}')
			last = '}'
			i++
		default:
			out = append(out, c)
			last = c
			i++
		}
	}
	if 0 < len(out) && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return out
}

// MinifyDeclarations reduces the declaration list of a style attribute; on top
// of Minify it drops trailing semicolons, which are optional in that position.
func MinifyDeclarations(b []byte) []byte {
	out := Minify(b)
	for 0 < len(out) && out[len(out)-1] == ';' {
		out = out[:len(out)-1]
	}
	return out
}
