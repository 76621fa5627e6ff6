// Package htmlmin minifies HTML documents and fragments. It removes comments,
// collapses whitespace, elides optional tags and redundant attribute syntax,
// and lexically reduces embedded CSS and JavaScript, while guaranteeing that
// the content of pre, textarea, title and non-executable script elements is
// preserved byte-for-byte.
package htmlmin

import (
	"bytes"
	"unicode/utf8"

	"github.com/WilliamThogersen/htmlmin/css"
	"github.com/WilliamThogersen/htmlmin/html"
	"github.com/WilliamThogersen/htmlmin/js"
	"github.com/tdewolff/parse/v2"
)

// Version is the release version of this library.
const Version = "1.0.0"

// Error is the error type returned for malformed input, carrying the kind of
// failure and the input position where it was detected.
type Error = html.Error

// ErrorKind distinguishes the failure classes of an Error.
type ErrorKind = html.ErrorKind

// Error kinds.
const (
	ErrInvalidUTF8           = html.InvalidUTF8
	ErrUnterminatedConstruct = html.UnterminatedConstruct
	ErrInputTooLarge         = html.InputTooLarge
	ErrInternal              = html.Internal
)

// Minify minifies the HTML in input according to o and returns the result as
// a new slice. A nil o selects the Default preset. On error no partial output
// is returned. Input must be valid UTF-8; output is valid UTF-8 whenever the
// input is.
func Minify(input []byte, o *Options) ([]byte, error) {
	if o == nil {
		def := Default()
		o = &def
	}
	if len(input) == 0 {
		return []byte{}, nil
	}
	if i := invalidUTF8(input); i != -1 {
		return nil, html.NewError(html.InvalidUTF8, parse.NewInputBytes(input), i, "invalid UTF-8 byte sequence")
	}

	m := html.Minifier{
		RemoveComments:              o.RemoveComments,
		CollapseWhitespace:          o.CollapseWhitespace,
		RemoveOptionalTags:          o.RemoveOptionalTags,
		RemoveAttributeQuotes:       o.RemoveAttributeQuotes,
		CollapseBooleanAttributes:   o.CollapseBooleanAttributes,
		RemoveDefaultAttributes:     o.RemoveDefaultAttributes,
		RemoveEmptyAttributes:       o.RemoveEmptyAttributes,
		MinifyJS:                    o.MinifyJS,
		MinifyCSS:                   o.MinifyCSS,
		PreserveConditionalComments: o.PreserveConditionalComments,
	}
	out := bytes.NewBuffer(make([]byte, 0, len(input)))
	if err := m.Minify(out, parse.NewInputBytes(input)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MinifyString is Minify for strings.
func MinifyString(input string, o *Options) (string, error) {
	b, err := Minify([]byte(input), o)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MinifyLimit is Minify with a size ceiling: inputs longer than limit bytes
// are rejected up front with an InputTooLarge error. A limit of zero or less
// disables the check.
func MinifyLimit(input []byte, o *Options, limit int) ([]byte, error) {
	if 0 < limit && limit < len(input) {
		return nil, html.NewError(html.InputTooLarge, parse.NewInputBytes(input), limit, "input size %d exceeds limit %d", len(input), limit)
	}
	return Minify(input, o)
}

// MinifyCSS lexically reduces a standalone CSS stylesheet. Malformed input is
// reduced best-effort; only invalid UTF-8 is rejected.
func MinifyCSS(input []byte) ([]byte, error) {
	if i := invalidUTF8(input); i != -1 {
		return nil, html.NewError(html.InvalidUTF8, parse.NewInputBytes(input), i, "invalid UTF-8 byte sequence")
	}
	return css.Minify(input), nil
}

// MinifyJS lexically reduces standalone JavaScript source. Malformed input is
// reduced best-effort; only invalid UTF-8 is rejected.
func MinifyJS(input []byte) ([]byte, error) {
	if i := invalidUTF8(input); i != -1 {
		return nil, html.NewError(html.InvalidUTF8, parse.NewInputBytes(input), i, "invalid UTF-8 byte sequence")
	}
	return js.Minify(input), nil
}

// invalidUTF8 returns the offset of the first invalid byte sequence, or -1.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
