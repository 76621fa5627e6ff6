package htmlmin

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func TestMinify(t *testing.T) {
	htmlTests := []struct {
		html     string
		expected string
	}{
		{``, ``},
		{`<!-- comment --><p>text</p>`, `<p>text`},
		{
			"<div class=\"container\">\n    <p style=\"color: red;\">   Hello,   world!   </p>\n</div>",
			`<div class=container><p style=color:red>Hello, world!</p></div>`,
		},
		{`<pre>  keep   me  </pre>`, `<pre>  keep   me  </pre>`},
		{`<script type="application/json">{ "a": 1 }</script>`, `<script type=application/json>{ "a": 1 }</script>`},
	}
	for _, tt := range htmlTests {
		t.Run(tt.html, func(t *testing.T) {
			out, err := Minify([]byte(tt.html), nil)
			test.Error(t, err)
			test.String(t, string(out), tt.expected)
		})
	}
}

func TestMinifyIdempotent(t *testing.T) {
	inputs := []string{
		"<div class=\"container\">\n    <p style=\"color: red;\">   Hello,   world!   </p>\n</div>",
		`<ul><li>a</li><li>b</li></ul>`,
		`<html><head><title>x</title></head><body>y</body></html>`,
		`<input type="text" disabled="disabled">`,
		`<p title=a"b>x</p>`,
		`<p title=a"b'c>x</p>`,
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once, err := Minify([]byte(input), nil)
			test.Error(t, err)
			twice, err := Minify(once, nil)
			test.Error(t, err)
			test.String(t, string(twice), string(once), "minification must be idempotent")
		})
	}
}

func TestMinifyString(t *testing.T) {
	out, err := MinifyString(`<p>a</p> `, nil)
	test.Error(t, err)
	test.String(t, out, `<p>a`)
}

func TestMinifyErrors(t *testing.T) {
	var perr *Error

	_, err := Minify([]byte("<p>\xffoops"), nil)
	test.That(t, errors.As(err, &perr), "error must be an *Error")
	test.T(t, perr.Kind, ErrInvalidUTF8)
	test.T(t, perr.Offset, 3)
	test.T(t, perr.Line, 1, "line")
	test.T(t, perr.Column, 4, "column")

	_, err = Minify([]byte("<div"), nil)
	test.That(t, errors.As(err, &perr), "error must be an *Error")
	test.T(t, perr.Kind, ErrUnterminatedConstruct)

	_, err = Minify([]byte("<!-- never closed"), nil)
	test.That(t, errors.As(err, &perr), "error must be an *Error")
	test.T(t, perr.Kind, ErrUnterminatedConstruct)
}

func TestMinifyLimit(t *testing.T) {
	input := []byte(`<p>text</p>`)

	out, err := MinifyLimit(input, nil, 0)
	test.Error(t, err)
	test.String(t, string(out), `<p>text`)

	out, err = MinifyLimit(input, nil, len(input))
	test.Error(t, err)
	test.String(t, string(out), `<p>text`)

	_, err = MinifyLimit(input, nil, 4)
	var perr *Error
	test.That(t, errors.As(err, &perr), "error must be an *Error")
	test.T(t, perr.Kind, ErrInputTooLarge)
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"default", "conservative", "minimal"} {
		if _, ok := Preset(name); !ok {
			test.Fail(t, "preset must exist:", name)
		}
	}
	if _, ok := Preset("bogus"); ok {
		test.Fail(t, "preset must not exist: bogus")
	}

	conservative := Conservative()
	out, err := Minify([]byte(`<p id="x">  a  </p>`), &conservative)
	test.Error(t, err)
	test.String(t, string(out), `<p id="x">a</p>`)

	minimal := Minimal()
	out, err = Minify([]byte("<script>var a = 1;</script>  <!-- c -->"), &minimal)
	test.Error(t, err)
	test.String(t, string(out), `<script>var a = 1;</script>`)
}

func TestMinifyCSSJS(t *testing.T) {
	out, err := MinifyCSS([]byte(`body { color: red; }`))
	test.Error(t, err)
	test.String(t, string(out), `body{color:red}`)

	out, err = MinifyJS([]byte(`var x = 5;`))
	test.Error(t, err)
	test.String(t, string(out), `var x=5;`)

	var perr *Error
	_, err = MinifyJS([]byte("var s = \"\xff\";"))
	test.That(t, errors.As(err, &perr), "error must be an *Error")
	test.T(t, perr.Kind, ErrInvalidUTF8)
}
