package html

import (
	"bytes"
	"errors"
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/test"
)

func fullMinifier() *Minifier {
	return &Minifier{
		RemoveComments:            true,
		CollapseWhitespace:        true,
		RemoveOptionalTags:        true,
		RemoveAttributeQuotes:     true,
		CollapseBooleanAttributes: true,
		RemoveDefaultAttributes:   true,
		RemoveEmptyAttributes:     true,
		MinifyJS:                  true,
		MinifyCSS:                 true,
	}
}

func TestHTML(t *testing.T) {
	htmlTests := []struct {
		html     string
		expected string
	}{
		{`<!-- comment -->`, ``},
		{`<p>text</p>`, `<p>text`},
		{`<div>  <p>  x  </p>  </div>`, `<div><p>x</p></div>`},
		{`<div><p>a</p><p>b</p></div>`, `<div><p>a<p>b</p></div>`},
		{`<ul><li>a</li><li>b</li></ul>`, `<ul><li>a<li>b</li></ul>`},
		{`<input type="text" disabled="disabled">`, `<input disabled>`},
		{`<input type="checkbox" checked="checked">`, `<input type=checkbox checked>`},
		{`<input disabled="true">`, `<input disabled>`},
		{`<div hidden="">x</div>`, `<div hidden>x</div>`},
		{`<p id="" class="">x`, `<p>x`},
		{`<a href="">x</a>`, `<a href="">x</a>`},
		{`<p title="a b">x`, `<p title="a b">x`},
		{`<p title='a b'>x`, `<p title='a b'>x`},
		{`<p title=a"b>x`, `<p title='a"b'>x`},
		{`<p title='a"b'>x`, `<p title='a"b'>x`},
		{`<p title=a"b'c>x`, `<p title="a&#34;b'c">x`},
		{`<script type="text/javascript">var a = 1;</script>`, `<script>var a=1;</script>`},
		{`<script type="application/json">{ "a": 1 }</script>`, `<script type=application/json>{ "a": 1 }</script>`},
		{`<style type="text/css">body { color: red; }</style>`, `<style>body{color:red}</style>`},
		{`<pre>  a  b  </pre>`, `<pre>  a  b  </pre>`},
		{`<textarea> keep  this </textarea>`, `<textarea> keep  this </textarea>`},
		{`<!DOCTYPE html>`, `<!doctype html>`},
		{`<![CDATA[ raw <b> ]]>`, `<![CDATA[ raw <b> ]]>`},
		{`<html><head><title> x </title></head><body>y</body></html>`, `<title> x </title>y`},
		{`<table><tbody><tr><td>a</td></tr></tbody></table>`, `<table><tr><td>a</td></tr></tbody></table>`},
		{`<br/>`, `<br>`},
		{`<svg/>`, `<svg/>`},
		{`a < b`, `a < b`},
		{`<p>a <b>c</b> d</p>`, `<p>a <b>c</b> d`},
		{`<p>a  <b> c</b></p>`, `<p>a <b>c</b>`},
		{
			"<div class=\"container\">\n    <p style=\"color: red;\">   Hello,   world!   </p>\n</div>",
			`<div class=container><p style=color:red>Hello, world!</p></div>`,
		},
	}
	m := fullMinifier()
	for _, tt := range htmlTests {
		t.Run(tt.html, func(t *testing.T) {
			r := parse.NewInputString(tt.html)
			w := &bytes.Buffer{}
			err := m.Minify(w, r)
			test.Minify(t, tt.html, err, w.String(), tt.expected)
		})
	}
}

func TestHTMLKeepConditionalComments(t *testing.T) {
	htmlTests := []struct {
		html     string
		expected string
	}{
		{`<!--[if IE 6]>a<![endif]-->`, `<!--[if IE 6]>a<![endif]-->`},
		{`<!--[if !IE]><!-->b<!--<![endif]-->`, `<!--[if !IE]><!-->b<!--<![endif]-->`},
		{`<!--! not conditional -->`, ``},
		{`<!-- normal -->`, ``},
	}
	m := fullMinifier()
	m.PreserveConditionalComments = true
	for _, tt := range htmlTests {
		t.Run(tt.html, func(t *testing.T) {
			r := parse.NewInputString(tt.html)
			w := &bytes.Buffer{}
			err := m.Minify(w, r)
			test.Minify(t, tt.html, err, w.String(), tt.expected)
		})
	}
}

func TestHTMLKeepWhitespace(t *testing.T) {
	htmlTests := []struct {
		html     string
		expected string
	}{
		{`<p> a </p>`, `<p> a </p>`},
		{"<div>\n<p>x</p>\n</div>", "<div>\n<p>x</p>\n</div>"},
	}
	m := &Minifier{RemoveComments: true}
	for _, tt := range htmlTests {
		t.Run(tt.html, func(t *testing.T) {
			r := parse.NewInputString(tt.html)
			w := &bytes.Buffer{}
			err := m.Minify(w, r)
			test.Minify(t, tt.html, err, w.String(), tt.expected)
		})
	}
}

func TestHTMLNoPasses(t *testing.T) {
	htmlTests := []struct {
		html     string
		expected string
	}{
		{`<p id="x">  a  </p><!-- c -->`, `<p id="x">  a  </p><!-- c -->`},
		{`<script type="text/javascript">var a = 1;</script>`, `<script type="text/javascript">var a = 1;</script>`},
	}
	m := &Minifier{}
	for _, tt := range htmlTests {
		t.Run(tt.html, func(t *testing.T) {
			r := parse.NewInputString(tt.html)
			w := &bytes.Buffer{}
			err := m.Minify(w, r)
			test.Minify(t, tt.html, err, w.String(), tt.expected)
		})
	}
}

func TestHTMLError(t *testing.T) {
	for _, s := range []string{"<div", "<!-- x", "<script>var a;"} {
		t.Run(s, func(t *testing.T) {
			m := fullMinifier()
			w := &bytes.Buffer{}
			err := m.Minify(w, parse.NewInputString(s))
			var perr *Error
			test.That(t, errors.As(err, &perr), "error must be an *Error")
			test.T(t, perr.Kind, UnterminatedConstruct)
			test.T(t, perr.Line, 1, "line")
			test.That(t, perr.Context != "", "context must locate the error")
		})
	}
}

func TestConditionalComment(t *testing.T) {
	test.That(t, isConditionalComment([]byte("[if IE 6]>x<![endif]")))
	test.That(t, isConditionalComment([]byte("[endif]")))
	test.That(t, isConditionalComment([]byte("![endif]")))
	test.That(t, isConditionalComment([]byte("<![endif]")))
	test.That(t, !isConditionalComment([]byte("just a comment")))
	test.That(t, !isConditionalComment([]byte("[ifx]")))
}
