package js

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestJS(t *testing.T) {
	jsTests := []struct {
		js       string
		expected string
	}{
		{``, ``},
		{`var x = 5;`, `var x=5;`},
		{"function test() {\n\treturn 42;\n}", `function test(){return 42;}`},
		{`// line comment`, ``},
		{"var a = 1; // trailing\nvar b = 2;", `var a=1;var b=2;`},
		{`/* block */ var a = 1;`, `var a=1;`},
		{`var s = "a  //  b";`, `var s="a  //  b";`},
		{`var s = 'it\'s';`, `var s='it\'s';`},
		{"var s = `a  ${ x } b`;", "var s=`a  ${ x } b`;"},
		{`var re = /ab+c/g;`, `var re=/ab+c/g;`},
		{`a = b / c / d;`, `a=b/c/d;`},
		{`a = b / /re/.test(c);`, `a=b/ /re/.test(c);`},
		{`a + +b`, `a+ +b`},
		{`a - -b`, `a- -b`},
		{`return /x \/ y/;`, `return/x \/ y/;`},
		{`var re = /[/]/;`, `var re=/[/]/;`},
	}
	for _, tt := range jsTests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, string(Minify([]byte(tt.js))), tt.expected)
		})
	}
}

func TestJSNewlines(t *testing.T) {
	jsTests := []struct {
		js       string
		expected string
	}{
		// the newline must survive, removing it would change the program
		{"var a = {x: 1}\nvar b = 2", "var a={x:1}\nvar b=2"},
		{"a = b\n(c)", "a=b\n(c)"},
		// safe to join
		{"var a = 1;\nvar b = 2;", "var a=1;var b=2;"},
		{"if (a) {\n  b();\n}", "if(a){b();}"},
		{"a,\nb", "a,b"},
		{"f(\na\n)", "f(a)"},
	}
	for _, tt := range jsTests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, string(Minify([]byte(tt.js))), tt.expected)
		})
	}
}

func TestRegexContext(t *testing.T) {
	test.That(t, isRegexContext([]byte("")))
	test.That(t, isRegexContext([]byte("a=")))
	test.That(t, isRegexContext([]byte("f(")))
	test.That(t, isRegexContext([]byte("return")))
	test.That(t, isRegexContext([]byte("a&&")))
	test.That(t, !isRegexContext([]byte("b")))
	test.That(t, !isRegexContext([]byte("c)")))
	test.That(t, !isRegexContext([]byte("x]")))
	test.That(t, !isRegexContext([]byte("myreturn")))
}
