package html

import (
	"testing"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/test"
)

func TestBuffer(t *testing.T) {
	//    0  1           2    3   4   5    6
	s := `<p><a href="//url">text</a>text</p>`
	z := NewTokenBuffer(NewLexer(parse.NewInputString(s)))

	tok := z.Shift()
	test.That(t, string(tok.Name) == "p", "first token is <p>")
	test.That(t, z.pos == 0, "shift first token and restore position")
	test.That(t, len(z.buf) == 0, "shift first token and restore length")

	test.That(t, z.Peek(2).TokenType == EndTagToken, "third token is </a>")
	test.That(t, z.pos == 0, "don't change position after peeking")
	test.That(t, len(z.buf) == 3, "three tokens after peeking")

	test.That(t, string(z.Peek(4).Name) == "p", "fifth token is </p>")
	test.That(t, z.pos == 0, "don't change position after peeking")
	test.That(t, len(z.buf) == 5, "five tokens after peeking")

	test.That(t, z.Peek(5).TokenType == ErrorToken, "sixth token is an error")
	test.That(t, z.Peek(5) == z.Peek(6), "sixth and seventh tokens are EOF")
	test.That(t, len(z.buf) == 6, "six tokens after peeking")

	_ = z.Shift()
	tok = z.Shift()
	test.That(t, tok.TokenType == TextToken, "third token is text")
	test.That(t, z.pos == 2, "don't change position after peeking")
}
