package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poshell/internal/lexer"
)

func words(tokens []lexer.Token) []string {
	var out []string
	for _, tok := range tokens {
		if tok.Kind == lexer.Word {
			out = append(out, tok.Text)
		}
	}
	return out
}

func TestScanEmptyAndComment(t *testing.T) {
	assert.Empty(t, lexer.Scan(""))
	assert.Empty(t, lexer.Scan("   "))
	assert.Empty(t, lexer.Scan("# this is a comment"))
	assert.Empty(t, lexer.Scan("  # indented comment"))
}

func TestScanSimpleWords(t *testing.T) {
	tokens := lexer.Scan("ls -la /tmp")
	assert.Equal(t, []string{"ls", "-la", "/tmp"}, words(tokens))
	for _, tok := range tokens {
		assert.Equal(t, lexer.Word, tok.Kind)
	}
}

func TestScanQuotedWordKeepsWhitespace(t *testing.T) {
	tokens := lexer.Scan(`echo "hello world"`)
	assert.Equal(t, []string{"echo", "hello world"}, words(tokens))
}

func TestScanAdjacentQuoteAndUnquotedMerge(t *testing.T) {
	tokens := lexer.Scan(`echo foo"bar baz"qux`)
	assert.Equal(t, []string{"echo", "foobar bazqux"}, words(tokens))
}

func TestScanSingleQuotesIgnoreDoubleQuoteInside(t *testing.T) {
	tokens := lexer.Scan(`echo 'a"b'`)
	assert.Equal(t, []string{"echo", `a"b`}, words(tokens))
}

func TestScanOperators(t *testing.T) {
	tokens := lexer.Scan("cat < in.txt | grep test > out.txt")
	kinds := make([]lexer.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []lexer.Kind{
		lexer.Word, lexer.RedirIn, lexer.Word, lexer.Pipe,
		lexer.Word, lexer.Word, lexer.RedirOut, lexer.Word,
	}, kinds)
}

func TestScanAppendIsGreedy(t *testing.T) {
	tokens := lexer.Scan("echo hello >> log.txt")
	var found lexer.Kind
	for _, tok := range tokens {
		if tok.Kind == lexer.RedirAppend || tok.Kind == lexer.RedirOut {
			found = tok.Kind
		}
	}
	assert.Equal(t, lexer.RedirAppend, found)
}

func TestScanBackground(t *testing.T) {
	tokens := lexer.Scan("sleep 5 &")
	last := tokens[len(tokens)-1]
	assert.Equal(t, lexer.Background, last.Kind)
}

func TestScanUnterminatedQuoteExtendsToEOL(t *testing.T) {
	tokens := lexer.Scan(`echo "unterminated`)
	assert.Equal(t, []string{"echo", "unterminated"}, words(tokens))
}
