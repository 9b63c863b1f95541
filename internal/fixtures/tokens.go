// Package fixtures generates randomized-but-lexically-valid source text for
// lexer benchmarks.
package fixtures

import (
	"math/rand"
	"strings"
)

const validLexemes = "if;elif;else;while;for;return;continue;break;int;bool;string;char;float;fn;" +
	"main;sum;testing;counter;(;);{;};;;,;=;" +
	"\"this is a string\";" +
	"\"this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\";" +
	"\"\";+;-;*;/;==;<;<=;>;>=;&&;||;++;--;->;true;false;123;321;3.33;0"

// RandomTokens returns size space-separated lexically valid fragments drawn
// from the language's keyword, operator, literal and identifier vocabulary.
func RandomTokens(size int) string {
	return RandomTokensWithSep(size, " ")
}

// RandomTokensWithSep is RandomTokens with an explicit separator between
// fragments.
func RandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validLexemes, ";")

	toks := make([]string, 0, size)
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
