package clc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.clc.dev/internal/fixtures"
)

func collectTokens(t *testing.T, l *Lexer) []TokenInfo {
	t.Helper()

	var out []TokenInfo

	for {
		ti, err := l.Next()
		if err != nil {
			require.True(t, errors.Is(err, ErrEndOfFile), "unexpected lexer error: %v", err)
			return out
		}

		out = append(out, ti)
	}
}

func TestLexerIfStatement(t *testing.T) {
	l := NewLexerFromString("if (x == y) {")
	toks := collectTokens(t, l)

	assert.Equal(t, []TokenInfo{
		{Token{Kind: KindKeyword, Value: "if"}, 1, 1},
		{Token{Kind: KindLparen}, 1, 4},
		{Token{Kind: KindIdentifier, Value: "x"}, 1, 5},
		{Token{Kind: KindOperator, Value: "==", Op: OpEqual}, 1, 7},
		{Token{Kind: KindIdentifier, Value: "y"}, 1, 10},
		{Token{Kind: KindRparen}, 1, 11},
		{Token{Kind: KindLCurly}, 1, 13},
	}, toks)
}

func TestLexerStringAssignment(t *testing.T) {
	l := NewLexerFromString(`string testing = "Hello there";`)
	toks := collectTokens(t, l)

	assert.Equal(t, []TokenInfo{
		{Token{Kind: KindKeyword, Value: "string"}, 1, 1},
		{Token{Kind: KindIdentifier, Value: "testing"}, 1, 8},
		{Token{Kind: KindAssignment}, 1, 16},
		{Token{Kind: KindLiteral, Value: "Hello there"}, 1, 18},
		{Token{Kind: KindSemi}, 1, 31},
	}, toks)
}

func TestLexerNumericExpression(t *testing.T) {
	l := NewLexerFromString("bool testing = 5 == 3.33;")
	toks := collectTokens(t, l)

	cols := []int{1, 6, 14, 16, 18, 21, 25}
	require.Len(t, toks, len(cols))

	for i, ti := range toks {
		assert.Equal(t, cols[i], ti.Column, "token %d", i)
	}

	assert.Equal(t, Token{Kind: KindNumber, Value: "5"}, toks[3].Token)
	assert.Equal(t, Token{Kind: KindOperator, Value: "==", Op: OpEqual}, toks[4].Token)
	assert.Equal(t, Token{Kind: KindNumber, Value: "3.33"}, toks[5].Token)
}

func TestLexerFunctionCall(t *testing.T) {
	l := NewLexerFromString("sum(a + b);")
	toks := collectTokens(t, l)

	assert.Equal(t, []TokenInfo{
		{Token{Kind: KindIdentifier, Value: "sum"}, 1, 1},
		{Token{Kind: KindLparen}, 1, 4},
		{Token{Kind: KindIdentifier, Value: "a"}, 1, 5},
		{Token{Kind: KindOperator, Value: "+", Op: OpPlus}, 1, 7},
		{Token{Kind: KindIdentifier, Value: "b"}, 1, 9},
		{Token{Kind: KindRparen}, 1, 10},
		{Token{Kind: KindSemi}, 1, 11},
	}, toks)
}

func TestLexerMultiline(t *testing.T) {
	l := NewLexerFromString("if\nwhile\nfor")
	toks := collectTokens(t, l)

	assert.Equal(t, []TokenInfo{
		{Token{Kind: KindKeyword, Value: "if"}, 1, 1},
		{Token{Kind: KindKeyword, Value: "while"}, 2, 1},
		{Token{Kind: KindKeyword, Value: "for"}, 3, 1},
	}, toks)
}

func TestLexerEmptyInputReachesEndOfFile(t *testing.T) {
	l := NewLexerFromString("")

	_, err := l.Next()
	assert.True(t, errors.Is(err, ErrEndOfFile))
}

func TestLexerFromFileMissingPath(t *testing.T) {
	_, err := NewLexerFromFile("/does/not/exist")

	var openErr *FileOpenError
	require.True(t, errors.As(err, &openErr))
	assert.Equal(t, "/does/not/exist", openErr.Path)
}

func TestLexerPeekIsIdempotent(t *testing.T) {
	l := NewLexerFromString("int a = 3;")

	first, err := l.Peek()
	require.NoError(t, err)

	second, err := l.Peek()
	require.NoError(t, err)

	assert.Equal(t, first, second)

	consumed, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, first, consumed)
}

func TestLexerGreedyOperators(t *testing.T) {
	pairs := map[string]Operator{
		"==": OpEqual,
		"<=": OpLesserEqual,
		">=": OpGreaterEqual,
		"&&": OpAnd,
		"||": OpOr,
		"++": OpIncrement,
		"--": OpDecrement,
		"->": OpPointer,
	}

	for lexeme, op := range pairs {
		l := NewLexerFromString(lexeme + " x")

		ti, err := l.Next()
		require.NoError(t, err)
		assert.Equal(t, Token{Kind: KindOperator, Value: lexeme, Op: op}, ti.Token, "lexeme %q", lexeme)
	}
}

func TestLexerKeywordVsIdentifier(t *testing.T) {
	l := NewLexerFromString("if ifoo")
	toks := collectTokens(t, l)

	require.Len(t, toks, 2)
	assert.Equal(t, Token{Kind: KindKeyword, Value: "if"}, toks[0].Token)
	assert.Equal(t, Token{Kind: KindIdentifier, Value: "ifoo"}, toks[1].Token)
}

func TestLexerDotIsIdentifierCharacter(t *testing.T) {
	l := NewLexerFromString("a.b")

	ti, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, Token{Kind: KindIdentifier, Value: "a.b"}, ti.Token)
}

func TestLexerCheckpointRestoresObservedSequence(t *testing.T) {
	data := []byte("if (x)")
	b := NewBufferReaderFromBytes(data)

	require.NoError(t, b.Checkpoint())

	var first []byte
	for i := 0; i < len(data); i++ {
		c, err := b.ReadChar()
		require.NoError(t, err)
		first = append(first, c)
	}

	require.NoError(t, b.Back())

	var second []byte
	for i := 0; i < len(data); i++ {
		c, err := b.ReadChar()
		require.NoError(t, err)
		second = append(second, c)
	}

	assert.Equal(t, first, second)
}

func TestLexerCheckpointAfterPeekRestoresPeekedChar(t *testing.T) {
	data := []byte("if (x)")
	b := NewBufferReaderFromBytes(data)

	peeked, ok := b.PeekChar()
	require.True(t, ok)
	assert.Equal(t, byte('i'), peeked)

	require.NoError(t, b.Checkpoint())

	for i := 0; i < len(data); i++ {
		_, err := b.ReadChar()
		require.NoError(t, err)
	}

	require.NoError(t, b.Back())

	restored, err := b.ReadChar()
	require.NoError(t, err)
	assert.Equal(t, peeked, restored, "Back after a pre-checkpoint peek must still replay the peeked char")
}

func TestBufferReaderReadLine(t *testing.T) {
	b := NewBufferReaderFromBytes([]byte("if (x)\nwhile (y)\nlast"))

	var buf bytes.Buffer

	n, err := b.ReadLine(&buf)
	require.NoError(t, err)
	assert.Equal(t, len("if (x)\n"), n)
	assert.Equal(t, "if (x)", buf.String())

	n, err = b.ReadLine(&buf)
	require.NoError(t, err)
	assert.Equal(t, len("while (y)\n"), n)
	assert.Equal(t, "while (y)", buf.String())

	n, err = b.ReadLine(&buf)
	require.NoError(t, err)
	assert.Equal(t, len("last"), n)
	assert.Equal(t, "last", buf.String())

	n, err = b.ReadLine(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

var benchResult []TokenInfo

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := fixtures.RandomTokens(size)
		l := NewLexerFromString(data)
		b.StartTimer()

		var toks []TokenInfo
		for {
			ti, err := l.Next()
			if err != nil {
				break
			}

			toks = append(toks, ti)
		}

		benchResult = toks
	}
}

func BenchmarkLexer100(b *testing.B)    { benchmarkLexer(100, b) }
func BenchmarkLexer1000(b *testing.B)   { benchmarkLexer(1000, b) }
func BenchmarkLexer10000(b *testing.B)  { benchmarkLexer(10000, b) }
func BenchmarkLexer100000(b *testing.B) { benchmarkLexer(100000, b) }
