package clc

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrEndOfFile is returned by Next once the token stream has been fully
// consumed.
var ErrEndOfFile = errors.New("clc: end of file")

// FileOpenError reports that a file-backed Lexer could not be constructed.
type FileOpenError struct {
	Path string
	Err  error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("clc: cannot open file %q: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}

// ReadLineError wraps an underlying I/O failure encountered while scanning.
type ReadLineError struct {
	Err error
}

func (e *ReadLineError) Error() string {
	return fmt.Sprintf("clc: failed to read next line: %v", e.Err)
}

func (e *ReadLineError) Unwrap() error {
	return e.Err
}

// TokenInfo pairs a Token with the 1-based source position of its first
// character.
type TokenInfo struct {
	Token  Token
	Line   int
	Column int
}

// Tokenizer is the contract RecursiveDescentParser depends on: one token of
// non-consuming look-ahead plus consumption. Lexer is the only
// implementation, but the parser is coded against this interface rather
// than the concrete type.
type Tokenizer interface {
	Peek() (TokenInfo, error)
	Next() (TokenInfo, error)
}

// Lexer turns a character stream into a sequence of TokenInfo values. It
// tracks line/column as it scans and offers one-token look-ahead via Peek.
// A Lexer is not safe for concurrent use and should never be reused once
// exhausted.
type Lexer struct {
	line   int
	column int
	buf    *BufferReader
	peeked *TokenInfo
}

// NewLexer creates a lexer reading from an in-memory byte slice.
func NewLexer(data []byte) *Lexer {
	return &Lexer{
		line:   1,
		column: 0,
		buf:    NewBufferReaderFromBytes(data),
	}
}

// NewLexerFromString creates a lexer reading from s.
func NewLexerFromString(s string) *Lexer {
	return NewLexer([]byte(s))
}

// NewLexerFromFile opens path and creates a lexer reading from its
// contents. Failure to open the file is reported as a *FileOpenError.
func NewLexerFromFile(path string) (*Lexer, error) {
	buf, err := NewBufferReaderFromFile(path)
	if err != nil {
		return nil, &FileOpenError{Path: path, Err: err}
	}

	return &Lexer{line: 1, column: 0, buf: buf}, nil
}

// Peek returns the next TokenInfo without consuming it. Repeated calls
// without an intervening Next return the same value.
func (l *Lexer) Peek() (TokenInfo, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	ti, err := l.produce()
	if err != nil {
		return TokenInfo{}, err
	}

	l.peeked = &ti

	return ti, nil
}

// Next returns the next TokenInfo, consuming it. If a token was peeked, it
// is returned and the memo is cleared without a further scan.
func (l *Lexer) Next() (TokenInfo, error) {
	if l.peeked != nil {
		ti := *l.peeked
		l.peeked = nil

		return ti, nil
	}

	return l.produce()
}

// produce scans the next TokenInfo from the underlying buffer.
func (l *Lexer) produce() (TokenInfo, error) {
	if _, ok := l.buf.PeekChar(); !ok {
		return TokenInfo{}, ErrEndOfFile
	}

	var word bytes.Buffer

	inString := false
	startLine := l.line
	startColumn := l.column + 1

scan:
	for {
		c, err := l.buf.ReadChar()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				break scan
			}

			return TokenInfo{}, &ReadLineError{Err: err}
		}

		l.column++

		if c == '\n' {
			l.line++
			l.column = 0

			break scan
		}

		n := byte(' ')
		if peeked, ok := l.buf.PeekChar(); ok {
			n = peeked
		}

		if isWhitespace(c) && !inString {
			if word.Len() > 0 {
				break scan
			}

			startColumn++

			continue
		}

		if !inString && n != ' ' && IsOperator(string(c)+string(n)) {
			l.buf.ReadChar()
			l.column++

			op, _ := ParseOperator(string(c) + string(n))

			return TokenInfo{
				Token:  Token{Kind: KindOperator, Value: string(c) + string(n), Op: op},
				Line:   startLine,
				Column: startColumn,
			}, nil
		}

		if !inString && (IsSpecialChar(c) || IsOperator(string(c))) {
			return TokenInfo{
				Token:  TokenFromChar(c),
				Line:   startLine,
				Column: startColumn,
			}, nil
		}

		word.WriteByte(c)

		if c == '"' {
			inString = !inString
		}

		if !inString && IsSpecialChar(n) {
			break scan
		}
	}

	if word.Len() == 0 {
		return l.produce()
	}

	return TokenInfo{
		Token:  TokenFromWord(word.String()),
		Line:   startLine,
		Column: startColumn,
	}, nil
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}
