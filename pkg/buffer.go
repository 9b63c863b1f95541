package clc

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// ErrEndOfStream is returned by ReadChar once the underlying stream has been
// fully consumed.
var ErrEndOfStream = errors.New("clc: end of stream")

// ErrNoCheckpoint is returned by Back when the checkpoint stack is empty.
var ErrNoCheckpoint = errors.New("clc: no checkpoint to restore")

// SeekReader is the capability set a BufferReader needs from its backing
// store: sequential byte reads plus absolute seeking. *os.File and
// *bytes.Reader both satisfy it, which is all BufferReader cares about —
// whether the bytes ultimately come from disk or memory is invisible past
// this interface.
type SeekReader interface {
	io.Reader
	io.Seeker
}

// BufferReader presents a seekable byte stream with single-character
// look-ahead and a LIFO stack of checkpoints. Reading and peeking always
// observe the same sequence of bytes regardless of how they're interleaved,
// and checkpoint/back restores the stream to exactly the state observed at
// the matching checkpoint call.
type BufferReader struct {
	r           SeekReader
	peeked      *byte
	checkpoints []int64
}

// NewBufferReader wraps an arbitrary seekable byte source.
func NewBufferReader(r SeekReader) *BufferReader {
	return &BufferReader{r: r}
}

// NewBufferReaderFromBytes backs a BufferReader with an in-memory buffer.
func NewBufferReaderFromBytes(data []byte) *BufferReader {
	return NewBufferReader(bytes.NewReader(data))
}

// NewBufferReaderFromFile opens path and backs a BufferReader with it.
func NewBufferReaderFromFile(path string) (*BufferReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return NewBufferReader(f), nil
}

// ReadChar returns the next byte in the stream, consuming it. If a byte has
// been peeked, that byte is returned and the peek slot is cleared without a
// further physical read.
func (b *BufferReader) ReadChar() (byte, error) {
	if b.peeked != nil {
		c := *b.peeked
		b.peeked = nil

		return c, nil
	}

	return b.readByte()
}

// PeekChar returns the next byte without consuming it. On the first call
// after an advance it performs one physical read and caches the result;
// later calls return the cached byte. The second return value is false at
// end-of-stream and also when the underlying read fails; the two cases are
// not distinguished.
func (b *BufferReader) PeekChar() (byte, bool) {
	if b.peeked == nil {
		c, err := b.readByte()
		if err != nil {
			return 0, false
		}

		b.peeked = &c
	}

	return *b.peeked, true
}

// ReadLine reads up to and including the next newline into buf, with the
// terminating newline stripped. It returns the number of bytes read; 0
// means end-of-stream.
func (b *BufferReader) ReadLine(buf *bytes.Buffer) (int, error) {
	buf.Reset()

	n := 0
	for {
		c, err := b.ReadChar()
		if err != nil {
			if errors.Is(err, ErrEndOfStream) {
				return n, nil
			}

			return n, err
		}

		n++
		if c == '\n' {
			break
		}

		buf.WriteByte(c)
	}

	return n, nil
}

// Checkpoint pushes the current stream position on the checkpoint stack. If
// a character has been peeked but not consumed, the recorded position is one
// less than the physical cursor, so a subsequent Back restores the
// pre-peek state.
func (b *BufferReader) Checkpoint() error {
	pos, err := b.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	if b.peeked != nil {
		pos--
	}

	b.checkpoints = append(b.checkpoints, pos)

	return nil
}

// Back pops a checkpoint and seeks the stream back to it, clearing any
// peeked character. It fails if the checkpoint stack is empty.
func (b *BufferReader) Back() error {
	if len(b.checkpoints) == 0 {
		return ErrNoCheckpoint
	}

	pos := b.checkpoints[len(b.checkpoints)-1]
	b.checkpoints = b.checkpoints[:len(b.checkpoints)-1]

	if _, err := b.r.Seek(pos, io.SeekStart); err != nil {
		return err
	}

	b.peeked = nil

	return nil
}

func (b *BufferReader) readByte() (byte, error) {
	var buf [1]byte

	n, err := io.ReadFull(b.r, buf[:])
	if n == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, ErrEndOfStream
		}

		return 0, err
	}

	return buf[0], nil
}
