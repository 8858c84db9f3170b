package interp

import (
	"bufio"
	"io"
	"strings"
)

// LineSource delivers lines of input for the read-int and read-line
// commands. Lines are returned without their line terminator.
type LineSource interface {
	ReadLine() (string, error)
}

// KeySource delivers single keystrokes for the read-char command.
type KeySource interface {
	ReadKey() (rune, error)
}

// ReaderSource is a LineSource and KeySource reading from an io.Reader.
// Line input and keystrokes share one buffer.
type ReaderSource struct {
	r *bufio.Reader
}

var _ LineSource = (*ReaderSource)(nil)
var _ KeySource = (*ReaderSource)(nil)

// NewReaderSource creates an input source reading from r.
func NewReaderSource(r io.Reader) *ReaderSource {
	if br, ok := r.(*bufio.Reader); ok {
		return &ReaderSource{r: br}
	}
	return &ReaderSource{r: bufio.NewReader(r)}
}

// ReadLine reads up to and including the next newline. The last line of the
// input need not be terminated. At end of input io.EOF is returned.
func (rs *ReaderSource) ReadLine() (string, error) {
	line, err := rs.r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadKey reads one character.
func (rs *ReaderSource) ReadKey() (rune, error) {
	r, _, err := rs.r.ReadRune()
	return r, err
}

// Reader returns the buffered reader of the source.
func (rs *ReaderSource) Reader() *bufio.Reader {
	return rs.r
}
