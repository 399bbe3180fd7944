package gofat16

import (
	"errors"
	"io"
	"sync"

	"github.com/aligator/gofat16/checkpoint"
)

var errNegativeOffset = errors.New("negative offset")

// seekReaderAt provides positioned reads on top of an io.ReadSeeker.
// Seek and Read are done under a lock so that the position of one read
// cannot be moved by another.
type seekReaderAt struct {
	lock   sync.Mutex
	reader io.ReadSeeker
}

// newReaderAt returns the reader itself if it already supports positioned reads.
func newReaderAt(reader io.ReadSeeker) io.ReaderAt {
	if r, ok := reader.(io.ReaderAt); ok {
		return r
	}
	return &seekReaderAt{reader: reader}
}

func (s *seekReaderAt) ReadAt(p []byte, off int64) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, err := s.reader.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}

	n, err := io.ReadFull(s.reader, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// readFull reads exactly len(p) bytes at off.
// Every short read, including one that ends at the end of the volume, is an ErrIO.
func readFull(r io.ReaderAt, p []byte, off int64) error {
	if off < 0 {
		return checkpoint.Wrapf(errNegativeOffset, ErrIO, "offset %d", off)
	}

	n, err := r.ReadAt(p, off)
	if n == len(p) {
		// ReadAt may return io.EOF together with the last byte of the volume.
		return nil
	}

	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return checkpoint.Wrapf(err, ErrIO, "read %d of %d bytes at offset %d", n, len(p), off)
}
