package dispatch

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// sink is the terminal write target behind a handler. Implementations
// serialize their own writes so one rendered line always maps to
// exactly one Write call on the underlying descriptor.
type sink interface {
	writeLine(line string) error
	close() error
}

// streamSink writes to a process-wide stream. Closing it is a no-op
// because the process, not the engine, owns stdout and stderr.
type streamSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newStreamSink(w io.Writer) *streamSink {
	return &streamSink{w: w}
}

func (s *streamSink) writeLine(line string) error {
	buf := terminate(line)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(buf)
	return err
}

func (s *streamSink) close() error { return nil }

// fileSink owns one open file exclusively and appends rendered lines
// to it.
type fileSink struct {
	mu     sync.Mutex
	file   *os.File
	closed bool
}

// openFileSink opens the sink file, creating it if needed. Append mode
// keeps existing contents; truncate discards them once, at open time.
// Parent directories are only created when the caller opted in.
func openFileSink(path, mode string, createDirs bool) (*fileSink, error) {
	if createDirs {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
	}
	flags := os.O_CREATE | os.O_WRONLY
	if mode == ModeTruncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, err
	}
	return &fileSink{file: f}, nil
}

func (s *fileSink) writeLine(line string) error {
	buf := terminate(line)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	_, err := s.file.Write(buf)
	return err
}

func (s *fileSink) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}

// terminate builds the single buffer handed to Write: the rendered
// line plus the line terminator.
func terminate(line string) []byte {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')
	return buf
}
