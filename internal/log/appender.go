package log

import (
	"fmt"
	"io"
	"os"
)

// MultiWriter fans one log line out to every appender. A failing appender
// does not stop the others; the last error is returned.
type MultiWriter struct {
	writers []io.Writer
}

func (m *MultiWriter) Write(p []byte) (n int, err error) {
	for _, w := range m.writers {
		if _, e := w.Write(p); e != nil {
			err = e
		}
	}
	return len(p), err
}

func (m *MultiWriter) Add(writer io.Writer) *MultiWriter {
	m.writers = append(m.writers, writer)
	return m
}

// AddConsoleAppender adds stdout or stderr; "none" and "" add nothing.
func (m *MultiWriter) AddConsoleAppender(console string) (*MultiWriter, error) {
	switch console {
	case "stdout":
		return m.Add(os.Stdout), nil
	case "stderr":
		return m.Add(os.Stderr), nil
	case "", "none":
		return m, nil
	default:
		return m, fmt.Errorf("unsupported console appender %q (must be stdout/stderr/none)", console)
	}
}

// Len returns the number of appenders.
func (m *MultiWriter) Len() int { return len(m.writers) }

func NewMultiWriter() *MultiWriter {
	return &MultiWriter{writers: make([]io.Writer, 0)}
}
