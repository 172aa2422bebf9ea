package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes and flushes buffered writers after each one,
// so verdict lines and streamed compiler output appear in the order they were produced.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
	flusher     flusher
}

// NewFlushingWriter wraps writer. Wrapping an existing FlushingWriter returns it unchanged; a nil writer yields nil.
func NewFlushingWriter(writer io.Writer) io.Writer {
	switch typedWriter := writer.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedWriter
	}

	flushingWriter := &FlushingWriter{destination: writer}
	if bufferedWriter, buffered := writer.(flusher); buffered {
		flushingWriter.flusher = bufferedWriter
	}
	return flushingWriter
}

// Write forwards data and flushes when the destination buffers output.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.destination == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	writtenCount, writeError := flushingWriter.destination.Write(data)
	if writeError != nil || flushingWriter.flusher == nil {
		return writtenCount, writeError
	}
	return writtenCount, flushingWriter.flusher.Flush()
}
