package utils

import (
	"io"
	"sync"
)

// flushableWriter captures the optional Flush method exposed by buffered writers.
type flushableWriter interface {
	Flush() error
}

// FlushingWriter forwards writes to an underlying writer and flushes it after every write so interleaved console output appears promptly.
type FlushingWriter struct {
	destination io.Writer
	writeLock   sync.Mutex
}

// NewFlushingWriter wraps destination in a FlushingWriter. A nil destination yields nil and an already wrapped writer is returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	if destination == nil {
		return nil
	}
	if existingWrapper, isWrapped := destination.(*FlushingWriter); isWrapped {
		return existingWrapper
	}
	return &FlushingWriter{destination: destination}
}

// Write forwards data to the wrapped writer and flushes it when the writer supports flushing.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.writeLock.Lock()
	defer writer.writeLock.Unlock()

	writtenBytes, writeError := writer.destination.Write(data)
	if writeError != nil {
		return writtenBytes, writeError
	}
	if bufferedDestination, supportsFlush := writer.destination.(flushableWriter); supportsFlush {
		if flushError := bufferedDestination.Flush(); flushError != nil {
			return writtenBytes, flushError
		}
	}
	return writtenBytes, nil
}
