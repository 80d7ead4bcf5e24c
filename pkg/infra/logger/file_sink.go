package logger

import (
	"bufio"
	"os"
	"sync/atomic"
	"time"
)

const (
	sinkQueueSize     = 1024
	sinkBufferSize    = 32 * 1024
	sinkFlushInterval = 2 * time.Second
)

// FileSink appends log entries to a file off the caller's goroutine.
// Write never blocks: when the queue is full the entry is dropped and
// counted instead.
type FileSink struct {
	file    *os.File
	queue   chan []byte
	closed  chan struct{}
	drained chan struct{}
	dropped atomic.Uint64
}

func NewFileSink(path string) (*FileSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	s := &FileSink{
		file:    file,
		queue:   make(chan []byte, sinkQueueSize),
		closed:  make(chan struct{}),
		drained: make(chan struct{}),
	}
	go s.drain()
	return s, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	entry := make([]byte, len(p))
	copy(entry, p)

	select {
	case s.queue <- entry:
	default:
		s.dropped.Add(1)
	}
	return len(p), nil
}

func (s *FileSink) drain() {
	defer close(s.drained)

	buf := bufio.NewWriterSize(s.file, sinkBufferSize)
	flush := time.NewTicker(sinkFlushInterval)
	defer flush.Stop()

	for {
		select {
		case entry := <-s.queue:
			if _, err := buf.Write(entry); err != nil {
				s.dropped.Add(1)
			}
		case <-flush.C:
			_ = buf.Flush()
		case <-s.closed:
			for {
				select {
				case entry := <-s.queue:
					_, _ = buf.Write(entry)
				default:
					_ = buf.Flush()
					return
				}
			}
		}
	}
}

// Dropped reports how many entries were discarded because the queue
// was full or the file rejected the write.
func (s *FileSink) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *FileSink) Close() error {
	close(s.closed)
	<-s.drained
	return s.file.Close()
}
