package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConsoleMirror copies every entry to a terminal writer without
// blocking the request path. Entries are dropped when the mirror
// cannot keep up.
type ConsoleMirror struct {
	out   io.Writer
	queue chan string
	stop  chan struct{}
	wg    sync.WaitGroup
}

func NewConsoleMirror(out io.Writer) *ConsoleMirror {
	m := &ConsoleMirror{
		out:   out,
		queue: make(chan string, 1000),
		stop:  make(chan struct{}),
	}
	m.wg.Add(1)
	go m.relay()
	return m
}

func (m *ConsoleMirror) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (m *ConsoleMirror) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}

	select {
	case m.queue <- line:
	default:
	}
	return nil
}

func (m *ConsoleMirror) relay() {
	defer m.wg.Done()
	for {
		select {
		case line := <-m.queue:
			fmt.Fprint(m.out, line)
		case <-m.stop:
			for {
				select {
				case line := <-m.queue:
					fmt.Fprint(m.out, line)
				default:
					return
				}
			}
		}
	}
}

func (m *ConsoleMirror) Close() {
	close(m.stop)
	m.wg.Wait()
}
