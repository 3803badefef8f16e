package gfan

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConeStream carries enumerated cones from a driver to a consumer.
// Ownership of a ConeState travels through the channel.
type ConeStream struct {
	Outlet chan ConeState

	mu  sync.Mutex
	err error
}

func NewConeStream(bufSz int) *ConeStream {
	return &ConeStream{
		Outlet: make(chan ConeState, bufSz),
	}
}

// CloseWithError records err (if any) and closes the outlet.
func (stream *ConeStream) CloseWithError(err error) {
	stream.mu.Lock()
	if stream.err == nil {
		stream.err = err
	}
	stream.mu.Unlock()
	stream.Close()
}

func (stream *ConeStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// Err returns the error that ended the stream, if any.
// Only meaningful once Outlet has been drained.
func (stream *ConeStream) Err() error {
	stream.mu.Lock()
	defer stream.mu.Unlock()
	return stream.err
}

// PullAll drains the stream, returning the number of cones received and the stream's error.
func (stream *ConeStream) PullAll() (int, error) {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count, stream.Err()
}

// Print writes each cone to out and passes it downstream.
func (stream *ConeStream) Print(out io.Writer, opts PrintOpts) *ConeStream {
	next := NewConeStream(1)

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for C := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}
			count++
			fmt.Fprintf(&buf, "%06d,", count)
			C.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- C
		}
		next.CloseWithError(stream.Err())
	}()

	return next
}
