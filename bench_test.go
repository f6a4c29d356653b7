// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jfeed_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/creachadair/jfeed"
)

// A nopSink discards all events.
type nopSink struct{}

func (nopSink) BeginObject() error          { return nil }
func (nopSink) EndObject() error            { return nil }
func (nopSink) BeginArray() error           { return nil }
func (nopSink) EndArray() error             { return nil }
func (nopSink) BeginString() error          { return nil }
func (nopSink) StringPiece(_ []byte) error  { return nil }
func (nopSink) EndString() error            { return nil }
func (nopSink) Number(_ []byte) error       { return nil }
func (nopSink) True() error                 { return nil }
func (nopSink) False() error                { return nil }
func (nopSink) Null() error                 { return nil }

// benchInput synthesizes a JSON document of nrec records exercising all the
// value productions.
func benchInput(nrec int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < nrec; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"id":%d,"name":"record %d ★","ok":%v,"score":%g,"tags":[null,"x%d"]}`,
			i, i, i%2 == 0, float64(i)*1.5, i)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

func BenchmarkParser(b *testing.B) {
	input := benchInput(2000)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Feed", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			p := jfeed.NewParser(nopSink{})
			if err := p.Feed(input); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
			if err := p.Finish(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	// Feed in small chunks to measure the suspend/resume overhead.
	b.Run("FeedChunked", func(b *testing.B) {
		const chunkSize = 64
		for i := 0; i < b.N; i++ {
			p := jfeed.NewParser(nopSink{})
			for pos := 0; pos < len(input); pos += chunkSize {
				end := min(pos+chunkSize, len(input))
				if err := p.Feed(input[pos:end]); err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
			if err := p.Finish(); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}
