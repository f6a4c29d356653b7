// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jfeed

import "io"

// Write implements the io.Writer interface, delivering data to the parser as
// a single chunk. This allows a Parser to serve as the target of io.Copy, so
// a transport can pump bytes into it directly. Write reports a short write
// whenever Feed reports an error.
func (p *Parser) Write(data []byte) (int, error) {
	if err := p.Feed(data); err != nil {
		return 0, err
	}
	return len(data), nil
}

// ParseReader parses a single JSON value from r, delivering events to sink.
// Input is read in bounded chunks; the whole document is never held in
// memory. The reader is drained to EOF, but input following the top-level
// value is not parsed.
func ParseReader(r io.Reader, sink Sink) error {
	p := NewParser(sink)
	if _, err := io.Copy(p, r); err != nil {
		return err
	}
	return p.Finish()
}
