// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jfeed

import "fmt"

// A Sink receives events from a Parser describing the structure of the input
// as it is consumed. If a method reports an error, parsing stops immediately
// and the error is returned to the caller of Feed, wrapped in a *SinkError.
// The parser ensures objects and arrays are correctly balanced.
//
// The byte slices passed to StringPiece and Number are only valid for the
// duration of the call. If the sink needs to retain the data after it
// returns, it must copy the relevant bytes.
type Sink interface {
	// Begin a new object ("{" was consumed).
	BeginObject() error

	// End the most-recently-opened object ("}" was consumed).
	EndObject() error

	// Begin a new array ("[" was consumed).
	BeginArray() error

	// End the most-recently-opened array ("]" was consumed).
	EndArray() error

	// Begin a new string value or object key (the opening quote was
	// consumed).
	BeginString() error

	// Deliver a span of decoded text belonging to the current string.
	// Escape sequences have already been replaced. The concatenation of
	// all pieces between BeginString and EndString is the string value;
	// how the text is split into pieces depends on how the input was
	// chunked, and a piece is never empty.
	StringPiece(text []byte) error

	// End the current string (the closing quote was consumed). Object
	// keys are reported as ordinary strings in key position.
	EndString() error

	// Report a complete number with its literal text.
	Number(text []byte) error

	// Report the constants true, false, and null.
	True() error
	False() error
	Null() error
}

// A SinkError wraps an error reported by a method of a Sink. Once a SinkError
// is reported, the parser that reported it is no longer usable.
type SinkError struct {
	Err error // the error reported by the sink
}

// Error satisfies the error interface.
func (s *SinkError) Error() string { return fmt.Sprintf("sink: %v", s.Err) }

// Unwrap supports error wrapping.
func (s *SinkError) Unwrap() error { return s.Err }

// A SyntaxError reports malformed input, including input that ended before
// the top-level value was complete. Offset is the number of input bytes
// consumed across all calls to Feed before the error was detected.
type SyntaxError struct {
	Offset  int64
	Message string
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at offset %d: %s", s.Offset, s.Message)
}
