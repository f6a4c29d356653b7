// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jfeed implements an incremental push parser for JSON.
//
// # Parsing
//
// The Parser type consumes JSON text delivered in chunks of any size, split
// at any byte boundary, and reports the structure of the input to a Sink as
// it is recognized. The parser never needs the whole document in memory, and
// it does not recurse: its position in the grammar is kept on an explicit
// stack, so a chunk may end in the middle of a literal, a string escape, or
// a number, and parsing resumes exactly where it stopped.
//
// Construct a parser with a sink and feed it input as it arrives:
//
//	p := jfeed.NewParser(sink)
//	for chunk := range arrivals {
//	   if err := p.Feed(chunk); err != nil {
//	      log.Fatalf("Parse failed: %v", err)
//	   }
//	}
//	if err := p.Finish(); err != nil {
//	   log.Fatalf("Incomplete input: %v", err)
//	}
//
// Feed returns nil when its chunk is exhausted, even if the value is not yet
// complete; Finish signals the end of input and verifies that nothing is
// pending. A Parser also implements io.Writer, so io.Copy can pump a stream
// into it; ParseReader packages that loop for a single value.
//
// # Sinks
//
// The Sink interface receives parser events. The methods of a sink
// correspond to the syntax of JSON values:
//
//	JSON type  | Methods                              | Description
//	---------- | ------------------------------------ | -----------------------
//	object     | BeginObject, EndObject               | { ... }
//	array      | BeginArray, EndArray                 | [ ... ]
//	string     | BeginString, StringPiece, EndString  | "..." (decoded)
//	number     | Number                               | literal text
//	constant   | True, False, Null                    | true, false, null
//
// Object keys are reported as ordinary strings in key position. String text
// is delivered decoded, possibly in several pieces whose boundaries depend
// on how the input was chunked; the concatenation of the pieces is the
// string value.
//
// Each method reports an error to stop parsing. A sink error is returned
// from Feed wrapped in a *SinkError; malformed input is reported as a
// *SyntaxError. Both are fatal to the parser instance.
//
// The parser ensures that corresponding Begin and End methods are correctly
// paired, or that a SyntaxError is reported.
package jfeed
