// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"io"

	"github.com/creachadair/jfeed"
)

// Parse parses a single JSON value from input.
func Parse(input []byte) (Value, error) {
	var s Sink
	p := jfeed.NewParser(&s)
	if err := p.Feed(input); err != nil {
		return nil, err
	}
	if err := p.Finish(); err != nil {
		return nil, err
	}
	return s.Value(), nil
}

// ParseReader parses a single JSON value from r. The input is consumed in
// bounded chunks; any input following the value is drained but not parsed.
func ParseReader(r io.Reader) (Value, error) {
	var s Sink
	if err := jfeed.ParseReader(r, &s); err != nil {
		return nil, err
	}
	return s.Value(), nil
}

// A Sink implements the jfeed.Sink interface to construct abstract syntax
// trees from parse events. The zero value is ready for use. Once the
// top-level value is complete, Value returns the constructed tree.
type Sink struct {
	root Value
	stk  []Value
	str  bytes.Buffer // the string currently under construction
}

var _ jfeed.Sink = (*Sink)(nil)

// Value returns the completed tree, or nil if no complete value has been
// reported yet.
func (s *Sink) Value() Value { return s.root }

func (s *Sink) top() Value { return s.stk[len(s.stk)-1] }

func (s *Sink) pop() Value {
	last := s.top()
	s.stk = s.stk[:len(s.stk)-1]
	return last
}

// reduceValue attaches the completed value v to the construction in
// progress. A value completing with an empty stack is the root.
func (s *Sink) reduceValue(v Value) error {
	if len(s.stk) == 0 {
		s.root = v
		return nil
	}
	switch prev := s.top().(type) {
	case *Member:
		// The member was already added to its object when its key was
		// seen; attaching the value completes it.
		prev.Value = v
		s.pop()
	case *Array:
		prev.Values = append(prev.Values, v)
	}
	return nil
}

// BeginObject implements part of the jfeed.Sink interface.
func (s *Sink) BeginObject() error {
	s.stk = append(s.stk, new(Object))
	return nil
}

// EndObject implements part of the jfeed.Sink interface.
func (s *Sink) EndObject() error { return s.reduceValue(s.pop()) }

// BeginArray implements part of the jfeed.Sink interface.
func (s *Sink) BeginArray() error {
	s.stk = append(s.stk, new(Array))
	return nil
}

// EndArray implements part of the jfeed.Sink interface.
func (s *Sink) EndArray() error { return s.reduceValue(s.pop()) }

// BeginString implements part of the jfeed.Sink interface.
func (s *Sink) BeginString() error {
	s.str.Reset()
	return nil
}

// StringPiece implements part of the jfeed.Sink interface.
func (s *Sink) StringPiece(text []byte) error {
	s.str.Write(text)
	return nil
}

// EndString implements part of the jfeed.Sink interface. A string arriving
// directly inside an object is a member key; it opens a new member, which
// is completed when its value arrives.
func (s *Sink) EndString() error {
	text := s.str.String()
	if len(s.stk) != 0 {
		if obj, ok := s.top().(*Object); ok {
			m := &Member{Key: text}
			obj.Members = append(obj.Members, m)
			s.stk = append(s.stk, m)
			return nil
		}
	}
	return s.reduceValue(String(text))
}

// Number implements part of the jfeed.Sink interface.
func (s *Sink) Number(text []byte) error {
	if bytes.ContainsAny(text, ".eE") {
		return s.reduceValue(Number(text))
	}
	return s.reduceValue(Integer(text))
}

// True implements part of the jfeed.Sink interface.
func (s *Sink) True() error { return s.reduceValue(Bool(true)) }

// False implements part of the jfeed.Sink interface.
func (s *Sink) False() error { return s.reduceValue(Bool(false)) }

// Null implements part of the jfeed.Sink interface.
func (s *Sink) Null() error { return s.reduceValue(Null{}) }
