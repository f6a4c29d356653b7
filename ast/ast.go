// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSON values, and a parser
// sink that constructs syntax trees from jfeed parse events.
package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/jfeed/internal/escape"

	"go4.org/mem"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the value encoded as JSON text.
	JSON() string
}

// An Object is a collection of key-value members.
type Object struct {
	Members []*Member
}

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	for _, m := range o.Members {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// JSON satisfies the Value interface.
func (o *Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object. The key is
// stored in decoded (unescaped) form.
type Member struct {
	Key   string
	Value Value
}

// JSON returns the member encoded as JSON text, "key":value.
func (m *Member) JSON() string { return String(m.Key).JSON() + ":" + m.Value.JSON() }

// An Array is a sequence of values.
type Array struct {
	Values []Value
}

// JSON satisfies the Value interface.
func (a *Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value in decoded (unescaped) form.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return string(escape.Quote(mem.S(string(s)))) }

// An Integer is a number value with no fraction or exponent, stored as its
// literal text.
type Integer string

// Int64 returns the value of z as an int64. It panics if the text of z does
// not represent a value in the range of that type.
func (z Integer) Int64() int64 {
	v, err := strconv.ParseInt(string(z), 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// JSON satisfies the Value interface.
func (z Integer) JSON() string { return string(z) }

// A Number is a floating-point number value, stored as its literal text.
type Number string

// Float64 returns the value of n as a float64. It panics if the text of n
// cannot be represented by that type.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		panic(err)
	}
	return v
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }
