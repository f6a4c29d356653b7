// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// A state marks a position within a grammar production. The parser keeps a
// stack of pending states; the top of the stack is the next production to
// advance, and the entries below it record where to resume once it completes.
// An empty stack means the top-level value is complete.
type state byte

const (
	sElement state = iota // element: ws value ws
	sWS                   // inside a whitespace run
	sValue                // expecting the first byte of a value
	sObject               // after "{", before the first member or "}"
	sMember               // expecting a member: string ws ":" element
	sMembers              // after a member, expecting "," or "}"
	sColon                // expecting ":" after an object key
	sKey                  // expecting the opening quote of an object key
	sArray                // after "[", before the first element or "]"
	sElements             // after an element, expecting "," or "]"

	sString // inside a string body
	sEscape // after a backslash
	sHex1   // \u escape, expecting hex digit 1
	sHex2   // \u escape, expecting hex digit 2
	sHex3   // \u escape, expecting hex digit 3
	sHex4   // \u escape, expecting hex digit 4
	sSurr1  // after a high surrogate, expecting "\"
	sSurr2  // after a high surrogate, expecting "u"

	sNumStart // expecting "-" or the first digit of a number
	sNumMinus // after "-", expecting the first integer digit
	sNumZero  // integer part is "0"; a digit here is an error
	sNumInt   // inside the integer digits
	sNumFrac0 // after ".", expecting at least one digit
	sNumFrac  // inside the fraction digits
	sNumExp0  // after "e" or "E", expecting a sign or digit
	sNumExp1  // after an exponent sign, expecting at least one digit
	sNumExp   // inside the exponent digits

	sTrue1 // literal true, "t" matched
	sTrue2
	sTrue3
	sTrue4 // literal true complete
	sFalse1
	sFalse2
	sFalse3
	sFalse4
	sFalse5 // literal false complete
	sNull1
	sNull2
	sNull3
	sNull4 // literal null complete

	sEnd // stack empty: the top-level value is complete
)

var (
	litTrue  = mem.S("true")
	litFalse = mem.S("false")
	litNull  = mem.S("null")
)

// unescape maps the letter of a single-character escape sequence to its
// replacement byte. A zero entry marks an invalid escape.
var unescape = [256]byte{
	'"': '"', '\\': '\\', '/': '/',
	'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t',
}

// A Parser is an incremental parser for a single JSON value. Input is
// delivered to the parser in chunks by calls to Feed, and the structure of
// the value is reported to a Sink as it is recognized. The parser carries
// its position in the grammar across calls, so a chunk may end at any byte
// boundary, including inside a literal, a string escape, or a number.
//
// A Parser must not be used concurrently from multiple goroutines. After an
// error or after Finish, the parser must be discarded or Reset before reuse.
type Parser struct {
	sink Sink
	stk  []state
	buf  bytes.Buffer // accumulator for the current string or number token

	u, hi  rune  // \u escape: current code unit, pending high surrogate
	offset int64 // total bytes consumed by previous calls to Feed
	err    error // first error reported; sticky
}

// NewParser constructs a parser that reports events to sink.
func NewParser(sink Sink) *Parser {
	p := &Parser{sink: sink}
	p.Reset()
	return p
}

// Reset restores p to its initial state, ready to parse a new value.
// The sink is retained.
func (p *Parser) Reset() {
	p.stk = append(p.stk[:0], sElement)
	p.buf.Reset()
	p.u, p.hi = 0, 0
	p.offset = 0
	p.err = nil
}

// Done reports whether the top-level value has been fully parsed.
func (p *Parser) Done() bool { return len(p.stk) == 0 && p.err == nil }

// Err returns the first error reported by p, or nil.
func (p *Parser) Err() error { return p.err }

func (p *Parser) current() state {
	if len(p.stk) == 0 {
		return sEnd
	}
	return p.stk[len(p.stk)-1]
}

func (p *Parser) push(st state)    { p.stk = append(p.stk, st) }
func (p *Parser) pop()             { p.stk = p.stk[:len(p.stk)-1] }
func (p *Parser) replace(st state) { p.stk[len(p.stk)-1] = st }

// Feed advances the parser over data, invoking sink methods for each
// structural milestone it completes. Feed returns nil when data is exhausted,
// even if the value is incomplete; parsing resumes where it left off at the
// next call. Feed also returns nil once the top-level value is complete,
// without consuming any input that follows it.
//
// A syntax error or an error reported by the sink is returned immediately
// and renders the parser unusable until Reset.
func (p *Parser) Feed(data []byte) error {
	if p.err != nil {
		return p.err
	}
	pos, n := 0, len(data)

loop:
	for {
		switch st := p.current(); st {
		case sEnd:
			break loop

		case sElement:
			p.replace(sWS)
			p.push(sValue)
			p.push(sWS)

		case sWS:
			for pos < n && isSpace(data[pos]) {
				pos++
			}
			if pos == n {
				break loop
			}
			p.pop()

		case sValue:
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == '{':
				pos++
				if err := p.sink.BeginObject(); err != nil {
					return p.abort(pos, err)
				}
				p.replace(sObject)

			case b == '[':
				pos++
				if err := p.sink.BeginArray(); err != nil {
					return p.abort(pos, err)
				}
				p.replace(sArray)

			case b == '"':
				pos++
				if err := p.sink.BeginString(); err != nil {
					return p.abort(pos, err)
				}
				p.replace(sString)

			case b == '-' || isDigit(b):
				// The number machine owns all its bytes, including the
				// first; do not consume here.
				p.replace(sNumStart)

			case b == 't':
				if n-pos >= litTrue.Len() {
					if !mem.B(data[pos : pos+litTrue.Len()]).Equal(litTrue) {
						return p.failf(pos, "invalid literal %q", data[pos:pos+litTrue.Len()])
					}
					pos += litTrue.Len()
					p.replace(sTrue4)
				} else {
					pos++
					p.replace(sTrue1)
				}

			case b == 'f':
				if n-pos >= litFalse.Len() {
					if !mem.B(data[pos : pos+litFalse.Len()]).Equal(litFalse) {
						return p.failf(pos, "invalid literal %q", data[pos:pos+litFalse.Len()])
					}
					pos += litFalse.Len()
					p.replace(sFalse5)
				} else {
					pos++
					p.replace(sFalse1)
				}

			case b == 'n':
				if n-pos >= litNull.Len() {
					if !mem.B(data[pos : pos+litNull.Len()]).Equal(litNull) {
						return p.failf(pos, "invalid literal %q", data[pos:pos+litNull.Len()])
					}
					pos += litNull.Len()
					p.replace(sNull4)
				} else {
					pos++
					p.replace(sNull1)
				}

			default:
				return p.failf(pos, "unexpected %q looking for a value", b)
			}

		//
		// object
		//

		case sObject:
			if pos == n {
				break loop
			}
			if b := data[pos]; isSpace(b) {
				p.push(sWS)
			} else if b == '}' {
				pos++
				if err := p.sink.EndObject(); err != nil {
					return p.abort(pos, err)
				}
				p.pop()
			} else {
				p.replace(sMember)
			}

		case sMember:
			// member: string ws ":" element, pushed in reverse so the key
			// is processed first.
			p.replace(sMembers)
			p.push(sElement)
			p.push(sColon)
			p.push(sWS)
			p.push(sKey)

		case sMembers:
			if pos == n {
				break loop
			}
			switch b := data[pos]; b {
			case ',':
				pos++
				p.push(sMember)
				p.push(sWS)
			case '}':
				pos++
				if err := p.sink.EndObject(); err != nil {
					return p.abort(pos, err)
				}
				p.pop()
			default:
				return p.failf(pos, `unexpected %q, want "," or "}"`, b)
			}

		case sColon:
			if pos == n {
				break loop
			}
			if b := data[pos]; b != ':' {
				return p.failf(pos, `unexpected %q, want ":"`, b)
			}
			pos++
			p.pop()

		case sKey:
			if pos == n {
				break loop
			}
			if b := data[pos]; b != '"' {
				return p.failf(pos, "unexpected %q, want string key", b)
			}
			pos++
			if err := p.sink.BeginString(); err != nil {
				return p.abort(pos, err)
			}
			p.replace(sString)

		//
		// array
		//

		case sArray:
			if pos == n {
				break loop
			}
			if b := data[pos]; isSpace(b) {
				p.push(sWS)
			} else if b == ']' {
				pos++
				if err := p.sink.EndArray(); err != nil {
					return p.abort(pos, err)
				}
				p.pop()
			} else {
				p.replace(sElements)
				p.push(sElement)
			}

		case sElements:
			if pos == n {
				break loop
			}
			switch b := data[pos]; b {
			case ',':
				pos++
				p.push(sElement)
			case ']':
				pos++
				if err := p.sink.EndArray(); err != nil {
					return p.abort(pos, err)
				}
				p.pop()
			default:
				return p.failf(pos, `unexpected %q, want "," or "]"`, b)
			}

		//
		// string
		//

		case sString:
			start := pos
			for pos < n {
				if b := data[pos]; b == '"' || b == '\\' || b < ' ' {
					break
				}
				pos++
			}
			p.buf.Write(data[start:pos])
			if pos == n {
				// Flush the decoded text so far as a piece, keeping the
				// accumulator bounded by chunk size rather than string size.
				if err := p.flushString(pos); err != nil {
					return err
				}
				break loop
			}
			switch b := data[pos]; b {
			case '"':
				pos++
				if err := p.flushString(pos); err != nil {
					return err
				}
				if err := p.sink.EndString(); err != nil {
					return p.abort(pos, err)
				}
				p.pop()
			case '\\':
				pos++
				p.replace(sEscape)
			default:
				return p.failf(pos, "unescaped control %q in string", b)
			}

		case sEscape:
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == 'u':
				pos++
				p.u = 0
				p.replace(sHex1)
			case unescape[b] != 0:
				pos++
				p.buf.WriteByte(unescape[b])
				p.replace(sString)
			default:
				return p.failf(pos, "invalid %q after escape", b)
			}

		case sHex1, sHex2, sHex3, sHex4:
			if pos == n {
				break loop
			}
			v, ok := hexVal(data[pos])
			if !ok {
				return p.failf(pos, "invalid hex digit %q in Unicode escape", data[pos])
			}
			pos++
			p.u = p.u<<4 | rune(v)
			if st != sHex4 {
				p.replace(st + 1)
				continue
			}

			// The code unit is complete; combine surrogate pairs.
			switch {
			case p.hi != 0:
				if p.u < 0xDC00 || p.u > 0xDFFF {
					return p.failf(pos, `unpaired surrogate \u%04x`, p.hi)
				}
				p.writeRune(0x10000 + (p.hi-0xD800)<<10 + (p.u - 0xDC00))
				p.hi = 0
				p.replace(sString)
			case p.u >= 0xD800 && p.u <= 0xDBFF:
				p.hi = p.u
				p.replace(sSurr1)
			case p.u >= 0xDC00 && p.u <= 0xDFFF:
				return p.failf(pos, `unpaired surrogate \u%04x`, p.u)
			default:
				p.writeRune(p.u)
				p.replace(sString)
			}

		case sSurr1:
			if pos == n {
				break loop
			}
			if data[pos] != '\\' {
				return p.failf(pos, `unpaired surrogate \u%04x`, p.hi)
			}
			pos++
			p.replace(sSurr2)

		case sSurr2:
			if pos == n {
				break loop
			}
			if data[pos] != 'u' {
				return p.failf(pos, `unpaired surrogate \u%04x`, p.hi)
			}
			pos++
			p.u = 0
			p.replace(sHex1)

		//
		// number
		//

		case sNumStart:
			if pos == n {
				break loop
			}
			b := data[pos]
			p.buf.WriteByte(b)
			pos++
			switch {
			case b == '-':
				p.replace(sNumMinus)
			case b == '0':
				p.replace(sNumZero)
			default: // 1-9, guaranteed by the value dispatch
				p.replace(sNumInt)
			}

		case sNumMinus:
			if pos == n {
				break loop
			}
			b := data[pos]
			if !isDigit(b) {
				return p.failf(pos, "unexpected %q, want digit", b)
			}
			p.buf.WriteByte(b)
			pos++
			if b == '0' {
				p.replace(sNumZero)
			} else {
				p.replace(sNumInt)
			}

		case sNumZero:
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == '.':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumFrac0)
			case b == 'e' || b == 'E':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumExp0)
			case isDigit(b):
				return p.failf(pos, "extra leading zeroes")
			case isNumEnd(b):
				if err := p.emitNumber(pos); err != nil {
					return err
				}
			default:
				return p.failf(pos, "unexpected %q in number", b)
			}

		case sNumInt:
			for pos < n && isDigit(data[pos]) {
				p.buf.WriteByte(data[pos])
				pos++
			}
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == '.':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumFrac0)
			case b == 'e' || b == 'E':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumExp0)
			case isNumEnd(b):
				if err := p.emitNumber(pos); err != nil {
					return err
				}
			default:
				return p.failf(pos, "unexpected %q in number", b)
			}

		case sNumFrac0:
			if pos == n {
				break loop
			}
			b := data[pos]
			if !isDigit(b) {
				return p.failf(pos, "no digits after decimal point")
			}
			p.buf.WriteByte(b)
			pos++
			p.replace(sNumFrac)

		case sNumFrac:
			for pos < n && isDigit(data[pos]) {
				p.buf.WriteByte(data[pos])
				pos++
			}
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == 'e' || b == 'E':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumExp0)
			case isNumEnd(b):
				if err := p.emitNumber(pos); err != nil {
					return err
				}
			default:
				return p.failf(pos, "unexpected %q in number", b)
			}

		case sNumExp0:
			if pos == n {
				break loop
			}
			switch b := data[pos]; {
			case b == '+' || b == '-':
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumExp1)
			case isDigit(b):
				p.buf.WriteByte(b)
				pos++
				p.replace(sNumExp)
			default:
				return p.failf(pos, "missing exponent digits")
			}

		case sNumExp1:
			if pos == n {
				break loop
			}
			b := data[pos]
			if !isDigit(b) {
				return p.failf(pos, "missing exponent digits")
			}
			p.buf.WriteByte(b)
			pos++
			p.replace(sNumExp)

		case sNumExp:
			for pos < n && isDigit(data[pos]) {
				p.buf.WriteByte(data[pos])
				pos++
			}
			if pos == n {
				break loop
			}
			if b := data[pos]; !isNumEnd(b) {
				return p.failf(pos, "unexpected %q in number", b)
			}
			if err := p.emitNumber(pos); err != nil {
				return err
			}

		//
		// true, false, null
		//

		case sTrue1, sTrue2, sTrue3:
			if pos == n {
				break loop
			}
			if want := "true"[st-sTrue1+1]; data[pos] != want {
				return p.failf(pos, "invalid %q in literal true", data[pos])
			}
			pos++
			p.replace(st + 1)

		case sTrue4:
			if err := p.sink.True(); err != nil {
				return p.abort(pos, err)
			}
			p.pop()

		case sFalse1, sFalse2, sFalse3, sFalse4:
			if pos == n {
				break loop
			}
			if want := "false"[st-sFalse1+1]; data[pos] != want {
				return p.failf(pos, "invalid %q in literal false", data[pos])
			}
			pos++
			p.replace(st + 1)

		case sFalse5:
			if err := p.sink.False(); err != nil {
				return p.abort(pos, err)
			}
			p.pop()

		case sNull1, sNull2, sNull3:
			if pos == n {
				break loop
			}
			if want := "null"[st-sNull1+1]; data[pos] != want {
				return p.failf(pos, "invalid %q in literal null", data[pos])
			}
			pos++
			p.replace(st + 1)

		case sNull4:
			if err := p.sink.Null(); err != nil {
				return p.abort(pos, err)
			}
			p.pop()
		}
	}

	p.offset += int64(pos)
	return nil
}

// FeedBuffers feeds each chunk to p in order, stopping at the first error.
// It is equivalent to calling Feed once per chunk.
func (p *Parser) FeedBuffers(chunks [][]byte) error {
	for _, chunk := range chunks {
		if err := p.Feed(chunk); err != nil {
			return err
		}
	}
	return nil
}

// Finish signals the end of input. It succeeds if the top-level value is
// complete apart from trailing whitespace; otherwise the input is truncated
// and Finish reports a syntax error. A number pending at the top level is
// completed and reported to the sink, since end of input terminates it.
func (p *Parser) Finish() error {
	if p.err != nil {
		return p.err
	}
	if isNumComplete(p.current()) && p.onlyWSBelow() {
		if err := p.sink.Number(p.buf.Bytes()); err != nil {
			p.err = &SinkError{Err: err}
			return p.err
		}
		p.buf.Reset()
		p.stk = p.stk[:0]
	}
	for p.current() == sWS {
		p.pop()
	}
	if p.current() != sEnd {
		p.err = &SyntaxError{Offset: p.offset, Message: "unexpected end of input"}
		return p.err
	}
	return nil
}

// flushString delivers the accumulated decoded text as a string piece.
// Empty pieces are suppressed.
func (p *Parser) flushString(pos int) error {
	if p.buf.Len() == 0 {
		return nil
	}
	if err := p.sink.StringPiece(p.buf.Bytes()); err != nil {
		return p.abort(pos, err)
	}
	p.buf.Reset()
	return nil
}

// emitNumber reports the accumulated number text to the sink and pops the
// number production. The terminating byte at pos is not consumed; it is
// re-dispatched to the resumed production.
func (p *Parser) emitNumber(pos int) error {
	if err := p.sink.Number(p.buf.Bytes()); err != nil {
		return p.abort(pos, err)
	}
	p.buf.Reset()
	p.pop()
	return nil
}

func (p *Parser) writeRune(r rune) {
	var rbuf [utf8.UTFMax]byte
	n := utf8.EncodeRune(rbuf[:], r)
	p.buf.Write(rbuf[:n])
}

// onlyWSBelow reports whether every state below the top of the stack is a
// whitespace run, meaning the top production is the top-level value.
func (p *Parser) onlyWSBelow() bool {
	for _, st := range p.stk[:len(p.stk)-1] {
		if st != sWS {
			return false
		}
	}
	return true
}

func (p *Parser) abort(pos int, err error) error {
	p.offset += int64(pos)
	p.err = &SinkError{Err: err}
	return p.err
}

func (p *Parser) failf(pos int, msg string, args ...any) error {
	p.offset += int64(pos)
	p.err = &SyntaxError{Offset: p.offset, Message: fmt.Sprintf(msg, args...)}
	return p.err
}

func isNumComplete(st state) bool {
	return st == sNumZero || st == sNumInt || st == sNumFrac || st == sNumExp
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\r' || b == '\n' || b == '\t'
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// isNumEnd reports whether b cannot continue a number, terminating it by
// lookahead. Numbers have no closing delimiter.
func isNumEnd(b byte) bool {
	return isSpace(b) || b == ',' || b == ']' || b == '}'
}

func hexVal(b byte) (byte, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
