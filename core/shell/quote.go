// Package shell implements the parsing half of the interpreter: a
// quote-aware segment scanner, the word expander, and the pipeline
// splitter.
//
// Quoting follows the usual shell rules:
//
//  1. Single-quoted text is verbatim, no escapes.
//  2. Double-quoted text expands variables; backslash escapes only
//     '"', '\' and '$', any other backslash pair is kept as written.
//  3. Unquoted text expands variables and backslash escapes the next
//     character.
package shell

import (
	"errors"
	"strings"
)

// SegmentKind tags a Segment as subject to variable expansion or not.
type SegmentKind int

const (
	// Expandable segments (unquoted or double-quoted) have $ references
	// substituted.
	Expandable SegmentKind = iota
	// Literal segments (single-quoted) are copied verbatim.
	Literal
)

// Segment is one quoting-uniform run of input text.
type Segment struct {
	Kind SegmentKind

	// Text is the segment contents with quote markers removed and
	// escape sequences resolved.
	Text string

	// Raw is the exact input span the segment came from, quote markers
	// and escapes included. Raw == input[Pos : Pos+len(Raw)].
	Raw string

	// Pos is the byte offset of Raw in the input.
	Pos int

	// AfterBreak marks a segment preceded by unquoted whitespace or the
	// start of input; it begins a new word. Segments with AfterBreak
	// unset glue onto the previous segment's word, e.g. a"b"c is one
	// word "abc".
	AfterBreak bool

	// escaped holds indexes into Text of characters produced by escape
	// sequences. An escaped '$' never begins a variable reference.
	escaped []int
}

// InputOffset maps an index into Text back to the byte offset of the
// corresponding input character, skipping the opening quote and the
// backslashes consumed by escape sequences.
func (s *Segment) InputOffset(i int) int {
	off := s.Pos
	if len(s.Raw) > 0 && (s.Raw[0] == '\'' || s.Raw[0] == '"') {
		off++
	}
	for k := 0; k < i; k++ {
		off++
		for _, e := range s.escaped {
			if e == k {
				off++ // two raw bytes produced this character
				break
			}
		}
	}
	return off
}

// ExpandableAt reports whether the character at index i of Text may begin
// a variable reference.
func (s *Segment) ExpandableAt(i int) bool {
	if s.Kind != Expandable {
		return false
	}
	for _, e := range s.escaped {
		if e == i {
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Scanner produces Segments left to right in a single pass over the
// input, in the manner of bufio.Scanner:
//
//	sc := shell.NewScanner(line)
//	for sc.Scan() {
//	    seg := sc.Segment()
//	    ...
//	}
//	if err := sc.Err(); err != nil { ... }
type Scanner struct {
	input   string
	pos     int
	atBreak bool
	seg     Segment
	err     error
}

// NewScanner returns a Scanner over input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input, atBreak: true}
}

// Segment returns the segment produced by the last successful Scan.
func (s *Scanner) Segment() Segment {
	return s.seg
}

// Err returns the first error encountered, nil at normal end of input.
func (s *Scanner) Err() error {
	return s.err
}

// Scan advances to the next segment. It returns false at end of input or
// on error; check Err to tell the two apart.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
		s.atBreak = true
	}
	if s.pos >= len(s.input) {
		return false
	}

	start := s.pos
	afterBreak := s.atBreak
	s.atBreak = false

	var seg Segment
	switch s.input[s.pos] {
	case '\'':
		seg = s.scanSingleQuoted()
	case '"':
		seg = s.scanDoubleQuoted()
	default:
		seg = s.scanBare()
	}
	if s.err != nil {
		return false
	}

	seg.Raw = s.input[start:s.pos]
	seg.Pos = start
	seg.AfterBreak = afterBreak
	s.seg = seg
	return true
}

func (s *Scanner) scanSingleQuoted() Segment {
	open := s.pos
	s.pos++ // consume '
	end := strings.IndexByte(s.input[s.pos:], '\'')
	if end < 0 {
		s.err = &UnterminatedQuoteError{Quote: '\'', Offset: open}
		return Segment{}
	}
	text := s.input[s.pos : s.pos+end]
	s.pos += end + 1
	return Segment{Kind: Literal, Text: text}
}

func (s *Scanner) scanDoubleQuoted() Segment {
	open := s.pos
	s.pos++ // consume "
	var b strings.Builder
	var escaped []int
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch c {
		case '"':
			s.pos++
			return Segment{Kind: Expandable, Text: b.String(), escaped: escaped}
		case '\\':
			if s.pos+1 < len(s.input) {
				next := s.input[s.pos+1]
				if next == '"' || next == '\\' || next == '$' {
					escaped = append(escaped, b.Len())
					b.WriteByte(next)
					s.pos += 2
					continue
				}
			}
			// Backslash before anything else is kept as written.
			b.WriteByte('\\')
			s.pos++
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	s.err = &UnterminatedQuoteError{Quote: '"', Offset: open}
	return Segment{}
}

func (s *Scanner) scanBare() Segment {
	var b strings.Builder
	var escaped []int
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if isSpace(c) || c == '\'' || c == '"' {
			break
		}
		if c == '\\' && s.pos+1 < len(s.input) {
			escaped = append(escaped, b.Len())
			b.WriteByte(s.input[s.pos+1])
			s.pos += 2
			continue
		}
		b.WriteByte(c)
		s.pos++
	}
	return Segment{Kind: Expandable, Text: b.String(), escaped: escaped}
}

// Segments drains a Scanner over input and returns all segments.
func Segments(input string) ([]Segment, error) {
	sc := NewScanner(input)
	var out []Segment
	for sc.Scan() {
		out = append(out, sc.Segment())
	}
	return out, sc.Err()
}

// QuotesBalanced reports whether every quote opened in input is closed.
// The interactive reader uses it to decide whether to keep prompting for
// continuation lines.
func QuotesBalanced(input string) bool {
	sc := NewScanner(input)
	for sc.Scan() {
	}
	var unterminated *UnterminatedQuoteError
	return !errors.As(sc.Err(), &unterminated)
}

// EndsWithPipe reports whether input ends with an unquoted, unescaped
// pipe, ignoring trailing whitespace. The interactive reader treats such
// input as incomplete.
func EndsWithPipe(input string) bool {
	trimmed := strings.TrimRight(input, " \t\r\n")
	if !strings.HasSuffix(trimmed, "|") {
		return false
	}
	pipes := pipeIndexes(trimmed)
	return len(pipes) > 0 && pipes[len(pipes)-1] == len(trimmed)-1
}
