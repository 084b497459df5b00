package interp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// SliceInput replays a fixed list of values.
type SliceInput struct {
	values []int64
	pos    int
}

func NewSliceInput(values ...int64) *SliceInput {
	return &SliceInput{values: values}
}

func (s *SliceInput) Read() (int64, error) {
	if s.pos >= len(s.values) {
		return 0, ErrNoInput
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Consumed reports how many values were read.
func (s *SliceInput) Consumed() int { return s.pos }

// ReaderInput reads integers separated by whitespace or commas.
type ReaderInput struct {
	sc *bufio.Scanner
}

func NewReaderInput(r io.Reader) *ReaderInput {
	sc := bufio.NewScanner(r)
	sc.Split(scanFields)
	return &ReaderInput{sc: sc}
}

func (r *ReaderInput) Read() (int64, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return 0, fmt.Errorf("read: %w", err)
		}
		return 0, ErrNoInput
	}
	text := r.sc.Text()
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("read: invalid integer %q: %w", text, errors.Unwrap(err))
	}
	return v, nil
}

// ParseValues parses a "1,2,3" list such as the --input flag.
func ParseValues(s string) ([]int64, error) {
	var out []int64
	in := NewReaderInput(strings.NewReader(s))
	for {
		v, err := in.Read()
		if errors.Is(err, ErrNoInput) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

func isSep(r rune) bool { return r == ',' || unicode.IsSpace(r) }

// scanFields is bufio.ScanWords with ',' as an extra separator.
func scanFields(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && isSep(rune(data[start])) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isSep(rune(data[i])) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
