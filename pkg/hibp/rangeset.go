package hibp

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// RangeSet holds the suffixes returned by the range API for one prefix.
type RangeSet struct {
	prefix   string
	suffixes map[string]uint64
}

// ParseRange reads a range API body. Each line is a SUFFIX:COUNT record, the
// API uses CRLF line endings but plain LF is also accepted.
func ParseRange(prefix string, body []byte) (*RangeSet, error) {
	set := &RangeSet{prefix: prefix, suffixes: make(map[string]uint64)}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		suffix, count, found := strings.Cut(text, ":")
		if !found || len(suffix) != SuffixLength {
			return nil, fmt.Errorf("%w: line %d of range %s", ErrMalformedResponse, line, prefix)
		}

		n, err := strconv.ParseUint(count, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d of range %s: %s", ErrMalformedResponse, line, prefix, err)
		}

		set.suffixes[strings.ToUpper(suffix)] = n
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return set, nil
}

// Prefix of the range.
func (s *RangeSet) Prefix() string {
	return s.prefix
}

// Len is the number of records in the range, padding included.
func (s *RangeSet) Len() int {
	return len(s.suffixes)
}

// Count returns how many times the suffix appears in the breach corpus. Padding
// records have a count of 0 and are never reported as present.
func (s *RangeSet) Count(suffix string) (uint64, bool) {
	n, ok := s.suffixes[suffix]
	if !ok || n == 0 {
		return 0, false
	}
	return n, true
}
