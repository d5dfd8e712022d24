// Package sentiment asks the model how a player message lands with a character
// and turns the free-text answer into a bounded score delta.
package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds applied to every parsed score.
const (
	MinScore = -3
	MaxScore = 3
)

var (
	// ErrNoObject means the reply contained no balanced {...} object.
	ErrNoObject = errors.New("sentiment: no JSON object in reply")
	// ErrMalformed means balanced objects were found but none is valid JSON.
	ErrMalformed = errors.New("sentiment: malformed JSON object")
	// ErrMissingScore means the JSON is valid but has no numeric score.
	ErrMissingScore = errors.New("sentiment: score missing or not numeric")
)

// Verdict is the parsed evaluation.
type Verdict struct {
	Score  int    `json:"score" jsonschema:"description=Score delta from -3 to +3"`
	Reason string `json:"reason" jsonschema:"description=Brief reason for the score"`
}

// ExtractObject returns the first balanced brace-delimited object in reply.
// Braces inside JSON string literals are ignored.
func ExtractObject(reply string) (string, error) {
	start, end := nextObject(reply, 0)
	if start < 0 {
		return "", ErrNoObject
	}
	return reply[start : end+1], nil
}

// nextObject returns the bounds of the first balanced object opening at or
// after from, or -1, -1.
func nextObject(s string, from int) (int, int) {
	for from < len(s) {
		i := strings.IndexByte(s[from:], '{')
		if i < 0 {
			break
		}
		start := from + i
		if end := matchBrace(s, start); end > 0 {
			return start, end
		}
		from = start + 1
	}
	return -1, -1
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseVerdict extracts and decodes the verdict object from a model reply.
// Candidates that are not valid JSON are skipped, so prose in braces before
// the real object is tolerated. Scores may be integers, floats (truncated) or
// numeric strings and are clamped to [MinScore, MaxScore].
func ParseVerdict(reply string) (Verdict, error) {
	var firstErr error
	for from := 0; ; {
		start, end := nextObject(reply, from)
		if start < 0 {
			break
		}
		fields, err := decodeObject(reply[start : end+1])
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			from = start + 1
			continue
		}
		return verdictFrom(fields)
	}
	if firstErr != nil {
		return Verdict{}, firstErr
	}
	return Verdict{}, ErrNoObject
}

func decodeObject(obj string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(obj))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func verdictFrom(fields map[string]any) (Verdict, error) {
	score, ok := numeric(fields["score"])
	if !ok {
		return Verdict{}, ErrMissingScore
	}

	var v Verdict
	v.Score = clamp(score)
	switch r := fields["reason"].(type) {
	case string:
		v.Reason = r
	case nil:
	default:
		v.Reason = fmt.Sprint(r)
	}
	return v, nil
}

func numeric(v any) (float64, bool) {
	var f float64
	var err error
	switch n := v.(type) {
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.Trunc(f), true
}

func clamp(f float64) int {
	switch {
	case f < MinScore:
		return MinScore
	case f > MaxScore:
		return MaxScore
	default:
		return int(f)
	}
}
