package curator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedResponse marks a completion that does not carry a ratings array.
var ErrMalformedResponse = errors.New("malformed rating response")

var (
	fencedBlockExpr = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	trailingComma   = regexp.MustCompile(`,\s*([}\]])`)
)

// maxDecodeAttempts bounds how many '{' offsets are tried before giving up.
const maxDecodeAttempts = 8

type rating struct {
	ID        ratingID    `json:"id"`
	Score     ratingScore `json:"score"`
	Reasoning string      `json:"reasoning"`
}

type ratingEnvelope struct {
	Ratings *[]rating `json:"ratings"`
}

// ratingID accepts ids echoed back either as strings or as numbers.
type ratingID string

func (r *ratingID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = ratingID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("rating id: %w", err)
	}
	*r = ratingID(n.String())
	return nil
}

// ratingScore accepts numbers and numeric strings; null means 0.
type ratingScore float64

func (r *ratingScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*r = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("rating score %q: %w", s, err)
		}
		*r = ratingScore(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating score: %w", err)
	}
	*r = ratingScore(v)
	return nil
}

// extractJSON returns the text that should hold the ratings object: the
// first fenced block when present, else the whole completion, with
// trailing commas removed.
func extractJSON(content string) string {
	raw := content
	if m := fencedBlockExpr.FindStringSubmatch(content); len(m) > 1 && strings.Contains(m[1], "{") {
		raw = m[1]
	}
	return trailingComma.ReplaceAllString(strings.TrimSpace(raw), "$1")
}

// parseRatings decodes the first object carrying a ratings array. Decoding
// starts at a '{' and stops at the end of that value, so prose after the
// object is ignored.
func parseRatings(content string) ([]rating, error) {
	raw := extractJSON(content)
	if !strings.Contains(raw, "{") {
		return nil, fmt.Errorf("%w: no json object in %d bytes", ErrMalformedResponse, len(content))
	}

	var lastErr error
	offset := 0
	for attempt := 0; attempt < maxDecodeAttempts; attempt++ {
		i := strings.IndexByte(raw[offset:], '{')
		if i < 0 {
			break
		}
		offset += i

		var env ratingEnvelope
		err := json.NewDecoder(strings.NewReader(raw[offset:])).Decode(&env)
		switch {
		case err != nil:
			lastErr = err
		case env.Ratings == nil:
			lastErr = errors.New("missing ratings array")
		default:
			return *env.Ratings, nil
		}
		offset++
	}
	return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, lastErr)
}

func clampScore(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}
