package verdict

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// first '{' through last '}', dot matches newline
var structuredBlock = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractStructuredBlock returns the greedy span from the first '{' to the
// last '}' in text. Prefix and suffix prose (or markdown fences) are dropped.
func ExtractStructuredBlock(text string) (string, error) {
	span := structuredBlock.FindString(text)
	if span == "" {
		return "", ErrNoStructuredOutput
	}
	return span, nil
}

// wireVerdict uses pointers so missing fields can be told apart from zero values.
type wireVerdict struct {
	Verdict        *string   `json:"verdict"`
	Confidence     *float64  `json:"confidence"`
	Reasons        *[]string `json:"reasons"`
	Recommendation *string   `json:"recommendation"`
}

// Decode strictly decodes block into a Verdict. All four fields are required
// and the verdict literal must be exact. Confidence is clamped, not rejected.
func Decode(block string) (Verdict, error) {
	if !json.Valid([]byte(block)) {
		return Verdict{}, ErrMalformedStructuredOutput
	}

	var w wireVerdict
	if err := json.Unmarshal([]byte(block), &w); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	switch {
	case w.Verdict == nil:
		return Verdict{}, fmt.Errorf("%w: missing verdict", ErrSchemaInvalid)
	case w.Confidence == nil:
		return Verdict{}, fmt.Errorf("%w: missing confidence", ErrSchemaInvalid)
	case w.Reasons == nil:
		return Verdict{}, fmt.Errorf("%w: missing reasons", ErrSchemaInvalid)
	case w.Recommendation == nil:
		return Verdict{}, fmt.Errorf("%w: missing recommendation", ErrSchemaInvalid)
	}

	v := Verdict{
		Verdict:        Level(*w.Verdict),
		Confidence:     *w.Confidence,
		Reasons:        *w.Reasons,
		Recommendation: *w.Recommendation,
	}
	if v.Reasons == nil {
		v.Reasons = []string{}
	}
	if err := v.Validate(); err != nil {
		return Verdict{}, err
	}
	return v.Clamp(), nil
}

// Parse extracts and decodes the verdict embedded in raw model output.
func Parse(text string) (Verdict, error) {
	block, err := ExtractStructuredBlock(text)
	if err != nil {
		return Verdict{}, err
	}
	return Decode(block)
}
