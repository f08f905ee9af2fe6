package verdict

import "fmt"

// Level enum
type Level string

const (
	LevelSafe      Level = "SAFE"
	LevelRisky     Level = "RISKY"
	LevelDangerous Level = "DANGEROUS"
)

// Valid reports whether l is one of the three accepted literals.
func (l Level) Valid() bool {
	switch l {
	case LevelSafe, LevelRisky, LevelDangerous:
		return true
	}
	return false
}

// Request is a single classification request from a caller.
// Type is a caller-defined label (url, file, message, ...).
type Request struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Verdict is the structured classification returned to callers.
type Verdict struct {
	Verdict        Level    `json:"verdict"`
	Confidence     float64  `json:"confidence"`
	Reasons        []string `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Validate checks the verdict literal; confidence is handled by Clamp.
func (v Verdict) Validate() error {
	if !v.Verdict.Valid() {
		return fmt.Errorf("%w: verdict %q is not SAFE, RISKY or DANGEROUS", ErrSchemaInvalid, v.Verdict)
	}
	if v.Reasons == nil {
		return fmt.Errorf("%w: reasons is null", ErrSchemaInvalid)
	}
	return nil
}

// Clamp returns a copy with confidence bounded to [0, 1].
func (v Verdict) Clamp() Verdict {
	switch {
	case v.Confidence < 0:
		v.Confidence = 0
	case v.Confidence > 1:
		v.Confidence = 1
	}
	return v
}
