package mysql

import (
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// reasonsJSON always yields a JSON array, never null
func reasonsJSON(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	b, err := json.Marshal(reasons)
	return string(b), err
}

func parseReasons(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}
