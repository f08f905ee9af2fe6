package postgres

import (
	"encoding/json"
	"strings"
)

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

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
