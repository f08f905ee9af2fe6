package verdict

// FallbackKind names the failure that produced a fallback verdict.
type FallbackKind string

const (
	FallbackNone                 FallbackKind = ""
	FallbackConfigurationMissing FallbackKind = "configuration_missing"
	FallbackUpstreamUnavailable  FallbackKind = "upstream_unavailable"
	FallbackQuotaExceeded        FallbackKind = "quota_exceeded"
	FallbackParseError           FallbackKind = "parse_error"
)

const cautionRecommendation = "Proceed with caution"

// Fallback returns the fixed conservative verdict for kind.
// It is never SAFE. Every call returns a fresh Reasons slice.
func Fallback(kind FallbackKind) Verdict {
	switch kind {
	case FallbackConfigurationMissing:
		return Verdict{
			Verdict:        LevelRisky,
			Confidence:     0.0,
			Reasons:        []string{"API key not configured"},
			Recommendation: "Backend configuration incomplete",
		}
	case FallbackUpstreamUnavailable:
		return Verdict{
			Verdict:        LevelRisky,
			Confidence:     0.5,
			Reasons:        []string{"AI service unavailable"},
			Recommendation: cautionRecommendation,
		}
	case FallbackQuotaExceeded:
		return Verdict{
			Verdict:        LevelRisky,
			Confidence:     0.5,
			Reasons:        []string{"AI quota exceeded"},
			Recommendation: cautionRecommendation,
		}
	default:
		return Verdict{
			Verdict:        LevelRisky,
			Confidence:     0.5,
			Reasons:        []string{"AI output parsing error"},
			Recommendation: cautionRecommendation,
		}
	}
}
