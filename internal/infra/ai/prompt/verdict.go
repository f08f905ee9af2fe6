package prompt

import (
	"fmt"

	"github.com/bryanwahyu/verdict-gate/internal/domain/verdict"
)

// verdictTemplate is sent as a single user message. Caller content sits inside
// the triple-quoted block and is data only; nothing the model returns is used
// beyond the four schema fields.
const verdictTemplate = `
You are a cybersecurity decision engine.

RULES:
- Output ONLY valid JSON
- No markdown
- No explanation text
- No code blocks

FORMAT:
{
  "verdict": "SAFE | RISKY | DANGEROUS",
  "confidence": 0.0,
  "reasons": ["short reason"],
  "recommendation": "short action"
}

CONTENT TYPE: %s
CONTENT:
"""%s"""
`

// Build returns the classification prompt for req, embedding type and
// content verbatim.
func Build(req verdict.Request) string {
	return fmt.Sprintf(verdictTemplate, req.Type, req.Content)
}
