package verdict

import "errors"

var (
	// ErrConfigurationMissing means no generation backend was configured.
	ErrConfigurationMissing = errors.New("generation backend not configured")
	// ErrUpstreamUnavailable wraps any failure of the generation call itself.
	ErrUpstreamUnavailable = errors.New("generation backend unavailable")
	// ErrNoStructuredOutput means the model text had no {...} span.
	ErrNoStructuredOutput = errors.New("no structured output found")
	// ErrMalformedStructuredOutput means the {...} span was not valid JSON.
	ErrMalformedStructuredOutput = errors.New("malformed structured output")
	// ErrSchemaInvalid means the JSON decoded but does not match the verdict shape.
	ErrSchemaInvalid = errors.New("structured output does not match verdict schema")
)
