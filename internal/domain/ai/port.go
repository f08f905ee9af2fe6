package ai

import "context"

// Generator is the text-generation backend. Output is free text and is not
// trusted beyond the verdict schema.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
