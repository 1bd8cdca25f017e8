// Package oracle adapts the external natural-language classification
// service: it builds batch prompts, parses the service's best-effort
// replies, and substitutes conservative defaults on every failure path.
package oracle

import (
	"context"
)

// Client is the transport to a classification backend. Implementations
// return the raw reply text; all interpretation happens in the Adapter.
type Client interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// systemPrompt pins the backend to the fixed taxonomy and the
// default-to-0%-when-uncertain policy.
const systemPrompt = "You are a tax expert. Follow the research process exactly " +
	"and apply the critical rules strictly. Default to entertainment (0%) when uncertain."
