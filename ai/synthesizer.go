package ai

import (
	"context"
	"fmt"
	"log"
	"time"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
	"dealscope/ports"
)

// Synthesizer turns subject facts plus gathered evidence into one raw
// model response. Exactly one reasoning-engine call per investigation; any
// retry or fallback behavior belongs to the parser, not here.
type Synthesizer struct {
	client    ports.LLMClient
	model     string
	maxTokens int
}

// NewSynthesizer creates a synthesizer bound to one model configuration.
func NewSynthesizer(client ports.LLMClient, model string, maxTokens int) *Synthesizer {
	return &Synthesizer{client: client, model: model, maxTokens: maxTokens}
}

// Synthesize builds the investigation prompt and invokes the reasoning
// engine once. The returned text is untrusted: it is expected to contain a
// single JSON object but may be fenced, chatty, truncated, or garbage.
func (s *Synthesizer) Synthesize(ctx context.Context, sub subject.Subject, bundle evidence.Bundle, asOf time.Time) (string, error) {
	prompt := BuildInvestigationPrompt(sub, bundle, asOf)
	log.Printf("[Synthesizer] invoking model=%s promptLength=%d sources=%d",
		s.model, len(prompt), len(bundle.SourcesChecked()))

	raw, err := s.client.ChatCompletion(ctx, s.model, prompt, s.maxTokens)
	if err != nil {
		return "", fmt.Errorf("reasoning engine call failed: %w", err)
	}
	log.Printf("[Synthesizer] received %d bytes of raw model output", len(raw))
	return raw, nil
}
