package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
)

type mockEngine struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockEngine) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testSubject() subject.Subject {
	return subject.New(subject.CategoryAutomotive, map[string]string{
		"seller_name": "Jordan Blake",
		"make":        "Porsche",
		"model":       "911 Turbo",
		"year":        "2021",
		"price":       "48000",
	}, "Seller insists on a wire transfer before inspection.")
}

func TestBuildInvestigationPromptSections(t *testing.T) {
	asOf := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	bundle := evidence.NewBundle([]evidence.Block{
		{Source: "web_search", Content: "3 fraud complaints referencing this listing."},
	})

	prompt := BuildInvestigationPrompt(testSubject(), bundle, asOf)

	assert.Contains(t, prompt, "TODAY: 2026-08-30")
	assert.Contains(t, prompt, "=== SUBJECT FACTS ===")
	assert.Contains(t, prompt, "seller_name: Jordan Blake")
	assert.Contains(t, prompt, "=== GATHERED EVIDENCE ===")
	assert.Contains(t, prompt, "=== SOURCE: web_search ===")
	assert.Contains(t, prompt, "3 fraud complaints referencing this listing.")
	assert.Contains(t, prompt, "=== OUTPUT CONTRACT ===")
	assert.Contains(t, prompt, `"risk_level"`)
}

func TestBuildInvestigationPromptIsDeterministic(t *testing.T) {
	asOf := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	bundle := evidence.NewBundle([]evidence.Block{
		{Source: "web_search", Content: "result"},
		{Source: "company_registry", Content: "record"},
	})

	first := BuildInvestigationPrompt(testSubject(), bundle, asOf)
	second := BuildInvestigationPrompt(testSubject(), bundle, asOf)
	assert.Equal(t, first, second)

	// Block order in the input must not change the prompt.
	reversed := evidence.NewBundle([]evidence.Block{
		{Source: "company_registry", Content: "record"},
		{Source: "web_search", Content: "result"},
	})
	third := BuildInvestigationPrompt(testSubject(), reversed, asOf)
	assert.Equal(t, first, third)
}

func TestBuildInvestigationPromptDateGuard(t *testing.T) {
	asOf := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	prompt := BuildInvestigationPrompt(testSubject(), evidence.Bundle{}, asOf)

	assert.Contains(t, prompt, "Any evidence dated after 2026-08-30")
	assert.Contains(t, prompt, "backward by exactly one year")
}

func TestCompileAssessmentDirectives(t *testing.T) {
	t.Run("empty bundle adds caution", func(t *testing.T) {
		directives := compileAssessmentDirectives(testSubject(), evidence.Bundle{})
		joined := strings.Join(directives, "\n")
		assert.Contains(t, joined, "CAUTION: No external source returned evidence")
	})

	t.Run("non-empty bundle omits caution", func(t *testing.T) {
		bundle := evidence.NewBundle([]evidence.Block{{Source: "web_search", Content: "x"}})
		directives := compileAssessmentDirectives(testSubject(), bundle)
		joined := strings.Join(directives, "\n")
		assert.NotContains(t, joined, "CAUTION")
	})

	t.Run("every party is required", func(t *testing.T) {
		sub := subject.New(subject.CategoryGeneral, map[string]string{
			"seller_name": "Jordan Blake",
			"buyer_name":  "Casey Morgan",
		}, "")
		directives := compileAssessmentDirectives(sub, evidence.Bundle{})
		joined := strings.Join(directives, "\n")
		assert.Contains(t, joined, "Jordan Blake")
		assert.Contains(t, joined, "Casey Morgan")
	})

	t.Run("price triggers plausibility directive", func(t *testing.T) {
		directives := compileAssessmentDirectives(testSubject(), evidence.Bundle{})
		joined := strings.Join(directives, "\n")
		assert.Contains(t, joined, "stated price is plausible")
	})

	t.Run("no price no directive", func(t *testing.T) {
		sub := subject.New(subject.CategoryGeneral, nil, "")
		directives := compileAssessmentDirectives(sub, evidence.Bundle{})
		joined := strings.Join(directives, "\n")
		assert.NotContains(t, joined, "PRIORITY")
	})
}

func TestSynthesizerSingleCall(t *testing.T) {
	// Reaches through the mock transcript to prove exactly one engine
	// call happens per synthesis, with the full prompt attached.
	mock := &mockEngine{response: "{}"}
	syn := NewSynthesizer(mock, "gpt-4o", 4000)

	raw, err := syn.Synthesize(context.Background(), testSubject(), evidence.Bundle{}, time.Now())
	assert.NoError(t, err)
	assert.Equal(t, "{}", raw)
	assert.Equal(t, 1, mock.calls)
	assert.Contains(t, mock.lastPrompt, "=== OUTPUT CONTRACT ===")
}

func TestSynthesizerPropagatesEngineFailure(t *testing.T) {
	mock := &mockEngine{err: assert.AnError}
	syn := NewSynthesizer(mock, "gpt-4o", 4000)

	_, err := syn.Synthesize(context.Background(), testSubject(), evidence.Bundle{}, time.Now())
	assert.Error(t, err)
	assert.Equal(t, 1, mock.calls)
}
