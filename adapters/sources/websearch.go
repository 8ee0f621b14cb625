package sources

import (
	"context"
	"fmt"
	"log"
	"strings"

	"dealscope/domain/evidence"
	"dealscope/domain/subject"
	"dealscope/internal/config"
)

// WebSearchAdapter gathers adverse-media snippets for every named party.
// Natural persons get a wider set of query variants than organizations:
// personal names are ambiguous, so the extra variants compensate by
// anchoring on fraud-specific terms.
type WebSearchAdapter struct {
	baseURL string
	apiKey  string
	client  httpDoer
}

// NewWebSearchAdapter builds the adapter from source configuration.
func NewWebSearchAdapter(cfg config.SourcesConfig) *WebSearchAdapter {
	return &WebSearchAdapter{
		baseURL: strings.TrimRight(cfg.SearchBaseURL, "/"),
		apiKey:  cfg.SearchAPIKey,
		client:  newHTTPClient(cfg.FetchTimeout),
	}
}

func (a *WebSearchAdapter) Name() string { return "web_search" }

// AppliesTo requires at least one named party to search for.
func (a *WebSearchAdapter) AppliesTo(sub subject.Subject) bool {
	return len(sub.Parties()) > 0
}

func (a *WebSearchAdapter) Fetch(ctx context.Context, sub subject.Subject) (*evidence.Block, error) {
	if a.apiKey == "" {
		log.Printf("[WebSearch] no API key configured, reporting absence")
		return nil, nil
	}

	var sections []string
	for _, party := range sub.Parties() {
		results := a.searchParty(ctx, party)
		if len(results) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Web search results for %s party %q:\n", party.Role, party.Name)
		for _, r := range results {
			fmt.Fprintf(&b, "  - %s: %s\n", r.title, r.snippet)
		}
		sections = append(sections, b.String())
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return &evidence.Block{
		Source:  a.Name(),
		Content: strings.Join(sections, "\n"),
	}, nil
}

// queryVariants returns the keyword queries issued for one party.
func queryVariants(party subject.Party) []string {
	quoted := fmt.Sprintf("%q", party.Name)
	if party.Kind == subject.PartyIndividual {
		return []string{
			quoted + " fraud",
			quoted + " scam complaints",
			quoted + " lawsuit",
		}
	}
	return []string{
		quoted + " fraud OR scam",
		quoted + " lawsuit OR complaints",
	}
}

type searchResult struct {
	title   string
	snippet string
}

func (a *WebSearchAdapter) searchParty(ctx context.Context, party subject.Party) []searchResult {
	var all []searchResult
	for _, q := range queryVariants(party) {
		var payload struct {
			OrganicResults []struct {
				Title   string `json:"title"`
				Snippet string `json:"snippet"`
			} `json:"organic_results"`
		}

		url := fmt.Sprintf("%s/search.json?engine=google&num=5&q=%s&api_key=%s",
			a.baseURL, queryEscape(q), queryEscape(a.apiKey))
		if err := getJSON(ctx, a.client, url, nil, &payload); err != nil {
			log.Printf("[WebSearch] query %q failed: %v", q, err)
			continue
		}
		for _, r := range payload.OrganicResults {
			if strings.TrimSpace(r.Snippet) == "" {
				continue
			}
			all = append(all, searchResult{title: r.Title, snippet: r.Snippet})
		}
	}
	return dedupeResults(all)
}

// dedupeResults drops repeated titles across query variants, keeping first
// occurrence order.
func dedupeResults(in []searchResult) []searchResult {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, r := range in {
		key := strings.ToLower(strings.TrimSpace(r.title))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
