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

// SanctionsAdapter screens every named party against a consolidated
// sanctions/watchlist index. Single search call per party.
type SanctionsAdapter struct {
	baseURL string
	client  httpDoer
}

// NewSanctionsAdapter builds the adapter from source configuration.
func NewSanctionsAdapter(cfg config.SourcesConfig) *SanctionsAdapter {
	return &SanctionsAdapter{
		baseURL: strings.TrimRight(cfg.SanctionsBaseURL, "/"),
		client:  newHTTPClient(cfg.FetchTimeout),
	}
}

func (a *SanctionsAdapter) Name() string { return "sanctions_watchlist" }

func (a *SanctionsAdapter) AppliesTo(sub subject.Subject) bool {
	return len(sub.Parties()) > 0
}

func (a *SanctionsAdapter) Fetch(ctx context.Context, sub subject.Subject) (*evidence.Block, error) {
	if a.baseURL == "" {
		log.Printf("[Sanctions] no base URL configured, reporting absence")
		return nil, nil
	}

	var sections []string
	for _, party := range sub.Parties() {
		hits := a.screen(ctx, party.Name)
		if len(hits) == 0 {
			continue
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Watchlist screening hits for %s party %q:\n", party.Role, party.Name)
		for _, h := range hits {
			fmt.Fprintf(&b, "  - %s [%s] listed in: %s; topics: %s\n",
				h.caption, h.schema, strings.Join(h.datasets, ", "), strings.Join(h.topics, ", "))
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

type watchlistHit struct {
	caption  string
	schema   string
	datasets []string
	topics   []string
}

func (a *SanctionsAdapter) screen(ctx context.Context, name string) []watchlistHit {
	var payload struct {
		Results []struct {
			Caption    string   `json:"caption"`
			Schema     string   `json:"schema"`
			Datasets   []string `json:"datasets"`
			Properties struct {
				Topics []string `json:"topics"`
			} `json:"properties"`
		} `json:"results"`
	}

	url := fmt.Sprintf("%s/search/default?q=%s&limit=5", a.baseURL, queryEscape(name))
	if err := getJSON(ctx, a.client, url, nil, &payload); err != nil {
		log.Printf("[Sanctions] screening failed for %q: %v", name, err)
		return nil
	}
	out := make([]watchlistHit, 0, len(payload.Results))
	for _, r := range payload.Results {
		out = append(out, watchlistHit{
			caption:  r.Caption,
			schema:   r.Schema,
			datasets: r.Datasets,
			topics:   r.Properties.Topics,
		})
	}
	return out
}
