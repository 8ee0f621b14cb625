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

// CompanyRegistryAdapter verifies organization parties against a corporate
// registry. One fetch is a three-step sequence per organization: name
// search for the best match, then the company detail record, then the
// officers sub-record, merged into a single text block.
type CompanyRegistryAdapter struct {
	baseURL string
	apiKey  string
	client  httpDoer
}

// NewCompanyRegistryAdapter builds the adapter from source configuration.
func NewCompanyRegistryAdapter(cfg config.SourcesConfig) *CompanyRegistryAdapter {
	return &CompanyRegistryAdapter{
		baseURL: strings.TrimRight(cfg.RegistryBaseURL, "/"),
		apiKey:  cfg.RegistryAPIKey,
		client:  newHTTPClient(cfg.FetchTimeout),
	}
}

func (a *CompanyRegistryAdapter) Name() string { return "company_registry" }

// AppliesTo skips the registry entirely when no party is an organization;
// a registry has nothing to say about private individuals.
func (a *CompanyRegistryAdapter) AppliesTo(sub subject.Subject) bool {
	return len(sub.Organizations()) > 0
}

func (a *CompanyRegistryAdapter) Fetch(ctx context.Context, sub subject.Subject) (*evidence.Block, error) {
	if a.baseURL == "" {
		log.Printf("[CompanyRegistry] no base URL configured, reporting absence")
		return nil, nil
	}

	var sections []string
	for _, org := range sub.Organizations() {
		section := a.lookupCompany(ctx, org)
		if section != "" {
			sections = append(sections, section)
		}
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return &evidence.Block{
		Source:  a.Name(),
		Content: strings.Join(sections, "\n\n"),
	}, nil
}

// lookupCompany runs the three-step registry sequence for one organization.
// Every failure path returns "" so the caller reports absence.
func (a *CompanyRegistryAdapter) lookupCompany(ctx context.Context, org subject.Party) string {
	match, ok := a.searchBestMatch(ctx, org.Name)
	if !ok {
		log.Printf("[CompanyRegistry] no registry match for %q", org.Name)
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Registry record for %s party %q (best match: %s):\n", org.Role, org.Name, match.Name)

	detail, ok := a.fetchDetail(ctx, match.Jurisdiction, match.CompanyNumber)
	if ok {
		fmt.Fprintf(&b, "  company_number: %s\n", detail.CompanyNumber)
		fmt.Fprintf(&b, "  jurisdiction: %s\n", detail.Jurisdiction)
		fmt.Fprintf(&b, "  status: %s\n", detail.CurrentStatus)
		fmt.Fprintf(&b, "  incorporated: %s\n", detail.IncorporationDate)
		if detail.DissolutionDate != "" {
			fmt.Fprintf(&b, "  dissolved: %s\n", detail.DissolutionDate)
		}
		if detail.RegisteredAddress != "" {
			fmt.Fprintf(&b, "  registered_address: %s\n", detail.RegisteredAddress)
		}
	} else {
		fmt.Fprintf(&b, "  detail record unavailable; match metadata only (number %s, %s)\n",
			match.CompanyNumber, match.Jurisdiction)
	}

	officers := a.fetchOfficers(ctx, match.Jurisdiction, match.CompanyNumber)
	if len(officers) > 0 {
		b.WriteString("  officers:\n")
		for _, o := range officers {
			fmt.Fprintf(&b, "    - %s (%s)\n", o.Name, o.Position)
		}
	}
	return b.String()
}

type registryMatch struct {
	Name          string
	CompanyNumber string
	Jurisdiction  string
}

func (a *CompanyRegistryAdapter) searchBestMatch(ctx context.Context, name string) (registryMatch, bool) {
	var payload struct {
		Results struct {
			Companies []struct {
				Company struct {
					Name             string `json:"name"`
					CompanyNumber    string `json:"company_number"`
					JurisdictionCode string `json:"jurisdiction_code"`
				} `json:"company"`
			} `json:"companies"`
		} `json:"results"`
	}

	url := fmt.Sprintf("%s/companies/search?q=%s&order=score%s", a.baseURL, queryEscape(name), a.keyParam())
	if err := getJSON(ctx, a.client, url, nil, &payload); err != nil {
		log.Printf("[CompanyRegistry] search failed for %q: %v", name, err)
		return registryMatch{}, false
	}
	if len(payload.Results.Companies) == 0 {
		return registryMatch{}, false
	}
	top := payload.Results.Companies[0].Company
	return registryMatch{
		Name:          top.Name,
		CompanyNumber: top.CompanyNumber,
		Jurisdiction:  top.JurisdictionCode,
	}, top.CompanyNumber != ""
}

type registryDetail struct {
	CompanyNumber     string
	Jurisdiction      string
	CurrentStatus     string
	IncorporationDate string
	DissolutionDate   string
	RegisteredAddress string
}

func (a *CompanyRegistryAdapter) fetchDetail(ctx context.Context, jurisdiction, number string) (registryDetail, bool) {
	var payload struct {
		Results struct {
			Company struct {
				CompanyNumber     string `json:"company_number"`
				JurisdictionCode  string `json:"jurisdiction_code"`
				CurrentStatus     string `json:"current_status"`
				IncorporationDate string `json:"incorporation_date"`
				DissolutionDate   string `json:"dissolution_date"`
				RegisteredAddress struct {
					InFull string `json:"in_full"`
				} `json:"registered_address"`
			} `json:"company"`
		} `json:"results"`
	}

	url := fmt.Sprintf("%s/companies/%s/%s?sparse=true%s", a.baseURL, jurisdiction, number, a.keyParam())
	if err := getJSON(ctx, a.client, url, nil, &payload); err != nil {
		log.Printf("[CompanyRegistry] detail fetch failed for %s/%s: %v", jurisdiction, number, err)
		return registryDetail{}, false
	}
	c := payload.Results.Company
	return registryDetail{
		CompanyNumber:     c.CompanyNumber,
		Jurisdiction:      c.JurisdictionCode,
		CurrentStatus:     c.CurrentStatus,
		IncorporationDate: c.IncorporationDate,
		DissolutionDate:   c.DissolutionDate,
		RegisteredAddress: c.RegisteredAddress.InFull,
	}, c.CompanyNumber != ""
}

type registryOfficer struct {
	Name     string
	Position string
}

func (a *CompanyRegistryAdapter) fetchOfficers(ctx context.Context, jurisdiction, number string) []registryOfficer {
	var payload struct {
		Results struct {
			Officers []struct {
				Officer struct {
					Name     string `json:"name"`
					Position string `json:"position"`
				} `json:"officer"`
			} `json:"officers"`
		} `json:"results"`
	}

	url := fmt.Sprintf("%s/companies/%s/%s/officers?%s", a.baseURL, jurisdiction, number, strings.TrimPrefix(a.keyParam(), "&"))
	if err := getJSON(ctx, a.client, url, nil, &payload); err != nil {
		log.Printf("[CompanyRegistry] officers fetch failed for %s/%s: %v", jurisdiction, number, err)
		return nil
	}
	out := make([]registryOfficer, 0, len(payload.Results.Officers))
	for _, o := range payload.Results.Officers {
		out = append(out, registryOfficer{Name: o.Officer.Name, Position: o.Officer.Position})
	}
	return out
}

func (a *CompanyRegistryAdapter) keyParam() string {
	if a.apiKey == "" {
		return ""
	}
	return "&api_token=" + queryEscape(a.apiKey)
}
