package subject

import (
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		hasError bool
	}{
		{"automotive", CategoryAutomotive, false},
		{"MARINE", CategoryMarine, false},
		{"  real_estate  ", CategoryRealEstate, false},
		{"", CategoryGeneral, false},
		{"timeshares", "", true},
	}

	for _, tt := range tests {
		result, err := ParseCategory(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("ParseCategory(%q): expected error, got none", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q): unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestPartiesExtraction(t *testing.T) {
	sub := New(CategoryGeneral, map[string]string{
		"seller_name":  "Jordan Blake",
		"seller_type":  "individual",
		"buyer_name":   "Casey Morgan",
		"buyer_type":   "company",
		"company_name": "Acme Holdings LLC",
		"broker_name":  "  ",
	}, "")

	parties := sub.Parties()
	if len(parties) != 3 {
		t.Fatalf("Expected 3 parties, got %d: %v", len(parties), parties)
	}

	// Order follows the fixed field order, not map iteration.
	if parties[0].Name != "Jordan Blake" || parties[0].Kind != PartyIndividual {
		t.Errorf("Unexpected first party: %+v", parties[0])
	}
	if parties[1].Name != "Casey Morgan" || parties[1].Kind != PartyOrganization {
		t.Errorf("Unexpected second party: %+v", parties[1])
	}
	if parties[2].Name != "Acme Holdings LLC" || parties[2].Kind != PartyOrganization {
		t.Errorf("company_name must always be an organization: %+v", parties[2])
	}

	orgs := sub.Organizations()
	if len(orgs) != 2 {
		t.Errorf("Expected 2 organizations, got %d", len(orgs))
	}
}

func TestPartiesNoNames(t *testing.T) {
	sub := New(CategoryAutomotive, map[string]string{"make": "Porsche"}, "")
	if parties := sub.Parties(); len(parties) != 0 {
		t.Errorf("Expected no parties, got %v", parties)
	}
}

func TestDescribeIsStable(t *testing.T) {
	fields := map[string]string{
		"price":       "48000",
		"make":        "Porsche",
		"seller_name": "Jordan Blake",
		"empty_field": "   ",
	}

	first := New(CategoryAutomotive, fields, "note").Describe()
	second := New(CategoryAutomotive, fields, "note").Describe()
	if first != second {
		t.Error("Describe must be deterministic for identical subjects")
	}

	if !strings.HasPrefix(first, "category: automotive\n") {
		t.Errorf("Describe must lead with the category, got:\n%s", first)
	}
	if strings.Contains(first, "empty_field") {
		t.Error("Blank fields must be omitted from the description")
	}
	if !strings.Contains(first, "notes: note") {
		t.Error("Notes must be included in the description")
	}

	// Sorted field order: make before price before seller_name.
	makeIdx := strings.Index(first, "make:")
	priceIdx := strings.Index(first, "price:")
	sellerIdx := strings.Index(first, "seller_name:")
	if !(makeIdx < priceIdx && priceIdx < sellerIdx) {
		t.Errorf("Fields must appear in sorted order, got:\n%s", first)
	}
}

func TestFieldTrims(t *testing.T) {
	sub := New(CategoryGeneral, map[string]string{"vin": "  WP0AB29  "}, "")
	if got := sub.Field("vin"); got != "WP0AB29" {
		t.Errorf("Field must trim whitespace, got %q", got)
	}
	if got := sub.Field("missing"); got != "" {
		t.Errorf("Missing field must be empty, got %q", got)
	}
}
