package subject

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies the asset class of the transaction under investigation.
type Category string

const (
	CategoryAutomotive Category = "automotive"
	CategoryMarine     Category = "marine"
	CategoryRealEstate Category = "real_estate"
	CategoryArt        Category = "art"
	CategoryEquipment  Category = "equipment"
	CategoryGeneral    Category = "general"
)

// AllCategories lists the closed category set.
var AllCategories = []Category{
	CategoryAutomotive,
	CategoryMarine,
	CategoryRealEstate,
	CategoryArt,
	CategoryEquipment,
	CategoryGeneral,
}

// ParseCategory validates a raw category string against the closed set.
// An empty string resolves to general rather than an error.
func ParseCategory(raw string) (Category, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return CategoryGeneral, nil
	}
	for _, c := range AllCategories {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown subject category %q", raw)
}

// PartyKind distinguishes organizations from natural persons. Registry
// lookups only apply to organizations; search adapters widen their query
// set for persons to compensate for ambiguous names.
type PartyKind string

const (
	PartyOrganization PartyKind = "organization"
	PartyIndividual   PartyKind = "individual"
)

// Party is one named participant in the prospective transaction.
type Party struct {
	Name string
	Role string // seller, buyer, broker, ...
	Kind PartyKind
}

// Subject is the entity or transaction being investigated. Category is
// always set; all other fields are optional strings collected from the
// intake form. An absent field means "not gathered", not an error.
type Subject struct {
	Category Category          `json:"category"`
	Fields   map[string]string `json:"fields,omitempty"`
	Notes    string            `json:"notes,omitempty"`
}

// New builds a subject from raw intake data.
func New(category Category, fields map[string]string, notes string) Subject {
	if fields == nil {
		fields = map[string]string{}
	}
	return Subject{Category: category, Fields: fields, Notes: strings.TrimSpace(notes)}
}

// Field returns a trimmed field value, empty when not gathered.
func (s Subject) Field(key string) string {
	return strings.TrimSpace(s.Fields[key])
}

// partyFieldRoles maps intake field names to party roles. The *_type
// companion field ("company" marks an organization) decides the kind.
var partyFieldRoles = []struct {
	nameField string
	typeField string
	role      string
}{
	{"seller_name", "seller_type", "seller"},
	{"buyer_name", "buyer_type", "buyer"},
	{"broker_name", "broker_type", "broker"},
	{"company_name", "", "company"},
	{"counterparty_name", "counterparty_type", "counterparty"},
}

// Parties extracts the named participants from the subject's fields in a
// stable order. A field named company_name is always an organization.
func (s Subject) Parties() []Party {
	var out []Party
	for _, pf := range partyFieldRoles {
		name := s.Field(pf.nameField)
		if name == "" {
			continue
		}
		kind := PartyIndividual
		if pf.typeField == "" {
			kind = PartyOrganization
		} else {
			t := strings.ToLower(s.Field(pf.typeField))
			if t == "company" || t == "organization" || t == "business" {
				kind = PartyOrganization
			}
		}
		out = append(out, Party{Name: name, Role: pf.role, Kind: kind})
	}
	return out
}

// Organizations returns only the organization parties.
func (s Subject) Organizations() []Party {
	var out []Party
	for _, p := range s.Parties() {
		if p.Kind == PartyOrganization {
			out = append(out, p)
		}
	}
	return out
}

// Describe renders the declared facts as stable key: value lines for
// prompt inclusion. Field order is sorted so identical subjects produce
// identical prompt text.
func (s Subject) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "category: %s\n", s.Category)

	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.TrimSpace(s.Fields[k])
		if v == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	if s.Notes != "" {
		fmt.Fprintf(&b, "notes: %s\n", s.Notes)
	}
	return b.String()
}
