package transcribe

import (
	"fmt"
	"strings"
)

// Domain selects a vocabulary preset that steers the transcription prompt.
type Domain string

const (
	DomainGeneral Domain = "general"
	DomainDev     Domain = "dev"
	DomainMedical Domain = "medical"
	DomainLegal   Domain = "legal"
	DomainFinance Domain = "finance"
)

// AllDomains lists every preset in display order.
var AllDomains = []Domain{DomainGeneral, DomainDev, DomainMedical, DomainLegal, DomainFinance}

var domainLabels = map[Domain]string{
	DomainGeneral: "General Conversation",
	DomainDev:     "Software Engineering",
	DomainMedical: "Medical / Healthcare",
	DomainLegal:   "Legal",
	DomainFinance: "Finance",
}

var domainInstructions = map[Domain]string{
	DomainGeneral: "Standard grammar correction and clarity.",
	DomainDev:     "Focus on programming terminology, variable naming conventions where appropriate, and tech stack names.",
	DomainMedical: "Ensure accurate spelling of medical conditions, medications, and anatomical terms.",
	DomainLegal:   "Maintain formal tone, ensure accurate legal terminology and citation formats if applicable.",
	DomainFinance: "Focus on financial markets, acronyms (ETF, ROI, CAGR), and numerical accuracy.",
}

// ParseDomain validates a preset identifier. Matching is case-insensitive and
// ignores surrounding whitespace.
func ParseDomain(value string) (Domain, error) {
	domain := Domain(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := domainLabels[domain]; !ok {
		return "", fmt.Errorf("unknown transcription domain %q", value)
	}
	return domain, nil
}

// Label returns the human-readable preset name.
func (d Domain) Label() string {
	return domainLabels[d]
}

// Instructions returns the preset-specific prompt fragment.
func (d Domain) Instructions() string {
	return domainInstructions[d]
}

func (d Domain) String() string {
	return string(d)
}
