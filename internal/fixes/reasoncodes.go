// Package fixes implements the Fix Generator: reason-code diagnosis,
// scaffold templating, ranking and impact clipping.
package fixes

import "github.com/avgjoe1017/findable-v1-sub000/internal/models"

// Info is the metadata describing one ReasonCode, supplementing the closed
// enumeration with the richer table the reference system
// carries (name, description, severity, category, typical_impact).
type Info struct {
	Code         models.ReasonCode
	Name         string
	Description  string
	Severity     string // critical, high, medium, low
	Category     string // content, structure, quality, trust, technical
	TypicalImpact float64
}

// reasonCodeInfo is transcribed verbatim from the reference reason-code table.
var reasonCodeInfo = map[models.ReasonCode]Info{
	models.ReasonMissingDefinition: {
		Code: models.ReasonMissingDefinition, Name: "Missing Definition",
		Description: "Core business concept or term is not clearly defined",
		Severity:    "critical", Category: "content", TypicalImpact: 0.3,
	},
	models.ReasonMissingPricing: {
		Code: models.ReasonMissingPricing, Name: "Missing Pricing",
		Description: "Pricing information is not available on the site",
		Severity:    "high", Category: "content", TypicalImpact: 0.25,
	},
	models.ReasonMissingContact: {
		Code: models.ReasonMissingContact, Name: "Missing Contact Info",
		Description: "Contact information is not easily accessible",
		Severity:    "high", Category: "content", TypicalImpact: 0.2,
	},
	models.ReasonMissingLocation: {
		Code: models.ReasonMissingLocation, Name: "Missing Location",
		Description: "Service area or location information is not specified",
		Severity:    "medium", Category: "content", TypicalImpact: 0.15,
	},
	models.ReasonMissingFeatures: {
		Code: models.ReasonMissingFeatures, Name: "Missing Features",
		Description: "Product or service features are not clearly listed",
		Severity:    "high", Category: "content", TypicalImpact: 0.2,
	},
	models.ReasonMissingSocialProof: {
		Code: models.ReasonMissingSocialProof, Name: "Missing Social Proof",
		Description: "No testimonials, case studies, or reviews present",
		Severity:    "medium", Category: "content", TypicalImpact: 0.15,
	},
	models.ReasonBuriedAnswer: {
		Code: models.ReasonBuriedAnswer, Name: "Buried Answer",
		Description: "Information exists but is difficult to find or extract",
		Severity:    "medium", Category: "structure", TypicalImpact: 0.15,
	},
	models.ReasonFragmentedInfo: {
		Code: models.ReasonFragmentedInfo, Name: "Fragmented Information",
		Description: "Related information is scattered across multiple pages",
		Severity:    "medium", Category: "structure", TypicalImpact: 0.1,
	},
	models.ReasonNoDedicatedPage: {
		Code: models.ReasonNoDedicatedPage, Name: "No Dedicated Page",
		Description: "Important topic lacks its own dedicated page",
		Severity:    "medium", Category: "structure", TypicalImpact: 0.15,
	},
	models.ReasonPoorHeadings: {
		Code: models.ReasonPoorHeadings, Name: "Poor Headings",
		Description: "Page headings don't match common search queries",
		Severity:    "low", Category: "structure", TypicalImpact: 0.1,
	},
	models.ReasonNotCitable: {
		Code: models.ReasonNotCitable, Name: "Not Citable",
		Description: "Information cannot be clearly attributed to a source",
		Severity:    "medium", Category: "quality", TypicalImpact: 0.1,
	},
	models.ReasonVagueLanguage: {
		Code: models.ReasonVagueLanguage, Name: "Vague Language",
		Description: "Content uses generic or buzzword-heavy language",
		Severity:    "medium", Category: "quality", TypicalImpact: 0.1,
	},
	models.ReasonOutdatedInfo: {
		Code: models.ReasonOutdatedInfo, Name: "Outdated Information",
		Description: "Content appears to be outdated or stale",
		Severity:    "high", Category: "quality", TypicalImpact: 0.2,
	},
	models.ReasonInconsistent: {
		Code: models.ReasonInconsistent, Name: "Inconsistent Information",
		Description: "Conflicting information found across pages",
		Severity:    "critical", Category: "quality", TypicalImpact: 0.25,
	},
	models.ReasonTrustGap: {
		Code: models.ReasonTrustGap, Name: "Trust Gap",
		Description: "Lacks credibility signals like reviews or certifications",
		Severity:    "medium", Category: "trust", TypicalImpact: 0.15,
	},
	models.ReasonNoAuthority: {
		Code: models.ReasonNoAuthority, Name: "No Authority Signals",
		Description: "No indicators of expertise or authority in the field",
		Severity:    "medium", Category: "trust", TypicalImpact: 0.1,
	},
	models.ReasonUnverifiedClaims: {
		Code: models.ReasonUnverifiedClaims, Name: "Unverified Claims",
		Description: "Claims are made without supporting evidence",
		Severity:    "medium", Category: "trust", TypicalImpact: 0.1,
	},
	models.ReasonRenderRequired: {
		Code: models.ReasonRenderRequired, Name: "JavaScript Required",
		Description: "Content requires JavaScript rendering to be visible",
		Severity:    "high", Category: "technical", TypicalImpact: 0.2,
	},
	models.ReasonBlockedByRobots: {
		Code: models.ReasonBlockedByRobots, Name: "Blocked by Robots",
		Description: "Content is blocked by robots.txt",
		Severity:    "critical", Category: "technical", TypicalImpact: 0.3,
	},
}

// GetInfo returns the metadata for a reason code.
func GetInfo(code models.ReasonCode) Info {
	return reasonCodeInfo[code]
}

// CodesByCategory returns all reason codes in a category.
func CodesByCategory(category string) []models.ReasonCode {
	var out []models.ReasonCode
	for _, info := range reasonCodeInfo {
		if info.Category == category {
			out = append(out, info.Code)
		}
	}
	return out
}

// CodesBySeverity returns all reason codes with a severity level.
func CodesBySeverity(severity string) []models.ReasonCode {
	var out []models.ReasonCode
	for _, info := range reasonCodeInfo {
		if info.Severity == severity {
			out = append(out, info.Code)
		}
	}
	return out
}
