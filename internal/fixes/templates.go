package fixes

import "github.com/avgjoe1017/findable-v1-sub000/internal/models"

// scaffold is a fixed, versioned template for one reason code. [PLACEHOLDER]
// tokens other than [COMPANY_NAME] are intentional authoring prompts left
// for a human editor to fill (Open Question #3, confirmed against the
// reference templates module) — only [COMPANY_NAME] is substituted here.
type scaffold struct {
	title      string
	actionVerb string
	text       string
	targetURL  string // suggested page, keyed by reason code; empty falls back to categoryTargetURL
}

var scaffolds = map[models.ReasonCode]scaffold{
	models.ReasonMissingDefinition: {
		title: "Add a clear definition of what [COMPANY_NAME] does", actionVerb: "Write",
		text:      "Add a concise, front-and-center statement of what [COMPANY_NAME] does, naming the industry and primary activity in the first paragraph of the homepage.",
		targetURL: "/",
	},
	models.ReasonMissingPricing: {
		title: "Publish pricing information", actionVerb: "Publish",
		text:      "Add a dedicated pricing page for [COMPANY_NAME] listing tiers and starting at [PRICE_1], or an explicit pricing-model explanation if usage-based.",
		targetURL: "/pricing",
	},
	models.ReasonMissingContact: {
		title: "Surface contact details", actionVerb: "Add",
		text:      "Add an easily discoverable contact page for [COMPANY_NAME] with email, phone, and a contact form.",
		targetURL: "/contact",
	},
	models.ReasonMissingLocation: {
		title: "State service area and locations", actionVerb: "Add",
		text:      "State [COMPANY_NAME]'s headquarters and the regions or locations it serves.",
		targetURL: "/about",
	},
	models.ReasonMissingFeatures: {
		title: "List product or service features", actionVerb: "Document",
		text:      "Document [COMPANY_NAME]'s key product or service features with short, specific descriptions.",
		targetURL: "/products",
	},
	models.ReasonMissingSocialProof: {
		title: "Add testimonials and case studies", actionVerb: "Add",
		text:      "Add testimonials, case studies, or named client logos to build trust for [COMPANY_NAME].",
		targetURL: "/customers",
	},
	models.ReasonBuriedAnswer: {
		title: "Surface the answer higher on the page", actionVerb: "Restructure",
		text:      "Move the relevant answer for [COMPANY_NAME] higher on the page and summarize it in the opening sentences rather than burying it in later sections.",
	},
	models.ReasonFragmentedInfo: {
		title: "Consolidate scattered information", actionVerb: "Consolidate",
		text:      "Consolidate [COMPANY_NAME]'s related information, currently spread across multiple pages, onto a single authoritative page.",
	},
	models.ReasonNoDedicatedPage: {
		title: "Create a dedicated page for this topic", actionVerb: "Create",
		text:      "Create a dedicated page for [COMPANY_NAME] covering this topic directly, rather than relying on passing mentions.",
	},
	models.ReasonPoorHeadings: {
		title: "Rewrite headings to match common queries", actionVerb: "Rewrite",
		text:      "Rewrite page headings for [COMPANY_NAME] to match the phrasing of common search queries instead of internal jargon.",
	},
	models.ReasonNotCitable: {
		title: "Make claims clearly attributable", actionVerb: "Attribute",
		text:      "Attribute claims about [COMPANY_NAME] to a named source, date, or byline so they can be clearly cited.",
	},
	models.ReasonVagueLanguage: {
		title: "Replace vague language with specifics", actionVerb: "Rewrite",
		text:      "Replace generic, buzzword-heavy language with specific facts, numbers, and names for [COMPANY_NAME].",
	},
	models.ReasonOutdatedInfo: {
		title: "Refresh outdated content", actionVerb: "Update",
		text:      "Update [COMPANY_NAME]'s stale content, including the last-updated date visible to readers.",
	},
	models.ReasonInconsistent: {
		title: "Resolve conflicting information", actionVerb: "Reconcile",
		text:      "Reconcile conflicting statements about [COMPANY_NAME] found across different pages.",
	},
	models.ReasonTrustGap: {
		title: "Add credibility signals", actionVerb: "Add",
		text:      "Add reviews, certifications, or third-party validation to close the trust gap for [COMPANY_NAME].",
	},
	models.ReasonNoAuthority: {
		title: "Add expertise indicators", actionVerb: "Add",
		text:      "Add author bios, credentials, or years-of-experience indicators establishing [COMPANY_NAME]'s authority.",
	},
	models.ReasonUnverifiedClaims: {
		title: "Support claims with evidence", actionVerb: "Support",
		text:      "Support [COMPANY_NAME]'s claims with data, citations, or named examples instead of bare assertions.",
	},
	models.ReasonRenderRequired: {
		title: "Ensure content renders without JavaScript", actionVerb: "Fix",
		text:      "Server-render or pre-render [COMPANY_NAME]'s key content so it is visible without executing JavaScript.",
	},
	models.ReasonBlockedByRobots: {
		title: "Unblock crawling in robots.txt", actionVerb: "Fix",
		text:      "Remove the robots.txt rule blocking [COMPANY_NAME]'s content from being crawled.",
	},
}

// categoryTargetURL is the per-category fallback when a reason code has no
// scaffold-specific target URL.
var categoryTargetURL = map[models.Category]string{
	models.CategoryIdentity:        "/about",
	models.CategoryOfferings:       "/products",
	models.CategoryContact:         "/contact",
	models.CategoryTrust:           "/customers",
	models.CategoryDifferentiation: "/why-us",
}

func substituteCompany(text, company string) string {
	const token = "[COMPANY_NAME]"
	var out []byte
	for {
		idx := indexOf(text, token)
		if idx < 0 {
			out = append(out, text...)
			break
		}
		out = append(out, text[:idx]...)
		out = append(out, company...)
		text = text[idx+len(token):]
	}
	return string(out)
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func targetURLFor(code models.ReasonCode, cat models.Category) string {
	if sc, ok := scaffolds[code]; ok && sc.targetURL != "" {
		return sc.targetURL
	}
	return categoryTargetURL[cat]
}
