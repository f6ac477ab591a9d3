package catalog

import "github.com/avgjoe1017/findable-v1-sub000/internal/models"

// universalQuestions is the fixed, versioned 15-question set. Text, ids,
// categories, difficulties, descriptions, expected signals and weights are
// transcribed verbatim from the reference question bank: 3 identity, 4
// offerings, 2 contact, 3 trust, 3 differentiation; 5 easy, 7 medium, 3 hard.
var universalQuestions = []models.Question{
	{
		ID: "UQ-01", Text: "What does {company} do?",
		Category: models.CategoryIdentity, Difficulty: models.DifficultyEasy, Source: models.SourceUniversal,
		Weight:      1.5,
		Description: "Core business description - the fundamental question AI must answer correctly",
		ExpectedSignals: []string{
			"clear business description",
			"industry/sector mentioned",
			"primary activity stated",
		},
	},
	{
		ID: "UQ-02", Text: "Who founded {company} and when was it established?",
		Category: models.CategoryIdentity, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Origin story establishes credibility and context",
		ExpectedSignals: []string{
			"founder name(s)",
			"founding year",
			"founding story/context",
		},
	},
	{
		ID: "UQ-03", Text: "Where is {company} headquartered and where do they operate?",
		Category: models.CategoryIdentity, Difficulty: models.DifficultyEasy, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Geographic presence affects relevance for location-based queries",
		ExpectedSignals: []string{
			"headquarters location",
			"operating regions",
			"office locations",
		},
	},
	{
		ID: "UQ-04", Text: "What products or services does {company} offer?",
		Category: models.CategoryOfferings, Difficulty: models.DifficultyEasy, Source: models.SourceUniversal,
		Weight:      1.5,
		Description: "Core offerings are essential for AI to recommend or cite",
		ExpectedSignals: []string{
			"product/service names",
			"clear descriptions",
			"key features",
		},
	},
	{
		ID: "UQ-05", Text: "What is {company}'s pricing or how much do their services cost?",
		Category: models.CategoryOfferings, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Pricing information is crucial for purchase decisions",
		ExpectedSignals: []string{
			"pricing tiers",
			"specific prices",
			"pricing model explanation",
		},
	},
	{
		ID: "UQ-06", Text: "Who are the typical customers or target audience for {company}?",
		Category: models.CategoryOfferings, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Target audience helps AI match users to appropriate solutions",
		ExpectedSignals: []string{
			"customer segments",
			"use cases",
			"industry verticals",
		},
	},
	{
		ID: "UQ-07", Text: "What problems does {company} solve for their customers?",
		Category: models.CategoryOfferings, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.2,
		Description: "Problem-solution framing is how users often search",
		ExpectedSignals: []string{
			"pain points addressed",
			"solutions provided",
			"outcomes achieved",
		},
	},
	{
		ID: "UQ-08", Text: "How can I contact {company} or get in touch with them?",
		Category: models.CategoryContact, Difficulty: models.DifficultyEasy, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Contact information enables user action",
		ExpectedSignals: []string{
			"email address",
			"phone number",
			"contact form mention",
			"physical address",
		},
	},
	{
		ID: "UQ-09", Text: "How do I get started with {company} or sign up for their service?",
		Category: models.CategoryContact, Difficulty: models.DifficultyEasy, Source: models.SourceUniversal,
		Weight:      1.2,
		Description: "Onboarding path is critical for conversion",
		ExpectedSignals: []string{
			"signup process",
			"getting started steps",
			"trial/demo availability",
		},
	},
	{
		ID: "UQ-10", Text: "What notable clients or customers does {company} have?",
		Category: models.CategoryTrust, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Social proof through recognizable clients builds trust",
		ExpectedSignals: []string{
			"client names",
			"case studies",
			"testimonials",
			"logos/partnerships",
		},
	},
	{
		ID: "UQ-11", Text: "What awards, certifications, or recognition has {company} received?",
		Category: models.CategoryTrust, Difficulty: models.DifficultyHard, Source: models.SourceUniversal,
		Weight:      0.8,
		Description: "Third-party validation signals quality and reliability",
		ExpectedSignals: []string{
			"awards mentioned",
			"certifications listed",
			"industry recognition",
			"press coverage",
		},
	},
	{
		ID: "UQ-12", Text: "What is {company}'s track record or history of success?",
		Category: models.CategoryTrust, Difficulty: models.DifficultyHard, Source: models.SourceUniversal,
		Weight:      1.0,
		Description: "Performance history demonstrates reliability",
		ExpectedSignals: []string{
			"years in business",
			"growth metrics",
			"success stories",
			"customer count",
		},
	},
	{
		ID: "UQ-13", Text: "What makes {company} different from competitors?",
		Category: models.CategoryDifferentiation, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      1.2,
		Description: "Unique value proposition helps AI recommend appropriately",
		ExpectedSignals: []string{
			"unique features",
			"competitive advantages",
			"proprietary technology",
			"differentiating factors",
		},
	},
	{
		ID: "UQ-14", Text: "Why should someone choose {company} over alternatives?",
		Category: models.CategoryDifferentiation, Difficulty: models.DifficultyHard, Source: models.SourceUniversal,
		Weight:      1.2,
		Description: "Compelling reasons to choose drive recommendations",
		ExpectedSignals: []string{
			"value propositions",
			"benefits over alternatives",
			"unique selling points",
		},
	},
	{
		ID: "UQ-15", Text: "What is {company}'s mission, vision, or core values?",
		Category: models.CategoryDifferentiation, Difficulty: models.DifficultyMedium, Source: models.SourceUniversal,
		Weight:      0.8,
		Description: "Purpose and values help AI understand brand positioning",
		ExpectedSignals: []string{
			"mission statement",
			"vision statement",
			"core values",
			"company purpose",
		},
	},
}

// Universal returns a fresh copy of the 15 universal questions.
func Universal() []models.Question {
	out := make([]models.Question, len(universalQuestions))
	copy(out, universalQuestions)
	return out
}

// ByID returns a universal question by id.
func ByID(id string) (models.Question, bool) {
	for _, q := range universalQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return models.Question{}, false
}

// ByCategory filters universal questions by category.
func ByCategory(c models.Category) []models.Question {
	var out []models.Question
	for _, q := range universalQuestions {
		if q.Category == c {
			out = append(out, q)
		}
	}
	return out
}

// ByDifficulty filters universal questions by difficulty.
func ByDifficulty(d models.Difficulty) []models.Question {
	var out []models.Question
	for _, q := range universalQuestions {
		if q.Difficulty == d {
			out = append(out, q)
		}
	}
	return out
}

// TotalWeight returns the sum of all universal question weights. This sum is
// an invariant of the catalog version.
func TotalWeight() float64 {
	var total float64
	for _, q := range universalQuestions {
		total += q.Weight
	}
	return total
}

// CategoryWeights returns the total weight per category.
func CategoryWeights() map[models.Category]float64 {
	weights := make(map[models.Category]float64)
	for _, q := range universalQuestions {
		weights[q.Category] += q.Weight
	}
	return weights
}
