package catalog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

// Options controls the site-derivation pass.
type Options struct {
	MinKeywordFrequency int
	MaxQuestions        int
}

// DefaultOptions mirrors the recognized configuration defaults for the catalog.
func DefaultOptions() Options {
	return Options{MinKeywordFrequency: 3, MaxQuestions: 5}
}

var topicPatterns = []struct {
	name  string
	re    *regexp.Regexp
	text  string
}{
	{"pricing", regexp.MustCompile(`(?i)\bpric(e|es|ing)\b`), "What are {company}'s pricing plans and what do they include?"},
	{"blog", regexp.MustCompile(`(?i)\bblog\b`), "What topics does {company} cover on their blog?"},
	{"careers", regexp.MustCompile(`(?i)\bcareers?\b|\bjobs\b|\bhiring\b`), "What career opportunities does {company} offer?"},
	{"api", regexp.MustCompile(`(?i)\bapi\b`), "What API capabilities does {company} provide for developers?"},
	{"integrations", regexp.MustCompile(`(?i)\bintegrations?\b`), "What integrations does {company} support?"},
}

// entityPatterns extracts candidate product/feature names from free text,
// transcribed from the reference ENTITY_PATTERNS table.
var entityPatterns = map[string][]*regexp.Regexp{
	"products": {
		regexp.MustCompile(`(?i)our\s+(\w+(?:\s+\w+)?)\s+(?:product|platform|solution)`),
		regexp.MustCompile(`(?i)introducing\s+(\w+(?:\s+\w+)?)`),
		regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+is\s+(?:a|our|the)\s+`),
	},
	"features": {
		regexp.MustCompile(`(?i)(?:with|includes?|offers?)\s+(\w+(?:\s+\w+)?)\s+feature`),
		regexp.MustCompile(`(?i)(\w+(?:\s+\w+)?)\s+capability`),
	},
}

// extractEntities runs entityPatterns[kind] against text and returns up to
// 10 deduplicated matches, preserving first-seen order.
func extractEntities(text, kind string) []string {
	var entities []string
	for _, re := range entityPatterns[kind] {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			cleaned := strings.TrimSpace(m[1])
			if len(cleaned) <= 2 {
				continue
			}
			if _, stop := stopWords[strings.ToLower(cleaned)]; stop {
				continue
			}
			entities = append(entities, cleaned)
		}
	}
	seen := make(map[string]struct{})
	var unique []string
	for _, e := range entities {
		lw := strings.ToLower(e)
		if _, ok := seen[lw]; ok {
			continue
		}
		seen[lw] = struct{}{}
		unique = append(unique, e)
		if len(unique) == 10 {
			break
		}
	}
	return unique
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "your": {}, "you": {}, "our": {}, "can": {}, "will": {}, "has": {},
	"have": {}, "all": {}, "more": {}, "about": {}, "into": {}, "out": {}, "their": {},
	"they": {}, "them": {}, "its": {}, "it's": {}, "was": {}, "were": {}, "been": {},
	"not": {}, "but": {}, "who": {}, "what": {}, "when": {}, "where": {}, "how": {},
	"get": {}, "use": {}, "using": {},
}

var wordRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// GenerateForSite derives up to Options.MaxQuestions additional site-specific
// questions from the SiteContext's concatenated texts, headings and metadata.
// Missing texts produce an empty derived list, never an error.
func GenerateForSite(ctx models.SiteContext, opts Options) models.QuestionSet {
	qs := models.QuestionSet{Universal: Universal()}

	corpus := strings.Join(ctx.PageTexts, "\n")
	for _, hs := range ctx.Headings {
		corpus += "\n" + strings.Join(hs, "\n")
	}
	corpus += "\n" + ctx.Title + "\n" + ctx.Description

	var derived []models.Question

	products := extractEntities(corpus, "products")
	if len(products) > 2 {
		products = products[:2]
	}
	for _, product := range products {
		derived = append(derived, models.Question{
			ID:              "DQ-product-" + slugify(product),
			Text:            "What is {company}'s " + product + " and how does it work?",
			Category:        models.CategoryOfferings,
			Difficulty:      models.DifficultyMedium,
			Source:          models.SourceContent,
			Weight:          0.9,
			ExpectedSignals: []string{"product description", "functionality"},
			Metadata:        map[string]string{"product": product, "derived_type": "product"},
		})
	}

	features := extractEntities(corpus, "features")
	if len(features) > 1 {
		features = features[:1]
	}
	for _, feature := range features {
		derived = append(derived, models.Question{
			ID:              "DQ-feature-" + slugify(feature),
			Text:            "How does {company}'s " + feature + " feature work?",
			Category:        models.CategoryOfferings,
			Difficulty:      models.DifficultyMedium,
			Source:          models.SourceContent,
			Weight:          0.8,
			ExpectedSignals: []string{"feature explanation", "use case"},
			Metadata:        map[string]string{"feature": feature, "derived_type": "feature"},
		})
	}

	for _, tp := range topicPatterns {
		if tp.re.MatchString(corpus) {
			derived = append(derived, models.Question{
				ID:         "DQ-topic-" + tp.name,
				Text:       tp.text,
				Category:   models.CategoryOfferings,
				Difficulty: models.DifficultyMedium,
				Source:     models.SourceContent,
				Weight:     1.0,
			})
		}
	}

	lower := strings.ToLower(corpus)
	if strings.Contains(lower, "enterprise") {
		derived = append(derived, models.Question{
			ID:         "DQ-meta-enterprise",
			Text:       "What enterprise-grade capabilities does {company} offer?",
			Category:   models.CategoryOfferings,
			Difficulty: models.DifficultyMedium,
			Source:     models.SourceMetadata,
			Weight:     1.0,
		})
	}
	if strings.Contains(lower, "ai") || strings.Contains(lower, "machine learning") {
		derived = append(derived, models.Question{
			ID:         "DQ-meta-ai",
			Text:       "How does {company} use AI or machine learning to differentiate itself?",
			Category:   models.CategoryDifferentiation,
			Difficulty: models.DifficultyMedium,
			Source:     models.SourceMetadata,
			Weight:     1.0,
		})
	}

	if kw := topKeyword(corpus, opts.MinKeywordFrequency); kw != "" {
		derived = append(derived, models.Question{
			ID:         "DQ-keyword-" + kw,
			Text:       "What does {company} offer related to " + kw + "?",
			Category:   models.CategoryOfferings,
			Difficulty: models.DifficultyMedium,
			Source:     models.SourceContent,
			Weight:     1.0,
		})
	}

	derived = dedupeByText(derived)
	if len(derived) > opts.MaxQuestions {
		derived = derived[:opts.MaxQuestions]
	}
	qs.Derived = derived
	return qs
}

// topKeyword finds the most frequent content word (≥3 letters, stop-words
// removed) appearing at least minFreq times.
func topKeyword(corpus string, minFreq int) string {
	counts := make(map[string]int)
	for _, w := range wordRe.FindAllString(corpus, -1) {
		lw := strings.ToLower(w)
		if _, stop := stopWords[lw]; stop {
			continue
		}
		counts[lw]++
	}

	type kv struct {
		word  string
		count int
	}
	var all []kv
	for w, c := range counts {
		if c >= minFreq {
			all = append(all, kv{w, c})
		}
	}
	if len(all) == 0 {
		return ""
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	return all[0].word
}

// slugify lowercases an extracted entity and collapses whitespace into
// hyphens for use in a derived question id.
func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}

func dedupeByText(qs []models.Question) []models.Question {
	seen := make(map[string]struct{})
	var out []models.Question
	for _, q := range qs {
		key := strings.ToLower(strings.TrimSpace(q.Text))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}
