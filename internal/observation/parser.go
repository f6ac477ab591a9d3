// Package observation runs bounded batches of provider calls against the
// question set and parses each response for mentions, citations, sentiment
// and confidence signals.
package observation

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
	"mvdan.cc/xurls/v2"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

var urlRe = xurls.Strict()

type citationPattern struct {
	re   *regexp.Regexp
	kind models.CitationPatternType
}

var citationPatterns = []citationPattern{
	{regexp.MustCompile(`(?i)according to ([^,.]+)`), models.CitationDirectQuote},
	{regexp.MustCompile(`(?i)as (?:stated|reported|mentioned) by ([^,.]+)`), models.CitationAttribution},
	{regexp.MustCompile(`(?i)([^,.]+) (?:states?|reports?|says?|mentions?) that`), models.CitationAttribution},
	{regexp.MustCompile(`(?i)source:\s*([^\n]+)`), models.CitationSourceLink},
	{regexp.MustCompile(`(?i)from (?:the )?([^,.]+) website`), models.CitationReference},
	{regexp.MustCompile(`(?i)based on (?:information from )?([^,.]+)`), models.CitationReference},
	{regexp.MustCompile(`(?i)(?:visit|see|check out|more at)\s+(https?://\S+)`), models.CitationSourceLink},
}

var hedgingPhrases = []string{
	"i'm not sure", "i don't know", "i cannot confirm", "i'm unable to verify",
	"it's unclear", "i don't have information", "i cannot find", "may or may not",
	"might be", "could be", "possibly", "perhaps", "it seems", "appears to be",
	"reportedly", "allegedly", "i believe", "i think", "as far as i know", "to my knowledge",
}

var certaintyPhrases = []string{
	"definitely", "certainly", "absolutely", "without a doubt", "i can confirm",
	"it is clear that", "clearly", "obviously", "undoubtedly", "for certain",
	"in fact", "indeed", "specifically", "precisely",
}

var refusalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)i (?:cannot|can't|am unable to) (?:provide|give|answer)`),
	regexp.MustCompile(`(?i)i don't have (?:access to|information about)`),
	regexp.MustCompile(`(?i)i'm not able to`),
	regexp.MustCompile(`(?i)this is outside (?:my|the scope)`),
	regexp.MustCompile(`(?i)i cannot assist with`),
	regexp.MustCompile(`(?i)i'm sorry,? but i (?:cannot|can't)`),
}

var positiveIndicators = []string{
	"excellent", "great", "outstanding", "impressive", "innovative", "leading",
	"best", "top", "premier", "trusted", "reliable", "recommended", "praised",
	"acclaimed", "award-winning", "renowned", "successful", "effective",
	"efficient", "quality", "superior",
}

var negativeIndicators = []string{
	"poor", "bad", "disappointing", "problematic", "issues", "complaints",
	"criticized", "concerns", "lacking", "limited", "struggling", "failed",
	"controversial", "negative", "unreliable", "questionable", "inferior",
	"subpar", "inadequate", "deficient",
}

var specificClaimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$[\d,]+`),
	regexp.MustCompile(`\b\d{4}\b`),
	regexp.MustCompile(`\d+%`),
	regexp.MustCompile(`(?i)founded in \d{4}`),
	regexp.MustCompile(`(?i)headquartered in [A-Z][a-z]+`),
}

var companySuffixes = []string{
	" Inc", " Inc.", " LLC", " Ltd", " Ltd.", " Co", " Co.", " Corp", " Corp.",
	" Corporation", " Company", " Technologies", " Tech", " Software",
	" Solutions", " Services", " Group", " Holdings",
}

// Parse converts a raw provider response into a ParsedObservation.
func Parse(questionID, content, companyName, domain string) models.ParsedObservation {
	contentLower := strings.ToLower(content)

	mentions := extractMentions(content, contentLower, companyName, domain)
	citations := extractCitationPatterns(content, companyName)

	hasCompany := false
	hasDomain := false
	hasURL := false
	for _, m := range mentions {
		switch m.Type {
		case models.MentionExact, models.MentionPartial:
			hasCompany = true
		case models.MentionDomain:
			hasDomain = true
		case models.MentionURL:
			hasURL = true
		}
	}

	sentiment, sentimentScore := analyzeSentiment(contentLower)
	confidence, hedgeCount, certaintyCount := analyzeConfidence(contentLower)
	refused := checkRefusal(contentLower)
	uncertain := confidence == models.ConfidenceLow || hedgeCount > 2

	hasExplicitCitation := false
	patternTypes := make([]models.CitationPatternType, 0, len(citations))
	for _, c := range citations {
		patternTypes = append(patternTypes, c)
		if c != models.CitationImplicit {
			hasExplicitCitation = true
		}
	}

	specificClaims := 0
	for _, p := range specificClaimPatterns {
		if p.MatchString(content) {
			specificClaims++
		}
	}
	hallucinationRisk := (confidence == models.ConfidenceHigh && !hasExplicitCitation && len(mentions) > 0) ||
		(specificClaims >= 3 && !hasExplicitCitation)

	_ = certaintyCount

	return models.ParsedObservation{
		QuestionID:        questionID,
		Mentions:          mentions,
		Citations:         extractURLCitations(content, domain),
		CitationPatterns:  patternTypes,
		Sentiment:         sentiment,
		SentimentScore:    sentimentScore,
		Confidence:        confidence,
		Uncertain:         uncertain,
		Refused:           refused,
		HallucinationRisk: hallucinationRisk,
		HasCompanyMention: hasCompany,
		HasDomainMention:  hasDomain,
		HasURLMention:     hasURL,
	}
}

func extractMentions(content, contentLower, companyName, domain string) []models.Mention {
	var mentions []models.Mention

	for _, variation := range nameVariations(companyName) {
		varLower := strings.ToLower(variation)
		if varLower == "" {
			continue
		}
		for _, idx := range findAllIndex(contentLower, varLower) {
			mtype := models.MentionPartial
			confidence := float64(len(variation)) / float64(len(companyName))
			if varLower == strings.ToLower(companyName) {
				mtype = models.MentionExact
				confidence = 1.0
			}
			mentions = append(mentions, models.Mention{
				Type:       mtype,
				Text:       content[idx : idx+len(variation)],
				StartPos:   idx,
				Confidence: confidence,
			})
		}
	}

	if domain != "" {
		domainLower := strings.ToLower(domain)
		for _, idx := range findAllIndex(contentLower, domainLower) {
			mentions = append(mentions, models.Mention{
				Type:       models.MentionDomain,
				Text:       content[idx : idx+len(domain)],
				StartPos:   idx,
				Confidence: 1.0,
			})
		}
	}

	for _, m := range urlRe.FindAllStringIndex(content, -1) {
		url := content[m[0]:m[1]]
		if domain != "" && sameSite(url, domain) {
			mentions = append(mentions, models.Mention{
				Type:       models.MentionURL,
				Text:       url,
				StartPos:   m[0],
				Confidence: 1.0,
			})
		}
	}

	return dedupeMentionsByPosition(mentions)
}

func nameVariations(companyName string) []string {
	variations := []string{companyName}
	nameLower := strings.ToLower(companyName)

	for _, suffix := range companySuffixes {
		if strings.HasSuffix(nameLower, strings.ToLower(suffix)) {
			base := strings.TrimSpace(companyName[:len(companyName)-len(suffix)])
			if base != "" && !containsStr(variations, base) {
				variations = append(variations, base)
			}
		}
	}

	if strings.HasPrefix(nameLower, "the ") {
		withoutThe := companyName[4:]
		if !containsStr(variations, withoutThe) {
			variations = append(variations, withoutThe)
		}
	}

	words := strings.Fields(companyName)
	startIdx := 0
	if len(words) > 0 && strings.ToLower(words[0]) == "the" {
		startIdx = 1
	}
	if len(words) > startIdx+1 && len(words[startIdx]) >= 3 && !containsStr(variations, words[startIdx]) {
		variations = append(variations, words[startIdx])
	}

	return variations
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func findAllIndex(haystack, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	start := 0
	for {
		idx := strings.Index(haystack[start:], needle)
		if idx < 0 {
			break
		}
		out = append(out, start+idx)
		start = start + idx + len(needle)
	}
	return out
}

func dedupeMentionsByPosition(mentions []models.Mention) []models.Mention {
	sort.SliceStable(mentions, func(i, j int) bool { return mentions[i].Confidence > mentions[j].Confidence })
	seen := make(map[int]struct{})
	var out []models.Mention
	for _, m := range mentions {
		if _, ok := seen[m.StartPos]; ok {
			continue
		}
		seen[m.StartPos] = struct{}{}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartPos < out[j].StartPos })
	return out
}

func sameSite(url, domain string) bool {
	urlLower := strings.ToLower(url)
	domainLower := strings.ToLower(domain)
	if strings.Contains(urlLower, domainLower) {
		return true
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(stripScheme(urlLower))
	if err != nil {
		return false
	}
	return strings.Contains(domainLower, etld1) || strings.Contains(etld1, domainLower)
}

func stripScheme(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	if idx := strings.IndexAny(url, "/?#"); idx >= 0 {
		url = url[:idx]
	}
	return url
}

// extractURLCitations classifies every URL in content relative to domain.
func extractURLCitations(content, domain string) []models.Citation {
	var out []models.Citation
	domainLower := strings.ToLower(domain)
	for _, url := range urlRe.FindAllString(content, -1) {
		ctype := models.CitationExternalURL
		if domainLower != "" && strings.Contains(strings.ToLower(url), domainLower) {
			ctype = models.CitationCompanyURL
		}
		out = append(out, models.Citation{URL: url, Type: ctype})
	}
	return out
}

func extractCitationPatterns(content, companyName string) []models.CitationPatternType {
	var out []models.CitationPatternType
	for _, cp := range citationPatterns {
		if cp.re.MatchString(content) {
			out = append(out, cp.kind)
		}
	}
	if len(out) == 0 && companyName != "" && strings.Contains(strings.ToLower(content), strings.ToLower(companyName)) {
		out = append(out, models.CitationImplicit)
	}
	return out
}

func analyzeSentiment(contentLower string) (models.Sentiment, float64) {
	positive := countMatches(contentLower, positiveIndicators)
	negative := countMatches(contentLower, negativeIndicators)
	total := positive + negative
	if total == 0 {
		return models.SentimentNeutral, 0.0
	}
	score := float64(positive-negative) / float64(total)
	switch {
	case score > 0.3:
		return models.SentimentPositive, score
	case score < -0.3:
		return models.SentimentNegative, score
	case positive > 0 && negative > 0:
		return models.SentimentMixed, score
	default:
		return models.SentimentNeutral, score
	}
}

func countMatches(contentLower string, words []string) int {
	count := 0
	for _, w := range words {
		if strings.Contains(contentLower, w) {
			count++
		}
	}
	return count
}

// analyzeConfidence returns the coarse ConfidenceLevel plus raw hedging and
// certainty phrase counts; Parse uses the hedging count for the uncertainty
// derivation and does not use the certainty count.
func analyzeConfidence(contentLower string) (models.ConfidenceLevel, int, int) {
	hedging := countMatches(contentLower, hedgingPhrases)
	certainty := countMatches(contentLower, certaintyPhrases)

	switch {
	case hedging == 0 && certainty == 0:
		return models.ConfidenceMedium, hedging, certainty
	case hedging > certainty*2:
		return models.ConfidenceLow, hedging, certainty
	case certainty > hedging*2:
		return models.ConfidenceHigh, hedging, certainty
	default:
		return models.ConfidenceMedium, hedging, certainty
	}
}

func checkRefusal(contentLower string) bool {
	for _, re := range refusalPatterns {
		if re.MatchString(contentLower) {
			return true
		}
	}
	return false
}
