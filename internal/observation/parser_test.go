package observation

import (
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func TestParseDetectsExactMention(t *testing.T) {
	p := Parse("q1", "Acme Corp is a great company that builds tools.", "Acme Corp", "acme.com")
	if !p.HasCompanyMention {
		t.Error("expected company mention to be detected")
	}
}

func TestParseDetectsDomainMention(t *testing.T) {
	p := Parse("q1", "You can find more information at acme.com.", "Acme Corp", "acme.com")
	if !p.HasDomainMention {
		t.Error("expected domain mention to be detected")
	}
}

func TestParseDetectsURLMention(t *testing.T) {
	p := Parse("q1", "See https://acme.com/pricing for details.", "Acme Corp", "acme.com")
	if !p.HasURLMention {
		t.Error("expected URL mention to be detected")
	}
	if len(p.Citations) == 0 || p.Citations[0].Type != models.CitationCompanyURL {
		t.Errorf("expected a company_url citation, got %+v", p.Citations)
	}
}

func TestParseRefusalDetection(t *testing.T) {
	p := Parse("q1", "I'm sorry, but I cannot provide information about private companies.", "Acme Corp", "acme.com")
	if !p.Refused {
		t.Error("expected refusal to be detected")
	}
}

func TestParseSentiment(t *testing.T) {
	pos := Parse("q1", "Acme is an excellent, trusted, and innovative leading provider.", "Acme", "acme.com")
	if pos.Sentiment != models.SentimentPositive {
		t.Errorf("expected positive sentiment, got %s", pos.Sentiment)
	}

	neg := Parse("q1", "Acme has been criticized for poor and unreliable service.", "Acme", "acme.com")
	if neg.Sentiment != models.SentimentNegative {
		t.Errorf("expected negative sentiment, got %s", neg.Sentiment)
	}

	neutral := Parse("q1", "Acme is a company that sells software.", "Acme", "acme.com")
	if neutral.Sentiment != models.SentimentNeutral {
		t.Errorf("expected neutral sentiment, got %s", neutral.Sentiment)
	}
}

func TestParseHallucinationRiskOnUnsupportedSpecifics(t *testing.T) {
	p := Parse("q1", "Acme was founded in 1998, has grown 200% since, and charges $5,000 per year.", "Acme", "acme.com")
	if !p.HallucinationRisk {
		t.Error("expected hallucination risk flag for multiple unsupported specific claims")
	}
}

func TestParseCitationPatterns(t *testing.T) {
	p := Parse("q1", "According to Acme, their product is the best on the market.", "Acme", "acme.com")
	found := false
	for _, c := range p.CitationPatterns {
		if c == models.CitationDirectQuote {
			found = true
		}
	}
	if !found {
		t.Errorf("expected direct_quote citation pattern, got %v", p.CitationPatterns)
	}
}

func TestNameVariationsStripsCorpSuffix(t *testing.T) {
	vars := nameVariations("Acme Corp")
	found := false
	for _, v := range vars {
		if v == "Acme" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Acme' variation after stripping ' Corp', got %v", vars)
	}
}
