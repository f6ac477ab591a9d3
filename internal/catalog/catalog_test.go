package catalog

import (
	"reflect"
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

func TestUniversalHasExactlyFifteenQuestions(t *testing.T) {
	qs := Universal()
	if len(qs) != 15 {
		t.Fatalf("expected exactly 15 universal questions, got %d", len(qs))
	}
}

func TestByIDRoundTrip(t *testing.T) {
	for _, q := range Universal() {
		got, ok := ByID(q.ID)
		if !ok {
			t.Fatalf("ByID(%s) not found", q.ID)
		}
		if !reflect.DeepEqual(got, q) {
			t.Errorf("ByID(%s) = %+v, want %+v", q.ID, got, q)
		}
	}
	if _, ok := ByID("does-not-exist"); ok {
		t.Error("expected ByID to report false for an unknown id")
	}
}

func TestUniversalWeightsArePositiveAndSumIsStable(t *testing.T) {
	for _, q := range Universal() {
		if q.Weight <= 0 {
			t.Errorf("question %s has non-positive weight %f", q.ID, q.Weight)
		}
	}
	total := TotalWeight()
	if total2 := TotalWeight(); total2 != total {
		t.Errorf("TotalWeight is not stable across calls: %f vs %f", total, total2)
	}
}

func TestUniversalReturnsFreshCopyNotSharedBackingArray(t *testing.T) {
	a := Universal()
	a[0].Text = "mutated"
	b := Universal()
	if b[0].Text == "mutated" {
		t.Error("Universal() callers must not be able to mutate the shared catalog")
	}
}

func TestByCategoryAndByDifficultyPartitionTheSet(t *testing.T) {
	cats := []models.Category{
		models.CategoryIdentity, models.CategoryOfferings, models.CategoryContact,
		models.CategoryTrust, models.CategoryDifferentiation,
	}
	total := 0
	for _, c := range cats {
		total += len(ByCategory(c))
	}
	if total != 15 {
		t.Errorf("category partition does not cover all 15 questions, got %d", total)
	}

	diffs := []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard}
	total = 0
	for _, d := range diffs {
		total += len(ByDifficulty(d))
	}
	if total != 15 {
		t.Errorf("difficulty partition does not cover all 15 questions, got %d", total)
	}
}

func TestGenerateForSiteEmptyTextsProduceEmptyDerivedNotError(t *testing.T) {
	set := GenerateForSite(models.SiteContext{CompanyName: "Acme", Domain: "acme.com"}, DefaultOptions())
	if len(set.Universal) != 15 {
		t.Fatalf("expected 15 universal questions in the set, got %d", len(set.Universal))
	}
	if len(set.Derived) != 0 {
		t.Errorf("expected empty derived list for a site with no text, got %d", len(set.Derived))
	}
}

func TestGenerateForSiteDerivesTopicAndMetadataQuestions(t *testing.T) {
	ctx := models.SiteContext{
		CompanyName: "Acme",
		Domain:      "acme.com",
		PageTexts: []string{
			"Acme offers enterprise-grade API access and flexible pricing for every team. " +
				"Our AI-powered platform integrates with your existing tools.",
		},
	}
	set := GenerateForSite(ctx, DefaultOptions())
	if len(set.Derived) == 0 {
		t.Fatal("expected at least one derived question")
	}
	if len(set.Derived) > DefaultOptions().MaxQuestions {
		t.Errorf("derived list exceeds MaxQuestions: %d > %d", len(set.Derived), DefaultOptions().MaxQuestions)
	}

	var sawPricing, sawEnterprise, sawAI bool
	for _, q := range set.Derived {
		switch q.ID {
		case "DQ-topic-pricing":
			sawPricing = true
		case "DQ-meta-enterprise":
			sawEnterprise = true
		case "DQ-meta-ai":
			sawAI = true
		}
	}
	if !sawPricing {
		t.Error("expected a derived pricing question")
	}
	if !sawEnterprise {
		t.Error("expected a derived enterprise-offering question")
	}
	if !sawAI {
		t.Error("expected a derived AI-differentiation question")
	}
}

func TestGenerateForSiteDedupesByNormalizedText(t *testing.T) {
	ctx := models.SiteContext{
		CompanyName: "Acme",
		Domain:      "acme.com",
		PageTexts:   []string{"pricing PRICING Pricing plans and pricing tiers"},
		Headings:    map[int][]string{1: {"Pricing"}},
	}
	set := GenerateForSite(ctx, DefaultOptions())
	seen := map[string]int{}
	for _, q := range set.Derived {
		seen[q.Text]++
	}
	for text, count := range seen {
		if count > 1 {
			t.Errorf("expected deduplicated derived questions, got %d copies of %q", count, text)
		}
	}
}

func TestGenerateForSiteDerivesProductAndFeatureQuestions(t *testing.T) {
	ctx := models.SiteContext{
		CompanyName: "Acme",
		Domain:      "acme.com",
		PageTexts: []string{
			"Introducing Acme Flow, our new workflow product. " +
				"Acme Flow is a powerful tool for teams. " +
				"It includes collaboration feature and reporting feature built in.",
		},
	}
	set := GenerateForSite(ctx, DefaultOptions())

	var products, features int
	for _, q := range set.Derived {
		switch q.Metadata["derived_type"] {
		case "product":
			products++
		case "feature":
			features++
		}
	}
	if products == 0 {
		t.Error("expected at least one derived product question")
	}
	if products > 2 {
		t.Errorf("expected at most 2 product questions, got %d", products)
	}
	if features > 1 {
		t.Errorf("expected at most 1 feature question, got %d", features)
	}
}

func TestQuestionRenderSubstitutesCompanyPlaceholder(t *testing.T) {
	q := models.Question{Text: "What does {company} do?"}
	rendered := q.Render("Acme Corp")
	if rendered != "What does Acme Corp do?" {
		t.Errorf("Render() = %q, want substituted company name", rendered)
	}
}
