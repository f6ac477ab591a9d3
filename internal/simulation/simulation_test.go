package simulation

import (
	"context"
	"testing"

	"github.com/avgjoe1017/findable-v1-sub000/internal/catalog"
	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
	"github.com/avgjoe1017/findable-v1-sub000/internal/retrieval"
)

// S1 — empty site: no chunks indexed, universal questions only.
func TestRunEmptySiteEveryQuestionIsUnanswerable(t *testing.T) {
	idx := retrieval.New()
	questions := catalog.Universal()

	result := Run(context.Background(), idx, "Acme", questions, DefaultOptions())

	if len(result.Results) != 15 {
		t.Fatalf("expected 15 question results, got %d", len(result.Results))
	}
	for _, qr := range result.Results {
		if qr.Answerability != models.AnswerNot {
			t.Errorf("question %s: expected not_answerable on an empty index, got %s", qr.Question.ID, qr.Answerability)
		}
		if qr.Score != 0 {
			t.Errorf("question %s: expected score 0 on an empty index, got %f", qr.Question.ID, qr.Score)
		}
		if qr.Confidence != models.ConfidenceHigh {
			t.Errorf("question %s: expected high confidence (certain there is nothing), got %s", qr.Question.ID, qr.Confidence)
		}
	}
	if result.OverallScore != 0 {
		t.Errorf("expected overall score 0, got %f", result.OverallScore)
	}
	if result.Answered != 0 || result.Partial != 0 || result.Unanswered != 15 {
		t.Errorf("expected all 15 unanswered, got answered=%d partial=%d unanswered=%d", result.Answered, result.Partial, result.Unanswered)
	}
}

// S2 — rich site: every universal question gets its own chunk that echoes
// the rendered question text (guaranteeing a strong lexical match) plus
// every expected signal verbatim.
func TestRunRichSiteEveryQuestionIsFullyAnswerable(t *testing.T) {
	idx := retrieval.New()
	questions := catalog.Universal()

	for i, q := range questions {
		content := q.Render("Acme") + " " + joinSignals(q.ExpectedSignals)
		idx.Add(docID(i), content, nil, "https://acme.com/page", "Acme", "")
	}

	result := Run(context.Background(), idx, "Acme", questions, DefaultOptions())

	for _, qr := range result.Results {
		if qr.Context.Count == 0 {
			t.Errorf("question %s: expected a retrieved chunk, got none", qr.Question.ID)
			continue
		}
		if qr.SignalsTotal > 0 && qr.SignalsFound != qr.SignalsTotal {
			t.Errorf("question %s: expected all signals found, found %d/%d", qr.Question.ID, qr.SignalsFound, qr.SignalsTotal)
		}
		if qr.Answerability != models.AnswerFully {
			t.Errorf("question %s: expected fully answerable, got %s", qr.Question.ID, qr.Answerability)
		}
	}
}

func TestRunIsDeterministicAndOrdersResultsAsInput(t *testing.T) {
	idx := retrieval.New()
	idx.Add("d1", "Acme is a software company based in Austin", nil, "https://acme.com", "Acme", "")
	questions := catalog.Universal()

	r1 := Run(context.Background(), idx, "Acme", questions, DefaultOptions())
	r2 := Run(context.Background(), idx, "Acme", questions, DefaultOptions())

	if len(r1.Results) != len(r2.Results) {
		t.Fatalf("non-deterministic result length")
	}
	for i := range r1.Results {
		if r1.Results[i].Question.ID != questions[i].ID {
			t.Errorf("result %d out of input order: got %s want %s", i, r1.Results[i].Question.ID, questions[i].ID)
		}
		if r1.Results[i].Question.ID != r2.Results[i].Question.ID || r1.Results[i].Score != r2.Results[i].Score {
			t.Errorf("non-deterministic simulation at position %d", i)
		}
	}
}

func TestRunHonorsCancellationAtQuestionBoundary(t *testing.T) {
	idx := retrieval.New()
	idx.Add("d1", "Acme is a software company", nil, "https://acme.com", "Acme", "")
	questions := catalog.Universal()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before the first question boundary check

	result := Run(ctx, idx, "Acme", questions, DefaultOptions())
	if !result.Cancelled {
		t.Fatal("expected Cancelled=true")
	}
	if len(result.Results) != 0 {
		t.Errorf("expected zero QuestionResults for a pre-cancelled run, got %d", len(result.Results))
	}
}

func TestAnsweredPlusPartialPlusUnansweredEqualsTotal(t *testing.T) {
	idx := retrieval.New()
	idx.Add("d1", "Acme offers pricing plans starting at $10 per month for small teams", nil, "https://acme.com/pricing", "Pricing", "")
	questions := catalog.Universal()

	result := Run(context.Background(), idx, "Acme", questions, DefaultOptions())
	total := result.Answered + result.Partial + result.Unanswered
	if total != len(questions) {
		t.Errorf("answered+partial+unanswered = %d, want %d", total, len(questions))
	}
	for _, qr := range result.Results {
		if qr.Score < 0 || qr.Score > 1 {
			t.Errorf("question %s: score %f out of [0,1]", qr.Question.ID, qr.Score)
		}
		if qr.SignalsFound > qr.SignalsTotal {
			t.Errorf("question %s: signals_found %d exceeds signals_total %d", qr.Question.ID, qr.SignalsFound, qr.SignalsTotal)
		}
	}
}

func joinSignals(signals []string) string {
	out := ""
	for _, s := range signals {
		out += s + ". "
	}
	return out
}

func docID(i int) string {
	return "doc-" + string(rune('a'+i))
}
