// Package retrieval implements the hybrid lexical+semantic retriever: an
// in-memory, single-writer/single-reader index fused by Reciprocal-Rank
// Fusion (k=60), with deterministic tie-breaking.
package retrieval

import (
	"math"
	"sort"
	"strings"

	"github.com/avgjoe1017/findable-v1-sub000/internal/models"
)

const rrfK = 60

// doc is a stored, immutable index entry.
type doc struct {
	id          string
	content     string
	url         string
	title       string
	headingPath string
	embedding   []float64
	terms       map[string]int
	termCount   int
}

// Index is the in-memory hybrid retriever. The zero value is not usable; use
// New. An Index is single-writer during the add phase and read-only
// thereafter; no locking is performed within a single run (see spec's
// concurrency model — each run owns its own index).
type Index struct {
	docs    []*doc
	byID    map[string]*doc
	df      map[string]int // document frequency per term, for BM25-ish weighting
}

// New creates an empty index.
func New() *Index {
	return &Index{byID: make(map[string]*doc), df: make(map[string]int)}
}

// Add inserts one chunk into the index. Chunks are immutable after Add.
func (idx *Index) Add(docID, content string, embedding []float64, url, title, headingPath string) {
	terms := tokenize(content)
	freq := make(map[string]int, len(terms))
	for _, t := range terms {
		freq[t]++
	}
	d := &doc{
		id:          docID,
		content:     content,
		url:         url,
		title:       title,
		headingPath: headingPath,
		embedding:   embedding,
		terms:       freq,
		termCount:   len(terms),
	}
	idx.docs = append(idx.docs, d)
	idx.byID[docID] = d
	for t := range freq {
		idx.df[t]++
	}
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int { return len(idx.docs) }

// Search answers search(query, limit, min_score) -> []RetrievalResult per the
// hybrid retriever contract. Empty query or empty index yield an empty
// result, never an error.
func (idx *Index) Search(query string, limit int, minScore float64) []models.RetrievalResult {
	query = strings.TrimSpace(query)
	if query == "" || len(idx.docs) == 0 {
		return nil
	}

	lexRanked := idx.rankLexical(query)
	vecRanked, vecOK := idx.rankVector(query)

	lexRank := make(map[string]int, len(lexRanked))
	lexScore := make(map[string]float64, len(lexRanked))
	for i, r := range lexRanked {
		lexRank[r.id] = i + 1
		lexScore[r.id] = r.score
	}
	vecRank := make(map[string]int, len(vecRanked))
	if vecOK {
		for i, r := range vecRanked {
			vecRank[r.id] = i + 1
		}
	}

	type fused struct {
		id    string
		score float64
	}
	var results []fused
	seen := make(map[string]struct{})
	for _, d := range idx.docs {
		if _, ok := seen[d.id]; ok {
			continue
		}
		seen[d.id] = struct{}{}
		var score float64
		if r, ok := lexRank[d.id]; ok {
			score += 1.0 / float64(rrfK+r)
		}
		if vecOK {
			if r, ok := vecRank[d.id]; ok {
				score += 1.0 / float64(rrfK+r)
			}
		}
		results = append(results, fused{d.id, score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		li, lj := lexScore[results[i].id], lexScore[results[j].id]
		if li != lj {
			return li > lj
		}
		return results[i].id < results[j].id
	})

	var out []models.RetrievalResult
	for _, f := range results {
		if f.score < minScore {
			continue
		}
		d := idx.byID[f.id]
		out = append(out, models.RetrievalResult{
			DocID:         d.id,
			Content:       d.content,
			CombinedScore: f.score,
			LexicalScore:  lexScore[d.id],
			VectorScore:   vecScoreOf(vecRanked, d.id),
			URL:           d.url,
			Title:         d.title,
			HeadingPath:   d.headingPath,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

type scored struct {
	id    string
	score float64
}

// rankLexical produces a BM25-style bag-of-words ranking. The contract only
// requires monotonicity in term-match quality, which a simplified BM25
// satisfies.
func (idx *Index) rankLexical(query string) []scored {
	qTerms := tokenize(query)
	if len(qTerms) == 0 {
		return nil
	}
	const k1 = 1.2
	const b = 0.75

	avgLen := 0.0
	for _, d := range idx.docs {
		avgLen += float64(d.termCount)
	}
	if len(idx.docs) > 0 {
		avgLen /= float64(len(idx.docs))
	}

	n := float64(len(idx.docs))
	var out []scored
	for _, d := range idx.docs {
		var s float64
		for _, t := range qTerms {
			tf := float64(d.terms[t])
			if tf == 0 {
				continue
			}
			df := float64(idx.df[t])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			denom := tf + k1*(1-b+b*float64(d.termCount)/maxF(avgLen, 1))
			s += idf * (tf * (k1 + 1)) / denom
		}
		if s > 0 {
			out = append(out, scored{d.id, s})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].id < out[j].id
	})
	return out
}

// rankVector produces a cosine-similarity ranking against a fresh query
// embedding. Since the core has no embedder (an external collaborator), the
// query embedding is derived deterministically from its tokens for the
// in-memory default backend. Documents without an embedding are left out of
// the vector ranking; when no document carries one, ok=false and Search
// ranks lexically only. Search does not report to its caller that the
// vector half was skipped.
func (idx *Index) rankVector(query string) ([]scored, bool) {
	hasEmbeddings := false
	for _, d := range idx.docs {
		if len(d.embedding) > 0 {
			hasEmbeddings = true
			break
		}
	}
	if !hasEmbeddings {
		return nil, false
	}
	qVec := embedQuery(query, dimOf(idx.docs))
	var out []scored
	for _, d := range idx.docs {
		if len(d.embedding) == 0 {
			continue
		}
		s := cosine(qVec, d.embedding)
		out = append(out, scored{d.id, s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].id < out[j].id
	})
	return out, true
}

func dimOf(docs []*doc) int {
	for _, d := range docs {
		if len(d.embedding) > 0 {
			return len(d.embedding)
		}
	}
	return 0
}

// embedQuery is a deterministic bag-of-words hashing embedding. Search
// always embeds the query this way; it takes no precomputed query embedding.
func embedQuery(query string, dim int) []float64 {
	if dim == 0 {
		return nil
	}
	vec := make([]float64, dim)
	for _, t := range tokenize(query) {
		h := hashString(t)
		vec[int(h%uint32(dim))] += 1
	}
	return vec
}

func hashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func vecScoreOf(ranked []scored, id string) float64 {
	for _, r := range ranked {
		if r.id == id {
			return r.score
		}
	}
	return 0
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

var tokenRe = strings.NewReplacer(
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	"(", " ", ")", " ", "\"", " ", "'", " ", "\n", " ", "\t", " ",
)

func tokenize(s string) []string {
	s = tokenRe.Replace(strings.ToLower(s))
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// Normalize applies the normalization contract Simulation relies on: RRF
// scores have typical magnitude 1e-3..3e-2; this maps them into [0,1].
func Normalize(raw float64) float64 {
	if raw < 0.1 {
		v := raw / 0.02
		if v > 1 {
			v = 1
		}
		return v
	}
	return raw
}
