// Package matcher ranks catalog records against free-text queries.
// It runs an exact/substring pass first and falls back to fuzzy scoring
// that combines token containment with edit-distance similarity.
package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/sliceutil"
	"github.com/sxdsl/tthc-chatbot-go/internal/vntext"
)

// Scores for the exact pass. Fuzzy scores are capped below substringScore so
// exact hits always rank first.
const (
	equalScore     = 1.0
	substringScore = 0.95

	// fuzzyCapScore sits strictly below substringScore so an exact pass
	// hit always outranks every fuzzy candidate, catalog order aside.
	fuzzyCapScore = 0.94

	// Weights of the two fuzzy components.
	tokenWeight = 0.6
	editWeight  = 0.4
)

// Candidate is one ranked search result.
type Candidate struct {
	Record catalog.Record
	Score  float64 // confidence in [0, 1], higher is better
}

// Config holds the matcher tuning knobs.
type Config struct {
	// Threshold is the minimum fuzzy score to accept a candidate.
	Threshold float64
	// Anchors are normalized multi-token phrases. When the query contains
	// one, candidates whose name lacks it are discarded.
	Anchors []string
	// Limit caps the number of returned candidates.
	Limit int
}

// Catalog is the record access the searcher needs.
type Catalog interface {
	All() []catalog.Record
}

// Searcher searches the catalog. Search is stateless; every call scores
// against the current snapshot.
type Searcher struct {
	cat Catalog
	cfg Config
}

// New creates a Searcher over the given catalog.
func New(cat Catalog, cfg Config) *Searcher {
	if cfg.Limit <= 0 {
		cfg.Limit = 8
	}
	return &Searcher{cat: cat, cfg: cfg}
}

// Search returns ranked candidates for the query, best first. An empty or
// whitespace-only query returns no candidates.
func (s *Searcher) Search(query string) []Candidate {
	norm := vntext.Normalize(query)
	if norm == "" {
		return nil
	}

	records := s.cat.All()
	if len(records) == 0 {
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	best := make(map[int]float64, len(records))

	// Exact pass: normalized equality, then whole-query substring.
	for i := range records {
		switch {
		case records[i].NormName == norm:
			best[i] = equalScore
		case strings.Contains(records[i].NormName, norm):
			best[i] = substringScore
		}
	}

	// Fuzzy fallback when the exact pass is not conclusive.
	if len(best) < 2 {
		tokens := vntext.Tokenize(query)
		for i := range records {
			if _, ok := best[i]; ok {
				continue
			}
			score := fuzzyScore(norm, tokens, &records[i])
			if score >= s.cfg.Threshold {
				best[i] = score
			}
		}
	}

	// Domain guard: an anchor phrase in the query must appear in the
	// candidate's name. Prevents broad token overlap from dragging in
	// unrelated procedures.
	for _, anchor := range s.cfg.Anchors {
		if anchor == "" || !strings.Contains(norm, anchor) {
			continue
		}
		for i := range best {
			if !strings.Contains(records[i].NormName, anchor) {
				delete(best, i)
			}
		}
	}

	out := make([]scored, 0, len(best))
	for i, sc := range best {
		out = append(out, scored{index: i, score: sc})
	}

	// Best first; ties keep catalog order.
	sort.Slice(out, func(a, b int) bool {
		if out[a].score != out[b].score {
			return out[a].score > out[b].score
		}
		return out[a].index < out[b].index
	})

	// Dedup by record id. After sorting, the first occurrence of an id is
	// its best score. Records without an id are kept as-is.
	type dedupKey struct {
		id  string
		idx int
	}
	out = sliceutil.Deduplicate(out, func(sc scored) dedupKey {
		if id := records[sc.index].ID; id != "" {
			return dedupKey{id: id}
		}
		return dedupKey{idx: sc.index}
	})

	if len(out) > s.cfg.Limit {
		out = out[:s.cfg.Limit]
	}

	candidates := make([]Candidate, len(out))
	for i, sc := range out {
		candidates[i] = Candidate{Record: records[sc.index], Score: sc.score}
	}
	return candidates
}

// fuzzyScore combines length-weighted token containment with edit-distance
// similarity against both the normalized and raw name.
func fuzzyScore(norm string, tokens []string, rec *catalog.Record) float64 {
	token := tokenContainment(tokens, rec.NormName)
	edit := editSimilarity(norm, rec.NormName)
	if raw := editSimilarity(norm, strings.ToLower(rec.Name)); raw > edit {
		edit = raw
	}

	score := tokenWeight*token + editWeight*edit
	if score > fuzzyCapScore {
		score = fuzzyCapScore
	}
	return score
}

// tokenContainment returns the length-weighted fraction of query tokens
// found as substrings of the candidate name.
func tokenContainment(tokens []string, name string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var matched, total int
	for _, tok := range tokens {
		total += len(tok)
		if strings.Contains(name, tok) {
			matched += len(tok)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

// editSimilarity maps Levenshtein distance to a [0, 1] similarity.
func editSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist >= longest {
		return 0
	}
	return 1 - float64(dist)/float64(longest)
}
