package dialog

import (
	"context"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
	"github.com/sxdsl/tthc-chatbot-go/internal/logger"
	"github.com/sxdsl/tthc-chatbot-go/internal/matcher"
)

// OutcomeKind names the response shape a turn resolved to.
type OutcomeKind string

const (
	KindOverview      OutcomeKind = "overview"       // procedure overview + attribute menu
	KindCandidateList OutcomeKind = "candidate_list" // ambiguous match, pick one
	KindDetail        OutcomeKind = "detail"         // one attribute value
	KindNoData        OutcomeKind = "no_data"        // attribute unrecognized or empty
	KindNotFound      OutcomeKind = "not_found"      // referenced id missing
	KindNoMatch       OutcomeKind = "no_match"       // free text matched nothing
	KindFallback      OutcomeKind = "fallback"       // unrecognized input
)

// Outcome is the result of one turn. Which fields are set depends on Kind.
type Outcome struct {
	Kind       OutcomeKind
	Record     catalog.Record      // Overview, Detail, NoData
	AttrKey    string              // Detail: canonical attribute key
	Candidates []matcher.Candidate // CandidateList
	Suggest    []catalog.Record    // NoMatch: menu of procedures to offer
}

// Machine drives the per-turn dialog flow. Turns are stateless on the
// server: the selected procedure travels in the platform's session context
// and chip payloads, so every Signal is independently resolvable.
type Machine struct {
	cache        *catalog.Cache
	searcher     *matcher.Searcher
	logger       *logger.Logger
	suggestLimit int
}

// NewMachine creates a Machine over the cache and searcher.
func NewMachine(cache *catalog.Cache, searcher *matcher.Searcher, log *logger.Logger, suggestLimit int) *Machine {
	if suggestLimit <= 0 {
		suggestLimit = 8
	}
	return &Machine{
		cache:        cache,
		searcher:     searcher,
		logger:       log.WithModule("dialog"),
		suggestLimit: suggestLimit,
	}
}

// Turn resolves one inbound signal to an outcome. The catalog is refreshed
// first; the only error returned is a failed first load. Every other path
// yields a well-formed outcome.
func (m *Machine) Turn(ctx context.Context, sig Signal) (Outcome, error) {
	if err := m.cache.EnsureFresh(ctx); err != nil {
		return Outcome{}, err
	}

	switch s := sig.(type) {
	case SelectProcedure:
		return m.selectProcedure(s.ID), nil
	case ViewAttribute:
		return m.viewAttribute(s.ID, s.Key), nil
	case GoBack:
		return m.selectProcedure(s.ID), nil
	case FreeTextQuery:
		return m.freeText(s.Text), nil
	default:
		return Outcome{Kind: KindFallback}, nil
	}
}

// selectProcedure shows the overview for an id, also used for GoBack.
func (m *Machine) selectProcedure(id string) Outcome {
	rec, err := m.cache.FindByID(id)
	if err != nil {
		m.logger.WithField("id", id).Warn("Selected procedure not found")
		return Outcome{Kind: KindNotFound}
	}
	return Outcome{Kind: KindOverview, Record: rec}
}

// viewAttribute shows one attribute detail. An unrecognized key re-shows
// the menu; a recognized key with no data renders as an empty detail and
// the renderer fills in the placeholder.
func (m *Machine) viewAttribute(id, rawKey string) Outcome {
	rec, err := m.cache.FindByID(id)
	if err != nil {
		m.logger.WithField("id", id).Warn("Procedure for attribute detail not found")
		return Outcome{Kind: KindNotFound}
	}

	key, ok := catalog.ResolveAttributeKey(rawKey)
	if !ok {
		m.logger.WithField("id", id).WithField("info_key", rawKey).
			WithError(errors.ErrInvalidAttribute).
			Debug("Unrecognized attribute key, re-showing menu")
		return Outcome{Kind: KindNoData, Record: rec, AttrKey: rawKey}
	}
	return Outcome{Kind: KindDetail, Record: rec, AttrKey: key}
}

// freeText matches the query: one hit selects it outright, several produce
// the ambiguous list, none offers the catalog's leading procedures.
func (m *Machine) freeText(text string) Outcome {
	candidates := m.searcher.Search(text)
	switch len(candidates) {
	case 0:
		m.logger.WithField("query", text).WithError(errors.ErrNoMatch).Debug("Free text matched nothing")
		suggest := m.cache.All()
		if len(suggest) > m.suggestLimit {
			suggest = suggest[:m.suggestLimit]
		}
		return Outcome{Kind: KindNoMatch, Suggest: suggest}
	case 1:
		return Outcome{Kind: KindOverview, Record: candidates[0].Record}
	default:
		return Outcome{Kind: KindCandidateList, Candidates: candidates}
	}
}
