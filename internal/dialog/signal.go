// Package dialog interprets inbound conversational turns and drives the
// procedure-lookup state machine. The platform's three redundant channels
// (chip-click events, parsed intent parameters, echoed session context) are
// collapsed into one Signal before dispatch.
package dialog

import "strings"

// Event names carried by chip clicks. These also appear in the selection
// payloads the renderer attaches to chips.
const (
	EventSelectProcedure = "CHON_THU_TUC"
	EventViewAttribute   = "XEM_CHI_TIET_TTHC"
	EventGoBack          = "QUAY_LAI"
)

// Parameter keys used across events, intents and session context.
const (
	ParamProcedureID   = "ma_thu_tuc"
	ParamInfoKey       = "info_key"
	ParamProcedureName = "procedure_name"
	ParamAny           = "any"
	ParamIntentInfoKey = "TTHC_Info"
)

// Inbound is the platform-neutral view of one request: the free text, the
// parsed intent parameters, the optional click event and the echoed session
// context parameters. The webhook layer fills it from the wire format.
type Inbound struct {
	QueryText     string
	Params        map[string]string
	Event         *Event
	ContextParams map[string]string
}

// Event is a named click event with its own parameters.
type Event struct {
	Name   string
	Params map[string]string
}

// Signal is one interpreted inbound turn.
type Signal interface{ isSignal() }

// FreeTextQuery asks to match free text against the catalog.
type FreeTextQuery struct{ Text string }

// SelectProcedure selects a procedure by id.
type SelectProcedure struct{ ID string }

// ViewAttribute requests one attribute of a selected procedure. Key is the
// raw inbound info key; the machine resolves it.
type ViewAttribute struct {
	ID  string
	Key string
}

// GoBack returns from a detail view to the procedure overview.
type GoBack struct{ ID string }

// Unknown is anything the other signals don't cover.
type Unknown struct{}

func (FreeTextQuery) isSignal()   {}
func (SelectProcedure) isSignal() {}
func (ViewAttribute) isSignal()   {}
func (GoBack) isSignal()          {}
func (Unknown) isSignal()         {}

// ParseSignal interprets an inbound turn. Precedence: click events first,
// then intent parameters, then free text. The echoed session context only
// supplies the procedure id for attribute-only utterances; it never
// overrides a fresh free-text query, which always re-matches.
func ParseSignal(in Inbound) Signal {
	if sig := parseEvent(in.Event); sig != nil {
		return sig
	}

	id := lookup(in.Params, ParamProcedureID)
	infoKey := firstNonEmpty(
		lookup(in.Params, ParamIntentInfoKey),
		lookup(in.Params, ParamInfoKey),
	)
	if id == "" && infoKey != "" {
		id = lookup(in.ContextParams, ParamProcedureID)
	}

	if id != "" {
		if infoKey != "" {
			return ViewAttribute{ID: id, Key: infoKey}
		}
		return SelectProcedure{ID: id}
	}

	text := firstNonEmpty(
		lookup(in.Params, ParamProcedureName),
		lookup(in.Params, ParamAny),
		strings.TrimSpace(in.QueryText),
	)
	if text != "" {
		return FreeTextQuery{Text: text}
	}

	return Unknown{}
}

// parseEvent maps a click event to its signal, or nil when the event is
// absent or not actionable.
func parseEvent(ev *Event) Signal {
	if ev == nil {
		return nil
	}
	id := lookup(ev.Params, ParamProcedureID)
	switch ev.Name {
	case EventSelectProcedure:
		if id != "" {
			return SelectProcedure{ID: id}
		}
	case EventViewAttribute:
		if id != "" {
			return ViewAttribute{ID: id, Key: lookup(ev.Params, ParamInfoKey)}
		}
	case EventGoBack:
		if id != "" {
			return GoBack{ID: id}
		}
	}
	return nil
}

func lookup(m map[string]string, key string) string {
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[key])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
