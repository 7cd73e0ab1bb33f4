// Package render builds the Dialogflow fulfillment responses. Everything
// the bot says is a richContent payload of description cards and chip
// rows, except the fallback which is plain fulfillment text.
package render

import (
	"strings"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/dialog"
	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
)

// SelectedContext is the output context that carries the selected
// procedure id between turns.
const SelectedContext = "tthc-selected"

// selectedContextLifespan keeps the selection alive across follow-up
// attribute questions.
const selectedContextLifespan = 5

// BusyMessage is the user-facing text for any backend failure.
const BusyMessage = errors.SourceBusyMessage

// noDataPlaceholder stands in for an attribute the catalog has no value for.
const noDataPlaceholder = "Chưa có dữ liệu."

// candidateLimit caps the number of procedure chips in one row.
const candidateLimit = 8

// Response is the Dialogflow webhook response body.
type Response struct {
	FulfillmentText     string    `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []Message `json:"fulfillmentMessages,omitempty"`
	OutputContexts      []Context `json:"outputContexts,omitempty"`
}

// Message wraps one custom payload.
type Message struct {
	Payload Payload `json:"payload"`
}

// Payload holds the richContent rows rendered by the Dialogflow Messenger.
type Payload struct {
	RichContent [][]Block `json:"richContent"`
}

// Block is one richContent element, either a "description" card or a
// "chips" row.
type Block struct {
	Type    string   `json:"type"`
	Title   string   `json:"title,omitempty"`
	Text    []string `json:"text,omitempty"`
	Options []Option `json:"options,omitempty"`
}

// Option is one clickable chip.
type Option struct {
	Text  string `json:"text"`
	Event *Event `json:"event,omitempty"`
}

// Event is the detect-intent event a chip click fires.
type Event struct {
	Name         string            `json:"name"`
	LanguageCode string            `json:"languageCode"`
	Parameters   map[string]string `json:"parameters,omitempty"`
}

// Context is a Dialogflow output context. Name must be fully qualified
// under the request's session.
type Context struct {
	Name          string            `json:"name"`
	LifespanCount int               `json:"lifespanCount"`
	Parameters    map[string]string `json:"parameters,omitempty"`
}

// Overview renders the procedure card with its domain and level lines and
// the attribute chip menu.
func Overview(session string, rec catalog.Record) Response {
	card := Block{
		Type:  "description",
		Title: boldName(rec),
		Text: []string{
			"Lĩnh vực: " + orDash(rec.Value(catalog.ColDomain)),
			"Cấp thực hiện: " + orDash(rec.Value(catalog.ColLevel)),
		},
	}
	return Response{
		FulfillmentMessages: richContent(card, attributeChips(rec)),
		OutputContexts:      selectedContexts(session, rec.ID),
	}
}

// CandidateList renders the pick-one prompt with a chip per procedure,
// capped at eight. It also serves the no-match suggestions.
func CandidateList(recs []catalog.Record) Response {
	if len(recs) > candidateLimit {
		recs = recs[:candidateLimit]
	}
	options := make([]Option, 0, len(recs))
	for _, rec := range recs {
		options = append(options, Option{
			Text: rec.Name,
			Event: &Event{
				Name:         dialog.EventSelectProcedure,
				LanguageCode: "vi",
				Parameters:   map[string]string{dialog.ParamProcedureID: rec.ID},
			},
		})
	}
	prompt := Block{
		Type:  "description",
		Title: "❓Bạn muốn tra cứu thủ tục nào?",
		Text:  []string{"Chọn trong các gợi ý dưới đây:"},
	}
	return Response{
		FulfillmentMessages: richContent(prompt, Block{Type: "chips", Options: options}),
	}
}

// AttributeDetail renders one attribute value under an upper-cased key
// card, followed by the attribute menu and a back chip.
func AttributeDetail(session string, rec catalog.Record, key string) Response {
	value := strings.TrimSpace(rec.Value(key))
	if value == "" {
		value = noDataPlaceholder
	}
	name := Block{Type: "description", Title: boldName(rec)}
	detail := Block{
		Type:  "description",
		Title: "**" + strings.ToUpper(strings.ReplaceAll(key, "_", " ")) + "**",
		Text:  []string{value},
	}
	chips := attributeChips(rec)
	chips.Options = append(chips.Options, Option{
		Text: "↩️ Quay lại",
		Event: &Event{
			Name:         dialog.EventGoBack,
			LanguageCode: "vi",
			Parameters:   map[string]string{dialog.ParamProcedureID: rec.ID},
		},
	})
	return Response{
		FulfillmentMessages: richContent(name, detail, chips),
		OutputContexts:      selectedContexts(session, rec.ID),
	}
}

// Fallback renders a plain-text reply.
func Fallback(msg string) Response {
	return Response{FulfillmentText: msg}
}

// Busy renders the backend-failure reply.
func Busy() Response {
	return Fallback(BusyMessage)
}

// attributeChips builds the chip row of the record's non-empty attributes,
// each firing the detail-view event.
func attributeChips(rec catalog.Record) Block {
	defs := rec.Attributes()
	options := make([]Option, 0, len(defs))
	for _, def := range defs {
		options = append(options, Option{
			Text: def.Label,
			Event: &Event{
				Name:         dialog.EventViewAttribute,
				LanguageCode: "vi",
				Parameters: map[string]string{
					dialog.ParamProcedureID: rec.ID,
					dialog.ParamInfoKey:     def.Key,
				},
			},
		})
	}
	return Block{Type: "chips", Options: options}
}

// selectedContexts echoes the selected procedure so the next turn can
// resolve attribute-only utterances. Without a session there is nothing to
// qualify the context name with.
func selectedContexts(session, id string) []Context {
	if session == "" || id == "" {
		return nil
	}
	return []Context{{
		Name:          session + "/contexts/" + SelectedContext,
		LifespanCount: selectedContextLifespan,
		Parameters:    map[string]string{dialog.ParamProcedureID: id},
	}}
}

func richContent(blocks ...Block) []Message {
	return []Message{{Payload: Payload{RichContent: [][]Block{blocks}}}}
}

// orDash substitutes "-" for blank card lines.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func boldName(rec catalog.Record) string {
	return "**" + rec.Name + "**"
}
