package webhook

import (
	"fmt"
	"strings"

	"github.com/sxdsl/tthc-chatbot-go/internal/dialog"
	"github.com/sxdsl/tthc-chatbot-go/internal/render"
)

// Request is the Dialogflow fulfillment request body, reduced to the
// fields the bot reads.
type Request struct {
	Session                     string                      `json:"session"`
	QueryResult                 QueryResult                 `json:"queryResult"`
	OriginalDetectIntentRequest OriginalDetectIntentRequest `json:"originalDetectIntentRequest"`
}

// QueryResult carries the matched intent's text, parameters and the
// session contexts echoed back by the platform.
type QueryResult struct {
	QueryText      string           `json:"queryText"`
	Parameters     map[string]any   `json:"parameters"`
	OutputContexts []RequestContext `json:"outputContexts"`
}

// RequestContext is one active session context.
type RequestContext struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// OriginalDetectIntentRequest holds the integration payload. Chip clicks
// arrive here as a named event rather than as intent text.
type OriginalDetectIntentRequest struct {
	Payload struct {
		Event *RequestEvent `json:"event"`
	} `json:"payload"`
}

// RequestEvent is a chip-click event forwarded by the messenger.
type RequestEvent struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// toInbound flattens the wire request into the dialog layer's view of the
// turn. Only the selection context contributes context parameters.
func toInbound(req Request) dialog.Inbound {
	in := dialog.Inbound{
		QueryText: req.QueryResult.QueryText,
		Params:    stringMap(req.QueryResult.Parameters),
	}
	if ev := req.OriginalDetectIntentRequest.Payload.Event; ev != nil && ev.Name != "" {
		in.Event = &dialog.Event{
			Name:   ev.Name,
			Params: stringMap(ev.Parameters),
		}
	}
	for _, ctx := range req.QueryResult.OutputContexts {
		if strings.HasSuffix(ctx.Name, "/contexts/"+render.SelectedContext) {
			in.ContextParams = stringMap(ctx.Parameters)
			break
		}
	}
	return in
}

// stringMap renders loosely-typed Dialogflow parameters as strings. Struct
// values arrive as any JSON scalar; nils and empty strings are dropped.
func stringMap(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for key, value := range params {
		var s string
		switch v := value.(type) {
		case nil:
			continue
		case string:
			s = v
		default:
			s = fmt.Sprint(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			out[key] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
