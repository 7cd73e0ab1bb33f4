// Package webhook handles Dialogflow fulfillment requests and maps dialog
// outcomes to rendered responses. The endpoint always answers HTTP 200
// with well-formed JSON; backend failures become the busy fallback text.
package webhook

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/ctxutil"
	"github.com/sxdsl/tthc-chatbot-go/internal/dialog"
	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
	"github.com/sxdsl/tthc-chatbot-go/internal/logger"
	"github.com/sxdsl/tthc-chatbot-go/internal/metrics"
	"github.com/sxdsl/tthc-chatbot-go/internal/render"
)

// Replies for turns that resolve without a procedure to show.
const (
	notFoundMessage = "Không tìm thấy thủ tục đã chọn. Vui lòng tìm kiếm lại."
	helpMessage     = "Xin lỗi, tôi chưa hiểu yêu cầu. Bạn hãy nhập tên thủ tục cần tra cứu."
)

// Handler serves the fulfillment webhook.
type Handler struct {
	machine *dialog.Machine
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewHandler creates a webhook handler over the dialog machine.
func NewHandler(machine *dialog.Machine, m *metrics.Metrics, log *logger.Logger) *Handler {
	return &Handler{
		machine: machine,
		metrics: m,
		logger:  log.WithModule("webhook"),
	}
}

// Handle is the Gin handler for POST /fulfillment.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()
	log := h.logger
	if requestID := ctxutil.GetRequestID(c.Request.Context()); requestID != "" {
		log = log.WithRequestID(requestID)
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		log.WithError(err).Warn("Malformed fulfillment request")
		h.respond(c, start, "error", render.Busy())
		return
	}

	ctx := ctxutil.WithSession(c.Request.Context(), req.Session)
	sig := dialog.ParseSignal(toInbound(req))

	outcome, err := h.machine.Turn(ctx, sig)
	if err != nil {
		log.WithError(err).Error("Turn failed, replying with busy fallback")
		msg := render.BusyMessage
		var wrapped *errors.WrappedError
		if errors.As(err, &wrapped) && wrapped.UserMessage != "" {
			msg = wrapped.UserMessage
		}
		h.respond(c, start, "error", render.Fallback(msg))
		return
	}

	if _, ok := sig.(dialog.FreeTextQuery); ok {
		h.metrics.ObserveSearchCandidates(candidateCount(outcome))
	}

	h.respond(c, start, string(outcome.Kind), h.render(req.Session, outcome))
}

// candidateCount counts the procedures a free-text search resolved to.
func candidateCount(out dialog.Outcome) int {
	switch out.Kind {
	case dialog.KindOverview:
		return 1
	case dialog.KindCandidateList:
		return len(out.Candidates)
	default:
		return 0
	}
}

// render maps one dialog outcome to its response shape.
func (h *Handler) render(session string, out dialog.Outcome) render.Response {
	switch out.Kind {
	case dialog.KindOverview, dialog.KindNoData:
		return render.Overview(session, out.Record)
	case dialog.KindDetail:
		return render.AttributeDetail(session, out.Record, out.AttrKey)
	case dialog.KindCandidateList:
		recs := make([]catalog.Record, 0, len(out.Candidates))
		for _, cand := range out.Candidates {
			recs = append(recs, cand.Record)
		}
		return render.CandidateList(recs)
	case dialog.KindNoMatch:
		return render.CandidateList(out.Suggest)
	case dialog.KindNotFound:
		return render.Fallback(notFoundMessage)
	default:
		return render.Fallback(helpMessage)
	}
}

func (h *Handler) respond(c *gin.Context, start time.Time, outcome string, resp render.Response) {
	h.metrics.RecordTurn(outcome, time.Since(start).Seconds())
	c.JSON(http.StatusOK, resp)
}
