package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/dialog"
)

func testRecord(t *testing.T) catalog.Record {
	t.Helper()
	header := []string{
		catalog.ColID, catalog.ColName, catalog.ColDomain,
		catalog.ColLevel, catalog.ColDuration, catalog.ColFees,
	}
	row := []string{
		"BXD-001", "Cấp giấy phép xây dựng nhà ở riêng lẻ",
		"Xây dựng", "Cấp tỉnh", "15 ngày", "",
	}
	rec, err := catalog.RecordFromRow(header, row)
	require.NoError(t, err)
	return rec
}

func TestOverview(t *testing.T) {
	t.Parallel()
	rec := testRecord(t)

	resp := Overview("projects/p/agent/sessions/s1", rec)
	require.Len(t, resp.FulfillmentMessages, 1)

	blocks := resp.FulfillmentMessages[0].Payload.RichContent[0]
	require.Len(t, blocks, 2)

	card := blocks[0]
	assert.Equal(t, "description", card.Type)
	assert.Equal(t, "**Cấp giấy phép xây dựng nhà ở riêng lẻ**", card.Title)
	assert.Equal(t, []string{"Lĩnh vực: Xây dựng", "Cấp thực hiện: Cấp tỉnh"}, card.Text)

	chips := blocks[1]
	assert.Equal(t, "chips", chips.Type)
	require.NotEmpty(t, chips.Options)
	for _, opt := range chips.Options {
		require.NotNil(t, opt.Event)
		assert.Equal(t, dialog.EventViewAttribute, opt.Event.Name)
		assert.Equal(t, "vi", opt.Event.LanguageCode)
		assert.Equal(t, "BXD-001", opt.Event.Parameters[dialog.ParamProcedureID])
	}

	require.Len(t, resp.OutputContexts, 1)
	ctx := resp.OutputContexts[0]
	assert.Equal(t, "projects/p/agent/sessions/s1/contexts/tthc-selected", ctx.Name)
	assert.Equal(t, 5, ctx.LifespanCount)
	assert.Equal(t, "BXD-001", ctx.Parameters[dialog.ParamProcedureID])
}

func TestOverviewDashesForMissingFields(t *testing.T) {
	t.Parallel()
	rec, err := catalog.RecordFromRow(
		[]string{catalog.ColID, catalog.ColName},
		[]string{"HT-001", "Đăng ký kết hôn"},
	)
	require.NoError(t, err)

	resp := Overview("", rec)
	card := resp.FulfillmentMessages[0].Payload.RichContent[0][0]
	assert.Equal(t, []string{"Lĩnh vực: -", "Cấp thực hiện: -"}, card.Text)
	assert.Empty(t, resp.OutputContexts, "no session, no context to qualify")
}

func TestOverviewOmitsEmptyAttributes(t *testing.T) {
	t.Parallel()
	rec := testRecord(t)

	resp := Overview("s", rec)
	chips := resp.FulfillmentMessages[0].Payload.RichContent[0][1]
	for _, opt := range chips.Options {
		assert.NotEqual(t, catalog.ColFees, opt.Event.Parameters[dialog.ParamInfoKey],
			"empty fee column must not get a chip")
	}
}

func TestCandidateList(t *testing.T) {
	t.Parallel()
	recs := make([]catalog.Record, 0, 10)
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"} {
		rec, err := catalog.RecordFromRow(
			[]string{catalog.ColID, catalog.ColName},
			[]string{id, "Thủ tục " + id},
		)
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	resp := CandidateList(recs)
	blocks := resp.FulfillmentMessages[0].Payload.RichContent[0]
	require.Len(t, blocks, 2)

	assert.Equal(t, "❓Bạn muốn tra cứu thủ tục nào?", blocks[0].Title)
	assert.Equal(t, []string{"Chọn trong các gợi ý dưới đây:"}, blocks[0].Text)

	chips := blocks[1]
	assert.Len(t, chips.Options, 8, "chips are capped at eight")
	assert.Equal(t, "Thủ tục A", chips.Options[0].Text)
	assert.Equal(t, dialog.EventSelectProcedure, chips.Options[0].Event.Name)
	assert.Equal(t, "A", chips.Options[0].Event.Parameters[dialog.ParamProcedureID])
}

func TestAttributeDetail(t *testing.T) {
	t.Parallel()
	rec := testRecord(t)

	resp := AttributeDetail("s1", rec, catalog.ColDuration)
	blocks := resp.FulfillmentMessages[0].Payload.RichContent[0]
	require.Len(t, blocks, 3)

	assert.Equal(t, "**Cấp giấy phép xây dựng nhà ở riêng lẻ**", blocks[0].Title)
	assert.Equal(t, "**THOI HAN**", blocks[1].Title)
	assert.Equal(t, []string{"15 ngày"}, blocks[1].Text)

	chips := blocks[2]
	last := chips.Options[len(chips.Options)-1]
	assert.Equal(t, "↩️ Quay lại", last.Text)
	assert.Equal(t, dialog.EventGoBack, last.Event.Name)
	assert.Equal(t, "BXD-001", last.Event.Parameters[dialog.ParamProcedureID])
}

func TestAttributeDetailPlaceholder(t *testing.T) {
	t.Parallel()
	rec := testRecord(t)

	resp := AttributeDetail("s1", rec, catalog.ColFees)
	detail := resp.FulfillmentMessages[0].Payload.RichContent[0][1]
	assert.Equal(t, []string{"Chưa có dữ liệu."}, detail.Text)
}

func TestBusy(t *testing.T) {
	t.Parallel()
	resp := Busy()
	assert.Equal(t, BusyMessage, resp.FulfillmentText)
	assert.Empty(t, resp.FulfillmentMessages)
}

func TestResponseJSONShape(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal(Overview("s1", testRecord(t)))
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"fulfillmentMessages"`)
	assert.Contains(t, body, `"richContent"`)
	assert.Contains(t, body, `"languageCode":"vi"`)
	assert.False(t, strings.Contains(body, `"fulfillmentText"`),
		"empty text field must be omitted")
}
