package dialog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sxdsl/tthc-chatbot-go/internal/catalog"
	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
	"github.com/sxdsl/tthc-chatbot-go/internal/logger"
	"github.com/sxdsl/tthc-chatbot-go/internal/matcher"
)

// fakeSource feeds the cache from memory.
type fakeSource struct {
	header []string
	rows   [][]string
	err    error
}

func (f *fakeSource) Fetch(context.Context) ([]string, [][]string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.header, f.rows, nil
}

var testHeader = []string{
	catalog.ColID, catalog.ColName, catalog.ColDomain,
	catalog.ColDuration, catalog.ColFees,
}

func testRows() [][]string {
	return [][]string{
		{"BXD-001", "Cấp giấy phép xây dựng nhà ở riêng lẻ", "Xây dựng", "15 ngày", ""},
		{"BXD-002", "Cấp lại giấy phép xây dựng", "Xây dựng", "5 ngày", "Không"},
		{"HT-001", "Đăng ký kết hôn", "Hộ tịch", "1 ngày làm việc", "Miễn phí"},
	}
}

func newTestMachine(t *testing.T, src catalog.RowSource) *Machine {
	t.Helper()
	log := logger.NewWithWriter("error", io.Discard)
	cache := catalog.NewCache(src, time.Minute, log, nil)
	searcher := matcher.New(cache, matcher.Config{Threshold: 0.42, Limit: 8})
	return NewMachine(cache, searcher, log, 8)
}

func TestTurnFreeTextSingleMatch(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), FreeTextQuery{Text: "đăng ký kết hôn"})
	require.NoError(t, err)
	assert.Equal(t, KindOverview, out.Kind)
	assert.Equal(t, "HT-001", out.Record.ID)
}

func TestTurnFreeTextAmbiguous(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), FreeTextQuery{Text: "giấy phép xây dựng"})
	require.NoError(t, err)
	assert.Equal(t, KindCandidateList, out.Kind)
	require.GreaterOrEqual(t, len(out.Candidates), 2)
	ids := []string{out.Candidates[0].Record.ID, out.Candidates[1].Record.ID}
	assert.Contains(t, ids, "BXD-001")
	assert.Contains(t, ids, "BXD-002")
}

func TestTurnFreeTextNoMatch(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), FreeTextQuery{Text: "xyz_does_not_exist"})
	require.NoError(t, err)
	assert.Equal(t, KindNoMatch, out.Kind)
	assert.Len(t, out.Suggest, 3)
	assert.Equal(t, "BXD-001", out.Suggest[0].ID)
}

func TestTurnSelectProcedure(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), SelectProcedure{ID: "BXD-001"})
	require.NoError(t, err)
	assert.Equal(t, KindOverview, out.Kind)
	assert.Equal(t, "Cấp giấy phép xây dựng nhà ở riêng lẻ", out.Record.Name)
}

func TestTurnSelectUnknownID(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), SelectProcedure{ID: "NOPE-404"})
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, out.Kind)
}

func TestTurnViewAttribute(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), ViewAttribute{ID: "BXD-001", Key: "thoi_han"})
	require.NoError(t, err)
	assert.Equal(t, KindDetail, out.Kind)
	assert.Equal(t, catalog.ColDuration, out.AttrKey)
	assert.Equal(t, "15 ngày", out.Record.Value(out.AttrKey))
}

func TestTurnViewAttributeAlias(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	// thoi_gian is an accepted alias of thoi_han.
	out, err := m.Turn(context.Background(), ViewAttribute{ID: "BXD-002", Key: "thoi_gian"})
	require.NoError(t, err)
	assert.Equal(t, KindDetail, out.Kind)
	assert.Equal(t, catalog.ColDuration, out.AttrKey)
	assert.Equal(t, "5 ngày", out.Record.Value(out.AttrKey))
}

func TestTurnViewAttributeInvalidKey(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), ViewAttribute{ID: "BXD-001", Key: "khong_ton_tai"})
	require.NoError(t, err)
	assert.Equal(t, KindNoData, out.Kind)
	assert.Equal(t, "BXD-001", out.Record.ID)
}

func TestTurnViewAttributeEmptyValue(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	// BXD-001 has no fee value; the detail still renders, with a
	// placeholder filled in downstream.
	out, err := m.Turn(context.Background(), ViewAttribute{ID: "BXD-001", Key: "phi_le_phi"})
	require.NoError(t, err)
	assert.Equal(t, KindDetail, out.Kind)
	assert.Empty(t, out.Record.Value(out.AttrKey))
}

func TestTurnGoBack(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), GoBack{ID: "HT-001"})
	require.NoError(t, err)
	assert.Equal(t, KindOverview, out.Kind)
	assert.Equal(t, "HT-001", out.Record.ID)
}

func TestTurnUnknownSignal(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{header: testHeader, rows: testRows()})

	out, err := m.Turn(context.Background(), Unknown{})
	require.NoError(t, err)
	assert.Equal(t, KindFallback, out.Kind)
}

func TestTurnSourceUnavailable(t *testing.T) {
	t.Parallel()
	m := newTestMachine(t, &fakeSource{err: io.ErrUnexpectedEOF})

	_, err := m.Turn(context.Background(), FreeTextQuery{Text: "giấy phép"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSourceUnavailable)
}
