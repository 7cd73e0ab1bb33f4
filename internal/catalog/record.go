// Package catalog holds the administrative procedure catalog: the record
// model, the spreadsheet row source and the TTL-refreshed snapshot cache.
package catalog

import (
	"fmt"
	"strings"

	"github.com/sxdsl/tthc-chatbot-go/internal/errors"
	"github.com/sxdsl/tthc-chatbot-go/internal/vntext"
)

// Source column keys. The header row of the sheet uses these names; the
// parser maps them to positions so column reordering in the sheet is safe.
const (
	ColID          = "ma_thu_tuc"
	ColDecisionNo  = "so_quyet_dinh"
	ColName        = "thu_tuc"
	ColLevel       = "cap_thuc_hien"
	ColKind        = "loai_thu_tuc"
	ColDomain      = "linh_vuc"
	ColSteps       = "trinh_tu"
	ColSubmit      = "hinh_thuc_nop"
	ColDuration    = "thoi_han"
	ColFees        = "phi_le_phi"
	ColDocuments   = "thanh_phan_hs"
	ColEligibility = "doi_tuong"
	ColAgency      = "co_quan_thuc_hien"
	ColReceiving   = "noi_tiep_nhan"
	ColResult      = "ket_qua"
	ColLegalBasis  = "can_cu"
	ColConditions  = "dieu_kien"
)

// Record is one administrative procedure. All fields are strings and may be
// empty when the source cell is blank.
type Record struct {
	ID          string
	DecisionNo  string
	Name        string
	Level       string
	Kind        string
	Domain      string
	Steps       string
	Submit      string
	Duration    string
	Fees        string
	Documents   string
	Eligibility string
	Agency      string
	Receiving   string
	Result      string
	LegalBasis  string
	Conditions  string

	// NormName is the diacritics-stripped lowercase form of Name, used only
	// for matching. Recomputed on every load.
	NormName string
}

// RecordFromRow projects one data row into a Record using its header row.
// The header must carry the procedure name column.
func RecordFromRow(header, row []string) (Record, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	if _, ok := idx[ColName]; !ok {
		return Record{}, fmt.Errorf("%w: missing required column %q", errors.ErrSourceMalformed, ColName)
	}
	return newRecord(func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}), nil
}

// newRecord builds a Record from a row projected by column key.
func newRecord(get func(col string) string) Record {
	r := Record{
		ID:          get(ColID),
		DecisionNo:  get(ColDecisionNo),
		Name:        get(ColName),
		Level:       get(ColLevel),
		Kind:        get(ColKind),
		Domain:      get(ColDomain),
		Steps:       get(ColSteps),
		Submit:      get(ColSubmit),
		Duration:    get(ColDuration),
		Fees:        get(ColFees),
		Documents:   get(ColDocuments),
		Eligibility: get(ColEligibility),
		Agency:      get(ColAgency),
		Receiving:   get(ColReceiving),
		Result:      get(ColResult),
		LegalBasis:  get(ColLegalBasis),
		Conditions:  get(ColConditions),
	}
	r.NormName = vntext.Normalize(r.Name)
	return r
}

// Value returns the field for a canonical column key, or "" for unknown keys.
func (r *Record) Value(key string) string {
	switch key {
	case ColID:
		return r.ID
	case ColDecisionNo:
		return r.DecisionNo
	case ColName:
		return r.Name
	case ColLevel:
		return r.Level
	case ColKind:
		return r.Kind
	case ColDomain:
		return r.Domain
	case ColSteps:
		return r.Steps
	case ColSubmit:
		return r.Submit
	case ColDuration:
		return r.Duration
	case ColFees:
		return r.Fees
	case ColDocuments:
		return r.Documents
	case ColEligibility:
		return r.Eligibility
	case ColAgency:
		return r.Agency
	case ColReceiving:
		return r.Receiving
	case ColResult:
		return r.Result
	case ColLegalBasis:
		return r.LegalBasis
	case ColConditions:
		return r.Conditions
	default:
		return ""
	}
}

// AttributeDef is one detail-viewable field of a procedure: its canonical
// column key and the chip label shown in the attribute menu.
type AttributeDef struct {
	Key   string
	Label string
}

// AttributeDefs lists the detail-viewable attributes in menu order.
var AttributeDefs = []AttributeDef{
	{ColDocuments, "🗂️ Thành phần hồ sơ"},
	{ColDuration, "⏱️ Thời hạn giải quyết"},
	{ColSteps, "🧭 Trình tự thực hiện"},
	{ColFees, "💳 Phí, lệ phí"},
	{ColReceiving, "📍 Nơi tiếp nhận"},
	{ColAgency, "🏢 Cơ quan thực hiện"},
	{ColEligibility, "👥 Đối tượng"},
	{ColResult, "📄 Kết quả"},
	{ColLegalBasis, "⚖️ Căn cứ pháp lý"},
	{ColConditions, "✅ Điều kiện"},
	{ColSubmit, "🌐 Hình thức nộp"},
}

// attributeAliases maps the loose info keys the platform sends (intent
// parameter values, old event payloads) to canonical column keys.
var attributeAliases = map[string]string{
	"thoi_gian":         ColDuration,
	"thoi_han":          ColDuration,
	"trinh_tu":          ColSteps,
	"le_phi":            ColFees,
	"phi_le_phi":        ColFees,
	"thanh_phan_hs":     ColDocuments,
	"ho_so":             ColDocuments,
	"doi_tuong":         ColEligibility,
	"co_quan":           ColAgency,
	"co_quan_thuc_hien": ColAgency,
	"noi_nop":           ColReceiving,
	"noi_tiep_nhan":     ColReceiving,
	"ket_qua":           ColResult,
	"can_cu":            ColLegalBasis,
	"dieu_kien":         ColConditions,
	"hinh_thuc_nop":     ColSubmit,
	"linh_vuc":          ColDomain,
	"cap_thuc_hien":     ColLevel,
	"loai_thu_tuc":      ColKind,
}

// ResolveAttributeKey maps a raw inbound info key to its canonical column
// key. The second return is false when the key is not recognized.
func ResolveAttributeKey(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	if canonical, ok := attributeAliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// Attributes returns the attribute defs with non-empty values for this
// record, in menu order.
func (r *Record) Attributes() []AttributeDef {
	out := make([]AttributeDef, 0, len(AttributeDefs))
	for _, def := range AttributeDefs {
		if strings.TrimSpace(r.Value(def.Key)) != "" {
			out = append(out, def)
		}
	}
	return out
}

// HasAttribute reports whether key is a recognized detail key carrying a
// non-empty value for this record. Accepts canonical keys and aliases.
func (r *Record) HasAttribute(key string) bool {
	canonical, ok := ResolveAttributeKey(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(r.Value(canonical)) != ""
}

// AttributeLabel returns the menu label for a canonical key, or the key
// itself when it has no menu entry (e.g. linh_vuc shown via aliases).
func AttributeLabel(key string) string {
	for _, def := range AttributeDefs {
		if def.Key == key {
			return def.Label
		}
	}
	return key
}
