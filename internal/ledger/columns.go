package ledger

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FormAliases renames the headers of the request-form response sheet to
// canonical columns.
var FormAliases = map[string]string{
	"업체명 입력":       ColCompany,
	"담당자 성함 입력":    ColContact,
	"품목명 입력":       ColPartName,
	"요청수량 입력":      ColQuantity,
	"납기희망일 입력":     ColDueDate,
	"요청사항 및 비고 입력": ColRequirements,
	"연락처 입력":       ColPhone,
	"이메일 입력":       ColEmail,
	"담당자 성함":       ColContact,
	"품목명":          ColPartName,
	"납기희망일":        ColDueDate,
	"요청사항 및 비고":    ColRequirements,
	"신청일자":         ColRequestDate,
}

// FormFallbacks only fill a column the rest of the row left empty: the
// form's submission timestamp stands in for a missing request date.
var FormFallbacks = map[string]string{
	"타임스탬프": ColRequestDate,
	"Timestamp": ColRequestDate,
}

// EnglishAliases maps the English headers of the Excel template.
var EnglishAliases = map[string]string{
	"no":                   ColNo,
	"requestDate":          ColRequestDate,
	"companyName":          ColCompany,
	"department":           ColDepartment,
	"contactPerson":        ColContact,
	"carModel":             ColCarModel,
	"partNumber":           ColPartNumber,
	"partName":             ColPartName,
	"shippingLocation":     ColShipFrom,
	"quantity":             ColQuantity,
	"dueDate":              ColDueDate,
	"requirements":         ColRequirements,
	"drawingReceiptDate":   ColDrawingReceived,
	"materialRequestDate":  ColMaterialRequested,
	"materialPreparation":  ColMaterialPrep,
	"sampleCompletionDate": ColSampleCompleted,
	"shipmentDate":         ColShipped,
	"shippingMethod":       ColShippingMethod,
	"remarks":              ColRemarks,
	"samplePrice":          ColUnitPrice,
	"sampleAmount":         ColTotalPrice,
	"status":               ColStatus,
}

// Stabilizer forces a fetched table into a known column order.
//
//   - Expected columns come first, in order; missing ones are filled with "".
//   - Unknown columns are kept after them in source order.
//   - Aliases rename known alternate headers; Fallbacks only fill cells the
//     rest of the row left empty.
//   - A header equal to an expected column once spaces and case are
//     ignored ("샘플완료일", "No") is folded into that column. The canonical
//     cell wins when it has a value.
//   - Blank headers, and repeats of unknown headers, get "Unnamed: <i>".
type Stabilizer struct {
	Expected  []string
	Aliases   map[string]string
	Fallbacks map[string]string
}

// NewStabilizer builds a Stabilizer over expected with the alias maps
// merged in order.
func NewStabilizer(expected []string, aliases ...map[string]string) Stabilizer {
	s := Stabilizer{Expected: slices.Clone(expected), Aliases: map[string]string{}, Fallbacks: map[string]string{}}
	for _, m := range aliases {
		for k, v := range m {
			k = normalizeHeader(k)
			s.Aliases[k] = v
			s.Aliases[foldKey(k)] = v
		}
	}
	for k, v := range FormFallbacks {
		s.Fallbacks[normalizeHeader(k)] = v
	}
	return s
}

// DefaultStabilizer knows the canonical columns plus the form and Excel
// aliases.
func DefaultStabilizer() Stabilizer {
	return NewStabilizer(DefaultColumns, FormAliases, EnglishAliases)
}

func normalizeHeader(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func foldKey(s string) string {
	return strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

const (
	rolePrimary = iota
	roleFold
	roleFallback
)

type columnPlan struct {
	target string
	role   int
}

func (s Stabilizer) plan(header []string) ([]columnPlan, []string) {
	expected := make(map[string]struct{}, len(s.Expected))
	byKey := make(map[string]string, len(s.Expected))
	for _, c := range s.Expected {
		expected[c] = struct{}{}
		byKey[foldKey(c)] = c
	}

	plans := make([]columnPlan, len(header))
	taken := make(map[string]struct{}, len(header))
	done := make([]bool, len(header))

	// Exact canonical names claim their column first, wherever they sit.
	for i, h := range header {
		if _, ok := expected[h]; !ok {
			continue
		}
		if _, dup := taken[h]; dup {
			continue
		}
		plans[i] = columnPlan{target: h, role: rolePrimary}
		taken[h] = struct{}{}
		done[i] = true
	}

	var unknown []string
	for i, h := range header {
		if done[i] {
			continue
		}
		switch {
		case h == "":
			name := placeholder(i, taken)
			plans[i] = columnPlan{target: name, role: rolePrimary}
			unknown = append(unknown, name)
		case s.Fallbacks[h] != "":
			plans[i] = columnPlan{target: s.Fallbacks[h], role: roleFallback}
		case s.alias(h) != "":
			target := s.alias(h)
			if _, ok := expected[target]; ok {
				plans[i] = columnPlan{target: target, role: roleFold}
				continue
			}
			if _, dup := taken[target]; dup {
				target = placeholder(i, taken)
			}
			plans[i] = columnPlan{target: target, role: rolePrimary}
			taken[target] = struct{}{}
			unknown = append(unknown, target)
		case byKey[foldKey(h)] != "":
			plans[i] = columnPlan{target: byKey[foldKey(h)], role: roleFold}
		default:
			name := h
			if _, dup := taken[name]; dup {
				name = placeholder(i, taken)
			}
			plans[i] = columnPlan{target: name, role: rolePrimary}
			taken[name] = struct{}{}
			unknown = append(unknown, name)
		}
	}

	return plans, unknown
}

func (s Stabilizer) alias(h string) string {
	if a := s.Aliases[h]; a != "" {
		return a
	}
	return s.Aliases[foldKey(h)]
}

func placeholder(i int, taken map[string]struct{}) string {
	name := fmt.Sprintf("Unnamed: %d", i)
	for n := 2; ; n++ {
		if _, dup := taken[name]; !dup {
			break
		}
		name = fmt.Sprintf("Unnamed: %d_%d", i, n)
	}
	taken[name] = struct{}{}
	return name
}

// Stabilize returns t reshaped to the expected column order. A header row
// with no names at all is replaced by the expected columns.
func (s Stabilizer) Stabilize(t Table) Table {
	header := make([]string, len(t.Header))
	blank := true
	for i, h := range t.Header {
		header[i] = normalizeHeader(h)
		if header[i] != "" {
			blank = false
		}
	}
	if blank {
		header = slices.Clone(s.Expected)
	}

	plans, unknown := s.plan(header)

	outHeader := append(slices.Clone(s.Expected), unknown...)
	pos := make(map[string]int, len(outHeader))
	for i, c := range outHeader {
		pos[c] = i
	}

	out := Table{Header: outHeader, Rows: make([][]string, 0, len(t.Rows))}
	for _, src := range t.Rows {
		row := make([]string, len(outHeader))
		for _, role := range []int{rolePrimary, roleFold, roleFallback} {
			for i, p := range plans {
				if p.role != role || i >= len(src) {
					continue
				}
				j, ok := pos[p.target]
				if !ok {
					continue
				}
				if role == rolePrimary || IsAbsent(row[j]) {
					row[j] = src[i]
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
