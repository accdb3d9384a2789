package ledger

import (
	"maps"
	"time"
)

// Canonical column names, as they appear in the sheet header.
const (
	ColNo                = "NO"
	ColRequestDate       = "접수일"
	ColCompany           = "업체명"
	ColDepartment        = "부서"
	ColContact           = "담당자"
	ColCarModel          = "차종"
	ColPartNumber        = "품번"
	ColPartName          = "품명"
	ColShipFrom          = "출하장소"
	ColQuantity          = "요청수량"
	ColDueDate           = "납기일"
	ColRequirements      = "요청사항"
	ColDrawingReceived   = "도면접수일"
	ColMaterialRequested = "자재 요청일"
	ColMaterialPrep      = "자재준비"
	ColSampleCompleted   = "샘플 완료일"
	ColShipped           = "출하일"
	ColShippingMethod    = "운송편"
	ColRemarks           = "비고"
	ColUnitPrice         = "샘플단가"
	ColTotalPrice        = "샘플금액"
	ColStatus            = "진행상태"

	// Columns that only arrive through the request form. They are kept as
	// extra columns.
	ColPhone = "연락처"
	ColEmail = "이메일"
)

// DefaultColumns is the canonical column order.
var DefaultColumns = []string{
	ColNo, ColRequestDate, ColCompany, ColDepartment, ColContact, ColCarModel,
	ColPartNumber, ColPartName, ColShipFrom, ColQuantity, ColDueDate,
	ColRequirements, ColDrawingReceived, ColMaterialRequested, ColMaterialPrep,
	ColSampleCompleted, ColShipped, ColShippingMethod, ColRemarks,
	ColUnitPrice, ColTotalPrice, ColStatus,
}

// DateColumns lists the columns that hold calendar days.
var DateColumns = []string{
	ColRequestDate, ColDueDate, ColDrawingReceived, ColMaterialRequested,
	ColSampleCompleted, ColShipped,
}

// ShippingMethods are the choices offered for ShippingMethod.
var ShippingMethods = []string{"", "항공", "선박", "핸드캐리"}

// Record is one sample request.
type Record struct {
	No                int64             `json:"no"`
	RequestDate       Date              `json:"requestDate"`
	Company           string            `json:"company"`
	Department        string            `json:"department"`
	Contact           string            `json:"contact"`
	CarModel          string            `json:"carModel"`
	PartNumber        string            `json:"partNumber"`
	PartName          string            `json:"partName"`
	ShipFrom          string            `json:"shipFrom"`
	Quantity          int64             `json:"quantity"`
	DueDate           Date              `json:"dueDate"`
	Requirements      string            `json:"requirements"`
	DrawingReceived   Date              `json:"drawingReceived"`
	MaterialRequested Date              `json:"materialRequested"`
	MaterialPrep      string            `json:"materialPrep"`
	SampleCompleted   Date              `json:"sampleCompleted"`
	Shipped           Date              `json:"shipped"`
	ShippingMethod    string            `json:"shippingMethod"`
	Remarks           string            `json:"remarks"`
	UnitPrice         float64           `json:"unitPrice"`
	TotalPrice        float64           `json:"totalPrice"`
	Status            Status            `json:"status"`
	Extra             map[string]string `json:"extra,omitempty"`
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	if r.Extra != nil {
		r.Extra = maps.Clone(r.Extra)
	}
	return r
}

// Equal compares every field; a nil and an empty Extra are equal.
func (r Record) Equal(o Record) bool {
	return r.No == o.No &&
		r.RequestDate.Equal(o.RequestDate) &&
		r.Company == o.Company &&
		r.Department == o.Department &&
		r.Contact == o.Contact &&
		r.CarModel == o.CarModel &&
		r.PartNumber == o.PartNumber &&
		r.PartName == o.PartName &&
		r.ShipFrom == o.ShipFrom &&
		r.Quantity == o.Quantity &&
		r.DueDate.Equal(o.DueDate) &&
		r.Requirements == o.Requirements &&
		r.DrawingReceived.Equal(o.DrawingReceived) &&
		r.MaterialRequested.Equal(o.MaterialRequested) &&
		r.MaterialPrep == o.MaterialPrep &&
		r.SampleCompleted.Equal(o.SampleCompleted) &&
		r.Shipped.Equal(o.Shipped) &&
		r.ShippingMethod == o.ShippingMethod &&
		r.Remarks == o.Remarks &&
		r.UnitPrice == o.UnitPrice &&
		r.TotalPrice == o.TotalPrice &&
		r.Status == o.Status &&
		maps.Equal(r.Extra, o.Extra)
}

// Normalize applies the field rules that hold for every stored record:
// text is cleaned, negative numbers are clamped, the total follows the
// unit price and the status is re-derived.
//
// The total is quantity × unit price whenever the unit price is set. With
// a zero unit price a hand-entered lump-sum total is kept.
func (r Record) Normalize() Record {
	r.Company = CleanText(r.Company)
	r.Department = CleanText(r.Department)
	r.Contact = CleanText(r.Contact)
	r.CarModel = CleanText(r.CarModel)
	r.PartNumber = CleanText(r.PartNumber)
	r.PartName = CleanText(r.PartName)
	r.ShipFrom = CleanText(r.ShipFrom)
	r.Requirements = CleanText(r.Requirements)
	r.MaterialPrep = CleanText(r.MaterialPrep)
	r.ShippingMethod = CleanText(r.ShippingMethod)
	r.Remarks = CleanText(r.Remarks)

	r.Quantity = max(r.Quantity, 0)
	r.UnitPrice = max(r.UnitPrice, 0)
	r.TotalPrice = max(r.TotalPrice, 0)
	if r.UnitPrice > 0 {
		r.TotalPrice = float64(r.Quantity) * r.UnitPrice
	}

	r.Status = DeriveStatus(r)
	return r
}

// Value returns the text form of a column. The status column yields the
// status code; callers that need a display label go through a Vocabulary.
func (r Record) Value(col string) string {
	switch col {
	case ColNo:
		if r.No == 0 {
			return ""
		}
		return FormatAmount(float64(r.No))
	case ColRequestDate:
		return r.RequestDate.String()
	case ColCompany:
		return r.Company
	case ColDepartment:
		return r.Department
	case ColContact:
		return r.Contact
	case ColCarModel:
		return r.CarModel
	case ColPartNumber:
		return r.PartNumber
	case ColPartName:
		return r.PartName
	case ColShipFrom:
		return r.ShipFrom
	case ColQuantity:
		return FormatAmount(float64(r.Quantity))
	case ColDueDate:
		return r.DueDate.String()
	case ColRequirements:
		return r.Requirements
	case ColDrawingReceived:
		return r.DrawingReceived.String()
	case ColMaterialRequested:
		return r.MaterialRequested.String()
	case ColMaterialPrep:
		return r.MaterialPrep
	case ColSampleCompleted:
		return r.SampleCompleted.String()
	case ColShipped:
		return r.Shipped.String()
	case ColShippingMethod:
		return r.ShippingMethod
	case ColRemarks:
		return r.Remarks
	case ColUnitPrice:
		return FormatAmount(r.UnitPrice)
	case ColTotalPrice:
		return FormatAmount(r.TotalPrice)
	case ColStatus:
		return string(r.Status)
	default:
		return r.Extra[col]
	}
}

// SetValue assigns a raw cell value to a column, coercing it to the
// column's type. Unknown columns land in Extra. The status column is
// ignored; use a Vocabulary to parse status labels.
func (r *Record) SetValue(col, v string) {
	switch col {
	case ColNo:
		r.No = ParseInt(v)
	case ColRequestDate:
		r.RequestDate = ParseDate(v)
	case ColCompany:
		r.Company = CleanText(v)
	case ColDepartment:
		r.Department = CleanText(v)
	case ColContact:
		r.Contact = CleanText(v)
	case ColCarModel:
		r.CarModel = CleanText(v)
	case ColPartNumber:
		r.PartNumber = CleanText(v)
	case ColPartName:
		r.PartName = CleanText(v)
	case ColShipFrom:
		r.ShipFrom = CleanText(v)
	case ColQuantity:
		r.Quantity = ParseInt(v)
	case ColDueDate:
		r.DueDate = ParseDate(v)
	case ColRequirements:
		r.Requirements = CleanText(v)
	case ColDrawingReceived:
		r.DrawingReceived = ParseDate(v)
	case ColMaterialRequested:
		r.MaterialRequested = ParseDate(v)
	case ColMaterialPrep:
		r.MaterialPrep = CleanText(v)
	case ColSampleCompleted:
		r.SampleCompleted = ParseDate(v)
	case ColShipped:
		r.Shipped = ParseDate(v)
	case ColShippingMethod:
		r.ShippingMethod = CleanText(v)
	case ColRemarks:
		r.Remarks = CleanText(v)
	case ColUnitPrice:
		r.UnitPrice = ParseAmount(v)
	case ColTotalPrice:
		r.TotalPrice = ParseAmount(v)
	case ColStatus:
	default:
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[col] = CleanText(v)
	}
}

// DeletedAtLayout is how trash timestamps are written.
const DeletedAtLayout = "2006-01-02 15:04:05"

// TrashEntry is a deleted record kept for restore and for suppressing the
// record if the remote sheet still carries it.
type TrashEntry struct {
	Record
	DeletedAt time.Time `json:"deletedAt"`
}
