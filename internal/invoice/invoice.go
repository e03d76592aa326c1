package invoice

import (
	"errors"
	"time"
)

// Field caps applied on insert to bound storage growth.
const (
	MaxInvoiceNumberLen = 100
	MaxClientNameLen    = 500
)

// DefaultCategory is assigned when the client sends no category.
const DefaultCategory = "General"

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("invoice not found")

	// ErrMissingID is returned when an insert arrives without an id.
	ErrMissingID = errors.New("invoice id is required")
)

// Invoice is a record extracted from an uploaded invoice PDF. All fields
// except ID and UploadedAt are client-supplied and stored as-is: the date
// representations are not cross-checked and Total is not validated against
// Subtotal+Tax.
type Invoice struct {
	ID             string     `json:"id" bson:"_id"`
	FileName       string     `json:"fileName,omitempty" bson:"fileName,omitempty"`
	RawTextPreview string     `json:"rawTextPreview,omitempty" bson:"rawTextPreview,omitempty"`
	InvoiceNumber  string     `json:"invoiceNumber,omitempty" bson:"invoiceNumber,omitempty"`
	ClientName     string     `json:"clientName,omitempty" bson:"clientName,omitempty"`
	Date           string     `json:"date,omitempty" bson:"date,omitempty"`
	Year           int        `json:"year,omitempty" bson:"year,omitempty"`
	Month          int        `json:"month,omitempty" bson:"month,omitempty"`
	MonthName      string     `json:"monthName,omitempty" bson:"monthName,omitempty"`
	Quarter        string     `json:"quarter,omitempty" bson:"quarter,omitempty"`
	Subtotal       float64    `json:"subtotal,omitempty" bson:"subtotal,omitempty"`
	Tax            float64    `json:"tax,omitempty" bson:"tax,omitempty"`
	Total          float64    `json:"total,omitempty" bson:"total,omitempty"`
	Currency       string     `json:"currency,omitempty" bson:"currency,omitempty"`
	PaymentMethod  string     `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	HSTNumber      string     `json:"hstNumber,omitempty" bson:"hstNumber,omitempty"`
	LineItems      []LineItem `json:"lineItems" bson:"lineItems"`
	Category       string     `json:"category" bson:"category"`
	UploadedAt     time.Time  `json:"uploadedAt" bson:"uploadedAt"`
}

// LineItem is one purchased item on an invoice. Order within a record is
// preserved.
type LineItem struct {
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Quantity    float64 `json:"quantity,omitempty" bson:"quantity,omitempty"`
	UnitPrice   float64 `json:"unitPrice,omitempty" bson:"unitPrice,omitempty"`
	OurPrice    float64 `json:"ourPrice,omitempty" bson:"ourPrice,omitempty"`
	Amount      float64 `json:"amount,omitempty" bson:"amount,omitempty"`
}

// Patch is a partial update to an invoice. Nil fields are left untouched;
// LineItems, when present, replaces the stored slice wholesale. ID and
// UploadedAt are immutable and have no patch counterpart.
type Patch struct {
	FileName       *string     `json:"fileName,omitempty"`
	RawTextPreview *string     `json:"rawTextPreview,omitempty"`
	InvoiceNumber  *string     `json:"invoiceNumber,omitempty"`
	ClientName     *string     `json:"clientName,omitempty"`
	Date           *string     `json:"date,omitempty"`
	Year           *int        `json:"year,omitempty"`
	Month          *int        `json:"month,omitempty"`
	MonthName      *string     `json:"monthName,omitempty"`
	Quarter        *string     `json:"quarter,omitempty"`
	Subtotal       *float64    `json:"subtotal,omitempty"`
	Tax            *float64    `json:"tax,omitempty"`
	Total          *float64    `json:"total,omitempty"`
	Currency       *string     `json:"currency,omitempty"`
	PaymentMethod  *string     `json:"paymentMethod,omitempty"`
	HSTNumber      *string     `json:"hstNumber,omitempty"`
	LineItems      *[]LineItem `json:"lineItems,omitempty"`
	Category       *string     `json:"category,omitempty"`
}

// Apply merges the patch into inv with shallow field replacement.
func (p Patch) Apply(inv *Invoice) {
	if p.FileName != nil {
		inv.FileName = *p.FileName
	}

	if p.RawTextPreview != nil {
		inv.RawTextPreview = *p.RawTextPreview
	}

	if p.InvoiceNumber != nil {
		inv.InvoiceNumber = *p.InvoiceNumber
	}

	if p.ClientName != nil {
		inv.ClientName = *p.ClientName
	}

	if p.Date != nil {
		inv.Date = *p.Date
	}

	if p.Year != nil {
		inv.Year = *p.Year
	}

	if p.Month != nil {
		inv.Month = *p.Month
	}

	if p.MonthName != nil {
		inv.MonthName = *p.MonthName
	}

	if p.Quarter != nil {
		inv.Quarter = *p.Quarter
	}

	if p.Subtotal != nil {
		inv.Subtotal = *p.Subtotal
	}

	if p.Tax != nil {
		inv.Tax = *p.Tax
	}

	if p.Total != nil {
		inv.Total = *p.Total
	}

	if p.Currency != nil {
		inv.Currency = *p.Currency
	}

	if p.PaymentMethod != nil {
		inv.PaymentMethod = *p.PaymentMethod
	}

	if p.HSTNumber != nil {
		inv.HSTNumber = *p.HSTNumber
	}

	if p.LineItems != nil {
		inv.LineItems = *p.LineItems
	}

	if p.Category != nil {
		inv.Category = *p.Category
	}
}
