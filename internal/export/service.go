// Package export renders the full invoice set as CSV or as an xlsx ledger
// workbook grouped by fiscal period.
package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
)

type Service struct {
	invoices *invoice.Service
	now      func() time.Time
}

func NewService(invoiceService *invoice.Service) *Service {
	return &Service{invoices: invoiceService, now: time.Now}
}

// WriteCSVAll streams the CSV export of every stored invoice.
func (s *Service) WriteCSVAll(ctx context.Context, w io.Writer) error {
	records, err := s.invoices.List(ctx)
	if err != nil {
		return fmt.Errorf("listing invoices: %w", err)
	}

	return s.WriteCSV(w, records)
}

// WorkbookAll builds the xlsx export of every stored invoice.
func (s *Service) WorkbookAll(ctx context.Context) (*excelize.File, error) {
	records, err := s.invoices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return s.Workbook(records)
}

var csvHeader = []string{
	"Invoice Number", "Client", "Date", "Year", "Quarter", "Month",
	"Subtotal", "Tax", "Total", "Currency", "File Name",
	"Items Purchased", "Total Quantity",
}

// WriteCSV writes one row per record. Every field is quoted with embedded
// quotes doubled; line items collapse into a pipe-joined description cell
// and a summed quantity cell.
func (s *Service) WriteCSV(w io.Writer, records []*invoice.Invoice) error {
	if err := writeCSVRow(w, csvHeader); err != nil {
		return err
	}

	for _, rec := range records {
		descriptions := make([]string, 0, len(rec.LineItems))

		var totalQty float64

		for _, item := range rec.LineItems {
			descriptions = append(descriptions, item.Description)
			totalQty += item.Quantity
		}

		row := []string{
			rec.InvoiceNumber,
			rec.ClientName,
			rec.Date,
			formatInt(rec.Year),
			rec.Quarter,
			rec.MonthName,
			formatNumber(rec.Subtotal),
			formatNumber(rec.Tax),
			formatNumber(rec.Total),
			rec.Currency,
			rec.FileName,
			strings.Join(descriptions, " | "),
			formatNumber(totalQty),
		}

		if err := writeCSVRow(w, row); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}

	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}

	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}

	return strconv.Itoa(n)
}

// period is one workbook sheet's fiscal grouping key. half is zero for
// plain year sheets; 2025 is split into half 1 (month <= 6) and half 2.
type period struct {
	name string
	year int
	half int
}

// periodFor keeps the 2025 half-year split as a literal special case. It
// was requested for that year only and must not generalize.
func periodFor(rec *invoice.Invoice) period {
	if rec.Year == 2025 {
		if rec.Month <= 6 {
			return period{name: "2025 (Jan-Jun)", year: 2025, half: 1}
		}

		return period{name: "2025 (Jul-Dec)", year: 2025, half: 2}
	}

	return period{name: strconv.Itoa(rec.Year), year: rec.Year}
}

var workbookHeader = []string{
	"Invoice #", "Date", "Client", "Item Description", "Qty",
	"Unit Price", "Cost Price", "Amount", "Profit", "Cut",
	"Tax", "Total Received", "Payment Method", "Category",
}

const (
	headerRow    = 2
	dataStartRow = 4
	lastColumn   = "N"
)

// Workbook renders one sheet per fiscal period with one row per line item,
// so each purchased item carries its own profit and markup line. With no
// records at all it still emits an empty sheet for the current year.
func (s *Service) Workbook(records []*invoice.Invoice) (*excelize.File, error) {
	groups := map[period][]*invoice.Invoice{}

	for _, rec := range records {
		p := periodFor(rec)
		groups[p] = append(groups[p], rec)
	}

	if len(groups) == 0 {
		currentYear := s.now().Year()
		groups[period{name: strconv.Itoa(currentYear), year: currentYear}] = nil
	}

	periods := make([]period, 0, len(groups))
	for p := range groups {
		periods = append(periods, p)
	}

	sort.Slice(periods, func(i, j int) bool {
		if periods[i].year != periods[j].year {
			return periods[i].year < periods[j].year
		}

		return periods[i].half < periods[j].half
	})

	f := excelize.NewFile()

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	for i, p := range periods {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", p.name); err != nil {
				return nil, fmt.Errorf("naming sheet %q: %w", p.name, err)
			}
		} else {
			if _, err := f.NewSheet(p.name); err != nil {
				return nil, fmt.Errorf("adding sheet %q: %w", p.name, err)
			}
		}

		if err := s.writeSheet(f, styles, p.name, groups[p]); err != nil {
			return nil, err
		}
	}

	return f, nil
}

type sheetStyles struct {
	title  int
	header int
	number int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	title, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("creating title style: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("creating header style: %w", err)
	}

	// Built-in format 2 renders as 0.00.
	number, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return sheetStyles{}, fmt.Errorf("creating number style: %w", err)
	}

	return sheetStyles{title: title, header: header, number: number}, nil
}

func (s *Service) writeSheet(f *excelize.File, styles sheetStyles, sheet string, records []*invoice.Invoice) error {
	if err := f.MergeCell(sheet, "A1", lastColumn+"1"); err != nil {
		return fmt.Errorf("merging title row: %w", err)
	}

	if err := f.SetCellValue(sheet, "A1", "Invoices - "+sheet); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", styles.title); err != nil {
		return fmt.Errorf("styling title: %w", err)
	}

	for i, name := range workbookHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}

		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := f.SetCellStyle(sheet,
		fmt.Sprintf("A%d", headerRow),
		fmt.Sprintf("%s%d", lastColumn, headerRow),
		styles.header,
	); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", lastColumn, 15); err != nil {
		return fmt.Errorf("setting column widths: %w", err)
	}

	row := dataStartRow

	for _, rec := range records {
		items := rec.LineItems
		if len(items) == 0 {
			// Still surface the invoice in the ledger.
			items = []invoice.LineItem{{}}
		}

		for i, item := range items {
			if i == 0 {
				if err := setCells(f, sheet, row, map[string]any{
					"A": rec.InvoiceNumber,
					"B": reverseDate(rec.Date),
					"C": rec.ClientName,
					"K": rec.Tax,
					"L": rec.Total,
					"M": rec.PaymentMethod,
					"N": rec.Category,
				}); err != nil {
					return err
				}
			}

			amount := round2(item.Quantity * item.UnitPrice)
			profit := round2(amount - item.Quantity*item.OurPrice)
			cut := round2(profit / 2)

			if err := setCells(f, sheet, row, map[string]any{
				"D": item.Description,
				"E": item.Quantity,
				"F": item.UnitPrice,
				"G": item.OurPrice,
				"H": amount,
				"I": profit,
				"J": cut,
			}); err != nil {
				return err
			}

			if err := f.SetCellStyle(sheet,
				fmt.Sprintf("E%d", row),
				fmt.Sprintf("L%d", row),
				styles.number,
			); err != nil {
				return fmt.Errorf("styling row %d: %w", row, err)
			}

			row++
		}
	}

	return nil
}

func setCells(f *excelize.File, sheet string, row int, cells map[string]any) error {
	for col, v := range cells {
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, row), v); err != nil {
			return fmt.Errorf("writing cell %s%d: %w", col, row, err)
		}
	}

	return nil
}

// reverseDate flips a stored yyyy-mm-dd date into dd/mm/yyyy for the
// ledger. Anything else passes through untouched.
func reverseDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}

	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
