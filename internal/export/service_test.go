package export_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicevault/internal/export"
	"github.com/MrJamesThe3rd/invoicevault/internal/invoice"
)

func TestWriteCSV(t *testing.T) {
	svc := export.NewService(nil)

	records := []*invoice.Invoice{
		{
			ID:            "inv-1",
			InvoiceNumber: "2025-0042",
			ClientName:    `Acme "The Best" Corp`,
			Date:          "2025-03-14",
			Year:          2025,
			Quarter:       "Q1",
			MonthName:     "March",
			Subtotal:      100.5,
			Tax:           13.07,
			Total:         113.57,
			Currency:      "CAD",
			FileName:      "march.pdf",
			LineItems: []invoice.LineItem{
				{Description: "Widget", Quantity: 2},
				{Description: "Gadget", Quantity: 3},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], `"Items Purchased"`)
	assert.Contains(t, lines[0], `"Total Quantity"`)

	row := lines[1]
	assert.Contains(t, row, `"Widget | Gadget"`)
	assert.Contains(t, row, `"5"`)
	assert.Contains(t, row, `"Acme ""The Best"" Corp"`)
	assert.Contains(t, row, `"113.57"`)
}

func TestWriteCSV_EmptyFieldsStayQuoted(t *testing.T) {
	svc := export.NewService(nil)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, []*invoice.Invoice{{ID: "inv-1"}}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	// No line items: empty description cell, zero quantity.
	assert.True(t, strings.HasPrefix(lines[1], `"",""`))
	assert.True(t, strings.HasSuffix(lines[1], `"","0"`))
}

func TestWorkbook_LedgerMath(t *testing.T) {
	svc := export.NewService(nil)

	records := []*invoice.Invoice{
		{
			ID:            "inv-1",
			InvoiceNumber: "2025-0042",
			ClientName:    "Acme Corp",
			Date:          "2025-03-14",
			Year:          2025,
			Month:         3,
			Tax:           6.5,
			Total:         56.5,
			LineItems: []invoice.LineItem{
				{Description: "Widget", Quantity: 10, UnitPrice: 5, OurPrice: 3},
			},
		},
	}

	book, err := svc.Workbook(records)
	require.NoError(t, err)
	defer book.Close()

	sheets := book.GetSheetList()
	require.Equal(t, []string{"2025 (Jan-Jun)"}, sheets)

	sheet := sheets[0]

	amount, err := book.GetCellValue(sheet, "H4")
	require.NoError(t, err)
	assert.Equal(t, "50.00", amount)

	profit, err := book.GetCellValue(sheet, "I4")
	require.NoError(t, err)
	assert.Equal(t, "20.00", profit)

	cut, err := book.GetCellValue(sheet, "J4")
	require.NoError(t, err)
	assert.Equal(t, "10.00", cut)

	date, err := book.GetCellValue(sheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "14/03/2025", date)
}

func TestWorkbook_RecordCellsOnFirstItemRowOnly(t *testing.T) {
	svc := export.NewService(nil)

	records := []*invoice.Invoice{
		{
			ID:            "inv-1",
			InvoiceNumber: "A-1",
			ClientName:    "Acme Corp",
			Year:          2024,
			LineItems: []invoice.LineItem{
				{Description: "Widget", Quantity: 1, UnitPrice: 2},
				{Description: "Gadget", Quantity: 3, UnitPrice: 4},
			},
		},
	}

	book, err := svc.Workbook(records)
	require.NoError(t, err)
	defer book.Close()

	first, err := book.GetCellValue("2024", "A4")
	require.NoError(t, err)
	assert.Equal(t, "A-1", first)

	second, err := book.GetCellValue("2024", "A5")
	require.NoError(t, err)
	assert.Empty(t, second)

	desc, err := book.GetCellValue("2024", "D5")
	require.NoError(t, err)
	assert.Equal(t, "Gadget", desc)
}

func TestWorkbook_SplitsOnly2025(t *testing.T) {
	svc := export.NewService(nil)

	records := []*invoice.Invoice{
		{ID: "a", Year: 2024, Month: 2, LineItems: []invoice.LineItem{{Quantity: 1}}},
		{ID: "b", Year: 2024, Month: 11, LineItems: []invoice.LineItem{{Quantity: 1}}},
		{ID: "c", Year: 2025, Month: 6, LineItems: []invoice.LineItem{{Quantity: 1}}},
		{ID: "d", Year: 2025, Month: 7, LineItems: []invoice.LineItem{{Quantity: 1}}},
	}

	book, err := svc.Workbook(records)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{"2024", "2025 (Jan-Jun)", "2025 (Jul-Dec)"}, book.GetSheetList())
}

func TestWorkbook_NoRecordsEmitsCurrentYearSheet(t *testing.T) {
	svc := export.NewService(nil)

	book, err := svc.Workbook(nil)
	require.NoError(t, err)
	defer book.Close()

	currentYear := strconv.Itoa(time.Now().Year())
	require.Equal(t, []string{currentYear}, book.GetSheetList())

	header, err := book.GetCellValue(currentYear, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Invoice #", header)

	// Title and header only, no data rows.
	firstData, err := book.GetCellValue(currentYear, "A4")
	require.NoError(t, err)
	assert.Empty(t, firstData)
}
