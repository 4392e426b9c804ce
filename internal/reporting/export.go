package reporting

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"pharmacy_backend/internal/classification"
	"pharmacy_backend/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Format selects the report rendering.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

var (
	// ErrNoData is returned when there is nothing to export. Callers show
	// a message instead of serving a zero-row file.
	ErrNoData = errors.New("no records to export")

	// ErrUnknownFormat is returned for an unrecognized format selector.
	ErrUnknownFormat = errors.New("unknown export format")
)

// ParseFormat validates a format selector from a request.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatExcel:
		return FormatExcel, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// File is a rendered report ready to be served as a download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// exportHeader fixes the field order shared by every rendering. The three
// formats must stay row-equivalent: same records, same fields, same order.
var exportHeader = []string{"Name", "Batch Number", "Quantity", "Unit", "Price", "Expiry Date", "Status", "Created At"}

// Column index of the price field inside exportHeader; the PDF rendering
// prefixes it with the currency symbol.
const priceColumn = 4

const (
	reportBaseName = "medicine_report"
	reportTitle    = "Medicine Inventory Report"
	sheetName      = "Medicine Report"

	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Exporter renders medicine collections into downloadable report files.
type Exporter struct {
	cfg      classification.Config
	currency string
}

// NewExporter creates an Exporter. The classification config determines the
// Status column; currency prefixes prices in the PDF rendering.
func NewExporter(cfg classification.Config, currency string) *Exporter {
	if currency == "" {
		currency = "$"
	}
	return &Exporter{cfg: cfg, currency: currency}
}

// Export renders the collection in the requested format. An empty collection
// returns ErrNoData rather than an empty file.
func (e *Exporter) Export(meds []models.Medicine, format Format, now time.Time) (*File, error) {
	if len(meds) == 0 {
		return nil, ErrNoData
	}

	rows := e.buildRows(meds, now)

	var (
		data []byte
		ext  string
		ct   string
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = e.renderCSV(rows)
		ext, ct = "csv", "text/csv"
	case FormatExcel:
		data, err = e.renderExcel(rows)
		ext, ct = "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		data, err = e.renderPDF(rows)
		ext, ct = "pdf", "application/pdf"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Name:        fmt.Sprintf("%s_%d.%s", reportBaseName, now.UnixMilli(), ext),
		ContentType: ct,
		Data:        data,
	}, nil
}

// buildRows produces the shared logical row content. All three renderings
// consume this one result, which is what keeps them row-equivalent.
func (e *Exporter) buildRows(meds []models.Medicine, now time.Time) [][]string {
	rows := make([][]string, 0, len(meds))
	for _, med := range meds {
		res, _ := e.cfg.Classify(med, now)

		expiry := "N/A"
		if med.ExpiryDate != nil && !med.ExpiryDate.IsZero() {
			expiry = med.ExpiryDate.Format(dateLayout)
		}
		unit := med.Unit
		if unit == "" {
			unit = "N/A"
		}

		rows = append(rows, []string{
			med.Name,
			med.BatchNo,
			fmt.Sprintf("%d", classification.ClampQuantity(med.Quantity)),
			unit,
			med.Price.String(),
			expiry,
			string(res.Expiry),
			med.CreatedAt.Format(timestampLayout),
		})
	}
	return rows
}

func (e *Exporter) renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) renderExcel(rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming worksheet: %w", err)
	}

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, fmt.Errorf("writing header cell: %w", err)
		}
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	lastHeaderCell, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeaderCell, boldStyle); err != nil {
		return nil, fmt.Errorf("styling header row: %w", err)
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("writing data cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) renderPDF(rows [][]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, strings.Join(exportHeader, " | "), "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		line := make([]string, len(row))
		copy(line, row)
		line[priceColumn] = e.currency + line[priceColumn]
		pdf.CellFormat(0, 5, strings.Join(line, " | "), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
