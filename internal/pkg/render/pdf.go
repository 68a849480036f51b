package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Helvetica"

	descriptionShare = 15.0
	monthShare       = 8.0

	gridRowHeight = 8.0
	lineHeight    = 6.0
)

// Portrait page sizes in millimetres.
var pageSizes = map[string]gofpdf.SizeType{
	"A2": {Wd: 420, Ht: 594},
	"A3": {Wd: 297, Ht: 420},
	"A4": {Wd: 210, Ht: 297},
}

type rgb struct{ r, g, b int }

var (
	weekendFill = rgb{238, 136, 5}
	totalFill   = rgb{26, 48, 81}
	headerFill  = rgb{230, 230, 230}
)

var (
	germanMonths   = [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	germanWeekdays = [...]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"}
)

// Renderer produces the PDF and spreadsheet documents of the timesheet reports.
type Renderer struct {
	// Company is printed in the page header when set.
	Company string
}

var _ report.Renderer = (*Renderer)(nil)

func NewRenderer(company string) *Renderer {
	return &Renderer{Company: company}
}

func (r *Renderer) MonthlyPDF(data report.MonthlyReportData) ([]byte, error) {
	pdf := r.newDocument("L", "A2", "Monatsbericht")
	r.grid(pdf, data.Grid, data.Month)
	return output(pdf)
}

func (r *Renderer) ProjectPDF(data report.ProjectReportData) ([]byte, error) {
	pdf := r.newDocument("L", "A3", "Projekterfassung")
	r.grid(pdf, data.Grid, data.StartDate)
	r.signatures(pdf, "Datum", "Unterschrift Hauptansprechpartner*in")
	return output(pdf)
}

func (r *Renderer) IndividualPDF(data report.IndividualReportData) ([]byte, error) {
	pdf := r.newDocument("P", "A4", "Individualbericht")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "", 11)
	pdf.CellFormat(0, lineHeight, tr("Projekt: "+data.ProjectName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Monat: "+data.Month), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right
	dateW, hoursW := width*0.2, width*0.15
	commentW := width - dateW - hoursW

	pdf.SetFont(fontFamily, "B", 10)
	setFill(pdf, headerFill)
	pdf.CellFormat(dateW, gridRowHeight, "Datum", "1", 0, "L", true, 0, "")
	pdf.CellFormat(hoursW, gridRowHeight, "Stunden", "1", 0, "R", true, 0, "")
	pdf.CellFormat(commentW, gridRowHeight, "Kommentare", "1", 1, "L", true, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	for _, day := range data.Days {
		comments := tr(joinNonEmpty(day.Comments))
		lines := pdf.SplitLines([]byte(comments), commentW-2)
		h := lineHeight * float64(max(len(lines), 1))

		x, y := pdf.GetXY()
		pdf.CellFormat(dateW, h, day.Date.Format("02.01.2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(hoursW, h, fmt.Sprintf("%.2f", day.Hours), "1", 0, "R", false, 0, "")
		pdf.MultiCell(commentW, lineHeight, comments, "1", "L", false)
		pdf.SetXY(x, y+h)
	}

	pdf.Ln(lineHeight)
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Summe Stunden: %.2f", data.TotalHours), "", 1, "R", false, 0, "")

	r.signatures(pdf, "Unterschrift Projektleiter*in", "Unterschrift Dienstleister")
	return output(pdf)
}

func (r *Renderer) newDocument(orientation, size, title string) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           pageSizes[size],
	})
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(title, true)
	pdf.SetCreator("timesheet-reports", true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont(fontFamily, "B", 20)
	pdf.CellFormat(0, 12, tr(title), "", 0, "L", false, 0, "")
	if r.Company != "" {
		pdf.SetFont(fontFamily, "", 12)
		pdf.CellFormat(0, 12, tr(r.Company), "", 0, "R", false, 0, "")
	}
	pdf.Ln(18)
	return pdf
}

// grid draws the day table: a weekday header, a day number row, the totals row
// and one row per project. Day column widths follow the assembled weights.
func (r *Renderer) grid(pdf *gofpdf.Fpdf, g report.Grid, month time.Time) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right
	unit := width / 100

	descW, monthW := descriptionShare*unit, monthShare*unit
	dayW := make([]float64, g.DaysInMonth)
	for d := range dayW {
		dayW[d] = unit * (report.DefaultColumnBudget / float64(g.DaysInMonth))
		if d < len(g.ColumnWeights) {
			dayW[d] = g.ColumnWeights[d] * unit
		}
	}

	weekend := func(d int) bool { return d < len(g.Weekends) && g.Weekends[d] }

	dayCell := func(d int, text string, ln int) {
		if weekend(d) {
			setFill(pdf, weekendFill)
		}
		pdf.CellFormat(dayW[d], gridRowHeight, text, "1", ln, "C", weekend(d), 0, "")
	}
	lastLn := func(d int) int {
		if d == g.DaysInMonth-1 {
			return 1
		}
		return 0
	}
	totalCell := func(hours float64) {
		setFill(pdf, totalFill)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(monthW, gridRowHeight, formatHours(hours), "1", 0, "C", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont(fontFamily, "B", 9)
	pdf.CellFormat(descW, gridRowHeight, "Kunde", "1", 0, "L", false, 0, "")
	pdf.CellFormat(monthW, gridRowHeight, tr(germanMonth(month)), "1", 0, "C", false, 0, "")
	for d := 0; d < g.DaysInMonth; d++ {
		weekday := time.Date(month.Year(), month.Month(), d+1, 0, 0, 0, 0, time.UTC).Weekday()
		dayCell(d, germanWeekdays[weekday], lastLn(d))
	}

	pdf.CellFormat(descW, gridRowHeight, "Projekt", "1", 0, "L", false, 0, "")
	pdf.CellFormat(monthW, gridRowHeight, "", "1", 0, "C", false, 0, "")
	for d := 0; d < g.DaysInMonth; d++ {
		dayCell(d, fmt.Sprintf("%02d", d+1), lastLn(d))
	}

	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(descW, gridRowHeight, "Beschreibung", "1", 0, "L", false, 0, "")
	totalCell(g.TotalMonthHours)
	for d := 0; d < g.DaysInMonth; d++ {
		dayCell(d, formatHours(valueAt(g.TotalHoursPerDay, d)), lastLn(d))
	}

	for _, p := range g.Projects {
		pdf.CellFormat(descW, gridRowHeight, tr(p.Name), "1", 0, "L", false, 0, "")
		totalCell(p.TotalHours)
		for d := 0; d < g.DaysInMonth; d++ {
			dayCell(d, formatHours(valueAt(p.Hours, d)), lastLn(d))
		}
	}
	if g.DaysInMonth == 0 {
		pdf.Ln(gridRowHeight)
	}
}

func (r *Renderer) signatures(pdf *gofpdf.Fpdf, leftLabel, rightLabel string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := (pageW - left - right) * 0.45
	gap := (pageW - left - right) - 2*w

	pdf.Ln(30)
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(w, lineHeight, tr(leftLabel), "T", 0, "C", false, 0, "")
	pdf.CellFormat(gap, lineHeight, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(w, lineHeight, tr(rightLabel), "T", 1, "C", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func setFill(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

// formatHours prints zero as "0" and everything else with two decimals.
func formatHours(hours float64) string {
	if hours == 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", hours)
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func germanMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", germanMonths[t.Month()-1], t.Year())
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
