package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shopfloor/internal/app"
	"github.com/alexanderramin/shopfloor/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Page geometry for A4 landscape, in mm.
const (
	pageWidth   = 297.0
	marginLeft  = 10.0
	marginRight = 10.0
	laneLabelW  = 40.0
	laneHeight  = 9.0
	axisHeight  = 6.0
)

var (
	taskColor  = [3]int{79, 195, 247}
	setupColor = [3]int{255, 167, 38}
)

// PDFExporter renders schedules as a Gantt chart followed by the block table.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates the schedule document. An empty schedule still yields a
// page with the summary line.
func (e *PDFExporter) Render(resp *app.ScheduleResponse, title string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 15, marginRight)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, summaryLine(resp), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if from, to, ok := resp.Span(); ok {
		drawGantt(pdf, resp, from, to)
		pdf.Ln(6)
	}

	renderTable(pdf, ScheduleDataset(resp))
	if len(resp.Skipped) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, "Skipped requests", "", 1, "", false, 0, "")
		renderTable(pdf, SkippedDataset(resp))
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLine(resp *app.ScheduleResponse) string {
	s := resp.Summary
	line := fmt.Sprintf("%d machines, %d tasks, %d setups, %d skipped. Fallback %s, gaps %s.",
		s.MachineCount, s.TaskCount, s.SetupCount, s.SkippedCount, s.FallbackPolicy, s.GapPolicy)
	if s.Horizon != nil {
		line += " Horizon " + s.Horizon.Format("2006-01-02 15:04") + "."
	}
	return line
}

// drawGantt draws one lane per machine with bars scaled to the plan span.
func drawGantt(pdf *gofpdf.Fpdf, resp *app.ScheduleResponse, from, to time.Time) {
	chartX := marginLeft + laneLabelW
	chartW := pageWidth - marginRight - chartX
	span := to.Sub(from).Seconds()
	if span <= 0 {
		span = 1
	}
	scale := func(t time.Time) float64 {
		return chartX + t.Sub(from).Seconds()/span*chartW
	}

	top := pdf.GetY()
	pdf.SetFont("Arial", "", 7)
	pdf.SetXY(chartX, top)
	pdf.CellFormat(chartW/2, axisHeight, from.Format("01-02 15:04"), "", 0, "L", false, 0, "")
	pdf.CellFormat(chartW/2, axisHeight, to.Format("01-02 15:04"), "", 1, "R", false, 0, "")

	y := top + axisHeight
	pdf.SetDrawColor(200, 200, 200)
	for _, m := range resp.Machines {
		pdf.SetXY(marginLeft, y)
		pdf.SetFont("Arial", "B", 8)
		pdf.CellFormat(laneLabelW, laneHeight, domain.CoalesceStr(m.MachineName, m.MachineID), "", 0, "L", false, 0, "")
		pdf.Rect(chartX, y, chartW, laneHeight, "D")

		pdf.SetFont("Arial", "", 6)
		for i := range m.Blocks {
			b := &m.Blocks[i]
			x0, x1 := scale(b.Start), scale(b.End)
			c := taskColor
			if b.Kind == domain.BlockSetup {
				c = setupColor
			}
			pdf.SetFillColor(c[0], c[1], c[2])
			pdf.Rect(x0, y+1, x1-x0, laneHeight-2, "F")
			if label := b.Label(); pdf.GetStringWidth(label) < x1-x0 {
				pdf.SetXY(x0, y+1)
				pdf.CellFormat(x1-x0, laneHeight-2, label, "", 0, "C", false, 0, "")
			}
		}
		y += laneHeight
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
}

func renderTable(pdf *gofpdf.Fpdf, data Dataset) {
	colWidth := (pageWidth - marginLeft - marginRight) / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 8)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 6, fit(pdf, row[header], colWidth-1), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s until it fits in width at the current font.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"..") > width {
		r = r[:len(r)-1]
	}
	return string(r) + ".."
}
