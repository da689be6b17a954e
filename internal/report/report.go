// Package report renders the PDF evaluation report.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	margin       = 60.0
	bottomMargin = 40.0
	bodySize     = 9.0
	bodyLine     = 12.0
)

type Input struct {
	SourceFilename string
	GeneratedAt    time.Time
	OverallScore   float64
	Category       string
	CostUSD        float64
	Result         model.EvaluationResult
}

// Renderer writes Letter size reports: cover with the score table, then one
// page each for dimension scores, strengths and improvements, and the
// overall assessment. Sections with nothing to show are left out.
type Renderer struct{}

func (Renderer) Render(path string, in Input) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetTitle("Presentation Evaluation Report", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	w := &writer{pdf: pdf, tr: tr}
	w.cover(in)

	pdf.AddPage()
	w.dimensions(in.Result)

	if len(in.Result.Strengths) > 0 || len(in.Result.Improvements) > 0 {
		pdf.AddPage()
		w.bulletSection("Key Strengths", in.Result.Strengths, "4", [3]int{39, 174, 96})
		if len(in.Result.Strengths) > 0 {
			pdf.Ln(14)
		}
		w.bulletSection("Areas for Improvement", in.Result.Improvements, "!", [3]int{230, 126, 34})
	}

	if strings.TrimSpace(in.Result.OverallAssessment) != "" {
		pdf.AddPage()
		w.sectionTitle("Overall Assessment")
		w.body(in.Result.OverallAssessment)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

type writer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *writer) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *writer) cover(in Input) {
	pdf := w.pdf
	pdf.AddPage()
	pdf.Ln(36)

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 24, w.tr("Presentation Evaluation Report"), "", 1, "C", false, 0, "")
	pdf.Ln(20)

	w.labelled("Presentation:", in.SourceFilename)
	w.labelled("Date:", in.GeneratedAt.Format("January 02, 2006"))
	pdf.Ln(22)

	rows := [][2]string{
		{"Overall Score", fmt.Sprintf("%.1f/100", in.OverallScore)},
		{"Category", in.Category},
		{"Cost", fmt.Sprintf("$%.4f", in.CostUSD)},
	}
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetFillColor(236, 240, 241)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(144, 30, "  "+w.tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(180, 30, "  "+w.tr(row[1]), "1", 1, "L", false, 0, "")
	}
}

func (w *writer) dimensions(result model.EvaluationResult) {
	w.sectionTitle("Evaluation Scores by Dimension")
	for _, d := range result.DimensionScores {
		w.labelled(DimensionLabel(d.Dimension)+":", strconv.FormatFloat(d.Score, 'f', -1, 64)+"/100")
		if j, ok := result.Justifications[d.Dimension]; ok && j != "" {
			w.body(j)
		}
		w.pdf.Ln(7)
	}
}

func (w *writer) bulletSection(title string, items []string, symbol string, color [3]int) {
	if len(items) == 0 {
		return
	}
	pdf := w.pdf
	w.sectionTitle(title)
	for _, item := range items {
		pdf.SetTextColor(color[0], color[1], color[2])
		if symbol == "4" {
			pdf.SetFont("ZapfDingbats", "", bodySize)
		} else {
			pdf.SetFont("Helvetica", "B", bodySize)
		}
		pdf.CellFormat(14, bodyLine, symbol, "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", bodySize)
		pdf.MultiCell(w.contentWidth()-14, bodyLine, w.tr(item), "", "J", false)
		pdf.Ln(4)
	}
}

func (w *writer) sectionTitle(title string) {
	w.pdf.Ln(8)
	w.pdf.SetFont("Helvetica", "B", 13)
	w.pdf.CellFormat(0, 18, w.tr(title), "", 1, "L", false, 0, "")
	w.pdf.Ln(6)
}

func (w *writer) labelled(label, value string) {
	pdf := w.pdf
	pdf.SetFont("Helvetica", "B", bodySize)
	label = w.tr(label) + " "
	pdf.Write(bodyLine, label)
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.Write(bodyLine, w.tr(value))
	pdf.Ln(bodyLine + 4)
}

func (w *writer) body(text string) {
	w.pdf.SetFont("Helvetica", "", bodySize)
	w.pdf.MultiCell(0, bodyLine, w.tr(text), "", "J", false)
	w.pdf.Ln(4)
}

// DimensionLabel turns "content_accuracy" into "Content Accuracy".
func DimensionLabel(dimension string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(dimension, "_", " "))
}
