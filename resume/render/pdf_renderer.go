package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"resume-ats/resume/model"
)

const (
	MimePDF = "application/pdf"

	pageWidth      = 612.0
	pageHeight     = 792.0
	pageMargin     = 50.0
	lineHeight     = 20.0
	nameAdvance    = 30.0
	sectionSpacing = 30.0
	entryGap       = 10.0
)

// pdfEpoch is written as both creation and modification date.
var pdfEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// RenderPDF renders doc as a Letter-size PDF. Text is set in an embedded
// Unicode font; characters it cannot draw fail with ErrUnsupportedText.
func RenderPDF(doc model.ResumeDocument) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	blocks := Layout(doc)
	if err := checkGlyphs(blocks); err != nil {
		return nil, err
	}
	f := newPDF()
	w := newPDFWriter(f)
	w.draw(blocks)

	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func newPDF() *fpdf.Fpdf {
	f := fpdf.New("P", "pt", "Letter", "")
	f.SetAutoPageBreak(false, pageMargin)
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetCreationDate(pdfEpoch)
	f.SetModificationDate(pdfEpoch)
	f.SetCatalogSort(true)
	f.SetCreator("resume-ats", false)
	registerFonts(f)
	return f
}

// pdfWriter tracks the page cursor. y is the baseline of the next line,
// measured from the top of the page.
type pdfWriter struct {
	f         *fpdf.Fpdf
	y         float64
	page      int
	drawnOnPg bool

	// onLine, when set, observes every placed line.
	onLine func(page int, y float64, text string)
}

func newPDFWriter(f *fpdf.Fpdf) *pdfWriter {
	w := &pdfWriter{f: f}
	w.addPage()
	return w
}

func (w *pdfWriter) addPage() {
	w.f.AddPage()
	w.page++
	w.y = pageMargin
	w.drawnOnPg = false
}

func (w *pdfWriter) maxWidth() float64 {
	return pageWidth - 2*pageMargin
}

func (w *pdfWriter) bottom() float64 {
	return pageHeight - pageMargin
}

// ensureSpace starts a new page unless n more lines fit above the bottom
// margin.
func (w *pdfWriter) ensureSpace(n int) {
	if !w.drawnOnPg {
		return
	}
	if w.y+float64(n-1)*lineHeight > w.bottom() {
		w.addPage()
	}
}

func (w *pdfWriter) linesPerPage() int {
	return int((w.bottom()-pageMargin)/lineHeight) + 1
}

func (w *pdfWriter) setFont(style RunStyle) {
	w.f.SetFont(fontFamily, faceStyle(style), style.PDFSize)
}

func (w *pdfWriter) draw(blocks []Block) {
	for _, block := range blocks {
		style := styleFor(block.Kind)
		switch block.Kind {
		case BlockEntryGap:
			w.y += entryGap
		case BlockName:
			w.setFont(style)
			w.writeLines(w.wrap(block.Text, w.maxWidth(), w.maxWidth()), style, "", 0)
			w.y += nameAdvance - lineHeight
		case BlockHeading:
			if w.drawnOnPg {
				w.y += sectionSpacing
			}
			// keep the heading with the first line of its section
			w.ensureSpace(2)
			w.setFont(style)
			w.writeLines([]string{block.Text}, style, "", 0)
		case BlockLabeled:
			label := block.Label + ": "
			bold := style
			bold.Bold = true
			w.setFont(bold)
			labelWidth := w.f.GetStringWidth(label)
			w.setFont(style)
			lines := w.wrap(block.Text, w.maxWidth()-labelWidth, w.maxWidth())
			w.writeLines(lines, style, label, labelWidth)
		default:
			w.setFont(style)
			w.writeLines(w.wrap(block.Text, w.maxWidth(), w.maxWidth()), style, "", 0)
		}
	}
}

// writeLines places already wrapped lines. A block that fits on one page is
// kept together; a longer block breaks page by page. A non-empty label is
// drawn in bold before the first line.
func (w *pdfWriter) writeLines(lines []string, style RunStyle, label string, labelWidth float64) {
	if len(lines) == 0 {
		return
	}
	if len(lines) <= w.linesPerPage() {
		w.ensureSpace(len(lines))
	}
	for i, line := range lines {
		w.ensureSpace(1)
		x := pageMargin
		if i == 0 && label != "" {
			bold := style
			bold.Bold = true
			w.setFont(bold)
			w.f.Text(x, w.y, label)
			w.setFont(style)
			x += labelWidth
		}
		w.f.Text(x, w.y, line)
		if w.onLine != nil {
			w.onLine(w.page, w.y, line)
		}
		w.drawnOnPg = true
		w.y += lineHeight
	}
}

// wrap greedily packs words under the measured width of the current font.
// The first line may have a different budget than the rest. Words wider than
// a line are split between runes.
func (w *pdfWriter) wrap(text string, firstWidth, restWidth float64) []string {
	var lines []string
	limit := firstWidth
	current := ""
	flush := func() {
		lines = append(lines, current)
		current = ""
		limit = restWidth
	}
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w.f.GetStringWidth(candidate) <= limit {
			current = candidate
			continue
		}
		if current != "" {
			flush()
		}
		for w.f.GetStringWidth(word) > limit {
			cut := w.fitPrefix(word, limit)
			current = word[:cut]
			word = word[cut:]
			flush()
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// fitPrefix returns the byte length of the longest whole-rune prefix of word
// that fits in limit, never less than one rune.
func (w *pdfWriter) fitPrefix(word string, limit float64) int {
	_, cut := utf8.DecodeRuneInString(word)
	for cut < len(word) {
		_, size := utf8.DecodeRuneInString(word[cut:])
		if w.f.GetStringWidth(word[:cut+size]) > limit {
			break
		}
		cut += size
	}
	return cut
}
