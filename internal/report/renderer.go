// Package report renders a module-wise question bank into a paginated PDF.
//
// Rendering is two-phase: the first pass flows content into per-page draw
// command lists without touching the footer area, the second pass replays
// each page and stamps the footer, which needs the final page count.
package report

import (
	"bytes"
	"fmt"
	"time"

	"padhai-karo/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// Page geometry in millimetres (A4, portrait).
const (
	pageWidth  = 210.0
	marginLeft = 15.0
	marginRght = 15.0
	marginTop  = 20.0
	bodyBottom = 272.0
	footerY    = 285.0

	lineHeight   = 6.0
	headingH     = 8.0
	moduleGap    = 8.0
	markerIndent = 8.0
)

// drawCmd is one positioned piece of text. Text is already translated to the
// page encoding when the command is recorded.
type drawCmd struct {
	x, y   float64
	family string
	style  string
	size   float64
	text   string
}

// Renderer turns question banks into PDF bytes.
type Renderer struct {
	attribution string
	now         func() time.Time
}

// NewRenderer creates a Renderer stamping the given attribution line on every
// page footer.
func NewRenderer(attribution string) *Renderer {
	return &Renderer{attribution: attribution, now: time.Now}
}

// Render produces the PDF for a subject's question bank. An empty bank is an
// error; a report with nothing in it is never written.
func (r *Renderer) Render(subject string, bank *domain.QuestionBank) ([]byte, error) {
	if bank == nil || bank.TotalQuestions() == 0 {
		return nil, domain.NewRenderFailedError("The question bank is empty", nil)
	}

	l := newLayout()
	l.coverPage(subject, r.attribution, r.now())
	l.modulePages(bank)
	pages := l.finish()
	if err := l.pdf.Error(); err != nil {
		return nil, domain.NewRenderFailedError("Report layout failed", err)
	}

	return r.replay(pages)
}

// replay draws every laid-out page and stamps the footer now that the total
// page count is known.
func (r *Renderer) replay(pages [][]drawCmd) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	total := len(pages)
	for i, cmds := range pages {
		pdf.AddPage()
		for _, c := range cmds {
			pdf.SetFont(c.family, c.style, c.size)
			pdf.Text(c.x, c.y, c.text)
		}

		pdf.SetFont("Helvetica", "I", 9)
		pageLabel := fmt.Sprintf("Page %d of %d", i+1, total)
		pdf.Text((pageWidth-pdf.GetStringWidth(pageLabel))/2, footerY, pageLabel)

		attribution := tr(r.attribution)
		pdf.Text(pageWidth-marginRght-pdf.GetStringWidth(attribution), footerY, attribution)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.NewRenderFailedError("Report rendering failed", err)
	}
	return buf.Bytes(), nil
}

// layout performs the first pass. It owns a throwaway document used purely
// for font metrics; nothing is ever output from it.
type layout struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	pages [][]drawCmd
	cur   []drawCmd
	y     float64
}

func newLayout() *layout {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &layout{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		y:   marginTop,
	}
}

func (l *layout) newPage() {
	l.pages = append(l.pages, l.cur)
	l.cur = nil
	l.y = marginTop
}

// ensure breaks the page when h millimetres no longer fit above the footer
// area.
func (l *layout) ensure(h float64) {
	if l.y+h > bodyBottom {
		l.newPage()
	}
}

func (l *layout) add(x float64, family, style string, size float64, text string) {
	l.cur = append(l.cur, drawCmd{x: x, y: l.y, family: family, style: style, size: size, text: text})
}

func (l *layout) centered(family, style string, size float64, text string) {
	l.pdf.SetFont(family, style, size)
	l.add((pageWidth-l.pdf.GetStringWidth(text))/2, family, style, size, text)
}

func (l *layout) coverPage(subject, attribution string, generatedAt time.Time) {
	l.y = 110
	l.centered("Helvetica", "B", 24, l.tr("Module-wise Question Bank"))
	l.y += 14
	l.centered("Helvetica", "", 16, l.tr("Subject: "+subject))
	l.y += 10
	l.centered("Helvetica", "", 12, l.tr("Generated on: "+generatedAt.Format("January 2, 2006")))
	l.y += 8
	l.centered("Helvetica", "I", 10, l.tr(attribution))
	l.newPage()
}

func (l *layout) modulePages(bank *domain.QuestionBank) {
	contentWidth := pageWidth - marginLeft - marginRght

	for i, module := range bank.Modules {
		// Never leave a heading alone at the bottom of a page.
		l.ensure(headingH + lineHeight)
		heading := l.tr(fmt.Sprintf("Module %d: %s", i+1, module.Name))
		l.add(marginLeft, "Helvetica", "B", 14, heading)
		l.y += headingH

		for n, entry := range module.Entries {
			style := ""
			if entry.Importance == domain.ImportanceHigh {
				style = "B"
			}

			line := l.tr(fmt.Sprintf("%d. %s — (repeated %d times)",
				n+1, entry.QuestionText, entry.RepetitionCount))

			l.pdf.SetFont("Helvetica", style, 12)
			wrapped := l.pdf.SplitText(line, contentWidth-markerIndent)
			for j, part := range wrapped {
				l.ensure(lineHeight)
				if j == 0 {
					if entry.Importance == domain.ImportanceHigh {
						// ZapfDingbats 'H' is the solid star glyph.
						l.add(marginLeft, "ZapfDingbats", "", 11, "H")
					} else {
						l.add(marginLeft+1.5, "Helvetica", "", 12, l.tr("•"))
					}
				}
				l.add(marginLeft+markerIndent, "Helvetica", style, 12, part)
				l.y += lineHeight
			}
			l.y += 1.5
		}
		l.y += moduleGap
	}
}

// finish closes the page in progress and returns every laid-out page.
func (l *layout) finish() [][]drawCmd {
	if len(l.cur) > 0 {
		l.pages = append(l.pages, l.cur)
		l.cur = nil
	}
	return l.pages
}
