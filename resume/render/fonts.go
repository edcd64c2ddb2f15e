package render

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/sfnt"
)

const fontFamily = "DejaVu"

// ErrUnsupportedText is returned by RenderPDF when the document uses
// characters the embedded font has no glyph for.
var ErrUnsupportedText = errors.New("text contains characters the PDF font cannot render")

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontOblique []byte
)

// pdfFaces maps an fpdf style string to the face registered under it.
var pdfFaces = map[string][]byte{
	"":  fontRegular,
	"B": fontBold,
	"I": fontOblique,
}

var (
	parseFacesOnce sync.Once
	parsedFaces    map[string]*sfnt.Font
	parseFacesErr  error
)

func registerFonts(f *fpdf.Fpdf) {
	for _, style := range []string{"", "B", "I"} {
		f.AddUTF8FontFromBytes(fontFamily, style, pdfFaces[style])
	}
}

// faceStyle picks the registered face for a run. Bold wins over italic since
// no bold-italic face is embedded.
func faceStyle(style RunStyle) string {
	switch {
	case style.Bold:
		return "B"
	case style.Italic:
		return "I"
	default:
		return ""
	}
}

func loadFaces() (map[string]*sfnt.Font, error) {
	parseFacesOnce.Do(func() {
		parsedFaces = make(map[string]*sfnt.Font, len(pdfFaces))
		for style, data := range pdfFaces {
			face, err := sfnt.Parse(data)
			if err != nil {
				parseFacesErr = fmt.Errorf("parse font face %q: %w", style, err)
				return
			}
			parsedFaces[style] = face
		}
	})
	return parsedFaces, parseFacesErr
}

// checkGlyphs makes sure every rune drawn by blocks has a glyph in the face
// it is drawn with. Missing runes are listed once each, in order of first use.
func checkGlyphs(blocks []Block) error {
	faces, err := loadFaces()
	if err != nil {
		return err
	}
	var (
		buf     sfnt.Buffer
		missing []rune
		seen    = map[rune]bool{}
	)
	check := func(style RunStyle, text string) {
		face := faces[faceStyle(style)]
		for _, r := range text {
			if unicode.IsSpace(r) || seen[r] {
				continue
			}
			// Identity-H text is written as 2-byte codes.
			if r <= 0xFFFF {
				if idx, err := face.GlyphIndex(&buf, r); err == nil && idx != 0 {
					continue
				}
			}
			seen[r] = true
			missing = append(missing, r)
		}
	}
	for _, block := range blocks {
		style := styleFor(block.Kind)
		if block.Kind == BlockLabeled {
			bold := style
			bold.Bold = true
			check(bold, block.Label+": ")
		}
		check(style, block.Text)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrUnsupportedText, string(missing))
	}
	return nil
}
