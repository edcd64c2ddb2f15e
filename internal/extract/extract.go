package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/unicode"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxFileBytes is the upload limit for résumé files.
	MaxFileBytes = 4 << 20
)

// Errors surfaced verbatim to clients.
var (
	ErrFileTooLarge    = errors.New("File size must be less than 4MB.")
	ErrUnsupportedType = errors.New("Unsupported file type. Please upload a PDF or DOCX file.")
	ErrParseFailed     = errors.New("Failed to parse the file. Please try uploading a different file or paste the text instead.")
)

// Result is the outcome of a successful extraction.
type Result struct {
	Text     string
	FileName string
	MimeType string
}

// ExtractFile reads a whole upload from r and extracts its text. size is the
// declared size; -1 when unknown.
func ExtractFile(ctx context.Context, r io.Reader, size int64, mimeType, fileName string) (Result, error) {
	if size > MaxFileBytes {
		return Result{}, ErrFileTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("read upload %s: %w: %v", fileName, ErrParseFailed, err)
	}
	if len(data) > MaxFileBytes {
		return Result{}, ErrFileTooLarge
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	text, err := ExtractTextFromBytes(ctx, data, normalized, fileName)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, FileName: fileName, MimeType: normalized}, nil
}

// ExtractTextFromBytes extracts text from an in-memory payload. Failures other
// than ErrUnsupportedType and ErrFileTooLarge are reported as ErrParseFailed.
func ExtractTextFromBytes(ctx context.Context, data []byte, mimeType string, fileName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) > MaxFileBytes {
		return "", ErrFileTooLarge
	}
	normalized := normalizeMimeType(mimeType, fileName, data)
	var (
		text string
		err  error
	)
	switch normalized {
	case MimePDF:
		text, err = extractPDF(data)
	case MimeDOCX:
		text, err = extractDOCX(data)
	default:
		return "", ErrUnsupportedType
	}
	if err != nil {
		return "", fmt.Errorf("extract %s (%s): %w: %v", fileName, normalized, ErrParseFailed, err)
	}
	return strings.TrimSpace(text), nil
}

// MimeFromFileName guesses a supported MIME type from an extension, for
// callers without a declared content type.
func MimeFromFileName(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimePDF
	case ".docx":
		return MimeDOCX
	default:
		return "application/octet-stream"
	}
}

func extractPDF(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	decoders := make(map[string]func(string) string)
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := decoders[name]; !ok {
				decoders[name] = fontDecoder(page.Font(name))
			}
		}
		writePageText(&buf, page, decoders)
	}
	return buf.String(), nil
}

// writePageText walks the page content stream and writes shown strings,
// starting each text object on a new line.
func writePageText(buf *strings.Builder, page pdf.Page, decoders map[string]func(string) string) {
	decode := func(raw string) string { return raw }
	pdf.Interpret(page.V.Key("Contents"), func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "BT", "T*":
			buf.WriteString("\n")
		case "Tf":
			if n != 2 {
				panic("bad Tf operator")
			}
			if dec, ok := decoders[args[0].Name()]; ok {
				decode = dec
			} else {
				decode = func(raw string) string { return raw }
			}
		case "Tj", "'", "\"":
			if n == 0 {
				panic("bad " + op + " operator")
			}
			buf.WriteString(decode(args[n-1].RawString()))
		case "TJ":
			if n != 1 {
				panic("bad TJ operator")
			}
			for i := 0; i < args[0].Len(); i++ {
				if x := args[0].Index(i); x.Kind() == pdf.String {
					buf.WriteString(decode(x.RawString()))
				}
			}
		}
	})
}

// fontDecoder returns the text decoder for a page font. Identity-H fonts whose
// ToUnicode map is the single identity range carry Unicode code units as
// their codes, which the reader's range arithmetic only gets right below
// U+0100, so they are decoded as UTF-16BE directly.
func fontDecoder(font pdf.Font) func(string) string {
	if font.V.Key("Encoding").Name() == "Identity-H" && identityToUnicode(font.V.Key("ToUnicode")) {
		return decodeUTF16BE
	}
	return font.Encoder().Decode
}

func identityToUnicode(cmap pdf.Value) bool {
	if cmap.Kind() != pdf.Stream {
		return false
	}
	rc := cmap.Reader()
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, 64<<10))
	if err != nil {
		return false
	}
	body := strings.Join(strings.Fields(string(raw)), " ")
	return strings.Contains(body, "1 beginbfrange <0000> <FFFF> <0000> endbfrange") &&
		!strings.Contains(body, "beginbfchar")
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func decodeUTF16BE(raw string) string {
	text, err := utf16BE.NewDecoder().String(raw)
	if err != nil {
		return raw
	}
	return text
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if normalizeZipName(f.Name) == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, 8*MaxFileBytes))
	if err != nil {
		return "", err
	}
	return stripDocxXML(raw)
}

// stripDocxXML keeps character data of w:t runs, turning paragraph ends and
// breaks into newlines and tabs into tab characters.
func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p", "br":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return buf.String(), nil
}

func normalizeZipName(name string) string {
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "application/zip", "application/x-zip-compressed":
		if isDocxZip(data) {
			return MimeDOCX
		}
		return clean
	case "", "application/octet-stream":
		return MimeFromFileName(fileName)
	default:
		return clean
	}
}

func isDocxZip(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if normalizeZipName(f.Name) == "word/document.xml" {
			return true
		}
	}
	return false
}
