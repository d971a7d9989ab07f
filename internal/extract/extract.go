// Package extract normalizes uploaded study material into plain text.
// The true file type is sniffed from magic bytes before any declared MIME
// type or extension is trusted.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText turns raw document bytes into best-effort plain text.
// Supported sources: PDF, DOCX, PPTX and plain text. Callers that can
// tolerate unreadable input should degrade the returned error to empty text.
func ExtractText(filename, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file: %s", filename)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isZip(data) {
		kind, err := detectOpenXMLKind(data)
		if err != nil {
			return "", fmt.Errorf("detect openxml kind of %s: %w", filename, err)
		}
		switch kind {
		case "docx":
			return extractOpenXML(data, isDocxPart)
		case "pptx":
			return extractOpenXML(data, isSlidePart)
		default:
			return "", fmt.Errorf("unsupported zip container: %s", filename)
		}
	}
	if isProbablyText(data) {
		return collapseWhitespace(string(data)), nil
	}

	ext := strings.ToLower(filepath.Ext(filename))
	return "", fmt.Errorf("unsupported file type: name=%s ext=%s mime=%s", filename, ext, mimeType)
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func isProbablyText(b []byte) bool {
	sample := b
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	printable := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			printable++
		}
	}
	return float64(printable)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

// detectOpenXMLKind tells DOCX from PPTX by the zip parts present.
func detectOpenXMLKind(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return "docx", nil
		}
		if strings.HasPrefix(f.Name, "ppt/") {
			return "pptx", nil
		}
	}
	return "", fmt.Errorf("zip does not look like docx or pptx")
}

func isDocxPart(name string) bool {
	return name == "word/document.xml"
}

func isSlidePart(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/") && strings.HasSuffix(name, ".xml")
}

// extractOpenXML gathers the text runs (<w:t> in DOCX, <a:t> in PPTX) of
// every matching zip part.
func extractOpenXML(zipBytes []byte, wantPart func(string) bool) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, f := range zr.File {
		if !wantPart(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		b, readErr := io.ReadAll(rc)
		rc.Close()
		if readErr != nil {
			return "", readErr
		}
		out.WriteString(textRuns(b))
		out.WriteString("\n")
	}
	s := collapseWhitespace(out.String())
	if s == "" {
		return "", fmt.Errorf("no text extracted from openxml document")
	}
	return s, nil
}

// textRuns collects the character data of every <t> element regardless of
// namespace prefix.
func textRuns(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}
