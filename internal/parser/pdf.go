package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/awinkler/bgblwatch/internal/xmldec"
)

// ParsePDFBody extracts plain text from a PDF body variant and lifts it into
// the decoded-tree shape as untyped paragraphs. PDF text carries no type
// markers, so change extraction falls through to the numeric strategy.
// Oldest gazette publications expose only this format.
func ParsePDFBody(r io.Reader) (*xmldec.Node, error) {
	// ledongthuc/pdf requires a ReadSeeker plus size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "bgblwatch-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	root := xmldec.NewNode("abschnitt", "", "")
	for para := range strings.SplitSeq(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		root.Append(xmldec.NewNode(ParagraphElement, "", strings.Join(strings.Fields(para), " ")))
	}
	return root, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
