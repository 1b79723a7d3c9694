package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfTextReader reads the native text layer page by page.
type pdfTextReader struct{}

func (pdfTextReader) PlainText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single malformed page should not lose the rest of
			// the document.
			continue
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n"), nil
}
