package textinput

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPDFText is returned when a PDF has no extractable text layer,
// typically a scanned statement.
var ErrNoPDFText = errors.New("no text could be extracted from PDF")

// ExtractPDF returns the text of each page of a PDF, one line per text row.
// Rows are rebuilt from the words the library groups by Y coordinate; pages
// where that fails fall back to the page's plain text.
func ExtractPDF(path string) (pages []string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("PDF reader crashed on %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrNoPDFText, path)
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text := pageRows(page)
		if text == "" {
			text = pagePlainText(page)
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		text, plainErr := readAllPlain(r)
		if plainErr != nil || strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoPDFText, path)
		}
		pages = []string{strings.TrimSpace(text)}
	}

	return pages, nil
}

func pageRows(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
	}

	var lines []string
	for _, row := range rows {
		parts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func pagePlainText(page pdf.Page) string {
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// readAllPlain dumps the text of the whole document.
func readAllPlain(r *pdf.Reader) (string, error) {
	rd, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
