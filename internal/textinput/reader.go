// =============================================================================
// Lançamentos Consolidator - Text Input
// =============================================================================
//
// This module turns an input source into the raw lines the reconstructor
// consumes.
//
// SOURCES:
//   - Plain text files and stdin, decoded from the configured encoding
//   - PDF files (".pdf"), whose text layer is extracted row by row
//
// NORMALISATION:
//   Text is converted to Unicode NFC so that accented keywords such as
//   "INDENIZAÇÃO" match whether the source used precomposed or combining
//   characters. Surrounding whitespace of the whole block is trimmed before
//   splitting into lines.
//
// =============================================================================

package textinput

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedEncoding is returned for encodings with no known decoder.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// StdinName is the source name used for standard input.
const StdinName = "-"

// =============================================================================
// DECODING
// =============================================================================

// lookupEncoding returns the decoder for an encoding name.
//
// CUSTOMIZATION: Add new encodings here.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return unicode.UTF8BOM, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	case "ISO-8859-15", "LATIN9", "LATIN-9":
		return charmap.ISO8859_15, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "CP850", "IBM850":
		return charmap.CodePage850, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
}

// ValidateEncoding reports whether name is a supported encoding.
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}

// Read decodes everything from r and returns it as NFC-normalised UTF-8.
func Read(r io.Reader, encodingName string) (string, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", err
	}

	decoded := transform.NewReader(bufio.NewReader(r), enc.NewDecoder())
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode input: %w", err)
	}

	return norm.NFC.String(string(data)), nil
}

// ReadSource reads one input source. "-" is stdin; a ".pdf" path goes
// through the PDF extractor; any other path is read as text.
func ReadSource(path, encodingName string, stdin io.Reader) (string, error) {
	if path == StdinName {
		return Read(stdin, encodingName)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err := ExtractPDF(path)
		if err != nil {
			return "", err
		}
		return norm.NFC.String(strings.Join(pages, "\n")), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open input: %w", err)
	}
	defer file.Close()

	return Read(file, encodingName)
}

// =============================================================================
// LINE SPLITTING
// =============================================================================

// IsBlank reports whether text holds nothing but whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Lines trims text and splits it into lines. Every Unicode line boundary is
// a separator ("\r\n" counts once); empty lines in the middle are kept.
// Blank text has no lines.
func Lines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var (
		lines []string
		start int
	)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}

		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}

	return append(lines, text[start:])
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
