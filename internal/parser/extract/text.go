// Package extract reads supported document formats from disk, either as raw text
// (PDF, DOCX, TXT) or as row records keyed by header (CSV, XLSX, XLS).
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Text reads plain text files. UTF-8 and BOM-marked UTF-16 are decoded; invalid
// byte sequences are replaced rather than rejected.
type Text struct{}

// NewText returns a plain text extractor.
func NewText() *Text { return &Text{} }

// ExtractText returns the decoded content of the file at path.
func (t *Text) ExtractText(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(decodeReader(f))
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// decodeReader strips a UTF-8 BOM and transcodes UTF-16 input announced by a BOM.
func decodeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
