package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDF extracts page text with ledongthuc/pdf. Documents that library cannot open are
// retried through pdfcpu's content stream reader. Scanned pages without a text layer
// simply contribute nothing.
type PDF struct{}

// NewPDF returns a PDF text extractor.
func NewPDF() *PDF { return &PDF{} }

// ExtractText returns the text of every page, one page per line group.
func (p *PDF) ExtractText(ctx context.Context, path string) (string, error) {
	text, err := readPlainText(ctx, path)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "", err
	}

	fallback, ferr := readContentStreams(ctx, path)
	return fallbackText(err, fallback, ferr)
}

// fallbackText keeps the primary error unless the fallback recovered some text.
func fallbackText(primary error, text string, ferr error) (string, error) {
	if ferr != nil {
		return "", fmt.Errorf("%w (pdfcpu fallback: %v)", primary, ferr)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w (pdfcpu fallback found no text)", primary)
	}
	return text, nil
}

func readPlainText(ctx context.Context, path string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// a single unreadable page does not fail the document
			continue
		}
		sb.WriteString(content)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func readContentStreams(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		sb.WriteString(textFromContentStream(data))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// textFromContentStream collects the string operands of text-showing operators
// (Tj, TJ, ' and "). Positioning operators become spaces so adjacent runs do
// not fuse. Operators may share a line or span several.
func textFromContentStream(data []byte) string {
	var (
		sb       strings.Builder
		operands []string
	)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isPDFSpace(c), c == '[', c == ']', c == '{', c == '}':
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			raw, n := scanLiteral(data[i:])
			operands = append(operands, unescapePDFString(raw))
			i += n
		case c == '<' && i+1 < len(data) && data[i+1] == '<', c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			text, n := scanHexString(data[i:])
			operands = append(operands, text)
			i += n
		case c == '/':
			i++
			i += scanRegular(data[i:])
		default:
			n := scanRegular(data[i:])
			if n == 0 {
				// stray delimiter such as a lone '>' or ')'
				i++
				continue
			}
			tok := string(data[i : i+n])
			i += n
			if isPDFNumber(tok) {
				continue
			}
			switch tok {
			case "Tj", "TJ":
				for _, o := range operands {
					sb.WriteString(o)
				}
			case "'", `"`:
				sb.WriteByte(' ')
				for _, o := range operands {
					sb.WriteString(o)
				}
			case "Td", "TD", "T*", "ET":
				sb.WriteByte(' ')
			case "ID":
				i += skipInlineImage(data[i:])
			}
			operands = operands[:0]
		}
	}
	return sb.String()
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanRegular returns the length of the run of regular characters at the start of b.
func scanRegular(b []byte) int {
	n := 0
	for n < len(b) && !isPDFSpace(b[n]) && !isPDFDelimiter(b[n]) {
		n++
	}
	return n
}

func isPDFNumber(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}

// scanLiteral returns the body of the literal string starting at b[0] == '('
// and the number of bytes consumed. Balanced parentheses nest.
func scanLiteral(b []byte) ([]byte, int) {
	depth := 0
	for i := 0; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return b[1:i], i + 1
			}
		}
	}
	return b[1:], len(b)
}

// scanHexString decodes <...> starting at b[0] == '<'. An odd final digit is
// padded with zero.
func scanHexString(b []byte) (string, int) {
	end := bytes.IndexByte(b, '>')
	if end < 0 {
		end = len(b)
	}
	digits := make([]byte, 0, end)
	for _, c := range b[1:end] {
		if _, ok := hexValue(c); ok {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		hi, _ := hexValue(digits[i])
		lo, _ := hexValue(digits[i+1])
		out = append(out, hi<<4|lo)
	}
	n := end + 1
	if n > len(b) {
		n = len(b)
	}
	return string(out), n
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// skipInlineImage skips binary image data up to and including the EI operator.
func skipInlineImage(b []byte) int {
	for i := 0; i+2 <= len(b); i++ {
		if b[i] == 'E' && b[i+1] == 'I' && (i == 0 || isPDFSpace(b[i-1])) &&
			(i+2 == len(b) || isPDFSpace(b[i+2])) {
			return i + 2
		}
	}
	return len(b)
}

func unescapePDFString(b []byte) string {
	var sb strings.Builder
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 == len(b) {
			sb.WriteByte(b[i])
			continue
		}
		i++
		switch b[i] {
		case 'n', 'r':
			sb.WriteByte(' ')
		case 't':
			sb.WriteByte('\t')
		case '(', ')', '\\':
			sb.WriteByte(b[i])
		default:
			if b[i] >= '0' && b[i] <= '7' {
				v, n := 0, 0
				for n < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
					v = v*8 + int(b[i]-'0')
					i++
					n++
				}
				i--
				sb.WriteByte(byte(v))
				continue
			}
			sb.WriteByte(b[i])
		}
	}
	return sb.String()
}
