package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// DOCX reads the body text of a Word document from word/document.xml.
// Paragraphs, table rows and explicit breaks become newlines; tabs and table
// cells become spaces.
type DOCX struct{}

// NewDOCX returns a DOCX text extractor.
func NewDOCX() *DOCX { return &DOCX{} }

// ExtractText returns the document body as text.
func (d *DOCX) ExtractText(ctx context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer r.Close()

	var body *zip.File
	for _, f := range r.File {
		if strings.EqualFold(f.Name, docxBody) {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%s not found in archive", docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBody, err)
	}
	defer rc.Close()

	return docxText(ctx, rc)
}

func docxText(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t", "instrText":
				inText = true
			case "tab":
				sb.WriteByte(' ')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t", "instrText":
				inText = false
			case "p", "tr":
				sb.WriteByte('\n')
			case "tc":
				sb.WriteByte(' ')
			}
		}
	}
	return sb.String(), nil
}
