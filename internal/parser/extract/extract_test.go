package extract

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/extrame/xls"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"questionnaire/internal/model"
)

func tempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestText_ExtractText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf8", []byte("1. Hello?"), "1. Hello?"},
		{"utf8 bom", []byte("\xef\xbb\xbf1. Hello?"), "1. Hello?"},
		{"utf16le bom", []byte{0xff, 0xfe, 'H', 0, 'i', 0, '?', 0}, "Hi?"},
		{"utf16be bom", []byte{0xfe, 0xff, 0, 'H', 0, 'i'}, "Hi"},
		{"invalid bytes", []byte("a\xffb"), "a\uFFFDb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempFile(t, "in.txt", tt.data)
			got, err := NewText().ExtractText(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText_ExtractText_MissingFile(t *testing.T) {
	_, err := NewText().ExtractText(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func TestDOCX_ExtractText(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + wordNS + `><w:body>` +
		`<w:p><w:r><w:t>Attitudes &amp; </w:t></w:r><w:r><w:t>Preferences</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>1. Tea</w:t><w:tab/><w:t>or coffee?</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>A</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>B</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>line</w:t><w:br/><w:t>break</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	path := writeZip(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   body,
	})

	got, err := NewDOCX().ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Attitudes & Preferences\n1. Tea or coffee?\nA\n B\n \nline\nbreak\n", got)
}

func TestDOCX_ExtractText_Errors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		path := tempFile(t, "bad.docx", []byte("plain text"))
		_, err := NewDOCX().ExtractText(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("no document part", func(t *testing.T) {
		path := writeZip(t, map[string]string{"word/styles.xml": "<styles/>"})
		_, err := NewDOCX().ExtractText(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "word/document.xml not found")
	})

	t.Run("malformed xml", func(t *testing.T) {
		path := writeZip(t, map[string]string{"word/document.xml": "<w:document " + wordNS + "><w:body>"})
		_, err := NewDOCX().ExtractText(context.Background(), path)
		assert.Error(t, err)
	})
}

func TestRowsFromRecords(t *testing.T) {
	records := [][]string{
		{"", " "},
		{" section ", "question", "", "question", "options"},
		{"Intro", "Age?", "ignored", "dup", "18-25,26-35"},
		{"", "", "", "", ""},
		{"Intro", "Gender?"},
	}

	got := rowsFromRecords(records)
	assert.Equal(t, []model.Row{
		{"section": "Intro", "question": "Age?", "options": "18-25,26-35"},
		{"section": "Intro", "question": "Gender?", "options": ""},
	}, got)
}

func TestRowsFromRecords_Empty(t *testing.T) {
	assert.Equal(t, []model.Row{}, rowsFromRecords(nil))
	assert.Equal(t, []model.Row{}, rowsFromRecords([][]string{{""}, {" "}}))
	assert.Equal(t, []model.Row{}, rowsFromRecords([][]string{{"section", "question"}}))
}

func TestCSV_ExtractRows(t *testing.T) {
	data := "\xef\xbb\xbfSection,Question,Options\n" +
		"Intro,\"Age, in years?\",\"18-25;26-35\"\n" +
		"Intro,Short row?\n"
	path := tempFile(t, "q.csv", []byte(data))

	rows, err := NewCSV().ExtractRows(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []model.Row{
		{"Section": "Intro", "Question": "Age, in years?", "Options": "18-25;26-35"},
		{"Section": "Intro", "Question": "Short row?", "Options": ""},
	}, rows)
}

func TestCSV_ExtractRows_Delimiter(t *testing.T) {
	path := tempFile(t, "q.csv", []byte("question;options\nWhy?;a|b\n"))

	rows, err := (&CSV{Comma: ';'}).ExtractRows(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []model.Row{{"question": "Why?", "options": "a|b"}}, rows)
}

func TestCSV_ExtractRows_SniffedDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []model.Row
	}{
		{
			name: "semicolon",
			data: "question;options\nWhy?;a,b\n",
			want: []model.Row{{"question": "Why?", "options": "a,b"}},
		},
		{
			name: "tab keeps empty cells",
			data: "\nsection\tquestion\toptions\n\tWhy?\tYes|No\n",
			want: []model.Row{{"section": "", "question": "Why?", "options": "Yes|No"}},
		},
		{
			name: "quoted delimiters are not counted",
			data: "\"a;b;c\",question\nx,Why?\n",
			want: []model.Row{{"a;b;c": "x", "question": "Why?"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tempFile(t, "q.csv", []byte(tt.data))
			rows, err := NewCSV().ExtractRows(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestSniffDelimiter(t *testing.T) {
	assert.Equal(t, ',', sniffDelimiter([]byte("a,b;c\n")))
	assert.Equal(t, ';', sniffDelimiter([]byte("  \na;b;c,d\n")))
	assert.Equal(t, '\t', sniffDelimiter([]byte("a\tb")))
	assert.Equal(t, ',', sniffDelimiter([]byte("single")))
	assert.Equal(t, ',', sniffDelimiter(nil))
}

func TestCSV_ExtractRows_Cancelled(t *testing.T) {
	path := tempFile(t, "q.csv", []byte("question\nWhy?\n"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSV().ExtractRows(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestXLSX_ExtractRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "section", "B1": "question", "C1": "options",
		"A2": "Usage", "B2": "How often?", "C2": "Daily|Weekly",
		"B3": "Why?",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := NewXLSX().ExtractRows(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []model.Row{
		{"section": "Usage", "question": "How often?", "options": "Daily|Weekly"},
		{"section": "", "question": "Why?", "options": ""},
	}, rows)
}

func TestXLSX_ExtractRows_NotAWorkbook(t *testing.T) {
	path := tempFile(t, "book.xlsx", []byte("not a workbook"))
	_, err := NewXLSX().ExtractRows(context.Background(), path)
	assert.Error(t, err)
}

func TestXLS_ExtractRows(t *testing.T) {
	rows, err := NewXLS().ExtractRows(context.Background(), filepath.Join("testdata", "table.xls"))
	require.NoError(t, err)
	assert.Len(t, rows, 11)
	assert.Contains(t, rows, model.Row{"Code": "code1", "Name": "name1", "Description": "description1"})
}

func TestXLS_ExtractRows_NotAWorkbook(t *testing.T) {
	path := tempFile(t, "book.xls", []byte("not a workbook"))
	_, err := NewXLS().ExtractRows(context.Background(), path)
	assert.Error(t, err)
}

func TestXLS_ExtractRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewXLS().ExtractRows(ctx, filepath.Join("testdata", "table.xls"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSheetRow_MissingRow(t *testing.T) {
	assert.Nil(t, sheetRow(&xls.WorkSheet{}, 3))
}

const teaPDFText = "Attitudes & Preferences 1. Do you like tea? Options: Yes, No"

func TestPDF_ExtractText(t *testing.T) {
	got, err := NewPDF().ExtractText(context.Background(), filepath.Join("testdata", "tea.pdf"))
	require.NoError(t, err)
	assert.Contains(t, got, teaPDFText)
}

func TestReadContentStreams(t *testing.T) {
	got, err := readContentStreams(context.Background(), filepath.Join("testdata", "tea.pdf"))
	require.NoError(t, err)
	assert.Contains(t, got, teaPDFText)
}

func TestFallbackText(t *testing.T) {
	primary := errors.New("malformed xref")

	got, err := fallbackText(primary, " page text \n", nil)
	require.NoError(t, err)
	assert.Equal(t, " page text \n", got)

	_, err = fallbackText(primary, " \n \n", nil)
	require.ErrorIs(t, err, primary)
	assert.Contains(t, err.Error(), "found no text")

	_, err = fallbackText(primary, "", errors.New("pdfcpu: bad header"))
	require.ErrorIs(t, err, primary)
	assert.Contains(t, err.Error(), "bad header")
}

func TestPDF_ExtractText_NotAPDF(t *testing.T) {
	path := tempFile(t, "doc.pdf", []byte("this is not a pdf"))
	_, err := NewPDF().ExtractText(context.Background(), path)
	assert.Error(t, err)
}

func TestTextFromContentStream(t *testing.T) {
	stream := strings.Join([]string{
		"BT",
		"/F1 12 Tf",
		"72 712 Td",
		"(Attitudes & Preferences) Tj",
		"0 -14 Td",
		"[(1. Do you ) -250 (like tea?)] TJ",
		"ET",
	}, "\n")

	assert.Equal(t, " Attitudes & Preferences 1. Do you like tea? ", textFromContentStream([]byte(stream)))
}

func TestTextFromContentStream_Layouts(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "operators on one line",
			stream: "BT /F1 12 Tf 72 712 Td (" + teaPDFText + ") Tj ET",
			want:   " " + teaPDFText + " ",
		},
		{
			name:   "nested parentheses and escapes",
			stream: `BT (Age (years)\) 1. Why?) Tj ET`,
			want:   "Age (years)) 1. Why? ",
		},
		{
			name:   "hex string",
			stream: "BT <54656120> Tj <4F6B3> Tj ET",
			want:   "Tea Ok0 ",
		},
		{
			name:   "quote operators start a new line",
			stream: "BT (Yes) Tj (No) ' 1 2 (Maybe) \" ET",
			want:   "Yes No Maybe ",
		},
		{
			name:   "strings without a showing operator are dropped",
			stream: "/Span << /ActualText (hidden) >> BDC EMC BT (shown) Tj ET",
			want:   "shown ",
		},
		{
			name:   "inline image data is skipped",
			stream: "q BI /W 1 /H 1 ID \x00(junk)) EI Q BT (after) Tj ET % comment (ignored) Tj",
			want:   "after ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textFromContentStream([]byte(tt.stream)))
		})
	}
}

func TestUnescapePDFString(t *testing.T) {
	assert.Equal(t, `Hello (world) A `, unescapePDFString([]byte(`Hello \(world\) \101\n`)))
	assert.Equal(t, `back\slash`, unescapePDFString([]byte(`back\\slash`)))
	assert.Equal(t, "trailing\\", unescapePDFString([]byte(`trailing\`)))
}
