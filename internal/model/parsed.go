package model

// FormatKind identifies the source format a ParsedDocument was built from.
type FormatKind string

const (
	FormatPDF  FormatKind = "pdf"
	FormatDOCX FormatKind = "docx"
	FormatTXT  FormatKind = "txt"
	FormatCSV  FormatKind = "csv"
	FormatXLSX FormatKind = "xlsx"
)

// Tabular reports whether documents of this kind are read as rows rather than text.
func (k FormatKind) Tabular() bool {
	return k == FormatCSV || k == FormatXLSX
}

// ParsedDocument is the uniform output of a parse call, independent of the source format.
type ParsedDocument struct {
	FormatKind FormatKind `json:"format_kind"`
	Sections   []Section  `json:"sections"`
}

// Section is a labeled group of questions.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question is a single research question with its answer options, if any.
// Options is never nil so that it renders as an empty list.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Row is one record of a tabular source, keyed by column name.
// Values are strings for CSV/XLSX cells; callers building rows by hand may
// also pass []string for the options column.
type Row map[string]any
