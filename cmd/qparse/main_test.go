package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questionnaire/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	t.Setenv("PARSER_RULES_FILE", "")
	survey := writeFile(t, "survey.txt", "Attitudes & Preferences\n1. Do you like tea?\nOptions: Yes, No, Maybe\n")

	t.Run("prints the tree", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		code := run([]string{survey}, &stdout, &stderr)

		require.Equal(t, exitOK, code, stderr.String())
		var doc model.ParsedDocument
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.Equal(t, model.FormatTXT, doc.FormatKind)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Attitudes & Preferences", doc.Sections[0].Title)
		assert.Equal(t, []model.Question{{Text: "Do you like tea?", Options: []string{"Yes", "No", "Maybe"}}}, doc.Sections[0].Questions)
	})

	t.Run("pretty output is indented", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		code := run([]string{"--pretty", survey}, &stdout, &stderr)

		require.Equal(t, exitOK, code)
		assert.Contains(t, stdout.String(), "\n  \"format_kind\": \"txt\"")
	})

	t.Run("name selects the format", func(t *testing.T) {
		rows := writeFile(t, "upload.bin", "question,options\nAge?,18-25;26-35\n")
		var stdout, stderr bytes.Buffer

		code := run([]string{"--name", "rows.csv", rows}, &stdout, &stderr)

		require.Equal(t, exitOK, code, stderr.String())
		var doc model.ParsedDocument
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
		assert.Equal(t, model.FormatCSV, doc.FormatKind)
		require.Len(t, doc.Sections, 1)
		assert.Equal(t, "Default", doc.Sections[0].Title)
	})

	t.Run("rules file", func(t *testing.T) {
		rules := writeFile(t, "rules.yaml", "section_headings:\n  - Screening\n")
		doc := writeFile(t, "screen.txt", "Screening\n1. Are you over 18?\nOptions: Yes, No\n")
		var stdout, stderr bytes.Buffer

		code := run([]string{"--rules", rules, doc}, &stdout, &stderr)

		require.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), `"title":"Screening"`)
	})

	t.Run("unsupported format", func(t *testing.T) {
		deck := writeFile(t, "deck.pptx", "x")
		var stdout, stderr bytes.Buffer

		code := run([]string{deck}, &stdout, &stderr)

		assert.Equal(t, exitParseFailed, code)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "unsupported format")
	})

	t.Run("missing path", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		code := run(nil, &stdout, &stderr)

		assert.Equal(t, exitUsage, code)
		assert.Contains(t, stderr.String(), "usage: qparse")
	})

	t.Run("bad rules file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		code := run([]string{"--rules", filepath.Join(t.TempDir(), "nope.yaml"), survey}, &stdout, &stderr)

		assert.Equal(t, exitUsage, code)
	})
}
