package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"questionnaire/internal/model"
)

// CSV reads delimited files whose first non-blank record is the header.
type CSV struct {
	// Comma is the field delimiter. Zero sniffs it from the header line, choosing
	// among ',', ';' and tab and falling back to ','.
	Comma rune
}

// sniffWindow bounds how much of the file is inspected for the header line.
const sniffWindow = 64 << 10

// NewCSV returns a CSV row extractor.
func NewCSV() *CSV { return &CSV{} }

// ExtractRows returns one row per data record.
func (c *CSV) ExtractRows(ctx context.Context, path string) ([]model.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(decodeReader(f), sniffWindow)
	r := csv.NewReader(br)
	r.Comma = c.Comma
	if r.Comma == 0 {
		// Peek reports EOF for files shorter than the window; the bytes are still valid.
		sample, _ := br.Peek(sniffWindow)
		r.Comma = sniffDelimiter(sample)
	}
	r.LazyQuotes = true
	// with tab-separated fields the trim would swallow empty cells
	r.TrimLeadingSpace = r.Comma != '\t'
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		records = append(records, rec)
	}
	return rowsFromRecords(records), nil
}

// sniffDelimiter counts the candidate delimiters outside double quotes on the
// first non-blank line of sample and returns the most frequent one.
func sniffDelimiter(sample []byte) rune {
	for len(sample) > 0 {
		line := sample
		if i := bytes.IndexByte(sample, '\n'); i >= 0 {
			line, sample = sample[:i], sample[i+1:]
		} else {
			sample = nil
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		counts := map[byte]int{}
		quoted := false
		for _, b := range line {
			switch b {
			case '"':
				quoted = !quoted
			case ',', ';', '\t':
				if !quoted {
					counts[b]++
				}
			}
		}
		best := byte(',')
		for _, d := range []byte{';', '\t'} {
			if counts[d] > counts[best] {
				best = d
			}
		}
		return rune(best)
	}
	return ','
}
