package wordlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

func loadCSV(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return pairsFromRows(rows), nil
}

func loadXLSX(path string) ([]Pair, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return pairsFromRows(rows), nil
}

// pairsFromRows takes the first two cells of every row. A leading header
// row naming the columns is skipped.
func pairsFromRows(rows [][]string) []Pair {
	pairs := make([]Pair, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		term := strings.TrimSpace(row[0])
		translation := strings.TrimSpace(row[1])
		if term == "" || translation == "" {
			continue
		}
		if i == 0 && isHeader(term, translation) {
			continue
		}
		pairs = append(pairs, Pair{Term: term, Translation: translation})
	}
	return pairs
}

func isHeader(term, translation string) bool {
	switch strings.ToLower(term) {
	case "term", "word":
	default:
		return false
	}
	return strings.EqualFold(translation, "translation")
}
