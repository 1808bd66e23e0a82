package loader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campushq/askuni/internal/models"
)

// readExcelRecords reads question/answer records from a spreadsheet. Every
// sheet is scanned; the first row is a header naming the columns (question,
// answer, keywords, categories, department, priority; only question and
// answer are required). Keywords and categories cells are comma-separated.
func readExcelRecords(path string) ([]*models.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var records []*models.Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) < 2 {
			continue
		}

		cols := headerColumns(rows[0])
		qCol, qOK := cols["question"]
		aCol, aOK := cols["answer"]
		if !qOK || !aOK {
			continue
		}

		for _, row := range rows[1:] {
			rec := &models.Record{
				Question: cell(row, qCol),
				Answer:   cell(row, aCol),
			}
			if c, ok := cols["keywords"]; ok {
				rec.Keywords = splitList(cell(row, c))
			}
			if c, ok := cols["categories"]; ok {
				rec.Categories = splitList(cell(row, c))
			}
			if c, ok := cols["department"]; ok {
				rec.Department = strings.TrimSpace(cell(row, c))
			}
			if c, ok := cols["priority"]; ok {
				rec.PriorityTag = strings.TrimSpace(cell(row, c))
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func headerColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
