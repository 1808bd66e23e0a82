// Package e2e exercises the full pipeline from dataset files on disk
// through retrieval, feedback, and the HTTP API.
package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/campushq/askuni/internal/models"
)

// WriteDataset writes a small but representative dataset into dir: a
// general JSON collection, a curated critical fee summary, a department
// spreadsheet, and a JSON Lines instruction file. Returns the instruction
// file path.
func WriteDataset(dir string) (string, error) {
	general := []*models.Record{
		{
			Question:   "Where is the central library located?",
			Answer:     "The central library is in Building A, ground floor.",
			Categories: []string{"facilities"},
			QuestionVariations: []string{
				"how do i find the library",
				"library location",
			},
		},
		{
			Question:   "What documents are required for admission?",
			Answer:     "You need your SSC and HSC transcripts and two passport photos.",
			Categories: []string{"admission"},
		},
		{
			Question:   "Does the campus have wifi?",
			Answer:     "Yes, free wifi covers all academic buildings and the hostel.",
			Categories: []string{"facilities"},
		},
	}
	if err := writeJSON(filepath.Join(dir, "general.json"), general); err != nil {
		return "", err
	}

	fees := []*models.Record{
		{
			Question:   "What is the CSE semester fee?",
			Answer:     "The CSE semester fee is 70000 BDT.",
			Department: "cse",
			Categories: []string{"fees"},
		},
		{
			Question:   "What is the BBA semester fee?",
			Answer:     "The BBA semester fee is 60000 BDT.",
			Department: "bba",
			Categories: []string{"fees"},
		},
	}
	if err := writeJSON(filepath.Join(dir, "critical_fees.json"), fees); err != nil {
		return "", err
	}

	if err := writeDepartmentSheet(filepath.Join(dir, "departments.xlsx")); err != nil {
		return "", err
	}

	instructions := []*models.InstructionPair{
		{
			Instruction: "Tell me about the student clubs on campus",
			Response:    "There are more than twenty student clubs, including programming, debate, and photography.",
		},
		{
			Instruction: "How do I contact the admission office",
			Response:    "Call the admission office at 16789 or email admission@example.edu.",
		},
	}
	path := filepath.Join(dir, "instructions.jsonl")
	if err := writeJSONLines(path, instructions); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, records []*models.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeJSONLines(path string, pairs []*models.InstructionPair) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, p := range pairs {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

func writeDepartmentSheet(path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Question", "Answer", "Keywords", "Department"},
		{
			"What courses does the EEE department offer?",
			"EEE offers circuits, power systems, and electronics courses.",
			"course, eee",
			"eee",
		},
		{
			"Who is the head of the CSE department?",
			"Dr. Rahman chairs the CSE department.",
			"cse, faculty",
			"cse",
		},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// AppendRecord appends one record to a JSON collection file, creating the
// file when missing. It is used to simulate a dataset edit.
func AppendRecord(path string, rec *models.Record) error {
	var records []*models.Record
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &records); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}
	records = append(records, rec)
	return writeJSON(path, records)
}
