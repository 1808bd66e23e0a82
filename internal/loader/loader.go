// Package loader reads question/answer collections and instruction/response
// pairs from the dataset directory.
package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campushq/askuni/internal/models"
)

// LoadCollections reads every .json and .xlsx file in dir as a named record
// collection. Files are loaded in lexical order so that collision
// tie-breaking is deterministic. Malformed records are quarantined (logged
// and dropped) rather than propagated into scoring; an unreadable file
// skips that file only.
func LoadCollections(dir string, logger *zap.Logger) ([]models.Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".json" || ext == ".xlsx" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var collections []models.Collection
	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			records []*models.Record
			loadErr error
		)
		if strings.HasSuffix(strings.ToLower(name), ".xlsx") {
			records, loadErr = readExcelRecords(path)
		} else {
			records, loadErr = readJSONRecords(path)
		}
		if loadErr != nil {
			logger.Warn("skipping unreadable collection", zap.String("file", name), zap.Error(loadErr))
			continue
		}

		coll := models.Collection{
			SourceID: "dataset_" + name,
			Priority: collectionPriority(name),
		}
		quarantined := 0
		for _, rec := range records {
			if strings.TrimSpace(rec.Question) == "" || strings.TrimSpace(rec.Answer) == "" {
				quarantined++
				continue
			}
			if rec.PriorityTag != "" {
				if p := models.ParsePriority(rec.PriorityTag); p > rec.Priority {
					rec.Priority = p
				}
			}
			coll.Records = append(coll.Records, rec)
		}
		if quarantined > 0 {
			logger.Warn("quarantined malformed records",
				zap.String("file", name), zap.Int("count", quarantined))
		}
		logger.Info("loaded collection",
			zap.String("file", name),
			zap.Int("records", len(coll.Records)),
			zap.String("priority", coll.Priority.String()))
		collections = append(collections, coll)
	}
	return collections, nil
}

// collectionPriority derives a collection's priority from its filename:
// curated "critical" summaries outrank "improved" department files, which
// outrank everything else.
func collectionPriority(name string) models.Priority {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "critical"):
		return models.PriorityCritical
	case strings.Contains(lower, "improved"):
		return models.PriorityHigh
	default:
		return models.PriorityNormal
	}
}

func readJSONRecords(path string) ([]*models.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []*models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// LoadInstructionPairs reads the flat instruction/response collection. The
// file is JSON Lines (one object per line); a leading '[' is accepted as a
// plain JSON array for older exports. Blank lines and unparseable lines are
// skipped.
func LoadInstructionPairs(path string, logger *zap.Logger) ([]*models.InstructionPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instruction file: %w", err)
	}
	defer f.Close()

	source := "instruction_" + filepath.Base(path)
	reader := bufio.NewReader(f)
	first, err := reader.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("read instruction file: %w", err)
	}

	var pairs []*models.InstructionPair
	if first[0] == '[' {
		if err := json.NewDecoder(reader).Decode(&pairs); err != nil {
			return nil, fmt.Errorf("parse instruction array: %w", err)
		}
		for _, p := range pairs {
			p.Source = source
		}
		return pairs, nil
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	skipped := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		pair := &models.InstructionPair{Source: source}
		if err := json.Unmarshal([]byte(line), pair); err != nil {
			skipped++
			continue
		}
		pairs = append(pairs, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan instruction file: %w", err)
	}
	if skipped > 0 {
		logger.Warn("skipped unparseable instruction lines",
			zap.String("file", filepath.Base(path)), zap.Int("count", skipped))
	}
	return pairs, nil
}
