// Package cli provides CLI utilities for AskUni.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/campushq/askuni/internal/models"
	"github.com/campushq/askuni/pkg/utils"
)

// OutputFormat is the format for CLI result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteQueryResult writes a query response to w in the given format.
func WriteQueryResult(w io.Writer, resp *models.QueryResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	default:
		writeQueryResultText(w, resp)
		return nil
	}
}

func writeQueryResultText(w io.Writer, resp *models.QueryResponse) {
	if resp.Answer == "" {
		fmt.Fprintln(w, "No confident answer found.")
	} else {
		fmt.Fprintf(w, "%s\n", resp.Answer)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "method: %s", resp.Method)
	if resp.Generated {
		fmt.Fprintf(w, " (generated)")
	} else if resp.Score > 0 {
		fmt.Fprintf(w, " | score: %.3f", resp.Score)
	}
	fmt.Fprintln(w)
	if resp.Department != "" {
		fmt.Fprintf(w, "department: %s\n", resp.Department)
	}
	if len(resp.Categories) > 0 {
		fmt.Fprintf(w, "categories: %s\n", strings.Join(resp.Categories, ", "))
	}
	if resp.Source != "" {
		fmt.Fprintf(w, "source: %s\n", resp.Source)
	}
	if len(resp.References) > 0 {
		fmt.Fprintln(w, "\nRelated questions:")
		for _, ref := range resp.References {
			fmt.Fprintf(w, "  %d. %s (%.3f)\n", ref.Rank, utils.Truncate(ref.Question, 80), ref.Confidence)
		}
	}
}

// WriteStats writes learning and corpus stats to w in the given format.
func WriteStats(w io.Writer, stats map[string]interface{}, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	for _, key := range []string{"records", "instruction_pairs"} {
		if v, ok := stats[key]; ok {
			fmt.Fprintf(w, "%-18s %v\n", key+":", v)
		}
	}
	if fb, ok := stats["feedback"].(map[string]interface{}); ok {
		fmt.Fprintln(w, "\n# feedback")
		for _, key := range []string{"total", "accepted", "rejected"} {
			if v, ok := fb[key]; ok {
				fmt.Fprintf(w, "%-18s %v\n", key+":", v)
			}
		}
	}
	return nil
}
