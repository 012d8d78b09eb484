package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chaintrail/chaintrail/client"
)

func formatJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encode json: %v\n", err)
		os.Exit(1)
	}
}

func formatTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, cell)
		}
		fmt.Println(strings.Join(parts, "  "))
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}
}

func formatQuiet(id string) {
	fmt.Println(id)
}

func output(v any, quietVal string) {
	switch flagFmt {
	case "quiet":
		formatQuiet(quietVal)
	case "table":
		// Table requires caller to use formatTable directly.
		// Fallback to JSON for generic output.
		formatJSON(v)
	default:
		formatJSON(v)
	}
}

func printEntryTable(entries []client.AuditEntry) {
	headers := []string{"ID", "TIMESTAMP", "ACTION", "ACTOR", "RESOURCE", "OK"}
	var rows [][]string
	for _, e := range entries {
		ok := "yes"
		if !e.Outcome {
			ok = "no"
		}
		rows = append(rows, []string{
			e.ID,
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Action,
			e.ActorID,
			e.ResourceType + "/" + e.ResourceID,
			ok,
		})
	}
	formatTable(headers, rows)
}

// parseTimeFlag parses an RFC3339 or date-only flag value; empty means unset.
func parseTimeFlag(name, val string) (*time.Time, error) {
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, fmt.Errorf("--%s must be RFC3339 or YYYY-MM-DD: %q", name, val)
	}
	return &t, nil
}
