package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var flags searchFlags
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export matching entries to a JSON file",
		Long: `Export downloads entries matching the given filters, oldest first,
with their hashes and signatures intact so the file can serve as
portable evidence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			entries, err := apiClient.Entries.Export(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			out, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return fmt.Errorf("marshalling export: %w", err)
			}

			if outputPath == "" {
				outputPath = fmt.Sprintf("audit-export-%s.json",
					time.Now().UTC().Format("20060102T150405Z"))
			}

			if outputPath == "-" {
				_, err = os.Stdout.Write(out)
				return err
			}

			if err := os.WriteFile(outputPath, out, 0o600); err != nil {
				return fmt.Errorf("writing export file: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), outputPath)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: audit-export-<timestamp>.json, use - for stdout)")

	return cmd
}
