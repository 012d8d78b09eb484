package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Read individual entries",
	}
	cmd.AddCommand(entryGetCmd())
	return cmd
}

func entryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get an entry by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			entry, err := apiClient.Entries.Get(context.Background(), args[0])
			if err != nil {
				fatal("get entry", err)
			}
			output(entry, entry.ID)
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger statistics",
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Stats(context.Background())
			if err != nil {
				fatal("get stats", err)
			}
			output(stats, "")
		},
	}
}
