package main

import (
	"context"
	"fmt"

	"github.com/chaintrail/chaintrail/client"
	"github.com/spf13/cobra"
)

func newTrailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trail",
		Short: "Read audit trails",
	}
	cmd.AddCommand(trailActorCmd())
	cmd.AddCommand(trailResourceCmd())
	return cmd
}

func trailActorCmd() *cobra.Command {
	var fromStr, toStr string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "actor <actor-id>",
		Short: "Show an actor's trail, newest first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			from, err := parseTimeFlag("from", fromStr)
			if err != nil {
				fatal("parse flags", err)
			}
			to, err := parseTimeFlag("to", toStr)
			if err != nil {
				fatal("parse flags", err)
			}
			result, err := apiClient.Trails.Actor(context.Background(), args[0], from, to, limit, offset)
			if err != nil {
				fatal("get actor trail", err)
			}
			printTrail(result)
		},
	}
	cmd.Flags().StringVar(&fromStr, "from", "", "Window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Window end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func trailResourceCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "resource <type> <id>",
		Short: "Show a resource's trail, newest first",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			result, err := apiClient.Trails.Resource(context.Background(), args[0], args[1], limit, offset)
			if err != nil {
				fatal("get resource trail", err)
			}
			printTrail(result)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func printTrail(result *client.SearchResult) {
	switch flagFmt {
	case "table":
		printEntryTable(result.Entries)
	case "quiet":
		for _, e := range result.Entries {
			fmt.Println(e.ID)
		}
	default:
		output(result, "")
	}
}
