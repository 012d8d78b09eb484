package main

import (
	"context"

	"github.com/chaintrail/chaintrail/client"
	"github.com/spf13/cobra"
)

// searchFlags holds the shared filter flags for search and export.
type searchFlags struct {
	actorID      string
	action       string
	resourceType string
	resourceID   string
	sensitivity  string
	tag          string
	text         string
	from         string
	to           string
	limit        int
	offset       int
	ascending    bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.actorID, "actor", "", "Filter by actor ID")
	cmd.Flags().StringVar(&f.action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&f.resourceType, "resource-type", "", "Filter by resource type")
	cmd.Flags().StringVar(&f.resourceID, "resource-id", "", "Filter by resource ID")
	cmd.Flags().StringVar(&f.sensitivity, "sensitivity", "", "Filter by sensitivity")
	cmd.Flags().StringVar(&f.tag, "tag", "", "Filter by compliance tag")
	cmd.Flags().StringVar(&f.text, "query", "", "Free-text filter")
	cmd.Flags().StringVar(&f.from, "from", "", "Window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Window end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Offset")
	cmd.Flags().BoolVar(&f.ascending, "asc", false, "Oldest first")
}

func (f *searchFlags) options() (*client.SearchOptions, error) {
	from, err := parseTimeFlag("from", f.from)
	if err != nil {
		return nil, err
	}
	to, err := parseTimeFlag("to", f.to)
	if err != nil {
		return nil, err
	}
	return &client.SearchOptions{
		ActorID:      f.actorID,
		Action:       f.action,
		ResourceType: f.resourceType,
		ResourceID:   f.resourceID,
		Sensitivity:  f.sensitivity,
		Tag:          f.tag,
		Text:         f.text,
		From:         from,
		To:           to,
		Limit:        f.limit,
		Offset:       f.offset,
		Ascending:    f.ascending,
	}, nil
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the ledger with filters",
		Run: func(cmd *cobra.Command, args []string) {
			opts, err := flags.options()
			if err != nil {
				fatal("parse flags", err)
			}
			result, err := apiClient.Search.Query(context.Background(), opts)
			if err != nil {
				fatal("search", err)
			}
			printTrail(result)
		},
	}
	flags.register(cmd)
	return cmd
}
