package main

import (
	"context"
	"encoding/json"

	"github.com/chaintrail/chaintrail/client"
	"github.com/spf13/cobra"
)

func newAppendCmd() *cobra.Command {
	var (
		actorID     string
		actorName   string
		detailsJSON string
		sensitivity string
		tags        []string
		source      string
		agent       string
		failed      bool
		errorMsg    string
	)
	cmd := &cobra.Command{
		Use:   "append <action> <resource-type> <resource-id>",
		Short: "Record a new audit entry",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateEntryRequest{
				Action:         args[0],
				ActorID:        actorID,
				ActorName:      actorName,
				ResourceType:   args[1],
				ResourceID:     args[2],
				SourceAddress:  source,
				ClientAgent:    agent,
				Sensitivity:    sensitivity,
				ComplianceTags: tags,
				ErrorMessage:   errorMsg,
			}
			if detailsJSON != "" {
				if err := json.Unmarshal([]byte(detailsJSON), &req.Details); err != nil {
					fatal("parse details", err)
				}
			}
			if failed {
				outcome := false
				req.Outcome = &outcome
			}
			entry, err := apiClient.Entries.Create(context.Background(), req)
			if err != nil {
				fatal("append entry", err)
			}
			output(entry, entry.ID)
		},
	}
	cmd.Flags().StringVar(&actorID, "actor", "", "Actor ID (required)")
	cmd.Flags().StringVar(&actorName, "actor-name", "", "Human-readable actor name")
	cmd.Flags().StringVar(&detailsJSON, "details", "", "Details as JSON")
	cmd.Flags().StringVar(&sensitivity, "sensitivity", "", "Sensitivity: PUBLIC|INTERNAL|CONFIDENTIAL|RESTRICTED")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Compliance tag (repeatable)")
	cmd.Flags().StringVar(&source, "source", "", "Source address")
	cmd.Flags().StringVar(&agent, "agent", "", "Client agent string")
	cmd.Flags().BoolVar(&failed, "failed", false, "Record the operation as failed")
	cmd.Flags().StringVar(&errorMsg, "error", "", "Error message for failed operations")
	cmd.MarkFlagRequired("actor") //nolint:errcheck
	return cmd
}
