package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/chaintrail/chaintrail/internal/models"
)

// scanEntryRow scans a single entry from a QueryRow result.
func scanEntryRow(row pgx.Row) (*models.AuditEntry, error) {
	var (
		e             models.AuditEntry
		detailsJSON   []byte
		sourceAddress *string
		clientAgent   *string
		errorMessage  *string
	)

	err := row.Scan(
		&e.ID, &e.Timestamp, &e.Action, &e.ActorID, &e.ActorName,
		&e.ResourceType, &e.ResourceID, &detailsJSON,
		&sourceAddress, &clientAgent, &e.Sensitivity, &e.ComplianceTags,
		&e.Outcome, &errorMessage, &e.PreviousHash, &e.Hash, &e.Signature,
	)
	if err != nil {
		return nil, err
	}

	finishEntry(&e, detailsJSON, sourceAddress, clientAgent, errorMessage)

	return &e, nil
}

// scanEntries scans all rows of an entry query.
func scanEntries(rows pgx.Rows) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry

	for rows.Next() {
		var (
			e             models.AuditEntry
			detailsJSON   []byte
			sourceAddress *string
			clientAgent   *string
			errorMessage  *string
		)

		err := rows.Scan(
			&e.ID, &e.Timestamp, &e.Action, &e.ActorID, &e.ActorName,
			&e.ResourceType, &e.ResourceID, &detailsJSON,
			&sourceAddress, &clientAgent, &e.Sensitivity, &e.ComplianceTags,
			&e.Outcome, &errorMessage, &e.PreviousHash, &e.Hash, &e.Signature,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		finishEntry(&e, detailsJSON, sourceAddress, clientAgent, errorMessage)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// finishEntry fills in the nullable and JSON-encoded columns, and trims
// the char(64) padding Postgres would add if a hash were ever short.
func finishEntry(e *models.AuditEntry, detailsJSON []byte, sourceAddress, clientAgent, errorMessage *string) {
	if detailsJSON != nil {
		// A decode failure would itself be tampering evidence; keep the
		// entry and let hash verification report it.
		_ = json.Unmarshal(detailsJSON, &e.Details)
	}
	if sourceAddress != nil {
		e.SourceAddress = *sourceAddress
	}
	if clientAgent != nil {
		e.ClientAgent = *clientAgent
	}
	if errorMessage != nil {
		e.ErrorMessage = *errorMessage
	}

	e.PreviousHash = strings.TrimRight(e.PreviousHash, " ")
	e.Hash = strings.TrimRight(e.Hash, " ")
	e.Signature = strings.TrimRight(e.Signature, " ")
}
