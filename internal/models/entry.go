// Package models defines the audit ledger's data types, query options,
// and sentinel errors shared across store, service, and API layers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Action is the enumerated category of an audited operation.
type Action string

// Audit action categories.
const (
	ActionCreate       Action = "CREATE"
	ActionRead         Action = "READ"
	ActionUpdate       Action = "UPDATE"
	ActionDelete       Action = "DELETE"
	ActionLogin        Action = "LOGIN"
	ActionLogout       Action = "LOGOUT"
	ActionExport       Action = "EXPORT"
	ActionApprove      Action = "APPROVE"
	ActionReject       Action = "REJECT"
	ActionAccessDenied Action = "ACCESS_DENIED"
)

// Actions lists every valid action value, in declaration order.
var Actions = []Action{
	ActionCreate, ActionRead, ActionUpdate, ActionDelete,
	ActionLogin, ActionLogout, ActionExport,
	ActionApprove, ActionReject, ActionAccessDenied,
}

// Valid reports whether a is a known action value.
func (a Action) Valid() bool {
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

// Sensitivity classifies the data sensitivity of an audited action.
type Sensitivity string

// Sensitivity levels, least to most restricted.
const (
	SensitivityPublic       Sensitivity = "PUBLIC"
	SensitivityInternal     Sensitivity = "INTERNAL"
	SensitivityConfidential Sensitivity = "CONFIDENTIAL"
	SensitivityRestricted   Sensitivity = "RESTRICTED"
)

// Sensitivities lists every valid sensitivity value.
var Sensitivities = []Sensitivity{
	SensitivityPublic, SensitivityInternal, SensitivityConfidential, SensitivityRestricted,
}

// Valid reports whether s is a known sensitivity value.
func (s Sensitivity) Valid() bool {
	for _, v := range Sensitivities {
		if s == v {
			return true
		}
	}
	return false
}

// ComplianceStandard names a regulatory regime used for filtered reporting.
// The set is open — tags are stored as free-form labels — but these cover
// the standards the reporting endpoints know about.
type ComplianceStandard string

// Well-known compliance standards.
const (
	StandardSOX      ComplianceStandard = "SOX"
	StandardPCIDSS   ComplianceStandard = "PCI-DSS"
	StandardGDPR     ComplianceStandard = "GDPR"
	StandardHIPAA    ComplianceStandard = "HIPAA"
	StandardISO27001 ComplianceStandard = "ISO27001"
)

// AuditEntry is the atomic, immutable unit of the ledger. Every field
// except Hash and Signature is fixed at creation; the store exposes no
// update or delete path for this type.
type AuditEntry struct {
	ID             uuid.UUID      `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Action         Action         `json:"action"`
	ActorID        string         `json:"actor_id"`
	ActorName      string         `json:"actor_name"`
	ResourceType   string         `json:"resource_type"`
	ResourceID     string         `json:"resource_id"`
	Details        map[string]any `json:"details,omitempty"`
	SourceAddress  string         `json:"source_address,omitempty"`
	ClientAgent    string         `json:"client_agent,omitempty"`
	Sensitivity    Sensitivity    `json:"sensitivity"`
	ComplianceTags []string       `json:"compliance_tags,omitempty"`
	Outcome        bool           `json:"outcome"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	PreviousHash   string         `json:"previous_hash"`
	Hash           string         `json:"hash"`
	Signature      string         `json:"signature"`
}

// CreateEntryRequest carries the caller-supplied fields for a new entry.
// Chain fields (timestamp, hashes, signature) are filled in by the service.
type CreateEntryRequest struct {
	Action         Action         `json:"action" binding:"required"`
	ActorID        string         `json:"actor_id" binding:"required"`
	ActorName      string         `json:"actor_name"`
	ResourceType   string         `json:"resource_type" binding:"required"`
	ResourceID     string         `json:"resource_id" binding:"required"`
	Details        map[string]any `json:"details"`
	SourceAddress  string         `json:"source_address"`
	ClientAgent    string         `json:"client_agent"`
	Sensitivity    Sensitivity    `json:"sensitivity"`
	ComplianceTags []string       `json:"compliance_tags"`
	Outcome        *bool          `json:"outcome"`
	ErrorMessage   string         `json:"error_message"`
}
