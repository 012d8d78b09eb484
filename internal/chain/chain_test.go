package chain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chaintrail/chaintrail/internal/chain"
	"github.com/chaintrail/chaintrail/internal/models"
)

var testSecret = []byte("test-signing-secret")

func testEntry() *models.AuditEntry {
	return &models.AuditEntry{
		ID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Timestamp:    time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		Action:       models.ActionApprove,
		ActorID:      "u-42",
		ActorName:    "Dana Reyes",
		ResourceType: "Invoice",
		ResourceID:   "INV-1001",
		Details:      map[string]any{"amount": 1250.00, "currency": "USD"},
		Sensitivity:  models.SensitivityConfidential,
		ComplianceTags: []string{"SOX"},
		Outcome:      true,
		PreviousHash: chain.GenesisHash,
	}
}

func TestGenesisHashShape(t *testing.T) {
	if len(chain.GenesisHash) != 64 {
		t.Fatalf("genesis sentinel length = %d, want 64", len(chain.GenesisHash))
	}
	if strings.Trim(chain.GenesisHash, "0") != "" {
		t.Fatalf("genesis sentinel must be all zeros, got %q", chain.GenesisHash)
	}
}

func TestComputeHashDeterministic(t *testing.T) {
	e := testEntry()

	h1, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	h2, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	if h1 != h2 {
		t.Errorf("hash not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

// Every hash-bound field must change the digest when mutated.
func TestComputeHashFieldSensitivity(t *testing.T) {
	base := testEntry()
	baseHash, err := chain.ComputeHash(base)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	mutations := map[string]func(e *models.AuditEntry){
		"timestamp":     func(e *models.AuditEntry) { e.Timestamp = e.Timestamp.Add(time.Microsecond) },
		"action":        func(e *models.AuditEntry) { e.Action = models.ActionReject },
		"actor_id":      func(e *models.AuditEntry) { e.ActorID = "u-43" },
		"actor_name":    func(e *models.AuditEntry) { e.ActorName = "Dana R." },
		"resource_type": func(e *models.AuditEntry) { e.ResourceType = "Vendor" },
		"resource_id":   func(e *models.AuditEntry) { e.ResourceID = "INV-1002" },
		"details":       func(e *models.AuditEntry) { e.Details = map[string]any{"amount": 1250.01, "currency": "USD"} },
		"previous_hash": func(e *models.AuditEntry) { e.PreviousHash = strings.Repeat("f", 64) },
		"outcome":       func(e *models.AuditEntry) { e.Outcome = false },
	}

	for field, mutate := range mutations {
		e := testEntry()
		mutate(e)

		h, err := chain.ComputeHash(e)
		if err != nil {
			t.Fatalf("ComputeHash after mutating %s: %v", field, err)
		}
		if h == baseHash {
			t.Errorf("mutating %s did not change the hash", field)
		}
	}
}

// Fields covered only by the signature must NOT affect the hash.
func TestComputeHashExcludedFields(t *testing.T) {
	base := testEntry()
	baseHash, err := chain.ComputeHash(base)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}

	e := testEntry()
	e.SourceAddress = "203.0.113.9"
	e.ClientAgent = "curl/8.5"
	e.Sensitivity = models.SensitivityRestricted
	e.ComplianceTags = []string{"GDPR", "SOX"}
	e.ErrorMessage = "boom"

	h, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if h != baseHash {
		t.Errorf("signature-only fields leaked into the hash input")
	}
}

func TestNilAndEmptyDetailsCanonicalizeIdentically(t *testing.T) {
	a := testEntry()
	a.Details = nil
	b := testEntry()
	b.Details = map[string]any{}

	ha, err := chain.ComputeHash(a)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	hb, err := chain.ComputeHash(b)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	if ha != hb {
		t.Errorf("nil vs empty details produced different hashes")
	}
}

func TestVerifyLink(t *testing.T) {
	e := testEntry()
	if !chain.VerifyLink(e, chain.GenesisHash) {
		t.Error("VerifyLink rejected the correct predecessor")
	}
	if chain.VerifyLink(e, strings.Repeat("a", 64)) {
		t.Error("VerifyLink accepted a wrong predecessor")
	}
}

func TestVerifyContent(t *testing.T) {
	e := testEntry()

	h, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	e.Hash = h

	if !chain.VerifyContent(e) {
		t.Fatal("VerifyContent rejected an untampered entry")
	}

	e.Details["amount"] = 9999.99
	if chain.VerifyContent(e) {
		t.Error("VerifyContent accepted a tampered entry")
	}
}

// Postgres timestamptz holds microseconds, so an entry hashed with a
// nanosecond-precision timestamp must still verify after the storage
// round-trip drops the sub-microsecond digits.
func TestVerifySurvivesTimestampRoundTrip(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	if e.Timestamp.Truncate(time.Microsecond).Equal(e.Timestamp) {
		t.Fatal("precondition: timestamp must carry sub-microsecond digits")
	}

	h, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	e.Hash = h

	sig, err := chain.Sign(e, testSecret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	e.Signature = sig

	e.Timestamp = e.Timestamp.Truncate(time.Microsecond)

	if !chain.VerifyContent(e) {
		t.Error("VerifyContent failed after microsecond truncation")
	}
	if !chain.VerifySignature(e, e.Signature, testSecret) {
		t.Error("VerifySignature failed after microsecond truncation")
	}
}

func TestSignAndVerify(t *testing.T) {
	e := testEntry()

	h, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	e.Hash = h

	sig, err := chain.Sign(e, testSecret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !chain.VerifySignature(e, sig, testSecret) {
		t.Fatal("VerifySignature rejected a valid signature")
	}
	if chain.VerifySignature(e, sig, []byte("other-secret")) {
		t.Error("VerifySignature accepted a signature under the wrong secret")
	}

	// Flip one hex digit of the tag.
	flipped := []byte(sig)
	if flipped[0] == 'a' {
		flipped[0] = 'b'
	} else {
		flipped[0] = 'a'
	}
	if chain.VerifySignature(e, string(flipped), testSecret) {
		t.Error("VerifySignature accepted a corrupted signature")
	}
}

// The signature must bind fields the hash chain does not cover.
func TestSignatureBindsUnhashedFields(t *testing.T) {
	e := testEntry()

	h, err := chain.ComputeHash(e)
	if err != nil {
		t.Fatalf("ComputeHash: %v", err)
	}
	e.Hash = h

	sig, err := chain.Sign(e, testSecret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	e.SourceAddress = "198.51.100.7"
	if chain.VerifySignature(e, sig, testSecret) {
		t.Error("signature did not bind source_address")
	}
}

func TestSignatureTagOrderIrrelevant(t *testing.T) {
	a := testEntry()
	a.ComplianceTags = []string{"SOX", "GDPR"}
	b := testEntry()
	b.ComplianceTags = []string{"GDPR", "SOX"}

	for _, e := range []*models.AuditEntry{a, b} {
		h, err := chain.ComputeHash(e)
		if err != nil {
			t.Fatalf("ComputeHash: %v", err)
		}
		e.Hash = h
	}

	sa, err := chain.Sign(a, testSecret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sb, err := chain.Sign(b, testSecret)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sa != sb {
		t.Error("tag ordering changed the signature")
	}
}
