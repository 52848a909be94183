package models

import "strings"

// Status is the canonical moderation state of a request.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// statusSynonyms maps lowercase English and French status spellings found in
// legacy remote records to their canonical value.
var statusSynonyms = map[string]Status{
	"pending":    StatusPending,
	"en attente": StatusPending,
	"approved":   StatusApproved,
	"approuvée":  StatusApproved,
	"approuvee":  StatusApproved,
	"rejected":   StatusRejected,
	"rejetée":    StatusRejected,
	"rejetee":    StatusRejected,
}

// ClassifyStatus coerces a loosely-specified status string to a canonical
// Status. Exact uppercase matches win, then case-insensitive English/French
// synonyms, then PENDING. The mapping is idempotent.
func ClassifyStatus(value string) Status {
	raw := strings.TrimSpace(value)

	switch Status(strings.ToUpper(raw)) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(strings.ToUpper(raw))
	}

	if s, ok := statusSynonyms[strings.ToLower(raw)]; ok {
		return s
	}

	return StatusPending
}

// ValidFilter reports whether value names a list filter: a canonical status
// or ALL.
func ValidFilter(value string) bool {
	s := strings.ToUpper(value)
	return s == "ALL" || s == string(StatusPending) || s == string(StatusApproved) || s == string(StatusRejected)
}
