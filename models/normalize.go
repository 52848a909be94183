package models

import (
	"time"

	"github.com/google/uuid"
)

// NormalizeUser coerces a raw user record into its canonical form. It never
// fails: every field gets a typed default, credentials are dropped.
func NormalizeUser(raw RawUser) User {
	return NormalizeUserAt(raw, time.Now())
}

// NormalizeUserAt is NormalizeUser with an explicit clock, used by the store
// so tests can pin time.
func NormalizeUserAt(raw RawUser, now time.Time) User {
	id := raw.ID.String()
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := firstNonEmpty(raw.CreatedAt.String(), raw.UpdatedAt.String())
	if createdAt == "" {
		createdAt = now.UTC().Format(time.RFC3339)
	}

	couleur := raw.Couleur.String()
	if couleur == "" {
		couleur = "#ffffff"
	}
	lang := raw.Language.String()
	if lang == "" {
		lang = "en"
	}

	return User{
		ID:        id,
		Nom:       raw.Nom.String(),
		Prenom:    raw.Prenom.String(),
		Pseudo:    raw.ResolvedPseudo(),
		Email:     raw.Email.String(),
		Age:       raw.Age.IntPtr(),
		Admin:     bool(raw.Admin),
		Couleur:   couleur,
		Devise:    raw.Devise.String(),
		Pays:      raw.Pays.String(),
		Avatar:    firstNonEmpty(raw.Avatar.String(), raw.Photo.String()),
		Language:  lang,
		CreatedAt: createdAt,
	}
}

// NormalizeRequest coerces a raw request record into its canonical form.
func NormalizeRequest(raw RawRequest) Request {
	return NormalizeRequestAt(raw, time.Now())
}

// NormalizeRequestAt applies the normalization rules with an explicit clock:
// missing ids get a fresh token, createdAt falls back to updatedAt then now,
// and approvedAt is forced to agree with the classified status — set (from
// the incoming value, then updatedAt, then createdAt) when APPROVED, cleared
// otherwise.
func NormalizeRequestAt(raw RawRequest, now time.Time) Request {
	id := raw.ID.String()
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := firstNonEmpty(raw.CreatedAt.String(), raw.UpdatedAt.String())
	if createdAt == "" {
		createdAt = now.UTC().Format(time.RFC3339)
	}

	status := ClassifyStatus(raw.ResolvedStatus())

	approvedAt := ""
	if status == StatusApproved {
		approvedAt = firstNonEmpty(raw.ApprovedAt.String(), raw.UpdatedAt.String(), createdAt)
	}

	return Request{
		ID:          id,
		UserID:      raw.UserID.String(),
		Nom:         raw.Nom.String(),
		Prenom:      raw.Prenom.String(),
		Pseudo:      firstNonEmpty(raw.Pseudo.String(), raw.Username.String()),
		Avatar:      firstNonEmpty(raw.Avatar.String(), raw.Photo.String()),
		Title:       firstNonEmpty(raw.Title.String(), raw.Titre.String()),
		Description: raw.Description.String(),
		Status:      status,
		CreatedAt:   createdAt,
		ApprovedAt:  approvedAt,
	}
}

// ParseTimestamp parses an ISO timestamp to epoch milliseconds; unparseable
// values sort as 0, matching the lenient ordering of the original data.
func ParseTimestamp(value string) int64 {
	if value == "" {
		return 0
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}
