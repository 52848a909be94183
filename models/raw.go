package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The remote collection stores loosely-shaped records: scalar fields arrive
// as strings, numbers or booleans interchangeably, and several fields exist
// under more than one key spelling. The Flex* types absorb any JSON scalar
// at the decoding boundary so normalization never fails; internal code only
// ever sees the canonical entities.

// FlexString decodes any JSON scalar to its string form. null, objects and
// arrays decode to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		*s = ""
		return nil
	}
	if raw[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			*s = ""
			return nil
		}
		*s = FlexString(v)
		return nil
	}
	if raw[0] == '{' || raw[0] == '[' {
		*s = ""
		return nil
	}
	// number or boolean literal
	*s = FlexString(raw)
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexNumber decodes a JSON number or numeric string; anything else decodes
// to nil.
type FlexNumber struct {
	Value *float64
}

func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	n.Value = nil
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		n.Value = &f
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}
	n.Value = &f
	return nil
}

// IntPtr returns the value truncated to an int, or nil.
func (n FlexNumber) IntPtr() *int {
	if n.Value == nil {
		return nil
	}
	v := int(*n.Value)
	return &v
}

// FlexBool decodes with JavaScript truthiness: false, 0, "", null are
// false, everything else is true.
type FlexBool bool

func (fb *FlexBool) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch raw {
	case "", "null", "false", "0", `""`:
		*fb = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*fb = FlexBool(v)
		return nil
	}
	*fb = true
	return nil
}

// RawUser is the unvalidated wire form of a user record. Alternate key
// spellings observed in the remote data each get their own field; the
// normalizer picks the first non-empty one.
type RawUser struct {
	ID        FlexString `json:"id"`
	Nom       FlexString `json:"nom"`
	Prenom    FlexString `json:"prenom"`
	Pseudo    FlexString `json:"pseudo"`
	PseudoCap FlexString `json:"Pseudo"`
	Username  FlexString `json:"username"`
	Email     FlexString `json:"email"`
	Age       FlexNumber `json:"age"`
	Admin     FlexBool   `json:"admin"`
	Couleur   FlexString `json:"couleur"`
	Devise    FlexString `json:"Devise"`
	Pays      FlexString `json:"Pays"`
	Avatar    FlexString `json:"avatar"`
	Photo     FlexString `json:"photo"`
	Language  FlexString `json:"language"`
	CreatedAt FlexString `json:"createdAt"`
	UpdatedAt FlexString `json:"updatedAt"`

	// Credential spellings. Read only during login; stripped by the
	// normalizer.
	MotDePasse  FlexString `json:"MotDePasse"`
	MotDePasse2 FlexString `json:"motDePasse"`
	Password    FlexString `json:"password"`
	Password2   FlexString `json:"Password"`
}

// ResolvedPseudo returns the username under whichever key the record uses.
func (r RawUser) ResolvedPseudo() string {
	return firstNonEmpty(r.Pseudo.String(), r.PseudoCap.String(), r.Username.String())
}

// StoredPassword returns the stored credential under whichever key the
// record uses.
func (r RawUser) StoredPassword() string {
	return firstNonEmpty(r.MotDePasse.String(), r.MotDePasse2.String(), r.Password.String(), r.Password2.String())
}

// RawRequest is the unvalidated wire form of a request record.
type RawRequest struct {
	ID          FlexString `json:"id"`
	UserID      FlexString `json:"userId"`
	Nom         FlexString `json:"nom"`
	Prenom      FlexString `json:"prenom"`
	Pseudo      FlexString `json:"pseudo"`
	Username    FlexString `json:"username"`
	Avatar      FlexString `json:"avatar"`
	Photo       FlexString `json:"photo"`
	Title       FlexString `json:"title"`
	Titre       FlexString `json:"titre"`
	Description FlexString `json:"description"`
	Status      FlexString `json:"status"`
	Statut      FlexString `json:"statut"`
	Statu       FlexString `json:"statu"`
	CreatedAt   FlexString `json:"createdAt"`
	UpdatedAt   FlexString `json:"updatedAt"`
	ApprovedAt  FlexString `json:"approvedAt"`
}

// ResolvedStatus returns the raw status under whichever key spelling the
// record uses.
func (r RawRequest) ResolvedStatus() string {
	return firstNonEmpty(r.Status.String(), r.Statut.String(), r.Statu.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
