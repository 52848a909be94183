package models

// User is the canonical in-memory form of a remote user record. Credentials
// are stripped at the normalization boundary and never appear here. Field
// casing in the JSON tags mirrors the remote collection's schema.
type User struct {
	ID        string `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Pseudo    string `json:"pseudo"`
	Email     string `json:"email"`
	Age       *int   `json:"age"`
	Admin     bool   `json:"admin"`
	Couleur   string `json:"couleur"`
	Devise    string `json:"Devise"`
	Pays      string `json:"Pays"`
	Avatar    string `json:"avatar"`
	Language  string `json:"language"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// EmptyUser is the zero profile used before login and after logout.
func EmptyUser() User {
	return User{
		Couleur:  "#ffffff",
		Language: "en",
	}
}

// UserPatch carries partial profile edits; nil fields are left untouched.
type UserPatch struct {
	Nom      *string `json:"nom,omitempty"`
	Prenom   *string `json:"prenom,omitempty"`
	Pseudo   *string `json:"pseudo,omitempty"`
	Email    *string `json:"email,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Couleur  *string `json:"couleur,omitempty"`
	Devise   *string `json:"Devise,omitempty"`
	Pays     *string `json:"Pays,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Nom != nil {
		u.Nom = *p.Nom
	}
	if p.Prenom != nil {
		u.Prenom = *p.Prenom
	}
	if p.Pseudo != nil {
		u.Pseudo = *p.Pseudo
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Age != nil {
		u.Age = p.Age
	}
	if p.Couleur != nil {
		u.Couleur = *p.Couleur
	}
	if p.Devise != nil {
		u.Devise = *p.Devise
	}
	if p.Pays != nil {
		u.Pays = *p.Pays
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Language != nil {
		u.Language = *p.Language
	}
}
