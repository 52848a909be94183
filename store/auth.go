package store

import (
	"context"
	"strings"
	"sync"

	"tableau/models"
	"tableau/remote"
	"tableau/utils"
)

// AuthSlice owns the authenticated-user projection. Credentials never enter
// it: the stored password is checked at login and stripped before the
// profile is kept or persisted.
type AuthSlice struct {
	deps *deps

	mu      sync.Mutex
	version uint64

	user          models.User
	authenticated bool
	status        LoadState
	lastError     string
}

func newAuthSlice(d *deps) *AuthSlice {
	s := &AuthSlice{
		deps:   d,
		user:   models.EmptyUser(),
		status: Idle,
	}
	if persisted, ok := d.local.LoadAuthUser(); ok {
		s.user = persisted
		s.authenticated = true
	}
	return s
}

func (s *AuthSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "auth", Op: op, Version: s.version})
}

// Login matches the pseudo case-insensitively against the remote user
// collection and verifies the password through the injected hasher. Error
// strings are translation message IDs.
func (s *AuthSlice) Login(ctx context.Context, pseudo, password string) error {
	trimmed := strings.TrimSpace(pseudo)
	if trimmed == "" || password == "" {
		return utils.ValidationErrors{"credentials_required"}
	}

	s.mu.Lock()
	s.status = Pending
	s.lastError = ""
	s.bump("login")
	s.mu.Unlock()

	list, _, err := s.deps.remote.FetchUsers(ctx, remote.ListParams{})
	if err != nil {
		s.fail("login", utils.RemoteMessage(err))
		return err
	}

	var found *models.RawUser
	for i := range list {
		candidate := strings.TrimSpace(list[i].ResolvedPseudo())
		if candidate != "" && strings.EqualFold(candidate, trimmed) {
			found = &list[i]
			break
		}
	}
	if found == nil || !s.deps.hasher.Verify(found.StoredPassword(), password) {
		s.fail("login", "invalid_credentials")
		return utils.UnauthorizedError("invalid_credentials", nil)
	}

	user := models.NormalizeUserAt(*found, s.deps.now())

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.status = Succeeded
	s.lastError = ""
	s.deps.local.SaveAuthUser(user)
	s.bump("login")
	s.mu.Unlock()
	return nil
}

func (s *AuthSlice) fail(op, message string) {
	s.mu.Lock()
	s.status = Failed
	s.lastError = message
	s.authenticated = false
	s.user = models.EmptyUser()
	s.bump(op)
	s.mu.Unlock()
}

// RegisterInput is the registration form payload.
type RegisterInput struct {
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Pseudo          string `json:"pseudo"`
	Email           string `json:"email"`
	Age             *int   `json:"age"`
	Pays            string `json:"Pays"`
	Devise          string `json:"Devise"`
	Avatar          string `json:"avatar"`
	Language        string `json:"language"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func validateRegister(input RegisterInput) utils.ValidationErrors {
	var errs utils.ValidationErrors
	if strings.TrimSpace(input.Nom) == "" {
		errs = append(errs, "nom_required")
	}
	if strings.TrimSpace(input.Prenom) == "" {
		errs = append(errs, "prenom_required")
	}
	if strings.TrimSpace(input.Pseudo) == "" {
		errs = append(errs, "pseudo_required")
	}
	if email := strings.TrimSpace(input.Email); email == "" || !strings.Contains(email, "@") {
		errs = append(errs, "email_invalid")
	}
	errs = append(errs, utils.ValidateNewPassword(input.Password)...)
	if input.Password != input.ConfirmPassword {
		errs = append(errs, "passwords_mismatch")
	}
	return errs
}

// Register validates the form, creates the remote account with a hashed
// password, and signs the new user in. Validation failures never reach the
// remote collection.
func (s *AuthSlice) Register(ctx context.Context, input RegisterInput) error {
	if errs := validateRegister(input); len(errs) > 0 {
		return errs
	}

	s.mu.Lock()
	s.status = Pending
	s.lastError = ""
	s.bump("register")
	s.mu.Unlock()

	// Pseudo uniqueness is checked against the live collection.
	existing, _, err := s.deps.remote.FetchUsers(ctx, remote.ListParams{})
	if err != nil {
		s.fail("register", utils.RemoteMessage(err))
		return err
	}
	trimmed := strings.TrimSpace(input.Pseudo)
	for i := range existing {
		if strings.EqualFold(strings.TrimSpace(existing[i].ResolvedPseudo()), trimmed) {
			s.fail("register", "pseudo_taken")
			return utils.ValidationErrors{"pseudo_taken"}
		}
	}

	hashed, err := s.deps.hasher.Hash(input.Password)
	if err != nil {
		s.fail("register", "registration_failed")
		return utils.InternalServerError("registration_failed", err)
	}

	language := input.Language
	if !utils.IsSupportedLanguage(language) {
		language = "en"
	}
	body := map[string]any{
		"nom":        input.Nom,
		"prenom":     input.Prenom,
		"pseudo":     trimmed,
		"email":      strings.TrimSpace(input.Email),
		"age":        input.Age,
		"admin":      false,
		"couleur":    "#ffffff",
		"Devise":     input.Devise,
		"Pays":       input.Pays,
		"avatar":     input.Avatar,
		"language":   language,
		"MotDePasse": hashed,
		"createdAt":  s.deps.nowISO(),
	}
	raw, err := s.deps.remote.CreateUser(ctx, body)
	if err != nil {
		s.fail("register", utils.RemoteMessage(err))
		return err
	}

	user := models.NormalizeUserAt(raw, s.deps.now())

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.status = Succeeded
	s.lastError = ""
	s.deps.local.SaveAuthUser(user)
	s.bump("register")
	s.mu.Unlock()
	return nil
}

// Logout resets the projection and clears the persisted copy.
func (s *AuthSlice) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = models.EmptyUser()
	s.authenticated = false
	s.status = Idle
	s.lastError = ""
	s.deps.local.ClearAuthUser()
	s.bump("logout")
}

// UpdateProfile applies a profile edit optimistically, pushes it to the
// remote record, and restores the prior profile if the remote call fails.
func (s *AuthSlice) UpdateProfile(ctx context.Context, patch models.UserPatch) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return utils.UnauthorizedError("not_authenticated", nil)
	}
	prev := s.user
	patch.Apply(&s.user)
	s.deps.local.SaveAuthUser(s.user)
	s.bump("updateProfile")
	id := s.user.ID
	s.mu.Unlock()

	raw, err := s.deps.remote.UpdateUser(ctx, id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.user = prev
		s.lastError = utils.RemoteMessage(err)
		s.deps.local.SaveAuthUser(s.user)
		s.bump("updateProfile")
		return err
	}

	updated := models.NormalizeUserAt(raw, s.deps.now())
	// The remote record may carry fields the patch did not touch.
	if updated.ID == id {
		s.user = updated
	}
	s.deps.local.SaveAuthUser(s.user)
	s.bump("updateProfile")
	return nil
}

// UpdateUserFields merges partial edits into the local projection only. Used
// for UI-side preferences that piggyback on the profile.
func (s *AuthSlice) UpdateUserFields(patch models.UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.Apply(&s.user)
	if s.authenticated {
		s.deps.local.SaveAuthUser(s.user)
	}
	s.bump("updateFields")
}

// UpdatePreferredColor sets the profile's background color.
func (s *AuthSlice) UpdatePreferredColor(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Couleur = color
	if s.authenticated {
		s.deps.local.SaveAuthUser(s.user)
	}
	s.bump("updateColor")
}

// User returns a copy of the authenticated-user projection.
func (s *AuthSlice) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// IsAuthenticated reports whether a user is signed in.
func (s *AuthSlice) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Status reports the login operation's lifecycle status.
func (s *AuthSlice) Status() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// LastError returns the last recorded error message ID.
func (s *AuthSlice) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Version returns the slice's mutation counter.
func (s *AuthSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
