package storage

import (
	"encoding/json"

	"tableau/models"
	"tableau/utils"
)

// Storage keys. The names match the web client's localStorage keys so a
// database written by one version stays readable by the next.
const (
	keyAuthUser = "authUser"
	keyLikes    = "app_likes"
	keyComments = "app_comments"
	keySettings = "px_settings_v1"
)

// Local mirrors selected store slices to durable storage. Reads validate
// shape and treat corrupt or missing blobs as absent; writes swallow every
// failure. Nothing here ever surfaces an error to the user.
type Local struct {
	kv  KV
	log *utils.Logger
}

// NewLocal creates the adapter over a KV capability.
func NewLocal(kv KV, log *utils.Logger) *Local {
	if log == nil {
		log = utils.Log
	}
	return &Local{kv: kv, log: log.WithField("component", "localstore")}
}

// persistedAuthUser is the subset of User fields kept across reloads. The
// password never appears here.
type persistedAuthUser struct {
	ID       string `json:"id"`
	Nom      string `json:"nom"`
	Prenom   string `json:"prenom"`
	Pseudo   string `json:"pseudo"`
	Email    string `json:"email"`
	Age      *int   `json:"age"`
	Admin    bool   `json:"admin"`
	Avatar   string `json:"avatar"`
	Couleur  string `json:"couleur"`
	Language string `json:"language"`
}

// LoadAuthUser returns the persisted authenticated-user projection, or
// ok=false when none is stored or the blob is unusable.
func (l *Local) LoadAuthUser() (models.User, bool) {
	raw, ok := l.kv.Get(keyAuthUser)
	if !ok {
		return models.User{}, false
	}
	var p persistedAuthUser
	if err := json.Unmarshal(raw, &p); err != nil || p.ID == "" {
		return models.User{}, false
	}
	user := models.EmptyUser()
	user.ID = p.ID
	user.Nom = p.Nom
	user.Prenom = p.Prenom
	user.Pseudo = p.Pseudo
	user.Email = p.Email
	user.Age = p.Age
	user.Admin = p.Admin
	user.Avatar = p.Avatar
	if p.Couleur != "" {
		user.Couleur = p.Couleur
	}
	if p.Language != "" {
		user.Language = p.Language
	}
	return user, true
}

// SaveAuthUser writes the projection. Users without an id are not persisted.
func (l *Local) SaveAuthUser(user models.User) {
	if user.ID == "" {
		return
	}
	l.put(keyAuthUser, persistedAuthUser{
		ID:       user.ID,
		Nom:      user.Nom,
		Prenom:   user.Prenom,
		Pseudo:   user.Pseudo,
		Email:    user.Email,
		Age:      user.Age,
		Admin:    user.Admin,
		Avatar:   user.Avatar,
		Couleur:  user.Couleur,
		Language: user.Language,
	})
}

// ClearAuthUser removes the persisted projection.
func (l *Local) ClearAuthUser() {
	if err := l.kv.Delete(keyAuthUser); err != nil {
		l.log.Debug("clear auth user: %v", err)
	}
}

// LoadLikes returns the persisted like-set, empty when absent or corrupt.
func (l *Local) LoadLikes() []models.Like {
	var likes []models.Like
	l.loadArray(keyLikes, &likes)
	return likes
}

// SaveLikes writes the like-set.
func (l *Local) SaveLikes(likes []models.Like) {
	if likes == nil {
		likes = []models.Like{}
	}
	l.put(keyLikes, likes)
}

// LoadComments returns the persisted comment list, empty when absent or
// corrupt.
func (l *Local) LoadComments() []models.Comment {
	var comments []models.Comment
	l.loadArray(keyComments, &comments)
	return comments
}

// SaveComments writes the comment list.
func (l *Local) SaveComments(comments []models.Comment) {
	if comments == nil {
		comments = []models.Comment{}
	}
	l.put(keyComments, comments)
}

// LoadSettings returns the persisted UI settings, or ok=false when absent or
// corrupt.
func (l *Local) LoadSettings() (models.Settings, bool) {
	raw, ok := l.kv.Get(keySettings)
	if !ok {
		return models.Settings{}, false
	}
	var s models.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Settings{}, false
	}
	return s, true
}

// SaveSettings writes the UI settings.
func (l *Local) SaveSettings(s models.Settings) {
	l.put(keySettings, s)
}

func (l *Local) loadArray(key string, v any) {
	raw, ok := l.kv.Get(key)
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, v); err != nil {
		l.log.Debug("discarding corrupt blob for %s: %v", key, err)
	}
}

func (l *Local) put(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		l.log.Debug("marshal %s: %v", key, err)
		return
	}
	if err := l.kv.Put(key, data); err != nil {
		l.log.Debug("persist %s: %v", key, err)
	}
}
