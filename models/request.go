package models

// Request is a user-submitted item awaiting admin moderation. Once approved
// it is shown as a post. ApprovedAt is an ISO timestamp and is non-empty
// exactly when Status is APPROVED; rejecting clears it.
type Request struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Nom         string `json:"nom"`
	Prenom      string `json:"prenom"`
	Pseudo      string `json:"pseudo"`
	Avatar      string `json:"avatar"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	CreatedAt   string `json:"createdAt"`
	ApprovedAt  string `json:"approvedAt,omitempty"`
}

// Like is one element of the unordered (post, user) like relation. The set
// never contains the same pair twice.
type Like struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// Comment is an append-only remark on a post. Comments are never edited,
// only deleted by id.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	UserID    string `json:"userId"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Avatar    string `json:"avatar"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Settings is the process-wide UI configuration.
type Settings struct {
	Language   string `json:"language"`
	ThemeColor string `json:"themeColor"`
}

// DefaultSettings returns the out-of-the-box UI configuration.
func DefaultSettings() Settings {
	return Settings{Language: "en", ThemeColor: "#ffffff"}
}

// Activity event types synthesized by the derived-view engine.
const (
	ActivityUserRegistered  = "USER_REGISTERED"
	ActivityRequestCreated  = "REQUEST_CREATED"
	ActivityRequestApproved = "REQUEST_APPROVED"
	ActivityRequestRejected = "REQUEST_REJECTED"
)

// Activity is a synthesized, type-tagged timeline event. Events are derived
// from the user and request collections, never stored.
type Activity struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Date  string `json:"date"`
	Label string `json:"label"`
}
