package store

import (
	"sync"

	"tableau/models"
	"tableau/utils"
)

// CommentsSlice owns the comment list: append-only in insertion order,
// deletable by id, never edited. Every successful mutation writes through to
// local storage.
type CommentsSlice struct {
	deps *deps

	mu      sync.Mutex
	version uint64
	items   []models.Comment
}

func newCommentsSlice(d *deps) *CommentsSlice {
	return &CommentsSlice{
		deps:  d,
		items: d.local.LoadComments(),
	}
}

func (s *CommentsSlice) bump(op string) {
	s.version++
	s.deps.bus.publish(Event{Slice: "comments", Op: op, Version: s.version})
}

// CommentInput is the author-supplied content of a new comment.
type CommentInput struct {
	PostID  string `json:"postId"`
	UserID  string `json:"userId"`
	Nom     string `json:"nom"`
	Prenom  string `json:"prenom"`
	Avatar  string `json:"avatar"`
	Content string `json:"content"`
}

// Add appends a comment. The body is stripped of markup; a comment that is
// empty after sanitizing is rejected.
func (s *CommentsSlice) Add(input CommentInput) (models.Comment, error) {
	content := utils.SanitizeComment(input.Content)
	if content == "" {
		return models.Comment{}, utils.ValidationErrors{"comment_required"}
	}

	comment := models.Comment{
		ID:        s.deps.newID(),
		PostID:    input.PostID,
		UserID:    input.UserID,
		Nom:       input.Nom,
		Prenom:    input.Prenom,
		Avatar:    input.Avatar,
		Content:   content,
		CreatedAt: s.deps.nowISO(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, comment)
	s.deps.local.SaveComments(s.items)
	s.bump("add")
	return comment, nil
}

// Delete removes a comment by id.
func (s *CommentsSlice) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.items[:0]
	for _, c := range s.items {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.items = out
	s.deps.local.SaveComments(s.items)
	s.bump("delete")
}

// Set replaces the comment list.
func (s *CommentsSlice) Set(comments []models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]models.Comment(nil), comments...)
	s.deps.local.SaveComments(s.items)
	s.bump("set")
}

// Items returns a copy of the comment list.
func (s *CommentsSlice) Items() []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Comment(nil), s.items...)
}

// Version returns the slice's mutation counter.
func (s *CommentsSlice) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
