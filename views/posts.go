package views

import (
	"sort"
	"strings"

	"tableau/models"
)

// ApprovedPosts is the public feed: approved requests, newest approval
// first.
func (e *Engine) ApprovedPosts() []models.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	posts := e.approvedPosts.get(e.store.Requests.Version(), func() []models.Request {
		var out []models.Request
		for _, r := range e.store.Requests.Items() {
			if r.Status == models.StatusApproved {
				out = append(out, r)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return models.ParseTimestamp(out[i].ApprovedAt) > models.ParseTimestamp(out[j].ApprovedAt)
		})
		return out
	})
	return append([]models.Request(nil), posts...)
}

// PendingRequests lists requests awaiting moderation, newest first.
func (e *Engine) PendingRequests() []models.Request {
	var out []models.Request
	for _, r := range e.store.Requests.Items() {
		if r.Status == models.StatusPending {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.Compare(out[j].CreatedAt, out[i].CreatedAt) < 0
	})
	return out
}

// RequestsByUser lists the requests authored by one user, in collection
// order.
func (e *Engine) RequestsByUser(userID string) []models.Request {
	var out []models.Request
	for _, r := range e.store.Requests.Items() {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// LikesCount returns the number of likes on a post.
func (e *Engine) LikesCount(postID string) int {
	count := 0
	for _, l := range e.store.Likes.Items() {
		if l.PostID == postID {
			count++
		}
	}
	return count
}

// IsLikedBy reports whether a user has liked a post.
func (e *Engine) IsLikedBy(postID, userID string) bool {
	for _, l := range e.store.Likes.Items() {
		if l.PostID == postID && l.UserID == userID {
			return true
		}
	}
	return false
}

// CommentsByPost lists a post's comments in insertion order.
func (e *Engine) CommentsByPost(postID string) []models.Comment {
	var out []models.Comment
	for _, c := range e.store.Comments.Items() {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out
}

// CommentsCount returns the number of comments on a post.
func (e *Engine) CommentsCount(postID string) int {
	return len(e.CommentsByPost(postID))
}
