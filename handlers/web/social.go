package web

import (
	"github.com/gofiber/fiber/v2"

	"tableau/store"
	"tableau/views"
)

// SocialHandler serves the posts feed and its likes and comments.
type SocialHandler struct {
	store  *store.Store
	engine *views.Engine
}

// NewSocialHandler creates a new instance of SocialHandler
func NewSocialHandler(st *store.Store, engine *views.Engine) *SocialHandler {
	return &SocialHandler{store: st, engine: engine}
}

// HandlePosts returns the approved posts feed, newest approval first.
func (h *SocialHandler) HandlePosts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"items": h.engine.ApprovedPosts(),
	})
}

// HandleToggleLike flips the signed-in user's like on a post.
func (h *SocialHandler) HandleToggleLike(c *fiber.Ctx) error {
	postID := c.Params("id")
	user := h.store.Auth.User()

	h.store.Likes.Toggle(postID, user.ID)

	return c.JSON(fiber.Map{
		"likes": h.engine.LikesCount(postID),
		"liked": h.engine.IsLikedBy(postID, user.ID),
	})
}

// HandleComments returns a post's comments in insertion order.
func (h *SocialHandler) HandleComments(c *fiber.Ctx) error {
	postID := c.Params("id")
	return c.JSON(fiber.Map{
		"items": h.engine.CommentsByPost(postID),
		"count": h.engine.CommentsCount(postID),
	})
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleAddComment appends a comment to a post on behalf of the signed-in
// user.
func (h *SocialHandler) HandleAddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user := h.store.Auth.User()
	comment, err := h.store.Comments.Add(store.CommentInput{
		PostID:  c.Params("id"),
		UserID:  user.ID,
		Nom:     user.Nom,
		Prenom:  user.Prenom,
		Avatar:  user.Avatar,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment": comment,
	})
}

// HandleDeleteComment removes a comment by id.
func (h *SocialHandler) HandleDeleteComment(c *fiber.Ctx) error {
	h.store.Comments.Delete(c.Params("commentId"))
	return c.JSON(fiber.Map{"ok": true})
}
