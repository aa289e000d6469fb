package server

import (
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCommentRequest is the body of POST /api/posts/:id/comments.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Description Set parent_comment_id to reply to a top-level comment of the same post.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req CreateCommentRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	caller, err := s.caller(c)
	if err != nil {
		return respondError(c, err)
	}

	comment, err := s.socialService.CreateComment(c.UserContext(), service.CreateCommentInput{
		PostID:          postID,
		Author:          service.CommentAuthor{ID: caller.ID, Name: caller.Name},
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
// @Summary Top-level comments of a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comments, err := s.socialService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetReplies handles GET /api/comments/:commentId/replies
// @Summary Replies to a comment
// @Tags comments
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /comments/{commentId}/replies [get]
func (s *Server) GetReplies(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	replies, err := s.socialService.ListReplies(c.UserContext(), commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(replies)
}

// DeleteComment handles DELETE /api/comments/:commentId
// @Summary Delete a comment
// @Tags comments
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Comment belongs to another user"
// @Security BearerAuth
// @Router /comments/{commentId} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}
	if err := s.socialService.DeleteComment(c.UserContext(), commentID, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
