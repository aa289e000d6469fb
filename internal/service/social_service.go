package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"
)

const (
	maxPostContentLen    = 5000
	maxCommentContentLen = 1000
)

// SocialService manages posts, likes, and one-level comment threads.
type SocialService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	recipeRepo  repository.RecipeRepository
	logger      *observability.ServiceLogger
}

// CommentAuthor is the identity snapshot stamped on a new comment.
type CommentAuthor struct {
	ID   uint
	Name string
}

type CreateCommentInput struct {
	PostID          uint
	Author          CommentAuthor
	Content         string
	ParentCommentID *uint
}

func NewSocialService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	recipeRepo repository.RecipeRepository,
) *SocialService {
	return &SocialService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		recipeRepo:  recipeRepo,
		logger:      observability.NewServiceLogger("social"),
	}
}

func (s *SocialService) CreatePost(ctx context.Context, author models.PostAuthor, content, imageURL string, recipeID *uint) (*models.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxPostContentLen {
		return nil, models.NewValidationError("Content too long (max 5000 characters)")
	}

	post := &models.Post{
		UserID:      author.ID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		Content:     content,
		ImageURL:    strings.TrimSpace(imageURL),
		RecipeID:    recipeID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordSocialAction("post_create")
	return post, nil
}

func (s *SocialService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *SocialService) ListUserPosts(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, limit, offset)
}

// ToggleLike likes the post, or removes the like when it already exists.
func (s *SocialService) ToggleLike(ctx context.Context, postID, userID uint) (*models.LikeToggleResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	liked, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if liked {
		observability.RecordSocialAction("like")
	} else {
		observability.RecordSocialAction("unlike")
	}
	return &models.LikeToggleResult{Liked: liked}, nil
}

func (s *SocialService) ListPostLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.ListLikes(ctx, postID)
}

func (s *SocialService) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.postRepo.IsLiked(ctx, postID, userID)
}

func (s *SocialService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentContentLen {
		return nil, models.NewValidationError("Content too long (max 1000 characters)")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	if in.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("parent comment belongs to another post")
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("replies cannot be nested")
		}
	}

	comment := &models.Comment{
		PostID:          in.PostID,
		UserID:          in.Author.ID,
		AuthorName:      in.Author.Name,
		Content:         content,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.RecordSocialAction("comment_create")
	return comment, nil
}

// ListComments returns the top-level comments of a post, oldest first.
func (s *SocialService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListTopLevel(ctx, postID)
}

func (s *SocialService) ListReplies(ctx context.Context, commentID uint) ([]models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListReplies(ctx, commentID)
}

// DeletePost removes a post written by the caller. Its likes and comments are kept.
func (s *SocialService) DeletePost(ctx context.Context, postID, callerID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := assertOwner(KindPost, post, postID, callerID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	observability.RecordSocialAction("post_delete")
	s.logger.Event(ctx, "post_deleted", observability.Fields{"post_id": postID, "user_id": callerID})
	return nil
}

// DeleteComment removes a comment written by the caller. Counters are left as they are.
func (s *SocialService) DeleteComment(ctx context.Context, commentID, callerID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if err := assertOwner(KindComment, comment, commentID, callerID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	observability.RecordSocialAction("comment_delete")
	return nil
}

// GetPostRecipe returns the recipe a post links to.
func (s *SocialService) GetPostRecipe(ctx context.Context, postID uint) (*models.Recipe, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.RecipeID == nil {
		return nil, models.NewNotFoundError("Recipe for post", postID)
	}
	return s.recipeRepo.GetByID(ctx, *post.RecipeID)
}
