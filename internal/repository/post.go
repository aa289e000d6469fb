// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"brewhub/internal/cache"
	"brewhub/internal/models"
	"brewhub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post and like data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]models.Post, error)
	ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
	// ToggleLike flips the (post, user) like and moves likes_count by the same delta in one transaction.
	ToggleLike(ctx context.Context, postID, userID uint) (bool, error)
	IsLiked(ctx context.Context, postID, userID uint) (bool, error)
	ListLikes(ctx context.Context, postID uint) ([]models.Like, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db     *gorm.DB
	logger *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, logger: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.LikesCount, post.CommentsCount = 0, 0
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	r.logger.LogCreate(ctx, observability.Fields{"post_id": post.ID, "user_id": post.UserID})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, lookupError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) newestFirst(ctx context.Context, limit, offset int) *gorm.DB {
	return readDB(r.db).WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(clampLimit(limit)).
		Offset(max(offset, 0))
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	if err := r.newestFirst(ctx, limit, offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	var posts []models.Post
	if err := r.newestFirst(ctx, limit, offset).Where("user_id IN ?", authorIDs).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return r.ListByAuthors(ctx, []uint{userID}, limit, offset)
}

// Delete removes the post row only; likes and comments pointing at it are kept.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidateFeed(ctx)
	r.logger.LogDelete(ctx, observability.Fields{"post_id": id})
	return nil
}

func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	ctx, span := observability.StartQuery(ctx, "likes", "toggle")
	defer span.End()

	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			liked = false
			return tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - ?", del.RowsAffected)).Error
		}

		// ON CONFLICT DO NOTHING: a concurrent toggle may have inserted the same pair.
		like := models.Like{UserID: userID, PostID: postID}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if ins.Error != nil {
			return ins.Error
		}
		liked = true
		if ins.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1)).Error
	})
	if err != nil {
		span.RecordError(err)
		r.logger.LogError(ctx, err, "toggle_like")
		return false, models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return liked, nil
}

func (r *postRepository) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := readDB(r.db).WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&likes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return likes, nil
}
