package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// PostChanges lists the fields an update writes. Nil fields are left untouched.
type PostChanges struct {
	Title     *string
	Paragraph *string
}

// Empty reports whether no field would be written.
func (c PostChanges) Empty() bool {
	return c.Title == nil && c.Paragraph == nil
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Post, error)
	// UpdateOwned applies changes only when the post exists and belongs to
	// ownerID, in a single statement. It reports whether a row matched.
	UpdateOwned(ctx context.Context, id, ownerID string, changes PostChanges) (bool, error)
	// DeleteOwned removes the post only when it belongs to ownerID. It reports
	// whether a row was deleted.
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a GORM-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts by owner: %w", err)
	}
	return posts, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, ownerID string, changes PostChanges) (bool, error) {
	scope := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ? AND user_id = ?", id, ownerID)

	if changes.Empty() {
		var count int64
		if err := scope.Count(&count).Error; err != nil {
			return false, fmt.Errorf("check post owner: %w", err)
		}
		return count > 0, nil
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if changes.Title != nil {
		updates["title"] = *changes.Title
	}
	if changes.Paragraph != nil {
		updates["paragraph"] = *changes.Paragraph
	}

	res := scope.Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("update post: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Post{})
	if res.Error != nil {
		return false, fmt.Errorf("delete post: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
