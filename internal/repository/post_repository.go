package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"miniblog/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// PostFilter narrows List and the dashboard counts. Nil fields are ignored.
type PostFilter struct {
	Published *bool
	AuthorID  string
}

func (r *PostRepository) List(filter PostFilter, limit, offset int) ([]model.Post, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts failed: %w", err)
	}

	var posts []model.Post
	if err := r.filtered(filter).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, total, nil
}

func (r *PostRepository) filtered(filter PostFilter) *gorm.DB {
	query := r.db.Model(&model.Post{})
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	return query
}

func (r *PostRepository) GetByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Author").Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) GetByIDAndAuthorID(id, authorID string) (*model.Post, error) {
	var post model.Post
	if err := r.db.Preload("Author").Where("id = ? AND author_id = ?", id, authorID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query post by id and author failed: %w", err)
	}
	return &post, nil
}

func (r *PostRepository) Create(post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Omit("Author").Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return r.loadAuthor(post)
}

func (r *PostRepository) Save(post *model.Post) error {
	if err := r.db.Omit("Author").Save(post).Error; err != nil {
		return fmt.Errorf("save post failed: %w", err)
	}
	return r.loadAuthor(post)
}

func (r *PostRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return fmt.Errorf("delete post failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepository) CountByAuthor(authorID string, published *bool) (int64, error) {
	query := r.db.Model(&model.Post{}).Where("author_id = ?", authorID)
	if published != nil {
		query = query.Where("published = ?", *published)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count posts by author failed: %w", err)
	}
	return count, nil
}

func (r *PostRepository) ListRecentByAuthor(authorID string, limit int) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list recent posts failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) loadAuthor(post *model.Post) error {
	var author model.PostAuthor
	if err := r.db.Where("id = ?", post.AuthorID).First(&author).Error; err != nil {
		return fmt.Errorf("load post author failed: %w", err)
	}
	post.Author = &author
	return nil
}
