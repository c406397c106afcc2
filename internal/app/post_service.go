package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"miniblog/internal/model"
	"miniblog/internal/repository"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
	titleMaxLen      = 255
)

type PostService struct {
	postRepo *repository.PostRepository
}

func NewPostService(postRepo *repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

type ListPostsInput struct {
	Published *bool
	AuthorID  string
	Limit     int
	Offset    int
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

type ListPostsResult struct {
	Posts      []model.Post `json:"posts"`
	Pagination Pagination   `json:"pagination"`
}

type CreatePostInput struct {
	AuthorID  string
	Title     string
	Content   string
	ImageURL  string
	Published bool
}

type UpdatePostInput struct {
	Title    string
	Content  string
	ImageURL string
	// Published left nil keeps the stored value.
	Published *bool
}

func (s *PostService) ListPosts(input ListPostsInput) (*ListPostsResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	posts, total, err := s.postRepo.List(repository.PostFilter{
		Published: input.Published,
		AuthorID:  input.AuthorID,
	}, limit, offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return &ListPostsResult{
		Posts: posts,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+limit) < total,
		},
	}, nil
}

func (s *PostService) GetPost(id string) (*model.Post, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) CreatePost(input CreatePostInput) (*model.Post, error) {
	if input.AuthorID == "" {
		return nil, ErrInvalidInput
	}

	title, content, imageURL, fields := validatePostFields(input.Title, input.Content, input.ImageURL)
	if len(fields) > 0 {
		return nil, fields
	}

	post := &model.Post{
		AuthorID:  input.AuthorID,
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		Published: input.Published,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) UpdatePost(authorID, postID string, input UpdatePostInput) (*model.Post, error) {
	post, err := s.ownedPost(authorID, postID)
	if err != nil {
		return nil, err
	}

	title, content, imageURL, fields := validatePostFields(input.Title, input.Content, input.ImageURL)
	if len(fields) > 0 {
		return nil, fields
	}

	post.Title = title
	post.Content = content
	post.ImageURL = imageURL
	if input.Published != nil {
		post.Published = *input.Published
	}
	if err := s.postRepo.Save(post); err != nil {
		return nil, err
	}
	return post, nil
}

// TogglePublished flips the draft flag. Applying it twice restores the
// original value; concurrent toggles are last-writer-wins.
func (s *PostService) TogglePublished(authorID, postID string) (*model.Post, error) {
	post, err := s.ownedPost(authorID, postID)
	if err != nil {
		return nil, err
	}

	post.Published = !post.Published
	if err := s.postRepo.Save(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(authorID, postID string) error {
	if _, err := s.ownedPost(authorID, postID); err != nil {
		return err
	}
	if err := s.postRepo.Delete(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// ownedPost resolves a post scoped to its author. A post someone else owns
// reads the same as a missing one.
func (s *PostService) ownedPost(authorID, postID string) (*model.Post, error) {
	if authorID == "" || postID == "" {
		return nil, ErrInvalidInput
	}
	post, err := s.postRepo.GetByIDAndAuthorID(postID, authorID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func validatePostFields(title, content, imageURL string) (string, string, *string, FieldErrors) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	imageURL = strings.TrimSpace(imageURL)

	fields := FieldErrors{}
	if title == "" {
		fields["title"] = "title is required"
	} else if len(title) > titleMaxLen {
		fields["title"] = fmt.Sprintf("title must be at most %d characters", titleMaxLen)
	}
	if content == "" {
		fields["content"] = "content is required"
	}

	var imageURLPtr *string
	if imageURL != "" {
		if !isValidURL(imageURL) {
			fields["image_url"] = "image_url must be a valid http(s) URL"
		} else {
			imageURLPtr = &imageURL
		}
	}

	if len(fields) > 0 {
		return "", "", nil, fields
	}
	return title, content, imageURLPtr, nil
}

func isValidURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
