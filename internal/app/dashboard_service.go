package app

import (
	"miniblog/internal/model"
	"miniblog/internal/repository"
)

const recentPostsLimit = 5

// DashboardService composes per-author counts and the latest posts. It adds
// no invariants of its own on top of the post repository.
type DashboardService struct {
	postRepo *repository.PostRepository
}

type DashboardStats struct {
	TotalPosts     int64        `json:"total_posts"`
	PublishedPosts int64        `json:"published_posts"`
	DraftPosts     int64        `json:"draft_posts"`
	RecentPosts    []model.Post `json:"recent_posts"`
}

func NewDashboardService(postRepo *repository.PostRepository) *DashboardService {
	return &DashboardService{postRepo: postRepo}
}

func (s *DashboardService) Stats(authorID string) (*DashboardStats, error) {
	if authorID == "" {
		return nil, ErrInvalidInput
	}

	total, err := s.postRepo.CountByAuthor(authorID, nil)
	if err != nil {
		return nil, err
	}

	published := true
	publishedCount, err := s.postRepo.CountByAuthor(authorID, &published)
	if err != nil {
		return nil, err
	}

	draft := false
	draftCount, err := s.postRepo.CountByAuthor(authorID, &draft)
	if err != nil {
		return nil, err
	}

	recent, err := s.postRepo.ListRecentByAuthor(authorID, recentPostsLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.Post{}
	}

	return &DashboardStats{
		TotalPosts:     total,
		PublishedPosts: publishedCount,
		DraftPosts:     draftCount,
		RecentPosts:    recent,
	}, nil
}
