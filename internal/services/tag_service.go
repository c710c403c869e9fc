package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/repository"
)

var ErrTagNotFound = errors.New("tag not found")

// TagService handles tag listing and lookups.
type TagService struct {
	tagRepo repository.TagRepository
}

// NewTagService creates a new TagService.
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// TagListResult holds all tags with usage counts and summary aggregates.
type TagListResult struct {
	Tags     []repository.TagCount
	MaxCount int64
	AvgCount float64
}

// ListTags returns every tag with its usage count, plus the maximum and
// average counts across all tags.
func (s *TagService) ListTags() (*TagListResult, error) {
	counts, err := s.tagRepo.ListWithCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	result := &TagListResult{Tags: counts}
	if len(counts) == 0 {
		return result, nil
	}

	var sum int64
	for _, tc := range counts {
		if tc.Count > result.MaxCount {
			result.MaxCount = tc.Count
		}
		sum += tc.Count
	}
	result.AvgCount = float64(sum) / float64(len(counts))

	return result, nil
}

// GetTagBySlug finds a tag by its slug.
func (s *TagService) GetTagBySlug(slug string) (*repository.TagCount, error) {
	tag, err := s.tagRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}

	counts, err := s.tagRepo.ListWithCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to count tag usage: %w", err)
	}
	for _, tc := range counts {
		if tc.Tag.ID == tag.ID {
			return &tc, nil
		}
	}

	return &repository.TagCount{Tag: *tag}, nil
}
