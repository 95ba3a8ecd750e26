package tag

import (
	"context"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.TagResponse, error)
		GetTag(ctx context.Context, id uuid.UUID) (domain.TagResponse, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.TagResponse, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TagResponse, 0, len(tags))
	for _, t := range tags {
		result = append(result, toTagResponse(*t))
	}
	return result, nil
}

func (s *tagService) GetTag(ctx context.Context, id uuid.UUID) (domain.TagResponse, error) {
	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.TagResponse{}, err
	}
	return toTagResponse(*t), nil
}

func toTagResponse(t entities.Tag) domain.TagResponse {
	return domain.TagResponse{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}
