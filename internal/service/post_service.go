package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostInput carries a validated-draft candidate. Tags must already be
// normalized by the transport layer.
type PostInput struct {
	Title   string
	Content string
	Author  string
	Tags    []string
}

// PostService validates drafts and maps repository outcomes onto the
// service's error contract.
type PostService struct {
	repo       repository.PostRepository
	dispatcher events.Dispatcher
}

// NewPostService builds the service.
func NewPostService(repo repository.PostRepository, dispatcher events.Dispatcher) *PostService {
	return &PostService{repo: repo, dispatcher: dispatcher}
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return posts, nil
}

// Create validates the draft and persists a new post. Nothing is persisted
// when validation fails.
func (s *PostService) Create(ctx context.Context, input PostInput) (*domain.Post, error) {
	input, err := validateDraft(input)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:   input.Title,
		Content: input.Content,
		Author:  input.Author,
		Tags:    input.Tags,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, mapRepositoryError(err)
	}

	s.publish(ctx, events.PostCreated, post.ID.Hex(), post.Title)
	return post, nil
}

// Update applies the draft to an existing post. The post's id and date are
// immutable and never part of the patch.
func (s *PostService) Update(ctx context.Context, id string, input PostInput) (*domain.Post, error) {
	input, err := validateDraft(input)
	if err != nil {
		return nil, err
	}

	patch := domain.PostPatch{
		Title:   input.Title,
		Content: input.Content,
		Author:  input.Author,
		Tags:    input.Tags,
	}
	post, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	s.publish(ctx, events.PostUpdated, post.ID.Hex(), post.Title)
	return post, nil
}

// Delete removes the post and returns the deleted id.
func (s *PostService) Delete(ctx context.Context, id string) (string, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", mapRepositoryError(err)
	}

	s.publish(ctx, events.PostDeleted, id, "")
	return id, nil
}

func (s *PostService) publish(ctx context.Context, eventType events.EventType, postID, title string) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		Type:       eventType,
		PostID:     postID,
		Title:      title,
		OccurredAt: time.Now(),
	})
}

// validateDraft trims the required fields and rejects the draft when any of
// them is empty after trimming.
func validateDraft(input PostInput) (PostInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	input.Author = strings.TrimSpace(input.Author)

	details := map[string]any{}
	if input.Title == "" {
		details["title"] = "required"
	}
	if input.Content == "" {
		details["content"] = "required"
	}
	if input.Author == "" {
		details["author"] = "required"
	}
	if len(details) > 0 {
		return input, apperrors.NewValidationError("Please check your input and try again.", details)
	}

	if input.Tags == nil {
		input.Tags = []string{}
	}
	return input, nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("Post not found")
	case errors.Is(err, repository.ErrInvalidID):
		return apperrors.NewValidationError("Invalid post ID format", nil)
	case errors.Is(err, repository.ErrUnavailable):
		return apperrors.NewStorageUnavailable(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
