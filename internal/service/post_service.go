package service

import (
	"context"
	"log/slog"

	"bloghub/internal/models"
	"bloghub/internal/observability"
	"bloghub/internal/repository"
	"bloghub/internal/validation"
)

// Messages returned to clients by the post service.
const (
	MsgBlogCreated         = "Blog created"
	MsgBlogUpdated         = "Blog updated"
	MsgBlogDeleted         = "Blog deleted"
	MsgBlogNotFound        = "Blog not found"
	MsgUserNotFound        = "User not found"
	MsgNotAuthorizedEdit   = "You are not authorized to edit this blog"
	MsgNotAuthorizedDelete = "You are not authorized to delete this blog"
	MsgErrorCreating       = "Error creating blog"
	MsgErrorFetching       = "Error fetching blogs"
	MsgErrorUpdating       = "Error updating blog"
	MsgErrorDeleting       = "Error deleting blog"
)

// EventPublisher fans post events out to live feed subscribers.
type EventPublisher interface {
	PublishPostEvent(ctx context.Context, event models.PostEvent) error
}

type PostService struct {
	posts     repository.PostRepository
	accounts  repository.AccountRepository
	validate  *validation.Validator
	publisher EventPublisher
}

type CreatePostInput struct {
	UserID    string `json:"-"`
	Title     string `json:"title" validate:"max=200"`
	Paragraph string `json:"paragraph" validate:"max=20000"`
}

// UpdatePostInput carries only the fields present in the request body.
type UpdatePostInput struct {
	UserID    string  `json:"-"`
	PostID    string  `json:"-"`
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Paragraph *string `json:"paragraph" validate:"omitempty,max=20000"`
}

type DeletePostInput struct {
	UserID string
	PostID string
}

// NewPostService wires the post service. publisher may be nil.
func NewPostService(
	posts repository.PostRepository,
	accounts repository.AccountRepository,
	validate *validation.Validator,
	publisher EventPublisher,
) *PostService {
	return &PostService{
		posts:     posts,
		accounts:  accounts,
		validate:  validate,
		publisher: publisher,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:     in.Title,
		Paragraph: in.Paragraph,
		UserID:    in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, models.NewInternalError(MsgErrorCreating, err)
	}

	s.emit(ctx, models.PostEvent{Type: models.EventPostCreated, PostID: post.ID, UserID: post.UserID, Title: post.Title})
	return post, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, models.NewInternalError(MsgErrorFetching, err)
	}
	return posts, nil
}

// ListPostsByUsername returns the posts of one account, an empty slice when
// the account has none.
func (s *PostService) ListPostsByUsername(ctx context.Context, username string) ([]models.Post, error) {
	ownerID, err := s.accounts.IDByUsername(ctx, username)
	if err != nil {
		return nil, models.NewInternalError(MsgErrorFetching, err)
	}
	if ownerID == "" {
		return nil, models.NewNotFoundError(MsgUserNotFound)
	}

	posts, err := s.posts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, models.NewInternalError(MsgErrorFetching, err)
	}
	return posts, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) error {
	if err := checkInput(s.validate, in); err != nil {
		return err
	}

	changes := repository.PostChanges{Title: in.Title, Paragraph: in.Paragraph}
	ok, err := s.posts.UpdateOwned(ctx, in.PostID, in.UserID, changes)
	if err != nil {
		return models.NewInternalError(MsgErrorUpdating, err)
	}
	if !ok {
		return s.explainMiss(ctx, in.PostID, MsgNotAuthorizedEdit, MsgErrorUpdating)
	}

	if !changes.Empty() {
		event := models.PostEvent{Type: models.EventPostUpdated, PostID: in.PostID, UserID: in.UserID}
		if in.Title != nil {
			event.Title = *in.Title
		}
		s.emit(ctx, event)
	}
	return nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	ok, err := s.posts.DeleteOwned(ctx, in.PostID, in.UserID)
	if err != nil {
		return models.NewInternalError(MsgErrorDeleting, err)
	}
	if !ok {
		return s.explainMiss(ctx, in.PostID, MsgNotAuthorizedDelete, MsgErrorDeleting)
	}

	s.emit(ctx, models.PostEvent{Type: models.EventPostDeleted, PostID: in.PostID, UserID: in.UserID})
	return nil
}

// explainMiss decides why a conditional write matched no row.
func (s *PostService) explainMiss(ctx context.Context, postID, forbidden, internal string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.NewInternalError(internal, err)
	}
	if post == nil {
		return models.NewNotFoundError(MsgBlogNotFound)
	}
	return models.NewForbiddenError(forbidden)
}

func (s *PostService) emit(ctx context.Context, event models.PostEvent) {
	observability.PostMutations.WithLabelValues(event.Type).Inc()
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPostEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "post event not published",
			slog.String("type", event.Type),
			slog.String("post_id", event.PostID),
			slog.String("error", err.Error()))
	}
}
