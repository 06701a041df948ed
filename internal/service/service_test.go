package service

import (
	"context"
	"errors"
	"testing"

	"bloghub/internal/models"
	"bloghub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accountRepoStub is a stub for repository.AccountRepository.
type accountRepoStub struct {
	createFn        func(context.Context, *models.Account) error
	getByEmailFn    func(context.Context, string) (*models.Account, error)
	getByUsernameFn func(context.Context, string) (*models.Account, error)
	idByUsernameFn  func(context.Context, string) (string, error)
	existsFn        func(context.Context, string, string) (bool, error)
}

func (s *accountRepoStub) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}
func (s *accountRepoStub) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *accountRepoStub) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *accountRepoStub) IDByUsername(ctx context.Context, username string) (string, error) {
	return s.idByUsernameFn(ctx, username)
}
func (s *accountRepoStub) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return s.existsFn(ctx, username, email)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		createFn:        func(_ context.Context, _ *models.Account) error { return nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		idByUsernameFn:  func(_ context.Context, _ string) (string, error) { return "", nil },
		existsFn:        func(_ context.Context, _, _ string) (bool, error) { return false, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, string) (*models.Post, error)
	listFn        func(context.Context) ([]models.Post, error)
	listByOwnerFn func(context.Context, string) ([]models.Post, error)
	updateOwnedFn func(context.Context, string, string, repository.PostChanges) (bool, error)
	deleteOwnedFn func(context.Context, string, string) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ListByOwner(ctx context.Context, ownerID string) ([]models.Post, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *postRepoStub) UpdateOwned(ctx context.Context, id, ownerID string, changes repository.PostChanges) (bool, error) {
	return s.updateOwnedFn(ctx, id, ownerID, changes)
}
func (s *postRepoStub) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	return s.deleteOwnedFn(ctx, id, ownerID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, p *models.Post) error { p.ID = "post-1"; return nil },
		getByIDFn:     func(_ context.Context, _ string) (*models.Post, error) { return nil, nil },
		listFn:        func(_ context.Context) ([]models.Post, error) { return []models.Post{}, nil },
		listByOwnerFn: func(_ context.Context, _ string) ([]models.Post, error) { return []models.Post{}, nil },
		updateOwnedFn: func(_ context.Context, _, _ string, _ repository.PostChanges) (bool, error) { return true, nil },
		deleteOwnedFn: func(_ context.Context, _, _ string) (bool, error) { return true, nil },
	}
}

// publisherStub records published events.
type publisherStub struct {
	events []models.PostEvent
	err    error
}

func (p *publisherStub) PublishPostEvent(_ context.Context, event models.PostEvent) error {
	p.events = append(p.events, event)
	return p.err
}

// tokenStub issues "token-<id>".
type tokenStub struct{ err error }

func (s tokenStub) Issue(accountID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + accountID, nil
}

var errStore = errors.New("store unavailable")

// assertAppError asserts that err is an AppError with the given code and message.
func assertAppError(t *testing.T, err error, code, message string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
	return appErr
}

func strPtr(s string) *string { return &s }
