package repository

import (
	"context"
	"errors"
	"fmt"

	"bloghub/internal/cache"
	"bloghub/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for accounts.
// Lookups return (nil, nil) when no account matches.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	IDByUsername(ctx context.Context, username string) (string, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

type accountRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

// NewAccountRepository returns a GORM-backed AccountRepository. c may be nil.
func NewAccountRepository(db *gorm.DB, c *cache.Cache) AccountRepository {
	return &accountRepository{db: db, cache: c}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("create account: %w", ErrDuplicate)
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return r.first(ctx, "username = ?", username)
}

// IDByUsername resolves a username to its account id, "" when unknown.
// Accounts are immutable, so cached entries never go stale.
func (r *accountRepository) IDByUsername(ctx context.Context, username string) (string, error) {
	var id string
	found, err := r.cache.Aside(ctx, cache.UsernameKey(username), &id, func() (bool, error) {
		account, err := r.GetByUsername(ctx, username)
		if err != nil || account == nil {
			return false, err
		}
		id = account.ID
		return true, nil
	})
	if err != nil || !found {
		return "", err
	}
	return id, nil
}

func (r *accountRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return count > 0, nil
}

func (r *accountRepository) first(ctx context.Context, query string, arg string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &account, nil
}
