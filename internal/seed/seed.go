package seed

import (
	"context"
	"fmt"
	"log/slog"

	"bloghub/internal/models"

	"gorm.io/gorm"
)

// Options control a seeding run.
type Options struct {
	Accounts int
	Posts    int
	Clean    bool
	MaxDays  int
}

// Result reports what a run created.
type Result struct {
	Accounts []*models.Account
	Posts    int
}

// Seeder writes factory output to the database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	logger  *slog.Logger
}

func NewSeeder(db *gorm.DB, factory *Factory, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, factory: factory, logger: logger}
}

// ClearAll deletes every post and account.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("clear posts: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Account{}).Error; err != nil {
			return fmt.Errorf("clear accounts: %w", err)
		}
		return nil
	})
}

// Run creates opts.Accounts accounts and spreads opts.Posts posts across them.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Posts > 0 && opts.Accounts <= 0 {
		return nil, fmt.Errorf("posts need at least one account")
	}

	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "database cleared")
	}

	result := &Result{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < opts.Accounts; i++ {
			account := s.factory.Account(i + 1)
			if err := tx.Create(account).Error; err != nil {
				return fmt.Errorf("create account %s: %w", account.Username, err)
			}
			result.Accounts = append(result.Accounts, account)
		}

		posts := make([]*models.Post, 0, opts.Posts)
		for i := 0; i < opts.Posts; i++ {
			owner := result.Accounts[i%len(result.Accounts)]
			posts = append(posts, s.factory.Post(owner, opts.MaxDays))
		}
		if len(posts) > 0 {
			if err := tx.CreateInBatches(posts, 100).Error; err != nil {
				return fmt.Errorf("create posts: %w", err)
			}
		}
		result.Posts = len(posts)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "seed complete",
		slog.Int("accounts", len(result.Accounts)),
		slog.Int("posts", result.Posts))
	return result, nil
}
