// Package service holds the business rules of bloghub. Services speak in
// *models.AppError; handlers translate those into HTTP responses.
package service

import (
	"context"
	"errors"
	"strings"

	"bloghub/internal/models"
	"bloghub/internal/observability"
	"bloghub/internal/repository"
	"bloghub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// Messages returned to clients by the account service.
const (
	MsgIncorrectFormat      = "Incorrect format"
	MsgSignedUp             = "You are signed up"
	MsgUserExists           = "User already exists"
	MsgUserDoesNotExist     = "User does not exist"
	MsgIncorrectCredentials = "Incorrect credentials"
)

const defaultBcryptCost = 5

// TokenIssuer signs session tokens for an account id.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

type AccountService struct {
	accounts   repository.AccountRepository
	tokens     TokenIssuer
	validate   *validation.Validator
	bcryptCost int
}

type SignupInput struct {
	Email    string `json:"email" validate:"required,email,min=5,max=50"`
	Username string `json:"username" validate:"required,min=5,max=20"`
	Password string `json:"password" validate:"required,min=12,max=30"`
}

type SigninInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func NewAccountService(
	accounts repository.AccountRepository,
	tokens TokenIssuer,
	validate *validation.Validator,
	bcryptCost int,
) *AccountService {
	if bcryptCost == 0 {
		bcryptCost = defaultBcryptCost
	}
	return &AccountService{
		accounts:   accounts,
		tokens:     tokens,
		validate:   validate,
		bcryptCost: bcryptCost,
	}
}

// NormalizeEmail trims and lower-cases an address before validation and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account. It never returns a token.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) error {
	in.Email = NormalizeEmail(in.Email)

	if err := checkInput(s.validate, in); err != nil {
		observability.AuthEvents.WithLabelValues("signup", "invalid").Inc()
		return err
	}

	exists, err := s.accounts.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return models.NewInternalError("Error signing up", err)
	}
	if exists {
		observability.AuthEvents.WithLabelValues("signup", "conflict").Inc()
		return models.NewConflictError(MsgUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword(passwordBytes(in.Password), s.bcryptCost)
	if err != nil {
		return models.NewInternalError("Error signing up", err)
	}

	account := &models.Account{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent signup can pass the pre-check; the unique index decides.
		if errors.Is(err, repository.ErrDuplicate) {
			observability.AuthEvents.WithLabelValues("signup", "conflict").Inc()
			return models.NewConflictError(MsgUserExists)
		}
		return models.NewInternalError("Error signing up", err)
	}

	observability.AuthEvents.WithLabelValues("signup", "success").Inc()
	return nil
}

// Signin checks credentials and returns a session token.
func (s *AccountService) Signin(ctx context.Context, in SigninInput) (string, error) {
	in.Email = NormalizeEmail(in.Email)

	if err := checkInput(s.validate, in); err != nil {
		return "", err
	}

	account, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", models.NewInternalError("Error signing in", err)
	}
	if account == nil {
		observability.AuthEvents.WithLabelValues("signin", "unknown").Inc()
		return "", models.NewNotFoundError(MsgUserDoesNotExist)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), passwordBytes(in.Password)); err != nil {
		observability.AuthEvents.WithLabelValues("signin", "rejected").Inc()
		return "", models.NewInvalidCredentialsError(MsgIncorrectCredentials)
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", models.NewInternalError("Error signing in", err)
	}

	observability.AuthEvents.WithLabelValues("signin", "success").Inc()
	return token, nil
}

// bcrypt only reads the first 72 bytes and x/crypto rejects longer input.
// Password limits count characters, so multibyte passwords can exceed it.
const bcryptMaxBytes = 72

// passwordBytes truncates to what bcrypt hashes. Signup and signin must agree.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		b = b[:bcryptMaxBytes]
	}
	return b
}

// checkInput runs struct tag validation and maps failures to "Incorrect format".
func checkInput(v *validation.Validator, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return models.NewValidationError(MsgIncorrectFormat).WithDetails(verrs)
	}
	return models.NewInternalError(MsgIncorrectFormat, err)
}
