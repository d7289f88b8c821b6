package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	count, err := s.repo.CountByEmail(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

// Login verifies credentials and returns a signed token together with the
// account. A missing account and a wrong password are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	account, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(account)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) Update(ctx context.Context, input UpdateInput) (*User, error) {
	account, err := s.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !emailRegex.MatchString(email) {
			return nil, ErrInvalidEmail
		}
		count, err := s.repo.CountByEmail(ctx, email, account.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
		account.Email = email
	}
	if input.Username != nil {
		account.Username = strings.TrimSpace(*input.Username)
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account.PasswordHash = string(hash)
	return s.repo.Update(ctx, account)
}

// DeleteAccount requires password confirmation before removing the account
// and everything it owns.
func (s *Service) DeleteAccount(ctx context.Context, userID, password string) error {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return ErrWrongPassword
	}

	deleted, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) MarkProducer(ctx context.Context, userID string, isProducer bool) error {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if account.IsProducer == isProducer {
		return nil
	}
	account.IsProducer = isProducer
	return s.repo.Update(ctx, account)
}

func (s *Service) issueToken(account *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         account.ID,
		"email":       account.Email,
		"is_producer": account.IsProducer,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
