package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*User, error) {
	account, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return account, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, account := range r.users {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID string) (bool, error) {
	if _, ok := r.users[userID]; !ok {
		return false, nil
	}
	delete(r.users, userID)
	return true, nil
}

func (r *fakeUserRepo) CountByEmail(ctx context.Context, email, excludeID string) (int64, error) {
	var count int64
	for _, account := range r.users {
		if account.ID == excludeID {
			continue
		}
		if strings.EqualFold(account.Email, email) {
			count++
		}
	}
	return count, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, "test-secret", time.Hour)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	account, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Marie@Ferme.FR ",
		Username: "marie",
		Password: "longenough",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if account.Email != "marie@ferme.fr" {
		t.Fatalf("expected lowercased trimmed email, got %q", account.Email)
	}
	if account.PasswordHash == "longenough" || account.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "longenough"}, ErrInvalidEmail},
		{"short password", RegisterInput{Email: "a@b.fr", Password: "short"}, ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Password: "longenough"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "A@B.FR", Password: "longenough"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Username: "al", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, account, err := svc.Login(context.Background(), "a@b.fr", "longenough")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account == nil || account.Email != "a@b.fr" {
		t.Fatalf("unexpected account: %+v", account)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if claims["sub"] != account.ID {
		t.Fatalf("expected sub claim %q, got %v", account.ID, claims["sub"])
	}
}

func TestLoginHidesWhichPartFailed(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Password: "longenough"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@b.fr", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "nobody@b.fr", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	account, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Password: "longenough"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), account.ID, "wrong", "newpassword"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), account.ID, "longenough", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), account.ID, "longenough", "newpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@b.fr", "newpassword"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	account, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.fr", Password: "longenough"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), account.ID, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), account.ID, "longenough"); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), account.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("account should be gone, got %v", err)
	}
}
