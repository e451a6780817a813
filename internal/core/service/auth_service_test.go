package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kirimaja/shipment-system/internal/core/domain"
)

type stubAuthRepo struct {
	byEmail map[string]*domain.User
	created []*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{byEmail: map[string]*domain.User{}}
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrUserExists
	}
	user.ID = "user-1"
	r.byEmail[user.Email] = user
	r.created = append(r.created, user)
	return user, nil
}

func seedUser(repo *stubAuthRepo, email, password, role string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	repo.byEmail[email] = &domain.User{
		ID:           "user-1",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "Budi", "budi@example.com", "rahasia-123", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash == "rahasia-123" {
		t.Error("password must not be stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("rahasia-123")) != nil {
		t.Error("stored hash must verify the original password")
	}
}

func TestAuthService_Register_RejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	_, err := svc.Register(context.Background(), "Budi", "budi@example.com", "rahasia-123", "superuser")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAuthRepo()
	seedUser(repo, "budi@example.com", "x", domain.RoleCustomer)
	svc := NewAuthService(repo, "secret", time.Hour)

	_, err := svc.Register(context.Background(), "Budi", "budi@example.com", "rahasia-123", domain.RoleCustomer)
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("got %v, want ErrUserExists", err)
	}
}

func TestAuthService_Login_IssuesTokenWithClaims(t *testing.T) {
	repo := newStubAuthRepo()
	seedUser(repo, "kurir@example.com", "rahasia-123", domain.RoleCourier)
	svc := NewAuthService(repo, "secret", time.Hour)

	token, user, err := svc.Login(context.Background(), "kurir@example.com", "rahasia-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleCourier {
		t.Errorf("role: got %s", user.Role)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims["user_id"] != "user-1" || claims["role"] != domain.RoleCourier {
		t.Errorf("claims wrong: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	seedUser(repo, "budi@example.com", "rahasia-123", domain.RoleCustomer)
	svc := NewAuthService(repo, "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "budi@example.com", "salah")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "x")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
}
