package service

import (
	"errors"
	"testing"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/model"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/util"
)

const testJWTSecret = "test-secret"

func newTestAuthService(t *testing.T) *AuthService {
	db := newTestDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testJWTSecret, ExpireTime: time.Hour}}
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(RegisterRequest{Email: "  Ann@Example.COM ", Password: "secret1", Name: "Ann"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.User.Email != "ann@example.com" {
		t.Fatalf("Email = %q", resp.User.Email)
	}
	if resp.User.Role != model.Learner {
		t.Fatalf("Role = %q, want learner", resp.User.Role)
	}
	if resp.User.Password == "secret1" {
		t.Fatal("password stored in plain text")
	}

	claims, err := util.ParseJWT(resp.Token, testJWTSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Role != model.Learner {
		t.Fatalf("claims = %+v", claims)
	}

	login, err := svc.Login(LoginRequest{Email: "ANN@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Fatalf("login user = %d, want %d", login.User.ID, resp.User.ID)
	}
}

func TestRegisterErrors(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.Register(RegisterRequest{Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{"duplicate email", RegisterRequest{Email: "A@example.com", Password: "secret1"}, util.ErrEmailRegistered},
		{"unknown role", RegisterRequest{Email: "b@example.com", Password: "secret1", Role: "mentor"}, util.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	if _, err := svc.Register(RegisterRequest{Email: "a@example.com", Password: "secret1", Role: model.Admin}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	for _, req := range []LoginRequest{
		{Email: "a@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "secret1"},
	} {
		if _, err := svc.Login(req); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Fatalf("Login(%s) err = %v", req.Email, err)
		}
	}
}
