package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/devicecare/repair-booking/internal/domain"
	"github.com/devicecare/repair-booking/internal/repository"
	apperrors "github.com/devicecare/repair-booking/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, exp, err := tm.GenerateToken("u1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 59*time.Minute {
		t.Fatalf("expiry too soon: %s", exp)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	token, _, _ := NewTokenManager("a", time.Hour).GenerateToken("u1", domain.RoleUser)
	if _, err := NewTokenManager("b", time.Hour).ParseToken(token); err == nil {
		t.Fatal("expected signature failure")
	}

	old := NewTokenManager("a", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _, _ := old.GenerateToken("u1", domain.RoleUser)
	if _, err := old.ParseToken(expired); err == nil {
		t.Fatal("expected expiry failure")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "password" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := ComparePassword(hash, "password"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, *domain.User, *domain.User) {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	customer := &domain.User{Name: "C", Email: "c@example.com", Role: domain.RoleUser}
	admin := &domain.User{Name: "A", Email: "a@example.com", Role: domain.RoleAdmin}
	for _, u := range []*domain.User{customer, admin} {
		if err := repos.Users.Create(context.Background(), u); err != nil {
			t.Fatal(err)
		}
	}
	tm := NewTokenManager("secret", time.Hour)
	mw := NewAuthMiddleware(tm, repos.Users)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/admin", mw.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/maybe", mw.Optional, func(c *fiber.Ctx) error {
		if p, ok := PrincipalFromContext(c); ok {
			return c.SendString(p.User.ID)
		}
		return c.SendString("anonymous")
	})
	return app, tm, customer, admin
}

func TestMiddlewareRoles(t *testing.T) {
	app, tm, customer, admin := newTestApp(t)
	adminToken, _, _ := tm.GenerateToken(admin.ID, admin.Role)
	customerToken, _, _ := tm.GenerateToken(customer.ID, customer.Role)
	ghostToken, _, _ := tm.GenerateToken("ghost", domain.RoleAdmin)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"unknown user", "Bearer " + ghostToken, http.StatusUnauthorized},
		{"wrong role", "Bearer " + customerToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestOptionalMiddleware(t *testing.T) {
	app, tm, customer, _ := newTestApp(t)
	token, _, _ := tm.GenerateToken(customer.ID, customer.Role)

	cases := []struct {
		header string
		want   string
	}{
		{"", "anonymous"},
		{"Bearer broken", "anonymous"},
		{"bearer " + token, customer.ID},
	}
	for _, tc := range cases {
		header, want := tc.header, tc.want
		req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		body, _ := io.ReadAll(resp.Body)
		if got := string(body); got != want {
			t.Fatalf("header %q: body = %q, want %q", header, got, want)
		}
	}
}
