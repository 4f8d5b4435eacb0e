package services

import (
	"context"
	"errors"
	"testing"

	"gallery-auction/internal/domain"
	"gallery-auction/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, "050806", logger.NewNop()), users
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	user, err := svc.Register(ctx, "Elena Torres", "  Elena@Example.COM ", "s3cret", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "elena@example.com" {
		t.Fatalf("email = %q, want normalized lowercase", user.Email)
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}

	got, err := svc.Authenticate(ctx, "elena@example.com", "s3cret", domain.RoleUser)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("authenticated user %q, want %q", got.ID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	if _, err := svc.Register(ctx, "Elena", "elena@example.com", "one", domain.RoleUser); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "Other", "ELENA@example.com", "two", domain.RoleUser)
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	cases := []struct {
		name, email, password string
		role                  domain.Role
		field                 string
	}{
		{"", "a@b.com", "pw", domain.RoleUser, "name"},
		{"Elena", "not-an-email", "pw", domain.RoleUser, "email"},
		{"Elena", "a@b.com", "", domain.RoleUser, "password"},
		{"Elena", "a@b.com", "pw", domain.Role("owner"), "role"},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.name, tc.email, tc.password, tc.role)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tc.field {
			t.Errorf("%s/%s: got %v, want ValidationError on %s", tc.name, tc.email, err, tc.field)
		}
	}
}

func TestAuthenticateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	if _, err := svc.Register(ctx, "Elena", "elena@example.com", "s3cret", domain.RoleUser); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Unknown email and wrong password are indistinguishable.
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "s3cret", domain.RoleUser); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "elena@example.com", "wrong", domain.RoleUser); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}

	// Correct credentials for the wrong role fail differently.
	if _, err := svc.Authenticate(ctx, "elena@example.com", "s3cret", domain.RoleAdmin); !errors.Is(err, domain.ErrRoleMismatch) {
		t.Fatalf("role mismatch: got %v", err)
	}
}

func TestUpdateUserKeepsDigestOnBlankPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuthFixture()

	user, err := svc.Register(ctx, "Elena", "elena@example.com", "s3cret", domain.RoleUser)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	before, _ := users.GetByID(ctx, user.ID)

	updated, err := svc.UpdateUser(ctx, user.ID, UserUpdate{Name: "Elena T.", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Name != "Elena T." || updated.Role != domain.RoleAdmin {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.PasswordHash != before.PasswordHash {
		t.Fatal("blank password must leave the stored digest unchanged")
	}

	// A non-blank password is re-hashed.
	updated, err = svc.UpdateUser(ctx, user.ID, UserUpdate{Password: "newpw"})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.PasswordHash == before.PasswordHash {
		t.Fatal("new password must replace the digest")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpw")); err != nil {
		t.Fatalf("new digest does not verify: %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _ := newAuthFixture()
	if _, err := svc.UpdateUser(context.Background(), "user-missing", UserUpdate{Name: "X"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCheckAdminCode(t *testing.T) {
	svc, _ := newAuthFixture()
	if !svc.CheckAdminCode("050806") {
		t.Fatal("correct code rejected")
	}
	if svc.CheckAdminCode("000000") {
		t.Fatal("wrong code accepted")
	}
}
