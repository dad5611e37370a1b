package service

import (
	"errors"
	"testing"

	"nexline-site/internal/repo"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewUserService(repo.NewUserRepo(db))

	u, err := svc.Register(RegisterInput{
		Username: "casey",
		Email:    "Casey@Example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "casey@example.com" {
		t.Fatalf("email must be normalized to lower case, got %q", u.Email)
	}
	if u.IsAdmin || u.IsVerified || u.IsBlocked {
		t.Fatalf("new account must start with all flags off: %+v", u)
	}
	if u.PasswordHash == "s3cret-pass" || u.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}

	// 用户名或邮箱都能登录
	if _, err := svc.Authenticate("casey", "s3cret-pass"); err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if _, err := svc.Authenticate("CASEY@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("login by email: %v", err)
	}
	if _, err := svc.Authenticate("casey", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown login: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewUserService(repo.NewUserRepo(db))

	if _, err := svc.Register(RegisterInput{Username: "casey", Email: "casey@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(RegisterInput{Username: "casey", Email: "other@example.com", Password: "s3cret-pass"}); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("duplicate username: expected ErrDuplicateUser, got %v", err)
	}
	if _, err := svc.Register(RegisterInput{Username: "casey2", Email: "CASEY@example.com", Password: "s3cret-pass"}); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("duplicate email about case: expected ErrDuplicateUser, got %v", err)
	}
}

func TestBlockedUserCannotLogIn(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewUserService(repo.NewUserRepo(db))

	u, err := svc.Register(RegisterInput{Username: "casey", Email: "casey@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.SetBlocked(u.ID, true); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := svc.Authenticate("casey", "s3cret-pass"); !errors.Is(err, ErrUserBlocked) {
		t.Fatalf("blocked login: expected ErrUserBlocked, got %v", err)
	}
	if err := svc.SetBlocked(u.ID, false); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if _, err := svc.Authenticate("casey", "s3cret-pass"); err != nil {
		t.Fatalf("login after unblock: %v", err)
	}

	if err := svc.SetVerified(u.ID, true); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got, err := svc.Get(u.ID)
	if err != nil || got == nil || !got.IsVerified {
		t.Fatalf("verify flag lost: %+v err=%v", got, err)
	}
}
