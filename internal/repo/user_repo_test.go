package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/akashparashar014/Video-Genration/internal/domain"
)

func TestCreateUser_AndList(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	a, err := CreateUser(ctx, db, "ann", "ann@x.io", "hash-a")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if _, err := CreateUser(ctx, db, "bob", "bob@x.io", "hash-b"); err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	users, err := ListUsers(ctx, db)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0].Username != "ann" || users[1].Username != "bob" {
		t.Fatalf("unexpected order/content: %+v", users)
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	ctx := context.Background()

	if _, err := CreateUser(ctx, db, "ann", "ann@x.io", "h"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := CreateUser(ctx, db, "ann", "new@x.io", "h"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("username collision: want ErrDuplicate, got %v", err)
	}
	if _, err := CreateUser(ctx, db, "zed", "ann@x.io", "h"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("email collision: want ErrDuplicate, got %v", err)
	}
}

func TestListUsers_Empty(t *testing.T) {
	db := newTestDB(t, &domain.User{})
	users, err := ListUsers(context.Background(), db)
	if err != nil || len(users) != 0 {
		t.Fatalf("expected empty list, got %v, %v", users, err)
	}
}
