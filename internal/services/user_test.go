package services

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ootdlab/ootd-backend/internal/logger"
	"github.com/ootdlab/ootd-backend/internal/repos"
)

func newTestUserService(t *testing.T) (UserService, repos.UserRepo) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	ddl := `CREATE TABLE user (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`
	if err := db.Exec(ddl).Error; err != nil {
		t.Fatalf("schema: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	userRepo := repos.NewUserRepo(db, log)
	return NewUserService(db, log, userRepo), userRepo
}

// Registration is the only way a user row comes into existence; the session
// middleware rejects unknown ids, so a fresh deployment depends on this path.
func TestUserService_Register(t *testing.T) {
	svc, userRepo := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Оля")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.DisplayName != "Оля" {
		t.Errorf("display name = %q", user.DisplayName)
	}

	exists, err := userRepo.Exists(ctx, nil, user.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("registered user not visible to the middleware lookup")
	}

	got, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Get returned %s, want %s", got.ID, user.ID)
	}
}

func TestUserService_RegisterRequiresDisplayName(t *testing.T) {
	svc, _ := newTestUserService(t)
	if _, err := svc.Register(context.Background(), ""); err == nil {
		t.Fatal("Register with empty display name succeeded")
	}
}
