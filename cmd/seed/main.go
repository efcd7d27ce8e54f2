package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/Skotchmaster/card_collection/internal/config"
	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/hash"
	"github.com/Skotchmaster/card_collection/internal/models"
	"github.com/Skotchmaster/card_collection/internal/repo"
	pkgconfig "github.com/Skotchmaster/card_collection/pkg/config"
	"github.com/Skotchmaster/card_collection/pkg/db"
	"github.com/Skotchmaster/card_collection/pkg/logging"
)

const defaultAvatar = "Avatar1"

func main() {
	cfg := config.Load()
	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	username := pkgconfig.EnvDefault("SEED_ADMIN_USERNAME", "admin")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	pkgconfig.MustNonEmpty(password, "SEED_ADMIN_PASSWORD")

	logger := logging.New(cfg.LogLevel).With("cmd", "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close(gdb)

	r := repo.New(gdb)
	if err := r.Migrate(ctx); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	var adminRole *models.Role
	for _, role := range domain.KnownRoles {
		rl, err := r.EnsureRole(ctx, role)
		if err != nil {
			log.Fatalf("seed role %s: %v", role, err)
		}
		if role == domain.RoleAdmin {
			adminRole = rl
		}
	}

	avatar, err := r.EnsureAvatar(ctx, defaultAvatar)
	if err != nil {
		log.Fatalf("seed avatar: %v", err)
	}

	pw, err := hash.Hasher{}.Hash(password)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	admin := &models.User{
		Username:     username,
		PasswordHash: pw,
		RoleID:       adminRole.ID,
		AvatarID:     avatar.ID,
	}
	switch err := r.CreateUserIfNotExists(ctx, admin); {
	case errors.Is(err, repo.ErrUserAlreadyExist):
		logger.Info("admin already present", "username", username)
	case err != nil:
		log.Fatalf("seed admin: %v", err)
	default:
		logger.Info("admin created", "username", username, "user_id", admin.ID)
	}
}
