package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Seed creates the admin curator account if the users table is empty.
// The password value may already be a bcrypt hash (starts with $2 and is
// 60 characters), in which case it is stored as-is; plain text is hashed.
func Seed(db *sql.DB, username, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Debug("users already seeded, skipping")
		return nil
	}

	hash := password
	if !isBcryptHash(password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("seed bcrypt: %w", err)
		}
		hash = string(hashed)
	}

	_, err := db.Exec(`
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
	`, username, hash)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with admin user", "username", username)
	return nil
}

// isBcryptHash reports whether s looks like a bcrypt hash rather than a
// plain-text password.
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2") && len(s) == 60
}
