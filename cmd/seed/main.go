package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/adiwidodo/member-portal/config"
	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "password123"
	username := "admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s username=%s password=%s\n", userID, email, username, password)

	// User type names are not unique, so probe before inserting
	var typeID int64
	err = db.QueryRow(`SELECT id FROM user_types WHERE name = $1 ORDER BY id LIMIT 1`, entity.SuperUserType).Scan(&typeID)
	if err == sql.ErrNoRows {
		err = db.QueryRow(`INSERT INTO user_types (name) VALUES ($1) RETURNING id`, entity.SuperUserType).Scan(&typeID)
	}
	if err != nil {
		log.Fatalf("failed to ensure %s type: %v", entity.SuperUserType, err)
	}
	fmt.Printf("user type ensured: %s=%d\n", entity.SuperUserType, typeID)

	if _, err := db.Exec(`
		INSERT INTO user_type_members (user_type_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_type_id, user_id) DO NOTHING
	`, typeID, userID); err != nil {
		log.Fatalf("failed to assign %s: %v", entity.SuperUserType, err)
	}
	fmt.Printf("assigned %s to seeded user (if not already)\n", entity.SuperUserType)
}
