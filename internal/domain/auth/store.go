package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	IsOverride   bool      `json:"isOverride"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, full_name, role, COALESCE(is_override, false), created_at
    FROM users
    WHERE email = $1
  `, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role, &user.IsOverride, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return user, err
}
