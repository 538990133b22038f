package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает дату регистрации.
// Дубликат email поднимается как ErrUniqueViolation.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, email, name, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Email, user.Name, user.PasswordHash).Scan(&user.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email. Сравнение точное,
// без приведения регистра. Отсутствие строки поднимается как ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, name, password_hash, created_at
			  FROM users
			  WHERE email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var name sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	if name.Valid {
		u.Name = &name.String
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, name, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var name sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &name, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	if name.Valid {
		u.Name = &name.String
	}
	return u, nil
}
