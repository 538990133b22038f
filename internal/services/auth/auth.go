// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"regexp"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// emailPattern — базовая проверка формата local@domain.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// minPasswordLen — минимальная длина пароля при регистрации.
const minPasswordLen = 8

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает сохраненную запись.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя и возвращает его вместе с токеном сессии.
//
// Некорректный email или короткий пароль дают ошибку валидации с перечислением
// полей. Уже занятый email дает ошибку конфликта: уникальный индекс в базе —
// источник истины, сравнение точное, без приведения регистра.
func (s *AuthService) Register(ctx context.Context, email, rawPassword string, name *string) (*models.User, string, error) {
	fields := make(map[string]string)
	if !emailPattern.MatchString(email) {
		fields["email"] = "must be a valid email address"
	}
	if len(rawPassword) < minPasswordLen {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, "", apperr.ValidationFields("invalid signup data", fields)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, "", apperr.Conflict("email already registered")
		}
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(created.UID)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login проверяет пароль пользователя и генерирует свежий JWT.
//
// Неизвестный email и неверный пароль неотличимы для вызывающего:
// оба случая возвращают одну и ту же ошибку, чтобы исключить перечисление
// зарегистрированных адресов. Ранее выданные токены остаются действительными.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Auth("invalid credentials")
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", apperr.Auth("invalid credentials")
	}
	token, err := s.jwtMaker.GenerateToken(user.UID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
