// Package models содержит доменную модель пользователя маркетплейса,
// включающую данные учётной записи, хэш пароля и дату регистрации.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    `json:"id"`             // Уникальный идентификатор пользователя
	Email        string    `json:"email"`          // Электронная почта (уникальная, сравнение точное)
	Name         *string   `json:"name,omitempty"` // Отображаемое имя, необязательное
	PasswordHash string    `json:"-"`              // Хэш пароля, никогда не сериализуется
	CreatedAt    time.Time `json:"created_at"`     // Дата регистрации
}
