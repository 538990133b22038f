// Package models содержит доменную модель курса.
// Курсы создаются через сидирование или админ-процесс и доступны
// сервису только на чтение.
package models

import "time"

// Course представляет курс в каталоге маркетплейса.
type Course struct {
	ID           string    `json:"id"`                      // Уникальный идентификатор курса
	Title        string    `json:"title"`                   // Название курса
	Description  string    `json:"description"`             // Описание курса
	Price        float64   `json:"price"`                   // Цена курса, 0 означает бесплатный
	ImageURL     *string   `json:"image_url,omitempty"`     // Ссылка на обложку
	ThumbnailURL *string   `json:"thumbnail_url,omitempty"` // Ссылка на миниатюру
	CreatedAt    time.Time `json:"created_at"`              // Дата добавления в каталог
}
