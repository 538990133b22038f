// Package models содержит доменные структуры, описывающие подписку на курс,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Subscription представляет собой запись о покупке курса пользователем.
// Запись создаётся один раз операцией подписки и никогда не обновляется;
// пара (UserUID, CourseID) уникальна на уровне хранилища.
type Subscription struct {
	ID           string    `json:"id"`            // Уникальный идентификатор записи
	UserUID      string    `json:"user_id"`       // Пользователь, купивший курс
	CourseID     string    `json:"course_id"`     // Купленный курс
	PricePaid    float64   `json:"price_paid"`    // Фактически уплаченная цена (историческая)
	SubscribedAt time.Time `json:"subscribed_at"` // Момент покупки
}

// SubscriptionWithCourse объединяет подписку с текущим состоянием курса.
// Поля курса отражают актуальные данные каталога на момент чтения,
// PricePaid остаётся исторической ценой покупки.
type SubscriptionWithCourse struct {
	Subscription
	Course Course `json:"course"`
}

// SubscribeRequest используется для приёма данных из JSON-запроса на подписку.
type SubscribeRequest struct {
	CourseID  string `json:"course_id" validate:"required,uuid"` // Идентификатор курса
	PromoCode string `json:"promo_code"`                         // Промокод, обязателен для платных курсов
}
