// Package services содержит бизнес-логику оформления подписок на курсы:
// проверку промокода, расчет цены и защиту от двойной покупки.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/lib/promo"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает сохраненную запись.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// GetSubscription возвращает подписку пользователя на курс, если она есть.
	GetSubscription(ctx context.Context, userUID, courseID string) (*models.Subscription, error)
	// ListSubscriptionsWithCourses возвращает подписки пользователя с данными курсов.
	ListSubscriptionsWithCourses(ctx context.Context, userUID string) ([]models.SubscriptionWithCourse, error)
	// GetCourse возвращает курс по ID.
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ReceiptPublisher публикует событие о покупке курса.
type ReceiptPublisher interface {
	Publish(exchange, routingKey string, message any) error
}

// PurchaseEvent — сообщение о покупке, уходящее в очередь чеков.
type PurchaseEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	UserUID        string    `json:"user_uid"`
	CourseID       string    `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	PricePaid      float64   `json:"price_paid"`
	SubscribedAt   time.Time `json:"subscribed_at"`
}

// SubscriptionService реализует бизнес-логику покупки курсов.
type SubscriptionService struct {
	repo     SubscriptionRepository
	receipts ReceiptPublisher // nil — публикация событий отключена
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, receipts ReceiptPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		receipts: receipts,
		log:      log,
	}
}

// Subscribe оформляет подписку пользователя на курс и возвращает созданную запись.
//
// Для бесплатного курса промокод не требуется и игнорируется, цена покупки — 0.
// Для платного курса промокод обязателен и должен точно совпадать с
// распознаваемым кодом; тогда цена покупки — цена курса со скидкой.
//
// Токен сессии живет 7 дней, за это время пользователь мог быть удален:
// покупка от имени несуществующего пользователя отклоняется как
// неавторизованная, а не падает на внешнем ключе хранилища.
//
// Предварительная проверка существующей подписки — только быстрый путь.
// Гарантию "не более одной подписки на пару пользователь-курс" при гонке
// дает уникальный индекс хранилища: его нарушение приходит сюда как
// repository.ErrUniqueViolation и отображается в ту же ошибку конфликта.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID, courseID, promoCode string) (*models.Subscription, error) {
	if _, err := s.repo.GetUser(ctx, userUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Auth("user not found")
		}
		return nil, err
	}

	_, err := s.repo.GetSubscription(ctx, userUID, courseID)
	if err == nil {
		return nil, apperr.Conflict("already subscribed")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("course not found")
		}
		return nil, err
	}

	var pricePaid float64
	if course.Price > 0 {
		if promoCode == "" {
			return nil, apperr.Validation("promo code required for paid courses")
		}
		if !promo.IsValid(promoCode) {
			return nil, apperr.Validation("invalid promo code")
		}
		pricePaid = promo.ApplyDiscount(course.Price)
	}

	sub := models.Subscription{
		ID:           uuid.NewString(),
		UserUID:      userUID,
		CourseID:     courseID,
		PricePaid:    pricePaid,
		SubscribedAt: time.Now().UTC(),
	}
	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, apperr.Conflict("already subscribed")
		}
		return nil, err
	}
	s.log.Info("created new subscription",
		slog.String("id", created.ID),
		slog.String("course_id", created.CourseID))

	s.publishReceipt(created, course)

	return created, nil
}

// ListForUser возвращает подписки пользователя с актуальными данными курсов,
// свежие покупки первыми.
func (s *SubscriptionService) ListForUser(ctx context.Context, userUID string) ([]models.SubscriptionWithCourse, error) {
	return s.repo.ListSubscriptionsWithCourses(ctx, userUID)
}

// publishReceipt отправляет событие о покупке в очередь чеков.
// Сбой публикации логируется и никогда не проваливает покупку.
func (s *SubscriptionService) publishReceipt(sub *models.Subscription, course *models.Course) {
	if s.receipts == nil {
		return
	}
	event := PurchaseEvent{
		SubscriptionID: sub.ID,
		UserUID:        sub.UserUID,
		CourseID:       sub.CourseID,
		CourseTitle:    course.Title,
		PricePaid:      sub.PricePaid,
		SubscribedAt:   sub.SubscribedAt,
	}
	if err := s.receipts.Publish("receipts", "purchase", event); err != nil {
		s.log.Warn("failed to publish purchase event",
			slog.String("subscription_id", sub.ID), slog.Any("err", err))
	}
}
