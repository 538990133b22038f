package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// CreateSubscription вставляет новую запись о покупке курса.
// Уникальный индекс по (user_uid, course_id) — источник истины для
// защиты от двойной подписки: нарушение поднимается как ErrUniqueViolation.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_uid, course_id, price_paid, subscribed_at)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING subscribed_at`
	err := s.DB.QueryRowContext(ctx, query,
		sub.ID, sub.UserUID, sub.CourseID, sub.PricePaid, sub.SubscribedAt).Scan(&sub.SubscribedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &sub, nil
}

// GetSubscription возвращает подписку пользователя на курс, если она есть.
// Отсутствие строки поднимается как ErrNotFound.
func (s *Storage) GetSubscription(ctx context.Context, userUID, courseID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, course_id, price_paid, subscribed_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND course_id = $2`
	row := s.DB.QueryRowContext(ctx, query, userUID, courseID)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.CourseID,
		&result.PricePaid, &result.SubscribedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &result, nil
}

// ListSubscriptionsWithCourses возвращает подписки пользователя вместе с
// актуальными данными курсов, свежие покупки первыми. Поля курса — живые
// данные каталога, price_paid — историческая цена покупки.
func (s *Storage) ListSubscriptionsWithCourses(ctx context.Context, userUID string) ([]models.SubscriptionWithCourse, error) {
	const op = "storage.ListSubscriptionsWithCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_uid, s.course_id, s.price_paid, s.subscribed_at,
			      c.id, c.title, c.description, c.price, c.image_url, c.thumbnail_url, c.created_at
			  FROM subscriptions s
			  JOIN courses c ON s.course_id = c.id
			  WHERE s.user_uid = $1
			  ORDER BY s.subscribed_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.SubscriptionWithCourse
	for rows.Next() {
		var item models.SubscriptionWithCourse
		var imageURL, thumbnailURL sql.NullString
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CourseID, &item.PricePaid, &item.SubscribedAt,
			&item.Course.ID, &item.Course.Title, &item.Course.Description, &item.Course.Price,
			&imageURL, &thumbnailURL, &item.Course.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if imageURL.Valid {
			item.Course.ImageURL = &imageURL.String
		}
		if thumbnailURL.Valid {
			item.Course.ThumbnailURL = &thumbnailURL.String
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
