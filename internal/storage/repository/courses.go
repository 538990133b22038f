package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-marketplace/internal/models"
)

// ListCourses возвращает весь каталог курсов, новые первыми.
func (s *Storage) ListCourses(ctx context.Context) ([]models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, image_url, thumbnail_url, created_at
			  FROM courses
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Course
	for rows.Next() {
		item, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCourse возвращает курс по его ID. Отсутствие строки поднимается как ErrNotFound.
func (s *Storage) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, description, price, image_url, thumbnail_url, created_at
			  FROM courses
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, courseID)
	item, err := scanCourse(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var c models.Course
	var imageURL, thumbnailURL sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price,
		&imageURL, &thumbnailURL, &c.CreatedAt); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	if thumbnailURL.Valid {
		c.ThumbnailURL = &thumbnailURL.String
	}
	return &c, nil
}
