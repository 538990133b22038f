// Package services содержит бизнес-логику чтения каталога курсов с кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

// catalogTTL — время жизни каталога в кеше. Каталог меняется только
// сидированием, поэтому устаревание на несколько минут допустимо.
const catalogTTL = 5 * time.Minute

// CourseRepository определяет методы для чтения каталога курсов из хранилища.
type CourseRepository interface {
	// ListCourses возвращает весь каталог, новые первыми.
	ListCourses(ctx context.Context) ([]models.Course, error)
	// GetCourse возвращает курс по ID.
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// CourseService реализует чтение каталога курсов через кеш.
type CourseService struct {
	repo  CourseRepository
	cache Cache
	log   *slog.Logger
}

// NewCourseService создает новый экземпляр CourseService.
func NewCourseService(repo CourseRepository, cache Cache, log *slog.Logger) *CourseService {
	return &CourseService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListAll возвращает каталог курсов, используя кеш или репозиторий.
func (s *CourseService) ListAll(ctx context.Context) ([]models.Course, error) {
	const cacheKey = "courses:all"

	var cached []models.Course
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read courses from cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, courses, catalogTTL); err != nil {
		s.log.Warn("failed to cache courses", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return courses, nil
}

// GetByID возвращает курс по ID, используя кеш или репозиторий.
func (s *CourseService) GetByID(ctx context.Context, courseID string) (*models.Course, error) {
	cacheKey := fmt.Sprintf("course:%s", courseID)

	var cached *models.Course
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read course from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	course, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("course not found")
		}
		return nil, err
	}
	if err := s.cache.Set(cacheKey, course, catalogTTL); err != nil {
		s.log.Warn("failed to cache course", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return course, nil
}
