// Package coursemarketplace предоставляет маршруты для основного приложения.
package coursemarketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/auth/signup"
	courselist "github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/list"
	courseread "github.com/magabrotheeeer/course-marketplace/internal/http/handlers/course/read"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/subscription/mycourses"
	"github.com/magabrotheeeer/course-marketplace/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/course-marketplace/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/course-marketplace/internal/services/auth"
	courseservice "github.com/magabrotheeeer/course-marketplace/internal/services/course"
	subservice "github.com/magabrotheeeer/course-marketplace/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser middlewarectx.TokenParser,
	authService *authservice.AuthService, courseService *courseservice.CourseService,
	subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/auth/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/courses", courselist.New(logger, courseService).ServeHTTP)
		r.Get("/courses/{id}", courseread.New(logger, courseService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/subscribe", subscribe.New(logger, subscriptionService).ServeHTTP)
			r.Get("/my-courses", mycourses.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Только оболочка Swagger UI: сгенерированный doc.json в репозитории
	// не хранится, спецификацию нужно собрать swag-ом перед использованием.
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
