package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/course-marketplace/internal/apperr"
	"github.com/magabrotheeeer/course-marketplace/internal/models"
	"github.com/magabrotheeeer/course-marketplace/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) GetSubscription(ctx context.Context, userUID, courseID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptionsWithCourses(ctx context.Context, userUID string) ([]models.SubscriptionWithCourse, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionWithCourse), args.Error(1)
}

func (m *RepoMock) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, routingKey string, message any) error {
	return m.Called(exchange, routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const (
	userUID  = "550e8400-e29b-41d4-a716-446655440000"
	courseID = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
)

func notFoundErr() error {
	return fmt.Errorf("storage.GetSubscription: %w", repository.ErrNotFound)
}

func knownUser() *models.User {
	return &models.User{UID: userUID, Email: "buyer@example.com"}
}

func paidCourse(price float64) *models.Course {
	return &models.Course{
		ID:          courseID,
		Title:       "Go с нуля",
		Description: "Основы языка Go",
		Price:       price,
		CreatedAt:   time.Now(),
	}
}

func TestSubscriptionService_Subscribe_Pricing(t *testing.T) {
	tests := []struct {
		name          string
		coursePrice   float64
		promoCode     string
		wantPricePaid float64
		wantErrKind   apperr.Kind
		wantErr       bool
	}{
		{
			name:          "free course without promo code",
			coursePrice:   0,
			promoCode:     "",
			wantPricePaid: 0,
		},
		{
			name:          "free course ignores any promo code",
			coursePrice:   0,
			promoCode:     "TOTALLY-INVALID",
			wantPricePaid: 0,
		},
		{
			name:          "paid course with valid promo code",
			coursePrice:   100.00,
			promoCode:     "BFSALE25",
			wantPricePaid: 50.00,
		},
		{
			name:          "paid course rounds discounted price",
			coursePrice:   33.33,
			promoCode:     "BFSALE25",
			wantPricePaid: 16.67,
		},
		{
			name:        "paid course without promo code",
			coursePrice: 100.00,
			promoCode:   "",
			wantErr:     true,
			wantErrKind: apperr.KindValidation,
		},
		{
			name:        "paid course with unknown promo code",
			coursePrice: 100.00,
			promoCode:   "SUMMER10",
			wantErr:     true,
			wantErrKind: apperr.KindValidation,
		},
		{
			name:        "paid course with lowercase promo code",
			coursePrice: 100.00,
			promoCode:   "bfsale25",
			wantErr:     true,
			wantErrKind: apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &RepoMock{}
			repo.On("GetUser", mock.Anything, userUID).
				Return(knownUser(), nil).Once()
			repo.On("GetSubscription", mock.Anything, userUID, courseID).
				Return(nil, notFoundErr()).Once()
			repo.On("GetCourse", mock.Anything, courseID).
				Return(paidCourse(tt.coursePrice), nil).Once()
			if !tt.wantErr {
				repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.UserUID == userUID && s.CourseID == courseID &&
						s.PricePaid == tt.wantPricePaid && s.ID != ""
				})).Return(&models.Subscription{
					ID:           "sub-id",
					UserUID:      userUID,
					CourseID:     courseID,
					PricePaid:    tt.wantPricePaid,
					SubscribedAt: time.Now().UTC(),
				}, nil).Once()
			}

			svc := NewSubscriptionService(repo, nil, newNoopLogger())
			sub, err := svc.Subscribe(context.Background(), userUID, courseID, tt.promoCode)

			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantErrKind, appErr.Kind)
				repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPricePaid, sub.PricePaid)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Subscribe_Conflicts(t *testing.T) {
	t.Run("deleted user maps to auth error", func(t *testing.T) {
		// Токен еще жив, а пользователя уже нет: покупка отклоняется
		// до каких-либо обращений к подпискам и каталогу.
		repo := &RepoMock{}
		repo.On("GetUser", mock.Anything, userUID).
			Return(nil, fmt.Errorf("storage.GetUser: %w", repository.ErrNotFound)).Once()

		svc := NewSubscriptionService(repo, nil, newNoopLogger())
		_, err := svc.Subscribe(context.Background(), userUID, courseID, "BFSALE25")

		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindAuth, appErr.Kind)
		repo.AssertNotCalled(t, "GetSubscription", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})

	t.Run("existing subscription found by fast path", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("GetUser", mock.Anything, userUID).
			Return(knownUser(), nil).Once()
		repo.On("GetSubscription", mock.Anything, userUID, courseID).
			Return(&models.Subscription{ID: "existing"}, nil).Once()

		svc := NewSubscriptionService(repo, nil, newNoopLogger())
		_, err := svc.Subscribe(context.Background(), userUID, courseID, "BFSALE25")

		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
		repo.AssertNotCalled(t, "GetCourse", mock.Anything, mock.Anything)
	})

	t.Run("unique violation from storage maps to conflict", func(t *testing.T) {
		// Гонка двух запросов: быстрый путь никого не заметил,
		// вставку отклонил уникальный индекс.
		repo := &RepoMock{}
		repo.On("GetUser", mock.Anything, userUID).
			Return(knownUser(), nil).Once()
		repo.On("GetSubscription", mock.Anything, userUID, courseID).
			Return(nil, notFoundErr()).Once()
		repo.On("GetCourse", mock.Anything, courseID).
			Return(paidCourse(100.00), nil).Once()
		repo.On("CreateSubscription", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("storage.CreateSubscription: %w", repository.ErrUniqueViolation)).Once()

		svc := NewSubscriptionService(repo, nil, newNoopLogger())
		_, err := svc.Subscribe(context.Background(), userUID, courseID, "BFSALE25")

		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
		assert.Equal(t, "already subscribed", appErr.Msg)
		repo.AssertExpectations(t)
	})

	t.Run("missing course maps to not found", func(t *testing.T) {
		repo := &RepoMock{}
		repo.On("GetUser", mock.Anything, userUID).
			Return(knownUser(), nil).Once()
		repo.On("GetSubscription", mock.Anything, userUID, courseID).
			Return(nil, notFoundErr()).Once()
		repo.On("GetCourse", mock.Anything, courseID).
			Return(nil, fmt.Errorf("storage.GetCourse: %w", repository.ErrNotFound)).Once()

		svc := NewSubscriptionService(repo, nil, newNoopLogger())
		_, err := svc.Subscribe(context.Background(), userUID, courseID, "BFSALE25")

		require.Error(t, err)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotFound, appErr.Kind)
		repo.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_Subscribe_PublishesReceipt(t *testing.T) {
	repo := &RepoMock{}
	repo.On("GetUser", mock.Anything, userUID).
		Return(knownUser(), nil).Once()
	repo.On("GetSubscription", mock.Anything, userUID, courseID).
		Return(nil, notFoundErr()).Once()
	repo.On("GetCourse", mock.Anything, courseID).
		Return(paidCourse(100.00), nil).Once()
	repo.On("CreateSubscription", mock.Anything, mock.Anything).
		Return(&models.Subscription{
			ID:        "sub-id",
			UserUID:   userUID,
			CourseID:  courseID,
			PricePaid: 50.00,
		}, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", "receipts", "purchase", mock.MatchedBy(func(msg any) bool {
		event, ok := msg.(PurchaseEvent)
		return ok && event.SubscriptionID == "sub-id" && event.PricePaid == 50.00
	})).Return(nil).Once()

	svc := NewSubscriptionService(repo, publisher, newNoopLogger())
	_, err := svc.Subscribe(context.Background(), userUID, courseID, "BFSALE25")
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestSubscriptionService_Subscribe_PublishFailureIsNotFatal(t *testing.T) {
	repo := &RepoMock{}
	repo.On("GetUser", mock.Anything, userUID).
		Return(knownUser(), nil).Once()
	repo.On("GetSubscription", mock.Anything, userUID, courseID).
		Return(nil, notFoundErr()).Once()
	repo.On("GetCourse", mock.Anything, courseID).
		Return(paidCourse(0), nil).Once()
	repo.On("CreateSubscription", mock.Anything, mock.Anything).
		Return(&models.Subscription{ID: "sub-id"}, nil).Once()

	publisher := &PublisherMock{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("broker unavailable")).Once()

	svc := NewSubscriptionService(repo, publisher, newNoopLogger())
	sub, err := svc.Subscribe(context.Background(), userUID, courseID, "")
	require.NoError(t, err)
	assert.Equal(t, "sub-id", sub.ID)
}

func TestSubscriptionService_ListForUser(t *testing.T) {
	expected := []models.SubscriptionWithCourse{
		{Subscription: models.Subscription{ID: "newer"}},
		{Subscription: models.Subscription{ID: "older"}},
	}
	repo := &RepoMock{}
	repo.On("ListSubscriptionsWithCourses", mock.Anything, userUID).Return(expected, nil).Once()

	svc := NewSubscriptionService(repo, nil, newNoopLogger())
	got, err := svc.ListForUser(context.Background(), userUID)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
	repo.AssertExpectations(t)
}
