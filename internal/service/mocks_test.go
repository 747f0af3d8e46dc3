package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/emotion"
	"github.com/emotune/emotune/internal/frame"
)

type MockLocator struct {
	mock.Mock
}

func (m *MockLocator) Locate(ctx context.Context, f *frame.Frame) ([]domain.FaceRegion, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FaceRegion), args.Error(1)
}

func (m *MockLocator) Close() error {
	return nil
}

type MockModel struct {
	mock.Mock
}

func (m *MockModel) Predict(ctx context.Context, face emotion.NormalizedFace) ([]float32, error) {
	args := m.Called(ctx, face)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockModel) Close() error {
	return nil
}

type MockAuditLogger struct {
	mock.Mock
}

func (m *MockAuditLogger) Log(ctx context.Context, event audit.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error) {
	args := m.Called(ctx, emotion, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Track), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	args := m.Called(ctx, email, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfilePic(ctx context.Context, email, url string) error {
	args := m.Called(ctx, email, url)
	return args.Error(0)
}

type MockHasher struct {
	mock.Mock
}

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID uuid.UUID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendResetLink(ctx context.Context, to, firstName string) error {
	args := m.Called(ctx, to, firstName)
	return args.Error(0)
}

type MockPictureStore struct {
	mock.Mock
}

func (m *MockPictureStore) SaveProfilePicture(ctx context.Context, email string, raw []byte) (string, error) {
	args := m.Called(ctx, email, raw)
	return args.String(0), args.Error(1)
}
