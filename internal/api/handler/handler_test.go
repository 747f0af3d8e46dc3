package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emotune/emotune/internal/api/middleware"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/service"
)

// testLogger returns a logger that discards all output
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp wires the production error handler and, when email is set,
// simulates an authenticated account.
func newTestApp(email string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
		BodyLimit:    MaxImageSize + 1024*1024,
	})
	if email != "" {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(middleware.LocalUserID, uuid.New())
			c.Locals(middleware.LocalUserEmail, email)
			return c.Next()
		})
	}
	return app
}

// multipartBody builds a form with an optional file part and extra fields
func multipartBody(t *testing.T, file []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "capture.jpg")
		require.NoError(t, err)
		_, _ = part.Write(file)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func jsonRequest(method, target string, v any) *http.Request {
	data, _ := json.Marshal(v)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, fields url.Values) *http.Request {
	req := httptest.NewRequest("POST", target, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, resp *http.Response) middleware.ErrorResponse {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

type MockEmotionDetector struct {
	mock.Mock
}

func (m *MockEmotionDetector) Detect(ctx context.Context, raw []byte) (*domain.Detection, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Detection), args.Error(1)
}

type MockTrackRecommender struct {
	mock.Mock
}

func (m *MockTrackRecommender) Recommend(ctx context.Context, emotion, language string) ([]domain.Track, error) {
	args := m.Called(ctx, emotion, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Track), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAccountService) CheckUser(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAccountService) ForgotPassword(ctx context.Context, email, newPassword string) error {
	return m.Called(ctx, email, newPassword).Error(0)
}

func (m *MockAccountService) SendResetLink(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAccountService) Profile(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	return m.Called(ctx, email, oldPassword, newPassword).Error(0)
}

func (m *MockAccountService) UploadProfilePicture(ctx context.Context, email string, raw []byte) (string, error) {
	args := m.Called(ctx, email, raw)
	return args.String(0), args.Error(1)
}
