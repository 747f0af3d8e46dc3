//go:build integration

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emotune/emotune/internal/api/handler"
	"github.com/emotune/emotune/internal/audit"
	"github.com/emotune/emotune/internal/auth"
	"github.com/emotune/emotune/internal/database"
	"github.com/emotune/emotune/internal/repository"
	"github.com/emotune/emotune/internal/service"
	"github.com/emotune/emotune/internal/storage"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "emotune_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")
	connStr := fmt.Sprintf("postgres://test:test@%s:%s/emotune_test?sslmode=disable", host, port.Port())

	sqlDB, err := database.OpenSQL(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	migrator, err := database.NewMigrator(sqlDB, "emotune_test")
	if err != nil {
		fmt.Printf("Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}
	_ = migrator.Close()

	testDB, err = database.NewPool(ctx, database.DefaultPoolConfig(connStr))
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	testDB.Close()
	if err := container.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate container: %v\n", err)
	}
	os.Exit(code)
}

func newAccountRouter(t *testing.T) *Router {
	t.Helper()

	uploads := t.TempDir()
	store, err := storage.NewLocalStore(uploads, "http://localhost:8000")
	require.NoError(t, err)

	tokens := auth.NewTokenService("integration-secret", "emotune", time.Hour)
	accounts := service.NewAccountService(
		repository.NewUserRepository(testDB),
		auth.NewPasswordHasher(4),
		tokens,
		store,
		&audit.NoOpLogger{},
	)

	router := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), &Dependencies{
		Accounts:  accounts,
		Tokens:    tokens,
		UploadDir: uploads,
		Checks: map[string]handler.ReadinessCheck{
			"database": func(ctx context.Context) error { return database.HealthCheck(ctx, testDB) },
		},
	})
	router.Setup()
	t.Cleanup(func() { _ = router.Shutdown() })
	return router
}

func postJSON(t *testing.T, router *Router, path string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestIntegration_AccountLifecycle(t *testing.T) {
	router := newAccountRouter(t)
	email := fmt.Sprintf("ada-%d@example.com", time.Now().UnixNano())

	resp := postJSON(t, router, "/register", map[string]string{
		"firstname": "Ada",
		"lastname":  "Lovelace",
		"email":     email,
		"password":  "s3cret!",
	})
	require.Equal(t, 200, resp.StatusCode)

	resp = postJSON(t, router, "/register", map[string]string{
		"firstname": "Ada",
		"lastname":  "Lovelace",
		"email":     strings.ToUpper(email),
		"password":  "other",
	})
	assert.Equal(t, 400, resp.StatusCode, "emails are unique regardless of case")

	resp = postJSON(t, router, "/check-user", map[string]string{"email": email})
	assert.Equal(t, 200, resp.StatusCode)

	resp = postJSON(t, router, "/login", map[string]string{"email": email, "password": "wrong"})
	assert.Equal(t, 401, resp.StatusCode)

	resp = postJSON(t, router, "/login", map[string]string{"email": email, "password": "s3cret!"})
	require.Equal(t, 200, resp.StatusCode)
	var login map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	assert.Equal(t, "Ada", login["username"])
	token := login["access_token"]
	require.NotEmpty(t, token)

	// profile
	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var profile map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, email, profile["email"])
	assert.Nil(t, profile["profile_pic"])

	// upload picture, then fetch it from /uploads
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 32, 32))))
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req = httptest.NewRequest("POST", "/upload-profile-pic", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = router.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var upload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&upload))
	picPath := strings.TrimPrefix(upload["url"], "http://localhost:8000")
	assert.Equal(t, "/uploads/"+storage.ProfilePictureName(email), picPath)

	resp, err = router.App().Test(httptest.NewRequest("GET", picPath, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// change password, then log in with the new one
	req = httptest.NewRequest("POST", "/change-password", strings.NewReader("old_password=s3cret!&new_password=n3w-s3cret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = router.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp = postJSON(t, router, "/login", map[string]string{"email": email, "password": "n3w-s3cret"})
	assert.Equal(t, 200, resp.StatusCode)

	// forgot password replaces it again without the old one
	resp = postJSON(t, router, "/forgot-password", map[string]string{"email": email, "new_password": "reset-1"})
	assert.Equal(t, 200, resp.StatusCode)
	resp = postJSON(t, router, "/login", map[string]string{"email": email, "password": "reset-1"})
	assert.Equal(t, 200, resp.StatusCode)
}

func TestIntegration_ProfileRequiresToken(t *testing.T) {
	router := newAccountRouter(t)

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestIntegration_SendResetLinkWithoutMailer(t *testing.T) {
	router := newAccountRouter(t)

	req := httptest.NewRequest("POST", "/send-reset-link", strings.NewReader("email=ada@example.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := router.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestIntegration_ReadyEndpoint(t *testing.T) {
	router := newAccountRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/ready", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
