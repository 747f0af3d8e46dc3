package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/emotune/emotune/internal/api/middleware"
	"github.com/emotune/emotune/internal/domain"
	"github.com/emotune/emotune/internal/service"
)

// AccountService is implemented by *service.AccountService
type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	CheckUser(ctx context.Context, email string) error
	ForgotPassword(ctx context.Context, email, newPassword string) error
	SendResetLink(ctx context.Context, email string) error
	Profile(ctx context.Context, email string) (*domain.User, error)
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	UploadProfilePicture(ctx context.Context, email string, raw []byte) (string, error)
}

type AccountHandler struct {
	service AccountService
	logger  *slog.Logger
}

func NewAccountHandler(service AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{service: service, logger: logger}
}

type RegisterRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

type ProfileResponse struct {
	FirstName  string  `json:"firstname"`
	LastName   string  `json:"lastname"`
	Email      string  `json:"email"`
	ProfilePic *string `json:"profile_pic"`
}

type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// Register POST /register
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if _, err := h.service.Register(c.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "User registered successfully"})
}

// Login POST /login - returns a bearer token for the account routes
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Message:     "Login successful",
		Username:    result.User.FirstName,
		AccessToken: result.Token,
		TokenType:   "bearer",
	})
}

// CheckUser POST /check-user
func (h *AccountHandler) CheckUser(c *fiber.Ctx) error {
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if err := h.service.CheckUser(c.Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "User exists"})
}

// ForgotPassword POST /forgot-password
func (h *AccountHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if err := h.service.ForgotPassword(c.Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: "Password updated successfully."})
}

// SendResetLink POST /send-reset-link (form field email)
func (h *AccountHandler) SendResetLink(c *fiber.Ctx) error {
	email := c.FormValue("email")
	if email == "" {
		return domain.ErrValidationFailed.WithError(errors.New("email is required"))
	}

	if err := h.service.SendResetLink(c.Context(), email); err != nil {
		return err
	}

	return c.JSON(MessageResponse{Message: fmt.Sprintf("Reset link sent successfully to %s", domain.NormalizeEmail(email))})
}

// Profile GET /profile
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	email, err := middleware.GetUserEmail(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(ProfileResponse{
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		ProfilePic: user.ProfilePic,
	})
}

// UploadProfilePicture POST /upload-profile-pic (form field file)
func (h *AccountHandler) UploadProfilePicture(c *fiber.Ctx) error {
	email, err := middleware.GetUserEmail(c)
	if err != nil {
		return err
	}

	raw, err := readUpload(c)
	if err != nil {
		return err
	}

	url, err := h.service.UploadProfilePicture(c.Context(), email, raw)
	if err != nil {
		return err
	}

	return c.JSON(UploadResponse{Message: "Profile picture uploaded", URL: url})
}

// ChangePassword POST /change-password (form fields old_password, new_password)
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	email, err := middleware.GetUserEmail(c)
	if err != nil {
		return err
	}

	oldPassword := c.FormValue("old_password")
	newPassword := c.FormValue("new_password")
	if oldPassword == "" || newPassword == "" {
		return domain.ErrValidationFailed.WithError(errors.New("old_password and new_password are required"))
	}

	if err := h.service.ChangePassword(c.Context(), email, oldPassword, newPassword); err != nil {
		return err
	}

	h.logger.Info("password changed", slog.String("email", email))
	return c.JSON(MessageResponse{Message: "Password changed successfully"})
}
