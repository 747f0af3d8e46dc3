package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// DetectEmotionResponse is returned by POST /detect-emotion
type DetectEmotionResponse struct {
	Emotion    string  `json:"emotion" example:"happy"`
	Confidence float64 `json:"confidence" example:"0.87"`
}

// TrackResponse is one recommended track
type TrackResponse struct {
	Title      string `json:"title" example:"Walking on Sunshine"`
	Artist     string `json:"artist" example:"Katrina and the Waves"`
	AlbumArt   string `json:"album_art" example:"https://i.scdn.co/image/ab67616d0000b273"`
	PreviewURL string `json:"preview_url" example:"https://p.scdn.co/mp3-preview/abc"`
	EmbedURL   string `json:"embed_url" example:"https://open.spotify.com/embed/track/05wIrZSwuaVWhcv5FfqeH0"`
}

// MessageResponse is the plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message" example:"User registered successfully"`
}

// HealthResponse is returned by /health and /ready
type HealthResponse struct {
	Status  string            `json:"status" example:"ok"`
	Version string            `json:"version" example:"1.0.0"`
	Checks  map[string]string `json:"checks,omitempty"`
}

type RegisterRequest struct {
	FirstName string `json:"firstname" example:"Ada"`
	LastName  string `json:"lastname" example:"Lovelace"`
	Email     string `json:"email" example:"ada@example.com"`
	Password  string `json:"password" example:"s3cret!"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"s3cret!"`
}

type LoginResponse struct {
	Message     string `json:"message" example:"Login successful"`
	Username    string `json:"username" example:"Ada"`
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

type EmailRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

type ForgotPasswordRequest struct {
	Email       string `json:"email" example:"ada@example.com"`
	NewPassword string `json:"new_password" example:"n3w-s3cret"`
}

type ProfileResponse struct {
	FirstName  string `json:"firstname" example:"Ada"`
	LastName   string `json:"lastname" example:"Lovelace"`
	Email      string `json:"email" example:"ada@example.com"`
	ProfilePic string `json:"profile_pic" example:"http://localhost:8000/uploads/ada_at_example.com.jpg"`
}

type UploadResponse struct {
	Message string `json:"message" example:"Profile picture uploaded"`
	URL     string `json:"url" example:"http://localhost:8000/uploads/ada_at_example.com.jpg"`
}

// ErrorBody is the payload inside the error envelope
type ErrorBody struct {
	Code    string `json:"code" example:"VALIDATION_FAILED"`
	Message string `json:"message" example:"Request validation failed"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func errResp(code, message, status, description string) response.Response {
	return response.New(ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status, description)
}

var internalError = errResp("INTERNAL_ERROR", "An unexpected error occurred", "500", "Internal Server Error")

var bearerAuth = endpoint.WithSecurity([]map[string][]string{{"BearerAuth": {}}})

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "EmoTune API",
		Version:     "v1.0.0",
		Description: "Detects the emotion on a face photo and recommends music that matches it",
		Host:        "localhost:8000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// Emotion

		endpoint.New(
			endpoint.POST,
			"/detect-emotion",
			endpoint.WithTags("Emotion"),
			endpoint.WithSummary("Detect the emotion of the largest face"),
			endpoint.WithDescription("Accepts an image in the multipart field \"file\" and classifies the largest detected face into one of angry, disgust, fear, happy, neutral, sad, surprise."),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(DetectEmotionResponse{}, "200", "Emotion detected"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("INVALID_IMAGE", "Invalid or unreadable image", "400", "Bad Request"),
				errResp("NO_FACE_DETECTED", "No face detected in image", "400", "Bad Request"),
				errResp("VALIDATION_FAILED", "file is required", "422", "Unprocessable Entity"),
				errResp("RATE_LIMIT_EXCEEDED", "Rate limit exceeded", "429", "Too Many Requests"),
				errResp("CLASSIFICATION_FAILED", "Emotion classification failed", "500", "Internal Server Error"),
				errResp("CLASSIFIER_UNAVAILABLE", "Emotion classifier is not available", "503", "Service Unavailable"),
			}),
		),

		// Recommendations

		endpoint.New(
			endpoint.GET,
			"/recommendations",
			endpoint.WithTags("Recommendations"),
			endpoint.WithSummary("Recommend tracks for an emotion"),
			endpoint.WithDescription("Returns up to ten tracks matching the emotion and language. Unknown pairs fall back to a free-text search."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("emotion", parameter.Query, parameter.WithDescription("Detected emotion, e.g. happy")),
				parameter.StrParam("language", parameter.Query, parameter.WithDescription("Track language (default: English)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New([]TrackResponse{}, "200", "Tracks found"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("NO_TRACKS_FOUND", "No tracks found", "404", "Not Found"),
				errResp("VALIDATION_FAILED", "emotion is required", "422", "Unprocessable Entity"),
				errResp("RATE_LIMIT_EXCEEDED", "Rate limit exceeded", "429", "Too Many Requests"),
				errResp("CATALOG_UPSTREAM_ERROR", "Music catalog request failed", "502", "Bad Gateway"),
				errResp("CATALOG_UNAVAILABLE", "Music catalog is not configured", "503", "Service Unavailable"),
			}),
		),

		// Accounts

		endpoint.New(
			endpoint.POST,
			"/register",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Create an account"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(RegisterRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{Message: "User registered successfully"}, "200", "Account created"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("EMAIL_EXISTS", "Email already exists.", "400", "Bad Request"),
				errResp("VALIDATION_FAILED", "Request validation failed", "422", "Unprocessable Entity"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/login",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Log in"),
			endpoint.WithDescription("Checks the credentials and returns a bearer token for the profile routes"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(LoginRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LoginResponse{}, "200", "Logged in"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("INCORRECT_PASSWORD", "Incorrect password.", "401", "Unauthorized"),
				errResp("USER_NOT_FOUND", "User not found.", "404", "Not Found"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/check-user",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Check whether an account exists"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(EmailRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{Message: "User exists"}, "200", "Account exists"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("USER_NOT_FOUND", "User not found.", "404", "Not Found"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/forgot-password",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Set a new password by email"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(ForgotPasswordRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{Message: "Password updated successfully."}, "200", "Password updated"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("RESET_FIELDS_REQUIRED", "Email and new password are required.", "400", "Bad Request"),
				errResp("ACCOUNT_NOT_FOUND", "No account found with that email.", "404", "Not Found"),
				internalError,
			}),
		),

		endpoint.New(
			endpoint.POST,
			"/send-reset-link",
			endpoint.WithTags("Accounts"),
			endpoint.WithSummary("Email a password reset link"),
			endpoint.WithDescription("Takes the form field \"email\" and sends a link to the frontend reset page"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("application/x-www-form-urlencoded")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{Message: "Reset link sent successfully to ada@example.com"}, "200", "Link sent"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("EMAIL_NOT_REGISTERED", "Email not registered.", "404", "Not Found"),
				errResp("MAIL_DELIVERY_FAILED", "Failed to send email", "500", "Internal Server Error"),
				errResp("MAILER_UNAVAILABLE", "Email delivery not configured", "503", "Service Unavailable"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/profile",
			endpoint.WithTags("Profile"),
			endpoint.WithSummary("Get the caller's profile"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ProfileResponse{}, "200", "Profile"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("UNAUTHORIZED", "Invalid or missing token", "401", "Unauthorized"),
				errResp("USER_NOT_FOUND", "User not found.", "404", "Not Found"),
				internalError,
			}),
			bearerAuth,
		),

		endpoint.New(
			endpoint.POST,
			"/upload-profile-pic",
			endpoint.WithTags("Profile"),
			endpoint.WithSummary("Replace the caller's profile picture"),
			endpoint.WithDescription("Takes an image in the multipart field \"file\" and stores it as JPEG under /uploads"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "200", "Picture stored"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("INVALID_IMAGE", "Invalid or unreadable image", "400", "Bad Request"),
				errResp("UNAUTHORIZED", "Invalid or missing token", "401", "Unauthorized"),
				errResp("USER_NOT_FOUND", "User not found.", "404", "Not Found"),
				internalError,
			}),
			bearerAuth,
		),

		endpoint.New(
			endpoint.POST,
			"/change-password",
			endpoint.WithTags("Profile"),
			endpoint.WithSummary("Change the caller's password"),
			endpoint.WithDescription("Takes the form fields \"old_password\" and \"new_password\""),
			endpoint.WithConsume([]mime.MIME{mime.MIME("application/x-www-form-urlencoded")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(MessageResponse{Message: "Password changed successfully"}, "200", "Password changed"),
			}),
			endpoint.WithErrors([]response.Response{
				errResp("UNAUTHORIZED", "Invalid or missing token", "401", "Unauthorized"),
				errResp("OLD_PASSWORD_INCORRECT", "Old password is incorrect.", "401", "Unauthorized"),
				errResp("VALIDATION_FAILED", "old_password and new_password are required", "422", "Unprocessable Entity"),
				internalError,
			}),
			bearerAuth,
		),

		// Health

		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness check"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Service is up"),
			}),
		),

		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness check"),
			endpoint.WithDescription("Reports the classifier, database and cache checks"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "All checks pass"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "degraded"}, "503", "A check failed"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
