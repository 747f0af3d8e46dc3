package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/emotune/emotune/internal/domain"
)

const (
	// MaxImageSize caps image uploads
	MaxImageSize = 10 * 1024 * 1024 // 10MB

	uploadField = "file"
)

// readUpload reads the multipart file field into memory
func readUpload(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile(uploadField)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("%s field is required: %w", uploadField, err))
	}

	if file.Size > MaxImageSize {
		return nil, domain.ErrInvalidImage.WithError(fmt.Errorf("upload is %d bytes, limit is %d", file.Size, MaxImageSize))
	}
	if file.Size == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("upload is empty"))
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return raw, nil
}
