package rekognition

import "errors"

var (
	// ErrInvalidImage indicates the image is empty or outside Rekognition's size limits
	ErrInvalidImage = errors.New("invalid image for rekognition")

	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrThrottled indicates the request was rejected by AWS rate limits
	ErrThrottled = errors.New("rekognition request throttled")

	// ErrImageRejected indicates Rekognition could not read the image bytes
	ErrImageRejected = errors.New("rekognition rejected the image")
)
