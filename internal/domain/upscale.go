package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Upload limits enforced before anything is sent to the remote service.
const (
	MaxImagesPerRequest = 3
	MinImagesPerRequest = 1
)

// Request defaults, matching what the remote service expects when a caller
// leaves a field out.
const (
	DefaultModel       = "upscayl-standard-4x"
	DefaultScale       = "4"
	DefaultSaveImageAs = "jpg"
	DefaultEnhanceFace = true
)

// AllowedContentTypes lists the image types accepted for upload.
var AllowedContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var validate = validator.New()

// TaskHandle is the opaque identifier of a remote upscaling task. It has no
// local lifecycle; it is only a key into the remote system.
type TaskHandle string

// String returns the handle as a plain string.
func (h TaskHandle) String() string {
	return string(h)
}

// UpscaleRequest holds the parameters of an upscaling job. It is passed by
// value and never modified after construction.
type UpscaleRequest struct {
	Model       string   `json:"model"       validate:"required"`
	Scale       string   `json:"scale"       validate:"required,oneof=2 4 8"`
	SaveImageAs string   `json:"saveImageAs" validate:"required,oneof=jpg png"`
	EnhanceFace bool     `json:"enhanceFace"`
	URLs        []string `json:"urls,omitempty" validate:"omitempty,dive,url"`
}

// DefaultUpscaleRequest returns a request populated with the service defaults.
func DefaultUpscaleRequest() UpscaleRequest {
	return UpscaleRequest{
		Model:       DefaultModel,
		Scale:       DefaultScale,
		SaveImageAs: DefaultSaveImageAs,
		EnhanceFace: DefaultEnhanceFace,
	}
}

// Validate checks the request parameters. Returns a *ValidationError naming
// the first offending field.
func (r UpscaleRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return NewValidationError(fe.Field(), describeTag(fe), ErrValidation)
	}

	return NewValidationError("", err.Error(), ErrValidation)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}

// UploadedImage is an image supplied by the caller. The caller owns the
// content; consumers read it for the duration of a call and do not retain it.
type UploadedImage struct {
	Filename    string
	ContentType string
	Content     []byte
}

// IsAllowedContentType reports whether contentType is one of the accepted
// image types. The comparison ignores case and any media type parameters.
func IsAllowedContentType(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	for _, allowed := range AllowedContentTypes {
		if mediaType == allowed {
			return true
		}
	}
	return false
}

// ValidateImages checks the number of images and each image's content type.
func ValidateImages(images []UploadedImage) error {
	if len(images) < MinImagesPerRequest {
		return NewValidationError("files", "at least one image is required", ErrValidation)
	}
	if len(images) > MaxImagesPerRequest {
		return NewValidationError(
			"files",
			fmt.Sprintf("maximum %d files allowed per request", MaxImagesPerRequest),
			ErrValidation,
		)
	}

	for _, img := range images {
		if !IsAllowedContentType(img.ContentType) {
			return NewValidationError(
				"files",
				fmt.Sprintf("invalid file type: %s. Allowed: %s",
					img.ContentType, strings.Join(AllowedContentTypes, ", ")),
				ErrValidation,
			)
		}
	}

	return nil
}
