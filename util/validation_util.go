// util/validation_util.go

package util

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
	"unicode"

	vault_errors "github.com/dev-mohitbeniwal/neonvault/errors"
)

const (
	DefaultFilename    = "upload.bin"
	DefaultContentType = "application/octet-stream"

	maxFilenameLength = 255
	maxTags           = 20
	maxTagLength      = 64
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidateFilename returns the filename to store, defaulting when empty. The
// name becomes the last segment of the storage key and is echoed in the
// download disposition header, so separators and quotes are refused.
func (v *ValidationUtil) ValidateFilename(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return DefaultFilename, nil
	}
	if len(filename) > maxFilenameLength {
		return "", fmt.Errorf("%w: filename longer than %d bytes", vault_errors.ErrInvalidRequest, maxFilenameLength)
	}
	if filename == "." || filename == ".." || strings.ContainsAny(filename, `/\"`) {
		return "", fmt.Errorf("%w: filename %q not allowed", vault_errors.ErrInvalidRequest, filename)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: filename contains control characters", vault_errors.ErrInvalidRequest)
		}
	}
	return filename, nil
}

func (v *ValidationUtil) ValidateContentType(contentType string) (string, error) {
	if strings.TrimSpace(contentType) == "" {
		return DefaultContentType, nil
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return "", fmt.Errorf("%w: content type: %v", vault_errors.ErrInvalidRequest, err)
	}
	return contentType, nil
}

// ParseTags turns a comma separated header value into the stored JSON array.
func (v *ValidationUtil) ParseTags(header string) (string, error) {
	tags := []string{}
	for _, t := range strings.Split(header, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if len(t) > maxTagLength {
			return "", fmt.Errorf("%w: tag longer than %d bytes", vault_errors.ErrInvalidRequest, maxTagLength)
		}
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return "", fmt.Errorf("%w: more than %d tags", vault_errors.ErrInvalidRequest, maxTags)
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
