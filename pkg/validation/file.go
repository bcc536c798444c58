package validation

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"hvac-service/config"
	apperrors "hvac-service/pkg/errors"
)

// ValidateFile checks an uploaded file against the rules registered under
// contextName in config.UploadContexts.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) (string, error) {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return "", fmt.Errorf("unknown upload context %q", contextName)
	}
	declared := fileHeader.Header.Get("Content-Type")
	return ValidateUpload(declared, fileHeader.Filename, fileHeader.Size, file, rules)
}

// ValidateUpload returns the verified MIME type. The reader is rewound to the
// start before returning.
func ValidateUpload(declaredType, fileName string, size int64, file io.ReadSeeker, rules config.UploadConfig) (string, error) {
	// 1. Declared type must be one we accept
	declaredType = normalizeMime(declaredType)
	extensions, ok := rules.AllowedTypes[declaredType]
	if !ok {
		return "", apperrors.NewInvalidInputError("file type %q is not allowed", declaredType)
	}

	// 2. Extension must agree with the declared type
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(extensions, ext) {
		return "", apperrors.NewInvalidInputError("file extension %q does not match type %s", ext, declaredType)
	}

	// 3. Size
	if size <= 0 {
		return "", apperrors.NewInvalidInputError("file is empty")
	}
	if rules.MaxSizeBytes > 0 && size > rules.MaxSizeBytes {
		return "", apperrors.NewInvalidInputError("file size %.2f MB exceeds the %d MB limit",
			float64(size)/1024/1024, rules.MaxSizeBytes>>20)
	}

	// 4. Content signature
	header := make([]byte, 16)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read file header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind file: %w", err)
	}

	detected := DetectImageType(header[:n])
	if detected == "" {
		return "", apperrors.NewInvalidInputError("file content is not a supported image")
	}
	if detected != declaredType {
		return "", apperrors.NewInvalidInputError("file content (%s) does not match declared type %s", detected, declaredType)
	}

	return detected, nil
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gif87     = []byte("GIF87a")
	gif89     = []byte("GIF89a")
	riffMagic = []byte("RIFF")
	webpMagic = []byte("WEBP")
)

// DetectImageType identifies JPEG, PNG, GIF and WebP by their leading bytes.
// It returns an empty string for anything else.
func DetectImageType(header []byte) string {
	switch {
	case bytes.HasPrefix(header, jpegMagic):
		return "image/jpeg"
	case bytes.HasPrefix(header, pngMagic):
		return "image/png"
	case bytes.HasPrefix(header, gif87), bytes.HasPrefix(header, gif89):
		return "image/gif"
	case len(header) >= 12 && bytes.Equal(header[:4], riffMagic) && bytes.Equal(header[8:12], webpMagic):
		return "image/webp"
	}
	return ""
}

func normalizeMime(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if i := strings.Index(v, ";"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	if v == "image/jpg" {
		return "image/jpeg"
	}
	return v
}
