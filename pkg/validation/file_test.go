package validation

import (
	"bytes"
	"io"
	"testing"

	"hvac-service/config"
	apperrors "hvac-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegSample = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 32)...)
	pngSample  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0}, 32)...)
	gifSample  = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
	webpSample = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), bytes.Repeat([]byte{0}, 32)...)
)

func TestValidateUpload_AcceptsSupportedFormats(t *testing.T) {
	rules := config.UploadContexts["job_photo"]
	tests := []struct {
		mime, name string
		data       []byte
	}{
		{"image/jpeg", "before.jpg", jpegSample},
		{"image/jpeg", "before.JPEG", jpegSample},
		{"image/png", "after.png", pngSample},
		{"image/gif", "unit.gif", gifSample},
		{"image/webp", "unit.webp", webpSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			got, err := ValidateUpload(tt.mime, tt.name, int64(len(tt.data)), r, rules)
			require.NoError(t, err)
			assert.Equal(t, tt.mime, got)

			// reader must be rewound for storage
			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.data, rest)
		})
	}
}

func TestValidateUpload_Rejects(t *testing.T) {
	rules := config.UploadContexts["job_photo"]
	textPretendingToBePNG := []byte("hello, this is not an image at all")

	tests := []struct {
		name string
		mime string
		file string
		size int64
		data []byte
	}{
		{"png declared, text content", "image/png", "x.png", int64(len(textPretendingToBePNG)), textPretendingToBePNG},
		{"png declared, jpeg content", "image/png", "x.png", int64(len(jpegSample)), jpegSample},
		{"disallowed type", "application/pdf", "x.pdf", 10, []byte("%PDF-1.4 ...")},
		{"extension mismatch", "image/png", "x.jpg", int64(len(pngSample)), pngSample},
		{"empty", "image/png", "x.png", 0, nil},
		{"too large", "image/png", "x.png", rules.MaxSizeBytes + 1, pngSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateUpload(tt.mime, tt.file, tt.size, bytes.NewReader(tt.data), rules)
			require.Error(t, err)
			var inputErr *apperrors.InvalidInputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestValidateUpload_SizeBoundary(t *testing.T) {
	rules := config.UploadContexts["job_photo"]
	_, err := ValidateUpload("image/png", "x.png", rules.MaxSizeBytes, bytes.NewReader(pngSample), rules)
	assert.NoError(t, err)
}

func TestDetectImageType(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectImageType(jpegSample))
	assert.Equal(t, "image/png", DetectImageType(pngSample))
	assert.Equal(t, "image/gif", DetectImageType([]byte("GIF87a....")))
	assert.Equal(t, "image/webp", DetectImageType(webpSample))
	assert.Equal(t, "", DetectImageType([]byte("RIFF\x00\x00\x00\x00WAVE")))
	assert.Equal(t, "", DetectImageType(nil))
}
