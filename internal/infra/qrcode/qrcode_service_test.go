package qrcode

import (
	"testing"

	"yumbook/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQRConfig(size int, level, baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.QRCode = &config.QRCodeConfig{
		Size:                 size,
		ErrorCorrectionLevel: level,
		BaseURL:              baseURL,
	}

	return cfg
}

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(newQRConfig(tt.size, tt.errorCorrectionLevel, "https://yumbook.app/recipes/"))
			assert.NotNil(t, service)
		})
	}
}

func TestNewQRCodeServiceNilSection(t *testing.T) {
	service := NewQRCodeService(&config.Config{})
	require.NotNil(t, service)

	qrBytes, err := service.GenerateRecipeShareQR(uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)
}

func TestQRCodeService_GenerateRecipeShareQR(t *testing.T) {
	service := NewQRCodeService(newQRConfig(256, "M", "https://yumbook.app/recipes/"))
	recipeID := uuid.New()

	qrBytes, err := service.GenerateRecipeShareQR(recipeID)
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_GenerateRecipeShareQR_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small QR", 128},
		{"Medium QR", 256},
		{"Large QR", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(newQRConfig(tt.size, "M", "https://yumbook.app/recipes/"))

			qrBytes, err := service.GenerateRecipeShareQR(uuid.New())
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}
