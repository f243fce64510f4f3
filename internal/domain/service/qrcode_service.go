package service

import "github.com/google/uuid"

// QRCodeService defines the interface for generating QR codes.
type QRCodeService interface {
	// GenerateRecipeShareQR generates a PNG QR code encoding a share link
	// for the given recipe.
	GenerateRecipeShareQR(recipeID uuid.UUID) ([]byte, error)
}
