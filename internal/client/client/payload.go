package client

import (
	"encoding/json"

	"github.com/dmitrijs2005/safescan/internal/client/models"
)

// ProductPayload is the body of a successful GET /api/scan/{barcode}.
// Ingredients is kept raw because backends send either an array or a
// comma separated string.
type ProductPayload struct {
	Barcode     string          `json:"barcode,omitempty"`
	ProductName string          `json:"productName"`
	Ingredients json.RawMessage `json:"ingredients,omitempty"`
	AllData     map[string]any  `json:"allData"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// NotFoundPayload is the body of a 404 from the scan endpoint.
type NotFoundPayload struct {
	Error           string                  `json:"error"`
	SimilarProducts []models.SimilarProduct `json:"similarProducts"`
}

// ProfileList is returned by GET /api/profiles.
type ProfileList struct {
	Profiles        []models.Profile `json:"profiles"`
	ActiveProfileID models.ProfileID `json:"activeProfileId"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type checkRequest struct {
	Barcode     string         `json:"barcode"`
	ProductData map[string]any `json:"productData"`
}

type createProfileRequest struct {
	Name         string   `json:"name"`
	Allergies    []string `json:"allergies"`
	Restrictions []string `json:"restrictions"`
}

type switchProfileRequest struct {
	ProfileID models.ProfileID `json:"profileId"`
}

type errorBody struct {
	Error string `json:"error"`
}
