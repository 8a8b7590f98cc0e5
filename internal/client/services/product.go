package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/safescan/internal/client/client"
	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/common"
	"github.com/dmitrijs2005/safescan/internal/logging"
)

// ProductService resolves barcodes to products.
//
// Lookup returns *ProductNotFoundError for unknown barcodes, an error matching
// common.ErrNetworkUnreachable when no endpoint answered, and
// common.ErrEmptyBarcode for blank input.
type ProductService interface {
	Lookup(ctx context.Context, barcode string) (*models.Product, error)
}

type productService struct {
	client client.Client
	log    logging.Logger
}

func NewProductService(c client.Client, log logging.Logger) ProductService {
	return &productService{client: c, log: log}
}

func (s *productService) Lookup(ctx context.Context, barcode string) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, common.ErrEmptyBarcode
	}

	payload, err := s.client.LookupProduct(ctx, barcode)
	if err != nil {
		var se *client.StatusError
		if errors.As(err, &se) && se.NotFound() {
			nf := &ProductNotFoundError{Barcode: barcode, Message: se.Message}
			var body client.NotFoundPayload
			if json.Unmarshal(se.Body, &body) == nil {
				nf.Similar = body.SimilarProducts
			}
			s.log.Info(ctx, "product not found", "barcode", barcode, "similar", len(nf.Similar))
			return nil, nf
		}
		return nil, classify(err)
	}

	p := &models.Product{
		Barcode:       barcode,
		ProductName:   payload.ProductName,
		ImageURL:      imageURL(payload),
		RawAttributes: payload.AllData,
		Ingredients:   extractIngredients(payload),
	}
	if p.RawAttributes == nil {
		p.RawAttributes = map[string]any{}
	}
	s.log.Debug(ctx, "product found", "barcode", barcode, "ingredients", len(p.Ingredients))
	return p, nil
}

func imageURL(p *client.ProductPayload) string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	for _, k := range []string{"image_url", "image_front_url"} {
		if s, ok := p.AllData[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// extractIngredients prefers an explicit list, then a free-text field split
// on commas. Nothing usable yields an empty, non-nil slice.
func extractIngredients(p *client.ProductPayload) []string {
	if len(p.Ingredients) > 0 {
		var v any
		if json.Unmarshal(p.Ingredients, &v) == nil {
			if out := ingredientsFrom(v); len(out) > 0 {
				return out
			}
		}
	}
	for _, k := range []string{"ingredients_text", "ingredients"} {
		if out := ingredientsFrom(p.AllData[k]); len(out) > 0 {
			return out
		}
	}
	return []string{}
}

func ingredientsFrom(v any) []string {
	switch x := v.(type) {
	case string:
		return splitIngredients(x)
	case []any:
		out := make([]string, 0, len(x))
		for _, it := range x {
			var s string
			switch item := it.(type) {
			case string:
				s = item
			case map[string]any:
				s, _ = item["text"].(string)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func splitIngredients(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
