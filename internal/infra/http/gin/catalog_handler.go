package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	catalogapp "bakeshop/internal/app/services/catalog"
	domaincatalog "bakeshop/internal/domain/catalog"
)

type CatalogHandler struct {
	Service *catalogapp.Service
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url,omitempty"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(p *domaincatalog.Product) productResponse {
	return productResponse{
		ID:          string(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		PriceCents:  p.PriceCents,
		ImageURL:    p.ImageURL,
		State:       string(p.State),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// List is the public storefront catalog; archived products stay hidden.
func (h CatalogHandler) List(c *gin.Context) {
	filter := domaincatalog.ListFilter{OnlyActive: true}
	if raw := c.Query("category"); raw != "" {
		category, err := domaincatalog.ParseCategory(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Category = category
	}
	products, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"products": result})
}

func (h CatalogHandler) Get(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), domaincatalog.ProductID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

var _ CatalogHTTP = CatalogHandler{}
