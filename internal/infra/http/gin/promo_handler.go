package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	promoapp "bakeshop/internal/app/services/promo"
	"bakeshop/internal/domain/calendar"
	domainpromo "bakeshop/internal/domain/promo"
)

type PromoHandler struct {
	Service *promoapp.Service
}

type promoResponse struct {
	Code           string       `json:"code"`
	Kind           string       `json:"kind"`
	PercentOff     int          `json:"percent_off,omitempty"`
	AmountOffCents int64        `json:"amount_off_cents,omitempty"`
	ExpiresOn      calendar.Day `json:"expires_on"`
	MaxRedemptions int          `json:"max_redemptions"`
	Redemptions    int          `json:"redemptions"`
	Active         bool         `json:"active"`
}

func toPromoResponse(p *domainpromo.Promo) promoResponse {
	return promoResponse{
		Code:           p.Code,
		Kind:           string(p.Kind),
		PercentOff:     p.PercentOff,
		AmountOffCents: p.AmountOffCents,
		ExpiresOn:      p.ExpiresOn,
		MaxRedemptions: p.MaxRedemptions,
		Redemptions:    p.Redemptions,
		Active:         p.Active,
	}
}

type validatePromoRequest struct {
	Code          string `json:"code"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

// Validate prices a code for the checkout form. An unusable code comes
// back as valid=false with a reason, not as an error status.
func (h PromoHandler) Validate(c *gin.Context) {
	var req validatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quote, err := h.Service.Validate(c.Request.Context(), req.Code, req.SubtotalCents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

var _ PromoHTTP = PromoHandler{}
