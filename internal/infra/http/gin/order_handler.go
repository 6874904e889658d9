package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	bookingapp "bakeshop/internal/app/services/booking"
	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
)

type OrderHandler struct {
	Service *bookingapp.Service
}

type createOrderRequest struct {
	Date     string `json:"date"`
	Customer struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Flavor        string `json:"flavor"`
	Size          string `json:"size"`
	Tiers         int    `json:"tiers"`
	Inscription   string `json:"inscription"`
	Notes         string `json:"notes"`
	SubtotalCents int64  `json:"subtotal_cents"`
	PromoCode     string `json:"promo_code"`
}

type orderResponse struct {
	ID            string       `json:"id"`
	OrderNumber   string       `json:"order_number"`
	Date          calendar.Day `json:"date"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	CustomerPhone string       `json:"customer_phone,omitempty"`
	Flavor        string       `json:"flavor,omitempty"`
	Size          string       `json:"size,omitempty"`
	Tiers         int          `json:"tiers,omitempty"`
	Inscription   string       `json:"inscription,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	SubtotalCents int64        `json:"subtotal_cents"`
	DiscountCents int64        `json:"discount_cents"`
	TotalCents    int64        `json:"total_cents"`
	PromoCode     string       `json:"promo_code,omitempty"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func toOrderResponse(b *domainbooking.Booking) orderResponse {
	return orderResponse{
		ID:            string(b.ID),
		OrderNumber:   b.OrderNumber,
		Date:          b.Day,
		CustomerName:  b.Customer.Name,
		CustomerEmail: b.Customer.Email,
		CustomerPhone: b.Customer.Phone,
		Flavor:        b.Details.Flavor,
		Size:          b.Details.Size,
		Tiers:         b.Details.Tiers,
		Inscription:   b.Details.Inscription,
		Notes:         b.Details.Notes,
		SubtotalCents: b.Details.SubtotalCents,
		DiscountCents: b.Details.DiscountCents,
		TotalCents:    b.Details.TotalCents,
		PromoCode:     b.Details.PromoCode,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// Create places a cake order. The service re-validates the day and takes
// the slot atomically, so two customers racing for the last slot cannot
// both succeed.
func (h OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := calendar.ParseDay(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Service.Create(c.Request.Context(), bookingapp.CreateParams{
		Day: day,
		Customer: domainbooking.CustomerInfo{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Details: domainbooking.OrderDetails{
			Flavor:        req.Flavor,
			Size:          req.Size,
			Tiers:         req.Tiers,
			Inscription:   req.Inscription,
			Notes:         req.Notes,
			SubtotalCents: req.SubtotalCents,
			PromoCode:     req.PromoCode,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(b))
}

func (h OrderHandler) Get(c *gin.Context) {
	b, err := h.Service.Get(c.Request.Context(), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(b))
}

var _ OrderHTTP = OrderHandler{}
