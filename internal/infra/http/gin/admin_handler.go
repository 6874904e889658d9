package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	availabilityapp "bakeshop/internal/app/services/availability"
	bookingapp "bakeshop/internal/app/services/booking"
	catalogapp "bakeshop/internal/app/services/catalog"
	promoapp "bakeshop/internal/app/services/promo"
	domainbooking "bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
	domaincatalog "bakeshop/internal/domain/catalog"
	domainpromo "bakeshop/internal/domain/promo"
)

// AdminHandler serves the dashboard. Every route checks the admin session
// first and fails closed.
type AdminHandler struct {
	Availability *availabilityapp.Service
	Orders       *bookingapp.Service
	Catalog      *catalogapp.Service
	Promos       *promoapp.Service
}

const defaultBlockedDatesWindow = 90

func (h AdminHandler) ListBlockedDates(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	start := calendar.Today(time.UTC)
	end := start.AddDays(defaultBlockedDatesWindow)
	var err error
	if raw := c.Query("start_date"); raw != "" {
		if start, err = calendar.ParseDay(raw); err != nil {
			respondError(c, err)
			return
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if end, err = calendar.ParseDay(raw); err != nil {
			respondError(c, err)
			return
		}
	}
	result, err := h.Availability.Range(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	blocks := make([]blockedDateResponse, 0, len(result.Blocks))
	for _, b := range result.Blocks {
		blocks = append(blocks, toBlockedDateResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"blocked_dates": blocks})
}

type blockDateRequest struct {
	Date     string `json:"date"`
	Reason   string `json:"reason"`
	Capacity *int   `json:"capacity"`
}

func (h AdminHandler) BlockDate(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req blockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := calendar.ParseDay(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	block, err := h.Availability.Block(c.Request.Context(), availabilityapp.BlockParams{
		Day:      day,
		Reason:   req.Reason,
		Capacity: req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBlockedDateResponse(block))
}

func (h AdminHandler) UnblockDate(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	day, err := calendar.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Availability.Unblock(c.Request.Context(), day); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) ListOrders(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var filter domainbooking.ListFilter
	if raw := c.Query("date"); raw != "" {
		day, err := calendar.ParseDay(raw)
		if err != nil {
			respondError(c, err)
			return
		}
		filter.Day = &day
	}
	if raw := c.Query("status"); raw != "" {
		status, err := domainbooking.ParseStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filter.Status = status
	}
	orders, err := h.Orders.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]orderResponse, 0, len(orders))
	for _, b := range orders {
		result = append(result, toOrderResponse(b))
	}
	c.JSON(http.StatusOK, gin.H{"orders": result})
}

func (h AdminHandler) ConfirmOrder(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	b, err := h.Orders.Confirm(c.Request.Context(), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(b))
}

func (h AdminHandler) CancelOrder(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	b, err := h.Orders.Cancel(c.Request.Context(), domainbooking.BookingID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(b))
}

type rescheduleOrderRequest struct {
	Date string `json:"date"`
}

func (h AdminHandler) RescheduleOrder(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req rescheduleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	day, err := calendar.ParseDay(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	b, err := h.Orders.Reschedule(c.Request.Context(), domainbooking.BookingID(c.Param("id")), day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(b))
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PriceCents  int64  `json:"price_cents"`
	ImageURL    string `json:"image_url"`
}

func (h AdminHandler) CreateProduct(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := domaincatalog.ParseCategory(req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.Catalog.Create(c.Request.Context(), catalogapp.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    category,
		PriceCents:  req.PriceCents,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(p))
}

func (h AdminHandler) UpdateProduct(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.Catalog.Update(c.Request.Context(), domaincatalog.ProductID(c.Param("id")), req.Name, req.Description, req.PriceCents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h AdminHandler) ArchiveProduct(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if err := h.Catalog.Archive(c.Request.Context(), domaincatalog.ProductID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AdminHandler) UploadProductPhoto(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer reader.Close()
	contentType := file.Header.Get("Content-Type")
	p, err := h.Catalog.AttachPhoto(c.Request.Context(), domaincatalog.ProductID(c.Param("id")), reader, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

func (h AdminHandler) ListPromos(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	promos, err := h.Promos.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	result := make([]promoResponse, 0, len(promos))
	for _, p := range promos {
		result = append(result, toPromoResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"promos": result})
}

type createPromoRequest struct {
	Code           string `json:"code"`
	Kind           string `json:"kind"`
	PercentOff     int    `json:"percent_off"`
	AmountOffCents int64  `json:"amount_off_cents"`
	ExpiresOn      string `json:"expires_on"`
	MaxRedemptions int    `json:"max_redemptions"`
}

func (h AdminHandler) CreatePromo(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req createPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expires, err := calendar.ParseDay(req.ExpiresOn)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.Promos.Create(c.Request.Context(), domainpromo.CreateParams{
		Code:           req.Code,
		Kind:           domainpromo.Kind(req.Kind),
		PercentOff:     req.PercentOff,
		AmountOffCents: req.AmountOffCents,
		ExpiresOn:      expires,
		MaxRedemptions: req.MaxRedemptions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPromoResponse(p))
}

func (h AdminHandler) DeletePromo(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	if err := h.Promos.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ AdminHTTP = AdminHandler{}
