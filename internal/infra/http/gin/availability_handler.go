package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	availabilityapp "bakeshop/internal/app/services/availability"
	"bakeshop/internal/domain/availability"
	"bakeshop/internal/domain/calendar"
)

type AvailabilityHandler struct {
	Service *availabilityapp.Service
}

type blockedDateResponse struct {
	Date      calendar.Day `json:"date"`
	Reason    string       `json:"reason"`
	Capacity  *int         `json:"capacity,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toBlockedDateResponse(b availability.BlockedDate) blockedDateResponse {
	return blockedDateResponse{
		Date:      b.Day,
		Reason:    b.Reason,
		Capacity:  b.Capacity,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// Check answers the single-day question the checkout form asks while the
// customer picks a pickup date.
func (h AvailabilityHandler) Check(c *gin.Context) {
	day, err := calendar.ParseDay(c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.Service.CheckDay(c.Request.Context(), day)
	if err != nil {
		respondError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, result)
}

// Dates returns the calendar view for [start_date, end_date] inclusive.
func (h AvailabilityHandler) Dates(c *gin.Context) {
	start, err := calendar.ParseDay(c.Query("start_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := calendar.ParseDay(c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	result, err := h.Service.Range(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	blocks := make([]blockedDateResponse, 0, len(result.Blocks))
	for _, b := range result.Blocks {
		blocks = append(blocks, toBlockedDateResponse(b))
	}
	noStore(c)
	c.JSON(http.StatusOK, gin.H{
		"days":          result.Days,
		"blocked_dates": blocks,
	})
}

// noStore keeps proxies and browsers from caching availability; slot counts
// go stale the moment another order lands.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}

var _ AvailabilityHTTP = AvailabilityHandler{}
