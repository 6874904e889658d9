package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	authapp "bakeshop/internal/app/services/auth"
	domainauth "bakeshop/internal/domain/auth"
	"bakeshop/internal/domain/availability"
	"bakeshop/internal/domain/booking"
	"bakeshop/internal/domain/calendar"
	"bakeshop/internal/domain/catalog"
	"bakeshop/internal/domain/promo"
	"bakeshop/internal/domain/wallet"
)

// respondError maps domain sentinels onto HTTP statuses. Anything the
// switch does not recognize is a store or infrastructure failure and stays
// a 500; handlers never leak stack traces.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, calendar.ErrInvalidDate),
		errors.Is(err, calendar.ErrInvalidRange),
		errors.Is(err, booking.ErrCustomerRequired),
		errors.Is(err, booking.ErrDayRequired),
		errors.Is(err, promo.ErrInvalidPromo),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidCategory),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrCustomerRequired):
		return http.StatusBadRequest
	case errors.Is(err, domainauth.ErrUnauthorized),
		errors.Is(err, domainauth.ErrSessionNotFound),
		errors.Is(err, authapp.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, availability.ErrBlockNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, promo.ErrPromoNotFound),
		errors.Is(err, wallet.ErrWalletNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrCapacityExceeded),
		errors.Is(err, booking.ErrDayClosed),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, catalog.ErrNotActive),
		errors.Is(err, promo.ErrPromoInactive),
		errors.Is(err, promo.ErrPromoExpired),
		errors.Is(err, promo.ErrPromoExhausted),
		errors.Is(err, wallet.ErrInsufficientCredits):
		return http.StatusConflict
	case errors.Is(err, authapp.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
