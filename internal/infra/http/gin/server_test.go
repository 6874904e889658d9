package ginserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authapp "bakeshop/internal/app/services/auth"
	availabilityapp "bakeshop/internal/app/services/availability"
	bookingapp "bakeshop/internal/app/services/booking"
	catalogapp "bakeshop/internal/app/services/catalog"
	promoapp "bakeshop/internal/app/services/promo"
	walletapp "bakeshop/internal/app/services/wallet"
	"bakeshop/internal/domain/calendar"
	"bakeshop/internal/infra/obs"
	"bakeshop/internal/infra/security"
	"bakeshop/internal/infra/storage/memory"
)

const (
	testAdminEmail    = "owner@bakeshop.test"
	testAdminPassword = "sugar-and-spice"
)

type testEnv struct {
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.DiscardHandler)
	blocks := memory.NewBlockRepository()
	bookings := memory.NewBookingRepository()
	counters := memory.NewSlotCounter()
	promos := memory.NewPromoRepository()
	products := memory.NewProductRepository()
	wallets := memory.NewWalletRepository()
	sessions := memory.NewSessionStore()

	hasher := security.BcryptHasher{}
	hash, err := hasher.Hash(testAdminPassword)
	require.NoError(t, err)

	availabilitySvc := &availabilityapp.Service{
		Blocks:          blocks,
		Bookings:        bookings,
		DefaultCapacity: 5,
		Logger:          logger,
	}
	bookingSvc := &bookingapp.Service{
		Bookings:     bookings,
		Slots:        counters,
		Availability: availabilitySvc,
		Promos:       promos,
		Logger:       logger,
	}
	authSvc := &authapp.Service{
		AdminEmail:        testAdminEmail,
		AdminPasswordHash: hash,
		Passwords:         hasher,
		Tokens:            security.RandomTokenGenerator{},
		Sessions:          sessions,
		SessionTTL:        time.Hour,
		Logger:            logger,
	}
	catalogSvc := &catalogapp.Service{Products: products, Logger: logger}
	promoSvc := &promoapp.Service{Promos: promos, Logger: logger}
	walletSvc := &walletapp.Service{Wallets: wallets, TrialCredits: 10, Logger: logger}

	handlers := Handlers{
		Availability:   AvailabilityHandler{Service: availabilitySvc},
		Order:          OrderHandler{Service: bookingSvc},
		Catalog:        CatalogHandler{Service: catalogSvc},
		Promo:          PromoHandler{Service: promoSvc},
		Wallet:         WalletHandler{Service: walletSvc},
		Auth:           AuthHandler{Service: authSvc},
		Admin:          AdminHandler{Availability: availabilitySvc, Orders: bookingSvc, Catalog: catalogSvc, Promos: promoSvc},
		AuthMiddleware: AuthMiddleware{Service: authSvc, Logger: logger}.Handle,
	}
	router := NewRouter(obs.Middleware{Logger: logger}, obs.HealthHandlers{}, handlers)
	return &testEnv{router: router}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestAvailabilityCheckOpenDay(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/availability/check?date=2026-10-05", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var resp struct {
		Date      string `json:"date"`
		Available bool   `json:"available"`
		Remaining int    `json:"remaining"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "2026-10-05", resp.Date)
	assert.True(t, resp.Available)
	assert.Equal(t, 5, resp.Remaining)
}

func TestAvailabilityCheckRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/availability/check?date=tomorrowish", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesFailClosedWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", "", gin.H{"date": "2026-12-25"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", "not-a-real-token", gin.H{"date": "2026-12-25"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/blocked-dates?date=2026-12-25", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBlockedChristmasIsUnavailable(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{
		"date":   "2026-12-25",
		"reason": "Christmas",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/availability/check?date=2026-12-25", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Available bool   `json:"available"`
		Remaining int    `json:"remaining"`
		Reason    string `json:"reason"`
	}
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Available)
	assert.Equal(t, 0, resp.Remaining)
	assert.Equal(t, "Christmas", resp.Reason)
}

func TestUnblockUnknownDateReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/admin/blocked-dates?date=2026-11-03", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlockThenUnblockRestoresDefaultCapacity(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{"date": "2026-11-10"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/blocked-dates?date=2026-11-10", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/availability/check?date=2026-11-10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Available bool `json:"available"`
		Remaining int  `json:"remaining"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Available)
	assert.Equal(t, 5, resp.Remaining)
}

func orderBody(date string) gin.H {
	return gin.H{
		"date": date,
		"customer": gin.H{
			"name":  "June Alvarez",
			"email": "june@example.com",
		},
		"flavor":         "red velvet",
		"size":           "8 inch",
		"subtotal_cents": 6500,
	}
}

func TestOrderCreationConsumesCapacity(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-12"))
		require.Equal(t, http.StatusCreated, rec.Code, "order %d", i+1)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-12"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/availability/check?date=2026-10-12", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Available bool `json:"available"`
		Remaining int  `json:"remaining"`
	}
	decodeBody(t, rec, &resp)
	assert.False(t, resp.Available)
	assert.Equal(t, 0, resp.Remaining)
}

func TestOrderOnClosedDayRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{
		"date":   "2026-12-24",
		"reason": "Holiday prep",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-12-24"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelledOrderFreesTheSlot(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{
		"date":     "2026-10-20",
		"reason":   "Staff shortage",
		"capacity": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-20"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-20"))
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/orders/%s/cancel", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-20"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRangeMatchesSingleDayAnswers(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{
		"date":   "2026-10-07",
		"reason": "Deep clean",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/orders", "", orderBody("2026-10-06"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/availability/dates?start_date=2026-10-05&end_date=2026-10-08", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var rangeResp struct {
		Days []struct {
			Date      string `json:"date"`
			Available bool   `json:"available"`
			Remaining int    `json:"remaining"`
		} `json:"days"`
		BlockedDates []struct {
			Date   string `json:"date"`
			Reason string `json:"reason"`
		} `json:"blocked_dates"`
	}
	decodeBody(t, rec, &rangeResp)
	require.Len(t, rangeResp.Days, 4)
	require.Len(t, rangeResp.BlockedDates, 1)
	assert.Equal(t, "2026-10-07", rangeResp.BlockedDates[0].Date)

	for _, day := range rangeResp.Days {
		single := env.do(t, http.MethodGet, "/api/v1/availability/check?date="+day.Date, "", nil)
		require.Equal(t, http.StatusOK, single.Code)
		var singleResp struct {
			Available bool `json:"available"`
			Remaining int  `json:"remaining"`
		}
		decodeBody(t, single, &singleResp)
		assert.Equal(t, singleResp.Available, day.Available, day.Date)
		assert.Equal(t, singleResp.Remaining, day.Remaining, day.Date)
	}
}

func TestPromoValidateUnusableCodeIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	expired := calendar.Today(time.UTC).AddDays(-1)
	rec := env.do(t, http.MethodPost, "/api/v1/admin/promos", token, gin.H{
		"code":        "BYGONE",
		"kind":        "percent",
		"percent_off": 15,
		"expires_on":  expired.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/promos/validate", "", gin.H{
		"code":           "bygone",
		"subtotal_cents": 5000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var quote struct {
		Code   string `json:"code"`
		Valid  bool   `json:"valid"`
		Reason string `json:"reason"`
	}
	decodeBody(t, rec, &quote)
	assert.Equal(t, "BYGONE", quote.Code)
	assert.False(t, quote.Valid)
	assert.NotEmpty(t, quote.Reason)
}

func TestPromoValidateUnknownCodeIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/promos/validate", "", gin.H{
		"code":           "NOPE",
		"subtotal_cents": 5000,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHidesArchivedProducts(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", token, gin.H{
		"name":        "Lemon Drizzle",
		"category":    "cake",
		"price_cents": 4200,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &created)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/products/"+created.ID+"/archive", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Products []json.RawMessage `json:"products"`
	}
	decodeBody(t, rec, &listing)
	assert.Empty(t, listing.Products)
}

func TestWalletTrialIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/wallet/cust-1/trial", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/wallet/cust-1/trial", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Balance int64 `json:"balance"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(10), resp.Balance)

	rec = env.do(t, http.MethodPost, "/api/v1/wallet/cust-1/debit", "", gin.H{"amount": 11})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/wallet/cust-1/debit", "", gin.H{"amount": 4, "reference": "session-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &resp)
	assert.Equal(t, int64(6), resp.Balance)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    testAdminEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/blocked-dates", token, gin.H{"date": "2026-12-25"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
