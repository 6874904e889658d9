package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	walletapp "bakeshop/internal/app/services/wallet"
	domainwallet "bakeshop/internal/domain/wallet"
)

type WalletHandler struct {
	Service *walletapp.Service
}

type walletResponse struct {
	CustomerID string                `json:"customer_id"`
	Balance    int64                 `json:"balance"`
	Entries    []walletEntryResponse `json:"entries"`
}

type walletEntryResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference,omitempty"`
	At        time.Time `json:"at"`
}

func toWalletResponse(w *domainwallet.Wallet) walletResponse {
	entries := make([]walletEntryResponse, 0, len(w.Entries))
	for _, e := range w.Entries {
		entries = append(entries, walletEntryResponse{
			ID:        e.ID,
			Kind:      string(e.Kind),
			Amount:    e.Amount,
			Reference: e.Reference,
			At:        e.At,
		})
	}
	return walletResponse{CustomerID: w.CustomerID, Balance: w.Balance, Entries: entries}
}

func (h WalletHandler) Balance(c *gin.Context) {
	w, err := h.Service.Balance(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWalletResponse(w))
}

// Trial grants the one-time studio trial credits. Hitting it twice for the
// same customer returns the existing wallet untouched.
func (h WalletHandler) Trial(c *gin.Context) {
	w, err := h.Service.EnsureTrial(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWalletResponse(w))
}

type debitRequest struct {
	Amount    int64  `json:"amount"`
	Reference string `json:"reference"`
}

func (h WalletHandler) Debit(c *gin.Context) {
	var req debitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	customerID := c.Param("customer_id")
	if err := h.Service.Debit(c.Request.Context(), customerID, req.Amount, req.Reference); err != nil {
		respondError(c, err)
		return
	}
	w, err := h.Service.Balance(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWalletResponse(w))
}

var _ WalletHTTP = WalletHandler{}
