package profiles

import (
	"net/http"
	"strings"
	"time"

	"github.com/chipin-app/chipin/pkg/chipin/auth"
	"github.com/chipin-app/chipin/pkg/chipin/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles profile and transaction requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new profiles handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpdateProfileRequest represents the request to update the caller's profile
type UpdateProfileRequest struct {
	Nickname *string  `json:"nickname"`
	MaxSpend *float64 `json:"max_spend"`
	Balance  *float64 `json:"balance"`
}

// ProfileResponse represents a profile in API responses
type ProfileResponse struct {
	UserID   uint    `json:"user_id"`
	Nickname string  `json:"nickname"`
	MaxSpend float64 `json:"max_spend"`
	Balance  float64 `json:"balance"`
}

// RecordTransactionRequest represents the request to record a transaction
type RecordTransactionRequest struct {
	Amount      float64 `json:"amount" binding:"required"`
	Description string  `json:"description"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          uint      `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func profileResponse(p *models.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:   p.UserID,
		Nickname: p.Nickname,
		MaxSpend: p.MaxSpend,
		Balance:  p.Balance,
	}
}

// Get returns the caller's profile
// @Summary Get own profile
// @Description Get the authenticated user's profile
// @Tags profiles
// @Produce json
// @Success 200 {object} ProfileResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profileResponse(&profile))
}

// Update changes the caller's profile. A requested nickname is re-uniqued
// the same way registration nicknames are, so a taken name comes back
// with a -N suffix instead of an error.
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	updates := map[string]interface{}{}
	if req.Nickname != nil {
		requested := strings.TrimSpace(*req.Nickname)
		if requested == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nickname cannot be empty"})
			return
		}
		// Keeping the current nickname (any case) is not a collision
		if !strings.EqualFold(requested, profile.Nickname) {
			unique, err := models.UniqueNickname(h.db, requested)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
				return
			}
			updates["nickname"] = unique
		}
	}
	if req.MaxSpend != nil {
		if *req.MaxSpend < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_spend cannot be negative"})
			return
		}
		updates["max_spend"] = *req.MaxSpend
	}
	if req.Balance != nil {
		updates["balance"] = *req.Balance
	}

	if len(updates) > 0 {
		if err := h.db.Model(&profile).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}
	c.JSON(http.StatusOK, profileResponse(&profile))
}

// ListTransactions returns the caller's recorded transactions, newest first
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var transactions []models.Transaction
	err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	out := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		out[i] = TransactionResponse{
			ID:          tx.ID,
			Amount:      tx.Amount,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

// RecordTransaction records a transaction against the caller. Transactions
// are a ledger only; balances are not reconciled against them.
func (h *Handler) RecordTransaction(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := models.Transaction{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := h.db.Create(&tx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{
		ID:          tx.ID,
		Amount:      tx.Amount,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	})
}

// RegisterRoutes registers profile routes on an authenticated group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Get)
	rg.PUT("/profile", h.Update)
	rg.GET("/transactions", h.ListTransactions)
	rg.POST("/transactions", h.RecordTransaction)
}
