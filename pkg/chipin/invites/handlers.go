package invites

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chipin-app/chipin/pkg/chipin/auth"
	"github.com/chipin-app/chipin/pkg/chipin/config"
	"github.com/chipin-app/chipin/pkg/chipin/models"
	"github.com/chipin-app/chipin/pkg/chipin/web3forms"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles invitation requests
type Handler struct {
	db  *gorm.DB
	cfg config.Config
}

// NewHandler creates a new invites handler. The config supplies the site
// origin for acceptance links, the form-relay access key and the demo
// auto-accept flag.
func NewHandler(db *gorm.DB, cfg config.Config) *Handler {
	return &Handler{db: db, cfg: cfg}
}

// CreateInviteRequest represents the request to invite a user
type CreateInviteRequest struct {
	InvitedUserID uint `json:"invited_user_id" binding:"required"`
}

// InviteResponse represents an invite in API responses
type InviteResponse struct {
	ID            uint      `json:"id"`
	GroupID       uint      `json:"group_id"`
	InvitedUserID uint      `json:"invited_user_id"`
	Accepted      bool      `json:"accepted"`
	Expired       bool      `json:"expired"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SendInviteResponse carries the form-relay payload for an invitation
type SendInviteResponse struct {
	Invite  InviteResponse    `json:"invite"`
	Relay   web3forms.Payload `json:"relay"`
	PostURL string            `json:"post_url"`
}

// AcceptInviteResponse represents the outcome of accepting an invite
type AcceptInviteResponse struct {
	Message     string `json:"message"`
	GroupID     uint   `json:"group_id"`
	GroupName   string `json:"group_name"`
	AlreadyUsed bool   `json:"already_used"`
	// AutoLogin signals demo deployments that the invitee session may be
	// established without a fresh login
	AutoLogin bool `json:"auto_login,omitempty"`
}

func inviteResponse(invite *models.Invite) InviteResponse {
	return InviteResponse{
		ID:            invite.ID,
		GroupID:       invite.GroupID,
		InvitedUserID: invite.InvitedUserID,
		Accepted:      invite.Accepted,
		Expired:       invite.IsExpired(),
		ExpiresAt:     invite.ExpiresAt,
	}
}

// Create invites a user to a group (admin only). Repeated calls for the
// same user reuse the outstanding invite.
// @Summary Invite a user to a group
// @Description Create (or reuse) an invitation for a user; admin only
// @Tags invites
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateInviteRequest true "Invitee"
// @Success 201 {object} InviteResponse
// @Failure 403 {object} map[string]string "Admin access required"
// @Security BearerAuth
// @Router /groups/{id}/invites [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Invitee must exist
	var invitee models.User
	if err := h.db.First(&invitee, req.InvitedUserID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a valid user to invite."})
		return
	}

	invite, err := CreateOrFetchInvite(h.db, uint(groupID), req.InvitedUserID, userID)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, inviteResponse(invite))
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can invite members."})
	case errors.Is(err, ErrAlreadyMember):
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this group."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite"})
	}
}

// ListInvitable returns users who can still be invited to the group
func (h *Handler) ListInvitable(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can invite members."})
		return
	}

	var users []models.User
	err = h.db.Preload("Profile").
		Where("id NOT IN (?)",
			h.db.Model(&models.GroupMembership{}).Select("user_id").Where("group_id = ?", groupID),
		).Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	type invitableUser struct {
		ID       uint   `json:"id"`
		Name     string `json:"name"`
		Nickname string `json:"nickname"`
	}
	out := make([]invitableUser, len(users))
	for i, u := range users {
		out[i] = invitableUser{ID: u.ID, Name: u.Name, Nickname: u.Profile.Nickname}
	}
	c.JSON(http.StatusOK, out)
}

// Send returns the form-relay payload for an invitation (admin only).
// Delivery itself happens from the invitee-facing form; its outcome is not
// observed here.
func (h *Handler) Send(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	inviteID, err := strconv.ParseUint(c.Param("inviteId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	var invite models.Invite
	if err := h.db.Preload("Group").Where("id = ? AND group_id = ?", inviteID, groupID).First(&invite).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		return
	}

	if invite.Group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can send invites."})
		return
	}

	redirectTarget := fmt.Sprintf("/invites/sent?group=%d&invite=%d", invite.GroupID, invite.ID)
	payload := web3forms.NewInvitePayload(
		h.cfg.Web3FormsAccessKey,
		h.cfg.SiteOrigin,
		invite.Group.Name,
		invite.AcceptPath(),
		redirectTarget,
	)

	c.JSON(http.StatusOK, SendInviteResponse{
		Invite:  inviteResponse(&invite),
		Relay:   payload,
		PostURL: web3forms.Endpoint,
	})
}

// Accept resolves an invitation token and joins the invited user to the
// group. Accepting twice is a harmless no-op; accepting after expiry fails
// without touching membership.
// @Summary Accept an invitation
// @Description Resolve an invitation token and join the group
// @Tags invites
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} AcceptInviteResponse
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 410 {object} map[string]string "Invitation expired"
// @Router /invites/accept/{token} [get]
func (h *Handler) Accept(c *gin.Context) {
	token := c.Param("token")

	invite, err := AcceptInvite(h.db, token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, AcceptInviteResponse{
			Message:   fmt.Sprintf("You have joined %s.", invite.Group.Name),
			GroupID:   invite.GroupID,
			GroupName: invite.Group.Name,
			AutoLogin: h.cfg.DemoAutoAcceptInvites,
		})
	case errors.Is(err, ErrAlreadyProcessed):
		c.JSON(http.StatusOK, AcceptInviteResponse{
			Message:     fmt.Sprintf("This invitation has already been used for %s.", invite.InvitedUser.Name),
			GroupID:     invite.GroupID,
			GroupName:   invite.Group.Name,
			AlreadyUsed: true,
			AutoLogin:   h.cfg.DemoAutoAcceptInvites,
		})
	case errors.Is(err, ErrExpired):
		c.JSON(http.StatusGone, gin.H{"error": "This invitation has expired."})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invite"})
	}
}

// Sent echoes an invitation after the relay redirect, for the
// "invitation sent" confirmation view
func (h *Handler) Sent(c *gin.Context) {
	groupID := c.Query("group")
	inviteID := c.Query("invite")

	var invite models.Invite
	if err := h.db.Preload("Group").Preload("InvitedUser").
		Where("id = ? AND group_id = ?", inviteID, groupID).First(&invite).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Invitation for %s sent.", invite.InvitedUser.Name),
		"group_id":     invite.GroupID,
		"group_name":   invite.Group.Name,
		"invited_user": invite.InvitedUser.Name,
	})
}

// RegisterGroupRoutes registers the admin-facing invite routes under /groups
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/invites", h.Create)
	rg.GET("/:id/invitable-users", h.ListInvitable)
	rg.GET("/:id/invites/:inviteId/send", h.Send)
}

// RegisterPublicRoutes registers the invitee-facing routes. Accept is
// reachable without authentication: the token itself is the credential.
func (h *Handler) RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/invites/accept/:token", h.Accept)
}

// RegisterSentRoute registers the post-send confirmation route
func (h *Handler) RegisterSentRoute(rg *gin.RouterGroup) {
	rg.GET("/invites/sent", h.Sent)
}
