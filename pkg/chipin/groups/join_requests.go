package groups

import (
	"net/http"
	"strconv"

	"github.com/chipin-app/chipin/pkg/chipin/auth"
	"github.com/chipin-app/chipin/pkg/chipin/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JoinRequestResponse represents a join request in API responses
type JoinRequestResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	GroupID   uint   `json:"group_id"`
	Approved  bool   `json:"approved"`
	VoteCount int    `json:"vote_count"`
}

// CreateJoinRequest lets a non-member ask to join a group
func (h *Handler) CreateJoinRequest(c *gin.Context) {
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

	member, err := group.IsMember(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return
	}
	if member {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already a member of this group."})
		return
	}

	// One outstanding request per (user, group) pair
	var existing models.GroupJoinRequest
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already requested to join this group."})
		return
	}

	request := models.GroupJoinRequest{
		UserID:  userID,
		GroupID: uint(groupID),
	}
	if err := h.db.Create(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create join request"})
		return
	}

	c.JSON(http.StatusCreated, JoinRequestResponse{
		ID:      request.ID,
		UserID:  request.UserID,
		GroupID: request.GroupID,
	})
}

// ListJoinRequests returns pending join requests for a group (members only)
func (h *Handler) ListJoinRequests(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var requests []models.GroupJoinRequest
	if err := h.db.Preload("User").Preload("Votes").Where("group_id = ?", groupID).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join requests"})
		return
	}

	responses := make([]JoinRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = JoinRequestResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  r.User.Name,
			GroupID:   r.GroupID,
			Approved:  r.Approved,
			VoteCount: len(r.Votes),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// VoteJoinRequest records a member's approval vote. When more than half the
// current members have voted, the requester becomes a member and the
// request is removed.
func (h *Handler) VoteJoinRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	// Only members vote
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only group members can vote."})
		return
	}

	var request models.GroupJoinRequest
	if err := h.db.Where("id = ? AND group_id = ?", requestID, groupID).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		return
	}

	var existingVote models.JoinRequestVote
	if err := h.db.Where("join_request_id = ? AND voter_id = ?", request.ID, userID).First(&existingVote).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already voted on this request."})
		return
	}

	vote := models.JoinRequestVote{
		JoinRequestID: request.ID,
		VoterID:       userID,
	}
	if err := h.db.Create(&vote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	var voteCount, memberCount int64
	h.db.Model(&models.JoinRequestVote{}).Where("join_request_id = ?", request.ID).Count(&voteCount)
	h.db.Model(&models.GroupMembership{}).Where("group_id = ?", groupID).Count(&memberCount)

	// Majority of current members approves the request
	if voteCount*2 > memberCount {
		err := h.db.Transaction(func(tx *gorm.DB) error {
			membership := models.GroupMembership{
				UserID:  request.UserID,
				GroupID: request.GroupID,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
			if err := tx.Where("join_request_id = ?", request.ID).Delete(&models.JoinRequestVote{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.GroupJoinRequest{}, request.ID).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve join request"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Join request approved", "approved": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded", "approved": false})
}

// DeleteJoinRequest lets a requester withdraw their own pending request
func (h *Handler) DeleteJoinRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.GroupJoinRequest
	if err := h.db.Where("id = ? AND user_id = ?", requestID, userID).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("join_request_id = ?", request.ID).Delete(&models.JoinRequestVote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.GroupJoinRequest{}, request.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw join request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Join request withdrawn"})
}

// RegisterJoinRequestRoutes registers join request routes
func (h *Handler) RegisterJoinRequestRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/join-requests", h.CreateJoinRequest)
	rg.GET("/:id/join-requests", h.ListJoinRequests)
	rg.POST("/:id/join-requests/:requestId/vote", h.VoteJoinRequest)
	rg.DELETE("/:id/join-requests/:requestId", h.DeleteJoinRequest)
}
