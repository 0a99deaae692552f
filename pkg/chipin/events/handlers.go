package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/chipin-app/chipin/pkg/chipin/auth"
	"github.com/chipin-app/chipin/pkg/chipin/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles event requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new events handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Name       string    `json:"name" binding:"required"`
	Date       time.Time `json:"date" binding:"required"`
	TotalSpend float64   `json:"total_spend"`
}

// UpdateEventRequest represents the request to update an event
type UpdateEventRequest struct {
	Name       *string    `json:"name"`
	Date       *time.Time `json:"date"`
	TotalSpend *float64   `json:"total_spend"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID         uint       `json:"id"`
	GroupID    uint       `json:"group_id"`
	Name       string     `json:"name"`
	Date       time.Time  `json:"date"`
	TotalSpend float64    `json:"total_spend"`
	Status     string     `json:"status"`
	Share      float64    `json:"share"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

func (h *Handler) eventResponse(event *models.Event) (EventResponse, error) {
	share, err := ComputeShare(h.db, event)
	if err != nil {
		return EventResponse{}, err
	}
	return EventResponse{
		ID:         event.ID,
		GroupID:    event.GroupID,
		Name:       event.Name,
		Date:       event.Date,
		TotalSpend: event.TotalSpend,
		Status:     string(event.Status),
		Share:      share,
		ArchivedAt: event.ArchivedAt,
	}, nil
}

// loadGroupForMember fetches the group and verifies the requestor's
// membership; writes the error response itself on failure.
func (h *Handler) loadGroupForMember(c *gin.Context, userID uint) (*models.Group, bool) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return nil, false
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return nil, false
	}

	member, err := group.IsMember(h.db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check membership"})
		return nil, false
	}
	if !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "You're not a member of this group."})
		return nil, false
	}
	return &group, true
}

func (h *Handler) loadEvent(c *gin.Context, group *models.Group) (*models.Event, bool) {
	eventID, err := strconv.ParseUint(c.Param("eventId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return nil, false
	}

	var event models.Event
	if err := h.db.Where("id = ? AND group_id = ?", eventID, group.ID).First(&event).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return nil, false
	}
	return &event, true
}

// List returns the group's events with freshly evaluated statuses
// @Summary List group events
// @Description List events in a group with current share and status
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} EventResponse
// @Security BearerAuth
// @Router /groups/{id}/events [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}

	var events []models.Event
	if err := h.db.Where("group_id = ?", group.ID).Order("date DESC").Find(&events).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	out := make([]EventResponse, 0, len(events))
	for i := range events {
		status, share, err := EvaluateStatus(h.db, &events[i], false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate event"})
			return
		}
		out = append(out, EventResponse{
			ID:         events[i].ID,
			GroupID:    events[i].GroupID,
			Name:       events[i].Name,
			Date:       events[i].Date,
			TotalSpend: events[i].TotalSpend,
			Status:     string(status),
			Share:      share,
			ArchivedAt: events[i].ArchivedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Create adds an event to the group. Any member can propose one; it
// starts out Pending until evaluated.
// @Summary Create an event
// @Description Create an event in a group
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body CreateEventRequest true "Event details"
// @Success 201 {object} EventResponse
// @Security BearerAuth
// @Router /groups/{id}/events [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.Event{
		GroupID:    group.ID,
		Name:       req.Name,
		Date:       req.Date,
		TotalSpend: req.TotalSpend,
		Status:     models.EventStatusPending,
	}
	if err := h.db.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	resp, err := h.eventResponse(&event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute share"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get returns one event with its current share and status. Fetching an
// event re-evaluates its viability so a stale status is never served.
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	status, share, err := EvaluateStatus(h.db, event, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate event"})
		return
	}

	c.JSON(http.StatusOK, EventResponse{
		ID:         event.ID,
		GroupID:    event.GroupID,
		Name:       event.Name,
		Date:       event.Date,
		TotalSpend: event.TotalSpend,
		Status:     string(status),
		Share:      share,
		ArchivedAt: event.ArchivedAt,
	})
}

// Update changes an event's details (group admin only)
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can edit events."})
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.TotalSpend != nil {
		updates["total_spend"] = *req.TotalSpend
	}
	if len(updates) > 0 {
		if err := h.db.Model(event).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
			return
		}
	}

	// Changed spend may flip viability
	status, share, err := EvaluateStatus(h.db, event, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate event"})
		return
	}

	c.JSON(http.StatusOK, EventResponse{
		ID:         event.ID,
		GroupID:    event.GroupID,
		Name:       event.Name,
		Date:       event.Date,
		TotalSpend: event.TotalSpend,
		Status:     string(status),
		Share:      share,
		ArchivedAt: event.ArchivedAt,
	})
}

// Delete removes an event (group admin only)
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can delete events."})
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventAttendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(event).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// Evaluate recomputes the event's viability. With ?dry_run=true the
// computed status is reported without being saved.
// @Summary Evaluate event viability
// @Description Recompute an event's status against member spending ceilings
// @Tags events
// @Produce json
// @Param id path int true "Group ID"
// @Param eventId path int true "Event ID"
// @Param dry_run query bool false "Report without persisting"
// @Success 200 {object} EventResponse
// @Security BearerAuth
// @Router /groups/{id}/events/{eventId}/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	dryRun := c.Query("dry_run") == "true"
	status, share, err := EvaluateStatus(h.db, event, dryRun)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate event"})
		return
	}

	c.JSON(http.StatusOK, EventResponse{
		ID:         event.ID,
		GroupID:    event.GroupID,
		Name:       event.Name,
		Date:       event.Date,
		TotalSpend: event.TotalSpend,
		Status:     string(status),
		Share:      share,
		ArchivedAt: event.ArchivedAt,
	})
}

// ArchiveEvent archives an event (group admin only). Archived events
// keep their final state; there is no unarchive.
func (h *Handler) ArchiveEvent(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	if group.AdminID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the group administrator can archive events."})
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	if err := Archive(h.db, event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive event"})
		return
	}

	resp, err := h.eventResponse(event)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute share"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ToggleAttendance flips the requestor's attendance on an event
func (h *Handler) ToggleAttendance(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	group, ok := h.loadGroupForMember(c, userID)
	if !ok {
		return
	}
	event, ok := h.loadEvent(c, group)
	if !ok {
		return
	}

	var attendance models.EventAttendance
	err := h.db.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&attendance).Error
	switch {
	case err == nil:
		if err := h.db.Delete(&attendance).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"attending": false})
	case err == gorm.ErrRecordNotFound:
		attendance = models.EventAttendance{EventID: event.ID, UserID: userID}
		if err := h.db.Create(&attendance).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"attending": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update attendance"})
	}
}

// RegisterRoutes registers event routes under the authenticated /groups group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/events", h.List)
	rg.POST("/:id/events", h.Create)
	rg.GET("/:id/events/:eventId", h.Get)
	rg.PUT("/:id/events/:eventId", h.Update)
	rg.DELETE("/:id/events/:eventId", h.Delete)
	rg.POST("/:id/events/:eventId/evaluate", h.Evaluate)
	rg.POST("/:id/events/:eventId/archive", h.ArchiveEvent)
	rg.POST("/:id/events/:eventId/attendance", h.ToggleAttendance)
}
