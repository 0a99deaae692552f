package events

import (
	"log/slog"
	"time"

	"github.com/chipin-app/chipin/pkg/chipin/models"
	"gorm.io/gorm"
)

// ComputeShare returns the per-member share of an event's total spend.
// A group with no members yields a share of zero rather than a division
// error. The share is never stored; it is recomputed on demand so it
// always reflects current membership.
func ComputeShare(db *gorm.DB, event *models.Event) (float64, error) {
	var count int64
	err := db.Model(&models.GroupMembership{}).
		Where("group_id = ?", event.GroupID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return event.TotalSpend / float64(count), nil
}

// EvaluateStatus recomputes an event's viability against the spending
// ceilings of the group's members. An archived event is terminal: its
// status is returned unchanged and nothing is written. Otherwise the
// event is Pending when any member's max_spend is below the share and
// Active when every member can cover it. Membership order does not
// affect the outcome.
//
// The computed status is persisted unless dryRun is set.
func EvaluateStatus(db *gorm.DB, event *models.Event, dryRun bool) (models.EventStatus, float64, error) {
	if event.Status == models.EventStatusArchived {
		share, err := ComputeShare(db, event)
		if err != nil {
			return "", 0, err
		}
		return models.EventStatusArchived, share, nil
	}

	share, err := ComputeShare(db, event)
	if err != nil {
		return "", 0, err
	}

	var profiles []models.Profile
	err = db.Where("user_id IN (?)",
		db.Model(&models.GroupMembership{}).Select("user_id").Where("group_id = ?", event.GroupID),
	).Find(&profiles).Error
	if err != nil {
		return "", 0, err
	}

	status := models.EventStatusActive
	for _, p := range profiles {
		if p.MaxSpend < share {
			status = models.EventStatusPending
			break
		}
	}

	if !dryRun && status != event.Status {
		if err := db.Model(event).Update("status", status).Error; err != nil {
			return "", 0, err
		}
		slog.Info("event status changed",
			"event_id", event.ID, "group_id", event.GroupID,
			"status", status, "share", share)
	}
	event.Status = status
	return status, share, nil
}

// Archive marks an event archived and stamps archived_at. Archiving an
// already-archived event leaves it untouched, so the operation is safe
// to repeat. There is no unarchive.
func Archive(db *gorm.DB, event *models.Event) error {
	if event.Status == models.EventStatusArchived {
		return nil
	}

	now := time.Now()
	err := db.Model(event).Updates(map[string]interface{}{
		"status":      models.EventStatusArchived,
		"archived_at": &now,
	}).Error
	if err != nil {
		return err
	}
	event.Status = models.EventStatusArchived
	event.ArchivedAt = &now
	slog.Info("event archived", "event_id", event.ID, "group_id", event.GroupID)
	return nil
}
