package groups

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chipin-app/chipin/pkg/chipin/models"
	"gorm.io/gorm"
)

// CreateGroup creates a group owned by the admin and adds the admin as a
// member in the same transaction.
func CreateGroup(db *gorm.DB, adminID uint, name string) (*models.Group, error) {
	group := &models.Group{
		Name:    name,
		AdminID: adminID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		membership := models.GroupMembership{
			UserID:  adminID,
			GroupID: group.ID,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	slog.Info("group created", "group_id", group.ID, "admin_id", adminID)
	return group, nil
}

// LeaveGroup removes the user from the group's members. The group admin can
// never leave through this path.
func LeaveGroup(db *gorm.DB, userID, groupID uint) error {
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	member, err := group.IsMember(db, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	if userID == group.AdminID {
		return ErrForbiddenForAdmin
	}

	if err := db.Where("user_id = ? AND group_id = ?", userID, groupID).
		Delete(&models.GroupMembership{}).Error; err != nil {
		return err
	}

	slog.Info("member left group", "group_id", groupID, "user_id", userID)
	return nil
}

// DeleteGroup deletes the group and everything it owns: memberships,
// invites, events with their attendance, join requests with their votes,
// and comments. Only the group admin may delete.
func DeleteGroup(db *gorm.DB, requestorID, groupID uint) error {
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if requestorID != group.AdminID {
		return ErrForbidden
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint
		if err := tx.Model(&models.Event{}).Where("group_id = ?", groupID).
			Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).
				Delete(&models.EventAttendance{}).Error; err != nil {
				return err
			}
		}

		var requestIDs []uint
		if err := tx.Model(&models.GroupJoinRequest{}).Where("group_id = ?", groupID).
			Pluck("id", &requestIDs).Error; err != nil {
			return err
		}
		if len(requestIDs) > 0 {
			if err := tx.Where("join_request_id IN ?", requestIDs).
				Delete(&models.JoinRequestVote{}).Error; err != nil {
				return err
			}
		}

		for _, model := range []interface{}{
			&models.Event{},
			&models.GroupJoinRequest{},
			&models.Invite{},
			&models.Comment{},
			&models.GroupMembership{},
		} {
			if err := tx.Where("group_id = ?", groupID).Delete(model).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Group{}, groupID).Error
	})
	if err != nil {
		return fmt.Errorf("delete group %d: %w", groupID, err)
	}

	slog.Info("group deleted", "group_id", groupID, "admin_id", requestorID)
	return nil
}
