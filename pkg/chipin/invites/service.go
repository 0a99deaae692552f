package invites

import (
	"errors"
	"log/slog"
	"time"

	"github.com/chipin-app/chipin/pkg/chipin/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrFetchInvite returns the group's invite for the given user,
// creating it if absent. The operation is idempotent per (group, invited
// user) pair: re-inviting reuses the existing record and its token. If the
// existing invite has expired it is re-armed: expiry is pushed out and the
// accepted flag reset, nothing else changes.
func CreateOrFetchInvite(db *gorm.DB, groupID, invitedUserID, issuerID uint) (*models.Invite, error) {
	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if issuerID != group.AdminID {
		return nil, ErrForbidden
	}

	member, err := group.IsMember(db, invitedUserID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}

	var invite models.Invite
	err = db.Where(models.Invite{GroupID: groupID, InvitedUserID: invitedUserID}).
		Attrs(models.Invite{InvitedByID: issuerID}).
		FirstOrCreate(&invite).Error
	if err != nil {
		return nil, err
	}

	if err := RearmIfExpired(db, &invite); err != nil {
		return nil, err
	}

	slog.Info("invite issued", "group_id", groupID, "invited_user_id", invitedUserID, "invite_id", invite.ID)
	return &invite, nil
}

// RearmIfExpired resets an expired invite so it can be sent again: expiry
// moves forward by the standard validity window and the accepted flag is
// cleared. Only those two fields change; the token is never regenerated.
// No-op for unexpired invites.
func RearmIfExpired(db *gorm.DB, invite *models.Invite) error {
	if !invite.IsExpired() {
		return nil
	}

	invite.ExpiresAt = time.Now().Add(models.InviteValidity)
	invite.Accepted = false
	return db.Model(invite).Select("expires_at", "accepted").
		Updates(map[string]interface{}{
			"expires_at": invite.ExpiresAt,
			"accepted":   invite.Accepted,
		}).Error
}

// AcceptInvite resolves a token and joins the invited user to the group.
// The membership row, the accepted flag and the used_at stamp are committed
// in one transaction with the invite row locked, so concurrent acceptances
// of the same token serialize on that row and cannot leave partial state.
//
// Returns the invite together with ErrAlreadyProcessed when it was accepted
// earlier; the caller treats that as a notice, not a failure.
func AcceptInvite(db *gorm.DB, token string) (*models.Invite, error) {
	var invite models.Invite

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Group").Preload("InvitedUser").
			Where("token = ?", token).First(&invite).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if invite.Accepted {
			return ErrAlreadyProcessed
		}
		if invite.IsExpired() {
			return ErrExpired
		}

		membership := models.GroupMembership{
			UserID:  invite.InvitedUserID,
			GroupID: invite.GroupID,
		}
		if err := tx.Where(membership).FirstOrCreate(&membership).Error; err != nil {
			return err
		}

		now := time.Now()
		invite.Accepted = true
		invite.UsedAt = &now
		return tx.Model(&invite).
			Updates(map[string]interface{}{
				"accepted": true,
				"used_at":  &now,
			}).Error
	})

	switch {
	case err == nil:
		slog.Info("invite accepted", "invite_id", invite.ID, "group_id", invite.GroupID, "user_id", invite.InvitedUserID)
		return &invite, nil
	case errors.Is(err, ErrAlreadyProcessed):
		return &invite, err
	default:
		return nil, err
	}
}
