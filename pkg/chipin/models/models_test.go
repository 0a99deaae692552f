package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestAutoMigrate(t *testing.T) {
	db := setupTestDB(t)

	err := AutoMigrate(db)
	if err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Verify tables exist by checking if we can query them
	tables := []string{"users", "profiles", "groups", "group_memberships", "invites", "events", "event_attendances", "group_join_requests", "join_request_votes", "comments", "transactions"}
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestNewUserWithProfile(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user, err := NewUserWithProfile(db, "alice@example.com", "hashed_password", "Alice", SystemRoleUser)
	if err != nil {
		t.Fatalf("NewUserWithProfile failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("Expected user ID to be set after create")
	}
	if user.Profile.ID == 0 {
		t.Fatal("Expected profile to be created with user")
	}
	if user.Profile.Nickname != "Alice" {
		t.Errorf("Expected nickname 'Alice', got %s", user.Profile.Nickname)
	}
	if user.Profile.MaxSpend != DefaultMaxSpend {
		t.Errorf("Expected default max spend %v, got %v", DefaultMaxSpend, user.Profile.MaxSpend)
	}
	if user.Profile.Balance != DefaultBalance {
		t.Errorf("Expected default balance %v, got %v", DefaultBalance, user.Profile.Balance)
	}

	// Test unique email constraint
	_, err = NewUserWithProfile(db, "alice@example.com", "another_hash", "Alice Again", SystemRoleUser)
	if err == nil {
		t.Error("Expected error when creating user with duplicate email")
	}
}

func TestNicknameCollisions(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	first, err := NewUserWithProfile(db, "one@example.com", "hash", "Sam", SystemRoleUser)
	if err != nil {
		t.Fatalf("NewUserWithProfile failed: %v", err)
	}
	if first.Profile.Nickname != "Sam" {
		t.Errorf("Expected nickname 'Sam', got %s", first.Profile.Nickname)
	}

	// Same name, different case: uniqueness is case-insensitive
	second, err := NewUserWithProfile(db, "two@example.com", "hash", "sam", SystemRoleUser)
	if err != nil {
		t.Fatalf("NewUserWithProfile failed: %v", err)
	}
	if second.Profile.Nickname != "sam-2" {
		t.Errorf("Expected nickname 'sam-2', got %s", second.Profile.Nickname)
	}

	third, err := NewUserWithProfile(db, "three@example.com", "hash", "Sam", SystemRoleUser)
	if err != nil {
		t.Fatalf("NewUserWithProfile failed: %v", err)
	}
	if third.Profile.Nickname != "Sam-3" {
		t.Errorf("Expected nickname 'Sam-3', got %s", third.Profile.Nickname)
	}
}

func TestNicknameFallsBackToEmail(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user, err := NewUserWithProfile(db, "quiet@example.com", "hash", "", SystemRoleUser)
	if err != nil {
		t.Fatalf("NewUserWithProfile failed: %v", err)
	}
	if user.Profile.Nickname != "quiet" {
		t.Errorf("Expected nickname 'quiet', got %s", user.Profile.Nickname)
	}
}

func TestInviteTokenAssignedOnCreate(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	admin, _ := NewUserWithProfile(db, "admin@example.com", "hash", "Admin", SystemRoleUser)
	invitee, _ := NewUserWithProfile(db, "invitee@example.com", "hash", "Invitee", SystemRoleUser)
	group := Group{Name: "Hiking Club", AdminID: admin.ID}
	db.Create(&group)

	before := time.Now()
	invite := Invite{
		GroupID:       group.ID,
		InvitedUserID: invitee.ID,
		InvitedByID:   admin.ID,
	}
	if err := db.Create(&invite).Error; err != nil {
		t.Fatalf("Failed to create invite: %v", err)
	}

	if invite.Token == "" {
		t.Error("Expected token to be assigned on create")
	}
	if invite.IsExpired() {
		t.Error("Fresh invite should not be expired")
	}
	wantExpiry := before.Add(InviteValidity)
	if invite.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || invite.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("Expected expiry about 14 days out, got %v", invite.ExpiresAt)
	}

	// A second invite for the same (group, invitee) pair violates the unique index
	dup := Invite{
		GroupID:       group.ID,
		InvitedUserID: invitee.ID,
		InvitedByID:   admin.ID,
	}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate invite for same group and user")
	}
}

func TestEventDefaultsToPending(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	admin, _ := NewUserWithProfile(db, "admin@example.com", "hash", "Admin", SystemRoleUser)
	group := Group{Name: "Hiking Club", AdminID: admin.ID}
	db.Create(&group)

	event := Event{
		GroupID:    group.ID,
		Name:       "Trip",
		Date:       time.Now().AddDate(0, 1, 0),
		TotalSpend: 120,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	var loaded Event
	db.First(&loaded, event.ID)
	if loaded.Status != EventStatusPending {
		t.Errorf("Expected default status Pending, got %s", loaded.Status)
	}
	if loaded.ArchivedAt != nil {
		t.Error("Expected archived_at to be unset on create")
	}
}

func TestGroupMembershipUniqueness(t *testing.T) {
	db := setupTestDB(t)
	AutoMigrate(db)

	user, _ := NewUserWithProfile(db, "test@example.com", "hash", "Test", SystemRoleUser)
	group := Group{Name: "Test Group", AdminID: user.ID}
	db.Create(&group)

	membership := GroupMembership{UserID: user.ID, GroupID: group.ID}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("Failed to create membership: %v", err)
	}

	dup := GroupMembership{UserID: user.ID, GroupID: group.ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Expected error when creating duplicate membership")
	}

	ok, err := group.IsMember(db, user.ID)
	if err != nil {
		t.Fatalf("IsMember failed: %v", err)
	}
	if !ok {
		t.Error("Expected user to be a member")
	}

	count, err := group.MemberCount(db)
	if err != nil {
		t.Fatalf("MemberCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 member, got %d", count)
	}
}
