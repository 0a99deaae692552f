package web3forms

import "testing"

func TestNewInvitePayload(t *testing.T) {
	p := NewInvitePayload(
		"key-123",
		"https://chipin.example.com",
		"Hiking Club",
		"/invites/accept/abc-token",
		"/invites/sent?group=1&invite=2",
	)

	if p.AccessKey != "key-123" {
		t.Errorf("Expected access key 'key-123', got %s", p.AccessKey)
	}
	if p.AcceptLink != "https://chipin.example.com/invites/accept/abc-token" {
		t.Errorf("Unexpected accept link: %s", p.AcceptLink)
	}
	if p.RedirectURL != "https://chipin.example.com/invites/sent?group=1&invite=2" {
		t.Errorf("Unexpected redirect URL: %s", p.RedirectURL)
	}
	if p.Subject != "You have been invited to join Hiking Club" {
		t.Errorf("Unexpected subject: %s", p.Subject)
	}
}

func TestResolveTrailingSlashOrigin(t *testing.T) {
	p := NewInvitePayload("k", "http://localhost:8080/", "G", "/invites/accept/t", "/invites/sent")
	if p.AcceptLink != "http://localhost:8080/invites/accept/t" {
		t.Errorf("Unexpected accept link: %s", p.AcceptLink)
	}
}
