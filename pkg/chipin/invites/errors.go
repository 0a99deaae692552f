package invites

import "errors"

var (
	// ErrNotFound means no invite matches the lookup
	ErrNotFound = errors.New("invite not found")
	// ErrForbidden means the actor is not the group admin
	ErrForbidden = errors.New("only the group administrator can invite members")
	// ErrAlreadyMember means the invited user is already in the group
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrExpired means the invite is past its expiry and cannot be accepted
	ErrExpired = errors.New("this invitation has expired")
	// ErrAlreadyProcessed is informational: the invite was accepted earlier
	// and acceptance is a no-op
	ErrAlreadyProcessed = errors.New("this invitation has already been used")
)
