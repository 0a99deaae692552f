package groups

import "errors"

var (
	// ErrNotFound means the group does not exist
	ErrNotFound = errors.New("group not found")
	// ErrForbidden means the actor lacks the required role
	ErrForbidden = errors.New("permission denied")
	// ErrForbiddenForAdmin means the group admin attempted to leave their
	// own group; admins must transfer ownership or delete the group instead
	ErrForbiddenForAdmin = errors.New("admins cannot leave their own group")
	// ErrNotMember means the actor is not a member of the group
	ErrNotMember = errors.New("not a member of this group")
)
