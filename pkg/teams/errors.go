// Package teams holds the access-control core: the authorization
// policy over ranked roles, the invitation issuer and acceptance state
// machine, and the team registry. Every refusal is a distinct sentinel
// so callers can tell a used token from an expired one from a
// permission problem.
package teams

import "errors"

var (
	// ErrMissingUser indicates a required user argument was nil.
	ErrMissingUser = errors.New("user is required")

	// ErrMissingTeam indicates a required team argument was nil.
	ErrMissingTeam = errors.New("team is required")

	// ErrMissingName indicates a blank team name.
	ErrMissingName = errors.New("name is required")

	// ErrInvalidRole indicates a role outside owner..viewer.
	ErrInvalidRole = errors.New("unknown role")

	// ErrNotAMember is returned when the requester holds no membership
	// in the team they are acting on.
	ErrNotAMember = errors.New("not a member of the team")

	// ErrRoleNotPermitted is returned when the requester's rank does not
	// allow the operation, including inviting above their own rank.
	ErrRoleNotPermitted = errors.New("role not permitted")

	// ErrInvitationNotFound is returned when no invitation matches the
	// presented token.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrInvitationExpired is returned when the invitation's expiry has
	// passed without it ever being used.
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationUsed is returned when the invitation was already
	// redeemed.
	ErrInvitationUsed = errors.New("invitation has already been used")

	// ErrAlreadyMember is returned when the accepting user already holds
	// a membership in the invitation's team.
	ErrAlreadyMember = errors.New("already a member of the team")

	// ErrLastOwner is returned when an operation would leave the team
	// without an owner.
	ErrLastOwner = errors.New("team must retain at least one owner")

	// ErrSlugInUse is returned when restoring a team whose slug was
	// taken by a newer team; restore under a new name instead.
	ErrSlugInUse = errors.New("team slug is in use by another team")
)
