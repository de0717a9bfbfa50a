package stor

import "errors"

var (
	// ErrLastOwner is returned when a role change or delete would leave
	// a team with memberships but no owner.
	ErrLastOwner = errors.New("team must retain at least one owner")

	// ErrAlreadyMember is returned when creating a membership for a
	// (user, team) pair that already has one.
	ErrAlreadyMember = errors.New("user already has a membership in team")

	// ErrInvitationUsed is returned when redeeming or deleting an
	// invitation whose used_at is already set.
	ErrInvitationUsed = errors.New("invitation has already been used")

	// ErrSlugInUse is returned when restoring a team whose slug has been
	// taken by a newer team.
	ErrSlugInUse = errors.New("team slug is in use by another team")
)
