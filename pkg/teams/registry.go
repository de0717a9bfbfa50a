package teams

import (
	"strings"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/pkg/errors"
)

// Registry manages tenant identity: team creation with slug
// derivation, soft destroy, and restore. Authorization is the caller's
// job (consult Policy first); the registry re-validates its own data
// invariants regardless.
type Registry struct {
	teamStor stor.TeamStor
}

func NewRegistry(stors *stor.Stors) *Registry {
	return &Registry{teamStor: stors.TeamStor}
}

// Create creates a team named name with owner as its first (owner)
// membership. The slug is derived from the name and disambiguated with
// a numeric suffix against live teams.
func (r *Registry) Create(name string, owner *model.User) (*model.Team, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}

	if owner == nil {
		return nil, ErrMissingUser
	}

	team, err := r.teamStor.CreateTeam(strings.TrimSpace(name), owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed creating team")
	}

	return team, nil
}

// Rename updates the team's display name. The slug does not change.
func (r *Registry) Rename(team *model.Team, name string) (*model.Team, error) {
	if team == nil {
		return nil, ErrMissingTeam
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}

	return r.teamStor.UpdateTeamName(team, strings.TrimSpace(name))
}

// Destroy soft deletes the team. Its memberships and invitations are
// removed as cleanup; the team row is retained for restore and its slug
// becomes reusable.
func (r *Registry) Destroy(team *model.Team) error {
	if team == nil {
		return ErrMissingTeam
	}

	return r.teamStor.DeleteTeam(team)
}

// Restore clears the team's soft-delete marker. If a newer team took
// the slug while this one was deleted, Restore refuses with
// ErrSlugInUse; use RestoreAs to force a rename.
func (r *Registry) Restore(team *model.Team) (*model.Team, error) {
	if team == nil {
		return nil, ErrMissingTeam
	}

	restored, err := r.teamStor.RestoreTeam(team)
	if err != nil {
		if errors.Is(err, stor.ErrSlugInUse) {
			return nil, ErrSlugInUse
		}
		return nil, errors.Wrap(err, "failed restoring team")
	}

	return restored, nil
}

// RestoreAs restores the team under a new name with a freshly derived
// unique slug. This is the path for restoring a team whose old slug was
// reused.
func (r *Registry) RestoreAs(team *model.Team, name string) (*model.Team, error) {
	if team == nil {
		return nil, ErrMissingTeam
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}

	return r.teamStor.RestoreTeamAs(team, strings.TrimSpace(name))
}
