package webapi

import (
	"net/http"

	"github.com/crewlab/crew/pkg/teams"
	"github.com/pkg/errors"
)

// refusalStatus maps core refusals onto HTTP statuses so every refusal
// kind keeps a distinct, renderable response.
func refusalStatus(err error) int {
	switch {
	case errors.Is(err, teams.ErrMissingUser),
		errors.Is(err, teams.ErrMissingTeam),
		errors.Is(err, teams.ErrMissingName),
		errors.Is(err, teams.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, teams.ErrNotAMember),
		errors.Is(err, teams.ErrRoleNotPermitted):
		return http.StatusForbidden
	case errors.Is(err, teams.ErrInvitationNotFound):
		return http.StatusNotFound
	case errors.Is(err, teams.ErrInvitationExpired):
		return http.StatusGone
	case errors.Is(err, teams.ErrInvitationUsed),
		errors.Is(err, teams.ErrAlreadyMember),
		errors.Is(err, teams.ErrLastOwner),
		errors.Is(err, teams.ErrSlugInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
