package webapi

import (
	"net/http"
	"strconv"

	"github.com/crewlab/crew/pkg/crewapid/webapi/apimiddleware"
	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/teams"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type MembershipController struct {
	teamStor       stor.TeamStor
	membershipStor stor.MembershipStor
	policy         *teams.Policy
}

func NewMembershipController(teamStor stor.TeamStor, membershipStor stor.MembershipStor, policy *teams.Policy) *MembershipController {
	return &MembershipController{
		teamStor:       teamStor,
		membershipStor: membershipStor,
		policy:         policy,
	}
}

// IndexMemberships lists memberships in scope: the ?team_id team's
// memberships when given (and the requester is a member), otherwise the
// requester's own memberships across teams.
func (c *MembershipController) IndexMemberships(ctx echo.Context) error {
	requester := apimiddleware.GetUserFromContext(ctx)

	var team *model.Team
	if teamIDParam := ctx.QueryParam("team_id"); teamIDParam != "" {
		teamID, err := strconv.Atoi(teamIDParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
		}

		if team, err = c.teamStor.GetTeamByID(teamID); err != nil {
			return echo.ErrNotFound
		}
	}

	visible := c.policy.MembershipsFor(teams.NewContext(requester, team))
	if visible == nil {
		visible = []model.Membership{}
	}

	return ctx.JSON(http.StatusOK, visible)
}

func (c *MembershipController) UpdateMembershipRole(ctx echo.Context) error {
	var req struct {
		Role string `json:"role"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	newRole, err := model.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	membership, err := c.lookupMembership(ctx)
	if err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanUpdateMembership(teams.NewContext(requester, nil), membership, newRole) {
		return echo.ErrForbidden
	}

	membership, err = c.membershipStor.UpdateMembershipRole(membership, newRole)
	if err != nil {
		if errors.Is(err, stor.ErrLastOwner) {
			return echo.NewHTTPError(http.StatusConflict, teams.ErrLastOwner.Error())
		}
		return err
	}

	return ctx.JSON(http.StatusOK, membership)
}

func (c *MembershipController) DeleteMembership(ctx echo.Context) error {
	membership, err := c.lookupMembership(ctx)
	if err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanDeleteMembership(teams.NewContext(requester, nil), membership) {
		return echo.ErrForbidden
	}

	if err := c.membershipStor.DeleteMembership(membership); err != nil {
		if errors.Is(err, stor.ErrLastOwner) {
			return echo.NewHTTPError(http.StatusConflict, teams.ErrLastOwner.Error())
		}
		return err
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *MembershipController) lookupMembership(ctx echo.Context) (*model.Membership, error) {
	membershipID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid membership id")
	}

	membership, err := c.membershipStor.GetMembershipByID(membershipID)
	if err != nil {
		return nil, echo.ErrNotFound
	}

	return membership, nil
}
