package webapi

import (
	"net/http"
	"strconv"

	"github.com/crewlab/crew/pkg/crewapid/webapi/apimiddleware"
	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/teams"
	"github.com/labstack/echo/v4"
)

type TeamController struct {
	teamStor stor.TeamStor
	policy   *teams.Policy
	registry *teams.Registry
}

func NewTeamController(teamStor stor.TeamStor, policy *teams.Policy, registry *teams.Registry) *TeamController {
	return &TeamController{
		teamStor: teamStor,
		policy:   policy,
		registry: registry,
	}
}

// IndexTeams lists the teams the requester belongs to.
func (c *TeamController) IndexTeams(ctx echo.Context) error {
	requester := apimiddleware.GetUserFromContext(ctx)
	teamCtx := teams.NewContext(requester, nil)

	visible := c.policy.TeamsFor(teamCtx)
	if visible == nil {
		visible = []model.Team{}
	}

	return ctx.JSON(http.StatusOK, visible)
}

func (c *TeamController) CreateTeam(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanCreateTeam(teams.NewContext(requester, nil)) {
		return echo.NewHTTPError(http.StatusForbidden, "team creation is not permitted")
	}

	team, err := c.registry.Create(req.Name, requester)
	if err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.JSON(http.StatusCreated, team)
}

func (c *TeamController) UpdateTeam(ctx echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	team, err := c.lookupTeam(ctx)
	if err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanUpdateTeam(teams.NewContext(requester, team), team) {
		return echo.ErrForbidden
	}

	team, err = c.registry.Rename(team, req.Name)
	if err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) DeleteTeam(ctx echo.Context) error {
	team, err := c.lookupTeam(ctx)
	if err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanDeleteTeam(teams.NewContext(requester, team), team) {
		return echo.ErrForbidden
	}

	if err := c.registry.Destroy(team); err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RestoreTeam clears a team's soft-delete marker. The destroy cascade
// removed the team's memberships, so there is no rank left to check;
// any identified user may ask, and a slug conflict comes back as 409.
func (c *TeamController) RestoreTeam(ctx echo.Context) error {
	teamID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	team, err := c.teamStor.GetDeletedTeamByID(teamID)
	if err != nil {
		return echo.ErrNotFound
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Name != "" {
		team, err = c.registry.RestoreAs(team, req.Name)
	} else {
		team, err = c.registry.Restore(team)
	}

	if err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.JSON(http.StatusOK, team)
}

func (c *TeamController) lookupTeam(ctx echo.Context) (*model.Team, error) {
	teamID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid team id")
	}

	team, err := c.teamStor.GetTeamByID(teamID)
	if err != nil {
		return nil, echo.ErrNotFound
	}

	return team, nil
}
