package webapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/crewlab/crew/pkg/crewapid/webapi/apimiddleware"
	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/teams"
	"github.com/labstack/echo/v4"
)

type InvitationController struct {
	teamStor       stor.TeamStor
	invitationStor stor.InvitationStor
	policy         *teams.Policy
	issuer         *teams.Issuer
	acceptance     *teams.Acceptance
}

func NewInvitationController(teamStor stor.TeamStor, invitationStor stor.InvitationStor, policy *teams.Policy, issuer *teams.Issuer, acceptance *teams.Acceptance) *InvitationController {
	return &InvitationController{
		teamStor:       teamStor,
		invitationStor: invitationStor,
		policy:         policy,
		issuer:         issuer,
		acceptance:     acceptance,
	}
}

// IndexInvitations lists invitations in scope: the ?team_id team's
// invitations for its owners and admins, otherwise the invitations the
// requester created.
func (c *InvitationController) IndexInvitations(ctx echo.Context) error {
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

	visible := c.policy.InvitationsFor(teams.NewContext(requester, team))
	if visible == nil {
		visible = []model.Invitation{}
	}

	return ctx.JSON(http.StatusOK, visible)
}

// CreateInvitation issues a new invitation. The response carries the
// raw token; it is the only time it is ever visible.
func (c *InvitationController) CreateInvitation(ctx echo.Context) error {
	var req struct {
		TeamID   int    `json:"team_id"`
		Role     string `json:"role"`
		TTLHours int    `json:"ttl_hours"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	targetRole, err := model.ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := c.teamStor.GetTeamByID(req.TeamID)
	if err != nil {
		return echo.ErrNotFound
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanCreateInvitation(teams.NewContext(requester, team), team, targetRole) {
		return echo.ErrForbidden
	}

	var ttl *time.Duration
	if req.TTLHours > 0 {
		d := time.Duration(req.TTLHours) * time.Hour
		ttl = &d
	}

	invitation, rawToken, err := c.issuer.Issue(team, targetRole, requester, ttl)
	if err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.JSON(http.StatusCreated, echo.Map{
		"invitation": invitation,
		"token":      rawToken,
	})
}

func (c *InvitationController) DeleteInvitation(ctx echo.Context) error {
	invitationID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invitation id")
	}

	invitation, err := c.invitationStor.GetInvitationByID(invitationID)
	if err != nil {
		return echo.ErrNotFound
	}

	requester := apimiddleware.GetUserFromContext(ctx)
	if !c.policy.CanDeleteInvitation(teams.NewContext(requester, nil), invitation) {
		return echo.ErrForbidden
	}

	if err := c.invitationStor.DeleteInvitation(invitation); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AcceptInvitation redeems a raw token for the requester. Each refusal
// kind maps to its own status so the client can render precise
// guidance.
func (c *InvitationController) AcceptInvitation(ctx echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	requester := apimiddleware.GetUserFromContext(ctx)

	membership, err := c.acceptance.Accept(req.Token, requester)
	if err != nil {
		return echo.NewHTTPError(refusalStatus(err), err.Error())
	}

	return ctx.JSON(http.StatusCreated, membership)
}
