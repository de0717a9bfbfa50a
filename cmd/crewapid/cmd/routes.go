package cmd

import (
	"github.com/crewlab/crew/pkg/crewapid/webapi"
	"github.com/crewlab/crew/pkg/crewapid/webapi/apimiddleware"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/teams"
	"github.com/labstack/echo/v4"
)

type RouteOpts struct {
	stors      *stor.Stors
	policy     *teams.Policy
	registry   *teams.Registry
	issuer     *teams.Issuer
	acceptance *teams.Acceptance
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	g := e.Group("/api")

	g.Use(apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
		Keyname:         "apikey",
		GetUserByAPIKey: opts.stors.UserStor.GetUserByAPIToken,
	}))

	teamController := webapi.NewTeamController(opts.stors.TeamStor, opts.policy, opts.registry)
	g.GET("/teams", teamController.IndexTeams)
	g.POST("/teams", teamController.CreateTeam)
	g.PUT("/teams/:id", teamController.UpdateTeam)
	g.DELETE("/teams/:id", teamController.DeleteTeam)
	g.POST("/teams/:id/restore", teamController.RestoreTeam)

	membershipController := webapi.NewMembershipController(opts.stors.TeamStor, opts.stors.MembershipStor, opts.policy)
	g.GET("/memberships", membershipController.IndexMemberships)
	g.PUT("/memberships/:id", membershipController.UpdateMembershipRole)
	g.DELETE("/memberships/:id", membershipController.DeleteMembership)

	invitationController := webapi.NewInvitationController(opts.stors.TeamStor, opts.stors.InvitationStor,
		opts.policy, opts.issuer, opts.acceptance)
	g.GET("/invitations", invitationController.IndexInvitations)
	g.POST("/invitations", invitationController.CreateInvitation)
	g.DELETE("/invitations/:id", invitationController.DeleteInvitation)
	g.POST("/invitations/accept", invitationController.AcceptInvitation)
}
