package teams

import (
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
)

// Policy answers "may this context perform this action on this record"
// and filters collections down to what a context may see. Decisions are
// functions of role rank and record state only; no method here mutates
// anything, and none return errors. A store failure reads as "no".
type Policy struct {
	teamStor       stor.TeamStor
	membershipStor stor.MembershipStor
	invitationStor stor.InvitationStor

	// teamCreationEnabled mirrors the deployment's team-creation toggle.
	teamCreationEnabled bool
}

func NewPolicy(stors *stor.Stors, teamCreationEnabled bool) *Policy {
	return &Policy{
		teamStor:            stors.TeamStor,
		membershipStor:      stors.MembershipStor,
		invitationStor:      stors.InvitationStor,
		teamCreationEnabled: teamCreationEnabled,
	}
}

// roleIn resolves the requester's role in a team. The second return is
// false when the requester holds no membership there.
func (p *Policy) roleIn(ctx Context, teamID int) (model.Role, bool) {
	if !ctx.Identified() {
		return model.RoleViewer, false
	}

	membership, err := p.membershipStor.GetMembership(ctx.User.ID, teamID)
	if err != nil {
		return model.RoleViewer, false
	}

	return membership.Role, true
}

// CanViewTeam allows any member of the team.
func (p *Policy) CanViewTeam(ctx Context, team *model.Team) bool {
	if team == nil {
		return false
	}
	_, ok := p.roleIn(ctx, team.ID)
	return ok
}

// CanCreateTeam allows any identified user when team creation is
// enabled for the deployment.
func (p *Policy) CanCreateTeam(ctx Context) bool {
	return ctx.Identified() && p.teamCreationEnabled
}

// CanUpdateTeam allows owners and admins.
func (p *Policy) CanUpdateTeam(ctx Context, team *model.Team) bool {
	if team == nil {
		return false
	}
	role, ok := p.roleIn(ctx, team.ID)
	return ok && role.CanManageTeam()
}

// CanDeleteTeam allows owners only.
func (p *Policy) CanDeleteTeam(ctx Context, team *model.Team) bool {
	if team == nil {
		return false
	}
	role, ok := p.roleIn(ctx, team.ID)
	return ok && role == model.RoleOwner
}

// CanSwitchToTeam allows any member to make the team their active one.
func (p *Policy) CanSwitchToTeam(ctx Context, team *model.Team) bool {
	return p.CanViewTeam(ctx, team)
}

// CanViewMemberships allows any member of the team.
func (p *Policy) CanViewMemberships(ctx Context, team *model.Team) bool {
	return p.CanViewTeam(ctx, team)
}

// CanCreateMembership allows owners and admins.
func (p *Policy) CanCreateMembership(ctx Context, team *model.Team) bool {
	return p.CanUpdateTeam(ctx, team)
}

// CanUpdateMembership allows owners and admins to change a membership's
// role, unless the change would demote the team's last owner. The last
// owner may not be demoted by anyone, including themself.
func (p *Policy) CanUpdateMembership(ctx Context, membership *model.Membership, newRole model.Role) bool {
	if membership == nil || !newRole.Valid() {
		return false
	}

	role, ok := p.roleIn(ctx, membership.TeamID)
	if !ok || !role.CanManageTeam() {
		return false
	}

	return p.ownerRetained(membership, newRole)
}

// CanDeleteMembership allows owners and admins to remove a membership,
// unless it is the team's last owner membership.
func (p *Policy) CanDeleteMembership(ctx Context, membership *model.Membership) bool {
	if membership == nil {
		return false
	}

	role, ok := p.roleIn(ctx, membership.TeamID)
	if !ok || !role.CanManageTeam() {
		return false
	}

	return p.ownerRetained(membership, model.RoleViewer)
}

// ownerRetained reports whether moving membership to newRole (or
// removing it, which is equivalent to any non-owner role here) leaves
// the team with at least one owner.
func (p *Policy) ownerRetained(membership *model.Membership, newRole model.Role) bool {
	if membership.Role != model.RoleOwner || newRole == model.RoleOwner {
		return true
	}

	count, err := p.membershipStor.CountOtherOwners(membership.TeamID, membership.ID)
	if err != nil {
		return false
	}

	return count > 0
}

// CanViewInvitations allows owners and admins.
func (p *Policy) CanViewInvitations(ctx Context, team *model.Team) bool {
	return p.CanUpdateTeam(ctx, team)
}

// CanCreateInvitation allows owners and admins to invite at their own
// rank or below; nobody may invite above their own rank.
func (p *Policy) CanCreateInvitation(ctx Context, team *model.Team, targetRole model.Role) bool {
	if team == nil || !targetRole.Valid() {
		return false
	}

	role, ok := p.roleIn(ctx, team.ID)
	if !ok || !role.CanManageTeam() {
		return false
	}

	return role.AtLeast(targetRole)
}

// CanDeleteInvitation allows the invitation's creator or any owner or
// admin of its team to revoke it, as long as it hasn't been used.
func (p *Policy) CanDeleteInvitation(ctx Context, invitation *model.Invitation) bool {
	if invitation == nil || !ctx.Identified() {
		return false
	}

	if invitation.IsUsed() {
		return false
	}

	if invitation.CreatedByID == ctx.User.ID {
		return true
	}

	role, ok := p.roleIn(ctx, invitation.TeamID)
	return ok && role.CanManageTeam()
}

// CanAcceptInvitation allows any identified user to accept a pending
// invitation.
func (p *Policy) CanAcceptInvitation(ctx Context, invitation *model.Invitation, now time.Time) bool {
	return ctx.Identified() && invitation != nil && invitation.IsPending(now)
}

// TeamsFor returns the teams the requester belongs to.
func (p *Policy) TeamsFor(ctx Context) []model.Team {
	if !ctx.Identified() {
		return nil
	}

	teams, err := p.teamStor.GetTeamsForUser(ctx.User.ID)
	if err != nil {
		return nil
	}

	return teams
}

// MembershipsFor returns the memberships visible to the context: with a
// team in scope, that team's memberships (only if the requester is a
// member); otherwise the requester's own memberships across all teams.
func (p *Policy) MembershipsFor(ctx Context) []model.Membership {
	if !ctx.Identified() {
		return nil
	}

	if ctx.HasTeam() {
		if _, ok := p.roleIn(ctx, ctx.Team.ID); !ok {
			return nil
		}

		memberships, err := p.membershipStor.GetMembershipsForTeam(ctx.Team.ID)
		if err != nil {
			return nil
		}
		return memberships
	}

	memberships, err := p.membershipStor.GetMembershipsForUser(ctx.User.ID)
	if err != nil {
		return nil
	}

	return memberships
}

// InvitationsFor returns the invitations visible to the context: with a
// team in scope, that team's invitations (only for owners and admins);
// otherwise the invitations the requester created.
func (p *Policy) InvitationsFor(ctx Context) []model.Invitation {
	if !ctx.Identified() {
		return nil
	}

	if ctx.HasTeam() {
		role, ok := p.roleIn(ctx, ctx.Team.ID)
		if !ok || !role.CanManageTeam() {
			return nil
		}

		invitations, err := p.invitationStor.GetInvitationsForTeam(ctx.Team.ID)
		if err != nil {
			return nil
		}
		return invitations
	}

	invitations, err := p.invitationStor.GetInvitationsCreatedBy(ctx.User.ID)
	if err != nil {
		return nil
	}

	return invitations
}
