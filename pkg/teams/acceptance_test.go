package teams

import (
	"testing"
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/tutil"
	"github.com/stretchr/testify/require"
)

type acceptanceFixture struct {
	stors      *stor.Stors
	issuer     *Issuer
	acceptance *Acceptance
	team       *model.Team
	owner      *model.User
	invitee    *model.User
}

func newAcceptanceFixture(t *testing.T) *acceptanceFixture {
	stors := tutil.NewTestStors(t)

	f := &acceptanceFixture{
		stors:      stors,
		issuer:     NewIssuer(stors),
		acceptance: NewAcceptance(stors),
		owner:      tutil.CreateTestUser(t, stors, "owner", "owner@example.com"),
		invitee:    tutil.CreateTestUser(t, stors, "invitee", "invitee@example.com"),
	}

	f.team = tutil.CreateTestTeam(t, stors, "Acme", f.owner)

	return f
}

func TestAcceptCreatesMembership(t *testing.T) {
	f := newAcceptanceFixture(t)

	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, nil)
	require.NoError(t, err)

	membership, err := f.acceptance.Accept(rawToken, f.invitee)
	require.NoError(t, err)
	require.Equal(t, f.invitee.ID, membership.UserID)
	require.Equal(t, f.team.ID, membership.TeamID)
	require.Equal(t, model.RoleMember, membership.Role)

	stored, err := f.stors.MembershipStor.GetMembership(f.invitee.ID, f.team.ID)
	require.NoError(t, err)
	require.Equal(t, membership.ID, stored.ID)
}

func TestAcceptUnknownToken(t *testing.T) {
	f := newAcceptanceFixture(t)

	_, err := f.acceptance.Accept("not-a-real-token", f.invitee)
	require.ErrorIs(t, err, ErrInvitationNotFound)

	_, err = f.acceptance.Accept("", f.invitee)
	require.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestAcceptRequiresUser(t *testing.T) {
	f := newAcceptanceFixture(t)

	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, nil)
	require.NoError(t, err)

	_, err = f.acceptance.Accept(rawToken, nil)
	require.ErrorIs(t, err, ErrMissingUser)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	f := newAcceptanceFixture(t)

	ttl := time.Hour
	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, &ttl)
	require.NoError(t, err)

	f.acceptance.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = f.acceptance.Accept(rawToken, f.invitee)
	require.ErrorIs(t, err, ErrInvitationExpired)

	// No membership came out of the refused accept.
	_, err = f.stors.MembershipStor.GetMembership(f.invitee.ID, f.team.ID)
	require.Error(t, err)
}

func TestAcceptIsSingleUse(t *testing.T) {
	f := newAcceptanceFixture(t)
	second := tutil.CreateTestUser(t, f.stors, "second", "second@example.com")

	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, nil)
	require.NoError(t, err)

	_, err = f.acceptance.Accept(rawToken, f.invitee)
	require.NoError(t, err)

	// The same token refuses every later accept, by anyone.
	_, err = f.acceptance.Accept(rawToken, second)
	require.ErrorIs(t, err, ErrInvitationUsed)

	_, err = f.acceptance.Accept(rawToken, f.invitee)
	require.ErrorIs(t, err, ErrInvitationUsed)

	memberships, err := f.stors.MembershipStor.GetMembershipsForTeam(f.team.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2) // owner + invitee
}

func TestAcceptAlreadyMember(t *testing.T) {
	f := newAcceptanceFixture(t)

	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, nil)
	require.NoError(t, err)

	// The owner already holds a membership; a member check beats the
	// used check only while the invitation is still pending.
	_, err = f.acceptance.Accept(rawToken, f.owner)
	require.ErrorIs(t, err, ErrAlreadyMember)

	// The invitation is still pending and redeemable by someone else.
	membership, err := f.acceptance.Accept(rawToken, f.invitee)
	require.NoError(t, err)
	require.Equal(t, f.invitee.ID, membership.UserID)
}

func TestAcceptUsedBeatsExpired(t *testing.T) {
	f := newAcceptanceFixture(t)

	ttl := time.Hour
	_, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, &ttl)
	require.NoError(t, err)

	_, err = f.acceptance.Accept(rawToken, f.invitee)
	require.NoError(t, err)

	// Once used, a later (now expired) retry still reads as used, not
	// expired.
	f.acceptance.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	second := tutil.CreateTestUser(t, f.stors, "second", "second@example.com")
	_, err = f.acceptance.Accept(rawToken, second)
	require.ErrorIs(t, err, ErrInvitationUsed)
}

func TestAcceptStampsInvitation(t *testing.T) {
	f := newAcceptanceFixture(t)

	invitation, rawToken, err := f.issuer.Issue(f.team, model.RoleMember, f.owner, nil)
	require.NoError(t, err)

	_, err = f.acceptance.Accept(rawToken, f.invitee)
	require.NoError(t, err)

	stored, err := f.stors.InvitationStor.GetInvitationByID(invitation.ID)
	require.NoError(t, err)
	require.True(t, stored.IsUsed())
	require.NotNil(t, stored.UsedByID)
	require.Equal(t, f.invitee.ID, *stored.UsedByID)
}
