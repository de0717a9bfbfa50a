package stor_test

import (
	"testing"
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/tutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateInvitationRejectsDuplicateDigest(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	first := &model.Invitation{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleMember, CreatedByID: owner.ID}
	_, err := stors.InvitationStor.CreateInvitation(first)
	require.NoError(t, err)

	dup := &model.Invitation{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleViewer, CreatedByID: owner.ID}
	_, err = stors.InvitationStor.CreateInvitation(dup)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRedeemInvitationIsSingleUse(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	alice := tutil.CreateTestUser(t, stors, "alice", "alice@example.com")
	bob := tutil.CreateTestUser(t, stors, "bob", "bob@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	invitation := &model.Invitation{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleMember, CreatedByID: owner.ID}
	invitation, err := stors.InvitationStor.CreateInvitation(invitation)
	require.NoError(t, err)

	now := time.Now()

	membership, err := stors.InvitationStor.RedeemInvitation(invitation, alice, now)
	require.NoError(t, err)
	require.Equal(t, alice.ID, membership.UserID)
	require.Equal(t, model.RoleMember, membership.Role)

	// A second redeem of the same row loses the conditional update,
	// even when the caller's copy still looks unused.
	stale := &model.Invitation{ID: invitation.ID, TeamID: invitation.TeamID, Role: invitation.Role}
	_, err = stors.InvitationStor.RedeemInvitation(stale, bob, now)
	require.ErrorIs(t, err, stor.ErrInvitationUsed)

	// Exactly one membership came out of the invitation.
	memberships, err := stors.MembershipStor.GetMembershipsForTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2) // owner + alice

	// The stamp is persisted.
	redeemed, err := stors.InvitationStor.GetInvitationByDigest("digest-1")
	require.NoError(t, err)
	require.True(t, redeemed.IsUsed())
	require.Equal(t, alice.ID, *redeemed.UsedByID)
}

func TestDeleteInvitationRefusesUsed(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	alice := tutil.CreateTestUser(t, stors, "alice", "alice@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	invitation := &model.Invitation{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleMember, CreatedByID: owner.ID}
	invitation, err := stors.InvitationStor.CreateInvitation(invitation)
	require.NoError(t, err)

	_, err = stors.InvitationStor.RedeemInvitation(invitation, alice, time.Now())
	require.NoError(t, err)

	err = stors.InvitationStor.DeleteInvitation(invitation)
	require.ErrorIs(t, err, stor.ErrInvitationUsed)
}

func TestDeleteInvitationRemovesPending(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	invitation := &model.Invitation{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleMember, CreatedByID: owner.ID}
	invitation, err := stors.InvitationStor.CreateInvitation(invitation)
	require.NoError(t, err)

	require.NoError(t, stors.InvitationStor.DeleteInvitation(invitation))

	_, err = stors.InvitationStor.GetInvitationByDigest("digest-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetInvitationsScopes(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	other := tutil.CreateTestUser(t, stors, "other", "other@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)
	second := tutil.CreateTestTeam(t, stors, "Globex", other)

	for i, inv := range []*model.Invitation{
		{TeamID: team.ID, TokenDigest: "digest-1", Role: model.RoleMember, CreatedByID: owner.ID},
		{TeamID: team.ID, TokenDigest: "digest-2", Role: model.RoleViewer, CreatedByID: owner.ID},
		{TeamID: second.ID, TokenDigest: "digest-3", Role: model.RoleMember, CreatedByID: other.ID},
	} {
		_, err := stors.InvitationStor.CreateInvitation(inv)
		require.NoErrorf(t, err, "create %d failed", i)
	}

	forTeam, err := stors.InvitationStor.GetInvitationsForTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, forTeam, 2)

	byOther, err := stors.InvitationStor.GetInvitationsCreatedBy(other.ID)
	require.NoError(t, err)
	require.Len(t, byOther, 1)
	require.Equal(t, second.ID, byOther[0].TeamID)
}
