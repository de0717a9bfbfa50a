package stor_test

import (
	"testing"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/tutil"
	"github.com/stretchr/testify/require"
)

func TestCreateMembershipRejectsDuplicatePair(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	member := tutil.CreateTestUser(t, stors, "member", "member@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	_, err := stors.MembershipStor.CreateMembership(member.ID, team.ID, model.RoleMember)
	require.NoError(t, err)

	_, err = stors.MembershipStor.CreateMembership(member.ID, team.ID, model.RoleViewer)
	require.ErrorIs(t, err, stor.ErrAlreadyMember)

	// Same user in a different team is fine.
	other := tutil.CreateTestTeam(t, stors, "Globex", owner)
	_, err = stors.MembershipStor.CreateMembership(member.ID, other.ID, model.RoleMember)
	require.NoError(t, err)
}

func TestUpdateMembershipRoleRefusesLastOwnerDemotion(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	membership, err := stors.MembershipStor.GetMembership(owner.ID, team.ID)
	require.NoError(t, err)

	_, err = stors.MembershipStor.UpdateMembershipRole(membership, model.RoleAdmin)
	require.ErrorIs(t, err, stor.ErrLastOwner)

	// Role is unchanged in the store.
	membership, err = stors.MembershipStor.GetMembership(owner.ID, team.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleOwner, membership.Role)
}

func TestUpdateMembershipRoleWithSecondOwner(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	second := tutil.CreateTestUser(t, stors, "second", "second@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)
	tutil.AddTestMember(t, stors, second, team, model.RoleOwner)

	membership, err := stors.MembershipStor.GetMembership(owner.ID, team.ID)
	require.NoError(t, err)

	updated, err := stors.MembershipStor.UpdateMembershipRole(membership, model.RoleMember)
	require.NoError(t, err)
	require.Equal(t, model.RoleMember, updated.Role)
}

func TestDeleteMembershipRefusesLastOwner(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	member := tutil.CreateTestUser(t, stors, "member", "member@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)
	tutil.AddTestMember(t, stors, member, team, model.RoleMember)

	ownerMembership, err := stors.MembershipStor.GetMembership(owner.ID, team.ID)
	require.NoError(t, err)

	err = stors.MembershipStor.DeleteMembership(ownerMembership)
	require.ErrorIs(t, err, stor.ErrLastOwner)

	// Adding a second owner unlocks deleting the original owner.
	second := tutil.CreateTestUser(t, stors, "second", "second@example.com")
	tutil.AddTestMember(t, stors, second, team, model.RoleOwner)

	require.NoError(t, stors.MembershipStor.DeleteMembership(ownerMembership))

	memberships, err := stors.MembershipStor.GetMembershipsForTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)
}

func TestDeleteNonOwnerMembershipIsUnconstrained(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	member := tutil.CreateTestUser(t, stors, "member", "member@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)
	membership := tutil.AddTestMember(t, stors, member, team, model.RoleMember)

	require.NoError(t, stors.MembershipStor.DeleteMembership(membership))
}

func TestCountOtherOwners(t *testing.T) {
	stors := tutil.NewTestStors(t)
	owner := tutil.CreateTestUser(t, stors, "owner", "owner@example.com")
	second := tutil.CreateTestUser(t, stors, "second", "second@example.com")
	team := tutil.CreateTestTeam(t, stors, "Acme", owner)

	ownerMembership, err := stors.MembershipStor.GetMembership(owner.ID, team.ID)
	require.NoError(t, err)

	count, err := stors.MembershipStor.CountOtherOwners(team.ID, ownerMembership.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)

	tutil.AddTestMember(t, stors, second, team, model.RoleOwner)

	count, err = stors.MembershipStor.CountOtherOwners(team.ID, ownerMembership.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
