package stor

import (
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"gorm.io/gorm"
)

type UserStor interface {
	CreateUser(user *model.User, password string) (*model.User, error)
	GetUserByID(userID int) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByAPIToken(apitoken string) (*model.User, error)
}

type TeamStor interface {
	CreateTeam(name string, owner *model.User) (*model.Team, error)
	GetTeamByID(teamID int) (*model.Team, error)
	GetTeamBySlug(slug string) (*model.Team, error)
	GetDeletedTeamByID(teamID int) (*model.Team, error)
	GetTeamsForUser(userID int) ([]model.Team, error)
	UpdateTeamName(team *model.Team, name string) (*model.Team, error)
	DeleteTeam(team *model.Team) error
	RestoreTeam(team *model.Team) (*model.Team, error)
	RestoreTeamAs(team *model.Team, name string) (*model.Team, error)
}

type MembershipStor interface {
	CreateMembership(userID, teamID int, role model.Role) (*model.Membership, error)
	GetMembershipByID(membershipID int) (*model.Membership, error)
	GetMembership(userID, teamID int) (*model.Membership, error)
	GetMembershipsForTeam(teamID int) ([]model.Membership, error)
	GetMembershipsForUser(userID int) ([]model.Membership, error)
	CountOtherOwners(teamID, excludeMembershipID int) (int64, error)
	UpdateMembershipRole(membership *model.Membership, role model.Role) (*model.Membership, error)
	DeleteMembership(membership *model.Membership) error
}

type InvitationStor interface {
	CreateInvitation(invitation *model.Invitation) (*model.Invitation, error)
	GetInvitationByID(invitationID int) (*model.Invitation, error)
	GetInvitationByDigest(digest string) (*model.Invitation, error)
	GetInvitationsForTeam(teamID int) ([]model.Invitation, error)
	GetInvitationsCreatedBy(userID int) ([]model.Invitation, error)
	RedeemInvitation(invitation *model.Invitation, user *model.User, now time.Time) (*model.Membership, error)
	DeleteInvitation(invitation *model.Invitation) error
}

type Stors struct {
	UserStor       UserStor
	TeamStor       TeamStor
	MembershipStor MembershipStor
	InvitationStor InvitationStor
}

func NewGormStors(db *gorm.DB) *Stors {
	return &Stors{
		UserStor:       NewGormUserStor(db),
		TeamStor:       NewGormTeamStor(db),
		MembershipStor: NewGormMembershipStor(db),
		InvitationStor: NewGormInvitationStor(db),
	}
}
