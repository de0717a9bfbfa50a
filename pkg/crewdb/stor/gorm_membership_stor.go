package stor

import (
	"errors"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormMembershipStor struct {
	db *gorm.DB
}

func NewGormMembershipStor(db *gorm.DB) *GormMembershipStor {
	return &GormMembershipStor{db: db}
}

// CreateMembership creates a membership for (userID, teamID). The
// unique index on the pair is the arbiter under concurrency; a
// duplicate maps to ErrAlreadyMember.
func (s *GormMembershipStor) CreateMembership(userID, teamID int, role model.Role) (*model.Membership, error) {
	membershipUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	membership := &model.Membership{
		UUID:   membershipUUID,
		UserID: userID,
		TeamID: teamID,
		Role:   role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(membership).Error
	})

	switch {
	case err == nil:
		return membership, nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, ErrAlreadyMember
	default:
		return nil, err
	}
}

func (s *GormMembershipStor) GetMembershipByID(membershipID int) (*model.Membership, error) {
	var membership model.Membership
	if err := s.db.First(&membership, membershipID).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *GormMembershipStor) GetMembership(userID, teamID int) (*model.Membership, error) {
	var membership model.Membership
	err := s.db.Where("user_id = ?", userID).
		Where("team_id = ?", teamID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}

	return &membership, nil
}

func (s *GormMembershipStor) GetMembershipsForTeam(teamID int) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.Where("team_id = ?", teamID).Find(&memberships).Error
	return memberships, err
}

func (s *GormMembershipStor) GetMembershipsForUser(userID int) ([]model.Membership, error) {
	var memberships []model.Membership
	err := s.db.Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// CountOtherOwners counts owner memberships in the team other than
// excludeMembershipID. A zero count means excludeMembershipID is the
// last owner and must not be demoted or removed.
func (s *GormMembershipStor) CountOtherOwners(teamID, excludeMembershipID int) (int64, error) {
	return countOtherOwnersTx(s.db, teamID, excludeMembershipID)
}

// UpdateMembershipRole changes a membership's role. Demoting the last
// owner is refused with ErrLastOwner no matter who asks; the count runs
// inside the transaction so a concurrent demotion can't slip past it.
func (s *GormMembershipStor) UpdateMembershipRole(membership *model.Membership, role model.Role) (*model.Membership, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if membership.Role == model.RoleOwner && role != model.RoleOwner {
			count, err := countOtherOwnersTx(tx, membership.TeamID, membership.ID)
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrLastOwner
			}
		}

		return tx.Model(membership).Update("role", role).Error
	})

	if err != nil {
		return nil, err
	}

	membership.Role = role
	return membership, nil
}

// DeleteMembership removes a membership, refusing with ErrLastOwner
// when it is the team's only owner membership.
func (s *GormMembershipStor) DeleteMembership(membership *model.Membership) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if membership.Role == model.RoleOwner {
			count, err := countOtherOwnersTx(tx, membership.TeamID, membership.ID)
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrLastOwner
			}
		}

		return tx.Delete(membership).Error
	})
}

func countOtherOwnersTx(tx *gorm.DB, teamID, excludeMembershipID int) (int64, error) {
	var count int64
	err := tx.Model(&model.Membership{}).
		Where("team_id = ?", teamID).
		Where("role = ?", model.RoleOwner).
		Where("id <> ?", excludeMembershipID).
		Count(&count).Error
	return count, err
}
