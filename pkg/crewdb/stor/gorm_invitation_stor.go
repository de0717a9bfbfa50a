package stor

import (
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormInvitationStor struct {
	db *gorm.DB
}

func NewGormInvitationStor(db *gorm.DB) *GormInvitationStor {
	return &GormInvitationStor{db: db}
}

// CreateInvitation persists a new pending invitation. A digest that
// collides with an existing row surfaces as gorm.ErrDuplicatedKey so
// the issuer can regenerate the token.
func (s *GormInvitationStor) CreateInvitation(invitation *model.Invitation) (*model.Invitation, error) {
	var err error

	if invitation.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(invitation).Error
	})

	if err != nil {
		return nil, err
	}

	return invitation, nil
}

func (s *GormInvitationStor) GetInvitationByID(invitationID int) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := s.db.First(&invitation, invitationID).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (s *GormInvitationStor) GetInvitationByDigest(digest string) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := s.db.Where("token_digest = ?", digest).First(&invitation).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}

func (s *GormInvitationStor) GetInvitationsForTeam(teamID int) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := s.db.Where("team_id = ?", teamID).Find(&invitations).Error
	return invitations, err
}

func (s *GormInvitationStor) GetInvitationsCreatedBy(userID int) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := s.db.Where("created_by_id = ?", userID).Find(&invitations).Error
	return invitations, err
}

// RedeemInvitation stamps used_at/used_by and creates the membership in
// one transaction. The stamp is a conditional update on used_at being
// null, checked through RowsAffected, so of two concurrent redeems
// exactly one wins; the loser gets ErrInvitationUsed. No retry wrapper
// here: a lost redeem must stay lost.
func (s *GormInvitationStor) RedeemInvitation(invitation *model.Invitation, user *model.User, now time.Time) (*model.Membership, error) {
	membershipUUID, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	membership := &model.Membership{
		UUID:   membershipUUID,
		UserID: user.ID,
		TeamID: invitation.TeamID,
		Role:   invitation.Role,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Invitation{}).
			Where("id = ?", invitation.ID).
			Where("used_at is null").
			Updates(map[string]interface{}{
				"used_at":    now,
				"used_by_id": user.ID,
			})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrInvitationUsed
		}

		return tx.Create(membership).Error
	})

	if err != nil {
		return nil, err
	}

	invitation.UsedAt = &now
	invitation.UsedByID = &user.ID

	return membership, nil
}

// DeleteInvitation revokes a pending or expired invitation. A used
// invitation is part of the membership history and can't be deleted.
func (s *GormInvitationStor) DeleteInvitation(invitation *model.Invitation) error {
	if invitation.IsUsed() {
		return ErrInvitationUsed
	}

	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Delete(invitation).Error
	})
}
