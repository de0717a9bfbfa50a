package stor

import (
	"fmt"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/gosimple/slug"
	"github.com/hashicorp/go-uuid"
	"gorm.io/gorm"
)

type GormTeamStor struct {
	db *gorm.DB
}

func NewGormTeamStor(db *gorm.DB) *GormTeamStor {
	return &GormTeamStor{db: db}
}

// CreateTeam creates a team and the owner membership for its creator in
// a single transaction. The slug is derived from the name; on collision
// with an existing non-deleted team an incrementing integer is appended
// until the slug is unique. Deleted teams don't count, so a destroyed
// team's slug can be taken by a new team.
func (s *GormTeamStor) CreateTeam(name string, owner *model.User) (*model.Team, error) {
	var (
		err            error
		teamUUID       string
		membershipUUID string
	)

	if teamUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	if membershipUUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	team := &model.Team{
		UUID: teamUUID,
		Name: name,
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		if team.Slug, err = nextFreeSlug(tx, slug.Make(name)); err != nil {
			return err
		}

		if err = tx.Create(team).Error; err != nil {
			return err
		}

		membership := &model.Membership{
			UUID:   membershipUUID,
			UserID: owner.ID,
			TeamID: team.ID,
			Role:   model.RoleOwner,
		}

		return tx.Create(membership).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// nextFreeSlug finds the first slug not held by a non-deleted team,
// starting at base and appending -1, -2, ... on collisions.
func nextFreeSlug(tx *gorm.DB, base string) (string, error) {
	candidate := base
	slugNext := 1

	for {
		var count int64
		if err := tx.Model(&model.Team{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, slugNext)
		slugNext = slugNext + 1
	}
}

func (s *GormTeamStor) GetTeamByID(teamID int) (*model.Team, error) {
	var team model.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *GormTeamStor) GetTeamBySlug(teamSlug string) (*model.Team, error) {
	var team model.Team
	if err := s.db.Where("slug = ?", teamSlug).First(&team).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// GetDeletedTeamByID looks up a soft-deleted team, for restore.
func (s *GormTeamStor) GetDeletedTeamByID(teamID int) (*model.Team, error) {
	var team model.Team
	err := s.db.Unscoped().
		Where("id = ?", teamID).
		Where("deleted_at is not null").
		First(&team).Error
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *GormTeamStor) GetTeamsForUser(userID int) ([]model.Team, error) {
	var teams []model.Team
	err := s.db.Where("id in (select team_id from memberships where user_id = ?)", userID).
		Find(&teams).Error
	return teams, err
}

// UpdateTeamName changes the display name only. The slug was derived at
// creation and stays stable for the life of the team.
func (s *GormTeamStor) UpdateTeamName(team *model.Team, name string) (*model.Team, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Model(team).Update("name", name).Error
	})

	if err != nil {
		return nil, err
	}

	return team, nil
}

// DeleteTeam soft deletes the team and removes its memberships and
// invitations. The team row is retained so it can be restored; the slug
// is left on the row and becomes reusable by newer teams.
func (s *GormTeamStor) DeleteTeam(team *model.Team) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", team.ID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}

		if err := tx.Where("team_id = ?", team.ID).Delete(&model.Invitation{}).Error; err != nil {
			return err
		}

		return tx.Delete(team).Error
	})
}

// RestoreTeam clears the team's soft-delete marker. If a newer team has
// taken the slug in the meantime the restore is refused with
// ErrSlugInUse; use RestoreTeamAs to restore under a new name.
func (s *GormTeamStor) RestoreTeam(team *model.Team) (*model.Team, error) {
	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Team{}).
			Where("slug = ?", team.Slug).
			Where("id <> ?", team.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if count != 0 {
			return ErrSlugInUse
		}

		return tx.Unscoped().Model(team).Update("deleted_at", nil).Error
	})

	if err != nil {
		return nil, err
	}

	team.DeletedAt = gorm.DeletedAt{}
	return team, nil
}

// RestoreTeamAs restores a soft-deleted team under a new name, deriving
// a fresh unique slug. This is the forced-rename path for when the old
// slug was taken while the team was deleted.
func (s *GormTeamStor) RestoreTeamAs(team *model.Team, name string) (*model.Team, error) {
	var newSlug string

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var err error
		if newSlug, err = nextFreeSlug(tx, slug.Make(name)); err != nil {
			return err
		}

		return tx.Unscoped().Model(team).Updates(map[string]interface{}{
			"name":       name,
			"slug":       newSlug,
			"deleted_at": nil,
		}).Error
	})

	if err != nil {
		return nil, err
	}

	team.Name = name
	team.Slug = newSlug
	team.DeletedAt = gorm.DeletedAt{}
	return team, nil
}
