package teams

import (
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// maxDigestAttempts bounds the token regeneration loop on digest
// collisions. A sha256 collision is not a realistic event, so hitting
// the bound means the store is misbehaving and we fail hard instead of
// looping.
const maxDigestAttempts = 5

// Issuer validates a creator's rank against the role hierarchy and
// writes new invitations into the ledger.
type Issuer struct {
	invitationStor stor.InvitationStor
	membershipStor stor.MembershipStor
	now            func() time.Time
}

func NewIssuer(stors *stor.Stors) *Issuer {
	return &Issuer{
		invitationStor: stors.InvitationStor,
		membershipStor: stors.MembershipStor,
		now:            time.Now,
	}
}

// Issue creates a pending invitation into team at targetRole and
// returns it together with the raw token. The raw token is returned
// exactly once; only its digest is persisted.
//
// The creator must hold a membership in the team at admin rank or
// above, and may never invite above their own rank: an admin cannot
// issue an owner invitation. A nil ttl means the invitation never
// expires.
func (iss *Issuer) Issue(team *model.Team, targetRole model.Role, creator *model.User, ttl *time.Duration) (*model.Invitation, string, error) {
	switch {
	case team == nil:
		return nil, "", ErrMissingTeam
	case creator == nil:
		return nil, "", ErrMissingUser
	case !targetRole.Valid():
		return nil, "", ErrInvalidRole
	}

	membership, err := iss.membershipStor.GetMembership(creator.ID, team.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotAMember
		}
		return nil, "", errors.Wrap(err, "failed looking up creator membership")
	}

	if !membership.Role.CanManageTeam() {
		return nil, "", ErrRoleNotPermitted
	}

	if !membership.Role.AtLeast(targetRole) {
		return nil, "", ErrRoleNotPermitted
	}

	var expiresAt *time.Time
	if ttl != nil {
		t := iss.now().Add(*ttl)
		expiresAt = &t
	}

	for attempt := 0; attempt < maxDigestAttempts; attempt++ {
		rawToken, err := GenerateRawToken()
		if err != nil {
			return nil, "", err
		}

		invitation := &model.Invitation{
			TeamID:      team.ID,
			TokenDigest: TokenDigest(rawToken),
			Role:        targetRole,
			ExpiresAt:   expiresAt,
			CreatedByID: creator.ID,
		}

		invitation, err = iss.invitationStor.CreateInvitation(invitation)
		switch {
		case err == nil:
			return invitation, rawToken, nil
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Digest collision, generate a new token and try again.
			continue
		default:
			return nil, "", errors.Wrap(err, "failed creating invitation")
		}
	}

	return nil, "", errors.Errorf("failed to generate a unique invitation token after %d attempts", maxDigestAttempts)
}
