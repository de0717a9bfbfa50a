package teams

import (
	"time"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Acceptance redeems raw invitation tokens. Accept is the only path
// that sets an invitation's used_at; a used invitation stays used, so
// retrying a token after a successful accept always yields
// ErrInvitationUsed and never a second membership.
type Acceptance struct {
	invitationStor stor.InvitationStor
	membershipStor stor.MembershipStor
	now            func() time.Time
}

func NewAcceptance(stors *stor.Stors) *Acceptance {
	return &Acceptance{
		invitationStor: stors.InvitationStor,
		membershipStor: stors.MembershipStor,
		now:            time.Now,
	}
}

// Accept redeems rawToken for user, creating their membership in the
// invitation's team at the invited role. The checks run in a fixed
// order so each refusal is precise: unknown token, then expired, then
// already used, then already a member.
//
// The final transition is a conditional update inside one transaction
// with the membership insert, so two racing accepts of the same token
// produce exactly one membership; the loser observes ErrInvitationUsed.
func (a *Acceptance) Accept(rawToken string, user *model.User) (*model.Membership, error) {
	if user == nil {
		return nil, ErrMissingUser
	}

	if rawToken == "" {
		return nil, ErrInvitationNotFound
	}

	invitation, err := a.invitationStor.GetInvitationByDigest(TokenDigest(rawToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, errors.Wrap(err, "failed looking up invitation")
	}

	if !invitation.IsUsed() && invitation.IsExpired(a.now()) {
		return nil, ErrInvitationExpired
	}

	if invitation.IsUsed() {
		return nil, ErrInvitationUsed
	}

	if _, err := a.membershipStor.GetMembership(user.ID, invitation.TeamID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed looking up membership")
	}

	membership, err := a.invitationStor.RedeemInvitation(invitation, user, a.now())
	switch {
	case err == nil:
		return membership, nil
	case errors.Is(err, stor.ErrInvitationUsed):
		return nil, ErrInvitationUsed
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Lost a race against another accept by the same user.
		return nil, ErrAlreadyMember
	default:
		return nil, errors.Wrap(err, "failed redeeming invitation")
	}
}
