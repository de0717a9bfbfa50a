package teams

import "github.com/crewlab/crew/pkg/crewdb/model"

// Context is the (requester, current team) pair every policy decision
// and scope filter is evaluated against. It is built per request by the
// caller; nothing in this package resolves a "current" user or team on
// its own. Team may be nil when no team is in scope.
type Context struct {
	User *model.User
	Team *model.Team
}

func NewContext(user *model.User, team *model.Team) Context {
	return Context{User: user, Team: team}
}

// Identified returns true when the context carries a known user.
func (c Context) Identified() bool {
	return c.User != nil
}

// HasTeam returns true when a team is in scope.
func (c Context) HasTeam() bool {
	return c.Team != nil
}
