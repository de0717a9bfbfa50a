package stor_test

import (
	"testing"

	"github.com/crewlab/crew/pkg/crewdb/model"
	"github.com/crewlab/crew/pkg/tutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserHashesPassword(t *testing.T) {
	stors := tutil.NewTestStors(t)

	user, err := stors.UserStor.CreateUser(&model.User{Name: "alice", Email: "alice@example.com"}, "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, user.UUID)
	require.NotEmpty(t, user.ApiToken)
	require.NotEqual(t, "s3cret", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
}

func TestGetUserLookups(t *testing.T) {
	stors := tutil.NewTestStors(t)

	user, err := stors.UserStor.CreateUser(&model.User{Name: "alice", Email: "alice@example.com"}, "s3cret")
	require.NoError(t, err)

	byID, err := stors.UserStor.GetUserByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	byEmail, err := stors.UserStor.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	byToken, err := stors.UserStor.GetUserByAPIToken(user.ApiToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, byToken.ID)

	_, err = stors.UserStor.GetUserByAPIToken("no-such-token")
	require.Error(t, err)
}
