package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 24*time.Hour)

	pair, err := m.Issue(42, api.UserTypePersonal)
	require.NoError(t, err)

	claims, err := m.Parse(pair.Access, TokenAccess)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, api.UserTypePersonal, claims.UserType)
	assert.NotEmpty(t, claims.ID)

	_, err = m.Parse(pair.Refresh, TokenRefresh)
	assert.NoError(t, err)
}

func TestParseRejectsWrongType(t *testing.T) {
	m := NewManager(testSecret, time.Hour, 24*time.Hour)
	pair, err := m.Issue(1, api.UserTypeAluno)
	require.NoError(t, err)

	_, err = m.Parse(pair.Access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Parse(pair.Refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredAndForeign(t *testing.T) {
	m := NewManager(testSecret, time.Minute, time.Hour)
	issued := time.Now()
	m.now = func() time.Time { return issued }
	tok, err := m.IssueAccess(7, api.UserTypeAdmin)
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Parse(tok, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager("another-secret-another-secret-xx", time.Hour, time.Hour)
	_, err = other.Parse(tok, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-jwt", TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3nha-forte"))
	assert.False(t, CheckPassword(hash, "errada"))
}
