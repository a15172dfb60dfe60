package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prosim/pkg/domain/repositories"
	testhelpers "github.com/vsinha/prosim/pkg/infrastructure/testing"
)

func TestCompanyRepository_AppendAndCurrent(t *testing.T) {
	repo := NewCompanyRepository()

	_, err := repo.Current(1)
	require.ErrorIs(t, err, repositories.ErrCompanyNotFound)

	c := testhelpers.NewTestCompany(t, 1)
	require.NoError(t, repo.Append(c))

	next := c.Clone()
	next.CurrentWeek = 2
	require.NoError(t, repo.Append(next))

	current, err := repo.Current(1)
	require.NoError(t, err)
	assert.Equal(t, 2, current.CurrentWeek)

	history, err := repo.History(1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].CurrentWeek)

	ids, err := repo.IDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)
}

func TestCompanyRepository_StoresCopies(t *testing.T) {
	repo := NewCompanyRepository()
	c := testhelpers.NewTestCompany(t, 1)
	require.NoError(t, repo.Append(c))

	c.CurrentWeek = 9
	got, err := repo.Current(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentWeek)

	got.Name = "changed"
	again, err := repo.Current(1)
	require.NoError(t, err)
	assert.Equal(t, "Test Company 1", again.Name)
}

func TestCompanyRepository_ReplayTruncatesLaterWeeks(t *testing.T) {
	repo := NewCompanyRepository()
	c := testhelpers.NewTestCompany(t, 1)
	for week := 1; week <= 4; week++ {
		s := c.Clone()
		s.CurrentWeek = week
		require.NoError(t, repo.Append(s))
	}

	replay := c.Clone()
	replay.CurrentWeek = 2
	replay.Name = "replayed"
	require.NoError(t, repo.Append(replay))

	history, err := repo.History(1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "replayed", history[1].Name)

	_, err = repo.AtWeek(1, 3)
	assert.ErrorIs(t, err, repositories.ErrSnapshotNotFound)

	at, err := repo.AtWeek(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, at.CurrentWeek)
}
