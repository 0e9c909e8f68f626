package users

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/salesdash/internal/domain"
	"github.com/vladislavdragonenkov/salesdash/internal/storage/memory"
)

type recordedMutation struct {
	op, result string
}

type fakeMetrics struct {
	mutations []recordedMutation
	size      int
}

func (m *fakeMetrics) RecordMutation(_, op, result string) {
	m.mutations = append(m.mutations, recordedMutation{op: op, result: result})
}

func (m *fakeMetrics) RecordCollectionSize(_ string, size int) {
	m.size = size
}

func newTestDirectory(t *testing.T) (*Directory, *fakeMetrics, time.Time) {
	t.Helper()

	now := time.Date(2024, time.December, 15, 10, 30, 0, 0, time.UTC)
	seq := 0
	recorder := &fakeMetrics{}
	dir, err := NewDirectory(memory.NewUserRepository(),
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("user-%d", seq)
		}),
		WithMetrics(recorder),
	)
	require.NoError(t, err)
	return dir, recorder, now
}

func TestNewDirectory_RequiresRepository(t *testing.T) {
	_, err := NewDirectory(nil)
	require.Error(t, err)
}

func TestDirectory_AddAndGet(t *testing.T) {
	dir, recorder, now := newTestDirectory(t)

	user, err := dir.Add(domain.UserInput{Name: "  John Manager ", Email: "john.manager@erp.com", Role: domain.RoleManager})
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
	require.Equal(t, "John Manager", user.Name)
	require.Equal(t, domain.UserStatusActive, user.Status)
	require.Equal(t, now, user.CreatedAt)

	stored, err := dir.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, user, stored)
	require.Equal(t, 1, recorder.size)
}

func TestDirectory_AddRejectsInvalidUser(t *testing.T) {
	dir, recorder, _ := newTestDirectory(t)

	_, err := dir.Add(domain.UserInput{Name: "Ghost", Email: "ghost", Role: "owner"})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.ErrorIs(t, err, domain.ErrUserEmailInvalid)
	require.ErrorIs(t, err, domain.ErrUserRoleInvalid)

	all, err := dir.List()
	require.NoError(t, err)
	require.Empty(t, all)
	require.Equal(t, []recordedMutation{{op: "add", result: "rejected"}}, recorder.mutations)
}

func TestDirectory_UpdateAppliesPatch(t *testing.T) {
	dir, _, now := newTestDirectory(t)
	user, err := dir.Add(domain.UserInput{Name: "Mike Johnson", Email: "mike.johnson@erp.com", Role: domain.RoleSales, Status: domain.UserStatusInactive})
	require.NoError(t, err)

	status := domain.UserStatusActive
	updated, ok, err := dir.Update(user.ID, domain.UserPatch{Status: &status})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.UserStatusActive, updated.Status)
	require.Equal(t, domain.RoleSales, updated.Role)
	require.Equal(t, now, updated.CreatedAt)

	role := domain.Role("root")
	_, ok, err = dir.Update(user.ID, domain.UserPatch{Role: &role})
	require.ErrorIs(t, err, domain.ErrUserRoleInvalid)
	require.False(t, ok)

	stored, err := dir.Get(user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSales, stored.Role)
}

func TestDirectory_MissingTargetsAreNoops(t *testing.T) {
	dir, recorder, _ := newTestDirectory(t)

	name := "Nobody"
	_, ok, err := dir.Update("missing", domain.UserPatch{Name: &name})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = dir.Delete("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, []recordedMutation{
		{op: "update", result: "noop"},
		{op: "delete", result: "noop"},
	}, recorder.mutations)
}

func TestDirectory_Delete(t *testing.T) {
	dir, recorder, _ := newTestDirectory(t)
	user, err := dir.Add(domain.UserInput{Name: "Sarah Sales", Email: "sarah.sales@erp.com", Role: domain.RoleSales})
	require.NoError(t, err)

	ok, err := dir.Delete(user.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = dir.Get(user.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.Equal(t, 0, recorder.size)
}

func TestDirectory_SeedDemo(t *testing.T) {
	dir, _, _ := newTestDirectory(t)

	seeded, err := dir.SeedDemo()
	require.NoError(t, err)
	require.Len(t, seeded, 4)
	require.Equal(t, domain.RoleAdmin, seeded[0].Role)
	require.Equal(t, domain.UserStatusInactive, seeded[3].Status)

	all, err := dir.List()
	require.NoError(t, err)
	require.Equal(t, seeded, all)
}
