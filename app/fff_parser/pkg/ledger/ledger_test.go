package ledger

import (
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerMarkPushed(t *testing.T) {
	l := New("2024-03", "2024-03", []string{"address", "name"}, true)

	_, err := uuid.Parse(l.RunID)
	require.NoError(t, err)
	assert.Equal(t, []string{"address", "name", Header}, l.NeedPushed)
	assert.Equal(t, l.NeedPushed, l.LeftPushed)
	assert.Empty(t, l.AlreadyPushed)

	l.MarkPushed("address")
	l.MarkPushed("address")
	l.MarkPushed("unknown")
	assert.Equal(t, []string{"address"}, l.AlreadyPushed)
	assert.Equal(t, []string{"name", Header}, l.LeftPushed)
	assert.True(t, l.Pending("name"))
	assert.False(t, l.Pending("address"))
	assert.False(t, l.Done())

	l.MarkPushed(Header)
	l.MarkPushed("name")
	assert.True(t, l.Done())
	assert.Equal(t, []string{"address", Header, "name"}, l.AlreadyPushed)
	// 需求列表不随推送变化
	assert.Equal(t, []string{"address", "name", Header}, l.NeedPushed)
}

func TestLedgerWithoutHeader(t *testing.T) {
	l := New("2024-03", "2024-04", []string{"death"}, false)
	assert.Equal(t, []string{"death"}, l.NeedPushed)
	assert.False(t, l.Pending(Header))
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())
	l := New("2024-03", "2024-04", []string{"address", "name"}, true)
	l.MarkPushed("address")
	require.NoError(t, s.Save(l))

	got, err := s.Load("2024-03", "2024-04")
	require.NoError(t, err)
	assert.Equal(t, l.RunID, got.RunID)
	assert.Equal(t, []string{"name", Header}, got.LeftPushed)
	assert.Equal(t, []string{"address"}, got.AlreadyPushed)
	assert.True(t, l.CreatedAt.Equal(got.CreatedAt))

	_, err = os.Stat(s.Path("2024-03", "2024-04") + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStoreLoadMissing(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load("2024-03", "2024-03")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
