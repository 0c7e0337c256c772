package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaganravi131/DesignSync/internal/domain"
)

const room = domain.DesignID("design-42")

func TestJoin_Idempotent(t *testing.T) {
	r := NewRegistry(SingleSession)

	res := r.Join(room, "u1", "c1")
	assert.True(t, res.RoomOpened)
	assert.False(t, res.AlreadyMember)

	res = r.Join(room, "u1", "c2")
	assert.False(t, res.RoomOpened)
	assert.True(t, res.AlreadyMember)

	require.Len(t, r.Members(room), 1)

	// Last join wins in the reverse index.
	assert.Equal(t, []ConnID{"c2"}, r.Connections("u1"))
}

func TestLeave_EmptiesRooms(t *testing.T) {
	r := NewRegistry(SingleSession)
	r.Join(room, "u1", "c1")
	r.Join(room, "u2", "c2")
	r.Join("design-7", "u3", "c3")
	require.Equal(t, 2, r.Rooms())

	res := r.Leave(room, "u1", "c1")
	assert.True(t, res.WasMember)
	assert.False(t, res.RoomClosed)

	res = r.Leave(room, "u2", "c2")
	assert.True(t, res.RoomClosed)

	// The room entry itself is gone, not present with an empty set.
	assert.Equal(t, 1, r.Rooms())
	assert.Empty(t, r.Members(room))

	r.Leave("design-7", "u3", "c3")
	assert.Equal(t, 0, r.Rooms())
}

func TestLeave_UnknownRoomAndUser(t *testing.T) {
	r := NewRegistry(SingleSession)
	res := r.Leave("nope", "u1", "c1")
	assert.False(t, res.WasMember)
	assert.False(t, res.RoomClosed)
	assert.Empty(t, r.Members("nope"))
}

func TestSingleSession_ReverseIndexOverwrite(t *testing.T) {
	r := NewRegistry(SingleSession)
	r.Join(room, "u1", "tab-1")
	r.Join(room, "u1", "tab-2")
	assert.Equal(t, []ConnID{"tab-2"}, r.Connections("u1"))

	// Leaving removes the entry even though it points at the newer tab.
	r.Leave(room, "u1", "tab-1")
	assert.Empty(t, r.Connections("u1"))
}

func TestMultiSession_KeepsEveryConnection(t *testing.T) {
	r := NewRegistry(MultiSession)
	r.Join(room, "u1", "tab-1")
	r.Join(room, "u1", "tab-2")
	assert.ElementsMatch(t, []ConnID{"tab-1", "tab-2"}, r.Connections("u1"))

	r.Leave(room, "u1", "tab-1")
	assert.Equal(t, []ConnID{"tab-2"}, r.Connections("u1"))

	r.Leave(room, "u1", "tab-2")
	assert.Empty(t, r.Connections("u1"))
}

func TestMembers_Snapshot(t *testing.T) {
	r := NewRegistry(SingleSession)
	r.Join(room, "u1", "c1")
	r.Join(room, "u2", "c2")
	assert.ElementsMatch(t, []domain.UserID{"u1", "u2"}, r.Members(room))
}
