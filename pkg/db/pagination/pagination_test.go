package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-01-02T15:04:05Z"})
	require.NoError(t, err)

	cur, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "42", cur.ID)
	assert.Equal(t, "2026-01-02T15:04:05Z", cur.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not base64!!")
	require.ErrorIs(t, err, ErrInvalidPageToken)

	// Valid base64 that is not a cursor payload.
	_, err = DecodeCursor("aGVsbG8")
	require.ErrorIs(t, err, ErrInvalidPageToken)
}

func TestBuildCursorPageInfo(t *testing.T) {
	// One extra row beyond the page size means another page exists; the
	// token points at the last item the caller will return.
	info := BuildCursorPageInfo([]int{1, 2, 3, 4}, 3, func(v int) string { return "after-3" })
	require.NotNil(t, info)
	assert.True(t, info.HasMore)
	assert.Equal(t, "after-3", info.NextPageToken)

	info = BuildCursorPageInfo([]int{1, 2, 3}, 3, func(v int) string { return "after-3" })
	require.NotNil(t, info)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)

	assert.Nil(t, BuildCursorPageInfo([]int{1}, 0, func(v int) string { return "" }))
}
