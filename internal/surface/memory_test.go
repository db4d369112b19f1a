package surface

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malonaz/notebook/internal/types"
)

func TestMemoryList_RemoveByIdentity(t *testing.T) {
	list := &MemoryList{}
	first := &types.Entry{Filename: "a.txt"}
	duplicate := &types.Entry{Filename: "a.txt"}
	list.Append(first)
	list.Append(duplicate)

	require.True(t, list.Remove(duplicate))
	require.False(t, list.Remove(duplicate))
	require.Equal(t, []*types.Entry{first}, list.Entries())

	list.Clear()
	require.Empty(t, list.Filenames())
}

func TestMemoryTranscript_RemoveByIdentity(t *testing.T) {
	transcript := &MemoryTranscript{}
	pending := types.NewPendingMessage()
	other := types.NewPendingMessage()
	user := types.NewUserMessage("hi")
	transcript.Append(user)
	transcript.Append(pending)
	transcript.Append(other)

	require.True(t, transcript.Remove(pending))
	require.False(t, transcript.Contains(pending))
	require.True(t, transcript.Contains(other))
	require.Equal(t, []*types.Message{user, other}, transcript.Messages())

	require.False(t, transcript.TakeScroll())
	transcript.ScrollToBottom()
	require.True(t, transcript.TakeScroll())
	require.False(t, transcript.TakeScroll())
}

func TestStaticConfirmer(t *testing.T) {
	confirmer := &StaticConfirmer{Answer: true}
	require.True(t, confirmer.Confirm(context.Background(), "Delete a.txt?"))
	require.Equal(t, []string{"Delete a.txt?"}, confirmer.Prompts())
}
