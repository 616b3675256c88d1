package handoff_test

import (
	"testing"

	"github.com/heavymart/bidgate/internal/bidding/infra/handoff"
	"github.com/stretchr/testify/require"
)

func TestSlotReadOnce(t *testing.T) {
	slot := handoff.NewSlot()

	_, ok := slot.Take()
	require.False(t, ok)

	slot.Put("lst-7")

	id, ok := slot.Take()
	require.True(t, ok)
	require.Equal(t, "lst-7", id)

	_, ok = slot.Take()
	require.False(t, ok)
}

func TestSlotPutReplacesUnconsumed(t *testing.T) {
	slot := handoff.NewSlot()
	slot.Put("lst-1")
	slot.Put("lst-2")

	id, ok := slot.Take()
	require.True(t, ok)
	require.Equal(t, "lst-2", id)
}
