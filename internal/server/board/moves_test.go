package board

import (
	"testing"

	"checkers/internal/server/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovesForMan(t *testing.T) {
	t.Run("player man steps toward row 0", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 5, 2)

		want := []Move{
			{PieceID: id, Row: 4, Col: 1},
			{PieceID: id, Row: 4, Col: 3},
		}
		if diff := cmp.Diff(want, b.MovesFor(id)); diff != "" {
			t.Errorf("moves mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("computer man steps toward row 7", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerComputer, 2, 1)

		want := []Move{
			{PieceID: id, Row: 3, Col: 0},
			{PieceID: id, Row: 3, Col: 2},
		}
		if diff := cmp.Diff(want, b.MovesFor(id)); diff != "" {
			t.Errorf("moves mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("edge column has a single diagonal", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 7, 0)

		require.Equal(t, []Move{{PieceID: id, Row: 6, Col: 1}}, b.MovesFor(id))
	})

	t.Run("own piece blocks", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 5, 2)
		mustAdd(t, b, core.OwnerPlayer, 4, 1)
		mustAdd(t, b, core.OwnerPlayer, 4, 3)

		assert.Empty(t, b.MovesFor(id))
	})

	t.Run("man never moves backward", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 3, 2)
		mustAdd(t, b, core.OwnerComputer, 4, 3)

		for _, m := range b.MovesFor(id) {
			assert.Less(t, m.Row, 3)
		}
	})
}

func TestManCapture(t *testing.T) {
	t.Run("adjacent enemy with empty landing", func(t *testing.T) {
		// Player man at (2,3) jumping the computer man at (1,2) lands on (0,1)
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 2, 3)
		enemy := mustAdd(t, b, core.OwnerComputer, 1, 2)

		moves := b.MovesFor(id)
		assert.Contains(t, moves, Move{PieceID: id, Row: 0, Col: 1, Captured: enemy})
		assert.Contains(t, moves, Move{PieceID: id, Row: 1, Col: 4})
	})

	t.Run("blocked landing", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 5, 2)
		mustAdd(t, b, core.OwnerComputer, 4, 3)
		mustAdd(t, b, core.OwnerComputer, 3, 4)

		assert.Empty(t, b.CapturesFor(id))
	})

	t.Run("landing off board", func(t *testing.T) {
		b := New()
		id := mustAdd(t, b, core.OwnerPlayer, 1, 1)
		mustAdd(t, b, core.OwnerComputer, 0, 0)

		assert.Empty(t, b.CapturesFor(id))
	})

	t.Run("computer piece captures forward", func(t *testing.T) {
		// Computer man at (3,4), player man at (4,5), empty (5,6)
		b := New()
		id := mustAdd(t, b, core.OwnerComputer, 3, 4)
		enemy := mustAdd(t, b, core.OwnerPlayer, 4, 5)

		require.Equal(t, []Move{{PieceID: id, Row: 5, Col: 6, Captured: enemy}}, b.CapturesFor(id))
	})
}

func TestKingRay(t *testing.T) {
	t.Run("slides and captures along the ray", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerPlayer, 4, 4)
		require.NoError(t, b.Crown(king))
		enemy := mustAdd(t, b, core.OwnerComputer, 1, 1)

		moves := b.MovesFor(king)
		assert.Contains(t, moves, Move{PieceID: king, Row: 3, Col: 3})
		assert.Contains(t, moves, Move{PieceID: king, Row: 2, Col: 2})
		assert.Contains(t, moves, Move{PieceID: king, Row: 0, Col: 0, Captured: enemy})
		assert.NotContains(t, moves, Move{PieceID: king, Row: 1, Col: 1})
		assert.Len(t, moves, 12)
	})

	t.Run("several landing cells behind the enemy", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerComputer, 0, 1)
		require.NoError(t, b.Crown(king))
		enemy := mustAdd(t, b, core.OwnerPlayer, 2, 3)

		want := []Move{
			{PieceID: king, Row: 1, Col: 0},
			{PieceID: king, Row: 1, Col: 2},
			{PieceID: king, Row: 3, Col: 4, Captured: enemy},
			{PieceID: king, Row: 4, Col: 5, Captured: enemy},
			{PieceID: king, Row: 5, Col: 6, Captured: enemy},
			{PieceID: king, Row: 6, Col: 7, Captured: enemy},
		}
		if diff := cmp.Diff(want, b.MovesFor(king)); diff != "" {
			t.Errorf("moves mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("single capture per ray", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerPlayer, 7, 0)
		require.NoError(t, b.Crown(king))
		first := mustAdd(t, b, core.OwnerComputer, 5, 2)
		mustAdd(t, b, core.OwnerComputer, 3, 4)

		moves := b.MovesFor(king)
		for _, m := range moves {
			if m.IsCapture() {
				assert.Equal(t, first, m.Captured)
				assert.Equal(t, 4, m.Row, "landing zone ends before the second piece")
			}
			assert.Greater(t, m.Row, 3, "nothing recorded beyond the second occupied cell")
		}
		assert.Contains(t, moves, Move{PieceID: king, Row: 4, Col: 3, Captured: first})
	})

	t.Run("own piece stops the ray", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerPlayer, 4, 4)
		require.NoError(t, b.Crown(king))
		mustAdd(t, b, core.OwnerPlayer, 2, 2)
		mustAdd(t, b, core.OwnerComputer, 1, 1)

		moves := b.MovesFor(king)
		assert.Contains(t, moves, Move{PieceID: king, Row: 3, Col: 3})
		for _, m := range moves {
			assert.False(t, m.IsCapture())
			assert.False(t, m.Row < 3 && m.Col < 3, "ray continued past own piece to (%d,%d)", m.Row, m.Col)
		}
	})

	t.Run("king captures away from its promotion row", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerPlayer, 2, 3)
		require.NoError(t, b.Crown(king))
		enemy := mustAdd(t, b, core.OwnerComputer, 3, 4)

		assert.Contains(t, b.MovesFor(king), Move{PieceID: king, Row: 4, Col: 5, Captured: enemy})
	})

	t.Run("adjacent enemy against the edge", func(t *testing.T) {
		b := New()
		king := mustAdd(t, b, core.OwnerPlayer, 1, 1)
		require.NoError(t, b.Crown(king))
		mustAdd(t, b, core.OwnerComputer, 0, 0)

		assert.Empty(t, b.CapturesFor(king))
	})
}

func TestAllCaptures(t *testing.T) {
	b := New()
	a := mustAdd(t, b, core.OwnerComputer, 2, 1)
	mustAdd(t, b, core.OwnerPlayer, 3, 2)
	mustAdd(t, b, core.OwnerComputer, 0, 5) // no capture available
	c := mustAdd(t, b, core.OwnerComputer, 2, 5)
	mustAdd(t, b, core.OwnerPlayer, 3, 4)
	mustAdd(t, b, core.OwnerPlayer, 3, 6)

	all := b.AllCaptures(core.OwnerComputer)
	require.Len(t, all, 2)
	assert.Equal(t, a, all[0].PieceID)
	assert.Len(t, all[0].Moves, 1)
	assert.Equal(t, c, all[1].PieceID)
	assert.Len(t, all[1].Moves, 2)

	for _, pm := range all {
		for _, m := range pm.Moves {
			assert.True(t, m.IsCapture())
		}
	}
}
