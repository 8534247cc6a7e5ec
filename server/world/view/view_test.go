package view_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphite-mc/graphite/server/world/view"
)

// naiveDiff computes the same two sets Diff does, but by brute-force
// symmetric difference of the old and new view squares (both expressed in
// old-center-relative coordinates), instead of the rectangle
// decomposition under test.
func naiveDiff(dx, dz, radius int32) (entered, left map[view.ChunkPos]struct{}) {
	entered = map[view.ChunkPos]struct{}{}
	left = map[view.ChunkPos]struct{}{}
	inNew := func(x, z int32) bool {
		return x >= dx-radius && x <= dx+radius && z >= dz-radius && z <= dz+radius
	}
	inOld := func(x, z int32) bool {
		return x >= -radius && x <= radius && z >= -radius && z <= radius
	}
	for x := -radius; x <= radius; x++ {
		for z := -radius; z <= radius; z++ {
			if !inNew(x, z) {
				left[view.ChunkPos{x, z}] = struct{}{}
			}
		}
	}
	for x := dx - radius; x <= dx+radius; x++ {
		for z := dz - radius; z <= dz+radius; z++ {
			if !inOld(x, z) {
				entered[view.ChunkPos{x, z}] = struct{}{}
			}
		}
	}
	return entered, left
}

func TestDiffMatchesNaiveSymmetricDifference(t *testing.T) {
	cases := []struct {
		dx, dz int32
	}{
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
		{0, 5}, {0, -5}, {5, 0}, {-5, 0},
		{0, 20}, {0, -20}, {20, 0}, {-20, 0},
		{1, 2}, {1, -2}, {2, 1}, {2, -1},
		{2, 3}, {2, -3}, {3, 2}, {3, -2},
	}
	const radius = int32(8)

	for _, c := range cases {
		wantEntered, wantLeft := naiveDiff(c.dx, c.dz, radius)

		gotEntered := map[view.ChunkPos]struct{}{}
		gotLeft := map[view.ChunkPos]struct{}{}
		view.Diff(c.dx, c.dz, radius,
			func(x, z int32) { gotEntered[view.ChunkPos{x, z}] = struct{}{} },
			func(x, z int32) { gotLeft[view.ChunkPos{x, z}] = struct{}{} },
		)

		require.Equalf(t, wantEntered, gotEntered, "entered mismatch for dx=%d dz=%d", c.dx, c.dz)
		require.Equalf(t, wantLeft, gotLeft, "left mismatch for dx=%d dz=%d", c.dx, c.dz)
	}
}

func TestDiffNoOverlapFallsBackToFullReplace(t *testing.T) {
	const radius = int32(4)
	wantEntered, wantLeft := naiveDiff(20, 20, radius)

	gotEntered := map[view.ChunkPos]struct{}{}
	gotLeft := map[view.ChunkPos]struct{}{}
	view.Diff(20, 20, radius,
		func(x, z int32) { gotEntered[view.ChunkPos{x, z}] = struct{}{} },
		func(x, z int32) { gotLeft[view.ChunkPos{x, z}] = struct{}{} },
	)
	require.Equal(t, wantEntered, gotEntered)
	require.Equal(t, wantLeft, gotLeft)
}

func TestDiffNoMovementEmitsNothing(t *testing.T) {
	view.Diff(0, 0, 8,
		func(x, z int32) { t.Fatalf("unexpected enter(%d,%d)", x, z) },
		func(x, z int32) { t.Fatalf("unexpected leave(%d,%d)", x, z) },
	)
}

type stubChunk struct{ load []byte }

func (s *stubChunk) ViewerBuffers() (entity, chunk []byte) { return nil, nil }
func (s *stubChunk) LoadPacket() []byte                    { return s.load }

func TestViewerJoinSubscribesFullSquare(t *testing.T) {
	v := view.NewViewer(view.ChunkPos{0, 0}, 2, 1)
	chunks := map[view.ChunkPos]*stubChunk{}
	for x := int32(-2); x <= 2; x++ {
		for z := int32(-2); z <= 2; z++ {
			chunks[view.ChunkPos{x, z}] = &stubChunk{load: []byte{1}}
		}
	}
	provider := func(p view.ChunkPos) (view.ChunkSource, bool) {
		c, ok := chunks[p]
		return c, ok
	}

	var loads int
	v.View(provider,
		func(p view.ChunkPos, payload []byte) []byte { loads++; return payload },
		func(p view.ChunkPos) []byte { t.Fatalf("unexpected unload on join"); return nil },
		func(view.ChunkPos) {},
		func(view.ChunkPos) {},
	)

	require.Equal(t, 25, loads)
	require.True(t, v.Subscribed(view.ChunkPos{2, 2}))
	require.True(t, v.Subscribed(view.ChunkPos{-2, -2}))
	require.NotEmpty(t, v.Flush())
}

func TestViewerMoveUnsubscribesOutOfRangeChunks(t *testing.T) {
	v := view.NewViewer(view.ChunkPos{0, 0}, 1, 1)
	provider := func(p view.ChunkPos) (view.ChunkSource, bool) { return &stubChunk{}, true }

	v.View(provider,
		func(p view.ChunkPos, payload []byte) []byte { return payload },
		func(p view.ChunkPos) []byte { return nil },
		func(view.ChunkPos) {}, func(view.ChunkPos) {},
	)
	v.Flush()
	require.True(t, v.Subscribed(view.ChunkPos{-1, -1}))

	v.Move(view.ChunkPos{5, 0})
	var unloaded []view.ChunkPos
	v.View(provider,
		func(p view.ChunkPos, payload []byte) []byte { return payload },
		func(p view.ChunkPos) []byte { unloaded = append(unloaded, p); return []byte{0} },
		func(view.ChunkPos) {}, func(view.ChunkPos) {},
	)

	require.False(t, v.Subscribed(view.ChunkPos{-1, -1}))
	require.True(t, v.Subscribed(view.ChunkPos{6, 1}))
	require.Contains(t, unloaded, view.ChunkPos{-1, -1})
}
