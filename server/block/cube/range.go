// Package cube holds the small position/range value types shared across the
// chunk storage and view packages, mirroring the role the teacher's
// server/block/cube package plays as the common coordinate vocabulary
// consumed by chunk.NetworkDecode/DiskDecode.
package cube

// Range represents the inclusive vertical bounds of a world, in blocks. A
// world configured with chunks_y sections has Range{0, chunks_y*16 - 1}.
type Range [2]int

// Height returns the number of vertically stacked sections this Range
// spans.
func (r Range) Height() int { return (r[1] - r[0] + 1) / 16 }

// Min returns the lower (inclusive) bound.
func (r Range) Min() int { return r[0] }

// Max returns the upper (inclusive) bound.
func (r Range) Max() int { return r[1] }

// Pos is a block position within a chunk-local or world coordinate space,
// depending on context.
type Pos [3]int

func (p Pos) X() int { return p[0] }
func (p Pos) Y() int { return p[1] }
func (p Pos) Z() int { return p[2] }
