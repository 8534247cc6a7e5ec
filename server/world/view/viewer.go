package view

// ChunkSource is the subset of world/chunk state the view layer needs: the
// viewable packet buffers a subscribed chunk accumulated during Update, and
// a lazily-computed chunk-data payload.
type ChunkSource interface {
	ViewerBuffers() (entityViewable, chunkViewable []byte)
	LoadPacket() []byte // full chunk-data packet, computed on first call per tick
}

// ChunkProvider resolves a chunk coordinate to its current ChunkSource, or
// reports it isn't loaded.
type ChunkProvider func(ChunkPos) (ChunkSource, bool)

// Viewer tracks one player's chunk and entity subscriptions across ticks,
// implementing the strict Update -> View -> Flush ordering and the
// rectangle-decomposition diff from Diff (§4.8).
type Viewer struct {
	center        ChunkPos
	radius        int32 // block/chunk view distance R
	entityRadius  int32 // entity view distance E, entityRadius <= radius
	subscribed    map[ChunkPos]struct{}
	trackedEntity map[ChunkPos]struct{}
	lastCenter    ChunkPos // center as of the previous View call

	outbound []byte
	joining  bool
}

// NewViewer creates a viewer centered on initial with the given radii. A
// newly created viewer starts with no subscriptions; its first View call
// subscribes to every chunk in range as "entering" so the initial chunk
// burst reuses the same code path as ordinary movement.
func NewViewer(initial ChunkPos, radius, entityRadius int32) *Viewer {
	return &Viewer{
		center:        initial,
		radius:        radius,
		entityRadius:  entityRadius,
		subscribed:    make(map[ChunkPos]struct{}),
		trackedEntity: make(map[ChunkPos]struct{}),
		joining:       true,
	}
}

// Move updates the viewer's chunk-view center ahead of the next View call.
func (v *Viewer) Move(to ChunkPos) { v.center = to }

// View runs the per-tick view phase (§4.8 step 2): chunk-load packets for
// newly entered chunks (lazily serialized via ChunkSource.LoadPacket),
// unload notices for chunks now out of range, spawn/despawn driven by the
// smaller entity radius, and copies each subscribed chunk's viewable
// buffers into the viewer's outbound buffer.
//
// unloadPacket/loadPacket let the world layer control the exact wire
// encoding (packet id, chunk x/z fields) without this package needing to
// know about them.
func (v *Viewer) View(provider ChunkProvider, loadPacket func(ChunkPos, []byte) []byte, unloadPacket func(ChunkPos) []byte, spawnEntities func(ChunkPos), despawnEntities func(ChunkPos)) {
	var oldCenter ChunkPos
	var dx, dz int32
	if v.joining {
		// A joining player has no prior center: treat every chunk within
		// radius as freshly entered, nothing as left.
		dx, dz = 0, 0
	} else {
		oldCenter = v.priorCenter()
		dx = v.center[0] - oldCenter[0]
		dz = v.center[1] - oldCenter[1]
	}

	entered := map[ChunkPos]struct{}{}
	left := map[ChunkPos]struct{}{}

	if v.joining {
		for x := -v.radius; x <= v.radius; x++ {
			for z := -v.radius; z <= v.radius; z++ {
				entered[ChunkPos{v.center[0] + x, v.center[1] + z}] = struct{}{}
			}
		}
	} else {
		Diff(dx, dz, v.radius,
			func(x, z int32) { entered[ChunkPos{oldCenter[0] + x, oldCenter[1] + z}] = struct{}{} },
			func(x, z int32) { left[ChunkPos{oldCenter[0] + x, oldCenter[1] + z}] = struct{}{} },
		)
	}

	for pos := range left {
		delete(v.subscribed, pos)
		v.outbound = append(v.outbound, unloadPacket(pos)...)
	}
	for pos := range entered {
		v.subscribed[pos] = struct{}{}
		if src, ok := provider(pos); ok {
			v.outbound = append(v.outbound, loadPacket(pos, src.LoadPacket())...)
		}
	}

	// Entity visibility uses the smaller radius E, diffed separately from
	// the block-view diff above (§4.8). It is recomputed only when the
	// viewer's own center moves; entities crossing chunk boundaries do not
	// trigger it.
	enteredEntities := map[ChunkPos]struct{}{}
	leftEntities := map[ChunkPos]struct{}{}
	if v.joining {
		for x := -v.entityRadius; x <= v.entityRadius; x++ {
			for z := -v.entityRadius; z <= v.entityRadius; z++ {
				enteredEntities[ChunkPos{v.center[0] + x, v.center[1] + z}] = struct{}{}
			}
		}
	} else {
		Diff(dx, dz, v.entityRadius,
			func(x, z int32) { enteredEntities[ChunkPos{oldCenter[0] + x, oldCenter[1] + z}] = struct{}{} },
			func(x, z int32) { leftEntities[ChunkPos{oldCenter[0] + x, oldCenter[1] + z}] = struct{}{} },
		)
	}
	for pos := range leftEntities {
		delete(v.trackedEntity, pos)
		despawnEntities(pos)
	}
	for pos := range enteredEntities {
		v.trackedEntity[pos] = struct{}{}
		spawnEntities(pos)
	}

	for pos := range v.subscribed {
		if src, ok := provider(pos); ok {
			entityBuf, chunkBuf := src.ViewerBuffers()
			v.outbound = append(v.outbound, entityBuf...)
			v.outbound = append(v.outbound, chunkBuf...)
		}
	}

	v.joining = false
	v.lastCenter = v.center
}

func (v *Viewer) priorCenter() ChunkPos { return v.lastCenter }

// Flush returns the accumulated outbound bytes and clears the buffer,
// completing the Update -> View -> Flush cycle (§4.8 step 3). The caller
// writes the returned bytes to the socket.
func (v *Viewer) Flush() []byte {
	out := v.outbound
	v.outbound = nil
	return out
}

// Subscribed reports whether the viewer currently subscribes to pos.
func (v *Viewer) Subscribed(pos ChunkPos) bool {
	_, ok := v.subscribed[pos]
	return ok
}
