// Package inventory implements the fixed 46-slot player inventory sync
// (§4.9): a logical->physical slot mapping, per-slot dirty tracking, and a
// monotonic state_id driving ContainerSetSlot emission.
package inventory

import (
	"errors"

	"github.com/df-mc/atomic"
)

// Size is the total physical slot count backing a player's inventory.
const Size = 46

// maxItemPayload is the largest NBT blob a single ContainerSetSlot's item
// may carry (§7); a hostile or buggy client claiming more than this for one
// slot is rejected rather than buffered.
const maxItemPayload = 2 * 1024 * 1024

var (
	// ErrSlotOutOfBounds is returned by Set for a physical index outside
	// [0,Size) (§7).
	ErrSlotOutOfBounds = errors.New("inventory: slot out of bounds")
	// ErrItemTooBig is returned by Set when an item's NBT exceeds
	// maxItemPayload (§7).
	ErrItemTooBig = errors.New("inventory: item payload too large")
)

// Logical slot groups and their physical offsets (§4.9).
const (
	CraftingInputStart = 0 // CraftingInput(0..3) = 0..3
	CraftingInputCount = 4
	CraftingResult     = 4
	Head               = 5
	Chest              = 6
	Legs               = 7
	Feet               = 8
	MainStart          = 9 // Main(0..26) = 9..35
	MainCount          = 27
	HotbarStart        = 36 // Hotbar(0..8) = 36..44
	HotbarCount        = 9
	OffHand            = 45
)

// windowID is the container id ContainerSetSlot packets reference; the
// player's own inventory is always window 0.
const windowID = 0

// Item is the server-side record of what a slot holds. The zero Item is
// empty.
type Item struct {
	ID    int32
	Count int32
	NBT   []byte
}

func (i Item) equal(o Item) bool {
	if i.ID != o.ID || i.Count != o.Count || len(i.NBT) != len(o.NBT) {
		return false
	}
	for k := range i.NBT {
		if i.NBT[k] != o.NBT[k] {
			return false
		}
	}
	return true
}

type slot struct {
	item     Item
	lastSent Item
	dirty    bool
}

// Inventory is the fixed 46-slot container a connected player owns. The
// zero value is not ready for use; call New.
type Inventory struct {
	slots   [Size]slot
	stateID *atomic.Uint32
	sink    Item // absorbs writes to out-of-range logical slots
}

// New returns an empty inventory with state_id starting at zero.
func New() *Inventory {
	return &Inventory{stateID: atomic.NewUint32(0)}
}

// Main returns the physical slot index for a main-inventory logical index
// in [0,26].
func Main(i int) int { return MainStart + i }

// Hotbar returns the physical slot index for a hotbar logical index in
// [0,8].
func Hotbar(i int) int { return HotbarStart + i }

// CraftingInput returns the physical slot index for a crafting-grid
// logical index in [0,3].
func CraftingInput(i int) int { return CraftingInputStart + i }

func inRange(physical int) bool { return physical >= 0 && physical < Size }

// Get reads the server-side item at a physical slot. Out-of-range reads
// return the empty sentinel rather than erroring (§7 SlotOutOfBounds).
func (inv *Inventory) Get(physical int) Item {
	if !inRange(physical) {
		return Item{}
	}
	return inv.slots[physical].item
}

// Set writes the server-side item at a physical slot and marks it dirty
// if the value actually changed. An out-of-range index or an oversized
// NBT payload is rejected rather than applied (§7); the caller decides
// whether that's fatal for the connection that requested it.
func (inv *Inventory) Set(physical int, item Item) error {
	if !inRange(physical) {
		inv.sink = item
		return ErrSlotOutOfBounds
	}
	if len(item.NBT) > maxItemPayload {
		return ErrItemTooBig
	}
	s := &inv.slots[physical]
	if s.item.equal(item) {
		return nil
	}
	s.item = item
	s.dirty = true
	return nil
}

// SetFromClient applies a client-originated mutation (e.g. a creative-mode
// set) to both the server copy and the known-remote copy without marking
// the slot dirty, since the client already shows this state. Validation
// matches Set.
func (inv *Inventory) SetFromClient(physical int, item Item) error {
	if !inRange(physical) {
		inv.sink = item
		return ErrSlotOutOfBounds
	}
	if len(item.NBT) > maxItemPayload {
		return ErrItemTooBig
	}
	s := &inv.slots[physical]
	s.item = item
	s.lastSent = item
	s.dirty = false
	return nil
}

// SlotUpdate is one ContainerSetSlot emission.
type SlotUpdate struct {
	Window  int32
	StateID uint32
	Slot    int32
	Item    Item
}

// Synchronize walks dirty slots and returns the ContainerSetSlot updates
// that need to reach the client: one per slot whose server item differs
// from what the client was last sent. Each emitted update gets a freshly
// incremented state_id; slots whose server state already equals the
// client's last-known value are cleared without an update (§4.9, §8 "zero
// packets if no change").
func (inv *Inventory) Synchronize() []SlotUpdate {
	var updates []SlotUpdate
	for i := range inv.slots {
		s := &inv.slots[i]
		if !s.dirty {
			continue
		}
		if s.item.equal(s.lastSent) {
			s.dirty = false
			continue
		}
		id := inv.stateID.Inc()
		updates = append(updates, SlotUpdate{
			Window:  windowID,
			StateID: id,
			Slot:    int32(i),
			Item:    s.item,
		})
		s.lastSent = s.item
		s.dirty = false
	}
	return updates
}

// StateID returns the current state_id without incrementing it.
func (inv *Inventory) StateID() uint32 { return inv.stateID.Load() }
