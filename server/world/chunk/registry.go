package chunk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/brentp/intintmap"
	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

// Registry maps block/biome state identifiers (a namespaced name plus a
// sorted set of string properties) to the dense int32 runtime ids the wire
// protocol and the paletted containers operate on, mirroring the teacher's
// block_state.go global state table (stateRuntimeIDs/hashes), adapted from
// a single global to an instantiable Registry so a block registry and a
// biome registry can coexist without sharing state.
//
// Lookup is two-level, grounded on the teacher's approach: a 128-bit
// identity (name hash via fasthash/fnv1a, property-set hash via xxhash)
// folded into the 64-bit key brentp/intintmap expects, backed by a slice
// for the reverse id->state direction.
type Registry struct {
	hashToID *intintmap.Map
	states   []stateEntry
}

type stateEntry struct {
	name       string
	properties string // canonicalized "k=v,k=v" form, sorted by key
}

// NewRegistry creates an empty registry sized for an expected number of
// distinct states; 0.99 load factor matches the teacher's intintmap.New
// call.
func NewRegistry(expected int) *Registry {
	if expected <= 0 {
		expected = 1024
	}
	return &Registry{hashToID: intintmap.New(expected, 0.99)}
}

// CanonicalProperties renders a property map into the sorted "k=v,k=v" form
// used both as the hash input and as the human-readable half of a state's
// identity.
func CanonicalProperties(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(props[k])
	}
	return b.String()
}

func stateKey(name, properties string) int64 {
	nameHash := fnv1a.HashString64(name)
	propHash := xxhash.Sum64String(properties)
	// Fold both 64-bit hashes into the single int64 intintmap stores,
	// trading a theoretical cross-hash collision (vanishingly unlikely for
	// the few thousand states a registry holds) for a single flat lookup.
	return int64(nameHash ^ (propHash*0x9E3779B97F4A7C15 + 1))
}

// Register assigns a runtime id to (name, properties) if one does not
// already exist, returning the id and whether it was newly created.
func (r *Registry) Register(name, properties string) (id int32, created bool) {
	key := stateKey(name, properties)
	if existing, ok := r.hashToID.Get(key); ok {
		return int32(existing), false
	}
	id = int32(len(r.states))
	r.states = append(r.states, stateEntry{name: name, properties: properties})
	r.hashToID.Put(key, int64(id))
	return id, true
}

// Lookup returns the runtime id for (name, properties) without registering
// it.
func (r *Registry) Lookup(name, properties string) (int32, bool) {
	v, ok := r.hashToID.Get(stateKey(name, properties))
	if !ok {
		return 0, false
	}
	return int32(v), true
}

// State returns the (name, properties) pair a runtime id was registered
// with.
func (r *Registry) State(id int32) (name, properties string, ok bool) {
	if id < 0 || int(id) >= len(r.states) {
		return "", "", false
	}
	e := r.states[id]
	return e.name, e.properties, true
}

// Len returns the number of distinct states registered.
func (r *Registry) Len() int { return len(r.states) }

// String renders a runtime id as "name[k=v,k=v]" for logging.
func (r *Registry) String(id int32) string {
	name, props, ok := r.State(id)
	if !ok {
		return fmt.Sprintf("<unknown state %d>", id)
	}
	if props == "" {
		return name
	}
	return name + "[" + props + "]"
}
