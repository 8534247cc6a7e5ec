// Package goal implements the bitmask-state A* planner (C10): given a
// knowledge bitmask and a library of actions, it picks the first
// satisfiable goal from an ordered list and plans a path of actions
// toward it, in the same open/closed-set shape as the teacher's
// grid-coordinate A* pathfinder, generalized from [3]int positions to
// uint64 knowledge states.
package goal

import (
	"container/heap"
	"math"
	"math/bits"
)

// maxExpansions bounds a single plan attempt (§4.10).
const maxExpansions = 512

// Action transforms a knowledge state when its precondition holds.
// apply(state) = ((state & EffectMask) | EffectOr) ^ EffectXor.
type Action struct {
	Label      string
	PreMask    uint64
	PreCmp     uint64
	EffectMask uint64
	EffectOr   uint64
	EffectXor  uint64
	Cost       float32
}

func (a Action) applicable(state uint64) bool {
	return !math.IsInf(float64(a.Cost), 1) && state&a.PreMask == a.PreCmp
}

func (a Action) apply(state uint64) uint64 {
	return ((state & a.EffectMask) | a.EffectOr) ^ a.EffectXor
}

// Goal is satisfiable from a state when state&PreMask==PreCmp, and is
// reached when state&DesiredMask==DesiredCmp.
type Goal struct {
	Label       string
	PreMask     uint64
	PreCmp      uint64
	DesiredMask uint64
	DesiredCmp  uint64
}

func (g Goal) satisfiableFrom(state uint64) bool { return state&g.PreMask == g.PreCmp }
func (g Goal) reached(state uint64) bool         { return state&g.DesiredMask == g.DesiredCmp }

func (g Goal) heuristic(state uint64) float64 {
	return float64(bits.OnesCount64((state & g.DesiredMask) ^ g.DesiredCmp))
}

// PlanResult is the outcome of a successful search: the chosen goal and the
// full ordered action sequence from the initial state to it.
type PlanResult struct {
	Goal    Goal
	Actions []Action
}

// FirstAction is the first step of the plan, the only part a caller
// needs to start acting immediately (§4.10 step 4).
func (p PlanResult) FirstAction() (Action, bool) {
	if len(p.Actions) == 0 {
		return Action{}, false
	}
	return p.Actions[0], true
}

type node struct {
	state  uint64
	g      float64
	h      float64
	f      float64
	via    Action
	hasVia bool
	parent *node
	index  int
}

type nodeHeap []*node

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g < h[j].g
}
func (h nodeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	v.index = -1
	*h = old[:n-1]
	return v
}

// Plan chooses the first goal (in order) whose precondition the current
// knowledge state satisfies, then searches for a least-cost sequence of
// actions reaching it via A*, tie-breaking on lower g-cost and capping
// the search at 512 expansions (§4.10). It returns false if no listed
// goal's precondition holds, or the chosen goal is unreachable within the
// expansion cap.
func Plan(knowledge uint64, actions []Action, goals []Goal) (PlanResult, bool) {
	for _, g := range goals {
		if !g.satisfiableFrom(knowledge) {
			continue
		}
		if path, ok := search(knowledge, actions, g); ok {
			return PlanResult{Goal: g, Actions: path}, true
		}
		return PlanResult{}, false
	}
	return PlanResult{}, false
}

func search(start uint64, actions []Action, g Goal) ([]Action, bool) {
	startNode := &node{state: start, h: g.heuristic(start)}
	startNode.f = startNode.h
	open := &nodeHeap{startNode}
	heap.Init(open)

	closed := make(map[uint64]bool)
	expansions := 0

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if g.reached(cur.state) {
			return reconstruct(cur), true
		}
		if closed[cur.state] {
			continue
		}
		closed[cur.state] = true
		expansions++
		if expansions > maxExpansions {
			return nil, false
		}

		for _, a := range actions {
			if !a.applicable(cur.state) {
				continue
			}
			next := a.apply(cur.state)
			if closed[next] {
				continue
			}
			n := &node{
				state:  next,
				g:      cur.g + float64(a.Cost),
				via:    a,
				hasVia: true,
				parent: cur,
			}
			n.f = n.g + g.heuristic(next)
			heap.Push(open, n)
		}
	}
	return nil, false
}

func reconstruct(n *node) []Action {
	var rev []Action
	for cur := n; cur != nil && cur.hasVia; cur = cur.parent {
		rev = append(rev, cur.via)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
