package automaton

import "encoding/binary"

// minimize merges indistinguishable states by partition refinement. The
// initial partition separates states by tag, so states completing
// different tokens never merge and every surviving accept keeps its tag.
func minimize(d *DFA) *DFA {
	n := d.NumStates()
	group := make([]int, n)
	tagGroups := map[int]int{}
	for s := 0; s < n; s++ {
		id, ok := tagGroups[d.tags[s]]
		if !ok {
			id = len(tagGroups)
			tagGroups[d.tags[s]] = id
		}
		group[s] = id
	}
	count := len(tagGroups)

	// Refine until no signature splits a group. The signature folds in the
	// state's own group so tag separation persists across rounds.
	sig := make([]byte, 4*257)
	for {
		next := make([]int, n)
		ids := map[string]int{}
		for s := 0; s < n; s++ {
			binary.LittleEndian.PutUint32(sig[0:], uint32(group[s]))
			for c := 0; c < 256; c++ {
				to := d.rows[s][c]
				g := -1
				if to != NoState {
					g = group[to]
				}
				binary.LittleEndian.PutUint32(sig[4+4*c:], uint32(int32(g)))
			}
			id, ok := ids[string(sig)]
			if !ok {
				id = len(ids)
				ids[string(sig)] = id
			}
			next[s] = id
		}
		if len(ids) == count {
			break
		}
		group, count = next, len(ids)
	}

	// Rebuild with one state per group, numbered by first appearance so
	// the result is deterministic and the start state stays at index 0.
	rep := make([]int, count)
	order := make([]int, count)
	for i := range order {
		order[i] = -1
	}
	assigned := 0
	for s := 0; s < n; s++ {
		if order[group[s]] == -1 {
			order[group[s]] = assigned
			rep[assigned] = s
			assigned++
		}
	}

	min := &DFA{
		start: order[group[d.start]],
		tags:  make([]int, count),
		rows:  make([][256]int32, count),
	}
	for i := 0; i < count; i++ {
		s := rep[i]
		min.tags[i] = d.tags[s]
		for c := 0; c < 256; c++ {
			to := d.rows[s][c]
			if to == NoState {
				min.rows[i][c] = NoState
			} else {
				min.rows[i][c] = int32(order[group[to]])
			}
		}
	}
	return min
}
