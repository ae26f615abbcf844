package automaton

// determinize runs subset construction over the NFA. Each DFA state is the
// epsilon closure of a set of NFA nodes, identified by its bitmap key; its
// tag is the minimum tag among member accept nodes, so the earliest
// declared pattern wins when several complete at once.
func determinize(g *nfaGraph) *DFA {
	d := &DFA{start: 0}
	seen := map[string]int{}
	var pending [][]bool

	add := func(set []bool) int {
		key := string(setKey(set))
		if id, ok := seen[key]; ok {
			return id
		}
		id := len(d.rows)
		seen[key] = id
		d.rows = append(d.rows, [256]int32{})
		d.tags = append(d.tags, setTag(g, set))
		pending = append(pending, set)
		return id
	}

	start := make([]bool, len(g.nodes))
	start[g.start] = true
	g.closure(start)
	add(start)

	for done := 0; done < len(pending); done++ {
		set := pending[done]
		for c := 0; c < 256; c++ {
			move := make([]bool, len(g.nodes))
			any := false
			for n, in := range set {
				if !in {
					continue
				}
				for _, e := range g.nodes[n].edges {
					if !e.eps && e.lo <= byte(c) && byte(c) <= e.hi {
						move[e.to] = true
						any = true
					}
				}
			}
			if !any {
				d.rows[done][c] = NoState
				continue
			}
			g.closure(move)
			// add may grow d.rows; resolve the row only afterwards.
			id := add(move)
			d.rows[done][c] = int32(id)
		}
	}
	return d
}

// setKey packs a node bitmap into bytes for use as a map key.
func setKey(set []bool) []byte {
	key := make([]byte, (len(set)+7)/8)
	for i, in := range set {
		if in {
			key[i/8] |= 1 << (i % 8)
		}
	}
	return key
}

// setTag returns the smallest pattern tag among accept nodes in the set,
// or NoTag.
func setTag(g *nfaGraph, set []bool) int {
	tag := NoTag
	for n, in := range set {
		if !in {
			continue
		}
		if t := g.nodes[n].tag; t != NoTag && (tag == NoTag || t < tag) {
			tag = t
		}
	}
	return tag
}
