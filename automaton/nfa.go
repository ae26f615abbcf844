package automaton

import "github.com/robinvdvleuten/reglex/regex"

// nfaEdge is either an epsilon edge or an inclusive byte-range edge.
type nfaEdge struct {
	eps    bool
	lo, hi byte
	to     int
}

type nfaNode struct {
	tag   int
	edges []nfaEdge
}

// nfaGraph is a Thompson NFA over an arena of nodes. Accept nodes carry a
// pattern tag and have no outgoing edges.
type nfaGraph struct {
	nodes []nfaNode
	start int
}

// frag is an NFA fragment with a single entry and a single exit node.
type frag struct {
	in, out int
}

// buildNFA joins one Thompson fragment per pattern under a fresh start
// node. Each fragment's exit becomes the accept node for its tag.
func buildNFA(patterns []Pattern) *nfaGraph {
	g := &nfaGraph{}
	g.start = g.node()
	for _, p := range patterns {
		f := g.compile(p.Expr)
		g.nodes[f.out].tag = p.Tag
		g.eps(g.start, f.in)
	}
	return g
}

func (g *nfaGraph) node() int {
	g.nodes = append(g.nodes, nfaNode{tag: NoTag})
	return len(g.nodes) - 1
}

func (g *nfaGraph) eps(from, to int) {
	g.nodes[from].edges = append(g.nodes[from].edges, nfaEdge{eps: true, to: to})
}

func (g *nfaGraph) edge(from, to int, lo, hi byte) {
	g.nodes[from].edges = append(g.nodes[from].edges, nfaEdge{lo: lo, hi: hi, to: to})
}

func (g *nfaGraph) compile(e regex.Expr) frag {
	switch e := e.(type) {
	case *regex.Char:
		f := frag{in: g.node(), out: g.node()}
		g.edge(f.in, f.out, e.C, e.C)
		return f
	case *regex.Class:
		f := frag{in: g.node(), out: g.node()}
		for _, r := range e.Ranges {
			g.edge(f.in, f.out, r.Lo, r.Hi)
		}
		return f
	case *regex.Any:
		// Any byte except newline.
		f := frag{in: g.node(), out: g.node()}
		g.edge(f.in, f.out, 0x00, '\n'-1)
		g.edge(f.in, f.out, '\n'+1, 0xff)
		return f
	case *regex.Empty:
		f := frag{in: g.node(), out: g.node()}
		g.eps(f.in, f.out)
		return f
	case *regex.Concat:
		first := g.compile(e.Exprs[0])
		prev := first
		for _, x := range e.Exprs[1:] {
			next := g.compile(x)
			g.eps(prev.out, next.in)
			prev = next
		}
		return frag{in: first.in, out: prev.out}
	case *regex.Alt:
		f := frag{in: g.node(), out: g.node()}
		for _, x := range e.Exprs {
			b := g.compile(x)
			g.eps(f.in, b.in)
			g.eps(b.out, f.out)
		}
		return f
	case *regex.Star:
		x := g.compile(e.X)
		f := frag{in: g.node(), out: g.node()}
		g.eps(f.in, x.in)
		g.eps(f.in, f.out)
		g.eps(x.out, x.in)
		g.eps(x.out, f.out)
		return f
	case *regex.Plus:
		x := g.compile(e.X)
		out := g.node()
		g.eps(x.out, x.in)
		g.eps(x.out, out)
		return frag{in: x.in, out: out}
	case *regex.Opt:
		x := g.compile(e.X)
		f := frag{in: g.node(), out: g.node()}
		g.eps(f.in, x.in)
		g.eps(f.in, f.out)
		g.eps(x.out, f.out)
		return f
	default:
		panic("automaton: unknown expression type")
	}
}

// closure expands a node set with everything reachable over epsilon edges.
// The set is a bitmap over the node arena.
func (g *nfaGraph) closure(set []bool) {
	stack := make([]int, 0, len(g.nodes))
	for i, in := range set {
		if in {
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.nodes[n].edges {
			if e.eps && !set[e.to] {
				set[e.to] = true
				stack = append(stack, e.to)
			}
		}
	}
}
