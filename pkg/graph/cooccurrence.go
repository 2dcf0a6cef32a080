// Package graph keeps the directed word co-occurrence graph.
package graph

// Edge is a weighted adjacency: To followed From Weight times.
type Edge struct {
	From   string
	To     string
	Weight int
}

type edgeKey struct {
	from, to int
}

// Cooccurrence is a directed weighted graph stored as an arena: words map to
// node ids and each node owns an ordered list of outgoing edge ids.
// Self-loops and cycles are allowed.
type Cooccurrence struct {
	ids   map[string]int
	words []string
	out   [][]int
	edges []Edge
	byKey map[edgeKey]int
}

// NewCooccurrence returns an empty graph.
func NewCooccurrence() *Cooccurrence {
	return &Cooccurrence{
		ids:   make(map[string]int),
		byKey: make(map[edgeKey]int),
	}
}

func (g *Cooccurrence) node(word string) int {
	if id, ok := g.ids[word]; ok {
		return id
	}
	id := len(g.words)
	g.ids[word] = id
	g.words = append(g.words, word)
	g.out = append(g.out, nil)
	return id
}

// RecordAdjacency adds the edge a->b with weight 1, or bumps its weight.
func (g *Cooccurrence) RecordAdjacency(a, b string) {
	from, to := g.node(a), g.node(b)
	key := edgeKey{from, to}
	if e, ok := g.byKey[key]; ok {
		g.edges[e].Weight++
		return
	}
	e := len(g.edges)
	g.edges = append(g.edges, Edge{From: a, To: b, Weight: 1})
	g.byKey[key] = e
	g.out[from] = append(g.out[from], e)
}

// RelatedTo returns the direct successors of word in edge creation order.
func (g *Cooccurrence) RelatedTo(word string) []string {
	id, ok := g.ids[word]
	if !ok {
		return []string{}
	}
	related := make([]string, 0, len(g.out[id]))
	for _, e := range g.out[id] {
		related = append(related, g.edges[e].To)
	}
	return related
}

// Edges returns copies of the outgoing edges of word in creation order.
func (g *Cooccurrence) Edges(word string) []Edge {
	id, ok := g.ids[word]
	if !ok {
		return []Edge{}
	}
	out := make([]Edge, 0, len(g.out[id]))
	for _, e := range g.out[id] {
		out = append(out, g.edges[e])
	}
	return out
}

// Weight returns the weight of a->b, zero if the edge does not exist.
func (g *Cooccurrence) Weight(a, b string) int {
	from, ok := g.ids[a]
	if !ok {
		return 0
	}
	to, ok := g.ids[b]
	if !ok {
		return 0
	}
	if e, ok := g.byKey[edgeKey{from, to}]; ok {
		return g.edges[e].Weight
	}
	return 0
}

// NodeCount returns the number of distinct words seen in any edge.
func (g *Cooccurrence) NodeCount() int {
	return len(g.words)
}

// EdgeCount returns the number of distinct directed edges.
func (g *Cooccurrence) EdgeCount() int {
	return len(g.edges)
}
