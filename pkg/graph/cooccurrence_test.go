package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCooccurrenceAccumulates(t *testing.T) {
	g := NewCooccurrence()
	g.RecordAdjacency("a", "b")
	g.RecordAdjacency("a", "b")

	assert.Equal(t, 2, g.Weight("a", "b"))
	assert.Equal(t, []string{"b"}, g.RelatedTo("a"))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 2, g.NodeCount())
}

func TestCooccurrenceOrderAndCycles(t *testing.T) {
	g := NewCooccurrence()
	pairs := [][2]string{
		{"quick", "fox"},
		{"fox", "quick"},
		{"quick", "dog"},
		{"quick", "quick"},
		{"quick", "fox"},
	}
	for _, p := range pairs {
		g.RecordAdjacency(p[0], p[1])
	}

	assert.Equal(t, []string{"fox", "dog", "quick"}, g.RelatedTo("quick"))
	assert.Equal(t, []string{"quick"}, g.RelatedTo("fox"))
	assert.Equal(t, 1, g.Weight("quick", "quick"))
	assert.Equal(t, 2, g.Weight("quick", "fox"))
	assert.Equal(t, []Edge{
		{From: "quick", To: "fox", Weight: 2},
		{From: "quick", To: "dog", Weight: 1},
		{From: "quick", To: "quick", Weight: 1},
	}, g.Edges("quick"))
}

func TestCooccurrenceUnknownWord(t *testing.T) {
	g := NewCooccurrence()
	g.RecordAdjacency("a", "b")

	assert.Empty(t, g.RelatedTo("zzz"))
	assert.NotNil(t, g.RelatedTo("zzz"))
	// "b" is a node but has no outgoing edges
	assert.Empty(t, g.RelatedTo("b"))
	assert.Empty(t, g.Edges("zzz"))
	assert.Zero(t, g.Weight("b", "a"))
	assert.Zero(t, g.Weight("a", "zzz"))
}
