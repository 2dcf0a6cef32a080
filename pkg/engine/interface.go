package engine

import (
	"github.com/bastiangx/wordgraph/pkg/stats"
	"github.com/bastiangx/wordgraph/pkg/suggest"
)

// TextEngine is what the HTTP, IPC and CLI front ends need from the engine.
type TextEngine interface {
	// Ingest learns from one sentence
	Ingest(sentence string)

	TopWords(n int) []string
	TopWordCounts(n int) []stats.WordCount
	Completions(prefix string) []string
	RankedCompletions(prefix string, limit int) []suggest.Suggestion
	PredictNext(word string) (string, bool)
	RelatedWords(word string) []string
	Lookup(word string) (string, bool)

	// Respond ingests text and answers every query for its last word atomically
	Respond(text string) Reply
	Stats() Stats
	SetTopWords(n int)
}

var _ TextEngine = (*Engine)(nil)
