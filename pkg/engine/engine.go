/*
Package engine ties the word indexes together into a single text engine.

An Engine learns from sentences fed to Ingest and answers queries from the
structure that owns the answer:

	top words       stats.Frequency
	completions     index.PrefixIndex
	lookup          index.OrderedIndex
	next word       stats.Bigram
	related words   graph.Cooccurrence
	ranked complete suggest.Ranker

Every exported method takes the engine lock, so an ingest is never observed
half applied and callers from many goroutines are served one at a time.

	eng := engine.New()
	eng.Ingest("the quick fox jumps the quick dog")
	eng.TopWords(2)        // [the quick]
	eng.PredictNext("the") // quick, true
*/
package engine

import (
	"strings"
	"sync"

	"github.com/bastiangx/wordgraph/pkg/graph"
	"github.com/bastiangx/wordgraph/pkg/index"
	"github.com/bastiangx/wordgraph/pkg/stats"
	"github.com/bastiangx/wordgraph/pkg/suggest"
	"github.com/charmbracelet/log"
)

// DefaultTopWords is how many frequent words Respond reports.
const DefaultTopWords = 3

// Engine is the text engine. Construct with New; the zero value is not usable.
type Engine struct {
	mu sync.Mutex

	freq    *stats.Frequency
	prefix  *index.PrefixIndex
	ordered *index.OrderedIndex
	graph   *graph.Cooccurrence
	bigram  *stats.Bigram
	ranker  *suggest.Ranker

	sentences int
	topWords  int
	logger    *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTopWords sets how many frequent words Respond reports.
func WithTopWords(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.topWords = n
		}
	}
}

// WithLogger replaces the package-level charm logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine with every index empty.
func New(opts ...Option) *Engine {
	e := &Engine{
		freq:     stats.NewFrequency(),
		prefix:   index.NewPrefixIndex(),
		ordered:  index.NewOrderedIndex(),
		graph:    graph.NewCooccurrence(),
		bigram:   stats.NewBigram(),
		ranker:   suggest.NewRanker(),
		topWords: DefaultTopWords,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTopWords changes how many frequent words Respond reports.
func (e *Engine) SetTopWords(n int) {
	if n < 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.topWords = n
}

// Tokenize splits text on whitespace. Tokens are kept verbatim.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Ingest learns from sentence. Blank input is a no-op.
func (e *Engine) Ingest(sentence string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ingest(Tokenize(sentence))
}

func (e *Engine) ingest(words []string) {
	if len(words) == 0 {
		return
	}
	for _, w := range words {
		e.freq.Increment(w)
		e.prefix.Insert(w)
		e.ordered.Insert(w)
		e.ranker.Add(w)
	}
	for i := 0; i+1 < len(words); i++ {
		e.graph.RecordAdjacency(words[i], words[i+1])
	}
	e.bigram.Observe(words)
	e.sentences++
	e.logger.Debug("ingested", "tokens", len(words), "sentences", e.sentences)
}

// TopWords returns the n most frequent words, ties in first-seen order.
func (e *Engine) TopWords(n int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.freq.TopK(n)
}

// TopWordCounts is TopWords with the counts attached.
func (e *Engine) TopWordCounts(n int) []stats.WordCount {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.freq.TopKCounts(n)
}

// Completions returns every seen word starting with prefix.
func (e *Engine) Completions(prefix string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefix.Complete(prefix)
}

// RankedCompletions returns up to limit words extending prefix, most frequent
// first. The prefix itself is excluded.
func (e *Engine) RankedCompletions(prefix string, limit int) []suggest.Suggestion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ranker.Complete(prefix, limit)
}

// PredictNext returns the most likely word to follow word.
func (e *Engine) PredictNext(word string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bigram.PredictNext(word)
}

// RelatedWords returns the words seen directly after word.
func (e *Engine) RelatedWords(word string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.RelatedTo(word)
}

// Lookup reports whether word has been seen, returning the stored word.
func (e *Engine) Lookup(word string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ordered.Find(word)
}

// Vocabulary returns every distinct word in ascending order.
func (e *Engine) Vocabulary() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ordered.Words()
}
