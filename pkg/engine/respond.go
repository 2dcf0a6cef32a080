package engine

// Reply is what a chat front end shows after a message: the running top
// words plus completion, prediction and relatedness for the message's last
// word. Empty slices and a blank NextWord mean "nothing found".
type Reply struct {
	TopWords    []string `json:"top_words" msgpack:"top"`
	LastWord    string   `json:"last_word" msgpack:"last"`
	Suggestions []string `json:"suggestions" msgpack:"sug"`
	NextWord    string   `json:"next_word" msgpack:"next"`
	HasNext     bool     `json:"has_next" msgpack:"has_next"`
	Related     []string `json:"related_words" msgpack:"rel"`
	Known       bool     `json:"known" msgpack:"known"`
}

// Stats summarizes what the engine has learned.
type Stats struct {
	Sentences     int `json:"sentences" msgpack:"sentences"`
	Tokens        int `json:"tokens" msgpack:"tokens"`
	DistinctWords int `json:"distinct_words" msgpack:"distinct_words"`
	Edges         int `json:"edges" msgpack:"edges"`
	Predecessors  int `json:"predecessors" msgpack:"predecessors"`
	TreeHeight    int `json:"tree_height" msgpack:"tree_height"`
}

// Respond ingests text and then queries every index with its last token, all
// under one lock so no other ingest lands in between. Blank text learns
// nothing and is queried as the empty word: every word completes it and
// nothing follows it.
func (e *Engine) Respond(text string) Reply {
	e.mu.Lock()
	defer e.mu.Unlock()

	words := Tokenize(text)
	e.ingest(words)

	var last string
	if len(words) > 0 {
		last = words[len(words)-1]
	}

	reply := Reply{
		TopWords:    e.freq.TopK(e.topWords),
		LastWord:    last,
		Suggestions: e.prefix.Complete(last),
	}
	reply.NextWord, reply.HasNext = e.bigram.PredictNext(last)
	reply.Related = e.graph.RelatedTo(last)
	_, reply.Known = e.ordered.Find(last)
	return reply
}

// Stats returns counters across all indexes.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Sentences:     e.sentences,
		Tokens:        e.freq.Total(),
		DistinctWords: e.ordered.Len(),
		Edges:         e.graph.EdgeCount(),
		Predecessors:  e.bigram.Predecessors(),
		TreeHeight:    e.ordered.Height(),
	}
}
