// Package suggest provides frequency-ranked prefix completion on top of a
// patricia trie, keyed by word with the running occurrence count as the item.
package suggest

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Suggestion is a completion candidate with its observed frequency.
type Suggestion struct {
	Word      string `json:"word" msgpack:"w"`
	Frequency int    `json:"freq" msgpack:"f"`
}

// Ranker counts words in a patricia trie and answers completions ordered by
// frequency. Not safe for concurrent use.
type Ranker struct {
	trie  *patricia.Trie
	words int
}

// NewRanker returns an empty ranker.
func NewRanker() *Ranker {
	return &Ranker{trie: patricia.NewTrie()}
}

// Add records one occurrence of word.
func (r *Ranker) Add(word string) {
	key := patricia.Prefix(word)
	if item := r.trie.Get(key); item != nil {
		r.trie.Set(key, itemFrequency(item)+1)
		return
	}
	r.trie.Insert(key, 1)
	r.words++
}

// Len returns the number of distinct words.
func (r *Ranker) Len() int {
	return r.words
}

// Complete returns up to limit words extending prefix, most frequent first,
// ties broken alphabetically. The prefix itself is never returned so the
// caller does not get its own input back. limit <= 0 means no limit.
func (r *Ranker) Complete(prefix string, limit int) []Suggestion {
	suggestions := []Suggestion{}

	err := r.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == prefix {
			return nil
		}
		suggestions = append(suggestions, Suggestion{
			Word:      word,
			Frequency: itemFrequency(item),
		})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return []Suggestion{}
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func itemFrequency(item patricia.Item) int {
	switch v := item.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case uint32:
		return int(v)
	default:
		log.Errorf("Unknown item type: %T", item)
		return 0
	}
}
