// Package stats holds the counting models: word frequencies and the bigram
// next-word model.
package stats

import "sort"

// WordCount pairs a word with its occurrence count.
type WordCount struct {
	Word  string
	Count int
}

// Frequency counts word occurrences. Counts only grow. Words remember the
// order they were first seen in, which breaks ties in TopK.
type Frequency struct {
	slots  map[string]int
	counts []WordCount
	total  int
}

// NewFrequency returns an empty counter.
func NewFrequency() *Frequency {
	return &Frequency{slots: make(map[string]int)}
}

// Increment adds one occurrence of word.
func (f *Frequency) Increment(word string) {
	f.total++
	if i, ok := f.slots[word]; ok {
		f.counts[i].Count++
		return
	}
	f.slots[word] = len(f.counts)
	f.counts = append(f.counts, WordCount{Word: word, Count: 1})
}

// Count returns the occurrences of word, zero if unseen.
func (f *Frequency) Count(word string) int {
	if i, ok := f.slots[word]; ok {
		return f.counts[i].Count
	}
	return 0
}

// Distinct returns the number of distinct words.
func (f *Frequency) Distinct() int {
	return len(f.counts)
}

// Total returns the number of increments.
func (f *Frequency) Total() int {
	return f.total
}

// TopKCounts returns the n most frequent words, highest first, ties in
// first-seen order.
func (f *Frequency) TopKCounts(n int) []WordCount {
	if n <= 0 || len(f.counts) == 0 {
		return []WordCount{}
	}
	sorted := make([]WordCount, len(f.counts))
	copy(sorted, f.counts)
	// counts is already in first-seen order, so a stable sort keeps ties there
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopK is TopKCounts without the counts.
func (f *Frequency) TopK(n int) []string {
	top := f.TopKCounts(n)
	words := make([]string, len(top))
	for i, wc := range top {
		words[i] = wc.Word
	}
	return words
}
