package stats

// successors keeps per-word successor counts in first-observed order and
// tracks the current arg-max so prediction is O(1).
type successors struct {
	slots  map[string]int
	counts []WordCount
	best   int
}

func (s *successors) add(word string) {
	i, ok := s.slots[word]
	if !ok {
		i = len(s.counts)
		s.slots[word] = i
		s.counts = append(s.counts, WordCount{Word: word})
	}
	s.counts[i].Count++
	// only counts[i] moved, so it is the only challenger; on a tie the
	// successor observed first leads
	c, b := s.counts[i].Count, s.counts[s.best].Count
	if c > b || (c == b && i < s.best) {
		s.best = i
	}
}

// Bigram is a first-order Markov model over adjacent words.
type Bigram struct {
	next map[string]*successors
}

// NewBigram returns an empty model.
func NewBigram() *Bigram {
	return &Bigram{next: make(map[string]*successors)}
}

// Observe counts every adjacent pair in words.
func (b *Bigram) Observe(words []string) {
	for i := 0; i+1 < len(words); i++ {
		s, ok := b.next[words[i]]
		if !ok {
			s = &successors{slots: make(map[string]int)}
			b.next[words[i]] = s
		}
		s.add(words[i+1])
	}
}

// PredictNext returns the most frequent successor of word. Ties go to the
// successor observed first. It returns false when word never preceded another.
func (b *Bigram) PredictNext(word string) (string, bool) {
	s, ok := b.next[word]
	if !ok {
		return "", false
	}
	return s.counts[s.best].Word, true
}

// Successors returns the successor counts of word in first-observed order.
func (b *Bigram) Successors(word string) []WordCount {
	s, ok := b.next[word]
	if !ok {
		return []WordCount{}
	}
	out := make([]WordCount, len(s.counts))
	copy(out, s.counts)
	return out
}

// Predecessors returns how many distinct words have at least one successor.
func (b *Bigram) Predecessors() int {
	return len(b.next)
}
