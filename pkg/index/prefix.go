// Package index holds the word indexes the engine keeps in sync: a rune trie for
// prefix completion and a red-black tree for ordered exact lookup.
package index

// prefixNode is a single trie node. Children are kept in insertion order so
// completion output is deterministic for the same ingest history.
type prefixNode struct {
	keys     []rune
	children map[rune]*prefixNode
	terminal bool
}

func (n *prefixNode) child(r rune) *prefixNode {
	if n.children == nil {
		return nil
	}
	return n.children[r]
}

func (n *prefixNode) addChild(r rune) *prefixNode {
	if n.children == nil {
		n.children = make(map[rune]*prefixNode)
	}
	c := &prefixNode{}
	n.children[r] = c
	n.keys = append(n.keys, r)
	return c
}

// PrefixIndex is a character trie over inserted words.
// It is not safe for concurrent use; the engine serializes access.
type PrefixIndex struct {
	root  *prefixNode
	words int
}

// NewPrefixIndex returns an empty trie.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{root: &prefixNode{}}
}

// Insert adds word to the trie. Inserting a word twice is a no-op.
func (p *PrefixIndex) Insert(word string) {
	node := p.root
	for _, r := range word {
		next := node.child(r)
		if next == nil {
			next = node.addChild(r)
		}
		node = next
	}
	if !node.terminal {
		node.terminal = true
		p.words++
	}
}

// Contains reports whether word was inserted as a complete word.
func (p *PrefixIndex) Contains(word string) bool {
	node := p.walk(word)
	return node != nil && node.terminal
}

// Len returns the number of distinct words.
func (p *PrefixIndex) Len() int {
	return p.words
}

// Complete returns every inserted word starting with prefix, in depth-first
// pre-order following child insertion order. An empty prefix returns all words.
// The result is empty, never nil, when nothing matches.
func (p *PrefixIndex) Complete(prefix string) []string {
	results := []string{}
	start := p.walk(prefix)
	if start == nil {
		return results
	}

	type frame struct {
		node *prefixNode
		word []rune
	}
	stack := []frame{{node: start, word: []rune(prefix)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node.terminal {
			results = append(results, string(top.word))
		}
		// push in reverse so the first-inserted child is popped first
		for i := len(top.node.keys) - 1; i >= 0; i-- {
			r := top.node.keys[i]
			word := make([]rune, len(top.word)+1)
			copy(word, top.word)
			word[len(top.word)] = r
			stack = append(stack, frame{node: top.node.children[r], word: word})
		}
	}
	return results
}

func (p *PrefixIndex) walk(prefix string) *prefixNode {
	node := p.root
	for _, r := range prefix {
		node = node.child(r)
		if node == nil {
			return nil
		}
	}
	return node
}
