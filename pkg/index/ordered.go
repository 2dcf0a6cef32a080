package index

import "iter"

type color bool

const (
	red   color = false
	black color = true
)

// rbNode is owned by its parent link; parent is a back-reference used only
// during rebalancing.
type rbNode struct {
	word   string
	color  color
	left   *rbNode
	right  *rbNode
	parent *rbNode
}

func isRed(n *rbNode) bool {
	return n != nil && n.color == red
}

// OrderedIndex is a red-black tree set of distinct words.
// Height stays within 2*log2(n+1) for n stored words.
type OrderedIndex struct {
	root *rbNode
	size int
}

// NewOrderedIndex returns an empty tree.
func NewOrderedIndex() *OrderedIndex {
	return &OrderedIndex{}
}

// Insert adds word if absent and rebalances. It returns false for duplicates,
// which leave the tree untouched.
func (t *OrderedIndex) Insert(word string) bool {
	var parent *rbNode
	cur := t.root
	for cur != nil {
		parent = cur
		switch {
		case word < cur.word:
			cur = cur.left
		case word > cur.word:
			cur = cur.right
		default:
			return false
		}
	}

	n := &rbNode{word: word, color: red, parent: parent}
	switch {
	case parent == nil:
		t.root = n
	case word < parent.word:
		parent.left = n
	default:
		parent.right = n
	}
	t.size++
	t.insertFixup(n)
	return true
}

func (t *OrderedIndex) insertFixup(n *rbNode) {
	for isRed(n.parent) {
		p := n.parent
		// a red parent is never the root, so the grandparent exists
		g := p.parent
		if p == g.left {
			if u := g.right; isRed(u) {
				p.color, u.color, g.color = black, black, red
				n = g
				continue
			}
			if n == p.right {
				n = p
				t.rotateLeft(n)
				p = n.parent
			}
			p.color, g.color = black, red
			t.rotateRight(g)
		} else {
			if u := g.left; isRed(u) {
				p.color, u.color, g.color = black, black, red
				n = g
				continue
			}
			if n == p.left {
				n = p
				t.rotateRight(n)
				p = n.parent
			}
			p.color, g.color = black, red
			t.rotateLeft(g)
		}
	}
	t.root.color = black
}

func (t *OrderedIndex) replaceChild(parent, old, repl *rbNode) {
	switch {
	case parent == nil:
		t.root = repl
	case parent.left == old:
		parent.left = repl
	default:
		parent.right = repl
	}
}

func (t *OrderedIndex) rotateLeft(x *rbNode) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.left = x
	x.parent = y
}

func (t *OrderedIndex) rotateRight(x *rbNode) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	t.replaceChild(x.parent, x, y)
	y.right = x
	x.parent = y
}

// Find returns the stored word equal to word.
func (t *OrderedIndex) Find(word string) (string, bool) {
	cur := t.root
	for cur != nil {
		switch {
		case word < cur.word:
			cur = cur.left
		case word > cur.word:
			cur = cur.right
		default:
			return cur.word, true
		}
	}
	return "", false
}

// Contains reports whether word is stored.
func (t *OrderedIndex) Contains(word string) bool {
	_, ok := t.Find(word)
	return ok
}

// Len returns the number of distinct words.
func (t *OrderedIndex) Len() int {
	return t.size
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (t *OrderedIndex) Height() int {
	if t.root == nil {
		return 0
	}
	height := 0
	level := []*rbNode{t.root}
	for len(level) > 0 {
		height++
		var next []*rbNode
		for _, n := range level {
			if n.left != nil {
				next = append(next, n.left)
			}
			if n.right != nil {
				next = append(next, n.right)
			}
		}
		level = next
	}
	return height
}

// InOrder yields every word in ascending order. Each call to the returned
// sequence starts a fresh traversal.
func (t *OrderedIndex) InOrder() iter.Seq[string] {
	return func(yield func(string) bool) {
		var stack []*rbNode
		cur := t.root
		for cur != nil || len(stack) > 0 {
			for cur != nil {
				stack = append(stack, cur)
				cur = cur.left
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n.word) {
				return
			}
			cur = n.right
		}
	}
}

// Words collects InOrder into a slice.
func (t *OrderedIndex) Words() []string {
	words := make([]string, 0, t.size)
	for w := range t.InOrder() {
		words = append(words, w)
	}
	return words
}
