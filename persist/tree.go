// Package persist implements the persistent (immutable, structurally
// shared) syntax tree design note of spec §4.H/§9: nodes live in an
// append-only arena of immutable records keyed by integer id, the
// parent relation is a separate lookup table built lazily and rebuilt
// whenever a tree is re-rooted, and edits (ReplaceChild/InsertChild/
// RemoveChild) allocate new records only along the path from the edited
// node to the root, leaving every other node - and every other Tree
// still referencing the same Arena - untouched. This component has no
// direct teacher precedent; it's built fresh from the design note,
// since the teacher's types.ParseTree is a plain mutable-by-reference
// tree with no parent links at all.
package persist

import (
	"github.com/lrforge/lrforge/token"
	"github.com/lrforge/lrforge/tree"
)

// NodeID identifies a node record within an Arena.
type NodeID int

type nodeRecord[T comparable] struct {
	terminal bool
	symbol   string
	tok      token.Token[T]
	children []NodeID
}

// Arena is an append-only log of immutable node records. Once written, a
// record at a given NodeID never changes; an edit allocates new records
// instead, so every NodeID ever handed out by this Arena stays valid and
// stays meaning the same node forever.
type Arena[T comparable] struct {
	nodes []nodeRecord[T]
}

// NewArena returns an empty arena.
func NewArena[T comparable]() *Arena[T] {
	return &Arena[T]{}
}

func (a *Arena[T]) alloc(rec nodeRecord[T]) NodeID {
	a.nodes = append(a.nodes, rec)
	return NodeID(len(a.nodes) - 1)
}

func (a *Arena[T]) get(id NodeID) nodeRecord[T] {
	return a.nodes[id]
}

// Len returns the number of records ever allocated in the arena,
// including ones no longer reachable from any live Tree's root.
func (a *Arena[T]) Len() int {
	return len(a.nodes)
}

// Tree is an immutable view into an Arena rooted at a specific node: the
// same Arena can back many Trees simultaneously (e.g. the tree before
// and after an edit), each with its own root and each seeing only the
// nodes reachable from it.
type Tree[T comparable] struct {
	arena  *Arena[T]
	root   NodeID
	parent map[NodeID]NodeID
}

// NewTree wraps an existing arena and root node as a Tree.
func NewTree[T comparable](arena *Arena[T], root NodeID) *Tree[T] {
	return &Tree[T]{arena: arena, root: root}
}

// FromNode converts a freshly-built tree.Node (as produced by the
// driver) into an Arena-backed persistent Tree, the usual entry point
// from parsing into the persistent representation.
func FromNode[T comparable](n *tree.Node[T]) *Tree[T] {
	arena := NewArena[T]()
	root := copyInto(arena, n)
	return NewTree(arena, root)
}

func copyInto[T comparable](arena *Arena[T], n *tree.Node[T]) NodeID {
	childIDs := make([]NodeID, len(n.Children))
	for i, c := range n.Children {
		childIDs[i] = copyInto(arena, c)
	}
	return arena.alloc(nodeRecord[T]{
		terminal: n.Terminal,
		symbol:   n.Symbol,
		tok:      n.Tok,
		children: childIDs,
	})
}

// Root returns the id of the tree's root node.
func (t *Tree[T]) Root() NodeID {
	return t.root
}

// Symbol returns the grammar symbol (terminal label or non-terminal
// name) at id.
func (t *Tree[T]) Symbol(id NodeID) string {
	return t.arena.get(id).symbol
}

// IsTerminal reports whether id names a terminal leaf.
func (t *Tree[T]) IsTerminal(id NodeID) bool {
	return t.arena.get(id).terminal
}

// Token returns the token a terminal leaf was built from; nil for
// non-terminal nodes.
func (t *Tree[T]) Token(id NodeID) token.Token[T] {
	return t.arena.get(id).tok
}

// Children returns id's child ids, left to right.
func (t *Tree[T]) Children(id NodeID) []NodeID {
	kids := t.arena.get(id).children
	out := make([]NodeID, len(kids))
	copy(out, kids)
	return out
}

// ensureParentIndex lazily builds the parent lookup table for this
// Tree's current root by walking the tree once; subsequent Parent/Root
// calls reuse it. Rebuilt whenever the Tree is re-rooted (ReplaceChild/
// InsertChild/RemoveChild return a new *Tree with its own nil index).
func (t *Tree[T]) ensureParentIndex() {
	if t.parent != nil {
		return
	}
	t.parent = map[NodeID]NodeID{}
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range t.arena.get(id).children {
			t.parent[c] = id
			walk(c)
		}
	}
	walk(t.root)
}

// Parent returns id's parent in this Tree, and whether id is anything
// other than the root (the root has no parent).
func (t *Tree[T]) Parent(id NodeID) (NodeID, bool) {
	t.ensureParentIndex()
	p, ok := t.parent[id]
	return p, ok
}

// PathToRoot returns the chain of ancestor ids from id up to and
// including the root.
func (t *Tree[T]) PathToRoot(id NodeID) []NodeID {
	t.ensureParentIndex()
	path := []NodeID{id}
	cur := id
	for {
		p, ok := t.parent[cur]
		if !ok {
			return path
		}
		path = append(path, p)
		cur = p
	}
}

// rebuildPath allocates a fresh record for nodeID with its children
// replaced by newChildren, then walks up the (old) parent chain
// allocating a fresh record for each ancestor with the one stale child
// reference swapped for the new id, until it reaches - and returns -
// the new root id. Every node off this path is untouched and shared
// between the old and new Tree.
func (t *Tree[T]) rebuildPath(nodeID NodeID, newChildren []NodeID) NodeID {
	rec := t.arena.get(nodeID)
	newID := t.arena.alloc(nodeRecord[T]{terminal: rec.terminal, symbol: rec.symbol, tok: rec.tok, children: newChildren})

	cur := nodeID
	curNew := newID
	for {
		parentID, ok := t.Parent(cur)
		if !ok {
			return curNew
		}
		parentRec := t.arena.get(parentID)
		newSiblings := make([]NodeID, len(parentRec.children))
		copy(newSiblings, parentRec.children)
		for i, c := range newSiblings {
			if c == cur {
				newSiblings[i] = curNew
				break
			}
		}
		newParentID := t.arena.alloc(nodeRecord[T]{terminal: parentRec.terminal, symbol: parentRec.symbol, tok: parentRec.tok, children: newSiblings})
		cur = parentID
		curNew = newParentID
	}
}

// ReplaceChild returns a new Tree with nodeID's childIdx'th child
// replaced by newChild, sharing every other node with t. Replacing a
// child with itself is a no-op: the same Tree is returned, and no new
// arena records are allocated (spec §8's replace_child(x,x) identity
// invariant).
func (t *Tree[T]) ReplaceChild(nodeID NodeID, childIdx int, newChild NodeID) *Tree[T] {
	rec := t.arena.get(nodeID)
	if rec.children[childIdx] == newChild {
		return t
	}
	newChildren := make([]NodeID, len(rec.children))
	copy(newChildren, rec.children)
	newChildren[childIdx] = newChild

	newRoot := t.rebuildPath(nodeID, newChildren)
	return &Tree[T]{arena: t.arena, root: newRoot}
}

// InsertChild returns a new Tree with newChild inserted as nodeID's
// childIdx'th child, shifting later children right.
func (t *Tree[T]) InsertChild(nodeID NodeID, childIdx int, newChild NodeID) *Tree[T] {
	rec := t.arena.get(nodeID)
	newChildren := make([]NodeID, 0, len(rec.children)+1)
	newChildren = append(newChildren, rec.children[:childIdx]...)
	newChildren = append(newChildren, newChild)
	newChildren = append(newChildren, rec.children[childIdx:]...)

	newRoot := t.rebuildPath(nodeID, newChildren)
	return &Tree[T]{arena: t.arena, root: newRoot}
}

// RemoveChild returns a new Tree with nodeID's childIdx'th child
// removed, shifting later children left.
func (t *Tree[T]) RemoveChild(nodeID NodeID, childIdx int) *Tree[T] {
	rec := t.arena.get(nodeID)
	newChildren := make([]NodeID, 0, len(rec.children)-1)
	newChildren = append(newChildren, rec.children[:childIdx]...)
	newChildren = append(newChildren, rec.children[childIdx+1:]...)

	newRoot := t.rebuildPath(nodeID, newChildren)
	return &Tree[T]{arena: t.arena, root: newRoot}
}
