package glr

import (
	"fmt"

	"github.com/npillmayer/parsejoy/lr/sppf"
)

// Head is a stack head of the GLR stack graph: a state of the automaton at an
// input offset. Ancestors link a head to its predecessors, each link labeled
// with the semantic value of the transition.
//
// Heads are kept in an arena owned by a parse run; Parent fields of ancestors
// are indices into this arena (see Result.Head).
type Head struct {
	ID        int
	State     int
	Offset    int
	Ancestors []Ancestor
	links     map[Ancestor]struct{}
	byParent  map[int]*sppf.Value // first value per parent
}

// Ancestor is a link to a preceding head.
type Ancestor struct {
	Value  *sppf.Value
	Parent int
}

func (h *Head) String() string {
	return fmt.Sprintf("(head %d: state %d @ %d, %d ancestors)", h.ID, h.State, h.Offset, len(h.Ancestors))
}

type headKey struct {
	state, offset int
}

// head returns the head for (state, offset), creating it if necessary.
func (r *run) head(state, offset int) (int, bool) {
	key := headKey{state: state, offset: offset}
	if id, ok := r.index[key]; ok {
		return id, false
	}
	h := &Head{
		ID:       len(r.heads),
		State:    state,
		Offset:   offset,
		links:    make(map[Ancestor]struct{}),
		byParent: make(map[int]*sppf.Value),
	}
	r.heads = append(r.heads, h)
	r.index[key] = h.ID
	return h.ID, true
}

// link adds an ancestor to a head, unless an identical one is present.
// It returns true if the head gained a new ancestor. A different value for an
// already linked parent is kept as a competing interpretation.
func (r *run) link(id int, v *sppf.Value, parent int) bool {
	h := r.heads[id]
	anc := Ancestor{Value: v, Parent: parent}
	if _, ok := h.links[anc]; ok {
		return false
	}
	h.links[anc] = struct{}{}
	h.Ancestors = append(h.Ancestors, anc)
	if first, ok := h.byParent[parent]; ok {
		r.ambiguous(h, first, v)
	} else {
		h.byParent[parent] = v
	}
	return true
}

type path struct {
	root   int           // head at the start of the path
	values []*sppf.Value // values along the path, in derivation order
}

// paths enumerates all paths of length n leading backwards from head id.
func (r *run) paths(id int, n int) []path {
	type partial struct {
		head   int
		values []*sppf.Value // collected backwards
	}
	var result []path
	stack := []partial{{head: id}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(p.values) == n {
			values := make([]*sppf.Value, n)
			for k, v := range p.values {
				values[n-1-k] = v
			}
			result = append(result, path{root: p.head, values: values})
			continue
		}
		h := r.heads[p.head]
		if len(h.Ancestors) == 0 {
			panic(fmt.Sprintf("stack graph too shallow for reduction of length %d at %v", n, r.heads[id]))
		}
		for k := len(h.Ancestors) - 1; k >= 0; k-- {
			anc := h.Ancestors[k]
			values := make([]*sppf.Value, len(p.values), len(p.values)+1)
			copy(values, p.values)
			stack = append(stack, partial{head: anc.Parent, values: append(values, anc.Value)})
		}
	}
	return result
}
