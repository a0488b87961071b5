package lr

import (
	"strconv"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(0) item: a rule together with a dot position 0 ≤ dot ≤ len(RHS).
// Items are small values and are compared by value.
type Item struct {
	Rule int // serial of the rule
	Dot  int // position of the dot within the RHS
}

// StartItem returns the item for rule r with the dot at position 0.
func StartItem(r *Rule) Item {
	return Item{Rule: r.Serial}
}

// PeekSymbol returns the symbol after the dot, or nil if the dot is at the end.
func (i Item) PeekSymbol(g *Grammar) *Symbol {
	r := g.rules[i.Rule]
	if i.Dot >= len(r.RHS) {
		return nil
	}
	return r.RHS[i.Dot]
}

// Advance returns the item with the dot moved over one symbol.
func (i Item) Advance() Item {
	return Item{Rule: i.Rule, Dot: i.Dot + 1}
}

// IsComplete is true if the dot is at the end of the rule.
func (i Item) IsComplete(g *Grammar) bool {
	return i.Dot >= len(g.rules[i.Rule].RHS)
}

// ItemString returns a string representation of an item, e.g. "[E] ::= [E • "+" E]".
func (i Item) ItemString(g *Grammar) string {
	r := g.rules[i.Rule]
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.LHS.Name)
	b.WriteString("] ::= [")
	for k, A := range r.RHS {
		if k == i.Dot {
			b.WriteString("• ")
		}
		b.WriteString(A.String())
		if k < len(r.RHS)-1 {
			b.WriteString(" ")
		}
	}
	if i.Dot >= len(r.RHS) {
		if len(r.RHS) > 0 {
			b.WriteString(" ")
		}
		b.WriteString("•")
	}
	b.WriteString("]")
	return b.String()
}

// We need this for sets of items. It sorts items by rule, then by dot.
func itemComparator(i1, i2 interface{}) int {
	a, b := i1.(Item), i2.(Item)
	if c := utils.IntComparator(a.Rule, b.Rule); c != 0 {
		return c
	}
	return utils.IntComparator(a.Dot, b.Dot)
}

func newItemSet() *treeset.Set {
	return treeset.NewWith(itemComparator)
}

// itemSetKey returns a canonical string for an item set. Two sets have the
// same key iff they contain the same items.
func itemSetKey(iset *treeset.Set) string {
	var b strings.Builder
	it := iset.Iterator()
	for it.Next() {
		i := it.Value().(Item)
		b.WriteString(strconv.Itoa(i.Rule))
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(i.Dot))
		b.WriteByte(' ')
	}
	return b.String()
}

func asItem(x interface{}) Item {
	return x.(Item)
}

// Dump is a debugging helper for item sets.
func dumpItems(g *Grammar, iset *treeset.Set) {
	for _, x := range iset.Values() {
		tracer().Debugf("   %s", asItem(x).ItemString(g))
	}
}
