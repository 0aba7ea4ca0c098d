// SPDX-License-Identifier: MIT
package markov

import "sort"

// Classes returns the communicating classes of the chain: the strongly
// connected components of the support graph i→j where P[i,j] > 0.
//
// Implementation:
//   - Stage 1: Tarjan's algorithm, roots visited in ascending index order.
//   - Stage 2: a class is Closed when no member has positive probability of
//     moving outside it.
//   - Stage 3: classes sorted by their smallest member for deterministic output.
//
// Complexity: Time O(n^2) on the dense support, Space O(n).
func (c *Chain) Classes() []Class {
	comp := c.components()

	classes := make([]Class, 0, len(comp))
	owner := make([]int, c.Size())
	for ci, members := range comp {
		sort.Ints(members)
		for _, v := range members {
			owner[v] = ci
		}
	}
	for ci, members := range comp {
		closed := true
		for _, i := range members {
			for j := 0; j < c.Size() && closed; j++ {
				if v, _ := c.p.At(i, j); v > 0 && owner[j] != ci {
					closed = false
				}
			}
		}
		classes = append(classes, Class{States: members, Closed: closed})
	}
	sort.Slice(classes, func(a, b int) bool {
		return classes[a].States[0] < classes[b].States[0]
	})

	return classes
}

// Classify labels every state Absorbing, Recurrent or Transient.
// A state in a closed singleton class is Absorbing, in any other closed
// class Recurrent, and in an open class Transient.
func (c *Chain) Classify() []StateKind {
	kinds := make([]StateKind, c.Size())
	for _, cl := range c.Classes() {
		kind := Transient
		switch {
		case cl.Closed && len(cl.States) == 1:
			kind = Absorbing
		case cl.Closed:
			kind = Recurrent
		}
		for _, s := range cl.States {
			kinds[s] = kind
		}
	}

	return kinds
}

// tarjan holds the traversal state for one Classes call.
type tarjan struct {
	c       *Chain
	counter int
	index   []int // discovery order, -1 = unvisited
	low     []int
	onStack []bool
	stack   []int
	comps   [][]int
}

// components runs Tarjan's SCC algorithm over the support graph of P.
func (c *Chain) components() [][]int {
	n := c.Size()
	t := &tarjan{
		c:       c,
		index:   make([]int, n),
		low:     make([]int, n),
		onStack: make([]bool, n),
		stack:   make([]int, 0, n),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for v := 0; v < n; v++ {
		if t.index[v] < 0 {
			t.visit(v)
		}
	}

	return t.comps
}

func (t *tarjan) visit(v int) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for w := 0; w < t.c.Size(); w++ {
		if p, _ := t.c.p.At(v, w); p <= 0 {
			continue
		}
		switch {
		case t.index[w] < 0:
			t.visit(w)
			t.low[v] = min(t.low[v], t.low[w])
		case t.onStack[w]:
			t.low[v] = min(t.low[v], t.index[w])
		}
	}

	if t.low[v] == t.index[v] {
		var comp []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.comps = append(t.comps, comp)
	}
}
