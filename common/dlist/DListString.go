package dlist

import (
	"fmt"

	"github.com/Qthai16/go-dlist/common/pool"
)

// EmptyListText is what both renderers return for a list with no nodes.
const EmptyListText = "The list is empty."

// ForwardString renders the values first to last, separated by one space.
func (l *List[T]) ForwardString() string {
	l.lazyInit()
	return l.render(l.first, true)
}

// BackwardString renders the values last to first.
func (l *List[T]) BackwardString() string {
	l.lazyInit()
	return l.render(l.last, false)
}

func (l *List[T]) String() string {
	return l.ForwardString()
}

func (l *List[T]) render(start int32, forward bool) string {
	if start == nilIdx {
		return EmptyListText
	}
	buf := pool.BufferPool.Get()
	defer pool.BufferPool.Put(&buf)
	for idx := start; idx != nilIdx; {
		n := &l.nodes[idx]
		if idx != start {
			buf.WriteByte(' ')
		}
		fmt.Fprint(buf, n.Value)
		if forward {
			idx = n.link.next
		} else {
			idx = n.link.prev
		}
	}
	return buf.String()
}

// debugString dumps the arena, one slot per line.
func (l *List[T]) debugString() string {
	s := fmt.Sprintf("first: %v, last: %v, free: %v\n", l.first, l.last, l.free)
	for i := range l.nodes {
		s += fmt.Sprintf("[%v] %v\n", i, &l.nodes[i])
	}
	return s
}
