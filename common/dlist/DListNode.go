package dlist

import "fmt"

// nilIdx marks an empty link or anchor.
const nilIdx int32 = -1

type idxLink struct {
	next int32
	prev int32
}

func (l *idxLink) init() {
	l.next = nilIdx
	l.prev = nilIdx
}

func (l *idxLink) empty() bool {
	return l.next == nilIdx && l.prev == nilIdx
}

func (l *idxLink) String() string {
	return fmt.Sprintf("prev: %v, next: %v", l.prev, l.next)
}

// Node is one arena slot. While linked, link points at its chain neighbours;
// while on the free list, link.next chains free slots and link.prev is nilIdx.
type Node[T comparable] struct {
	link  idxLink
	Value T
	used  bool
}

func (n *Node[T]) reset() {
	var zero T
	n.Value = zero
	n.used = false
	n.link.init()
}

func (n *Node[T]) String() string {
	return fmt.Sprintf("value: %v, used: %v, link: {%v}", n.Value, n.used, &n.link)
}
