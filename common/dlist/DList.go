// Package dlist implements a generic doubly linked list whose nodes live in
// an index-addressed arena. Links are int32 slot indexes, released slots are
// chained on a free list and reused by later inserts.
//
// The list keeps no element count: Len and every positional operation walk
// the chain from the first node. A List is not safe for concurrent use.
package dlist

import (
	"math"

	"github.com/Qthai16/go-dlist/utils"
	"github.com/pkg/errors"
)

var (
	ErrOutOfRange = errors.New("index out of range")
)

type (
	// TraverseFn is called once per value; returning false stops the walk.
	TraverseFn[T comparable] func(value T) bool

	List[T comparable] struct {
		nodes []Node[T]
		first int32
		last  int32
		free  int32 // head of the free slot chain
	}
)

func New[T comparable]() *List[T] {
	return NewWithCap[T](0)
}

// NewWithCap preallocates room for capacity nodes.
func NewWithCap[T comparable](capacity int) *List[T] {
	l := &List[T]{}
	l.init(capacity)
	return l
}

func (l *List[T]) init(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	l.nodes = make([]Node[T], 0, capacity)
	l.first = nilIdx
	l.last = nilIdx
	l.free = nilIdx
}

// lazyInit makes the zero List usable.
func (l *List[T]) lazyInit() {
	if l.nodes == nil {
		l.init(0)
	}
}

// alloc takes a slot from the free list, or grows the arena. Growing the
// arena moves every node, so pointers returned by At are invalid afterwards.
func (l *List[T]) alloc(v T) int32 {
	if l.free != nilIdx {
		idx := l.free
		n := &l.nodes[idx]
		l.free = n.link.next
		n.link.init()
		n.Value = v
		n.used = true
		return idx
	}
	if len(l.nodes) >= math.MaxInt32 {
		panic("dlist: arena is full")
	}
	l.nodes = append(l.nodes, Node[T]{
		link:  idxLink{next: nilIdx, prev: nilIdx},
		Value: v,
		used:  true,
	})
	return int32(len(l.nodes) - 1)
}

// release zeroes an unlinked slot and pushes it on the free list.
func (l *List[T]) release(idx int32) {
	n := &l.nodes[idx]
	n.reset()
	n.link.next = l.free
	l.free = idx
}

// linkAfter links idx right after at. at == nilIdx links idx as the first node.
func (l *List[T]) linkAfter(idx, at int32) {
	next := l.first
	if at != nilIdx {
		next = l.nodes[at].link.next
	}
	n := &l.nodes[idx]
	n.link.prev = at
	n.link.next = next
	if at == nilIdx {
		l.first = idx
	} else {
		l.nodes[at].link.next = idx
	}
	if next == nilIdx {
		l.last = idx
	} else {
		l.nodes[next].link.prev = idx
	}
}

// unlink connects the neighbours of idx to each other, moves the anchors if
// idx was one of them, then releases idx with both links cleared.
func (l *List[T]) unlink(idx int32) {
	n := &l.nodes[idx]
	prev, next := n.link.prev, n.link.next
	if prev == nilIdx {
		l.first = next
	} else {
		l.nodes[prev].link.next = next
	}
	if next == nilIdx {
		l.last = prev
	} else {
		l.nodes[next].link.prev = prev
	}
	l.release(idx)
}

// locate walks index links from the first node.
func (l *List[T]) locate(index int) (int32, error) {
	if index < 0 {
		return nilIdx, errors.Wrapf(ErrOutOfRange, "negative index %d", index)
	}
	idx := l.first
	i := 0
	for ; i < index && idx != nilIdx; i++ {
		idx = l.nodes[idx].link.next
	}
	if idx == nilIdx {
		return nilIdx, errors.Wrapf(ErrOutOfRange, "index %d, length %d", index, i)
	}
	return idx, nil
}

func (l *List[T]) IsEmpty() bool {
	return l.first == nilIdx || l.nodes == nil
}

// Len counts the nodes by walking the chain.
func (l *List[T]) Len() int {
	l.lazyInit()
	cnt := 0
	for idx := l.first; idx != nilIdx; idx = l.nodes[idx].link.next {
		cnt++
	}
	return cnt
}

func (l *List[T]) PushFront(v T) {
	l.lazyInit()
	l.linkAfter(l.alloc(v), nilIdx)
}

func (l *List[T]) PushBack(v T) {
	l.lazyInit()
	l.linkAfter(l.alloc(v), l.last)
}

// DeleteFirst removes the first node. On an empty list it only logs.
func (l *List[T]) DeleteFirst() {
	if l.IsEmpty() {
		utils.LogWarn("[dlist] delete first: list is already empty")
		return
	}
	l.unlink(l.first)
}

// DeleteLast removes the last node. On an empty list it only logs.
func (l *List[T]) DeleteLast() {
	if l.IsEmpty() {
		utils.LogWarn("[dlist] delete last: list is already empty")
		return
	}
	l.unlink(l.last)
}

// Get returns a copy of the value at index. The error matches ErrOutOfRange
// for negative indexes and indexes at or past the end.
func (l *List[T]) Get(index int) (T, error) {
	l.lazyInit()
	idx, err := l.locate(index)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.nodes[idx].Value, nil
}

// At returns a pointer to the value stored at index, so callers can write
// through it. The pointer is only valid until the next structural change of
// the list (push, insert, delete, remove, clear).
func (l *List[T]) At(index int) (*T, error) {
	l.lazyInit()
	idx, err := l.locate(index)
	if err != nil {
		return nil, err
	}
	return &l.nodes[idx].Value, nil
}

// Insert places v so that it becomes the value at index. Valid indexes are
// 0 through Len(); anything else returns ErrOutOfRange and leaves the list
// untouched.
func (l *List[T]) Insert(index int, v T) error {
	l.lazyInit()
	if index < 0 {
		return errors.Wrapf(ErrOutOfRange, "insert at negative index %d", index)
	}
	if index == 0 {
		l.linkAfter(l.alloc(v), nilIdx)
		return nil
	}
	at, err := l.locate(index - 1)
	if err != nil {
		return errors.Wrapf(ErrOutOfRange, "insert at %d past the end", index)
	}
	l.linkAfter(l.alloc(v), at)
	return nil
}

// Remove deletes the node at index. Indexes that do not exist are ignored.
func (l *List[T]) Remove(index int) {
	if l.IsEmpty() || index < 0 {
		return
	}
	idx, err := l.locate(index)
	if err != nil {
		return
	}
	l.unlink(idx)
}

// RemoveAllInstances unlinks every node holding v in one pass over the list
// and returns how many were removed.
func (l *List[T]) RemoveAllInstances(v T) (removed int) {
	if l.IsEmpty() {
		return 0
	}
	for idx := l.first; idx != nilIdx; {
		n := &l.nodes[idx]
		next := n.link.next
		if n.Value == v {
			l.unlink(idx)
			removed++
		}
		idx = next
	}
	return removed
}

// Clear releases every node exactly once, walking from the first one. The
// arena keeps its capacity for reuse.
func (l *List[T]) Clear() {
	l.lazyInit()
	for idx := l.first; idx != nilIdx; {
		next := l.nodes[idx].link.next
		l.release(idx)
		idx = next
	}
	l.first = nilIdx
	l.last = nilIdx
}

// Traverse walks first to last and returns the number of values visited.
func (l *List[T]) Traverse(fn TraverseFn[T]) (cnt int) {
	l.lazyInit()
	for idx := l.first; idx != nilIdx; idx = l.nodes[idx].link.next {
		cnt++
		if !fn(l.nodes[idx].Value) {
			break
		}
	}
	return cnt
}

// RTraverse walks last to first.
func (l *List[T]) RTraverse(fn TraverseFn[T]) (cnt int) {
	l.lazyInit()
	for idx := l.last; idx != nilIdx; idx = l.nodes[idx].link.prev {
		cnt++
		if !fn(l.nodes[idx].Value) {
			break
		}
	}
	return cnt
}

func (l *List[T]) Values() []T {
	ret := make([]T, 0)
	l.Traverse(func(v T) bool {
		ret = append(ret, v)
		return true
	})
	return ret
}
