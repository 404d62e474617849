package sched

import "github.com/emirpasic/gods/trees/redblacktree"

// queueKey orders a queue by one instant; seq makes keys unique and breaks
// ties in insertion order.
type queueKey struct {
	at  int64
	seq uint64
}

// compareKeys implements the Comparator for the red-black tree.
func compareKeys(a, b any) int {
	ka, kb := a.(queueKey), b.(queueKey)
	switch {
	case ka.at < kb.at:
		return -1
	case ka.at > kb.at:
		return 1
	case ka.seq < kb.seq:
		return -1
	case ka.seq > kb.seq:
		return 1
	default:
		return 0
	}
}

// edfQueue is a min-queue of task states keyed by one of their instants.
type edfQueue struct {
	tree  *redblacktree.Tree
	seq   uint64
	order func(*edfState) int64
}

// newWaitingQueue orders by ascending release time.
func newWaitingQueue() *edfQueue {
	return &edfQueue{
		tree:  redblacktree.NewWith(compareKeys),
		order: func(s *edfState) int64 { return s.releaseTime },
	}
}

// newReadyQueue orders by ascending absolute deadline.
func newReadyQueue() *edfQueue {
	return &edfQueue{
		tree:  redblacktree.NewWith(compareKeys),
		order: func(s *edfState) int64 { return s.absDeadline },
	}
}

func (q *edfQueue) push(s *edfState) {
	q.seq++
	s.key = queueKey{at: q.order(s), seq: q.seq}
	s.queue = q
	q.tree.Put(s.key, s)
}

func (q *edfQueue) peek() *edfState {
	node := q.tree.Left()
	if node == nil {
		return nil
	}
	return node.Value.(*edfState)
}

func (q *edfQueue) pop() *edfState {
	s := q.peek()
	if s != nil {
		q.remove(s)
	}
	return s
}

func (q *edfQueue) remove(s *edfState) {
	q.tree.Remove(s.key)
	s.queue = nil
}

func (q *edfQueue) len() int { return q.tree.Size() }

// tasks lists the queued tasks in queue order.
func (q *edfQueue) tasks() []*Task {
	out := make([]*Task, 0, q.tree.Size())
	it := q.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(*edfState).task)
	}
	return out
}
