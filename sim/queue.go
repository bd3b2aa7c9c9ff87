// Implements the TruckQueue, which holds the ids of trucks waiting for an
// unloading bay. Trucks are enqueued when they leave their site.

package sim

import (
	"fmt"
	"strings"
)

// TruckQueue is a FIFO of truck ids waiting to unload at one station.
type TruckQueue struct {
	queue []EntityID
}

// Enqueue adds a truck to the back of the queue.
func (q *TruckQueue) Enqueue(id EntityID) {
	q.queue = append(q.queue, id)
}

func (q *TruckQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, id := range q.queue {
		sb.WriteString(fmt.Sprint(uint64(id)))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of waiting trucks.
func (q *TruckQueue) Len() int {
	return len(q.queue)
}

// Peek returns the truck at the front without removing it.
// Returns NoEntity if the queue is empty.
func (q *TruckQueue) Peek() EntityID {
	if len(q.queue) == 0 {
		return NoEntity
	}
	return q.queue[0]
}

// Items returns the queue contents in admission order.
// The returned slice is the queue's internal storage; callers MUST NOT
// modify it.
func (q *TruckQueue) Items() []EntityID {
	return q.queue
}

// Dequeue removes and returns the truck at the front of the queue.
// Returns NoEntity if the queue is empty.
func (q *TruckQueue) Dequeue() EntityID {
	if len(q.queue) == 0 {
		return NoEntity
	}
	id := q.queue[0]
	q.queue = q.queue[1:]
	return id
}
