package sim

import "fmt"

// LedgerKind names one in-flight leg of a truck's lifecycle.
type LedgerKind int

const (
	LedgerMovingToSite    LedgerKind = iota // truck → reserved site
	LedgerMining                            // truck → site being mined
	LedgerMovingToQueue                     // truck → station whose queue it is driving to
	LedgerPendingUnload                     // truck → station it is queued at
	LedgerMovingToStation                   // truck → station whose bay it is entering
	LedgerUnloading                         // truck → station it is unloading at
	numLedgers
)

var ledgerNames = [numLedgers]string{
	LedgerMovingToSite:    "moving_to_site",
	LedgerMining:          "mining",
	LedgerMovingToQueue:   "moving_to_queue",
	LedgerPendingUnload:   "pending_unload",
	LedgerMovingToStation: "moving_to_station",
	LedgerUnloading:       "unloading",
}

// LedgerKinds lists every ledger in lifecycle order.
var LedgerKinds = []LedgerKind{
	LedgerMovingToSite, LedgerMining, LedgerMovingToQueue,
	LedgerPendingUnload, LedgerMovingToStation, LedgerUnloading,
}

func (k LedgerKind) String() string {
	if k < 0 || k >= numLedgers {
		return "unknown"
	}
	return ledgerNames[k]
}

// Ledgers holds the pending-transition maps of the Orchestrator. Each maps a
// truck id to the site or station correlated with that leg.
//
// Invariant: a truck appears in at most one ledger. A truck in none of them
// is idle (or parked waiting for a site). Record panics on violation, since
// a double entry means the orchestrator has lost track of the truck.
type Ledgers struct {
	entries [numLedgers]map[EntityID]EntityID
}

// NewLedgers creates an empty set of ledgers.
func NewLedgers() *Ledgers {
	l := &Ledgers{}
	for i := range l.entries {
		l.entries[i] = make(map[EntityID]EntityID)
	}
	return l
}

// Lookup returns the entity correlated with truck in the given ledger.
func (l *Ledgers) Lookup(kind LedgerKind, truck EntityID) (EntityID, bool) {
	target, ok := l.entries[kind][truck]
	return target, ok
}

// Record adds truck to a ledger.
func (l *Ledgers) Record(kind LedgerKind, truck, target EntityID) {
	if current, ok := l.Where(truck); ok {
		panic(fmt.Sprintf("Ledgers.Record: truck %v already in %s, cannot enter %s", truck, current, kind))
	}
	l.entries[kind][truck] = target
}

// Remove deletes truck from a ledger. Removing an absent truck is a no-op.
func (l *Ledgers) Remove(kind LedgerKind, truck EntityID) {
	delete(l.entries[kind], truck)
}

// Transfer moves truck from one ledger to another, correlating it with target.
func (l *Ledgers) Transfer(from, to LedgerKind, truck, target EntityID) {
	l.Remove(from, truck)
	l.Record(to, truck, target)
}

// Where returns the ledger currently holding truck.
func (l *Ledgers) Where(truck EntityID) (LedgerKind, bool) {
	for kind := range l.entries {
		if _, ok := l.entries[kind][truck]; ok {
			return LedgerKind(kind), true
		}
	}
	return 0, false
}

// Occurrences counts the ledgers holding truck. Always 0 or 1 while the
// invariant holds.
func (l *Ledgers) Occurrences(truck EntityID) int {
	n := 0
	for kind := range l.entries {
		if _, ok := l.entries[kind][truck]; ok {
			n++
		}
	}
	return n
}

// Len returns the number of trucks in a ledger.
func (l *Ledgers) Len(kind LedgerKind) int {
	return len(l.entries[kind])
}

// Clear empties every ledger.
func (l *Ledgers) Clear() {
	for i := range l.entries {
		clear(l.entries[i])
	}
}
