package sim

import (
	"fmt"

	"github.com/inference-sim/haul-sim/sim/geometry"
)

// EntityID identifies a simulated object. Ids are allocated monotonically
// starting at 1 and are never reused; 0 means "no entity".
type EntityID uint64

// NoEntity is the zero EntityID.
const NoEntity EntityID = 0

func (id EntityID) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// Entity is the identity and location shared by trucks, sites and stations.
type Entity struct {
	id       EntityID
	location geometry.Vector
}

// ID returns the entity's unique id.
func (e *Entity) ID() EntityID { return e.id }

// Location returns the entity's current position.
func (e *Entity) Location() geometry.Vector { return e.location }

// SetLocation moves the entity.
func (e *Entity) SetLocation(v geometry.Vector) { e.location = v }

// IDAllocator hands out EntityIDs. The zero value is ready to use.
type IDAllocator struct {
	last EntityID
}

// Next returns a fresh id.
func (a *IDAllocator) Next() EntityID {
	a.last++
	return a.last
}

// Last returns the most recently allocated id (0 if none).
func (a *IDAllocator) Last() EntityID { return a.last }
