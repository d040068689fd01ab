package game

// Collider is one shape returned by an overlap query.
type Collider struct {
	ID       EntityID
	Name     string
	Position Vec3    // footprint center at ground level
	Height   float64 // top of the shape above ground
	Layer    LayerMask
}

// RayHit is the first shape a ray touched.
type RayHit struct {
	ID       EntityID
	Name     string
	Point    Vec3
	Distance float64
}

// NavHit is a point on (or on the boundary of) the navigable surface.
type NavHit struct {
	Position Vec3
	Normal   Vec3 // zero for sampled points; points into walkable space for edges
	Distance float64
}

// SpatialQuery is everything the sensor and planner need from the world.
// All calls are synchronous lookups; none of them block.
type SpatialQuery interface {
	// Raycast returns the first shape on mask hit by the ray from origin
	// along dir (unit vector) within maxDist.
	Raycast(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool)
	// OverlapSphere writes colliders on mask within radius of center into
	// buf and returns how many it wrote. Hits past len(buf) are dropped.
	OverlapSphere(center Vec3, radius float64, mask LayerMask, buf []Collider) int
	// SamplePosition finds the nearest navigable point within maxDist of p.
	SamplePosition(p Vec3, maxDist float64) (NavHit, bool)
	// FindClosestEdge finds the navigable-surface boundary nearest to p.
	FindClosestEdge(p Vec3) (NavHit, bool)
	// Locate resolves a handle to its current position.
	Locate(id EntityID) (Vec3, bool)
}

// PathAgent accepts destinations and walks there on its own.
type PathAgent interface {
	Position() Vec3
	Height() float64
	SetDestination(dest Vec3) bool
}
