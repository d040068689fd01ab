package game

import (
	"io"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
)

// rect is an obstacle footprint on the ground plane: min corner plus size.
type rect struct {
	x, z float64
	w, d float64
}

func (r rect) center() Vec3 { return V3(r.x+r.w/2, r.z+r.d/2) }

// worldEntity is anything with a collision shape.
type worldEntity struct {
	id     EntityID
	name   string
	layer  LayerMask
	height float64
	pos    Vec3
	foot   rect    // obstacles only
	radius float64 // actors only
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

// Obstacle is a read-only view of a static box.
type Obstacle struct {
	ID     EntityID
	Name   string
	Center Vec3
	Width  float64 // along X
	Depth  float64 // along Z
	Height float64
	Layer  LayerMask
}

// Actor is a read-only view of a moving circle.
type Actor struct {
	ID       EntityID
	Name     string
	Position Vec3
	Radius   float64
	Height   float64
	Layer    LayerMask
}

// World is the arena: obstacle and actor shapes in a collision space, the
// navigable surface derived from them, and proximity triggers. It is the
// SpatialQuery implementation used by sensors and planners.
type World struct {
	width, depth float64
	space        *cp.Space
	entities     map[EntityID]*worldEntity
	obstacles    []*worldEntity
	actors       []*worldEntity
	triggers     []*ProximityTrigger
	nav          *NavGrid
	ids          io.Reader
}

// NewWorld creates an empty arena of width (X) by depth (Z) meters. ids
// seeds entity handles; nil uses crypto randomness.
func NewWorld(width, depth float64, ids io.Reader) *World {
	return &World{
		width:    width,
		depth:    depth,
		space:    cp.NewSpace(),
		entities: make(map[EntityID]*worldEntity),
		ids:      ids,
	}
}

// Size returns the arena dimensions.
func (w *World) Size() (width, depth float64) { return w.width, w.depth }

func shapeFilter(layer LayerMask) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES)
}

func queryFilter(mask LayerMask) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// AddObstacle places a static box centered at center. The nav grid is not
// rebuilt; call BuildNavGrid once the arena is laid out.
func (w *World) AddObstacle(name string, center Vec3, width, depth, height float64, layer LayerMask) EntityID {
	foot := rect{x: center.X() - width/2, z: center.Z() - depth/2, w: width, d: depth}
	e := &worldEntity{
		id:     newEntityID(w.ids),
		name:   name,
		layer:  layer,
		height: height,
		pos:    foot.center(),
		foot:   foot,
		static: true,
	}
	bb := cp.BB{L: foot.x, B: foot.z, R: foot.x + foot.w, T: foot.z + foot.d}
	e.shape = cp.NewBox2(w.space.StaticBody, bb, 0)
	e.shape.SetFilter(shapeFilter(layer))
	e.shape.UserData = e
	w.space.AddShape(e.shape)

	w.entities[e.id] = e
	w.obstacles = append(w.obstacles, e)
	return e.id
}

// AddActor places a kinematic circle that can be moved with MoveActor.
func (w *World) AddActor(name string, pos Vec3, radius, height float64, layer LayerMask) EntityID {
	e := &worldEntity{
		id:     newEntityID(w.ids),
		name:   name,
		layer:  layer,
		height: height,
		pos:    V3(pos.X(), pos.Z()),
		radius: radius,
	}
	e.body = w.space.AddBody(cp.NewKinematicBody())
	e.body.SetPosition(flat(e.pos))
	e.shape = cp.NewCircle(e.body, radius, cp.Vector{})
	e.shape.SetFilter(shapeFilter(layer))
	e.shape.UserData = e
	w.space.AddShape(e.shape)

	w.entities[e.id] = e
	w.actors = append(w.actors, e)
	return e.id
}

// MoveActor teleports an actor. The shape is taken out of the space and
// put back so the dynamic index caches its new bounds before any query;
// the space is never stepped.
func (w *World) MoveActor(id EntityID, pos Vec3) {
	e, ok := w.entities[id]
	if !ok || e.static {
		return
	}
	e.pos = V3(pos.X(), pos.Z())
	w.space.RemoveShape(e.shape)
	e.body.SetPosition(flat(e.pos))
	w.space.AddShape(e.shape)
}

// Name returns the display name of an entity, or "" when unknown.
func (w *World) Name(id EntityID) string {
	if e, ok := w.entities[id]; ok {
		return e.name
	}
	return ""
}

// Locate resolves a handle to its current ground position.
func (w *World) Locate(id EntityID) (Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return Vec3{}, false
	}
	return e.pos, true
}

// Obstacles lists static boxes in insertion order.
func (w *World) Obstacles() []Obstacle {
	out := make([]Obstacle, 0, len(w.obstacles))
	for _, e := range w.obstacles {
		out = append(out, Obstacle{
			ID:     e.id,
			Name:   e.name,
			Center: e.pos,
			Width:  e.foot.w,
			Depth:  e.foot.d,
			Height: e.height,
			Layer:  e.layer,
		})
	}
	return out
}

// Actors lists moving circles in insertion order.
func (w *World) Actors() []Actor {
	out := make([]Actor, 0, len(w.actors))
	for _, e := range w.actors {
		out = append(out, Actor{
			ID:       e.id,
			Name:     e.name,
			Position: e.pos,
			Radius:   e.radius,
			Height:   e.height,
			Layer:    e.layer,
		})
	}
	return out
}

// BuildNavGrid (re)derives the navigable surface from current obstacles,
// padded by agentRadius so paths keep clearance.
func (w *World) BuildNavGrid(cellSize, agentRadius float64) *NavGrid {
	foots := make([]rect, 0, len(w.obstacles))
	for _, e := range w.obstacles {
		foots = append(foots, e.foot)
	}
	w.nav = NewNavGrid(w.width, w.depth, cellSize, foots, agentRadius)
	return w.nav
}

// NavGrid returns the current navigable surface, or nil before BuildNavGrid.
func (w *World) NavGrid() *NavGrid { return w.nav }

// segHit is one shape crossed by a segment query.
type segHit struct {
	e     *worldEntity
	alpha float64
}

// Raycast returns the first shape on mask along the ray whose vertical
// extent contains the ray at the crossing point. Shapes the ray passes over
// or under are ignored.
func (w *World) Raycast(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool) {
	end := origin.Add(dir.Mul(maxDist))
	a, b := flat(origin), flat(end)
	if a.Distance(b) < 1e-9 {
		return RayHit{}, false
	}

	var hits []segHit
	w.space.SegmentQuery(a, b, 0, queryFilter(mask), func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if e, ok := shape.UserData.(*worldEntity); ok {
			hits = append(hits, segHit{e: e, alpha: alpha})
		}
	}, nil)
	sort.Slice(hits, func(i, j int) bool { return hits[i].alpha < hits[j].alpha })

	for _, h := range hits {
		p := origin.Add(end.Sub(origin).Mul(h.alpha))
		if p.Y() < 0 || p.Y() > h.e.height {
			continue
		}
		return RayHit{ID: h.e.id, Name: h.e.name, Point: p, Distance: maxDist * h.alpha}, true
	}
	return RayHit{}, false
}

// OverlapSphere writes every collider on mask within radius of center into
// buf, in the collision index's order. It stops writing once buf is full.
// A shape counts when its nearest surface point is within radius, or when
// center is inside it.
func (w *World) OverlapSphere(center Vec3, radius float64, mask LayerMask, buf []Collider) int {
	n := 0
	p := flat(center)
	w.space.BBQuery(cp.NewBBForCircle(p, radius), queryFilter(mask), func(shape *cp.Shape, _ interface{}) {
		if n >= len(buf) {
			return
		}
		e, ok := shape.UserData.(*worldEntity)
		if !ok || shape.PointQuery(p).Distance > radius {
			return
		}
		buf[n] = Collider{ID: e.id, Name: e.name, Position: e.pos, Height: e.height, Layer: e.layer}
		n++
	}, nil)
	return n
}

// SamplePosition delegates to the nav grid.
func (w *World) SamplePosition(p Vec3, maxDist float64) (NavHit, bool) {
	if w.nav == nil {
		return NavHit{}, false
	}
	return w.nav.SamplePosition(p, maxDist)
}

// FindClosestEdge delegates to the nav grid.
func (w *World) FindClosestEdge(p Vec3) (NavHit, bool) {
	if w.nav == nil {
		return NavHit{}, false
	}
	return w.nav.FindClosestEdge(p)
}

// ProximityTrigger is a sphere volume that follows its owner and reports
// entities entering and leaving it.
type ProximityTrigger struct {
	owner   EntityID
	radius  float64
	mask    LayerMask
	inside  []EntityID // insertion ordered for deterministic exits
	scratch []Collider
	onEnter func(EntityID)
	onExit  func(EntityID)
}

// Inside returns the entities currently in the volume.
func (t *ProximityTrigger) Inside() []EntityID { return t.inside }

// AddTrigger attaches a sphere trigger to owner. The owner itself never
// triggers it.
func (w *World) AddTrigger(owner EntityID, radius float64, mask LayerMask, onEnter, onExit func(EntityID)) *ProximityTrigger {
	t := &ProximityTrigger{
		owner:   owner,
		radius:  radius,
		mask:    mask,
		scratch: make([]Collider, 16),
		onEnter: onEnter,
		onExit:  onExit,
	}
	w.triggers = append(w.triggers, t)
	return t
}

// UpdateTriggers evaluates every trigger against current positions and fires
// exits before enters.
func (w *World) UpdateTriggers() {
	for _, t := range w.triggers {
		center, ok := w.Locate(t.owner)
		if !ok {
			continue
		}
		n := w.OverlapSphere(center, t.radius, t.mask, t.scratch)
		now := make([]EntityID, 0, n)
		for _, c := range t.scratch[:n] {
			if c.ID != t.owner {
				now = append(now, c.ID)
			}
		}

		kept := t.inside[:0]
		var exited []EntityID
		for _, id := range t.inside {
			if containsID(now, id) {
				kept = append(kept, id)
			} else {
				exited = append(exited, id)
			}
		}
		t.inside = kept
		for _, id := range exited {
			if t.onExit != nil {
				t.onExit(id)
			}
		}
		for _, id := range now {
			if containsID(t.inside, id) {
				continue
			}
			t.inside = append(t.inside, id)
			if t.onEnter != nil {
				t.onEnter(id)
			}
		}
	}
}

// ResetTriggers forgets who is inside every trigger without firing events.
func (w *World) ResetTriggers() {
	for _, t := range w.triggers {
		t.inside = t.inside[:0]
	}
}

func containsID(ids []EntityID, id EntityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// clampToArena keeps a point inside the arena bounds.
func (w *World) clampToArena(p Vec3) Vec3 {
	return Vec3{
		math.Max(0, math.Min(w.width, p.X())),
		p.Y(),
		math.Max(0, math.Min(w.depth, p.Z())),
	}
}
