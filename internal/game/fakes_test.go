package game

// testID builds a readable fixed handle for fakes.
func testID(n byte) EntityID {
	var id EntityID
	id[0] = n
	id[15] = n
	return id
}

// fakeWorld is a scripted SpatialQuery.
type fakeWorld struct {
	positions map[EntityID]Vec3
	colliders []Collider

	rayFn    func(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool)
	sampleFn func(p Vec3, maxDist float64) (NavHit, bool)
	edgeFn   func(p Vec3) (NavHit, bool)

	rays     int
	overlaps int
	samples  []Vec3
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{positions: make(map[EntityID]Vec3)}
}

func (f *fakeWorld) Raycast(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool) {
	f.rays++
	if f.rayFn == nil {
		return RayHit{}, false
	}
	return f.rayFn(origin, dir, maxDist, mask)
}

func (f *fakeWorld) OverlapSphere(center Vec3, radius float64, mask LayerMask, buf []Collider) int {
	f.overlaps++
	n := 0
	for _, c := range f.colliders {
		if n >= len(buf) {
			break
		}
		if !c.Layer.Has(mask) || planeDist(center, c.Position) > radius {
			continue
		}
		buf[n] = c
		n++
	}
	return n
}

func (f *fakeWorld) SamplePosition(p Vec3, maxDist float64) (NavHit, bool) {
	f.samples = append(f.samples, p)
	if f.sampleFn == nil {
		return NavHit{Position: p}, true
	}
	return f.sampleFn(p, maxDist)
}

func (f *fakeWorld) FindClosestEdge(p Vec3) (NavHit, bool) {
	if f.edgeFn == nil {
		return NavHit{}, false
	}
	return f.edgeFn(p)
}

func (f *fakeWorld) Locate(id EntityID) (Vec3, bool) {
	p, ok := f.positions[id]
	return p, ok
}

// seeTarget makes every ray hit id.
func (f *fakeWorld) seeTarget(id EntityID) {
	f.rayFn = func(origin, dir Vec3, maxDist float64, mask LayerMask) (RayHit, bool) {
		return RayHit{ID: id, Distance: planeDist(origin, f.positions[id])}, true
	}
}

// fakeAgent records destinations.
type fakeAgent struct {
	pos    Vec3
	height float64
	dests  []Vec3
	accept func(Vec3) bool
}

func (a *fakeAgent) Position() Vec3  { return a.pos }
func (a *fakeAgent) Height() float64 { return a.height }
func (a *fakeAgent) SetDestination(d Vec3) bool {
	if a.accept != nil && !a.accept(d) {
		return false
	}
	a.dests = append(a.dests, d)
	return true
}

// sightRecorder records sensor events in order.
type sightRecorder struct {
	events []string
}

func (r *sightRecorder) OnGainedSight(id EntityID) { r.events = append(r.events, "gained:"+id.Short()) }
func (r *sightRecorder) OnLostSight(id EntityID)   { r.events = append(r.events, "lost:"+id.Short()) }
