package game

import (
	"container/heap"
	"math"

	"github.com/dhconnelly/rtreego"
)

// defaultCellSize is the nav grid resolution in meters.
const defaultCellSize = 0.5

// edgeEps keeps degenerate edge bounds non-empty for the index.
const edgeEps = 1e-6

// NavGrid is a walkability grid over the arena where true = blocked, plus
// an index of the boundary between walkable and blocked cells.
type NavGrid struct {
	cols    int
	rows    int
	cell    float64
	blocked []bool
	edges   *rtreego.Rtree
	nEdges  int
}

// navEdge is one cell side on the walkable boundary. normal points into the
// walkable cell, away from whatever blocks the other side.
type navEdge struct {
	a, b   Vec3
	normal Vec3
	bounds rtreego.Rect
}

func (e *navEdge) Bounds() rtreego.Rect { return e.bounds }

// closest returns the point on the edge nearest to p and its plane distance.
func (e *navEdge) closest(p Vec3) (Vec3, float64) {
	ab := e.b.Sub(e.a)
	l2 := ab.Dot(ab)
	t := 0.0
	if l2 > 0 {
		t = math.Max(0, math.Min(1, Vec3{p.X(), 0, p.Z()}.Sub(e.a).Dot(ab)/l2))
	}
	q := e.a.Add(ab.Mul(t))
	return q, planeDist(q, p)
}

// NewNavGrid builds a walkability grid for a width x depth arena. Each cell
// that overlaps an obstacle footprint (grown by pad for agent clearance) is
// blocked.
func NewNavGrid(width, depth, cell float64, obstacles []rect, pad float64) *NavGrid {
	if cell <= 0 {
		cell = defaultCellSize
	}
	cols := int(width / cell)
	rows := int(depth / cell)
	ng := &NavGrid{
		cols:    cols,
		rows:    rows,
		cell:    cell,
		blocked: make([]bool, cols*rows),
	}

	for _, r := range obstacles {
		x0 := r.x - pad
		z0 := r.z - pad
		x1 := r.x + r.w + pad
		z1 := r.z + r.d + pad

		cMinX := max(0, int(math.Floor(x0/cell)))
		cMinZ := max(0, int(math.Floor(z0/cell)))
		cMaxX := min(cols-1, int(math.Ceil(x1/cell))-1)
		cMaxZ := min(rows-1, int(math.Ceil(z1/cell))-1)

		for cz := cMinZ; cz <= cMaxZ; cz++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				ng.blocked[cz*cols+cx] = true
			}
		}
	}
	ng.buildEdges()
	return ng
}

// Size returns the grid dimensions in cells.
func (ng *NavGrid) Size() (cols, rows int) { return ng.cols, ng.rows }

// CellSize returns the side of one cell in meters.
func (ng *NavGrid) CellSize() float64 { return ng.cell }

// EdgeCount returns how many boundary edges are indexed.
func (ng *NavGrid) EdgeCount() int { return ng.nEdges }

// IsBlocked returns true if the cell at (cx, cz) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cz int) bool {
	if cx < 0 || cz < 0 || cx >= ng.cols || cz >= ng.rows {
		return true
	}
	return ng.blocked[cz*ng.cols+cx]
}

// Walkable reports whether the cell under p is walkable.
func (ng *NavGrid) Walkable(p Vec3) bool {
	cx, cz := ng.WorldToCell(p)
	return !ng.IsBlocked(cx, cz)
}

// WorldToCell converts a world point to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p Vec3) (int, int) {
	return int(math.Floor(p.X() / ng.cell)), int(math.Floor(p.Z() / ng.cell))
}

// CellToWorld converts grid cell coordinates to the cell's ground center.
func (ng *NavGrid) CellToWorld(cx, cz int) Vec3 {
	return V3((float64(cx)+0.5)*ng.cell, (float64(cz)+0.5)*ng.cell)
}

// buildEdges indexes every walkable cell side that borders a blocked cell or
// the arena border.
func (ng *NavGrid) buildEdges() {
	var objs []rtreego.Spatial
	c := ng.cell
	for cz := 0; cz < ng.rows; cz++ {
		for cx := 0; cx < ng.cols; cx++ {
			if ng.IsBlocked(cx, cz) {
				continue
			}
			x0, z0 := float64(cx)*c, float64(cz)*c
			x1, z1 := x0+c, z0+c
			if ng.IsBlocked(cx-1, cz) {
				objs = append(objs, newNavEdge(V3(x0, z0), V3(x0, z1), Vec3{1, 0, 0}))
			}
			if ng.IsBlocked(cx+1, cz) {
				objs = append(objs, newNavEdge(V3(x1, z0), V3(x1, z1), Vec3{-1, 0, 0}))
			}
			if ng.IsBlocked(cx, cz-1) {
				objs = append(objs, newNavEdge(V3(x0, z0), V3(x1, z0), Vec3{0, 0, 1}))
			}
			if ng.IsBlocked(cx, cz+1) {
				objs = append(objs, newNavEdge(V3(x0, z1), V3(x1, z1), Vec3{0, 0, -1}))
			}
		}
	}
	ng.nEdges = len(objs)
	ng.edges = rtreego.NewTree(2, 25, 50, objs...)
}

func newNavEdge(a, b, normal Vec3) *navEdge {
	minX, maxX := math.Min(a.X(), b.X()), math.Max(a.X(), b.X())
	minZ, maxZ := math.Min(a.Z(), b.Z()), math.Max(a.Z(), b.Z())
	r, _ := rtreego.NewRect(
		rtreego.Point{minX - edgeEps, minZ - edgeEps},
		[]float64{maxX - minX + 2*edgeEps, maxZ - minZ + 2*edgeEps},
	)
	return &navEdge{a: a, b: b, normal: normal, bounds: r}
}

// SamplePosition returns the nearest walkable point to p within maxDist on
// the ground plane. A point already on a walkable cell samples to itself.
func (ng *NavGrid) SamplePosition(p Vec3, maxDist float64) (NavHit, bool) {
	ground := V3(p.X(), p.Z())
	cx, cz := ng.WorldToCell(ground)
	if !ng.IsBlocked(cx, cz) {
		return NavHit{Position: ground}, true
	}

	r := int(math.Ceil(maxDist/ng.cell)) + 1
	best := NavHit{}
	bestDist := math.MaxFloat64
	inset := ng.cell * 1e-3
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			nx, nz := cx+dx, cz+dz
			if ng.IsBlocked(nx, nz) {
				continue
			}
			x0, z0 := float64(nx)*ng.cell, float64(nz)*ng.cell
			q := V3(
				math.Max(x0+inset, math.Min(x0+ng.cell-inset, ground.X())),
				math.Max(z0+inset, math.Min(z0+ng.cell-inset, ground.Z())),
			)
			if d := planeDist(q, ground); d < bestDist {
				bestDist = d
				best = NavHit{Position: q, Distance: d}
			}
		}
	}
	if bestDist > maxDist {
		return NavHit{}, false
	}
	return best, true
}

// FindClosestEdge returns the walkable boundary point nearest to p with the
// boundary's normal. p must be on a walkable cell.
func (ng *NavGrid) FindClosestEdge(p Vec3) (NavHit, bool) {
	if !ng.Walkable(p) || ng.nEdges == 0 {
		return NavHit{}, false
	}
	near := ng.edges.NearestNeighbors(4, rtreego.Point{p.X(), p.Z()})
	best := NavHit{}
	bestDist := math.MaxFloat64
	for _, s := range near {
		e, ok := s.(*navEdge)
		if !ok || e == nil {
			continue
		}
		q, d := e.closest(p)
		if d < bestDist {
			bestDist = d
			best = NavHit{Position: q, Normal: e.normal, Distance: d}
		}
	}
	if bestDist == math.MaxFloat64 {
		return NavHit{}, false
	}
	return best, true
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cz int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int)      { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// walkableNear returns the cell under p, or the walkable neighbour nearest
// to p when p sits on a blocked cell (boundary points land there).
func (ng *NavGrid) walkableNear(p Vec3) (int, int, bool) {
	cx, cz := ng.WorldToCell(p)
	if !ng.IsBlocked(cx, cz) {
		return cx, cz, true
	}
	bx, bz, found := 0, 0, false
	bestDist := math.MaxFloat64
	for _, d := range dirs {
		nx, nz := cx+d[0], cz+d[1]
		if ng.IsBlocked(nx, nz) {
			continue
		}
		if dist := planeDist(ng.CellToWorld(nx, nz), p); dist < bestDist {
			bestDist = dist
			bx, bz, found = nx, nz, true
		}
	}
	return bx, bz, found
}

// FindPath returns world waypoints from start to goal, ending exactly on
// goal. Returns nil if no path exists.
func (ng *NavGrid) FindPath(start, goal Vec3) []Vec3 {
	scx, scz, ok := ng.walkableNear(start)
	if !ok {
		return nil
	}
	gcx, gcz, ok := ng.walkableNear(goal)
	if !ok {
		return nil
	}

	key := func(cx, cz int) int { return cz*ng.cols + cx }
	heuristic := func(ax, az, bx, bz int) float64 {
		dx := math.Abs(float64(ax - bx))
		dz := math.Abs(float64(az - bz))
		return dx + dz + (math.Sqrt2-2)*math.Min(dx, dz)
	}

	first := &pathNode{cx: scx, cz: scz, g: 0, h: heuristic(scx, scz, gcx, gcz)}
	ol := &openList{first}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := make(map[int]*pathNode)
	best[key(scx, scz)] = first

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cz == gcz {
			return ng.buildPath(cur, goal)
		}
		k := key(cur.cx, cur.cz)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, nz := cur.cx+d[0], cur.cz+d[1]
			if ng.IsBlocked(nx, nz) {
				continue
			}
			// Prevent diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cz) || ng.IsBlocked(cur.cx, cur.cz+d[1]) {
					continue
				}
			}
			nk := key(nx, nz)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cz: nz, g: g, h: heuristic(nx, nz, gcx, gcz), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

// buildPath turns the node chain into waypoints. The start cell is dropped
// (the agent is already there) and the goal cell center is replaced by the
// exact goal.
func (ng *NavGrid) buildPath(end *pathNode, goal Vec3) []Vec3 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cz})
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	if len(cells) > 1 {
		cells = cells[1:]
	}
	path := make([]Vec3, len(cells))
	for i, c := range cells {
		path[i] = ng.CellToWorld(c[0], c[1])
	}
	path[len(path)-1] = V3(goal.X(), goal.Z())
	return path
}
