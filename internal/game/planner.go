package game

import (
	"fmt"
	"sort"
	"time"
)

// PlannerConfig is the designer-facing tuning for concealment planning.
type PlannerConfig struct {
	HidableMask LayerMask
	// AngleToTargetDeg discards obstacles within this angle of the direct
	// line to the target; they sit in the way and make poor cover.
	AngleToTargetDeg float64
	// HideSensitivity is the dot product an edge normal must stay below
	// against the direction to the target. Lower is stricter.
	HideSensitivity float64
	// MinTargetDistance discards obstacles this close to the target.
	MinTargetDistance float64
	// MinObstacleHeight discards obstacles too short to hide behind.
	MinObstacleHeight float64
	UpdateInterval    time.Duration
	CandidateCapacity int
	// CoverOffset is how far past the obstacle center the sample point sits.
	CoverOffset float64
	// SampleRadiusScale times agent height bounds the navmesh snap search.
	SampleRadiusScale float64
}

// DefaultPlannerConfig returns the stock tuning: 4 Hz, ten candidates.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		HidableMask:       LayerHidable,
		AngleToTargetDeg:  30,
		HideSensitivity:   0,
		MinTargetDistance: 5,
		MinObstacleHeight: 1.25,
		UpdateInterval:    250 * time.Millisecond,
		CandidateCapacity: 10,
		CoverOffset:       2,
		SampleRadiusScale: 2,
	}
}

// ConcealmentPoint is an accepted hiding spot.
type ConcealmentPoint struct {
	NavHit
	Obstacle Collider
	Mirrored bool // found on the far side of the obstacle on the second attempt
}

// candidate is an obstacle that survived filtering, with its distance to
// the target cached for ranking.
type candidate struct {
	Collider
	distToTarget float64
}

// ConcealmentPlanner looks for a spot behind nearby cover that faces away
// from a seen target and sends its agent there. It implements SightListener.
type ConcealmentPlanner struct {
	cfg    PlannerConfig
	agent  PathAgent
	world  SpatialQuery
	eye    *Observer // detection radius comes from the sensor's observer
	sched  *Scheduler
	log    Diagnostics
	label  string
	buf    []Collider // fixed-capacity scratch, reused every cycle
	ranked []candidate

	target    EntityID
	hasTarget bool
	task      *Task
	last      ConcealmentPoint
	hasLast   bool
	cycles    int

	// trace, when set, sees every candidate in the order it is tried.
	trace func(Collider)
}

// NewConcealmentPlanner creates an idle planner for agent.
func NewConcealmentPlanner(label string, cfg PlannerConfig, agent PathAgent, eye *Observer, world SpatialQuery, sched *Scheduler, log Diagnostics) *ConcealmentPlanner {
	if log == nil {
		log = discardLog{}
	}
	if cfg.CandidateCapacity <= 0 {
		cfg.CandidateCapacity = DefaultPlannerConfig().CandidateCapacity
	}
	return &ConcealmentPlanner{
		cfg:    cfg,
		agent:  agent,
		world:  world,
		eye:    eye,
		sched:  sched,
		log:    log,
		label:  label,
		buf:    make([]Collider, cfg.CandidateCapacity),
		ranked: make([]candidate, 0, cfg.CandidateCapacity),
	}
}

// Config returns the planner's tuning.
func (p *ConcealmentPlanner) Config() PlannerConfig { return p.cfg }

// OnGainedSight starts a planning cycle for target, cancelling any cycle
// already running so only one loop ever issues destinations.
func (p *ConcealmentPlanner) OnGainedSight(target EntityID) {
	p.task.Cancel()
	p.target, p.hasTarget = target, true
	p.log.Add(p.sched.Now(), p.label, "planner", "start", target.Short(), 0)
	p.task = p.sched.EveryNow(p.cfg.UpdateInterval, func() bool {
		p.Plan()
		return true
	})
}

// OnLostSight stops planning and forgets the target.
func (p *ConcealmentPlanner) OnLostSight(target EntityID) {
	p.Stop()
	p.log.Add(p.sched.Now(), p.label, "planner", "stop", target.Short(), 0)
}

// Stop cancels the cycle and clears the target without logging.
func (p *ConcealmentPlanner) Stop() {
	p.task.Cancel()
	p.task = nil
	p.hasTarget = false
	p.target = NoEntity
}

// Active reports whether a planning cycle is scheduled.
func (p *ConcealmentPlanner) Active() bool { return p.task.Active() }

// Target returns the target being hidden from.
func (p *ConcealmentPlanner) Target() (EntityID, bool) { return p.target, p.hasTarget }

// LastPoint returns the most recently accepted concealment point.
func (p *ConcealmentPlanner) LastPoint() (ConcealmentPoint, bool) { return p.last, p.hasLast }

// Cycles returns how many planning cycles have run.
func (p *ConcealmentPlanner) Cycles() int { return p.cycles }

// Plan runs one planning cycle against the current target. On success the
// agent is sent to the returned point; otherwise the agent's destination is
// left alone.
func (p *ConcealmentPlanner) Plan() (ConcealmentPoint, bool) {
	p.cycles++
	if !p.hasTarget {
		return ConcealmentPoint{}, false
	}
	now := p.sched.Now()
	targetPos, ok := p.world.Locate(p.target)
	if !ok {
		p.log.Add(now, p.label, "planner", "target_missing", p.target.Short(), 0)
		return ConcealmentPoint{}, false
	}
	agentPos := p.agent.Position()

	for i := range p.buf {
		p.buf[i] = Collider{}
	}
	hits := p.world.OverlapSphere(agentPos, p.eye.Radius, p.cfg.HidableMask, p.buf)
	if hits >= len(p.buf) {
		p.log.Add(now, p.label, "planner", "candidate_cap",
			fmt.Sprintf("%d hits, buffer full", hits), float64(hits))
	}

	p.rank(p.buf[:hits], agentPos, targetPos)

	for _, c := range p.ranked {
		if p.trace != nil {
			p.trace(c.Collider)
		}
		pt, ok := p.tryCandidate(c.Collider, agentPos, targetPos)
		if !ok {
			continue
		}
		p.last, p.hasLast = pt, true
		if !p.agent.SetDestination(pt.Position) {
			p.log.Add(now, p.label, "planner", "unreachable", fmtVec(pt.Position), 0)
			continue
		}
		p.log.Add(now, p.label, "planner", "destination",
			fmt.Sprintf("%s behind %s", fmtVec(pt.Position), c.Name), c.distToTarget)
		return pt, true
	}
	addVerbose(p.log, now, p.label, "planner", "no_cover",
		fmt.Sprintf("%d hits, %d ranked", hits, len(p.ranked)), 0)
	return ConcealmentPoint{}, false
}

// rank filters hits into p.ranked, farthest from the target first.
func (p *ConcealmentPlanner) rank(hits []Collider, agentPos, targetPos Vec3) {
	p.ranked = p.ranked[:0]
	toTarget, ok := dirTo(agentPos, targetPos)
	cosLimit := cosDeg(p.cfg.AngleToTargetDeg)
	for _, c := range hits {
		d := c.Position.Sub(targetPos).Len()
		if d < p.cfg.MinTargetDistance {
			continue
		}
		if c.Height < p.cfg.MinObstacleHeight {
			continue
		}
		if toCol, colOK := dirTo(agentPos, c.Position); ok && colOK && toCol.Dot(toTarget) > cosLimit {
			continue
		}
		p.ranked = append(p.ranked, candidate{Collider: c, distToTarget: d})
	}
	sort.SliceStable(p.ranked, func(i, j int) bool {
		return p.ranked[i].distToTarget > p.ranked[j].distToTarget
	})
}

// tryCandidate looks for an accepted point on the side of c away from the
// target, then on the mirrored side.
func (p *ConcealmentPlanner) tryCandidate(c Collider, agentPos, targetPos Vec3) (ConcealmentPoint, bool) {
	now := p.sched.Now()
	away, ok := dirTo(targetPos, agentPos)
	if !ok {
		return ConcealmentPoint{}, false
	}
	sampleRadius := p.cfg.SampleRadiusScale * p.agent.Height()

	edge, ok := p.snapToEdge(c.Position.Add(away.Mul(p.cfg.CoverOffset)), sampleRadius, c, false)
	if !ok {
		return ConcealmentPoint{}, false
	}
	if p.facesAway(edge, targetPos) {
		return ConcealmentPoint{NavHit: edge, Obstacle: c}, true
	}

	// The first spot still faces the target; try the far side of the
	// obstacle along the line from that spot to the target.
	toTarget, ok := dirTo(edge.Position, targetPos)
	if !ok {
		return ConcealmentPoint{}, false
	}
	edge2, ok := p.snapToEdge(c.Position.Sub(toTarget.Mul(p.cfg.CoverOffset)), sampleRadius, c, true)
	if !ok {
		return ConcealmentPoint{}, false
	}
	if p.facesAway(edge2, targetPos) {
		return ConcealmentPoint{NavHit: edge2, Obstacle: c, Mirrored: true}, true
	}
	addVerbose(p.log, now, p.label, "planner", "rejected", c.Name, 0)
	return ConcealmentPoint{}, false
}

// snapToEdge projects pt onto the navigable surface and then onto its
// nearest boundary edge. Failures are logged and the candidate skipped.
func (p *ConcealmentPlanner) snapToEdge(pt Vec3, radius float64, c Collider, second bool) (NavHit, bool) {
	now := p.sched.Now()
	attempt := ""
	if second {
		attempt = " (second attempt)"
	}
	hit, ok := p.world.SamplePosition(pt, radius)
	if !ok {
		p.log.Add(now, p.label, "planner", "no_navmesh",
			fmt.Sprintf("near %s at %s%s", c.Name, fmtVec(c.Position), attempt), 0)
		return NavHit{}, false
	}
	edge, ok := p.world.FindClosestEdge(hit.Position)
	if !ok {
		p.log.Add(now, p.label, "planner", "no_edge",
			fmt.Sprintf("close to %s%s", fmtVec(hit.Position), attempt), 0)
		return NavHit{}, false
	}
	return edge, true
}

// facesAway is the acceptance test: the edge normal must point away from
// the target by more than the sensitivity threshold.
func (p *ConcealmentPlanner) facesAway(edge NavHit, targetPos Vec3) bool {
	toTarget, ok := dirTo(edge.Position, targetPos)
	if !ok {
		return false
	}
	return edge.Normal.Dot(toTarget) < p.cfg.HideSensitivity
}

func fmtVec(v Vec3) string {
	return fmt.Sprintf("(%.1f,%.1f,%.1f)", v.X(), v.Y(), v.Z())
}
