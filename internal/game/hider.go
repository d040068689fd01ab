package game

// Hider is an AI agent that watches for the seeker and runs for cover once
// it sees them. The sensor drives the planner; the planner drives the agent.
type Hider struct {
	Label   string
	Agent   *NavAgent
	Eye     Observer
	Sensor  *VisibilitySensor
	Planner *ConcealmentPlanner
	Trigger *ProximityTrigger

	spawnPos     Vec3
	spawnHeading float64
}

// NewHider places a hider at pos facing heading and wires its sensor,
// planner and proximity trigger. The trigger only reacts to the player layer.
func NewHider(label string, world *World, sched *Scheduler, log Diagnostics, pos Vec3, heading float64, t Tuning) *Hider {
	h := &Hider{Label: label, spawnPos: pos, spawnHeading: heading}
	h.Agent = NewNavAgent(world, label, pos, heading, LayerAgent, t.Agent)

	h.Eye = NewObserver(h.Agent.Position(), heading)
	h.Eye.FOVDeg = t.Sensor.FOVDeg
	h.Eye.Radius = t.Sensor.ViewDistance
	h.Eye.EyeHeight = t.Sensor.EyeHeight

	h.Sensor = NewVisibilitySensor(label, &h.Eye, world, sched, log)
	h.Sensor.SetProbeInterval(t.Sensor.ProbeInterval)
	h.Planner = NewConcealmentPlanner(label, t.Planner, h.Agent, &h.Eye, world, sched, log)
	h.Sensor.Subscribe(h.Planner)

	h.Trigger = world.AddTrigger(h.Agent.ID(), t.Sensor.ViewDistance, LayerPlayer,
		h.Sensor.OnProximityEnter, h.Sensor.OnProximityExit)
	return h
}

// ID returns the hider's world handle.
func (h *Hider) ID() EntityID { return h.Agent.ID() }

// Update walks the agent and keeps the eye on its pose.
func (h *Hider) Update(dt float64) {
	h.Agent.Update(dt)
	h.syncEye()
}

func (h *Hider) syncEye() {
	h.Eye.Position = h.Agent.Position()
	h.Eye.Face(h.Agent.Heading())
}

// Reset moves the hider to pos and drops all sensing and planning state
// without firing events.
func (h *Hider) Reset(pos Vec3, heading float64) {
	h.Sensor.Reset()
	h.Planner.Stop()
	h.Agent.Warp(pos, heading)
	h.syncEye()
}

// Hiding reports whether the hider is currently heading for cover.
func (h *Hider) Hiding() bool {
	return h.Planner.Active() && h.Agent.Moving()
}
