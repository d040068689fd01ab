package game

const (
	// Default observer parameters.
	defaultFOVDeg    = 90.0 // field of view in degrees
	defaultViewDist  = 10.0 // detection radius in meters
	defaultEyeHeight = 1.5  // ray origin height in meters
)

// Observer is the eye of an agent: where it stands, which way it faces and
// how far and wide it can see. Designers set FOV, radius, eye height and
// mask; the owning agent keeps Position and Forward in sync every tick.
type Observer struct {
	Position  Vec3
	Forward   Vec3    // unit vector on the ground plane
	FOVDeg    float64 // total cone width, 0..360
	Radius    float64 // detection radius and ray length
	EyeHeight float64
	Mask      LayerMask
}

// NewObserver creates an observer with defaults facing heading (radians).
func NewObserver(pos Vec3, heading float64) Observer {
	return Observer{
		Position:  pos,
		Forward:   ForwardFromHeading(heading),
		FOVDeg:    defaultFOVDeg,
		Radius:    defaultViewDist,
		EyeHeight: defaultEyeHeight,
		Mask:      LayerDefault | LayerHidable | LayerPlayer,
	}
}

// InCone reports whether p lies inside the half-angle field-of-view cone.
// A point at the observer's own position has no direction and is rejected.
// The returned direction is only meaningful when ok is true.
func (o *Observer) InCone(p Vec3) (dir Vec3, ok bool) {
	dir, ok = dirTo(o.Position, p)
	if !ok {
		return Vec3{}, false
	}
	if o.Forward.Dot(dir) < cosDeg(o.FOVDeg/2) {
		return dir, false
	}
	return dir, true
}

// Eye returns the ray origin: the observer position at the fixed eye height.
func (o *Observer) Eye() Vec3 {
	e := o.Position
	e[1] = o.EyeHeight
	return e
}

// Face points the observer along a plane heading.
func (o *Observer) Face(heading float64) {
	o.Forward = ForwardFromHeading(heading)
}
