// Package gesture turns a pointer drag over a page into a flip angle and, on
// release, a commit or cancel decision against the pagination engine.
package gesture

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// MaxAngle bounds the cosmetic rotation in degrees.
	MaxAngle = 90.0
	// CommitAngle must be exceeded (strictly) for a release to turn the page.
	CommitAngle = 35.0
	// FrameRate drives the settle spring.
	FrameRate = 60

	settleFrequency = 9.0
	settleDamping   = 1.0
	settleEpsilon   = 0.5
)

// Side is the page region a drag started on.
type Side int

const (
	SideSingle Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "single"
	}
}

// State is the interpreter's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateSettling
)

// Navigator is the part of the engine a gesture may drive.
type Navigator interface {
	Next() bool
	Prev() bool
}

// Decision describes the outcome of a release.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionCancel
	DecisionNext
	DecisionPrev
)

// Interpreter is a three-state machine: idle, dragging, settling. It never
// touches book state itself; commits go through the Navigator.
type Interpreter struct {
	nav    Navigator
	spring harmonica.Spring

	state  State
	side   Side
	startX int
	width  int
	angle  float64

	velocity float64
	target   float64
}

// New returns an idle interpreter driving nav.
func New(nav Navigator) *Interpreter {
	return &Interpreter{
		nav:    nav,
		spring: harmonica.NewSpring(harmonica.FPS(FrameRate), settleFrequency, settleDamping),
	}
}

func (g *Interpreter) State() State   { return g.state }
func (g *Interpreter) Side() Side     { return g.side }
func (g *Interpreter) Angle() float64 { return g.angle }

// Dragging reports whether a drag session is active.
func (g *Interpreter) Dragging() bool { return g.state == StateDragging }

// Begin opens a drag session at x over a page element width cells wide. A
// press while settling abandons the animation; a press while another drag
// is active is refused.
func (g *Interpreter) Begin(x, width int, side Side) bool {
	if g.state == StateDragging || width <= 0 {
		return false
	}
	g.state = StateDragging
	g.side = side
	g.startX = x
	g.width = width
	g.angle = 0
	g.velocity = 0
	g.target = 0
	return true
}

// Move updates the angle for the pointer at x.
func (g *Interpreter) Move(x int) float64 {
	if g.state != StateDragging {
		return g.angle
	}
	g.angle = angleFor(x-g.startX, g.width, g.side)
	return g.angle
}

// Release ends the drag at x. Past the commit angle the engine turns the
// page immediately and the angle settles toward ±90; otherwise it settles
// back to 0 with no state change.
func (g *Interpreter) Release(x int) Decision {
	if g.state != StateDragging {
		return DecisionNone
	}
	g.angle = angleFor(x-g.startX, g.width, g.side)
	decision := Decide(g.angle, g.side)
	g.state = StateSettling
	g.velocity = 0
	switch decision {
	case DecisionNext:
		g.target = math.Copysign(MaxAngle, g.angle)
		if g.nav != nil && !g.nav.Next() {
			g.target = 0
		}
	case DecisionPrev:
		g.target = math.Copysign(MaxAngle, g.angle)
		if g.nav != nil && !g.nav.Prev() {
			g.target = 0
		}
	default:
		g.target = 0
	}
	if g.angle == g.target {
		g.finish()
	}
	return decision
}

// Leave treats the pointer leaving the page as a release.
func (g *Interpreter) Leave(x int) Decision {
	return g.Release(x)
}

// Step advances the settle animation by one frame and reports whether it is
// still running.
func (g *Interpreter) Step() bool {
	if g.state != StateSettling {
		return false
	}
	g.angle, g.velocity = g.spring.Update(g.angle, g.velocity, g.target)
	if math.Abs(g.angle-g.target) < settleEpsilon && math.Abs(g.velocity) < settleEpsilon {
		g.finish()
		return false
	}
	return true
}

// Abandon drops an in-flight settle animation.
func (g *Interpreter) Abandon() {
	if g.state == StateSettling {
		g.finish()
	}
}

// Settled reports whether no animation is pending.
func (g *Interpreter) Settled() bool {
	return g.state != StateSettling
}

func (g *Interpreter) finish() {
	g.state = StateIdle
	g.angle = 0
	g.velocity = 0
	g.target = 0
}

func angleFor(dx, width int, side Side) float64 {
	if width <= 0 {
		return 0
	}
	factor := -MaxAngle
	if side == SideLeft {
		factor = MaxAngle
	}
	angle := float64(dx) * factor / float64(width)
	return math.Max(-MaxAngle, math.Min(MaxAngle, angle))
}

// Decide maps a release angle to a navigation. A positive angle turns the
// grabbed page over in its natural direction: forward for the right (or
// only) page, backward for the left page.
func Decide(angle float64, side Side) Decision {
	if math.Abs(angle) <= CommitAngle {
		return DecisionCancel
	}
	forward := angle > 0
	if side == SideLeft {
		forward = !forward
	}
	if forward {
		return DecisionNext
	}
	return DecisionPrev
}
