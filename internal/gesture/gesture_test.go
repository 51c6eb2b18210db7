package gesture

import "testing"

type fakeNav struct {
	next, prev int
	atEnd      bool
}

func (f *fakeNav) Next() bool {
	if f.atEnd {
		return false
	}
	f.next++
	return true
}

func (f *fakeNav) Prev() bool {
	f.prev++
	return true
}

func TestCommitThreshold(t *testing.T) {
	cases := []struct {
		name     string
		side     Side
		dx       int
		decision Decision
		next     int
		prev     int
	}{
		{name: "exactly 35 cancels", side: SideRight, dx: -35, decision: DecisionCancel},
		{name: "36 on right turns forward", side: SideRight, dx: -36, decision: DecisionNext, next: 1},
		{name: "-36 on right turns back", side: SideRight, dx: 36, decision: DecisionPrev, prev: 1},
		{name: "36 on single turns forward", side: SideSingle, dx: -36, decision: DecisionNext, next: 1},
		{name: "-36 on single turns back", side: SideSingle, dx: 36, decision: DecisionPrev, prev: 1},
		{name: "36 on left turns back", side: SideLeft, dx: 36, decision: DecisionPrev, prev: 1},
		{name: "-35 on left cancels", side: SideLeft, dx: -35, decision: DecisionCancel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := &fakeNav{}
			g := New(nav)
			if !g.Begin(100, 90, tc.side) {
				t.Fatal("begin refused on an idle interpreter")
			}
			g.Move(100 + tc.dx)
			got := g.Release(100 + tc.dx)
			if got != tc.decision {
				t.Fatalf("decision mismatch: got %v want %v", got, tc.decision)
			}
			if nav.next != tc.next || nav.prev != tc.prev {
				t.Fatalf("navigation mismatch: next=%d prev=%d want next=%d prev=%d", nav.next, nav.prev, tc.next, tc.prev)
			}
		})
	}
}

func TestAngleIsClamped(t *testing.T) {
	g := New(nil)
	g.Begin(50, 10, SideRight)
	if got := g.Move(-500); got != MaxAngle {
		t.Fatalf("angle not clamped: got %v", got)
	}
	if got := g.Move(500); got != -MaxAngle {
		t.Fatalf("angle not clamped: got %v", got)
	}
}

func TestSingleActiveSession(t *testing.T) {
	g := New(&fakeNav{})
	if !g.Begin(0, 40, SideRight) {
		t.Fatal("first begin should succeed")
	}
	if g.Begin(5, 40, SideLeft) {
		t.Fatal("second begin should be refused while dragging")
	}
	if g.Side() != SideRight {
		t.Fatalf("side changed by refused begin: %v", g.Side())
	}
}

func TestSettleReachesIdle(t *testing.T) {
	nav := &fakeNav{}
	g := New(nav)
	g.Begin(100, 90, SideRight)
	g.Release(40)
	if g.State() != StateSettling {
		t.Fatalf("state mismatch after commit: got %v", g.State())
	}
	if nav.next != 1 {
		t.Fatal("commit should call the engine immediately, not after settling")
	}
	frames := 0
	for g.Step() {
		frames++
		if frames > 10*FrameRate {
			t.Fatal("settle animation never finished")
		}
	}
	if g.State() != StateIdle || g.Angle() != 0 {
		t.Fatalf("expected idle flat page, got state=%v angle=%v", g.State(), g.Angle())
	}
}

func TestCancelSettlesBackWithoutNavigation(t *testing.T) {
	nav := &fakeNav{}
	g := New(nav)
	g.Begin(100, 90, SideRight)
	g.Move(90)
	g.Release(90)
	for i := 0; i < 10*FrameRate && g.Step(); i++ {
	}
	if !g.Settled() {
		t.Fatal("cancel animation did not settle")
	}
	if nav.next != 0 || nav.prev != 0 {
		t.Fatalf("cancel moved the book: next=%d prev=%d", nav.next, nav.prev)
	}
}

func TestPressDuringSettleAbandonsAnimation(t *testing.T) {
	g := New(&fakeNav{})
	g.Begin(100, 90, SideRight)
	g.Release(20)
	if g.Settled() {
		t.Fatal("expected a running settle animation")
	}
	if !g.Begin(10, 90, SideLeft) {
		t.Fatal("a new press should supersede the settle animation")
	}
	if g.State() != StateDragging || g.Angle() != 0 {
		t.Fatalf("new drag not started cleanly: state=%v angle=%v", g.State(), g.Angle())
	}
}

func TestRefusedCommitSettlesBack(t *testing.T) {
	nav := &fakeNav{atEnd: true}
	g := New(nav)
	g.Begin(100, 90, SideRight)
	if got := g.Release(0); got != DecisionNext {
		t.Fatalf("decision mismatch: got %v", got)
	}
	for i := 0; i < 10*FrameRate && g.Step(); i++ {
	}
	if g.State() != StateIdle {
		t.Fatalf("state mismatch: got %v", g.State())
	}
}
