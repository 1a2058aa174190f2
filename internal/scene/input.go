package scene

import "gonum.org/v1/gonum/spatial/r2"

// Input is one frame of polled host input. Cursor is in surface
// coordinates; WheelY follows the DOM sign, so negative zooms in.
type Input struct {
	Cursor   r2.Vec
	Inside   bool
	Pressed  bool // primary button went down this frame
	Released bool // primary button went up anywhere this frame
	WheelY   float64
}

// Apply turns a polled input frame into pointer events, diffed against the
// previous frame. Hosts that poll devices instead of receiving events call
// it once per display tick. It does nothing while unmounted.
func (s *Scene) Apply(in Input) {
	if s.surface == nil {
		return
	}
	prev := s.input
	s.input = in

	switch {
	case in.Inside && (!prev.Inside || in.Cursor != prev.Cursor):
		s.PointerMove(in.Cursor)
	case !in.Inside && prev.Inside:
		s.PointerLeave()
	}
	if in.Pressed && in.Inside {
		s.PointerDown(in.Cursor)
	}
	if in.WheelY != 0 && in.Inside {
		s.Wheel(in.Cursor, in.WheelY)
	}
	if in.Released {
		s.PointerUp()
	}
}
