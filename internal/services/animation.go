package services

import (
	"aed-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// Frame is the outcome of one animation step.
type Frame struct {
	Position     domain.LatLng
	SegmentIndex int
	Progress     float64
	// EnteredDeliver is set on the single step that crosses from the pickup
	// leg into the deliver leg.
	EnteredDeliver bool
	Done           bool
}

// Animation is a cursor over a flattened dispatch path. It is not safe for
// concurrent use; each dispatch owns one.
type Animation struct {
	segments  []domain.PathSegment
	increment float64
	perSeg    int

	index int
	tick  int // steps taken within the current segment
	done  bool
}

// StepsPerSegment is the number of steps needed to traverse one segment.
// The epsilon absorbs float noise such as 1/0.1 = 9.999999999999998.
func StepsPerSegment(increment float64) int {
	return int(math.Ceil(1/increment - 1e-9))
}

func NewAnimation(segments []domain.PathSegment, increment float64) (*Animation, error) {
	if len(segments) == 0 {
		return nil, errors.New("new animation: no segments")
	}
	if !(increment > 0 && increment < 1) {
		return nil, fmt.Errorf("new animation: increment %v outside (0, 1)", increment)
	}

	return &Animation{
		segments:  segments,
		increment: increment,
		perSeg:    StepsPerSegment(increment),
	}, nil
}

// TotalSteps is the exact number of Step calls until Done.
func (a *Animation) TotalSteps() int { return len(a.segments) * a.perSeg }

func (a *Animation) Segments() int { return len(a.segments) }

func (a *Animation) Done() bool { return a.done }

// Progress returns the fraction of the current segment already covered.
// Computed from an integer step count so it never drifts.
func (a *Animation) Progress() float64 {
	return float64(a.tick) * a.increment
}

// Remaining is the share of segments not yet completed, 1 at the start.
func (a *Animation) Remaining() float64 {
	return 1 - float64(a.index)/float64(len(a.segments))
}

// Position is the interpolated point of the cursor.
func (a *Animation) Position() domain.LatLng {
	if a.done {
		return a.segments[len(a.segments)-1].End
	}
	seg := a.segments[a.index]
	return domain.Lerp(seg.Start, seg.End, a.Progress())
}

// Step advances progress by one increment. When progress reaches 1 the cursor
// moves to the start of the next segment, or finishes after the last one.
// Steps after Done return the final frame again.
func (a *Animation) Step() Frame {
	if a.done {
		return Frame{Position: a.Position(), SegmentIndex: len(a.segments), Progress: 0, Done: true}
	}

	a.tick++
	if a.tick < a.perSeg {
		return Frame{Position: a.Position(), SegmentIndex: a.index, Progress: a.Progress()}
	}

	prev := a.segments[a.index]
	a.tick = 0
	a.index++

	if a.index >= len(a.segments) {
		a.done = true
		return Frame{Position: prev.End, SegmentIndex: a.index, Done: true}
	}

	next := a.segments[a.index]
	return Frame{
		Position:       next.Start,
		SegmentIndex:   a.index,
		EnteredDeliver: prev.Phase == domain.LegPickup && next.Phase == domain.LegDeliver,
	}
}
