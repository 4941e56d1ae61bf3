package plugin

import "fmt"

// Phase is the step ProcessBlock is currently in. Idle between blocks.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseSnapshotParams
	PhaseUpdateFilters
	PhaseFilterLeft
	PhaseFilterRight
	PhaseDistort
	PhasePublishAnalysis
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSnapshotParams:
		return "SnapshotParams"
	case PhaseUpdateFilters:
		return "UpdateFilters"
	case PhaseFilterLeft:
		return "FilterLeft"
	case PhaseFilterRight:
		return "FilterRight"
	case PhaseDistort:
		return "Distort"
	case PhasePublishAnalysis:
		return "PublishAnalysis"
	default:
		return fmt.Sprintf("Phase(%d)", int32(p))
	}
}
