// Package occupancy computes the live building-occupancy report
// served to the dashboard. The computation is a pure single pass
// over a snapshot of active passes: it performs no I/O, so the
// handler fetches the snapshot from the repository and this package
// only groups and classifies it.
package occupancy

import "time"

// Category classifies a visitor by the time remaining until their
// expected exit.
type Category string

const (
	// CategoryOnTime means the expected exit is more than the
	// approaching-exit window away, or no exit time is known.
	CategoryOnTime Category = "onTime"
	// CategoryApproachingExit means the expected exit is within the
	// approaching-exit window.
	CategoryApproachingExit Category = "approachingExit"
	// CategoryOverstay means the expected exit has passed.
	CategoryOverstay Category = "overstay"
)

// UnknownBuilding groups passes that carry no building tag.
const UnknownBuilding = "Unknown"

// approachingExitWindow is how close to the expected exit a visitor
// must be before they count as approaching it.
const approachingExitWindow = 30 * time.Minute

// PassSnapshot is the projection of an active pass that the
// aggregation needs. The repository builds these by joining passes
// with visitor and host names.
type PassSnapshot struct {
	ID           uint64
	VisitorName  string
	Purpose      string
	HostName     string
	Building     string
	EntryTime    *time.Time
	ValidTo      *time.Time
	ExpectedExit *time.Time
}

// VisitorDetail is one row in a building's visitor list.
type VisitorDetail struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Purpose      string     `json:"purpose"`
	Host         string     `json:"host"`
	EntryTime    *time.Time `json:"entryTime"`
	ExpectedExit *time.Time `json:"expectedExit"`
	Category     Category   `json:"category"`
}

// BuildingSummary aggregates the visitors currently inside one
// building, with per-category counters.
type BuildingSummary struct {
	Building        string          `json:"building"`
	Total           int             `json:"total"`
	OnTime          int             `json:"onTime"`
	ApproachingExit int             `json:"approachingExit"`
	Overstay        int             `json:"overstay"`
	Visitors        []VisitorDetail `json:"visitors"`
}

// Report is the full occupancy snapshot returned by the live
// endpoint.
type Report struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Buildings   []BuildingSummary `json:"buildings"`
}

// Classify buckets a single pass by its expected exit time relative
// to now. A pass with no exit signal defaults to onTime.
func Classify(now time.Time, expectedExit *time.Time) Category {
	if expectedExit == nil {
		return CategoryOnTime
	}
	remaining := expectedExit.Sub(now)
	switch {
	case remaining <= 0:
		return CategoryOverstay
	case remaining <= approachingExitWindow:
		return CategoryApproachingExit
	default:
		return CategoryOnTime
	}
}

// ExpectedExit resolves the exit signal for a pass: the end of the
// validity window when present, otherwise the explicit expected exit
// time, otherwise nil.
func ExpectedExit(p PassSnapshot) *time.Time {
	if p.ValidTo != nil {
		return p.ValidTo
	}
	return p.ExpectedExit
}

// Compute groups the given active passes by building and classifies
// each into a dwell-time category. Buildings appear in first-seen
// order; an empty snapshot yields an empty (non-nil) building list.
// The computation is deterministic and O(n) in the snapshot size.
func Compute(now time.Time, passes []PassSnapshot) Report {
	byBuilding := make(map[string]*BuildingSummary)
	order := make([]string, 0)

	for _, p := range passes {
		building := p.Building
		if building == "" {
			building = UnknownBuilding
		}
		group, ok := byBuilding[building]
		if !ok {
			group = &BuildingSummary{
				Building: building,
				Visitors: []VisitorDetail{},
			}
			byBuilding[building] = group
			order = append(order, building)
		}

		exit := ExpectedExit(p)
		category := Classify(now, exit)

		group.Total++
		switch category {
		case CategoryOverstay:
			group.Overstay++
		case CategoryApproachingExit:
			group.ApproachingExit++
		default:
			group.OnTime++
		}

		group.Visitors = append(group.Visitors, VisitorDetail{
			ID:           p.ID,
			Name:         p.VisitorName,
			Purpose:      p.Purpose,
			Host:         p.HostName,
			EntryTime:    p.EntryTime,
			ExpectedExit: exit,
			Category:     category,
		})
	}

	buildings := make([]BuildingSummary, 0, len(order))
	for _, name := range order {
		buildings = append(buildings, *byBuilding[name])
	}
	return Report{GeneratedAt: now, Buildings: buildings}
}
