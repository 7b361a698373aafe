package network

import (
	"fmt"

	"routenet/pkg/routing"
)

// FilterCover admits stacks by resource ID, as a whitelist or blacklist.
type FilterCover struct {
	resources map[string]struct{}
	blacklist bool
	mode      routing.FilterMode
}

// NewFilterCover builds a filter cover for the listed resource IDs.
func NewFilterCover(resources []string, blacklist bool, mode routing.FilterMode) *FilterCover {
	set := make(map[string]struct{}, len(resources))
	for _, id := range resources {
		set[id] = struct{}{}
	}
	return &FilterCover{resources: set, blacklist: blacklist, mode: mode}
}

func (f *FilterCover) AdapterName() string            { return "filter" }
func (f *FilterCover) FilterMode() routing.FilterMode { return f.mode }

// Test reports whether stack passes the list.
func (f *FilterCover) Test(stack routing.Stack) bool {
	_, listed := f.resources[stack.Type.ID]
	return listed != f.blacklist
}

// Conveyor batches transfers in one direction and picks the distribution
// policy when it imports into a pipe.
type Conveyor struct {
	role routing.Role
	dist routing.DistributionMode
}

// NewConveyor builds a conveyor.
func NewConveyor(role routing.Role, dist routing.DistributionMode) *Conveyor {
	return &Conveyor{role: role, dist: dist}
}

func (c *Conveyor) AdapterName() string                    { return "conveyor" }
func (c *Conveyor) Role() routing.Role                     { return c.role }
func (c *Conveyor) Distribution() routing.DistributionMode { return c.dist }

// RoboticArm is a conveyor that sizes each transfer with its strategy.
type RoboticArm struct {
	Conveyor
	strategy *routing.TransferStrategy
}

// NewRoboticArm builds an arm around strategy.
func NewRoboticArm(role routing.Role, dist routing.DistributionMode, strategy *routing.TransferStrategy) *RoboticArm {
	return &RoboticArm{Conveyor: Conveyor{role: role, dist: dist}, strategy: strategy}
}

func (a *RoboticArm) AdapterName() string                 { return "robotic_arm" }
func (a *RoboticArm) Strategy() *routing.TransferStrategy { return a.strategy }

// LimitCover lets at most limit units through per insertion.
type LimitCover struct {
	limit int
}

// NewLimitCover builds a limit cover.
func NewLimitCover(limit int) *LimitCover {
	return &LimitCover{limit: limit}
}

func (l *LimitCover) AdapterName() string { return "limit" }

// Probe caps amount at the configured limit.
func (l *LimitCover) Probe(staged routing.Stack, amount int) int {
	if staged.IsEmpty() {
		return 0
	}
	return min(l.limit, amount)
}

func parseRole(name string) (routing.Role, error) {
	switch name {
	case "import":
		return routing.Import, nil
	case "export":
		return routing.Export, nil
	}
	return routing.Import, fmt.Errorf("unknown role %q", name)
}

func parseFilterMode(name string) (routing.FilterMode, error) {
	switch name {
	case "insert":
		return routing.FilterInsert, nil
	case "extract":
		return routing.FilterExtract, nil
	case "both", "":
		return routing.FilterBoth, nil
	}
	return routing.FilterBoth, fmt.Errorf("unknown filter mode %q", name)
}
