package harvest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInfeasible        = errors.New("no allocation satisfies every constraint")
	ErrUnmappedResource  = errors.New("resource has no value mapping")
	ErrNoCandidates      = errors.New("no candidate yield records")
	ErrSolverFailed      = errors.New("solver gave up on the harvest model")
	ErrInvalidDays       = errors.New("days must be positive")
	ErrInvalidFuelConfig = errors.New("fuel energy per unit must be positive")
)

// UnmappedResourceError reports a candidate resource whose type id is not in
// the value enumeration.
type UnmappedResourceError struct {
	ResourceID int64
}

func (e *UnmappedResourceError) Error() string {
	return fmt.Sprintf("resource %d has no value mapping", e.ResourceID)
}

func (e *UnmappedResourceError) Is(target error) bool {
	return target == ErrUnmappedResource
}

// NoSourceError lists demanded resources that no candidate location yields.
type NoSourceError struct {
	ResourceIDs []int64
}

func (e *NoSourceError) Error() string {
	ids := append([]int64(nil), e.ResourceIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := ResourceName(id); ok {
			parts[i] = name
		} else {
			parts[i] = fmt.Sprint(id)
		}
	}
	return "there is no known source of " + strings.Join(parts, ", ") + " in the selected locations"
}

func (e *NoSourceError) Is(target error) bool {
	return target == ErrInfeasible
}
