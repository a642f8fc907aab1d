// Package grouping holds the built-in grouping strategies.
package grouping

import "github.com/l1jgo/navigator/internal/nav"

// Destination groups entities that lead to the same place, e.g. every exit
// into map 5. The representative is the member nearest to the observer.
type Destination struct{}

func NewDestination() *Destination { return &Destination{} }

func (d *Destination) Name() string { return "destination" }

func (d *Destination) GroupKey(e *nav.Entity) (string, error) {
	return e.Target, nil
}

func (d *Destination) Representative(members []*nav.Entity, ref nav.Position) *nav.Entity {
	return nav.Nearest(members, ref)
}
