package nav_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/l1jgo/navigator/internal/nav"
)

func TestNearestAcrossTheWholeCoordinateRange(t *testing.T) {
	far := &nav.Entity{Name: "far", Pos: nav.Position{X: math.MinInt32, Y: math.MinInt32, MapID: 1}}
	near := &nav.Entity{Name: "near", Pos: nav.Position{X: math.MaxInt32 - 10, Y: math.MaxInt32, MapID: 1}}
	ref := nav.Position{X: math.MaxInt32, Y: math.MaxInt32, MapID: 1}

	assert.Same(t, near, nav.Nearest([]*nav.Entity{far, near}, ref))
	assert.Same(t, near, nav.Nearest([]*nav.Entity{near, far}, ref))
}

func TestNearestPrefersObserverMap(t *testing.T) {
	here := &nav.Entity{Name: "here", Pos: nav.Position{X: 500, Y: 500, MapID: 4}}
	there := &nav.Entity{Name: "there", Pos: nav.Position{X: 1, Y: 1, MapID: 5}}
	assert.Same(t, here, nav.Nearest([]*nav.Entity{there, here}, nav.Position{X: 1, Y: 1, MapID: 4}))
	assert.Nil(t, nav.Nearest(nil, nav.Position{}))
	assert.Nil(t, nav.NearestToCentroid(nil))
}
