package grouping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/navigator/internal/core/handle"
	"github.com/l1jgo/navigator/internal/nav"
)

func entity(name string, cat nav.Category, x, y int32, mapID int16) *nav.Entity {
	return &nav.Entity{Name: name, Category: cat, Pos: nav.Position{X: x, Y: y, MapID: mapID}}
}

func TestDestinationKey(t *testing.T) {
	d := NewDestination()
	key, err := d.GroupKey(&nav.Entity{Target: "exit_5"})
	require.NoError(t, err)
	assert.Equal(t, "exit_5", key)

	key, err = d.GroupKey(&nav.Entity{})
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestDestinationRepresentativeIsNearestToObserver(t *testing.T) {
	d := NewDestination()
	a := entity("a", nav.CategoryPortal, 10, 10, 4)
	b := entity("b", nav.CategoryPortal, 50, 10, 4)
	c := entity("c", nav.CategoryPortal, 11, 10, 7)
	members := []*nav.Entity{a, b, c}

	assert.Same(t, b, d.Representative(members, nav.Position{X: 45, Y: 10, MapID: 4}))
	assert.Same(t, a, d.Representative(members, nav.Position{X: 12, Y: 10, MapID: 4}))
	// off-map members lose to any on-map member
	assert.Same(t, c, d.Representative(members, nav.Position{X: 11, Y: 10, MapID: 7}))
	// ties keep member order
	tie := entity("tie", nav.CategoryPortal, 30, 10, 4)
	assert.Same(t, a, d.Representative([]*nav.Entity{a, b}, nav.Position{X: 30, Y: 10, MapID: 4}))
	assert.Same(t, tie, d.Representative([]*nav.Entity{tie, a}, nav.Position{X: 20, Y: 10, MapID: 4}))
}

func TestRegionKey(t *testing.T) {
	r := NewRegion(20, nil, map[int16]string{4: "giran"})

	key, err := r.GroupKey(entity("a", nav.CategoryNpc, 35, 5, 4))
	require.NoError(t, err)
	assert.Equal(t, "giran:1:0:npc", key)

	key, err = r.GroupKey(entity("b", nav.CategoryNpc, -1, -20, 9))
	require.NoError(t, err)
	assert.Equal(t, "9:-1:-1:npc", key)

	key, err = r.GroupKey(entity("c", nav.CategoryNpc, -21, 19, 9))
	require.NoError(t, err)
	assert.Equal(t, "9:-2:0:npc", key)
}

func TestRegionCategoryFilter(t *testing.T) {
	r := NewRegion(0, []nav.Category{nav.CategoryItem}, nil)

	key, err := r.GroupKey(entity("npc", nav.CategoryNpc, 1, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, key)

	key, err = r.GroupKey(entity("item", nav.CategoryItem, 1, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, "1:0:0:item", key)
}

func TestRegionRepresentativeIgnoresObserver(t *testing.T) {
	r := NewRegion(20, nil, nil)
	a := entity("a", nav.CategoryNpc, 0, 0, 1)
	b := entity("b", nav.CategoryNpc, 10, 10, 1)
	c := entity("c", nav.CategoryNpc, 19, 19, 1)
	members := []*nav.Entity{a, b, c}

	assert.Same(t, b, r.Representative(members, nav.Position{X: 0, Y: 0, MapID: 1}))
	assert.Same(t, b, r.Representative(members, nav.Position{X: 19, Y: 19, MapID: 1}))
}

func TestLabelFoldsNames(t *testing.T) {
	l := NewLabel(nav.CategoryItem)

	k1, err := l.GroupKey(&nav.Entity{Category: nav.CategoryItem, Name: "Red Potion"})
	require.NoError(t, err)
	k2, err := l.GroupKey(&nav.Entity{Category: nav.CategoryItem, Name: " RED  potion "})
	require.NoError(t, err)
	assert.Equal(t, "item:red potion", k1)
	assert.Equal(t, k1, k2)

	k3, err := l.GroupKey(&nav.Entity{Category: nav.CategoryNpc, Name: "Red Potion"})
	require.NoError(t, err)
	assert.Empty(t, k3)

	k4, err := l.GroupKey(&nav.Entity{Category: nav.CategoryItem, Name: "   "})
	require.NoError(t, err)
	assert.Empty(t, k4)
}

func TestRegionGroupsInRegistry(t *testing.T) {
	arena := handle.NewArena()
	objs := map[handle.Handle]*nav.Entity{}
	var live []handle.Handle
	add := func(e *nav.Entity) {
		h := arena.Create()
		objs[h] = e
		live = append(live, h)
	}
	add(entity("orc", nav.CategoryNpc, 3, 3, 4))
	add(entity("orc archer", nav.CategoryNpc, 15, 2, 4))
	add(entity("guard", nav.CategoryNpc, 45, 2, 4))

	provider := nav.SnapshotFunc(func(context.Context) ([]handle.Handle, error) { return live, nil })
	factory := nav.FactoryFunc(func(_ context.Context, h handle.Handle) (*nav.Entity, error) {
		e := *objs[h]
		return &e, nil
	})
	reg := nav.New(provider, factory, nav.WithStrategies(NewRegion(20, nil, nil)))
	require.NoError(t, reg.ForceScan(context.Background()))

	v := reg.View()
	assert.Equal(t, 2, v.GroupCount())
	g, ok := v.Group("region", "4:0:0:npc")
	require.True(t, ok)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "orc", g.Representative(nav.Position{}).Name)
	require.NoError(t, reg.CheckInvariants())
}
