package nav_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/navigator/internal/nav"
)

func TestEnableRegroupsStandaloneEntities(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawn("A", nav.CategoryPortal, "exit_5")
	w.spawn("B", nav.CategoryDoor, "exit_5")
	w.spawn("C", nav.CategoryPortal, "exit_7")
	w.spawn("E", nav.CategoryNpc, "")
	reg, rec := newRegistry(t, w)
	require.NoError(t, reg.ForceScan(ctx))
	assert.Equal(t, []string{"+A", "+B", "+C", "+E"}, rec.take())

	require.NoError(t, reg.EnableStrategy(dest))
	assert.Equal(t, []string{
		"-A", "-B", "+group dest/exit_5",
		"-C", "+group dest/exit_7",
	}, rec.take())

	g, ok := reg.View().Group("dest", "exit_5")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, memberNames(g))
	// category comes from the first-discovered member
	assert.Equal(t, nav.CategoryPortal, g.Category())
	assert.Equal(t, 3, reg.View().Len())

	// enabling again is a no-op
	require.NoError(t, reg.EnableStrategy(dest))
	assert.Empty(t, rec.take())
}

func TestDisableDissolvesOwnedGroups(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawn("A", nav.CategoryPortal, "exit_5")
	w.spawn("D", nav.CategoryPortal, "exit_5")
	reg, rec := newRegistry(t, w, nav.WithStrategies(dest))
	require.NoError(t, reg.ForceScan(ctx))
	rec.take()

	require.NoError(t, reg.DisableStrategy(dest))
	assert.Equal(t, []string{"-group dest/exit_5", "+A", "+D"}, rec.take())
	assert.Equal(t, 0, reg.View().GroupCount())
	assert.Equal(t, 2, reg.View().Len())

	ref, ok := reg.View().Lookup(w.byName["A"])
	require.True(t, ok)
	assert.False(t, ref.IsGroup())
	assert.Equal(t, "A", ref.Entity.Name)

	require.NoError(t, reg.DisableStrategy(dest))
	assert.Empty(t, rec.take())
	assert.Empty(t, reg.Strategies())
}

func TestReenableReproducesPartition(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	for _, o := range []struct{ name, target string }{
		{"A", "exit_5"}, {"B", "exit_7"}, {"C", "exit_5"},
		{"D", ""}, {"E", "exit_7"}, {"F", "exit_9"},
	} {
		w.spawn(o.name, nav.CategoryPortal, o.target)
	}
	reg, _ := newRegistry(t, w)
	require.NoError(t, reg.ForceScan(ctx))

	partition := func() map[string][]string {
		out := make(map[string][]string)
		reg.View().Each(func(ref nav.Ref) bool {
			if ref.IsGroup() {
				out[ref.Group.Key()] = memberNames(ref.Group)
			}
			return true
		})
		return out
	}

	require.NoError(t, reg.EnableStrategy(dest))
	first := partition()
	assert.Equal(t, map[string][]string{
		"exit_5": {"A", "C"},
		"exit_7": {"B", "E"},
		"exit_9": {"F"},
	}, first)

	require.NoError(t, reg.DisableStrategy(dest))
	require.NoError(t, reg.EnableStrategy(dest))
	assert.Equal(t, first, partition())
}

func TestLaterStrategiesHaveLowerPriority(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawn("cave-1", nav.CategoryPortal, "exit_5")
	w.spawn("cave-2", nav.CategoryPortal, "")
	reg, rec := newRegistry(t, w, nav.WithStrategies(dest, nameStrategy{name: "prefix"}))
	require.NoError(t, reg.ForceScan(ctx))
	assert.Equal(t, []string{"+group dest/exit_5", "+group prefix/cave"}, rec.take())

	names := make([]string, 0, 2)
	for _, s := range reg.Strategies() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"dest", "prefix"}, names)
}

func TestEnableOnlyTakesStandaloneEntities(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawn("cave-1", nav.CategoryPortal, "exit_5")
	w.spawn("cave-2", nav.CategoryPortal, "")
	reg, rec := newRegistry(t, w, nav.WithStrategies(dest))
	require.NoError(t, reg.ForceScan(ctx))
	rec.take()

	require.NoError(t, reg.EnableStrategy(nameStrategy{name: "prefix"}))
	assert.Equal(t, []string{"-cave-2", "+group prefix/cave"}, rec.take())

	g, ok := reg.View().Group("prefix", "cave")
	require.True(t, ok)
	assert.Equal(t, []string{"cave-2"}, memberNames(g))
}

func TestKeysAreNamespacedPerStrategy(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawn("p", nav.CategoryPortal, "x")
	w.spawn("x-1", nav.CategoryPortal, "")
	byTarget := targetStrategy{name: "s1"}
	byName := nameStrategy{name: "s2"}
	reg, rec := newRegistry(t, w, nav.WithStrategies(byTarget, byName))
	require.NoError(t, reg.ForceScan(ctx))
	assert.Equal(t, []string{"+group s1/x", "+group s2/x"}, rec.take())

	require.NoError(t, reg.DisableStrategy(byTarget))
	assert.Equal(t, []string{"-group s1/x", "+p"}, rec.take())

	g, ok := reg.View().Group("s2", "x")
	require.True(t, ok)
	assert.Equal(t, []string{"x-1"}, memberNames(g))
}

func TestNilStrategy(t *testing.T) {
	reg := nav.New(newFakeWorld(), newFakeWorld())
	assert.ErrorIs(t, reg.EnableStrategy(nil), nav.ErrNilStrategy)
	assert.ErrorIs(t, reg.DisableStrategy(nil), nav.ErrNilStrategy)
}

func TestRepresentativeDelegatesToOwner(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.spawnAt("A", nav.CategoryPortal, "exit_5", nav.Position{X: 0, Y: 0, MapID: 4})
	w.spawnAt("B", nav.CategoryPortal, "exit_5", nav.Position{X: 30, Y: 0, MapID: 4})
	reg, _ := newRegistry(t, w, nav.WithStrategies(dest))
	require.NoError(t, reg.ForceScan(ctx))

	g, ok := reg.View().Group("dest", "exit_5")
	require.True(t, ok)
	assert.Equal(t, "B", g.Representative(nav.Position{X: 25, Y: 1, MapID: 4}).Name)
	assert.Equal(t, "A", g.Representative(nav.Position{X: 2, Y: 1, MapID: 4}).Name)
}
