package replay

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestScenarioTraces(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			sc, err := Load(path)
			require.NoError(t, err)

			tr, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, tr.WriteText(&buf))

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, buf.Bytes())
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	sc, err := Load("testdata/scenarios/toggle.yaml")
	require.NoError(t, err)

	first, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWriteYAML(t *testing.T) {
	tr := &Trace{Scenario: "tiny", Steps: []StepTrace{
		{Action: "objects (1)", Events: []string{"+orc"}, State: []string{"npc orc (1,1)@4"}},
		{Action: "scan"},
	}}
	var buf bytes.Buffer
	require.NoError(t, tr.WriteYAML(&buf))

	var back Trace
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "tiny", back.Scenario)
	require.Len(t, back.Steps, 2)
	assert.Equal(t, []string{"+orc"}, back.Steps[0].Events)
	assert.NotContains(t, buf.String(), "events: []")
}

func TestParseRejectsBadScenarios(t *testing.T) {
	cases := map[string]string{
		"no name":     "steps: [{scan: true}]",
		"two actions": "name: x\nsteps: [{scan: true, enable: destination}]",
		"no action":   "name: x\nsteps: [{}]",
		"bad kind":    "name: x\nsteps: [{objects: [{id: 1, kind: dragon}]}]",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestEmptyObjectListClearsWorld(t *testing.T) {
	sc, err := Parse([]byte(`
name: clear
steps:
  - objects: [{id: 1, kind: npc, name: orc}]
  - objects: []
`))
	require.NoError(t, err)
	tr, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, tr.Steps, 2)
	assert.Equal(t, "objects (0)", tr.Steps[1].Action)
	assert.Equal(t, []string{"-orc"}, tr.Steps[1].Events)
	assert.Empty(t, tr.Steps[1].State)
}

func TestRunReportsUnknownStrategy(t *testing.T) {
	sc := &Scenario{Name: "x", Steps: []Step{{Enable: "teleport"}}}
	_, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 1 (enable teleport)")
	assert.Contains(t, err.Error(), "destination, label, region")

	_, err = Run(context.Background(), &Scenario{Name: "x", Strategies: []string{"nope"}}, DefaultCatalog(), zap.NewNop())
	assert.Error(t, err)
}

func TestMoveUnknownObject(t *testing.T) {
	sc := &Scenario{Name: "x", Steps: []Step{{Move: &Move{ID: 9}}}}
	_, err := Run(context.Background(), sc, DefaultCatalog(), zap.NewNop())
	assert.ErrorContains(t, err, "no object 9")
}
