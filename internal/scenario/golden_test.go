package scenario

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, path := range paths {
		s, err := Load(path)
		require.NoError(t, err, path)

		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)

			g.Assert(t, s.Name, []byte(result.Text()))
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	s, err := Load("testdata/txn_rollback.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunFails(t *testing.T) {
	t.Run("initial value out of bounds", func(t *testing.T) {
		s, err := Parse([]byte(`
name: bad
vars:
  - name: x
    initial: 5
    max: 3
steps:
  - set: {var: x, value: 1}
`))
		require.NoError(t, err)

		_, err = Run(s)
		assert.ErrorContains(t, err, `var "x"`)
		assert.ErrorContains(t, err, "vars: invalid value: 5")
	})
}

func TestRunNestedTxn(t *testing.T) {
	s, err := Parse([]byte(`
name: nested
vars:
  - name: x
    initial: 0
listeners:
  - name: l
    target: x
    stream: completed
steps:
  - txn:
      steps:
        - set: {var: x, value: 1}
        - txn:
            fail: inner
            steps:
              - set: {var: x, value: 2}
        - set: {var: x, value: 3}
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)

	// the inner failure aborts the outer transaction too
	assert.Equal(t, []string{
		"txn begin",
		"  set x=1",
		"  txn begin",
		"    set x=2",
		"    fail inner",
		"txn rollback",
		"txn rollback",
		"txn aborted: inner",
	}, result.Trace)
	assert.Equal(t, []Value{{"x", 0}}, result.Final)
}
