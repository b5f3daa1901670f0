package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rateio/internal/model"
)

func writeScenario(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadScenario_Formats(t *testing.T) {
	files := map[string]string{
		"s.toml": `
rate = 5.2
[allocation]
mode = "users"
target_users = 10

[[costs]]
name = "Render"
amount = 19
currency = "USD"
`,
		"s.yaml": `
rate: 5.2
allocation:
  mode: users
  target_users: 10
costs:
  - name: Render
    amount: 19
    currency: USD
`,
		"s.json": `{
  "rate": 5.2,
  "allocation": {"mode": "users", "target_users": 10},
  "costs": [{"name": "Render", "amount": 19, "currency": "USD"}]
}`,
	}

	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(writeScenario(t, name, body))
			require.NoError(t, err)
			require.NotNil(t, s.Rate)
			assert.Equal(t, 5.2, *s.Rate)
			require.NotNil(t, s.Allocation.Mode)
			assert.Equal(t, model.ModeUsers, *s.Allocation.Mode)
			require.NotNil(t, s.Allocation.TargetUsers)
			assert.Equal(t, 10, *s.Allocation.TargetUsers)
			assert.Nil(t, s.Allocation.TargetPercentage)
			require.Len(t, s.Costs, 1)
			assert.Equal(t, model.CostEntry{Name: "Render", Amount: 19, Currency: model.USD}, s.Costs[0])
		})
	}
}

func TestLoadScenario_Errors(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadScenario(t.TempDir())
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, "s.ini", "rate=1"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadScenario(writeScenario(t, "s.json", `{"costs":[{"currency":"EUR"}]}`))
	assert.Error(t, err)
}

func TestScenarioMerge(t *testing.T) {
	pct := 12.5
	s := Scenario{
		Allocation: ScenarioAllocation{TargetPercentage: &pct},
	}
	cfg := s.Merge(DefaultConfig())
	assert.Equal(t, 12.5, cfg.Allocation.TargetPercentage)
	assert.Equal(t, 50, cfg.Allocation.TargetUsers)
	assert.Equal(t, DefaultCosts(), cfg.Costs)

	s.Costs = []model.CostEntry{}
	cfg = s.Merge(DefaultConfig())
	assert.Empty(t, cfg.Costs)
}
