package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/export"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/worksheet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	quote model.Quote
	err   error
	calls int
}

func (f *fakeFetcher) FetchRate(context.Context) (model.Quote, error) {
	f.calls++
	return f.quote, f.err
}

type memCache struct{ saved []model.Quote }

func (c *memCache) SaveQuote(q model.Quote) error {
	c.saved = append(c.saved, q)
	return nil
}

// newTestApp builds an app over the default seed costs (total R$ 329,99 at 5,50).
func newTestApp(t *testing.T, f RateFetcher) App {
	t.Helper()
	cfg := config.DefaultConfig()
	ws := worksheet.New(cfg.General.DefaultRate, cfg.Allocation, cfg.Costs...)
	a := NewApp(Options{
		Worksheet: ws,
		Config:    cfg,
		Fetcher:   f,
		Cache:     &memCache{},
	})
	a.saveConfig = func(config.Config) error { return nil }
	a.width, a.height = 120, 40
	return a
}

func send(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	app, ok := m.(App)
	require.True(t, ok)
	return app, cmd
}

func keys(t *testing.T, a App, ks ...string) App {
	t.Helper()
	for _, k := range ks {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		a, _ = send(t, a, msg)
	}
	return a
}

func TestInitialBreakdown(t *testing.T) {
	a := newTestApp(t, nil)
	assert.InDelta(t, 329.99, a.breakdown.Total, 1e-9)
	assert.InDelta(t, 26.3992, a.breakdown.PerUser, 1e-9)
	assert.Equal(t, SourceDefault, a.rateSource)
}

func TestRateFetchFailureKeepsRate(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	a := newTestApp(t, f)

	a, cmd := send(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	assert.True(t, a.fetching)

	msg := fetchRateCmd(f)()
	fetched, ok := msg.(RateFetchedMsg)
	require.True(t, ok)
	require.Error(t, fetched.Err)

	a, _ = send(t, a, fetched)
	assert.False(t, a.fetching)
	assert.Equal(t, 5.50, a.ws.Rate())
	assert.InDelta(t, 329.99, a.breakdown.Total, 1e-9)
	assert.Contains(t, a.notice, "rate unchanged")
	assert.True(t, a.noticeErr)
	assert.Equal(t, SourceDefault, a.rateSource)
}

func TestRateFetchSuccessUpdatesRate(t *testing.T) {
	q := model.Quote{Pair: model.PairUSDBRL, Bid: 5.4, Ask: 5.4123, Rate: 5.41, FetchedAt: time.Now()}
	cache := &memCache{}
	a := newTestApp(t, &fakeFetcher{quote: q})
	a.cache = cache

	a, _ = send(t, a, RateFetchedMsg{Quote: q})
	assert.Equal(t, 5.41, a.ws.Rate())
	assert.InDelta(t, 20*5.41*2+109.99, a.breakdown.Total, 1e-9)
	assert.Equal(t, SourceLive, a.rateSource)
	require.Len(t, cache.saved, 1)
	assert.Equal(t, 5.41, cache.saved[0].Rate)
	assert.False(t, a.noticeErr)
}

func TestRateFetchRejectsNonPositiveQuote(t *testing.T) {
	a := newTestApp(t, &fakeFetcher{})
	a, _ = send(t, a, RateFetchedMsg{Quote: model.Quote{Rate: 0}})
	assert.Equal(t, 5.50, a.ws.Rate())
	assert.True(t, a.noticeErr)
}

func TestRateFetchOffline(t *testing.T) {
	a := newTestApp(t, nil)
	a, cmd := send(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
	assert.False(t, a.fetching)
	assert.Contains(t, a.notice, "offline")
}

func TestFetchOnStartCountsAsInFlight(t *testing.T) {
	f := &fakeFetcher{quote: model.Quote{Pair: model.PairUSDBRL, Rate: 5.60}}
	cfg := config.DefaultConfig()
	a := NewApp(Options{
		Worksheet:    worksheet.New(cfg.General.DefaultRate, cfg.Allocation, cfg.Costs...),
		Config:       cfg,
		Fetcher:      f,
		FetchOnStart: true,
	})
	a.saveConfig = func(config.Config) error { return nil }
	a.width, a.height = 120, 40

	assert.True(t, a.fetching)
	assert.NotNil(t, a.Init())

	// A second fetch is not started while the first is pending.
	a, cmd := send(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
	assert.True(t, a.fetching)

	a, _ = send(t, a, RateFetchedMsg{Quote: f.quote})
	assert.False(t, a.fetching)
	assert.Equal(t, 5.60, a.ws.Rate())
}

func TestToggleModeKey(t *testing.T) {
	a := newTestApp(t, nil)
	var saved config.Config
	a.saveConfig = func(c config.Config) error { saved = c; return nil }

	a = keys(t, a, "m")
	assert.Equal(t, model.ModeUsers, a.ws.Settings().Mode)
	assert.InDelta(t, 6.5998, a.breakdown.PerUser, 1e-9)
	assert.Equal(t, model.ModeUsers, saved.Allocation.Mode)

	a = keys(t, a, "m")
	assert.InDelta(t, 26.3992, a.breakdown.PerUser, 1e-9)
}

func TestCostsAddAndCancel(t *testing.T) {
	a := newTestApp(t, nil)
	a = keys(t, a, "c", "a")
	require.Len(t, a.breakdown.Entries, 4)
	assert.True(t, a.costs.editing)
	assert.Equal(t, 3, a.costs.cursor)

	a = keys(t, a, "esc")
	assert.False(t, a.costs.editing)
	assert.Equal(t, model.DefaultEntryName, a.breakdown.Entries[3].Entry.Name)
	assert.InDelta(t, 329.99, a.breakdown.Total, 1e-9)
}

func TestCostsEditAmount(t *testing.T) {
	a := newTestApp(t, nil)
	a = keys(t, a, "c", "j", "j", "enter")
	require.True(t, a.costs.editing)
	assert.Equal(t, worksheet.FieldAmount, a.costs.field)

	a.costs.input.SetValue("1.234,56")
	a = keys(t, a, "enter")
	assert.False(t, a.costs.editing)
	assert.Equal(t, 1234.56, a.breakdown.Entries[2].Entry.Amount)
	assert.InDelta(t, 220+1234.56, a.breakdown.Total, 1e-9)
}

func TestCostsEditName(t *testing.T) {
	a := newTestApp(t, nil)
	a = keys(t, a, "c", "n")
	a.costs.input.SetValue("Railway Pro")
	a = keys(t, a, "enter")
	assert.Equal(t, "Railway Pro", a.breakdown.Entries[0].Entry.Name)
}

func TestCostsDeleteAndToggleCurrency(t *testing.T) {
	a := newTestApp(t, nil)
	a = keys(t, a, "c", "t")
	assert.Equal(t, model.BRL, a.breakdown.Entries[0].Entry.Currency)
	assert.InDelta(t, 20+110+109.99, a.breakdown.Total, 1e-9)

	a = keys(t, a, "d")
	require.Len(t, a.breakdown.Entries, 2)
	assert.Equal(t, "Apple Developer fees", a.breakdown.Entries[0].Entry.Name)
	assert.InDelta(t, 110+109.99, a.breakdown.Total, 1e-9)

	a = keys(t, a, "G", "d", "d", "d")
	assert.Empty(t, a.breakdown.Entries)
	assert.Zero(t, a.breakdown.Total)
	assert.Zero(t, a.costs.cursor)
}

func TestSettingsRejectsInvalidRate(t *testing.T) {
	a := newTestApp(t, nil)
	a = keys(t, a, "s", "enter")
	require.True(t, a.settings.editing)

	a.settings.input.SetValue("abc")
	a = keys(t, a, "enter")
	assert.Equal(t, 5.50, a.ws.Rate())
	assert.True(t, a.noticeErr)

	a = keys(t, a, "enter")
	a.settings.input.SetValue("5,80")
	a = keys(t, a, "enter")
	assert.Equal(t, 5.80, a.ws.Rate())
	assert.Equal(t, SourceManual, a.rateSource)
	assert.Equal(t, 5.80, a.cfg.General.DefaultRate)
}

func TestExportKey(t *testing.T) {
	a := newTestApp(t, nil)
	var gotFormat export.Format
	a.exportFile = func(r export.Report, f export.Format, dir, base string) (string, error) {
		gotFormat = f
		assert.InDelta(t, 329.99, r.Breakdown.Total, 1e-9)
		return "/tmp/cost-report_20260101_120000.xls", nil
	}

	a, cmd := send(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	assert.True(t, a.exporting)

	a, _ = send(t, a, cmd())
	assert.Equal(t, export.FormatXLS, gotFormat)
	assert.False(t, a.exporting)
	assert.Contains(t, a.notice, "cost-report_20260101_120000.xls")
}

func TestExportFailure(t *testing.T) {
	a := newTestApp(t, nil)
	a, _ = send(t, a, ExportDoneMsg{Err: errors.New("disk full")})
	assert.True(t, a.noticeErr)
	assert.Contains(t, a.notice, "disk full")
}

func TestViewRendersEveryTab(t *testing.T) {
	a := newTestApp(t, nil)
	for _, tab := range []string{"o", "c", "s"} {
		a = keys(t, a, tab)
		out := a.View()
		assert.NotEmpty(t, out)
		assert.Len(t, strings.Split(out, "\n"), a.height, "tab %s", tab)
	}
	assert.Contains(t, keys(t, a, "o").View(), "Monthly Total")
}

func TestViewTooNarrow(t *testing.T) {
	a := newTestApp(t, nil)
	a.width = 60
	assert.Contains(t, a.View(), "too narrow")
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	v := SetupValuesFrom(cfg)
	assert.Equal(t, "5,50", v.Rate)

	v.Rate = "5,75"
	v.Mode = model.ModeUsers
	v.Users = "120"
	v.Percentage = "10"
	v.Theme = "gruvbox-dark"
	got := v.Apply(cfg)
	assert.Equal(t, 5.75, got.General.DefaultRate)
	assert.Equal(t, model.ModeUsers, got.Allocation.Mode)
	assert.Equal(t, 120, got.Allocation.TargetUsers)
	assert.Equal(t, 10.0, got.Allocation.TargetPercentage)
	assert.Equal(t, "gruvbox-dark", got.Appearance.Theme)

	v.Rate = "-1"
	v.Theme = "nope"
	got = v.Apply(cfg)
	assert.Equal(t, 5.50, got.General.DefaultRate)
	assert.Equal(t, "flexoki-dark", got.Appearance.Theme)
}

func TestFinishSetupAppliesToWorksheet(t *testing.T) {
	a := newTestApp(t, nil)
	a.setupVals.Rate = "6"
	a.setupVals.Mode = model.ModeUsers
	a.setupVals.Users = "10"
	a.finishSetup()

	assert.Equal(t, 6.0, a.ws.Rate())
	assert.InDelta(t, (20*6*2+109.99)/10, a.breakdown.PerUser, 1e-9)
	assert.False(t, a.noticeErr)
}
