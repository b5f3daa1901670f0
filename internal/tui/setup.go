package tui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/tui/theme"
	"github.com/theirongolddev/rateio/internal/worksheet"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"
)

// SetupValues holds the answers of the first-run form. Numeric fields are
// kept as text so the form can show what the user typed.
type SetupValues struct {
	Rate       string
	Mode       model.AllocationMode
	Users      string
	Percentage string
	Theme      string
	AutoFetch  bool
}

// SetupValuesFrom pre-fills the form from an existing config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	th := cfg.Appearance.Theme
	if _, ok := theme.Lookup(th); !ok {
		th = theme.Default
	}
	return SetupValues{
		Rate:       cli.FormatDecimal(cfg.General.DefaultRate, 2),
		Mode:       cfg.Allocation.Mode,
		Users:      strconv.Itoa(cfg.Allocation.TargetUsers),
		Percentage: cli.FormatDecimal(cfg.Allocation.TargetPercentage, 2),
		Theme:      th,
		AutoFetch:  cfg.Quote.AutoFetch,
	}
}

// Apply writes the answers into cfg. A rate that does not coerce to a
// positive number keeps the configured one.
func (v SetupValues) Apply(cfg config.Config) config.Config {
	if r := worksheet.ParseNumber(v.Rate); r > 0 {
		cfg.General.DefaultRate = r
	}
	cfg.Allocation.Mode = v.Mode
	cfg.Allocation.TargetUsers = worksheet.ParseCount(v.Users)
	cfg.Allocation.TargetPercentage = worksheet.ParseNumber(v.Percentage)
	if _, ok := theme.Lookup(v.Theme); ok {
		cfg.Appearance.Theme = v.Theme
	}
	cfg.Quote.AutoFetch = v.AutoFetch
	return cfg
}

func validateRate(s string) error {
	if worksheet.ParseNumber(s) <= 0 {
		return errors.New("enter a positive rate, e.g. 5,50")
	}
	return nil
}

func validateUsers(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("enter a user count")
	}
	if worksheet.ParseCount(s) < 0 {
		return errors.New("user count cannot be negative")
	}
	return nil
}

// NewSetupForm builds the first-run form bound to vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to rateio!").
				Description("Split recurring infrastructure costs across your users.\n\n"+
					"Costs in US$ are converted to R$ with the USD/BRL rate.\n"+
					"These answers are saved to "+config.ConfigPath()+"."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Default exchange rate (R$ per US$)").
				Description("Used when no live quote is available.").
				Placeholder("5,50").
				Validate(validateRate).
				Value(&vals.Rate),
			huh.NewConfirm().
				Title("Fetch the live USD/BRL quote on startup?").
				Affirmative("Yes").
				Negative("No").
				Value(&vals.AutoFetch),
		),
		huh.NewGroup(
			huh.NewSelect[model.AllocationMode]().
				Title("Allocation mode").
				Options(
					huh.NewOption(model.ModePercentage.Label(), model.ModePercentage),
					huh.NewOption(model.ModeUsers.Label(), model.ModeUsers),
				).
				Value(&vals.Mode),
			huh.NewInput().
				Title("Target users").
				Placeholder("50").
				Validate(validateUsers).
				Value(&vals.Users),
			huh.NewInput().
				Title("Percentage charged per user").
				Placeholder("8").
				Value(&vals.Percentage),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// finishSetup persists the form answers and applies them to the session.
func (a *App) finishSetup() {
	a.cfg = a.setupVals.Apply(a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)

	st := a.cfg.Allocation
	a.ws.SetMode(st.Mode)
	a.ws.SetTargetUsers(st.TargetUsers)
	a.ws.SetTargetPercentage(st.TargetPercentage)
	if a.rateSource == SourceDefault {
		_ = a.ws.SetRate(a.cfg.General.DefaultRate)
	}
	a.recompute()

	if err := a.saveConfig(a.cfg); err != nil {
		a.log.Warn("setup: save config", zap.Error(err))
		a.setNotice("could not save config: "+err.Error(), true)
		return
	}
	a.setNotice("saved "+config.ConfigPath(), false)
}
