package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/logging"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/quote"
	"github.com/theirongolddev/rateio/internal/store"
	"github.com/theirongolddev/rateio/internal/tui"
	"github.com/theirongolddev/rateio/internal/worksheet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagRate    float64
	flagMode    string
	flagUsers   int
	flagPercent float64
	flagFile    string
	flagAdd     []string
	flagOffline bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "rateio",
	Short: "Infrastructure cost split calculator",
	Long: "Convert recurring infrastructure costs to R$ with the USD/BRL rate,\n" +
		"total them, and work out what each user should pay.",
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "  warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64VarP(&flagRate, "rate", "r", 0, "Exchange rate in R$ per US$ (skips the live quote)")
	pf.StringVarP(&flagMode, "mode", "m", "", "Allocation mode: percentage or users")
	pf.IntVarP(&flagUsers, "users", "u", 0, "Target user count")
	pf.Float64VarP(&flagPercent, "percent", "p", 0, "Percentage of the total charged per user")
	pf.StringVarP(&flagFile, "file", "f", "", "Scenario file (toml, yaml or json)")
	pf.StringArrayVarP(&flagAdd, "add", "a", nil, "Extra cost as name:amount[:currency], repeatable")
	pf.BoolVar(&flagOffline, "offline", false, "Never call the quote API")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// openCache is swapped in tests.
var openCache = store.Open

// session is everything a command needs to compute a breakdown.
type session struct {
	cfg        config.Config // as stored on disk, without scenario or flags
	ws         *worksheet.Worksheet
	rateSource string
	quote      *model.Quote
	log        *zap.Logger
	client     *quote.Client // nil when offline
	cache      *store.Cache  // nil when the cache could not be opened
	fetchLater bool          // rate still open to a live quote
}

func (s *session) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	_ = s.log.Sync()
}

// openSession loads config, the scenario file and flags into a worksheet,
// then settles the starting rate. With fetch set, a live quote is fetched
// synchronously when nothing higher ranked pins the rate.
//
// Rate precedence: --rate, scenario rate, live quote, cached quote, config.
func openSession(cmd *cobra.Command, fetch bool) (_ *session, err error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", config.ConfigPath(), err)
	}

	log, _, err := logging.New(logging.Config{
		Level: config.GetLogLevel(cfg),
		File:  config.LogPath(cfg),
	})
	if err != nil {
		progress("  Logging disabled: %v\n", err)
		log = logging.Nop()
	}

	s := &session{cfg: cfg, log: log, rateSource: tui.SourceDefault}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	working := cfg
	var sc config.Scenario
	if flagFile != "" {
		sc, err = config.LoadScenario(flagFile)
		if err != nil {
			return nil, err
		}
		working = sc.Merge(working)
	}
	if err := applyAllocationFlags(cmd, &working.Allocation); err != nil {
		return nil, err
	}

	s.ws = worksheet.New(cfg.General.DefaultRate, working.Allocation, working.Costs...)
	for _, raw := range flagAdd {
		e, err := parseAddFlag(raw)
		if err != nil {
			return nil, err
		}
		s.ws.AddEntry(e.Name, e.Amount, e.Currency)
	}

	if !flagOffline {
		s.client = quote.NewClient(quote.Options{
			BaseURL: config.GetQuoteURL(cfg),
			Timeout: time.Duration(cfg.Quote.TimeoutSec) * time.Second,
			Logger:  log,
		})
	}
	if c, err := openCache(config.CachePath()); err != nil {
		log.Warn("quote cache unavailable", zap.Error(err))
	} else {
		s.cache = c
	}

	switch {
	case cmd.Flags().Changed("rate"):
		if err := s.ws.SetRate(flagRate); err != nil {
			return nil, fmt.Errorf("--rate %v: %w", flagRate, err)
		}
		s.rateSource = tui.SourceFlag
		return s, nil
	case sc.Rate != nil:
		if err := s.ws.SetRate(*sc.Rate); err != nil {
			return nil, fmt.Errorf("scenario %s rate: %w", flagFile, err)
		}
		s.rateSource = tui.SourceScenario
		return s, nil
	}

	s.fetchLater = s.client != nil && cfg.Quote.AutoFetch
	if fetch && s.fetchLater {
		if err := s.fetchRate(cmd.Context()); err == nil {
			s.fetchLater = false
			return s, nil
		}
	}

	s.useCachedRate()
	return s, nil
}

// fetchRate fetches a live quote, applies it and caches it.
func (s *session) fetchRate(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("offline")
	}
	progress("  Fetching USD/BRL quote...\n")
	q, err := s.client.FetchRate(ctx)
	if err != nil {
		s.log.Warn("rate fetch failed", zap.Error(err))
		progress("  Quote unavailable (%v), rate unchanged\n", err)
		return err
	}
	if err := s.ws.SetRate(q.Rate); err != nil {
		return err
	}
	s.quote = &q
	s.rateSource = tui.SourceLive
	if s.cache != nil {
		if err := s.cache.SaveQuote(q); err != nil {
			s.log.Warn("cache quote", zap.Error(err))
		}
	}
	return nil
}

func (s *session) useCachedRate() {
	if s.cache == nil {
		return
	}
	q, found, err := s.cache.LastQuote(model.PairUSDBRL)
	if err != nil {
		s.log.Warn("read cached quote", zap.Error(err))
		return
	}
	if !found || s.ws.SetRate(q.Rate) != nil {
		return
	}
	s.quote = &q
	s.rateSource = tui.SourceCached
}

func applyAllocationFlags(cmd *cobra.Command, st *model.AllocationSettings) error {
	f := cmd.Flags()
	if f.Changed("mode") {
		m, err := model.ParseAllocationMode(flagMode)
		if err != nil {
			return err
		}
		st.Mode = m
	}
	if f.Changed("users") {
		if flagUsers < 0 {
			return fmt.Errorf("--users must not be negative, got %d", flagUsers)
		}
		st.TargetUsers = flagUsers
		if !f.Changed("mode") {
			st.Mode = model.ModeUsers
		}
	}
	if f.Changed("percent") {
		st.TargetPercentage = flagPercent
		if !f.Changed("mode") && !f.Changed("users") {
			st.Mode = model.ModePercentage
		}
	}
	return nil
}

// parseAddFlag parses "name:amount[:currency]". The name may itself contain
// colons; currency defaults to BRL.
func parseAddFlag(raw string) (model.CostEntry, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return model.CostEntry{}, fmt.Errorf("--add %q: want name:amount[:currency]", raw)
	}

	cur := model.BRL
	if len(parts) >= 3 {
		if c, err := model.ParseCurrency(parts[len(parts)-1]); err == nil {
			cur = c
			parts = parts[:len(parts)-1]
		}
	}

	amount := parts[len(parts)-1]
	name := strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	if name == "" {
		name = model.DefaultEntryName
	}
	return model.CostEntry{
		Name:     name,
		Amount:   worksheet.ParseNumber(amount),
		Currency: cur,
	}, nil
}

// progress writes to stderr unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
