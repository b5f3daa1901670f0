package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/config"
	"github.com/theirongolddev/rateio/internal/model"
	"github.com/theirongolddev/rateio/internal/quote"
	"github.com/theirongolddev/rateio/internal/store"
	"github.com/theirongolddev/rateio/internal/tui"

	"github.com/spf13/cobra"
)

var flagClearCache bool

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Fetch the current USD/BRL quote and cache it",
	Long: "Fetch the current USD/BRL quote from the quote API and remember it as\n" +
		"the offline fallback. With --offline, show the cached quote instead.",
	RunE: runRate,
}

func init() {
	rateCmd.Flags().BoolVar(&flagClearCache, "clear-cache", false, "Forget the cached quote")
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, _ []string) error {
	if flagClearCache {
		cache, err := store.Open(config.CachePath())
		if err != nil {
			return err
		}
		defer cache.Close()
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Println("  Cached quote cleared.")
		return nil
	}

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.client != nil {
		if err := s.fetchRate(cmd.Context()); err != nil {
			switch {
			case errors.Is(err, quote.ErrRateLimited):
				return errors.New("rate limited by the quote API, try again in a minute")
			case errors.Is(err, quote.ErrUnavailable):
				return errors.New("quote API unavailable, try again later")
			}
			return fmt.Errorf("fetch failed: %w", err)
		}
	} else {
		s.useCachedRate()
		if s.rateSource != tui.SourceCached {
			fmt.Println("\n  Offline and no cached quote.")
			return nil
		}
	}

	q := s.quote
	fmt.Println()
	fmt.Println(cli.RenderTitle("USD/BRL  " + cli.FormatRate(q.Rate)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Pair", q.Pair},
			{"Bid", cli.FormatMoney(q.Bid, model.BRL)},
			{"Ask", cli.FormatMoney(q.Ask, model.BRL)},
			{"Rate (ask, 2 dp)", cli.FormatRate(q.Rate)},
			{"---"},
			{"Quoted at", q.QuotedAt.Local().Format("02/01/2006 15:04:05")},
			{"Fetched at", q.FetchedAt.Local().Format("02/01/2006 15:04:05")},
			{"Source", s.rateSource},
		},
	}))
	return nil
}
