package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/theirongolddev/rateio/internal/cli"
	"github.com/theirongolddev/rateio/internal/daemon"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagWatchAddr         string
	flagWatchInterval     time.Duration
	flagWatchEventsBuffer int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the USD/BRL quote and serve the live breakdown over HTTP/SSE",
	RunE:  runWatch,
}

var watchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running watcher's status",
	RunE:  runWatchStatus,
}

func init() {
	watchCmd.PersistentFlags().StringVar(&flagWatchAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	watchCmd.Flags().DurationVar(&flagWatchInterval, "interval", 15*time.Minute, "Quote polling interval (minimum 1m)")
	watchCmd.Flags().IntVar(&flagWatchEventsBuffer, "events-buffer", 50, "Max in-memory rate change events retained")

	watchCmd.AddCommand(watchStatusCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if flagOffline {
		return errors.New("watch needs the quote API; drop --offline")
	}

	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := daemon.Config{
		Interval:     flagWatchInterval,
		Addr:         flagWatchAddr,
		EventsBuffer: flagWatchEventsBuffer,
		Entries:      s.ws.Entries(),
		Allocation:   s.ws.Settings(),
		InitialRate:  s.ws.Rate(),
		RateSource:   s.rateSource,
	}

	var svc *daemon.Service
	if s.cache != nil {
		svc = daemon.New(cfg, s.client, s.cache, s.log)
	} else {
		svc = daemon.New(cfg, s.client, nil, s.log)
	}

	progress("  rateio watch listening on http://%s\n", flagWatchAddr)
	progress("  Polling every %s\n", flagWatchInterval)
	progress("  Endpoints: /healthz, /v1/status, /v1/breakdown, /v1/events, /v1/stream\n")

	if err := svc.Run(cmd.Context()); err != nil {
		s.log.Error("watch stopped", zap.Error(err))
		return err
	}
	return nil
}

func runWatchStatus(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()

	url := fmt.Sprintf("http://%s/v1/status", flagWatchAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("watcher not reachable at %s: %w", flagWatchAddr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("watcher returned %s", resp.Status)
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}

	lastPoll := "never"
	if !st.LastPollAt.IsZero() {
		lastPoll = st.LastPollAt.Local().Format("02/01/2006 15:04:05")
	}
	rows := [][]string{
		{"Address", flagWatchAddr},
		{"Started", st.StartedAt.Local().Format("02/01/2006 15:04:05")},
		{"Last poll", lastPoll},
		{"Polls", cli.FormatNumber(st.PollCount)},
		{"Rate", cli.FormatRate(st.Summary.Rate) + " (" + st.RateSource + ")"},
		{"Monthly total", cli.FormatBRL(st.Summary.Total)},
		{"Per user", cli.FormatBRL(st.Summary.PerUser)},
		{"Events", cli.FormatNumber(int64(st.EventCount))},
		{"Subscribers", cli.FormatNumber(int64(st.SubscriberCount))},
	}
	if st.LastError != "" {
		rows = append(rows, []string{"Last error", st.LastError})
	}

	fmt.Println(cli.RenderTitle("RATEIO WATCH"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}))
	return nil
}
