// Package cmd implements the spent command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spent-dev/spent/internal/api"
	"github.com/spent-dev/spent/internal/config"
	"github.com/spent-dev/spent/internal/query"
	"github.com/spent-dev/spent/internal/session"
	"github.com/spent-dev/spent/internal/store"
)

var (
	flagAPIURL string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "spent",
	Short: "Track expenses from the terminal",
	Long:  "spent is a terminal client for an expense-tracking API: dashboard, expense list, and account management.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Expense API origin (overrides config and SPENT_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.SilenceUsage = true
}

// env is the shared wiring every command builds on: config, durable
// client state, the session store, the API client bound to it, and the
// read cache.
type env struct {
	cfg     config.Config
	state   *store.Store
	session *session.Store
	client  *api.Client
	cache   *query.Cache
}

func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.API.BaseURL = flagAPIURL
	}

	st, err := store.Open(config.StatePath())
	if err != nil {
		return nil, err
	}

	sess := session.New(st)
	client := api.NewClient(cfg.API.BaseURL, sess.TokenFunc())
	sess.Bind(client)

	return &env{
		cfg:     cfg,
		state:   st,
		session: sess,
		client:  client,
		cache:   query.New(),
	}, nil
}

func (e *env) close() {
	_ = e.state.Close()
}

// requireSession is the command-line route guard: it resolves the
// persisted token and refuses to proceed unauthenticated.
func requireSession(ctx context.Context, e *env) error {
	if err := e.session.Bootstrap(ctx); err != nil {
		return err
	}
	if !e.session.Authenticated() {
		return errors.New("not logged in; run `spent login` first")
	}
	return nil
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
