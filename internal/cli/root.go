// Package cli implements the tend CLI commands.
package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/abelbrown/tend/internal/dispatch"
	"github.com/abelbrown/tend/internal/engine"
	"github.com/abelbrown/tend/internal/logging"
	"github.com/abelbrown/tend/internal/memory"
	"github.com/abelbrown/tend/internal/model"
	"github.com/abelbrown/tend/internal/notify"
	"github.com/abelbrown/tend/internal/providers"
	"github.com/abelbrown/tend/internal/scoring"
	"github.com/abelbrown/tend/internal/ui"
	streamview "github.com/abelbrown/tend/internal/ui/stream"
)

var dbPath string

// RootCmd is the top-level command. Running it with no subcommand
// launches the dashboard.
var RootCmd = &cobra.Command{
	Use:   "tend",
	Short: "A personal attention-stream dashboard",
	Long:  "Tend aggregates alerts, commitments, meetings and relationship reminders into one ranked attention stream.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Memory snapshot path (default: ~/.tend/memory.db; \"off\" disables persistence)")
}

func memoryDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tend", "memory.db")
}

// buildEngine wires the pipeline shared by the dashboard and the
// score command.
func buildEngine() (*engine.Engine, *memory.Tracker, providers.Set, func()) {
	tracker := memory.NewTracker()
	scorer := scoring.NewScorer(scoring.DefaultConfig())
	sources := providers.SampleSet(time.Now())

	cleanup := func() {}
	var opts []engine.Option
	if path := memoryDBPath(); path != "off" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			if store, err := memory.OpenStore(path); err == nil {
				opts = append(opts, engine.WithStore(store))
				cleanup = func() { store.Close() }
			} else {
				logging.Warn("cli: memory store unavailable, running session-only", "err", err)
			}
		}
	}

	eng := engine.New(sources, tracker, scorer, opts...)
	return eng, tracker, sources, cleanup
}

func runDashboard() error {
	if err := logging.Init(); err != nil {
		return err
	}
	defer logging.Close()

	eng, tracker, sources, cleanup := buildEngine()
	defer cleanup()

	notifier := notify.NewLogNotifier()
	navigator := notify.LogNavigator{}
	dispatcher := dispatch.New(tracker, notifier, sources.Commitments.Complete)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	view := streamview.New(
		func() tea.Cmd {
			return func() tea.Msg {
				cycle, err := eng.Refresh(ctx)
				return ui.CycleComplete{Selection: cycle.Selection, NextMeeting: cycle.NextMeeting, Err: err}
			}
		},
		func(action dispatch.Action, item model.Item) tea.Cmd {
			return func() tea.Msg {
				effect, err := dispatcher.Dispatch(action, item, time.Now())
				if err != nil {
					// Guarded-off actions are no-ops, not failures.
					logging.Debug("cli: dispatch rejected", "action", action, "err", err)
					err = nil
				}
				return ui.ActionDone{Effect: effect}
			}
		},
		func(item model.Item) tea.Cmd {
			return func() tea.Msg {
				if ev := item.Metadata().Evidence; len(ev) > 0 {
					navigator.Navigate(ev[0].Source)
				}
				return nil
			}
		},
	)

	program := tea.NewProgram(view, tea.WithAltScreen())
	eng.Start(ctx, program)

	_, err := program.Run()
	cancel()
	eng.Wait()
	return err
}
