package main

import (
	"context"
	"fmt"

	"github.com/abelbrown/catalog/internal/logging"
	"github.com/abelbrown/catalog/internal/otel"
	"github.com/abelbrown/catalog/internal/store"
	"github.com/abelbrown/catalog/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// ringSize is how many recent events the debug overlay can show stats for.
const ringSize = 1024

func runTUI(cmd *cobra.Command, args []string) error {
	if err := logging.Init(cfg.Data.Dir, cfg.Log.Level); err != nil {
		return err
	}
	defer logging.Close()
	logging.Info("config loaded", "config", cfg.String())

	events, closeEvents, err := openEventLog(cfg.EventsPath())
	if err != nil {
		return err
	}
	defer closeEvents()

	ring := otel.NewRingBuffer(ringSize)
	events.SetRingBuffer(ring)
	events.Info(otel.KindStartup, "main", "catalog starting")

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer st.Close()
	logging.Info("store initialized", "path", cfg.DBPath())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := newClient(events)

	app := ui.NewAppWithConfig(ui.AppConfig{
		Fetch: ui.FetchFrom(client),
		LoadHistory: func() tea.Cmd {
			return func() tea.Msg {
				queries, err := st.RecentQueries(cfg.Data.HistoryLimit)
				return ui.HistoryLoaded{Queries: queries, Err: err}
			}
		},
		RecordSearch: func(query string) tea.Cmd {
			return func() tea.Msg {
				return ui.SearchRecorded{Query: query, Err: st.RecordSearch(query)}
			}
		},
		Context:            ctx,
		PageSize:           cfg.Browse.PageSize,
		Debounce:           cfg.Browse.Debounce,
		ScrollTopThreshold: cfg.Browse.ScrollTopThreshold,
		Obs:                ui.ObsConfig{Logger: events, Ring: ring},
	})

	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	logging.Info("starting UI")
	_, err = program.Run()
	events.Info(otel.KindShutdown, "main", "catalog exiting")
	if err != nil {
		logging.Error("application error", "err", err)
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
