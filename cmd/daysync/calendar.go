package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/freema/daysync/internal/calendar"
	"github.com/freema/daysync/internal/config"
	"github.com/freema/daysync/internal/logger"
)

func newICSToJSONCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ics-to-json FILE",
		Short: "Convert an ICS calendar to JSON next to the input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := calendar.ConvertICSFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted %s to %s\n", args[0], out)
			return nil
		},
	}
}

func newImportCommand(opts *serveOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a season from an ICS or JSON file into the calendar store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			id, races, err := importCalendar(ctx, cfg.Storage.Path, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d races from %s (import %s)\n", races, args[0], id)
			return nil
		},
	}
}

func importCalendar(ctx context.Context, dbPath, file string) (string, int, error) {
	cal, err := calendar.LoadFile(file)
	if err != nil {
		return "", 0, err
	}

	store, err := calendar.Open(ctx, dbPath)
	if err != nil {
		return "", 0, fmt.Errorf("opening calendar store: %w", err)
	}
	defer store.Close()

	id, err := store.Replace(ctx, cal)
	if err != nil {
		return "", 0, fmt.Errorf("importing %s: %w", file, err)
	}
	slog.Info("calendar imported", "file", file, "year", cal.Year, "races", len(cal.Races), "import_id", id)
	return id, len(cal.Races), nil
}
