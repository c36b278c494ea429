package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cyp0633/reprise/export"
	"github.com/cyp0633/reprise/internal/definition"
	"github.com/cyp0633/reprise/recurrence"
	"github.com/cyp0633/reprise/schedule"
	"github.com/spf13/cobra"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatICS  = "ics"
	formatXCal = "xcal"
)

type rootOptions struct {
	verbose bool
}

type occurrencesOptions struct {
	within      string
	overlapping string
	format      string
}

func newRootCommand() *cobra.Command {
	root := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "reprise",
		Short:         "Expand recurring schedules into concrete occurrences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&root.verbose, "verbose", "v", false, "log rule registration and query timings to stderr")

	cmd.AddCommand(newOccurrencesCommand(root), newCheckCommand(root))
	return cmd
}

func newOccurrencesCommand(root *rootOptions) *cobra.Command {
	opts := &occurrencesOptions{}
	cmd := &cobra.Command{
		Use:   "occurrences <file>",
		Short: "Print the occurrences of a schedule definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, root, args[0])
			if err != nil {
				return err
			}
			occs, err := opts.query(s)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), opts.format, occs, s.Location())
		},
	}
	cmd.Flags().StringVar(&opts.within, "within", "", "only occurrences contained within `start,end` (RFC 3339 or unix seconds)")
	cmd.Flags().StringVar(&opts.overlapping, "overlapping", "", "only occurrences overlapping `start,end` (RFC 3339 or unix seconds)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, ics or xcal")
	cmd.MarkFlagsMutuallyExclusive("within", "overlapping")
	return cmd
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a schedule definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, root, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules, %d exclusions, %s to %s (%s)\n",
				args[0], len(s.Rules()), len(s.Exclusions()),
				s.StartsAt().Format(time.RFC3339), s.EndsAt().Format(time.RFC3339), s.Location())
			return nil
		},
	}
}

func load(cmd *cobra.Command, root *rootOptions, path string) (*schedule.Schedule, error) {
	f, err := definition.Load(path)
	if err != nil {
		return nil, err
	}
	return f.Build(schedule.WithLogger(newLogger(cmd.ErrOrStderr(), root.verbose)))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *occurrencesOptions) query(s *schedule.Schedule) ([]recurrence.Occurrence, error) {
	switch {
	case o.within != "":
		start, end, err := parseRange(o.within)
		if err != nil {
			return nil, fmt.Errorf("--within: %w", err)
		}
		return s.OccurrencesContainedWithin(start, end), nil
	case o.overlapping != "":
		start, end, err := parseRange(o.overlapping)
		if err != nil {
			return nil, fmt.Errorf("--overlapping: %w", err)
		}
		return s.OccurrencesOverlappingWith(start, end), nil
	}
	return s.Occurrences(), nil
}

// parseRange reads "start,end" where each side is RFC 3339 or unix seconds.
func parseRange(value string) (int64, int64, error) {
	first, second, ok := strings.Cut(value, ",")
	if !ok {
		return 0, 0, fmt.Errorf("range %q is not start,end", value)
	}
	start, err := parseInstant(first)
	if err != nil {
		return 0, 0, err
	}
	end, err := parseInstant(second)
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("range %q ends before it starts", value)
	}
	return start, end, nil
}

func parseInstant(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("instant %q is neither RFC 3339 nor unix seconds", value)
	}
	return t.Unix(), nil
}

func write(w io.Writer, format string, occs []recurrence.Occurrence, loc *time.Location) error {
	switch format {
	case formatText:
		return writeText(w, occs, loc)
	case formatJSON:
		return export.WriteJSON(w, occs, loc)
	case formatICS:
		if len(occs) == 0 {
			return errors.New("no occurrences to write as iCalendar")
		}
		return export.WriteICS(w, occs, export.Options{Zone: loc})
	case formatXCal:
		return export.WriteXCal(w, occs, export.Options{Zone: loc})
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeText(w io.Writer, occs []recurrence.Occurrence, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range occs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			o.LocalStart(loc).Format(time.RFC3339), o.LocalEnd(loc).Format(time.RFC3339), o.Label.OrEmpty())
	}
	return tw.Flush()
}
