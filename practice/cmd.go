package practice

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lai323/kanjidrill/config"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/drill"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type Options struct {
	System string
	Drill  string
	Levels []int
	Count  int
	Weak   bool
}

// mergeSettings applies the command line options over the config.
func mergeSettings(cfg config.Config, options Options) (drill.Settings, error) {
	system, err := kanji.ParseSystem(config.GetStringOption(options.System, cfg.System))
	if err != nil {
		return drill.Settings{}, err
	}
	d, err := kanji.ParseDrill(config.GetStringOption(options.Drill, cfg.Drill))
	if err != nil {
		return drill.Settings{}, err
	}
	levels := options.Levels
	if len(levels) == 0 {
		levels = cfg.JLPTLevels
		if system == kanji.WaniKani {
			levels = cfg.WaniKaniLevels
		}
	}
	s := drill.Settings{
		System: system,
		Drill:  d,
		Levels: levels,
		Count:  config.GetIntOption(options.Count, cfg.Count),
	}
	return s, s.Validate()
}

// Pool filters the dataset for settings. In weak mode only kanji missed the
// last time they were asked stay in the pool.
func Pool(ds *kanji.Dataset, drilldb db.DrillDB, settings drill.Settings, weak bool) ([]kanji.Kanji, error) {
	pool := ds.Filter(settings.Filter())
	if !weak {
		return pool, nil
	}
	stats, err := drilldb.Stats()
	if err != nil {
		return nil, err
	}
	return WeakPool(pool, stats, settings.System, settings.Drill), nil
}

func Run(cfg *config.Config, fs afero.Fs, options *Options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		settings, err := mergeSettings(*cfg, *options)
		if err != nil {
			return err
		}
		ds, err := kanji.Open(fs, cfg.Dataset(fs))
		if err != nil {
			return err
		}
		drilldb, err := db.NewBoltDrillDB(cfg.DbFile())
		if err != nil {
			return err
		}
		defer drilldb.Close()

		pool, err := Pool(ds, drilldb, settings, options.Weak)
		if err != nil {
			return err
		}
		session, err := drill.Start(pool, settings, nil)
		if err != nil {
			return withDatasetHint(err, cfg.Dataset(fs) == "")
		}
		slog.Info("drill started",
			"session", session.ID,
			"system", settings.System,
			"drill", settings.Drill,
			"levels", settings.Levels,
			"cards", session.Total(),
			"weak", options.Weak,
		)

		summary, err := Start(session, drilldb, time.Duration(cfg.FeedbackDelay)*time.Millisecond)
		if err != nil {
			return err
		}
		if summary.Total > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d correct (%d%%), +%dxp\n", summary.Correct, summary.Total, summary.Percent, summary.XP)
		}
		return nil
	}
}

// withDatasetHint points at the full dataset when a selection comes up short
// on the bundled subset.
func withDatasetHint(err error, bundled bool) error {
	if !bundled || !(errors.Is(err, drill.ErrNoCards) || errors.Is(err, drill.ErrNotEnoughCards)) {
		return err
	}
	return fmt.Errorf("%w (the bundled dataset is a subset, run kanjidrill dataset --update for every level)", err)
}

// CountList prints how many cards a selection holds. Without levels every
// level of the system is listed.
func CountList(w io.Writer, ds *kanji.Dataset, settings drill.Settings, all bool) {
	if !all {
		available := ds.MaxCount(settings.Filter())
		fmt.Fprintf(w, "%s %s level %s: %d cards\n", settings.System, settings.Drill, joinLevels(settings.Levels), available)
		return
	}
	prefix := ""
	if settings.System == kanji.JLPT {
		prefix = "N"
	}
	for _, l := range ds.Levels(settings.System) {
		f := kanji.Filter{System: settings.System, Drill: settings.Drill, Levels: []int{l.Level}}
		fmt.Fprintf(w, "%-6s%-6d%d\n", prefix+strconv.Itoa(l.Level), ds.MaxCount(f), l.Count)
	}
}

func joinLevels(levels []int) string {
	s := make([]string, 0, len(levels))
	for _, l := range levels {
		s = append(s, strconv.Itoa(l))
	}
	return strings.Join(s, ",")
}

func Count(cfg *config.Config, fs afero.Fs, options *Options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		settings, err := mergeSettings(*cfg, *options)
		if err != nil {
			return err
		}
		ds, err := kanji.Open(fs, cfg.Dataset(fs))
		if err != nil {
			return err
		}
		CountList(cmd.OutOrStdout(), ds, settings, len(options.Levels) == 0)
		return nil
	}
}
