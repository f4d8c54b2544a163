package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lai323/kanjidrill/config"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/lai323/kanjidrill/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type Options struct {
	Online bool
}

func (e Entry) View() string {
	var lines []string
	lines = append(lines, "  "+ui.StyleKanji(e.Character)+"   "+ui.StyleCount(e.URL))
	row := func(name, value string) {
		if value == "" {
			return
		}
		lines = append(lines, fmt.Sprintf("  %s %s", ui.StylePart(fmt.Sprintf("%-12s", name)), ui.StyleReading(value)))
	}
	row("meanings", kanji.Join(e.Meanings))
	row("kun", strings.Join(e.Kun, "、"))
	row("on", strings.Join(e.On, "、"))
	if e.Strokes > 0 {
		row("strokes", fmt.Sprint(e.Strokes))
	}
	row("jlpt", e.JLPT)
	row("grade", e.Grade)
	row("frequency", e.Frequency)
	return strings.Join(lines, "\n")
}

// card renders the dataset entry with the user's stats. Stats are skipped
// when the store is busy.
func card(dbfile string, k kanji.Kanji) string {
	m := ui.KanjiModel{Kanji: k}
	drilldb, err := db.NewBoltDrillDB(dbfile)
	if err != nil {
		slog.Warn("stats not shown", "err", err)
		return m.View()
	}
	defer drilldb.Close()
	s, err := drilldb.StatsGet(k.Character)
	if err != nil {
		slog.Warn("stats not shown", "err", err)
	} else if s.TotalEncounters > 0 {
		m.Stats = &s
	}
	return m.View()
}

func online(ctx context.Context, w io.Writer, c Client, character string) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	e, err := c.Lookup(ctx, character)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, e.View())
	return nil
}

func Run(cfg *config.Config, fs afero.Fs, options *Options) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Only one kanji can be looked up at a time")
		}
		character := args[0]
		ds, err := kanji.Open(fs, cfg.Dataset(fs))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		k, found := ds.Get(character)
		if found {
			fmt.Fprintln(out, card(cfg.DbFile(), k))
		}
		if !options.Online {
			if !found {
				return fmt.Errorf("%s: %w, try --online", character, ErrNotFound)
			}
			return nil
		}

		c, err := NewJishoClient(cfg.LookupURL, cfg.Proxy)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return online(ctx, out, c, character)
	}
}
