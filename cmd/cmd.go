package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lai323/kanjidrill/config"
	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/kanji"
	"github.com/lai323/kanjidrill/lookup"
	"github.com/lai323/kanjidrill/practice"
	"github.com/lai323/kanjidrill/profile"
	"github.com/spf13/cobra"
)

var (
	pracOpt    practice.Options
	countOpt   practice.Options
	profileOpt profile.Options
	statsOpt   statsOptions
	lookupOpt  lookup.Options
	limit      int
	update     bool

	drillCmd = &cobra.Command{
		Use:   "drill",
		Short: "start a multiple choice drill",
		Args:  cobra.NoArgs,
		RunE:  practice.Run(&cfg, fs, &pracOpt),
	}

	countCmd = &cobra.Command{
		Use:   "count",
		Short: "show how many cards a level selection holds",
		Args:  cobra.NoArgs,
		RunE:  practice.Count(&cfg, fs, &countOpt),
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "show or edit the profile",
		Args:  cobra.NoArgs,
		RunE:  profile.Run(&cfg, fs, &profileOpt),
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "per kanji answer stats",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "list finished drills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drilldb, err := db.NewBoltDrillDB(cfg.DbFile())
			if err != nil {
				return err
			}
			defer drilldb.Close()
			return db.SessionList(cmd.OutOrStdout(), drilldb, limit)
		},
	}

	lookupCmd = &cobra.Command{
		Use:   "lookup <kanji>",
		Short: "show a kanji card",
		Args:  cobra.ExactArgs(1),
		RunE:  lookup.Run(&cfg, fs, &lookupOpt),
	}

	datasetCmd = &cobra.Command{
		Use:   "dataset",
		Short: "show the kanji dataset in use, or download the full one",
		Args:  cobra.NoArgs,
		RunE:  runDataset,
	}
)

type statsOptions struct {
	System string
	Drill  string
	Clean  bool
	Import string
	Export string
}

func runStats(cmd *cobra.Command, args []string) error {
	drilldb, err := db.NewBoltDrillDB(cfg.DbFile())
	if err != nil {
		return err
	}
	defer drilldb.Close()
	out := cmd.OutOrStdout()

	switch {
	case statsOpt.Clean:
		if err := drilldb.StatsClean(); err != nil {
			return err
		}
		fmt.Fprintln(out, "stats cleaned")
		return nil
	case statsOpt.Import != "":
		n, err := db.StatsImport(fs, statsOpt.Import, drilldb)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported stats of %d kanji\n", n)
		return nil
	case statsOpt.Export != "":
		if err := db.StatsExport(fs, statsOpt.Export, drilldb); err != nil {
			return err
		}
		fmt.Fprintf(out, "stats exported to %s\n", statsOpt.Export)
		return nil
	}

	system, err := kanji.ParseSystem(config.GetStringOption(statsOpt.System, cfg.System))
	if err != nil {
		return err
	}
	d, err := kanji.ParseDrill(config.GetStringOption(statsOpt.Drill, cfg.Drill))
	if err != nil {
		return err
	}
	return db.StatsList(out, drilldb, system, d)
}

func runDataset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if update {
		if cfg.DatasetURL == "" {
			return errors.New("DatasetURL is not configured")
		}
		c, err := lookup.NewHTTPClient(cfg.Proxy, 2*time.Minute)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ds, err := kanji.Download(ctx, c, fs, cfg.DatasetURL, cfg.DatasetFile())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %d kanji to %s\n", ds.Len(), cfg.DatasetFile())
		if cfg.DatasetPath != "" {
			fmt.Fprintf(out, "DatasetPath %s is set and still takes precedence\n", cfg.DatasetPath)
		}
		return nil
	}

	p := cfg.Dataset(fs)
	ds, err := kanji.Open(fs, p)
	if err != nil {
		return err
	}
	if p == "" {
		p = "bundled subset"
	}
	fmt.Fprintf(out, "%s: %d kanji\n", p, ds.Len())
	for _, system := range kanji.Systems {
		levels := []string{}
		for _, l := range ds.Levels(system) {
			levels = append(levels, strconv.Itoa(l.Level)+":"+strconv.Itoa(l.Count))
		}
		fmt.Fprintf(out, "%-9s %s\n", system, strings.Join(levels, " "))
	}
	return nil
}

func selectionFlags(c *cobra.Command, opt *practice.Options) {
	c.Flags().StringVarP(&opt.System, "system", "s", "", "level system, JLPT or WaniKani")
	c.Flags().StringVarP(&opt.Drill, "drill", "d", "", "Meaning or Reading")
	c.Flags().IntSliceVarP(&opt.Levels, "level", "l", nil, "levels to draw from, repeatable")
}

func init() {
	selectionFlags(drillCmd, &pracOpt)
	drillCmd.Flags().IntVarP(&pracOpt.Count, "count", "n", 0, "number of cards")
	drillCmd.Flags().BoolVar(&pracOpt.Weak, "weak", false, "only kanji missed the last time")

	selectionFlags(countCmd, &countOpt)

	profileCmd.Flags().StringVar(&profileOpt.Name, "name", "", "set username")
	profileCmd.Flags().StringVar(&profileOpt.Avatar, "avatar", "", "set avatar image")
	profileCmd.Flags().StringVar(&profileOpt.Import, "import", "", "import profile.json")
	profileCmd.Flags().StringVar(&profileOpt.Export, "export", "", "export profile.json")

	statsCmd.Flags().StringVarP(&statsOpt.System, "system", "s", "", "level system, JLPT or WaniKani")
	statsCmd.Flags().StringVarP(&statsOpt.Drill, "drill", "d", "", "Meaning or Reading")
	statsCmd.Flags().BoolVar(&statsOpt.Clean, "clean", false, "delete all stats")
	statsCmd.Flags().StringVar(&statsOpt.Import, "import", "", "import kanji_stats.json")
	statsCmd.Flags().StringVar(&statsOpt.Export, "export", "", "export kanji_stats.json")

	historyCmd.Flags().IntVar(&limit, "limit", 10, "number of drills, 0 lists all")

	lookupCmd.Flags().BoolVar(&lookupOpt.Online, "online", false, "also fetch the online dictionary page")

	datasetCmd.Flags().BoolVar(&update, "update", false, "download the full dataset into the storage dir")

	rootCmd.AddCommand(drillCmd, countCmd, profileCmd, statsCmd, historyCmd, lookupCmd, datasetCmd)
}
