package db

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/lai323/kanjidrill/kanji"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"
)

func writeJSON(fs afero.Fs, p string, v interface{}) error {
	f, err := fs.Create(p)
	if err != nil {
		return fmt.Errorf("create %s: %w", p, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(fs afero.Fs, p string, v interface{}) error {
	data, err := afero.ReadFile(fs, p)
	if err != nil {
		return fmt.Errorf("read file %s: %w", p, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}
	return nil
}

func StatsExport(fs afero.Fs, p string, d DrillDB) error {
	stats, err := d.Stats()
	if err != nil {
		return err
	}
	return writeJSON(fs, p, stats)
}

// StatsImport replaces the stats of every kanji present in the file.
func StatsImport(fs afero.Fs, p string, d DrillDB) (int, error) {
	stats := map[string]KanjiStats{}
	if err := readJSON(fs, p, &stats); err != nil {
		return 0, err
	}
	n := 0
	for k, s := range stats {
		k = strings.TrimSpace(k)
		if k == "" {
			return n, fmt.Errorf("invalid kanji key in %s", p)
		}
		s.Kanji = k
		if err := d.StatsPut(s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func ProfileExport(fs afero.Fs, p string, d DrillDB) error {
	profile, err := d.ProfileGet()
	if err != nil {
		return err
	}
	return writeJSON(fs, p, profile)
}

func ProfileImport(fs afero.Fs, p string, d DrillDB) (Profile, error) {
	profile := DefaultProfile()
	if err := readJSON(fs, p, &profile); err != nil {
		return profile, err
	}
	profile.Username = strings.TrimSpace(profile.Username)
	if profile.Username == "" {
		profile.Username = DefaultUsername
	}
	return profile, d.ProfilePut(profile)
}

func cell(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, ""), w)
}

// StatsList prints one line per kanji, most encountered first.
func StatsList(w io.Writer, d DrillDB, system kanji.System, drill kanji.Drill) error {
	stats, err := d.Stats()
	if err != nil {
		return err
	}
	list := make([]KanjiStats, 0, len(stats))
	for _, s := range stats {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].TotalEncounters != list[j].TotalEncounters {
			return list[i].TotalEncounters > list[j].TotalEncounters
		}
		return list[i].Kanji < list[j].Kanji
	})

	fmt.Fprintf(w, "%s%-8s%-8s%-8s%-8s%s\n", cell("kanji", 8), "seen", "right", "wrong", "streak", "last")
	for _, s := range list {
		b := s.Bucket(system, drill)
		if b == nil {
			return ErrUnknownBucket
		}
		last := "-"
		if s.LastSeen > 0 {
			last = time.Unix(s.LastSeen, 0).Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s%-8d%-8d%-8d%-8d%s\n", cell(s.Kanji, 8), s.TotalEncounters, b.Right, b.Wrong, b.Streak, last)
	}
	return nil
}

func SessionList(w io.Writer, d DrillDB, limit int) error {
	sessions, err := d.Sessions(limit)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		levels := make([]string, 0, len(s.Levels))
		for _, l := range s.Levels {
			levels = append(levels, fmt.Sprint(l))
		}
		fmt.Fprintf(w, "%-18s%-10s%-9s%-10s%3d/%-4d%4d%%  +%dxp\n",
			s.StartedAt.Format("2006-01-02 15:04"),
			s.System, s.Drill, strings.Join(levels, ","),
			s.Correct, s.Total, s.Percent, s.XP)
		for _, r := range s.Wrong {
			fmt.Fprintf(w, "    %s  %s  (answered %s)\n", r.Kanji, r.Expected, r.Given)
		}
	}
	return nil
}
