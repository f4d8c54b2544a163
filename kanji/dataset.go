package kanji

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

//go:embed kanji.json
var bundled []byte

type Dataset struct {
	entries []Kanji
	index   map[string]int
}

// Filter is a level selection for one drill.
type Filter struct {
	System System
	Drill  Drill
	Levels []int
}

// LevelCount is the number of entries tagged with one level.
type LevelCount struct {
	Level int
	Count int
}

func Bundled() (*Dataset, error) {
	return Load(bytes.NewReader(bundled))
}

func LoadFile(fs afero.Fs, path string) (*Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	ds, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	return ds, nil
}

// Open loads the dataset file at path, or the bundled one when path is empty.
func Open(fs afero.Fs, path string) (*Dataset, error) {
	if path == "" {
		return Bundled()
	}
	return LoadFile(fs, path)
}

func Load(r io.Reader) (*Dataset, error) {
	raw := map[string]Kanji{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	ds := &Dataset{index: map[string]int{}}
	for ch, k := range raw {
		k.Character = norm.NFC.String(strings.TrimSpace(ch))
		if k.Character == "" {
			continue
		}
		k.Meanings = clean(k.Meanings)
		k.ReadingsOn = clean(k.ReadingsOn)
		k.ReadingsKun = clean(k.ReadingsKun)
		k.WKMeanings = clean(k.WKMeanings)
		k.WKReadingsOn = clean(k.WKReadingsOn)
		k.WKReadingsKun = clean(k.WKReadingsKun)
		k.WKRadicals = clean(k.WKRadicals)
		ds.entries = append(ds.entries, k)
	}
	sort.Slice(ds.entries, func(i, j int) bool {
		return ds.entries[i].Character < ds.entries[j].Character
	})
	for i, k := range ds.entries {
		ds.index[k.Character] = i
	}
	return ds, nil
}

// clean trims and normalizes list values. A null list stays nil and any
// other list stays non-nil, even when nothing is left in it.
func clean(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, norm.NFC.String(v))
	}
	return out
}

func (d *Dataset) Len() int {
	return len(d.entries)
}

func (d *Dataset) Get(character string) (Kanji, bool) {
	i, ok := d.index[norm.NFC.String(strings.TrimSpace(character))]
	if !ok {
		return Kanji{}, false
	}
	return d.entries[i], true
}

func (d *Dataset) Filter(f Filter) []Kanji {
	if d == nil || len(d.entries) == 0 {
		return nil
	}
	if f.System != JLPT && f.System != WaniKani {
		return nil
	}
	if f.Drill != Meaning && f.Drill != Reading {
		return nil
	}
	levels := map[int]bool{}
	for _, l := range f.Levels {
		levels[l] = true
	}

	var out []Kanji
	for _, k := range d.entries {
		l, ok := k.Level(f.System)
		if !ok || !levels[l] {
			continue
		}
		if !k.Drillable(f.System, f.Drill) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (d *Dataset) MaxCount(f Filter) int {
	return len(d.Filter(f))
}

// Levels lists the levels present for a system, lowest first.
func (d *Dataset) Levels(system System) []LevelCount {
	counts := map[int]int{}
	for _, k := range d.entries {
		if l, ok := k.Level(system); ok {
			counts[l]++
		}
	}
	out := make([]LevelCount, 0, len(counts))
	for l, c := range counts {
		out = append(out, LevelCount{Level: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out
}
