package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lai323/kanjidrill/db"
	"github.com/lai323/kanjidrill/kanji"
)

// KanjiModel renders a dataset entry as a card, with the user's stats for it
// when Stats is set.
type KanjiModel struct {
	Kanji kanji.Kanji
	Stats *db.KanjiStats
}

func level(k kanji.Kanji, system kanji.System) string {
	l, ok := k.Level(system)
	if !ok {
		return "-"
	}
	if system == kanji.JLPT {
		return "N" + strconv.Itoa(l)
	}
	return strconv.Itoa(l)
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func (m KanjiModel) View() string {
	k := m.Kanji
	var lines []string

	lines = append(lines,
		"",
		"  "+StyleKanji(k.Character)+"   "+StyleCount(fmt.Sprintf(
			"strokes %d  grade %s  freq %s  JLPT %s  WaniKani %s",
			k.Strokes, optional(k.Grade), optional(k.Freq), level(k, kanji.JLPT), level(k, kanji.WaniKani),
		)),
		"",
	)

	row := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		lines = append(lines, fmt.Sprintf("  %s %s", StylePart(fmt.Sprintf("%-12s", name)), StyleReading(kanji.Join(values))))
	}
	row("meanings", k.Meanings)
	row("on", k.ReadingsOn)
	row("kun", k.ReadingsKun)
	row("wk meanings", k.WKMeanings)
	row("wk on", k.WKReadingsOn)
	row("wk kun", k.WKReadingsKun)
	row("radicals", k.WKRadicals)

	if m.Stats != nil {
		lines = append(lines, "", "  "+StyleCount(fmt.Sprintf("seen %d times", m.Stats.TotalEncounters)))
		for _, system := range kanji.Systems {
			for _, d := range kanji.Drills {
				b := m.Stats.Bucket(system, d)
				lines = append(lines, fmt.Sprintf("  %-10s%-9s %s %s %s",
					system, d,
					StyleSuccess(fmt.Sprintf("right %-4d", b.Right)),
					StyleFail(fmt.Sprintf("wrong %-4d", b.Wrong)),
					StyleCount(fmt.Sprintf("streak %d", b.Streak)),
				))
			}
		}
	}
	return strings.Join(lines, "\n")
}

type HelpModel struct {
	Keyhelp [][]string
	Active  bool
}

func (m HelpModel) View() string {
	var text []string
	text = append(text, "")
	text = append(text, "")
	for _, info := range m.Keyhelp {
		k, help := info[0], info[1]
		text = append(text,
			Line(
				40,
				Cell{
					Width: 4,
				},
				Cell{
					Width: 8,
					Align: LeftAlign,
					Text:  StyleKey(k),
				},
				Cell{
					Align: LeftAlign,
					Text:  StyleKeyHelp(help),
				},
			))
	}
	return strings.Join(text, "\n")
}
