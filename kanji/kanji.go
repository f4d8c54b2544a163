// Package kanji loads the kanji dataset and selects drill cards from it.
package kanji

import (
	"fmt"
	"strings"
)

type System string

const (
	JLPT     System = "JLPT"
	WaniKani System = "WaniKani"
)

func ParseSystem(s string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jlpt":
		return JLPT, nil
	case "wanikani", "wk":
		return WaniKani, nil
	}
	return "", fmt.Errorf("unknown level system %q", s)
}

// Drill is the kind of knowledge a session tests.
type Drill string

const (
	Meaning Drill = "Meaning"
	Reading Drill = "Reading"
)

func ParseDrill(s string) (Drill, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meaning":
		return Meaning, nil
	case "reading":
		return Reading, nil
	}
	return "", fmt.Errorf("unknown drill %q", s)
}

var (
	Systems = []System{JLPT, WaniKani}
	Drills  = []Drill{Meaning, Reading}
)

// Kanji is one dataset entry. Field names follow the kanji-data json.
type Kanji struct {
	Character     string   `json:"-"`
	Strokes       int      `json:"strokes"`
	Grade         *int     `json:"grade"`
	Freq          *int     `json:"freq"`
	JLPTOld       *int     `json:"jlpt_old"`
	JLPTNew       *int     `json:"jlpt_new"`
	Meanings      []string `json:"meanings"`
	ReadingsOn    []string `json:"readings_on"`
	ReadingsKun   []string `json:"readings_kun"`
	WKLevel       *int     `json:"wk_level"`
	WKMeanings    []string `json:"wk_meanings"`
	WKReadingsOn  []string `json:"wk_readings_on"`
	WKReadingsKun []string `json:"wk_readings_kun"`
	WKRadicals    []string `json:"wk_radicals"`
}

func (k Kanji) Level(system System) (int, bool) {
	var l *int
	switch system {
	case JLPT:
		l = k.JLPTNew
	case WaniKani:
		l = k.WKLevel
	}
	if l == nil {
		return 0, false
	}
	return *l, true
}

func (k Kanji) MeaningsFor(system System) []string {
	if system == WaniKani {
		return k.WKMeanings
	}
	return k.Meanings
}

func (k Kanji) OnFor(system System) []string {
	if system == WaniKani {
		return k.WKReadingsOn
	}
	return k.ReadingsOn
}

func (k Kanji) KunFor(system System) []string {
	if system == WaniKani {
		return k.WKReadingsKun
	}
	return k.ReadingsKun
}

// Drillable reports whether the entry carries the fields a drill asks about.
// A field is missing only when it is null in the dataset; an empty list is
// present and renders as NoValue.
func (k Kanji) Drillable(system System, drill Drill) bool {
	switch drill {
	case Meaning:
		return k.MeaningsFor(system) != nil
	case Reading:
		return k.OnFor(system) != nil && k.KunFor(system) != nil
	}
	return false
}

// NoValue stands in for an empty list, e.g. a kanji without kun'yomi.
const NoValue = "-"

// Join renders a dataset list the way it is shown on a card.
func Join(values []string) string {
	if len(values) == 0 {
		return NoValue
	}
	return strings.Join(values, ", ")
}
