package drill

import (
	"math"

	"github.com/lai323/kanjidrill/kanji"
)

const XPPerLevel = 500

// BaseXP is the reward for a correct answer. Readings are worth a bit more.
func BaseXP(d kanji.Drill) int {
	if d == kanji.Reading {
		return 12
	}
	return 10
}

// XPFor returns the reward for one answer; a wrong answer still earns 15%.
func XPFor(d kanji.Drill, correct bool) int {
	base := BaseXP(d)
	if correct {
		return base
	}
	return int(math.RoundToEven(float64(base) * 0.15))
}

type Progress struct {
	Level    int
	Within   int
	PerLevel int
	Percent  int
}

func LevelProgress(xp int) Progress {
	if xp < 0 {
		xp = 0
	}
	within := xp % XPPerLevel
	return Progress{
		Level:    xp/XPPerLevel + 1,
		Within:   within,
		PerLevel: XPPerLevel,
		Percent:  within * 100 / XPPerLevel,
	}
}

// Fraction is Percent as 0..1, for progress bars.
func (p Progress) Fraction() float64 {
	return float64(p.Within) / float64(p.PerLevel)
}
