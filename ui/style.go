package ui

import (
	te "github.com/muesli/termenv"
)

var (
	StyleLogo     = NewStyle("#ffc27d", "#f37329", true, false)
	StyleHelp     = NewStyle("#4e4e4e", "", true, false)
	StyleKey      = NewStyle("#ff5faf", "", true, false)
	StyleKeyHelp  = NewStyle("#B9BFCA", "", false, false)
	StyleKanji    = NewStyle("#ffffff", "", true, false)
	StyleMean     = NewStyle("#ffffff", "", false, false)
	StylePart     = NewStyle("#66C2CD", "", false, true)
	StyleReading  = NewStyle("#D290E4", "", false, false)
	StyleOption   = NewStyle("#B9BFCA", "", false, false)
	StyleCount    = NewStyle("#4e4e4e", "", false, false)
	StyleSuccess  = NewStyle("#87d787", "", true, false)
	StyleFail     = NewStyle("#ff5f5f", "", true, false)
	StyleUsername = NewStyle("#ffc27d", "", true, false)
)

func NewStyle(fg string, bg string, bold bool, italic bool) func(string) string {
	s := te.Style{}.Foreground(te.ColorProfile().Color(fg)).Background(te.ColorProfile().Color(bg))
	if bold {
		s = s.Bold()
	}
	if italic {
		s = s.Italic()
	}
	return s.Styled
}
