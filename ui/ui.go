package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
)

func getElementWidth(widthTotal int, count int) (int, int) {
	if count == 0 {
		return 0, 0
	}
	remainder := widthTotal % count
	width := int(math.Floor(float64(widthTotal) / float64(count)))

	return width, remainder
}

type TextAlign int

const (
	LeftAlign TextAlign = iota
	RightAlign
	CenterAlign
)

func (ta TextAlign) String() string {
	return [...]string{"LeftAlign", "RightAlign", "CenterAlign"}[ta]
}

type Cell struct {
	Text  string
	Width int
	Align TextAlign
}

// Line lays cells out on one terminal row of the given width. Cells without
// a width share what is left. Widths are display columns, so kanji count 2.
func Line(width int, cells ...Cell) string {

	widthFlex := width
	var widthFlexCells []*int

	for i, cell := range cells {
		if cell.Width <= 0 {
			widthFlexCells = append(widthFlexCells, &cells[i].Width)
			continue
		}
		widthFlex -= cell.Width
	}
	if widthFlex < 0 {
		widthFlex = 0
	}

	widthWithoutRemainder, remainder := getElementWidth(widthFlex, len(widthFlexCells))
	for i := range widthFlexCells {

		*widthFlexCells[i] = widthWithoutRemainder
		if i < remainder {
			*widthFlexCells[i] = widthWithoutRemainder + 1
		}
	}

	var gridLine string
	for _, cell := range cells {
		textWidth := ansi.PrintableRuneWidth(cell.Text)
		if textWidth > cell.Width {
			cell.Text = Truncate(cell.Text, cell.Width)
			textWidth = ansi.PrintableRuneWidth(cell.Text)
		}
		pad := cell.Width - textWidth

		switch cell.Align {
		case RightAlign:
			gridLine += strings.Repeat(" ", pad) + cell.Text
		case CenterAlign:
			gridLine += strings.Repeat(" ", pad/2) + cell.Text + strings.Repeat(" ", pad-pad/2)
		default:
			gridLine += cell.Text + strings.Repeat(" ", pad)
		}
	}
	return gridLine

}

// Truncate cuts old to at most n display columns, dropping ANSI sequences
// once it has to cut. A wide rune that would overflow is left out.
func Truncate(old string, n int) string {
	var (
		new       string
		newlength int
		isansi    bool
	)
	if n <= 0 {
		return new
	}
	if ansi.PrintableRuneWidth(old) <= n {
		return old
	}
	for _, c := range old {
		if c == ansi.Marker {
			isansi = true
		} else if isansi {
			if ansi.IsTerminator(c) {
				isansi = false
			}
		} else {
			w := runewidth.RuneWidth(c)
			if newlength+w > n {
				return new
			}
			new += string(c)
			newlength += w
		}
	}
	return new
}

// Center pads text so it sits in the middle of width columns.
func Center(width int, text string) string {
	return Line(width, Cell{Text: text, Align: CenterAlign})
}

func Footer(width int) string {

	if width < 60 {
		return StyleLogo(" kanjidrill ")
	}

	t := time.Now()
	tstr := fmt.Sprintf("%s %02d:%02d:%02d", t.Weekday().String(), t.Hour(), t.Minute(), t.Second())

	return Line(
		width,
		Cell{
			Width: 14,
			Text:  StyleLogo(" kanjidrill "),
		},
		Cell{
			Width: 30,
			Text:  StyleHelp("ctrl+c:exit | ?:help"),
		},
		Cell{
			Text:  StyleHelp(tstr),
			Align: RightAlign,
		},
	)

}

// Bar draws a plain progress bar of width columns.
func Bar(width int, fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	full := int(math.Round(fraction * float64(width)))
	return strings.Repeat("█", full) + strings.Repeat("░", width-full)
}
