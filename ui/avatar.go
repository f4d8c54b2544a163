package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	te "github.com/muesli/termenv"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

func LoadImage(fs afero.Fs, p string) (image.Image, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return img, nil
}

func hex(c interface{ RGBA() (r, g, b, a uint32) }) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Avatar draws img as cols x cols/2 terminal cells. Each cell is an upper
// half block carrying two pixels, foreground on top and background below.
func Avatar(img image.Image, cols int) string {
	if img == nil || cols <= 0 {
		return ""
	}
	rows := cols / 2
	if rows == 0 {
		rows = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	p := te.ColorProfile()
	var b strings.Builder
	for y := 0; y < rows*2; y += 2 {
		if y > 0 {
			b.WriteString("\n")
		}
		for x := 0; x < cols; x++ {
			s := p.String("▀").
				Foreground(p.Color(hex(dst.At(x, y)))).
				Background(p.Color(hex(dst.At(x, y+1))))
			b.WriteString(s.String())
		}
	}
	return b.String()
}
