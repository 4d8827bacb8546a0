package colormap

import (
	"fmt"
	"image/color"
	"math"

	ggpalette "github.com/aclements/go-gg/palette"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// brewerNames holds the ColorBrewer scheme name and the largest number of
// classes it is defined for.
var brewerNames = map[Name]struct {
	scheme  string
	classes int
}{
	Blues:  {"Blues", 9},
	YlGnBu: {"YlGnBu", 9},
	RdBu:   {"RdBu", 11},
	PiYG:   {"PiYG", 11},
}

// plasmaControls samples the plasma colour map at nine evenly spaced points.
var plasmaControls = []color.Color{
	color.RGBA{R: 13, G: 8, B: 135, A: 255},
	color.RGBA{R: 76, G: 2, B: 161, A: 255},
	color.RGBA{R: 126, G: 3, B: 168, A: 255},
	color.RGBA{R: 169, G: 35, B: 149, A: 255},
	color.RGBA{R: 204, G: 71, B: 120, A: 255},
	color.RGBA{R: 230, G: 108, B: 92, A: 255},
	color.RGBA{R: 248, G: 149, B: 64, A: 255},
	color.RGBA{R: 253, G: 197, B: 39, A: 255},
	color.RGBA{R: 240, G: 249, B: 33, A: 255},
}

// ColorMap returns a new colour map for the palette covering the range
// [0, 1], with the colour for the lowest value at 0.
func (n Name) ColorMap() (palette.ColorMap, error) {
	var cm palette.ColorMap
	switch n {
	case Viridis:
		cm = &continuousMap{c: ggpalette.Viridis}
	case Plasma:
		l, err := moreland.NewLuminance(plasmaControls)
		if err != nil {
			return nil, fmt.Errorf("colormap: %v: %v", n, err)
		}
		cm = l
	case Blues, YlGnBu:
		// Sequential schemes get darker with increasing value, so the
		// luminance map is built on the reversed scheme and flipped back.
		cs, err := brewerColors(n)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
			cs[i], cs[j] = cs[j], cs[i]
		}
		l, err := moreland.NewLuminance(cs)
		if err != nil {
			return nil, fmt.Errorf("colormap: %v: %v", n, err)
		}
		cm = palette.Reverse(l)
	case RdBu, PiYG:
		cs, err := brewerColors(n)
		if err != nil {
			return nil, err
		}
		g := make(gradient, len(cs))
		for i, c := range cs {
			g[i] = color.RGBAModel.Convert(c).(color.RGBA)
		}
		cm = &continuousMap{c: g}
	default:
		return nil, fmt.Errorf("colormap: no palette for %v", n)
	}
	cm.SetMax(1)
	cm.SetMin(0)
	cm.SetAlpha(1)
	return cm, nil
}

func brewerColors(n Name) ([]color.Color, error) {
	b := brewerNames[n]
	p, err := brewer.GetPalette(brewer.TypeAny, b.scheme, b.classes)
	if err != nil {
		return nil, fmt.Errorf("colormap: %v: %v", n, err)
	}
	return append([]color.Color(nil), p.Colors()...), nil
}

// Palette returns k colours sampled evenly from the palette, ordered
// from the lowest value to the highest.
func (n Name) Palette(k int) (palette.Palette, error) {
	if k < 2 {
		return nil, fmt.Errorf("colormap: palette needs at least 2 colors, not %d", k)
	}
	cm, err := n.ColorMap()
	if err != nil {
		return nil, err
	}
	return cm.Palette(k), nil
}

// Mid returns the colour in the middle of the palette.
func (n Name) Mid() (color.Color, error) {
	cm, err := n.ColorMap()
	if err != nil {
		return nil, err
	}
	return cm.At(0.5)
}

// continuousMap adapts a function from [0, 1] to colours to
// palette.ColorMap.
type continuousMap struct {
	c               ggpalette.Continuous
	min, max, alpha float64
}

func (m *continuousMap) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < m.min:
		return nil, palette.ErrUnderflow
	case v > m.max:
		return nil, palette.ErrOverflow
	}
	x := 0.
	if m.max > m.min {
		x = (v - m.min) / (m.max - m.min)
	}
	c := color.NRGBAModel.Convert(m.c.Map(x)).(color.NRGBA)
	c.A = uint8(math.Round(m.alpha * float64(c.A)))
	return c, nil
}

func (m *continuousMap) Max() float64 { return m.max }
func (m *continuousMap) SetMax(v float64) { m.max = v }
func (m *continuousMap) Min() float64 { return m.min }
func (m *continuousMap) SetMin(v float64) { m.min = v }
func (m *continuousMap) Alpha() float64 { return m.alpha }
func (m *continuousMap) SetAlpha(a float64) { m.alpha = a }

// Palette returns n colours evenly spaced over [Min, Max].
func (m *continuousMap) Palette(n int) palette.Palette {
	cs := make(sampled, n)
	for i := range cs {
		x := 0.
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		c, err := m.At(m.min + x*(m.max-m.min))
		if err != nil {
			c = m.c.Map(x)
		}
		cs[i] = c
	}
	return cs
}

// sampled is a fixed list of colours.
type sampled []color.Color

func (s sampled) Colors() []color.Color { return s }

// gradient interpolates linearly between evenly spaced control colours.
// It is used for the diverging schemes, whose luminance rises then falls.
type gradient []color.RGBA

func (g gradient) Map(x float64) color.Color {
	switch {
	case math.IsNaN(x) || x <= 0:
		return g[0]
	case x >= 1:
		return g[len(g)-1]
	}
	pos := x * float64(len(g)-1)
	i := int(pos)
	if i >= len(g)-1 {
		return g[len(g)-1]
	}
	f := pos - float64(i)
	a, b := g[i], g[i+1]
	lerp := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + f*(float64(q)-float64(p))))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
