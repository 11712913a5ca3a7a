package styles

import "math"

func contrastRatio(fg, bg RGB) float64 {
	l1 := relativeLuminance(fg)
	l2 := relativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(c RGB) float64 {
	r := linearize(c.R / 255.0)
	g := linearize(c.G / 255.0)
	b := linearize(c.B / 255.0)
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func linearize(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ReadableOn returns black or white, whichever contrasts more with the
// background color bg.
func ReadableOn(bg string) string {
	c := HexToRGB(bg)
	if contrastRatio(RGB{0, 0, 0}, c) >= contrastRatio(RGB{255, 255, 255}, c) {
		return "#000000"
	}
	return "#FFFFFF"
}
