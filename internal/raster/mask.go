package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// blurRadius matches the original's small Gaussian-blur radius for
// softened rounded-mask edges (image_manipulation.add_circle_margins_with_transparency).
const blurRadius = 2.0

// applyRoundedMask composes the circular ("rounded") shape mask. When
// transparent is true (PNG output) it builds a Gaussian-blurred elliptical
// alpha mask, preserving the alpha channel (spec §4.2: "rounded masking
// uses blurred-edge alpha mask"). Otherwise it cuts a hard ellipse against
// an opaque background, since JPEG/GIF carry no alpha (spec §4.2: "JPEG
// output: alpha/paletted mode converted to opaque RGB first").
func applyRoundedMask(img image.Image, transparent bool) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	maskImg := ellipseMask(w, h)
	if transparent {
		blurred := imaging.Blur(maskImg, blurRadius)
		out := image.NewNRGBA(bounds)
		draw.Draw(out, bounds, img, bounds.Min, draw.Src)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				_, _, _, a := blurred.At(x, y).RGBA()
				idx := out.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				out.Pix[idx+3] = uint8(a >> 8)
			}
		}
		return out
	}

	flattened := imaging.New(w, h, color.White)
	flattened = imaging.Paste(flattened, img, image.Pt(0, 0))
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.DrawMask(out, bounds, flattened, bounds.Min, maskImg, bounds.Min, draw.Over)
	return out
}

// ellipseMask builds an alpha mask, fully opaque inside the ellipse
// inscribed in a w x h rectangle and fully transparent outside, grounded
// on the original's `ImageDraw.ellipse` fill over a black canvas.
func ellipseMask(w, h int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1.0 {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}
