package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"

	"github.com/disintegration/imaging"
)

var frameBackground = color.White

// decodeAnimatedGIF probes data the same way the original source's
// `is_img_a_gif` does (checking whether the decoder reports more than one
// frame). Non-animated GIF-like inputs are treated as ordinary images by
// the caller (spec §4.2), so ok is false whenever there's one frame or
// fewer. Frames are composited onto the logical screen canvas before being
// returned, matching the full-canvas-RGB behavior of the original's
// `ImageSequence.Iterator` with `LOADING_STRATEGY = RGB_ALWAYS` — a
// delta-optimized frame's local bounds are not the whole picture, and
// applying geometry ops to the undisposed sub-rectangle alone would
// corrupt every frame after the first.
func decodeAnimatedGIF(data []byte) (frames []*image.Paletted, loopCount int, delays []int, ok bool) {
	decoded, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil || len(decoded.Image) <= 1 {
		return nil, 0, nil, false
	}
	return compositeFrames(decoded), decoded.LoopCount, decoded.Delay, true
}

// compositeFrames renders each GIF frame onto the full logical-screen
// canvas, honoring each frame's disposal method (image/gif's
// DisposalNone/DisposalBackground/DisposalPrevious) before handing it to
// the geometry solver.
func compositeFrames(decoded *gif.GIF) []*image.Paletted {
	w, h := decoded.Config.Width, decoded.Config.Height
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(frameBackground), image.Point{}, draw.Src)

	out := make([]*image.Paletted, len(decoded.Image))
	var saved *image.RGBA

	for i, frame := range decoded.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(decoded.Disposal) {
			disposal = decoded.Disposal[i]
		}

		if disposal == gif.DisposalPrevious {
			saved = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		composited := cloneRGBA(canvas)
		quantized := image.NewPaletted(composited.Bounds(), frame.Palette)
		draw.FloydSteinberg.Draw(quantized, composited.Bounds(), composited, image.Point{})
		out[i] = quantized

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.NewUniform(frameBackground), image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			if saved != nil {
				canvas = saved
			}
		}
	}
	return out
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// processAnimated applies the geometry solver frame by frame (spec §4.2:
// "geometry ops applied frame-by-frame via iterator"), reusing the first
// frame's loop count and per-frame delays exactly as the original's
// `_save_gif_generator_to_buffer` copies `fist_frame.info` onto the saved
// sequence.
func processAnimated(frames []*image.Paletted, loopCount int, delays []int, req Request, minResolution int) []byte {
	out := &gif.GIF{LoopCount: loopCount}
	for i, frame := range frames {
		img := applyGeometry(frame, req, minResolution)
		if req.Mode == ModeThumbnail && req.Shape == ShapeRounded {
			img = applyRoundedMask(img, false)
		}

		flattened := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), frameBackground)
		flattened = imaging.Paste(flattened, img, image.Pt(0, 0))

		quantized := image.NewPaletted(flattened.Bounds(), palette.WebSafe)
		draw.FloydSteinberg.Draw(quantized, flattened.Bounds(), flattened, image.Point{})

		out.Image = append(out.Image, quantized)
		if i < len(delays) {
			out.Delay = append(out.Delay, delays[i])
		} else {
			out.Delay = append(out.Delay, 0)
		}
	}

	var buf bytes.Buffer
	_ = gif.EncodeAll(&buf, out)
	return buf.Bytes()
}
