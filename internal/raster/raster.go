package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"preview-gateway/internal/geometry"
)

// Process runs the full raster pipeline (spec §4.2): decode, EXIF-orient,
// geometry solve, optional rounded mask, re-encode. minResolution is R
// (spec §3's MinimumResolution). It never returns an error: any decode
// failure yields the opaque R×R placeholder spec §4.2/§9 mandates.
func Process(data []byte, req Request, minResolution int) []byte {
	if frames, loopCount, delays, ok := decodeAnimatedGIF(data); ok && req.OutFormat == FormatGIF {
		return processAnimated(frames, loopCount, delays, req, minResolution)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return encodeFallback(req, minResolution)
	}

	out := applyGeometry(img, req, minResolution)
	if req.Mode == ModeThumbnail && req.Shape == ShapeRounded {
		out = applyRoundedMask(out, req.OutFormat == FormatPNG)
	}
	return encode(out, req)
}

// encodeFallback builds the opaque R×R placeholder (spec §4.2: "any
// decoding failure produces opaque R×R zero-filled RGB image rather than
// error"), grounded on the original's
// `except PIL.UnidentifiedImageError: return Image.new("RGB", (MIN,MIN))`.
func encodeFallback(req Request, minResolution int) []byte {
	placeholder := imaging.New(minResolution, minResolution, color.Black)
	return encode(placeholder, req)
}

// applyGeometry implements the Resize and Pad policies from spec §4.1.
func applyGeometry(img image.Image, req Request, minResolution int) image.Image {
	bounds := img.Bounds()
	ow, oh := bounds.Dx(), bounds.Dy()
	tx, ty := geometry.ResolveTargets(ow, oh, req.Width, req.Height, minResolution)

	cropActive := req.Mode == ModeThumbnail || (req.Mode == ModePreview && req.Crop)

	var resized image.Image
	if cropActive {
		switch geometry.NeedsResize(ow, oh, tx, ty) {
		case "up":
			nw, nh := geometry.ScaleUp(ow, oh, tx, ty)
			scaled := imaging.Resize(img, nw, nh, imaging.Lanczos)
			upper, right, bottom, left := geometry.CropBox(nw, nh, tx, ty, req.CropAnchor)
			resized = imaging.Crop(scaled, image.Rect(left, upper, right, bottom))
		case "none":
			resized = img
		default:
			nw, nh := geometry.ScaleDown(ow, oh, tx, ty)
			resized = imaging.Resize(img, nw, nh, imaging.Lanczos)
		}
	} else {
		switch geometry.NeedsPad(ow, oh, tx, ty, minResolution) {
		case "none":
			resized = img
		default:
			nw, nh := geometry.ScaleDown(ow, oh, tx, ty)
			resized = imaging.Resize(img, nw, nh, imaging.Lanczos)
		}
	}

	return pad(resized, tx, ty, minResolution)
}

// pad centers resized into an opaque RGB canvas of exactly
// max(tx,R) x max(ty,R), per spec §4.1's Pad step.
func pad(resized image.Image, tx, ty, minResolution int) image.Image {
	cw, ch := geometry.PadCanvasSize(tx, ty, minResolution)
	b := resized.Bounds()
	if b.Dx() == cw && b.Dy() == ch {
		return resized
	}
	canvas := imaging.New(cw, ch, color.White)
	x, y := geometry.PadOffsets(b.Dx(), b.Dy(), cw, ch)
	return imaging.Paste(canvas, resized, image.Pt(x, y))
}

// encode re-encodes img into req.OutFormat, flattening to opaque RGB for
// JPEG (spec §4.2: "alpha/paletted mode converted to opaque RGB first").
func encode(img image.Image, req Request) []byte {
	var buf bytes.Buffer
	switch req.OutFormat {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		_ = enc.Encode(&buf, img)
	case FormatGIF:
		flattened := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		flattened = imaging.Paste(flattened, img, image.Pt(0, 0))
		_ = gif.Encode(&buf, flattened, &gif.Options{NumColors: 256})
	default: // JPEG
		flattened := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
		flattened = imaging.Paste(flattened, img, image.Pt(0, 0))
		_ = jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: JPEGQuality(req.Quality)})
	}
	return buf.Bytes()
}

// ContentType maps an OutFormat to its HTTP media type (spec §4.7:
// "image/{format}").
func ContentType(f OutFormat) string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
