package main

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/memmaker/chunkcull/engine/extraction"
	"github.com/memmaker/chunkcull/engine/util"
	"github.com/memmaker/chunkcull/engine/voxel"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colorVisible  = color.RGBA{R: 40, G: 200, B: 60, A: 255}
	colorOccluded = color.RGBA{R: 220, G: 50, B: 40, A: 255}
	colorCulled   = color.RGBA{R: 60, G: 90, B: 200, A: 255}
	colorCamera   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RenderVisibilityMap draws a top-down view with one pixel per block column. Loaded chunks are tinted
// by their state in the last frame: visible, occluded, or outside the frustum.
func RenderVisibilityMap(volume *extraction.Volume, culler *voxel.VisibilityCuller, camera util.Camera, caption string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(volume.SizeX), int(volume.SizeZ)))
	for z := int32(0); z < volume.SizeZ; z++ {
		for x := int32(0); x < volume.SizeX; x++ {
			shade := uint8(volume.ColumnHeight(x, z) * 255 / volume.SizeY)
			img.SetRGBA(int(x), int(z), color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}

	inFrustum := make(map[voxel.BufferHandle]bool)
	for _, buffer := range culler.FrustumSet() {
		inFrustum[buffer.Handle()] = true
	}
	culler.Pool().ForEachActive(func(buffer *voxel.ChunkBuffer) {
		tint := colorCulled
		if inFrustum[buffer.Handle()] {
			tint = colorVisible
			if buffer.OccludedLastFrame() {
				tint = colorOccluded
			}
		}
		box := buffer.AABB()
		lo, hi := box.Min(), box.Max()
		rect := image.Rect(int(lo.X()), int(lo.Z()), int(hi.X()), int(hi.Z())).Intersect(img.Bounds())
		blend(img, rect, tint)
	})

	position := camera.Position()
	cameraRect := image.Rect(int(position.X())-1, int(position.Z())-1, int(position.X())+2, int(position.Z())+2)
	draw.Draw(img, cameraRect.Intersect(img.Bounds()), image.NewUniform(colorCamera), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorCamera),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, 14),
	}
	drawer.DrawString(caption)
	return img
}

// blend mixes the tint half and half into every pixel of rect.
func blend(img *image.RGBA, rect image.Rectangle, tint color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((uint16(c.R) + uint16(tint.R)) / 2),
				G: uint8((uint16(c.G) + uint16(tint.G)) / 2),
				B: uint8((uint16(c.B) + uint16(tint.B)) / 2),
				A: 255,
			})
		}
	}
}
