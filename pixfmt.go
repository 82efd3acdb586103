// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"
	"strings"
)

// PixelFormat identifies one entry of the format table
type PixelFormat int

const (
	// YUV420P is planar YUV 4:2:0
	YUV420P PixelFormat = iota
	// YUV422P is planar YUV 4:2:2
	YUV422P
	// YUV444P is planar YUV 4:4:4
	YUV444P
	// YUV410P is planar YUV 4:1:0
	YUV410P
	// YUV411P is planar YUV 4:1:1
	YUV411P
	// YUV440P is planar YUV 4:4:0
	YUV440P
	// GRAY8 is luma only
	GRAY8
	// NV12 is a luma plane followed by an interleaved UV 4:2:0 plane
	NV12
	// NV21 is a luma plane followed by an interleaved VU 4:2:0 plane
	NV21
	// YUYV422 is packed Y0 U Y1 V
	YUYV422
	// UYVY422 is packed U Y0 V Y1
	UYVY422
	// RGB24 is packed R G B
	RGB24
	// BGR24 is packed B G R
	BGR24
	// RGBA is packed R G B A
	RGBA
	// BGRA is packed B G R A
	BGRA
	// ARGB is packed A R G B
	ARGB
	// ABGR is packed A B G R
	ABGR
	// RGB565 is a little-endian 16-bit word, red in the high bits
	RGB565
	// BGR565 is a little-endian 16-bit word, blue in the high bits
	BGR565
	// RGB555 is a little-endian 16-bit word, red in the high bits
	RGB555
	// BGR555 is a little-endian 16-bit word, blue in the high bits
	BGR555
	// RGB8 is one byte per pixel, 3:3:2 with red in the high bits
	RGB8
	// BGR8 is one byte per pixel, 2:3:3 with blue in the high bits
	BGR8
	numFormats
)

// Layout is the memory organisation of a pixel format
type Layout int

const (
	// LayoutPlanar stores Y, U and V in three planes
	LayoutPlanar Layout = iota
	// LayoutSemiPlanar stores Y in one plane and interleaved chroma in another
	LayoutSemiPlanar
	// LayoutPackedYUV stores two pixels as four interleaved bytes
	LayoutPackedYUV
	// LayoutPackedRGB stores one little-endian word per pixel
	LayoutPackedRGB
	// LayoutGray stores luma only
	LayoutGray
)

// Channel is a bit field inside a packed RGB word
type Channel struct {
	Shift uint
	Bits  uint
}

// FormatDesc describes an immutable entry of the format table
type FormatDesc struct {
	Name    string
	Layout  Layout
	Planes  int
	ChromaW uint // log2 of the horizontal chroma subsampling
	ChromaH uint // log2 of the vertical chroma subsampling
	Bpp     int  // bits per pixel of the first plane
	// packed YUV byte offsets inside a two pixel group
	Y0, Y1, U, V int
	// packed RGB fields, alpha has zero bits when absent
	R, G, B, A Channel
	// semi-planar chroma order is V first
	Swap bool
}

var formats = [numFormats]FormatDesc{
	YUV420P: {Name: "yuv420p", Layout: LayoutPlanar, Planes: 3, ChromaW: 1, ChromaH: 1, Bpp: 8},
	YUV422P: {Name: "yuv422p", Layout: LayoutPlanar, Planes: 3, ChromaW: 1, Bpp: 8},
	YUV444P: {Name: "yuv444p", Layout: LayoutPlanar, Planes: 3, Bpp: 8},
	YUV410P: {Name: "yuv410p", Layout: LayoutPlanar, Planes: 3, ChromaW: 2, ChromaH: 2, Bpp: 8},
	YUV411P: {Name: "yuv411p", Layout: LayoutPlanar, Planes: 3, ChromaW: 2, Bpp: 8},
	YUV440P: {Name: "yuv440p", Layout: LayoutPlanar, Planes: 3, ChromaH: 1, Bpp: 8},
	GRAY8:   {Name: "gray", Layout: LayoutGray, Planes: 1, Bpp: 8},
	NV12:    {Name: "nv12", Layout: LayoutSemiPlanar, Planes: 2, ChromaW: 1, ChromaH: 1, Bpp: 8},
	NV21:    {Name: "nv21", Layout: LayoutSemiPlanar, Planes: 2, ChromaW: 1, ChromaH: 1, Bpp: 8, Swap: true},
	YUYV422: {Name: "yuyv422", Layout: LayoutPackedYUV, Planes: 1, ChromaW: 1, Bpp: 16, Y0: 0, U: 1, Y1: 2, V: 3},
	UYVY422: {Name: "uyvy422", Layout: LayoutPackedYUV, Planes: 1, ChromaW: 1, Bpp: 16, U: 0, Y0: 1, V: 2, Y1: 3},
	RGB24:   {Name: "rgb24", Layout: LayoutPackedRGB, Planes: 1, Bpp: 24, R: Channel{0, 8}, G: Channel{8, 8}, B: Channel{16, 8}},
	BGR24:   {Name: "bgr24", Layout: LayoutPackedRGB, Planes: 1, Bpp: 24, B: Channel{0, 8}, G: Channel{8, 8}, R: Channel{16, 8}},
	RGBA:    {Name: "rgba", Layout: LayoutPackedRGB, Planes: 1, Bpp: 32, R: Channel{0, 8}, G: Channel{8, 8}, B: Channel{16, 8}, A: Channel{24, 8}},
	BGRA:    {Name: "bgra", Layout: LayoutPackedRGB, Planes: 1, Bpp: 32, B: Channel{0, 8}, G: Channel{8, 8}, R: Channel{16, 8}, A: Channel{24, 8}},
	ARGB:    {Name: "argb", Layout: LayoutPackedRGB, Planes: 1, Bpp: 32, A: Channel{0, 8}, R: Channel{8, 8}, G: Channel{16, 8}, B: Channel{24, 8}},
	ABGR:    {Name: "abgr", Layout: LayoutPackedRGB, Planes: 1, Bpp: 32, A: Channel{0, 8}, B: Channel{8, 8}, G: Channel{16, 8}, R: Channel{24, 8}},
	RGB565:  {Name: "rgb565", Layout: LayoutPackedRGB, Planes: 1, Bpp: 16, R: Channel{11, 5}, G: Channel{5, 6}, B: Channel{0, 5}},
	BGR565:  {Name: "bgr565", Layout: LayoutPackedRGB, Planes: 1, Bpp: 16, B: Channel{11, 5}, G: Channel{5, 6}, R: Channel{0, 5}},
	RGB555:  {Name: "rgb555", Layout: LayoutPackedRGB, Planes: 1, Bpp: 16, R: Channel{10, 5}, G: Channel{5, 5}, B: Channel{0, 5}},
	BGR555:  {Name: "bgr555", Layout: LayoutPackedRGB, Planes: 1, Bpp: 16, B: Channel{10, 5}, G: Channel{5, 5}, R: Channel{0, 5}},
	RGB8:    {Name: "rgb8", Layout: LayoutPackedRGB, Planes: 1, Bpp: 8, R: Channel{5, 3}, G: Channel{2, 3}, B: Channel{0, 2}},
	BGR8:    {Name: "bgr8", Layout: LayoutPackedRGB, Planes: 1, Bpp: 8, B: Channel{6, 2}, G: Channel{3, 3}, R: Channel{0, 3}},
}

// Supported returns whether f is in the format table
func (f PixelFormat) Supported() bool {
	return f >= 0 && f < numFormats
}

// Desc returns the table entry for f, f must be supported
func (f PixelFormat) Desc() *FormatDesc {
	return &formats[f]
}

func (f PixelFormat) String() string {
	if !f.Supported() {
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
	return formats[f].Name
}

// ParsePixelFormat returns the format named name
func ParsePixelFormat(name string) (PixelFormat, error) {
	name = strings.ToLower(name)
	for i := range formats {
		if formats[i].Name == name {
			return PixelFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Formats returns every supported format
func Formats() []PixelFormat {
	list := make([]PixelFormat, 0, numFormats)
	for i := PixelFormat(0); i < numFormats; i++ {
		list = append(list, i)
	}
	return list
}

func (d *FormatDesc) isRGB() bool    { return d.Layout == LayoutPackedRGB }
func (d *FormatDesc) isGray() bool   { return d.Layout == LayoutGray }
func (d *FormatDesc) isPacked() bool { return d.Layout == LayoutPackedRGB || d.Layout == LayoutPackedYUV }

// pixelBytes returns the number of bytes of one packed RGB pixel
func (d *FormatDesc) pixelBytes() int {
	return d.Bpp >> 3
}

// lowDepth returns whether at least one channel has less than 8 bits
func (d *FormatDesc) lowDepth() bool {
	return d.isRGB() && (d.R.Bits < 8 || d.G.Bits < 8 || d.B.Bits < 8)
}

// planeWidth returns the number of bytes used by one row of plane p
func (d *FormatDesc) planeWidth(p, width int) int {
	switch d.Layout {
	case LayoutPackedRGB:
		return width * d.pixelBytes()
	case LayoutPackedYUV:
		return align(width, 2) * 2
	case LayoutSemiPlanar:
		if p == 1 {
			return ceilShift(width, d.ChromaW) * 2
		}
	case LayoutPlanar:
		if p > 0 {
			return ceilShift(width, d.ChromaW)
		}
	}
	return width
}

// planeHeight returns the number of rows of plane p
func (d *FormatDesc) planeHeight(p, height int) int {
	if p > 0 {
		return ceilShift(height, d.ChromaH)
	}
	return height
}

// PlaneSize returns the minimal pitch and height of plane p for a
// width x height image
func (f PixelFormat) PlaneSize(p, width, height int) (int, int) {
	d := f.Desc()
	return d.planeWidth(p, width), d.planeHeight(p, height)
}

// ceilShift returns v >> s rounded toward +inf
func ceilShift(v int, s uint) int {
	return -((-v) >> s)
}

func align(value, align int) int {
	return (value + align - 1) & -align
}
