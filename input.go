// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

// BT.601 limited range, 8 fractional bits
const (
	ry, gy, by = 66, 129, 25
	ru, gu, bu = -38, -74, 112
	rv, gv, bv = 112, -94, -18
)

func rgbToY(r, g, b int) byte {
	return byte((ry*r+gy*g+by*b+128)>>8 + 16)
}

func rgbToU(r, g, b int) byte {
	return byte((ru*r+gu*g+bu*b+128)>>8 + 128)
}

func rgbToV(r, g, b int) byte {
	return byte((rv*r+gv*g+bv*b+128)>>8 + 128)
}

// expand scales a bits wide value to 8 bits by bit replication
func expand(v, bits uint) byte {
	if bits >= 8 {
		return byte(v)
	}
	out, filled := uint(0), uint(0)
	for filled < 8 {
		out = out<<bits | v
		filled += bits
	}
	return byte(out >> (filled - 8))
}

// rowReader turns source rows of any layout into planar 8-bit rows
type rowReader struct {
	desc  *FormatDesc
	width int  // luma width
	chrW  int  // chroma width
	hsub  uint // chroma horizontal subsampling of the produced rows
	lum   []byte
	cb    []byte
	cr    []byte
	r     []byte
	g     []byte
	b     []byte
	lut   [3][256]byte // packed rgb fields to 8 bits
}

func newRowReader(desc *FormatDesc, width int, hsub uint) *rowReader {
	r := &rowReader{
		desc:  desc,
		width: width,
		chrW:  ceilShift(width, hsub),
		hsub:  hsub,
	}
	switch desc.Layout {
	case LayoutPackedRGB:
		r.lum = make([]byte, width)
		r.r = make([]byte, width)
		r.g = make([]byte, width)
		r.b = make([]byte, width)
		for i, ch := range []Channel{desc.R, desc.G, desc.B} {
			for v := uint(0); v < 1<<ch.Bits && v < 256; v++ {
				r.lut[i][v] = expand(v, ch.Bits)
			}
		}
		fallthrough
	case LayoutSemiPlanar:
		r.cb = make([]byte, r.chrW)
		r.cr = make([]byte, r.chrW)
	case LayoutPackedYUV:
		r.lum = make([]byte, width)
		r.cb = make([]byte, r.chrW)
		r.cr = make([]byte, r.chrW)
	case LayoutGray:
		r.cb = make([]byte, r.chrW)
		r.cr = make([]byte, r.chrW)
		for i := range r.cb {
			r.cb[i] = 128
			r.cr[i] = 128
		}
	}
	return r
}

// luma returns the luma samples of row y of the slice
func (r *rowReader) luma(src []Plane, y int) []byte {
	d := r.desc
	switch d.Layout {
	case LayoutPlanar, LayoutSemiPlanar, LayoutGray:
		return src[0].Row(y, r.width)
	case LayoutPackedYUV:
		row := src[0].Row(y, d.planeWidth(0, r.width))
		for x := range r.lum {
			off := d.Y0
			if x&1 != 0 {
				off = d.Y1
			}
			r.lum[x] = row[(x>>1)*4+off]
		}
		return r.lum
	}
	r.rgb(src, y)
	for x := range r.lum {
		r.lum[x] = rgbToY(int(r.r[x]), int(r.g[x]), int(r.b[x]))
	}
	return r.lum
}

// chroma returns the chroma samples of row y of the slice, y indexes the
// second plane of planar formats and the first one of packed formats
func (r *rowReader) chroma(src []Plane, y int) ([]byte, []byte) {
	d := r.desc
	switch d.Layout {
	case LayoutPlanar:
		return src[1].Row(y, r.chrW), src[2].Row(y, r.chrW)
	case LayoutGray:
		return r.cb, r.cr
	case LayoutSemiPlanar:
		row := src[1].Row(y, 2*r.chrW)
		u, v := r.cb, r.cr
		if d.Swap {
			u, v = v, u
		}
		for x := range u {
			u[x] = row[2*x]
			v[x] = row[2*x+1]
		}
		return r.cb, r.cr
	case LayoutPackedYUV:
		row := src[0].Row(y, d.planeWidth(0, r.width))
		for x := range r.cb {
			r.cb[x] = row[x*4+d.U]
			r.cr[x] = row[x*4+d.V]
		}
		return r.cb, r.cr
	}
	r.rgb(src, y)
	if r.hsub == 0 {
		for x := range r.cb {
			red, green, blue := int(r.r[x]), int(r.g[x]), int(r.b[x])
			r.cb[x] = rgbToU(red, green, blue)
			r.cr[x] = rgbToV(red, green, blue)
		}
		return r.cb, r.cr
	}
	last := r.width - 1
	for x := range r.cb {
		a, b := 2*x, min(2*x+1, last)
		red := int(r.r[a]) + int(r.r[b])
		green := int(r.g[a]) + int(r.g[b])
		blue := int(r.b[a]) + int(r.b[b])
		r.cb[x] = byte((ru*red+gu*green+bu*blue+256)>>9 + 128)
		r.cr[x] = byte((rv*red+gv*green+bv*blue+256)>>9 + 128)
	}
	return r.cb, r.cr
}

// rgb unpacks row y of a packed rgb slice into r.r, r.g and r.b
func (r *rowReader) rgb(src []Plane, y int) ([]byte, []byte, []byte) {
	d := r.desc
	size := d.pixelBytes()
	row := src[0].Row(y, r.width*size)
	for x := 0; x < r.width; x++ {
		word := uint(0)
		for i, v := range row[x*size : (x+1)*size] {
			word |= uint(v) << (8 * uint(i))
		}
		r.r[x] = r.lut[0][(word>>d.R.Shift)&(1<<d.R.Bits-1)]
		r.g[x] = r.lut[1][(word>>d.G.Shift)&(1<<d.G.Bits-1)]
		r.b[x] = r.lut[2][(word>>d.B.Shift)&(1<<d.B.Bits-1)]
	}
	return r.r, r.g, r.b
}
