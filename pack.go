// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

// 2x2 ordered dither, in quarters of a quantization step
var dither2x2 = [2][2]int{
	{0, 2},
	{3, 1},
}

// packer writes 8-bit planar rows into a destination format
type packer struct {
	desc  *FormatDesc
	width int
	hsub  uint // chroma horizontal subsampling of the input rows
	r     []byte
	g     []byte
	b     []byte
}

func newPacker(desc *FormatDesc, width int, hsub uint) *packer {
	k := &packer{
		desc:  desc,
		width: width,
		hsub:  hsub,
	}
	if desc.isRGB() {
		k.r = make([]byte, width)
		k.g = make([]byte, width)
		k.b = make([]byte, width)
	}
	return k
}

// pack writes luma row y, and chroma row cy when u is not nil
func (k *packer) pack(dst []Plane, y, cy int, lum, u, v []byte) {
	d := k.desc
	switch d.Layout {
	case LayoutPlanar:
		copy(dst[0].Row(y, k.width), lum)
		if u != nil {
			chrW := ceilShift(k.width, d.ChromaW)
			copy(dst[1].Row(cy, chrW), u)
			copy(dst[2].Row(cy, chrW), v)
		}
	case LayoutGray:
		copy(dst[0].Row(y, k.width), lum)
	case LayoutSemiPlanar:
		copy(dst[0].Row(y, k.width), lum)
		if u != nil {
			chrW := ceilShift(k.width, d.ChromaW)
			row := dst[1].Row(cy, 2*chrW)
			if d.Swap {
				u, v = v, u
			}
			for x := 0; x < chrW; x++ {
				row[2*x] = u[x]
				row[2*x+1] = v[x]
			}
		}
	case LayoutPackedYUV:
		row := dst[0].Row(y, d.planeWidth(0, k.width))
		for x := 0; x < len(row)/4; x++ {
			a := 2 * x
			b := min(a+1, k.width-1)
			row[x*4+d.Y0] = lum[a]
			row[x*4+d.Y1] = lum[b]
			row[x*4+d.U] = u[x]
			row[x*4+d.V] = v[x]
		}
	case LayoutPackedRGB:
		k.yuvToRGB(lum, u, v)
		k.rgb(dst, y, k.r, k.g, k.b)
	}
}

// yuvToRGB fills k.r, k.g and k.b from BT.601 limited range rows
func (k *packer) yuvToRGB(lum, u, v []byte) {
	for x, l := range lum[:k.width] {
		c := 298 * (int(l) - 16)
		du := int(u[x>>k.hsub]) - 128
		dv := int(v[x>>k.hsub]) - 128
		k.r[x] = u8((c + 409*dv + 128) >> 8)
		k.g[x] = u8((c - 100*du - 208*dv + 128) >> 8)
		k.b[x] = u8((c + 516*du + 128) >> 8)
	}
}

func ditherChannel(v byte, ch Channel, x, y int) uint {
	if ch.Bits >= 8 {
		return uint(v)
	}
	drop := 8 - ch.Bits
	d := dither2x2[y&1][x&1] << drop >> 2
	return uint(min(int(v)+d, 0xFF)) >> drop
}

// rgb packs row y of rgb samples into a packed rgb destination
func (k *packer) rgb(dst []Plane, y int, r, g, b []byte) {
	d := k.desc
	size := d.pixelBytes()
	row := dst[0].Row(y, k.width*size)
	alpha := uint(1<<d.A.Bits-1) << d.A.Shift
	for x := 0; x < k.width; x++ {
		word := alpha |
			ditherChannel(r[x], d.R, x, y)<<d.R.Shift |
			ditherChannel(g[x], d.G, x, y)<<d.G.Shift |
			ditherChannel(b[x], d.B, x, y)<<d.B.Shift
		px := row[x*size : (x+1)*size]
		for i := range px {
			px[i] = byte(word >> (8 * uint(i)))
		}
	}
}
