// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

// direct converts rows of equal size frames one at a time
func (p *Plan) direct(src []Plane, sliceY, sliceH int, dst []Plane) int {
	end := sliceY + sliceH
	switch {
	case p.srcFmt == p.dstFmt:
		p.copyPlanes(src, sliceY, end, dst)
	case p.src.isRGB() && p.dst.isRGB():
		for y := sliceY; y < end; y++ {
			r, g, b := p.reader.rgb(src, y-sliceY)
			p.packer.rgb(dst, y, r, g, b)
		}
	default:
		for y := sliceY; y < end; y++ {
			p.directRow(src, sliceY, y, dst)
		}
	}
	p.dstY = end
	return sliceH
}

func (p *Plan) copyPlanes(src []Plane, sliceY, end int, dst []Plane) {
	d := p.src
	for i := 0; i < d.Planes; i++ {
		width := d.planeWidth(i, p.srcW)
		first, last, base := sliceY, end, sliceY
		if i > 0 {
			first = ceilShift(sliceY, d.ChromaH)
			last = ceilShift(end, d.ChromaH)
			base = sliceY >> d.ChromaH
		}
		for y := first; y < last; y++ {
			p.scaler.copyRow(dst[i].Row(y, width), src[i].Row(y-base, width))
		}
	}
}

// directRow converts row y through a 4:4:4 row, source chroma is
// replicated and destination chroma point sampled
func (p *Plan) directRow(src []Plane, sliceY, y int, dst []Plane) {
	lum := p.reader.luma(src, y-sliceY)
	var u, v []byte
	if p.needChroma && y&(1<<p.chrDstVSub-1) == 0 {
		vsub := p.chrSrcVSub
		cb, cr := p.reader.chroma(src, y>>vsub-sliceY>>vsub)
		for x := range p.u444 {
			p.u444[x] = cb[x>>p.chrSrcHSub]
			p.v444[x] = cr[x>>p.chrSrcHSub]
		}
		u, v = p.uBuf, p.vBuf
		for x := range u {
			u[x] = p.u444[x<<p.chrDstHSub]
			v[x] = p.v444[x<<p.chrDstHSub]
		}
	}
	p.packer.pack(dst, y, y>>p.chrDstVSub, lum, u, v)
}
