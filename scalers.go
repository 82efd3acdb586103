// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"math"
)

const (
	// intermediate rows hold 8-bit samples << hShift
	hShift = HorizontalBits - 7
	// vertical output shift, removes both vertical and intermediate bits
	vShift = VerticalBits + 7
)

func u8(x int) byte {
	if x < 0 {
		return 0
	}
	if x > 0xFF {
		return 0xFF
	}
	return byte(x)
}

func i16(x int) int16 {
	if x < math.MinInt16 {
		return math.MinInt16
	}
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(x)
}

func psnrPlane(dst, src []byte, width, height, dp, sp int) float64 {
	mse := 0
	di := 0
	si := 0
	for y := 0; y < height; y++ {
		for x, v := range src[si : si+width] {
			n := int(v) - int(dst[di+x])
			mse += n * n
		}
		di += dp
		si += sp
	}
	if mse == 0 {
		return math.Inf(1)
	}
	fmse := float64(mse) / float64(width*height)
	return 10 * math.Log10(255*255/fmse)
}

type genericScaler struct{}

func (genericScaler) backend() Backend { return BackendGeneric }
func (genericScaler) hAlign() int      { return 1 }
func (genericScaler) vAlign() int      { return 1 }

func (genericScaler) hScale(dst []int16, src []byte, b *FilterBank) {
	taps := b.Size
	c := b.Coeffs
	for x, xoff := range b.Offsets[:len(dst)] {
		pix := 0
		for i, s := range src[xoff : xoff+taps] {
			pix += int(s) * int(c[i])
		}
		dst[x] = i16(pix >> hShift)
		c = c[taps:]
	}
}

// hScaleFast is the two tap interpolation of the fast bilinear kernel.
// Samples mapping at or past the last source sample replicate it.
func (genericScaler) hScaleFast(dst []int16, src []byte, inc int) {
	hScaleFast(dst, src, inc)
}

func hScaleFast(dst []int16, src []byte, inc int) {
	last := len(src) - 1
	xpos := 0
	for x := range dst {
		xx := xpos >> 16
		if xx >= last {
			dst[x] = int16(int(src[last]) << 7)
		} else {
			alpha := (xpos & 0xFFFF) >> 9
			a := int(src[xx])
			dst[x] = int16(a<<7 + (int(src[xx+1])-a)*alpha)
		}
		xpos += inc
	}
}

func (genericScaler) vScale(dst []byte, rows [][]int16, cof []int16) {
	vScale(dst, rows, cof)
}

func (s genericScaler) vScaleYUV(y, u, v []byte, lum, cb, cr [][]int16, lcof, ccof []int16) {
	vScaleYUV(s, y, u, v, lum, cb, cr, lcof, ccof)
}

func (genericScaler) copyRow(dst, src []byte) {
	copy(dst, src)
}

// vScale applies cof to rows. One and two tap filters take
// dedicated loops computing the same values as the general one.
func vScale(dst []byte, rows [][]int16, cof []int16) {
	switch len(cof) {
	case 1:
		if int(cof[0]) == 1<<VerticalBits {
			v1scale(dst, rows[0])
			return
		}
	case 2:
		v2scale(dst, rows[0], rows[1], int(cof[0]), int(cof[1]))
		return
	}
	vNscale(dst, rows, cof)
}

func v1scale(dst []byte, src []int16) {
	for x, v := range src[:len(dst)] {
		dst[x] = u8((int(v) + 1<<(hShift-1)) >> hShift)
	}
}

func v2scale(dst []byte, a, b []int16, ca, cb int) {
	b = b[:len(dst)]
	for x, v := range a[:len(dst)] {
		dst[x] = u8((int(v)*ca + int(b[x])*cb + 1<<(vShift-1)) >> vShift)
	}
}

func vNscale(dst []byte, rows [][]int16, cof []int16) {
	for x := range dst {
		pix := 1 << (vShift - 1)
		for i, c := range cof {
			pix += int(rows[i][x]) * int(c)
		}
		dst[x] = u8(pix >> vShift)
	}
}

func vScaleYUV(s scaler, y, u, v []byte, lum, cb, cr [][]int16, lcof, ccof []int16) {
	s.vScale(y, lum, lcof)
	if u == nil {
		return
	}
	s.vScale(u, cb, ccof)
	s.vScale(v, cr, ccof)
}

// unrolledScaler walks taps four at a time, tails are handled one by one
type unrolledScaler struct {
	genericScaler
}

func (unrolledScaler) backend() Backend { return BackendUnrolled }
func (unrolledScaler) hAlign() int      { return 4 }
func (unrolledScaler) vAlign() int      { return 2 }

func (unrolledScaler) hScale(dst []int16, src []byte, b *FilterBank) {
	taps := b.Size
	body := taps &^ 3
	c := b.Coeffs
	for x, xoff := range b.Offsets[:len(dst)] {
		s := src[xoff : xoff+taps]
		pix := 0
		i := 0
		for ; i < body; i += 4 {
			pix += int(s[i+0])*int(c[i+0]) +
				int(s[i+1])*int(c[i+1]) +
				int(s[i+2])*int(c[i+2]) +
				int(s[i+3])*int(c[i+3])
		}
		for ; i < taps; i++ {
			pix += int(s[i]) * int(c[i])
		}
		dst[x] = i16(pix >> hShift)
		c = c[taps:]
	}
}

func (unrolledScaler) vScale(dst []byte, rows [][]int16, cof []int16) {
	if len(cof) <= 2 {
		vScale(dst, rows, cof)
		return
	}
	taps := len(cof)
	body := taps &^ 1
	for x := range dst {
		pix := 1 << (vShift - 1)
		i := 0
		for ; i < body; i += 2 {
			pix += int(rows[i][x])*int(cof[i]) +
				int(rows[i+1][x])*int(cof[i+1])
		}
		if i < taps {
			pix += int(rows[i][x]) * int(cof[i])
		}
		dst[x] = u8(pix >> vShift)
	}
}

func (s unrolledScaler) vScaleYUV(y, u, v []byte, lum, cb, cr [][]int16, lcof, ccof []int16) {
	vScaleYUV(s, y, u, v, lum, cb, cr, lcof, ccof)
}
