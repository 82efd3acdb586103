// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// State is the streaming state of a plan
type State int

const (
	// StateIdle means no source row was submitted for the current frame
	StateIdle State = iota
	// StateFilling means rows were buffered but none emitted
	StateFilling
	// StateEmitting means destination rows are being produced
	StateEmitting
	// StateDraining means the last source row was submitted
	StateDraining
	// StateDone means every destination row was emitted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFilling:
		return "filling"
	case StateEmitting:
		return "emitting"
	case StateDraining:
		return "draining"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Plane is a view on the rows of one image plane
type Plane struct {
	Data  []byte
	Pitch int
}

// Row returns the n first bytes of row y
func (p *Plane) Row(y, n int) []byte {
	off := y * p.Pitch
	return p.Data[off : off+n]
}

// fits returns whether p holds rows rows of width bytes
func (p *Plane) fits(width, rows int) bool {
	if rows <= 0 {
		return true
	}
	if rows > 1 && p.Pitch < width {
		return false
	}
	return len(p.Data) >= (rows-1)*p.Pitch+width
}

// ring holds horizontally scaled rows, row r lives in slot r mod capacity
type ring struct {
	rows [][]int16
}

func newRing(capacity, width int) *ring {
	r := &ring{rows: make([][]int16, capacity)}
	buf := make([]int16, capacity*width)
	for i := range r.rows {
		r.rows[i] = buf[i*width : (i+1)*width]
	}
	return r
}

func (r *ring) capacity() int {
	return len(r.rows)
}

func (r *ring) slot(row int) []int16 {
	return r.rows[row%len(r.rows)]
}

// window fills dst with the slots of rows first to first+len(dst)-1
func (r *ring) window(dst [][]int16, first int) [][]int16 {
	for i := range dst {
		dst[i] = r.slot(first + i)
	}
	return dst
}

// ringSizes returns the minimal luma and chroma ring capacities. Rows
// stay buffered from the first row of a destination window up to the
// last one the other plane may force us to scale while it waits.
func ringSizes(vLum, vChr *FilterBank, dstH, srcH, chrSrcH int, chrDstVSub, chrSrcVSub uint) (int, int) {
	mask := 1<<chrDstVSub - 1
	lumCap, chrCap := vLum.Size, 0
	if vChr != nil {
		chrCap = vChr.Size
	}
	for y := 0; y < dstH; y++ {
		first := vLum.Offsets[y]
		last := vLum.Offsets[min(y|mask, dstH-1)] + vLum.Size - 1
		hi := last
		if vChr != nil {
			cfirst := vChr.Offsets[y>>chrDstVSub]
			clast := cfirst + vChr.Size - 1
			hi = max(hi, clast<<chrSrcVSub-1)
			chi := max(clast, ceilShift(last, chrSrcVSub)-1)
			chrCap = max(chrCap, chi-cfirst+1)
		}
		lumCap = max(lumCap, hi-first+1)
	}
	return min(lumCap, srcH), min(chrCap, chrSrcH)
}

func (p *Plan) reset() {
	p.dstY = 0
	p.lastInLum = -1
	p.lastInChr = -1
	p.nextSrcY = 0
}

// State returns where the current frame stands
func (p *Plan) State() State {
	switch {
	case p.dstY >= p.dstH:
		return StateDone
	case p.nextSrcY == 0:
		return StateIdle
	case p.nextSrcY >= p.srcH:
		return StateDraining
	case p.dstY == 0:
		return StateFilling
	}
	return StateEmitting
}

// checkPlanes validates src holds the slice and dst the whole frame
func (p *Plan) checkPlanes(src []Plane, sliceY, sliceH int, dst []Plane) error {
	if len(src) < p.src.Planes {
		return fmt.Errorf("%w: %v source planes, need %v", ErrBufferTooSmall, len(src), p.src.Planes)
	}
	if len(dst) < p.dst.Planes {
		return fmt.Errorf("%w: %v destination planes, need %v", ErrBufferTooSmall, len(dst), p.dst.Planes)
	}
	end := sliceY + sliceH
	for i := 0; i < p.src.Planes; i++ {
		rows := sliceH
		if i > 0 {
			rows = ceilShift(end, p.src.ChromaH) - sliceY>>p.src.ChromaH
		}
		if !src[i].fits(p.src.planeWidth(i, p.srcW), rows) {
			return fmt.Errorf("%w: source plane %v", ErrBufferTooSmall, i)
		}
	}
	for i := 0; i < p.dst.Planes; i++ {
		if !dst[i].fits(p.dst.planeWidth(i, p.dstW), p.dst.planeHeight(i, p.dstH)) {
			return fmt.Errorf("%w: destination plane %v", ErrBufferTooSmall, i)
		}
	}
	return nil
}

// Convert consumes source rows sliceY to sliceY+sliceH-1 and returns
// the number of destination rows written. src planes start at the first
// row of the slice, dst planes hold the whole frame. Slices must be
// submitted in order, a slice starting at row 0 begins a new frame.
func (p *Plan) Convert(src []Plane, sliceY, sliceH int, dst []Plane) (int, error) {
	if sliceY < 0 || sliceH < 1 || sliceY+sliceH > p.srcH {
		return 0, fmt.Errorf("%w: rows %v to %v outside %v rows frame",
			ErrSliceOrder, sliceY, sliceY+sliceH-1, p.srcH)
	}
	if err := p.checkPlanes(src, sliceY, sliceH, dst); err != nil {
		return 0, err
	}
	if sliceY == 0 {
		p.reset()
	}
	if sliceY != p.nextSrcY {
		return 0, fmt.Errorf("%w: got row %v, expected %v", ErrSliceOrder, sliceY, p.nextSrcY)
	}
	p.nextSrcY = sliceY + sliceH
	if p.mode == ModeDirect {
		return p.direct(src, sliceY, sliceH, dst), nil
	}
	return p.resample(src, sliceY, sliceH, dst), nil
}

func (p *Plan) resample(src []Plane, sliceY, sliceH int, dst []Plane) int {
	end := sliceY + sliceH
	chrEnd := ceilShift(end, p.chrSrcVSub)
	mask := 1<<p.chrDstVSub - 1
	emitted := 0
	for ; p.dstY < p.dstH; p.dstY++ {
		y := p.dstY
		firstLum := p.vLum.Offsets[y]
		lastLum := firstLum + p.vLum.Size - 1
		lastLum2 := p.vLum.Offsets[min(y|mask, p.dstH-1)] + p.vLum.Size - 1
		if firstLum > p.lastInLum+1 {
			p.hole(y, "luma", p.lastInLum, firstLum)
			p.lastInLum = firstLum - 1
		}
		enough := lastLum2 < end
		firstChr, lastChr := 0, -1
		if p.needChroma {
			firstChr = p.vChr.Offsets[y>>p.chrDstVSub]
			lastChr = firstChr + p.vChr.Size - 1
			if firstChr > p.lastInChr+1 {
				p.hole(y, "chroma", p.lastInChr, firstChr)
				p.lastInChr = firstChr - 1
			}
			enough = enough && lastChr < chrEnd
		}
		if !enough {
			lastLum = end - 1
			if p.needChroma {
				lastChr = chrEnd - 1
			}
		}
		for ; p.lastInLum < lastLum; p.lastInLum++ {
			p.scaleLuma(src, p.lastInLum+1-sliceY, p.lumRing.slot(p.lastInLum+1))
		}
		for ; p.lastInChr < lastChr; p.lastInChr++ {
			c := p.lastInChr + 1
			p.scaleChroma(src, c<<p.chrDrop-sliceY>>p.src.ChromaH, c)
		}
		if !enough {
			break
		}
		p.emit(dst, y)
		emitted++
	}
	return emitted
}

func (p *Plan) hole(y int, plane string, last, first int) {
	if p.holeLogged {
		return
	}
	p.holeLogged = true
	p.log.WithFields(logrus.Fields{
		"function": "Convert",
		"plane":    plane,
		"dst_row":  y,
		"skipped":  fmt.Sprintf("%v-%v", last+1, first-1),
	}).Debug("source rows skipped")
}

// scaleLuma scales row y of the slice into dst
func (p *Plan) scaleLuma(src []Plane, y int, dst []int16) {
	row := p.reader.luma(src, y)
	if p.fast {
		p.scaler.hScaleFast(dst, row[:p.srcW], p.lumXInc)
		return
	}
	p.scaler.hScale(dst, row, p.hLum)
}

// scaleChroma scales row y of the slice into the slots of chroma row c
func (p *Plan) scaleChroma(src []Plane, y, c int) {
	u, v := p.reader.chroma(src, y)
	cb, cr := p.cbRing.slot(c), p.crRing.slot(c)
	if p.fast {
		p.scaler.hScaleFast(cb, u[:p.chrSrcW], p.chrXInc)
		p.scaler.hScaleFast(cr, v[:p.chrSrcW], p.chrXInc)
		return
	}
	p.scaler.hScale(cb, u, p.hChr)
	p.scaler.hScale(cr, v, p.hChr)
}

// emit filters destination row y out of the rings
func (p *Plan) emit(dst []Plane, y int) {
	lum := p.lumRing.window(p.lumWin, p.vLum.Offsets[y])
	lcof := p.vLum.Row(y)
	cy := y >> p.chrDstVSub
	chroma := p.needChroma && y&(1<<p.chrDstVSub-1) == 0
	var cb, cr [][]int16
	var ccof []int16
	if chroma {
		first := p.vChr.Offsets[cy]
		cb = p.cbRing.window(p.cbWin, first)
		cr = p.crRing.window(p.crWin, first)
		ccof = p.vChr.Row(cy)
	}
	switch p.dst.Layout {
	case LayoutGray:
		p.scaler.vScale(dst[0].Row(y, p.dstW), lum, lcof)
	case LayoutPlanar:
		var u, v []byte
		if chroma {
			u = dst[1].Row(cy, p.chrDstW)
			v = dst[2].Row(cy, p.chrDstW)
		}
		p.scaler.vScaleYUV(dst[0].Row(y, p.dstW), u, v, lum, cb, cr, lcof, ccof)
	default:
		var u, v []byte
		if chroma {
			u, v = p.uBuf, p.vBuf
		}
		p.scaler.vScaleYUV(p.yBuf, u, v, lum, cb, cr, lcof, ccof)
		p.packer.pack(dst, y, cy, p.yBuf, u, v)
	}
}
