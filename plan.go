// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultFastEdgeBias is the default FastEdgeBias
const DefaultFastEdgeBias = 20

// Options configures a Plan
type Options struct {
	Kernel Kernel
	// Params shapes the kernel, use ParamDefault for defaults
	Params [2]float64
	// FullChromaInput samples packed rgb chroma at every pixel
	FullChromaInput bool
	// FullChromaOutput computes packed rgb chroma at every pixel
	FullChromaOutput bool
	// ChromaDrop skips 2^ChromaDrop - 1 chroma source lines out of 2^ChromaDrop
	ChromaDrop int
	// blur, sharpen and shift amounts of the default filter
	ChromaHShift  float64
	ChromaVShift  float64
	LumaBlur      float64
	ChromaBlur    float64
	LumaSharpen   float64
	ChromaSharpen float64
	// extra vectors applied before and after scaling
	SrcFilter *FilterSet
	DstFilter *FilterSet
	Backend   Backend
	// FastEdgeBias is subtracted from the fast bilinear horizontal steps
	FastEdgeBias int
	// PrintInfo logs the plan at info level instead of debug
	PrintInfo bool
	Logger    *logrus.Entry
}

// DefaultOptions returns bicubic options
func DefaultOptions() *Options {
	return &Options{
		Kernel:       KernelBicubic,
		Params:       [2]float64{ParamDefault, ParamDefault},
		FastEdgeBias: DefaultFastEdgeBias,
	}
}

// Mode is how a plan converts rows
type Mode int

const (
	// ModeDirect converts rows one at a time without scaling
	ModeDirect Mode = iota
	// ModeResample filters rows through the ring buffers
	ModeResample
)

func (m Mode) String() string {
	if m == ModeDirect {
		return "direct"
	}
	return "resample"
}

// Plan converts frames of one size and format into another
type Plan struct {
	id     uuid.UUID
	log    *logrus.Entry
	opts   Options
	mode   Mode
	srcW   int
	srcH   int
	dstW   int
	dstH   int
	srcFmt PixelFormat
	dstFmt PixelFormat
	src    *FormatDesc
	dst    *FormatDesc
	scaler scaler
	reader *rowReader
	packer *packer

	lumKernel Kernel
	chrKernel Kernel
	fast      bool

	// 16.16 source steps
	lumXInc int
	lumYInc int
	chrXInc int
	chrYInc int

	chrSrcHSub uint
	chrSrcVSub uint
	chrDstHSub uint
	chrDstVSub uint
	chrDrop    uint
	chrSrcW    int
	chrSrcH    int
	chrDstW    int
	chrDstH    int
	needChroma bool

	hLum *FilterBank
	hChr *FilterBank
	vLum *FilterBank
	vChr *FilterBank

	lumRing *ring
	cbRing  *ring
	crRing  *ring
	lumWin  [][]int16
	cbWin   [][]int16
	crWin   [][]int16

	// output scratch rows for packed destinations
	yBuf []byte
	uBuf []byte
	vBuf []byte
	// direct mode 4:4:4 rows
	u444 []byte
	v444 []byte

	// streaming cursors
	dstY       int
	lastInLum  int
	lastInChr  int
	nextSrcY   int
	holeLogged bool
}

// NewPlan returns a plan converting srcW x srcH srcFmt frames into
// dstW x dstH dstFmt frames. opts may be nil.
func NewPlan(srcW, srcH int, srcFmt PixelFormat, dstW, dstH int, dstFmt PixelFormat, opts *Options) (*Plan, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if srcW < 4 || srcH < 1 || dstW < 8 || dstH < 1 {
		return nil, fmt.Errorf("%w: %vx%v -> %vx%v", ErrInvalidDimensions, srcW, srcH, dstW, dstH)
	}
	if !srcFmt.Supported() || !dstFmt.Supported() {
		return nil, fmt.Errorf("%w: %v -> %v", ErrUnsupportedFormat, srcFmt, dstFmt)
	}
	if opts.Kernel < 0 || opts.Kernel >= numKernels {
		return nil, fmt.Errorf("%w: kernel %v", ErrInvalidOption, opts.Kernel)
	}
	if opts.ChromaDrop < 0 || opts.ChromaDrop > 3 {
		return nil, fmt.Errorf("%w: chroma drop %v", ErrInvalidOption, opts.ChromaDrop)
	}
	p := &Plan{
		id:     uuid.New(),
		opts:   *opts,
		srcW:   srcW,
		srcH:   srcH,
		dstW:   dstW,
		dstH:   dstH,
		srcFmt: srcFmt,
		dstFmt: dstFmt,
		src:    srcFmt.Desc(),
		dst:    dstFmt.Desc(),
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	p.log = log.WithField("plan_id", p.id.String())
	var err error
	p.scaler, err = resolveBackend(opts.Backend)
	if err != nil {
		return nil, err
	}
	if err = p.initFilters(); err != nil {
		return nil, err
	}
	p.needChroma = !p.dst.isGray()
	if p.isDirect() {
		p.initDirect()
	} else if err = p.initResample(); err != nil {
		return nil, err
	}
	p.reset()
	p.printInfo()
	return p, nil
}

// initFilters builds the default filter from the blur, sharpen and
// shift options when no source filter was given
func (p *Plan) initFilters() error {
	o := &p.opts
	if o.SrcFilter != nil {
		return nil
	}
	if o.LumaBlur == 0 && o.ChromaBlur == 0 && o.LumaSharpen == 0 &&
		o.ChromaSharpen == 0 && o.ChromaHShift == 0 && o.ChromaVShift == 0 {
		return nil
	}
	f, err := DefaultFilter(o.LumaBlur, o.ChromaBlur, o.LumaSharpen,
		o.ChromaSharpen, o.ChromaHShift, o.ChromaVShift)
	if err != nil {
		return err
	}
	o.SrcFilter = f
	return nil
}

func (p *Plan) isDirect() bool {
	if p.srcW != p.dstW || p.srcH != p.dstH {
		return false
	}
	sh, sv := p.opts.SrcFilter.nonTrivial()
	dh, dv := p.opts.DstFilter.nonTrivial()
	return !sh && !sv && !dh && !dv
}

func (p *Plan) initDirect() {
	p.mode = ModeDirect
	if !p.src.isRGB() {
		p.chrSrcHSub = p.src.ChromaW
		p.chrSrcVSub = p.src.ChromaH
	}
	if !p.dst.isRGB() {
		p.chrDstHSub = p.dst.ChromaW
		p.chrDstVSub = p.dst.ChromaH
	}
	p.chrDstW = ceilShift(p.dstW, p.chrDstHSub)
	p.chrDstH = ceilShift(p.dstH, p.chrDstVSub)
	p.reader = newRowReader(p.src, p.srcW, p.chrSrcHSub)
	p.packer = newPacker(p.dst, p.dstW, p.chrDstHSub)
	p.u444 = make([]byte, p.srcW)
	p.v444 = make([]byte, p.srcW)
	p.uBuf = make([]byte, p.chrDstW)
	p.vBuf = make([]byte, p.chrDstW)
}

// initChroma derives the chroma subsampling of both sides
func (p *Plan) initChroma() {
	o := &p.opts
	p.chrSrcHSub, p.chrSrcVSub = p.src.ChromaW, p.src.ChromaH
	p.chrDstHSub, p.chrDstVSub = p.dst.ChromaW, p.dst.ChromaH
	if p.dst.isRGB() {
		p.chrDstHSub = 1
		notSubsampled := p.src.ChromaW == 0 && p.src.ChromaH == 0
		if o.FullChromaOutput || p.dstW&1 != 0 || notSubsampled && !p.fast {
			p.chrDstHSub = 0
		}
	}
	if p.src.isRGB() && !o.FullChromaInput {
		if ceilShift(p.dstW, p.chrDstHSub) <= p.srcW>>1 || p.fast {
			p.chrSrcHSub = 1
		}
	}
	p.chrDrop = uint(o.ChromaDrop)
	p.chrSrcVSub += p.chrDrop
	p.chrSrcW = ceilShift(p.srcW, p.chrSrcHSub)
	p.chrSrcH = ceilShift(p.srcH, p.chrSrcVSub)
	p.chrDstW = ceilShift(p.dstW, p.chrDstHSub)
	p.chrDstH = ceilShift(p.dstH, p.chrDstVSub)
}

func inc(src, dst int) int {
	return ((src << 16) + dst/2) / dst
}

func (p *Plan) initResample() error {
	o := &p.opts
	p.mode = ModeResample
	p.lumKernel, p.chrKernel = o.Kernel, o.Kernel
	if o.Kernel == KernelBicublin {
		p.lumKernel, p.chrKernel = KernelBicubic, KernelBilinear
	}
	if o.Kernel == KernelFastBilinear {
		p.fast = p.srcW >= 8 && p.dstW >= 8
		if !p.fast {
			p.lumKernel, p.chrKernel = KernelBilinear, KernelBilinear
		}
	}
	p.initChroma()
	p.lumXInc = inc(p.srcW, p.dstW)
	p.lumYInc = inc(p.srcH, p.dstH)
	p.chrXInc = inc(p.chrSrcW, p.chrDstW)
	p.chrYInc = inc(p.chrSrcH, p.chrDstH)
	if p.fast {
		p.lumXInc = ((p.srcW-2)<<16)/(p.dstW-2) - o.FastEdgeBias
		if p.chrSrcW > 2 && p.chrDstW > 2 {
			p.chrXInc = ((p.chrSrcW-2)<<16)/(p.chrDstW-2) - o.FastEdgeBias
		}
	}
	src := o.SrcFilter
	if src == nil {
		src = &FilterSet{}
	}
	dst := o.DstFilter
	if dst == nil {
		dst = &FilterSet{}
	}
	hAlign, vAlign := p.scaler.hAlign(), p.scaler.vAlign()
	var err error
	p.hLum, err = p.buildFilter("horizontal luma", p.srcW, p.dstW, p.lumXInc, p.lumKernel,
		src.LumH, dst.LumH, 1<<HorizontalBits, hAlign)
	if err != nil {
		return err
	}
	p.vLum, err = p.buildFilter("vertical luma", p.srcH, p.dstH, p.lumYInc, p.lumKernel,
		src.LumV, dst.LumV, 1<<VerticalBits, vAlign)
	if err != nil {
		return err
	}
	if p.needChroma {
		p.hChr, err = p.buildFilter("horizontal chroma", p.chrSrcW, p.chrDstW, p.chrXInc, p.chrKernel,
			src.ChrH, dst.ChrH, 1<<HorizontalBits, hAlign)
		if err != nil {
			return err
		}
		p.vChr, err = p.buildFilter("vertical chroma", p.chrSrcH, p.chrDstH, p.chrYInc, p.chrKernel,
			src.ChrV, dst.ChrV, 1<<VerticalBits, vAlign)
		if err != nil {
			return err
		}
	}
	lumCap, chrCap := ringSizes(p.vLum, p.vChr, p.dstH, p.srcH, p.chrSrcH, p.chrDstVSub, p.chrSrcVSub)
	p.lumRing = newRing(lumCap, p.dstW)
	p.lumWin = make([][]int16, p.vLum.Size)
	if p.needChroma {
		p.cbRing = newRing(chrCap, p.chrDstW)
		p.crRing = newRing(chrCap, p.chrDstW)
		p.cbWin = make([][]int16, p.vChr.Size)
		p.crWin = make([][]int16, p.vChr.Size)
	}
	p.reader = newRowReader(p.src, p.srcW, p.chrSrcHSub)
	if p.dst.Layout != LayoutPlanar && p.dst.Layout != LayoutGray {
		p.packer = newPacker(p.dst, p.dstW, p.chrDstHSub)
		p.yBuf = make([]byte, p.dstW)
		p.uBuf = make([]byte, p.chrDstW)
		p.vBuf = make([]byte, p.chrDstW)
	}
	return nil
}

func (p *Plan) buildFilter(name string, src, dst, xinc int, k Kernel, srcVec, dstVec *Vector, one, align int) (*FilterBank, error) {
	b, err := BuildFilter(&FilterConfig{
		Src:    src,
		Dst:    dst,
		Inc:    xinc,
		Kernel: k,
		Params: p.opts.Params,
		SrcVec: srcVec,
		DstVec: dstVec,
		One:    one,
		Align:  align,
		Logger: p.log.WithField("bank", name),
	})
	if err != nil {
		return nil, fmt.Errorf("%v filter: %w", name, err)
	}
	return b, nil
}

func (p *Plan) printInfo() {
	fields := logrus.Fields{
		"function": "NewPlan",
		"src":      fmt.Sprintf("%vx%v %v", p.srcW, p.srcH, p.srcFmt),
		"dst":      fmt.Sprintf("%vx%v %v", p.dstW, p.dstH, p.dstFmt),
		"mode":     p.mode.String(),
		"backend":  p.scaler.backend().String(),
	}
	if p.mode == ModeResample {
		fields["kernel"] = p.lumKernel.Description()
		fields["lum_x_inc"] = p.lumXInc
		fields["lum_y_inc"] = p.lumYInc
		fields["chr_x_inc"] = p.chrXInc
		fields["chr_y_inc"] = p.chrYInc
		fields["lum_taps"] = fmt.Sprintf("%vx%v", p.hLum.Size, p.vLum.Size)
		fields["lum_ring"] = p.lumRing.capacity()
		if p.needChroma {
			fields["chr_taps"] = fmt.Sprintf("%vx%v", p.hChr.Size, p.vChr.Size)
			fields["chr_ring"] = p.cbRing.capacity()
		}
	}
	entry := p.log.WithFields(fields)
	if p.opts.PrintInfo {
		entry.Info("scaler plan")
	} else {
		entry.Debug("scaler plan")
	}
}

// ID returns the plan identifier used in log fields
func (p *Plan) ID() uuid.UUID {
	return p.id
}

// Mode returns whether p scales or only converts
func (p *Plan) Mode() Mode {
	return p.mode
}

// Banks returns the luma and chroma filter banks, all nil in direct mode.
// Chroma banks are nil for gray destinations.
func (p *Plan) Banks() (hLum, hChr, vLum, vChr *FilterBank) {
	return p.hLum, p.hChr, p.vLum, p.vChr
}

// Incs returns the 16.16 luma and chroma source steps
func (p *Plan) Incs() (lumX, lumY, chrX, chrY int) {
	return p.lumXInc, p.lumYInc, p.chrXInc, p.chrYInc
}

// Backend returns the numeric backend in use
func (p *Plan) Backend() Backend {
	return p.scaler.backend()
}
