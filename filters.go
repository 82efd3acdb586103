// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"
	"math"
	"strings"
)

// Kernel selects the interpolation function used to build filter banks
type Kernel int

const (
	// KernelFastBilinear is a two-tap linear filter evaluated directly,
	// with ratios nudged so edge samples land on the first and last
	// source samples
	KernelFastBilinear Kernel = iota
	// KernelBilinear is a triangle filter
	KernelBilinear
	// KernelBicubic is a B,C cubic filter
	KernelBicubic
	// KernelX is the cosine-power experimental filter
	KernelX
	// KernelPoint is nearest neighbor
	KernelPoint
	// KernelArea is area averaging, bilinear when upscaling
	KernelArea
	// KernelBicublin is bicubic for luma and bilinear for chroma
	KernelBicublin
	// KernelGauss is a gaussian filter
	KernelGauss
	// KernelSinc is an unwindowed sinc
	KernelSinc
	// KernelLanczos is a windowed sinc
	KernelLanczos
	// KernelSpline is a natural bicubic spline
	KernelSpline
	numKernels
)

// ParamDefault marks a kernel parameter left to its default value
const ParamDefault = 123456

var kernelNames = [numKernels]struct {
	name        string
	description string
	sizeFactor  int
}{
	KernelFastBilinear: {"fast_bilinear", "fast bilinear", -1},
	KernelBilinear:     {"bilinear", "bilinear", 2},
	KernelBicubic:      {"bicubic", "bicubic", 4},
	KernelX:            {"experimental", "experimental", 8},
	KernelPoint:        {"neighbor", "nearest neighbor / point", -1},
	KernelArea:         {"area", "area averaging", 1},
	KernelBicublin:     {"bicublin", "luma bicubic / chroma bilinear", -1},
	KernelGauss:        {"gauss", "Gaussian", 8},
	KernelSinc:         {"sinc", "sinc", 20},
	KernelLanczos:      {"lanczos", "Lanczos", -1},
	KernelSpline:       {"spline", "bicubic spline", 20},
}

func (k Kernel) String() string {
	if k < 0 || k >= numKernels {
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
	return kernelNames[k].name
}

// Description returns a human readable kernel name
func (k Kernel) Description() string {
	if k < 0 || k >= numKernels {
		return "invalid"
	}
	return kernelNames[k].description
}

// ParseKernel returns the kernel named name
func ParseKernel(name string) (Kernel, error) {
	name = strings.ToLower(name)
	for i, it := range kernelNames {
		if it.name == name {
			return Kernel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown kernel %q", name)
}

// Filter evaluates a symmetric interpolation function
type Filter interface {
	// Taps returns the filter support, in output samples, on each side
	Taps() int
	// Get returns the weight at distance dx from the sample center
	Get(dx float64) float64
}

func param(p [2]float64, i int, def float64) float64 {
	if p[i] == ParamDefault {
		return def
	}
	return p[i]
}

// sizeFactor returns how many source samples per output sample the
// kernel needs when upscaling
func sizeFactor(k Kernel, p [2]float64) int {
	if k == KernelLanczos {
		return int(math.Ceil(2 * param(p, 0, 3)))
	}
	return kernelNames[k].sizeFactor
}

// NewFilter returns the interpolation function of kernel k. xInc is the
// 16.16 source step, only used by the area kernel.
func NewFilter(k Kernel, p [2]float64, xInc int) Filter {
	switch k {
	case KernelBicubic, KernelBicublin:
		return NewCustomBicubicFilter(param(p, 0, 0), param(p, 1, 0.6))
	case KernelX:
		return xfilter{a: param(p, 0, 1)}
	case KernelArea:
		return area{inc: float64(xInc) / (1 << 16)}
	case KernelGauss:
		return gauss{p: param(p, 0, 3)}
	case KernelSinc:
		return sinc{}
	case KernelLanczos:
		return NewLanczosFilter(param(p, 0, 3))
	case KernelSpline:
		return spline{}
	}
	return bilinear{}
}

type bilinear struct{}

func (bilinear) Taps() int { return 1 }

func (bilinear) Get(x float64) float64 {
	if x < 1 {
		return 1 - x
	}
	return 0
}

// NewBilinearFilter returns a triangle filter
func NewBilinearFilter() Filter {
	return bilinear{}
}

type bicubic struct {
	a, b, c, d, e, f, g float64
}

func (bicubic) Taps() int {
	return 2
}

func (f *bicubic) Get(x float64) float64 {
	if x < 1 {
		return f.a + x*x*(f.b+x*f.c)
	} else if x < 2 {
		return f.d + x*(f.e+x*(f.f+x*f.g))
	}
	return 0
}

// NewCustomBicubicFilter returns a Mitchell-Netravali filter
func NewCustomBicubicFilter(b, c float64) Filter {
	f := &bicubic{}
	f.a = 1 - b/3
	f.b = -3 + 2*b + c
	f.c = 2 - 3*b/2 - c
	f.d = 4*b/3 + 4*c
	f.e = -2*b - 8*c
	f.f = b + 5*c
	f.g = -b/6 - c
	return f
}

// NewBicubicFilter returns the default bicubic filter
func NewBicubicFilter() Filter {
	return NewCustomBicubicFilter(0, 0.6)
}

type lanczos struct {
	taps float64
}

func (f lanczos) Taps() int {
	return int(math.Ceil(f.taps))
}

func (f lanczos) Get(x float64) float64 {
	if x > f.taps {
		return 0
	} else if x == 0 {
		return 1
	}
	b := x * math.Pi
	c := b / f.taps
	return math.Sin(b) * math.Sin(c) / (b * c)
}

// NewLanczosFilter returns a lanczos filter with taps lobes
func NewLanczosFilter(taps float64) Filter {
	return lanczos{taps: taps}
}

type xfilter struct {
	a float64
}

func (xfilter) Taps() int { return 4 }

func (f xfilter) Get(x float64) float64 {
	c := -1.0
	if x < 1 {
		c = math.Cos(x * math.Pi)
	}
	if c < 0 {
		c = -math.Pow(-c, f.a)
	} else {
		c = math.Pow(c, f.a)
	}
	return c*0.5 + 0.5
}

type area struct {
	inc float64
}

func (area) Taps() int { return 1 }

func (f area) Get(x float64) float64 {
	v := 0.5 - (x-0.5)*f.inc
	return math.Max(0, math.Min(1, v))
}

type gauss struct {
	p float64
}

func (gauss) Taps() int { return 4 }

func (f gauss) Get(x float64) float64 {
	return math.Exp2(-f.p * x * x)
}

type sinc struct{}

func (sinc) Taps() int { return 10 }

func (sinc) Get(x float64) float64 {
	if x == 0 {
		return 1
	}
	b := x * math.Pi
	return math.Sin(b) / b
}

type spline struct{}

func (spline) Taps() int { return 10 }

func (spline) Get(x float64) float64 {
	const p = -2.196152422706632
	return splineCoeff(1, 0, p, -p-1, x)
}

func splineCoeff(a, b, c, d, dist float64) float64 {
	for dist > 1 {
		a, b, c, d = 0, b+2*c+3*d, c+3*d, -b-3*c-6*d
		dist--
	}
	return ((d*dist+c)*dist+b)*dist + a
}
