// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

const (
	// HorizontalBits is the number of fractional bits of horizontal taps
	HorizontalBits = 14
	// VerticalBits is the number of fractional bits of vertical taps
	VerticalBits = 12
	// maxFilterSize bounds the number of taps of a single bank row
	maxFilterSize = 256
	// reduceCutoff is the cumulated weight under which edge taps are dropped
	reduceCutoff = 0.002
)

// FilterBank is a shift-variant FIR resampler along one axis.
// Output sample i reads Size source samples from Offsets[i].
type FilterBank struct {
	Offsets []int   // Dst+1 entries, the last one repeats Offsets[Dst-1]
	Coeffs  []int16 // Dst*Size taps
	Size    int     // taps per row
	Src     int     // source extent
	Dst     int     // destination extent
	One     int     // quantized unity
}

// Row returns the taps of output sample i
func (b *FilterBank) Row(i int) []int16 {
	return b.Coeffs[i*b.Size : (i+1)*b.Size]
}

// Sum returns the quantized sum of the taps of output sample i
func (b *FilterBank) Sum(i int) int {
	sum := 0
	for _, c := range b.Row(i) {
		sum += int(c)
	}
	return sum
}

// FilterConfig configures BuildFilter
type FilterConfig struct {
	Src    int        // source extent
	Dst    int        // destination extent
	Inc    int        // 16.16 source step per destination sample
	Kernel Kernel     // interpolation function
	Params [2]float64 // kernel shape, ParamDefault for defaults
	SrcVec *Vector    // optional vector applied before scaling
	DstVec *Vector    // optional vector applied after scaling
	One    int        // quantized unity
	Align  int        // the final size is a multiple of Align
	Logger *logrus.Entry
}

// BuildFilter returns the filter bank resampling Src samples into Dst
func BuildFilter(cfg *FilterConfig) (*FilterBank, error) {
	if cfg.Src < 1 || cfg.Dst < 1 || cfg.Inc <= 0 {
		return nil, fmt.Errorf("%w: filter %v -> %v", ErrInvalidDimensions, cfg.Src, cfg.Dst)
	}
	if !cfg.SrcVec.trivial() && cfg.SrcVec.isNaN() || !cfg.DstVec.trivial() && cfg.DstVec.isNaN() {
		return nil, ErrInvalidVector
	}
	pos, weights, taps := makeDoubleKernel(cfg)
	pos, weights, taps = convolveKernel(cfg, pos, weights, taps)
	normalizeRows(weights, taps, cfg.Dst)
	needed := reduceKernel(pos, weights, taps, cfg.Dst)
	size := alignSize(needed, cfg.Align)
	if size > maxFilterSize {
		return nil, fmt.Errorf("%w: %v taps filter", ErrAllocation, size)
	}
	// padding taps stay zero whatever the alignment
	weights = resizeKernel(weights, taps, needed, cfg.Dst)
	weights = resizeKernel(weights, needed, size, cfg.Dst)
	fixBorders(pos, weights, size, cfg.Src)
	if size > cfg.Src {
		weights = resizeKernel(weights, size, cfg.Src, cfg.Dst)
		size = cfg.Src
	}
	coeffs := makeIntegerKernel(cfg, weights, size)
	offsets := make([]int, cfg.Dst+1)
	copy(offsets, pos)
	offsets[cfg.Dst] = offsets[cfg.Dst-1]
	return &FilterBank{
		Offsets: offsets,
		Coeffs:  coeffs,
		Size:    size,
		Src:     cfg.Src,
		Dst:     cfg.Dst,
		One:     cfg.One,
	}, nil
}

// siting of both luma and chroma samples, in 1/256 of a sample
const centerPos = 128

// makeDoubleKernel evaluates the kernel for every output sample
func makeDoubleKernel(cfg *FilterConfig) ([]int, []float64, int) {
	src, dst, inc := cfg.Src, cfg.Dst, int64(cfg.Inc)
	pos := make([]int, dst)
	kernel := cfg.Kernel
	if kernel == KernelBicublin {
		kernel = KernelBicubic
	}
	if d := inc - 1<<16; d > -10 && d < 10 {
		weights := make([]float64, dst)
		for i := range pos {
			pos[i] = i
			weights[i] = 1
		}
		return pos, weights, 1
	}
	if kernel == KernelPoint {
		weights := make([]float64, dst)
		xpos := (centerPos*inc)>>8 - (centerPos*0x8000)>>7
		for i := range pos {
			// ties go to the lower sample
			pos[i] = int((xpos + 1<<15 - 1) >> 16)
			weights[i] = 1
			xpos += inc
		}
		return pos, weights, 1
	}
	if inc <= 1<<16 && kernel == KernelArea || kernel == KernelFastBilinear {
		const taps = 2
		weights := make([]float64, dst*taps)
		xpos := (centerPos*inc)>>8 - (centerPos*0x8000)>>7
		for i := range pos {
			xx := xpos >> 16
			pos[i] = int(xx)
			for j := 0; j < taps; j++ {
				d := math.Abs(float64((xx+int64(j))<<16-xpos)) / (1 << 16)
				weights[i*taps+j] = math.Max(0, 1-d)
			}
			xpos += inc
		}
		return pos, weights, taps
	}
	factor := sizeFactor(kernel, cfg.Params)
	taps := 1 + factor
	if inc > 1<<16 {
		taps = 1 + (factor*src+dst-1)/dst
	}
	taps = max(min(taps, src-2), 1)
	filter := NewFilter(kernel, cfg.Params, cfg.Inc)
	weights := make([]float64, dst*taps)
	xpos := (centerPos*inc)>>7 - (centerPos*0x10000)>>7
	for i := range pos {
		xx := (xpos - int64(taps-2)*(1<<16)) / (1 << 17)
		pos[i] = int(xx)
		for j := 0; j < taps; j++ {
			d := float64((xx+int64(j))<<17-xpos) / (1 << 17)
			d = math.Abs(d)
			if inc > 1<<16 {
				d = d * float64(dst) / float64(src)
			}
			weights[i*taps+j] = filter.Get(d)
		}
		xpos += 2 * inc
	}
	return pos, weights, taps
}

// convolveKernel applies the optional extra vectors to every row
func convolveKernel(cfg *FilterConfig, pos []int, weights []float64, taps int) ([]int, []float64, int) {
	var extra *Vector
	for _, v := range []*Vector{cfg.SrcVec, cfg.DstVec} {
		if v.trivial() {
			continue
		}
		if extra == nil {
			extra = v.Clone()
		} else {
			extra.Conv(v)
		}
	}
	if extra == nil {
		return pos, weights, taps
	}
	size := taps + extra.Len() - 1
	out := make([]float64, cfg.Dst*size)
	for i := range pos {
		row := out[i*size : (i+1)*size]
		for k, c := range extra.Coeffs {
			for j, w := range weights[i*taps : (i+1)*taps] {
				row[k+j] += c * w
			}
		}
		pos[i] += (taps-1)/2 - (size-1)/2
	}
	return pos, out, size
}

func normalizeRows(weights []float64, taps, size int) {
	for i := 0; i < size; i++ {
		row := weights[i*taps : (i+1)*taps]
		sum := 0.0
		for _, w := range row {
			sum += w
		}
		if sum == 0 {
			continue
		}
		for j := range row {
			row[j] /= sum
		}
	}
}

// reduceKernel drops near zero taps on both sides of every row and
// returns the number of taps still needed. Offsets stay monotonic.
func reduceKernel(pos []int, weights []float64, taps, size int) int {
	needed := 0
	for i := size - 1; i >= 0; i-- {
		row := weights[i*taps : (i+1)*taps]
		cut := 0.0
		for j := 0; j < taps; j++ {
			cut += math.Abs(row[0])
			if cut > reduceCutoff {
				break
			}
			if i < size-1 && pos[i] >= pos[i+1] {
				break
			}
			copy(row, row[1:])
			row[taps-1] = 0
			pos[i]++
		}
		n := taps
		cut = 0
		for j := taps - 1; j > 0; j-- {
			cut += math.Abs(row[j])
			if cut > reduceCutoff {
				break
			}
			n--
		}
		needed = max(needed, n)
	}
	return needed
}

func alignSize(size, n int) int {
	if n <= 1 || size == 1 && n == 2 {
		return size
	}
	return (size + n - 1) / n * n
}

// resizeKernel copies every row of taps weights into size weights
func resizeKernel(weights []float64, taps, size, dst int) []float64 {
	if taps == size {
		return weights
	}
	out := make([]float64, dst*size)
	for i := 0; i < dst; i++ {
		copy(out[i*size:(i+1)*size], weights[i*taps:(i+1)*taps])
	}
	return out
}

// fixBorders folds taps reading outside [0, src) into the closest valid tap
func fixBorders(pos []int, weights []float64, size, src int) {
	for i := range pos {
		row := weights[i*size : (i+1)*size]
		if pos[i] < 0 {
			for j := 1; j < size; j++ {
				left := max(j+pos[i], 0)
				if left != j {
					row[left] += row[j]
					row[j] = 0
				}
			}
			pos[i] = 0
		}
		if pos[i]+size > src {
			shift := pos[i] + min(size-src, 0)
			acc := 0.0
			for j := size - 1; j >= 0; j-- {
				if pos[i]+j >= src {
					acc += row[j]
					row[j] = 0
				}
			}
			for j := size - 1; j >= 0; j-- {
				if j < shift {
					row[j] = 0
				} else {
					row[j] = row[j-shift]
				}
			}
			pos[i] -= shift
			row[src-1-pos[i]] += acc
		}
	}
}

// weight is one tap of a row being quantized
type weight struct {
	weight float64
	offset int
}

// byMagnitude sorts taps by decreasing magnitude
type byMagnitude []weight

func (w byMagnitude) Len() int {
	return len(w)
}

func (w byMagnitude) Less(i, j int) bool {
	return math.Abs(w[j].weight) < math.Abs(w[i].weight)
}

func (w byMagnitude) Swap(i, j int) {
	w[i], w[j] = w[j], w[i]
}

// makeIntegerKernel quantizes every row so its taps sum to cfg.One,
// spreading the rounding error from the largest tap down
func makeIntegerKernel(cfg *FilterConfig, weights []float64, taps int) []int16 {
	coeffs := make([]int16, taps*cfg.Dst)
	fweights := make(byMagnitude, taps)
	for i := 0; i < cfg.Dst; i++ {
		sum := 0.0
		for j, w := range weights[i*taps : (i+1)*taps] {
			fweights[j].weight = w
			fweights[j].offset = j
			sum += w
		}
		if sum == 0 {
			if cfg.Logger != nil {
				cfg.Logger.WithFields(logrus.Fields{
					"function": "makeIntegerKernel",
					"row":      i,
				}).Warn("zero vector in scaling")
			}
			sum = 1
		}
		sort.Stable(fweights)
		diff := float64(0)
		scale := float64(cfg.One) / sum
		for _, it := range fweights {
			if it.weight == 0 {
				coeffs[i*taps+it.offset] = 0
				continue
			}
			w := it.weight*scale + diff
			iw := math.Floor(w + 0.5)
			coeffs[i*taps+it.offset] = int16(clip(int(iw), math.MinInt16, math.MaxInt16))
			diff = w - iw
		}
	}
	return coeffs
}

func clip(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
