// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Vector is a 1-D filter convolved into the built filter banks.
// Coefficients are centered on (len-1)/2.
type Vector struct {
	Coeffs []float64
}

// NewConstVector returns a vector of length coefficients set to c
func NewConstVector(c float64, length int) *Vector {
	if length <= 0 {
		return nil
	}
	v := &Vector{Coeffs: make([]float64, length)}
	for i := range v.Coeffs {
		v.Coeffs[i] = c
	}
	return v
}

// NewIdentityVector returns the single coefficient vector {1}
func NewIdentityVector() *Vector {
	return NewConstVector(1, 1)
}

// NewGaussianVector returns a normalized gaussian of the given variance,
// quality controls the length of the vector
func NewGaussianVector(variance, quality float64) *Vector {
	if variance < 0 || quality < 0 {
		return nil
	}
	length := int(variance*quality+0.5) | 1
	middle := float64(length-1) * 0.5
	v := NewConstVector(0, length)
	for i := range v.Coeffs {
		dist := float64(i) - middle
		v.Coeffs[i] = math.Exp(-dist*dist/(2*variance*variance)) /
			math.Sqrt(2*variance*math.Pi)
	}
	v.Normalize(1)
	return v
}

// Len returns the number of coefficients
func (v *Vector) Len() int {
	return len(v.Coeffs)
}

// Sum returns the sum of all coefficients
func (v *Vector) Sum() float64 {
	sum := 0.0
	for _, c := range v.Coeffs {
		sum += c
	}
	return sum
}

// Scale multiplies every coefficient by scalar
func (v *Vector) Scale(scalar float64) {
	for i := range v.Coeffs {
		v.Coeffs[i] *= scalar
	}
}

// Normalize scales v so its coefficients sum to height
func (v *Vector) Normalize(height float64) {
	v.Scale(height / v.Sum())
}

// Conv replaces v with the convolution of v and b
func (v *Vector) Conv(b *Vector) {
	out := make([]float64, v.Len()+b.Len()-1)
	for i, x := range v.Coeffs {
		for j, y := range b.Coeffs {
			out[i+j] += x * y
		}
	}
	v.Coeffs = out
}

// centered returns a zeroed slice of max(len(a), len(b)) values with a
// added at its center
func (v *Vector) centered(b *Vector) []float64 {
	length := max(v.Len(), b.Len())
	out := make([]float64, length)
	for i, x := range v.Coeffs {
		out[i+(length-1)/2-(v.Len()-1)/2] += x
	}
	return out
}

// Add adds b to v, both centered
func (v *Vector) Add(b *Vector) {
	out := v.centered(b)
	for i, x := range b.Coeffs {
		out[i+(len(out)-1)/2-(b.Len()-1)/2] += x
	}
	v.Coeffs = out
}

// Sub subtracts b from v, both centered
func (v *Vector) Sub(b *Vector) {
	out := v.centered(b)
	for i, x := range b.Coeffs {
		out[i+(len(out)-1)/2-(b.Len()-1)/2] -= x
	}
	v.Coeffs = out
}

// Shift moves the coefficients left by shift, right if negative.
// The vector grows so its center is preserved.
func (v *Vector) Shift(shift int) {
	abs := shift
	if abs < 0 {
		abs = -abs
	}
	length := v.Len() + abs*2
	out := make([]float64, length)
	for i, x := range v.Coeffs {
		out[i+(length-1)/2-(v.Len()-1)/2-shift] = x
	}
	v.Coeffs = out
}

// Clone returns a copy of v
func (v *Vector) Clone() *Vector {
	return &Vector{Coeffs: append([]float64(nil), v.Coeffs...)}
}

func (v *Vector) isNaN() bool {
	for _, c := range v.Coeffs {
		if math.IsNaN(c) {
			return true
		}
	}
	return false
}

// Fprint writes one line per coefficient with a bar proportional to its value
func (v *Vector) Fprint(w io.Writer) error {
	lo, hi := 0.0, 0.0
	for _, c := range v.Coeffs {
		hi = math.Max(hi, c)
		lo = math.Min(lo, c)
	}
	span := hi - lo
	for _, c := range v.Coeffs {
		x := 0
		if span > 0 {
			x = int((c-lo)*60/span + 0.5)
		}
		_, err := fmt.Fprintf(w, "%1.3f %v|\n", c, strings.Repeat(" ", x))
		if err != nil {
			return err
		}
	}
	return nil
}

func (v *Vector) String() string {
	b := strings.Builder{}
	v.Fprint(&b)
	return b.String()
}

// trivial returns whether v leaves a filter unchanged when convolved
func (v *Vector) trivial() bool {
	return v == nil || v.Len() <= 1
}

// FilterSet holds extra vectors per axis and plane
type FilterSet struct {
	LumH, LumV *Vector
	ChrH, ChrV *Vector
}

func (f *FilterSet) nonTrivial() (h, v bool) {
	if f == nil {
		return false, false
	}
	h = !f.LumH.trivial() || !f.ChrH.trivial()
	v = !f.LumV.trivial() || !f.ChrV.trivial()
	return
}

// DefaultFilter returns blur, sharpen and chroma shift vectors.
// Zero values leave the matching vector at identity.
func DefaultFilter(lumaBlur, chromaBlur, lumaSharpen, chromaSharpen,
	chromaHShift, chromaVShift float64) (*FilterSet, error) {
	f := &FilterSet{}
	gaussian := func(blur float64) (*Vector, *Vector) {
		if blur != 0 {
			return NewGaussianVector(blur, 3), NewGaussianVector(blur, 3)
		}
		return NewIdentityVector(), NewIdentityVector()
	}
	f.LumH, f.LumV = gaussian(lumaBlur)
	f.ChrH, f.ChrV = gaussian(chromaBlur)
	if f.LumH == nil || f.ChrH == nil {
		return nil, fmt.Errorf("%w: negative blur", ErrInvalidVector)
	}
	sharpen := func(v *Vector, amount float64) {
		if amount != 0 {
			v.Scale(-amount)
			v.Add(NewIdentityVector())
		}
	}
	sharpen(f.ChrH, chromaSharpen)
	sharpen(f.ChrV, chromaSharpen)
	sharpen(f.LumH, lumaSharpen)
	sharpen(f.LumV, lumaSharpen)
	if chromaHShift != 0 {
		f.ChrH.Shift(int(chromaHShift + 0.5))
	}
	if chromaVShift != 0 {
		f.ChrV.Shift(int(chromaVShift + 0.5))
	}
	for _, v := range []*Vector{f.ChrH, f.ChrV, f.LumH, f.LumV} {
		v.Normalize(1)
		if v.isNaN() {
			return nil, fmt.Errorf("%w: vector does not normalize", ErrInvalidVector)
		}
	}
	return f, nil
}
