// Copyright 2014 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"

	"golang.org/x/sys/cpu"
)

// Backend selects the numeric implementation of the scalers
type Backend int

const (
	// BackendAuto picks the best backend for the running cpu
	BackendAuto Backend = iota
	// BackendGeneric is the portable one tap at a time implementation
	BackendGeneric
	// BackendUnrolled processes taps four at a time
	BackendUnrolled
)

func (b Backend) String() string {
	switch b {
	case BackendAuto:
		return "auto"
	case BackendGeneric:
		return "generic"
	case BackendUnrolled:
		return "unrolled"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// Features is the subset of cpu capabilities the probe looks at
type Features struct {
	SSE2, AVX2, ASIMD bool
}

// hostFeatures reads the running cpu capabilities
func hostFeatures() Features {
	return Features{
		SSE2:  cpu.X86.HasSSE2,
		AVX2:  cpu.X86.HasAVX2,
		ASIMD: cpu.ARM64.HasASIMD,
	}
}

// probeBackend maps cpu capabilities to a backend
func probeBackend(f Features) Backend {
	if f.SSE2 || f.AVX2 || f.ASIMD {
		return BackendUnrolled
	}
	return BackendGeneric
}

// resolveBackend returns the scaler implementing b
func resolveBackend(b Backend) (scaler, error) {
	if b == BackendAuto {
		b = probeBackend(hostFeatures())
	}
	switch b {
	case BackendGeneric:
		return genericScaler{}, nil
	case BackendUnrolled:
		return unrolledScaler{}, nil
	}
	return nil, fmt.Errorf("%w: backend %v", ErrInvalidOption, b)
}

// scaler is a numeric backend. Every implementation returns bit
// identical results.
type scaler interface {
	backend() Backend
	// hAlign & vAlign are the tap multiples the banks are padded to
	hAlign() int
	vAlign() int
	// hScale filters one source row into one intermediate row
	hScale(dst []int16, src []byte, b *FilterBank)
	// hScaleFast interpolates one source row with a 16.16 step
	hScaleFast(dst []int16, src []byte, inc int)
	// vScale filters intermediate rows into one 8-bit row
	vScale(dst []byte, rows [][]int16, cof []int16)
	// vScaleYUV filters luma and chroma rows at once, chroma is skipped
	// when u is nil
	vScaleYUV(y, u, v []byte, lum, cb, cr [][]int16, lcof, ccof []int16)
	copyRow(dst, src []byte)
}
