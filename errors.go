// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import "errors"

// Plan construction errors.
var (
	// ErrInvalidDimensions indicates a source or destination size the
	// scaler cannot handle.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrUnsupportedFormat indicates a pixel format outside the format table.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrAllocation indicates a buffer or filter could not be sized.
	ErrAllocation = errors.New("allocation failure")

	// ErrInvalidVector indicates an unusable extra filter vector.
	ErrInvalidVector = errors.New("invalid filter vector")

	// ErrInvalidOption indicates an out of range option value.
	ErrInvalidOption = errors.New("invalid option")
)

// Conversion errors.
var (
	// ErrSliceOrder indicates source rows were not submitted contiguously.
	ErrSliceOrder = errors.New("slice submitted out of order")

	// ErrBufferTooSmall indicates a plane is missing or shorter than its rows.
	ErrBufferTooSmall = errors.New("buffer too small")
)
