// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Converter is an interface that implements conversion between images
type Converter interface {
	// Converts one image into another, applying any necessary colorspace
	// conversion and/or resizing
	// dst = destination image
	// src = source image
	// Result is undefined if src points to the same data as dst
	// Returns an error if the conversion fails
	Convert(dst, src image.Image) error
}

// FormatOf returns the pixel format matching the memory layout of img
func FormatOf(img image.Image) (PixelFormat, error) {
	switch v := img.(type) {
	case *image.YCbCr:
		switch v.SubsampleRatio {
		case image.YCbCrSubsampleRatio420:
			return YUV420P, nil
		case image.YCbCrSubsampleRatio422:
			return YUV422P, nil
		case image.YCbCrSubsampleRatio444:
			return YUV444P, nil
		case image.YCbCrSubsampleRatio440:
			return YUV440P, nil
		case image.YCbCrSubsampleRatio411:
			return YUV411P, nil
		}
		// image 4:1:0 halves chroma rows where yuv410p quarters them
	case *image.Gray:
		return GRAY8, nil
	case *image.RGBA:
		return RGBA, nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedFormat, img)
}

// ImagePlanes returns the planes of img starting at its first pixel
func ImagePlanes(img image.Image) ([]Plane, error) {
	b := img.Bounds()
	switch v := img.(type) {
	case *image.YCbCr:
		if _, err := FormatOf(v); err != nil {
			return nil, err
		}
		y := v.YOffset(b.Min.X, b.Min.Y)
		c := v.COffset(b.Min.X, b.Min.Y)
		return []Plane{
			{Data: v.Y[y:], Pitch: v.YStride},
			{Data: v.Cb[c:], Pitch: v.CStride},
			{Data: v.Cr[c:], Pitch: v.CStride},
		}, nil
	case *image.Gray:
		return []Plane{{Data: v.Pix[v.PixOffset(b.Min.X, b.Min.Y):], Pitch: v.Stride}}, nil
	case *image.RGBA:
		return []Plane{{Data: v.Pix[v.PixOffset(b.Min.X, b.Min.Y):], Pitch: v.Stride}}, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, img)
}

type imageConverter struct {
	plan *Plan
}

// NewConverter returns a Converter from images shaped like src into
// images shaped like dst. Sources without a native layout are copied to
// RGBA first, destinations must have one.
func NewConverter(dst, src image.Image, opts *Options) (Converter, error) {
	df, err := FormatOf(dst)
	if err != nil {
		return nil, err
	}
	sf, err := FormatOf(src)
	if err != nil {
		sf = RGBA
	}
	sb, db := src.Bounds(), dst.Bounds()
	plan, err := NewPlan(sb.Dx(), sb.Dy(), sf, db.Dx(), db.Dy(), df, opts)
	if err != nil {
		return nil, err
	}
	return &imageConverter{plan: plan}, nil
}

func (c *imageConverter) Convert(dst, src image.Image) error {
	if _, err := FormatOf(src); err != nil {
		rgba := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
		src = rgba
	}
	sp, err := ImagePlanes(src)
	if err != nil {
		return err
	}
	dp, err := ImagePlanes(dst)
	if err != nil {
		return err
	}
	_, err = c.plan.Convert(sp, 0, c.plan.srcH, dp)
	return err
}

// ConvertImage converts src into dst, applying any color conversion
// and/or resizing.
// Note that if you plan to do the same conversion over and over, it is faster
// to use a Converter interface
func ConvertImage(dst, src image.Image, opts *Options) error {
	converter, err := NewConverter(dst, src, opts)
	if err != nil {
		return err
	}
	return converter.Convert(dst, src)
}

// Psnr computes the PSNR of every plane of two images of the same
// format and size
func Psnr(a, b image.Image) ([]float64, error) {
	fa, err := FormatOf(a)
	if err != nil {
		return nil, err
	}
	fb, err := FormatOf(b)
	if err != nil {
		return nil, err
	}
	ab, bb := a.Bounds(), b.Bounds()
	if fa != fb || ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return nil, fmt.Errorf("%w: %vx%v %v != %vx%v %v", ErrInvalidDimensions,
			ab.Dx(), ab.Dy(), fa, bb.Dx(), bb.Dy(), fb)
	}
	pa, err := ImagePlanes(a)
	if err != nil {
		return nil, err
	}
	pb, err := ImagePlanes(b)
	if err != nil {
		return nil, err
	}
	psnrs := []float64{}
	for i := range pa {
		width, height := fa.PlaneSize(i, ab.Dx(), ab.Dy())
		psnrs = append(psnrs, psnrPlane(pa[i].Data, pb[i].Data, width, height, pa[i].Pitch, pb[i].Pitch))
	}
	return psnrs, nil
}
