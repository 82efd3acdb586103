// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

func wave(x, y int, px, py, phase float64) byte {
	v := 128 + 80*math.Sin(2*math.Pi*float64(x)/px+phase)*math.Cos(2*math.Pi*float64(y)/py)
	return byte(math.Floor(v + 0.5))
}

// smoothYCbCr returns a low frequency 4:2:0 image
func smoothYCbCr(w, h int) *image.YCbCr {
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Y[img.YOffset(x, y)] = wave(x, y, 48, 40, 0)
			if x&1 == 0 && y&1 == 0 {
				c := img.COffset(x, y)
				img.Cb[c] = wave(x, y, 64, 56, 1)
				img.Cr[c] = wave(x, y, 52, 60, 2)
			}
		}
	}
	return img
}

func smoothRGBA(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: wave(x, y, 48, 40, 0),
				G: wave(x, y, 64, 56, 1),
				B: wave(x, y, 52, 60, 2),
				A: 0xFF,
			})
		}
	}
	return img
}

func toRgb(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

type TestCase struct {
	src    image.Rectangle
	dst    image.Rectangle
	rgb    bool
	kernel Kernel
	psnrs  []float64
}

func NewTestCase(w, h int) *TestCase {
	return &TestCase{
		src:    image.Rect(0, 0, 128, 96),
		dst:    image.Rect(8, 6, 8+w, 6+h),
		kernel: KernelBicubic,
	}
}

func runTestCase(t *testing.T, tc *TestCase, cycles int) {
	srcRaw := smoothYCbCr(tc.src.Dx(), tc.src.Dy())
	dstRaw := image.NewYCbCr(image.Rect(0, 0, tc.dst.Max.X*2, tc.dst.Max.Y*2), srcRaw.SubsampleRatio)
	var src, dst, ref image.Image
	if tc.rgb {
		src = smoothRGBA(tc.src.Dx(), tc.src.Dy())
		ref = smoothRGBA(tc.src.Dx(), tc.src.Dy())
		dst = toRgb(dstRaw).SubImage(tc.dst)
	} else {
		src = srcRaw
		ref = smoothYCbCr(tc.src.Dx(), tc.src.Dy())
		dst = dstRaw.SubImage(tc.dst)
	}
	opts := newOptions(tc.kernel)
	fwd, err := NewConverter(dst, src, opts)
	require.NoError(t, err)
	bwd, err := NewConverter(src, dst, opts)
	require.NoError(t, err)
	for i := 0; i < cycles; i++ {
		require.NoError(t, fwd.Convert(dst, src))
		require.NoError(t, bwd.Convert(src, dst))
	}
	psnrs, err := Psnr(ref, src)
	require.NoError(t, err)
	require.Len(t, psnrs, len(tc.psnrs))
	for i, v := range psnrs {
		assert.GreaterOrEqual(t, v, tc.psnrs[i], "%v plane %v rgb %v", tc.kernel, i, tc.rgb)
	}
}

func TestCopy(t *testing.T) {
	tc := NewTestCase(128, 96)
	tc.psnrs = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	runTestCase(t, tc, 1)
	tc = NewTestCase(128, 96)
	tc.rgb = true
	tc.psnrs = []float64{math.Inf(1)}
	runTestCase(t, tc, 1)
}

func TestDegradations(t *testing.T) {
	for _, k := range []Kernel{KernelBilinear, KernelBicubic, KernelLanczos, KernelSpline} {
		for _, rgb := range []bool{false, true} {
			tc := NewTestCase(70, 50)
			tc.kernel = k
			tc.rgb = rgb
			tc.psnrs = []float64{25, 25, 25}
			if rgb {
				tc.psnrs = tc.psnrs[:1]
			}
			runTestCase(t, tc, 2)
		}
	}
}

func TestMatchesDrawBiLinear(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 96, 96))
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			src.Pix[src.PixOffset(x, y)] = wave(x, y, 40, 32, 0)
		}
	}
	for _, size := range []int{48, 72, 150} {
		ref := image.NewGray(image.Rect(0, 0, size, size))
		draw.BiLinear.Scale(ref, ref.Bounds(), src, src.Bounds(), draw.Src, nil)
		dst := image.NewGray(image.Rect(0, 0, size, size))
		require.NoError(t, ConvertImage(dst, src, newOptions(KernelBilinear)))
		psnrs, err := Psnr(ref, dst)
		require.NoError(t, err)
		assert.Greater(t, psnrs[0], 30.0, "%vx%v", size, size)
	}
}

func TestSaturatedRightBorder(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			src.SetRGBA(x, y, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
		}
		for x := 0; x < 32; x++ {
			src.SetRGBA(x, y, color.RGBA{0, 0, 0, 0xFF})
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, 37, 50))
	require.NoError(t, ConvertImage(dst, src, newOptions(KernelLanczos)))
	for y := 0; y < 50; y++ {
		for x := 33; x < 37; x++ {
			require.Equal(t, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}, dst.RGBAAt(x, y), "%v,%v", x, y)
		}
		require.Equal(t, color.RGBA{0, 0, 0, 0xFF}, dst.RGBAAt(0, y))
	}
}

func TestDrawnSource(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.NRGBA{100, 100, 100, 0xFF}), image.Point{}, draw.Src)
	dst := image.NewYCbCr(image.Rect(0, 0, 16, 16), image.YCbCrSubsampleRatio420)
	require.NoError(t, ConvertImage(dst, src, nil))
	for _, v := range dst.Y {
		require.EqualValues(t, 102, v)
	}
	for i := range dst.Cb {
		require.EqualValues(t, 128, dst.Cb[i])
		require.EqualValues(t, 128, dst.Cr[i])
	}
}

func TestFormatOf(t *testing.T) {
	ratios := map[image.YCbCrSubsampleRatio]PixelFormat{
		image.YCbCrSubsampleRatio420: YUV420P,
		image.YCbCrSubsampleRatio422: YUV422P,
		image.YCbCrSubsampleRatio444: YUV444P,
		image.YCbCrSubsampleRatio440: YUV440P,
		image.YCbCrSubsampleRatio411: YUV411P,
	}
	for ratio, want := range ratios {
		f, err := FormatOf(image.NewYCbCr(image.Rect(0, 0, 8, 8), ratio))
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}
	f, err := FormatOf(image.NewGray(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	assert.Equal(t, GRAY8, f)
	f, err = FormatOf(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)
	assert.Equal(t, RGBA, f)

	_, err = FormatOf(image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatOf(image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio410))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = NewConverter(image.NewNRGBA(image.Rect(0, 0, 8, 8)), image.NewRGBA(image.Rect(0, 0, 8, 8)), nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = ImagePlanes(image.NewAlpha(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImagePlanes(t *testing.T) {
	img := smoothYCbCr(32, 32)
	sub := img.SubImage(image.Rect(4, 6, 20, 22))
	planes, err := ImagePlanes(sub)
	require.NoError(t, err)
	require.Len(t, planes, 3)
	assert.Equal(t, img.Y[6*32+4:], planes[0].Data)
	assert.Equal(t, img.Cb[3*16+2:], planes[1].Data)
	assert.Equal(t, img.Cr[3*16+2:], planes[2].Data)
	assert.Equal(t, 32, planes[0].Pitch)
	assert.Equal(t, 16, planes[1].Pitch)

	gray := image.NewGray(image.Rect(0, 0, 10, 10)).SubImage(image.Rect(1, 2, 5, 6))
	planes, err = ImagePlanes(gray)
	require.NoError(t, err)
	require.Len(t, planes, 1)
	assert.Len(t, planes[0].Data, 100-21)
}

func TestPsnrErrors(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 8, 8))
	_, err := Psnr(a, image.NewGray(image.Rect(0, 0, 8, 9)))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = Psnr(a, image.NewRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = Psnr(a, image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	psnrs, err := Psnr(a, a)
	require.NoError(t, err)
	assert.Equal(t, []float64{math.Inf(1)}, psnrs)
}
