// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreyRoundTrip(t *testing.T) {
	p, err := NewPlan(16, 16, YUV444P, 16, 16, RGB24, nil)
	require.NoError(t, err)
	src := newFrame(YUV444P, 16, 16)
	fillPlanes(src, 128, 128, 128)
	rgb := newFrame(RGB24, 16, 16)
	convertChunks(t, p, src, rgb, wholeFrame(16))
	for _, v := range rgb[0].Data {
		require.EqualValues(t, 130, v)
	}

	p, err = NewPlan(16, 16, RGB24, 16, 16, YUV444P, nil)
	require.NoError(t, err)
	yuv := newFrame(YUV444P, 16, 16)
	convertChunks(t, p, rgb, yuv, wholeFrame(16))
	for _, plane := range yuv {
		for _, v := range plane.Data {
			require.EqualValues(t, 128, v)
		}
	}
}

func TestColorConversion(t *testing.T) {
	tests := []struct {
		r, g, b byte
		y, u, v byte
	}{
		{0, 0, 0, 16, 128, 128},
		{255, 255, 255, 235, 128, 128},
		{255, 0, 0, 82, 90, 240},
		{0, 255, 0, 144, 54, 34},
		{0, 0, 255, 41, 240, 110},
	}
	for _, tt := range tests {
		r, g, b := int(tt.r), int(tt.g), int(tt.b)
		assert.Equal(t, tt.y, rgbToY(r, g, b))
		assert.Equal(t, tt.u, rgbToU(r, g, b))
		assert.Equal(t, tt.v, rgbToV(r, g, b))
	}
	k := newPacker(RGB24.Desc(), 2, 0)
	k.yuvToRGB([]byte{16, 235}, []byte{128, 128}, []byte{128, 128})
	assert.Equal(t, []byte{0, 255}, k.r)
	assert.Equal(t, []byte{0, 255}, k.g)
	assert.Equal(t, []byte{0, 255}, k.b)
}

func TestExpand(t *testing.T) {
	assert.EqualValues(t, 0, expand(0, 5))
	assert.EqualValues(t, 255, expand(31, 5))
	assert.EqualValues(t, 255, expand(63, 6))
	assert.EqualValues(t, 255, expand(3, 2))
	assert.EqualValues(t, 0x84, expand(16, 5))
	assert.EqualValues(t, 0x92, expand(4, 3))
	assert.EqualValues(t, 0xAA, expand(2, 2))
	assert.EqualValues(t, 0x7F, expand(0x7F, 8))
}

func TestDither(t *testing.T) {
	five := Channel{Shift: 0, Bits: 5}
	assert.EqualValues(t, 0, ditherChannel(4, five, 0, 0))
	assert.EqualValues(t, 1, ditherChannel(4, five, 1, 0))
	assert.EqualValues(t, 1, ditherChannel(4, five, 0, 1))
	assert.EqualValues(t, 0, ditherChannel(4, five, 1, 1))
	assert.EqualValues(t, 31, ditherChannel(255, five, 0, 1))
	assert.EqualValues(t, 200, ditherChannel(200, Channel{Bits: 8}, 1, 1))
}

func TestPackRGB(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		want []byte
	}{
		{RGB24, []byte{1, 2, 3}},
		{BGR24, []byte{3, 2, 1}},
		{RGBA, []byte{1, 2, 3, 0xFF}},
		{BGRA, []byte{3, 2, 1, 0xFF}},
		{ARGB, []byte{0xFF, 1, 2, 3}},
		{ABGR, []byte{0xFF, 3, 2, 1}},
	}
	for _, tt := range tests {
		k := newPacker(tt.f.Desc(), 1, 0)
		dst := newFrame(tt.f, 1, 1)
		k.rgb(dst, 0, []byte{1}, []byte{2}, []byte{3})
		assert.Equal(t, tt.want, dst[0].Data, tt.f.String())
	}

	k := newPacker(RGB565.Desc(), 1, 0)
	dst := newFrame(RGB565, 1, 1)
	k.rgb(dst, 0, []byte{0xFF}, []byte{0}, []byte{0xFF})
	assert.Equal(t, []byte{0x1F, 0xF8}, dst[0].Data)

	k = newPacker(RGB8.Desc(), 1, 0)
	dst = newFrame(RGB8, 1, 1)
	k.rgb(dst, 0, []byte{0xFF}, []byte{0}, []byte{0})
	assert.Equal(t, []byte{0xE0}, dst[0].Data)
}

func TestUnpackRGB(t *testing.T) {
	r := newRowReader(RGB565.Desc(), 2, 0)
	src := []Plane{{Data: []byte{0x1F, 0xF8, 0xE0, 0x07}, Pitch: 4}}
	red, green, blue := r.rgb(src, 0)
	assert.Equal(t, []byte{0xFF, 0}, red)
	assert.Equal(t, []byte{0, 0xFF}, green)
	assert.Equal(t, []byte{0xFF, 0}, blue)
}

func TestPackSemiPlanar(t *testing.T) {
	for _, f := range []PixelFormat{NV12, NV21} {
		k := newPacker(f.Desc(), 4, 1)
		dst := newFrame(f, 4, 2)
		k.pack(dst, 0, 0, []byte{1, 2, 3, 4}, []byte{5, 6}, []byte{7, 8})
		k.pack(dst, 1, 0, []byte{9, 10, 11, 12}, nil, nil)
		assert.Equal(t, []byte{1, 2, 3, 4, 9, 10, 11, 12}, dst[0].Data)
		if f == NV12 {
			assert.Equal(t, []byte{5, 7, 6, 8}, dst[1].Data)
		} else {
			assert.Equal(t, []byte{7, 5, 8, 6}, dst[1].Data)
		}

		r := newRowReader(f.Desc(), 4, 1)
		u, v := r.chroma(dst, 0)
		assert.Equal(t, []byte{5, 6}, u, f.String())
		assert.Equal(t, []byte{7, 8}, v, f.String())
	}
}

func TestPackYUYV(t *testing.T) {
	k := newPacker(YUYV422.Desc(), 4, 1)
	dst := newFrame(YUYV422, 4, 1)
	k.pack(dst, 0, 0, []byte{1, 2, 3, 4}, []byte{5, 6}, []byte{7, 8})
	assert.Equal(t, []byte{1, 5, 2, 7, 3, 6, 4, 8}, dst[0].Data)

	k = newPacker(UYVY422.Desc(), 4, 1)
	dst = newFrame(UYVY422, 4, 1)
	k.pack(dst, 0, 0, []byte{1, 2, 3, 4}, []byte{5, 6}, []byte{7, 8})
	assert.Equal(t, []byte{5, 1, 7, 2, 6, 3, 8, 4}, dst[0].Data)

	r := newRowReader(UYVY422.Desc(), 4, 1)
	assert.Equal(t, []byte{1, 2, 3, 4}, r.luma(dst, 0))
	u, v := r.chroma(dst, 0)
	assert.Equal(t, []byte{5, 6}, u)
	assert.Equal(t, []byte{7, 8}, v)

	// odd widths repeat the last luma sample
	k = newPacker(YUYV422.Desc(), 3, 1)
	dst = newFrame(YUYV422, 3, 1)
	k.pack(dst, 0, 0, []byte{1, 2, 3}, []byte{5, 6}, []byte{7, 8})
	assert.Equal(t, []byte{1, 5, 2, 7, 3, 6, 3, 8}, dst[0].Data)
}

func TestPackedYUVRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	src := newFrame(YUV422P, 16, 8)
	fillFrame(rnd, src)
	p, err := NewPlan(16, 8, YUV422P, 16, 8, YUYV422, nil)
	require.NoError(t, err)
	packed := newFrame(YUYV422, 16, 8)
	convertChunks(t, p, src, packed, randomChunks(rnd, 8))
	for x := 0; x < 8; x++ {
		assert.Equal(t, src[0].Data[2*x], packed[0].Data[4*x])
		assert.Equal(t, src[1].Data[x], packed[0].Data[4*x+1])
		assert.Equal(t, src[0].Data[2*x+1], packed[0].Data[4*x+2])
		assert.Equal(t, src[2].Data[x], packed[0].Data[4*x+3])
	}

	p, err = NewPlan(16, 8, YUYV422, 16, 8, YUV422P, nil)
	require.NoError(t, err)
	back := newFrame(YUV422P, 16, 8)
	convertChunks(t, p, packed, back, rowByRow(8))
	assert.Equal(t, src, back)
}

func TestGraySource(t *testing.T) {
	p, err := NewPlan(16, 16, GRAY8, 8, 8, YUV420P, nil)
	require.NoError(t, err)
	src := newFrame(GRAY8, 16, 16)
	fillPlanes(src, 77)
	dst := newFrame(YUV420P, 8, 8)
	convertChunks(t, p, src, dst, wholeFrame(16))
	for _, v := range dst[0].Data {
		require.EqualValues(t, 77, v)
	}
	for _, plane := range dst[1:] {
		for _, v := range plane.Data {
			require.EqualValues(t, 128, v)
		}
	}
}
