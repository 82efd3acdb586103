// Copyright 2013 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sws

import (
	"math/rand"
	"testing"
)

type BenchType struct {
	win, hin   int
	wout, hout int
	src, dst   PixelFormat
	kernel     Kernel
	rows       int
}

var (
	benchs = []BenchType{
		{640, 480, 1920, 1080, YUV420P, YUV420P, KernelBilinear, 0},
		{640, 480, 1920, 1080, YUV420P, YUV420P, KernelBicubic, 0},
		{640, 480, 1920, 1080, YUV420P, YUV420P, KernelLanczos, 0},
		{1920, 1080, 640, 480, YUV420P, YUV420P, KernelBilinear, 0},
		{1920, 1080, 640, 480, YUV420P, YUV420P, KernelBicubic, 0},
		{1920, 1080, 640, 480, YUV420P, YUV420P, KernelLanczos, 0},
		{1920, 1080, 640, 480, YUV420P, YUV420P, KernelFastBilinear, 0},
		{1920, 1080, 640, 480, YUV420P, YUV420P, KernelBicubic, 16},
		{512, 512, 512, 512, YUV420P, YUV420P, KernelBilinear, 0},
		{720, 576, 640, 480, RGBA, YUV420P, KernelBicubic, 0},
		{720, 576, 640, 480, YUV420P, RGB24, KernelBicubic, 0},
		{1280, 720, 1280, 720, NV12, RGBA, KernelBicubic, 0},
	}
)

func benchSpeed(b *testing.B, bt BenchType, backend Backend) {
	opts := newOptions(bt.kernel)
	opts.Backend = backend
	p, err := NewPlan(bt.win, bt.hin, bt.src, bt.wout, bt.hout, bt.dst, opts)
	if err != nil {
		b.Fatal(err)
	}
	src := newFrame(bt.src, bt.win, bt.hin)
	fillFrame(rand.New(rand.NewSource(0)), src)
	dst := newFrame(bt.dst, bt.wout, bt.hout)
	rows := bt.rows
	if rows == 0 {
		rows = bt.hin
	}
	b.SetBytes(int64(bt.wout*bt.hout*3) >> 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for y := 0; y < bt.hin; y += rows {
			h := min(rows, bt.hin-y)
			if _, err := p.Convert(sliceOf(bt.src, src, y), y, h, dst); err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkImageBilinearUp(b *testing.B)    { benchSpeed(b, benchs[0], BackendAuto) }
func BenchmarkImageBicubicUp(b *testing.B)     { benchSpeed(b, benchs[1], BackendAuto) }
func BenchmarkImageLanczosUp(b *testing.B)     { benchSpeed(b, benchs[2], BackendAuto) }
func BenchmarkImageBilinearDown(b *testing.B)  { benchSpeed(b, benchs[3], BackendAuto) }
func BenchmarkImageBicubicDown(b *testing.B)   { benchSpeed(b, benchs[4], BackendAuto) }
func BenchmarkImageLanczosDown(b *testing.B)   { benchSpeed(b, benchs[5], BackendAuto) }
func BenchmarkImageFastDown(b *testing.B)      { benchSpeed(b, benchs[6], BackendAuto) }
func BenchmarkImageBicubicSlices(b *testing.B) { benchSpeed(b, benchs[7], BackendAuto) }
func BenchmarkCopy(b *testing.B)               { benchSpeed(b, benchs[8], BackendAuto) }
func BenchmarkImageBicubicRgb(b *testing.B)    { benchSpeed(b, benchs[9], BackendAuto) }
func BenchmarkImageBicubicToRgb(b *testing.B)  { benchSpeed(b, benchs[10], BackendAuto) }
func BenchmarkDirectNV12(b *testing.B)         { benchSpeed(b, benchs[11], BackendAuto) }
func BenchmarkGenericBicubicUp(b *testing.B)   { benchSpeed(b, benchs[1], BackendGeneric) }
func BenchmarkGenericBicubicDown(b *testing.B) { benchSpeed(b, benchs[4], BackendGeneric) }

func benchScaler(b *testing.B, vertical bool, taps int, backend Backend) {
	n := 96
	s, err := resolveBackend(backend)
	if err != nil {
		b.Fatal(err)
	}
	align := s.hAlign()
	one := 1 << HorizontalBits
	if vertical {
		align = s.vAlign()
		one = 1 << VerticalBits
	}
	bank, err := BuildFilter(&FilterConfig{
		Src:    n,
		Dst:    n * 2,
		Inc:    inc(n, n*2),
		Kernel: KernelLanczos,
		Params: [2]float64{float64(taps >> 1), ParamDefault},
		One:    one,
		Align:  align,
	})
	if err != nil {
		b.Fatal(err)
	}
	src := make([]byte, n)
	rows := make([][]int16, bank.Size)
	for i := range rows {
		rows[i] = make([]int16, n*2)
	}
	hdst := make([]int16, n*2)
	vdst := make([]byte, n*2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for y := 0; y < n; y++ {
			if vertical {
				s.vScale(vdst, rows, bank.Row(y))
			} else {
				s.hScale(hdst, src, bank)
			}
		}
	}
}

// synthetic benchmarks
func BenchmarkVerticalScaler2(b *testing.B)    { benchScaler(b, true, 2, BackendAuto) }
func BenchmarkVerticalScaler4(b *testing.B)    { benchScaler(b, true, 4, BackendAuto) }
func BenchmarkVerticalScaler6(b *testing.B)    { benchScaler(b, true, 6, BackendAuto) }
func BenchmarkVerticalScaler8(b *testing.B)    { benchScaler(b, true, 8, BackendAuto) }
func BenchmarkVerticalScalerN(b *testing.B)    { benchScaler(b, true, 14, BackendAuto) }
func BenchmarkHorizontalScaler2(b *testing.B)  { benchScaler(b, false, 2, BackendAuto) }
func BenchmarkHorizontalScaler4(b *testing.B)  { benchScaler(b, false, 4, BackendAuto) }
func BenchmarkHorizontalScaler6(b *testing.B)  { benchScaler(b, false, 6, BackendAuto) }
func BenchmarkHorizontalScaler8(b *testing.B)  { benchScaler(b, false, 8, BackendAuto) }
func BenchmarkHorizontalScalerN(b *testing.B)  { benchScaler(b, false, 14, BackendAuto) }
func BenchmarkGenericHorizontal4(b *testing.B) { benchScaler(b, false, 4, BackendGeneric) }
func BenchmarkGenericVertical4(b *testing.B)   { benchScaler(b, true, 4, BackendGeneric) }
