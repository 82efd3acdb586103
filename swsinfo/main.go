// Copyright 2014 Benoît Amiaux. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command swsinfo builds a scaler plan and prints its filter banks
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bamiaux/sws"
	"github.com/sirupsen/logrus"
)

type geometry struct {
	width, height int
	format        sws.PixelFormat
}

// parseGeometry reads WxH:format
func parseGeometry(value string) (*geometry, error) {
	size, name, ok := strings.Cut(value, ":")
	if !ok {
		name = "yuv420p"
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return nil, fmt.Errorf("invalid geometry %q", value)
	}
	g := &geometry{}
	var err error
	if g.width, err = strconv.Atoi(w); err != nil {
		return nil, fmt.Errorf("invalid width %q: %w", w, err)
	}
	if g.height, err = strconv.Atoi(h); err != nil {
		return nil, fmt.Errorf("invalid height %q: %w", h, err)
	}
	if g.format, err = sws.ParsePixelFormat(name); err != nil {
		return nil, err
	}
	return g, nil
}

func printBank(w io.Writer, name string, b *sws.FilterBank) {
	if b == nil {
		return
	}
	fmt.Fprintf(w, "%v: %v -> %v, %v taps\n", name, b.Src, b.Dst, b.Size)
	for i := 0; i < b.Dst; i++ {
		fmt.Fprintf(w, "%5d %5d:", i, b.Offsets[i])
		for _, c := range b.Row(i) {
			fmt.Fprintf(w, " %6d", c)
		}
		fmt.Fprintln(w)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("swsinfo", flag.ContinueOnError)
	src := flags.String("src", "1920x1080:yuv420p", "source WxH:format")
	dst := flags.String("dst", "640x360:yuv420p", "destination WxH:format")
	kernel := flags.String("kernel", "bicubic", "interpolation kernel")
	backend := flags.String("backend", "auto", "numeric backend: auto, generic or unrolled")
	banks := flags.Bool("banks", false, "print filter banks")
	verbose := flags.Bool("v", false, "debug logs")
	opts := sws.DefaultOptions()
	flags.BoolVar(&opts.FullChromaInput, "full-chroma-input", false, "sample rgb chroma at every pixel")
	flags.BoolVar(&opts.FullChromaOutput, "full-chroma-output", false, "compute rgb chroma at every pixel")
	flags.IntVar(&opts.ChromaDrop, "chroma-drop", 0, "log2 of chroma source lines dropped")
	flags.Float64Var(&opts.LumaBlur, "luma-blur", 0, "luma gaussian blur")
	flags.Float64Var(&opts.ChromaBlur, "chroma-blur", 0, "chroma gaussian blur")
	flags.Float64Var(&opts.LumaSharpen, "luma-sharpen", 0, "luma sharpen")
	flags.Float64Var(&opts.ChromaSharpen, "chroma-sharpen", 0, "chroma sharpen")
	flags.Float64Var(&opts.ChromaHShift, "chroma-hshift", 0, "chroma horizontal shift")
	flags.Float64Var(&opts.ChromaVShift, "chroma-vshift", 0, "chroma vertical shift")
	if err := flags.Parse(args); err != nil {
		return err
	}
	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	opts.Logger = logrus.NewEntry(logger).WithField("cmd", "swsinfo")
	opts.PrintInfo = true
	in, err := parseGeometry(*src)
	if err != nil {
		return err
	}
	out, err := parseGeometry(*dst)
	if err != nil {
		return err
	}
	if opts.Kernel, err = sws.ParseKernel(*kernel); err != nil {
		return err
	}
	switch *backend {
	case "auto":
		opts.Backend = sws.BackendAuto
	case "generic":
		opts.Backend = sws.BackendGeneric
	case "unrolled":
		opts.Backend = sws.BackendUnrolled
	default:
		return fmt.Errorf("unknown backend %q", *backend)
	}
	plan, err := sws.NewPlan(in.width, in.height, in.format, out.width, out.height, out.format, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "plan %v: %v, %v backend\n", plan.ID(), plan.Mode(), plan.Backend())
	if !*banks {
		return nil
	}
	hLum, hChr, vLum, vChr := plan.Banks()
	printBank(stdout, "horizontal luma", hLum)
	printBank(stdout, "horizontal chroma", hChr)
	printBank(stdout, "vertical luma", vLum)
	printBank(stdout, "vertical chroma", vChr)
	f, err := sws.DefaultFilter(opts.LumaBlur, opts.ChromaBlur, opts.LumaSharpen,
		opts.ChromaSharpen, opts.ChromaHShift, opts.ChromaVShift)
	if err != nil {
		return err
	}
	for _, it := range []struct {
		name string
		vec  *sws.Vector
	}{
		{"luma horizontal", f.LumH},
		{"luma vertical", f.LumV},
		{"chroma horizontal", f.ChrH},
		{"chroma vertical", f.ChrV},
	} {
		if it.vec.Len() <= 1 {
			continue
		}
		fmt.Fprintf(stdout, "%v vector:\n", it.name)
		if err := it.vec.Fprint(stdout); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		logrus.WithField("function", "main").Fatalln(err)
	}
}
