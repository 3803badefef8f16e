package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	walker "github.com/2x3systems/gfan/fan/cone-walker"
	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

var (
	flagHeuristic = flag.Int("heuristic", int(gfan.Heuristic_Default), "0: breadth-first, 1: depth-first, 2: steepest-edge")
	flagHom       = flag.String("hom", "auto", "homogeneity hint: auto, true, or false")
	flagVars      = flag.String("vars", "", "comma separated ring variables (default: order of appearance)")
	flagMaxList   = flag.Int("maxlist", 0, "max pending cones held in memory (0: unbounded)")
	flagSpill     = flag.Bool("spill", false, "spill pending cones beyond -maxlist to a cone catalog")
	flagSpillPath = flag.String("spillpath", "", "new or empty cone catalog dir (default: a temp dir)")
	flagCompress  = flag.String("compress", "lz4", "spill record compression: none, lz4, or zstd")
	flagWorkers   = flag.Int("workers", 1, "concurrent flips per cone")
	flagVerify    = flag.Bool("verify", false, "check that no basis is emitted twice")
	flagFacets    = flag.Bool("facets", false, "print facet normals")
	flagRays      = flag.Bool("rays", false, "print extreme rays")
	flagContext   = flag.Bool("context", false, "print each cone's term order")
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	err := run(flag.Args(), os.Stdout)
	if err != nil {
		klog.Errorf("gfan: %v", err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	src := strings.Join(args, " ")
	if len(strings.TrimSpace(src)) == 0 {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		src = string(buf)
	}

	var vars []string
	if len(*flagVars) > 0 {
		vars = strings.Split(*flagVars, ",")
		for i := range vars {
			vars[i] = strings.TrimSpace(vars[i])
		}
	}

	I, err := poly.ParseIdeal(src, vars)
	if err != nil {
		return err
	}

	opts := gfan.EnumOpts{
		Heuristic:     gfan.Heuristic(*flagHeuristic),
		MaxSearchList: *flagMaxList,
		Spill:         *flagSpill,
		SpillPathName: *flagSpillPath,
		Workers:       *flagWorkers,
		VerifyUnique:  *flagVerify,
	}

	switch *flagHom {
	case "auto":
		opts.HomogeneousHint = I.IsHomogeneous()
	case "true":
		opts.HomogeneousHint = true
	case "false":
		opts.HomogeneousHint = false
	default:
		return errors.Wrapf(gfan.ErrBadParam, "-hom %q", *flagHom)
	}

	switch *flagCompress {
	case "none":
		opts.Compression = gfan.Compression_None
	case "lz4":
		opts.Compression = gfan.Compression_LZ4
	case "zstd":
		opts.Compression = gfan.Compression_ZSTD
	default:
		return errors.Wrapf(gfan.ErrBadParam, "-compress %q", *flagCompress)
	}

	stream, err := walker.EnumCones(I, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "# ring %s; ideal %s\n", strings.Join(I.Ring.Vars, ","), I.String())
	count, err := stream.Print(out, gfan.PrintOpts{
		Basis:   true,
		Facets:  *flagFacets,
		Rays:    *flagRays,
		Context: *flagContext,
	}).PullAll()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %d cones\n", count)
	return nil
}
