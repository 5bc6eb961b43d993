// Command batchgen compiles topology declaration files into Go bindings.
//
// Usage:
//
//	batchgen [-pkg name] [-o file] [-check] file.topo [file.topo ...]
//
// All inputs form one compilation unit. On any diagnostic batchgen prints
// every error in compiler format, writes nothing, and exits 1. Typical use
// is from a go:generate directive:
//
//	//go:generate go run github.com/xraph/batch/cmd/batchgen -pkg topo -o topology_gen.go emails.topo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/xraph/batch"
	"github.com/xraph/batch/gen"
	"github.com/xraph/batch/topology"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := batch.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := batch.NewLogger(cfg, stderr)

	fs := flag.NewFlagSet("batchgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pkg := fs.String("pkg", "topo", "package name of the generated file")
	out := fs.String("o", "-", "output file, - for stdout")
	check := fs.Bool("check", false, "validate only, write nothing")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: batchgen [-pkg name] [-o file] [-check] file.topo [file.topo ...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	sources, err := readSources(ctx, fs.Args())
	if err != nil {
		logger.Error("read declarations", slog.String("error", err.Error()))
		return 1
	}

	topo, err := topology.Compile(sources)
	if err != nil {
		var report *topology.Report
		if errors.As(err, &report) {
			for _, d := range report.Diagnostics() {
				logger.Debug("diagnostic",
					slog.String("code", string(d.Code)),
					slog.String("span", d.Span.String()),
					slog.String("message", d.Message),
				)
			}
			fmt.Fprintln(stderr, report.Error())
			return 1
		}
		logger.Error("compile topology", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("topology compiled",
		slog.Int("files", len(sources)),
		slog.Int("exchanges", len(topo.Exchanges())),
		slog.Int("queues", len(topo.Queues())),
	)
	if *check {
		return 0
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = filepath.Base(s.Name)
	}
	src, err := gen.Generate(topo, gen.Options{Package: *pkg, Sources: names})
	if err != nil {
		logger.Error("generate bindings", slog.String("error", err.Error()))
		return 1
	}

	if *out == "-" {
		if _, err := stdout.Write(src); err != nil {
			logger.Error("write output", slog.String("error", err.Error()))
			return 1
		}
		return 0
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil { //nolint:gosec // generated source is meant to be readable
		logger.Error("write output", slog.String("file", *out), slog.String("error", err.Error()))
		return 1
	}
	logger.Info("bindings written", slog.String("file", *out))
	return 0
}

// readSources loads every file concurrently, keeping argument order.
func readSources(ctx context.Context, paths []string) ([]topology.Source, error) {
	sources := make([]topology.Source, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			sources[i] = topology.Source{Name: p, Text: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}
