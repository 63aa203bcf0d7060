// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command ppmc compresses and decompresses DNA-alphabet streams with the
// de Bruijn graph PPM coder.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/gaissmai/debruijn"
)

func main() {
	app := &cli.App{
		Name:  "ppmc",
		Usage: "PPM compression over a dynamic succinct de Bruijn graph",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
			&cli.IntFlag{
				Name:    "context-length",
				Aliases: []string{"k"},
				Value:   debruijn.DefaultContextLength,
				Usage:   "maximum context length of the model",
			},
			&cli.StringFlag{
				Name:  "csl",
				Value: "integer",
				Usage: "common-suffix-length strategy: label, integer or bitvec",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Aliases:   []string{"c"},
				Usage:     "compress a sequence file, .gz inputs are unpacked",
				ArgsUsage: "<in> <out>",
				Action:    runCompress,
			},
			{
				Name:      "decompress",
				Aliases:   []string{"d"},
				Usage:     "decompress a coded file",
				ArgsUsage: "<in> <out>",
				Action:    runDecompress,
			},
			{
				Name:      "dump",
				Usage:     "build the graph from a sequence and print its table",
				ArgsUsage: "<in>",
				Action:    runDump,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ppmc:", err)
		os.Exit(1)
	}
}

func options(ctx *cli.Context) []debruijn.Option {
	opts := []debruijn.Option{
		debruijn.WithContextLength(ctx.Int("context-length")),
	}

	switch ctx.String("csl") {
	case "label":
		opts = append(opts, debruijn.WithLabelCSL())
	case "bitvec":
		opts = append(opts, debruijn.WithBitvecCSL())
	default:
		opts = append(opts, debruijn.WithIntegerCSL())
	}

	if ctx.Bool("verbose") {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		opts = append(opts, debruijn.WithLogger(log))
	}
	return opts
}

// readSequence loads the input and keeps only alphabet letters, so plain
// text and FASTA-like inputs both work. Gzipped files are unpacked.
func readSequence(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(name, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	seq := raw[:0]
	for _, b := range raw {
		switch b {
		case 'A', 'C', 'G', 'T':
			seq = append(seq, b)
		case 'a', 'c', 'g', 't':
			seq = append(seq, b-'a'+'A')
		}
	}
	return seq, nil
}

func runCompress(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("compress needs <in> and <out>", 2)
	}

	seq, err := readSequence(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	out, err := os.Create(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	start := time.Now()
	if err := debruijn.Compress(bw, seq, options(ctx)...); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	fi, err := out.Stat()
	if err != nil {
		return err
	}
	fmt.Printf("compressed %d symbols to %d bytes in %v\n",
		len(seq), fi.Size(), time.Since(start).Round(time.Millisecond))
	return out.Sync()
}

func runDecompress(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("decompress needs <in> and <out>", 2)
	}

	in, err := os.Open(ctx.Args().Get(0))
	if err != nil {
		return err
	}
	defer in.Close()

	seq, err := debruijn.Decompress(bufio.NewReader(in), options(ctx)...)
	if err != nil {
		return err
	}
	return os.WriteFile(ctx.Args().Get(1), seq, 0o644)
}

func runDump(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("dump needs <in>", 2)
	}

	seq, err := readSequence(ctx.Args().Get(0))
	if err != nil {
		return err
	}

	// drive the graph through the compressor, discard the coder output
	c := debruijn.NewCompressor(io.Discard, options(ctx)...)
	for _, b := range seq {
		v, _ := debruijn.ValueOf(b)
		if err := c.CompressSymbol(v); err != nil {
			return err
		}
	}
	if err := c.Close(); err != nil {
		return err
	}

	return c.Graph().Fprint(os.Stdout)
}
