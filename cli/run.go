package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rook-computer/starmap/internal/app"
	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/render"
)

type options struct {
	requestPath string
	ref         string
	catalogPath string
	logLevel    string

	svgPath  string
	pngPath  string
	pngSize  int
	caption  bool
	qrPath   string
	qrSize   int
	printRef bool

	// Overrides applied on top of the request or reference, only when set.
	seed     uint
	shape    string
	theme    string
	width    int
	height   int
	zoom     float64
	strategy string
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	var o options
	fs := flag.NewFlagSet("starmap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.requestPath, "request", "", "JSON render request file, - for stdin")
	fs.StringVar(&o.ref, "ref", "", "reprint reference (starmap:v1?...) to render instead of -request")
	fs.StringVar(&o.catalogPath, "catalog", "", "star catalog YAML replacing the embedded one")
	fs.StringVar(&o.logLevel, "log-level", "warn", "debug | info | warn | error")
	fs.StringVar(&o.svgPath, "out", "-", "SVG output file, - for stdout, empty to skip")
	fs.StringVar(&o.pngPath, "png", "", "write a PNG preview to this file")
	fs.IntVar(&o.pngSize, "png-size", render.DefaultPreviewSize, "longest side of the PNG preview")
	fs.BoolVar(&o.caption, "caption", false, "add the seed caption below the PNG preview")
	fs.StringVar(&o.qrPath, "qr", "", "write the reprint reference QR code to this file")
	fs.IntVar(&o.qrSize, "qr-size", 256, "QR code size in pixels")
	fs.BoolVar(&o.printRef, "print-ref", false, "print the reprint reference to stderr")
	fs.UintVar(&o.seed, "seed", 0, "override the seed")
	fs.StringVar(&o.shape, "shape", "", "override the shape")
	fs.StringVar(&o.theme, "theme", "", "override the color theme")
	fs.IntVar(&o.width, "width", 0, "override the width")
	fs.IntVar(&o.height, "height", 0, "override the height")
	fs.Float64Var(&o.zoom, "zoom", 0, "override the zoom")
	fs.StringVar(&o.strategy, "strategy", "", "override the constellation strategy")
	if err := fs.Parse(args); err != nil {
		return o, nil, err
	}
	if fs.NArg() > 0 {
		return o, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["ref"] && set["request"] {
		return o, nil, errors.New("-ref and -request are mutually exclusive")
	}
	if o.seed > 1<<32-1 {
		return o, nil, fmt.Errorf("seed %d does not fit in 32 bits", o.seed)
	}
	return o, set, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	level, err := app.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	logger := app.NewSlogLogger(stderr, level)

	req, err := loadRequest(o, stdin)
	if err != nil {
		return err
	}
	applyOverrides(&req, o, set)
	req = render.Normalize(req)
	logger.Infof("cli", "seed=%d shape=%s theme=%s %dx%d", req.Seed, req.Shape, req.ColorTheme, req.Width, req.Height)

	var cat *catalog.Catalog
	if o.catalogPath != "" {
		if cat, err = catalog.LoadFile(o.catalogPath); err != nil {
			return err
		}
		logger.Infof("cli", "catalog %s: %d entries", o.catalogPath, cat.Len())
	}
	r := render.NewCatalogRenderer(cat)

	if o.svgPath != "" {
		doc := r.SVG(req)
		if err := writeOutput(o.svgPath, stdout, doc.Bytes()); err != nil {
			return err
		}
		logger.Infof("cli", "svg %s: %d bytes", o.svgPath, doc.Len())
	}
	if o.pngPath != "" {
		img, err := r.PNG(req, render.PreviewOptions{Size: o.pngSize, Caption: o.caption})
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := render.EncodePNG(&buf, img); err != nil {
			return err
		}
		if err := writeOutput(o.pngPath, stdout, buf.Bytes()); err != nil {
			return err
		}
		logger.Infof("cli", "png %s: %dx%d", o.pngPath, img.Bounds().Dx(), img.Bounds().Dy())
	}
	if o.qrPath != "" || o.printRef {
		ref, img, err := r.QR(req, o.qrSize)
		if err != nil {
			return err
		}
		if o.qrPath != "" {
			var buf bytes.Buffer
			if err := render.EncodePNG(&buf, img); err != nil {
				return err
			}
			if err := writeOutput(o.qrPath, stdout, buf.Bytes()); err != nil {
				return err
			}
		}
		if o.printRef {
			fmt.Fprintln(stderr, ref)
		}
	}
	return nil
}

// loadRequest starts from the defaults, then layers the reference or the
// request file on top.
func loadRequest(o options, stdin io.Reader) (render.Request, error) {
	if o.ref != "" {
		return render.ParseReference(o.ref)
	}
	req := render.Defaults()
	if o.requestPath == "" {
		return req, nil
	}
	var data []byte
	var err error
	if o.requestPath == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(o.requestPath)
	}
	if err != nil {
		return req, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("decode request %s: %w", o.requestPath, err)
	}
	return req, nil
}

func applyOverrides(req *render.Request, o options, set map[string]bool) {
	if set["seed"] {
		req.Seed = uint32(o.seed)
	}
	if set["shape"] {
		req.Shape = o.shape
	}
	if set["theme"] {
		req.ColorTheme = o.theme
	}
	if set["width"] {
		req.Width = o.width
	}
	if set["height"] {
		req.Height = o.height
	}
	if set["zoom"] {
		req.Zoom = o.zoom
	}
	if set["strategy"] {
		req.Strategy = o.strategy
	}
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
