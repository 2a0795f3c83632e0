package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"slidewin/internal/histogram"
	"slidewin/internal/kernel"
	"slidewin/internal/logger"
	"slidewin/internal/opencv"
	"slidewin/internal/processing/filters"
	"slidewin/internal/raster"
)

type options struct {
	input      string
	output     string
	filter     string
	shape      string
	radius     int
	percentile float64
	offset     int
	luminance  string
	useOpenCV  bool
	verbose    bool
}

func main() {
	opts := parseFlags()

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	log := logger.NewConsoleLogger(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Error("slidewin", err, map[string]interface{}{
			"input":  opts.input,
			"filter": opts.filter,
		})
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.input, "in", "", "input image (png, jpeg, gif, bmp, tiff)")
	flag.StringVar(&opts.output, "out", "out.png", "output PNG path")
	flag.StringVar(&opts.filter, "filter", "median", "filter to apply: median, minimum, maximum, adaptive")
	flag.StringVar(&opts.shape, "shape", "rectangle", "kernel shape: rectangle, circle")
	flag.IntVar(&opts.radius, "radius", 3, "kernel radius in pixels")
	flag.Float64Var(&opts.percentile, "percentile", 0.5, "rank for the median filter, 0 to 1")
	flag.IntVar(&opts.offset, "offset", 5, "brightness offset for the adaptive threshold")
	flag.StringVar(&opts.luminance, "luminance", "value", "luminance weighting: value, hq")
	flag.BoolVar(&opts.useOpenCV, "opencv", false, "load and rasterize through OpenCV instead of pure Go")
	flag.BoolVar(&opts.verbose, "v", false, "verbose logging")
	flag.Parse()
	return opts
}

func run(ctx context.Context, opts options, log logger.Logger) error {
	if opts.input == "" {
		return fmt.Errorf("no input image given, see -help")
	}

	src, err := loadBuffer(opts)
	if err != nil {
		return err
	}

	log.Debug("slidewin", "image loaded", map[string]interface{}{
		"width":    src.Width(),
		"height":   src.Height(),
		"channels": src.Channels(),
	})

	shape, err := parseShape(opts.shape)
	if err != nil {
		return err
	}

	filter, err := buildFilter(opts, shape, log)
	if err != nil {
		return err
	}

	result, err := filter.Apply(ctx, src)
	if err != nil {
		return fmt.Errorf("%s failed: %w", filter.Name(), err)
	}

	if err := savePNG(opts.output, result); err != nil {
		return err
	}

	log.Info("slidewin", "output written", map[string]interface{}{
		"path": opts.output,
	})
	return nil
}

func loadBuffer(opts options) (*raster.Buffer, error) {
	if opts.useOpenCV {
		return opencv.ReadImage(opts.input)
	}

	f, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("opening input failed: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q failed: %w", opts.input, err)
	}

	return raster.FromImage(img)
}

func parseShape(name string) (kernel.Shape, error) {
	switch strings.ToLower(name) {
	case "rectangle", "rect":
		return kernel.ShapeRectangle, nil
	case "circle", "ellipse":
		return kernel.ShapeCircle, nil
	default:
		return 0, fmt.Errorf("unknown kernel shape %q", name)
	}
}

func parseLuminanceMode(name string) (histogram.LuminanceMode, error) {
	switch strings.ToLower(name) {
	case "value":
		return histogram.LuminanceValue, nil
	case "hq", "high-quality":
		return histogram.LuminanceHighQuality, nil
	default:
		return 0, fmt.Errorf("unknown luminance mode %q", name)
	}
}

func buildFilter(opts options, shape kernel.Shape, log logger.Logger) (filters.Filter, error) {
	var rasterizer kernel.EllipseRasterizer = kernel.VectorRasterizer{}
	if opts.useOpenCV {
		rasterizer = opencv.Rasterizer{}
	}

	switch strings.ToLower(opts.filter) {
	case "median", "minimum", "maximum":
		f := filters.NewMedian(opts.radius, shape)
		switch strings.ToLower(opts.filter) {
		case "minimum":
			f.Percentile = 0
		case "maximum":
			f.Percentile = 1
		default:
			f.Percentile = opts.percentile
		}
		f.Rasterizer = rasterizer
		f.Log = log
		return f, nil
	case "adaptive":
		mode, err := parseLuminanceMode(opts.luminance)
		if err != nil {
			return nil, err
		}
		f := filters.NewAdaptiveThreshold(opts.radius, shape, opts.offset)
		f.Mode = mode
		f.Rasterizer = rasterizer
		f.Log = log
		return f, nil
	default:
		return nil, fmt.Errorf("unknown filter %q", opts.filter)
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output failed: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG failed: %w", err)
	}
	return nil
}
