package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/wbrown/asciify"
	"github.com/wbrown/asciify/imageutil"
	"github.com/wbrown/asciify/video"
)

// cursorHome moves the terminal cursor to the top left corner so each
// video frame overwrites the previous one.
const cursorHome = "\x1b[H"

type options struct {
	algo    string
	cols    int
	rows    int
	scale   float64
	threads int
	prep    imageutil.Mode
	invert  bool
}

func printAlgorithms() {
	data := pterm.TableData{{"Name", "Description"}}
	for _, a := range asciify.Algorithms() {
		data = append(data, []string{a.Name, a.Description})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// gridSize returns the text grid for an image of imgW x imgH pixels.
func gridSize(opts options, store asciify.GlyphStore, imgW, imgH int) (cols, rows int) {
	rows = opts.rows
	if rows <= 0 {
		rows = imageutil.GridRows(imgW, imgH, opts.cols,
			store.GlyphWidth(), store.GlyphHeight(), opts.scale)
	}
	return opts.cols, rows
}

func convertImage(a asciify.Asciifier, opts options, path string) (*asciify.TextSurface, error) {
	img, err := imageutil.LoadGray(path)
	if err != nil {
		return nil, err
	}
	if opts.invert {
		img = img.Invert()
	}
	ctx := a.Context()
	cols, rows := gridSize(opts, ctx.Store(), img.Width(), img.Height())
	prepared := imageutil.PrepareForGrid(img, cols, rows,
		ctx.CellWidth(), ctx.CellHeight(), opts.prep)

	out := asciify.NewTextSurface(rows, cols)
	a.Generate(asciify.FromGray(prepared.Gray), out)
	return out, nil
}

func streamVideo(ctx context.Context, a asciify.Asciifier, opts options, source string) error {
	capture, err := video.Open(source)
	if err != nil {
		return err
	}
	defer capture.Close()

	store := a.Context().Store()
	frameW, frameH := capture.FrameSize()
	if frameW <= 0 || frameH <= 0 {
		frameW, frameH = 4, 3
	}
	cols, rows := gridSize(opts, store, frameW, frameH)
	width, height := cols*store.GlyphWidth(), rows*store.GlyphHeight()
	out := asciify.NewTextSurface(rows, cols)
	filtered := opts.invert || opts.prep != imageutil.ModePlain
	scratch := imageutil.NewGrayImage(width, height)

	start := time.Now()
	for ctx.Err() == nil {
		frame, err := capture.Next(width, height)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if filtered {
			frame = filterFrame(frame, scratch, opts)
		}
		a.Generate(frame, out)
		fmt.Print(cursorHome, out.String())
	}

	elapsed := time.Since(start)
	if n := capture.Frames(); n > 0 && elapsed > 0 {
		pterm.Info.Printf("%d frames in %v (%.1f fps)\n", n, elapsed.Round(time.Millisecond),
			float64(n)/elapsed.Seconds())
	}
	return nil
}

// filterFrame copies frame into scratch and applies the inversion and
// preparation filter selected by opts.
func filterFrame(frame asciify.Surface, scratch *imageutil.GrayImage, opts options) asciify.Surface {
	for y := 0; y < frame.Height(); y++ {
		dst := scratch.Pix[y*scratch.Stride : y*scratch.Stride+frame.Width()]
		copy(dst, frame.Row(y))
		if opts.invert {
			for x, v := range dst {
				dst[x] = 255 - v
			}
		}
	}
	return asciify.FromGray(imageutil.Filter(scratch, opts.prep).Gray)
}

func writeOutput(out *asciify.TextSurface, store asciify.GlyphStore, path string, scale int) error {
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		return imageutil.SaveImage(asciify.RenderImage(out, store, scale), path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := out.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file")
	videoSource := flag.String("video", "",
		"Video file, stream URL or camera number to stream as text")
	outputFile := flag.String("output", "",
		"Path to save the output, .png renders glyphs "+
			"(if not specified, prints to stdout)")
	algo := flag.String("algo", "sed",
		"Matching algorithm, name[:key=value...] (see -list)")
	fontName := flag.String("font", "basic",
		"Glyph source: 'basic' (built-in 7x13), a .ttf file or a .glyphs cache")
	cellW := flag.Int("cellwidth", 8, "Glyph cell width when rasterizing a .ttf")
	cellH := flag.Int("cellheight", 16, "Glyph cell height when rasterizing a .ttf")
	blocks := flag.Bool("blocks", false, "Add block elements to a rasterized .ttf")
	cols := flag.Int("width", 100, "Output width in characters")
	rows := flag.Int("height", 0, "Output height in characters, 0 keeps the aspect ratio")
	scaleFactor := flag.Float64("scale", 1.0,
		"Vertical stretch applied when computing the height")
	threads := flag.Int("threads", 0,
		"Worker goroutines, 1 runs sequentially, 0 uses CPU count + 1")
	prep := flag.String("prep", "plain", "Image preparation: plain, sharpen or edges")
	invert := flag.Bool("invert", false, "Invert the image, for dark text on a light background")
	renderScale := flag.Int("renderscale", 1, "Glyph magnification for PNG output")
	list := flag.Bool("list", false, "List matching algorithms and exit")
	verbose := flag.Bool("v", false, "Log debug information to stderr")
	flag.Parse()

	if *list {
		printAlgorithms()
		return
	}
	if *verbose {
		asciify.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if (*inputFile == "") == (*videoSource == "") {
		fmt.Println("Please provide either -input or -video")
		flag.PrintDefaults()
		os.Exit(1)
	}

	mode, err := imageutil.ParseMode(*prep)
	if err != nil {
		log.Fatalf("Invalid -prep: %v", err)
	}
	opts := options{
		algo:    *algo,
		cols:    *cols,
		rows:    *rows,
		scale:   *scaleFactor,
		threads: *threads,
		prep:    mode,
		invert:  *invert,
	}
	if opts.cols <= 0 {
		log.Fatalf("Invalid -width %d", opts.cols)
	}

	beginInit := time.Now()
	symbols := asciify.PrintableASCII()
	if *blocks {
		symbols = append(symbols, asciify.BlockElements()...)
	}
	font, err := asciify.OpenFont(*fontName,
		asciify.WithCellSize(*cellW, *cellH), asciify.WithSymbols(symbols))
	if err != nil {
		log.Fatalf("Failed to load font: %v", err)
	}
	ctx, err := asciify.NewContext(opts.algo, font)
	if err != nil {
		log.Fatalf("Failed to set up matcher: %v", err)
	}
	a := asciify.New(ctx, opts.threads)
	defer a.Close()
	endInit := time.Now()

	if *videoSource != "" {
		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := streamVideo(sigCtx, a, opts, *videoSource); err != nil {
			pterm.Error.Printf("Error streaming video: %v\n", err)
		}
		return
	}

	out, err := convertImage(a, opts, *inputFile)
	if err != nil {
		pterm.Error.Printf("Error processing image: %v\n", err)
		return
	}
	endComputation := time.Now()

	if *outputFile != "" {
		if err := writeOutput(out, font, *outputFile, *renderScale); err != nil {
			pterm.Error.Printf("Error writing output: %v\n", err)
			return
		}
		pterm.Success.Printf("Output written to %s\n", *outputFile)
	} else {
		fmt.Print(out.String())
	}

	pterm.Info.Printf("font %s: %d glyphs of %dx%d, algorithm %s, %d threads\n",
		font.Name(), font.GlyphCount(), font.GlyphWidth(), font.GlyphHeight(),
		ctx.Name(), a.ThreadCount())
	pterm.Info.Printf("Initialization time: %v\n", endInit.Sub(beginInit))
	pterm.Info.Printf("Computation time: %v\n", endComputation.Sub(endInit))
}
