package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"gioui.org/app"
	"github.com/esimov/inkboard"
	"github.com/esimov/inkboard/preview"
	"github.com/esimov/inkboard/utils"
)

const HelpBanner = `
┬┌┐┌┬┌─┌┐ ┌─┐┌─┐┬─┐┌┬┐
││││├┴┐├┴┐│ │├─┤├┬┘ ││
┴┘└┘┴ ┴└─┘└─┘┴ ┴┴└──┴┘

Soft brush ink board renderer.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	configPath  = flag.String("config", inkboard.DefaultConfigPath(), "Configuration file")
	source      = flag.String("in", pipeName, "Stroke script, directory of scripts or - for stdin")
	destination = flag.String("out", pipeName, "Destination image, directory or - for stdout")
	base        = flag.String("base", "", "Image path or URL loaded onto the board before replay")
	width       = flag.Int("width", 0, "Board width, takes precedence over the config file and the script")
	height      = flag.Int("height", 0, "Board height, takes precedence over the config file and the script")
	brushColor  = flag.String("color", "", "Brush color")
	brushRadius = flag.Float64("brush", 0, "Brush radius in pixels")
	eraseRadius = flag.Float64("eraser", 0, "Eraser radius in pixels")
	background  = flag.String("bg", "", "Background color, takes precedence over the config file and the script")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of scripts to render concurrently")
	showPreview = flag.Bool("preview", false, "Show the rendered board")
	debug       = flag.Bool("debug", false, "Verbose logging")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	inkboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := inkboard.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Failed to load the configuration: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	spinnerText := fmt.Sprintf("%s %s",
		utils.DecorateText("✎ INKBOARD", utils.StatusMessage),
		utils.DecorateText("is rendering the strokes...", utils.DefaultMessage))
	spinner := utils.NewSpinner(spinnerText, time.Millisecond*200, true)

	// Capture CTRL-C signal and restore back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		spinner.RestoreCursor()
		os.Exit(1)
	}()

	op := &inkboard.Ops{
		Src:      *source,
		Dst:      *destination,
		Base:     *base,
		PipeName: pipeName,
		Workers:  *workers,
		Adjust:   override,
	}
	if *destination != pipeName {
		op.Spinner = spinner
	}

	if !*showPreview {
		if err := op.Execute(cfg); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		return
	}

	// The Gio event loop owns the main thread, so the rendering runs aside.
	op.Inspect = func(b *inkboard.Board) {
		if err := preview.New(b).Run(); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
	}
	go func() {
		if err := op.Execute(cfg); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		os.Exit(0)
	}()
	app.Main()
}

// override applies the flags set on the command line over the configuration
// resolved from the config file and the script.
func override(cfg inkboard.Config) inkboard.Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "color":
			cfg.BrushColor = *brushColor
		case "brush":
			cfg.BrushRadius = float32(*brushRadius)
		case "eraser":
			cfg.EraserRadius = float32(*eraseRadius)
		case "bg":
			cfg.Background = *background
		}
	})
	return cfg
}
