package inkboard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/esimov/inkboard/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// scriptExt is the extension of the stroke scripts picked up in a directory.
const scriptExt = ".toml"

// Ops describes a rendering job: which scripts to replay and where to write
// the resulting images.
type Ops struct {
	// Src is a script file, a directory of scripts or PipeName for stdin.
	Src string
	// Dst is the output image, a directory when Src is one, or PipeName for stdout.
	Dst string
	// Base is an optional image path or URL loaded onto each board before replay.
	Base     string
	PipeName string
	Workers  int

	// Spinner, when set, is shown while a script renders.
	Spinner *utils.Spinner
	// Adjust, when set, is applied to the board configuration after the
	// script's own size and background, so its values win.
	Adjust func(Config) Config
	// Inspect, when set, receives the board of a single script render once
	// it has been written.
	Inspect func(*Board)

	// base holds the downloaded copy of a remote Base.
	base string
}

// result holds the outcome of rendering one script.
type result struct {
	path string
	err  error
}

// Execute renders the scripts described by the ops with the given board
// configuration. A directory source is rendered concurrently.
func (op *Ops) Execute(cfg Config) error {
	var (
		fi  os.FileInfo
		err error
	)

	if op.Base != "" {
		cleanup, err := op.resolveBase()
		if err != nil {
			return err
		}
		defer cleanup()
	}

	if op.Src == op.PipeName {
		fi, err = os.Stdin.Stat()
	} else {
		fi, err = os.Stat(op.Src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source script: %w", err)
	}

	now := time.Now()

	switch mode := fi.Mode(); {
	case mode.IsDir():
		if err := os.MkdirAll(op.Dst, 0755); err != nil {
			return fmt.Errorf("unable to create the destination directory: %w", err)
		}
		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		var wg sync.WaitGroup
		ch := make(chan result)
		done := make(chan struct{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, []string{scriptExt})

		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(cfg, op.Dst, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var errs []error
		for res := range ch {
			if res.err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", res.path, res.err))
			}
			op.printOpStatus(res.path, res.err)
		}
		if err := <-errc; err != nil {
			errs = append(errs, err)
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0 || mode&os.ModeCharDevice != 0:
		if op.Dst != op.PipeName {
			if _, err := FormatFromPath(op.Dst); err != nil {
				return err
			}
		}
		b, err := op.render(cfg, op.Src, op.Dst)
		op.printOpStatus(op.Dst, err)
		if err != nil {
			return err
		}
		if op.Inspect != nil {
			op.Inspect(b)
		}
	default:
		return fmt.Errorf("unsupported source: %s", op.Src)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// consumer reads the script paths from the paths channel and renders each of
// them into the destination directory.
func (op *Ops) consumer(
	cfg Config,
	dest string,
	res chan<- result,
	done <-chan struct{},
	paths <-chan string,
) {
	for src := range paths {
		name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".png"
		_, err := op.render(cfg, src, filepath.Join(dest, name))

		select {
		case <-done:
			return
		case res <- result{path: src, err: err}:
		}
	}
}

// render replays one script on a fresh board and writes the image to out.
func (op *Ops) render(cfg Config, in, out string) (*Board, error) {
	if op.Spinner != nil {
		op.Spinner.Start()
		defer op.Spinner.Stop()
	}

	script, err := op.openScript(in)
	if err != nil {
		return nil, err
	}
	cfg = script.Configure(cfg)
	if op.Adjust != nil {
		cfg = op.Adjust(cfg)
	}
	b, err := NewBoard(cfg)
	if err != nil {
		return nil, err
	}
	if op.Base != "" {
		if err := b.Load(op.baseImage()); err != nil {
			return nil, err
		}
	}

	n, err := script.Apply(b, nil)
	if err != nil {
		return nil, err
	}
	Logger().Debug("script replayed", "script", in, "events", n)

	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		if err := Encode(os.Stdout, b.Pixels(), PNG); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIO, err)
		}
		return b, nil
	}
	return b, b.Save(out)
}

func (op *Ops) openScript(in string) (*Script, error) {
	if in != op.PipeName {
		return OpenScript(in)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("`-` should be used with a pipe for stdin")
	}
	return ParseScript(os.Stdin)
}

// resolveBase downloads a remote base image once, so that every render can
// load it from disk.
func (op *Ops) resolveBase() (func(), error) {
	if !utils.IsValidUrl(op.Base) {
		return func() {}, nil
	}
	f, err := utils.DownloadImage(op.Base)
	if err != nil {
		if f != nil {
			os.Remove(f.Name())
		}
		return nil, fmt.Errorf("failed to load the base image: %w", err)
	}
	f.Close()
	op.base = f.Name()

	return func() { os.Remove(op.base) }, nil
}

func (op *Ops) baseImage() string {
	if op.base != "" {
		return op.base
	}
	return op.Base
}

// printOpStatus displays the outcome of rendering a script.
func (op *Ops) printOpStatus(fname string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n",
			utils.DecorateText("\nError rendering "+filepath.Base(fname)+":", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		fmt.Fprintf(os.Stderr, "\nThe image has been saved as: %s %s\n",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
			utils.DefaultColor,
		)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each matching file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan struct{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !isValidExtension(filepath.Ext(f.Name()), srcExts) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if strings.EqualFold(ex, ext) {
			return true
		}
	}
	return false
}
