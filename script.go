package inkboard

import (
	"fmt"
	"io"
	"os"

	"github.com/esimov/inkboard/utils"
	"github.com/pelletier/go-toml/v2"
)

// Script is a recorded drawing session: a list of strokes replayed through
// the same event path live input takes. It is stored as TOML:
//
//	width = 512
//	height = 512
//
//	[[stroke]]
//	color = "#1e88e5"
//	points = [[0.1, 0.1], [0.5, 0.4], [0.9, 0.2]]
//
//	[[stroke]]
//	mode = "erase"
//	radius = 0.5
//	points = [[0.5, 0.4]]
type Script struct {
	Width      int            `toml:"width,omitempty"`
	Height     int            `toml:"height,omitempty"`
	Background string         `toml:"background,omitempty"`
	MinStep    float32        `toml:"min_step,omitempty"`
	Strokes    []ScriptStroke `toml:"stroke"`
}

// ScriptStroke is one pointer contact of a script.
type ScriptStroke struct {
	// Mode is "draw" (default), "erase" or "clear".
	Mode string `toml:"mode,omitempty"`
	// Color, Blend and BrushRadius change the board settings before the stroke.
	Color       string  `toml:"color,omitempty"`
	Blend       string  `toml:"blend,omitempty"`
	BrushRadius float32 `toml:"brush_radius,omitempty"`
	// Radius is the contact factor, 1 when omitted.
	Radius float32     `toml:"radius,omitempty"`
	Points [][]float32 `toml:"points"`
}

// ParseScript decodes and checks a TOML script.
func ParseScript(r io.Reader) (*Script, error) {
	var s Script
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode the script: %w", err)
	}
	for i, st := range s.Strokes {
		switch st.Mode {
		case "", "draw", "erase", "clear":
		default:
			return nil, fmt.Errorf("stroke %d: unknown mode %q", i, st.Mode)
		}
		if st.Color != "" {
			if _, err := utils.HexToRGBA(st.Color); err != nil {
				return nil, fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		for j, p := range st.Points {
			if len(p) != 2 {
				return nil, fmt.Errorf("stroke %d, point %d: want [u, v], got %d values", i, j, len(p))
			}
		}
	}
	return &s, nil
}

// OpenScript reads a script file.
func OpenScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseScript(f)
}

// Configure applies the board dimensions and background of the script to cfg.
func (s *Script) Configure(cfg Config) Config {
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if s.Background != "" {
		cfg.Background = s.Background
	}
	return cfg
}

// Apply replays the script on the board through q. Each stroke is fed to a
// Tracker and drained before the next one, so setting changes land between
// strokes. It returns the number of events applied.
func (s *Script) Apply(b *Board, q *Queue) (int, error) {
	var total int
	if q == nil {
		q = new(Queue)
	}
	tr := NewTracker(q, s.MinStep)

	for i, st := range s.Strokes {
		if st.Color != "" {
			c, err := utils.HexToRGBA(st.Color)
			if err != nil {
				return total, fmt.Errorf("stroke %d: %w", i, err)
			}
			b.SetBrushColor(c)
		}
		if st.Blend != "" {
			if err := b.SetBlend(st.Blend); err != nil {
				return total, fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if st.BrushRadius > 0 {
			b.SetBrushRadius(st.BrushRadius)
		}

		tr.Radius = 1
		if st.Radius > 0 {
			tr.Radius = st.Radius
		}

		switch st.Mode {
		case "clear":
			b.Clear()
			continue
		case "erase":
			tr.SetMode(ModeErase)
		default:
			tr.SetMode(ModeDraw)
		}

		for j, p := range st.Points {
			uv := UV{U: p[0], V: p[1]}
			if j == 0 {
				tr.Down(uv)
			} else {
				tr.Drag(uv)
			}
		}
		tr.Up()
		total += q.Drain(b)
	}
	return total, nil
}
