package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/handiism/covercluster/internal/cluster"
	"github.com/handiism/covercluster/internal/compose"
	"github.com/handiism/covercluster/internal/download"
	cerrors "github.com/handiism/covercluster/internal/errors"
	ioutils "github.com/handiism/covercluster/internal/io"
	"github.com/handiism/covercluster/internal/layout"
	"github.com/handiism/covercluster/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Input and output
	IndexPath  string `json:"index_path" toml:"index_path"`
	CoversDir  string `json:"covers_dir" toml:"covers_dir"`
	OutputPath string `json:"output_path" toml:"output_path"`
	Kind       string `json:"kind" toml:"kind"` // album, artist, all

	// Canvas
	CanvasWidth  int    `json:"canvas_width" toml:"canvas_width"`
	CanvasHeight int    `json:"canvas_height" toml:"canvas_height"`
	Background   string `json:"background" toml:"background"` // "#rrggbb" or "r,g,b"

	// Scaling and layout
	MinPx int    `json:"min_px" toml:"min_px"`
	MaxPx int    `json:"max_px" toml:"max_px"`
	Align string `json:"align" toml:"align"` // left, center

	// Compositing
	Missing     string `json:"missing" toml:"missing"` // skip, placeholder
	Placeholder string `json:"placeholder" toml:"placeholder"`
	Resample    string `json:"resample" toml:"resample"`
	JPEGQuality int    `json:"jpeg_quality" toml:"jpeg_quality"`

	// Cover fetching
	FetchMaxConcurrent int     `json:"fetch_max_concurrent" toml:"fetch_max_concurrent"`
	FetchMaxRetries    int     `json:"fetch_max_retries" toml:"fetch_max_retries"`
	FetchRetryCooldown float64 `json:"fetch_retry_cooldown" toml:"fetch_retry_cooldown"`
	FetchRetryExponent float64 `json:"fetch_retry_exponent" toml:"fetch_retry_exponent"`
	FetchTimeout       float64 `json:"fetch_timeout" toml:"fetch_timeout"` // seconds
	CoverMaxSize       int     `json:"cover_max_size" toml:"cover_max_size"`
	CoverResize        bool    `json:"cover_resize" toml:"cover_resize"`
	UserAgent          string  `json:"user_agent" toml:"user_agent"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		IndexPath:  "index.txt",
		CoversDir:  "covers",
		OutputPath: "cluster.png",
		Kind:       "album",

		CanvasWidth:  1920,
		CanvasHeight: 1080,
		Background:   "#141414",

		MinPx: 50,
		MaxPx: 300,
		Align: "left",

		Missing:     "skip",
		Placeholder: "#303030",
		Resample:    "catmullrom",
		JPEGQuality: ioutils.DefaultJPEGQuality,

		FetchMaxConcurrent: 4,
		FetchMaxRetries:    7,
		FetchRetryCooldown: 0.2,
		FetchRetryExponent: 4.0,
		FetchTimeout:       60,
		CoverMaxSize:       640,
		CoverResize:        true,
	}
}

// Load reads settings from a JSON or TOML file, chosen by extension.
//
// Keys missing from the file keep their default value. A file that does not
// exist yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), settings); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	} else if err := json.Unmarshal(data, settings); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	return settings, nil
}

// Save writes settings to a JSON or TOML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	if isTOML(path) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(s); err != nil {
			return err
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate checks every value that the conversions below would reject and
// reports the first problem as INVALID_CANVAS or INVALID_CONFIG.
func (s *Settings) Validate() error {
	if _, err := s.Kinds(); err != nil {
		return err
	}
	if _, err := s.ToCanvas(); err != nil {
		return err
	}
	opts, err := s.ToRenderOptions()
	if err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := ioutils.FormatForPath(s.OutputPath); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "output_path")
	}
	return nil
}

// Kinds expands the Kind setting: "all" selects both sections.
func (s *Settings) Kinds() ([]model.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(s.Kind), "all") {
		return []model.Kind{model.KindAlbum, model.KindArtist}, nil
	}
	k, err := model.ParseKind(s.Kind)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "kind")
	}
	return []model.Kind{k}, nil
}

// ToCanvas converts the canvas settings.
func (s *Settings) ToCanvas() (model.Canvas, error) {
	bg, err := ParseColor(s.Background)
	if err != nil {
		return model.Canvas{}, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "background")
	}
	c := model.Canvas{Width: s.CanvasWidth, Height: s.CanvasHeight, Background: bg}
	if !c.Valid() {
		return model.Canvas{}, cerrors.New(cerrors.ErrCodeInvalidCanvas, "canvas must be positive, got %dx%d", c.Width, c.Height)
	}
	return c, nil
}

// ToRenderOptions converts settings to cluster.Options.
func (s *Settings) ToRenderOptions() (cluster.Options, error) {
	canvas, err := s.ToCanvas()
	if err != nil {
		return cluster.Options{}, err
	}

	missing, err := compose.ParseMissingPolicy(s.Missing)
	if err != nil {
		return cluster.Options{}, err
	}

	placeholder, err := ParseColor(s.Placeholder)
	if err != nil {
		return cluster.Options{}, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "placeholder")
	}

	var align layout.Align
	switch strings.ToLower(s.Align) {
	case "", "left":
		align = layout.AlignLeft
	case "center":
		align = layout.AlignCenter
	default:
		return cluster.Options{}, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown align %q (want left or center)", s.Align)
	}

	if !validResample(s.Resample) {
		return cluster.Options{}, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown resample %q (want one of %s)",
			s.Resample, strings.Join(ioutils.Interpolators, ", "))
	}

	return cluster.Options{
		Canvas: canvas,
		Scaler: layout.Scaler{MinPx: s.MinPx, MaxPx: s.MaxPx},
		Align:  align,
		Compose: compose.Options{
			Missing:     missing,
			Placeholder: placeholder,
			JPEGQuality: s.JPEGQuality,
		},
		Resample: s.Resample,
	}, nil
}

// ToFetchOptions converts settings to download.Options.
func (s *Settings) ToFetchOptions() download.Options {
	return download.Options{
		CoversDir:     s.CoversDir,
		MaxConcurrent: s.FetchMaxConcurrent,
		MaxRetries:    s.FetchMaxRetries,
		RetryCooldown: s.FetchRetryCooldown,
		RetryExponent: s.FetchRetryExponent,
		Resize:        s.CoverResize,
		MaxSize:       s.CoverMaxSize,
		UserAgent:     s.UserAgent,
		Timeout:       time.Duration(s.FetchTimeout * float64(time.Second)),
	}
}

func validResample(name string) bool {
	if name == "" {
		return true
	}
	for _, n := range ioutils.Interpolators {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// ParseColor accepts "#rrggbb" (or "#rgb") and "r,g,b" with components in
// 0-255. The result is always opaque.
//
// Example:
//
//	ParseColor("#141414")    // {20 20 20 255}
//	ParseColor("20, 20, 20") // {20 20 20 255}
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb or r,g,b", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: component %d: %w", s, i+1, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
