package prefs

import (
	"fmt"
	"strings"
)

// BackgroundKind distinguishes CSS gradients from image URLs.
type BackgroundKind string

const (
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// CustomBackgroundID selects the user-supplied background URL.
const CustomBackgroundID = "custom"

// PresetBackground is an immutable background catalog entry.
type PresetBackground struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Kind  BackgroundKind `json:"type"`
	Value string         `json:"value"`
}

var presetBackgrounds = []PresetBackground{
	{ID: "cyber", Name: "Cyber", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(220 50% 4%) 0%, hsl(240 40% 8%) 50%, hsl(220 50% 4%) 100%)"},
	{ID: "aurora", Name: "Aurora", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(250 60% 40%) 0%, hsl(280 50% 35%) 50%, hsl(320 60% 40%) 100%)"},
	{ID: "ocean", Name: "Ocean", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(200 80% 25%) 0%, hsl(220 70% 40%) 100%)"},
	{ID: "matrix", Name: "Matrix", Kind: BackgroundGradient, Value: "linear-gradient(180deg, hsl(150 60% 4%) 0%, hsl(180 50% 3%) 100%)"},
	{ID: "midnight", Name: "Midnight", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(220 50% 5%) 0%, hsl(230 45% 12%) 50%, hsl(240 40% 18%) 100%)"},
	{ID: "neon", Name: "Neon", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(280 80% 35%) 0%, hsl(320 70% 40%) 50%, hsl(350 60% 45%) 100%)"},
	{ID: "emerald", Name: "Emerald", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(160 70% 25%) 0%, hsl(150 80% 40%) 100%)"},
	{ID: "sunset", Name: "Sunset", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(320 80% 40%) 0%, hsl(260 70% 50%) 52%, hsl(200 80% 50%) 100%)"},
	{ID: "cosmic", Name: "Cosmic", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(250 60% 15%) 0%, hsl(280 50% 25%) 100%)"},
	{ID: "slate", Name: "Slate", Kind: BackgroundGradient, Value: "linear-gradient(135deg, hsl(220 30% 8%) 0%, hsl(220 25% 15%) 50%, hsl(220 20% 20%) 100%)"},
}

// PresetBackgrounds returns a copy of the built-in background list.
func PresetBackgrounds() []PresetBackground {
	out := make([]PresetBackground, len(presetBackgrounds))
	copy(out, presetBackgrounds)
	return out
}

func findBackground(list []PresetBackground, id string) (PresetBackground, bool) {
	for _, bg := range list {
		if bg.ID == id {
			return bg, true
		}
	}
	return PresetBackground{}, false
}

func serverBackgroundsFrom(urls []string) []PresetBackground {
	out := make([]PresetBackground, 0, len(urls))
	for i, u := range urls {
		out = append(out, PresetBackground{
			ID:    fmt.Sprintf("server_%d", i),
			Name:  fmt.Sprintf("Server background %d", i+1),
			Kind:  BackgroundImage,
			Value: u,
		})
	}
	return out
}

const (
	sketchDarkColor  = "hsl(40 12% 8%)"
	sketchLightColor = "hsl(45 30% 88%)"
)

// BackgroundStyle is the resolved page background as CSS properties. Either
// Background or the image fields are set.
type BackgroundStyle struct {
	Background         string
	BackgroundImage    string
	BackgroundSize     string
	BackgroundPosition string
	BackgroundRepeat   string
}

// IsImage reports whether the style is an image cover.
func (s BackgroundStyle) IsImage() bool { return s.BackgroundImage != "" }

// CSS renders the style as an inline declaration list.
func (s BackgroundStyle) CSS() string {
	var parts []string
	add := func(prop, value string) {
		if value != "" {
			parts = append(parts, prop+": "+value)
		}
	}
	add("background", s.Background)
	add("background-image", s.BackgroundImage)
	add("background-size", s.BackgroundSize)
	add("background-position", s.BackgroundPosition)
	add("background-repeat", s.BackgroundRepeat)
	return strings.Join(parts, "; ")
}

func imageCover(url string) BackgroundStyle {
	return BackgroundStyle{
		BackgroundImage:    "url(" + url + ")",
		BackgroundSize:     "cover",
		BackgroundPosition: "center",
		BackgroundRepeat:   "no-repeat",
	}
}

// resolveBackground evaluates, in order: sketch themes, the custom URL,
// built-in presets, server images, then the first preset.
func resolveBackground(cfg UserConfig, server []PresetBackground) BackgroundStyle {
	switch cfg.Theme {
	case ThemeSketchDark:
		return BackgroundStyle{Background: sketchDarkColor}
	case ThemeSketchLight:
		return BackgroundStyle{Background: sketchLightColor}
	}

	bg := cfg.Background
	if bg == CustomBackgroundID && cfg.CustomBgURL != "" {
		return imageCover(cfg.CustomBgURL)
	}
	if preset, ok := findBackground(presetBackgrounds, bg); ok {
		return BackgroundStyle{Background: preset.Value}
	}
	if img, ok := findBackground(server, bg); ok {
		return imageCover(img.Value)
	}
	return BackgroundStyle{Background: presetBackgrounds[0].Value}
}
