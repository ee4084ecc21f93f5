// Package theme holds the palette and ttk styles of the car AR window.
package theme

import (
	"github.com/soocke/car-ar-go/domain/tracking"

	tk "modernc.org/tk9.0"
)

// Palette is the set of colors one appearance uses.
type Palette struct {
	AppBg    string
	Surface  string
	Primary  string
	Danger   string
	Scanning string // mode label while looking for a vehicle
	Locked   string // mode label while anchored
	Idle     string
	OnColor  string // text drawn on the colored labels and buttons
}

var (
	light = Palette{
		AppBg:    "#f7f9fb",
		Surface:  "#ffffff",
		Primary:  "#2563eb",
		Danger:   "#dc2626",
		Scanning: "#d97706",
		Locked:   "#10b981",
		Idle:     "#64748b",
		OnColor:  "white",
	}
	dark = Palette{
		AppBg:    "#0f172a",
		Surface:  "#1e293b",
		Primary:  "#3b82f6",
		Danger:   "#ef4444",
		Scanning: "#f59e0b",
		Locked:   "#34d399",
		Idle:     "#94a3b8",
		OnColor:  "#0f172a",
	}
)

// Style names used with Style(...).
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleIdleLabel     = "idle.TLabel"
	StyleScanningLabel = "scanning.TLabel"
	StyleLockedLabel   = "locked.TLabel"
)

var current = light

// Current returns the palette applied by the last Init.
func Current() Palette { return current }

// Init applies the light or dark palette to the window and its styles.
func Init(darkMode bool) {
	current = light
	if darkMode {
		current = dark
	}
	_ = tk.ActivateTheme("azure light") // baseline metrics
	tk.App.Configure(tk.Background(current.AppBg))

	button := func(name, bg string) {
		tk.StyleConfigure(name,
			tk.Background(bg),
			tk.Foreground(current.OnColor),
			tk.Padding("4p 3p"),
			tk.Borderwidth(1),
			tk.Relief("ridge"),
		)
	}
	button(StylePrimaryButton, current.Primary)
	button(StyleDangerButton, current.Danger)

	label := func(name, bg string) {
		tk.StyleConfigure(name,
			tk.Foreground(current.OnColor),
			tk.Background(bg),
			tk.Padding("4p 2p"),
			tk.Borderwidth(1),
			tk.Relief("groove"),
		)
	}
	label(StyleIdleLabel, current.Idle)
	label(StyleScanningLabel, current.Scanning)
	label(StyleLockedLabel, current.Locked)
}

// ModeStyle returns the mode label style for m.
func ModeStyle(m tracking.Mode) string {
	switch m {
	case tracking.ModeScanning:
		return StyleScanningLabel
	case tracking.ModeLocked:
		return StyleLockedLabel
	default:
		return StyleIdleLabel
	}
}
