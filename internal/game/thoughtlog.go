package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

const (
	logPanelWidth  = 320
	logMaxEntries  = 60
	logLineHeight  = 11
	logTitleHeight = 16
	logHighlight   = 3  // newest rows drawn on a lighter band
	logCharWidth   = 6  // DebugPrint glyph width
	logTextInset   = 12 // room for the category marker
)

var (
	panelBG     = color.RGBA{R: 10, G: 12, B: 10, A: 248}
	panelTitle  = color.RGBA{R: 20, G: 30, B: 20, A: 255}
	panelEdge   = color.RGBA{R: 50, G: 70, B: 50, A: 255}
	panelRecent = color.RGBA{R: 30, G: 40, B: 30, A: 160}
)

// ThoughtEntry is a single line in the thought log.
type ThoughtEntry struct {
	At       time.Duration
	Label    string // "H0", "S0"
	Category string
	Message  string
}

func (e ThoughtEntry) line() string {
	return fmt.Sprintf("%6.2f [%s] %s", e.At.Seconds(), e.Label, e.Message)
}

// ThoughtLog holds the newest agent events for the viewer's side panel. It
// is a Diagnostics sink that ignores verbose entries.
type ThoughtLog struct {
	entries []ThoughtEntry
}

func NewThoughtLog() *ThoughtLog {
	return &ThoughtLog{entries: make([]ThoughtEntry, 0, logMaxEntries)}
}

func (tl *ThoughtLog) Add(at time.Duration, actor, category, key, value string, _ float64) {
	msg := key
	if value != "" {
		msg += " " + value
	}
	if len(tl.entries) == logMaxEntries {
		copy(tl.entries, tl.entries[1:])
		tl.entries = tl.entries[:logMaxEntries-1]
	}
	tl.entries = append(tl.entries, ThoughtEntry{At: at, Label: actor, Category: category, Message: msg})
}

// Recent returns the kept entries, oldest first. The slice is a copy.
func (tl *ThoughtLog) Recent() []ThoughtEntry {
	return append([]ThoughtEntry(nil), tl.entries...)
}

func (tl *ThoughtLog) Clear() { tl.entries = tl.entries[:0] }

// Draw renders the panel at panelX, newest entry at the bottom. Lines wider
// than the panel are cut.
func (tl *ThoughtLog) Draw(screen *ebiten.Image, panelX int, panelH int) {
	x, w, h := float32(panelX), float32(logPanelWidth), float32(panelH)
	vector.FillRect(screen, x, 0, w, h, panelBG, false)
	vector.FillRect(screen, x, 0, w, logTitleHeight, panelTitle, false)
	vector.StrokeLine(screen, x, 0, x, h, 1, panelEdge, false)
	vector.StrokeLine(screen, x, logTitleHeight, x+w, logTitleHeight, 1, panelEdge, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("THOUGHT LOG (%d)", len(tl.entries)), panelX+8, 2)

	rows := (panelH - logTitleHeight - 8) / logLineHeight
	visible := tl.entries
	if len(visible) > rows {
		visible = visible[len(visible)-rows:]
	}
	maxChars := (logPanelWidth - logTextInset - 4) / logCharWidth

	y := logTitleHeight + 4
	for i, e := range visible {
		fy := float32(y)
		if i >= len(visible)-logHighlight {
			vector.FillRect(screen, x+2, fy, w-4, logLineHeight, panelRecent, false)
		}
		vector.FillRect(screen, x+5, fy+3, 3, 5, categoryColor(e.Category), false)
		line := e.line()
		if len(line) > maxChars {
			line = line[:maxChars]
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+logTextInset, y)
		y += logLineHeight
	}
}

func categoryColor(category string) color.RGBA {
	switch category {
	case "sensor":
		return colornames.Gold
	case "planner":
		return colornames.Mediumseagreen
	case "round":
		return colornames.Tomato
	default:
		return colornames.Lightsteelblue
	}
}
