package server

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/earthnoise/config"
	"github.com/pthm-cable/earthnoise/renderer"
	"github.com/pthm-cable/earthnoise/terrain"
)

// Action is a navigation command decoded from terminal input.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionDeeper
	ActionShallower
	ActionQuit
)

// View is the window one session looks through: a plane slice of the field
// at depth Z, with its top-left corner at (X, Y).
type View struct {
	X, Y, Z float64
	Scale   float64 // Noise units per terminal column
	PanStep int     // Columns moved per pan action
	ZStep   float64
}

// NewView starts a view at the configured grid origin.
func NewView(g config.GridConfig) View {
	return View{
		X:       g.OriginX,
		Y:       g.OriginY,
		Z:       g.OriginZ,
		Scale:   g.Scale * 4,
		PanStep: 8,
		ZStep:   0.05,
	}
}

// Apply moves the view. Vertical pans move two pixel rows per step so the
// half-block rendering stays aligned.
func (v *View) Apply(a Action) {
	step := float64(v.PanStep) * v.Scale
	switch a {
	case ActionUp:
		v.Y -= step
	case ActionDown:
		v.Y += step
	case ActionLeft:
		v.X -= step
	case ActionRight:
		v.X += step
	case ActionDeeper:
		v.Z += v.ZStep
	case ActionShallower:
		v.Z -= v.ZStep
	}
}

// Grid returns the plane grid covering cols by rows terminal cells.
func (v View) Grid(cols, rows int) terrain.Grid {
	return terrain.Grid{
		Width:      cols,
		Height:     rows * 2,
		Scale:      v.Scale,
		OriginX:    v.X,
		OriginY:    v.Y,
		OriginZ:    v.Z,
		Projection: terrain.ProjectionPlane,
	}
}

// Frame renders the view into a full-screen frame of cols by rows cells. The
// last row is a status line.
func (v View) Frame(s terrain.Sampler, p renderer.Palette, cols, rows int) (string, error) {
	var sb strings.Builder
	sb.WriteString(renderer.MoveTo(1, 1))

	mapRows := rows - 1
	if cols > 0 && mapRows > 0 {
		hm, err := terrain.Generate(s, v.Grid(cols, mapRows))
		if err != nil {
			return "", err
		}
		cells := hm.Classify(p.Bands)
		sb.WriteString(renderer.ANSI(renderer.Colors(hm, cells, p), hm.W, hm.H, cols, mapRows))
	}

	status := fmt.Sprintf(" x=%.2f y=%.2f z=%.2f  WASD/arrows pan  +/- depth  q quit", v.X, v.Y, v.Z)
	if len(status) > cols && cols > 0 {
		status = status[:cols]
	}
	sb.WriteString(renderer.Reset)
	sb.WriteString(status)
	sb.WriteString(renderer.CSI + "K")
	return sb.String(), nil
}
