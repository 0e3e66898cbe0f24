// Package tui draws the game on a terminal with tcell.
package tui

import (
	"fmt"

	"snake-arcade/game"
	"snake-arcade/game/entity"
	"snake-arcade/game/orientation"
	"snake-arcade/game/scene"
	"snake-arcade/game/types"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/glog"
)

// Each cell is two columns wide so the board looks square.
const cellWidth = 2

var (
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	foodStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	textStyle   = tcell.StyleDefault
)

type Renderer struct {
	screen tcell.Screen
	body   tcell.Style
	head   tcell.Style
	scene  *scene.Scene
}

func NewRenderer(s tcell.Screen, settings types.Settings) *Renderer {
	c := entity.Skin(settings.Skin)
	color := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	return &Renderer{
		screen: s,
		body:   tcell.StyleDefault.Foreground(color),
		head:   tcell.StyleDefault.Foreground(color).Bold(true),
	}
}

// Origin is the screen position of cell (0, N-1), the top-left of the
// board interior.
func origin() (int, int) {
	return 1, 1
}

// CellPos maps a board cell to its screen column and row. Rows are flipped
// because the board's y grows upward.
func CellPos(size int, c types.Cell) (int, int) {
	ox, oy := origin()
	return ox + c.X*cellWidth, oy + (size - 1 - c.Y)
}

func (r *Renderer) Draw(snap game.Snapshot) {
	s := r.screen
	s.Clear()
	n := snap.Size

	r.drawBorder(n)
	r.sync(snap)
	for _, c := range r.scene.Cells() {
		if r.scene.At(c) != scene.Food {
			continue
		}
		x, y := CellPos(n, c)
		s.SetContent(x, y, '●', nil, foodStyle)
	}
	for _, d := range snap.Orientation {
		x, y := CellPos(n, d.Cell)
		style := r.body
		if d.Class == orientation.Head {
			style = r.head
		}
		s.SetContent(x, y, Glyph(d), nil, style)
		if connectsEast(d) {
			s.SetContent(x+1, y, '━', nil, style)
		}
	}

	_, statusY := CellPos(n, types.Cell{X: 0, Y: -1})
	drawText(s, 0, statusY+1, textStyle, fmt.Sprintf("Score %d  Best %d  Length %d", snap.Score, snap.HighScore.Score, len(snap.Body)))
	switch snap.Phase {
	case game.Menu:
		drawText(s, 0, statusY+2, textStyle.Bold(true), "Enter to start, q to quit")
	case game.GameOver:
		msg := "Game over: " + snap.Reason.String()
		if snap.Reason == types.Filled {
			msg = "Board filled, you win"
		}
		drawText(s, 0, statusY+2, textStyle.Bold(true), msg+". Enter to play again")
	}
	s.Show()
}

// sync brings the scene up to date with snap. Deltas are replayed when the
// snapshot carries them; a snapshot without deltas, a new board size or a
// scene that no longer matches the snapshot forces a full reload.
func (r *Renderer) sync(snap game.Snapshot) {
	if r.scene == nil || r.scene.Board().Size != snap.Size {
		r.scene = scene.New(types.NewBoard(snap.Size))
		r.scene.Load(snap)
		return
	}
	if len(snap.Deltas) == 0 {
		r.scene.Load(snap)
		return
	}
	r.scene.Apply(snap.Deltas)
	if r.scene.Count(scene.Segment) != len(snap.Body) || r.scene.Count(scene.Food) != len(snap.Food) {
		glog.Warningf("scene out of step with tick %d, reloading", snap.Ticks)
		r.scene.Load(snap)
	}
}

func (r *Renderer) drawBorder(n int) {
	s := r.screen
	w := n*cellWidth + 1
	for x := 1; x < w; x++ {
		s.SetContent(x, 0, '─', nil, borderStyle)
		s.SetContent(x, n+1, '─', nil, borderStyle)
	}
	for y := 1; y <= n; y++ {
		s.SetContent(0, y, '│', nil, borderStyle)
		s.SetContent(w, y, '│', nil, borderStyle)
	}
	s.SetContent(0, 0, '┌', nil, borderStyle)
	s.SetContent(w, 0, '┐', nil, borderStyle)
	s.SetContent(0, n+1, '└', nil, borderStyle)
	s.SetContent(w, n+1, '┘', nil, borderStyle)
}

// Glyph picks the rune for a segment.
func Glyph(d orientation.Descriptor) rune {
	switch d.Class {
	case orientation.Head:
		switch d.Facing {
		case types.Up:
			return '▲'
		case types.Down:
			return '▼'
		case types.Left:
			return '◀'
		default:
			return '▶'
		}
	case orientation.Tail:
		return '•'
	case orientation.Straight:
		if d.Axis == types.Horizontal {
			return '━'
		}
		return '┃'
	}
	switch d.Corner {
	case orientation.CornerNorthEast:
		return '┗'
	case orientation.CornerSouthEast:
		return '┏'
	case orientation.CornerSouthWest:
		return '┓'
	default:
		return '┛'
	}
}

// connectsEast reports whether the segment joins the cell to its right,
// which decides the filler in the second column.
func connectsEast(d orientation.Descriptor) bool {
	switch d.Class {
	case orientation.Head, orientation.Tail:
		return d.Facing == types.Left
	case orientation.Straight:
		return d.Axis == types.Horizontal
	}
	return d.Corner == orientation.CornerNorthEast || d.Corner == orientation.CornerSouthEast
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
