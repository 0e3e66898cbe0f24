package ui

import (
	"fmt"
	"time"

	"snake-arcade/game"
	"snake-arcade/game/entity"
	"snake-arcade/game/orientation"
	"snake-arcade/game/types"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = types.MaxHistory // Maximum number of scores to show in graph
	borderPadding = 10
)

var (
	tileLight = rl.Color{R: 170, G: 215, B: 81, A: 255}
	tileDark  = rl.Color{R: 162, G: 209, B: 73, A: 255}
	foodColor = rl.Color{R: 231, G: 71, B: 29, A: 255}
	panelBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
)

type Renderer struct {
	screenWidth  int32
	screenHeight int32
	gameWidth    int32
	statsPanel   int32
	graphWidth   int32
	graphHeight  int32

	// scale maps board units to pixels, centreX/centreY is the board origin
	scale   float32
	centreX float32
	centreY float32

	skin     rl.Color
	speedrun bool
	scores   []int
}

func NewRenderer(settings types.Settings) *Renderer {
	c := entity.Skin(settings.Skin)
	r := &Renderer{
		skin:     rl.Color{R: c.R, G: c.G, B: c.B, A: 255},
		speedrun: settings.SpeedrunMode,
	}
	r.UpdateDimensions()
	return r
}

func (r *Renderer) UpdateDimensions() {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())

	r.statsPanel = r.screenWidth / 4
	r.gameWidth = r.screenWidth - r.statsPanel

	r.graphWidth = r.statsPanel - 20
	r.graphHeight = r.screenHeight / 5
}

// Record keeps a finished round's score for the graph.
func (r *Renderer) Record(score int) {
	if len(r.scores) >= maxScores {
		r.scores = r.scores[1:]
	}
	r.scores = append(r.scores, score)
}

func (r *Renderer) layout(board types.Board) {
	avail := min(r.gameWidth, r.screenHeight) - borderPadding*2
	r.scale = float32(avail) / float32(board.PhysicalSize())
	r.centreX = float32(r.gameWidth) / 2
	r.centreY = float32(r.screenHeight) / 2
}

// tileRect is the on-screen square of a cell. Screen y grows downward, so
// the board's y is flipped here.
func (r *Renderer) tileRect(board types.Board, c types.Cell) rl.Rectangle {
	px, py := board.CellToPhysical(c)
	size := float32(board.TileSize) * r.scale
	return rl.Rectangle{
		X:      r.centreX + float32(px)*r.scale - size/2,
		Y:      r.centreY - float32(py)*r.scale - size/2,
		Width:  size,
		Height: size,
	}
}

func (r *Renderer) Draw(snap game.Snapshot) {
	r.UpdateDimensions()
	board := types.NewBoard(snap.Size)
	r.layout(board)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/30, r.statsPanel/12)
	lineHeight := fontSize + fontSize/2

	for c := range board.Tiles() {
		color := tileLight
		if (c.X+c.Y)%2 == 1 {
			color = tileDark
		}
		rl.DrawRectangleRec(r.tileRect(board, c), color)
	}

	for _, f := range snap.Food {
		rect := r.tileRect(board, f)
		rl.DrawCircle(int32(rect.X+rect.Width/2), int32(rect.Y+rect.Height/2), rect.Width*0.4, foodColor)
	}

	for _, d := range snap.Orientation {
		r.drawSegment(board, d)
	}

	r.drawStatsPanel(snap, fontSize, lineHeight)
	r.drawOverlay(snap, fontSize*2)
	rl.EndDrawing()
}

// drawSegment fills the middle of the tile and extends arms toward the
// neighbours the descriptor connects, so corners and straights join up.
func (r *Renderer) drawSegment(board types.Board, d orientation.Descriptor) {
	rect := r.tileRect(board, d.Cell)
	inset := rect.Width * 0.15
	core := rl.Rectangle{X: rect.X + inset, Y: rect.Y + inset, Width: rect.Width - 2*inset, Height: rect.Height - 2*inset}

	color := r.skin
	switch d.Class {
	case orientation.Head:
		color = rl.ColorBrightness(r.skin, -0.25)
	case orientation.Tail:
		color = rl.ColorBrightness(r.skin, 0.2)
	}
	rl.DrawRectangleRec(core, color)

	for _, dir := range connects(d) {
		rl.DrawRectangleRec(arm(rect, core, dir), color)
	}

	if d.Class == orientation.Head {
		r.drawHeadIndicator(rect, d.Facing)
	}
}

// connects lists the directions toward the neighbours of a segment.
func connects(d orientation.Descriptor) []types.Direction {
	switch d.Class {
	case orientation.Head, orientation.Tail:
		return []types.Direction{d.Facing.Opposite()}
	case orientation.Straight:
		if d.Axis == types.Horizontal {
			return []types.Direction{types.Left, types.Right}
		}
		return []types.Direction{types.Up, types.Down}
	}
	switch d.Corner {
	case orientation.CornerNorthEast:
		return []types.Direction{types.Up, types.Right}
	case orientation.CornerSouthEast:
		return []types.Direction{types.Down, types.Right}
	case orientation.CornerSouthWest:
		return []types.Direction{types.Down, types.Left}
	default:
		return []types.Direction{types.Up, types.Left}
	}
}

func arm(tile, core rl.Rectangle, dir types.Direction) rl.Rectangle {
	switch dir {
	case types.Up:
		return rl.Rectangle{X: core.X, Y: tile.Y, Width: core.Width, Height: core.Y - tile.Y}
	case types.Down:
		return rl.Rectangle{X: core.X, Y: core.Y + core.Height, Width: core.Width, Height: tile.Y + tile.Height - core.Y - core.Height}
	case types.Left:
		return rl.Rectangle{X: tile.X, Y: core.Y, Width: core.X - tile.X, Height: core.Height}
	default:
		return rl.Rectangle{X: core.X + core.Width, Y: core.Y, Width: tile.X + tile.Width - core.X - core.Width, Height: core.Height}
	}
}

// drawHeadIndicator points a triangle the way the head faces. Vertices go
// counter-clockwise on screen.
func (r *Renderer) drawHeadIndicator(rect rl.Rectangle, facing types.Direction) {
	x, y, s := rect.X, rect.Y, rect.Width
	h := s / 2
	var a, b, c rl.Vector2
	switch facing {
	case types.Right:
		a, b, c = rl.Vector2{X: x + s, Y: y + h}, rl.Vector2{X: x + h, Y: y}, rl.Vector2{X: x + h, Y: y + s}
	case types.Left:
		a, b, c = rl.Vector2{X: x, Y: y + h}, rl.Vector2{X: x + h, Y: y + s}, rl.Vector2{X: x + h, Y: y}
	case types.Down:
		a, b, c = rl.Vector2{X: x + h, Y: y + s}, rl.Vector2{X: x + s, Y: y + h}, rl.Vector2{X: x, Y: y + h}
	default:
		a, b, c = rl.Vector2{X: x + h, Y: y}, rl.Vector2{X: x, Y: y + h}, rl.Vector2{X: x + s, Y: y + h}
	}
	rl.DrawTriangle(a, b, c, rl.Yellow)
}

func (r *Renderer) drawStatsPanel(snap game.Snapshot, fontSize, lineHeight int32) {
	statsX := r.gameWidth + 10
	statsY := int32(10)

	rl.DrawRectangle(r.gameWidth, 0, r.statsPanel, r.screenHeight, panelBg)

	line := func(text string, color rl.Color) {
		rl.DrawText(text, statsX, statsY, fontSize, color)
		statsY += lineHeight
	}
	line(fmt.Sprintf("Score: %d", snap.Score), rl.White)
	line(fmt.Sprintf("Best: %d", snap.HighScore.Score), rl.Gold)
	if r.speedrun {
		line("Time: "+clock(snap.Elapsed), rl.White)
		line("Best time: "+clock(snap.HighScore.Duration), rl.Gold)
	}
	line(fmt.Sprintf("Length: %d", len(snap.Body)), rl.LightGray)
	line(fmt.Sprintf("Games: %d", len(r.scores)), rl.LightGray)

	r.drawPerformanceGraph(statsX, fontSize)
}

func (r *Renderer) drawPerformanceGraph(graphX, fontSize int32) {
	graphHeight := r.graphHeight
	graphY := r.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, r.graphWidth, graphHeight, rl.White)
	rl.DrawText("Scores", graphX, graphY-fontSize-5, fontSize, rl.White)

	if len(r.scores) < 2 {
		return
	}
	maxScore, sum := 1, 0
	for _, s := range r.scores {
		maxScore = max(maxScore, s)
		sum += s
	}
	avg := float32(sum) / float32(len(r.scores))

	for j := 1; j < len(r.scores); j++ {
		x1 := graphX + int32(float32(r.graphWidth)*float32(j-1)/float32(maxScores))
		y1 := graphY + graphHeight - int32(float32(graphHeight)*float32(r.scores[j-1])/float32(maxScore))
		x2 := graphX + int32(float32(r.graphWidth)*float32(j)/float32(maxScores))
		y2 := graphY + graphHeight - int32(float32(graphHeight)*float32(r.scores[j])/float32(maxScore))
		rl.DrawLine(x1, y1, x2, y2, r.skin)
	}

	// Average line (dashed)
	avgY := graphY + graphHeight - int32(float32(graphHeight)*avg/float32(maxScore))
	for x := graphX; x < graphX+r.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, rl.LightGray)
	}
}

func (r *Renderer) drawOverlay(snap game.Snapshot, fontSize int32) {
	var title, hint string
	switch snap.Phase {
	case game.Menu:
		title, hint = "SNAKE", "Enter to start, Q to quit"
	case game.GameOver:
		title = "Game over: " + snap.Reason.String()
		if snap.Reason == types.Filled {
			title = "You filled the board!"
		}
		hint = "Enter to play again"
	default:
		return
	}
	rl.DrawRectangle(0, 0, r.gameWidth, r.screenHeight, rl.Fade(rl.Black, 0.5))
	tw := rl.MeasureText(title, fontSize)
	rl.DrawText(title, (r.gameWidth-tw)/2, r.screenHeight/2-fontSize, fontSize, rl.White)
	hw := rl.MeasureText(hint, fontSize/2)
	rl.DrawText(hint, (r.gameWidth-hw)/2, r.screenHeight/2+fontSize/2, fontSize/2, rl.LightGray)
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d.%d", int(d.Minutes()), int(d.Seconds())%60, d.Milliseconds()/100%10)
}
