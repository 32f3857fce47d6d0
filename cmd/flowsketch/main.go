package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowsketch"
)

// Document units spanned by one terminal cell. Cells are taller than
// wide, so the vertical step is doubled to keep shapes roughly square.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

func main() {
	config := flowsketch.LoadConfig()
	canvas := flowsketch.NewCanvas()
	config.Apply(canvas)

	m := initialModel(canvas, config)
	if len(os.Args) > 1 {
		if err := canvas.LoadFromFile(os.Args[1]); err != nil {
			log.Fatal(err)
		}
		m.filename = os.Args[1]
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

type mode int

const (
	modeNormal mode = iota
	modeTextEdit
	modeFileInput
)

type fileOperation int

const (
	fileOpSave fileOperation = iota
	fileOpOpen
	fileOpExportPNG
	fileOpExportSVG
)

type model struct {
	canvas   *flowsketch.Canvas
	config   *flowsketch.Config
	width    int
	height   int
	mode     mode
	fileOp   fileOperation
	filename string
	input    string
	status   string
	errMsg   string
	pointer  flowsketch.Point // last pointer position, document coords
}

func initialModel(canvas *flowsketch.Canvas, config *flowsketch.Config) model {
	return model{
		canvas:  canvas,
		config:  config,
		pointer: flowsketch.Pt(100, 100),
		status:  "1-6: add shape  a: arrow  e: text  s/o: save/open  u: undo",
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) cellToScreen(x, y int) flowsketch.Point {
	// PressAt expects screen coordinates; the canvas divides by zoom.
	return flowsketch.Pt(float64(x)*cellWidth, float64(y)*cellHeight)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if m.mode != modeNormal {
			return m, nil
		}
		screen := m.cellToScreen(msg.X, msg.Y)
		m.pointer = m.canvas.ScreenToDoc(screen)
		switch msg.Action {
		case tea.MouseActionPress:
			m.canvas.PressAt(screen)
		case tea.MouseActionMotion:
			m.canvas.MoveTo(screen)
		case tea.MouseActionRelease:
			m.canvas.ReleaseAt(screen)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeTextEdit:
			return m.updateTextEdit(msg)
		case modeFileInput:
			return m.updateFileInput(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	at := m.pointer

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1":
		m.canvas.AddShape(flowsketch.KindRect, flowsketch.NewRect(at.X, at.Y, 120, 60))
	case "2":
		m.canvas.AddShape(flowsketch.KindRoundedRect, flowsketch.NewRect(at.X, at.Y, 120, 60))
	case "3":
		m.canvas.AddShape(flowsketch.KindEllipse, flowsketch.NewRect(at.X, at.Y, 120, 60))
	case "4":
		m.canvas.AddShape(flowsketch.KindTriangle, flowsketch.NewRect(at.X, at.Y, 100, 80))
	case "5":
		m.canvas.AddShape(flowsketch.KindPentagon, flowsketch.NewRect(at.X, at.Y, 100, 90))
	case "6":
		m.canvas.AddShape(flowsketch.KindDiamond, flowsketch.NewRect(at.X, at.Y, 110, 70))
	case "a":
		m.canvas.AddArrow(at, at.Add(flowsketch.Pt(120, 0)))

	case "d", "delete":
		m.canvas.DeleteSelected()
	case "c":
		m.canvas.CopySelected()
	case "X":
		m.canvas.CutSelected()
	case "v":
		m.canvas.Paste(at)
	case "C":
		if err := m.canvas.CopySelectedToSystemClipboard(); err != nil {
			m.errMsg = err.Error()
		}
	case "V":
		if _, err := m.canvas.PasteFromSystemClipboard(at); err != nil {
			m.errMsg = err.Error()
		}

	case "u":
		m.canvas.Undo()
	case "ctrl+r", "U":
		m.canvas.Redo()

	case "+", "=":
		m.canvas.ZoomIn()
	case "-":
		m.canvas.ZoomOut()
	case "0":
		m.canvas.ResetZoom()

	case "]":
		m.canvas.RaiseSelected()
	case "[":
		m.canvas.LowerSelected()
	case "}":
		m.canvas.SelectedToFront()
	case "{":
		m.canvas.SelectedToBack()

	case "g":
		m.canvas.SetGridVisible(!m.canvas.GridVisible())

	case "f":
		if s := m.canvas.Selected(); s != nil && s.TextEditable() {
			style := s.Style()
			names := flowsketch.FontNames()
			next := names[0]
			for i, n := range names {
				if n == style.FontName {
					next = names[(i+1)%len(names)]
					break
				}
			}
			style.FontName = next
			s.SetStyle(style)
			m.status = "font: " + next
		}

	case "e":
		if s := m.canvas.Selected(); s != nil && s.TextEditable() {
			s.SetEditing(true)
			m.mode = modeTextEdit
			m.input = s.Text()
		}

	case "s":
		m.mode = modeFileInput
		m.fileOp = fileOpSave
		m.input = m.filename
	case "o":
		m.mode = modeFileInput
		m.fileOp = fileOpOpen
		m.input = ""
	case "P":
		m.mode = modeFileInput
		m.fileOp = fileOpExportPNG
		m.input = trimExt(m.filename) + ".png"
	case "S":
		m.mode = modeFileInput
		m.fileOp = fileOpExportSVG
		m.input = trimExt(m.filename) + ".svg"

	case "N":
		m.canvas.Clear()
		m.filename = ""
		m.status = "cleared"

	case "escape":
		m.canvas.ClearSelection()
	}
	return m, nil
}

func (m model) updateTextEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.canvas.FinishTextEdit(m.input)
		m.mode = modeNormal
		m.input = ""
	case "escape":
		if s := m.canvas.Selected(); s != nil {
			s.SetEditing(false)
		}
		m.mode = modeNormal
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		} else if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}
	return m, nil
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		if m.input == "" {
			return m, nil
		}
		path := m.config.GetSavePath(m.input)
		var err error
		switch m.fileOp {
		case fileOpSave:
			if err = m.canvas.SaveToFile(path); err == nil {
				m.filename = m.input
				m.status = "saved " + path
			}
		case fileOpOpen:
			if err = m.canvas.LoadFromFile(path); err == nil {
				m.filename = m.input
				m.status = "opened " + path
			}
		case fileOpExportPNG:
			if err = m.canvas.ExportPNG(path); err == nil {
				m.status = "exported " + path
			}
		case fileOpExportSVG:
			if err = m.canvas.ExportSVG(path); err == nil {
				m.status = "exported " + path
			}
		}
		if err != nil {
			m.errMsg = err.Error()
		}
		m.input = ""
	case "escape":
		m.mode = modeNormal
		m.input = ""
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

func trimExt(name string) string {
	if name == "" {
		return "diagram"
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

var (
	statusStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1)
	errorStyle    = lipgloss.NewStyle().Background(lipgloss.Color("52")).Foreground(lipgloss.Color("231")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

func (m model) View() string {
	renderHeight := m.height - 1
	if renderHeight < 1 {
		renderHeight = 1
	}
	renderWidth := m.width
	if renderWidth < 1 {
		renderWidth = 1
	}

	grid := make([][]rune, renderHeight)
	for i := range grid {
		grid[i] = make([]rune, renderWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	selectedID := m.canvas.SelectedID()
	selectedCells := map[[2]int]bool{}
	zoom := m.canvas.ZoomFactor()

	toCell := func(p flowsketch.Point) (int, int) {
		return int(p.X * zoom / cellWidth), int(p.Y * zoom / cellHeight)
	}

	for _, s := range m.canvas.Shapes() {
		isSelected := s.ID() == selectedID
		mark := func(x, y int, r rune) {
			if y < 0 || y >= renderHeight || x < 0 || x >= renderWidth {
				return
			}
			grid[y][x] = r
			if isSelected {
				selectedCells[[2]int{x, y}] = true
			}
		}

		if s.Connector() {
			p1, p2 := s.Line()
			x1, y1 := toCell(p1)
			x2, y2 := toCell(p2)
			drawSegment(mark, x1, y1, x2, y2)
			mark(x2, y2, '>')
			continue
		}

		r := m.canvas.DocToScreenRect(s.BoundingRect())
		x1, y1 := int(r.Left()/cellWidth), int(r.Top()/cellHeight)
		x2, y2 := int(r.Right()/cellWidth), int(r.Bottom()/cellHeight)
		drawBoxOutline(mark, x1, y1, x2, y2)

		if text := s.Text(); text != "" {
			line := strings.SplitN(text, "\n", 2)[0]
			tx := (x1+x2)/2 - len(line)/2
			ty := (y1 + y2) / 2
			for i, ch := range line {
				mark(tx+i, ty, ch)
			}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		x := 0
		for x < len(row) {
			if selectedCells[[2]int{x, y}] {
				start := x
				for x < len(row) && selectedCells[[2]int{x, y}] {
					x++
				}
				b.WriteString(selectedStyle.Render(string(row[start:x])))
			} else {
				b.WriteRune(row[x])
				x++
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar(renderWidth))
	return b.String()
}

func (m model) statusBar(width int) string {
	switch m.mode {
	case modeTextEdit:
		return statusStyle.Width(width).Render("text: " + m.input + "█")
	case modeFileInput:
		labels := map[fileOperation]string{
			fileOpSave:      "save as",
			fileOpOpen:      "open",
			fileOpExportPNG: "export png",
			fileOpExportSVG: "export svg",
		}
		return statusStyle.Width(width).Render(labels[m.fileOp] + ": " + m.input + "█")
	}
	if m.errMsg != "" {
		return errorStyle.Width(width).Render("error: " + m.errMsg)
	}

	name := m.filename
	if name == "" {
		name = "[untitled]"
	}
	history := ""
	if m.canvas.CanUndo() {
		history += " u:undo"
	}
	if m.canvas.CanRedo() {
		history += " U:redo"
	}
	line := fmt.Sprintf("%s  %d shapes  zoom %.0f%%%s  %s",
		name, m.canvas.ShapeCount(), m.canvas.ZoomFactor()*100, history, m.status)
	return statusStyle.Width(width).Render(line)
}

// drawSegment walks cells between two points, Bresenham style.
func drawSegment(mark func(x, y int, r rune), x1, y1, x2, y2 int) {
	dx := abs(x2 - x1)
	dy := -abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	x, y := x1, y1
	for {
		ch := '·'
		if dy == 0 {
			ch = '─'
		} else if dx == 0 {
			ch = '│'
		}
		mark(x, y, ch)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func drawBoxOutline(mark func(x, y int, r rune), x1, y1, x2, y2 int) {
	if x2 <= x1 {
		x2 = x1 + 1
	}
	if y2 <= y1 {
		y2 = y1 + 1
	}
	for x := x1 + 1; x < x2; x++ {
		mark(x, y1, '─')
		mark(x, y2, '─')
	}
	for y := y1 + 1; y < y2; y++ {
		mark(x1, y, '│')
		mark(x2, y, '│')
	}
	mark(x1, y1, '┌')
	mark(x2, y1, '┐')
	mark(x1, y2, '└')
	mark(x2, y2, '┘')
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
