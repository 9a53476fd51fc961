package ui

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazebatch/internal/maze"
)

// Preview is an interactive browser over a batch of mazes.
type Preview struct {
	screen   *Screen
	renderer *Renderer
	grids    []*maze.Grid
	index    int
	running  bool
}

// NewPreview creates a preview on a fresh terminal screen.
func NewPreview(grids []*maze.Grid) (*Preview, error) {
	if len(grids) == 0 {
		return nil, errors.New("no mazes to preview")
	}
	screen, err := NewScreen()
	if err != nil {
		return nil, err
	}
	return newPreview(screen, grids), nil
}

func newPreview(screen *Screen, grids []*maze.Grid) *Preview {
	return &Preview{
		screen:   screen,
		renderer: NewRenderer(screen),
		grids:    grids,
		running:  true,
	}
}

// Run renders the current maze and handles input until the user quits.
func (p *Preview) Run() {
	defer p.screen.Close()
	for p.running {
		p.renderer.Render(p.grids[p.index], p.index, len(p.grids))
		p.handleEvent(p.screen.PollEvent())
	}
}

// Index returns the maze currently shown.
func (p *Preview) Index() int {
	return p.index
}

func (p *Preview) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		p.handleKeyEvent(ev)
	case *tcell.EventResize:
		p.screen.Sync()
	case nil:
		// Screen finalized.
		p.running = false
	}
}

func (p *Preview) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.running = false
	case tcell.KeyRight:
		p.index = (p.index + 1) % len(p.grids)
	case tcell.KeyLeft:
		p.index = (p.index - 1 + len(p.grids)) % len(p.grids)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			p.running = false
		}
	}
}
