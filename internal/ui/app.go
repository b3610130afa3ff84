package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"asciiusa/internal/composite"
	"asciiusa/internal/debug"
	"asciiusa/internal/geo"

	"github.com/gdamore/tcell/v2"
)

// ViewMode represents the current view mode
type ViewMode int

const (
	ViewModeMap ViewMode = iota
	ViewModeProbe
)

const (
	legendWidth = 30
	probeWidth  = 40
	probeHeight = 10
)

// App is the main application controller
type App struct {
	screen      tcell.Screen
	composite   *composite.Composite
	mapView     *MapView
	legendView  *LegendView
	probeView   *ProbeView
	currentView ViewMode
	quit        chan struct{}
	finiOnce    sync.Once
}

// NewApp creates a new application on the terminal
func NewApp(c *composite.Composite, features map[geo.FeatureType][]*geo.Feature, aspectRatio float64) (*App, error) {
	// Initialize tcell screen
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}

	return newApp(screen, c, features, aspectRatio), nil
}

// newApp builds the views on an initialised screen
func newApp(screen tcell.Screen, c *composite.Composite, features map[geo.FeatureType][]*geo.Feature, aspectRatio float64) *App {
	screen.SetStyle(tcell.StyleDefault)
	screen.EnableMouse()
	screen.Clear()

	width, height := screen.Size()

	mapView := NewMapView(width, height, c, features, aspectRatio)

	// Legend in lower-left corner
	legendHeight := c.Len() + 2
	legendView := NewLegendView(0, height-legendHeight, legendWidth, legendHeight)
	legendView.Update(c.Components())

	// Probe panel in lower-left corner
	probeView := NewProbeView(0, height-probeHeight, probeWidth, probeHeight, c)

	return &App{
		screen:      screen,
		composite:   c,
		mapView:     mapView,
		legendView:  legendView,
		probeView:   probeView,
		currentView: ViewModeMap,
		quit:        make(chan struct{}),
	}
}

// Run starts the application main loop; it returns when the user quits or ctx is done
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.cleanup()

	events := make(chan tcell.Event, 16)
	go a.screen.ChannelEvents(events, ctx.Done())

	ticker := time.NewTicker(100 * time.Millisecond) // 10 FPS
	defer ticker.Stop()

	a.update()
	a.render()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-a.quit:
			return nil

		case <-ticker.C:
			a.update()
			a.render()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handleEvent(ev) {
				return nil // Quit requested
			}
		}
	}
}

// update updates the application state
func (a *App) update() {
	probe := a.mapView.Probe()

	a.probeView.SetProbe(probe)

	active := -1
	if probe.OK {
		active = probe.Match.Index
	}
	a.legendView.SetActive(active)
}

// render renders the current view to the screen
func (a *App) render() {
	a.screen.Clear()

	// Always draw map
	a.mapView.Draw(a.screen)
	a.mapView.DrawStatus(a.screen)

	// Draw legend or probe panel depending on mode
	switch a.currentView {
	case ViewModeMap:
		a.legendView.Draw(a.screen)
	case ViewModeProbe:
		a.probeView.Draw(a.screen)
	}

	a.screen.Show()
}

// handleEvent processes keyboard, mouse and resize events
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			col, row := ev.Position()
			a.mapView.SetCursor(col, row)
			a.update()
		}

	case *tcell.EventResize:
		a.handleResize()
	}

	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	pan := ev.Modifiers()&tcell.ModShift != 0

	switch ev.Key() {
	case tcell.KeyEscape:
		if a.currentView == ViewModeProbe {
			a.currentView = ViewModeMap
		} else {
			a.stop()
			return false
		}

	case tcell.KeyEnter:
		if a.currentView == ViewModeMap {
			a.currentView = ViewModeProbe
		} else {
			a.currentView = ViewModeMap
		}

	case tcell.KeyTab:
		a.legendView.SelectNext()
		a.focusSelected()

	case tcell.KeyBacktab:
		a.legendView.SelectPrev()
		a.focusSelected()

	case tcell.KeyUp:
		a.move(0, -1, pan)
	case tcell.KeyDown:
		a.move(0, 1, pan)
	case tcell.KeyLeft:
		a.move(-1, 0, pan)
	case tcell.KeyRight:
		a.move(1, 0, pan)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			a.stop()
			return false

		case 'h':
			a.move(-1, 0, false)
		case 'j':
			a.move(0, 1, false)
		case 'k':
			a.move(0, -1, false)
		case 'l':
			a.move(1, 0, false)

		case 'w', 'W':
			a.move(0, -1, true)
		case 'a', 'A':
			a.move(-1, 0, true)
		case 's', 'S':
			a.move(0, 1, true)
		case 'd', 'D':
			a.move(1, 0, true)

		case '+', '=':
			a.mapView.ZoomIn()

		case '-', '_':
			a.mapView.ZoomOut()

		case '0':
			a.mapView.Reset()

		case 'r', 'R':
			a.render()
		}
	}

	a.update()
	return true
}

// move steps the crosshair, or pans the map when pan is set
func (a *App) move(dx, dy int, pan bool) {
	if pan {
		a.mapView.Pan(dx, dy)
		return
	}
	a.mapView.MoveCursor(dx, dy)
}

// focusSelected moves the crosshair onto the legend's selected component
func (a *App) focusSelected() {
	if comp, ok := a.legendView.GetSelected(); ok {
		a.mapView.CenterCursorOn(comp)
	}
}

func (a *App) stop() {
	select {
	case <-a.quit:
	default:
		close(a.quit)
	}
}

// handleResize handles terminal resize events
func (a *App) handleResize() {
	a.screen.Sync()
	width, height := a.screen.Size()
	debug.Log("Terminal resized to %dx%d", width, height)

	a.mapView.UpdateDimensions(width, height)

	legendHeight := a.composite.Len() + 2
	a.legendView.UpdateDimensions(0, height-legendHeight, legendWidth, legendHeight)

	a.probeView.UpdateDimensions(0, height-probeHeight, probeWidth, probeHeight)
}

// cleanup restores the terminal; it is safe to call more than once
func (a *App) cleanup() {
	a.finiOnce.Do(func() {
		if a.screen != nil {
			a.screen.Fini()
		}
	})
}
