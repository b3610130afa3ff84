package composite

import (
	"reflect"
	"sync"

	"asciiusa/internal/debug"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
)

// Chooser selects the component projection used to forward-project a lon/lat point.
// It must return one of the composite's own projections.
type Chooser func(lon, lat float64) projection.Projection

// Params places one component relative to the composite's global scale and translate
type Params struct {
	Name      string           // Label used by the viewer and CLI
	Scale     float64          // Multiplier on the global scale (0 means 1)
	Translate projection.Point // Offset in units of the global scale
	Extent    *geo.Extent      // Optional extent scoping the component's inverse
}

// Component is one regional projection owned by a composite
type Component struct {
	Projection projection.Projection
	Params     Params

	invert   InvertFunc
	inverter *ExtentInverter
}

// Invert runs the component's inverse: its extent inverter if it has one,
// otherwise the projection's native inverse
func (c Component) Invert(x, y float64) (lon, lat float64, ok bool) {
	return c.invert(x, y)
}

// ExtentInverter returns the component's extent inverter, or nil if it has no extent
func (c Component) ExtentInverter() *ExtentInverter {
	return c.inverter
}

// Match identifies the component that inverted a planar point
type Match struct {
	Index int
	Name  string
	Lon   float64
	Lat   float64
}

// Composite combines several regional projections into one.
// Forward projection dispatches through a Chooser; inversion tries every
// component, the most recently added first.
//
// Queries on a Composite are safe against concurrent SetScale/SetTranslate.
// The projections returned by Components are live and must not be used
// concurrently with them, nor repositioned except through the composite.
type Composite struct {
	components []Component
	chooser    Chooser
	mu         sync.RWMutex
}

// New creates an empty composite
func New() *Composite {
	return &Composite{}
}

// Add appends a component and returns the composite for chaining.
// An extent inverter is built from p as it is currently placed; it is rebuilt
// on every SetScale/SetTranslate.
func (c *Composite) Add(p projection.Projection, params Params) *Composite {
	c.mu.Lock()
	defer c.mu.Unlock()

	if params.Scale == 0 {
		params.Scale = 1
	}

	component := Component{
		Projection: p,
		Params:     params,
	}
	component.rebuildInverter()

	c.components = append(c.components, component)
	return c
}

// rebuildInverter derives the component's inverse from its current placement
func (comp *Component) rebuildInverter() {
	if comp.Params.Extent == nil {
		comp.inverter = nil
		comp.invert = comp.Projection.Invert
		return
	}

	comp.inverter = NewExtentInverter(comp.Projection, *comp.Params.Extent)
	comp.invert = comp.inverter.Invert
}

// Scale returns the global scale, read from the first component.
// It panics if the composite has no components.
func (c *Composite) Scale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.mustHaveComponents("Scale")
	return c.components[0].Projection.Scale()
}

// SetScale sets every component's scale to k times its relative scale, then
// re-applies the current global translate so offsets and inverters follow.
// It panics if the composite has no components.
func (c *Composite) SetScale(k float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mustHaveComponents("SetScale")
	for _, comp := range c.components {
		comp.Projection.SetScale(k * comp.Params.Scale)
	}

	c.setTranslate(c.components[0].Projection.Translate())
	debug.Log("Composite scale set to %g", k)
}

// Translate returns the global translate, read from the first component.
// It panics if the composite has no components.
func (c *Composite) Translate() projection.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.mustHaveComponents("Translate")
	return c.components[0].Projection.Translate()
}

// SetTranslate places every component at t plus its relative offset scaled by the
// global scale, and rebuilds every extent inverter.
// It panics if the composite has no components.
func (c *Composite) SetTranslate(t projection.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mustHaveComponents("SetTranslate")
	c.setTranslate(t)
}

func (c *Composite) setTranslate(t projection.Point) {
	dz := c.components[0].Projection.Scale()

	for i := range c.components {
		comp := &c.components[i]
		offset := comp.Params.Translate
		comp.Projection.SetTranslate(projection.Point{
			X: t.X + offset.X*dz,
			Y: t.Y + offset.Y*dz,
		})
		if comp.Params.Extent != nil {
			comp.rebuildInverter()
		}
	}
}

// Chooser returns the forward-projection chooser
func (c *Composite) Chooser() Chooser {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.chooser
}

// SetChooser sets the forward-projection chooser
func (c *Composite) SetChooser(chooser Chooser) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chooser = chooser
}

// Project forward-projects lon/lat with the projection the chooser selects.
// The result is not validated; it is non-finite wherever the chosen projection's is.
// It panics if no chooser has been set.
func (c *Composite) Project(lon, lat float64) (x, y float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.chooser == nil {
		panic("composite: Project called before SetChooser")
	}
	return c.chooser(lon, lat).Project(lon, lat)
}

// Invert converts planar coordinates to lon/lat using the first component,
// in reverse insertion order, whose inverse accepts the point
func (c *Composite) Invert(x, y float64) (lon, lat float64, ok bool) {
	m, ok := c.Locate(x, y)
	if !ok {
		return 0, 0, false
	}
	return m.Lon, m.Lat, true
}

// Locate is Invert that also reports which component matched
func (c *Composite) Locate(x, y float64) (Match, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Later components are usually the smaller insets, so they win overlaps
	for i := len(c.components) - 1; i >= 0; i-- {
		comp := c.components[i]
		if lon, lat, ok := comp.invert(x, y); ok {
			return Match{Index: i, Name: comp.Params.Name, Lon: lon, Lat: lat}, true
		}
	}
	return Match{Index: -1}, false
}

// Classify returns the index of the component the chooser selects for lon/lat,
// or -1 if there is no chooser or it returned a projection the composite does not own.
// Projections are matched by identity; a projection whose dynamic value is not
// comparable is never matched.
func (c *Composite) Classify(lon, lat float64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.chooser == nil {
		return -1
	}

	chosen := c.chooser(lon, lat)
	for i, comp := range c.components {
		if sameProjection(comp.Projection, chosen) {
			return i
		}
	}
	return -1
}

// Components returns a copy of the component list in insertion order.
// The copies share the composite's projections.
func (c *Composite) Components() []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()

	components := make([]Component, len(c.components))
	copy(components, c.components)
	return components
}

// Len returns the number of components
func (c *Composite) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.components)
}

// sameProjection compares a and b with == only when both dynamic values are comparable
func sameProjection(a, b projection.Projection) bool {
	if a == nil || b == nil {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

func (c *Composite) mustHaveComponents(op string) {
	if len(c.components) == 0 {
		panic("composite: " + op + " called on a composite with no components")
	}
}
