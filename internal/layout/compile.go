package layout

import (
	"fmt"

	"asciiusa/internal/composite"
	"asciiusa/internal/geo"
	"asciiusa/internal/projection"
)

// Validate checks the semantic constraints the schema cannot express:
// unique component names, valid extents and chooser references
func (d *Document) Validate() error {
	if len(d.Components) == 0 {
		return fmt.Errorf("%w: no components", ErrInvalidLayout)
	}
	if !(d.Scale > 0) {
		return fmt.Errorf("%w: scale %g is not positive", ErrInvalidLayout, d.Scale)
	}

	names := make(map[string]bool, len(d.Components))
	for _, c := range d.Components {
		if c.Name == "" {
			return fmt.Errorf("%w: component without a name", ErrInvalidLayout)
		}
		if names[c.Name] {
			return fmt.Errorf("%w: duplicate component %q", ErrInvalidLayout, c.Name)
		}
		names[c.Name] = true

		if len(c.Rotate) > 3 {
			return fmt.Errorf("%w: component %q: rotate has %d angles", ErrInvalidLayout, c.Name, len(c.Rotate))
		}
		if c.Extent != nil {
			if err := extentOf(*c.Extent).Validate(); err != nil {
				return fmt.Errorf("%w: component %q: %v", ErrInvalidLayout, c.Name, err)
			}
		}
	}

	if !names[d.Chooser.Default] {
		return fmt.Errorf("%w: chooser default %q", ErrUnknownComponent, d.Chooser.Default)
	}
	for i, rule := range d.Chooser.Rules {
		if !names[rule.Component] {
			return fmt.Errorf("%w: chooser rule %d references %q", ErrUnknownComponent, i, rule.Component)
		}
	}

	return nil
}

// Compile builds the composite projection described by the document and applies
// its global scale and, if present, translate
func (d *Document) Compile() (*composite.Composite, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	c := composite.New()
	byName := make(map[string]projection.Projection, len(d.Components))

	for _, comp := range d.Components {
		var rotate [3]float64
		copy(rotate[:], comp.Rotate)

		p := projection.NewConicEqualArea(projection.ConicOptions{
			Rotate:    rotate,
			Center:    comp.Center,
			Parallels: comp.Parallels,
		})
		byName[comp.Name] = p

		params := composite.Params{
			Name:      comp.Name,
			Scale:     comp.Scale,
			Translate: projection.Point{X: comp.Translate[0], Y: comp.Translate[1]},
		}
		if comp.Extent != nil {
			extent := extentOf(*comp.Extent)
			params.Extent = &extent
		}

		c.Add(p, params)
	}

	type compiledRule struct {
		rule       Rule
		projection projection.Projection
	}
	rules := make([]compiledRule, 0, len(d.Chooser.Rules))
	for _, rule := range d.Chooser.Rules {
		rules = append(rules, compiledRule{rule: rule, projection: byName[rule.Component]})
	}
	fallback := byName[d.Chooser.Default]

	c.SetChooser(func(lon, lat float64) projection.Projection {
		for _, r := range rules {
			if r.rule.Matches(lon, lat) {
				return r.projection
			}
		}
		return fallback
	})

	c.SetScale(d.Scale)
	if d.Translate != nil {
		c.SetTranslate(projection.Point{X: d.Translate[0], Y: d.Translate[1]})
	}

	return c, nil
}

func extentOf(e [2][2]float64) geo.Extent {
	return geo.NewExtent(e[0][0], e[0][1], e[1][0], e[1][1])
}
