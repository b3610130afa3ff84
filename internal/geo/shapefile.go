package geo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
)

// ShapefileLoader loads and parses ESRI shapefiles
type ShapefileLoader struct {
	dataDir   string
	countries map[string]bool
}

// NewShapefileLoader creates a new shapefile loader.
// countries restricts loaded records to those whose ADM0_A3 attribute matches (e.g. "USA");
// an empty list loads everything.
func NewShapefileLoader(dataDir string, countries ...string) *ShapefileLoader {
	s := &ShapefileLoader{
		dataDir:   dataDir,
		countries: make(map[string]bool),
	}
	for _, c := range countries {
		s.countries[strings.ToUpper(c)] = true
	}
	return s
}

// LoadAll loads all available shapefiles and returns them organized by feature type.
// Missing files are skipped with a warning - the map still draws inset frames without them.
func (s *ShapefileLoader) LoadAll() (map[FeatureType][]*Feature, error) {
	features := make(map[FeatureType][]*Feature)

	states, err := s.LoadShapefile(filepath.Join(s.dataDir, "ne_50m_admin_1_states_provinces_lakes.shp"), FeatureStateBorder)
	if err != nil {
		fmt.Printf("Warning: failed to load states: %v\n", err)
		features[FeatureStateBorder] = []*Feature{}
	} else {
		features[FeatureStateBorder] = states
	}

	lakes, err := s.LoadShapefile(filepath.Join(s.dataDir, "ne_50m_lakes.shp"), FeatureLake)
	if err != nil {
		fmt.Printf("Warning: failed to load lakes: %v\n", err)
		features[FeatureLake] = []*Feature{}
	} else {
		features[FeatureLake] = lakes
	}

	cities, err := s.LoadCities(filepath.Join(s.dataDir, "ne_50m_populated_places.shp"))
	if err != nil {
		fmt.Printf("Warning: failed to load cities: %v\n", err)
		features[FeatureCity] = []*Feature{}
	} else {
		features[FeatureCity] = cities
	}

	fmt.Printf("Loaded features: %d states, %d lakes, %d cities\n",
		len(features[FeatureStateBorder]),
		len(features[FeatureLake]),
		len(features[FeatureCity]))
	return features, nil
}

// LoadShapefile loads a shapefile and converts it to Feature objects.
// Multi-part polylines and polygons produce one feature per part.
func (s *ShapefileLoader) LoadShapefile(path string, ftype FeatureType) ([]*Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer shape.Close()

	countryIdx := s.countryField(shape.Fields())
	features := make([]*Feature, 0)

	for shape.Next() {
		n, p := shape.Shape()

		if !s.acceptCountry(shape, n, countryIdx) {
			continue
		}

		switch geom := p.(type) {
		case *shp.PolyLine:
			for _, part := range splitParts(geom.Parts, geom.Points) {
				features = append(features, NewLineFeature(ftype, part))
			}

		case *shp.Polygon:
			// Only the outline of each ring is kept
			for _, part := range splitParts(geom.Parts, geom.Points) {
				features = append(features, NewLineFeature(ftype, part))
			}

		case *shp.Point:
			features = append(features, NewPointFeature(ftype, LatLon{Lat: geom.Y, Lon: geom.X}, ""))
		}
	}

	return features, nil
}

// LoadCities loads city/populated place features with names
func (s *ShapefileLoader) LoadCities(path string) ([]*Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer shape.Close()

	fields := shape.Fields()
	countryIdx := s.countryField(fields)

	nameIdx := -1
	for i, field := range fields {
		fieldName := fieldName(field)
		if fieldName == "NAME" || fieldName == "NAMEASCII" || fieldName == "NAME_EN" {
			nameIdx = i
			break
		}
	}

	features := make([]*Feature, 0)

	for shape.Next() {
		n, p := shape.Shape()

		point, ok := p.(*shp.Point)
		if !ok {
			continue
		}

		if !s.acceptCountry(shape, n, countryIdx) {
			continue
		}

		name := ""
		if nameIdx >= 0 {
			name = strings.TrimSpace(shape.ReadAttribute(n, nameIdx))
		}

		features = append(features, NewPointFeature(FeatureCity, LatLon{Lat: point.Y, Lon: point.X}, name))
	}

	return features, nil
}

// countryField returns the index of the ADM0_A3 attribute, or -1 when filtering is off or the field is missing
func (s *ShapefileLoader) countryField(fields []shp.Field) int {
	if len(s.countries) == 0 {
		return -1
	}
	for i, field := range fields {
		if strings.EqualFold(fieldName(field), "ADM0_A3") {
			return i
		}
	}
	return -1
}

func (s *ShapefileLoader) acceptCountry(shape *shp.Reader, n, countryIdx int) bool {
	if countryIdx < 0 {
		return true
	}
	code := strings.ToUpper(strings.TrimSpace(shape.ReadAttribute(n, countryIdx)))
	return s.countries[code]
}

// fieldName converts a shapefile field name from its fixed byte array, trimming nulls and spaces
func fieldName(field shp.Field) string {
	return strings.TrimRight(string(field.Name[:]), "\x00 ")
}

// splitParts cuts a shapefile point array into its parts, dropping parts with fewer than two points
func splitParts(parts []int32, points []shp.Point) [][]LatLon {
	result := make([][]LatLon, 0, len(parts))

	for i := range parts {
		start := int(parts[i])
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		if start < 0 || end > len(points) || end-start < 2 {
			continue
		}

		line := make([]LatLon, 0, end-start)
		for _, point := range points[start:end] {
			line = append(line, LatLon{Lat: point.Y, Lon: point.X})
		}
		result = append(result, line)
	}

	return result
}
