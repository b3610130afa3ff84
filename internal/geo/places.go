package geo

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// PlacesLoader loads labelled marker points from a CSV file with
// name, longitude and latitude columns (header names are case-insensitive)
type PlacesLoader struct {
	csvPath string
}

// NewPlacesLoader creates a new places loader
func NewPlacesLoader(csvPath string) *PlacesLoader {
	return &PlacesLoader{
		csvPath: csvPath,
	}
}

// LoadPlaces reads every row of the CSV file as a place feature.
// Rows with unparseable coordinates are skipped.
func (p *PlacesLoader) LoadPlaces() ([]*Feature, error) {
	file, err := os.Open(p.csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open places CSV: %w", err)
	}
	defer file.Close()

	return ReadPlaces(file)
}

// ReadPlaces parses place features from CSV data
func ReadPlaces(r io.Reader) ([]*Feature, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndices := make(map[string]int)
	for i, col := range header {
		colIndices[strings.ToLower(strings.TrimSpace(col))] = i
	}

	required := []string{"name", "longitude", "latitude"}
	for _, col := range required {
		if _, ok := colIndices[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var places []*Feature

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		lon, err := strconv.ParseFloat(strings.TrimSpace(record[colIndices["longitude"]]), 64)
		if err != nil {
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[colIndices["latitude"]]), 64)
		if err != nil {
			continue
		}

		name := strings.TrimSpace(record[colIndices["name"]])
		places = append(places, NewPointFeature(FeaturePlace, LatLon{Lat: lat, Lon: lon}, name))
	}

	return places, nil
}
