package billing

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate holds the monetary figures for one vehicle type, in whole rupees.
type Rate struct {
	Base           int64 `yaml:"base"`
	Driver         int64 `yaml:"driver"`
	ReworkDriver   int64 `yaml:"rework_driver"`
	PerDestination int64 `yaml:"per_destination"`
}

// RateTable maps an upper-cased vehicle type to its rates.
type RateTable map[string]Rate

type rateFile struct {
	VehicleTypes map[string]Rate `yaml:"vehicle_types"`
}

// DefaultRates is used when no rates file is configured.
func DefaultRates() RateTable {
	return RateTable{
		"PICKUP": {Base: 4250, Driver: 900, ReworkDriver: 700, PerDestination: 500},
		"TEMPO":  {Base: 7420, Driver: 1500, ReworkDriver: 1200, PerDestination: 800},
		"TRUCK":  {Base: 12484, Driver: 2500, ReworkDriver: 2000, PerDestination: 1500},
		"TAURUS": {Base: 18960, Driver: 3400, ReworkDriver: 2800, PerDestination: 2000},
	}
}

// LoadRates reads a YAML rate table. An empty path yields DefaultRates.
func LoadRates(path string) (RateTable, error) {
	if path == "" {
		return DefaultRates(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	var rf rateFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("parse rates file: %w", err)
	}
	if len(rf.VehicleTypes) == 0 {
		return nil, fmt.Errorf("rates file %s defines no vehicle types", path)
	}
	table := make(RateTable, len(rf.VehicleTypes))
	for name, r := range rf.VehicleTypes {
		table[normalizeVehicleType(name)] = r
	}
	return table, nil
}

// VehicleTypes returns the known vehicle types in a stable order.
func (t RateTable) VehicleTypes() []string {
	out := make([]string, 0, len(t))
	for name := range t {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// lowestTier returns the vehicle type with the smallest base amount.
func (t RateTable) lowestTier() string {
	lowest := ""
	for _, name := range t.VehicleTypes() {
		if lowest == "" || t[name].Base < t[lowest].Base {
			lowest = name
		}
	}
	return lowest
}

func normalizeVehicleType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
