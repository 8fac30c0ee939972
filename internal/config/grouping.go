// Package config loads and validates the grouping pipeline's tunable
// parameters from JSON files with safe defaults for anything omitted.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lumen-data/multiphase/internal/grouping"
)

// DefaultConfigPath is the path to the canonical grouping defaults file.
// This is the single source of truth for all default grouping values.
const DefaultConfigPath = "config/grouping.defaults.json"

// GroupingConfig represents the root configuration for the aperture
// grouping pipeline. All fields are pointers so partial configs can be
// merged over the defaults: a nil field means "use the default".
type GroupingConfig struct {
	// Clustering params
	RMSEThreshold        *float64 `json:"rmse_threshold,omitempty"`
	RoomBased            *bool    `json:"room_based,omitempty"`
	OrientationTolerance *float64 `json:"orientation_tolerance,omitempty"`
	VerticalTolerance    *float64 `json:"vertical_tolerance,omitempty"` // 0 disables height sub-grouping

	// Sensor grid params
	GridSize *float64 `json:"grid_size,omitempty"`

	// View-factor simulation params
	AmbientDivisions *int `json:"ambient_divisions,omitempty"`

	// Output params
	StaticName *string `json:"static_name,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyGroupingConfig returns a GroupingConfig with all fields set to nil.
// Use LoadGroupingConfig to load actual values from the defaults file.
func EmptyGroupingConfig() *GroupingConfig {
	return &GroupingConfig{}
}

// DefaultGroupingConfig returns a GroupingConfig with every field set to
// its default value.
func DefaultGroupingConfig() *GroupingConfig {
	return &GroupingConfig{
		RMSEThreshold:        ptrFloat64(grouping.DefaultThreshold),
		RoomBased:            ptrBool(true),
		OrientationTolerance: ptrFloat64(grouping.DefaultOrientationTolerance),
		VerticalTolerance:    ptrFloat64(0),
		GridSize:             ptrFloat64(0.2),
		AmbientDivisions:     ptrInt(1000),
		StaticName:           ptrString(grouping.StaticName),
	}
}

// LoadGroupingConfig loads a GroupingConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under
// the max file size. Fields omitted from the JSON file fall back to the
// defaults through the Get* accessors, so partial configs are safe.
func LoadGroupingConfig(path string) (*GroupingConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyGroupingConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical grouping defaults from
// DefaultConfigPath. It searches for the file in the current directory
// and common parent directories. Panics if the file cannot be loaded,
// intended for test setup.
func MustLoadDefaultConfig() *GroupingConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadGroupingConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *GroupingConfig) Validate() error {
	if c.RMSEThreshold != nil {
		if *c.RMSEThreshold <= 0 {
			return fmt.Errorf("rmse_threshold must be positive, got %f", *c.RMSEThreshold)
		}
	}

	if c.OrientationTolerance != nil {
		if *c.OrientationTolerance < 0 {
			return fmt.Errorf("orientation_tolerance must be non-negative, got %f", *c.OrientationTolerance)
		}
	}

	if c.VerticalTolerance != nil {
		if *c.VerticalTolerance < 0 {
			return fmt.Errorf("vertical_tolerance must be non-negative, got %f", *c.VerticalTolerance)
		}
	}

	if c.GridSize != nil {
		if *c.GridSize <= 0 {
			return fmt.Errorf("grid_size must be positive, got %f", *c.GridSize)
		}
	}

	if c.AmbientDivisions != nil {
		if *c.AmbientDivisions < 1 {
			return fmt.Errorf("ambient_divisions must be at least 1, got %d", *c.AmbientDivisions)
		}
	}

	if c.StaticName != nil {
		if *c.StaticName == "" {
			return fmt.Errorf("static_name must not be empty")
		}
	}

	return nil
}

// GetRMSEThreshold returns the rmse_threshold value or the default.
func (c *GroupingConfig) GetRMSEThreshold() float64 {
	if c.RMSEThreshold == nil {
		return grouping.DefaultThreshold
	}
	return *c.RMSEThreshold
}

// GetRoomBased returns the room_based value or the default.
func (c *GroupingConfig) GetRoomBased() bool {
	if c.RoomBased == nil {
		return true // default: cluster per room
	}
	return *c.RoomBased
}

// GetOrientationTolerance returns the orientation_tolerance value or the default.
func (c *GroupingConfig) GetOrientationTolerance() float64 {
	if c.OrientationTolerance == nil {
		return grouping.DefaultOrientationTolerance
	}
	return *c.OrientationTolerance
}

// GetVerticalTolerance returns the vertical_tolerance value or the default.
func (c *GroupingConfig) GetVerticalTolerance() float64 {
	if c.VerticalTolerance == nil {
		return 0 // default: height sub-grouping disabled
	}
	return *c.VerticalTolerance
}

// GetGridSize returns the grid_size value or the default.
func (c *GroupingConfig) GetGridSize() float64 {
	if c.GridSize == nil {
		return 0.2 // default sensor spacing in model units
	}
	return *c.GridSize
}

// GetAmbientDivisions returns the ambient_divisions value or the default.
func (c *GroupingConfig) GetAmbientDivisions() int {
	if c.AmbientDivisions == nil {
		return 1000
	}
	return *c.AmbientDivisions
}

// GetStaticName returns the static_name value or the default.
func (c *GroupingConfig) GetStaticName() string {
	if c.StaticName == nil || *c.StaticName == "" {
		return grouping.StaticName
	}
	return *c.StaticName
}

// GroupingOptions converts the config into the options struct the
// grouping package consumes.
func (c *GroupingConfig) GroupingOptions() grouping.Options {
	return grouping.Options{
		Threshold:            c.GetRMSEThreshold(),
		RoomBased:            c.GetRoomBased(),
		OrientationTolerance: c.GetOrientationTolerance(),
		VerticalTolerance:    c.GetVerticalTolerance(),
	}
}
