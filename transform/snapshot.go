package transform

import (
	"strings"

	"exifimage/types"
)

// Snapshot is the read-only rule set of one user, taken once per pipeline run
type Snapshot struct {
	Rules    []types.TransformationRule
	Defaults []types.DefaultValue
	Setups   []types.TransformationSetup
}

// SetupFor returns the setup matching the camera case-insensitively,
// or types.ErrNoSetup.
func (s *Snapshot) SetupFor(cameraMake, cameraModel string) (*types.TransformationSetup, error) {
	cameraMake = strings.ToLower(strings.TrimSpace(cameraMake))
	cameraModel = strings.ToLower(strings.TrimSpace(cameraModel))
	if s == nil || cameraMake == "" || cameraModel == "" {
		return nil, types.ErrNoSetup
	}

	for i := range s.Setups {
		setup := &s.Setups[i]
		if strings.ToLower(setup.CameraMake) == cameraMake && strings.ToLower(setup.CameraModel) == cameraModel {
			return setup, nil
		}
	}
	return nil, types.ErrNoSetup
}
