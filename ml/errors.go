package ml

import (
	"fmt"
)

const (
	ArtifactModel  = "model"
	ArtifactScaler = "scaler"

	StageScale   = "scale"
	StagePredict = "predict"
)

// StartupError means an artifact could not be loaded. The service must not
// start when one is returned.
type StartupError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load %s artifact %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// InferenceError means the scaler or model failed on input that passed
// validation.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed at %s: %v", e.Stage, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
