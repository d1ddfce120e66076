package ml

// Artifacts is the immutable pair of fitted objects the service predicts
// with. It is built once at startup and shared read-only by every request.
type Artifacts struct {
	Model  Model
	Scaler Scaler
}

// LoadArtifacts loads the model and scaler. Either failure is returned as a
// *StartupError; there is no partial result.
func LoadArtifacts(modelPath, scalerPath string) (*Artifacts, error) {
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, &StartupError{Artifact: ArtifactModel, Path: modelPath, Err: err}
	}
	scaler, err := LoadScaler(scalerPath)
	if err != nil {
		return nil, &StartupError{Artifact: ArtifactScaler, Path: scalerPath, Err: err}
	}
	return &Artifacts{Model: model, Scaler: scaler}, nil
}
