package ml

import (
	"fmt"
)

// Predictor runs one feature vector through the scaler and the model.
type Predictor struct {
	model  Model
	scaler Scaler
}

func NewPredictor(model Model, scaler Scaler) *Predictor {
	return &Predictor{model: model, scaler: scaler}
}

func NewPredictorFromArtifacts(artifacts *Artifacts) *Predictor {
	return NewPredictor(artifacts.Model, artifacts.Scaler)
}

// Predict returns the model's raw class label. Scaler or model failures,
// including panics, are returned as *InferenceError.
func (p *Predictor) Predict(features FeatureVector) (int, error) {
	scaled, err := p.transform(features.Record())
	if err != nil {
		return 0, &InferenceError{Stage: StageScale, Err: err}
	}
	label, err := p.predict(scaled)
	if err != nil {
		return 0, &InferenceError{Stage: StagePredict, Err: err}
	}
	return label, nil
}

func (p *Predictor) transform(record Record) (scaled Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scaler panic: %v", r)
		}
	}()
	return p.scaler.Transform(record)
}

func (p *Predictor) predict(record Record) (label int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panic: %v", r)
		}
	}()
	return p.model.Predict(record)
}

func (p *Predictor) ModelKind() string {
	return p.model.Kind()
}

func (p *Predictor) ScalerKind() string {
	return p.scaler.Kind()
}
