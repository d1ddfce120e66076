package ml

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

type artifactHeader struct {
	Kind string `json:"kind"`
}

func readArtifact(path string) ([]byte, string, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var header artifactHeader
	if err := json.Unmarshal(payload, &header); err != nil {
		return nil, "", errors.Wrap(err, "decode artifact")
	}
	if header.Kind == "" {
		return nil, "", errors.New("artifact has no kind")
	}
	return payload, header.Kind, nil
}

// LoadModel reads a fitted classifier from path. The artifact's kind field
// selects the implementation.
func LoadModel(path string) (Model, error) {
	payload, kind, err := readArtifact(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindLogisticRegression, KindLinearSVC:
		model := &LinearClassifier{kind: kind}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if err := model.check(); err != nil {
			return nil, errors.Wrapf(err, "invalid %s", kind)
		}
		return model, nil
	case KindDecisionTree:
		model := &DecisionTree{}
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if err := model.check(); err != nil {
			return nil, errors.Wrapf(err, "invalid %s", kind)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model kind %q", kind)
	}
}

// LoadScaler reads a fitted feature scaler from path.
func LoadScaler(path string) (Scaler, error) {
	payload, kind, err := readArtifact(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindStandardScaler:
		scaler := &StandardScaler{}
		if err := json.Unmarshal(payload, scaler); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if err := scaler.check(); err != nil {
			return nil, errors.Wrapf(err, "invalid %s", kind)
		}
		return scaler, nil
	case KindMinMaxScaler:
		scaler := &MinMaxScaler{}
		if err := json.Unmarshal(payload, scaler); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if err := scaler.check(); err != nil {
			return nil, errors.Wrapf(err, "invalid %s", kind)
		}
		return scaler, nil
	case KindIdentity:
		scaler := &IdentityScaler{}
		if err := json.Unmarshal(payload, scaler); err != nil {
			return nil, errors.Wrapf(err, "decode %s", kind)
		}
		if len(scaler.FeatureNames) > 0 {
			if err := checkFittedNames(scaler.FeatureNames, len(scaler.FeatureNames)); err != nil {
				return nil, errors.Wrapf(err, "invalid %s", kind)
			}
		}
		return scaler, nil
	default:
		return nil, fmt.Errorf("unsupported scaler kind %q", kind)
	}
}
