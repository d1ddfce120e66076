package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"placementapi/ml"
)

// Decode-level problems reported alongside range checks.
const (
	tagRequired     = "required"
	tagIntType      = "int_type"
	tagIntFromFloat = "int_from_float"
	tagIntParsing   = "int_parsing"
	tagFloatType    = "float_type"
	tagFloatParsing = "float_parsing"
	tagFiniteNumber = "finite_number"
)

// PredictRequest is the /predict body. Numbers are accepted as JSON numbers
// or numeric strings; iq also accepts whole-valued floats such as 110.0.
// Pointers distinguish a missing field from an explicit zero.
type PredictRequest struct {
	CGPA *float64 `json:"cgpa"`
	IQ   *int     `json:"iq"`

	issues map[string]inputIssue
}

type inputIssue struct {
	tag   string
	input interface{}
}

func (r PredictRequest) Features() ml.FeatureVector {
	return ml.FeatureVector{CGPA: *r.CGPA, IQ: *r.IQ}
}

func (r *PredictRequest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return &json.UnmarshalTypeError{Value: "null", Type: reflect.TypeOf(*r)}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = PredictRequest{}
	if raw, ok := fields[ml.FeatureCGPA]; ok {
		value, issue := decodeFloat(raw)
		if issue != nil {
			r.addIssue(ml.FeatureCGPA, *issue)
		} else {
			r.CGPA = &value
		}
	}
	if raw, ok := fields[ml.FeatureIQ]; ok {
		value, issue := decodeInt(raw)
		if issue != nil {
			r.addIssue(ml.FeatureIQ, *issue)
		} else {
			r.IQ = &value
		}
	}
	return nil
}

func (r *PredictRequest) addIssue(field string, issue inputIssue) {
	if r.issues == nil {
		r.issues = make(map[string]inputIssue)
	}
	r.issues[field] = issue
}

func decodeScalar(raw json.RawMessage) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	err := decoder.Decode(&value)
	return value, err
}

func decodeFloat(raw json.RawMessage) (float64, *inputIssue) {
	input, err := decodeScalar(raw)
	if err != nil {
		return 0, &inputIssue{tag: tagFloatType}
	}

	var value float64
	switch v := input.(type) {
	case json.Number:
		value, err = v.Float64()
		if err != nil {
			return 0, &inputIssue{tag: tagFiniteNumber, input: v}
		}
	case string:
		value, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &inputIssue{tag: tagFloatParsing, input: v}
		}
	default:
		return 0, &inputIssue{tag: tagFloatType, input: v}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &inputIssue{tag: tagFiniteNumber, input: input}
	}
	return value, nil
}

func decodeInt(raw json.RawMessage) (int, *inputIssue) {
	input, err := decodeScalar(raw)
	if err != nil {
		return 0, &inputIssue{tag: tagIntType}
	}

	switch v := input.(type) {
	case json.Number:
		if n, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return int(n), nil
		}
		f, err := v.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) >= 1<<53 {
			return 0, &inputIssue{tag: tagIntParsing, input: v}
		}
		if f != math.Trunc(f) {
			return 0, &inputIssue{tag: tagIntFromFloat, input: v}
		}
		return int(f), nil
	case string:
		s := strings.TrimSpace(v)
		// "110.0" and "110.00" carry no fractional part.
		if dot := strings.IndexByte(s, '.'); dot > 0 && strings.Trim(s[dot+1:], "0") == "" {
			s = s[:dot]
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, &inputIssue{tag: tagIntParsing, input: v}
		}
		return int(n), nil
	default:
		return 0, &inputIssue{tag: tagIntType, input: v}
	}
}

var registerOnce sync.Once

// registerValidations installs the request checks on gin's validator.
func registerValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterStructValidation(validatePredictRequest, PredictRequest{})
		}
	})
}

func validatePredictRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(PredictRequest)

	switch issue, ok := req.issues[ml.FeatureCGPA]; {
	case ok:
		sl.ReportError(issue.input, ml.FeatureCGPA, "CGPA", issue.tag, "")
	case req.CGPA == nil:
		sl.ReportError(nil, ml.FeatureCGPA, "CGPA", tagRequired, "")
	case *req.CGPA < ml.MinCGPA:
		sl.ReportError(*req.CGPA, ml.FeatureCGPA, "CGPA", "gte", strconv.FormatFloat(ml.MinCGPA, 'f', -1, 64))
	case *req.CGPA > ml.MaxCGPA:
		sl.ReportError(*req.CGPA, ml.FeatureCGPA, "CGPA", "lte", strconv.FormatFloat(ml.MaxCGPA, 'f', -1, 64))
	}

	switch issue, ok := req.issues[ml.FeatureIQ]; {
	case ok:
		sl.ReportError(issue.input, ml.FeatureIQ, "IQ", issue.tag, "")
	case req.IQ == nil:
		sl.ReportError(nil, ml.FeatureIQ, "IQ", tagRequired, "")
	case *req.IQ < ml.MinIQ:
		sl.ReportError(*req.IQ, ml.FeatureIQ, "IQ", "gte", strconv.Itoa(ml.MinIQ))
	}
}

// FieldError describes one rejected input location.
type FieldError struct {
	Loc   []string    `json:"loc"`
	Msg   string      `json:"msg"`
	Type  string      `json:"type"`
	Input interface{} `json:"input,omitempty"`
}

type ValidationErrorResponse struct {
	Detail []FieldError `json:"detail"`
}

// validationDetails converts a binding error into field errors. Every
// failing field is reported.
func validationDetails(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, fieldError(fe))
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []FieldError{{
			Loc:  []string{"body"},
			Msg:  "Input should be a valid dictionary or object to extract fields from",
			Type: "model_attributes_type",
		}}
	}

	if errors.Is(err, io.EOF) {
		return []FieldError{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}}
	}

	return []FieldError{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
}

func fieldError(fe validator.FieldError) FieldError {
	detail := FieldError{Loc: []string{"body", fe.Field()}, Type: fe.Tag(), Input: fe.Value()}
	switch fe.Tag() {
	case tagRequired:
		detail.Type = "missing"
		detail.Msg = "Field required"
	case "gte":
		detail.Type = "greater_than_equal"
		detail.Msg = fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
	case "lte":
		detail.Type = "less_than_equal"
		detail.Msg = fmt.Sprintf("Input should be less than or equal to %s", fe.Param())
	case tagIntType:
		detail.Msg = "Input should be a valid integer"
	case tagIntFromFloat:
		detail.Msg = "Input should be a valid integer, got a number with a fractional part"
	case tagIntParsing:
		detail.Msg = "Input should be a valid integer, unable to parse string as an integer"
	case tagFloatType:
		detail.Msg = "Input should be a valid number"
	case tagFloatParsing:
		detail.Msg = "Input should be a valid number, unable to parse string as a number"
	case tagFiniteNumber:
		detail.Msg = "Input should be a finite number"
	default:
		detail.Msg = fmt.Sprintf("Input failed %s validation", fe.Tag())
	}
	return detail
}
