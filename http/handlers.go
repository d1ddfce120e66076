package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"placementapi/db"
	"placementapi/ml"
)

// Predictor classifies one validated feature vector.
type Predictor interface {
	Predict(features ml.FeatureVector) (int, error)
	ModelKind() string
}

// PredictionRecorder persists served predictions. It is optional.
type PredictionRecorder interface {
	SavePrediction(p db.Prediction) error
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type PredictResponse struct {
	Prediction int `json:"prediction"`
}

type Handlers struct {
	predictor Predictor
	history   PredictionRecorder
	metrics   *Metrics
	log       *zap.Logger
}

func NewHandlers(predictor Predictor, history PredictionRecorder, metrics *Metrics, log *zap.Logger) *Handlers {
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = zap.NewNop()
	}
	registerValidations()
	return &Handlers{
		predictor: predictor,
		history:   history,
		metrics:   metrics,
		log:       log,
	}
}

func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.POST("/predict", h.Predict)
}

func (h *Handlers) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (h *Handlers) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.observeFailure(FailureValidation)
		c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Detail: validationDetails(err)})
		return
	}
	features := req.Features()

	start := time.Now()
	label, err := h.predictor.Predict(features)
	if err != nil {
		h.metrics.observeFailure(FailureInference)
		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.Float64("cgpa", features.CGPA),
			zap.Int("iq", features.IQ),
			zap.Error(err),
		}
		var inferenceErr *ml.InferenceError
		if errors.As(err, &inferenceErr) {
			fields = append(fields, zap.String("stage", inferenceErr.Stage))
		}
		h.log.Error("prediction failed", fields...)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: http.StatusText(http.StatusInternalServerError)})
		return
	}
	h.metrics.observePrediction(label, time.Since(start))

	if h.history != nil {
		record := db.Prediction{
			RequestID:  GetRequestID(c),
			CGPA:       features.CGPA,
			IQ:         features.IQ,
			Prediction: label,
			ModelKind:  h.predictor.ModelKind(),
			CreatedAt:  time.Now().UTC(),
		}
		if err := h.history.SavePrediction(record); err != nil {
			h.log.Warn("save prediction history failed", zap.String("request_id", record.RequestID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, PredictResponse{Prediction: label})
}
