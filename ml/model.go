package ml

// Model is a fitted classifier. Implementations are immutable after load and
// safe for concurrent use.
type Model interface {
	Kind() string
	Predict(record Record) (int, error)
}

// Scaler is a fitted feature transform. Implementations are immutable after
// load and safe for concurrent use.
type Scaler interface {
	Kind() string
	Transform(record Record) (Record, error)
}
