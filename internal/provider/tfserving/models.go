package tfserving

// PredictRequest for POST /v1/models/{name}:predict, row format. Each
// instance is one HWC image.
type PredictRequest struct {
	SignatureName string          `json:"signature_name,omitempty"`
	Instances     [][][][]float32 `json:"instances"`
}

// PredictResponse carries one score vector per instance
type PredictResponse struct {
	Predictions [][]float32 `json:"predictions"`
}

// ErrorResponse is the body TF Serving returns with non-2xx statuses
type ErrorResponse struct {
	Error string `json:"error"`
}
