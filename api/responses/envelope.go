package responses

// RequestIDHeader carries the per-request id; error bodies echo it so a
// customer report can be matched to the logs.
const RequestIDHeader = "X-Request-Id"

// SuccessEnvelope wraps every successful storefront response.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the error body. Retryable tells the checkout page it may offer
// the same submission again.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
