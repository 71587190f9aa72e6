/*
Package models defines the JSON payloads of the polynomial multiplication API.

Coefficients travel as decimal strings, lowest degree first, so that every
ring (including 256-bit ones) round-trips without loss.
*/
package models

// MultiplyRequest is the body of POST /multiply.
type MultiplyRequest struct {
	// Ring names the coefficient ring, e.g. "int64" or "bn254".
	Ring string `json:"ring"`
	// Modulus is q for the "zmod" ring. Zero uses the server default.
	Modulus uint64 `json:"modulus,omitempty"`
	// Algorithm is a registered multiplier name. Empty selects "karatsuba".
	Algorithm string `json:"algorithm,omitempty"`
	// Threshold is the Karatsuba base case. Zero uses the server default.
	Threshold int `json:"threshold,omitempty"`
	// A and B are the operand coefficients.
	A []string `json:"a"`
	B []string `json:"b"`
}

// MultiplyResponse is the result of POST /multiply.
type MultiplyResponse struct {
	Ring      string `json:"ring"`
	Algorithm string `json:"algorithm"`
	Threshold int    `json:"threshold"`
	// ParallelThreshold is the operand length from which the multiplier
	// forks, zero when it runs sequentially.
	ParallelThreshold int `json:"parallel_threshold,omitempty"`
	// Coefficients of a·b, lowest degree first, trailing zeros trimmed.
	Coefficients []string `json:"coefficients"`
	// Rendered is the product as a sum of monomials, highest degree first.
	Rendered string `json:"rendered"`
	// Degree is the index of the highest non-zero coefficient, -1 for zero.
	Degree   int    `json:"degree"`
	Duration string `json:"duration"`
}

// RingsResponse lists the rings accepted by the API.
type RingsResponse struct {
	Rings []string `json:"rings"`
}

// AlgorithmsResponse lists the registered multipliers.
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse represents the standardized JSON response for an API error.
type ErrorResponse struct {
	// Error is the short error code or status text.
	Error string `json:"error"`
	// Message is a descriptive error message.
	Message string `json:"message,omitempty"`
}
