/*
Package response - unified API response handling.

HTTP status mapping lives here and in the error code taxonomy; it never
leaks into the application or domain layers. Internal errors are logged in
full but returned to clients as an opaque message. Every response carries
the request id for log correlation.
*/
package response

// RequestIDKey context key for request id propagation
const RequestIDKey = "request_id"

// Response generic response envelope
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"` // error code, not details
	Code      int         `json:"code"`            // HTTP status code
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}
