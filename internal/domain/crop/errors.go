package crop

// Error codes carried by pkg/errors.AppError values produced in this domain.
const (
	CodeInvalidInput  = "invalid_input"
	CodeRequestFailed = "request_failed"
	CodeTransport     = "transport_error"
	CodeDecoding      = "decoding_error"
)

// IsUpstreamCode reports whether code belongs to the prediction call itself.
func IsUpstreamCode(code string) bool {
	switch code {
	case CodeRequestFailed, CodeTransport, CodeDecoding:
		return true
	default:
		return false
	}
}
