// Package response holds the JSON error bodies returned by the HTTP API.
package response

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Predefined error responses for common scenarios.
var (
	InvalidURLResponse = ErrorResponse{
		Error: "Invalid URL",
	}

	FetchTitleFailedResponse = ErrorResponse{
		Error: "Failed to fetch title",
	}

	ServerErrorResponse = ErrorResponse{
		Error: "Internal Server Error",
	}
)
