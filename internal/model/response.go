package model

// APIResponse is the success envelope.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIErrorResponse is the failure envelope. Data is always null.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Error      []string `json:"error"`
	Data       any      `json:"data"`
}

func NewErrorResponse(status int, message string, details ...string) APIErrorResponse {
	errs := make([]string, 0, len(details))
	for _, d := range details {
		if d != "" {
			errs = append(errs, d)
		}
	}
	return APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Error:      errs,
		Data:       nil,
	}
}
