package handler

// successResponse is the envelope for every successful call that carries a
// message and a payload.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

func ok(message string, data any) successResponse {
	if data == nil {
		data = struct{}{}
	}
	return successResponse{Success: true, Message: message, Data: data}
}
