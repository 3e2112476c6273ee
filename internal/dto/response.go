package dto

import "time"

// BasicResponse is the envelope for errors and bare acknowledgements.
type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}
