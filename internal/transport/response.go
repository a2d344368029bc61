package transport

import (
	"net/http"

	"freshcart/internal/middleware"
)

// DataResponse is the success envelope shared by every endpoint
type DataResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondData(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	middleware.RespondWithJSON(w, statusCode, DataResponse{
		Message: message,
		Data:    data,
	})
}
