package ui

import (
	"encoding/json"
	"net/http"

	"github.com/vlatan/storytime/internal/models"
	"github.com/vlatan/storytime/internal/utils"
	"go.uber.org/zap"
)

// Write JSON to buffer first and then if succesfull to the response writer
func (s *service) WriteJSON(w http.ResponseWriter, r *http.Request, data any) {

	jsonData, err := json.Marshal(data)
	if err != nil {
		s.log.Error("failed to encode JSON response", zap.String("uri", r.RequestURI), zap.Error(err))
		utils.HttpError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		s.log.Warn("failed to write JSON response", zap.String("uri", r.RequestURI), zap.Error(err))
	}
}

// JSONError writes the status text and code as a JSON body
func (s *service) JSONError(w http.ResponseWriter, r *http.Request, statusCode int) {

	data := models.JSONErrorData{
		Error: http.StatusText(statusCode),
		Code:  statusCode,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		s.log.Error("failed to encode JSON error", zap.String("uri", r.RequestURI), zap.Error(err))
		utils.HttpError(w, statusCode)
		return
	}

	// Set content type before writing the status code
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		s.log.Warn("failed to write JSON error", zap.String("uri", r.RequestURI), zap.Error(err))
	}
}
