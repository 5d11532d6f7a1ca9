package api

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/status-im/market-game/apperrors"
	"github.com/status-im/market-game/logger"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request
type errorResponse struct {
	Code    apperrors.Kind   `json:"code"`
	Reason  apperrors.Reason `json:"reason,omitempty"`
	Message string           `json:"message"`
}

// sendJSONResponse is a common wrapper for JSON responses that sets Content-Type,
// Content-Length and ETag headers
func (s *Server) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	s.sendJSONStatus(w, http.StatusOK, data)
}

func (s *Server) sendJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	responseBytes, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Error encoding response", http.StatusInternalServerError)
		return
	}

	hash := md5.Sum(responseBytes)
	etag := hex.EncodeToString(hash[:])

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(responseBytes)))
	w.Header().Set("ETag", "\""+etag+"\"")
	w.WriteHeader(status)

	if _, err := w.Write(responseBytes); err != nil {
		logger.Get().Warnf("API: error writing response: %v", err)
	}
}

// sendError renders err with the status of its kind. message overrides the
// error text when not empty.
func (s *Server) sendError(w http.ResponseWriter, err error, message string) {
	kind := apperrors.KindOf(err)
	if message == "" {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
		} else {
			message = "internal error"
		}
	}
	if kind == apperrors.KindInternal {
		logger.Get().Errorf("API: %v", err)
	}
	s.sendJSONStatus(w, apperrors.HTTPStatus(kind), errorResponse{
		Code:    kind,
		Reason:  apperrors.ReasonOf(err),
		Message: message,
	})
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(v); err != nil {
		return apperrors.Validation(apperrors.ReasonNone, "invalid request body")
	}
	return nil
}

func getParamLowercase(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return strings.ToLower(r.URL.Query().Get(key))
}

// getParamInt parses an optional positive integer parameter
func getParamInt(r *http.Request, key string, fallback int) (int, error) {
	raw := getParamLowercase(r, key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, apperrors.Validation(apperrors.ReasonNone, key+" must be a positive integer")
	}
	return value, nil
}

func splitParamLowercase(param string) []string {
	if param == "" {
		return []string{}
	}

	result := []string{}
	for _, part := range strings.Split(param, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
