package handler

import (
	"encoding/json"
	"net/http"

	"family-planner/internal/domain/apperr"
	"family-planner/internal/transport/httpserver/middleware"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// fail logs err at the level its kind deserves and answers with the mapped
// status, code and user-facing message.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	status := apperr.HTTPStatus(err)
	if apperr.IsBusiness(err) {
		h.log.BusinessError(op, err, args...)
	} else {
		h.log.InternalError(op, err, args...)
	}

	if status == http.StatusInternalServerError {
		writeError(w, status, "internal_error", "internal error")
		return
	}
	writeError(w, status, apperr.ResponseCode(err), apperr.Message(err))
}

func invalidJSON(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
}

func currentUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.User{}, false
	}
	return user, true
}
