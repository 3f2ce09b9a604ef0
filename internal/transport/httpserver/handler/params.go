package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	tasksdomain "family-planner/internal/domain/tasks"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse(tasksdomain.DeadlineLayout, value)
}

func parseDateParam(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := parseDateRequired(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// uuidParam returns the named URL parameter when it is a well-formed UUID.
func uuidParam(r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	parsed, err := uuid.Parse(value)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
