package handler

import (
	"errors"
	"net/http"
	"time"

	userdomain "family-planner/internal/domain/user"
)

type authMeResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Name             string     `json:"name"`
	AvatarURL        string     `json:"avatar_url"`
	DisplayName      string     `json:"display_name"`
	FamilyID         *string    `json:"family_id"`
	Role             *string    `json:"role"`
	SubscriptionType *string    `json:"subscription_type"`
	JoinedAt         *time.Time `json:"joined_at"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	response := authMeResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AvatarURL:   user.AvatarURL,
		DisplayName: user.Name,
	}

	record, err := h.Users.GetUser(r.Context(), user.ID)
	switch {
	case errors.Is(err, userdomain.ErrUserNotFound):
		h.log.BusinessError("auth.me: user record missing", err, "user_id", user.ID)
	case err != nil:
		h.fail(w, "auth.me: get user failed", err, "user_id", user.ID)
		return
	default:
		response.DisplayName = record.DisplayName
		response.FamilyID = record.FamilyID
		response.JoinedAt = record.JoinedAt
		if record.Role != nil {
			role := string(*record.Role)
			response.Role = &role
		}
		if record.SubscriptionType != nil {
			sub := string(*record.SubscriptionType)
			response.SubscriptionType = &sub
		}
	}

	writeJSON(w, http.StatusOK, response)
}
