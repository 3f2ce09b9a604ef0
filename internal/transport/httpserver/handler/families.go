package handler

import (
	"net/http"
	"strings"
	"time"

	familydomain "family-planner/internal/domain/family"
	"github.com/go-chi/chi/v5"
)

type createFamilyRequest struct {
	Name string `json:"name"`
}

type updateFamilyRequest struct {
	Name string `json:"name"`
}

type familyResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	OwnerID               string     `json:"owner_id"`
	IsActive              bool       `json:"is_active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	CreatedAt             time.Time  `json:"created_at"`
}

type familyMemberResponse struct {
	UserID           string    `json:"user_id"`
	DisplayName      string    `json:"display_name"`
	Role             string    `json:"role"`
	SubscriptionType string    `json:"subscription_type"`
	JoinedAt         time.Time `json:"joined_at"`
	Email            *string   `json:"email"`
	PhotoURL         *string   `json:"photo_url"`
}

func (h *Handlers) GetFamilyMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.GetFamilyByUser(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "families.get_me: get family failed", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	familyID, ok := uuidParam(r, "family_id")
	if !ok {
		writeError(w, http.StatusNotFound, "family_not_found", "family not found")
		return
	}

	result, err := h.Families.GetFamilyForMember(r.Context(), user.ID, familyID)
	if err != nil {
		h.fail(w, "families.get: get family failed", err, "user_id", user.ID, "family_id", familyID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) CreateFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.CreateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		h.fail(w, "families.create: create family failed", err, "user_id", user.ID)
		return
	}

	h.metrics.FamilyCreated()
	h.log.Info("families.create: family created", "user_id", user.ID, "family_id", result.ID)
	writeJSON(w, http.StatusCreated, toFamilyResponse(result))
}

func (h *Handlers) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Families.LeaveFamily(r.Context(), user.ID); err != nil {
		h.fail(w, "families.leave: leave family failed", err, "user_id", user.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.Families.UpdateFamily(r.Context(), user.ID, req.Name)
	if err != nil {
		h.fail(w, "families.update: update family failed", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toFamilyResponse(result))
}

func (h *Handlers) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	members, err := h.Families.ListMembers(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "families.list_members: list members failed", err, "user_id", user.ID)
		return
	}

	response := make([]familyMemberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, familyMemberResponse{
			UserID:           member.UserID,
			DisplayName:      member.DisplayName,
			Role:             string(member.Role),
			SubscriptionType: string(member.Subscription),
			JoinedAt:         member.JoinedAt,
			Email:            member.Email,
			PhotoURL:         member.PhotoURL,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	memberID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user_id is required")
		return
	}

	if err := h.Families.RemoveMember(r.Context(), user.ID, memberID); err != nil {
		h.fail(w, "families.remove_member: remove member failed", err, "actor_id", user.ID, "member_id", memberID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toFamilyResponse(familyModel *familydomain.Family) familyResponse {
	return familyResponse{
		ID:                    familyModel.ID,
		Name:                  familyModel.Name,
		OwnerID:               familyModel.OwnerID,
		IsActive:              familyModel.IsActive,
		SubscriptionExpiresAt: familyModel.SubscriptionExpiresAt,
		CreatedAt:             familyModel.CreatedAt,
	}
}
