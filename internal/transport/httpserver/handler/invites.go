package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"family-planner/internal/domain/apperr"
	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/notification"
	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
	"family-planner/internal/metrics"
	"github.com/go-chi/chi/v5"
)

type createInviteRequest struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	ExpiresInDays int    `json:"expires_in_days"`
}

type acceptInviteRequest struct {
	Code string `json:"code"`
}

type inviteResponse struct {
	ID         string     `json:"id"`
	FamilyID   string     `json:"family_id"`
	Email      *string    `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	Code       string     `json:"code"`
	JoinLink   string     `json:"join_link"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	CreatedBy  string     `json:"created_by"`
	AcceptedBy *string    `json:"accepted_by"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

type createInviteResponse struct {
	Invite      inviteResponse       `json:"invite"`
	FamilyName  string               `json:"family_name"`
	InviterName string               `json:"inviter_name"`
	EmailResult *notification.Result `json:"email_result,omitempty"`
}

type previewResponse struct {
	Invite     inviteResponse `json:"invite"`
	FamilyName string         `json:"family_name"`
	Valid      bool           `json:"valid"`
	Error      *errorBody     `json:"error"`
}

type acceptResponse struct {
	FamilyID   string `json:"family_id"`
	FamilyName string `json:"family_name"`
	Role       string `json:"role"`
}

func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	membership, err := h.Users.GetMembership(r.Context(), user.ID)
	if errors.Is(err, userdomain.ErrNoMembership) {
		err = invitedomain.ErrPermissionDenied
	}
	if err != nil {
		h.fail(w, "invites.create: resolve membership failed", err, "user_id", user.ID)
		return
	}

	created, err := h.Invites.CreateInvite(r.Context(), membership.FamilyID, invitedomain.Input{
		Email:         req.Email,
		Role:          permissions.Role(strings.TrimSpace(req.Role)),
		ExpiresInDays: req.ExpiresInDays,
	}, user.ID)
	if err != nil {
		h.fail(w, "invites.create: create invite failed", err, "user_id", user.ID, "family_id", membership.FamilyID)
		return
	}
	h.metrics.InviteCreated()

	response := createInviteResponse{
		Invite:      h.toInviteResponse(created.Invite),
		FamilyName:  created.FamilyName,
		InviterName: created.InviterName,
	}

	// The invite stands even when the email cannot be delivered.
	if created.Invite.Email != nil {
		result := h.Notifications.SendInviteEmail(r.Context(), notification.InviteEmail{
			To:          *created.Invite.Email,
			FamilyName:  created.FamilyName,
			InviterName: created.InviterName,
			Role:        string(created.Invite.Role),
			JoinLink:    created.JoinLink,
			ExpiresAt:   created.Invite.ExpiresAt.Format(time.RFC3339),
		})
		h.metrics.EmailSent(result.Success)
		response.EmailResult = &result
	}

	h.log.Info("invites.create: invite created", "user_id", user.ID, "invite_id", created.Invite.ID)
	writeJSON(w, http.StatusCreated, response)
}

func (h *Handlers) ListInvites(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.Invites.GetFamilyInvites(r.Context(), user.ID)
	if err != nil {
		h.fail(w, "invites.list: list invites failed", err, "user_id", user.ID)
		return
	}

	response := make([]inviteResponse, 0, len(list))
	for _, inv := range list {
		response = append(response, h.toInviteResponse(inv))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	inviteID, ok := uuidParam(r, "invite_id")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "invite not found")
		return
	}

	inv, err := h.Invites.RevokeInvite(r.Context(), user.ID, inviteID)
	if err != nil {
		h.fail(w, "invites.revoke: revoke invite failed", err, "user_id", user.ID, "invite_id", inviteID)
		return
	}

	writeJSON(w, http.StatusOK, h.toInviteResponse(*inv))
}

func (h *Handlers) PreviewInvite(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))

	preview, err := h.Invites.PreviewInvite(r.Context(), code)
	if err != nil {
		h.fail(w, "invites.preview: preview invite failed", err)
		return
	}

	response := previewResponse{
		Invite:     h.toInviteResponse(preview.Invite),
		FamilyName: preview.FamilyName,
		Valid:      preview.Validation.Valid,
	}
	if preview.Validation.Error != nil {
		response.Error = &errorBody{
			Code:    apperr.ResponseCode(preview.Validation.Error),
			Message: apperr.Message(preview.Validation.Error),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	accepted, err := h.Invites.AcceptInvite(r.Context(), req.Code, user.ID, user.Email)
	if err != nil {
		h.metrics.InviteAccepted(metrics.ResultFailure)
		h.fail(w, "invites.accept: accept invite failed", err, "user_id", user.ID)
		return
	}
	h.metrics.InviteAccepted(metrics.ResultSuccess)

	h.log.Info("invites.accept: invite accepted", "user_id", user.ID, "family_id", accepted.FamilyID)
	writeJSON(w, http.StatusOK, acceptResponse{
		FamilyID:   accepted.FamilyID,
		FamilyName: accepted.FamilyName,
		Role:       string(accepted.Role),
	})
}

func (h *Handlers) toInviteResponse(inv invitedomain.Invite) inviteResponse {
	return inviteResponse{
		ID:         inv.ID,
		FamilyID:   inv.FamilyID,
		Email:      inv.Email,
		Role:       string(inv.Role),
		Status:     string(inv.Status),
		Code:       inv.Code,
		JoinLink:   h.Invites.JoinLink(inv.Code),
		ExpiresAt:  inv.ExpiresAt,
		CreatedAt:  inv.CreatedAt,
		CreatedBy:  inv.CreatedBy,
		AcceptedBy: inv.AcceptedBy,
		AcceptedAt: inv.AcceptedAt,
	}
}
