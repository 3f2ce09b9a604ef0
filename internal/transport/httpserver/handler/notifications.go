package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	invitedomain "family-planner/internal/domain/invite"
	"family-planner/internal/domain/notification"
	"family-planner/internal/domain/permissions"
	userdomain "family-planner/internal/domain/user"
)

type checkInvitationsRequest struct {
	Email string `json:"email"`
}

type pendingInvitationResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	FamilyID    string    `json:"familyId"`
	FamilyName  string    `json:"familyName"`
	Role        string    `json:"role"`
	InviterName string    `json:"inviterName"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type checkInvitationsResponse struct {
	HasInvitations bool                        `json:"hasInvitations"`
	Invitations    []pendingInvitationResponse `json:"invitations"`
}

// SendInviteEmail delivers an invite email on behalf of a member who may manage invites.
func (h *Handlers) SendInviteEmail(w http.ResponseWriter, r *http.Request) {
	var req notification.InviteEmail
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, notification.Result{Error: notification.MsgMissingData})
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
	if err == nil && !permissions.CanManageInvites(membership.Role) {
		err = invitedomain.ErrPermissionDenied
	}
	if err != nil {
		h.fail(w, "notifications.send_invite: permission check failed", err, "user_id", user.ID)
		return
	}

	result := h.Notifications.SendInviteEmail(r.Context(), req)
	h.metrics.EmailSent(result.Success)

	status := http.StatusOK
	switch result.Error {
	case "":
	case notification.MsgMissingData, notification.MsgInvalidEmail:
		status = http.StatusBadRequest
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}

// CheckInvitations lists pending invites addressed to the caller's email.
func (h *Handlers) CheckInvitations(w http.ResponseWriter, r *http.Request) {
	var req checkInvitationsRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			invalidJSON(w)
			return
		}
	}

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = user.Email
	}
	if !strings.EqualFold(email, strings.TrimSpace(user.Email)) {
		writeError(w, http.StatusForbidden, "permission_denied", "You can only check invitations for your own email.")
		return
	}

	pending, err := h.Invites.PendingInvitations(r.Context(), email)
	if err != nil {
		h.fail(w, "notifications.check_invitations: list pending failed", err, "user_id", user.ID)
		return
	}

	response := checkInvitationsResponse{
		HasInvitations: len(pending) > 0,
		Invitations:    make([]pendingInvitationResponse, 0, len(pending)),
	}
	for _, inv := range pending {
		response.Invitations = append(response.Invitations, pendingInvitationResponse{
			ID:          inv.ID,
			Code:        inv.Code,
			FamilyID:    inv.FamilyID,
			FamilyName:  inv.FamilyName,
			Role:        string(inv.Role),
			InviterName: inv.InviterName,
			ExpiresAt:   inv.ExpiresAt,
		})
	}

	writeJSON(w, http.StatusOK, response)
}
