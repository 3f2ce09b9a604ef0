package invite

import "time"

// ValidateInvite decides whether inv can still be redeemed at now. Any status
// other than pending reports ALREADY_USED, revoked and past-expiry invites
// included; EXPIRED is reserved for pending invites past their expiry.
func ValidateInvite(inv *Invite, now time.Time) Validation {
	if inv == nil {
		return Validation{Error: ErrInvalidCode}
	}
	if inv.Status != StatusPending {
		return Validation{Error: ErrAlreadyUsed}
	}
	if now.After(inv.ExpiresAt) {
		return Validation{Error: ErrExpired}
	}
	return Validation{Valid: true}
}
