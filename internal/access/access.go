// Package access holds the authorization rules: who may act on what.
//
// Rules are pure functions of (actor, target, action) and return a Decision.
// A denial is not an error condition for the user; the HTTP layer turns it
// into a flash message and a redirect to a fallback page.
package access

import (
	"errors"
	"fmt"

	"github.com/Mukungiisaac/Sakeja/internal/user"
)

const (
	MsgLoginRequired    = "Please log in to access this page."
	MsgApprovalRequired = "Your account is awaiting admin approval. You can post listings once an admin approves it."
	MsgNotOwner         = "Unauthorized access."
	MsgNotOwnerDelete   = "Unauthorized deletion attempt."
	MsgPhotoRequired    = "Please upload a photo."
	MsgNotManaged       = "Only landlord and seller accounts can be approved, rejected or revoked."
)

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// Err returns nil for an allowed decision and a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Reason: d.Reason}
}

// DeniedError is a soft refusal carrying a message meant for the user.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}

func Denied(reason string) error {
	return &DeniedError{Reason: reason}
}

// AsDenied returns the user-facing reason when err is a denial.
func AsDenied(err error) (string, bool) {
	var denied *DeniedError
	if errors.As(err, &denied) {
		return denied.Reason, true
	}
	return "", false
}

func RequireRole(actor *user.User, role user.Role) Decision {
	if actor == nil {
		return Deny(MsgLoginRequired)
	}
	if actor.Role != role {
		return Deny(fmt.Sprintf("Access restricted to %ss.", role))
	}
	return Allow()
}

func RequireApproved(actor *user.User) Decision {
	if actor == nil {
		return Deny(MsgLoginRequired)
	}
	if !actor.IsApproved {
		return Deny(MsgApprovalRequired)
	}
	return Allow()
}

// CanPublish is the gate for creating a listing: right role and approved.
func CanPublish(actor *user.User, role user.Role) Decision {
	if d := RequireRole(actor, role); !d.Allowed {
		return d
	}
	return RequireApproved(actor)
}

// RequireOwner allows the actor only when it owns the record. reason is the
// message shown on refusal.
func RequireOwner(actor *user.User, ownerID int, reason string) Decision {
	if actor == nil {
		return Deny(MsgLoginRequired)
	}
	if actor.ID != ownerID {
		return Deny(reason)
	}
	return Allow()
}

// RequireManaged allows admin account decisions only on landlord and seller accounts.
func RequireManaged(target *user.User) Decision {
	if target == nil || !target.Role.NeedsApproval() {
		return Deny(MsgNotManaged)
	}
	return Allow()
}
