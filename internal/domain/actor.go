package domain

import "github.com/google/uuid"

// ActorContext identifies the caller of a service operation. It is built by
// the HTTP layer from the authenticated token and threaded explicitly into
// every service call; services never read identity from ambient state.
type ActorContext struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Role     UserRole
	// ClientID is set only for client-role users and names the client
	// business the user acts for.
	ClientID *uuid.UUID
}

// IsClientFor reports whether the actor is the client identity for clientID.
func (a ActorContext) IsClientFor(clientID uuid.UUID) bool {
	return a.Role == RoleClient && a.ClientID != nil && *a.ClientID == clientID
}

// RequestMeta carries per-request metadata recorded on audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
