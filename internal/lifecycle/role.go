package lifecycle

// Role is the viewer's relationship to a record.
type Role string

// Viewer roles.
const (
	RoleOwner  Role = "OWNER"
	RoleHost   Role = "HOST"
	RoleViewer Role = "VIEWER"
)

// Roles lists every role.
var Roles = []Role{RoleOwner, RoleHost, RoleViewer}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleHost, RoleViewer:
		return true
	default:
		return false
	}
}

// AuthState is what the auth collaborator knows about the caller.
type AuthState struct {
	Authenticated bool `json:"authenticated"`
	MemberID      ID   `json:"member_id,omitempty" validate:"omitempty,max=128,printascii"`
	StoreID       ID   `json:"store_id,omitempty" validate:"omitempty,max=128,printascii"`
}

// Anonymous is the auth state of a caller who is not signed in.
var Anonymous = AuthState{}

// ResolveRole determines how the caller relates to rec. A matching store wins
// over a matching member. Unauthenticated callers, empty ids and unusable
// records all resolve to VIEWER.
func ResolveRole(auth AuthState, rec Record) Role {
	if !auth.Authenticated || invalid(rec) {
		return RoleViewer
	}

	if auth.StoreID != "" && auth.StoreID == hostStore(rec) {
		return RoleHost
	}
	if auth.MemberID != "" && auth.MemberID == itemOwner(rec) {
		return RoleOwner
	}
	return RoleViewer
}

func hostStore(rec Record) ID {
	if v, ok := rec.(*VacantTag); ok {
		return v.StoreID
	}
	if l, ok := listing(rec); ok {
		return l.StoreID
	}
	return ""
}

func itemOwner(rec Record) ID {
	if l, ok := listing(rec); ok {
		return l.ItemDetails.OwnerID
	}
	return ""
}
