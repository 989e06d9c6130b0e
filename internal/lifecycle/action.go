package lifecycle

import "net/url"

// ActionKind is the primary button offered on a card.
type ActionKind string

// Card actions.
const (
	ActionListItem       ActionKind = "LIST_ITEM"
	ActionBuyNow         ActionKind = "BUY_NOW"
	ActionEdit           ActionKind = "EDIT"
	ActionManage         ActionKind = "MANAGE"
	ActionConfirmCollect ActionKind = "CONFIRM_COLLECT"
	ActionRemoveTag      ActionKind = "REMOVE_TAG"
	ActionDisabled       ActionKind = "DISABLED"
)

// Disabled reasons.
const (
	ReasonNoLongerAvailable = "No longer available"
	ReasonTagRemoved        = "Tag Removed"
)

// ActionDirective is the single primary action a card offers. Target is the
// path of the surface the action routes to; it is empty when disabled.
type ActionDirective struct {
	Kind           ActionKind `json:"action_kind"`
	Enabled        bool       `json:"enabled"`
	DisabledReason string     `json:"disabled_reason,omitempty"`
	Target         string     `json:"target,omitempty"`
}

func enabled(kind ActionKind, target string) ActionDirective {
	return ActionDirective{Kind: kind, Enabled: true, Target: target}
}

func disabled(kind ActionKind, reason string) ActionDirective {
	return ActionDirective{Kind: kind, DisabledReason: reason}
}

// DeriveAction returns the one action rec offers to role.
func DeriveAction(rec Record, role Role) (ActionDirective, error) {
	if invalid(rec) {
		return ActionDirective{}, errNoRecord
	}
	if !role.Valid() {
		return ActionDirective{}, errUnknownRole(role)
	}

	if v, ok := rec.(*VacantTag); ok {
		switch role {
		case RoleViewer:
			return enabled(ActionListItem, path("tags", v.TagID, "list")), nil
		case RoleHost:
			return disabled(ActionManage, ""), nil
		default:
			return disabled(ActionDisabled, ""), nil
		}
	}

	l, _ := listing(rec)

	switch r := rec.(type) {
	case *ActiveListing:
		switch role {
		case RoleOwner:
			return enabled(ActionEdit, path("items", l.ItemDetails.ID, "edit")), nil
		case RoleHost:
			// Being past the minimum listing period never blocks management.
			return enabled(ActionManage, path("listings", listingKey(l), "manage")), nil
		default:
			return enabled(ActionBuyNow, path("listings", listingKey(l), "checkout")), nil
		}

	case *RecalledListing:
		if role == RoleHost {
			return enabled(ActionConfirmCollect, path("listings", listingKey(l), "collect")), nil
		}

	case *AbandonedListing:
		if role == RoleHost {
			return removeTag(l, r.TagRemoved), nil
		}

	case *SoldListing:
		if role == RoleHost {
			return removeTag(l, r.TagRemoved), nil
		}
	}

	return disabled(ActionDisabled, ReasonNoLongerAvailable), nil
}

func removeTag(l *ActiveListing, removed bool) ActionDirective {
	if removed {
		return disabled(ActionDisabled, ReasonTagRemoved)
	}
	return enabled(ActionRemoveTag, path("listings", listingKey(l), "remove-tag"))
}

// listingKey identifies a listing in routes. Payloads that omit the listing
// id are addressed by their tag.
func listingKey(l *ActiveListing) ID {
	if l.ID != "" {
		return l.ID
	}
	return l.TagID
}

func path(collection string, id ID, action string) string {
	if id == "" {
		return ""
	}
	return "/" + collection + "/" + url.PathEscape(string(id)) + "/" + action
}
