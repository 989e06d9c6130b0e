package lifecycle

import "github.com/tagandtake/tagandtake-server/internal/format"

// IconKind tells the renderer which badge to show next to a status message.
type IconKind string

// Status message icons.
const (
	IconInfo        IconKind = "info"
	IconPin         IconKind = "pin"
	IconWarning     IconKind = "warning"
	IconSold        IconKind = "sold"
	IconUnavailable IconKind = "unavailable"
)

// StatusMessage is the banner shown on a card.
type StatusMessage struct {
	Icon           IconKind `json:"icon_kind"`
	MainText       string   `json:"main_text"`
	SecondaryText  string   `json:"secondary_text,omitempty"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// DateFormatter renders timestamps inside message text.
type DateFormatter interface {
	Date(iso string) string
}

// defaults renders with the package-level en-GB helpers.
type defaults struct{}

func (defaults) Date(iso string) string          { return format.FormatDate(iso) }
func (defaults) ShortDate(iso string) string     { return format.FormatShortDate(iso) }
func (defaults) Currency(amount *float64) string { return format.FormatCurrency(amount) }

// Message text.
const (
	textNonRefundable  = "All sales are non-refundable"
	textCheckItem      = "Please check the item carefully before buying"
	textCollectionPin  = "Collection pin: "
	textPinPending     = "Collection pin: pending"
	textPresentTag     = "Present this tag to a member of staff to collect your item"
	textItemRecalled   = "Item recalled"
	textCollectBy      = "Must be collected by "
	textReason         = "Reason: "
	textNoLongerAvail  = "This item is no longer available"
	textOwnerTakeTag   = "Please take this tag to staff to remove the tag"
	textReclaimed      = "Your item may be reclaimed at the store's discretion"
	textItemAbandoned  = "Item abandoned"
	textRemoveTag      = "Please remove this tag"
	textViewerTakeTag  = "Please take this tag to a member of staff"
	textItemSold       = "Item sold"
	textYourItemSold   = "Your item has been sold"
	textSoldOn         = "Sold on: "
	textViewerTakeItem = "Please take item to staff to remove the tag"
)

// DeriveStatusMessage returns the banner for rec as seen by role, or nil when
// the card shows none. Dates are rendered by f, or by format.FormatDate when
// f is nil.
func DeriveStatusMessage(rec Record, role Role, f DateFormatter) (*StatusMessage, error) {
	if invalid(rec) {
		return nil, errNoRecord
	}
	if !role.Valid() {
		return nil, errUnknownRole(role)
	}
	if f == nil {
		f = defaults{}
	}

	switch r := rec.(type) {
	case *VacantTag:
		return nil, nil

	case *ActiveListing:
		if role != RoleViewer {
			return nil, nil
		}
		return &StatusMessage{
			Icon:          IconInfo,
			MainText:      textNonRefundable,
			SecondaryText: textCheckItem,
		}, nil

	case *RecalledListing:
		return recalledMessage(r, role, f), nil

	case *AbandonedListing:
		return abandonedMessage(role), nil

	case *SoldListing:
		return soldMessage(r, role, f), nil
	}

	return nil, errNoRecord
}

func recalledMessage(r *RecalledListing, role Role, f DateFormatter) *StatusMessage {
	switch role {
	case RoleOwner:
		main := textPinPending
		if r.CollectionPin != "" {
			main = textCollectionPin + string(r.CollectionPin)
		}
		return &StatusMessage{
			Icon:          IconPin,
			MainText:      main,
			SecondaryText: textPresentTag,
		}
	case RoleHost:
		msg := &StatusMessage{
			Icon:          IconWarning,
			MainText:      textItemRecalled,
			SecondaryText: textCollectBy + f.Date(r.CollectionDeadline),
		}
		if r.Reason != nil && r.Reason.Reason != "" {
			msg.AdditionalInfo = textReason + r.Reason.Reason
		}
		return msg
	default:
		return &StatusMessage{
			Icon:     IconUnavailable,
			MainText: textNoLongerAvail,
		}
	}
}

func abandonedMessage(role Role) *StatusMessage {
	switch role {
	case RoleOwner:
		return &StatusMessage{
			Icon:          IconWarning,
			MainText:      textOwnerTakeTag,
			SecondaryText: textReclaimed,
		}
	case RoleHost:
		return &StatusMessage{
			Icon:          IconWarning,
			MainText:      textItemAbandoned,
			SecondaryText: textRemoveTag,
		}
	default:
		return &StatusMessage{
			Icon:          IconUnavailable,
			MainText:      textViewerTakeTag,
			SecondaryText: textNoLongerAvail,
		}
	}
}

func soldMessage(r *SoldListing, role Role, f DateFormatter) *StatusMessage {
	switch role {
	case RoleOwner:
		return &StatusMessage{
			Icon:          IconSold,
			MainText:      textYourItemSold,
			SecondaryText: textSoldOn + f.Date(value(r.SoldAt)),
		}
	case RoleHost:
		return &StatusMessage{
			Icon:           IconSold,
			MainText:       textItemSold,
			SecondaryText:  textRemoveTag,
			AdditionalInfo: textSoldOn + f.Date(value(r.SoldAt)),
		}
	default:
		return &StatusMessage{
			Icon:     IconUnavailable,
			MainText: textViewerTakeItem,
		}
	}
}
