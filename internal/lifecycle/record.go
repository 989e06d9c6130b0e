// Package lifecycle derives what a tag or listing card shows to a given viewer.
//
// A payload from the listing API is decoded once, at the boundary, into one of
// five concrete record types. Everything downstream switches on that type:
//
//	rec, err := lifecycle.Decode(payload)
//	role := lifecycle.ResolveRole(auth, rec)
//	view, err := lifecycle.Render(lifecycle.Redact(rec, role), role, formatter)
//
// The package performs no I/O and holds no state. Every function is safe to
// call concurrently and returns the same output for the same input.
package lifecycle

import (
	"encoding/json"
	"fmt"
)

// Category is the lifecycle stage of a tag or listing.
type Category string

// Lifecycle categories.
const (
	CategoryVacant    Category = "vacant"
	CategoryActive    Category = "active"
	CategoryRecalled  Category = "recalled"
	CategoryAbandoned Category = "abandoned"
	CategorySold      Category = "sold"
)

// Categories lists every category in lifecycle order.
var Categories = []Category{
	CategoryVacant,
	CategoryActive,
	CategoryRecalled,
	CategoryAbandoned,
	CategorySold,
}

// ParseCategory converts a category name into a Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Record is a decoded tag or listing. The concrete type is one of *VacantTag,
// *ActiveListing, *RecalledListing, *AbandonedListing or *SoldListing.
type Record interface {
	Category() Category
	record()
}

// ID is an identifier the API may send as either a JSON string or number.
type ID string

// UnmarshalJSON accepts strings, numbers and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// PIN is the code an owner shows to collect a recalled item. The API may send
// it as a JSON string or number; it stays a string so leading zeros survive.
type PIN string

// UnmarshalJSON accepts strings, numbers and null.
func (p *PIN) UnmarshalJSON(data []byte) error {
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("collection pin must be a string or number: %w", err)
	}
	*p = PIN(id)
	return nil
}

// StoreOption is one entry in a store's accepted conditions or categories.
// The API sends either a bare name or an object carrying one.
type StoreOption string

// UnmarshalJSON accepts a string or an object with a name-like field.
func (o *StoreOption) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = StoreOption(s)
		return nil
	}

	var obj struct {
		Name      string `json:"name"`
		Condition string `json:"condition"`
		Category  string `json:"category"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("store option must be a string or object: %w", err)
	}
	for _, v := range []string{obj.Name, obj.Condition, obj.Category} {
		if v != "" {
			*o = StoreOption(v)
			return nil
		}
	}
	*o = ""
	return nil
}

// VacantTag is a tag with no item on it.
type VacantTag struct {
	TagID           ID            `json:"tag_id" validate:"notblank"`
	StoreID         ID            `json:"store_id,omitempty"`
	IsMember        bool          `json:"is_member"`
	HasCapacity     bool          `json:"has_capacity"`
	StoreConditions []StoreOption `json:"store_conditions"`
	StoreCategories []StoreOption `json:"store_categories"`
	MinListingDays  int           `json:"min_listing_days" validate:"gte=0"`
	StoreCommission float64       `json:"store_commission" validate:"gte=0,lte=100"`
	MinPrice        float64       `json:"min_price" validate:"gte=0"`
}

// Category implements Record.
func (*VacantTag) Category() Category { return CategoryVacant }
func (*VacantTag) record()            {}

// ItemDetails describes the member's item on a listing.
type ItemDetails struct {
	ID          ID       `json:"id"`
	OwnerID     ID       `json:"owner_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Condition   string   `json:"condition,omitempty"`
	Category    string   `json:"category,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// ActiveListing is an item on sale in a store.
type ActiveListing struct {
	ID                 ID          `json:"id"`
	TagID              ID          `json:"tag_id" validate:"notblank"`
	StoreID            ID          `json:"store_id,omitempty"`
	ItemDetails        ItemDetails `json:"item_details"`
	ListingPrice       *float64    `json:"listing_price,omitempty" validate:"omitempty,gte=0"`
	CreatedAt          string      `json:"created_at,omitempty"`
	PastMinListingDays bool        `json:"past_min_listing_days"`
}

// Category implements Record.
func (*ActiveListing) Category() Category { return CategoryActive }
func (*ActiveListing) record()            {}

// Price returns the listing price, falling back to the item's own price.
func (l *ActiveListing) Price() *float64 {
	if l.ListingPrice != nil {
		return l.ListingPrice
	}
	return l.ItemDetails.Price
}

// RecallReason is the store's stated reason for a recall or abandonment.
type RecallReason struct {
	Reason string `json:"reason"`
}

// RecalledListing is a listing the store has pulled and the owner must collect.
type RecalledListing struct {
	ActiveListing
	Reason             *RecallReason `json:"reason,omitempty"`
	RecalledAt         *string       `json:"recalled_at"`
	CollectionDeadline string        `json:"collection_deadline,omitempty"`
	CollectionPin      PIN           `json:"collection_pin,omitempty"`
}

// Category implements Record.
func (*RecalledListing) Category() Category { return CategoryRecalled }

// AbandonedListing is a recalled listing the owner never collected.
type AbandonedListing struct {
	ActiveListing
	Reason      *RecallReason `json:"reason,omitempty"`
	AbandonedAt *string       `json:"abandoned_at"`
	TagRemoved  bool          `json:"tag_removed"`
}

// Category implements Record.
func (*AbandonedListing) Category() Category { return CategoryAbandoned }

// SoldListing is a listing that has been bought.
type SoldListing struct {
	ActiveListing
	SoldAt     *string `json:"sold_at"`
	TagRemoved bool    `json:"tag_removed"`
}

// Category implements Record.
func (*SoldListing) Category() Category { return CategorySold }

// listing returns the listing fields shared by every non-vacant record.
func listing(rec Record) (*ActiveListing, bool) {
	switch r := rec.(type) {
	case *ActiveListing:
		return r, r != nil
	case *RecalledListing:
		if r == nil {
			return nil, false
		}
		return &r.ActiveListing, true
	case *AbandonedListing:
		if r == nil {
			return nil, false
		}
		return &r.ActiveListing, true
	case *SoldListing:
		if r == nil {
			return nil, false
		}
		return &r.ActiveListing, true
	default:
		return nil, false
	}
}

// invalid reports whether rec is nil, a typed nil pointer, or a type this
// package does not define.
func invalid(rec Record) bool {
	switch r := rec.(type) {
	case nil:
		return true
	case *VacantTag:
		return r == nil
	default:
		_, ok := listing(rec)
		return !ok
	}
}

// value returns the string behind an optional timestamp.
func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
