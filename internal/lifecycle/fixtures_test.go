package lifecycle

import "fmt"

// stubFormatter makes formatter calls visible in expected strings.
type stubFormatter struct{}

func (stubFormatter) Date(iso string) string      { return "date(" + iso + ")" }
func (stubFormatter) ShortDate(iso string) string { return "short(" + iso + ")" }

func (stubFormatter) Currency(amount *float64) string {
	if amount == nil {
		return "£0.00"
	}
	return fmt.Sprintf("£%.2f", *amount)
}

func ptr[T any](v T) *T {
	return &v
}

const (
	testDeadline = "2024-04-15T17:00:00Z"
	testSoldAt   = "2024-05-02T14:00:00Z"
)

func baseListing() ActiveListing {
	return ActiveListing{
		ID:      "lst-1",
		TagID:   "tag-1",
		StoreID: "store-1",
		ItemDetails: ItemDetails{
			ID:      "item-1",
			OwnerID: "member-1",
			Name:    "Wool coat",
			Price:   ptr(40.0),
		},
		ListingPrice: ptr(45.0),
		CreatedAt:    "2024-03-01T10:00:00Z",
	}
}

func vacantTag() *VacantTag {
	return &VacantTag{
		TagID:           "tag-9",
		StoreID:         "store-1",
		IsMember:        true,
		HasCapacity:     true,
		StoreConditions: []StoreOption{"Good", "Like new"},
		StoreCategories: []StoreOption{"Coats"},
		MinListingDays:  14,
		StoreCommission: 20,
		MinPrice:        5,
	}
}

func activeListing() *ActiveListing {
	l := baseListing()
	return &l
}

func recalledListing() *RecalledListing {
	return &RecalledListing{
		ActiveListing:      baseListing(),
		Reason:             &RecallReason{Reason: "Damaged"},
		RecalledAt:         ptr("2024-04-01T09:00:00Z"),
		CollectionDeadline: testDeadline,
		CollectionPin:      "4821",
	}
}

func abandonedListing() *AbandonedListing {
	return &AbandonedListing{
		ActiveListing: baseListing(),
		Reason:        &RecallReason{Reason: "Not collected"},
		AbandonedAt:   ptr("2024-04-16T09:00:00Z"),
	}
}

func soldListing() *SoldListing {
	return &SoldListing{
		ActiveListing: baseListing(),
		SoldAt:        ptr(testSoldAt),
	}
}

// recordOf returns a fresh fixture for a category.
func recordOf(c Category) Record {
	switch c {
	case CategoryVacant:
		return vacantTag()
	case CategoryActive:
		return activeListing()
	case CategoryRecalled:
		return recalledListing()
	case CategoryAbandoned:
		return abandonedListing()
	case CategorySold:
		return soldListing()
	}
	panic("unknown category " + string(c))
}
