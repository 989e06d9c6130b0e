package lifecycle

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Keys that discriminate record shapes.
const (
	keyItemDetails = "item_details"
	keyIsMember    = "is_member"
	keyHasCapacity = "has_capacity"
	keySoldAt      = "sold_at"
	keyAbandonedAt = "abandoned_at"
	keyRecalledAt  = "recalled_at"
)

// Decode parses a listing API payload into its concrete record type.
// Payloads that match no known shape fail with *MalformedListingError.
func Decode(data []byte) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &MalformedListingError{Reason: "payload is not a JSON object", Err: err}
	}
	if fields == nil {
		return nil, malformed("payload is null")
	}

	category, err := Classify(fields)
	if err != nil {
		return nil, err
	}

	var rec Record
	switch category {
	case CategoryVacant:
		rec = &VacantTag{}
	case CategoryActive:
		rec = &ActiveListing{}
	case CategoryRecalled:
		rec = &RecalledListing{}
	case CategoryAbandoned:
		rec = &AbandonedListing{}
	case CategorySold:
		rec = &SoldListing{}
	}

	if err := json.Unmarshal(data, rec); err != nil {
		return nil, &MalformedListingError{
			Reason: "unexpected field type for " + string(category) + " record",
			Keys:   sortedKeys(fields),
			Err:    err,
		}
	}
	return rec, nil
}

// Classify picks a category from the top-level keys of a payload. The first
// matching rule wins:
//
//  1. no item details, but vacant-tag markers: vacant
//  2. no item details and no markers: malformed
//  3. sold_at present: sold
//  4. abandoned_at present: abandoned
//  5. recalled_at present: recalled
//  6. otherwise: active
//
// Timestamps count as present when their key exists, even with a null value.
// Item details count only when they are a JSON object.
func Classify(fields map[string]json.RawMessage) (Category, error) {
	if !hasObject(fields, keyItemDetails) {
		if has(fields, keyIsMember) || has(fields, keyHasCapacity) {
			return CategoryVacant, nil
		}
		return "", &MalformedListingError{
			Reason: "record carries neither item details nor vacant tag markers",
			Keys:   sortedKeys(fields),
		}
	}

	switch {
	case has(fields, keySoldAt):
		return CategorySold, nil
	case has(fields, keyAbandonedAt):
		return CategoryAbandoned, nil
	case has(fields, keyRecalledAt):
		return CategoryRecalled, nil
	default:
		return CategoryActive, nil
	}
}

func has(fields map[string]json.RawMessage, key string) bool {
	_, ok := fields[key]
	return ok
}

func hasObject(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func sortedKeys(fields map[string]json.RawMessage) []string {
	return slices.Sorted(maps.Keys(fields))
}
