package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/tagandtake/tagandtake-server/internal/errors"
)

type testItem struct {
	Name  string   `json:"name" validate:"notblank"`
	Price *float64 `json:"price" validate:"omitempty,gte=0"`
}

type testRecord struct {
	TagID    string   `json:"tag_id" validate:"required,max=64"`
	Days     int      `json:"min_listing_days" validate:"gte=0"`
	Kind     string   `json:"kind,omitempty" validate:"omitempty,oneof=a b"`
	Item     testItem `json:"item_details"`
	Internal string   `json:"-" validate:"max=1"`
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok, "details should be map[string]string")
	return details
}

func TestValidate_Valid(t *testing.T) {
	price := 10.0
	err := New().Validate(testRecord{
		TagID: "tag-1",
		Days:  14,
		Kind:  "a",
		Item:  testItem{Name: "Coat", Price: &price},
	})

	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	negative := -1.0

	tests := []struct {
		name      string
		record    testRecord
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing tag id",
			record:    testRecord{Item: testItem{Name: "Coat"}},
			wantField: "tag_id",
			wantMsg:   "is required",
		},
		{
			name:      "negative days",
			record:    testRecord{TagID: "t", Days: -3, Item: testItem{Name: "Coat"}},
			wantField: "min_listing_days",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name:      "oneof",
			record:    testRecord{TagID: "t", Kind: "c", Item: testItem{Name: "Coat"}},
			wantField: "kind",
			wantMsg:   "must be one of: a b",
		},
		{
			name:      "blank nested name",
			record:    testRecord{TagID: "t", Item: testItem{Name: "   "}},
			wantField: "item_details.name",
			wantMsg:   "is required",
		},
		{
			name:      "negative nested price",
			record:    testRecord{TagID: "t", Item: testItem{Name: "Coat", Price: &negative}},
			wantField: "item_details.price",
			wantMsg:   "must be greater than or equal to 0",
		},
		{
			name:      "max length",
			record:    testRecord{TagID: string(make([]byte, 65)), Item: testItem{Name: "Coat"}},
			wantField: "tag_id",
			wantMsg:   "must not exceed 64 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := fieldErrors(t, New().Validate(tt.record))
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidate_CollectsAllFields(t *testing.T) {
	details := fieldErrors(t, New().Validate(testRecord{Days: -1}))

	assert.Len(t, details, 3)
	assert.Contains(t, details, "tag_id")
	assert.Contains(t, details, "min_listing_days")
	assert.Contains(t, details, "item_details.name")
}

func TestValidate_IsValidationError(t *testing.T) {
	err := New().Validate(testRecord{})

	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Equal(t, 64, domainerrors.ExitCode(err))
}

func TestValidate_NonStruct(t *testing.T) {
	err := New().Validate("not a struct")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domainerrors.ErrValidation)
}

type TestBase struct {
	ID string `json:"id" validate:"required"`
}

type testEmbedded struct {
	TestBase
	Extra string `json:"extra" validate:"required"`
}

func TestValidate_EmbeddedFieldsUseJSONNames(t *testing.T) {
	details := fieldErrors(t, New().Validate(testEmbedded{}))

	assert.Equal(t, map[string]string{
		"id":    "is required",
		"extra": "is required",
	}, details)
}
