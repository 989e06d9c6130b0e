package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagandtake/tagandtake-server/internal/errors"
	"github.com/tagandtake/tagandtake-server/internal/format"
	"github.com/tagandtake/tagandtake-server/internal/lifecycle"
	"github.com/tagandtake/tagandtake-server/internal/logger"
)

const recalledPayload = `{
	"id": "lst-1", "tag_id": "tag-1", "store_id": "store-1",
	"item_details": {"id": "item-1", "owner_id": "member-1", "name": "Wool coat", "price": 40},
	"reason": {"reason": "Damaged"}, "recalled_at": "2024-04-01T09:00:00Z",
	"collection_deadline": "2024-04-15T17:00:00Z", "collection_pin": "4821"
}`

func setupTestViewService(t *testing.T, w io.Writer) *ViewService {
	t.Helper()

	if w == nil {
		w = io.Discard
	}
	log := logger.New(logger.Config{Level: slog.LevelDebug, Format: "json", Writer: w})

	formatter := format.New(format.Options{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) },
	})

	svc, err := NewViewService(formatter, log.Logger)
	require.NoError(t, err)
	return svc
}

func TestViewService_EvaluateByRole(t *testing.T) {
	svc := setupTestViewService(t, nil)

	tests := []struct {
		name       string
		auth       lifecycle.AuthState
		wantRole   lifecycle.Role
		wantMain   string
		wantAction lifecycle.ActionKind
	}{
		{
			name:       "owner sees pin",
			auth:       lifecycle.AuthState{Authenticated: true, MemberID: "member-1"},
			wantRole:   lifecycle.RoleOwner,
			wantMain:   "Collection pin: 4821",
			wantAction: lifecycle.ActionDisabled,
		},
		{
			name:       "host confirms collection",
			auth:       lifecycle.AuthState{Authenticated: true, StoreID: "store-1"},
			wantRole:   lifecycle.RoleHost,
			wantMain:   "Item recalled",
			wantAction: lifecycle.ActionConfirmCollect,
		},
		{
			name:       "anonymous viewer",
			auth:       lifecycle.Anonymous,
			wantRole:   lifecycle.RoleViewer,
			wantMain:   "This item is no longer available",
			wantAction: lifecycle.ActionDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := svc.Evaluate(context.Background(), EvaluateRequest{
				Source:  "recalled.json",
				Payload: []byte(recalledPayload),
				Auth:    tt.auth,
			})
			require.NoError(t, err)

			assert.Equal(t, "recalled.json", ev.Source)
			assert.Equal(t, svc.RunID(), ev.View.RunID)
			assert.Equal(t, lifecycle.CategoryRecalled, ev.View.Category)
			assert.Equal(t, tt.wantRole, ev.View.Role)
			require.NotNil(t, ev.View.StatusMessage)
			assert.Equal(t, tt.wantMain, ev.View.StatusMessage.MainText)
			assert.Equal(t, tt.wantAction, ev.View.Action.Kind)
			assert.Nil(t, ev.Record)
		})
	}
}

func TestViewService_HostDeadlineUsesFormatter(t *testing.T) {
	svc := setupTestViewService(t, nil)

	ev, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Payload: []byte(recalledPayload),
		Auth:    lifecycle.AuthState{Authenticated: true, StoreID: "store-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Must be collected by 5pm on 15 April", ev.View.StatusMessage.SecondaryText)
	assert.Equal(t, "Reason: Damaged", ev.View.StatusMessage.AdditionalInfo)
	assert.Equal(t, "£40.00", ev.View.Summary.Price)
}

func TestViewService_IncludeRecordIsRedacted(t *testing.T) {
	svc := setupTestViewService(t, nil)

	tests := []struct {
		name       string
		auth       lifecycle.AuthState
		wantPin    bool
		wantReason bool
	}{
		{"owner", lifecycle.AuthState{Authenticated: true, MemberID: "member-1"}, true, true},
		{"host", lifecycle.AuthState{Authenticated: true, StoreID: "store-1"}, false, true},
		{"viewer", lifecycle.Anonymous, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := svc.Evaluate(context.Background(), EvaluateRequest{
				Payload:       []byte(recalledPayload),
				Auth:          tt.auth,
				IncludeRecord: true,
			})
			require.NoError(t, err)
			require.NotNil(t, ev.Record)

			data, err := json.Marshal(ev)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPin, strings.Contains(string(data), "4821"))
			assert.Equal(t, tt.wantReason, strings.Contains(string(data), "Damaged"))
		})
	}
}

func TestViewService_MalformedListing(t *testing.T) {
	var buf bytes.Buffer
	svc := setupTestViewService(t, &buf)

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Source:  "broken.json",
		Payload: []byte(`{"tag_id": "t", "sold_at": "2024-01-01T00:00:00Z"}`),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMalformedListing)
	assert.Equal(t, 65, errors.ExitCode(err))
	assert.True(t, strings.HasPrefix(err.Error(), "broken.json: malformed listing"))

	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"msg":"malformed listing"`)
	assert.Contains(t, buf.String(), `"source":"broken.json"`)
}

func TestViewService_InvalidListing(t *testing.T) {
	svc := setupTestViewService(t, nil)

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Source:  "negative.json",
		Payload: []byte(`{"tag_id": "", "is_member": true, "min_price": -1}`),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidListing)
	assert.NotErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, 65, errors.ExitCode(err))
	assert.Equal(t, "negative.json: invalid listing", err.Error())

	var domainErr *errors.Error
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, map[string]string{
		"tag_id":    "is required",
		"min_price": "must be greater than or equal to 0",
	}, domainErr.Details)
}

func TestViewService_SparseItemDetails(t *testing.T) {
	svc := setupTestViewService(t, nil)

	payload := []byte(`{"tag_id": "tag-3", "store_id": "store-1", "item_details": {"id": "item-3", "owner_id": "member-1"}}`)

	tests := []struct {
		name       string
		auth       lifecycle.AuthState
		wantRole   lifecycle.Role
		wantAction lifecycle.ActionKind
	}{
		{"owner", lifecycle.AuthState{Authenticated: true, MemberID: "member-1"}, lifecycle.RoleOwner, lifecycle.ActionEdit},
		{"host", lifecycle.AuthState{Authenticated: true, StoreID: "store-1"}, lifecycle.RoleHost, lifecycle.ActionManage},
		{"viewer", lifecycle.Anonymous, lifecycle.RoleViewer, lifecycle.ActionBuyNow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := svc.Evaluate(context.Background(), EvaluateRequest{
				Source:  "no-item-name.json",
				Payload: payload,
				Auth:    tt.auth,
			})
			require.NoError(t, err)

			assert.Equal(t, lifecycle.CategoryActive, ev.View.Category)
			assert.Equal(t, tt.wantRole, ev.View.Role)
			assert.Equal(t, tt.wantAction, ev.View.Action.Kind)
			require.NotNil(t, ev.View.Summary)
			assert.Empty(t, ev.View.Summary.ItemName)
			assert.Equal(t, "£0.00", ev.View.Summary.Price)
		})
	}
}

func TestViewService_InvalidAuth(t *testing.T) {
	svc := setupTestViewService(t, nil)

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Payload: []byte(recalledPayload),
		Auth:    lifecycle.AuthState{Authenticated: true, MemberID: lifecycle.ID(strings.Repeat("m", 200))},
	})

	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, 64, errors.ExitCode(err))
}

func TestViewService_LogsEvaluation(t *testing.T) {
	var buf bytes.Buffer
	svc := setupTestViewService(t, &buf)

	_, err := svc.Evaluate(context.Background(), EvaluateRequest{
		Source:  "recalled.json",
		Payload: []byte(recalledPayload),
		Auth:    lifecycle.AuthState{Authenticated: true, StoreID: "store-1"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"listing evaluated"`)
	assert.Contains(t, out, `"run_id":"`+svc.RunID()+`"`)
	assert.Contains(t, out, `"view":{"category":"recalled","role":"HOST","action":"CONFIRM_COLLECT","enabled":true}`)
}

func TestViewService_CancelledContext(t *testing.T) {
	svc := setupTestViewService(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Evaluate(ctx, EvaluateRequest{Payload: []byte(recalledPayload)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestViewService_RunIDStable(t *testing.T) {
	svc := setupTestViewService(t, nil)

	assert.Regexp(t, `^run-[23456789abcdefghjkmnpqrstuvwxyz]{12}$`, svc.RunID())

	first, err := svc.Evaluate(context.Background(), EvaluateRequest{Payload: []byte(recalledPayload)})
	require.NoError(t, err)
	second, err := svc.Evaluate(context.Background(), EvaluateRequest{Payload: []byte(recalledPayload)})
	require.NoError(t, err)

	assert.Equal(t, first.View, second.View)
}
