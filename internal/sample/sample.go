// Package sample builds realistic listing payloads, one per lifecycle
// category, for trying out the renderer.
package sample

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tagandtake/tagandtake-server/internal/id"
	"github.com/tagandtake/tagandtake-server/internal/lifecycle"
)

// Generator creates sample records. All records from one generator share a
// store and an owning member, so a single auth file resolves as HOST or
// OWNER across the whole set.
type Generator struct {
	StoreID  lifecycle.ID
	MemberID lifecycle.ID
	now      func() time.Time
}

// New creates a generator with fresh store and member ids. A nil now uses
// the wall clock.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		StoreID:  lifecycle.ID("store-" + uuid.NewString()),
		MemberID: lifecycle.ID("member-" + uuid.NewString()),
		now:      now,
	}
}

// Record builds one sample record for c.
func (g *Generator) Record(c lifecycle.Category) (lifecycle.Record, error) {
	now := g.now().UTC()
	at := func(d time.Duration) *string {
		s := now.Add(d).Format(time.RFC3339)
		return &s
	}
	const day = 24 * time.Hour

	switch c {
	case lifecycle.CategoryVacant:
		return &lifecycle.VacantTag{
			TagID:           g.id("tag"),
			StoreID:         g.StoreID,
			IsMember:        true,
			HasCapacity:     true,
			StoreConditions: []lifecycle.StoreOption{"New with tags", "Like new", "Good"},
			StoreCategories: []lifecycle.StoreOption{"Coats", "Knitwear", "Homeware"},
			MinListingDays:  14,
			StoreCommission: 25,
			MinPrice:        5,
		}, nil

	case lifecycle.CategoryActive:
		l := g.listing(*at(-20 * day))
		return &l, nil

	case lifecycle.CategoryRecalled:
		u := uuid.New()
		return &lifecycle.RecalledListing{
			ActiveListing:      g.listing(*at(-30 * day)),
			Reason:             &lifecycle.RecallReason{Reason: "Damaged on the shop floor"},
			RecalledAt:         at(-5 * day),
			CollectionDeadline: *at(9 * day),
			CollectionPin:      lifecycle.PIN(fmt.Sprintf("%04d", binary.BigEndian.Uint16(u[:2])%10000)),
		}, nil

	case lifecycle.CategoryAbandoned:
		return &lifecycle.AbandonedListing{
			ActiveListing: g.listing(*at(-60 * day)),
			Reason:        &lifecycle.RecallReason{Reason: "Not collected before the deadline"},
			AbandonedAt:   at(-1 * day),
		}, nil

	case lifecycle.CategorySold:
		return &lifecycle.SoldListing{
			ActiveListing: g.listing(*at(-12 * day)),
			SoldAt:        at(-2 * day),
		}, nil
	}

	return nil, fmt.Errorf("unknown category %q", c)
}

// Auth returns the auth state that resolves to role for every record from g.
func (g *Generator) Auth(role lifecycle.Role) lifecycle.AuthState {
	switch role {
	case lifecycle.RoleHost:
		return lifecycle.AuthState{Authenticated: true, StoreID: g.StoreID}
	case lifecycle.RoleOwner:
		return lifecycle.AuthState{Authenticated: true, MemberID: g.MemberID}
	default:
		return lifecycle.Anonymous
	}
}

// WriteAll writes one <category>.json file per category into dir, plus an
// auth-<role>.json file per role. It returns the paths written.
func (g *Generator) WriteAll(dir string, categories []lifecycle.Category) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	for _, c := range categories {
		rec, err := g.Record(c)
		if err != nil {
			return written, err
		}
		if err := write(string(c)+".json", rec); err != nil {
			return written, err
		}
	}

	for _, r := range lifecycle.Roles {
		if err := write("auth-"+strings.ToLower(string(r))+".json", g.Auth(r)); err != nil {
			return written, err
		}
	}

	return written, nil
}

func (g *Generator) listing(createdAt string) lifecycle.ActiveListing {
	itemPrice := 38.0
	listingPrice := 42.5
	return lifecycle.ActiveListing{
		ID:      lifecycle.ID(id.MustGenerate("lst")),
		TagID:   g.id("tag"),
		StoreID: g.StoreID,
		ItemDetails: lifecycle.ItemDetails{
			ID:          g.id("item"),
			OwnerID:     g.MemberID,
			Name:        "Wool overcoat",
			Description: "Charcoal, size M, worn twice",
			Price:       &itemPrice,
			Condition:   "Like new",
			Category:    "Coats",
			Images:      []string{"overcoat-front.jpg", "overcoat-back.jpg"},
		},
		ListingPrice: &listingPrice,
		CreatedAt:    createdAt,
	}
}

func (g *Generator) id(prefix string) lifecycle.ID {
	return lifecycle.ID(prefix + "-" + uuid.NewString())
}
