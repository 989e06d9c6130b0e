package lifecycle

// Formatter renders the dates and prices that appear on a card.
type Formatter interface {
	DateFormatter
	ShortDate(iso string) string
	Currency(amount *float64) string
}

// View is everything a renderer needs to draw one card.
type View struct {
	RunID         string          `json:"run_id,omitempty"`
	TagID         ID              `json:"tag_id"`
	Category      Category        `json:"category"`
	Role          Role            `json:"role"`
	StatusMessage *StatusMessage  `json:"status_message"`
	Action        ActionDirective `json:"action"`
	Summary       *Summary        `json:"summary,omitempty"`
}

// Summary is the item line shown on listing cards.
type Summary struct {
	ItemName string `json:"item_name"`
	Price    string `json:"price"`
	ListedOn string `json:"listed_on,omitempty"`
}

// Render derives the complete view of rec for role. It does not redact;
// callers pass a record already filtered with Redact. A nil f renders with
// the package-level helpers in internal/format.
func Render(rec Record, role Role, f Formatter) (View, error) {
	if f == nil {
		f = defaults{}
	}
	msg, err := DeriveStatusMessage(rec, role, f)
	if err != nil {
		return View{}, err
	}
	action, err := DeriveAction(rec, role)
	if err != nil {
		return View{}, err
	}

	view := View{
		Category:      rec.Category(),
		Role:          role,
		StatusMessage: msg,
		Action:        action,
	}

	if v, ok := rec.(*VacantTag); ok {
		view.TagID = v.TagID
		return view, nil
	}

	l, _ := listing(rec)
	view.TagID = l.TagID
	view.Summary = &Summary{
		ItemName: l.ItemDetails.Name,
		Price:    f.Currency(l.Price()),
	}
	if l.CreatedAt != "" {
		view.Summary.ListedOn = f.ShortDate(l.CreatedAt)
	}
	return view, nil
}
