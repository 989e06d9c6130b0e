package lifecycle

// Redact returns a copy of rec holding only what role may see:
//
//   - the collection pin is kept for OWNER only
//   - the recall reason and collection deadline are kept for OWNER and HOST
//
// rec itself is never modified. Vacant and active records carry nothing
// sensitive and are returned as they are.
func Redact(rec Record, role Role) Record {
	if invalid(rec) {
		return rec
	}

	switch r := rec.(type) {
	case *RecalledListing:
		c := *r
		if role != RoleOwner {
			c.CollectionPin = ""
		}
		if role != RoleOwner && role != RoleHost {
			c.Reason = nil
			c.CollectionDeadline = ""
		}
		return &c

	case *AbandonedListing:
		c := *r
		if role != RoleOwner && role != RoleHost {
			c.Reason = nil
		}
		return &c
	}

	return rec
}
