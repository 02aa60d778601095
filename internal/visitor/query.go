package visitor

import "strings"

// FindByPhone returns the first record whose phone number equals phone
// exactly. No normalization is applied.
func FindByPhone(records []Visitor, phone string) (Visitor, bool) {
	for _, v := range records {
		if v.PhoneNumber == phone {
			return v, true
		}
	}
	return Visitor{}, false
}

// FindByID returns the record with the given id.
func FindByID(records []Visitor, id string) (Visitor, bool) {
	for _, v := range records {
		if v.ID == id {
			return v, true
		}
	}
	return Visitor{}, false
}

// Search returns records whose name contains term (case-insensitive) or
// whose phone number contains term, in their original order.
func Search(records []Visitor, term string) []Visitor {
	if term == "" {
		out := make([]Visitor, len(records))
		copy(out, records)
		return out
	}

	lower := strings.ToLower(term)
	out := make([]Visitor, 0)
	for _, v := range records {
		if strings.Contains(strings.ToLower(v.FullName), lower) || strings.Contains(v.PhoneNumber, term) {
			out = append(out, v)
		}
	}
	return out
}

// SplitByStatus partitions records into the actionable queue and the
// decided history, preserving order in both.
func SplitByStatus(records []Visitor) (pending, decided []Visitor) {
	pending = make([]Visitor, 0)
	decided = make([]Visitor, 0)
	for _, v := range records {
		if v.Status == Pending {
			pending = append(pending, v)
		} else {
			decided = append(decided, v)
		}
	}
	return pending, decided
}
