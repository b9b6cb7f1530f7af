package patient

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. One row per person; clinical records
// reference it by ID and accumulate separately. Dates are stored as
// yyyy-MM-dd strings, the empty string meaning "not set" — presentation in
// dd/MM/yyyy is the client's concern.
type Patient struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	DisplayID    string     `db:"display_id" json:"display_id"`
	FullName     string     `db:"full_name" json:"full_name"`
	DOB          string     `db:"dob" json:"dob"`
	Address      string     `db:"address" json:"address"`
	NextTestDate string     `db:"next_test_date" json:"next_test_date"`
	LastSeen     *time.Time `db:"last_seen" json:"last_seen,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// NumericDisplayID parses the display ID as an integer. Absent or malformed
// IDs count as 0, matching the allocator's tolerance for legacy rows.
func (p *Patient) NumericDisplayID() int {
	n, err := strconv.Atoi(strings.TrimSpace(p.DisplayID))
	if err != nil {
		return 0
	}
	return n
}

// NextDisplayID computes the display ID for a new patient from the currently
// loaded patient set: max numeric ID + 1, zero-padded to three digits. IDs
// past 999 simply grow a digit. Pure function; the caller persists the result.
func NextDisplayID(existing []*Patient) string {
	max := 0
	for _, p := range existing {
		if n := p.NumericDisplayID(); n > max {
			max = n
		}
	}
	return fmt.Sprintf("%03d", max+1)
}

// Filter narrows the directory. Every supplied criterion must match
// (logical AND); an empty criterion matches everything. ID, name and address
// are substring matches — name and address case-insensitively — and DOB is a
// substring match against the raw date string, so "1984" or "03-15" both work.
// DueFrom/DueTo bound the next test date inclusively.
type Filter struct {
	DisplayID string
	Name      string
	Address   string
	DOB       string
	DueFrom   string
	DueTo     string
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches reports whether a patient satisfies every supplied criterion.
// Missing patient fields are treated as empty strings.
func (f Filter) Matches(p *Patient) bool {
	if !strings.Contains(p.DisplayID, f.DisplayID) {
		return false
	}
	if !strings.Contains(strings.ToLower(p.FullName), strings.ToLower(f.Name)) {
		return false
	}
	if !strings.Contains(strings.ToLower(p.Address), strings.ToLower(f.Address)) {
		return false
	}
	if !strings.Contains(p.DOB, f.DOB) {
		return false
	}
	if f.DueFrom != "" && (p.NextTestDate == "" || p.NextTestDate < f.DueFrom) {
		return false
	}
	if f.DueTo != "" && (p.NextTestDate == "" || p.NextTestDate > f.DueTo) {
		return false
	}
	return true
}

// Apply returns the subset of patients matching the filter. The input slice
// is not modified; a zero filter returns it as-is.
func Apply(patients []*Patient, f Filter) []*Patient {
	if f.IsZero() {
		return patients
	}
	var out []*Patient
	for _, p := range patients {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// SortByDisplayIDDesc orders patients newest-assigned first. Numeric
// comparison, not lexicographic: "1000" sorts above "999". This is the one
// canonical directory order.
func SortByDisplayIDDesc(patients []*Patient) {
	sort.SliceStable(patients, func(i, j int) bool {
		return patients[i].NumericDisplayID() > patients[j].NumericDisplayID()
	})
}
