package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the stored form of every calendar date in the system.
const DateLayout = "2006-01-02"

// RecallPeriods is the enumerated set of valid recall intervals, in months.
var RecallPeriods = []int{3, 6, 9, 12, 18, 24}

// ValidRecallPeriod reports whether months is one of the enumerated
// recall intervals.
func ValidRecallPeriod(months int) bool {
	for _, m := range RecallPeriods {
		if m == months {
			return true
		}
	}
	return false
}

// EyeRx holds one eye's prescription values. Values are kept as entered —
// "+2.00", "-0.75", "180" — because they are clinical notation, not numbers
// the system computes with.
type EyeRx struct {
	Sph  string `json:"sph"`
	Cyl  string `json:"cyl"`
	Axis string `json:"axis"`
	Add  string `json:"add"`
}

// Rx is the full prescription block.
type Rx struct {
	Right    EyeRx  `json:"right"`
	Left     EyeRx  `json:"left"`
	BVD      string `json:"bvd"`
	InterAdd string `json:"inter_add"`
}

// Dispense describes the product issued and its fitting measurements.
type Dispense struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	LensName string `json:"lens_name"`
	PD       string `json:"pd"`
	Heights  string `json:"heights"`
	Panto    string `json:"panto"`
	Bow      string `json:"bow"`
}

// Payment is the transaction block. Amount stays a string: it is entered,
// displayed and revised as text and only the daily report parses it.
type Payment struct {
	Amount   string `json:"amount"`
	Method   string `json:"method"`
	Discount string `json:"discount"`
}

// ClinicalRecord maps to the clinical_records table — one per visit, many
// per patient. After creation only the payment amount may change, and only
// through the price revision guard.
type ClinicalRecord struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	SightTestDate   string    `db:"sight_test_date" json:"sight_test_date"`
	NextTestDate    string    `db:"next_test_date" json:"next_test_date"`
	RecallPeriod    int       `db:"recall_period" json:"recall_period"`
	Rx              Rx        `json:"rx"`
	Recommendations string    `db:"recommendations" json:"recommendations"`
	Dispense        Dispense  `json:"dispense"`
	Payment         Payment   `json:"payment"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ApplyDefaults makes every optional field total. A half-filled form must
// never abort a save, so missing values become their defined defaults:
// text fields the empty string, the amount "0", the payment method "Other"
// and the discount "None".
func (r *ClinicalRecord) ApplyDefaults() {
	if r.Dispense.Category == "" {
		r.Dispense.Category = "Other"
	}
	if r.Payment.Amount == "" {
		r.Payment.Amount = "0"
	}
	if r.Payment.Method == "" {
		r.Payment.Method = "Other"
	}
	if r.Payment.Discount == "" {
		r.Payment.Discount = "None"
	}
}

// Validate checks the cross-field invariants that defaulting cannot repair.
func (r *ClinicalRecord) Validate() error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.RecallPeriod != 0 && !ValidRecallPeriod(r.RecallPeriod) {
		return fmt.Errorf("recall period must be one of %v months, got %d", RecallPeriods, r.RecallPeriod)
	}
	if r.SightTestDate != "" && r.NextTestDate != "" && r.SightTestDate > r.NextTestDate {
		return fmt.Errorf("sight test date %s is after next test date %s", r.SightTestDate, r.NextTestDate)
	}
	return nil
}

// AddMonthsClamped adds months using calendar arithmetic, preserving the
// day-of-month where the target month has it and clamping to the month's
// last day otherwise (31 Jan + 1 month is 28 or 29 Feb, never 2/3 Mar).
func AddMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// NextDueDate derives the next examination date from a sight test date and
// a recall interval. Either input absent yields an empty result, not an
// error: the due date is simply left blank until both are known.
func NextDueDate(sightTestDate string, recallMonths int) (string, error) {
	if sightTestDate == "" || recallMonths == 0 {
		return "", nil
	}
	t, err := time.Parse(DateLayout, sightTestDate)
	if err != nil {
		return "", fmt.Errorf("parse sight test date %q: %w", sightTestDate, err)
	}
	return AddMonthsClamped(t, recallMonths).Format(DateLayout), nil
}
