package record

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opticrm/opticrm/internal/domain/patient"
)

var (
	// ErrInvalidRecallPeriod flags a recall interval outside the
	// enumerated set. A present-but-wrong value is a client error;
	// only an absent one is defaulted away.
	ErrInvalidRecallPeriod = errors.New("invalid recall period")
	// ErrSecretMismatch is returned by the price revision guard.
	ErrSecretMismatch = errors.New("price revision secret mismatch")
)

// VisitDraft is one form submission: the patient section, an optional
// pre-selected patient, and the clinical/dispensing/payment sections.
// Recall period arrives as form text ("12") and is parsed here.
type VisitDraft struct {
	PatientID       string   `json:"patient_id"`
	FullName        string   `json:"full_name"`
	DOB             string   `json:"dob"`
	Address         string   `json:"address"`
	SightTestDate   string   `json:"sight_test_date"`
	RecallPeriod    string   `json:"recall_period"`
	Rx              Rx       `json:"rx"`
	Recommendations string   `json:"recommendations"`
	Dispense        Dispense `json:"dispense"`
	Payment         Payment  `json:"payment"`
}

// TxRunner executes fn atomically. Production wiring uses db.WithTx; tests
// pass nil and run without transactions.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	records        Repository
	patients       patient.Repository
	runTx          TxRunner
	revisionSecret string
}

func NewService(records Repository, patients patient.Repository, runTx TxRunner, revisionSecret string) *Service {
	if runTx == nil {
		runTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		}
	}
	return &Service{
		records:        records,
		patients:       patients,
		runTx:          runTx,
		revisionSecret: revisionSecret,
	}
}

// SubmitVisit is the submission handler. It resolves the patient — using
// the pre-selected one when given, otherwise creating a new patient with
// the next display ID — then creates the clinical record with every
// optional field defaulted, and finally stamps the patient's next-due date
// and last-seen time. The writes run in one transaction, so the original
// design's "patient created, record lost" window does not occur.
func (s *Service) SubmitVisit(ctx context.Context, draft *VisitDraft) (*ClinicalRecord, *patient.Patient, error) {
	recallMonths, err := parseRecallPeriod(draft.RecallPeriod)
	if err != nil {
		return nil, nil, err
	}

	nextDue, err := NextDueDate(draft.SightTestDate, recallMonths)
	if err != nil {
		return nil, nil, fmt.Errorf("compute next due date: %w", err)
	}

	var (
		pat *patient.Patient
		rec *ClinicalRecord
	)
	err = s.runTx(ctx, func(ctx context.Context) error {
		pat, err = s.resolvePatient(ctx, draft)
		if err != nil {
			return err
		}

		rec = &ClinicalRecord{
			PatientID:       pat.ID,
			SightTestDate:   draft.SightTestDate,
			NextTestDate:    nextDue,
			RecallPeriod:    recallMonths,
			Rx:              draft.Rx,
			Recommendations: draft.Recommendations,
			Dispense:        draft.Dispense,
			Payment:         draft.Payment,
		}
		rec.ApplyDefaults()
		if err := rec.Validate(); err != nil {
			return err
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return fmt.Errorf("create clinical record: %w", err)
		}

		if err := s.patients.UpdateRecall(ctx, pat.ID, nextDue, time.Now()); err != nil {
			return fmt.Errorf("update patient recall: %w", err)
		}
		pat.NextTestDate = nextDue
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, pat, nil
}

func (s *Service) resolvePatient(ctx context.Context, draft *VisitDraft) (*patient.Patient, error) {
	if strings.TrimSpace(draft.PatientID) != "" {
		id, err := uuid.Parse(draft.PatientID)
		if err != nil {
			return nil, fmt.Errorf("invalid patient id %q", draft.PatientID)
		}
		pat, err := s.patients.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return pat, nil
	}

	existing, err := s.patients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patients for id allocation: %w", err)
	}
	pat := &patient.Patient{
		DisplayID: patient.NextDisplayID(existing),
		FullName:  draft.FullName,
		DOB:       draft.DOB,
		Address:   draft.Address, // "" when the lookup produced nothing
	}
	if err := s.patients.Create(ctx, pat); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return pat, nil
}

func parseRecallPeriod(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || !ValidRecallPeriod(months) {
		return 0, fmt.Errorf("%w: %q is not one of %v", ErrInvalidRecallPeriod, raw, RecallPeriods)
	}
	return months, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*ClinicalRecord, error) {
	return s.records.ListByPatient(ctx, patientID)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.records.Delete(ctx, id)
}

// ReviseAmount is the price revision guard: the only mutation allowed on a
// persisted record, and only with the shared secret. On mismatch nothing is
// read or written.
func (s *Service) ReviseAmount(ctx context.Context, id uuid.UUID, amount, secret string) error {
	if s.revisionSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.revisionSecret)) != 1 {
		return ErrSecretMismatch
	}
	return s.records.UpdateAmount(ctx, id, amount)
}
