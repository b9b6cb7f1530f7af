package record

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opticrm/opticrm/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &recordRepoPG{pool: pool}
}

func (r *recordRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const recordCols = `id, patient_id, sight_test_date, next_test_date, recall_period,
	rx_right_sph, rx_right_cyl, rx_right_axis, rx_right_add,
	rx_left_sph, rx_left_cyl, rx_left_axis, rx_left_add,
	rx_bvd, rx_inter_add, recommendations,
	dispense_category, dispense_type, lens_name, pd, heights, panto, bow,
	amount, method, discount, created_at`

func (r *recordRepoPG) scanRecord(row pgx.Row) (*ClinicalRecord, error) {
	var rec ClinicalRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.SightTestDate, &rec.NextTestDate, &rec.RecallPeriod,
		&rec.Rx.Right.Sph, &rec.Rx.Right.Cyl, &rec.Rx.Right.Axis, &rec.Rx.Right.Add,
		&rec.Rx.Left.Sph, &rec.Rx.Left.Cyl, &rec.Rx.Left.Axis, &rec.Rx.Left.Add,
		&rec.Rx.BVD, &rec.Rx.InterAdd, &rec.Recommendations,
		&rec.Dispense.Category, &rec.Dispense.Type, &rec.Dispense.LensName,
		&rec.Dispense.PD, &rec.Dispense.Heights, &rec.Dispense.Panto, &rec.Dispense.Bow,
		&rec.Payment.Amount, &rec.Payment.Method, &rec.Payment.Discount, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &rec, err
}

func (r *recordRepoPG) Create(ctx context.Context, rec *ClinicalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinical_records (id, patient_id, sight_test_date, next_test_date, recall_period,
			rx_right_sph, rx_right_cyl, rx_right_axis, rx_right_add,
			rx_left_sph, rx_left_cyl, rx_left_axis, rx_left_add,
			rx_bvd, rx_inter_add, recommendations,
			dispense_category, dispense_type, lens_name, pd, heights, panto, bow,
			amount, method, discount)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
		RETURNING created_at`,
		rec.ID, rec.PatientID, rec.SightTestDate, rec.NextTestDate, rec.RecallPeriod,
		rec.Rx.Right.Sph, rec.Rx.Right.Cyl, rec.Rx.Right.Axis, rec.Rx.Right.Add,
		rec.Rx.Left.Sph, rec.Rx.Left.Cyl, rec.Rx.Left.Axis, rec.Rx.Left.Add,
		rec.Rx.BVD, rec.Rx.InterAdd, rec.Recommendations,
		rec.Dispense.Category, rec.Dispense.Type, rec.Dispense.LensName,
		rec.Dispense.PD, rec.Dispense.Heights, rec.Dispense.Panto, rec.Dispense.Bow,
		rec.Payment.Amount, rec.Payment.Method, rec.Payment.Discount).
		Scan(&rec.CreatedAt)
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ClinicalRecord, error) {
	return r.scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM clinical_records WHERE id = $1`, id))
}

func (r *recordRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*ClinicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM clinical_records WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *recordRepoPG) ListByDay(ctx context.Context, day string) ([]*ClinicalRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM clinical_records
		 WHERE created_at >= $1::date AND created_at < $1::date + INTERVAL '1 day'
		 ORDER BY created_at`,
		day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *recordRepoPG) collect(rows pgx.Rows) ([]*ClinicalRecord, error) {
	var items []*ClinicalRecord
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func (r *recordRepoPG) UpdateAmount(ctx context.Context, id uuid.UUID, amount string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE clinical_records SET amount = $2 WHERE id = $1`, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *recordRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM clinical_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
