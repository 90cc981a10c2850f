package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/reservation"
)

type reservationRepository struct {
	table *Table[ReservationModel]
}

// NewReservationRepository 创建预约仓储
func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &reservationRepository{table: NewTable[ReservationModel](db)}
}

func (r *reservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if err := r.table.Put(ctx, fromReservationEntity(res), ExpectNotExist); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return reservation.ErrAlreadyReserved
		}
		return err
	}
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	m, err := r.table.Get(ctx, Key{"reservation_id": id})
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, err
	}
	return toReservationEntity(m), nil
}

func (r *reservationRepository) ListByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	return r.list(ctx, ScanQuery{Filter: Key{"user_id": userID}, Limit: -1, OrderBy: "created_at", Desc: true})
}

func (r *reservationRepository) ListByBook(ctx context.Context, bookID string) ([]*reservation.Reservation, error) {
	return r.list(ctx, ScanQuery{Filter: Key{"book_id": bookID}, Limit: -1, OrderBy: "created_at", Desc: true})
}

func (r *reservationRepository) ListActive(ctx context.Context, limit int) ([]*reservation.Reservation, error) {
	return r.list(ctx, ScanQuery{
		Filter:  Key{"status": string(reservation.StatusReserved)},
		Limit:   limit,
		OrderBy: "reserve_date",
	})
}

func (r *reservationRepository) list(ctx context.Context, q ScanQuery) ([]*reservation.Reservation, error) {
	rows, err := r.table.Scan(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*reservation.Reservation, len(rows))
	for i, m := range rows {
		out[i] = toReservationEntity(m)
	}
	return out, nil
}

// Transition reserved → target，同时释放active_key
func (r *reservationRepository) Transition(ctx context.Context, id string, target reservation.Status) error {
	err := r.table.Update(ctx, Key{"reservation_id": id}, map[string]any{
		"status":     string(target),
		"active_key": nil,
		"updated_at": time.Now().Unix(),
	}, Where("status = ?", string(reservation.StatusReserved)))
	if errors.Is(err, ErrConditionFailed) {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
		return reservation.ErrNotActive
	}
	return err
}

func fromReservationEntity(res *reservation.Reservation) *ReservationModel {
	m := &ReservationModel{
		ReservationID:      res.ID,
		BookID:             res.BookID,
		UserID:             res.UserID,
		ReserveDate:        res.ReserveDate,
		TimeSlot:           res.TimeSlot,
		Days:               res.Days,
		ExpectedReturnDate: res.ExpectedReturnDate,
		Status:             string(res.Status),
		CreatedAt:          res.CreatedAt,
		UpdatedAt:          res.UpdatedAt,
	}
	if res.IsActive() {
		m.ActiveKey = strPtr(reservation.ActiveKey(res.UserID, res.BookID))
	}
	return m
}

func toReservationEntity(m *ReservationModel) *reservation.Reservation {
	return &reservation.Reservation{
		ID:                 m.ReservationID,
		BookID:             m.BookID,
		UserID:             m.UserID,
		ReserveDate:        m.ReserveDate,
		TimeSlot:           m.TimeSlot,
		Days:               m.Days,
		ExpectedReturnDate: m.ExpectedReturnDate,
		Status:             reservation.Status(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
