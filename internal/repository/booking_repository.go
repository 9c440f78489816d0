package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillverse/marketplace-backend/internal/models"
	"github.com/skillverse/marketplace-backend/internal/repository/common"
)

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotNotOwned = errors.New("slot belongs to another provider")
)

type BookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// bookSlotTx бронирует слот внутри внешней транзакции. Слот берётся
// под блокировку, чтобы два заказа не заняли его одновременно.
// Слот должен принадлежать исполнителю заказа.
func bookSlotTx(ctx context.Context, tx *sqlx.Tx, slotID, orderID, clientID, providerID uuid.UUID) error {
	var slot models.AvailabilitySlot
	err := tx.GetContext(ctx, &slot, `
		SELECT * FROM availability_slots WHERE id = $1 FOR UPDATE
	`, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("booking repository: lock slot %w", err)
	}
	if slot.ProviderID != providerID {
		return ErrSlotNotOwned
	}
	if slot.IsBooked {
		return ErrSlotTaken
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE availability_slots SET is_booked = TRUE WHERE id = $1
	`, slotID)
	if err != nil {
		return fmt.Errorf("booking repository: mark slot booked %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (slot_id, order_id, client_id, status)
		VALUES ($1, $2, $3, $4)
	`, slotID, orderID, clientID, models.BookingStatusActive)
	if err != nil {
		return fmt.Errorf("booking repository: create booking %w", err)
	}

	return nil
}

// releaseSlotByOrderTx снимает активную бронь заказа внутри внешней
// транзакции. Отсутствие брони не считается ошибкой.
func releaseSlotByOrderTx(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID) error {
	var booking models.Booking
	err := tx.GetContext(ctx, &booking, `
		SELECT * FROM bookings WHERE order_id = $1 AND status = $2 FOR UPDATE
	`, orderID, models.BookingStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("booking repository: lock booking %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1
	`, booking.ID, models.BookingStatusCancelled)
	if err != nil {
		return fmt.Errorf("booking repository: cancel booking %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE availability_slots SET is_booked = FALSE WHERE id = $1
	`, booking.SlotID)
	if err != nil {
		return fmt.Errorf("booking repository: free slot %w", err)
	}

	return nil
}

// CreateSlots добавляет слоты исполнителя, пропуская пересечения
// с уже существующими. Возвращает фактически созданные слоты.
func (r *BookingRepository) CreateSlots(ctx context.Context, providerID uuid.UUID, windows [][2]time.Time) ([]models.AvailabilitySlot, error) {
	created := make([]models.AvailabilitySlot, 0, len(windows))

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		inserter := common.NewBatchInserter(tx,
			`INSERT INTO availability_slots (id, provider_id, start_time, end_time, created_at)`, 5, 100)

		now := time.Now().UTC()
		for _, w := range windows {
			var overlaps bool
			err := tx.GetContext(ctx, &overlaps, `
				SELECT EXISTS (
					SELECT 1 FROM availability_slots
					WHERE provider_id = $1 AND start_time < $3 AND end_time > $2
				)
			`, providerID, w[0], w[1])
			if err != nil {
				return fmt.Errorf("booking repository: check overlap %w", err)
			}
			if overlaps {
				continue
			}

			slot := models.AvailabilitySlot{
				ID:         uuid.New(),
				ProviderID: providerID,
				StartTime:  w[0],
				EndTime:    w[1],
				CreatedAt:  now,
			}
			if err := inserter.Add(ctx, slot.ID, slot.ProviderID, slot.StartTime, slot.EndTime, slot.CreatedAt); err != nil {
				return fmt.Errorf("booking repository: create slot %w", err)
			}
			created = append(created, slot)
		}

		return inserter.Flush(ctx)
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetSlot возвращает слот по идентификатору.
func (r *BookingRepository) GetSlot(ctx context.Context, slotID uuid.UUID) (*models.AvailabilitySlot, error) {
	return common.GetByID[models.AvailabilitySlot](ctx, r.db, "availability_slots", slotID, ErrSlotNotFound)
}

// ListSlots возвращает слоты исполнителя в хронологическом порядке.
// При onlyFree пропускает занятые.
func (r *BookingRepository) ListSlots(ctx context.Context, providerID uuid.UUID, onlyFree bool) ([]models.AvailabilitySlot, error) {
	query := `SELECT * FROM availability_slots WHERE provider_id = $1`
	if onlyFree {
		query += ` AND is_booked = FALSE AND start_time > NOW()`
	}
	query += ` ORDER BY start_time ASC`

	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, providerID); err != nil {
		return nil, fmt.Errorf("booking repository: list slots %w", err)
	}
	return slots, nil
}

// DeleteSlot удаляет свободный слот исполнителя. Занятый слот удалить нельзя.
func (r *BookingRepository) DeleteSlot(ctx context.Context, providerID, slotID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var slot models.AvailabilitySlot
	err = tx.GetContext(ctx, &slot, `
		SELECT * FROM availability_slots WHERE id = $1 AND provider_id = $2 FOR UPDATE
	`, slotID, providerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("booking repository: lock slot %w", err)
	}
	if slot.IsBooked {
		return ErrSlotTaken
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM availability_slots WHERE id = $1`, slotID); err != nil {
		return fmt.Errorf("booking repository: delete slot %w", err)
	}

	return tx.Commit()
}

// GetBookingByOrderID возвращает бронь заказа.
func (r *BookingRepository) GetBookingByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Booking, error) {
	return common.GetByField[models.Booking](ctx, r.db, "bookings", "order_id", orderID, common.ErrNotFound)
}

// ListBookingsByClient возвращает брони клиента, новые первыми.
func (r *BookingRepository) ListBookingsByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT * FROM bookings WHERE client_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("booking repository: list bookings %w", err)
	}
	return bookings, nil
}
