package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/tablebooking/internal/domain"
	"github.com/Domenick1991/tablebooking/internal/kafka"
	"github.com/Domenick1991/tablebooking/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	PublishReminders(ctx context.Context) ([]domain.Reservation, error)
}

// Cache is the redis-backed helper surface the booking service uses. The
// slot lock is an optimization that fails same-slot races fast; correctness
// comes from the repository's serializable transaction.
type Cache interface {
	AcquireSlotLock(ctx context.Context, tableID int64, slot time.Time, ttl time.Duration) (bool, error)
	ReleaseSlotLock(ctx context.Context, tableID int64, slot time.Time) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	reservations       repository.ReservationRepository
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	lockTTL            time.Duration
	reminderLead       time.Duration
}

type CreateReservationInput struct {
	DinerNames []string  `json:"diners"`
	DinerIDs   []int64   `json:"diner_ids"`
	StartsAt   time.Time `json:"time"`
	TableID    int64     `json:"table_id"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithReminderLead(lead time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.reminderLead = lead
	}
}

func NewBookingService(
	reservations repository.ReservationRepository,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		reservations:      reservations,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		lockTTL:           lockTTL,
		reminderLead:      time.Hour,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateReservation books a table at the requested time for the resolved
// diners. Diner resolution, both overlap checks and the insert happen in
// one repository transaction, so a failure leaves nothing persisted.
func (s *BookingService) CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.TableID <= 0 {
		return nil, fmt.Errorf("%w: table id must be positive", domain.ErrInvalidInput)
	}
	if input.StartsAt.IsZero() {
		return nil, fmt.Errorf("%w: time is required", domain.ErrInvalidInput)
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSlotLock(ctx, input.TableID, input.StartsAt, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrTableConflict
		}
		locked = true
	}

	res, err := s.reservations.Create(ctx, repository.CreateReservationParams{
		TableID:    input.TableID,
		StartsAt:   input.StartsAt,
		DinerNames: input.DinerNames,
		DinerIDs:   input.DinerIDs,
	})
	if err != nil {
		if locked {
			_ = s.cache.ReleaseSlotLock(ctx, input.TableID, input.StartsAt)
		}
		return nil, err
	}
	// Keep the slot lock until its TTL expires; the reservation row now
	// guards the slot anyway.

	if err := s.publish(ctx, "reservation_created", res); err != nil {
		log.Printf("WARNING: failed to publish reservation_created for reservation %d: %v", res.ID, err)
	}
	return res, nil
}

// CancelReservation deletes the reservation and its diner links; diners and
// tables survive.
func (s *BookingService) CancelReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return nil, err
	}
	if err := s.publish(ctx, "reservation_cancelled", res); err != nil {
		log.Printf("WARNING: failed to publish reservation_cancelled for reservation %d: %v", res.ID, err)
	}
	return res, nil
}

// PublishReminders emits a reminder event for every reservation starting
// within the lead window that has not been reminded yet.
func (s *BookingService) PublishReminders(ctx context.Context) ([]domain.Reservation, error) {
	now := time.Now()
	due, err := s.reservations.DueForReminder(ctx, now, now.Add(s.reminderLead))
	if err != nil {
		return nil, err
	}
	for _, res := range due {
		if err := s.publish(ctx, "reservation_reminder", &res); err != nil {
			log.Printf("WARNING: failed to publish reservation_reminder for reservation %d: %v", res.ID, err)
			continue
		}
		if err := s.reservations.MarkReminded(ctx, res.ID); err != nil {
			log.Printf("WARNING: failed to mark reservation %d reminded: %v", res.ID, err)
		}
	}
	return due, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, res *domain.Reservation) error {
	if s.producer == nil || s.reservationsTopic == "" {
		return nil
	}
	names := make([]string, 0, len(res.Diners))
	for _, d := range res.Diners {
		names = append(names, d.Name)
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		EventID:       uuid.NewString(),
		ReservationID: res.ID,
		TableID:       res.TableID,
		Restaurant:    res.RestaurantName,
		Diners:        names,
		StartsAt:      res.StartsAt,
	}
	if err := s.producer.Publish(ctx, s.reservationsTopic, event.EventID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, event.EventID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
