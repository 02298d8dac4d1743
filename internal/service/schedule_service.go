package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/course_scheduler/internal/booking"
	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingFilter narrows ListBookings. Zero fields are ignored.
type BookingFilter struct {
	TeacherID int64
	RoomID    string
	Date      string
}

// Availability is the answer to a room availability query.
type Availability struct {
	Available bool            `json:"available"`
	Conflicts []model.Booking `json:"conflicts"`
}

// ScheduleService is the single entry point to the booking core. The core is not
// safe for concurrent use, so every access goes through mu.
//
// refMu keeps directory deletes and their cascades atomic with respect to
// commits: a commit holds it shared from the reference check until the booking
// is in the index, a teacher or room delete holds it exclusively.
type ScheduleService struct {
	mu        sync.Mutex
	refMu     sync.RWMutex
	saveMu    sync.Mutex // порядок записей снимков
	colors    *booking.Palette
	ids       booking.IDSource
	index     *booking.Index
	resolver  *booking.Resolver
	committer *booking.Committer

	store    BookingStore
	teachers TeacherDirectory
	rooms    RoomDirectory
	notifier Notifier
	logger   *zap.Logger
}

func NewScheduleService(
	store BookingStore,
	teachers TeacherDirectory,
	rooms RoomDirectory,
	notifier Notifier,
	ids booking.IDSource,
	logger *zap.Logger,
) *ScheduleService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if ids == nil {
		ids = &booking.ClockIDs{}
	}

	s := &ScheduleService{
		colors:   booking.NewPalette(),
		ids:      ids,
		store:    store,
		teachers: teachers,
		rooms:    rooms,
		notifier: notifier,
		logger:   logger,
	}
	// пустой индекс до Load
	index, _ := booking.NewIndex(nil, s.colors)
	s.attach(index)

	return s
}

func (s *ScheduleService) attach(index *booking.Index) {
	s.index = index
	s.resolver = booking.NewResolver(index)
	s.committer = booking.NewCommitter(index, s.resolver, s.ids)
}

// Load replaces the in-memory bookings with the stored snapshot
func (s *ScheduleService) Load(ctx context.Context) error {
	bookings, err := s.store.LoadBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}

	index, err := booking.NewIndex(bookings, s.colors)
	if err != nil {
		return fmt.Errorf("build booking index: %w", err)
	}

	s.mu.Lock()
	s.attach(index)
	s.mu.Unlock()

	s.logger.Info("Bookings loaded", zap.Int("count", len(bookings)))
	return nil
}

// Snapshot writes the current bookings to the store. Snapshots are written one
// at a time and each one is taken after the previous write finished, so a slow
// write never overwrites a newer state.
func (s *ScheduleService) Snapshot(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	bookings := s.index.All()
	s.mu.Unlock()

	if err := s.store.SaveBookings(ctx, bookings); err != nil {
		return fmt.Errorf("save bookings: %w", err)
	}
	return nil
}

// persist saves after a mutation. The in-memory index stays authoritative:
// a failed save is logged and retried by the next periodic snapshot.
func (s *ScheduleService) persist(ctx context.Context) {
	if err := s.Snapshot(ctx); err != nil {
		s.logger.Error("Failed to save bookings snapshot", zap.Error(err))
	}
}

// ============ Бронирования ============

// CommitBooking creates a booking or, when req.ExcludeID is set, edits one in place
func (s *ScheduleService) CommitBooking(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	b, err := s.commit(ctx, req)
	if err != nil {
		return model.Booking{}, err
	}

	s.persist(ctx)

	s.logger.Info("Booking committed",
		zap.Int64("booking_id", b.ID),
		zap.Int64("teacher_id", b.TeacherID),
		zap.String("room_id", b.RoomID),
		zap.String("date", b.Date),
		zap.String("start", b.StartTime),
		zap.String("end", b.EndTime),
		zap.Bool("edited", req.IsEdit()),
	)

	if err := s.notifier.BookingCommitted(ctx, b, req.IsEdit()); err != nil {
		s.logger.Warn("Failed to notify about booking", zap.Int64("booking_id", b.ID), zap.Error(err))
	}

	return b, nil
}

func (s *ScheduleService) commit(ctx context.Context, req model.BookingRequest) (model.Booking, error) {
	s.refMu.RLock()
	defer s.refMu.RUnlock()

	if err := s.checkReferences(ctx, req.TeacherID, req.RoomID); err != nil {
		return model.Booking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.committer.Commit(req)
}

func (s *ScheduleService) checkReferences(ctx context.Context, teacherID int64, roomID string) error {
	ok, err := s.teachers.Exists(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("check teacher: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrTeacherNotFound, teacherID)
	}

	if roomID == "" {
		return nil
	}

	ok, err = s.rooms.Exists(ctx, roomID)
	if err != nil {
		return fmt.Errorf("check room: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return nil
}

// DeleteBooking removes a booking. Returns booking.ErrNotFound when it does not exist.
func (s *ScheduleService) DeleteBooking(ctx context.Context, id int64) error {
	s.mu.Lock()
	b, err := s.index.Get(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.committer.Delete(id)
	s.mu.Unlock()

	s.persist(ctx)

	s.logger.Info("Booking deleted", zap.Int64("booking_id", id))

	if err := s.notifier.BookingDeleted(ctx, b); err != nil {
		s.logger.Warn("Failed to notify about deleted booking", zap.Int64("booking_id", id), zap.Error(err))
	}

	return nil
}

func (s *ScheduleService) GetBooking(id int64) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.index.Get(id)
}

// ListBookings returns bookings in insertion order
func (s *ScheduleService) ListBookings(filter BookingFilter) []model.Booking {
	s.mu.Lock()
	var bookings []model.Booking
	switch {
	case filter.TeacherID != 0:
		bookings = s.index.ByTeacher(filter.TeacherID)
	case filter.RoomID != "":
		bookings = s.index.ByRoom(filter.RoomID)
	case filter.Date != "":
		bookings = s.index.ByDate(filter.Date)
	default:
		bookings = s.index.All()
	}
	s.mu.Unlock()

	result := bookings[:0]
	for _, b := range bookings {
		if filter.TeacherID != 0 && b.TeacherID != filter.TeacherID {
			continue
		}
		if filter.RoomID != "" && b.RoomID != filter.RoomID {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		result = append(result, b)
	}
	return result
}

// CheckAvailability reports whether the room is free for the interval and
// which bookings are in the way if it is not.
func (s *ScheduleService) CheckAvailability(roomID, date, start, end string, excludeID *int64) (Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.resolver.ValidateTimeOrder(start, end); err != nil {
		return Availability{}, err
	}

	conflicts, err := s.resolver.Conflicts(roomID, date, start, end, excludeID)
	if err != nil {
		return Availability{}, err
	}
	if conflicts == nil {
		conflicts = []model.Booking{}
	}

	return Availability{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// ColorFor returns the display color of a subject
func (s *ScheduleService) ColorFor(subject string) string {
	return s.colors.ColorFor(subject)
}

// ============ Преподаватели ============

func (s *ScheduleService) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return err
	}

	s.logger.Info("Teacher created", zap.Int64("teacher_id", teacher.ID), zap.String("name", teacher.Name))
	return nil
}

func (s *ScheduleService) GetTeacher(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if teacher == nil {
		return nil, fmt.Errorf("%w: %d", ErrTeacherNotFound, id)
	}
	return teacher, nil
}

func (s *ScheduleService) ListTeachers(ctx context.Context) ([]*model.Teacher, error) {
	return s.teachers.List(ctx)
}

func (s *ScheduleService) UpdateTeacher(ctx context.Context, teacher *model.Teacher) error {
	if _, err := s.GetTeacher(ctx, teacher.ID); err != nil {
		return err
	}
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return teacherNotFound(err, teacher.ID)
	}

	s.logger.Info("Teacher updated", zap.Int64("teacher_id", teacher.ID))
	return nil
}

// DeleteTeacher removes the teacher and every booking they hold
func (s *ScheduleService) DeleteTeacher(ctx context.Context, id int64) error {
	s.refMu.Lock()
	if _, err := s.GetTeacher(ctx, id); err != nil {
		s.refMu.Unlock()
		return err
	}
	if err := s.teachers.Delete(ctx, id); err != nil {
		s.refMu.Unlock()
		return teacherNotFound(err, id)
	}

	s.mu.Lock()
	removed := s.index.RemoveByTeacher(id)
	s.mu.Unlock()
	s.refMu.Unlock()

	if removed > 0 {
		s.persist(ctx)
	}

	s.logger.Info("Teacher deleted", zap.Int64("teacher_id", id), zap.Int("bookings_removed", removed))
	return nil
}

// ============ Аудитории ============

// CreateRoom stores a room; a random id is assigned when none is given
func (s *ScheduleService) CreateRoom(ctx context.Context, room *model.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	} else {
		exists, err := s.rooms.Exists(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("check room: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: room %s", booking.ErrDuplicateID, room.ID)
		}
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return err
	}

	s.logger.Info("Room created", zap.String("room_id", room.ID), zap.String("name", room.Name))
	return nil
}

func (s *ScheduleService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

func (s *ScheduleService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return s.rooms.List(ctx)
}

func (s *ScheduleService) UpdateRoom(ctx context.Context, room *model.Room) error {
	if _, err := s.GetRoom(ctx, room.ID); err != nil {
		return err
	}
	if err := s.rooms.Update(ctx, room); err != nil {
		return roomNotFound(err, room.ID)
	}

	s.logger.Info("Room updated", zap.String("room_id", room.ID))
	return nil
}

// DeleteRoom removes the room; its bookings stay but lose the room assignment
func (s *ScheduleService) DeleteRoom(ctx context.Context, id string) error {
	s.refMu.Lock()
	if _, err := s.GetRoom(ctx, id); err != nil {
		s.refMu.Unlock()
		return err
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		s.refMu.Unlock()
		return roomNotFound(err, id)
	}

	s.mu.Lock()
	cleared := s.index.ClearRoomAssignment(id)
	s.mu.Unlock()
	s.refMu.Unlock()

	if cleared > 0 {
		s.persist(ctx)
	}

	s.logger.Info("Room deleted", zap.String("room_id", id), zap.Int("bookings_unassigned", cleared))
	return nil
}

// teacherNotFound maps a row that disappeared between the lookup and the write
func teacherNotFound(err error, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrTeacherNotFound, id)
	}
	return err
}

func roomNotFound(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return err
}

// IsNotFound reports whether err means a missing booking, teacher or room
func IsNotFound(err error) bool {
	return errors.Is(err, booking.ErrNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrRoomNotFound) ||
		errors.Is(err, repository.ErrNotFound)
}
