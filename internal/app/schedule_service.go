package app

import (
	"context"
	"strconv"
	"sync"
	"time"

	"deerhacks-service/internal/domain"
	"deerhacks-service/internal/schedule"
	"go.uber.org/zap"
)

// EventStore is the source of truth for schedule events.
type EventStore interface {
	List(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, id int64) (domain.Event, error)
	Create(ctx context.Context, ev domain.Event) (domain.Event, error)
	Update(ctx context.Context, ev domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id int64) error
}

// EventRepository serves the event list from a cache in front of an EventStore.
type EventRepository interface {
	Events(ctx context.Context) ([]domain.Event, error)
	Invalidate(ctx context.Context) error
}

// SettingsStore keeps string-valued admin settings.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
}

// ScheduleOptions tunes a ScheduleService. Zero values are usable.
type ScheduleOptions struct {
	Location *time.Location
	// DefaultVisible applies until an admin stores the setting.
	DefaultVisible bool
	Logger         *zap.Logger
	Clock          func() time.Time
}

// ScheduleService publishes the packed schedule and handles admin edits.
type ScheduleService struct {
	store    EventStore
	events   EventRepository
	settings SettingsStore
	loc      *time.Location
	visible  bool
	now      func() time.Time
	logger   *zap.Logger
	feed     *feed

	// publishMu orders snapshots with subscriber registration so no
	// subscriber misses a change and broadcasts go out in write order.
	publishMu sync.Mutex
}

func NewScheduleService(store EventStore, events EventRepository, settings SettingsStore, opts ScheduleOptions) *ScheduleService {
	svc := &ScheduleService{
		store:    store,
		events:   events,
		settings: settings,
		loc:      opts.Location,
		visible:  opts.DefaultVisible,
		now:      opts.Clock,
		logger:   opts.Logger,
		feed:     newFeed(),
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Visible reports whether the schedule is published.
func (s *ScheduleService) Visible(ctx context.Context) (bool, error) {
	raw, ok, err := s.settings.GetSetting(ctx, domain.SettingScheduleVisible)
	if err != nil {
		return false, err
	}
	if !ok {
		return s.visible, nil
	}
	return strconv.ParseBool(raw)
}

// SetVisible publishes or hides the schedule and notifies subscribers.
func (s *ScheduleService) SetVisible(ctx context.Context, visible bool) error {
	if err := s.settings.SetSetting(ctx, domain.SettingScheduleVisible, strconv.FormatBool(visible)); err != nil {
		return err
	}
	s.logger.Info("schedule visibility changed", zap.Bool("visible", visible))
	s.publish(ctx)
	return nil
}

// Schedule returns the packed schedule, or ErrScheduleHidden.
func (s *ScheduleService) Schedule(ctx context.Context) (domain.Schedule, error) {
	sched, err := s.snapshot(ctx)
	if err != nil {
		return domain.Schedule{}, err
	}
	if !sched.Visible {
		return domain.Schedule{}, domain.ErrScheduleHidden
	}
	return sched, nil
}

// AdminEvents lists every event by start time regardless of visibility.
func (s *ScheduleService) AdminEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}
	sorted := append([]domain.Event(nil), events...)
	schedule.SortEvents(sorted)
	return sorted, nil
}

// Event loads one event from the store, bypassing the cache.
func (s *ScheduleService) Event(ctx context.Context, id int64) (domain.Event, error) {
	return s.store.Get(ctx, id)
}

func (s *ScheduleService) CreateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	if err := schedule.Validate(ev); err != nil {
		return domain.Event{}, err
	}
	created, err := s.store.Create(ctx, ev)
	if err != nil {
		return domain.Event{}, err
	}
	s.changed(ctx, "created", created.ID)
	return created, nil
}

func (s *ScheduleService) UpdateEvent(ctx context.Context, ev domain.Event) (domain.Event, error) {
	if err := schedule.Validate(ev); err != nil {
		return domain.Event{}, err
	}
	updated, err := s.store.Update(ctx, ev)
	if err != nil {
		return domain.Event{}, err
	}
	s.changed(ctx, "updated", updated.ID)
	return updated, nil
}

func (s *ScheduleService) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, "deleted", id)
	return nil
}

// Subscribe returns a channel of schedule snapshots, starting with the
// current one. The caller must invoke cancel to avoid leaks.
func (s *ScheduleService) Subscribe(ctx context.Context) (<-chan domain.Schedule, func(), error) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	sched, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.feed.subscribe(sched)
	return ch, cancel, nil
}

func (s *ScheduleService) changed(ctx context.Context, action string, id int64) {
	if err := s.events.Invalidate(ctx); err != nil {
		s.logger.Warn("event cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("event "+action, zap.Int64("event", id))
	s.publish(ctx)
}

func (s *ScheduleService) publish(ctx context.Context) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	if s.feed.size() == 0 {
		return
	}
	sched, err := s.snapshot(ctx)
	if err != nil {
		s.logger.Warn("schedule snapshot failed", zap.Error(err))
		return
	}
	s.feed.broadcast(sched)
}

func (s *ScheduleService) snapshot(ctx context.Context) (domain.Schedule, error) {
	visible, err := s.Visible(ctx)
	if err != nil {
		return domain.Schedule{}, err
	}
	if !visible {
		return domain.Schedule{Visible: false, Days: []domain.DayGrid{}, UpdatedAt: s.now()}, nil
	}
	events, err := s.events.Events(ctx)
	if err != nil {
		return domain.Schedule{}, err
	}
	sched := schedule.Build(events, s.loc)
	sched.Visible = true
	sched.UpdatedAt = s.now()
	return sched, nil
}
