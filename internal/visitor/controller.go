package visitor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidStatus is returned by SetStatus for a target that staff cannot
// set: anything outside the enum, or PENDING.
var ErrInvalidStatus = errors.New("invalid status")

// Controller is the single writer of the visitor collection.
type Controller struct {
	mu    sync.Mutex
	store *Store
	log   *slog.Logger

	now   func() time.Time
	newID func() string

	lastCreated int64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDFunc overrides id generation.
func WithIDFunc(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.log = logger }
}

// NewController creates a controller writing to store.
func NewController(store *Store, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		log:   slog.Default(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "visitor-controller")

	for _, v := range store.Snapshot() {
		if v.CreatedAt > c.lastCreated {
			c.lastCreated = v.CreatedAt
		}
	}
	return c
}

// Create registers a new PENDING visit request at the head of the
// collection and persists it.
func (c *Controller) Create(in Input) (Visitor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.store.Snapshot()

	createdAt := c.now().UnixMilli()
	if createdAt < c.lastCreated {
		createdAt = c.lastCreated
	}

	v := Visitor{
		ID:            c.uniqueID(records),
		FullName:      in.FullName,
		PhoneNumber:   in.PhoneNumber,
		HostName:      in.HostName,
		Purpose:       in.Purpose,
		VisitDateTime: in.VisitDateTime,
		Status:        Pending,
		CreatedAt:     createdAt,
	}

	next := make([]Visitor, 0, len(records)+1)
	next = append(next, v)
	next = append(next, records...)

	if err := c.store.Save(next); err != nil {
		return Visitor{}, fmt.Errorf("creating visitor: %w", err)
	}
	c.lastCreated = createdAt

	c.log.Info("visitor registered", "id", v.ID, "host", v.HostName)
	return v, nil
}

func (c *Controller) uniqueID(records []Visitor) string {
	taken := make(map[string]struct{}, len(records))
	for _, v := range records {
		taken[v.ID] = struct{}{}
	}
	for {
		id := c.newID()
		if _, dup := taken[id]; !dup && id != "" {
			return id
		}
	}
}

// SetStatus records a staff decision on the request with the given id.
// It reports whether a record was found; an unknown id is a no-op.
// A decided request may be decided again; the last decision wins.
func (c *Controller) SetStatus(id string, status Status) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.store.Snapshot()

	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.log.Debug("status change for unknown visitor ignored", "id", id)
		return false, nil
	}

	prev := records[idx].Status
	records[idx].Status = status

	if err := c.store.Save(records); err != nil {
		return false, fmt.Errorf("updating visitor %s: %w", id, err)
	}

	c.log.Info("visitor status changed", "id", id, "from", prev, "to", status)
	return true, nil
}
