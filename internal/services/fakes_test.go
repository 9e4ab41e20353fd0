package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/eventplanner/backend/internal/apperrors"
	"github.com/eventplanner/backend/internal/auth"
	"github.com/eventplanner/backend/internal/models"
)

// memDB is an in-memory store shared by the fake repositories below.
// It keeps the same guarantees as the MySQL schema: one RSVP row per
// (user, event) pair and no cascade when an event is deleted.
type memDB struct {
	mu          sync.Mutex
	users       []models.User
	events      map[int]models.Event
	rsvps       []models.RSVP
	nextEventID int
	nextRSVPID  int
	calls       map[string]int
	err         error
}

func newMemDB() *memDB {
	return &memDB{
		events: map[int]models.Event{},
		calls:  map[string]int{},
	}
}

func (db *memDB) record(op string) error {
	db.calls[op]++
	return db.err
}

// totalCalls returns the number of store calls of any kind
func (db *memDB) totalCalls() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, c := range db.calls {
		n += c
	}
	return n
}

// seedEvent stores an event directly, bypassing the services
func (db *memDB) seedEvent(e models.Event) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextEventID++
	e.ID = db.nextEventID
	db.events[e.ID] = e
	return e.ID
}

// seedRSVP stores a raw RSVP row, used for legacy non-canonical statuses
func (db *memDB) seedRSVP(userID, eventID int, status string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextRSVPID++
	db.rsvps = append(db.rsvps, models.RSVP{ID: db.nextRSVPID, UserID: userID, EventID: eventID, Status: models.RSVPStatus(status)})
}

// rowsFor returns the RSVP rows stored for a (user, event) pair
func (db *memDB) rowsFor(userID, eventID int) []models.RSVP {
	db.mu.Lock()
	defer db.mu.Unlock()
	var rows []models.RSVP
	for _, r := range db.rsvps {
		if r.UserID == userID && r.EventID == eventID {
			rows = append(rows, r)
		}
	}
	return rows
}

// rowCount returns the number of RSVP rows of an event
func (db *memDB) rowCount(eventID int) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, r := range db.rsvps {
		if r.EventID == eventID {
			n++
		}
	}
	return n
}

type memEventRepo struct{ *memDB }

func (r memEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("event.Create"); err != nil {
		return err
	}
	r.nextEventID++
	event.ID = r.nextEventID
	r.events[event.ID] = *event
	return nil
}

func (r memEventRepo) GetByID(ctx context.Context, id int) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("event.GetByID"); err != nil {
		return nil, err
	}
	e, ok := r.events[id]
	if !ok {
		return nil, apperrors.NotFound("event")
	}
	return &e, nil
}

func (r memEventRepo) GetAll(ctx context.Context) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("event.GetAll"); err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		events = append(events, e)
	}
	sort.Slice(events, func(i, j int) bool {
		if c := events[i].Date.Compare(events[j].Date); c != 0 {
			return c < 0
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (r memEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("event.Update"); err != nil {
		return err
	}
	if _, ok := r.events[event.ID]; !ok {
		return apperrors.NotFound("event")
	}
	r.events[event.ID] = *event
	return nil
}

func (r memEventRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("event.Delete"); err != nil {
		return err
	}
	if _, ok := r.events[id]; !ok {
		return apperrors.NotFound("event")
	}
	delete(r.events, id)
	return nil
}

type memRSVPRepo struct{ *memDB }

func (r memRSVPRepo) Upsert(ctx context.Context, rsvp *models.RSVP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("rsvp.Upsert"); err != nil {
		return err
	}
	for i := range r.rsvps {
		if r.rsvps[i].UserID == rsvp.UserID && r.rsvps[i].EventID == rsvp.EventID {
			r.rsvps[i].Status = rsvp.Status
			rsvp.ID = r.rsvps[i].ID
			return nil
		}
	}
	r.nextRSVPID++
	rsvp.ID = r.nextRSVPID
	r.rsvps = append(r.rsvps, *rsvp)
	return nil
}

func (r memRSVPRepo) countWhere(match func(eventID int) bool) []models.StatusCount {
	index := map[[2]string]int{}
	var counts []models.StatusCount
	for _, row := range r.rsvps {
		if !match(row.EventID) {
			continue
		}
		key := [2]string{fmt.Sprint(row.EventID), string(row.Status)}
		if i, ok := index[key]; ok {
			counts[i].Count++
			continue
		}
		index[key] = len(counts)
		counts = append(counts, models.StatusCount{EventID: row.EventID, Status: string(row.Status), Count: 1})
	}
	return counts
}

func (r memRSVPRepo) CountByStatus(ctx context.Context, eventID int) ([]models.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("rsvp.CountByStatus"); err != nil {
		return nil, err
	}
	return r.countWhere(func(id int) bool { return id == eventID }), nil
}

func (r memRSVPRepo) CountByStatusForEvents(ctx context.Context, eventIDs []int) ([]models.StatusCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("rsvp.CountByStatusForEvents"); err != nil {
		return nil, err
	}
	wanted := map[int]bool{}
	for _, id := range eventIDs {
		wanted[id] = true
	}
	return r.countWhere(func(id int) bool { return wanted[id] }), nil
}

func (r memRSVPRepo) GetByUserWithEvents(ctx context.Context, userID int) ([]models.MyRSVP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("rsvp.GetByUserWithEvents"); err != nil {
		return nil, err
	}
	result := []models.MyRSVP{}
	for _, row := range r.rsvps {
		if row.UserID != userID {
			continue
		}
		event, ok := r.events[row.EventID]
		if !ok {
			continue
		}
		result = append(result, models.MyRSVP{Status: row.Status, Event: event})
	}
	return result, nil
}

type memUserRepo struct{ *memDB }

func (r memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("user.Create"); err != nil {
		return err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
		}
	}
	user.ID = len(r.users) + 1
	r.users = append(r.users, *user)
	return nil
}

func (r memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("user.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (r memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record("user.ExistsByEmail"); err != nil {
		return false, err
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// mockTokenIssuer is a mock implementation of TokenIssuer
type mockTokenIssuer struct {
	token string
	err   error
}

func (m *mockTokenIssuer) GenerateAccessToken(identity auth.Identity) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

var (
	adminIdentity = auth.Identity{UserID: 1, Role: models.RoleAdmin}
	userIdentity  = auth.Identity{UserID: 2, Role: models.RoleUser}
)

func strPtr(s string) *string {
	return &s
}
