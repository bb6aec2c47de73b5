package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"parkwise/internal/db"
	apperrors "parkwise/internal/errors"
	"parkwise/internal/utils"
)

// MemoryStore keeps the whole data set behind one mutex. It backs the
// server when no DATABASE_URL is configured and every service test.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[string]*db.User
	vehicles map[string]*db.Vehicle
	slots    map[string]*db.ParkingSlot
	requests map[string]*db.SlotRequest
	logs     []db.Log
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*db.User),
		vehicles: make(map[string]*db.Vehicle),
		slots:    make(map[string]*db.ParkingSlot),
		requests: make(map[string]*db.SlotRequest),
	}
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page Page) ([]T, int) {
	page = page.Norm()
	total := len(items)
	start := page.Offset()
	if start >= total {
		return []T{}, total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return items[start:end], total
}

// Users

func (m *MemoryStore) CreateUser(ctx context.Context, u *db.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.New(apperrors.KindDuplicateEmail, "email already registered")
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.New(apperrors.KindNotFound, "user not found")
}

func (m *MemoryStore) UpdateUser(ctx context.Context, u *db.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return apperrors.New(apperrors.KindNotFound, "user not found")
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemoryStore) ListUsers(ctx context.Context, page Page) ([]db.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.User
	for _, u := range m.users {
		if matches(page.Search, u.Name, u.Email) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	items, total := paginate(out, page)
	return items, total, nil
}

// Vehicles

func (m *MemoryStore) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vehicles {
		if existing.UserID == v.UserID && strings.EqualFold(existing.PlateNumber, v.PlateNumber) {
			return apperrors.New(apperrors.KindDuplicatePlate, "plate number already registered")
		}
	}
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStore) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "vehicle not found")
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStore) UpdateVehicle(ctx context.Context, v *db.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[v.ID]; !ok {
		return apperrors.New(apperrors.KindNotFound, "vehicle not found")
	}
	for _, existing := range m.vehicles {
		if existing.ID != v.ID && existing.UserID == v.UserID && strings.EqualFold(existing.PlateNumber, v.PlateNumber) {
			return apperrors.New(apperrors.KindDuplicatePlate, "plate number already registered")
		}
	}
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteVehicle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return apperrors.New(apperrors.KindNotFound, "vehicle not found")
	}
	delete(m.vehicles, id)
	return nil
}

func (m *MemoryStore) ListVehicles(ctx context.Context, f VehicleFilter, page Page) ([]db.Vehicle, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Vehicle
	for _, v := range m.vehicles {
		if f.UserID != "" && v.UserID != f.UserID {
			continue
		}
		if !matches(page.Search, v.PlateNumber, v.Model) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	items, total := paginate(out, page)
	return items, total, nil
}

// Slots

func (m *MemoryStore) CreateSlot(ctx context.Context, s *db.ParkingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slotNumberTaken(s.SlotNumber, "") {
		return apperrors.New(apperrors.KindDuplicateSlotNumber, "slot number already exists")
	}
	cp := *s
	m.slots[s.ID] = &cp
	return nil
}

func (m *MemoryStore) CreateSlots(ctx context.Context, slots []*db.ParkingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		if m.slotNumberTaken(s.SlotNumber, "") || seen[s.SlotNumber] {
			return apperrors.New(apperrors.KindBulkCreateConflict, "slot number "+s.SlotNumber+" already exists")
		}
		seen[s.SlotNumber] = true
	}
	for _, s := range slots {
		cp := *s
		m.slots[s.ID] = &cp
	}
	return nil
}

func (m *MemoryStore) slotNumberTaken(number, excludeID string) bool {
	for _, s := range m.slots {
		if s.ID != excludeID && s.SlotNumber == number {
			return true
		}
	}
	return false
}

func (m *MemoryStore) GetSlot(ctx context.Context, id string) (*db.ParkingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "slot not found")
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) UpdateSlot(ctx context.Context, s *db.ParkingSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[s.ID]; !ok {
		return apperrors.New(apperrors.KindNotFound, "slot not found")
	}
	if m.slotNumberTaken(s.SlotNumber, s.ID) {
		return apperrors.New(apperrors.KindDuplicateSlotNumber, "slot number already exists")
	}
	cp := *s
	m.slots[s.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteSlot(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "slot not found")
	}
	if s.Status != db.SlotAvailable {
		return apperrors.New(apperrors.KindSlotInUse, "slot is not available")
	}
	delete(m.slots, id)
	return nil
}

func (m *MemoryStore) ListSlots(ctx context.Context, f SlotFilter, page Page) ([]db.ParkingSlot, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.ParkingSlot
	for _, s := range m.slots {
		if f.Size != "" && s.Size != f.Size {
			continue
		}
		if f.VehicleType != "" && s.VehicleType != f.VehicleType {
			continue
		}
		if f.Location != "" && s.Location != f.Location {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if !matches(page.Search, s.SlotNumber) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	items, total := paginate(out, page)
	return items, total, nil
}

func (m *MemoryStore) FindCompatible(ctx context.Context, vehicleType db.VehicleType, size db.SizeClass, preferred db.Location, limit int) ([]db.ParkingSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.ParkingSlot
	for _, s := range m.slots {
		if s.Status != db.SlotAvailable {
			continue
		}
		if s.VehicleType != vehicleType || !utils.FitsSize(s.Size, size) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Location == preferred, out[j].Location == preferred
		if preferred != "" && pi != pj {
			return pi
		}
		return out[i].SlotNumber < out[j].SlotNumber
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) BindSlot(ctx context.Context, id string) error {
	return m.transitionSlot(id, []db.SlotStatus{db.SlotAvailable}, db.SlotOccupied)
}

func (m *MemoryStore) ReleaseSlot(ctx context.Context, id string) error {
	return m.transitionSlot(id, []db.SlotStatus{db.SlotOccupied, db.SlotReserved}, db.SlotAvailable)
}

func (m *MemoryStore) SetSlotStatus(ctx context.Context, id string, from, to db.SlotStatus) error {
	return m.transitionSlot(id, []db.SlotStatus{from}, to)
}

func (m *MemoryStore) transitionSlot(id string, from []db.SlotStatus, to db.SlotStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "slot not found")
	}
	for _, f := range from {
		if s.Status == f {
			s.Status = to
			s.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return apperrors.New(apperrors.KindInvalidSlotState, "slot is "+string(s.Status))
}

// Requests

func (m *MemoryStore) CreateRequest(ctx context.Context, r *db.SlotRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.requests {
		if existing.VehicleID == r.VehicleID && existing.Status.Active() {
			return apperrors.New(apperrors.KindVehicleAlreadyRequesting, "vehicle already has an active request")
		}
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *MemoryStore) GetRequest(ctx context.Context, id string) (*db.SlotRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, apperrors.New(apperrors.KindNotFound, "request not found")
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) DeleteRequest(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return apperrors.New(apperrors.KindNotFound, "request not found")
	}
	delete(m.requests, id)
	return nil
}

func (m *MemoryStore) ListRequests(ctx context.Context, f RequestFilter, page Page) ([]db.SlotRequest, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.SlotRequest
	for _, r := range m.requests {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	items, total := paginate(out, page)
	return items, total, nil
}

func (m *MemoryStore) HasActiveRequest(ctx context.Context, vehicleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.VehicleID == vehicleID && r.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) MarkApproved(ctx context.Context, id, slotID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "request not found")
	}
	if r.Status != db.RequestPending {
		return apperrors.New(apperrors.KindInvalidState, "request is "+string(r.Status))
	}
	r.Status = db.RequestApproved
	r.SlotID = slotID
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) MarkRejected(ctx context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return apperrors.New(apperrors.KindNotFound, "request not found")
	}
	if r.Status != db.RequestPending {
		return apperrors.New(apperrors.KindInvalidState, "request is "+string(r.Status))
	}
	r.Status = db.RequestRejected
	r.RejectionReason = reason
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) ListExpiredBindings(ctx context.Context, now time.Time) ([]ExpiredBinding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ExpiredBinding
	for _, r := range m.requests {
		if r.Status != db.RequestApproved || r.SlotID == "" || r.EndTime == nil || r.EndTime.After(now) {
			continue
		}
		if s, ok := m.slots[r.SlotID]; ok && s.Status == db.SlotOccupied {
			out = append(out, ExpiredBinding{RequestID: r.ID, SlotID: r.SlotID})
		}
	}
	return out, nil
}

// Logs

func (m *MemoryStore) AppendLog(ctx context.Context, l *db.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *MemoryStore) ListLogs(ctx context.Context, page Page) ([]db.Log, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.Log, len(m.logs))
	copy(out, m.logs)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	items, total := paginate(out, page)
	return items, total, nil
}
