package store

import (
	"sort"
	"sync"
	"time"

	"ride-booking/internal/lifecycle"
	"ride-booking/internal/models"
)

// Memory — потокобезопасное хранилище в памяти
type Memory struct {
	mu         sync.RWMutex
	users      map[uint]*models.User
	rides      map[uint]*models.Ride
	nextUserID uint
	nextRideID uint
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[uint]*models.User),
		rides:      make(map[uint]*models.Ride),
		nextUserID: 1,
		nextRideID: 1,
	}
}

func copyUser(u *models.User) *models.User {
	user := *u
	user.EmergencyContacts = append([]models.EmergencyContact(nil), u.EmergencyContacts...)
	return &user
}

func (m *Memory) copyRide(r *models.Ride) *models.Ride {
	ride := *r
	ride.StatusHistory = append([]models.StatusChange(nil), r.StatusHistory...)
	if rider, ok := m.users[r.RiderID]; ok {
		ride.Rider = *rider
	}
	if r.DriverID != nil {
		if driver, ok := m.users[*r.DriverID]; ok {
			d := *driver
			ride.Driver = &d
		}
	}
	return &ride
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	user.ID = m.nextUserID
	m.nextUserID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *Memory) UserByID(id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

func (m *Memory) UserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Users() ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, *copyUser(user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *Memory) CreateRide(ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ride.ID = m.nextRideID
	m.nextRideID++
	now := time.Now()
	ride.CreatedAt = now
	ride.UpdatedAt = now
	for i := range ride.StatusHistory {
		ride.StatusHistory[i].RideID = ride.ID
	}
	stored := *ride
	stored.StatusHistory = append([]models.StatusChange(nil), ride.StatusHistory...)
	m.rides[ride.ID] = &stored
	return nil
}

func (m *Memory) RideByID(id uint) (*models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ride, ok := m.rides[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.copyRide(ride), nil
}

func (m *Memory) UpdateRide(ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rides[ride.ID]; !ok {
		return ErrNotFound
	}
	stored := *ride
	stored.StatusHistory = append([]models.StatusChange(nil), ride.StatusHistory...)
	stored.UpdatedAt = time.Now()
	m.rides[ride.ID] = &stored
	return nil
}

func (m *Memory) SaveTransition(ride *models.Ride, from models.RideStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.rides[ride.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Status != from {
		return ErrStaleRide
	}
	stored := *ride
	stored.StatusHistory = append([]models.StatusChange(nil), ride.StatusHistory...)
	stored.UpdatedAt = time.Now()
	m.rides[ride.ID] = &stored
	return nil
}

func (m *Memory) PendingRides() ([]models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Ride
	for _, ride := range m.rides {
		if ride.Status == models.RideStatusRequested {
			out = append(out, *m.copyRide(ride))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) ActiveRidesFor(userID uint) ([]models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Ride
	for _, ride := range m.rides {
		if !lifecycle.IsActive(ride.Status) {
			continue
		}
		if ride.IsParticipant(userID) {
			out = append(out, *m.copyRide(ride))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) RidesFor(userID uint, q RideQuery) ([]models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []models.Ride
	for _, ride := range m.rides {
		if !ride.IsParticipant(userID) {
			continue
		}
		if q.Status != "" && ride.Status != q.Status {
			continue
		}
		if q.MinFare > 0 && ride.Fare < q.MinFare {
			continue
		}
		if q.MaxFare > 0 && ride.Fare > q.MaxFare {
			continue
		}
		if q.StartDate != nil && ride.CreatedAt.Before(*q.StartDate) {
			continue
		}
		if q.EndDate != nil && ride.CreatedAt.After(*q.EndDate) {
			continue
		}
		matched = append(matched, *m.copyRide(ride))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	return paginate(matched, q.Page, q.Limit), nil
}

func paginate(rides []models.Ride, page, limit int) []models.Ride {
	if limit <= 0 {
		return rides
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(rides) {
		return []models.Ride{}
	}
	end := offset + limit
	if end > len(rides) {
		end = len(rides)
	}
	return rides[offset:end]
}

func (m *Memory) RequestedBefore(cutoff time.Time) ([]models.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Ride
	for _, ride := range m.rides {
		if ride.Status == models.RideStatusRequested && ride.CreatedAt.Before(cutoff) {
			out = append(out, *m.copyRide(ride))
		}
	}
	return out, nil
}

func (m *Memory) Earnings(driverID uint) (*models.Earnings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	earnings := &models.Earnings{}
	for _, ride := range m.rides {
		if ride.Status != models.RideStatusCompleted {
			continue
		}
		if ride.DriverID != nil && *ride.DriverID == driverID {
			earnings.CompletedRides++
			earnings.TotalEarnings += ride.Fare
		}
	}
	return earnings, nil
}

func (m *Memory) RideReport() (*models.RideReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	report := &models.RideReport{}
	for _, ride := range m.rides {
		report.TotalRides++
		switch ride.Status {
		case models.RideStatusCompleted:
			report.CompletedRides++
			report.TotalRevenue += ride.Fare
		case models.RideStatusCancelled:
			report.CancelledRides++
		}
	}
	return report, nil
}
