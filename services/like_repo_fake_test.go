package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"likes_server/models"
	"likes_server/services"
)

// memoryLikeRepo mimics the Likes table semantics in memory: one edge per
// ordered pair, conditional creates, transactional pair transitions. The
// mutex stands in for DynamoDB's per-write atomicity, which makes the fake
// safe to hammer from concurrent goroutines in the race tests.
type memoryLikeRepo struct {
	mu    sync.Mutex
	likes map[string]*models.Like
	seq   int
}

var _ services.LikeRepository = (*memoryLikeRepo)(nil)

func newMemoryLikeRepo() *memoryLikeRepo {
	return &memoryLikeRepo{likes: make(map[string]*models.Like)}
}

func pairKey(from, to string) string { return from + "|" + to }

func (m *memoryLikeRepo) stamp() string {
	m.seq++
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(m.seq) * time.Second).Format(time.RFC3339)
}

func copyLike(l *models.Like) *models.Like {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func (m *memoryLikeRepo) CreateLike(_ context.Context, from, to, status string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.likes[pairKey(from, to)]; exists {
		return nil, services.ErrDuplicateLike
	}
	now := m.stamp()
	like := &models.Like{
		LikeID:    fmt.Sprintf("like-%d", m.seq),
		FromUser:  from,
		ToUser:    to,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.likes[pairKey(from, to)] = like
	return copyLike(like), nil
}

func (m *memoryLikeRepo) GetLike(_ context.Context, from, to string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyLike(m.likes[pairKey(from, to)]), nil
}

func (m *memoryLikeRepo) GetLikeByID(_ context.Context, likeID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, like := range m.likes {
		if like.LikeID == likeID {
			return copyLike(like), nil
		}
	}
	return nil, nil
}

func (m *memoryLikeRepo) GetPendingReverse(_ context.Context, from, to string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reverse := m.likes[pairKey(to, from)]
	if reverse == nil || reverse.Status != models.StatusPending {
		return nil, nil
	}
	return copyLike(reverse), nil
}

func (m *memoryLikeRepo) SetStatus(_ context.Context, from, to, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	like, exists := m.likes[pairKey(from, to)]
	if !exists {
		return fmt.Errorf("like %s->%s not found", from, to)
	}
	like.Status = status
	like.UpdatedAt = m.stamp()
	return nil
}

func (m *memoryLikeRepo) UpsertAccepted(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertAcceptedLocked(from, to)
	return nil
}

func (m *memoryLikeRepo) upsertAcceptedLocked(from, to string) {
	now := m.stamp()
	if like, exists := m.likes[pairKey(from, to)]; exists {
		like.Status = models.StatusAccepted
		like.UpdatedAt = now
		return
	}
	m.likes[pairKey(from, to)] = &models.Like{
		LikeID:    fmt.Sprintf("like-%d", m.seq),
		FromUser:  from,
		ToUser:    to,
		Status:    models.StatusAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *memoryLikeRepo) AcceptMatchPair(_ context.Context, reverse *models.Like, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.likes[pairKey(reverse.FromUser, reverse.ToUser)]
	if stored == nil || stored.Status != models.StatusPending {
		return services.ErrLikeConflict
	}
	if _, exists := m.likes[pairKey(from, to)]; exists {
		return services.ErrLikeConflict
	}

	stored.Status = models.StatusAccepted
	stored.UpdatedAt = m.stamp()
	now := m.stamp()
	m.likes[pairKey(from, to)] = &models.Like{
		LikeID:    fmt.Sprintf("like-%d", m.seq),
		FromUser:  from,
		ToUser:    to,
		Status:    models.StatusAccepted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (m *memoryLikeRepo) AcceptMutualPending(_ context.Context, own, reverse *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ownStored := m.likes[pairKey(own.FromUser, own.ToUser)]
	reverseStored := m.likes[pairKey(reverse.FromUser, reverse.ToUser)]
	if ownStored == nil || ownStored.Status != models.StatusPending ||
		reverseStored == nil || reverseStored.Status != models.StatusPending {
		return services.ErrLikeConflict
	}

	ownStored.Status = models.StatusAccepted
	ownStored.UpdatedAt = m.stamp()
	reverseStored.Status = models.StatusAccepted
	reverseStored.UpdatedAt = m.stamp()
	return nil
}

func (m *memoryLikeRepo) AcceptLikePair(_ context.Context, like *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.likes[pairKey(like.FromUser, like.ToUser)]
	if stored == nil || stored.Status != models.StatusPending {
		return services.ErrLikeConflict
	}
	stored.Status = models.StatusAccepted
	stored.UpdatedAt = m.stamp()
	m.upsertAcceptedLocked(like.ToUser, like.FromUser)
	return nil
}

func (m *memoryLikeRepo) QueryIncomingPending(_ context.Context, user string) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var likes []models.Like
	for _, like := range m.likes {
		if like.ToUser == user && like.Status == models.StatusPending {
			likes = append(likes, *like)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt > likes[j].CreatedAt })
	return likes, nil
}

func (m *memoryLikeRepo) QueryOutgoing(_ context.Context, user string) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var likes []models.Like
	for _, like := range m.likes {
		if like.FromUser == user {
			likes = append(likes, *like)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt > likes[j].CreatedAt })
	return likes, nil
}

func (m *memoryLikeRepo) QueryAccepted(_ context.Context, user string) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var likes []models.Like
	for _, like := range m.likes {
		if like.Status == models.StatusAccepted && (like.FromUser == user || like.ToUser == user) {
			likes = append(likes, *like)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].UpdatedAt > likes[j].UpdatedAt })
	return likes, nil
}

func (m *memoryLikeRepo) CountIncomingPending(_ context.Context, user string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, like := range m.likes {
		if like.ToUser == user && like.Status == models.StatusPending {
			count++
		}
	}
	return count, nil
}

// edgeCount reports the number of stored edges, for convergence assertions.
func (m *memoryLikeRepo) edgeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.likes)
}

// stubProfiles resolves profiles from a fixed map.
type stubProfiles struct {
	profiles map[string]*models.UserProfile
}

func (s *stubProfiles) GetUserProfile(_ context.Context, userID string) (*models.UserProfile, error) {
	return s.profiles[userID], nil
}

// eventRecorder captures published transition events.
type eventRecorder struct {
	mu     sync.Mutex
	events []models.LikeEvent
}

func (r *eventRecorder) Publish(event models.LikeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) recorded() []models.LikeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.LikeEvent(nil), r.events...)
}

// stubSigner signs photo keys deterministically.
type stubSigner struct{}

func (stubSigner) SignedPhotoURL(_ context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}
