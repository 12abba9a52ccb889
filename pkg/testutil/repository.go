package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/RajoGon/ai-workout-assistant/entity"
	"github.com/RajoGon/ai-workout-assistant/model"
	"github.com/RajoGon/ai-workout-assistant/repository"
	"github.com/RajoGon/ai-workout-assistant/repository/factory"
	"github.com/RajoGon/ai-workout-assistant/repository/interfaces"
)

// FakeSession 无操作会话
type FakeSession struct{}

func (s *FakeSession) Begin() error    { return nil }
func (s *FakeSession) Close() error    { return nil }
func (s *FakeSession) Commit() error   { return nil }
func (s *FakeSession) Rollback() error { return nil }

// FakeFactory 内存仓库工厂，所有会话共享同一份数据
type FakeFactory struct {
	mu       sync.Mutex
	nextID   int64
	Messages []*entity.ChatMessage
	Intents  []*entity.ChatIntent
	Workouts []*entity.Workout

	EmbeddingUpserts []*model.UpsertWorkoutEmbeddingCondition
	SearchResults    []*entity.WorkoutEmbedding
}

func NewFakeFactory() *FakeFactory {
	return &FakeFactory{}
}

func (f *FakeFactory) NewSession(_ context.Context) interfaces.Session {
	return &FakeSession{}
}

func (f *FakeFactory) NewChatMessageRepository(_ interfaces.Session) (repository.ChatMessageRepository, error) {
	return &fakeChatMessageRepo{f: f}, nil
}

func (f *FakeFactory) NewChatIntentRepository(_ interfaces.Session) (repository.ChatIntentRepository, error) {
	return &fakeChatIntentRepo{f: f}, nil
}

func (f *FakeFactory) NewWorkoutRepository(_ interfaces.Session) (repository.WorkoutRepository, error) {
	return &fakeWorkoutRepo{f: f}, nil
}

func (f *FakeFactory) NewWorkoutEmbeddingRepository(_ interfaces.Session) (repository.WorkoutEmbeddingRepository, error) {
	return &fakeWorkoutEmbeddingRepo{f: f}, nil
}

var _ factory.Factory = (*FakeFactory)(nil)

func (f *FakeFactory) nextSeq() int64 {
	f.nextID++
	return f.nextID
}

type fakeChatMessageRepo struct {
	f *FakeFactory
}

func (r *fakeChatMessageRepo) Insert(data []*entity.ChatMessage) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, m := range data {
		m.ID = r.f.nextSeq()
		r.f.Messages = append(r.f.Messages, m)
	}
	return nil
}

func (r *fakeChatMessageRepo) List(condition *model.GetChatMessagesCondition) ([]*entity.ChatMessage, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var results []*entity.ChatMessage
	for _, m := range r.f.Messages {
		if condition.UserID != nil && *condition.UserID != "" && m.UserID != *condition.UserID {
			continue
		}
		if condition.ChatID != nil && *condition.ChatID != "" && m.ChatID != *condition.ChatID {
			continue
		}
		if condition.Role != nil && *condition.Role != "" && m.Role != *condition.Role {
			continue
		}
		results = append(results, m)
	}
	return results, nil
}

func (r *fakeChatMessageRepo) GetRecentByChat(userID, chatID string, limit int) ([]*entity.ChatMessage, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var matched []*entity.ChatMessage
	for _, m := range r.f.Messages {
		if m.UserID == userID && m.ChatID == chatID {
			matched = append(matched, m)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (r *fakeChatMessageRepo) GetLastAssistantMessage(userID, chatID string) (*entity.ChatMessage, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := len(r.f.Messages) - 1; i >= 0; i-- {
		m := r.f.Messages[i]
		if m.UserID == userID && m.ChatID == chatID && m.Role == entity.ChatRoleAssistant {
			return m, nil
		}
	}
	return nil, nil
}

type fakeChatIntentRepo struct {
	f *FakeFactory
}

func (r *fakeChatIntentRepo) Insert(data *entity.ChatIntent) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	data.ID = r.f.nextSeq()
	r.f.Intents = append(r.f.Intents, data)
	return nil
}

func (r *fakeChatIntentRepo) Update(id int64, req *model.UpdateChatIntentCondition) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, it := range r.f.Intents {
		if it.ID != id {
			continue
		}
		if req.Metadata != nil {
			it.Metadata = *req.Metadata
		}
		if req.MissingFields != nil {
			it.MissingFields = *req.MissingFields
		}
		if req.OptionalFields != nil {
			it.OptionalFields = *req.OptionalFields
		}
		if req.Fulfilled != nil {
			it.Fulfilled = *req.Fulfilled
		}
		if req.WorkoutID != nil {
			it.WorkoutID = *req.WorkoutID
		}
		if req.IntentContext != nil {
			it.IntentContext = *req.IntentContext
		}
		return nil
	}
	return nil
}

func (r *fakeChatIntentRepo) Get(id int64) (*entity.ChatIntent, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, it := range r.f.Intents {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, nil
}

func (r *fakeChatIntentRepo) GetActive(userID, chatID string) (*entity.ChatIntent, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i := len(r.f.Intents) - 1; i >= 0; i-- {
		it := r.f.Intents[i]
		if it.UserID == userID && it.ChatID == chatID && !it.Fulfilled {
			return it, nil
		}
	}
	return nil, nil
}

type fakeWorkoutRepo struct {
	f *FakeFactory
}

func (r *fakeWorkoutRepo) Insert(data *entity.Workout) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	data.ID = r.f.nextSeq()
	r.f.Workouts = append(r.f.Workouts, data)
	return nil
}

func (r *fakeWorkoutRepo) Update(id int64, req *model.UpdateWorkoutCondition) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, w := range r.f.Workouts {
		if w.ID != id {
			continue
		}
		if req.Type != nil {
			w.Type = *req.Type
		}
		if req.Distance != nil {
			w.Distance = req.Distance
		}
		if req.IdealDuration != nil {
			w.IdealDuration = req.IdealDuration
		}
		if req.ActualDuration != nil {
			w.ActualDuration = req.ActualDuration
		}
		if req.StartDate != nil {
			w.StartDate = req.StartDate
		}
		if req.EndDate != nil {
			w.EndDate = req.EndDate
		}
		if req.Completed != nil {
			w.Completed = *req.Completed
		}
		return nil
	}
	return nil
}

func (r *fakeWorkoutRepo) GetByWorkoutID(userID, workoutID string) (*entity.Workout, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, w := range r.f.Workouts {
		if w.UserID == userID && w.WorkoutID == workoutID {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWorkoutRepo) ListRecentByUser(userID string, limit int) ([]*entity.Workout, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var matched []*entity.Workout
	for _, w := range r.f.Workouts {
		if w.UserID == userID {
			matched = append(matched, w)
		}
	}
	// 按创建时间倒序，同一时刻按插入顺序倒序
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeWorkoutRepo) SetEmbeddingGenerated(workoutID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, w := range r.f.Workouts {
		if w.WorkoutID == workoutID {
			w.EmbeddingGenerated = true
		}
	}
	return nil
}

type fakeWorkoutEmbeddingRepo struct {
	f *FakeFactory
}

func (r *fakeWorkoutEmbeddingRepo) Upsert(req *model.UpsertWorkoutEmbeddingCondition) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.EmbeddingUpserts = append(r.f.EmbeddingUpserts, req)
	return nil
}

func (r *fakeWorkoutEmbeddingRepo) VectorSearch(_ *model.VectorSearchCondition) ([]*entity.WorkoutEmbedding, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return r.f.SearchResults, nil
}
