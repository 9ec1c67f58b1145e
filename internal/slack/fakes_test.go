package slack

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slack-go/slack"

	"github.com/shubh-37/content-intelligence/internal/database"
	"github.com/shubh-37/content-intelligence/internal/models"
	"github.com/shubh-37/content-intelligence/internal/pipeline"
)

type sentMessage struct {
	channel string
	text    string
	blocks  []slack.Block
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	ts   int
}

func (f *fakeMessenger) GetBotID() string { return "UBOT" }

func (f *fakeMessenger) SendMessage(channelID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{channel: channelID, text: message})
	return nil
}

func (f *fakeMessenger) PostMessage(channelID, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ts++
	f.sent = append(f.sent, sentMessage{channel: channelID, text: message})
	return fmt.Sprintf("1700000000.%06d", f.ts), nil
}

func (f *fakeMessenger) SendMessageWithBlocks(channelID string, blocks []slack.Block) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{channel: channelID, blocks: blocks})
	return nil
}

func (f *fakeMessenger) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

// fakeStore backs both the Slack post store and every pipeline store
type fakeStore struct {
	mu       sync.Mutex
	posts    []*models.Post
	profiles map[string]*models.VoiceProfile
	tests    map[string]*models.ABTest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: make(map[string]*models.VoiceProfile),
		tests:    make(map[string]*models.ABTest),
	}
}

func (s *fakeStore) stores() pipeline.Stores {
	return pipeline.Stores{Posts: s, Profiles: s, History: s, State: s, ABTests: s}
}

func (s *fakeStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = fmt.Sprintf("post-%d", len(s.posts)+1)
	}
	s.posts = append(s.posts, post)
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *fakeStore) GetByStatus(ctx context.Context, userID, status string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.UserID == userID && p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) Update(ctx context.Context, post *models.Post) error {
	_, err := s.GetByID(ctx, post.ID)
	return err
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id, status string) error {
	post, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	post.Status = status
	s.mu.Unlock()
	return nil
}

func (s *fakeStore) status(id string) string {
	post, err := s.GetByID(context.Background(), id)
	if err != nil {
		return ""
	}
	return post.Status
}

func (s *fakeStore) GetAuthoredPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Post
	for _, p := range s.posts {
		if p.UserID == userID && !p.IsAIGenerated {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) CountAuthoredPostsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	posts, _ := s.GetAuthoredPosts(ctx, userID)
	n := 0
	for _, p := range posts {
		if p.CreatedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) GetPostsNeedingMetrics(ctx context.Context, userID string, staleBefore time.Time) ([]*models.Post, error) {
	return nil, nil
}

func (s *fakeStore) UpdatePostMetrics(ctx context.Context, postID string, metrics *models.EngagementMetrics, updatedAt time.Time) error {
	return nil
}

func (s *fakeStore) GetPublishedPosts(ctx context.Context, userID string, since time.Time) ([]*models.Post, error) {
	return s.GetByStatus(ctx, userID, models.StatusPublished)
}

func (s *fakeStore) AppendSnapshot(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	return nil
}

func (s *fakeStore) GetMetricsHistory(ctx context.Context, postID string) ([]*models.MetricsSnapshot, error) {
	return nil, nil
}

func (s *fakeStore) GetVoiceProfile(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID], nil
}

func (s *fakeStore) UpsertVoiceProfile(ctx context.Context, profile *models.VoiceProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
	return nil
}

func (s *fakeStore) GetHabits(ctx context.Context, userID string) ([]*models.Habit, error) {
	return nil, nil
}

func (s *fakeStore) GetActiveGoals(ctx context.Context, userID string) ([]*models.Goal, error) {
	return nil, nil
}

func (s *fakeStore) CreateABTest(ctx context.Context, test *models.ABTest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tests[test.ID] = test
	return nil
}

func (s *fakeStore) GetABTest(ctx context.Context, id string) (*models.ABTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tests[id], nil
}

func (s *fakeStore) UpdateABTest(ctx context.Context, test *models.ABTest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tests[test.ID] = test
	return nil
}

func (s *fakeStore) ListABTests(ctx context.Context, userID string) ([]*models.ABTest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ABTest
	for _, t := range s.tests {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type testBot struct {
	messenger *fakeMessenger
	store     *fakeStore
	approvals *ApprovalHandler
	commands  *CommandHandler
	messages  *MessageHandler
}

func newTestBot() *testBot {
	messenger := &fakeMessenger{}
	store := newFakeStore()
	manager := pipeline.NewManager(store.stores(), pipeline.Options{Seed: 7})
	approvals := NewApprovalHandler(messenger, store)
	commands := NewCommandHandler(messenger, manager, store, approvals, "UTC")

	return &testBot{
		messenger: messenger,
		store:     store,
		approvals: approvals,
		commands:  commands,
		messages:  NewMessageHandler(messenger, manager, commands),
	}
}
