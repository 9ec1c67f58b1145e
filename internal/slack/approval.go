package slack

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack/slackevents"

	"github.com/shubh-37/content-intelligence/internal/models"
)

const (
	// reviewTTL is how long a generate message accepts approval reactions
	reviewTTL  = 72 * time.Hour
	maxReviews = 256
)

// draftSummary is what a generate message showed for one variation
type draftSummary struct {
	postID   string
	score    int
	views    int
	bestTime string
}

// pendingReview is a generate message waiting on its author's reaction
type pendingReview struct {
	userID   string
	drafts   []draftSummary
	postedAt time.Time
}

// reviewVerdicts maps a reaction to the variation it keeps: 0 keeps every draft, -1 none
var reviewVerdicts = map[string]int{
	"white_check_mark": 0, "heavy_check_mark": 0, "✅": 0,
	"x": -1, "❌": -1,
	"one": 1, "1️⃣": 1,
	"two": 2, "2️⃣": 2,
	"three": 3, "3️⃣": 3,
}

// ApprovalHandler turns reactions on generate messages into draft status changes
type ApprovalHandler struct {
	client   Messenger
	postRepo PostStore
	now      func() time.Time

	mu      sync.Mutex
	reviews map[string]*pendingReview
}

func NewApprovalHandler(client Messenger, postRepo PostStore) *ApprovalHandler {
	return &ApprovalHandler{
		client:   client,
		postRepo: postRepo,
		now:      time.Now,
		reviews:  make(map[string]*pendingReview),
	}
}

// Track registers a generate message so its author can review the drafts by reacting.
// Expired reviews are dropped first; a full table loses its oldest entry.
func (h *ApprovalHandler) Track(messageTS, userID string, drafts []draftSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	for ts, r := range h.reviews {
		if now.Sub(r.postedAt) > reviewTTL {
			delete(h.reviews, ts)
		}
	}

	if len(h.reviews) >= maxReviews {
		oldest := ""
		for ts, r := range h.reviews {
			if oldest == "" || r.postedAt.Before(h.reviews[oldest].postedAt) {
				oldest = ts
			}
		}
		delete(h.reviews, oldest)
	}

	h.reviews[messageTS] = &pendingReview{userID: userID, drafts: drafts, postedAt: now}
	log.Printf("📌 Tracking %d draft(s) for %s on message %s", len(drafts), userID, messageTS)
}

func (h *ApprovalHandler) review(messageTS string) *pendingReview {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.reviews[messageTS]
	if r != nil && h.now().Sub(r.postedAt) > reviewTTL {
		delete(h.reviews, messageTS)
		return nil
	}
	return r
}

func (h *ApprovalHandler) forget(messageTS string) {
	h.mu.Lock()
	delete(h.reviews, messageTS)
	h.mu.Unlock()
}

// HandleReaction applies the author's verdict to the drafts on a generate message.
// Reactions from anyone else are ignored.
func (h *ApprovalHandler) HandleReaction(ctx context.Context, event *slackevents.ReactionAddedEvent) error {
	keep, ok := reviewVerdicts[event.Reaction]
	if !ok {
		return nil
	}

	review := h.review(event.Item.Timestamp)
	if review == nil {
		return nil
	}

	if event.User != review.userID {
		log.Printf("⚠️ Ignoring %s from %s on drafts owned by %s", event.Reaction, event.User, review.userID)
		return nil
	}

	if keep > len(review.drafts) {
		return h.client.SendMessage(event.Item.Channel,
			fmt.Sprintf("❌ That message only has %d variation(s)", len(review.drafts)))
	}

	var approved []draftSummary
	rejected := 0
	for i, d := range review.drafts {
		status := models.StatusRejected
		if keep == 0 || keep == i+1 {
			status = models.StatusApproved
		}

		moved, err := h.moveDraft(ctx, review.userID, d.postID, status)
		if err != nil {
			log.Printf("⚠️ Failed to update post %s: %v", d.postID, err)
			continue
		}
		if !moved {
			continue
		}

		if status == models.StatusApproved {
			approved = append(approved, d)
		} else {
			rejected++
		}
	}

	h.forget(event.Item.Timestamp)
	log.Printf("✅ %s reviewed message %s: %d approved, %d rejected", review.userID, event.Item.Timestamp, len(approved), rejected)

	return h.client.SendMessage(event.Item.Channel, verdictMessage(review, approved, rejected))
}

// moveDraft changes a draft's status. Posts that left draft or belong to someone else stay put.
func (h *ApprovalHandler) moveDraft(ctx context.Context, userID, postID, status string) (bool, error) {
	post, err := h.postRepo.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}

	if post.UserID != userID || post.Status != models.StatusDraft {
		return false, nil
	}

	if err := h.postRepo.UpdateStatus(ctx, postID, status); err != nil {
		return false, err
	}
	return true, nil
}

func verdictMessage(review *pendingReview, approved []draftSummary, rejected int) string {
	if len(approved) == 0 {
		if rejected == 0 {
			return "🤷 Those drafts were already handled."
		}
		return fmt.Sprintf("🗑️ Discarded %d draft(s). Try another angle with `generate <template>`.", rejected)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ Approved %d draft(s) for scheduling\n\n", len(approved))

	reach := 0
	for _, d := range approved {
		fmt.Fprintf(&b, "• Variation %d: score %d/100, ~%d views, best at %s\n", variationOf(review, d.postID), d.score, d.views, d.bestTime)
		reach += d.views
	}
	if rejected > 0 {
		fmt.Fprintf(&b, "Discarded the other %d.\n", rejected)
	}

	fmt.Fprintf(&b, "\n📈 Expected reach ~%d views. Run `schedule` to place them at their best times.", reach)
	return b.String()
}

func variationOf(review *pendingReview, postID string) int {
	for i, d := range review.drafts {
		if d.postID == postID {
			return i + 1
		}
	}
	return 0
}
