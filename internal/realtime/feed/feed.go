// Package feed keeps a local, ordered copy of a message stream up to date from realtime events.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/realtime"
)

// Item is a channel or direct message as the feed displays it
type Item struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId,omitempty"`
	SenderID  int64               `json:"senderId,omitempty"`
	Content   string              `json:"content"`
	Edited    bool                `json:"edited"`
	Timestamp time.Time           `json:"timestamp"`
	Author    *models.UserSummary `json:"-"`
}

// AuthorID returns the user who wrote the message
func (i *Item) AuthorID() int64 {
	if i.UserID != 0 {
		return i.UserID
	}
	return i.SenderID
}

// ProfileResolver fetches the profile of a message author
type ProfileResolver interface {
	ResolveProfile(ctx context.Context, userID int64) (*models.UserSummary, error)
}

// Feed is safe for concurrent use
type Feed struct {
	mu       sync.Mutex
	items    []*Item
	profiles map[int64]*models.UserSummary
	resolver ProfileResolver
	atBottom bool
	unread   int
}

// New creates a Feed seeded with an initial page. The viewer starts at the bottom.
func New(resolver ProfileResolver, initial []*Item) *Feed {
	f := &Feed{
		items:    make([]*Item, 0, len(initial)),
		profiles: make(map[int64]*models.UserSummary),
		resolver: resolver,
		atBottom: true,
	}
	for _, it := range initial {
		if it.Author != nil {
			f.profiles[it.AuthorID()] = it.Author
		}
		f.items = append(f.items, it)
	}
	sort.SliceStable(f.items, func(a, b int) bool { return f.items[a].Timestamp.Before(f.items[b].Timestamp) })
	return f
}

// ResolveAuthors fills in missing authors of the current items, asking the resolver once per user.
// Items whose author cannot be resolved are left without one.
func (f *Feed) ResolveAuthors(ctx context.Context) error {
	f.mu.Lock()
	pending := make([]*Item, 0)
	for _, it := range f.items {
		if it.Author == nil {
			pending = append(pending, it)
		}
	}
	f.mu.Unlock()

	var errs error
	failed := make(map[int64]bool)
	for _, it := range pending {
		userID := it.AuthorID()
		if failed[userID] {
			continue
		}
		author, err := f.profile(ctx, userID)
		if err != nil {
			failed[userID] = true
			errs = errors.Join(errs, err)
			continue
		}
		f.mu.Lock()
		it.Author = author
		f.mu.Unlock()
	}
	return errs
}

// Apply reconciles one event into the feed
func (f *Feed) Apply(ctx context.Context, ev realtime.Event) error {
	switch ev.EventType {
	case realtime.EventInsert:
		var it Item
		if err := json.Unmarshal(ev.New, &it); err != nil {
			return fmt.Errorf("decode inserted row: %w", err)
		}
		return f.insert(ctx, &it)

	case realtime.EventUpdate:
		var it Item
		if err := json.Unmarshal(ev.New, &it); err != nil {
			return fmt.Errorf("decode updated row: %w", err)
		}
		f.update(&it)
		return nil

	case realtime.EventDelete:
		var it Item
		if err := json.Unmarshal(ev.Old, &it); err != nil {
			return fmt.Errorf("decode deleted row: %w", err)
		}
		f.remove(it.ID)
		return nil
	}
	return fmt.Errorf("unknown event type %q", ev.EventType)
}

func (f *Feed) insert(ctx context.Context, it *Item) error {
	author, err := f.profile(ctx, it.AuthorID())
	if err != nil {
		return err
	}
	it.Author = author

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := sort.Search(len(f.items), func(i int) bool { return it.Timestamp.Before(f.items[i].Timestamp) })
	f.items = append(f.items, nil)
	copy(f.items[idx+1:], f.items[idx:])
	f.items[idx] = it

	if !f.atBottom {
		f.unread++
	}
	return nil
}

// profile returns the cached author or asks the resolver, outside the lock
func (f *Feed) profile(ctx context.Context, userID int64) (*models.UserSummary, error) {
	f.mu.Lock()
	p, ok := f.profiles[userID]
	f.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := f.resolver.ResolveProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile %d: %w", userID, err)
	}

	f.mu.Lock()
	f.profiles[userID] = p
	f.mu.Unlock()
	return p, nil
}

func (f *Feed) update(patch *Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == patch.ID {
			it.Content = patch.Content
			it.Edited = patch.Edited
			return
		}
	}
}

func (f *Feed) remove(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
}

// SetAtBottom records whether the viewer sees the newest message; reaching the bottom clears the unread count
func (f *Feed) SetAtBottom(atBottom bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.atBottom = atBottom
	if atBottom {
		f.unread = 0
	}
}

// Unread is the number of messages inserted while the viewer was scrolled up
func (f *Feed) Unread() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread
}

// Items returns a snapshot of the feed, oldest first
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.items))
	for i, it := range f.items {
		out[i] = *it
	}
	return out
}
