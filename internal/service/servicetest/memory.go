// Package servicetest provides in-memory stores and mocks that satisfy the
// service store interfaces, for tests that should not need Postgres.
package servicetest

import (
	"cmp"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-vidtube/internal/model"
	"go-vidtube/pkg/apierror"
)

type like struct {
	userID    string
	target    model.LikeTarget
	targetID  string
	createdAt time.Time
}

type subscription struct {
	subscriberID string
	channelID    string
	createdAt    time.Time
}

type playlistEntry struct {
	videoID string
	addedAt time.Time
}

// Memory is a single in-memory database shared by the typed store views.
// Deletes cascade the way the foreign keys in the schema do.
type Memory struct {
	mu             sync.RWMutex
	users          map[string]model.User
	videos         map[string]model.Video
	comments       map[string]model.Comment
	tweets         map[string]model.Tweet
	playlists      map[string]model.Playlist
	playlistVideos map[string][]playlistEntry
	likes          []like
	subscriptions  []subscription
	history        map[string]map[string]time.Time
	seq            time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:          map[string]model.User{},
		videos:         map[string]model.Video{},
		comments:       map[string]model.Comment{},
		tweets:         map[string]model.Tweet{},
		playlists:      map[string]model.Playlist{},
		playlistVideos: map[string][]playlistEntry{},
		history:        map[string]map[string]time.Time{},
		seq:            time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *Memory) Users() *Users                 { return &Users{m} }
func (m *Memory) Videos() *Videos               { return &Videos{m} }
func (m *Memory) Comments() *Comments           { return &Comments{m} }
func (m *Memory) Tweets() *Tweets               { return &Tweets{m} }
func (m *Memory) Likes() *Likes                 { return &Likes{m} }
func (m *Memory) Playlists() *Playlists         { return &Playlists{m} }
func (m *Memory) Subscriptions() *Subscriptions { return &Subscriptions{m} }
func (m *Memory) Dashboard() *Dashboard         { return &Dashboard{m} }

// tick returns strictly increasing timestamps so ordering is deterministic.
func (m *Memory) tick() time.Time {
	m.seq = m.seq.Add(time.Second)
	return m.seq
}

func (m *Memory) owner(id string) *model.OwnerSummary {
	u := m.users[id]
	return &model.OwnerSummary{ID: u.ID, Username: u.Username, FullName: u.FullName, Avatar: u.Avatar}
}

func (m *Memory) withOwnerVideo(v model.Video) model.Video {
	v.Owner = m.owner(v.OwnerID)
	return v
}

func page[T any](items []T, q model.ListQuery) []T {
	start := q.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + q.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(haystack string, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type Users struct{ m *Memory }

func (s *Users) FindByID(_ context.Context, id string) (model.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found", id)
	}
	return u, nil
}

func (s *Users) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if strings.EqualFold(u.Username, strings.TrimSpace(username)) {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", username)
}

func (s *Users) FindByLogin(_ context.Context, username string, email string) (model.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	for _, u := range s.m.users {
		if (username != "" && strings.EqualFold(u.Username, username)) ||
			(email != "" && strings.EqualFold(u.Email, email)) {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("user does not exist", "")
}

func (s *Users) ExistsByUsernameOrEmail(_ context.Context, username string, email string) (bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Users) Create(_ context.Context, u model.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return apierror.Conflict("user with email or username already exists", u.Username)
		}
	}
	s.m.users[u.ID] = u
	return nil
}

func (s *Users) SetRefreshToken(_ context.Context, userID string, token *string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[userID]
	if !ok {
		return apierror.NotFound("user not found", userID)
	}
	if token != nil {
		stored := *token
		token = &stored
	}
	u.RefreshToken = token
	s.m.users[userID] = u
	return nil
}

func (s *Users) RotateRefreshToken(_ context.Context, userID string, current string, next string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != current {
		return false, nil
	}
	u.RefreshToken = &next
	s.m.users[userID] = u
	return true, nil
}

func (s *Users) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	return s.update(userID, func(u *model.User) error {
		u.PasswordHash = passwordHash
		return nil
	})
}

func (s *Users) UpdateAccount(_ context.Context, userID string, fullName string, email string) (model.User, error) {
	var out model.User
	err := s.update(userID, func(u *model.User) error {
		for id, other := range s.m.users {
			if id != userID && strings.EqualFold(other.Email, email) {
				return apierror.Conflict("email is already in use", email)
			}
		}
		u.FullName, u.Email = fullName, email
		out = *u
		return nil
	})
	return out, err
}

func (s *Users) UpdateAvatar(_ context.Context, userID string, url string) (model.User, error) {
	var out model.User
	err := s.update(userID, func(u *model.User) error {
		u.Avatar = url
		out = *u
		return nil
	})
	return out, err
}

func (s *Users) UpdateCoverImage(_ context.Context, userID string, url string) (model.User, error) {
	var out model.User
	err := s.update(userID, func(u *model.User) error {
		u.CoverImage = url
		out = *u
		return nil
	})
	return out, err
}

func (s *Users) update(userID string, apply func(u *model.User) error) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[userID]
	if !ok {
		return apierror.NotFound("user not found", userID)
	}
	if err := apply(&u); err != nil {
		return err
	}
	u.UpdatedAt = s.m.tick()
	s.m.users[userID] = u
	return nil
}

type Videos struct{ m *Memory }

func (s *Videos) Create(_ context.Context, v model.Video) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	v.CreatedAt = s.m.tick()
	v.UpdatedAt = v.CreatedAt
	v.Owner = nil
	s.m.videos[v.ID] = v
	return nil
}

func (s *Videos) FindByID(_ context.Context, id string) (model.Video, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	v, ok := s.m.videos[id]
	if !ok {
		return model.Video{}, apierror.NotFound("video not found", id)
	}
	return s.m.withOwnerVideo(v), nil
}

func (s *Videos) List(_ context.Context, filter model.VideoFilter) ([]model.Video, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matched := make([]model.Video, 0)
	for _, v := range s.m.videos {
		if !filter.IncludeUnpublished && !v.IsPublished {
			continue
		}
		if filter.OwnerID != "" && v.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Query != "" && !contains(v.Title, filter.Query) && !contains(v.Description, filter.Query) {
			continue
		}
		matched = append(matched, s.m.withOwnerVideo(v))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareVideos(matched[i], matched[j], filter.SortBy)
		if filter.Desc {
			return c > 0
		}
		return c < 0
	})

	return page(matched, filter.ListQuery), len(matched), nil
}

func compareVideos(a model.Video, b model.Video, sortBy string) int {
	switch sortBy {
	case "title":
		return cmp.Compare(a.Title, b.Title)
	case "views":
		return cmp.Compare(a.Views, b.Views)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (s *Videos) Update(_ context.Context, v model.Video) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	existing, ok := s.m.videos[v.ID]
	if !ok {
		return apierror.NotFound("video not found", v.ID)
	}
	existing.Title = v.Title
	existing.Description = v.Description
	existing.Thumbnail = v.Thumbnail
	existing.IsPublished = v.IsPublished
	existing.UpdatedAt = s.m.tick()
	s.m.videos[v.ID] = existing
	return nil
}

func (s *Videos) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.videos[id]; !ok {
		return apierror.NotFound("video not found", id)
	}
	delete(s.m.videos, id)
	for cid, c := range s.m.comments {
		if c.VideoID == id {
			delete(s.m.comments, cid)
		}
	}
	for pid, entries := range s.m.playlistVideos {
		kept := entries[:0]
		for _, e := range entries {
			if e.videoID != id {
				kept = append(kept, e)
			}
		}
		s.m.playlistVideos[pid] = kept
	}
	for _, watched := range s.m.history {
		delete(watched, id)
	}
	s.m.dropLikes(model.LikeTargetVideo, id)
	return nil
}

func (s *Videos) IncrementViews(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	v, ok := s.m.videos[id]
	if !ok {
		return nil
	}
	v.Views++
	s.m.videos[id] = v
	return nil
}

func (s *Videos) RecordWatch(_ context.Context, userID string, videoID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if s.m.history[userID] == nil {
		s.m.history[userID] = map[string]time.Time{}
	}
	s.m.history[userID][videoID] = s.m.tick()
	return nil
}

func (s *Videos) WatchHistory(_ context.Context, userID string, q model.ListQuery) ([]model.WatchHistoryEntry, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	entries := make([]model.WatchHistoryEntry, 0)
	for videoID, at := range s.m.history[userID] {
		if v, ok := s.m.videos[videoID]; ok {
			entries = append(entries, model.WatchHistoryEntry{Video: s.m.withOwnerVideo(v), WatchedAt: at})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WatchedAt.After(entries[j].WatchedAt) })
	return page(entries, q), len(entries), nil
}

type Comments struct{ m *Memory }

func (s *Comments) Create(_ context.Context, c model.Comment) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	c.CreatedAt = s.m.tick()
	c.UpdatedAt = c.CreatedAt
	s.m.comments[c.ID] = c
	return nil
}

func (s *Comments) FindByID(_ context.Context, id string) (model.Comment, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	c, ok := s.m.comments[id]
	if !ok {
		return model.Comment{}, apierror.NotFound("comment not found", id)
	}
	c.Owner = s.m.owner(c.OwnerID)
	return c, nil
}

func (s *Comments) ListByVideo(_ context.Context, videoID string, q model.ListQuery) ([]model.Comment, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matched := make([]model.Comment, 0)
	for _, c := range s.m.comments {
		if c.VideoID != videoID || (q.Query != "" && !contains(c.Content, q.Query)) {
			continue
		}
		c.Owner = s.m.owner(c.OwnerID)
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		if q.Desc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return page(matched, q), len(matched), nil
}

func (s *Comments) UpdateContent(_ context.Context, id string, content string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	c, ok := s.m.comments[id]
	if !ok {
		return apierror.NotFound("comment not found", id)
	}
	c.Content = content
	c.UpdatedAt = s.m.tick()
	s.m.comments[id] = c
	return nil
}

func (s *Comments) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.comments[id]; !ok {
		return apierror.NotFound("comment not found", id)
	}
	delete(s.m.comments, id)
	s.m.dropLikes(model.LikeTargetComment, id)
	return nil
}

type Tweets struct{ m *Memory }

func (s *Tweets) Create(_ context.Context, t model.Tweet) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	t.CreatedAt = s.m.tick()
	t.UpdatedAt = t.CreatedAt
	s.m.tweets[t.ID] = t
	return nil
}

func (s *Tweets) FindByID(_ context.Context, id string) (model.Tweet, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	t, ok := s.m.tweets[id]
	if !ok {
		return model.Tweet{}, apierror.NotFound("tweet not found", id)
	}
	t.Owner = s.m.owner(t.OwnerID)
	return t, nil
}

func (s *Tweets) ListByOwner(_ context.Context, ownerID string, q model.ListQuery) ([]model.Tweet, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matched := make([]model.Tweet, 0)
	for _, t := range s.m.tweets {
		if t.OwnerID == ownerID {
			t.Owner = s.m.owner(t.OwnerID)
			matched = append(matched, t)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, q), len(matched), nil
}

func (s *Tweets) UpdateContent(_ context.Context, id string, content string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	t, ok := s.m.tweets[id]
	if !ok {
		return apierror.NotFound("tweet not found", id)
	}
	t.Content = content
	t.UpdatedAt = s.m.tick()
	s.m.tweets[id] = t
	return nil
}

func (s *Tweets) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.tweets[id]; !ok {
		return apierror.NotFound("tweet not found", id)
	}
	delete(s.m.tweets, id)
	s.m.dropLikes(model.LikeTargetTweet, id)
	return nil
}

type Likes struct{ m *Memory }

func (s *Likes) Toggle(_ context.Context, userID string, target model.LikeTarget, targetID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for i, l := range s.m.likes {
		if l.userID == userID && l.target == target && l.targetID == targetID {
			s.m.likes = append(s.m.likes[:i], s.m.likes[i+1:]...)
			return false, nil
		}
	}
	s.m.likes = append(s.m.likes, like{userID: userID, target: target, targetID: targetID, createdAt: s.m.tick()})
	return true, nil
}

func (s *Likes) LikedVideos(_ context.Context, userID string, q model.ListQuery) ([]model.Video, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	videos := make([]model.Video, 0)
	for i := len(s.m.likes) - 1; i >= 0; i-- {
		l := s.m.likes[i]
		if l.userID != userID || l.target != model.LikeTargetVideo {
			continue
		}
		if v, ok := s.m.videos[l.targetID]; ok && v.IsPublished {
			videos = append(videos, s.m.withOwnerVideo(v))
		}
	}
	return page(videos, q), len(videos), nil
}

func (m *Memory) dropLikes(target model.LikeTarget, targetID string) {
	kept := m.likes[:0]
	for _, l := range m.likes {
		if l.target != target || l.targetID != targetID {
			kept = append(kept, l)
		}
	}
	m.likes = kept
}

type Playlists struct{ m *Memory }

func (s *Playlists) Create(_ context.Context, p model.Playlist) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	p.CreatedAt = s.m.tick()
	p.UpdatedAt = p.CreatedAt
	s.m.playlists[p.ID] = p
	return nil
}

func (s *Playlists) FindByID(_ context.Context, id string) (model.Playlist, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	p, ok := s.m.playlists[id]
	if !ok {
		return model.Playlist{}, apierror.NotFound("playlist not found", id)
	}
	return s.m.decoratePlaylist(p), nil
}

func (m *Memory) decoratePlaylist(p model.Playlist) model.Playlist {
	p.Owner = m.owner(p.OwnerID)
	p.VideoCount = len(m.playlistVideos[p.ID])
	return p
}

func (s *Playlists) ListByOwner(_ context.Context, ownerID string, q model.ListQuery) ([]model.Playlist, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	matched := make([]model.Playlist, 0)
	for _, p := range s.m.playlists {
		if p.OwnerID == ownerID {
			matched = append(matched, s.m.decoratePlaylist(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].UpdatedAt.After(matched[j].UpdatedAt) })
	return page(matched, q), len(matched), nil
}

func (s *Playlists) Videos(_ context.Context, playlistID string) ([]model.Video, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	videos := make([]model.Video, 0)
	for _, e := range s.m.playlistVideos[playlistID] {
		if v, ok := s.m.videos[e.videoID]; ok {
			videos = append(videos, s.m.withOwnerVideo(v))
		}
	}
	return videos, nil
}

func (s *Playlists) Update(_ context.Context, p model.Playlist) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	existing, ok := s.m.playlists[p.ID]
	if !ok {
		return apierror.NotFound("playlist not found", p.ID)
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.UpdatedAt = s.m.tick()
	s.m.playlists[p.ID] = existing
	return nil
}

func (s *Playlists) Delete(_ context.Context, id string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.playlists[id]; !ok {
		return apierror.NotFound("playlist not found", id)
	}
	delete(s.m.playlists, id)
	delete(s.m.playlistVideos, id)
	return nil
}

func (s *Playlists) AddVideo(_ context.Context, playlistID string, videoID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, e := range s.m.playlistVideos[playlistID] {
		if e.videoID == videoID {
			return apierror.Conflict("video already exists in the playlist", videoID)
		}
	}
	s.m.playlistVideos[playlistID] = append(s.m.playlistVideos[playlistID], playlistEntry{videoID: videoID, addedAt: s.m.tick()})
	return nil
}

func (s *Playlists) RemoveVideo(_ context.Context, playlistID string, videoID string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	entries := s.m.playlistVideos[playlistID]
	for i, e := range entries {
		if e.videoID == videoID {
			s.m.playlistVideos[playlistID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}
	return apierror.NotFound("video not found in the playlist", videoID)
}

type Subscriptions struct{ m *Memory }

func (s *Subscriptions) Toggle(_ context.Context, subscriberID string, channelID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for i, sub := range s.m.subscriptions {
		if sub.subscriberID == subscriberID && sub.channelID == channelID {
			s.m.subscriptions = append(s.m.subscriptions[:i], s.m.subscriptions[i+1:]...)
			return false, nil
		}
	}
	s.m.subscriptions = append(s.m.subscriptions, subscription{subscriberID: subscriberID, channelID: channelID, createdAt: s.m.tick()})
	return true, nil
}

// Subscribe records a subscription at a fixed time, for seeding tests.
func (s *Subscriptions) Subscribe(subscriberID string, channelID string, at time.Time) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.subscriptions = append(s.m.subscriptions, subscription{subscriberID: subscriberID, channelID: channelID, createdAt: at})
}

func (s *Subscriptions) IsSubscribed(_ context.Context, subscriberID string, channelID string) (bool, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, sub := range s.m.subscriptions {
		if sub.subscriberID == subscriberID && sub.channelID == channelID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Subscriptions) CountSubscribers(_ context.Context, channelID string) (int, error) {
	return s.count(func(sub subscription) bool { return sub.channelID == channelID }), nil
}

func (s *Subscriptions) CountSubscribedTo(_ context.Context, subscriberID string) (int, error) {
	return s.count(func(sub subscription) bool { return sub.subscriberID == subscriberID }), nil
}

func (s *Subscriptions) CountSubscribersSince(_ context.Context, channelID string, since time.Time) (int, error) {
	return s.count(func(sub subscription) bool {
		return sub.channelID == channelID && !sub.createdAt.Before(since)
	}), nil
}

func (s *Subscriptions) count(match func(subscription) bool) int {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	n := 0
	for _, sub := range s.m.subscriptions {
		if match(sub) {
			n++
		}
	}
	return n
}

func (s *Subscriptions) ListSubscribers(_ context.Context, channelID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error) {
	return s.list(q, func(sub subscription) (string, bool) { return sub.subscriberID, sub.channelID == channelID })
}

func (s *Subscriptions) ListSubscribedChannels(_ context.Context, subscriberID string, q model.ListQuery) ([]model.SubscriptionEntry, int, error) {
	return s.list(q, func(sub subscription) (string, bool) { return sub.channelID, sub.subscriberID == subscriberID })
}

func (s *Subscriptions) list(q model.ListQuery, pick func(subscription) (string, bool)) ([]model.SubscriptionEntry, int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	entries := make([]model.SubscriptionEntry, 0)
	for i := len(s.m.subscriptions) - 1; i >= 0; i-- {
		sub := s.m.subscriptions[i]
		if userID, ok := pick(sub); ok {
			entries = append(entries, model.SubscriptionEntry{User: *s.m.owner(userID), SubscribedAt: sub.createdAt})
		}
	}
	return page(entries, q), len(entries), nil
}

type Dashboard struct{ m *Memory }

func (s *Dashboard) VideoTotals(_ context.Context, channelID string) (int, int64, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	count, views := 0, int64(0)
	for _, v := range s.m.videos {
		if v.OwnerID == channelID {
			count++
			views += v.Views
		}
	}
	return count, views, nil
}

func (s *Dashboard) CountVideoLikes(_ context.Context, channelID string) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	n := 0
	for _, l := range s.m.likes {
		if v, ok := s.m.videos[l.targetID]; ok && l.target == model.LikeTargetVideo && v.OwnerID == channelID {
			n++
		}
	}
	return n, nil
}

// SeedUser inserts a user directly, bypassing registration.
func (m *Memory) SeedUser(username string) model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	u := model.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		FullName:  strings.ToUpper(username[:1]) + username[1:],
		Avatar:    "http://media.test/" + username + ".png",
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.users[u.ID] = u
	return u
}

// SeedVideo inserts a published video owned by ownerID.
func (m *Memory) SeedVideo(ownerID string, title string) model.Video {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	v := model.Video{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: title + " description",
		VideoURL:    "http://media.test/" + title + ".mp4",
		Thumbnail:   "http://media.test/" + title + ".png",
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.videos[v.ID] = v
	return m.withOwnerVideo(v)
}
