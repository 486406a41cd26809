package services

import (
	"context"
	"mime/multipart"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/repositories"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/realtime"
)

type collabKey struct{ projectID, userID int64 }

// memDB is an in-memory stand-in for the Postgres schema
type memDB struct {
	mu       sync.Mutex
	seq      int64
	clock    time.Time
	users    map[int64]*models.User
	projects map[int64]*models.Project
	collabs  map[collabKey]*models.ProjectCollaborator
	channels map[int64]*models.Channel
	messages map[int64]*models.Message
	dms      map[int64]*models.DirectMessage
	invites  map[int64]*models.ProjectInvite
	requests map[int64]*models.ProjectRequest
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[int64]*models.User{},
		projects: map[int64]*models.Project{},
		collabs:  map[collabKey]*models.ProjectCollaborator{},
		channels: map[int64]*models.Channel{},
		messages: map[int64]*models.Message{},
		dms:      map[int64]*models.DirectMessage{},
		invites:  map[int64]*models.ProjectInvite{},
		requests: map[int64]*models.ProjectRequest{},
	}
}

func (db *memDB) next() (int64, time.Time) {
	db.seq++
	db.clock = db.clock.Add(time.Second)
	return db.seq, db.clock
}

func (db *memDB) repos() *repositories.Repositories {
	return &repositories.Repositories{
		UserRepository:          memUsers{db},
		ProjectRepository:       memProjects{db},
		CollaboratorRepository:  memCollaborators{db},
		ChannelRepository:       memChannels{db},
		MessageRepository:       memMessages{db},
		DirectMessageRepository: memDirectMessages{db},
		InviteRepository:        memInvites{db},
		RequestRepository:       memRequests{db},
	}
}

// seedUser inserts a user directly
func (db *memDB) seedUser(username string, plan models.Plan) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	id, now := db.next()
	u := &models.User{ID: id, Email: username + "@example.com", Username: username, Plan: plan, CreatedAt: now}
	db.users[id] = u
	return u
}

func (db *memDB) seedProject(ownerID int64, title string) *models.Project {
	db.mu.Lock()
	defer db.mu.Unlock()
	id, now := db.next()
	p := &models.Project{ID: id, Title: title, CreatedBy: ownerID, CreatedAt: now, Tags: []string{}, Roles: []string{}}
	db.projects[id] = p
	return p
}

func (db *memDB) seedCollaborator(c models.ProjectCollaborator) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.collabs[collabKey{c.ProjectID, c.UserID}] = &c
}

func (db *memDB) collaborator(projectID, userID int64) (models.ProjectCollaborator, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c, ok := db.collabs[collabKey{projectID, userID}]
	if !ok {
		return models.ProjectCollaborator{}, false
	}
	return *c, true
}

// users

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	user.ID, user.CreatedAt = r.db.next()
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r memUsers) UpdateProfile(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, u := range r.db.users {
		if id != user.ID && u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	if _, ok := r.db.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r memUsers) UpdateProfileImage(_ context.Context, id int64, url string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.ProfileImageURL = url
	return nil
}

func (r memUsers) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.db.users, id)
	for pid, p := range r.db.projects {
		if p.CreatedBy == id {
			delete(r.db.projects, pid)
		}
	}
	for k := range r.db.collabs {
		if k.userID == id {
			delete(r.db.collabs, k)
		}
	}
	return nil
}

func (r memUsers) List(_ context.Context, filter models.UserFilter) ([]*models.User, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	term := strings.ToLower(filter.SearchTerm)
	var out []*models.User
	for _, u := range r.db.users {
		if filter.Role != "" && !strings.EqualFold(u.Role, filter.Role) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(u.Username), term) && !strings.Contains(strings.ToLower(u.ShortBio), term) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Username < out[b].Username })
	total := int64(len(out))
	start := int(filter.Offset)
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return out[start:end], total, nil
}

// projects

type memProjects struct{ db *memDB }

func (r memProjects) Create(_ context.Context, p *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p.ID, p.CreatedAt = r.db.next()
	cp := *p
	r.db.projects[p.ID] = &cp
	return nil
}

func (r memProjects) GetByID(_ context.Context, id int64) (*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p, ok := r.db.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperrors.ErrProjectNotFound
}

func (r memProjects) Update(_ context.Context, p *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[p.ID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	cp := *p
	r.db.projects[p.ID] = &cp
	return nil
}

func (r memProjects) UpdateBanner(_ context.Context, id int64, url string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.projects[id]
	if !ok {
		return apperrors.ErrProjectNotFound
	}
	p.BannerURL = url
	return nil
}

func (r memProjects) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.projects[id]; !ok {
		return apperrors.ErrProjectNotFound
	}
	for cid, c := range r.db.channels {
		if c.ProjectID != id {
			continue
		}
		for mid, m := range r.db.messages {
			if m.ChannelID == cid {
				delete(r.db.messages, mid)
			}
		}
		delete(r.db.channels, cid)
	}
	for k := range r.db.collabs {
		if k.projectID == id {
			delete(r.db.collabs, k)
		}
	}
	for iid, inv := range r.db.invites {
		if inv.ProjectID == id {
			delete(r.db.invites, iid)
		}
	}
	for rid, req := range r.db.requests {
		if req.ProjectID == id {
			delete(r.db.requests, rid)
		}
	}
	delete(r.db.projects, id)
	return nil
}

func (r memProjects) CountByOwner(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, p := range r.db.projects {
		if p.CreatedBy == userID {
			n++
		}
	}
	return n, nil
}

func (r memProjects) ListByMember(_ context.Context, userID int64) ([]*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Project
	for _, p := range r.db.projects {
		_, member := r.db.collabs[collabKey{p.ID, userID}]
		if p.CreatedBy == userID || member {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

func (r memProjects) List(_ context.Context, filter models.ProjectFilter) ([]*models.Project, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*models.Project
	for _, p := range r.db.projects {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, int64(len(out)), nil
}

// collaborators

type memCollaborators struct{ db *memDB }

func (r memCollaborators) Get(_ context.Context, projectID, userID int64) (*models.ProjectCollaborator, error) {
	if c, ok := r.db.collaborator(projectID, userID); ok {
		return &c, nil
	}
	return nil, apperrors.ErrCollaboratorNotFound
}

func (r memCollaborators) Create(_ context.Context, c *models.ProjectCollaborator) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.insertCollaboratorLocked(c)
}

func (db *memDB) insertCollaboratorLocked(c *models.ProjectCollaborator) error {
	k := collabKey{c.ProjectID, c.UserID}
	if _, ok := db.collabs[k]; ok {
		return apperrors.ErrAlreadyCollaborator
	}
	if _, ok := db.projects[c.ProjectID]; !ok {
		return apperrors.ErrProjectNotFound
	}
	_, c.CreatedAt = db.next()
	cp := *c
	db.collabs[k] = &cp
	return nil
}

func (r memCollaborators) UpdatePrivileges(_ context.Context, c *models.ProjectCollaborator) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := collabKey{c.ProjectID, c.UserID}
	if _, ok := r.db.collabs[k]; !ok {
		return apperrors.ErrCollaboratorNotFound
	}
	cp := *c
	r.db.collabs[k] = &cp
	return nil
}

func (r memCollaborators) Delete(_ context.Context, projectID, userID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	k := collabKey{projectID, userID}
	if _, ok := r.db.collabs[k]; !ok {
		return apperrors.ErrCollaboratorNotFound
	}
	delete(r.db.collabs, k)
	return nil
}

func (r memCollaborators) ListByProject(_ context.Context, projectID int64) ([]*models.ProjectCollaborator, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.ProjectCollaborator{}
	for k, c := range r.db.collabs {
		if k.projectID == projectID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].UserID < out[b].UserID })
	return out, nil
}

// channels

type memChannels struct{ db *memDB }

func (r memChannels) Create(_ context.Context, ch *models.Channel) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range r.db.channels {
		if c.ProjectID == ch.ProjectID && c.Name == ch.Name {
			return apperrors.ErrChannelAlreadyExists
		}
	}
	ch.ID, ch.CreatedAt = r.db.next()
	cp := *ch
	r.db.channels[ch.ID] = &cp
	return nil
}

func (r memChannels) GetByID(_ context.Context, id int64) (*models.Channel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.channels[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperrors.ErrChannelNotFound
}

func (r memChannels) ListByProject(_ context.Context, projectID int64) ([]*models.Channel, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Channel{}
	for _, c := range r.db.channels {
		if c.ProjectID == projectID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (r memChannels) DeleteWithMessages(_ context.Context, id int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.channels[id]; !ok {
		return 0, apperrors.ErrChannelNotFound
	}
	var n int64
	for mid, m := range r.db.messages {
		if m.ChannelID == id {
			delete(r.db.messages, mid)
			n++
		}
	}
	delete(r.db.channels, id)
	return n, nil
}

// channel messages

type memMessages struct{ db *memDB }

func (r memMessages) Create(_ context.Context, m *models.Message) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID, m.Timestamp = r.db.next()
	m.UpdatedAt = m.Timestamp
	cp := *m
	r.db.messages[m.ID] = &cp
	return nil
}

func (r memMessages) GetByID(_ context.Context, id int64) (*models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperrors.ErrMessageNotFound
}

func (r memMessages) ListByChannel(_ context.Context, channelID int64, page models.MessagePage) ([]*models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.Message{}
	for _, m := range r.db.messages {
		if m.ChannelID == channelID && (page.Before == nil || m.Timestamp.Before(*page.Before)) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Timestamp.Before(out[b].Timestamp) })
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[len(out)-page.Limit:]
	}
	return out, nil
}

func (r memMessages) UpdateContent(_ context.Context, id int64, content string) (*models.Message, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	m.Content = content
	m.Edited = true
	cp := *m
	return &cp, nil
}

func (r memMessages) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.messages[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(r.db.messages, id)
	return nil
}

// direct messages

type memDirectMessages struct{ db *memDB }

func (r memDirectMessages) Create(_ context.Context, m *models.DirectMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m.ID, m.Timestamp = r.db.next()
	cp := *m
	r.db.dms[m.ID] = &cp
	return nil
}

func (r memDirectMessages) GetByID(_ context.Context, id int64) (*models.DirectMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if m, ok := r.db.dms[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperrors.ErrMessageNotFound
}

func between(m *models.DirectMessage, a, b int64) bool {
	return (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a)
}

func (r memDirectMessages) ListConversation(_ context.Context, userID, partnerID int64, _ models.MessagePage) ([]*models.DirectMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.DirectMessage{}
	for _, m := range r.db.dms {
		if between(m, userID, partnerID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Timestamp.Before(out[b].Timestamp) })
	return out, nil
}

func (r memDirectMessages) MarkConversationRead(_ context.Context, recipientID, senderID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, m := range r.db.dms {
		if m.RecipientID == recipientID && m.SenderID == senderID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r memDirectMessages) UpdateContent(_ context.Context, id int64, content string) (*models.DirectMessage, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.dms[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	m.Content = content
	m.Edited = true
	cp := *m
	return &cp, nil
}

func (r memDirectMessages) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.dms[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(r.db.dms, id)
	return nil
}

func (r memDirectMessages) ListConversations(_ context.Context, userID int64) ([]*models.Conversation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	byPartner := map[int64]*models.Conversation{}
	for _, m := range r.db.dms {
		partner := m.RecipientID
		if m.RecipientID == userID {
			partner = m.SenderID
		} else if m.SenderID != userID {
			continue
		}
		conv, ok := byPartner[partner]
		if !ok {
			conv = &models.Conversation{Partner: r.db.users[partner].Summary()}
			byPartner[partner] = conv
		}
		if m.Timestamp.After(conv.LastMessage.Timestamp) {
			conv.LastMessage = *m
		}
		if m.RecipientID == userID && !m.IsRead {
			conv.UnreadCount++
		}
	}
	out := []*models.Conversation{}
	for _, c := range byPartner {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].LastMessage.Timestamp.After(out[b].LastMessage.Timestamp) })
	return out, nil
}

// invites

type memInvites struct{ db *memDB }

func (r memInvites) Create(_ context.Context, inv *models.ProjectInvite) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	inv.ID, inv.CreatedAt = r.db.next()
	inv.Status = models.InviteStatusPending
	inv.IsReadSender = true
	cp := *inv
	r.db.invites[inv.ID] = &cp
	return nil
}

func (r memInvites) GetByID(_ context.Context, id int64) (*models.ProjectInvite, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if inv, ok := r.db.invites[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, apperrors.ErrInviteNotFound
}

func (r memInvites) HasPending(_ context.Context, projectID, receiverID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, inv := range r.db.invites {
		if inv.ProjectID == projectID && inv.ReceiverID == receiverID && inv.Status == models.InviteStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r memInvites) DeleteExpiredPending(_ context.Context, projectID, receiverID int64, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var removed int64
	for id, inv := range r.db.invites {
		if inv.ProjectID == projectID && inv.ReceiverID == receiverID &&
			inv.Status == models.InviteStatusPending && !inv.ExpiresAt.After(now) {
			delete(r.db.invites, id)
			removed++
		}
	}
	return removed, nil
}

func (r memInvites) filter(keep func(*models.ProjectInvite) bool) []*models.ProjectInvite {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.ProjectInvite{}
	for _, inv := range r.db.invites {
		if keep(inv) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out
}

func (r memInvites) ListReceived(_ context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return r.filter(func(i *models.ProjectInvite) bool { return i.ReceiverID == userID }), nil
}

func (r memInvites) ListSent(_ context.Context, userID int64) ([]*models.ProjectInvite, error) {
	return r.filter(func(i *models.ProjectInvite) bool { return i.SenderID == userID }), nil
}

func (r memInvites) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.invites[id]; !ok {
		return apperrors.ErrInviteNotFound
	}
	delete(r.db.invites, id)
	return nil
}

func (r memInvites) Accept(_ context.Context, inv *models.ProjectInvite) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.invites[inv.ID]; !ok {
		return apperrors.ErrInviteNotFound
	}
	if err := r.db.insertCollaboratorLocked(&models.ProjectCollaborator{ProjectID: inv.ProjectID, UserID: inv.ReceiverID}); err != nil {
		return err
	}
	delete(r.db.invites, inv.ID)
	return nil
}

func (r memInvites) CountUnreadReceived(_ context.Context, userID int64) (int64, error) {
	return int64(len(r.filter(func(i *models.ProjectInvite) bool {
		return i.ReceiverID == userID && !i.IsReadReceiver && i.Status == models.InviteStatusPending
	}))), nil
}

func (r memInvites) MarkAllReceivedRead(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, inv := range r.db.invites {
		if inv.ReceiverID == userID && !inv.IsReadReceiver {
			inv.IsReadReceiver = true
			n++
		}
	}
	return n, nil
}

func (r memInvites) MarkAllSentRead(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, inv := range r.db.invites {
		if inv.SenderID == userID && !inv.IsReadSender {
			inv.IsReadSender = true
			n++
		}
	}
	return n, nil
}

// requests

type memRequests struct{ db *memDB }

func (r memRequests) Create(_ context.Context, req *models.ProjectRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req.ID, req.CreatedAt = r.db.next()
	req.Status = models.RequestStatusPending
	req.IsReadSender = true
	req.IsReadReceiver = false
	cp := *req
	r.db.requests[req.ID] = &cp
	return nil
}

func (r memRequests) GetByID(_ context.Context, id int64) (*models.ProjectRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if req, ok := r.db.requests[id]; ok {
		cp := *req
		return &cp, nil
	}
	return nil, apperrors.ErrRequestNotFound
}

func (r memRequests) HasPending(_ context.Context, projectID, userID int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, req := range r.db.requests {
		if req.ProjectID == projectID && req.UserID == userID && req.Status == models.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r memRequests) resolveLocked(req *models.ProjectRequest, status models.RequestStatus) error {
	stored, ok := r.db.requests[req.ID]
	if !ok || stored.Status != models.RequestStatusPending {
		return apperrors.NewConflictError("Project request has already been processed")
	}
	stored.Status = status
	stored.IsReadSender = false
	req.Status = status
	req.IsReadSender = false
	return nil
}

func (r memRequests) Accept(_ context.Context, req *models.ProjectRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.resolveLocked(req, models.RequestStatusAccepted); err != nil {
		return err
	}
	return r.db.insertCollaboratorLocked(&models.ProjectCollaborator{ProjectID: req.ProjectID, UserID: req.UserID})
}

func (r memRequests) Decline(_ context.Context, req *models.ProjectRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.resolveLocked(req, models.RequestStatusDeclined)
}

// managesLocked reports whether userID owns or administers projectID
func (db *memDB) managesLocked(projectID, userID int64) bool {
	if p, ok := db.projects[projectID]; ok && p.CreatedBy == userID {
		return true
	}
	c, ok := db.collabs[collabKey{projectID, userID}]
	return ok && c.AdminPrivileges
}

func (r memRequests) filter(keep func(*models.ProjectRequest) bool) []*models.ProjectRequest {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*models.ProjectRequest{}
	for _, req := range r.db.requests {
		if keep(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out
}

func (r memRequests) ListReceived(_ context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	return r.filter(func(req *models.ProjectRequest) bool {
		return r.db.managesLocked(req.ProjectID, userID) && (!unreadOnly || !req.IsReadReceiver)
	}), nil
}

func (r memRequests) ListSent(_ context.Context, userID int64, unreadOnly bool) ([]*models.ProjectRequest, error) {
	return r.filter(func(req *models.ProjectRequest) bool {
		return req.UserID == userID && (!unreadOnly || !req.IsReadSender)
	}), nil
}

func (r memRequests) CountUnreadReceived(ctx context.Context, userID int64) (int64, error) {
	list, _ := r.ListReceived(ctx, userID, true)
	return int64(len(list)), nil
}

func (r memRequests) CountUnreadSent(ctx context.Context, userID int64) (int64, error) {
	list, _ := r.ListSent(ctx, userID, true)
	return int64(len(list)), nil
}

func (r memRequests) MarkReceivedRead(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, req := range r.db.requests {
		if r.db.managesLocked(req.ProjectID, userID) && !req.IsReadReceiver {
			req.IsReadReceiver = true
			n++
		}
	}
	return n, nil
}

func (r memRequests) MarkSentRead(_ context.Context, userID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for _, req := range r.db.requests {
		if req.UserID == userID && !req.IsReadSender {
			req.IsReadSender = true
			n++
		}
	}
	return n, nil
}

// infrastructure stubs

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(ev realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) all() []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events...)
}

type memStorage struct {
	saved   []string
	deleted []string
}

func (s *memStorage) SaveFile(_ context.Context, bucket string, fh *multipart.FileHeader) (string, error) {
	url := "http://files.test/" + bucket + "/" + fh.Filename
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *memStorage) DeleteFile(_ context.Context, _ string, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

type sentMail struct{ to, project string }

type memMailer struct{ sent []sentMail }

func (m *memMailer) SendInviteEmail(toEmail, _, _, projectTitle string) error {
	m.sent = append(m.sent, sentMail{toEmail, projectTitle})
	return nil
}

func (m *memMailer) SendApplicationEmail(toEmail, _, _, projectTitle string) error {
	m.sent = append(m.sent, sentMail{toEmail, projectTitle})
	return nil
}

// testEnv bundles a memDB with fully wired services
type testEnv struct {
	db        *memDB
	svc       *Services
	publisher *recordingPublisher
	storage   *memStorage
	mailer    *memMailer
}

func newTestEnv() *testEnv {
	db := newMemDB()
	pub := &recordingPublisher{}
	storage := &memStorage{}
	mailer := &memMailer{}
	svc := NewServices(db.repos(), Dependencies{
		FileStorage:      storage,
		EmailService:     mailer,
		Publisher:        pub,
		FreeProjectLimit: 3,
		InviteTTL:        7 * 24 * time.Hour,
	}, zerolog.Nop())
	return &testEnv{db: db, svc: svc, publisher: pub, storage: storage, mailer: mailer}
}
