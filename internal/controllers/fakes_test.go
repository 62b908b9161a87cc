package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybud/backend/internal/auth"
	"github.com/studybud/backend/internal/database/models"
	"github.com/studybud/backend/internal/forum"
	"github.com/studybud/backend/internal/router"
)

// memStore is an in-memory stand-in for the forum services.
type memStore struct {
	mu sync.Mutex

	nextID       uint
	users        map[uint]*models.User
	topics       map[uint]*models.Topic
	rooms        map[uint]*models.Room
	messages     map[uint]*models.Message
	participants map[uint]map[uint]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uint]*models.User),
		topics:       make(map[uint]*models.Topic),
		rooms:        make(map[uint]*models.Room),
		messages:     make(map[uint]*models.Message),
		participants: make(map[uint]map[uint]bool),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) CreateUser(_ context.Context, username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, forum.ErrUsernameTaken
		}
	}

	u := &models.User{ID: s.id(), Username: username, PasswordHash: passwordHash, DateJoined: time.Now()}
	s.users[u.ID] = u
	return u, nil
}

func (s *memStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, forum.ErrNotFound
}

func (s *memStore) TouchLastLogin(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.users[userID].LastLogin = &now
	return nil
}

func (s *memStore) SearchRooms(_ context.Context, q string) ([]models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q = strings.ToLower(q)
	rooms := make([]models.Room, 0)
	for _, id := range s.roomIDs() {
		room := s.rooms[id]
		if strings.Contains(strings.ToLower(room.TopicName()), q) ||
			strings.Contains(strings.ToLower(room.Name), q) ||
			strings.Contains(strings.ToLower(room.Description), q) {
			rooms = append(rooms, *room)
		}
	}
	return rooms, nil
}

func (s *memStore) roomIDs() []uint {
	ids := make([]uint, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *memStore) ListTopics(_ context.Context) ([]models.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make([]models.Topic, 0, len(s.topics))
	for _, t := range s.topics {
		topics = append(topics, *t)
	}
	return topics, nil
}

func (s *memStore) FindRoom(_ context.Context, roomID uint) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, forum.ErrNotFound
	}
	cp := *room
	return &cp, nil
}

func (s *memStore) RoomMessages(_ context.Context, roomID uint) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := make([]models.Message, 0)
	for _, m := range s.messages {
		if m.RoomID == roomID {
			messages = append(messages, *m)
		}
	}
	sort.Slice(messages, func(i, j int) bool { return messages[i].ID > messages[j].ID })
	return messages, nil
}

func (s *memStore) RoomParticipants(_ context.Context, roomID uint) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0)
	for userID := range s.participants[roomID] {
		users = append(users, *s.users[userID])
	}
	return users, nil
}

func (s *memStore) topic(name string) *models.Topic {
	if name == "" {
		return nil
	}
	for _, t := range s.topics {
		if t.Name == name {
			return t
		}
	}
	t := &models.Topic{ID: s.id(), Name: name}
	s.topics[t.ID] = t
	return t
}

func (s *memStore) CreateRoom(_ context.Context, hostID uint, input forum.RoomInput) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := &models.Room{
		ID:          s.id(),
		HostID:      hostID,
		Host:        s.users[hostID],
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if room.Topic = s.topic(input.Topic); room.Topic != nil {
		room.TopicID = &room.Topic.ID
	}
	s.rooms[room.ID] = room
	return room, nil
}

func (s *memStore) UpdateRoom(_ context.Context, room *models.Room, input forum.RoomInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rooms[room.ID]
	if !ok {
		return forum.ErrNotFound
	}
	stored.Name = input.Name
	stored.Description = input.Description
	stored.Topic = s.topic(input.Topic)
	stored.TopicID = nil
	if stored.Topic != nil {
		stored.TopicID = &stored.Topic.ID
	}
	stored.UpdatedAt = time.Now()
	*room = *stored
	return nil
}

func (s *memStore) DeleteRoom(_ context.Context, roomID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[roomID]; !ok {
		return forum.ErrNotFound
	}
	for id, m := range s.messages {
		if m.RoomID == roomID {
			delete(s.messages, id)
		}
	}
	delete(s.participants, roomID)
	delete(s.rooms, roomID)
	return nil
}

func (s *memStore) PostMessage(_ context.Context, roomID, userID uint, body string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &models.Message{
		ID:        s.id(),
		RoomID:    roomID,
		UserID:    userID,
		User:      s.users[userID],
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.messages[msg.ID] = msg

	if s.participants[roomID] == nil {
		s.participants[roomID] = make(map[uint]bool)
	}
	s.participants[roomID][userID] = true
	return msg, nil
}

func (s *memStore) FindMessage(_ context.Context, messageID uint) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[messageID]
	if !ok {
		return nil, forum.ErrNotFound
	}
	cp := *msg
	return &cp, nil
}

func (s *memStore) UpdateMessage(_ context.Context, msg *models.Message, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.messages[msg.ID]
	if !ok {
		return forum.ErrNotFound
	}
	stored.Body = body
	stored.UpdatedAt = time.Now()
	*msg = *stored
	return nil
}

func (s *memStore) DeleteMessage(_ context.Context, messageID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[messageID]; !ok {
		return forum.ErrNotFound
	}
	delete(s.messages, messageID)
	return nil
}

// recordingRenderer captures the last rendered page instead of producing HTML.
type recordingRenderer struct {
	name string
	data any
}

func (r *recordingRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	r.name = name
	r.data = data
	w.WriteHeader(status)
	return nil
}

type testApp struct {
	t         *testing.T
	store     *memStore
	views     *recordingRenderer
	sessions  *auth.Manager
	passwords *auth.PasswordHasher
	router    *mux.Router
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	sessions, err := auth.NewManager(auth.Config{})
	require.NoError(t, err)

	app := &testApp{
		t:         t,
		store:     newMemStore(),
		views:     &recordingRenderer{},
		sessions:  sessions,
		passwords: auth.NewPasswordHasher(bcrypt.MinCost),
	}

	app.router = router.New(
		&HealthController{},
		&AuthController{Accounts: app.store, Passwords: app.passwords, Sessions: sessions, Views: app.views},
		&RoomController{Rooms: app.store, Sessions: sessions, Views: app.views},
		&MessageController{Messages: app.store, Sessions: sessions, Views: app.views},
	)
	return app
}

func (a *testApp) user(username string) *models.User {
	a.t.Helper()

	hash, err := a.passwords.Hash("correct-horse")
	require.NoError(a.t, err)

	u, err := a.store.CreateUser(context.Background(), username, hash)
	require.NoError(a.t, err)
	return u
}

func (a *testApp) room(host *models.User, topic, name, description string) *models.Room {
	a.t.Helper()

	room, err := a.store.CreateRoom(context.Background(), host.ID, forum.RoomInput{Topic: topic, Name: name, Description: description})
	require.NoError(a.t, err)
	return room
}

// cookie returns a valid session cookie for u.
func (a *testApp) cookie(u *models.User) *http.Cookie {
	a.t.Helper()

	rec := httptest.NewRecorder()
	require.NoError(a.t, a.sessions.Issue(rec, u.ID, u.Username))

	cookies := rec.Result().Cookies()
	require.Len(a.t, cookies, 1)
	return cookies[0]
}

func (a *testApp) get(path string, as *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	return a.do(req, as)
}

func (a *testApp) post(path string, form url.Values, as *models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, as)
}

func (a *testApp) do(req *http.Request, as *models.User) *httptest.ResponseRecorder {
	if as != nil {
		req.AddCookie(a.cookie(as))
	}

	a.views.name, a.views.data = "", nil
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}
