package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
)

// memUsers is an in-memory credential store with fault injection.
type memUsers struct {
	mu        sync.Mutex
	byID      map[int64]*entity.User
	nextID    int64
	down      bool
	failSave  bool
	saveCalls int
}

func newMemUsers(users ...*entity.User) *memUsers {
	m := &memUsers{byID: map[int64]*entity.User{}}
	for _, u := range users {
		m.nextID++
		u.ID = m.nextID
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) copyOf(u *entity.User) *entity.User {
	c := *u
	return &c
}

func (m *memUsers) FindByEmailAndPassword(_ context.Context, email, password string) (*entity.UserDetail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, false
	}
	for _, u := range m.byID {
		if u.Email == email && helpers.ComparePassword(u.Password, password) {
			d := u.Detail()
			return &d, true
		}
	}
	return nil, false
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*entity.UserDetail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil, false
	}
	for _, u := range m.byID {
		if u.Username == username {
			d := u.Detail()
			return &d, true
		}
	}
	return nil, false
}

func (m *memUsers) FindByID(_ context.Context, id int64) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil
	}
	if u, ok := m.byID[id]; ok {
		return m.copyOf(u)
	}
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return nil
	}
	for _, u := range m.byID {
		if u.Email == email {
			return m.copyOf(u)
		}
	}
	return nil
}

func (m *memUsers) Save(_ context.Context, u *entity.User) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.down || m.failSave {
		return false
	}
	if u.ID == 0 {
		for _, existing := range m.byID {
			if existing.Email == u.Email || existing.Username == u.Username {
				return false
			}
		}
		m.nextID++
		u.ID = m.nextID
	}
	m.byID[u.ID] = m.copyOf(u)
	return true
}

func (m *memUsers) password(id int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id].Password
}

type sentMail struct {
	To, Subject, Text, HTML string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, text, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Text: text, HTML: html})
	return f.err
}

func (f *fakeMailer) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePublisher struct {
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.jobs = append(f.jobs, body)
	return f.err
}

type fakeIndex struct {
	indexed []int64
	hits    []map[string]any
	lastQ   string
	lastN   int
}

func (f *fakeIndex) Index(_ context.Context, u *entity.User) error {
	f.indexed = append(f.indexed, u.ID)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, size int) ([]map[string]any, error) {
	f.lastQ, f.lastN = q, size
	return f.hits, nil
}

type memFiles struct {
	files  map[int64]*entity.File
	nextID int64
}

func (m *memFiles) FindByID(_ context.Context, id int64) *entity.File {
	return m.files[id]
}

func (m *memFiles) Create(_ context.Context, f *entity.File) bool {
	if m.files == nil {
		m.files = map[int64]*entity.File{}
	}
	m.nextID++
	f.ID = m.nextID
	m.files[f.ID] = f
	return true
}

type fakeStorage struct {
	paths []string
	err   error
}

func (f *fakeStorage) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
