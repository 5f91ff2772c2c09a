package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/noah-isme/lms-admin-api/internal/dto"
	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/pkg/storage"
)

type recordedAction struct {
	Action      string
	Entity      string
	EntityID    *string
	Description string
}

type fakeRecorder struct {
	mu      sync.Mutex
	actions []recordedAction
}

func (f *fakeRecorder) Record(_ context.Context, action, entity string, entityID *string, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, recordedAction{Action: action, Entity: entity, EntityID: entityID, Description: description})
}

type fakeInvalidator struct {
	patterns []string
	err      error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, pattern string) error {
	f.patterns = append(f.patterns, pattern)
	return f.err
}

type fakeBranchRepo struct {
	branches  map[string]*models.Branch
	findFail  bool
	createErr error
	deleteErr error
	updated   *models.Branch
}

func (f *fakeBranchRepo) List(context.Context, query.Params) query.Result[query.Page[models.Branch]] {
	rows := make([]models.Branch, 0, len(f.branches))
	for _, b := range f.branches {
		rows = append(rows, *b)
	}
	return query.Ok(query.Page[models.Branch]{Rows: rows, Count: len(rows), PageCount: query.PageCount(len(rows), 10)})
}

func (f *fakeBranchRepo) FindByID(_ context.Context, id string) query.Result[*models.Branch] {
	if f.findFail {
		return query.Fail[*models.Branch]("find branch: connection refused")
	}
	b, ok := f.branches[id]
	if !ok {
		return query.Ok[*models.Branch](nil)
	}
	copied := *b
	return query.Ok(&copied)
}

func (f *fakeBranchRepo) Create(_ context.Context, branch *models.Branch) error {
	if f.createErr != nil {
		return f.createErr
	}
	branch.ID = "branch-new"
	if f.branches == nil {
		f.branches = map[string]*models.Branch{}
	}
	f.branches[branch.ID] = branch
	return nil
}

func (f *fakeBranchRepo) Update(_ context.Context, branch *models.Branch) error {
	f.updated = branch
	return nil
}

func (f *fakeBranchRepo) Delete(_ context.Context, id string) error {
	return f.deleteErr
}

type fakeRoleRepo struct {
	roles map[string]*models.Role
}

func (f *fakeRoleRepo) FindByID(_ context.Context, id string) query.Result[*models.Role] {
	if r, ok := f.roles[id]; ok {
		return query.Ok(r)
	}
	return query.Ok[*models.Role](nil)
}

type fakeModuleRepo struct {
	modules  map[string]*models.Module
	created  *models.Module
	byRole   []string
	listCall int
}

func (f *fakeModuleRepo) List(context.Context, query.Params) query.Result[query.Page[models.Module]] {
	f.listCall++
	return query.Ok(query.Page[models.Module]{Rows: []models.Module{}})
}

func (f *fakeModuleRepo) ListByRole(_ context.Context, roleID string, _ query.Params) query.Result[query.Page[models.Module]] {
	f.byRole = append(f.byRole, roleID)
	return query.Ok(query.Page[models.Module]{Rows: []models.Module{{ID: "m1", RoleID: roleID}}, Count: 1, PageCount: 1})
}

func (f *fakeModuleRepo) FindByID(_ context.Context, id string) query.Result[*models.Module] {
	if m, ok := f.modules[id]; ok {
		return query.Ok(m)
	}
	return query.Ok[*models.Module](nil)
}

func (f *fakeModuleRepo) Create(_ context.Context, module *models.Module) error {
	module.ID = "module-new"
	f.created = module
	return nil
}

func (f *fakeModuleRepo) Update(context.Context, *models.Module) error { return nil }

func (f *fakeModuleRepo) Delete(context.Context, string) error { return nil }

type fakeLessonRepo struct {
	lessons map[string]*models.Lesson
	deleted []string
	paths   map[string]string
	pathErr error
}

func (f *fakeLessonRepo) ListBySection(context.Context, string, query.Params) query.Result[query.Page[models.Lesson]] {
	return query.Ok(query.Page[models.Lesson]{Rows: []models.Lesson{}})
}

func (f *fakeLessonRepo) FindByID(_ context.Context, id string) query.Result[*models.Lesson] {
	l, ok := f.lessons[id]
	if !ok {
		return query.Ok[*models.Lesson](nil)
	}
	copied := *l
	return query.Ok(&copied)
}

func (f *fakeLessonRepo) Create(_ context.Context, lesson *models.Lesson) error {
	lesson.ID = "lesson-new"
	return nil
}

func (f *fakeLessonRepo) Update(context.Context, *models.Lesson) error { return nil }

func (f *fakeLessonRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLessonRepo) SetContentPath(_ context.Context, id, path string) error {
	if f.pathErr != nil {
		return f.pathErr
	}
	if f.paths == nil {
		f.paths = map[string]string{}
	}
	f.paths[id] = path
	return nil
}

type fakeSectionLookup map[string]*models.Section

func (f fakeSectionLookup) FindByID(_ context.Context, id string) query.Result[*models.Section] {
	if s, ok := f[id]; ok {
		return query.Ok(s)
	}
	return query.Ok[*models.Section](nil)
}

type memoryStore struct {
	objects   map[string][]byte
	removed   []string
	uploadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (m *memoryStore) Upload(_ context.Context, objectPath string, content io.Reader, _ storage.UploadOptions) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.objects[objectPath] = data
	return nil
}

func (m *memoryStore) Remove(_ context.Context, objectPath string) error {
	m.removed = append(m.removed, objectPath)
	delete(m.objects, objectPath)
	return nil
}

func (m *memoryStore) Open(_ context.Context, objectPath string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := m.objects[objectPath]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{Path: objectPath, Size: int64(len(data))}, nil
}

type fakeUserRepo struct {
	users     map[string]*models.User
	created   *models.User
	updated   *models.User
	deleted   []string
	emailErr  error
	lastLogin map[string]time.Time
	all       query.Result[[]models.User]
	allCalls  int
}

func (f *fakeUserRepo) List(context.Context, query.Params) query.Result[query.Page[models.User]] {
	return query.Ok(query.Page[models.User]{Rows: []models.User{}})
}

func (f *fakeUserRepo) All(_ context.Context, _ query.Params, _ int) query.Result[[]models.User] {
	f.allCalls++
	return f.all
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) query.Result[*models.User] {
	if u, ok := f.users[id]; ok {
		copied := *u
		return query.Ok(&copied)
	}
	return query.Ok[*models.User](nil)
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.emailErr != nil {
		return nil, f.emailErr
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	if f.lastLogin == nil {
		f.lastLogin = map[string]time.Time{}
	}
	f.lastLogin[id] = ts
	return nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	f.created = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.updated = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeDashboardRepo struct {
	summary dto.DashboardSummary
	err     error
	calls   int
}

func (f *fakeDashboardRepo) Summary(_ context.Context, _ int) (dto.DashboardSummary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeSummaryCache struct {
	stored map[string]dto.DashboardSummary
	sets   int
}

func (f *fakeSummaryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := f.stored[key]
	if !ok {
		return false, nil
	}
	*(dest.(*dto.DashboardSummary)) = v
	return true, nil
}

func (f *fakeSummaryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if f.stored == nil {
		f.stored = map[string]dto.DashboardSummary{}
	}
	f.stored[key] = value.(dto.DashboardSummary)
	f.sets++
	return nil
}

func sqlNoRowsWrapped() error {
	return fmt.Errorf("delete: %w", sql.ErrNoRows)
}

func queryParams() query.Params {
	return query.Params{Page: "1", Limit: "10"}
}
