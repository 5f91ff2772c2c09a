package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-admin-api/internal/dto"
	"github.com/noah-isme/lms-admin-api/internal/models"
	"github.com/noah-isme/lms-admin-api/internal/query"
	"github.com/noah-isme/lms-admin-api/internal/service"
	appErrors "github.com/noah-isme/lms-admin-api/pkg/errors"
	"github.com/noah-isme/lms-admin-api/pkg/storage"
)

type resultBody struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

type envelopeBody struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func serve(method, route, target string, body io.Reader, h gin.HandlerFunc, headers ...string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, route, h)
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type fakeBranchSvc struct {
	list      query.Result[query.Page[models.Branch]]
	get       query.Result[*models.Branch]
	createErr error
	deleteErr error
	params    query.Params
	created   models.BranchRequest
}

func (f *fakeBranchSvc) List(_ context.Context, params query.Params) query.Result[query.Page[models.Branch]] {
	f.params = params
	return f.list
}

func (f *fakeBranchSvc) Get(context.Context, string) query.Result[*models.Branch] { return f.get }

func (f *fakeBranchSvc) Create(_ context.Context, req models.BranchRequest) (*models.Branch, error) {
	f.created = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Branch{ID: "b1", Name: req.Name, City: req.City}, nil
}

func (f *fakeBranchSvc) Update(_ context.Context, id string, req models.BranchRequest) (*models.Branch, error) {
	return &models.Branch{ID: id, Name: req.Name, City: req.City}, nil
}

func (f *fakeBranchSvc) Delete(context.Context, string) error { return f.deleteErr }

func TestListPassesQueryParams(t *testing.T) {
	svc := &fakeBranchSvc{list: query.Ok(query.Page[models.Branch]{
		Rows:      []models.Branch{{ID: "b1", Name: "Central"}},
		Count:     11,
		PageCount: 2,
	})}
	h := NewBranchHandler(svc)

	rec := serve(http.MethodGet, "/branches", "/branches?page=2&limit=10&search=cent&sort=name&order=asc", nil, h.List)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", svc.params.Page)
	assert.Equal(t, "10", svc.params.Limit)
	assert.Equal(t, "cent", svc.params.Search)
	assert.Equal(t, "asc", svc.params.Order)

	var body resultBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Error)
	assert.JSONEq(t, `{"rows":[{"id":"b1","name":"Central","city":"","createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}],"count":11,"numberOfPages":2}`, string(body.Data))
}

func TestListFailureIs500WithReason(t *testing.T) {
	h := NewBranchHandler(&fakeBranchSvc{list: query.Fail[query.Page[models.Branch]]("list branches: connection refused")})

	rec := serve(http.MethodGet, "/branches", "/branches", nil, h.List)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":"list branches: connection refused"}`, rec.Body.String())
}

func TestGetMissingIs404WithNullData(t *testing.T) {
	h := NewBranchHandler(&fakeBranchSvc{get: query.Ok[*models.Branch](nil)})

	rec := serve(http.MethodGet, "/branches/:id", "/branches/missing", nil, h.Get)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":null}`, rec.Body.String())
}

func TestGetFound(t *testing.T) {
	h := NewBranchHandler(&fakeBranchSvc{get: query.Ok(&models.Branch{ID: "b1", Name: "Central"})})

	rec := serve(http.MethodGet, "/branches/:id", "/branches/b1", nil, h.Get)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Central"`)
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	svc := &fakeBranchSvc{}
	h := NewBranchHandler(svc)

	rec := serve(http.MethodPost, "/branches", "/branches", strings.NewReader(`{"name":`), h.Create)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, body.Error.Code)
	assert.Empty(t, svc.created.Name)
}

func TestCreateReturns201(t *testing.T) {
	svc := &fakeBranchSvc{}
	h := NewBranchHandler(svc)

	rec := serve(http.MethodPost, "/branches", "/branches", strings.NewReader(`{"name":"North","city":"Bandung"}`), h.Create)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "North", svc.created.Name)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestCreateConflictKeepsErrorStatus(t *testing.T) {
	h := NewBranchHandler(&fakeBranchSvc{createErr: appErrors.Clone(appErrors.ErrConflict, "branch name already exists")})

	rec := serve(http.MethodPost, "/branches", "/branches", strings.NewReader(`{"name":"North","city":"Bandung"}`), h.Create)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "branch name already exists", body.Error.Message)
}

func TestDeleteStatus(t *testing.T) {
	h := NewBranchHandler(&fakeBranchSvc{})
	rec := serve(http.MethodDelete, "/branches/:id", "/branches/b1", nil, h.Delete)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	h = NewBranchHandler(&fakeBranchSvc{deleteErr: appErrors.ErrNotFound})
	rec = serve(http.MethodDelete, "/branches/:id", "/branches/b1", nil, h.Delete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type fakeDashboardSvc struct {
	res    query.Result[dto.DashboardSummary]
	cached bool
}

func (f fakeDashboardSvc) Summary(context.Context) (query.Result[dto.DashboardSummary], bool) {
	return f.res, f.cached
}

func TestDashboardWithoutSessionIs401(t *testing.T) {
	h := NewDashboardHandler(fakeDashboardSvc{res: query.Reject[dto.DashboardSummary]("no active session")})

	rec := serve(http.MethodGet, "/dashboard", "/dashboard", nil, h.Summary)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":"no active session"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestDashboardMarksCacheHits(t *testing.T) {
	h := NewDashboardHandler(fakeDashboardSvc{
		res:    query.Ok(dto.DashboardSummary{TotalUsers: 3, TotalAdmins: 1, TotalStaff: 2, RecentLogs: []models.ActionLog{}}),
		cached: true,
	})

	rec := serve(http.MethodGet, "/dashboard", "/dashboard", nil, h.Summary)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"totalUsers":3`)
}

func TestDashboardFailureIs500(t *testing.T) {
	h := NewDashboardHandler(fakeDashboardSvc{res: query.Fail[dto.DashboardSummary]("count users: timeout")})

	rec := serve(http.MethodGet, "/dashboard", "/dashboard", nil, h.Summary)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type fakeAuthSvc struct {
	loginErr error
	req      models.LoginRequest
	me       *models.UserInfo
	meErr    error
}

func (f *fakeAuthSvc) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.req = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600, User: models.UserInfo{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeAuthSvc) Me(context.Context) (*models.UserInfo, error) { return f.me, f.meErr }

func TestLoginCapturesClientDetails(t *testing.T) {
	svc := &fakeAuthSvc{}
	h := NewAuthHandler(svc)

	rec := serve(http.MethodPost, "/auth/login", "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`), h.Login, "User-Agent", "test-agent")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-agent", svc.req.UserAgent)
	assert.NotEmpty(t, svc.req.IP)
	assert.Contains(t, rec.Body.String(), `"accessToken":"token"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSvc{loginErr: appErrors.ErrInvalidCredentials})

	rec := serve(http.MethodPost, "/auth/login", "/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"nope"}`), h.Login)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
}

type fakeLearnModules struct {
	all      bool
	roleID   *string
	listPage query.Page[models.Module]
}

func (f *fakeLearnModules) List(context.Context, query.Params) query.Result[query.Page[models.Module]] {
	f.all = true
	return query.Ok(f.listPage)
}

func (f *fakeLearnModules) ListForRole(_ context.Context, roleID *string, _ query.Params) query.Result[query.Page[models.Module]] {
	f.roleID = roleID
	return query.Ok(query.Page[models.Module]{Rows: []models.Module{}})
}

type fakeViewer struct {
	view *models.LessonView
}

func (f fakeViewer) View(context.Context, string) query.Result[*models.LessonView] {
	return query.Ok(f.view)
}

func TestLearnModulesScopedToRole(t *testing.T) {
	role := "role-cook"
	modules := &fakeLearnModules{}
	h := NewLearnHandler(&fakeAuthSvc{me: &models.UserInfo{ID: "u1", Type: models.UserTypeStaff, RoleID: &role}}, modules, nil, nil, nil)

	rec := serve(http.MethodGet, "/learn/modules", "/learn/modules", nil, h.Modules)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, modules.all)
	require.NotNil(t, modules.roleID)
	assert.Equal(t, "role-cook", *modules.roleID)
}

func TestLearnModulesAdminSeesAll(t *testing.T) {
	modules := &fakeLearnModules{listPage: query.Page[models.Module]{Rows: []models.Module{{ID: "m1"}}, Count: 1, PageCount: 1}}
	h := NewLearnHandler(&fakeAuthSvc{me: &models.UserInfo{ID: "u1", Type: models.UserTypeAdmin}}, modules, nil, nil, nil)

	rec := serve(http.MethodGet, "/learn/modules", "/learn/modules", nil, h.Modules)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, modules.all)
	assert.Nil(t, modules.roleID)
}

func TestLearnModulesWithoutSession(t *testing.T) {
	modules := &fakeLearnModules{}
	h := NewLearnHandler(&fakeAuthSvc{meErr: appErrors.ErrNoSession}, modules, nil, nil, nil)

	rec := serve(http.MethodGet, "/learn/modules", "/learn/modules", nil, h.Modules)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, modules.all)
	assert.Nil(t, modules.roleID)
}

func TestLearnLessonMissingIs404(t *testing.T) {
	h := NewLearnHandler(nil, nil, nil, nil, fakeViewer{})

	rec := serve(http.MethodGet, "/learn/lessons/:id", "/learn/lessons/nope", nil, h.Lesson)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"data":null,"error":null}`, rec.Body.String())
}

type fakeOpener struct {
	content string
	info    storage.ObjectInfo
	err     error
	token   string
}

func (f *fakeOpener) Open(_ context.Context, token string) (io.ReadCloser, storage.ObjectInfo, error) {
	f.token = token
	if f.err != nil {
		return nil, storage.ObjectInfo{}, f.err
	}
	return io.NopCloser(strings.NewReader(f.content)), f.info, nil
}

func TestDownloadStreamsContent(t *testing.T) {
	opener := &fakeOpener{
		content: "%PDF-1.4",
		info:    storage.ObjectInfo{Path: "lessons/l1/guide.pdf", Size: 8, ContentType: "application/pdf"},
	}
	h := NewFileHandler(opener)

	rec := serve(http.MethodGet, "/files/:token", "/files/abc.123", nil, h.Download)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.123", opener.token)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="guide.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestDownloadRejectsBadToken(t *testing.T) {
	h := NewFileHandler(&fakeOpener{err: appErrors.Clone(appErrors.ErrForbidden, "download link expired")})

	rec := serve(http.MethodGet, "/files/:token", "/files/old", nil, h.Download)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type fakeLessonSvc struct{}

func (fakeLessonSvc) ListBySection(context.Context, string, query.Params) query.Result[query.Page[models.Lesson]] {
	return query.Ok(query.Page[models.Lesson]{Rows: []models.Lesson{}})
}
func (fakeLessonSvc) Get(context.Context, string) query.Result[*models.Lesson] {
	return query.Ok[*models.Lesson](nil)
}
func (fakeLessonSvc) Create(context.Context, string, models.LessonRequest) (*models.Lesson, error) {
	return nil, errors.New("not used")
}
func (fakeLessonSvc) Update(context.Context, string, models.LessonRequest) (*models.Lesson, error) {
	return nil, errors.New("not used")
}
func (fakeLessonSvc) Delete(context.Context, string) error { return nil }

type fakeUploader struct {
	lessonID string
	upload   service.ContentUpload
	body     string
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, lessonID string, file service.ContentUpload) (*models.Lesson, error) {
	f.lessonID = lessonID
	f.upload = file
	data, _ := io.ReadAll(file.Body)
	f.body = string(data)
	if f.err != nil {
		return nil, f.err
	}
	path := "lessons/" + lessonID + "/" + file.Filename
	return &models.Lesson{ID: lessonID, ContentType: models.ContentDocument, ContentPath: &path}, nil
}

func (f *fakeUploader) MaxUploadSize() int64 { return 1024 }

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestUploadContent(t *testing.T) {
	uploader := &fakeUploader{}
	h := NewLessonHandler(fakeLessonSvc{}, uploader)
	body, contentType := multipartBody(t, "file", "guide.pdf", "%PDF-1.4 body")

	rec := serve(http.MethodPost, "/lessons/:id/content", "/lessons/l1/content", body, h.UploadContent, "Content-Type", contentType)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "l1", uploader.lessonID)
	assert.Equal(t, "guide.pdf", uploader.upload.Filename)
	assert.Equal(t, int64(len("%PDF-1.4 body")), uploader.upload.Size)
	assert.Equal(t, "%PDF-1.4 body", uploader.body)
	assert.Contains(t, rec.Body.String(), `"contentPath":"lessons/l1/guide.pdf"`)
}

func TestUploadContentRequiresFileField(t *testing.T) {
	uploader := &fakeUploader{}
	h := NewLessonHandler(fakeLessonSvc{}, uploader)
	body, contentType := multipartBody(t, "attachment", "guide.pdf", "x")

	rec := serve(http.MethodPost, "/lessons/:id/content", "/lessons/l1/content", body, h.UploadContent, "Content-Type", contentType)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, uploader.lessonID)
}

func TestUploadContentSurfacesStorageFailure(t *testing.T) {
	h := NewLessonHandler(fakeLessonSvc{}, &fakeUploader{err: appErrors.Wrap(errors.New("disk full"), appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, appErrors.ErrUpload.Message)})
	body, contentType := multipartBody(t, "file", "guide.pdf", "x")

	rec := serve(http.MethodPost, "/lessons/:id/content", "/lessons/l1/content", body, h.UploadContent, "Content-Type", contentType)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var resp envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "failed to upload file", resp.Error.Message)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

type fakeExporter struct {
	format string
	err    error
}

func (f *fakeExporter) ExportUsers(_ context.Context, _ query.Params, format string) (*service.ExportFile, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportFile{Filename: "users-20240501-080000.csv", ContentType: "text/csv", Data: []byte("Full name,Email\n"), Rows: 0}, nil
}

func TestExportUsersAttachment(t *testing.T) {
	exporter := &fakeExporter{}
	h := NewUserHandler(nil, exporter)

	rec := serve(http.MethodGet, "/users/export", "/users/export?format=csv&types=STAFF", nil, h.Export)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, `attachment; filename="users-20240501-080000.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Full name,Email\n", rec.Body.String())
}

func TestExportUsersUnknownFormat(t *testing.T) {
	h := NewUserHandler(nil, &fakeExporter{err: appErrors.Clone(appErrors.ErrValidation, "unsupported export format")})

	rec := serve(http.MethodGet, "/users/export", "/users/export?format=xlsx", nil, h.Export)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestReadyReportsFailingDependency(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": fakePinger{},
		"redis":    fakePinger{err: errors.New("connection refused")},
	})

	rec := serve(http.MethodGet, "/ready", "/ready", nil, h.Ready)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"connection refused"}}`, rec.Body.String())
}

func TestReadyAndHealth(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{"postgres": fakePinger{}})

	rec := serve(http.MethodGet, "/ready", "/ready", nil, h.Ready)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, "/health", "/health", nil, h.Health)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPrometheusEndpoint(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordExport("csv")
	h := NewMetricsHandler(metrics, nil)

	rec := serve(http.MethodGet, "/metrics", "/metrics", nil, h.Prometheus)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lms_exports_total{format="csv"} 1`)
}
