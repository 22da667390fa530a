package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/visitor-pass-service/internal/model"
	"github.com/iliyamo/visitor-pass-service/internal/occupancy"
	"github.com/iliyamo/visitor-pass-service/internal/queue"
	"github.com/iliyamo/visitor-pass-service/internal/repository"
)

// fakePassStore implements PassStore in memory and records the
// arguments the handler passed in.
type fakePassStore struct {
	created      *model.Pass
	attachedID   uint64
	attachedImg  string
	detail       *repository.PassDetail
	getErr       error
	listFilter   repository.PassFilter
	listResult   []repository.PassDetail
	listErr      error
	updateArg    repository.PassUpdate
	updateErr    error
	deleteErr    error
	qrImage      *string
	qrErr        error
	snapshot     []occupancy.PassSnapshot
	snapshotErr  error
	checkInErr   error
	checkOutErr  error
	checkInTime  time.Time
	checkOutTime time.Time
}

func (f *fakePassStore) Create(_ context.Context, p *model.Pass) error {
	p.ID = 42
	f.created = p
	return nil
}

func (f *fakePassStore) AttachQRImage(_ context.Context, id uint64, image string) error {
	f.attachedID = id
	f.attachedImg = image
	return nil
}

func (f *fakePassStore) GetByID(_ context.Context, id uint64) (*repository.PassDetail, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.detail, nil
}

func (f *fakePassStore) QRImage(_ context.Context, id uint64) (*string, error) {
	if f.qrErr != nil {
		return nil, f.qrErr
	}
	return f.qrImage, nil
}

func (f *fakePassStore) List(_ context.Context, filter repository.PassFilter) ([]repository.PassDetail, error) {
	f.listFilter = filter
	return f.listResult, f.listErr
}

func (f *fakePassStore) Update(_ context.Context, id uint64, upd repository.PassUpdate) (*repository.PassDetail, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updateArg = upd
	return f.detail, nil
}

func (f *fakePassStore) Delete(_ context.Context, id uint64) (*repository.PassDetail, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.detail, nil
}

func (f *fakePassStore) ListActive(_ context.Context) ([]occupancy.PassSnapshot, error) {
	return f.snapshot, f.snapshotErr
}

func (f *fakePassStore) CheckIn(_ context.Context, id uint64, now time.Time) error {
	f.checkInTime = now
	return f.checkInErr
}

func (f *fakePassStore) CheckOut(_ context.Context, id uint64, now time.Time) error {
	f.checkOutTime = now
	return f.checkOutErr
}

// fakeEncoder returns a fixed marker instead of a real PNG.
type fakeEncoder struct{ err error }

func (f fakeEncoder) Encode(payload string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "data:image/png;base64,FAKE", nil
}

func sampleDetail() *repository.PassDetail {
	building := "HQ"
	img := "data:image/png;base64,FAKE"
	from := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)
	return &repository.PassDetail{
		ID:          42,
		PassNumber:  "PASS-1234567890-7",
		QRData:      `{"passNumber":"PASS-1234567890-7"}`,
		QRImage:     &img,
		ImageStatus: model.ImageStatusComplete,
		ValidFrom:   &from,
		ValidTo:     &to,
		Building:    &building,
		Status:      model.PassStatusActive,
		CreatedBy:   7,
		Visitor:     repository.VisitorSummary{ID: 1, Name: "Dana Visitor", Email: "dana@example.com"},
		Host:        repository.HostSummary{ID: 2, Name: "Sam Host", Email: "sam@example.com"},
	}
}

func newPassCtx(t *testing.T, method, target, body string, userID uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

func TestCreatePassHappyPath(t *testing.T) {
	store := &fakePassStore{detail: sampleDetail()}
	var published []queue.PassIssuedEvent
	h := NewPassHandler(store, fakeEncoder{}, func(_ context.Context, ev queue.PassIssuedEvent) error {
		published = append(published, ev)
		return nil
	})
	h.Now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }

	body := `{"visitor":1,"host":2,"validFrom":"2026-03-01T09:00:00Z","validTo":"2026-03-01T17:00:00Z","building":"HQ"}`
	c, rec := newPassCtx(t, http.MethodPost, "/api/passes", body, 7, model.RoleEmployee)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, store.created)
	assert.True(t, strings.HasPrefix(store.created.PassNumber, "PASS-"))
	assert.Equal(t, model.PassStatusActive, store.created.Status)
	assert.Equal(t, uint64(7), store.created.CreatedBy)
	assert.Equal(t, uint64(42), store.attachedID)
	assert.Equal(t, "data:image/png;base64,FAKE", store.attachedImg)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PASS-1234567890-7", resp["passNumber"])

	require.Len(t, published, 1)
	assert.Equal(t, uint64(42), published[0].PassID)
	assert.Equal(t, "Dana Visitor", published[0].VisitorName)
	assert.Equal(t, "HQ", published[0].Building)
	assert.NotEmpty(t, published[0].EventID)
}

func TestCreatePassReportsAllMissingFields(t *testing.T) {
	store := &fakePassStore{}
	h := NewPassHandler(store, fakeEncoder{}, nil)

	c, rec := newPassCtx(t, http.MethodPost, "/api/passes", `{"building":"HQ"}`, 7, model.RoleEmployee)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error       string   `json:"error"`
		EmptyFields []string `json:"emptyFields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "please fill out all the fields", resp.Error)
	assert.Equal(t, []string{"visitor", "host", "validFrom", "validTo"}, resp.EmptyFields)
	assert.Nil(t, store.created)
}

func TestGetPassMalformedIDIsNotFound(t *testing.T) {
	h := NewPassHandler(&fakePassStore{detail: sampleDetail()}, fakeEncoder{}, nil)

	for _, bad := range []string{"abc", "-1", "1.5", ""} {
		c, rec := newPassCtx(t, http.MethodGet, "/api/passes/"+bad, "", 7, model.RoleAdmin)
		c.SetParamNames("id")
		c.SetParamValues(bad)
		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code, "id %q", bad)
		assert.Contains(t, rec.Body.String(), "no such pass")
	}
}

func TestGetPassMissingRow(t *testing.T) {
	h := NewPassHandler(&fakePassStore{getErr: repository.ErrPassNotFound}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodGet, "/api/passes/999", "", 7, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListScopesNonAdminToOwnPasses(t *testing.T) {
	store := &fakePassStore{listResult: []repository.PassDetail{}}
	h := NewPassHandler(store, fakeEncoder{}, nil)

	c, rec := newPassCtx(t, http.MethodGet, "/api/passes", "", 7, model.RoleEmployee)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.listFilter.CreatedBy)
	assert.Equal(t, uint64(7), *store.listFilter.CreatedBy)

	c, rec = newPassCtx(t, http.MethodGet, "/api/passes", "", 1, model.RoleAdmin)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, store.listFilter.CreatedBy)
}

func TestListRejectsNonNumericFilters(t *testing.T) {
	h := NewPassHandler(&fakePassStore{}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodGet, "/api/passes?visitor=abc", "", 7, model.RoleAdmin)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid visitor filter")
}

func TestUpdateRejectsForbiddenFieldsByName(t *testing.T) {
	store := &fakePassStore{detail: sampleDetail()}
	h := NewPassHandler(store, fakeEncoder{}, nil)

	body := `{"status":"REVOKED","passNumber":"PASS-1-1","qrData":"x"}`
	c, rec := newPassCtx(t, http.MethodPut, "/api/passes/42", body, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("42")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "field not updatable", resp.Error)
	assert.Equal(t, []string{"passNumber", "qrData"}, resp.Fields)
	assert.Nil(t, store.updateArg.Status, "update must not reach the store")
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	h := NewPassHandler(&fakePassStore{detail: sampleDetail()}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodPut, "/api/passes/42", `{"status":"FROZEN"}`, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid status")
}

func TestCheckInConflicts(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"already inside", repository.ErrAlreadyInside, http.StatusConflict},
		{"not active", repository.ErrPassNotActive, http.StatusConflict},
		{"missing", repository.ErrPassNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewPassHandler(&fakePassStore{checkInErr: tc.err, detail: sampleDetail()}, fakeEncoder{}, nil)
			c, rec := newPassCtx(t, http.MethodPost, "/api/passes/42/checkin", "", 3, model.RoleSecurity)
			c.SetParamNames("id")
			c.SetParamValues("42")
			require.NoError(t, h.CheckIn(c))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestCheckOutReturnsUpdatedPass(t *testing.T) {
	store := &fakePassStore{detail: sampleDetail()}
	h := NewPassHandler(store, fakeEncoder{}, nil)
	h.Now = func() time.Time { return time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC) }

	c, rec := newPassCtx(t, http.MethodPost, "/api/passes/42/checkout", "", 3, model.RoleSecurity)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.CheckOut(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 3, 1, 16, 0, 0, 0, time.UTC), store.checkOutTime)
	assert.Contains(t, rec.Body.String(), "PASS-1234567890-7")
}

func TestLiveBuildsOccupancyReport(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := now.Add(10 * time.Minute)
	store := &fakePassStore{snapshot: []occupancy.PassSnapshot{
		{ID: 1, VisitorName: "Dana", HostName: "Sam", Building: "HQ", ValidTo: &soon},
	}}
	h := NewPassHandler(store, fakeEncoder{}, nil)
	h.Now = func() time.Time { return now }

	c, rec := newPassCtx(t, http.MethodGet, "/api/passes/live", "", 3, model.RoleSecurity)
	require.NoError(t, h.Live(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var report occupancy.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Buildings, 1)
	assert.Equal(t, "HQ", report.Buildings[0].Building)
	assert.Equal(t, 1, report.Buildings[0].ApproachingExit)
}

func TestLiveStoreFailure(t *testing.T) {
	h := NewPassHandler(&fakePassStore{snapshotErr: context.DeadlineExceeded}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodGet, "/api/passes/live", "", 3, model.RoleSecurity)
	require.NoError(t, h.Live(c))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"failed to fetch live visitors"}`, rec.Body.String())
}

func TestQRReturnsNullWhilePending(t *testing.T) {
	h := NewPassHandler(&fakePassStore{qrImage: nil}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodGet, "/api/passes/42/qr", "", 7, model.RoleEmployee)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.QR(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"qrImage":null}`, rec.Body.String())
}

func TestDeleteMissingPass(t *testing.T) {
	h := NewPassHandler(&fakePassStore{deleteErr: repository.ErrPassNotFound}, fakeEncoder{}, nil)
	c, rec := newPassCtx(t, http.MethodDelete, "/api/passes/42", "", 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
