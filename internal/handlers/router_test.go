package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careers-portal/internal/models"
	"github.com/justsurfingit/careers-portal/internal/services"
)

type testApp struct {
	router *gin.Engine
	posts  *int32
	cookie *http.Cookie
}

func newTestApp(t *testing.T, status int, ack string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var posts int32
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posts, 1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, ack)
	}))
	t.Cleanup(endpoint.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := services.NewSessionStore(time.Minute, services.FormDeps{
		Endpoint:        services.NewSheetClient(endpoint.URL, time.Second, log),
		NotificationTTL: time.Minute,
		Log:             log,
	})
	t.Cleanup(store.Close)

	return &testApp{
		router: NewRouter(RouterConfig{
			Sessions:      store,
			SessionTTL:    time.Minute,
			MaxUploadSize: 1 << 20,
			MetricsPath:   "/metrics",
			Log:           log,
		}),
		posts: &posts,
	}
}

func (a *testApp) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			a.cookie = c
		}
	}
	return w
}

func (a *testApp) json(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return a.do(t, req)
}

func multipartBody(t *testing.T, fields map[string]string, resume []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if resume != nil {
		fw, err := mw.CreateFormFile("resume", "cv.pdf")
		require.NoError(t, err)
		_, err = fw.Write(resume)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var pdf = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")

func validFields() map[string]string {
	return map[string]string{
		models.FieldFirstName:        "Ada",
		models.FieldLastName:         "Lovelace",
		models.FieldEmail:            "ada@example.com",
		models.FieldSelectedPosition: string(models.SeniorBackendEngineer),
		models.FieldMajorGraduation:  "Mathematics, 1835",
		models.FieldGrowthMetrics:    "Increased user engagement by 40%",
		models.FieldPreviousRole:     "Analyst",
	}
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) services.State {
	t.Helper()
	var s services.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	w := app.json(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAPI_SessionCookieKeepsState(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	w := app.json(t, http.MethodPatch, "/api/v1/application/fields", map[string]string{"field": "firstName", "value": "Ada"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, app.cookie)

	w = app.json(t, http.MethodGet, "/api/v1/application", nil)
	require.Equal(t, "Ada", decodeState(t, w).Form.FirstName)
}

func TestAPI_UpdateFieldRejectsUnknown(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	w := app.json(t, http.MethodPatch, "/api/v1/application/fields", map[string]string{"field": "resume", "value": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_SelectPosition(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	w := app.json(t, http.MethodPut, "/api/v1/application/position", map[string]string{"position": "Astronaut"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = app.json(t, http.MethodPut, "/api/v1/application/position", map[string]string{"position": "Senior Frontend Engineer"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, models.SeniorFrontendEngineer, decodeState(t, w).SelectedPosition)
}

func TestAPI_ApplyNowReturnsViewport(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	app.json(t, http.MethodPatch, "/api/v1/application/fields", map[string]string{"field": "email", "value": "ada@example.com"})

	w := app.json(t, http.MethodPost, "/api/v1/application/apply-now", map[string]string{"position": "Junior Frontend Engineer"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		services.State
		Viewport services.ViewportDirective `json:"viewport"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, models.JuniorFrontendEngineer, resp.SelectedPosition)
	require.Equal(t, "ada@example.com", resp.Form.Email)
	require.Equal(t, services.ViewportDirective{Target: "top", Behavior: "smooth"}, resp.Viewport)
}

func TestAPI_SubmitIncomplete(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	w := app.json(t, http.MethodPost, "/api/v1/application/submit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, w.Body.String(), services.MsgIncompleteForm)
	require.Zero(t, atomic.LoadInt32(app.posts))
}

func fillViaAPI(t *testing.T, app *testApp) {
	t.Helper()
	for k, v := range validFields() {
		if k == models.FieldSelectedPosition {
			app.json(t, http.MethodPut, "/api/v1/application/position", map[string]string{"position": v})
			continue
		}
		w := app.json(t, http.MethodPatch, "/api/v1/application/fields", map[string]string{"field": k, "value": v})
		require.Equal(t, http.StatusOK, w.Code)
	}
	body, ct := multipartBody(t, nil, pdf)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/application/resume", body)
	req.Header.Set("Content-Type", ct)
	w := app.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeState(t, w)
	require.Equal(t, "cv.pdf", state.Form.Resume.Filename)
	require.Equal(t, "application/pdf", state.Form.Resume.ContentType)
}

func TestAPI_SubmitAccepted(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	fillViaAPI(t, app)

	w := app.json(t, http.MethodPost, "/api/v1/application/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, atomic.LoadInt32(app.posts))

	state := decodeState(t, w)
	require.Equal(t, models.ApplicationForm{}, state.Form)
	require.Empty(t, state.SelectedPosition)
	require.True(t, state.Notification.ShowSuccess())

	w = app.json(t, http.MethodDelete, "/api/v1/application/notification", nil)
	require.JSONEq(t, `{"dismissed":true,"notification":{"state":"idle"}}`, w.Body.String())
}

func cancelled(req *http.Request) *http.Request {
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	return req.WithContext(ctx)
}

func TestAPI_SubmitSurvivesClientHangup(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	fillViaAPI(t, app)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/application/submit", nil)
	w := app.do(t, cancelled(req))
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, atomic.LoadInt32(app.posts))
	require.True(t, decodeState(t, w).Notification.ShowSuccess())
}

func TestAPI_SubmitEndpointFailure(t *testing.T) {
	app := newTestApp(t, http.StatusInternalServerError, `oops`)
	fillViaAPI(t, app)

	w := app.json(t, http.MethodPost, "/api/v1/application/submit", nil)
	require.Equal(t, http.StatusBadGateway, w.Code)

	state := decodeState(t, w)
	require.Equal(t, "Ada", state.Form.FirstName)
	require.Equal(t, models.SeniorBackendEngineer, state.SelectedPosition)
	require.Equal(t, services.Notification{State: services.NotificationError, Message: services.MsgSubmitFailed}, state.Notification)
}

func TestAPI_DetachResume(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	fillViaAPI(t, app)

	w := app.json(t, http.MethodDelete, "/api/v1/application/resume", nil)
	require.Nil(t, decodeState(t, w).Form.Resume)
}

func TestPage_RendersForm(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "Apply Today")
	require.Contains(t, body, `placeholder="e.g., Computer Science, 2022"`)
	for _, p := range models.Positions {
		require.Contains(t, body, string(p))
	}
	require.NotContains(t, body, `data-notification`)
}

func TestPage_ApplyNowRedirectsToTop(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	form := url.Values{"position": {"Junior Frontend Engineer"}}
	req := httptest.NewRequest(http.MethodPost, "/apply-now", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := app.do(t, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/#top", w.Header().Get("Location"))

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, w.Body.String(), `<option value="Junior Frontend Engineer" selected>`)
}

func TestPage_ApplyNowUnknownPosition(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	req := httptest.NewRequest(http.MethodPost, "/apply-now", strings.NewReader("position=CEO"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusBadRequest, app.do(t, req).Code)
}

func TestPage_SubmitSuccessThenClose(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	body, ct := multipartBody(t, validFields(), pdf)
	req := httptest.NewRequest(http.MethodPost, "/application", body)
	req.Header.Set("Content-Type", ct)
	w := app.do(t, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.EqualValues(t, 1, atomic.LoadInt32(app.posts))

	w = app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	page := w.Body.String()
	require.Contains(t, page, "Your application has been submitted successfully!")
	require.NotContains(t, page, `data-notification="error"`)
	require.NotContains(t, page, `value="Ada"`)

	w = app.do(t, httptest.NewRequest(http.MethodPost, "/notifications/success/close", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	w = app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotContains(t, w.Body.String(), "submitted successfully")
}

func TestPage_SubmitSurvivesClientHangup(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	body, ct := multipartBody(t, validFields(), pdf)
	req := httptest.NewRequest(http.MethodPost, "/application", body)
	req.Header.Set("Content-Type", ct)
	require.Equal(t, http.StatusSeeOther, app.do(t, cancelled(req)).Code)
	require.EqualValues(t, 1, atomic.LoadInt32(app.posts))

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Contains(t, w.Body.String(), "Your application has been submitted successfully!")
}

func TestPage_SubmitMissingResumeKeepsValues(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)

	body, ct := multipartBody(t, validFields(), nil)
	req := httptest.NewRequest(http.MethodPost, "/application", body)
	req.Header.Set("Content-Type", ct)
	require.Equal(t, http.StatusSeeOther, app.do(t, req).Code)
	require.Zero(t, atomic.LoadInt32(app.posts))

	page := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	require.Contains(t, page, services.MsgIncompleteForm)
	require.Contains(t, page, `value="Ada"`)
}

func TestPage_SubmitRejectedShowsFailure(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":false}`)

	body, ct := multipartBody(t, validFields(), pdf)
	req := httptest.NewRequest(http.MethodPost, "/application", body)
	req.Header.Set("Content-Type", ct)
	app.do(t, req)

	page := app.do(t, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	require.Contains(t, page, services.MsgSubmitFailed)
	require.Contains(t, page, "Attached: cv.pdf")
	require.Contains(t, page, `value="Lovelace"`)
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t, http.StatusOK, `{"ok":true}`)
	app.json(t, http.MethodPost, "/api/v1/application/submit", nil)

	w := app.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `careers_application_submit_total{outcome="validation"}`)
}
