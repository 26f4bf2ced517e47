package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/LeoJim2/cool-travel-app-voyageur/api/auth"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/dtos"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/models"
	"github.com/LeoJim2/cool-travel-app-voyageur/api/view"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type stubSource struct {
	pins    []models.Pin
	getErr  error
	created []dtos.CreatePinRequest
}

func (s *stubSource) GetPins(ctx context.Context) ([]models.Pin, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return append([]models.Pin(nil), s.pins...), nil
}

func (s *stubSource) CreatePin(ctx context.Context, req dtos.CreatePinRequest) (*models.Pin, error) {
	s.created = append(s.created, req)
	pin := req.ToModel()
	pin.ID = "created-1"
	return &pin, nil
}

var testViewport = models.Viewport{Longitude: -39.462891, Latitude: 35.746512, Zoom: 3}

func newMapHandlers(t *testing.T, src view.PinSource) *MapHandlers {
	t.Helper()
	renderer, err := view.NewRenderer("pk.test", "mapbox://styles/mapbox/light-v9")
	if err != nil {
		t.Fatalf("unable to build renderer: %v", err)
	}
	return &MapHandlers{
		Pages: view.NewStore(func() *view.Page {
			return view.NewPage(src, "Marcus", testViewport)
		}),
		Renderer: renderer,
	}
}

func withSession(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(auth.WithSession(req.Context(), auth.Session{ID: id, Name: "Marcus"}))
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func addPinIDParam(req *http.Request, pinID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("pinID", pinID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

func TestGetMapHandler_RendersMarkers(t *testing.T) {
	src := &stubSource{pins: []models.Pin{
		{ID: "a", Name: "Marcus", Title: "Cafe", Rating: 4, Lat: 1, Lon: 2},
		{ID: "b", Name: "Ada", Title: "Park", Rating: 2, Lat: 3, Lon: 4},
	}}
	h := newMapHandlers(t, src)

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New())
	rec := httptest.NewRecorder()

	h.GetMapHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if n := strings.Count(rec.Body.String(), `class="marker"`); n != 2 {
		t.Fatalf("expected 2 markers got %d", n)
	}
}

func TestGetMapHandler_LoadFailureStillRenders(t *testing.T) {
	h := newMapHandlers(t, &stubSource{getErr: errors.New("down")})

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New())
	rec := httptest.NewRecorder()

	h.GetMapHandler()(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, `class="marker"`) {
		t.Fatalf("expected no markers")
	}
	if !strings.Contains(body, `role="alert"`) {
		t.Fatalf("expected an error indicator")
	}
}

func TestGetMapHandler_MissingSession(t *testing.T) {
	h := newMapHandlers(t, &stubSource{})

	rec := httptest.NewRecorder()
	h.GetMapHandler()(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestPostMoveHandler(t *testing.T) {
	h := newMapHandlers(t, &stubSource{})
	id := uuid.New()

	req := withSession(postForm("/ui/move", url.Values{"longitude": {"10.5"}, "latitude": {"-20"}, "zoom": {"6"}}), id)
	rec := httptest.NewRecorder()
	h.PostMoveHandler()(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d got %d", http.StatusNoContent, rec.Code)
	}
	got := h.Pages.Get(id.String()).Viewport()
	if got != (models.Viewport{Longitude: 10.5, Latitude: -20, Zoom: 6}) {
		t.Fatalf("unexpected viewport %+v", got)
	}
}

func TestPostMoveHandler_Invalid(t *testing.T) {
	h := newMapHandlers(t, &stubSource{})

	for _, values := range []url.Values{
		{"longitude": {"abc"}, "latitude": {"0"}, "zoom": {"3"}},
		{"latitude": {"0"}, "zoom": {"3"}},
		{"longitude": {"0"}, "latitude": {"0"}, "zoom": {"99"}},
	} {
		req := withSession(postForm("/ui/move", values), uuid.New())
		rec := httptest.NewRecorder()
		h.PostMoveHandler()(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d got %d for %v", http.StatusBadRequest, rec.Code, values)
		}
	}
}

func TestSelectAndCloseHandlers(t *testing.T) {
	src := &stubSource{pins: []models.Pin{{ID: "a", Name: "Ada", Title: "Park", Rating: 3, Lat: 1, Lon: 2}}}
	h := newMapHandlers(t, src)
	id := uuid.New()
	page := h.Pages.Get(id.String())
	page.Load(context.Background())

	req := addPinIDParam(withSession(httptest.NewRequest(http.MethodPost, "/ui/pins/a/select", nil), id), "a")
	rec := httptest.NewRecorder()
	h.PostSelectPinHandler()(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d got %d", http.StatusSeeOther, rec.Code)
	}
	if p := page.Snapshot().Popup; p == nil || p.PinID != "a" || len(p.Stars()) != 3 {
		t.Fatalf("expected popup for pin a with 3 stars, got %+v", p)
	}

	req = withSession(httptest.NewRequest(http.MethodPost, "/ui/popup/close", nil), id)
	rec = httptest.NewRecorder()
	h.PostClosePopupHandler()(rec, req)

	if page.Snapshot().Popup != nil {
		t.Fatalf("expected popup to be closed")
	}
}

func TestDraftSubmitHandlers(t *testing.T) {
	src := &stubSource{}
	h := newMapHandlers(t, src)
	id := uuid.New()
	page := h.Pages.Get(id.String())
	page.Load(context.Background())

	req := withSession(postForm("/ui/draft", url.Values{"lat": {"12.5"}, "lon": {"-7.25"}}), id)
	rec := httptest.NewRecorder()
	h.PostDraftHandler()(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d got %d", http.StatusSeeOther, rec.Code)
	}
	if d := page.Snapshot().Draft; d == nil || d.Lat != 12.5 || d.Lon != -7.25 {
		t.Fatalf("expected draft at 12.5,-7.25 got %+v", d)
	}

	req = withSession(postForm("/ui/draft/submit", url.Values{"title": {"Bakery"}, "description": {"Fresh"}, "rating": {"4"}}), id)
	rec = httptest.NewRecorder()
	h.PostSubmitDraftHandler()(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d got %d", http.StatusSeeOther, rec.Code)
	}
	if len(src.created) != 1 {
		t.Fatalf("expected one create call got %d", len(src.created))
	}
	want := dtos.CreatePinRequest{Name: "Marcus", Title: "Bakery", Description: "Fresh", Rating: 4, Lat: 12.5, Lon: -7.25}
	if src.created[0] != want {
		t.Fatalf("unexpected create body %+v", src.created[0])
	}

	s := page.Snapshot()
	if len(s.Markers) != 1 || s.Popup == nil || s.Popup.PinID != "created-1" || s.Draft != nil {
		t.Fatalf("unexpected state after submit: %+v", s)
	}
}

func TestSubmitHandler_BadRatingKeepsDraft(t *testing.T) {
	src := &stubSource{}
	h := newMapHandlers(t, src)
	id := uuid.New()
	page := h.Pages.Get(id.String())
	if err := page.OpenDraft(models.Location{Lat: 1, Lon: 1}); err != nil {
		t.Fatalf("open draft: %v", err)
	}

	req := withSession(postForm("/ui/draft/submit", url.Values{"title": {"x"}, "rating": {"ten"}}), id)
	rec := httptest.NewRecorder()
	h.PostSubmitDraftHandler()(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d got %d", http.StatusSeeOther, rec.Code)
	}
	if len(src.created) != 0 {
		t.Fatalf("expected no create call")
	}
	if page.Snapshot().Draft == nil {
		t.Fatalf("expected draft to stay open")
	}
}

func TestCloseDraftHandler(t *testing.T) {
	h := newMapHandlers(t, &stubSource{})
	id := uuid.New()
	page := h.Pages.Get(id.String())
	if err := page.OpenDraft(models.Location{Lat: 1, Lon: 1}); err != nil {
		t.Fatalf("open draft: %v", err)
	}

	req := withSession(httptest.NewRequest(http.MethodPost, "/ui/draft/close", nil), id)
	rec := httptest.NewRecorder()
	h.PostCloseDraftHandler()(rec, req)

	if page.Snapshot().Draft != nil {
		t.Fatalf("expected draft to be cleared")
	}
}

func TestGetMapHandler_FlyToClearedAfterRender(t *testing.T) {
	src := &stubSource{pins: []models.Pin{{ID: "a", Name: "Ada", Title: "Park", Rating: 3, Lat: 1, Lon: 2}}}
	h := newMapHandlers(t, src)
	id := uuid.New()
	page := h.Pages.Get(id.String())
	page.Load(context.Background())
	if err := page.SelectPin("a"); err != nil {
		t.Fatalf("select pin: %v", err)
	}
	if page.Snapshot().FlyTo == nil {
		t.Fatalf("expected pending fly-to before render")
	}

	rec := httptest.NewRecorder()
	h.GetMapHandler()(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), id))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"duration":2002`) {
		t.Fatalf("expected fly-to in rendered page")
	}

	if page.Snapshot().FlyTo != nil {
		t.Fatalf("expected fly-to to be cleared after render")
	}
	rec = httptest.NewRecorder()
	h.GetMapHandler()(rec, withSession(httptest.NewRequest(http.MethodGet, "/", nil), id))
	if strings.Contains(rec.Body.String(), `"duration":2002`) {
		t.Fatalf("expected fly-to to be rendered once")
	}
}
