package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/http/handlers"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/registry"
)

type courierResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
	TransportType string `json:"transport_type"`
}

type stubCourierUsecase struct {
	getFn          func(ctx context.Context, id int64) (*domain.Courier, error)
	listFn         func(ctx context.Context, limit, offset *int) ([]domain.Courier, error)
	createFn       func(ctx context.Context, c *domain.Courier) (int64, error)
	updateStatusFn func(ctx context.Context, id int64, status domain.CourierStatus) error
}

func (s *stubCourierUsecase) Get(ctx context.Context, id int64) (*domain.Courier, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourierUsecase) List(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubCourierUsecase) Create(ctx context.Context, c *domain.Courier) (int64, error) {
	return s.createFn(ctx, c)
}

func (s *stubCourierUsecase) UpdateStatus(ctx context.Context, id int64, status domain.CourierStatus) error {
	return s.updateStatusFn(ctx, id, status)
}

func testLogger() logx.Logger { return logx.Nop() }

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCourierHandler_GetByID_OK(t *testing.T) {
	t.Parallel()

	expected := &domain.Courier{
		ID:            99,
		Name:          "Artem",
		Phone:         "+70000000000",
		Status:        domain.StatusAvailable,
		TransportType: domain.TransportTypeCar,
	}

	uc := &stubCourierUsecase{
		getFn: func(ctx context.Context, id int64) (*domain.Courier, error) {
			require.Equal(t, expected.ID, id)
			return expected, nil
		},
	}

	h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/99", nil), "id", "99")
	rr := httptest.NewRecorder()

	h.GetByID(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp courierResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, courierResponse{
		ID:            99,
		Name:          "Artem",
		Phone:         "+70000000000",
		Status:        "available",
		TransportType: "car",
	}, resp)
}

func TestCourierHandler_GetByID_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{name: "invalid id", id: "abc", status: http.StatusBadRequest},
		{name: "zero id", id: "0", status: http.StatusBadRequest},
		{name: "not found", id: "10", err: apperr.ErrNotFound, status: http.StatusNotFound},
		{name: "internal", id: "10", err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubCourierUsecase{
				getFn: func(ctx context.Context, id int64) (*domain.Courier, error) {
					if tt.err == nil {
						require.FailNow(t, "usecase.Get should not be called on invalid id")
					}
					return nil, tt.err
				},
			}
			h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/couriers/"+tt.id, nil), "id", tt.id)
			rr := httptest.NewRecorder()
			h.GetByID(rr, req)

			require.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestCourierHandler_List_OK(t *testing.T) {
	t.Parallel()

	expected := []domain.Courier{
		{ID: 1, Name: "A"},
		{ID: 2, Name: "B"},
	}

	var gotLimit, gotOffset *int

	uc := &stubCourierUsecase{
		listFn: func(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
			gotLimit, gotOffset = limit, offset
			return expected, nil
		},
	}
	h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

	req := httptest.NewRequest(http.MethodGet, "/couriers?limit=10&offset=5", nil)
	rr := httptest.NewRecorder()

	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotLimit)
	require.Equal(t, 10, *gotLimit)
	require.NotNil(t, gotOffset)
	require.Equal(t, 5, *gotOffset)

	var resp []courierResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, len(expected))
}

func TestCourierHandler_List_InvalidPaging(t *testing.T) {
	t.Parallel()

	h := handlers.NewCourierHandler(testLogger(), &stubCourierUsecase{
		listFn: func(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
			require.FailNow(t, "List should not be called when paging is invalid")
			return nil, nil
		},
	}, registry.New())

	for _, q := range []string{"limit=abc", "limit=-1", "offset=x"} {
		rr := httptest.NewRecorder()
		h.List(rr, httptest.NewRequest(http.MethodGet, "/couriers?"+q, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestCourierHandler_List_InternalError(t *testing.T) {
	t.Parallel()

	uc := &stubCourierUsecase{
		listFn: func(ctx context.Context, limit, offset *int) ([]domain.Courier, error) {
			return nil, errors.New("db down")
		},
	}
	h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/couriers", nil))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCourierHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		id       int64
		err      error
		status   int
		errorMsg string
	}{
		{
			name:   "ok",
			body:   `{"name":"Artem","phone":"+70000000000","status":"available","transport_type":"car"}`,
			id:     7,
			status: http.StatusCreated,
		},
		{
			name:     "invalid",
			body:     `{"name":"","phone":"+70000000000"}`,
			err:      apperr.ErrInvalid,
			status:   http.StatusBadRequest,
			errorMsg: "invalid input",
		},
		{
			name:     "conflict",
			body:     `{"name":"Artem","phone":"+70000000000"}`,
			err:      apperr.ErrConflict,
			status:   http.StatusConflict,
			errorMsg: "phone already exists",
		},
		{
			name:   "internal",
			body:   `{"name":"Artem","phone":"+70000000000"}`,
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubCourierUsecase{
				createFn: func(ctx context.Context, c *domain.Courier) (int64, error) {
					require.Equal(t, "+70000000000", c.Phone)
					return tt.id, tt.err
				},
			}
			h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

			req := httptest.NewRequest(http.MethodPost, "/couriers", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.Create(rr, req)

			require.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusCreated {
				require.Equal(t, "/couriers/7", rr.Header().Get("Location"))
				require.JSONEq(t, `{"id":7}`, rr.Body.String())
			}
			if tt.errorMsg != "" {
				require.JSONEq(t, `{"error":"`+tt.errorMsg+`"}`, rr.Body.String())
			}
		})
	}
}

func TestCourierHandler_Create_BadJSON(t *testing.T) {
	t.Parallel()

	uc := &stubCourierUsecase{
		createFn: func(ctx context.Context, c *domain.Courier) (int64, error) {
			require.FailNow(t, "Create should not be called on bad json")
			return 0, nil
		},
	}
	h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

	for _, body := range []string{`{"name":`, `{"name":"a","unknown":1}`, `{"name":"a"}{}`} {
		rr := httptest.NewRecorder()
		h.Create(rr, httptest.NewRequest(http.MethodPost, "/couriers", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rr.Code, body)
	}
}

func TestCourierHandler_UpdateStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "ok", body: `{"status":"paused"}`, status: http.StatusOK},
		{name: "invalid", body: `{"status":"sleeping"}`, err: apperr.ErrInvalid, status: http.StatusBadRequest},
		{name: "not found", body: `{"status":"paused"}`, err: apperr.ErrNotFound, status: http.StatusNotFound},
		{name: "internal", body: `{"status":"paused"}`, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := &stubCourierUsecase{
				updateStatusFn: func(ctx context.Context, id int64, status domain.CourierStatus) error {
					require.Equal(t, int64(5), id)
					return tt.err
				},
			}
			h := handlers.NewCourierHandler(testLogger(), uc, registry.New())

			req := httptest.NewRequest(http.MethodPatch, "/couriers/5/status", strings.NewReader(tt.body))
			req = withURLParam(req, "id", "5")
			rr := httptest.NewRecorder()
			h.UpdateStatus(rr, req)

			require.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestCourierHandler_Online(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Upsert(1, "h1", domain.Location{Lat: 55.75, Lon: 37.61}, []string{domain.CapabilityDeliveries}, true)
	reg.Upsert(2, "h2", domain.Location{Lat: 55.76, Lon: 37.62}, []string{"groceries"}, true)
	reg.Upsert(3, "h3", domain.Location{Lat: 55.77, Lon: 37.63}, []string{domain.CapabilityDeliveries}, false)

	h := handlers.NewCourierHandler(testLogger(), &stubCourierUsecase{}, reg)

	type presence struct {
		CourierID int64 `json:"courier_id"`
		Available bool  `json:"available"`
	}
	get := func(q string) []presence {
		rr := httptest.NewRecorder()
		h.Online(rr, httptest.NewRequest(http.MethodGet, "/couriers/online?"+q, nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var out []presence
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
		return out
	}

	require.Equal(t, []presence{{1, true}, {2, true}}, get(""))
	require.Equal(t, []presence{{1, true}}, get("capability=deliveries"))
	require.Equal(t, []presence{{1, true}}, get("limit=1"))
	require.Len(t, get("all=true"), 3)

	rr := httptest.NewRecorder()
	h.Online(rr, httptest.NewRequest(http.MethodGet, "/couriers/online?limit=x", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
