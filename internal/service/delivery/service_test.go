package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/dispatch"
	"courier-dispatch/internal/domain"
)

func newService(t *testing.T) (*Service, *MockdeliveryRepository, *Mockdispatcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockdeliveryRepository(ctrl)
	engine := NewMockdispatcher(ctrl)
	return NewService(repo, engine, 10, 0), repo, engine
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	s, repo, _ := newService(t)

	d := &domain.Delivery{
		CustomerID:  1,
		Origin:      domain.Location{Lat: 55.75, Lon: 37.62},
		Destination: domain.Location{Lat: 55.70, Lon: 37.50},
	}
	repo.EXPECT().Create(gomock.Any(), d).DoAndReturn(func(_ context.Context, d *domain.Delivery) error {
		d.ID = 5
		return nil
	})

	require.NoError(t, s.Create(context.Background(), d))
	require.Equal(t, int64(5), d.ID)
}

func TestService_Create_Invalid(t *testing.T) {
	t.Parallel()
	s, _, _ := newService(t)

	require.ErrorIs(t, s.Create(context.Background(), nil), apperr.ErrInvalid)
	require.ErrorIs(t, s.Create(context.Background(), &domain.Delivery{CustomerID: 0}), apperr.ErrInvalid)
	require.ErrorIs(t, s.Create(context.Background(), &domain.Delivery{
		CustomerID: 1,
		Origin:     domain.Location{Lat: 100},
	}), apperr.ErrInvalid)
}

func TestService_Dispatch_UsesStoredOriginAndDefaultRadius(t *testing.T) {
	t.Parallel()
	s, repo, engine := newService(t)

	origin := domain.Location{Lat: 55.75, Lon: 37.62}
	repo.EXPECT().LoadDelivery(gomock.Any(), int64(5)).Return(&domain.Delivery{ID: 5, Origin: origin}, nil)
	engine.EXPECT().StartDispatch(gomock.Any(), dispatch.StartRequest{
		DeliveryID:     5,
		Origin:         origin,
		MaxDistanceKm:  10,
		CustomerHandle: "h",
	}).Return(dispatch.SessionInfo{DeliveryID: 5, State: dispatch.StateOffering}, nil)

	info, err := s.Dispatch(context.Background(), DispatchCommand{DeliveryID: 5, CustomerHandle: "h"})
	require.NoError(t, err)
	require.Equal(t, dispatch.StateOffering, info.State)
}

func TestService_Dispatch_ExplicitOriginSkipsLookup(t *testing.T) {
	t.Parallel()
	s, _, engine := newService(t)

	origin := domain.Location{Lat: 1, Lon: 2}
	radius := 2.5
	engine.EXPECT().StartDispatch(gomock.Any(), dispatch.StartRequest{
		DeliveryID:    5,
		Origin:        origin,
		MaxDistanceKm: 2.5,
		Capability:    "groceries",
	}).Return(dispatch.SessionInfo{}, nil)

	_, err := s.Dispatch(context.Background(), DispatchCommand{
		DeliveryID:    5,
		Origin:        &origin,
		MaxDistanceKm: &radius,
		Capability:    "groceries",
	})
	require.NoError(t, err)
}

func TestService_Dispatch_MissingDelivery(t *testing.T) {
	t.Parallel()
	s, repo, _ := newService(t)

	repo.EXPECT().LoadDelivery(gomock.Any(), int64(5)).Return(nil, apperr.ErrNotFound)

	_, err := s.Dispatch(context.Background(), DispatchCommand{DeliveryID: 5})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Dispatch(context.Background(), DispatchCommand{})
	require.ErrorIs(t, err, apperr.ErrInvalid)
}

func TestService_AcceptRejectCancel(t *testing.T) {
	t.Parallel()
	s, _, engine := newService(t)
	ctx := context.Background()

	gomock.InOrder(
		engine.EXPECT().OnAccept(gomock.Any(), int64(1), int64(2)).Return(apperr.ErrStaleEvent),
		engine.EXPECT().OnReject(gomock.Any(), int64(1), int64(3), "far").Return(nil),
		engine.EXPECT().Cancel(gomock.Any(), int64(1)).Return(errors.New("boom")),
	)

	require.ErrorIs(t, s.Accept(ctx, 1, 2), apperr.ErrStaleEvent)
	require.NoError(t, s.Reject(ctx, 1, 3, "far"))
	require.EqualError(t, s.Cancel(ctx, 1), "boom")

	require.ErrorIs(t, s.Accept(ctx, 0, 2), apperr.ErrInvalid)
	require.ErrorIs(t, s.Reject(ctx, 1, 0, ""), apperr.ErrInvalid)
}

func TestService_Session(t *testing.T) {
	t.Parallel()
	s, _, engine := newService(t)

	engine.EXPECT().Session(int64(1)).Return(dispatch.SessionInfo{DeliveryID: 1}, true)
	engine.EXPECT().Session(int64(2)).Return(dispatch.SessionInfo{}, false)

	info, err := s.Session(1)
	require.NoError(t, err)
	require.Equal(t, int64(1), info.DeliveryID)

	_, err = s.Session(2)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
