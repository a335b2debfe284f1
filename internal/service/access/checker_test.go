package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/popupservice"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockPopupClient struct {
	mock.Mock
}

func (m *mockPopupClient) GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error) {
	args := m.Called(ctx, popupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Popup), args.Error(1)
}

func (m *mockPopupClient) IsBrandMember(ctx context.Context, brandID, userID int64) (bool, error) {
	args := m.Called(ctx, brandID, userID)
	return args.Bool(0), args.Error(1)
}

func TestRequireHost(t *testing.T) {
	popup := &domain.Popup{ID: 5, BrandID: 77, ReservationEnabled: true}

	t.Run("host", func(t *testing.T) {
		client := new(mockPopupClient)
		client.On("GetPopup", mock.Anything, int64(5)).Return(popup, nil)
		client.On("IsBrandMember", mock.Anything, int64(77), int64(10)).Return(true, nil)

		got, err := NewChecker(client, logger.Nop()).RequireHost(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, popup, got)
		client.AssertExpectations(t)
	})

	t.Run("not a member", func(t *testing.T) {
		client := new(mockPopupClient)
		client.On("GetPopup", mock.Anything, int64(5)).Return(popup, nil)
		client.On("IsBrandMember", mock.Anything, int64(77), int64(11)).Return(false, nil)

		_, err := NewChecker(client, logger.Nop()).RequireHost(context.Background(), 5, 11)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("popup not found", func(t *testing.T) {
		client := new(mockPopupClient)
		client.On("GetPopup", mock.Anything, int64(6)).Return(nil, popupservice.ErrPopupNotFound)

		_, err := NewChecker(client, logger.Nop()).RequireHost(context.Background(), 6, 10)
		assert.ErrorIs(t, err, ErrPopupNotFound)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		client.AssertNotCalled(t, "IsBrandMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("popup service down", func(t *testing.T) {
		client := new(mockPopupClient)
		client.On("GetPopup", mock.Anything, int64(5)).Return(popup, nil)
		client.On("IsBrandMember", mock.Anything, int64(77), int64(10)).Return(false, errors.New("timeout"))

		_, err := NewChecker(client, logger.Nop()).RequireHost(context.Background(), 5, 10)
		assert.ErrorIs(t, err, domain.ErrInternal)
	})
}
