package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/popupservice"
)

// Checker проверяет права хоста попапа
// Хост - участник бренда, которому принадлежит попап
type Checker struct {
	popups PopupClient
	logger Logger
}

// NewChecker создает проверку прав поверх клиента сервиса попапов
func NewChecker(popups PopupClient, logger Logger) *Checker {
	return &Checker{
		popups: popups,
		logger: logger,
	}
}

// GetPopup получает попап, приводя ошибки клиента к ошибкам доступа
func (c *Checker) GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error) {
	popup, err := c.popups.GetPopup(ctx, popupID)
	if err != nil {
		if errors.Is(err, popupservice.ErrPopupNotFound) {
			return nil, ErrPopupNotFound
		}
		c.logger.Error("GetPopup: popup service error for popup=%d: %v", popupID, err)
		return nil, fmt.Errorf("%w: GetPopup - popup service: %v", ErrInternal, err)
	}
	return popup, nil
}

// IsHost является ли пользователь участником бренда попапа
func (c *Checker) IsHost(ctx context.Context, popup *domain.Popup, userID int64) (bool, error) {
	member, err := c.popups.IsBrandMember(ctx, popup.BrandID, userID)
	if err != nil {
		c.logger.Error("IsHost: membership check failed for brand=%d user=%d: %v", popup.BrandID, userID, err)
		return false, fmt.Errorf("%w: IsHost - popup service: %v", ErrInternal, err)
	}
	return member, nil
}

// RequireHost возвращает попап, если пользователь его хост, иначе ErrAccessDenied
func (c *Checker) RequireHost(ctx context.Context, popupID, userID int64) (*domain.Popup, error) {
	popup, err := c.GetPopup(ctx, popupID)
	if err != nil {
		return nil, err
	}

	isHost, err := c.IsHost(ctx, popup, userID)
	if err != nil {
		return nil, err
	}
	if !isHost {
		c.logger.Warn("RequireHost: user=%d is not a host of popup=%d", userID, popupID)
		return nil, ErrAccessDenied
	}

	return popup, nil
}
