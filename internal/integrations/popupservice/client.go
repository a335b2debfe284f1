package popupservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Client клиент для работы с PopupService (модель попапа на чтение и членство в брендах)
type Client struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	log        Logger
}

// NewClient создает новый экземпляр клиента PopupService
func NewClient(baseURL string, timeout time.Duration, location *time.Location, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		location: location,
		log:      log,
	}
}

// GetPopup получает попап вместе с часами работы
func (c *Client) GetPopup(ctx context.Context, popupID int64) (*domain.Popup, error) {
	url := fmt.Sprintf("%s/internal/popups/%d", c.baseURL, popupID)

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrPopupNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var popup Popup
	if err := json.NewDecoder(resp.Body).Decode(&popup); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	result, err := popup.ToDomain(c.location)
	if err != nil {
		c.log.Error("PopupService returned malformed popup id=%d: %v", popupID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return result, nil
}

// IsBrandMember проверяет, что пользователь состоит в бренде (хост попапов бренда)
// 404 означает, что пользователь не член бренда
func (c *Client) IsBrandMember(ctx context.Context, brandID, userID int64) (bool, error) {
	url := fmt.Sprintf("%s/internal/brands/%d/members/%d", c.baseURL, brandID, userID)

	resp, err := c.get(ctx, url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return false, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var membership BrandMembership
	if err := json.NewDecoder(resp.Body).Decode(&membership); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return membership.IsMember, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	return resp, nil
}
