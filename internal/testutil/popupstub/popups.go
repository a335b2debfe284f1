// Package popupstub каталог попапов и участников брендов в памяти для тестов
package popupstub

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/popupservice"
)

// Directory реализует GetPopup и IsBrandMember клиента сервиса попапов
type Directory struct {
	mu      sync.RWMutex
	popups  map[int64]domain.Popup
	members map[int64]map[int64]bool
}

// New создает пустой каталог
func New() *Directory {
	return &Directory{
		popups:  make(map[int64]domain.Popup),
		members: make(map[int64]map[int64]bool),
	}
}

// AddPopup регистрирует попап
func (d *Directory) AddPopup(p domain.Popup) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.popups[p.ID] = p
	return d
}

// AddMember делает пользователя участником бренда
func (d *Directory) AddMember(brandID, userID int64) *Directory {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.members[brandID] == nil {
		d.members[brandID] = make(map[int64]bool)
	}
	d.members[brandID][userID] = true
	return d
}

func (d *Directory) GetPopup(_ context.Context, popupID int64) (*domain.Popup, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.popups[popupID]
	if !ok {
		return nil, popupservice.ErrPopupNotFound
	}
	p.OperatingHours = append([]domain.OperatingHours(nil), p.OperatingHours...)
	return &p, nil
}

func (d *Directory) IsBrandMember(_ context.Context, brandID, userID int64) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.members[brandID][userID], nil
}
