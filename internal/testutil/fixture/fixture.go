// Package fixture собирает сервисы бронирования поверх хранилищ в памяти для тестов usecase
package fixture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsCache "github.com/m04kA/SMC-ReservationService/internal/infra/cache/settings"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/payments"
	"github.com/m04kA/SMC-ReservationService/internal/service/access"
	"github.com/m04kA/SMC-ReservationService/internal/service/ledger"
	settingsService "github.com/m04kA/SMC-ReservationService/internal/service/settings"
	"github.com/m04kA/SMC-ReservationService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ReservationService/internal/testutil/popupstub"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

// Location часовой пояс попапов в тестах
var Location = time.FixedZone("KST", 9*60*60)

const (
	PopupID = int64(1)
	BrandID = int64(10)
	HostID  = int64(900)
)

// Env окружение теста
type Env struct {
	Store    *memstore.Store
	Popups   *popupstub.Directory
	Access   *access.Checker
	Settings *settingsService.Service
	Ledger   *ledger.Ledger
	Payments *Payments
	Clock    *Clock
	Events   *RecordingPublisher
	Metrics  *metrics.Metrics
	Logger   *logger.Logger
}

// New окружение с одним попапом PopupID бренда BrandID, хост HostID
// Попап работает по понедельникам 10:00-12:00, часы "сейчас" - понедельник 2025-03-10 09:00
func New() *Env {
	store := memstore.New()
	popups := popupstub.New().
		AddPopup(MondayPopup()).
		AddMember(BrandID, HostID)

	log := logger.Nop()
	var m *metrics.Metrics

	checker := access.NewChecker(popups, log)
	settings := settingsService.NewService(store.Settings(), settingsCache.NewMemoryCache(time.Minute), checker, m, log)

	return &Env{
		Store:    store,
		Popups:   popups,
		Access:   checker,
		Settings: settings,
		Ledger:   ledger.New(store),
		Payments: NewPayments(),
		Clock:    NewClock(time.Date(2025, 3, 10, 9, 0, 0, 0, Location)),
		Events:   &RecordingPublisher{},
		Metrics:  m,
		Logger:   log,
	}
}

// MondayPopup попап с часами работы по понедельникам 10:00-12:00
func MondayPopup() domain.Popup {
	return domain.Popup{
		ID:                 PopupID,
		BrandID:            BrandID,
		Name:               "Seongsu Popup",
		Status:             domain.PopupStatusOngoing,
		ReservationEnabled: true,
		OperatingHours: []domain.OperatingHours{
			{DayOfWeek: time.Monday, OpenTime: "10:00", CloseTime: "12:00"},
		},
	}
}

// UseSettings сохраняет настройки попапа
func (e *Env) UseSettings(s domain.ReservationSettings) {
	e.Store.Settings().Put(s)
}

// Reserve кладет активное бронирование напрямую в хранилище
func (e *Env) Reserve(userID int64, at time.Time, partySize int) *domain.Reservation {
	return e.Store.Put(domain.Reservation{
		PopupID:         PopupID,
		UserID:          userID,
		ContactName:     "Guest",
		ContactPhone:    "010-0000-0000",
		PartySize:       partySize,
		ReservationDate: at,
		Status:          domain.StatusReserved,
		ReservedAt:      e.Clock.Now(),
	})
}

// Payments платежи, выписанные на пользователя и попап, как их видит провайдер
type Payments struct {
	mu      sync.Mutex
	intents map[string]issuedPayment
}

type issuedPayment struct {
	userID  int64
	popupID int64
	amount  int64
}

func NewPayments() *Payments {
	return &Payments{intents: make(map[string]issuedPayment)}
}

// Issue регистрирует завершенный платеж
func (p *Payments) Issue(key string, userID, popupID, amount int64) {
	p.mu.Lock()
	p.intents[key] = issuedPayment{userID: userID, popupID: popupID, amount: amount}
	p.mu.Unlock()
}

// Verify принимает только платежи, выписанные на этого пользователя и попап
func (p *Payments) Verify(_ context.Context, key string, userID, popupID int64) (*payments.VerifiedPayment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	issued, ok := p.intents[key]
	if !ok {
		return nil, fmt.Errorf("%w: payment %s not found", payments.ErrPaymentNotVerified, key)
	}
	if issued.userID != userID || issued.popupID != popupID {
		return nil, fmt.Errorf("%w: payment %s belongs to another user or popup", payments.ErrPaymentNotVerified, key)
	}
	return &payments.VerifiedPayment{PaymentKey: key, Amount: issued.amount, Currency: "krw"}, nil
}

// Clock управляемые часы
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Published опубликованное событие
type Published struct {
	Subject string
	Data    interface{}
}

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu        sync.Mutex
	published []Published
}

func (p *RecordingPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	p.published = append(p.published, Published{Subject: subject, Data: data})
	p.mu.Unlock()
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Subjects темы опубликованных событий по порядку
func (p *RecordingPublisher) Subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	subjects := make([]string, len(p.published))
	for i, e := range p.published {
		subjects[i] = e.Subject
	}
	return subjects
}

// Last последнее опубликованное событие
func (p *RecordingPublisher) Last() (Published, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.published) == 0 {
		return Published{}, false
	}
	return p.published[len(p.published)-1], true
}
