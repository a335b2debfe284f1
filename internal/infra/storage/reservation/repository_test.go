package reservation_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/service/ledger"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
	"github.com/m04kA/SMC-ReservationService/pkg/txmanager"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgDatabase = "reservations"

	popupID = int64(1)
)

var (
	location  = time.FixedZone("KST", 9*60*60)
	slotStart = time.Date(2025, 3, 17, 11, 0, 0, 0, location)
	slotEnd   = slotStart.Add(30 * time.Minute)
)

// PostgresRepositorySuite репозиторий поверх настоящего PostgreSQL в контейнере
// Без Docker тесты пропускаются
type PostgresRepositorySuite struct {
	suite.Suite

	container testcontainers.Container
	db        *sql.DB
	repo      *reservation.Repository
	tx        *txmanager.TransactionManager
	ledger    *ledger.Ledger
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping PostgreSQL tests in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw",
			},
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "max_connections=200"},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	s.Require().NoError(err, "failed to start postgres container")
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, host, port.Port(), pgDatabase)

	db, err := sql.Open("postgres", dsn)
	s.Require().NoError(err)
	db.SetMaxOpenConns(50)
	s.Require().Eventually(func() bool { return db.PingContext(ctx) == nil }, 30*time.Second, 200*time.Millisecond)
	s.db = db

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_init.sql"))
	s.Require().NoError(err, "failed to read migration")
	_, err = db.ExecContext(ctx, string(migration))
	s.Require().NoError(err, "failed to apply migration")

	wrapped := dbmetrics.Wrap(db, nil)
	s.repo = reservation.NewRepository(wrapped)
	s.tx = txmanager.NewTransactionManager(wrapped)
	s.ledger = ledger.New(s.repo)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE reservations RESTART IDENTITY")
	s.Require().NoError(err)
}

func newReservation(userID int64, partySize int) *domain.Reservation {
	return &domain.Reservation{
		PopupID:         popupID,
		UserID:          userID,
		ContactName:     "Lee",
		ContactPhone:    "010-1111-2222",
		PartySize:       partySize,
		ReservationDate: slotStart,
		Status:          domain.StatusReserved,
	}
}

// admit повторяет путь создания бронирования: блокировка слота, подсчет, вставка
func (s *PostgresRepositorySuite) admit(ctx context.Context, res *domain.Reservation, capacity int) error {
	return s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.ledger.Acquire(txCtx, res.PopupID, res.ReservationDate); err != nil {
			return err
		}

		slot := domain.TimeSlot{Start: slotStart, End: slotEnd, Capacity: capacity, Bookable: true}
		occupancy, err := s.ledger.Occupancy(txCtx, res.PopupID, slot)
		if err != nil {
			return err
		}
		slot.Occupancy = occupancy

		if !ledger.Admit(slot, res.PartySize) {
			return errSlotFull
		}

		_, err = s.repo.Create(txCtx, res)
		return err
	})
}

var errSlotFull = fmt.Errorf("slot full")

func (s *PostgresRepositorySuite) TestConcurrentAdmissionNeverExceedsCapacity() {
	ctx := context.Background()
	const (
		callers   = 20
		capacity  = 10
		partySize = 3
	)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
		other    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			err := s.admit(ctx, newReservation(userID, partySize), capacity)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case err == errSlotFull:
				rejected++
			default:
				other = append(other, err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	s.Empty(other)
	s.Equal(3, admitted)
	s.Equal(callers-3, rejected)

	occupied, err := s.repo.SumActivePartySize(ctx, popupID, slotStart, slotEnd)
	s.Require().NoError(err)
	s.Equal(9, occupied)
	s.LessOrEqual(occupied, capacity)
}

func (s *PostgresRepositorySuite) TestConcurrentDuplicateActiveRejected() {
	ctx := context.Background()

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.tx.Do(ctx, func(txCtx context.Context) error {
				_, err := s.repo.Create(txCtx, newReservation(7, 1))
				return err
			})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			s.ErrorIs(err, reservation.ErrDuplicateActive)
			duplicates++
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(9, duplicates)

	active, err := s.repo.HasActive(ctx, popupID, 7)
	s.Require().NoError(err)
	s.True(active)
}

func (s *PostgresRepositorySuite) TestCancelledReservationAllowsNewOne() {
	ctx := context.Background()

	first, err := s.repo.Create(ctx, newReservation(7, 1))
	s.Require().NoError(err)
	s.Require().NoError(s.repo.UpdateStatus(ctx, first.ID, domain.StatusReserved, domain.StatusCancelled, time.Now()))

	_, err = s.repo.Create(ctx, newReservation(7, 1))
	s.NoError(err)
}

func (s *PostgresRepositorySuite) TestPaymentKeyAttachedOnce() {
	ctx := context.Background()

	paid := newReservation(7, 1)
	paid.PaymentCompleted = true
	paid.PaymentAmount = 15000
	paid.PaymentKey = ptr.Ptr("pi_123")
	created, err := s.repo.Create(ctx, paid)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.UpdateStatus(ctx, created.ID, domain.StatusReserved, domain.StatusCancelled, time.Now()))

	again := newReservation(8, 1)
	again.PaymentCompleted = true
	again.PaymentKey = ptr.Ptr("pi_123")
	_, err = s.repo.Create(ctx, again)
	s.ErrorIs(err, reservation.ErrPaymentKeyUsed)
}

func (s *PostgresRepositorySuite) TestUpdateStatusIsConditional() {
	ctx := context.Background()
	created, err := s.repo.Create(ctx, newReservation(7, 2))
	s.Require().NoError(err)

	at := time.Date(2025, 3, 12, 9, 0, 0, 0, location)
	s.Require().NoError(s.repo.UpdateStatus(ctx, created.ID, domain.StatusReserved, domain.StatusCancelled, at))

	err = s.repo.UpdateStatus(ctx, created.ID, domain.StatusReserved, domain.StatusCancelled, at)
	s.ErrorIs(err, reservation.ErrStatusConflict)
	err = s.repo.UpdateStatus(ctx, created.ID, domain.StatusReserved, domain.StatusVisited, at)
	s.ErrorIs(err, reservation.ErrStatusConflict)

	stored, err := s.repo.GetByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusCancelled, stored.Status)
	s.Require().NotNil(stored.CancelledAt)
	s.True(stored.CancelledAt.Equal(at))
	s.Nil(stored.VisitedAt)

	occupied, err := s.repo.SumActivePartySize(ctx, popupID, slotStart, slotEnd)
	s.Require().NoError(err)
	s.Zero(occupied)
}

func (s *PostgresRepositorySuite) TestSumActivePartySizeHalfOpenRange() {
	ctx := context.Background()

	inside := newReservation(1, 2)
	_, err := s.repo.Create(ctx, inside)
	s.Require().NoError(err)

	atEnd := newReservation(2, 3)
	atEnd.ReservationDate = slotEnd
	_, err = s.repo.Create(ctx, atEnd)
	s.Require().NoError(err)

	occupied, err := s.repo.SumActivePartySize(ctx, popupID, slotStart, slotEnd)
	s.Require().NoError(err)
	s.Equal(2, occupied)
}

func (s *PostgresRepositorySuite) TestLockSlotRequiresTransaction() {
	err := s.repo.LockSlot(context.Background(), popupID, slotStart)
	s.ErrorIs(err, reservation.ErrTransaction)
}

func (s *PostgresRepositorySuite) TestGetByIDNotFound() {
	_, err := s.repo.GetByID(context.Background(), 404)
	s.ErrorIs(err, reservation.ErrReservationNotFound)
}
