package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/library/internal/mocks"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

type fixture struct {
	users        user.Repository
	books        book.Repository
	borrows      borrow.Repository
	reservations reservation.Repository
	publisher    *mocks.MockPublisher
	reserve      *ReserveBookUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{
		users:        database.NewUserRepository(db),
		books:        database.NewBookRepository(db),
		borrows:      database.NewBorrowRepository(db),
		reservations: database.NewReservationRepository(db),
		publisher:    mocks.NewMockPublisher(gomock.NewController(t)),
	}
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.reserve = NewReserveBookUseCase(f.users, f.books, f.borrows, f.reservations, f.publisher)
	return f
}

func (f *fixture) addUser(t *testing.T, email string) *user.User {
	t.Helper()
	u := user.NewUser(email, "hash", "", user.RoleUser)
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) addBook(t *testing.T, stock int) *book.Book {
	t.Helper()
	b := book.NewBook("活着", "余华", "作家出版社", "9787506365437", 20, "文学", stock)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format(reservation.DateLayout)
}

// TestReserveBook 预约成功后发布带邮箱的reservation.created事件
func TestReserveBook(t *testing.T) {
	db := dbtest.New(t)
	users := database.NewUserRepository(db)
	books := database.NewBookRepository(db)
	reservations := database.NewReservationRepository(db)

	u := user.NewUser("reader@x.com", "hash", "", user.RoleUser)
	require.NoError(t, users.Create(context.Background(), u))
	b := book.NewBook("活着", "余华", "作家出版社", "", 20, "文学", 1)
	require.NoError(t, books.Create(context.Background(), b))

	pub := mocks.NewMockPublisher(gomock.NewController(t))
	pub.EXPECT().Publish(gomock.Any(), messaging.RoutingReservationCreated, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, evt any) error {
			e := evt.(messaging.ReservationEvent)
			assert.Equal(t, "reader@x.com", e.Email)
			assert.Equal(t, "活着", e.BookTitle)
			assert.Equal(t, 14, e.Days)
			return nil
		})

	uc := NewReserveBookUseCase(users, books, database.NewBorrowRepository(db), reservations, pub)
	resp, err := uc.Execute(context.Background(), ReserveBookRequest{
		UserID: u.ID, BookID: b.ID, ReserveDate: tomorrow(), TimeSlot: "上午", Days: 14,
	})
	require.NoError(t, err)
	assert.Equal(t, "预约成功", resp.Message)

	r, err := reservations.FindByID(context.Background(), resp.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusReserved, r.Status)
}

// TestReserveRejections 日期错误、重复预约、库存为0
func TestReserveRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b := f.addBook(t, 1)

	_, err := f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b.ID, ReserveDate: "2026/10/20"})
	assert.ErrorIs(t, err, reservation.ErrInvalidDate)

	_, err = f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: "missing", ReserveDate: tomorrow()})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b.ID, ReserveDate: tomorrow()})
	require.NoError(t, err)
	_, err = f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b.ID, ReserveDate: tomorrow()})
	assert.ErrorIs(t, err, reservation.ErrAlreadyReserved)

	empty := f.addBook(t, 0)
	_, err = f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: empty.ID, ReserveDate: tomorrow()})
	require.ErrorIs(t, err, reservation.ErrNoStock)
	assert.Equal(t, UnknownDate, apperrors.GetAppError(err).Details["earliest_available_date"])
}

// TestReserveEarliestDate 库存为0时返回借阅中记录的最早应还日期
func TestReserveEarliestDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b := f.addBook(t, 0)

	now := time.Now()
	late := borrow.NewBorrow("u-late", b.ID, 20, now)
	early := borrow.NewBorrow("u-early", b.ID, 5, now)
	require.NoError(t, f.borrows.Create(ctx, late))
	require.NoError(t, f.borrows.Create(ctx, early))

	_, err := f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b.ID, ReserveDate: tomorrow()})
	require.ErrorIs(t, err, reservation.ErrNoStock)
	assert.Equal(t, book.FormatDate(early.DueDate), apperrors.GetAppError(err).Details["earliest_available_date"])
}

// TestCancelAndFulfill 取消只允许预约人，完成只允许进行中的预约
func TestCancelAndFulfill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b1 := f.addBook(t, 1)
	b2 := f.addBook(t, 1)

	r1, err := f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b1.ID, ReserveDate: tomorrow()})
	require.NoError(t, err)
	r2, err := f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b2.ID, ReserveDate: tomorrow()})
	require.NoError(t, err)

	cancel := NewCancelReservationUseCase(f.reservations, f.publisher)
	_, err = cancel.Execute(ctx, "someone-else", r1.ReservationID)
	assert.ErrorIs(t, err, reservation.ErrNotOwner)
	resp, err := cancel.Execute(ctx, u.ID, r1.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, "取消预约成功", resp.Message)
	_, err = cancel.Execute(ctx, u.ID, r1.ReservationID)
	assert.ErrorIs(t, err, reservation.ErrNotActive)
	_, err = cancel.Execute(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)

	fulfill := NewFulfillReservationUseCase(f.reservations, f.publisher)
	_, err = fulfill.Execute(ctx, r2.ReservationID)
	require.NoError(t, err)
	_, err = fulfill.Execute(ctx, r2.ReservationID)
	assert.ErrorIs(t, err, reservation.ErrNotFulfillable)

	// 取消后可以重新预约
	_, err = f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b1.ID, ReserveDate: tomorrow()})
	assert.NoError(t, err)
}

// TestQuery 详情权限与列表补全
func TestQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.addUser(t, "a@x.com")
	b := f.addBook(t, 1)

	r, err := f.reserve.Execute(ctx, ReserveBookRequest{UserID: u.ID, BookID: b.ID, ReserveDate: tomorrow(), TimeSlot: "下午"})
	require.NoError(t, err)

	q := NewQueryUseCase(f.reservations, f.books, f.users)

	item, err := q.Get(ctx, u.ID, false, r.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, "活着", item.BookTitle)
	assert.Equal(t, "下午", item.TimeSlot)

	_, err = q.Get(ctx, "other", false, r.ReservationID)
	assert.ErrorIs(t, err, reservation.ErrNotOwner)
	_, err = q.Get(ctx, "admin", true, r.ReservationID)
	assert.NoError(t, err)

	mine, err := q.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "余华", mine[0].BookAuthor)

	byBook, err := q.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, byBook, 1)
	assert.Equal(t, "a@x.com", byBook[0].UserEmail)
	assert.Equal(t, "a", byBook[0].UserDisplayName)

	_, err = q.ListByBook(ctx, "missing")
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestExpireReservations 超过宽限期的预约改为expired，其余不动
func TestExpireReservations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	old, err := reservation.NewReservation("u1", "b1", now.AddDate(0, 0, -3).Format(reservation.DateLayout), "", 0, now)
	require.NoError(t, err)
	edge, err := reservation.NewReservation("u1", "b2", now.AddDate(0, 0, -1).Format(reservation.DateLayout), "", 0, now)
	require.NoError(t, err)
	future, err := reservation.NewReservation("u1", "b3", tomorrow(), "", 0, now)
	require.NoError(t, err)
	for _, r := range []*reservation.Reservation{old, edge, future} {
		require.NoError(t, f.reservations.Create(ctx, r))
	}

	uc := NewExpireReservationsUseCase(f.reservations, f.publisher, 1, 100)
	result, err := uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 1, result.Expired)

	got, err := f.reservations.FindByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusExpired, got.Status)

	got, err = f.reservations.FindByID(ctx, edge.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusReserved, got.Status)
}
