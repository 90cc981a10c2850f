package borrow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/borrow"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database/dbtest"
)

type fixture struct {
	db      *gorm.DB
	books   book.Repository
	borrows borrow.Repository
	borrow  *BorrowBookUseCase
	ret     *ReturnBookUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	books := database.NewBookRepository(db)
	borrows := database.NewBorrowRepository(db)
	pub := messaging.NewLocalPublisher(nil)
	return &fixture{
		db:      db,
		books:   books,
		borrows: borrows,
		borrow:  NewBorrowBookUseCase(books, borrows, pub),
		ret:     NewReturnBookUseCase(books, borrows, pub),
	}
}

func (f *fixture) addBook(t *testing.T, stock int) *book.Book {
	t.Helper()
	b := book.NewBook("三体", "刘慈欣", "重庆出版社", "9787536692930", 23, "科幻", stock)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func (f *fixture) stock(t *testing.T, id string) (int, book.Status) {
	t.Helper()
	b, err := f.books.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b.Stock, b.Status
}

// TestBorrowAndReturn 借阅扣库存，归还恢复库存，记录进入returned
func TestBorrowAndReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 1)

	resp, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	stock, status := f.stock(t, b.ID)
	assert.Equal(t, 0, stock)
	assert.Equal(t, book.StatusBorrowed, status)

	record, err := f.borrows.FindByID(ctx, resp.BorrowID)
	require.NoError(t, err)
	assert.Equal(t, int64(borrow.DefaultDays*24*3600), record.DueDate-record.BorrowDate)

	ret, err := f.ret.Execute(ctx, ReturnBookRequest{UserID: "u1", BookID: b.ID, Early: true})
	require.NoError(t, err)
	assert.Equal(t, "归还成功（提前归还）", ret.Message)

	stock, status = f.stock(t, b.ID)
	assert.Equal(t, 1, stock)
	assert.Equal(t, book.StatusAvailable, status)

	record, err = f.borrows.FindByID(ctx, resp.BorrowID)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusReturned, record.Status)
	assert.True(t, record.IsEarlyReturn)
	assert.Greater(t, record.ReturnDate, int64(0))

	// 归还后可以再借
	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	assert.NoError(t, err)
}

// TestBorrowRejections 库存为0、重复借阅、维护中、借期非法都不改库存
func TestBorrowRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty := f.addBook(t, 0)
	_, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: empty.ID})
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	b := f.addBook(t, 2)
	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)
	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	assert.ErrorIs(t, err, borrow.ErrAlreadyBorrowed)
	stock, _ := f.stock(t, b.ID)
	assert.Equal(t, 1, stock)

	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID, Days: 366})
	assert.ErrorIs(t, err, borrow.ErrInvalidDays)

	maint := book.StatusMaintenance
	require.NoError(t, f.books.Update(ctx, b.ID, book.Patch{Status: &maint}))
	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u2", BookID: b.ID})
	assert.ErrorIs(t, err, book.ErrUnderMaintenance)

	_, err = f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: "missing"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

// TestConcurrentBorrowLastCopy 两个用户同时借最后一本，只有一个成功
func TestConcurrentBorrowLastCopy(t *testing.T) {
	f := newFixture(t)
	b := f.addBook(t, 1)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, uid := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(uid string) {
			defer wg.Done()
			_, err := f.borrow.Execute(context.Background(), BorrowBookRequest{UserID: uid, BookID: b.ID})
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(uid)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
			continue
		}
		assert.ErrorIs(t, err, book.ErrInsufficientStock)
	}
	assert.Equal(t, 1, success)
	stock, _ := f.stock(t, b.ID)
	assert.Equal(t, 0, stock)
}

// failingStock 让库存步骤失败，用来验证补偿
type failingStock struct {
	book.Repository
}

func (failingStock) UpdateStock(context.Context, string, int) (*book.Book, error) {
	return nil, errors.New("store unavailable")
}

// TestBorrowCompensation 扣库存失败时删除已插入的借阅记录
func TestBorrowCompensation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 1)

	uc := NewBorrowBookUseCase(failingStock{f.books}, f.borrows, nil)
	_, err := uc.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.Error(t, err)

	_, err = f.borrows.FindActive(ctx, "u1", b.ID)
	assert.ErrorIs(t, err, borrow.ErrNotBorrowed)
	records, err := f.borrows.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestReturnCompensation 加库存失败时借阅记录恢复为borrowed
func TestReturnCompensation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 1)

	resp, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)

	uc := NewReturnBookUseCase(failingStock{f.books}, f.borrows, nil)
	_, err = uc.Execute(ctx, ReturnBookRequest{UserID: "u1", BookID: b.ID})
	require.Error(t, err)

	record, err := f.borrows.FindActive(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.BorrowID, record.ID)
	assert.Equal(t, int64(0), record.ReturnDate)
}

// TestBorrowAndReturnRereadFailure 库存写入后回读图书失败，借还仍然成功，库存与借阅记录一致
func TestBorrowAndReturnRereadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 2)

	injected := dbtest.FailReadAfterUpdate(t, f.db, "books")

	resp, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, int32(1), injected.Load())

	stock, status := f.stock(t, b.ID)
	assert.Equal(t, 1, stock)
	assert.Equal(t, book.StatusAvailable, status)
	record, err := f.borrows.FindActive(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.BorrowID, record.ID)

	_, err = f.ret.Execute(ctx, ReturnBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, int32(2), injected.Load())

	stock, _ = f.stock(t, b.ID)
	assert.Equal(t, 2, stock)
	_, err = f.borrows.FindActive(ctx, "u1", b.ID)
	assert.ErrorIs(t, err, borrow.ErrNotBorrowed)
	record, err = f.borrows.FindByID(ctx, resp.BorrowID)
	require.NoError(t, err)
	assert.Equal(t, borrow.StatusReturned, record.Status)
}

// TestBorrowLastCopyRereadFailure 最后一本借出后回读失败，状态仍由同一条UPDATE置为borrowed
func TestBorrowLastCopyRereadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 1)

	dbtest.FailReadAfterUpdate(t, f.db, "books")

	_, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)

	stock, status := f.stock(t, b.ID)
	assert.Equal(t, 0, stock)
	assert.Equal(t, book.StatusBorrowed, status)
	_, err = f.borrows.FindActive(ctx, "u1", b.ID)
	require.NoError(t, err)
}

// TestReturnByID 按ID归还校验存在、归属和状态
func TestReturnByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 1)

	resp, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)

	_, err = f.ret.ExecuteByID(ctx, ReturnByIDRequest{UserID: "u1", BorrowID: "missing"})
	assert.ErrorIs(t, err, borrow.ErrBorrowNotFound)
	_, err = f.ret.ExecuteByID(ctx, ReturnByIDRequest{UserID: "u2", BorrowID: resp.BorrowID})
	assert.ErrorIs(t, err, borrow.ErrNotOwner)

	ret, err := f.ret.ExecuteByID(ctx, ReturnByIDRequest{UserID: "u1", BorrowID: resp.BorrowID})
	require.NoError(t, err)
	assert.Equal(t, "归还成功", ret.Message)

	_, err = f.ret.ExecuteByID(ctx, ReturnByIDRequest{UserID: "u1", BorrowID: resp.BorrowID})
	assert.ErrorIs(t, err, borrow.ErrAlreadyReturned)

	_, err = f.ret.Execute(ctx, ReturnBookRequest{UserID: "u1", BookID: b.ID})
	assert.ErrorIs(t, err, borrow.ErrNotBorrowed)
}

// TestBatchBorrowAndReturn 批量操作逐条返回结果，单条失败不影响其他
func TestBatchBorrowAndReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ok := f.addBook(t, 1)
	empty := f.addBook(t, 0)

	batch := NewBatchBorrowUseCase(f.borrow)
	_, err := batch.Execute(ctx, BatchBorrowRequest{UserID: "u1"})
	assert.ErrorIs(t, err, borrow.ErrEmptyBatch)

	resp, err := batch.Execute(ctx, BatchBorrowRequest{UserID: "u1", BookIDs: []string{ok.ID, empty.ID, "missing"}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.BorrowedCount)
	require.Len(t, resp.Results, 3)
	assert.True(t, resp.Results[0].Success)
	assert.NotEmpty(t, resp.Results[0].BorrowID)
	assert.Equal(t, "图书库存不足", resp.Results[1].Error)
	assert.Equal(t, "图书不存在", resp.Results[2].Error)

	other, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u2", BookID: f.addBook(t, 1).ID})
	require.NoError(t, err)

	batchRet := NewBatchReturnUseCase(f.ret)
	rr, err := batchRet.Execute(ctx, BatchReturnRequest{
		UserID:    "u1",
		BorrowIDs: []string{resp.Results[0].BorrowID, resp.Results[0].BorrowID, other.BorrowID, "missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rr.ReturnedCount)
	assert.True(t, rr.Results[0].Success)
	assert.Equal(t, "记录已归还", rr.Results[1].Error)
	assert.Equal(t, "无权操作", rr.Results[2].Error)
	assert.Equal(t, "记录不存在", rr.Results[3].Error)
}

// TestListUserBorrows 列表倒序并补全书名
func TestListUserBorrows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.addBook(t, 3)

	_, err := f.borrow.Execute(ctx, BorrowBookRequest{UserID: "u1", BookID: b.ID})
	require.NoError(t, err)

	resp, err := NewListUserBorrowsUseCase(f.books, f.borrows).Execute(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "三体", resp.Items[0].BookTitle)
	assert.Equal(t, "borrowed", resp.Items[0].Status)
}
