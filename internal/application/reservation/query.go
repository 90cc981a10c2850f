package reservation

import (
	"context"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/reservation"
	"github.com/xiebiao/library/internal/domain/user"
)

// ReservationItem 预约列表项
type ReservationItem struct {
	ReservationID      string `json:"reservation_id"`
	BookID             string `json:"book_id"`
	BookTitle          string `json:"book_title,omitempty"`
	BookCover          string `json:"book_cover,omitempty"`
	BookAuthor         string `json:"book_author,omitempty"`
	BookISBN           string `json:"book_isbn,omitempty"`
	BookPublisher      string `json:"book_publisher,omitempty"`
	UserID             string `json:"user_id,omitempty"`
	UserEmail          string `json:"user_email,omitempty"`
	UserDisplayName    string `json:"user_display_name,omitempty"`
	ReserveDate        string `json:"reserve_date"`
	TimeSlot           string `json:"time_slot"`
	Days               int    `json:"days"`
	ExpectedReturnDate int64  `json:"expected_return_date"`
	Status             string `json:"status"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"updated_at,omitempty"`
}

func newItem(r *reservation.Reservation) ReservationItem {
	return ReservationItem{
		ReservationID:      r.ID,
		BookID:             r.BookID,
		ReserveDate:        r.ReserveDate,
		TimeSlot:           r.TimeSlot,
		Days:               r.Days,
		ExpectedReturnDate: r.ExpectedReturnDate,
		Status:             string(r.Status),
		CreatedAt:          r.CreatedAt,
	}
}

// QueryUseCase 预约查询
type QueryUseCase struct {
	reservationRepo reservation.Repository
	bookRepo        book.Repository
	userRepo        user.Repository
}

// NewQueryUseCase 创建预约查询用例
func NewQueryUseCase(
	reservationRepo reservation.Repository,
	bookRepo book.Repository,
	userRepo user.Repository,
) *QueryUseCase {
	return &QueryUseCase{
		reservationRepo: reservationRepo,
		bookRepo:        bookRepo,
		userRepo:        userRepo,
	}
}

// Get 预约详情，预约人或管理员可见
func (uc *QueryUseCase) Get(ctx context.Context, requesterID string, isAdmin bool, reservationID string) (*ReservationItem, error) {
	r, err := uc.reservationRepo.FindByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !r.IsOwnedBy(requesterID) {
		return nil, reservation.ErrNotOwner
	}
	b, err := uc.bookRepo.FindByID(ctx, r.BookID)
	if err != nil {
		return nil, err
	}

	item := newItem(r)
	item.BookTitle = b.Title
	item.BookCover = b.Cover
	item.BookAuthor = b.Author
	item.BookISBN = b.ISBN
	item.BookPublisher = b.Publisher
	item.UpdatedAt = r.UpdatedAt
	return &item, nil
}

// ListByUser 我的预约，附带图书信息
// 图书已被删除的预约不返回
func (uc *QueryUseCase) ListByUser(ctx context.Context, userID string) ([]ReservationItem, error) {
	list, err := uc.reservationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.BookID
	}
	books, err := uc.bookRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ReservationItem, 0, len(list))
	for _, r := range list {
		b, ok := books[r.BookID]
		if !ok {
			continue
		}
		item := newItem(r)
		item.BookTitle = b.Title
		item.BookCover = b.Cover
		item.BookAuthor = b.Author
		items = append(items, item)
	}
	return items, nil
}

// ListByBook 图书的预约（管理员），附带预约人信息
func (uc *QueryUseCase) ListByBook(ctx context.Context, bookID string) ([]ReservationItem, error) {
	if _, err := uc.bookRepo.FindByID(ctx, bookID); err != nil {
		return nil, err
	}
	list, err := uc.reservationRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(list))
	for i, r := range list {
		ids[i] = r.UserID
	}
	users, err := uc.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ReservationItem, 0, len(list))
	for _, r := range list {
		u, ok := users[r.UserID]
		if !ok {
			continue
		}
		item := newItem(r)
		item.UserID = u.ID
		item.UserEmail = u.Email
		item.UserDisplayName = u.DisplayName
		items = append(items, item)
	}
	return items, nil
}
