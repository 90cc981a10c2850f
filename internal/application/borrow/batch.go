package borrow

import (
	"context"

	"github.com/xiebiao/library/internal/domain/borrow"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// BatchBorrowUseCase 批量借阅
// 逐本调用单本借阅，某一本失败不影响其他
type BatchBorrowUseCase struct {
	single *BorrowBookUseCase
}

// NewBatchBorrowUseCase 创建批量借阅用例
func NewBatchBorrowUseCase(single *BorrowBookUseCase) *BatchBorrowUseCase {
	return &BatchBorrowUseCase{single: single}
}

// BatchBorrowRequest 批量借阅请求
type BatchBorrowRequest struct {
	UserID  string
	BookIDs []string
	Days    int
}

// BatchBorrowItem 单本结果
type BatchBorrowItem struct {
	BookID   string `json:"book_id"`
	Success  bool   `json:"success"`
	BorrowID string `json:"borrow_id,omitempty"`
	DueDate  int64  `json:"due_date,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchBorrowResponse 批量借阅响应
type BatchBorrowResponse struct {
	Success       bool              `json:"success"`
	BorrowedCount int               `json:"borrowed_count"`
	Results       []BatchBorrowItem `json:"results"`
}

// Execute 执行批量借阅
func (uc *BatchBorrowUseCase) Execute(ctx context.Context, req BatchBorrowRequest) (*BatchBorrowResponse, error) {
	if len(req.BookIDs) == 0 {
		return nil, borrow.ErrEmptyBatch
	}
	if _, err := borrow.ValidateDays(req.Days); err != nil {
		return nil, err
	}

	resp := &BatchBorrowResponse{Success: true, Results: make([]BatchBorrowItem, 0, len(req.BookIDs))}
	for _, bookID := range req.BookIDs {
		r, err := uc.single.Execute(ctx, BorrowBookRequest{UserID: req.UserID, BookID: bookID, Days: req.Days})
		if err != nil {
			resp.Results = append(resp.Results, BatchBorrowItem{
				BookID: bookID,
				Error:  itemError(err, "借阅失败"),
			})
			continue
		}
		resp.BorrowedCount++
		resp.Results = append(resp.Results, BatchBorrowItem{
			BookID:   bookID,
			Success:  true,
			BorrowID: r.BorrowID,
			DueDate:  r.DueDate,
		})
	}
	return resp, nil
}

// BatchReturnUseCase 批量归还（按借阅ID）
type BatchReturnUseCase struct {
	single *ReturnBookUseCase
}

// NewBatchReturnUseCase 创建批量归还用例
func NewBatchReturnUseCase(single *ReturnBookUseCase) *BatchReturnUseCase {
	return &BatchReturnUseCase{single: single}
}

// BatchReturnRequest 批量归还请求
type BatchReturnRequest struct {
	UserID    string
	BorrowIDs []string
}

// BatchReturnItem 单条结果
type BatchReturnItem struct {
	BorrowID string `json:"borrow_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// BatchReturnResponse 批量归还响应
type BatchReturnResponse struct {
	Success       bool              `json:"success"`
	ReturnedCount int               `json:"returned_count"`
	Results       []BatchReturnItem `json:"results"`
}

// Execute 执行批量归还
func (uc *BatchReturnUseCase) Execute(ctx context.Context, req BatchReturnRequest) (*BatchReturnResponse, error) {
	if len(req.BorrowIDs) == 0 {
		return nil, borrow.ErrEmptyReturnBatch
	}

	resp := &BatchReturnResponse{Success: true, Results: make([]BatchReturnItem, 0, len(req.BorrowIDs))}
	for _, id := range req.BorrowIDs {
		_, err := uc.single.ExecuteByID(ctx, ReturnByIDRequest{UserID: req.UserID, BorrowID: id})
		if err != nil {
			resp.Results = append(resp.Results, BatchReturnItem{BorrowID: id, Error: batchReturnError(err)})
			continue
		}
		resp.ReturnedCount++
		resp.Results = append(resp.Results, BatchReturnItem{BorrowID: id, Success: true})
	}
	return resp, nil
}

// batchReturnError 批量归还的逐条提示比单条接口更简短
func batchReturnError(err error) string {
	switch {
	case apperrors.Is(err, borrow.ErrBorrowNotFound):
		return "记录不存在"
	case apperrors.Is(err, borrow.ErrNotOwner):
		return "无权操作"
	case apperrors.Is(err, borrow.ErrAlreadyReturned):
		return "记录已归还"
	}
	return itemError(err, "归还失败")
}

// itemError 业务错误展示原提示，内部错误只给通用提示
func itemError(err error, fallback string) string {
	appErr := apperrors.GetAppError(err)
	if appErr.Code >= apperrors.ErrCodeInternal {
		return fallback
	}
	return appErr.Message
}
