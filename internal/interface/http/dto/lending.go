package dto

// BorrowRequest 借阅，days缺省为30
type BorrowRequest struct {
	Days int `json:"days" binding:"omitempty,min=1,max=365" example:"30"`
}

// BatchBorrowRequest 批量借阅
type BatchBorrowRequest struct {
	BookIDs []string `json:"book_ids" binding:"required,min=1,max=50,dive,required"`
	Days    int      `json:"days" binding:"omitempty,min=1,max=365"`
}

// BatchReturnRequest 批量归还
type BatchReturnRequest struct {
	BorrowIDs []string `json:"borrow_ids" binding:"required,min=1,max=50,dive,required"`
}

// ReserveRequest 预约
type ReserveRequest struct {
	ReserveDate string `json:"reserve_date" binding:"required,date" example:"2026-11-01"`
	TimeSlot    string `json:"time_slot" binding:"max=50" example:"09:00-12:00"`
	Days        int    `json:"days" binding:"omitempty,min=1,max=365" example:"14"`
}
