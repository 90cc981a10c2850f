package database

// 数据模型
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. internal/domain下是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. 时间统一存unix秒

// BookModel 图书
type BookModel struct {
	BookID      string  `gorm:"primaryKey;size:64;column:book_id"`
	Title       string  `gorm:"size:200;not null;index:idx_books_title"`
	Author      string  `gorm:"size:100"`
	Publisher   string  `gorm:"size:100"`
	ISBN        string  `gorm:"size:32;column:isbn"`
	Price       float64 `gorm:"not null;default:0"`
	Category    string  `gorm:"size:64;index"`
	Description string  `gorm:"type:text"`
	Cover       string  `gorm:"size:500"`
	Summary     string  `gorm:"type:text"`
	Status      string  `gorm:"size:20;not null;default:available"`
	Stock       int     `gorm:"not null;default:0"`
	CreatedAt   int64   `gorm:"autoCreateTime;index"`
	UpdatedAt   int64   `gorm:"autoUpdateTime"`
}

func (BookModel) TableName() string { return "books" }

// BorrowModel 借阅记录
// ActiveKey在借阅中时为"user_id:book_id"，归还后置NULL；
// 唯一索引保证同一用户同一本书最多一条借阅中记录
type BorrowModel struct {
	BorrowID      string  `gorm:"primaryKey;size:64;column:borrow_id"`
	BookID        string  `gorm:"size:64;not null;index"`
	UserID        string  `gorm:"size:64;not null;index"`
	ActiveKey     *string `gorm:"size:140;uniqueIndex"`
	BorrowDate    int64   `gorm:"not null;index"`
	DueDate       int64   `gorm:"not null"`
	ReturnDate    int64   `gorm:"not null;default:0"`
	Status        string  `gorm:"size:20;not null;index"`
	IsEarlyReturn bool    `gorm:"not null;default:false"`
	CreatedAt     int64   `gorm:"autoCreateTime"`
	UpdatedAt     int64   `gorm:"autoUpdateTime"`
}

func (BorrowModel) TableName() string { return "borrow_records" }

// ReservationModel 预约，ActiveKey规则同借阅记录
type ReservationModel struct {
	ReservationID      string  `gorm:"primaryKey;size:64;column:reservation_id"`
	BookID             string  `gorm:"size:64;not null;index"`
	UserID             string  `gorm:"size:64;not null;index"`
	ActiveKey          *string `gorm:"size:140;uniqueIndex"`
	ReserveDate        string  `gorm:"size:10;not null"`
	TimeSlot           string  `gorm:"size:64"`
	Days               int     `gorm:"not null"`
	ExpectedReturnDate int64   `gorm:"not null"`
	Status             string  `gorm:"size:20;not null;index"`
	CreatedAt          int64   `gorm:"autoCreateTime"`
	UpdatedAt          int64   `gorm:"autoUpdateTime"`
}

func (ReservationModel) TableName() string { return "reservations" }

// UserModel 用户，邮箱为主键
type UserModel struct {
	Email         string `gorm:"primaryKey;size:100"`
	UserID        string `gorm:"size:64;not null;uniqueIndex;column:user_id"`
	Password      string `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role          string `gorm:"size:16;not null;default:user"`
	IsVerified    bool   `gorm:"not null;default:false"`
	DisplayName   string `gorm:"size:50"`
	AvatarURL     string `gorm:"size:500;column:avatar_url"`
	Gender        string `gorm:"size:16"`
	BackgroundURL string `gorm:"size:500;column:background_url"`
	Summary       string `gorm:"size:500"`
	CreatedAt     int64  `gorm:"autoCreateTime"`
	UpdatedAt     int64  `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

// VerificationCodeModel 验证码，每个邮箱一行
type VerificationCodeModel struct {
	Email      string `gorm:"primaryKey;size:100"`
	Code       string `gorm:"size:8;not null"`
	Type       string `gorm:"size:20;not null"`
	ExpireTime int64  `gorm:"not null"`
}

func (VerificationCodeModel) TableName() string { return "verification_codes" }

// CommentModel 评论
type CommentModel struct {
	CommentID       string `gorm:"primaryKey;size:64;column:comment_id"`
	BookID          string `gorm:"size:64;not null;index"`
	UserID          string `gorm:"size:64;not null"`
	UserDisplayName string `gorm:"size:50"`
	UserAvatarURL   string `gorm:"size:500;column:user_avatar_url"`
	Content         string `gorm:"type:text;not null"`
	ParentID        string `gorm:"size:64;not null;default:''"`
	Likes           int    `gorm:"not null;default:0"`
	CreatedAt       int64  `gorm:"autoCreateTime"`
	UpdatedAt       int64  `gorm:"autoUpdateTime"`
}

func (CommentModel) TableName() string { return "comments" }

// CommentLikeModel 点赞关系，(comment_id, user_id)联合主键
type CommentLikeModel struct {
	CommentID string `gorm:"primaryKey;size:64;column:comment_id"`
	UserID    string `gorm:"primaryKey;size:64;index"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

func (CommentLikeModel) TableName() string { return "comment_likes" }

// FavoriteModel 收藏，(user_id, book_id)联合主键
type FavoriteModel struct {
	UserID     string `gorm:"primaryKey;size:64"`
	BookID     string `gorm:"primaryKey;size:64"`
	FavoriteID string `gorm:"size:64;not null;uniqueIndex;column:favorite_id"`
	CreatedAt  int64  `gorm:"autoCreateTime;index"`
	UpdatedAt  int64  `gorm:"autoUpdateTime"`
}

func (FavoriteModel) TableName() string { return "favorites" }

// ViewHistoryModel 浏览历史
type ViewHistoryModel struct {
	HistoryID string `gorm:"primaryKey;size:64;column:history_id"`
	UserID    string `gorm:"size:64;not null;index:idx_history_user_time"`
	BookID    string `gorm:"size:64;not null"`
	ViewTime  int64  `gorm:"not null;index:idx_history_user_time"`
	CreatedAt int64  `gorm:"autoCreateTime"`
	UpdatedAt int64  `gorm:"autoUpdateTime"`
}

func (ViewHistoryModel) TableName() string { return "view_history" }

// AnnouncementModel 公告
type AnnouncementModel struct {
	AnnouncementID string `gorm:"primaryKey;size:64;column:announcement_id"`
	Title          string `gorm:"size:200;not null"`
	Content        string `gorm:"type:text;not null"`
	PublishTime    int64  `gorm:"not null;index"`
	CreatedAt      int64  `gorm:"autoCreateTime"`
	UpdatedAt      int64  `gorm:"autoUpdateTime"`
}

func (AnnouncementModel) TableName() string { return "announcements" }
