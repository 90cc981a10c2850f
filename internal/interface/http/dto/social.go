package dto

// CreateCommentRequest 发表评论，parent_id为空表示顶层评论
type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=1000" example:"值得一读"`
	ParentID string `json:"parent_id"`
}

// CreateAnnouncementRequest 发布公告
type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=10000"`
}

// ChatTurn 历史消息
type ChatTurn struct {
	Role    string `json:"role" binding:"omitempty,oneof=user assistant"`
	Content string `json:"content"`
}

// ChatRequest AI对话
type ChatRequest struct {
	Message string     `json:"message" example:"推荐几本科幻小说"`
	History []ChatTurn `json:"history" binding:"omitempty,max=50,dive"`
}
