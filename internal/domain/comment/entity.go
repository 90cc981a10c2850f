package comment

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxContentLength 评论内容上限(字符)
const MaxContentLength = 1000

// Comment 评论
// 作者显示名、头像在创建和点赞时快照，不随用户资料变化
type Comment struct {
	ID              string
	BookID          string
	UserID          string
	UserDisplayName string
	UserAvatarURL   string
	Content         string
	ParentID        string // 顶级评论为空
	Likes           int
	CreatedAt       int64
	UpdatedAt       int64
}

// NewComment 创建评论，内容去除首尾空白后校验
func NewComment(bookID, userID, displayName, avatarURL, content, parentID string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}
	now := time.Now().Unix()
	return &Comment{
		ID:              uuid.NewString(),
		BookID:          bookID,
		UserID:          userID,
		UserDisplayName: displayName,
		UserAvatarURL:   avatarURL,
		Content:         content,
		ParentID:        parentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// WithLikeDelta 返回点赞数调整delta(不低于0)、快照非空时刷新后的副本
func (c *Comment) WithLikeDelta(delta int, displayName, avatarURL string) *Comment {
	out := *c
	out.Likes += delta
	if out.Likes < 0 {
		out.Likes = 0
	}
	if displayName != "" {
		out.UserDisplayName = displayName
	}
	if avatarURL != "" {
		out.UserAvatarURL = avatarURL
	}
	return &out
}

// Like 点赞关系(评论ID+用户ID)
type Like struct {
	CommentID string
	UserID    string
	CreatedAt int64
}

// Action 点赞切换结果
type Action string

const (
	ActionLike   Action = "like"
	ActionUnlike Action = "unlike"
)

// Thread 顶级评论及其回复
type Thread struct {
	*Comment
	Replies []*Comment
}

// BuildTree 构建一层回复树
//
// 1. 回复挂到其最顶层祖先下，多级回复被拍平
// 2. 父评论不存在的回复按顶级评论处理
// 3. 顶级评论按点赞数降序、创建时间降序；回复按创建时间升序
func BuildTree(comments []*Comment) []*Thread {
	byID := make(map[string]*Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	root := func(c *Comment) *Comment {
		seen := map[string]bool{c.ID: true}
		cur := c
		for cur.ParentID != "" {
			parent, ok := byID[cur.ParentID]
			if !ok {
				break
			}
			if seen[parent.ID] {
				// 父子成环的数据按顶级评论处理
				return c
			}
			seen[parent.ID] = true
			cur = parent
		}
		return cur
	}

	threads := make(map[string]*Thread)
	var order []*Thread
	for _, c := range comments {
		if r := root(c); r == c {
			th := &Thread{Comment: c}
			threads[c.ID] = th
			order = append(order, th)
		}
	}
	for _, c := range comments {
		r := root(c)
		if r == c {
			continue
		}
		threads[r.ID].Replies = append(threads[r.ID].Replies, c)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Likes != order[j].Likes {
			return order[i].Likes > order[j].Likes
		}
		return order[i].CreatedAt > order[j].CreatedAt
	})
	for _, th := range order {
		sort.SliceStable(th.Replies, func(i, j int) bool {
			return th.Replies[i].CreatedAt < th.Replies[j].CreatedAt
		})
	}
	return order
}
