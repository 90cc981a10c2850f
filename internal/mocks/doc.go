// Package mocks 外部协作方的gomock实现
//
//go:generate mockgen -destination=mail_sender.go -package=mocks github.com/xiebiao/library/internal/infrastructure/mail Sender
//go:generate mockgen -destination=publisher.go -package=mocks github.com/xiebiao/library/internal/infrastructure/messaging Publisher
//go:generate mockgen -destination=presigner.go -package=mocks github.com/xiebiao/library/internal/infrastructure/storage Presigner
//go:generate mockgen -destination=chat_model.go -package=mocks github.com/xiebiao/library/internal/infrastructure/llm ChatModel
package mocks
