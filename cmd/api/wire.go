//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 运行 `wire gen ./cmd/api` 生成wire_gen.go，生成的InitializeApp与app.New组装出相同的对象图。
// Provider分组定义在internal/app，手动组装和Wire共用同一批Provider。

package main

import (
	"github.com/google/wire"

	"github.com/xiebiao/library/internal/app"
	"github.com/xiebiao/library/internal/infrastructure/config"
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序关闭数据库、Redis和消息发布者
func InitializeApp(cfg *config.Config) (*app.App, func(), error) {
	wire.Build(
		app.InfrastructureSet,
		app.RepositorySet,
		app.DomainSet,
		app.ApplicationSet,
		app.InterfaceSet,
		app.NewApp,
	)
	return nil, nil, nil
}
