package main

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/pkg/logger"
)

// options 全局参数，覆盖配置文件里的数据库设置
type options struct {
	dbDriver   string
	sqlitePath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "图书馆管理命令行工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dbDriver, "db-driver", "", "数据库驱动（mysql|sqlite），默认取配置文件")
	root.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite文件路径")

	root.AddCommand(
		newCreateAdminCmd(opts),
		newImportBooksCmd(opts),
		newExpireReservationsCmd(opts),
		newRecountLikesCmd(opts),
	)
	return root
}

// env 命令运行环境
// 命令行工具直接访问数据库，不经过Redis缓存
type env struct {
	cfg *config.Config
	db  *gorm.DB
}

func openEnv(opts *options) (*env, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if opts.dbDriver != "" {
		cfg.Database.Driver = opts.dbDriver
	}
	if opts.sqlitePath != "" {
		cfg.Database.SQLitePath = opts.sqlitePath
	}

	db, err := database.Open(cfg.Database, false)
	if err != nil {
		return nil, nil, err
	}
	return &env{cfg: cfg, db: db}, func() { _ = database.Close(db) }, nil
}
