package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	appbook "github.com/xiebiao/library/internal/application/book"
	appcomment "github.com/xiebiao/library/internal/application/comment"
	appreservation "github.com/xiebiao/library/internal/application/reservation"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/messaging"
	"github.com/xiebiao/library/internal/infrastructure/persistence/database"
	"github.com/xiebiao/library/pkg/mq"
)

func newCreateAdminCmd(opts *options) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建管理员账号，账号已存在时提升为管理员",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeEnv, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer closeEnv()

			if email == "" {
				email = e.cfg.Admin.Email
			}
			if password == "" {
				if password, err = readPassword(cmd.OutOrStdout(), "管理员密码: "); err != nil {
					return err
				}
			}

			uc := appuser.NewBootstrapAdminUseCase(user.NewService(database.NewUserRepository(e.db)))
			view, created, err := uc.Execute(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "已创建管理员 %s (%s)\n", view.Email, view.UserID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "管理员已存在 %s (%s)\n", view.Email, view.UserID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "管理员邮箱，默认取配置admin.email")
	cmd.Flags().StringVar(&password, "password", "", "管理员密码，不填时从终端读取")
	return cmd
}

// readPassword 终端输入不回显
func readPassword(out io.Writer, prompt string) (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", errors.New("非交互终端请使用--password")
	}
	fmt.Fprint(out, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// bookRecord 导入文件中的一本书
type bookRecord struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Publisher   string  `json:"publisher"`
	ISBN        string  `json:"isbn"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Cover       string  `json:"cover"`
	Summary     string  `json:"summary"`
	Stock       int     `json:"stock"`
	Status      string  `json:"status"`
}

// importResult 导入统计
type importResult struct {
	Imported int
	Failed   int
}

func newImportBooksCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-books <file.json>",
		Short: "从JSON数组文件批量导入图书",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, closeEnv, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer closeEnv()

			uc := appbook.NewManageBookUseCase(book.NewService(database.NewBookRepository(e.db)))
			res, err := importBooks(cmd.Context(), uc, f, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n导入完成: 成功%d本，失败%d本\n", res.Imported, res.Failed)
			return nil
		},
	}
}

// importBooks 逐本创建，单本失败不影响其他
func importBooks(ctx context.Context, uc *appbook.ManageBookUseCase, r io.Reader, out io.Writer) (*importResult, error) {
	var records []bookRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("解析导入文件失败: %w", err)
	}

	res := &importResult{}
	for i, rec := range records {
		view, err := uc.Create(ctx, appbook.CreateBookRequest{
			Title:       rec.Title,
			Author:      rec.Author,
			Publisher:   rec.Publisher,
			ISBN:        rec.ISBN,
			Price:       rec.Price,
			Category:    rec.Category,
			Description: rec.Description,
			Cover:       rec.Cover,
			Summary:     rec.Summary,
			Stock:       rec.Stock,
			Status:      rec.Status,
		})
		if err != nil {
			fmt.Fprintf(out, "[%d] %s: 失败 - %v\n", i+1, rec.Title, err)
			res.Failed++
			continue
		}
		fmt.Fprintf(out, "[%d] %s: %s\n", i+1, view.Title, view.BookID)
		res.Imported++
	}
	return res, nil
}

func newExpireReservationsCmd(opts *options) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "expire-reservations",
		Short: "立即执行一次过期预约清理",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, closeEnv, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer closeEnv()

			// 进程很快退出，事件只在开启MQ时发布
			var publisher messaging.Publisher
			if e.cfg.MQ.Enabled && !dryRun {
				p, err := mq.NewPublisher(e.cfg.MQ.URL, e.cfg.MQ.Exchange, "topic")
				if err != nil {
					return err
				}
				defer p.Close()
				publisher = p
			}

			repo := database.NewReservationRepository(e.db)
			if dryRun {
				list, err := repo.ListActive(cmd.Context(), e.cfg.Cron.ExpireBatchLimit)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "有效预约%d条（未修改）\n", len(list))
				return nil
			}

			uc := appreservation.NewExpireReservationsUseCase(repo, publisher, e.cfg.Cron.ExpireGraceDays, e.cfg.Cron.ExpireBatchLimit)
			res, err := uc.Execute(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "扫描%d条，过期%d条\n", res.Scanned, res.Expired)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "只统计不修改")
	return cmd
}

func newRecountLikesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recount-likes <comment_id>",
		Short: "按点赞记录重新计算评论的点赞数",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, closeEnv, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer closeEnv()

			uc := appcomment.NewRecountLikesUseCase(database.NewCommentRepository(e.db), database.NewCommentLikeRepository(e.db))
			before, after, err := uc.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "评论%s点赞数: %d → %d\n", args[0], before, after)
			return nil
		},
	}
}
