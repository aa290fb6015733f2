// corrdemo 是演示 corrkit 关联中间件的最小 HTTP 服务。
//
// 用法:
//
//	corrdemo [选项]
//
// 选项:
//
//	-a, --addr     监听地址 (默认: :8080)
//	-c, --config   关联配置文件路径 (yaml/json，可选)
//	-s, --scheme   关联协议，覆盖配置文件 (W3C | Hierarchical)
//	-l, --level    日志级别 (默认: info)
//
// 路由:
//
//	GET /echo      以 JSON 返回当前请求的关联记录
//	GET /healthz   健康检查
//
// 退出码:
//
//	0: 正常退出（收到 SIGINT/SIGTERM 后完成优雅关闭）
//	1: 启动失败或服务异常退出
//
// 示例:
//
//	corrdemo                                  # W3C 协议，默认配置
//	corrdemo -s Hierarchical                  # 层级协议
//	corrdemo -c correlation.yaml -a :9090     # 从配置文件加载
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/omeyang/corrkit/pkg/context/xctx"
	"github.com/omeyang/corrkit/pkg/correlation/xcorr"
	"github.com/omeyang/corrkit/pkg/observability/xlog"
)

func main() {
	cmd := &cli.Command{
		Name:  "corrdemo",
		Usage: "demo HTTP server for corrkit request correlation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Value:   ":8080",
				Usage:   "listen address",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "correlation config file (yaml/json)",
			},
			&cli.StringFlag{
				Name:    "scheme",
				Aliases: []string{"s"},
				Usage:   "correlation scheme, overrides config file (W3C | Hierarchical)",
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "log level (debug | info | warn | error)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "corrdemo: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	level, err := xlog.ParseLevel(cmd.String("level"))
	if err != nil {
		return err
	}
	logger, cleanup, err := xlog.New().SetLevel(level).Build()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()
	xlog.SetDefault(logger)

	correlator, err := buildCorrelator(cmd)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/echo", echoHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cmd.String("addr"),
		Handler:           xcorr.HTTPMiddleware(correlator)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(ctx, "corrdemo: listening",
			xlog.Component("corrdemo"))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildCorrelator 按 CLI 参数构造关联引擎。
// --config 提供文件配置，--scheme 优先级更高。
func buildCorrelator(cmd *cli.Command) (*xcorr.Correlator, error) {
	opts := xcorr.DefaultOptions()
	if path := cmd.String("config"); path != "" {
		loaded, err := xcorr.LoadOptions(path)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}
	if raw := cmd.String("scheme"); raw != "" {
		scheme, err := xcorr.ParseScheme(raw)
		if err != nil {
			return nil, err
		}
		opts.Scheme = scheme
	}
	return xcorr.New(xcorr.WithOptions(opts))
}

// echoHandler 以 JSON 返回当前请求的关联记录。
func echoHandler(w http.ResponseWriter, r *http.Request) {
	info, ok := xctx.CorrelationFrom(r.Context())
	if !ok {
		http.Error(w, "no correlation on request", http.StatusInternalServerError)
		return
	}

	xlog.Info(r.Context(), "corrdemo: echoing correlation")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"operation_id":        info.OperationID,
		"transaction_id":      info.TransactionID,
		"operation_parent_id": info.OperationParentID,
	})
}
