package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/jsbrew/internal/assets"
	"github.com/any-hub/jsbrew/internal/config"
	"github.com/any-hub/jsbrew/internal/logging"
	"github.com/any-hub/jsbrew/internal/server"
	"github.com/any-hub/jsbrew/internal/server/routes"
	"github.com/any-hub/jsbrew/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["assets"] = cfg.Assets.Summary()
		fields["compile_cache"] = cfg.Assets.CompileCacheMode()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动顺序：配置 → Pipeline（编译器 + 编译缓存目录）→ Fiber server。
	// Pipeline 在进程内只构建一次，所有请求共享同一份只读选项与缓存目录。
	pipeline, err := assets.Build(cfg.Assets)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化资源管线失败: %v\n", err)
		return 1
	}
	defer closePipeline(pipeline, logger)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["assets"] = cfg.Assets.Summary()
	fields["listen_port"] = cfg.Global.ListenPort
	fields["compile_cache"] = cfg.Assets.CompileCacheMode()
	fields["compiler"] = pipeline.CompileCache().CompilerName()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, pipeline, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("jsbrew", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 JSBREW_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("JSBREW_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, pipeline *assets.Pipeline, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	opts := server.AppOptions{
		Logger:   logger,
		Pipeline: pipeline,
		Register: func(app *fiber.App) {
			routes.RegisterAssetRoutes(app, pipeline)
		},
	}
	if cfg.Assets.StaticFallback {
		opts.StaticRoot = cfg.Assets.Root
	}

	app, err := server.NewApp(opts)
	if err != nil {
		return err
	}

	// 收到 SIGINT/SIGTERM 时优雅关闭，随后由 run 中的 defer 清理编译缓存目录。
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		if _, ok := <-sig; !ok {
			return
		}
		logger.WithField("action", "shutdown").Info("收到退出信号")
		_ = app.Shutdown()
	}()

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}

func closePipeline(pipeline *assets.Pipeline, logger *logrus.Logger) {
	if err := pipeline.Close(); err != nil {
		logger.WithError(err).WithField("action", "shutdown").Warn("清理编译缓存失败")
	}
}
