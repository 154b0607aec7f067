package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/ytget/yt-downloader-api/internal/config"
	"github.com/ytget/yt-downloader-api/internal/download"
	"github.com/ytget/yt-downloader-api/internal/engine"
	"github.com/ytget/yt-downloader-api/internal/httpapi"
	"github.com/ytget/yt-downloader-api/internal/metadata"
	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/mux"
	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	appName         = "yt-downloader-api"
	shutdownTimeout = 15 * time.Second
	readHeaderLimit = 10 * time.Second
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "path to a YAML config file",
		EnvVars: []string{config.EnvConfigFile},
	}
	qualityFlag = &cli.StringFlag{
		Name:    "quality",
		Aliases: []string{"q"},
		Value:   model.QualityBest.String(),
		Usage:   "quality label such as 720p, or best/worst",
	}
)

func main() {
	_ = godotenv.Load(config.EnvFile)

	app := cli.App{
		Name:    appName,
		Version: version,
		Usage:   "video info and download API backed by yt-dlp",
		Flags:   []cli.Flag{configFlag},
		Commands: []*cli.Command{{
			Name:   "serve",
			Usage:  "run the HTTP API",
			Action: runServe,
		}, {
			Name:      "info",
			Usage:     "print video info as JSON",
			ArgsUsage: "<url>",
			Action:    runInfo,
		}, {
			Name:      "download",
			Usage:     "download a video and print the file path",
			ArgsUsage: "<url>",
			Flags:     []cli.Flag{qualityFlag},
			Action:    runDownload,
		}},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// pipeline holds the wired components shared by every command
type pipeline struct {
	settings *config.Settings
	resolver *metadata.Resolver
	service  *download.Service
	logFile  io.Closer
}

func (rt *pipeline) Close() {
	rt.logFile.Close()
}

func setup(c *cli.Context, console io.Writer) (*pipeline, error) {
	settings, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return nil, err
	}
	logFile := config.SetupLogging(console, settings.LogFile)

	dir, err := settings.EnsureDownloadDir()
	if err != nil {
		logFile.Close()
		return nil, err
	}

	tools, err := engine.ResolveTools(c.Context, settings.YTDLPPath, settings.FFmpegPath, settings.AutoInstall)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	log.Printf("[init] yt-dlp=%s ffmpeg=%s downloads=%s", tools.YTDLP, tools.FFmpeg, dir)

	yt := engine.NewYTDLP(tools.YTDLP, tools.FFmpeg)
	yt.SetTimeouts(settings.ExtractTimeout, settings.DownloadTimeout)

	resolver := metadata.NewResolver(yt)
	service := download.NewService(dir, resolver, yt, mux.NewFFmpegMerger(tools.FFmpeg))
	service.SetDirectFormat(settings.DirectFormat)

	return &pipeline{
		settings: settings,
		resolver: resolver,
		service:  service,
		logFile:  logFile,
	}, nil
}

func runServe(c *cli.Context) error {
	rt, err := setup(c, os.Stdout)
	if err != nil {
		return err
	}
	defer rt.Close()

	router := http.NewServeMux()
	httpapi.NewHandler(rt.resolver, rt.service, rt.settings.ASCIIFilenames).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              rt.settings.Addr,
		Handler:           httpapi.Wrap(router),
		ErrorLog:          log.New(log.Writer(), "[http] ", 0),
		ReadHeaderTimeout: readHeaderLimit,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("[boot] listening on %s", rt.settings.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-c.Done():
	}

	log.Printf("[boot] shutdown requested")
	shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("[boot] shutdown complete")
	return nil
}

func runInfo(c *cli.Context) error {
	url, err := urlArg(c)
	if err != nil {
		return err
	}
	rt, err := setup(c, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	res, err := rt.resolver.Inspect(c.Context, url)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(httpapi.NewVideoInfoResponse(res))
}

func runDownload(c *cli.Context) error {
	url, err := urlArg(c)
	if err != nil {
		return err
	}
	rt, err := setup(c, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.service.Download(c.Context, url, c.String(qualityFlag.Name))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// The merged file is kept, only the intermediates go
	platform.RemoveFiles(result.TempFiles...)
	fmt.Println(result.FilePath)
	return nil
}

func urlArg(c *cli.Context) (string, error) {
	url := strings.TrimSpace(c.Args().First())
	if url == "" {
		return "", cli.Exit("missing <url> argument", 2)
	}
	if !platform.IsValidURL(url) {
		return "", cli.Exit(httpapi.MsgInvalidURL, 2)
	}
	return url, nil
}
