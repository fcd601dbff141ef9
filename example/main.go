package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mvannes/basalt/filesystem"
	"github.com/mvannes/basalt/http"
	"github.com/mvannes/basalt/multipart"
	"github.com/mvannes/basalt/schedule"
	"github.com/mvannes/basalt/validation"
)

const name = "github.com/mvannes/basalt/example"

var (
	tracer = otel.Tracer(name)
	meter  = otel.Meter(name)

	uploadCnt   metric.Int64Counter
	uploadBytes metric.Int64Counter
)

func main() {
	if err := run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger, shutdownOTel, err := setupTelemetry(ctx)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	uploadCnt, err = meter.Int64Counter("basalt.uploads",
		metric.WithDescription("The number of decoded upload requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return err
	}
	uploadBytes, err = meter.Int64Counter("basalt.upload.bytes",
		metric.WithDescription("The number of decoded file bytes"),
		metric.WithUnit("By"))
	if err != nil {
		return err
	}

	uploadDir := os.Getenv("BASALT_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "basalt-uploads")
	}

	server := http.NewServer("basalt-example")
	server.Router.Use(http.LogMiddleware(logger), http.MaxBodyMiddleware(128*1024*1024))

	server.Router.Get("/health", func(req *http.Request, res *http.Response) {
		res.WithText("ok")
	})

	server.Router.Post("/upload", func(req *http.Request, res *http.Response) {
		spanCtx, span := tracer.Start(req.Context(), "upload")
		defer span.End()

		form, err := req.MultipartForm(
			multipart.WithOutDir(uploadDir),
			multipart.WithPrefix("upload-"),
			multipart.WithMaxMemory(32*1024),
			multipart.WithMaxFileSize(64*1024*1024),
			multipart.WithLogger(logger),
		)
		if err != nil {
			res.WithStatus(uploadStatus(err)).WithJson(map[string]string{"error": err.Error()})
			return
		}

		violations := validation.ValidateFields(form.Fields, map[string][]string{
			"description": {"max:500"},
		})
		if !violations.IsEmpty() {
			res.WithStatus(nethttp.StatusUnprocessableEntity).WithJson(violations)
			return
		}

		var total int64
		files := make([]map[string]any, 0, len(form.Files))
		for _, file := range form.Files {
			total += file.Size
			files = append(files, map[string]any{
				"filename":     file.Filename,
				"content_type": file.ContentType,
				"size":         file.Size,
				"path":         file.Path,
			})
		}

		span.SetAttributes(attribute.Int("upload.files", len(form.Files)))
		uploadCnt.Add(spanCtx, 1)
		uploadBytes.Add(spanCtx, total)

		logger.InfoContext(spanCtx, "upload decoded", "fields", len(form.Fields), "files", len(form.Files), "bytes", total)

		res.WithJson(map[string]any{
			"fields": form.Fields,
			"files":  files,
		})
	})

	server.Router.Post("/upload/stream", func(req *http.Request, res *http.Response) {
		spanCtx, span := tracer.Start(req.Context(), "upload-stream")
		defer span.End()

		decoder, err := req.Multipart(
			multipart.WithOutDir(uploadDir),
			multipart.WithPrefix("upload-"),
			multipart.WithLogger(logger),
		)
		if err != nil {
			res.WithStatus(uploadStatus(err)).WithJson(map[string]string{"error": err.Error()})
			return
		}

		var parts, fileCount int
		var total int64
		for {
			part, err := decoder.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				res.WithStatus(uploadStatus(err)).WithJson(map[string]string{"error": err.Error()})
				return
			}
			parts++
			if part.IsFile() {
				fileCount++
				total += part.File.Size
			}
		}

		uploadCnt.Add(spanCtx, 1)
		uploadBytes.Add(spanCtx, total)

		res.WithJson(map[string]any{
			"parts": parts,
			"files": fileCount,
			"bytes": total,
		})
	})

	scheduler := schedule.NewScheduler(logger)
	sweeper := schedule.NewJob().
		WithName("spill-sweeper").
		WithInterval(10 * time.Minute).
		WithTimeout(time.Minute).
		AddTask(func(ctx context.Context) error {
			return sweepSpillFiles(uploadDir, time.Hour)
		})
	if err := scheduler.AddJob(sweeper); err != nil {
		return err
	}
	go scheduler.Run(ctx)

	serverErrCh := make(chan error, 1)

	addr := "0.0.0.0:8080"
	go func() {
		logger.Info("listening", "addr", addr)
		serverErrCh <- server.ListenAndServe(addr)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return shutdownOTel(shutdownCtx)
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, multipart.ErrEntityTooLarge):
		return nethttp.StatusRequestEntityTooLarge
	case errors.Is(err, multipart.ErrUnsupportedContentType):
		return nethttp.StatusUnsupportedMediaType
	default:
		return nethttp.StatusBadRequest
	}
}

// sweepSpillFiles deletes spill files that were abandoned by clients that
// stopped pulling a streamed decode, or that a caller never cleaned up.
func sweepSpillFiles(dir string, maxAge time.Duration) error {
	fs := filesystem.Default()

	exists, err := fs.DirectoryExists(dir)
	if err != nil || !exists {
		return err
	}

	infos, err := fs.ListDirectory(dir)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, info := range infos {
		if info.IsDir() || info.ModTime().After(cutoff) {
			continue
		}
		if err := fs.DeleteFile(filepath.Join(dir, info.Name())); err != nil {
			return err
		}
	}
	return nil
}

// setupTelemetry wires the OTLP pipeline when an endpoint is configured
// and falls back to plain console logging otherwise.
func setupTelemetry(ctx context.Context) (*slog.Logger, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo})), noop, nil
	}

	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	otel.SetTracerProvider(tracerProvider)

	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
	)
	otel.SetMeterProvider(meterProvider)

	logExporter, err := otlploggrpc.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
	)
	global.SetLoggerProvider(loggerProvider)

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
			loggerProvider.Shutdown(ctx),
		)
	}
	return otelslog.NewLogger(name), shutdown, nil
}
