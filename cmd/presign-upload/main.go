package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/tendant/presign-service/pkg/presign"
	"github.com/tendant/presign-service/pkg/presign/client"
)

func main() {
	server := flag.String("server", "http://localhost:1998", "Presign server base URL")
	key := flag.String("key", "", "Object key to upload to")
	filePath := flag.String("file", "", "File to upload")
	expire := flag.Int("expire", 3600, "URL lifetime in seconds")
	forceDownload := flag.Bool("force-download", false, "Make the returned get-url download as an attachment")
	maxRequests := flag.Int64("max-requests", 0, "Maximum number of downloads through the get-url (0 = unlimited)")
	retries := flag.Int("retries", 3, "Upload attempts")
	verbose := flag.Bool("v", false, "Log upload progress")

	flag.Parse()

	if *key == "" || *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: presign-upload -key <object key> -file <path> [-server URL]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, *server, *key, *filePath, *expire, *forceDownload, *maxRequests, *retries, *verbose); err != nil {
		slog.Error("Upload failed", "key", *key, "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, server, key, filePath string, expire int, forceDownload bool, maxRequests int64, retries int, verbose bool) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() <= 0 || info.Size() > presign.MaxContentLength {
		return fmt.Errorf("file size %d outside (0, %d]", info.Size(), presign.MaxContentLength)
	}

	opts := []client.Option{client.WithRetry(retries, time.Second)}
	if verbose {
		opts = append(opts, client.WithProgress(func(n int64) {
			slog.Info("Uploading", "bytes", n, "total", info.Size())
		}))
	}
	c := client.New(server, opts...)

	pair, err := c.PresignedURLs(ctx, presign.PresignRequest{
		Key:           key,
		ContentLength: info.Size(),
		Expires:       time.Duration(expire) * time.Second,
		ForceDownload: forceDownload,
		MaxRequests:   maxRequests,
	})
	if err != nil {
		return err
	}

	if err := c.Upload(ctx, pair.PutURL, file, info.Size()); err != nil {
		return err
	}

	slog.Info("Upload complete", "key", key, "bytes", info.Size())
	fmt.Println(pair.GetURL)
	return nil
}
