package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ozdeals/dealpress/app/api"
	"github.com/ozdeals/dealpress/app/archive"
	"github.com/ozdeals/dealpress/app/cfg"
	"github.com/ozdeals/dealpress/app/config"
	"github.com/ozdeals/dealpress/app/deal"
	"github.com/ozdeals/dealpress/app/pipeline"
	"github.com/ozdeals/dealpress/app/post"
	"github.com/ozdeals/dealpress/app/sources"
	"github.com/ozdeals/dealpress/app/telegram"
)

func main() {
	// Local development convenience; absence of a .env file is normal.
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting dealpress", "version", appCfg.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case appCfg.Serve:
		err = runServe(ctx, appCfg)
	case appCfg.PostMenu:
		err = runPostMenu(ctx, appCfg)
	case appCfg.TestPost:
		err = runTestPost(ctx, appCfg)
	default:
		err = runPipeline(ctx, appCfg)
	}

	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runPipeline(ctx context.Context, appCfg *cfg.Cfg) error {
	stores, err := config.Load(appCfg.StoresFile)
	if err != nil {
		return fmt.Errorf("failed to load stores config: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := &sources.Client{HTTP: httpClient, UserAgent: appCfg.UserAgent}

	tg := telegram.NewClient(appCfg.TelegramToken, appCfg.TelegramChatID, httpClient)
	publisher := post.NewPublisher(tg, post.NewResolver(appCfg.AmazonTag, stores.Affiliate.Deeplinks))

	feed := func(ctx context.Context, limit int) ([]deal.Candidate, error) {
		return sources.FetchFeed(ctx, client, limit)
	}

	p := pipeline.New(sources.Registry(client), feed, stores.StaticFallback,
		publisher, openArchive(appCfg.ArchivePath), appCfg)

	return p.Run(ctx)
}

// openArchive opens the publish archive, returning nil when it is
// unavailable. The archive is history, not state: a run without it still
// posts and still dedups through the ledger.
func openArchive(path string) pipeline.Archiver {
	db, err := archive.Open(path)
	if err != nil {
		slog.Warn("Publish archive unavailable, continuing without it", "path", path, "error", err)
		return nil
	}

	version, dirty, err := archive.RunMigrations(db)
	if err != nil {
		slog.Warn("Archive migrations failed, continuing without archive", "error", err)
		return nil
	}
	slog.Info("Publish archive ready", "path", path, "schema_version", version, "dirty", dirty)

	return archive.NewRepository(db)
}

func runServe(ctx context.Context, appCfg *cfg.Cfg) error {
	db, err := archive.Open(appCfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	if _, _, err := archive.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run archive migrations: %w", err)
	}

	handler := api.NewHandler(archive.NewRepository(db), appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting stats API server", "port", appCfg.Port)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down stats API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// channelUsername extracts the @channel name from the configured chat id.
// Hashtag search links only work for public @channels, not numeric ids.
func channelUsername(chatID string) string {
	if strings.HasPrefix(chatID, "@") {
		return strings.TrimPrefix(chatID, "@")
	}
	return ""
}

func hashtagSearchURL(username, hashtag string) string {
	return fmt.Sprintf("https://t.me/%s?q=%s", username, url.QueryEscape("#"+hashtag))
}

func runPostMenu(ctx context.Context, appCfg *cfg.Cfg) error {
	username := channelUsername(appCfg.TelegramChatID)
	if username == "" {
		return fmt.Errorf("TELEGRAM_CHAT_ID must be in @YourChannel format to build menu hashtag search links")
	}

	menuText := "📌 <b>DEALS MENU</b>\n" +
		"Browse Top Deals and store-wise deals 👇\n\n" +
		"🔥 <b>Top Deals Only</b>: best offers (#TopDeals)\n" +
		"🛒 <b>All Posts</b>: full channel feed\n\n" +
		"Tip: Use store buttons to jump to posts tagged for that store."

	buttons := [][]telegram.Button{
		{{Text: "🔥 Top Deals Only", URL: hashtagSearchURL(username, "TopDeals")}},
		{{Text: "🛒 All Deals", URL: "https://t.me/" + username}},

		{{Text: "🛒 Amazon", URL: hashtagSearchURL(username, "AmazonAU")},
			{Text: "🖥️ JB Hi-Fi", URL: hashtagSearchURL(username, "JBHiFi")}},

		{{Text: "🥦 Coles", URL: hashtagSearchURL(username, "Coles")},
			{Text: "🛍️ Woolworths", URL: hashtagSearchURL(username, "Woolworths")}},

		{{Text: "🏠 BIG W", URL: hashtagSearchURL(username, "BigW")},
			{Text: "🧴 Chemist", URL: hashtagSearchURL(username, "ChemistWarehouse")}},

		{{Text: "Amazon Deals Page", URL: "https://www.amazon.com.au/gp/goldbox"}},
		{{Text: "Woolworths Specials", URL: "https://www.woolworths.com.au/shop/browse/specials"}},
		{{Text: "Coles Offers", URL: "https://www.coles.com.au/offers"}},
		{{Text: "JB Hi-Fi Deals", URL: "https://www.jbhifi.com.au/collections/this-weeks-hottest-deals"}},
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	tg := telegram.NewClient(appCfg.TelegramToken, appCfg.TelegramChatID, httpClient)

	msg, err := tg.SendMessage(ctx, menuText, buttons)
	if err != nil {
		return fmt.Errorf("failed to post menu: %w", err)
	}

	if err := tg.PinMessage(ctx, msg.MessageID); err != nil {
		return fmt.Errorf("failed to pin menu: %w", err)
	}

	slog.Info("Menu posted and pinned", "message_id", msg.MessageID)
	return nil
}

func runTestPost(ctx context.Context, appCfg *cfg.Cfg) error {
	channelLink := "https://t.me/"
	if username := channelUsername(appCfg.TelegramChatID); username != "" {
		channelLink += username
	}

	now := decimal.NewFromFloat(19.99)
	was := decimal.NewFromFloat(39.99)
	pct := 50
	demo := deal.Deal{
		Title:       "TEST – Demo Deal Card",
		Store:       "Amazon AU",
		Now:         &now,
		Was:         &was,
		DiscountPct: &pct,
	}

	caption := post.FormatCard(demo, "Test post",
		[]string{"#TopDeals", "#AmazonAU", "#Today", "#Shopping"})

	buttons := [][]telegram.Button{
		{{Text: "👉 Open", URL: "https://www.amazon.com.au/"}},
		{{Text: "🏪 Open Channel", URL: channelLink}},
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	tg := telegram.NewClient(appCfg.TelegramToken, appCfg.TelegramChatID, httpClient)

	if _, err := tg.SendPhoto(ctx, "https://picsum.photos/800/800.jpg", caption, buttons); err != nil {
		return fmt.Errorf("failed to send test post: %w", err)
	}

	slog.Info("Test post sent")
	return nil
}
