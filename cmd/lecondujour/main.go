package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lecondujour/internal/ai"
	"lecondujour/internal/handler"
	appI18n "lecondujour/internal/i18n"
	"lecondujour/internal/model"
	"lecondujour/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lecondujour",
		Short: "Daily AI-generated lessons and quizzes for students",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `lecondujour --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP lesson server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "lecondujour.db", "SQLite database path")
	f.String("ai-provider", "gemini", "AI provider (gemini, openai)")
	f.String("gemini-key", "", "Gemini API key (or set LECONDUJOUR_GEMINI_KEY)")
	f.String("gemini-fast-model", "", "Gemini model for lesson generation")
	f.String("gemini-quality-model", "", "Gemini model for remediation and appreciation")
	f.String("llm-url", "", "OpenAI-compatible API base URL (openai provider)")
	f.String("llm-key", "", "API key for the OpenAI-compatible provider")
	f.String("llm-model", "gpt-4o-mini", "Model name for the OpenAI-compatible provider")
	f.Duration("ai-timeout", 0, "Per-call AI timeout (0 = default 90s)")
	f.StringP("lang", "l", "fr", "UI language (fr, en)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export lesson history as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "lecondujour.db", "SQLite database path")
	f.String("student", "", "Limit export to one student (default: all)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("LECONDUJOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("lecondujour")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/lecondujour")
	v.AddConfigPath("/etc/lecondujour")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gen, err := ai.NewGenerator(context.Background(), ai.Config{
		Provider:           v.GetString("ai-provider"),
		GeminiAPIKey:       v.GetString("gemini-key"),
		GeminiFastModel:    v.GetString("gemini-fast-model"),
		GeminiQualityModel: v.GetString("gemini-quality-model"),
		OpenAIBaseURL:      v.GetString("llm-url"),
		OpenAIAPIKey:       v.GetString("llm-key"),
		OpenAIModel:        v.GetString("llm-model"),
	})
	if err != nil {
		return fmt.Errorf("create AI client: %w", err)
	}
	aiClient := ai.NewClient(gen, v.GetDuration("ai-timeout"))

	h, err := handler.New(db, aiClient, model.AppConfig{
		Lang:          lang,
		SecureCookies: v.GetBool("secure-cookies"),
	})
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"provider", v.GetString("ai-provider"),
		"lang", lang,
		"db", v.GetString("db"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var results []model.LessonResult
	if student := v.GetString("student"); student != "" {
		results, err = db.GetStudentHistory(student)
	} else {
		results, err = db.AllLessonResults()
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	var out io.Writer = os.Stdout
	if path := v.GetString("output"); path != "" && path != "-" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
