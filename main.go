package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"

	"exitpass/accounts"
	"exitpass/auth"
	"exitpass/config"
	"exitpass/db"
	"exitpass/handlers"
	"exitpass/i18n"
	"exitpass/logger"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}
	logger.Init(config.AppConfig.LogLevel, config.AppConfig.Environment)

	if err := i18n.LoadTranslations("i18n"); err != nil {
		logger.Log.Fatalf("Error loading translations: %v", err)
	}

	if err := db.InitDB(config.AppConfig.DBDriver, config.AppConfig.DBDSN); err != nil {
		logger.Log.Fatalf("Error opening database: %v", err)
	}
	defer db.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := accounts.Bootstrap(ctx); err != nil {
		cancel()
		logger.Log.Fatalf("Error seeding default accounts: %v", err)
	}
	cancel()

	auth.InitStore()

	mux := http.NewServeMux()
	handlers.RegisterHandlers(mux)

	csrfKey := sha256.Sum256([]byte(config.AppConfig.SessionKey + "csrf"))
	csrfMiddleware := csrf.Protect(
		csrfKey[:],
		csrf.Secure(config.AppConfig.SecureCookies),
		csrf.Path("/"),
	)

	var handler http.Handler = csrfMiddleware(mux)
	if !config.AppConfig.SecureCookies {
		handler = handlers.PlaintextHTTPMiddleware(handler)
	}
	handler = handlers.LoggingMiddleware(handlers.CORSMiddleware(handlers.SecurityHeadersMiddleware(handler)))

	addr := fmt.Sprintf("%s:%d", config.AppConfig.ListenIP, config.AppConfig.ListenPort)
	logger.Log.WithFields(logrus.Fields{
		"addr":   addr,
		"app":    config.AppConfig.AppName,
		"driver": config.AppConfig.DBDriver,
	}).Info("Server starting")

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Fatal(err)
	}
}
