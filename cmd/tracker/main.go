package main

import (
	"flag"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"sixcardgolf/internal/config"
	"sixcardgolf/internal/mux"
	"sixcardgolf/pkg/tracker"
	"sixcardgolf/pkg/wire"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10

// Version is the tracker version
var Version = "v0.0.0-dev"

var udpPort = flag.Int("port", 1500, "the UDP directory port")
var httpAddr = flag.String("http", ":5000", "the HTTP status API listen address")

func main() {
	flag.Parse()
	setupLogger()

	conn, err := wire.Listen(*udpPort)
	if err != nil {
		logrus.WithError(err).WithField("port", *udpPort).Fatal("could not bind the directory port")
	}

	registry := tracker.New()
	go tracker.NewServer(registry, conn).Serve()
	logrus.WithField("port", conn.LocalPort()).Info("directory service listening")

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         *httpAddr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, registry))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	logrus.WithField("addr", srv.Addr).Info("status API listening")
	logrus.Fatal(srv.ListenAndServe())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
