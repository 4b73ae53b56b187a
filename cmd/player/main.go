package main

import (
	"flag"
	"os"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"sixcardgolf/internal/config"
	"sixcardgolf/internal/util"
	"sixcardgolf/pkg/peer"
	"sixcardgolf/pkg/wire"
)

var trackerFlag = flag.String("tracker", "", "directory service address (overrides the configuration)")
var nameFlag = flag.String("name", "", "username to register (default: a random one)")
var logFile = flag.String("log", "player.log", "protocol log file")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	trackerAddr := cfg.Tracker
	if *trackerFlag != "" {
		trackerAddr = *trackerFlag
	}

	username := *nameFlag
	if username == "" {
		username = util.RandomUsername()
	}

	dirConn, err := wire.Listen(0)
	if err != nil {
		logrus.WithError(err).Fatal("could not bind the directory socket")
	}

	gameConn, err := wire.Listen(0)
	if err != nil {
		logrus.WithError(err).Fatal("could not bind the gameplay socket")
	}

	p := peer.New(peer.Options{
		Username:      username,
		TrackerAddr:   trackerAddr,
		DirectoryConn: dirConn,
		GameConn:      gameConn,
		Timeouts: peer.Timeouts{
			Directory:    cfg.Timeout.Directory.D(),
			Steal:        cfg.Timeout.Steal.D(),
			Scores:       cfg.Timeout.Scores.D(),
			HoleOver:     cfg.Timeout.HoleOver.D(),
			DisplayPause: cfg.DisplayPause.D(),
		},
	})
	p.Start()
	defer p.Close()

	newUI(p, cfg).run()
}

// setupLogger sends the protocol logs to a file so they don't tear up
// the interactive terminal
func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	file, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		pterm.Warning.Printfln("could not open %s; logging to stderr", *logFile)
		return
	}

	logrus.SetOutput(file)
}
