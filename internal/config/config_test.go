package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sixcardgolf/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("SCG_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("SCG_TIMEOUT_STEAL", "2s")
	defer clear2()

	a := assert.New(t)
	assert.NoError(t, Load())
	cfg := Instance()
	a.Equal("10.0.0.5:1500", cfg.Tracker)
	a.Equal("debug", cfg.Log.Level)
	a.Equal(time.Second, cfg.Timeout.Directory.D())
	// environment overrides the file
	a.Equal(2*time.Second, cfg.Timeout.Steal.D())

	// ensure that it's only loaded once
	_ = os.Setenv("SCG_TIMEOUT_STEAL", "9s")
	// ensure we aren't using a pointer
	cfg.Tracker = "bad"
	cfg = Instance()
	a.Equal("10.0.0.5:1500", cfg.Tracker)
	a.Equal(2*time.Second, cfg.Timeout.Steal.D())
}

func TestDefaults(t *testing.T) {
	clear1 := util.SetEnv("SCG_CONFIG_FILE", "testdata/missing.yaml")
	defer clear1()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("127.0.0.1:1500", cfg.Tracker)
	a.Equal(5*time.Second, cfg.Timeout.Directory.D())
	a.Equal(10*time.Second, cfg.Timeout.Steal.D())
	a.Equal(30*time.Second, cfg.Timeout.Scores.D())
	a.Equal(30*time.Second, cfg.Timeout.HoleOver.D())
	a.Equal(10*time.Second, cfg.DisplayPause.D())
}
