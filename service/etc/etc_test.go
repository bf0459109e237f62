package etc

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultConfig(t *testing.T) {
	if Config == nil {
		t.Fatal("config should be loaded on init")
	}
	if Config.Poll.Interval != 500*time.Millisecond {
		t.Errorf("poll interval should be 500ms, but %v", Config.Poll.Interval)
	}
	if Config.Poll.MaxAttempts != 1200 {
		t.Errorf("poll ceiling should be 1200, but %v", Config.Poll.MaxAttempts)
	}
	if _, ok := Config.Judges["default"]; !ok {
		t.Errorf("default judge should be configured")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString("log_level: info\nbogus: 1\n")); err != nil {
		t.Fatal(err)
	}
	var c Configuration
	if err := v.UnmarshalExact(&c, decode); err == nil {
		t.Errorf("unknown keys should be rejected")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("JUDGEWATCH_LISTEN", ":9999")
	t.Setenv("JUDGEWATCH_POLL_INTERVAL", "2s")
	t.Setenv("JUDGEWATCH_DATABASE_REDIS_DB", "3")

	c, err := Load(newViper())
	if err != nil {
		t.Fatal(err)
	}
	if c.Listen != ":9999" {
		t.Errorf("listen should be :9999, but %q", c.Listen)
	}
	if c.Poll.Interval != 2*time.Second {
		t.Errorf("poll interval should be 2s, but %v", c.Poll.Interval)
	}
	if c.Database.Redis.DB != 3 {
		t.Errorf("redis db should be 3, but %d", c.Database.Redis.DB)
	}
	if c.Poll.MaxAttempts != 1200 {
		t.Errorf("poll ceiling should stay 1200, but %d", c.Poll.MaxAttempts)
	}
}
