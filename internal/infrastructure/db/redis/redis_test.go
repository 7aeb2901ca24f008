package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	opts := Config{Addr: "cache:6379", DB: 2, Timeout: 750 * time.Millisecond}.options()
	if opts.Addr != "cache:6379" || opts.DB != 2 {
		t.Fatalf("unexpected target: %s/%d", opts.Addr, opts.DB)
	}
	if opts.DialTimeout != 750*time.Millisecond || opts.ReadTimeout != 750*time.Millisecond || opts.WriteTimeout != 750*time.Millisecond {
		t.Errorf("timeout not applied: dial=%v read=%v write=%v", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
}

func TestConfig_OptionsDefaultTimeout(t *testing.T) {
	opts := Config{Addr: "cache:6379"}.options()
	if opts.DialTimeout != defaultTimeout || opts.ReadTimeout != defaultTimeout {
		t.Errorf("expected the %v default, got dial=%v read=%v", defaultTimeout, opts.DialTimeout, opts.ReadTimeout)
	}
}

func TestConnect_UnreachableFailsWithinTimeout(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if err == nil {
		t.Fatalf("expected a ping failure")
	}
	if !strings.Contains(err.Error(), "token store ping 127.0.0.1:1") {
		t.Errorf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("ping outlived its timeout: %v", elapsed)
	}
}
