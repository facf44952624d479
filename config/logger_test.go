package config

import "testing"

func TestBuildLoggerAcceptsKnownLevelsAndEncodings(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.Encoding = "json"
	log, err := cfg.BuildLogger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log == nil {
		t.Fatal("expected a non-nil logger")
	}
}

func TestBuildLoggerRejectsUnknownLevel(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "not-a-level"
	if _, err := cfg.BuildLogger(); err == nil {
		t.Fatal("expected an error for an invalid logging level")
	}
}
