package db

import (
	"testing"
	"testing/fstest"

	"github.com/0xsj/overwatch-pkg/log"
)

func TestRun_RejectsUnknownCommand(t *testing.T) {
	err := Run(log.NewPretty(log.DefaultConfig()), "postgres://localhost/none", fstest.MapFS{}, ".", "sideways", nil)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRun_ForceRequiresVersion(t *testing.T) {
	err := Run(log.NewPretty(log.DefaultConfig()), "postgres://localhost/none", fstest.MapFS{}, ".", CommandForce, nil)
	if err == nil {
		t.Fatal("expected error for force without version")
	}
}
