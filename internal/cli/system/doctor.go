package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/keyring"
)

const pingTimeout = 5 * time.Second

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	report := func(name string, err error, warn bool) bool {
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", name)
			return true
		case warn:
			fmt.Printf("⚠ %s: WARNING\n", name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
		return false
	}
	skip := func(name, reason string) {
		fmt.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	// Check 1: config
	configOK := report("Configuration", ctx.Config.Validate(), false)

	// Check 2: store reachable
	storeOK := report("Store reachable", checkStoreReachable(ctx), false)

	// Check 3: schema version
	if storeOK {
		report("Schema version", checkSchemaVersion(ctx), false)
	} else {
		skip("Schema version", "store not reachable")
	}

	// Check 4: keyring
	keyringOK := report("OS keyring", checkKeyring(), true)

	// Check 5: session
	if storeOK && keyringOK {
		detail, err := checkSession(ctx)
		if report("Session", err, true) {
			fmt.Printf("   %s\n", detail)
		}
	} else {
		skip("Session", "store or keyring not available")
	}

	// Check 6: backend reachable
	if configOK {
		report("Backend reachable", checkBackend(ctx), false)
	} else {
		skip("Backend reachable", "configuration invalid")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("schema version %d is newer than this binary supports (%d), upgrade salesops", current, latest)
	case current < latest:
		return fmt.Errorf("schema version %d is behind %d, run 'salesops migrate'", current, latest)
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkSession(ctx *cli.Context) (string, error) {
	s, err := ctx.Session()
	if err != nil {
		return "", err
	}
	who := fmt.Sprintf("signed in as %s (%s)", s.Profile.Username, s.Profile.Role)
	if s.Token.ExpiresAt.IsZero() {
		return who, nil
	}
	left := s.Token.Remaining(ctx.Now()).Round(time.Minute)
	return fmt.Sprintf("%s, token valid for %s", who, left), nil
}

func checkBackend(ctx *cli.Context) error {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx.Ctx(), pingTimeout)
	defer cancel()
	if err := client.Ping(pctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s did not answer within %s", client.BaseURL(), pingTimeout)
		}
		return err
	}
	return nil
}
