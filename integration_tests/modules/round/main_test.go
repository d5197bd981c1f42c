//go:build integration

package roundintegration

import (
	"log"
	"os"
	"testing"

	"github.com/Black-And-White-Club/golf-bot/integration_tests/testutils"
)

var testEnv *testutils.TestEnvironment

func TestMain(m *testing.M) {
	env, err := testutils.NewTestEnvironment(&testing.T{})
	if err != nil {
		log.Fatalf("failed to set up test environment: %v", err)
	}
	testEnv = env

	code := m.Run()
	env.Cleanup()
	os.Exit(code)
}

func setup(t *testing.T) *testutils.TestEnvironment {
	t.Helper()
	testEnv.T = t
	testEnv.Reset()
	return testEnv
}
