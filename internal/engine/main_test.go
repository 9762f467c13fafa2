package engine_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures searches never leave worker goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
