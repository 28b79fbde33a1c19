package export

import (
	"os"
	"testing"

	"github.com/vanderheijden86/stitchwork/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.SetEnabled(false)
	os.Exit(m.Run())
}
