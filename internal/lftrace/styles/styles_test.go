package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lftrace/internal/trace"
)

func TestKind(t *testing.T) {
	for _, k := range []trace.Kind{trace.KindReactor, trace.KindTrigger, trace.KindUser, trace.Kind(7)} {
		assert.Contains(t, Kind(k), k.String())
	}
}
