package stacktrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 7 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/bazaar/internal/pkg/goroutine.(*Manager).Go.func1()
	/src/bazaar/internal/pkg/goroutine/goroutine.go:61 +0x7f
github.com/shandysiswandi/bazaar/internal/account/usecase.(*Usecase).Register()
	/src/bazaar/internal/account/usecase/register.go:40 +0x1a
`)

	assert.Equal(t, []string{
		"internal/pkg/goroutine/goroutine.go:61",
		"internal/account/usecase/register.go:40",
	}, InternalPaths(stack))

	assert.Empty(t, InternalPaths([]byte("no frames here")))
}
