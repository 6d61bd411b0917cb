// Package interactions exposes one handler per server resource family. Handlers
// are stateless and safe to share.
package interactions

import (
	"github.com/kerbaras/mangadesk/pkg/server"
)

type baseHandler struct {
	client *server.Client
}

// Bool returns a pointer to v, for optional update fields.
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer to v, for optional update fields.
func Int(v int) *int {
	return &v
}
