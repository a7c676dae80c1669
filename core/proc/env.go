package proc

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// NewBindings creates an empty variable-bindings map.
func NewBindings() *Bindings {
	return &Bindings{}
}

// NewBindingsFromEnviron creates bindings seeded from an environment list
// in the KEY=VALUE form returned by os.Environ. Entries without '=' bind
// the whole entry to the empty string.
func NewBindingsFromEnviron(environ []string) *Bindings {
	out := &Bindings{}
	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Setenv(key, value)
	}
	return out
}

// Bindings is the session's variable table: an in-memory map from
// variable name to string value. The zero value is ready to use.
type Bindings struct {
	rw  sync.RWMutex
	env map[string]string
}

// Setenv binds key to value.
func (b *Bindings) Setenv(key, value string) {
	b.rw.Lock()
	defer b.rw.Unlock()
	if b.env == nil {
		b.env = make(map[string]string)
	}
	b.env[key] = value
}

// Unsetenv removes the binding for key.
func (b *Bindings) Unsetenv(key string) {
	b.rw.Lock()
	defer b.rw.Unlock()
	if b.env != nil {
		delete(b.env, key)
	}
}

// LookupEnv returns the value bound to key and whether it was bound.
func (b *Bindings) LookupEnv(key string) (string, bool) {
	b.rw.RLock()
	defer b.rw.RUnlock()
	val, ok := b.env[key]
	return val, ok
}

// Getenv returns the value bound to key, or the empty string.
func (b *Bindings) Getenv(key string) string {
	val, _ := b.LookupEnv(key)
	return val
}

// Environ returns the bindings as a sorted KEY=VALUE list suitable for
// exporting to a child process.
func (b *Bindings) Environ() []string {
	b.rw.RLock()
	defer b.rw.RUnlock()

	env := make([]string, 0, len(b.env))
	for k, v := range b.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}
