// Package inspect exposes a read-only view of a container over HTTP.
package inspect

import (
	"time"

	"github.com/moss-engine/moss/framework/container"
)

// Resolution records the first resolution of a key.
type Resolution struct {
	Index int       `json:"index"`
	Key   string    `json:"key"`
	At    time.Time `json:"at"`
}

// Recorder keeps the order in which a container resolves its keys.
// Dependencies are recorded before their dependents.
type Recorder struct {
	order []Resolution
	now   func() time.Time
}

// NewRecorder starts recording resolutions of c.
func NewRecorder(c *container.Container) *Recorder {
	r := &Recorder{now: time.Now}
	c.AfterResolving(func(key container.Key, _ any) {
		r.order = append(r.order, Resolution{
			Index: len(r.order),
			Key:   key.String(),
			At:    r.now(),
		})
	})
	return r
}

// Order returns the recorded resolutions, oldest first.
func (r *Recorder) Order() []Resolution {
	return append([]Resolution{}, r.order...)
}
