package inspect

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/moss-engine/moss/framework/container"
	gohttp "github.com/moss-engine/moss/framework/http"
	"github.com/moss-engine/moss/framework/routing"
	"github.com/moss-engine/moss/framework/validation"
)

// Entry describes one registered key.
type Entry struct {
	Key      string `json:"key"`
	Bound    bool   `json:"bound"`
	Resolved bool   `json:"resolved"`
}

// Handler serves the container state. The container must not be modified
// while the handler is serving.
type Handler struct {
	c   *container.Container
	rec *Recorder
}

func NewHandler(c *container.Container, rec *Recorder) *Handler {
	return &Handler{c: c, rec: rec}
}

// Routes mounts:
//
//	GET /container/keys?state=all|resolved|pending
//	GET /container/keys/{key}
//	GET /container/order
func (h *Handler) Routes(r *routing.Router) {
	r.Prefix("/container", func(r *routing.Router) {
		r.Middleware(middleware.NoCache)
		r.Get("/keys", h.keys)
		r.Get("/keys/{key}", h.key)
		r.Get("/order", h.order)
	})
}

// Snapshot lists every registered key with its state.
func (h *Handler) Snapshot() []Entry {
	keys := h.c.Keys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		out = append(out, Entry{
			Key:      k.String(),
			Bound:    h.c.Bound(k),
			Resolved: h.c.Resolved(k),
		})
	}
	return out
}

func (h *Handler) keys(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	state := req.Query("state", "all")
	v := validation.Make(map[string]string{"state": state}, validation.Rules{
		"state": "in:all,resolved,pending",
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	entries := make([]Entry, 0)
	for _, e := range h.Snapshot() {
		switch {
		case state == "resolved" && !e.Resolved:
		case state == "pending" && e.Resolved:
		default:
			entries = append(entries, e)
		}
	}
	res.Success(entries)
}

func (h *Handler) key(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("key")
	res := gohttp.NewResponse(w)

	for _, e := range h.Snapshot() {
		if e.Key == name {
			res.Success(e)
			return
		}
	}
	res.NotFound("no key " + name)
}

func (h *Handler) order(w http.ResponseWriter, _ *http.Request) {
	gohttp.NewResponse(w).Success(h.rec.Order())
}
