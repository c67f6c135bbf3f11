package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/vimput/internal/dispatcher/handler"
)

// Router maps the namespace of an action ("put" in "put.after") to the
// handler owning it. Actions the namespace declines, and actions without
// a namespace, go to the fallback.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.Handler
	fallback   handler.Handler
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{namespaces: make(map[string]handler.Handler)}
}

// RegisterNamespace routes every "namespace.*" action to h, replacing any
// previous handler for the namespace.
func (r *Router) RegisterNamespace(namespace string, h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[namespace] = handler.NewNamespaceAdapter(h)
}

// UnregisterNamespace removes a namespace.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// HasNamespace reports whether namespace is registered.
func (r *Router) HasNamespace(namespace string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.namespaces[namespace]
	return ok
}

// Namespaces returns the registered namespaces in order.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.namespaces))
	for ns := range r.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// SetFallback sets the handler for actions no namespace accepts.
func (r *Router) SetFallback(h handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Route returns the handler for actionName, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ns, _, ok := strings.Cut(actionName, "."); ok {
		if h := r.namespaces[ns]; h != nil && h.CanHandle(actionName) {
			return h
		}
	}
	return r.fallback
}

// CanRoute reports whether Route would find a handler.
func (r *Router) CanRoute(actionName string) bool {
	return r.Route(actionName) != nil
}
