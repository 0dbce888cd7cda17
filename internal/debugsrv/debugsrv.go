// Package debugsrv mounts a field-diagnostics HTTP endpoint — runtime
// charts and pprof profiles — on the same gvisor-backed network stack the
// Barrier client dials out on, following example/web_server.go's
// setupStaticWebAssets/startWebServer pattern but serving diagnostics
// instead of static assets.
package debugsrv

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/pprof"

	_ "github.com/mkevac/debugcharts"
)

// Listener is the subset of net.Listener a *gonet.Listener satisfies;
// narrowed here so this package does not need to import gvisor itself.
type Listener interface {
	net.Listener
}

// Server serves /debug/charts (wired in by debugcharts' own init via blank
// import, registering onto http.DefaultServeMux) and /debug/pprof.
type Server struct {
	mux *http.ServeMux
}

// New builds the debug mux. debugcharts registers its handler on
// http.DefaultServeMux as a side effect of being imported, so its charts
// are mounted there rather than on mux; pprof's handlers are mounted
// explicitly since this mux is not DefaultServeMux.
func New() *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/charts/", http.DefaultServeMux)
	mux.HandleFunc("/", index)

	return &Server{mux: mux}
}

func index(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "<html><body><ul>")
	fmt.Fprintln(w, `<li><a href="/debug/charts">/debug/charts</a></li>`)
	fmt.Fprintln(w, `<li><a href="/debug/pprof">/debug/pprof</a></li>`)
	fmt.Fprintln(w, "</ul></body></html>")
}

// Serve blocks, serving HTTP over ln until it closes. Callers run this in
// its own goroutine; a failed debug server is a diagnostics loss, not a
// reason to bring the whole client down.
func (s *Server) Serve(ln Listener) {
	srv := &http.Server{Handler: s.mux}
	if err := srv.Serve(ln); err != nil {
		log.Printf("debugsrv: server stopped: %v", err)
	}
}
