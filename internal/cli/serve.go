package cli

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/phylotree/pkg/render"
)

// serveCommand creates the serve command: a local preview server for
// an output directory that reloads the browser when artifacts change.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Preview rendered artifacts in the browser with live reload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}
			return c.serve(cmd, abs, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8417", "listen address")
	return cmd
}

func (c *CLI) serve(cmd *cobra.Command, dir, addr string) error {
	ctx := cmd.Context()

	// version increments on every filesystem change; the page polls it
	// and reloads itself when it moves.
	var version atomic.Int64

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				version.Add(1)
				c.Logger.Debug("artifact changed", "path", ev.Name, "op", ev.Op)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.Logger.Warn("watch error", "err", err)
			}
		}
	}()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		c.serveIndex(w, dir)
	})
	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, "%d", version.Load())
	})
	r.Get("/files/{name}", func(w http.ResponseWriter, req *http.Request) {
		c.serveFile(w, req, dir, chi.URLParam(req, "name"))
	})

	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	printInfo("Serving %s at http://%s", dir, addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>phylotree preview</title>
<style>
  body { font-family: monospace; background: #fafafa; margin: 2em; }
  figure { display: inline-block; margin: 1em; }
  img { max-width: 460px; border: 1px solid #ccc; background: white; }
  figcaption { text-align: center; color: #555; }
</style></head>
<body>
<h1>phylotree preview</h1>
{{range .}}<figure><img src="/files/{{.}}"><figcaption>{{.}}</figcaption></figure>
{{else}}<p>No artifacts found. Run plot or build first.</p>{{end}}
<script>
let v = null;
setInterval(async () => {
  const now = await (await fetch("/version")).text();
  if (v !== null && v !== now) location.reload();
  v = now;
}, 1000);
</script>
</body></html>
`))

func (c *CLI) serveIndex(w http.ResponseWriter, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".svg", ".png", ".dot":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, names); err != nil {
		c.Logger.Warn("render index", "err", err)
	}
}

// serveFile serves an artifact. DOT files are rendered to SVG on the
// fly so the browser can display them.
func (c *CLI) serveFile(w http.ResponseWriter, req *http.Request, dir, name string) {
	if name != filepath.Base(name) {
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	}
	path := filepath.Join(dir, name)

	if strings.EqualFold(filepath.Ext(name), ".dot") {
		dot, err := os.ReadFile(path)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		svg, err := render.GraphvizSVG(req.Context(), string(dot))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
		return
	}

	http.ServeFile(w, req, path)
}
