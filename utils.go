package main

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"

	"greensketch/internal/dom"
	"greensketch/internal/scene"
	"greensketch/internal/sketch"
)

const canvasPath = "/canvas.png"

// blitScript copies the served pixels into the mounted canvas element.
const blitScript = `
	const canvas = document.querySelector("#%s canvas");
	const img = new Image();
	img.onload = () => canvas.getContext("2d").drawImage(img, 0, 0);
	img.src = "` + canvasPath + `";
`

// rendering is the output of one sketch run: the host page with the
// mounted canvas and the canvas pixels as PNG.
type rendering struct {
	page []byte
	img  []byte
}

func renderSketch(ctx context.Context, containerID string) (*rendering, error) {
	doc, container := dom.NewDocument(containerID)

	p := sketch.New()
	err := p.Run(ctx, func(p *sketch.Sketch) {
		scene.Setup(p, container)
	}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "run sketch")
	}

	img := &bytes.Buffer{}
	if err := p.EncodePNG(img); err != nil {
		return nil, err
	}

	script := dom.NewElement("script")
	script.AppendText(fmt.Sprintf(blitScript, containerID))
	doc.Body().AppendChild(script)

	page := &bytes.Buffer{}
	if err := doc.Render(page); err != nil {
		return nil, errors.Wrap(err, "render page")
	}

	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	minified, err := m.Bytes("text/html", page.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "minify page")
	}

	return &rendering{page: minified, img: img.Bytes()}, nil
}

// serve runs h on ln until ctx is done. A server closed by ctx is not an
// error.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h}
	closed := make(chan error, 1)
	go func() {
		<-ctx.Done()
		closed <- srv.Close()
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve")
	}
	if err := <-closed; err != nil {
		return errors.Wrap(err, "close server")
	}
	return nil
}

func newHandler(r *rendering) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(r.page)
	})
	mux.HandleFunc(canvasPath, func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(r.img)
	})
	return mux
}
