package main

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tdewolff/test"
)

func TestRenderSketch(t *testing.T) {
	r, err := renderSketch(context.Background(), "sketch")
	test.Error(t, err)

	page := string(r.page)
	test.That(t, strings.Contains(page, "sketch"), page)
	test.That(t, strings.Contains(page, "defaultCanvas0"), page)
	test.That(t, !strings.Contains(page, "style="), "canvas style size not cleared")
	test.That(t, strings.Contains(page, canvasPath), page)

	img, err := png.Decode(bytes.NewReader(r.img))
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 500)
	test.T(t, img.Bounds().Dy(), 500)
	test.T(t, color.RGBAModel.Convert(img.At(250, 250)), color.Color(color.RGBA{0, 255, 0, 255}))
	test.T(t, color.RGBAModel.Convert(img.At(0, 0)), color.Color(color.RGBA{0, 0, 0, 255}))
}

func TestRenderSketchDeterministic(t *testing.T) {
	a, err := renderSketch(context.Background(), "sketch")
	test.Error(t, err)
	b, err := renderSketch(context.Background(), "sketch")
	test.Error(t, err)
	test.That(t, bytes.Equal(a.img, b.img))
	test.That(t, bytes.Equal(a.page, b.page))
}

func TestRenderSketchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := renderSketch(ctx, "sketch")
	test.That(t, err != nil)
}

func TestHandler(t *testing.T) {
	r := &rendering{page: []byte("<p>page</p>"), img: []byte("png")}
	srv := httptest.NewServer(newHandler(r))
	defer srv.Close()

	var tests = []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "<p>page</p>"},
		{canvasPath, http.StatusOK, "image/png", "png"},
		{"/missing", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			test.Error(t, err)
			defer resp.Body.Close()

			test.T(t, resp.StatusCode, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			test.T(t, resp.Header.Get("Content-Type"), tt.contentType)
			body, err := io.ReadAll(resp.Body)
			test.Error(t, err)
			test.T(t, string(body), tt.body)
		})
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	test.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, newHandler(&rendering{page: []byte("ok")}))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	test.Error(t, err)
	resp.Body.Close()
	test.T(t, resp.StatusCode, http.StatusOK)

	cancel()
	select {
	case err := <-done:
		test.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeClosedListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	test.Error(t, err)
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = serve(ctx, ln, newHandler(&rendering{}))
	test.That(t, err != nil, "serving on a closed listener must fail")
}

func TestRenderCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	cmd := &Render{Container: "sketch", Output: out}
	test.Error(t, cmd.Run())

	f, err := os.Open(out)
	test.Error(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	test.Error(t, err)
	test.T(t, img.Bounds().Dx(), 500)
}

func TestPageURL(t *testing.T) {
	var tests = []struct {
		addr string
		url  string
	}{
		{"0.0.0.0:8080", "http://localhost:8080/"},
		{"[::]:8080", "http://localhost:8080/"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000/"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := net.ResolveTCPAddr("tcp", tt.addr)
			test.Error(t, err)
			test.T(t, pageURL(addr), tt.url)
		})
	}
}
