package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/tdewolff/argp"
)

type Serve struct {
	Addr      string `default:":8080" desc:"Listen address"`
	Container string `short:"c" default:"sketch" desc:"Id of the element the canvas is mounted in"`
	Open      bool   `desc:"Open the page in the browser"`
}

type Render struct {
	Container string `short:"c" default:"sketch" desc:"Id of the element the canvas is mounted in"`
	Output    string `short:"o" default:"greensketch.png" desc:"Output PNG file"`
}

var (
	// Console colors
	cyan   = color.New(color.FgCyan, color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	blue   = color.New(color.FgBlue)
	white  = color.New(color.FgWhite)
)

func main() {
	root := argp.NewCmd(&Serve{}, "Green circle sketch host page")
	root.AddCmd(&Render{}, "render", "Render the sketch once to a PNG file")
	root.Parse()
	root.PrintHelp()
}

func (cmd *Serve) Run() error {
	printHeader()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r, err := renderSketch(ctx, cmd.Container)
	if err != nil {
		red.Printf("✗ %s\n", err)
		return err
	}
	green.Printf("✓ Sketch rendered (%d bytes PNG)\n", len(r.img))

	ln, err := net.Listen("tcp", cmd.Addr)
	if err != nil {
		red.Printf("✗ Failed to listen: %s\n", err)
		return errors.Wrap(err, "listen")
	}
	url := pageURL(ln.Addr())

	fmt.Println()
	blue.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	white.Printf("  Page:   %s\n", url)
	white.Printf("  Canvas: %s%s\n", strings.TrimSuffix(url, "/"), canvasPath)
	blue.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if cmd.Open {
		if err := browser.OpenURL(url); err != nil {
			yellow.Printf("⚠ Could not open browser: %s\n", err)
		}
	}

	green.Println("✓ Server started")
	if err := serve(ctx, ln, newHandler(r)); err != nil {
		red.Printf("✗ Server error: %s\n", err)
		return err
	}
	yellow.Println("Server stopped")
	return nil
}

func (cmd *Render) Run() error {
	if cmd.Output == "" {
		return argp.ShowUsage
	}

	r, err := renderSketch(context.Background(), cmd.Container)
	if err != nil {
		red.Printf("✗ %s\n", err)
		return err
	}
	if err := os.WriteFile(cmd.Output, r.img, 0644); err != nil {
		red.Printf("✗ Failed to write: %s\n", err)
		return err
	}
	green.Printf("✓ Wrote %s\n", cmd.Output)
	return nil
}

func printHeader() {
	cyan.Println("╔════════════════════════════════════════════════╗")
	cyan.Println("║                                                ║")
	cyan.Println("║                  GREEN SKETCH                  ║")
	cyan.Println("║                                                ║")
	cyan.Println("╚════════════════════════════════════════════════╝")
	fmt.Println()
}

func pageURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
