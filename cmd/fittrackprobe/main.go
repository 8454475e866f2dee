// fittrackprobe checks a FitTrack server from scripts: the health endpoint
// first, then (with -user/-password) a login and a silent session probe.
// Exit status is 0 when every step passed, 1 otherwise, 2 on bad flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iafilius/FitTrack/src/apiclient"
	"github.com/iafilius/FitTrack/src/types"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var server, user, password string
	var timeout time.Duration
	fs := flag.NewFlagSet("fittrackprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&server, "server", envOr("FITTRACK_SERVER", apiclient.DefaultServer), "FitTrack server origin")
	fs.StringVar(&user, "user", envOr("FITTRACK_USER", ""), "Username for the session probe (optional)")
	fs.StringVar(&password, "password", envOr("FITTRACK_PASSWORD", ""), "Password for the session probe")
	fs.DurationVar(&timeout, "timeout", 10*time.Second, "Overall deadline")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	defer apiclient.SetLogOutput(apiclient.SetLogOutput(stderr))
	_ = apiclient.SetLogLevel("warn")

	client, err := apiclient.New(server, apiclient.WithNotifier(apiclient.NotifierFunc(func(apiclient.Notification) {})))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	h, err := client.Health(ctx, true)
	if err != nil {
		fmt.Fprintf(stdout, "health: FAIL (%v)\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "health: %s (%d ms)\n", h.Status, time.Since(start).Milliseconds())
	if user == "" {
		return 0
	}

	if _, err := client.Login(ctx, types.Credentials{Username: user, Password: password}); err != nil {
		fmt.Fprintf(stdout, "login: FAIL (%v)\n", err)
		return 1
	}
	fmt.Fprintln(stdout, "login: ok")
	p, err := client.Progress(ctx, "", true)
	if err != nil {
		fmt.Fprintf(stdout, "session: FAIL (%v)\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "session: ok (server date %s)\n", p.Date)
	if err := client.Logout(ctx); err != nil {
		apiclient.Warnf("logout: %v", err)
	}
	return 0
}
