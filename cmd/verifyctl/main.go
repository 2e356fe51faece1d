// verifyctl drives remote-mode verification from the command line: it
// creates a session, prints the link to hand to the user, and polls until
// the session is verified or the wait runs out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"verify-service/internal/client"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:8080", "verify-service base URL")
		email    = flag.String("email", "", "target email (UPN) to verify")
		interval = flag.Duration("interval", client.DefaultPollInterval, "poll interval")
		timeout  = flag.Duration("timeout", client.DefaultPollTimeout, "give up after this long")
	)
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "verifyctl: -email is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	c := client.New(
		*server,
		client.WithPollInterval(*interval),
		client.WithPollTimeout(*timeout),
	)

	id, link, err := c.Begin(ctx, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifyctl: create session: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("session %s created for %s\n", id, *email)
	fmt.Printf("send this link to the user:\n\n  %s\n\n", link)
	fmt.Println("waiting for remote sign-in...")

	sess, err := c.WaitVerified(ctx, id)
	switch {
	case err == nil:
		fmt.Printf("verified: %s (session created %s)\n",
			sess.Email,
			sess.CreatedAt.Format(time.RFC3339),
		)
	case errors.Is(err, client.ErrPollTimeout):
		fmt.Fprintln(os.Stderr, "verifyctl: timed out waiting, session may still be pending")
		os.Exit(1)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "verifyctl: interrupted")
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "verifyctl: %v\n", err)
		os.Exit(1)
	}
}
