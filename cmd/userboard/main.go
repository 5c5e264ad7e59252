package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dcastellanos/userboard/internal/client/api"
	"github.com/dcastellanos/userboard/internal/client/cli"
	"github.com/dcastellanos/userboard/internal/client/session"
)

func main() {
	serverURL := flag.String("server", "http://localhost:5001", "userboard server base URL")
	sessionPath := flag.String("session", "", "session file path (defaults to the user config dir)")
	flag.Parse()

	path := *sessionPath
	if path == "" {
		var err error
		path, err = session.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resolve session path: %v\n", err)
			os.Exit(1)
		}
	}

	client := api.NewClient(*serverURL)
	store := session.NewFileStore(path)
	app := cli.NewApp(client, store, os.Stdin, os.Stdout)

	cli.Run(context.Background(), app)
}
