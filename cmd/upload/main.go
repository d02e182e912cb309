// Command upload is the file-upload primitive invoked by generated step
// scripts as ./bin/upload. It owns the retry policy: -retries bounds the
// attempts after the first one, -1 retries until success.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sourceplane/slurmflow/internal/sshclient"
)

func main() {
	host := flag.String("host", "", "remote host")
	port := flag.Int("port", 22, "SSH port")
	username := flag.String("username", "root", "SSH username")
	password := flag.String("password", "", "SSH password")
	keyFile := flag.String("key", "", "SSH private key file")
	retries := flag.Int("retries", -1, "retry count, -1 for unbounded")
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf("usage: upload [flags] <local> <remote>")
	}
	local, remote := flag.Arg(0), flag.Arg(1)

	client, err := sshclient.New(sshclient.Config{
		Host:           *host,
		Port:           *port,
		Username:       *username,
		Password:       *password,
		PrivateKeyFile: *keyFile,
	})
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sshclient.WithRetries(ctx, *retries, func() error {
		if err := client.Upload(ctx, local, remote); err != nil {
			log.Printf("upload %s: %v", local, err)
			return err
		}
		return nil
	})
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	log.Printf("uploaded %s to %s:%s", local, *host, remote)
}
