package main

import (
	"fmt"
	"os"

	"github.com/carbonwise/backend/internal/cli"
	httpDelivery "github.com/carbonwise/backend/internal/delivery/http"
)

func main() {
	if err := cli.NewRootCmd(httpDelivery.Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
