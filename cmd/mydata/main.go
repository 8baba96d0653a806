// Command mydata herramientas de operación: renderiza, envía y relee documentos
// myDATA sin pasar por el webhook.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
