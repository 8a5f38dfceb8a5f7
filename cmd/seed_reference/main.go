// seed_reference genera scripts SQL con los datos de referencia del servicio
// (bodegas, secciones, productos, grupos) y usuarios iniciales.
//
// Uso:
//
//	go run ./cmd/seed_reference catalog catalogo.xml --out migrations/002_seed_reference.sql
//	go run ./cmd/seed_reference admin --email admin@empresa.co --password ******
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seed_reference",
		Short:         "Genera SQL de datos de referencia para inventario-envios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCatalogCmd(), newAdminCmd())
	return root
}
