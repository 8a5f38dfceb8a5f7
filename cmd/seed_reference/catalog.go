package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// seedNamespace espacio UUIDv5 para que los IDs sembrados sean estables entre ejecuciones.
var seedNamespace = uuid.MustParse("6f1b9c1e-3c1a-4f59-9a57-2d8a6e4d0b10")

// catalogo formato XML heredado del sistema anterior.
type catalogo struct {
	Bodegas   []bodega   `xml:"bodegas>bodega"`
	Secciones []seccion  `xml:"secciones>seccion"`
	Productos []producto `xml:"productos>producto"`
	Grupos    []grupo    `xml:"grupos>grupo"`
}

type bodega struct {
	Codigo    string `xml:"codigo,attr"`
	Nombre    string `xml:"nombre,attr"`
	Direccion string `xml:"direccion,attr"`
}

type seccion struct {
	Bodega string `xml:"bodega,attr"`
	Codigo string `xml:"codigo,attr"`
	Nombre string `xml:"nombre,attr"`
}

type producto struct {
	SKU    string `xml:"sku,attr"`
	Nombre string `xml:"nombre,attr"`
}

type grupo struct {
	Codigo string `xml:"codigo,attr"`
	Nombre string `xml:"nombre,attr"`
}

func newCatalogCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "catalog [catalogo.xml]",
		Short: "Convierte el catálogo XML en un script SQL idempotente",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xmlPath := "catalogo.xml"
			if len(args) > 0 {
				xmlPath = args[0]
			}
			f, err := os.Open(xmlPath)
			if err != nil {
				return fmt.Errorf("abrir XML: %w", err)
			}
			defer f.Close()

			cat, err := parseCatalog(f)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = filepath.Join(findModuleRoot(), "migrations", "002_seed_reference.sql")
			}
			out, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("crear archivo: %w", err)
			}
			defer out.Close()

			if err := writeCatalogSQL(out, cat); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generado %s: %d bodegas, %d secciones, %d productos, %d grupos\n",
				outPath, len(cat.Bodegas), len(cat.Secciones), len(cat.Productos), len(cat.Grupos))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "ruta del script SQL (por defecto migrations/002_seed_reference.sql)")
	return cmd
}

// parseCatalog decodifica el XML (UTF-8 o ISO-8859-1), normaliza códigos y descarta entradas incompletas.
func parseCatalog(r io.Reader) (*catalogo, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToUpper(charset) {
		case "ISO-8859-1", "ISO8859-1", "LATIN1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "WINDOWS-1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	out := &catalogo{}
	for _, b := range c.Bodegas {
		b.Codigo = strings.ToUpper(strings.TrimSpace(b.Codigo))
		b.Nombre = strings.TrimSpace(b.Nombre)
		if b.Codigo == "" || b.Nombre == "" {
			continue
		}
		out.Bodegas = append(out.Bodegas, b)
	}
	for _, s := range c.Secciones {
		s.Bodega = strings.ToUpper(strings.TrimSpace(s.Bodega))
		s.Codigo = strings.TrimSpace(s.Codigo)
		if s.Bodega == "" || s.Codigo == "" {
			continue
		}
		out.Secciones = append(out.Secciones, s)
	}
	for _, p := range c.Productos {
		p.SKU = strings.TrimSpace(p.SKU)
		p.Nombre = strings.TrimSpace(p.Nombre)
		if p.SKU == "" || p.Nombre == "" {
			continue
		}
		out.Productos = append(out.Productos, p)
	}
	for _, g := range c.Grupos {
		g.Codigo = strings.ToUpper(strings.TrimSpace(g.Codigo))
		if g.Codigo == "" {
			continue
		}
		out.Grupos = append(out.Grupos, g)
	}

	// Salida estable
	sort.Slice(out.Bodegas, func(i, j int) bool { return out.Bodegas[i].Codigo < out.Bodegas[j].Codigo })
	sort.Slice(out.Secciones, func(i, j int) bool {
		if out.Secciones[i].Bodega != out.Secciones[j].Bodega {
			return out.Secciones[i].Bodega < out.Secciones[j].Bodega
		}
		return out.Secciones[i].Codigo < out.Secciones[j].Codigo
	})
	sort.Slice(out.Productos, func(i, j int) bool { return out.Productos[i].SKU < out.Productos[j].SKU })
	sort.Slice(out.Grupos, func(i, j int) bool { return out.Grupos[i].Codigo < out.Grupos[j].Codigo })
	return out, nil
}

// writeCatalogSQL escribe INSERT ... ON CONFLICT para cada tabla de referencia.
func writeCatalogSQL(w io.Writer, c *catalogo) error {
	var sb strings.Builder
	sb.WriteString("-- Datos de referencia de inventario-envios\n")
	sb.WriteString("-- Generado por cmd/seed_reference desde el catálogo XML\n\n")

	if len(c.Bodegas) > 0 {
		sb.WriteString("-- 1. Bodegas\n")
		sb.WriteString("INSERT INTO warehouses (id, code, name, address, is_active) VALUES\n")
		for i, b := range c.Bodegas {
			fmt.Fprintf(&sb, "  ('%s', '%s', '%s', '%s', TRUE)%s\n",
				stableID("warehouse", b.Codigo), escapeSQL(b.Codigo), escapeSQL(b.Nombre), escapeSQL(b.Direccion), sep(i, len(c.Bodegas)))
		}
		sb.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address;\n\n")
	}

	if len(c.Secciones) > 0 {
		sb.WriteString("-- 2. Secciones (por código de bodega)\n")
		for _, s := range c.Secciones {
			sb.WriteString("INSERT INTO storage_sections (id, warehouse_id, code, name)\n")
			fmt.Fprintf(&sb, "SELECT '%s', id, '%s', '%s' FROM warehouses WHERE code = '%s'\n",
				stableID("section", s.Bodega+"/"+s.Codigo), escapeSQL(s.Codigo), escapeSQL(s.Nombre), escapeSQL(s.Bodega))
			sb.WriteString("ON CONFLICT (warehouse_id, code) DO UPDATE SET name = EXCLUDED.name;\n")
		}
		sb.WriteString("\n")
	}

	if len(c.Productos) > 0 {
		sb.WriteString("-- 3. Productos\n")
		sb.WriteString("INSERT INTO products (id, sku, name) VALUES\n")
		for i, p := range c.Productos {
			fmt.Fprintf(&sb, "  ('%s', '%s', '%s')%s\n",
				stableID("product", p.SKU), escapeSQL(p.SKU), escapeSQL(p.Nombre), sep(i, len(c.Productos)))
		}
		sb.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name;\n\n")
	}

	if len(c.Grupos) > 0 {
		sb.WriteString("-- 4. Grupos de StockItem\n")
		sb.WriteString("INSERT INTO stock_item_groups (id, code, name) VALUES\n")
		for i, g := range c.Grupos {
			fmt.Fprintf(&sb, "  ('%s', '%s', '%s')%s\n",
				stableID("group", g.Codigo), escapeSQL(g.Codigo), escapeSQL(g.Nombre), sep(i, len(c.Grupos)))
		}
		sb.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func stableID(kind, code string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+code)).String()
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
