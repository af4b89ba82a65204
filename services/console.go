package services

import (
	"fmt"
	"io"
	"strings"

	"internet-fijo/models"
)

// PrintBanner writes the run header.
func PrintBanner(w io.Writer, csvFile string) {
	sep := strings.Repeat("=", 44)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "  ANÁLISIS DE INTERNET FIJO EN COLOMBIA  ")
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cargando datos desde:", csvFile)
}

// PrintExploration writes the first look at the loaded table.
func PrintExploration(w io.Writer, e *models.Exploration) {
	section(w, "EXPLORACIÓN INICIAL")
	fmt.Fprintf(w, "  Dimensiones de los datos (filas, columnas): (%d, %d)\n\n", e.Rows, e.Columns)

	heading(w, "Columnas originales")
	fmt.Fprintf(w, "  %s\n\n", strings.Join(e.OriginalColumns, ", "))

	heading(w, "Columnas después de renombrar")
	fmt.Fprintf(w, "  %s\n\n", strings.Join(e.RenamedColumns, ", "))

	heading(w, "Primeras 5 filas")
	if e.Head == "" {
		fmt.Fprintf(w, "  Sin filas\n\n")
		return
	}
	fmt.Fprintln(w, e.Head)
}

// PrintCleanReport writes the before/after view of the cleaning step.
func PrintCleanReport(w io.Writer, r *models.CleanReport) {
	section(w, "LIMPIEZA DE DATOS")

	heading(w, "Valores nulos por columna (antes de limpiar)")
	printColumnCounts(w, r.NullsBefore)

	fmt.Fprintf(w, "  Filas eliminadas por accesos nulos: \033[1m%d\033[0m\n\n", r.Dropped)

	heading(w, "Distribución de 'tipo_segmento'")
	if len(r.SegmentCounts) == 0 {
		fmt.Fprintf(w, "  Sin datos\n")
	}
	for _, e := range r.SegmentCounts {
		fmt.Fprintf(w, "  %-20s %.0f\n", e.Key, e.Value)
	}
	fmt.Fprintln(w)

	heading(w, "Valores nulos por columna (después de limpiar)")
	printColumnCounts(w, r.NullsAfter)
}

func printColumnCounts(w io.Writer, counts []models.ColumnCount) {
	for _, c := range counts {
		fmt.Fprintf(w, "  %-20s %d\n", c.Column, c.Count)
	}
	fmt.Fprintln(w)
}
