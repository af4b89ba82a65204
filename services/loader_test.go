package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internet-fijo/models"
)

const sampleCSV = "\ufeffAÑO,TRIMESTRE,PROVEEDOR,COD_DEPARTAMENTO,DEPARTAMENTO,COD_MUNICIPIO,MUNICIPIO,SEGMENTO,TECNOLOGIA,VELOCIDAD_BAJADA,VELOCIDAD_SUBIDA,No DE ACCESOS\n" +
	"2020,1,UNE EPM,5,ANTIOQUIA,5001,MEDELLÍN,Residencial - Estrato 3,Cable,\"50,5\",10,100\n" +
	"2021,2,ETB,11,BOGOTÁ D.C.,11001,BOGOTÁ D.C.,Corporativo,Fibra óptica,300,300,\n" +
	"2021,3,ETB,11,BOGOTÁ D.C.,11001,BOGOTÁ D.C.,Corporativo,Fibra óptica,NA,300,25\n"

func TestLoaderReadRenamesColumns(t *testing.T) {
	l := NewLoader(newTestLogger())

	records, exp, err := l.Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, exp.Rows)
	assert.Equal(t, 12, exp.Columns)
	assert.Equal(t, models.RecordColumns, exp.RenamedColumns)
	assert.Contains(t, exp.OriginalColumns, "No DE ACCESOS")
	assert.NotEmpty(t, exp.Head)

	require.Len(t, records, 3)
	first := records[0]
	assert.Equal(t, "2020", first.Year)
	assert.Equal(t, "ANTIOQUIA", first.Department)
	assert.Equal(t, "MEDELLÍN", first.Municipality)
	assert.Equal(t, "50,5", first.DownloadSpeed)
	assert.Equal(t, "100", first.Accesses)
}

func TestLoaderReadNullMarkers(t *testing.T) {
	l := NewLoader(newTestLogger())

	records, _, err := l.Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "", records[1].Accesses)
	assert.Equal(t, "", records[2].DownloadSpeed)
	assert.Equal(t, "25", records[2].Accesses)
}

func TestLoaderReadMissingColumn(t *testing.T) {
	l := NewLoader(newTestLogger())

	csv := "AÑO,TRIMESTRE,DEPARTAMENTO\n2020,1,ANTIOQUIA\n"
	_, _, err := l.Read(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.ColAccesses)
}

func TestLoaderLoadMissingFile(t *testing.T) {
	l := NewLoader(newTestLogger())

	_, _, err := l.Load(filepath.Join(t.TempDir(), "no-existe.csv"))
	require.ErrorIs(t, err, ErrInputNotFound)
}

func TestLoaderLoadFeedsCleaner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accesos.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	raw, _, err := NewLoader(newTestLogger()).Load(path)
	require.NoError(t, err)

	records, report, err := NewCleaner(newTestLogger()).Clean(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Dropped)
	require.Len(t, records, 2)
	assert.Equal(t, "2020-T1", records[0].Period)
	require.NotNil(t, records[0].DownloadSpeed)
	assert.InDelta(t, 50.5, *records[0].DownloadSpeed, 1e-9)
	assert.Nil(t, records[1].DownloadSpeed)
	assert.Equal(t, models.SegmentCorporate, records[1].SegmentType)
}

func TestPrintConsoleSections(t *testing.T) {
	raw, exp, err := NewLoader(newTestLogger()).Read(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	_, report, err := NewCleaner(newTestLogger()).Clean(raw)
	require.NoError(t, err)

	var out strings.Builder
	PrintBanner(&out, "accesos.csv")
	PrintExploration(&out, exp)
	PrintCleanReport(&out, report)

	s := out.String()
	assert.Contains(t, s, "accesos.csv")
	assert.Contains(t, s, "(3, 12)")
	assert.Contains(t, s, "Filas eliminadas por accesos nulos")
	assert.Contains(t, s, "CORPORATIVO")
}
