package models

// RawRecord holds one dataset row exactly as loaded from the CSV, after the
// columns have been renamed. An empty string means the cell was null.
type RawRecord struct {
	Year             string
	Quarter          string
	Provider         string
	DepartmentCode   string
	Department       string
	MunicipalityCode string
	Municipality     string
	Segment          string
	Technology       string
	DownloadSpeed    string
	UploadSpeed      string
	Accesses         string
}

// Record is a cleaned row. Accesses is always a valid number; the speeds
// are nil when the raw value could not be parsed.
type Record struct {
	Year             int
	Quarter          int
	Provider         string
	DepartmentCode   string
	Department       string
	MunicipalityCode string
	Municipality     string
	Segment          string
	Technology       string
	DownloadSpeed    *float64
	UploadSpeed      *float64
	Accesses         float64

	Period      string
	SegmentType SegmentType
}

// SegmentType is the coarse market classification derived from Segment.
type SegmentType string

const (
	SegmentResidential SegmentType = "RESIDENCIAL"
	SegmentCorporate   SegmentType = "CORPORATIVO"
	SegmentOther       SegmentType = "OTRO"
)

// Internal column names, in dataset order.
const (
	ColYear             = "anio"
	ColQuarter          = "trimestre"
	ColProvider         = "proveedor"
	ColDepartmentCode   = "cod_departamento"
	ColDepartment       = "departamento"
	ColMunicipalityCode = "cod_municipio"
	ColMunicipality     = "municipio"
	ColSegment          = "segmento"
	ColTechnology       = "tecnologia"
	ColDownloadSpeed    = "velocidad_bajada"
	ColUploadSpeed      = "velocidad_subida"
	ColAccesses         = "accesos"

	ColPeriod      = "periodo"
	ColSegmentType = "tipo_segmento"
)

// SourceColumns maps the dataset headers to the internal column names.
var SourceColumns = map[string]string{
	"AÑO":              ColYear,
	"TRIMESTRE":        ColQuarter,
	"PROVEEDOR":        ColProvider,
	"COD_DEPARTAMENTO": ColDepartmentCode,
	"DEPARTAMENTO":     ColDepartment,
	"COD_MUNICIPIO":    ColMunicipalityCode,
	"MUNICIPIO":        ColMunicipality,
	"SEGMENTO":         ColSegment,
	"TECNOLOGIA":       ColTechnology,
	"VELOCIDAD_BAJADA": ColDownloadSpeed,
	"VELOCIDAD_SUBIDA": ColUploadSpeed,
	"No DE ACCESOS":    ColAccesses,
}

// RecordColumns lists the loaded columns in dataset order.
var RecordColumns = []string{
	ColYear, ColQuarter, ColProvider, ColDepartmentCode, ColDepartment,
	ColMunicipalityCode, ColMunicipality, ColSegment, ColTechnology,
	ColDownloadSpeed, ColUploadSpeed, ColAccesses,
}

// Field returns the raw value of the named internal column.
func (r *RawRecord) Field(col string) string {
	switch col {
	case ColYear:
		return r.Year
	case ColQuarter:
		return r.Quarter
	case ColProvider:
		return r.Provider
	case ColDepartmentCode:
		return r.DepartmentCode
	case ColDepartment:
		return r.Department
	case ColMunicipalityCode:
		return r.MunicipalityCode
	case ColMunicipality:
		return r.Municipality
	case ColSegment:
		return r.Segment
	case ColTechnology:
		return r.Technology
	case ColDownloadSpeed:
		return r.DownloadSpeed
	case ColUploadSpeed:
		return r.UploadSpeed
	case ColAccesses:
		return r.Accesses
	}
	return ""
}

// SetField assigns the raw value of the named internal column. Unknown
// columns are ignored.
func (r *RawRecord) SetField(col, value string) {
	switch col {
	case ColYear:
		r.Year = value
	case ColQuarter:
		r.Quarter = value
	case ColProvider:
		r.Provider = value
	case ColDepartmentCode:
		r.DepartmentCode = value
	case ColDepartment:
		r.Department = value
	case ColMunicipalityCode:
		r.MunicipalityCode = value
	case ColMunicipality:
		r.Municipality = value
	case ColSegment:
		r.Segment = value
	case ColTechnology:
		r.Technology = value
	case ColDownloadSpeed:
		r.DownloadSpeed = value
	case ColUploadSpeed:
		r.UploadSpeed = value
	case ColAccesses:
		r.Accesses = value
	}
}

// IsNull reports whether the named column is null in the cleaned record.
func (r *Record) IsNull(col string) bool {
	switch col {
	case ColProvider:
		return r.Provider == ""
	case ColDepartmentCode:
		return r.DepartmentCode == ""
	case ColDepartment:
		return r.Department == ""
	case ColMunicipalityCode:
		return r.MunicipalityCode == ""
	case ColMunicipality:
		return r.Municipality == ""
	case ColSegment:
		return r.Segment == ""
	case ColTechnology:
		return r.Technology == ""
	case ColDownloadSpeed:
		return r.DownloadSpeed == nil
	case ColUploadSpeed:
		return r.UploadSpeed == nil
	}
	return false
}
