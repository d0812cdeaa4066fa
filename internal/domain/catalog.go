package domain

// CatalogKind names one of the reference collections shown to customers.
type CatalogKind string

const (
	CatalogProblems    CatalogKind = "problems"
	CatalogDeviceTypes CatalogKind = "device-types"
	CatalogBrands      CatalogKind = "brands"
	CatalogModels      CatalogKind = "models"
)

// Valid reports whether k is a known catalog collection.
func (k CatalogKind) Valid() bool {
	switch k {
	case CatalogProblems, CatalogDeviceTypes, CatalogBrands, CatalogModels:
		return true
	}
	return false
}

// CatalogItem is a problem, device type, brand or model entry.
// Image is unused for problems; BrandID is only set for models.
type CatalogItem struct {
	ID      string
	Kind    CatalogKind
	Name    string
	Image   string
	BrandID *string
}
