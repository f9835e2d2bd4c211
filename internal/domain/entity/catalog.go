package entity

// Catalog listas cerradas de responsables y sucursales disponibles en los selectores.
type Catalog struct {
	Responsables []string
	Sucursales   []string
}

// HasResponsable indica si el nombre pertenece al catálogo.
func (c Catalog) HasResponsable(name string) bool { return contains(c.Responsables, name) }

// HasSucursal indica si la sucursal pertenece al catálogo.
func (c Catalog) HasSucursal(name string) bool { return contains(c.Sucursales, name) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
