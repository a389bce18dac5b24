package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/activos-ti-api/internal/domain/entity"
)

// catalogo raíz del export institucional:
//
//	<catalogo>
//	  <tabla nombre="department">
//	    <valor cod="SIS" nombre="Sistemas"/>
//	  </tabla>
//	</catalogo>
type catalogo struct {
	Tablas []tabla `xml:"tabla"`
}

type tabla struct {
	Nombre  string  `xml:"nombre,attr"`
	Valores []valor `xml:"valor"`
}

type valor struct {
	Cod    string `xml:"cod,attr"`
	Nombre string `xml:"nombre,attr"`
}

// seedItem un elemento a cargar con su posición dentro de la tabla.
type seedItem struct {
	Kind  string
	Order int
	Item  entity.CatalogItem
}

// kinds tablas aceptadas; el export puede traer nombres en español.
var kinds = map[string]string{
	"department":   "department",
	"departamento": "department",
	"position":     "position",
	"cargo":        "position",
	"gender":       "gender",
	"genero":       "gender",
	"género":       "gender",
}

// parseCatalog decodifica el XML (UTF-8 o ISO-8859-1). Las filas sin código o nombre
// se descartan y un código repetido dentro de la misma tabla conserva el último nombre.
func parseCatalog(r io.Reader) ([]seedItem, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	var out []seedItem
	for _, t := range c.Tablas {
		kind, ok := kinds[strings.ToLower(strings.TrimSpace(t.Nombre))]
		if !ok {
			return nil, fmt.Errorf("tabla desconocida %q", t.Nombre)
		}
		index := map[string]int{}
		for _, v := range t.Valores {
			code := strings.ToUpper(strings.TrimSpace(v.Cod))
			name := strings.TrimSpace(v.Nombre)
			if code == "" || name == "" {
				continue
			}
			if i, dup := index[code]; dup {
				out[i].Item.Name = name
				continue
			}
			index[code] = len(out)
			out = append(out, seedItem{Kind: kind, Order: len(index), Item: entity.CatalogItem{Code: code, Name: name}})
		}
	}
	return out, nil
}
