package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// UndisclosedPrice is shown for developments absent from the price table.
const UndisclosedPrice = "precio no divulgado por desarrolladora"

// Tables holds the static lookup data applied while building the store.
type Tables struct {
	Aliases        map[string]string    `yaml:"aliases"`
	LogoFiles      map[string]string    `yaml:"logo_files"`
	WebsiteFixes   map[string]string    `yaml:"website_fixes"`
	Prices         map[string][2]string `yaml:"prices"`
	WhiteLogoNames []string             `yaml:"white_logo_names"`
}

// DefaultTables returns the curated Los Cabos tables.
func DefaultTables() Tables {
	return Tables{
		Aliases: map[string]string{
			"Solara del mar":    "Solara del Mar",
			"Vista vela":        "Vista Vela",
			"Vistavela":         "Vista Vela",
			"Vista Vela Plus":   "Vista Vela",
			"Tramonti Paradiso": "Tramonti",
		},
		LogoFiles: map[string]string{
			"Santarena":            "santarena.png",
			"Dunna":                "dunna.png",
			"Ladera San José":      "ladera.png",
			"Casa NIMA":            "casanima.png",
			"CORA":                 "cora.png",
			"MARE":                 "mare.png",
			"Solara del Mar":       "solaradelmar.png",
			"Vista Vela":           "vistavela.png",
			"Tramonti":             "tramonti.png",
			"Punta Mirante":        "puntamirante.png",
			"ALANA cerro colorado": "alanacerrocolorado.png",
		},
		WebsiteFixes: map[string]string{
			"Solara del Mar": "https://www.inmobiliariafh.com/nuestros-desarrollos/solara-del-mar",
			"Vista Vela":     "https://grupovelas.com.mx/desarrollo/vistavela",
			"Tramonti":       "https://tramontiparadiso.com/es/inicio/",
			"Punta Mirante":  "https://ronival.com/es/punta-mirante/",
		},
		Prices: map[string][2]string{
			"Tramonti":             {"$267,751", "$531,200"},
			"Casa NIMA":            {"$504,000", "$720,300"},
			"Santarena":            {"$466,000", "$554,652"},
			"ALANA cerro colorado": {"$385,638", "$494,044"},
			"Vista Vela":           {"$774,000", "$495,000"},
			"Dunna":                {"$706,000", "$1,211,000"},
			"Solara del Mar":       {"$475,000", "$750,000"},
			"Punta Mirante":        {"$628,000", "$579,000"},
			"CORA":                 {"$476,000", "$894,000"},
			"Ladera":               {"875,000", "1,250,000"},
			"MARE":                 {"$350,000", "$800,000"},
		},
		WhiteLogoNames: []string{"Casa NIMA", "CORA", "Punta Mirante", "Santarena", "MARE"},
	}
}

// LoadTables reads lookup tables from a YAML file. Sections missing from the
// file keep their default content.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, eris.Wrapf(err, "catalog: read tables %s", path)
	}

	var file Tables
	if err := yaml.Unmarshal(data, &file); err != nil {
		return tables, eris.Wrap(err, "catalog: parse tables")
	}

	if file.Aliases != nil {
		tables.Aliases = file.Aliases
	}
	if file.LogoFiles != nil {
		tables.LogoFiles = file.LogoFiles
	}
	if file.WebsiteFixes != nil {
		tables.WebsiteFixes = file.WebsiteFixes
	}
	if file.Prices != nil {
		tables.Prices = file.Prices
	}
	if file.WhiteLogoNames != nil {
		tables.WhiteLogoNames = file.WhiteLogoNames
	}

	return tables, nil
}

func (t Tables) isWhiteLogo(name string) bool {
	for _, n := range t.WhiteLogoNames {
		if n == name {
			return true
		}
	}
	return false
}
