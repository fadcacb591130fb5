package render

import (
	"html/template"
	"io"

	"github.com/rotisserie/eris"
)

const cardHTML = `<div class="detail">
{{- if .Logo}}
  <div class="{{if .Record.DarkLogo}}logo-wrap-dark{{else}}logo-wrap{{end}}"><img src="{{.Logo}}" style="width:140px; display:block;"/></div>
{{- end}}
  <div class="card">
    <div style="display:flex;justify-content:space-between;align-items:center;gap:12px;flex-wrap:wrap;">
      <h3>{{.Record.Name}}</h3>
      <div>{{if .Record.Website}}<a href="{{.Record.Website}}" target="_blank">Ir al sitio ↗</a>{{end}}</div>
    </div>
    <div class="v" style="margin-top:6px;">{{.PriceLabel}}</div>
{{- range .Rows}}
    <div class="info-row">
      <div class="smalllabel">{{.Label}}</div>
      <div class="v">{{.Value}}</div>
    </div>
{{- end}}
    <div style="margin-top:8px;">
      <div class="smalllabel">Amenidades</div>
      {{template "list" .Record.Amenities}}
    </div>
    <div style="margin-top:8px;">
      <div class="smalllabel">Servicios</div>
      {{template "list" .Record.Services}}
    </div>
  </div>
{{- with .DistanceLabel}}
  <div class="info">{{.}}</div>
{{- end}}
</div>
{{define "list"}}{{if .}}<ul class="bul">{{range .}}<li>{{.}}</li>{{end}}</ul>{{else}}<div class="smalllabel">—</div>{{end}}{{end}}`

var cardTemplate = template.Must(template.New("card").Parse(cardHTML))

type infoRow struct {
	Label string
	Value string
}

type cardView struct {
	Detail
	Logo template.URL
	Rows []infoRow
}

// Card writes the HTML detail card. Empty descriptive fields are omitted.
func Card(w io.Writer, d Detail) error {
	// Logo sources are remote URLs from the curated dataset or data URIs
	// built by the asset resolver.
	view := cardView{Detail: d, Logo: template.URL(d.LogoSrc)}
	for _, row := range []infoRow{
		{"Tipo de desarrollo", d.Record.Category},
		{"Estilo / diseño", d.Record.Style},
		{"Estado", d.Record.Status},
		{"Tipologías / m²", d.Record.Typologies},
		{"Unidades", d.Record.UnitCount},
	} {
		if row.Value != "" {
			view.Rows = append(view.Rows, row)
		}
	}

	if err := cardTemplate.Execute(w, view); err != nil {
		return eris.Wrap(err, "render: card")
	}
	return nil
}
