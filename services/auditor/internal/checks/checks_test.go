package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/geo"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/models"
)

var anchor = geo.ReferencePoint{Name: "Loma escondida", Point: geo.Point{Lat: 23.009139, Lon: -109.732472}}

type fakeAssets map[string]bool

func (f fakeAssets) Exists(ref string) bool { return f[ref] }

func auditStore() *catalog.Store {
	rows := []catalog.RawRow{
		{catalog.ColName: "Santarena", catalog.ColWebsite: "https://santarena.mx", catalog.ColLat: "23.0100", catalog.ColLon: "-109.7200"},
		{catalog.ColName: "Dunna", catalog.ColWebsite: "https://dunna.mx", catalog.ColLat: "23.0500", catalog.ColLon: "-109.6900"},
		{catalog.ColName: "Lejano", catalog.ColLat: "24.5000", catalog.ColLon: "-110.5000"},
		{catalog.ColName: "Sin Coordenadas", catalog.ColLogo: "https://cdn.example.com/sin.png"},
		{catalog.ColName: "Loma escondida"},
		{catalog.ColName: "Santarena", catalog.ColLat: "23.0100", catalog.ColLon: "-109.7200"},
	}
	return catalog.Build(rows, catalog.BuildOptions{
		Tables:     catalog.DefaultTables(),
		AssetDir:   "static/logos",
		AnchorName: anchor.Name,
	})
}

func kindsFor(findings []models.Finding, name string) []models.Kind {
	var out []models.Kind
	for _, f := range findings {
		if f.Development == name {
			out = append(out, f.Kind)
		}
	}
	return out
}

func TestRun(t *testing.T) {
	findings := Run(auditStore(), Options{
		Anchor:        anchor,
		MaxDistanceKM: 60,
		Assets:        fakeAssets{"static/logos/santarena.png": true},
	})

	assert.NotContains(t, kindsFor(findings, "Dunna"), models.KindMissingLogo)
	assert.Contains(t, kindsFor(findings, "Dunna"), models.KindUnresolvedLogo)

	lejano := kindsFor(findings, "Lejano")
	assert.Contains(t, lejano, models.KindFarFromAnchor)
	assert.Contains(t, lejano, models.KindMissingLogo)
	assert.Contains(t, lejano, models.KindMissingWebsite)
	assert.Contains(t, lejano, models.KindUndisclosedPrice)

	sin := kindsFor(findings, "Sin Coordenadas")
	assert.Contains(t, sin, models.KindMissingCoordinates)
	assert.NotContains(t, sin, models.KindUnresolvedLogo)

	assert.NotContains(t, kindsFor(findings, "Loma escondida"), models.KindMissingCoordinates)

	santarena := kindsFor(findings, "Santarena")
	assert.Contains(t, santarena, models.KindDuplicateName)
	assert.NotContains(t, santarena, models.KindFarFromAnchor)
	assert.NotContains(t, santarena, models.KindUndisclosedPrice)
}

func TestRecordSkipsDistanceWithoutLimit(t *testing.T) {
	rec, ok := auditStore().Lookup("Lejano")
	require.True(t, ok)

	findings := Record(rec, Options{Anchor: anchor})
	assert.NotContains(t, kindsFor(findings, "Lejano"), models.KindFarFromAnchor)
}

func TestProbeTargets(t *testing.T) {
	targets := ProbeTargets(auditStore())

	require.Len(t, targets, 3)
	assert.Equal(t, models.ProbeTarget{Development: "Santarena", Kind: models.KindUnreachableWebsite, URL: "https://santarena.mx"}, targets[0])
	assert.Equal(t, models.ProbeTarget{Development: "Dunna", Kind: models.KindUnreachableWebsite, URL: "https://dunna.mx"}, targets[1])
	assert.Equal(t, models.ProbeTarget{Development: "Sin Coordenadas", Kind: models.KindUnreachableLogo, URL: "https://cdn.example.com/sin.png"}, targets[2])
}

func TestDistances(t *testing.T) {
	rows := Distances(auditStore(), anchor.Point)

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Development)
	}
	assert.Equal(t, []string{"Santarena", "Santarena", "Dunna", "Lejano"}, names)
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].DistanceKM, rows[i].DistanceKM)
	}
	assert.InDelta(t, 1.28, rows[0].DistanceKM, 0.1)
}

func TestCountWarnings(t *testing.T) {
	findings := []models.Finding{
		{Severity: models.SeverityWarn},
		{Severity: models.SeverityInfo},
		{Severity: models.SeverityWarn},
	}
	assert.Equal(t, 2, CountWarnings(findings))
}
