package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	apiconfig "github.com/Danielbeltranh/competencia-los-cabos/services/api/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/config"
	"github.com/Danielbeltranh/competencia-los-cabos/services/auditor/internal/models"
)

const testCSV = `nombre,website,tipo_desarrollo,lat,lon,logo
Santarena,https://santarena.mx,Residencial,23.0100,-109.7200,
Dunna,,Residencial,23.0500,-109.6900,
Sin Coordenadas,,,,,
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "competencia_los_cabos.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o600))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static", "logos"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "logos", "santarena.png"), []byte("png"), 0o600))

	return config.Config{
		App: apiconfig.Config{
			Data:   apiconfig.DataConfig{CSVCandidates: []string{path}},
			Assets: apiconfig.AssetsConfig{LogoDir: "static/logos", Root: dir},
			Anchor: apiconfig.AnchorConfig{Name: "Loma escondida", Lat: 23.009139, Lon: -109.732472},
		},
		MaxDistanceKM: 60,
		ProbeRPS:      10,
		ProbeWorkers:  2,
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"check", "distances"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestCheckCommand_Flags(t *testing.T) {
	for _, name := range []string{"probe", "strict"} {
		flag := checkCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "check command should have --%s flag", name)
		assert.Equal(t, "false", flag.DefValue)
	}
	format := checkCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "table", format.DefValue)
}

func TestRunCheck_JSON(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	require.NoError(t, runCheck(context.Background(), &out, cfg, checkOptions{format: "json"}))

	var findings []models.Finding
	require.NoError(t, json.Unmarshal(out.Bytes(), &findings))

	byName := make(map[string][]models.Kind)
	for _, f := range findings {
		byName[f.Development] = append(byName[f.Development], f.Kind)
	}
	assert.NotContains(t, byName["Santarena"], models.KindUnresolvedLogo)
	assert.Contains(t, byName["Dunna"], models.KindUnresolvedLogo)
	assert.Contains(t, byName["Dunna"], models.KindMissingWebsite)
	assert.Contains(t, byName["Sin Coordenadas"], models.KindMissingCoordinates)
}

func TestRunCheck_Strict(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	err := runCheck(context.Background(), &out, cfg, checkOptions{strict: true})
	require.Error(t, err)
	assert.True(t, eris.Is(err, errWarnings))
	assert.Contains(t, out.String(), "SEVERITY")
	assert.Contains(t, out.String(), "missing_coordinates")
}

func TestRunCheck_MissingDataSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.Data.CSVCandidates = []string{filepath.Join(t.TempDir(), "nope.csv")}

	err := runCheck(context.Background(), &bytes.Buffer{}, cfg, checkOptions{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, catalog.ErrMissingDataSource))
}

func TestRunCheck_UnknownFormat(t *testing.T) {
	err := runCheck(context.Background(), &bytes.Buffer{}, testConfig(t), checkOptions{format: "xml"})
	assert.Error(t, err)
}

func TestRunDistances(t *testing.T) {
	cfg := testConfig(t)

	var out bytes.Buffer
	require.NoError(t, runDistances(context.Background(), &out, cfg, "json"))

	var rows []models.DistanceRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Santarena", rows[0].Development)
	assert.Equal(t, "Dunna", rows[1].Development)
	assert.Less(t, rows[0].DistanceKM, rows[1].DistanceKM)

	out.Reset()
	require.NoError(t, runDistances(context.Background(), &out, cfg, "table"))
	assert.Contains(t, out.String(), "KM TO Loma escondida")
	assert.Contains(t, out.String(), "Santarena")
}
