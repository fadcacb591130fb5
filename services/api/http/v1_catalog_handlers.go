package http

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Danielbeltranh/competencia-los-cabos/services/api/catalog"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/mapview"
	"github.com/Danielbeltranh/competencia-los-cabos/services/api/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleV1ListDevelopments returns the tabular view of the catalogue
// GET /api/v1/developments
func (s *Server) handleV1ListDevelopments(c *gin.Context) {
	records := s.deps.Catalog.Records()

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, catalog.TableRow(rec))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": records,
		"meta": gin.H{
			"count":    len(records),
			"mappable": len(s.deps.Catalog.Mappable()),
			"columns":  catalog.TableColumns,
			"rows":     rows,
		},
	})
}

// handleV1ExportDevelopments downloads the tabular view as a spreadsheet
// GET /api/v1/developments/export.xlsx
func (s *Server) handleV1ExportDevelopments(c *gin.Context) {
	var buf bytes.Buffer
	if err := catalog.WriteXLSX(&buf, s.deps.Catalog); err != nil {
		zap.L().Error("api: export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="competencia_los_cabos.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// handleV1GetDevelopment returns the detail of one development
// GET /api/v1/developments/:name
func (s *Server) handleV1GetDevelopment(c *gin.Context) {
	name := c.Param("name")
	rec, ok := s.deps.Catalog.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "development not found"})
		return
	}

	detail := render.NewDetail(rec, s.cfg.SessionSettings(nil).Anchor, s.deps.Logos)
	c.JSON(http.StatusOK, gin.H{
		"data": detail,
		"meta": gin.H{
			"distance_label": detail.DistanceLabel(),
		},
	})
}

// handleV1MapLayers lists the selectable base layers
// GET /api/v1/map/layers
func (s *Server) handleV1MapLayers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": s.deps.Layers,
		"meta": gin.H{
			"count":   len(s.deps.Layers),
			"default": mapview.FindLayer(s.deps.Layers, "").Name,
		},
	})
}
