package http

// registerV1Routes sets up the dashboard API.
// Groups: /api/v1/developments, /api/v1/map, /api/v1/sessions
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	v1.Use(s.catalogReadyMiddleware())

	// Catalogue endpoints - shared, read-only
	developments := v1.Group("/developments")
	{
		developments.GET("", s.handleV1ListDevelopments)
		developments.GET("/export.xlsx", s.handleV1ExportDevelopments)
		developments.GET("/:name", s.handleV1GetDevelopment)
	}

	v1.GET("/map/layers", s.handleV1MapLayers)

	// Session endpoints - one selection and map view per browser session
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", s.handleV1CreateSession)
		sessions.GET("/:id", s.handleV1GetSession)
		sessions.DELETE("/:id", s.handleV1EndSession)
		sessions.POST("/:id/select", s.handleV1Select)
		sessions.POST("/:id/navigate", s.handleV1Navigate)
		sessions.POST("/:id/anchor", s.handleV1ReturnToAnchor)
		sessions.POST("/:id/click", s.handleV1Click)
		sessions.PUT("/:id/preferences", s.handleV1Preferences)
		sessions.GET("/:id/map", s.handleV1SessionMap)
		sessions.GET("/:id/card", s.handleV1SessionCard)
	}
}
