package portal

func (s *Server) SetupEndpoints() {
	r := s.engine

	r.GET("/heartbeat", s.heartbeat)

	api := r.Group("/api/v2")
	api.POST("/onboard", s.onboard)
	api.POST("/submit", s.submitApp)
	api.POST("/app/:id", s.updateApp)
	api.GET("/app/:id", s.getApp)
}
