package handlers

import (
	"github.com/RoyWG925/geo-dashboard-demo/internal/config"
	"github.com/RoyWG925/geo-dashboard-demo/internal/pipeline"
	"github.com/RoyWG925/geo-dashboard-demo/internal/repository"
)

// Handlers holds all dependencies for the HTTP handlers.
type Handlers struct {
	Cfg      config.Config
	Pipeline *pipeline.Pipeline
	Usage    *repository.UsageRepository
	Keywords *repository.KeywordRepository
	Results  *repository.ResultRepository
}
