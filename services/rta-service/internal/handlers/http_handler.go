package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petraflow/wellscope/pkg/config"
	"github.com/petraflow/wellscope/pkg/logger"
	"github.com/petraflow/wellscope/pkg/middleware"
	"github.com/petraflow/wellscope/services/rta-service/internal/importer"
	"github.com/petraflow/wellscope/services/rta-service/internal/models"
	"github.com/petraflow/wellscope/services/rta-service/internal/repository"
	"github.com/petraflow/wellscope/services/rta-service/internal/service"
)

// RTAHandler exposes the analysis workflow over HTTP. It is a thin
// presentation adapter: all domain behavior lives in the analysis service.
type RTAHandler struct {
	analysis *service.AnalysisService
	datasets *repository.DatasetRepository
	matches  *repository.MatchRepository
	importer *importer.Importer
	engine   config.EngineConfig
	log      logger.Logger
}

func NewRTAHandler(
	analysis *service.AnalysisService,
	datasets *repository.DatasetRepository,
	matches *repository.MatchRepository,
	imp *importer.Importer,
	engine config.EngineConfig,
	log logger.Logger,
) *RTAHandler {
	return &RTAHandler{
		analysis: analysis,
		datasets: datasets,
		matches:  matches,
		importer: imp,
		engine:   engine,
		log:      log,
	}
}

// RegisterRoutes mounts the API. Mutating routes require authentication
// when an auth middleware is supplied.
func (h *RTAHandler) RegisterRoutes(router *gin.Engine, auth *middleware.AuthMiddleware, extra ...gin.HandlerFunc) {
	api := router.Group("/api/v1")
	for _, m := range extra {
		api.Use(m)
	}

	api.GET("/providers", h.ListProviders)
	api.GET("/providers/:name/wells", h.ListWells)

	api.GET("/datasets", h.ListDatasets)
	api.GET("/datasets/:id", h.GetDataset)
	api.POST("/datasets/:id/analysis", h.Analyze)
	api.POST("/datasets/:id/match", h.EvaluateMatch)
	api.GET("/datasets/:id/matches", h.ListMatches)

	mutating := api.Group("")
	if auth != nil {
		mutating.Use(auth.Authenticate())
	}
	mutating.POST("/datasets/import", h.ImportFile)
	mutating.POST("/providers/:name/wells/:well_id/import", h.ImportFromProvider)
	mutating.POST("/datasets/:id/matches", h.SaveMatch)
	mutating.DELETE("/datasets/:id", h.DeleteDataset)
	mutating.DELETE("/matches/:id", h.DeleteMatch)
}

// ListProviders lists configured data providers.
func (h *RTAHandler) ListProviders(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/providers", time.Since(start).Seconds(), c.Writer.Status())
	}()

	c.JSON(http.StatusOK, gin.H{"providers": h.analysis.ProviderNames()})
}

// ListWells lists the wells a provider can serve.
func (h *RTAHandler) ListWells(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/providers/wells", time.Since(start).Seconds(), c.Writer.Status())
	}()

	wells, err := h.analysis.ListWells(c, c.Param("name"))
	if err != nil {
		h.respondError(c, err, "Failed to list wells")
		return
	}

	c.JSON(http.StatusOK, gin.H{"wells": wells})
}

// ImportFile ingests an uploaded CSV or xlsx production table.
func (h *RTAHandler) ImportFile(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/datasets/import", time.Since(start).Seconds(), c.Writer.Status())
	}()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload"})
		return
	}

	wellName := c.PostForm("well_name")
	if wellName == "" {
		wellName = strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file upload"})
		return
	}
	defer file.Close()

	var result *importer.ImportResult
	var source string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx", ".xlsm":
		source = "excel"
		result, err = h.importer.ImportExcel(file)
	default:
		source = "csv"
		result, err = h.importer.ImportCSV(file)
	}
	if err != nil {
		h.respondError(c, err, "Failed to parse file")
		return
	}

	if max := h.engine.MaxSeriesPoints; max > 0 && result.Series.Len() > max {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Series exceeds %d points", max)})
		return
	}

	initialPressure := parseFloatForm(c, "initial_pressure")
	if initialPressure <= 0 {
		initialPressure = h.engine.DefaultInitialPressure
	}
	props := models.DefaultWellProperties(initialPressure)

	dataset, err := h.analysis.ImportDataset(c, wellName, source, result, props)
	if err != nil {
		h.respondError(c, err, "Failed to import dataset")
		return
	}

	c.JSON(http.StatusCreated, dataset)
}

// ImportFromProvider ingests a well served by a configured provider.
func (h *RTAHandler) ImportFromProvider(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/providers/import", time.Since(start).Seconds(), c.Writer.Status())
	}()

	dataset, err := h.analysis.ImportFromProvider(c, c.Param("name"), c.Param("well_id"))
	if err != nil {
		h.respondError(c, err, "Failed to import from provider")
		return
	}

	c.JSON(http.StatusCreated, dataset)
}

// ListDatasets lists stored datasets without their series payloads.
func (h *RTAHandler) ListDatasets(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/datasets", time.Since(start).Seconds(), c.Writer.Status())
	}()

	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	datasets, err := h.datasets.List(c, c.Query("well_name"), limit)
	if err != nil {
		h.respondError(c, err, "Failed to list datasets")
		return
	}

	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// GetDataset returns one stored dataset including its series.
func (h *RTAHandler) GetDataset(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/datasets/id", time.Since(start).Seconds(), c.Writer.Status())
	}()

	dataset, err := h.datasets.GetByID(c, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to get dataset")
		return
	}

	c.JSON(http.StatusOK, dataset)
}

// DeleteDataset removes a stored dataset.
func (h *RTAHandler) DeleteDataset(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("DELETE", "/datasets/id", time.Since(start).Seconds(), c.Writer.Status())
	}()

	if err := h.datasets.Delete(c, c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete dataset")
		return
	}

	c.Status(http.StatusNoContent)
}

// Analyze runs the full Blasingame pipeline and regime classification.
func (h *RTAHandler) Analyze(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/datasets/analysis", time.Since(start).Seconds(), c.Writer.Status())
	}()

	result, err := h.analysis.Analyze(c, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to analyze dataset")
		return
	}

	c.JSON(http.StatusOK, result)
}

type matchRequest struct {
	KH           float64 `json:"kh" binding:"required"`
	SkinFactor   float64 `json:"skin_factor"`
	DrainageArea float64 `json:"drainage_area" binding:"required"`
}

// EvaluateMatch is the interactive matching endpoint: one call per slider
// change.
func (h *RTAHandler) EvaluateMatch(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/datasets/match", time.Since(start).Seconds(), c.Writer.Status())
	}()

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match parameters"})
		return
	}

	result, err := h.analysis.EvaluateMatch(c, c.Param("id"), models.MatchParameters{
		KH:           req.KH,
		SkinFactor:   req.SkinFactor,
		DrainageArea: req.DrainageArea,
	})
	if err != nil {
		h.respondError(c, err, "Failed to evaluate match")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SaveMatch persists an accepted parameter set.
func (h *RTAHandler) SaveMatch(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("POST", "/datasets/matches", time.Since(start).Seconds(), c.Writer.Status())
	}()

	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid match parameters"})
		return
	}

	userID := ""
	if v, exists := c.Get("user_id"); exists {
		userID, _ = v.(string)
	}

	match, err := h.analysis.SaveMatch(c, c.Param("id"), userID, models.MatchParameters{
		KH:           req.KH,
		SkinFactor:   req.SkinFactor,
		DrainageArea: req.DrainageArea,
	})
	if err != nil {
		h.respondError(c, err, "Failed to save match")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// ListMatches lists saved matches for a dataset.
func (h *RTAHandler) ListMatches(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("GET", "/datasets/matches", time.Since(start).Seconds(), c.Writer.Status())
	}()

	matches, err := h.matches.ListByDataset(c, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Failed to list matches")
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// DeleteMatch removes a saved match.
func (h *RTAHandler) DeleteMatch(c *gin.Context) {
	start := time.Now()
	defer func() {
		service.RecordHTTPRequest("DELETE", "/matches/id", time.Since(start).Seconds(), c.Writer.Status())
	}()

	if err := h.matches.Delete(c, c.Param("id")); err != nil {
		h.respondError(c, err, "Failed to delete match")
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to HTTP statuses. Shape violations are
// caller bugs (400); degenerate series are reported as unprocessable rather
// than server failures.
func (h *RTAHandler) respondError(c *gin.Context, err error, msg string) {
	switch {
	case models.IsDataShapeError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDatasetNotFound),
		errors.Is(err, models.ErrMatchNotFound),
		errors.Is(err, models.ErrWellNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateImport):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDegenerateSeries):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No renderable curve: too few valid points"})
	default:
		h.log.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func parseFloatForm(c *gin.Context, field string) float64 {
	v, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return v
}
