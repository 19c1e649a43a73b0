package http

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/votersetu/verification-api/internal/auth"
	"github.com/votersetu/verification-api/internal/business/fraud"
	"github.com/votersetu/verification-api/internal/business/registry"
	"github.com/votersetu/verification-api/internal/business/stats"
	"github.com/votersetu/verification-api/internal/repository"
	"github.com/votersetu/verification-api/pkg/model"
	"github.com/votersetu/verification-api/pkg/util"
)

// DuplicateGuard keeps voted markers so the same voter cannot be processed
// twice. A nil guard disables the check.
type DuplicateGuard interface {
	MarkVoted(ctx context.Context, voterID, terminalID string) error
	HasVoted(ctx context.Context, voterID string) (bool, error)
}

// AuditLedger appends verification audit records. A nil ledger disables
// audit writes.
type AuditLedger interface {
	RecordVerification(ctx context.Context, voterID, terminalID, stationID string, at time.Time) (string, error)
}

// Router wires HTTP handlers.
type Router struct {
	registry  *registry.Service
	voters    *repository.VoterRepository
	officers  *repository.OfficerRepository
	statsRepo *repository.StatsRepository
	tokens    *auth.Tokens
	guard     DuplicateGuard
	ledger    AuditLedger
	detector  *fraud.Detector
	origins   string
}

// Deps collects the router's collaborators.
type Deps struct {
	Registry       *registry.Service
	Voters         *repository.VoterRepository
	Officers       *repository.OfficerRepository
	Stats          *repository.StatsRepository
	Tokens         *auth.Tokens
	Guard          DuplicateGuard
	Ledger         AuditLedger
	Detector       *fraud.Detector
	AllowedOrigins string
}

func NewRouter(deps Deps) *gin.Engine {
	r := &Router{
		registry:  deps.Registry,
		voters:    deps.Voters,
		officers:  deps.Officers,
		statsRepo: deps.Stats,
		tokens:    deps.Tokens,
		guard:     deps.Guard,
		ledger:    deps.Ledger,
		detector:  deps.Detector,
		origins:   deps.AllowedOrigins,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/auth/login", r.login)

	api := router.Group("/api", auth.Middleware(r.tokens))
	{
		api.GET("/stations", r.listStations)
		api.GET("/stations/export", r.exportStations)
		api.GET("/stations/:id", r.getStation)
		api.GET("/voters/:id", r.getVoter)
		api.POST("/verify", r.verifyVoter)
		api.POST("/verify/identity", r.verifyIdentity)
		api.POST("/verify/biometric", r.verifyBiometric)

		admin := api.Group("", auth.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/stats", r.getStats)
			admin.POST("/stats/refresh", r.refreshStats)
			admin.GET("/stats/hourly", r.getHourlyStats)
		}
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *Router) login(c *gin.Context) {
	var req loginReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	officer, err := r.officers.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if officer == nil || officer.PasswordHash != util.HashCredential(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := r.tokens.Generate(officer.ID, officer.Username, officer.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": officer.Role})
}

func (r *Router) listStations(c *gin.Context) {
	state := c.Query("state")
	district := c.Query("district")

	var stations []model.PollingStation
	if state != "" {
		stations = r.registry.StationsByRegion(c.Request.Context(), state, district)
	} else {
		stations = r.registry.AllStations()
	}
	c.JSON(http.StatusOK, gin.H{"items": stations, "total": len(stations)})
}

func (r *Router) getStation(c *gin.Context) {
	station, ok := r.registry.StationByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}
	c.JSON(http.StatusOK, station)
}

func (r *Router) exportStations(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=polling_stations.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	header := []string{"station_id", "name", "address", "booth_number", "district", "state", "latitude", "longitude", "total_voters", "status"}
	if err := writer.Write(header); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	for _, s := range r.registry.AllStations() {
		row := []string{
			s.ID,
			s.Name,
			s.Address,
			s.BoothNumber,
			s.District,
			s.State,
			formatCoordinate(s.Location.Latitude),
			formatCoordinate(s.Location.Longitude),
			fmt.Sprintf("%d", s.TotalVoters),
			s.Status,
		}
		if err := writer.Write(row); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}

func formatCoordinate(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.4f", v)
}

func (r *Router) getVoter(c *gin.Context) {
	voter, err := r.registry.VoterByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if voter == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "voter not found"})
		return
	}
	c.JSON(http.StatusOK, voter)
}

type verifyReq struct {
	VoterID    string `json:"voterId"`
	Method     string `json:"method"`
	Outcome    string `json:"outcome"`
	Notes      string `json:"notes"`
	TerminalID string `json:"terminalId"`
	DurationMS int64  `json:"durationMs"`
}

func (r *Router) verifyVoter(c *gin.Context) {
	var req verifyReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.VoterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voterId is required"})
		return
	}
	claims, _ := auth.FromContext(c)
	ctx := c.Request.Context()

	if r.guard != nil {
		voted, err := r.guard.HasVoted(ctx, req.VoterID)
		if err != nil {
			log.Printf("voted-marker check failed for %s: %v", req.VoterID, err)
		} else if voted {
			c.JSON(http.StatusConflict, gin.H{"status": "rejected", "reason": "already_verified"})
			return
		}
	}

	voter, err := r.registry.VoterByID(ctx, req.VoterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if voter == nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "failed", "reason": "voter_not_found"})
		return
	}

	if err := r.registry.VerifyVoter(ctx, req.VoterID, claims.OfficerID, req.Method, req.Outcome, req.Notes); err != nil {
		switch {
		case errors.Is(err, registry.ErrVoterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"status": "failed", "reason": "voter_not_found"})
		case errors.Is(err, registry.ErrInvalidOutcome):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var check fraud.Check
	if r.detector != nil {
		check = r.detector.Inspect(fraud.Event{
			VoterID:    req.VoterID,
			TerminalID: req.TerminalID,
			StationID:  voter.PollingStationID,
			Duration:   time.Duration(req.DurationMS) * time.Millisecond,
		})
	}

	var txID string
	if r.ledger != nil {
		txID, err = r.ledger.RecordVerification(ctx, req.VoterID, req.TerminalID, voter.PollingStationID, time.Now())
		if err != nil {
			log.Printf("ledger audit write failed for %s: %v", req.VoterID, err)
		}
	}

	if r.guard != nil {
		if err := r.guard.MarkVoted(ctx, req.VoterID, req.TerminalID); err != nil {
			log.Printf("voted-marker write failed for %s: %v", req.VoterID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     req.Outcome,
		"fraudCheck": check,
		"ledgerTxId": txID,
	})
}

type identityReq struct {
	VoterID  string `json:"voterId"`
	FullName string `json:"fullName"`
}

func (r *Router) verifyIdentity(c *gin.Context) {
	var req identityReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	result, err := r.registry.VerifyVoterByIdentity(c.Request.Context(), req.VoterID, req.FullName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type biometricReq struct {
	VoterID       string `json:"voterId"`
	CapturedImage string `json:"capturedImage"`
	IDImage       string `json:"idImage"`
}

func (r *Router) verifyBiometric(c *gin.Context) {
	var req biometricReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.CapturedImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capturedImage is required"})
		return
	}
	result, err := r.registry.VerifyVoterByBiometric(c.Request.Context(), req.VoterID, req.CapturedImage, req.IDImage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (r *Router) getStats(c *gin.Context) {
	sysStats, err := r.statsRepo.GetSystemStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sysStats)
}

func (r *Router) refreshStats(c *gin.Context) {
	ctx := c.Request.Context()

	sysStats := stats.AggregateSystemStats(r.registry.AllStations())

	voters, err := r.voters.FetchAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch voters: " + err.Error()})
		return
	}
	sysStats.PendingVoters = stats.CountPending(voters)

	if err := r.statsRepo.SaveSystemStats(ctx, sysStats); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save stats: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, sysStats)
}

func (r *Router) getHourlyStats(c *gin.Context) {
	voters, err := r.voters.FetchAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": stats.HourlyHistogram(voters, time.Local)})
}
