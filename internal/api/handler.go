package api

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-risk-zones/internal/activity"
	"github.com/mr1hm/go-risk-zones/internal/export"
	"github.com/mr1hm/go-risk-zones/internal/models"
	"github.com/mr1hm/go-risk-zones/internal/repository"
)

type Handler struct {
	repo        repository.SnapshotRepository
	broadcaster *activity.Broadcaster
	logger      *slog.Logger

	// serialises POSTs so the diff for the activity feed sees a stable
	// previous snapshot
	saveMu sync.Mutex
}

func NewHandler(repo repository.SnapshotRepository, broadcaster *activity.Broadcaster, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/zones", h.getZones)
	r.POST("/zones", h.saveZones)
	r.GET("/zones/export", h.exportZones)
	r.GET("/zones/activity", h.streamActivity)
	r.GET("/health", h.health)
}

func (h *Handler) getZones(c *gin.Context) {
	snap, err := h.repo.Load(c.Request.Context())
	if errors.Is(err, models.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no zones saved yet",
		})
		return
	}
	if err != nil {
		h.logger.Error("failed to load zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load zones",
		})
		return
	}

	c.JSON(http.StatusOK, snap)
}

func (h *Handler) saveZones(c *gin.Context) {
	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()

	h.saveMu.Lock()
	defer h.saveMu.Unlock()

	var prevLogs []models.ZoneLog
	prev, err := h.repo.Load(ctx)
	switch {
	case err == nil:
		prevLogs = prev.Logs
	case !errors.Is(err, models.ErrSnapshotNotFound):
		h.logger.Warn("could not read previous snapshot", "error", err)
	}

	if err := h.repo.Save(ctx, &snap); err != nil {
		h.logger.Error("failed to save zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save zones",
		})
		return
	}

	published := 0
	if h.broadcaster != nil {
		published = h.broadcaster.PublishNew(prevLogs, snap.Logs)
	}

	h.logger.Info("zones saved", "zones", len(snap.Zones), "logs", len(snap.Logs), "new_entries", published)
	c.JSON(http.StatusOK, models.SaveResult{
		Success: true,
		Zones:   len(snap.Zones),
		Logs:    len(snap.Logs),
	})
}

func (h *Handler) exportZones(c *gin.Context) {
	snap, err := h.repo.Load(c.Request.Context())
	if errors.Is(err, models.ErrSnapshotNotFound) {
		snap = models.EmptySnapshot()
	} else if err != nil {
		h.logger.Error("failed to load zones", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to load zones",
		})
		return
	}

	data, err := export.Marshal(snap.Zones)
	if err != nil {
		h.logger.Error("failed to build geojson", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to export zones",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

func (h *Handler) streamActivity(c *gin.Context) {
	if h.broadcaster == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "activity feed disabled",
		})
		return
	}

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	h.logger.Info("client subscribed to zone activity", "subscriber_id", id)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	ctx := c.Request.Context()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("client disconnected from zone activity", "subscriber_id", id)
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("zone-log", e)
			c.Writer.Flush()
		}
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
