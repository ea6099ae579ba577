package handlers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lienquan/karahub/backend/internal/models"
	"github.com/lienquan/karahub/backend/internal/repositories"
	"github.com/lienquan/karahub/backend/pkg/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SongHandler handles song catalog HTTP requests (admin)
type SongHandler struct {
	songRepository repositories.SongRepository
	media          *storage.MediaStorage
}

// NewSongHandler creates a new SongHandler
func NewSongHandler(songRepo repositories.SongRepository, media *storage.MediaStorage) *SongHandler {
	return &SongHandler{
		songRepository: songRepo,
		media:          media,
	}
}

// RegisterSongRoutes registers public song routes
func (h *SongHandler) RegisterSongRoutes(g *echo.Group) {
	g.GET("/songs", h.ListSongs)
	g.GET("/songs/:id", h.GetSong)
}

// RegisterAdminSongRoutes registers admin catalog routes
func (h *SongHandler) RegisterAdminSongRoutes(g *echo.Group) {
	g.POST("/songs", h.CreateSong)
	g.PUT("/songs/:id", h.UpdateSong)
	g.DELETE("/songs/:id", h.DeleteSong)
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// CreateSong creates a catalog entry, hosting the audio and cover in object
// storage.
func (h *SongHandler) CreateSong(c echo.Context) error {
	req := models.CreateSongRequest{
		Title:  c.FormValue("title"),
		Artist: c.FormValue("artist"),
		Genre:  c.FormValue("genre"),
		Lyrics: c.FormValue("lyrics"),
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	song := &models.Song{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Artist:    req.Artist,
		Genre:     req.Genre,
		Lyrics:    req.Lyrics,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if fh, err := c.FormFile("audio"); err == nil {
		data, err := readFormFile(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read audio file")
		}
		audioURL, err := h.media.Put(data, fmt.Sprintf("songs/%s/audio", song.ID), fh.Header.Get("Content-Type"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		song.AudioURL = audioURL
	}

	if fh, err := c.FormFile("cover"); err == nil {
		data, err := readFormFile(fh)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read cover file")
		}
		coverURL, err := h.media.Put(data, fmt.Sprintf("songs/%s/cover", song.ID), fh.Header.Get("Content-Type"))
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		song.CoverURL = coverURL
	}

	if err := h.songRepository.CreateSong(song); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": song})
}

// ListSongs returns a paginated song catalog page.
func (h *SongHandler) ListSongs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	songs, total, err := h.songRepository.ListSongs(page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"songs": songs},
		"meta": echo.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalItems":  total,
		},
	})
}

// GetSong returns one catalog entry.
func (h *SongHandler) GetSong(c echo.Context) error {
	song, err := h.songRepository.GetSongByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Song not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": song})
}

// UpdateSong updates catalog metadata.
func (h *SongHandler) UpdateSong(c echo.Context) error {
	song, err := h.songRepository.GetSongByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Song not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req models.UpdateSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Title != "" {
		song.Title = req.Title
	}
	if req.Artist != "" {
		song.Artist = req.Artist
	}
	if req.Genre != "" {
		song.Genre = req.Genre
	}
	if req.Lyrics != "" {
		song.Lyrics = req.Lyrics
	}
	song.UpdatedAt = time.Now()

	if err := h.songRepository.UpdateSong(song); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": song})
}

// DeleteSong removes the entry and its hosted assets. Storage deletion is
// best-effort; the row delete is the authoritative write.
func (h *SongHandler) DeleteSong(c echo.Context) error {
	song, err := h.songRepository.GetSongByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Song not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.songRepository.DeleteSong(song.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, assetURL := range []string{song.AudioURL, song.CoverURL} {
		if assetURL == "" {
			continue
		}
		if err := h.media.Delete(assetURL); err != nil {
			logrus.WithError(err).WithField("url", assetURL).Warn("failed to delete song asset")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
