package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/hammamikhairi/chefai/internal/chef"
	"github.com/hammamikhairi/chefai/internal/domain"
)

// maxUploadBytes leaves room for the multipart envelope around the image.
const maxUploadBytes = chef.MaxImageBytes + 1<<20

type errorBody struct {
	Error string `json:"error"`
}

type quotaBody struct {
	*domain.QuotaError
	ResetSeconds int `json:"reset_seconds"`
}

type dishBody struct {
	ID       string         `json:"id"`
	Recipe   *domain.Recipe `json:"recipe"`
	ImageURL string         `json:"image_url"`
}

type playRequest struct {
	From int `json:"from"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ── Recipes ─────────────────────────────────────────────────────

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart form with an image")
		return
	}

	meal, err := domain.ParseMealType(r.FormValue("meal_type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}
	img, err := chef.DecodeImage(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dish, err := s.cook.Cook(r.Context(), img, meal)
	if err != nil {
		var qe *domain.QuotaError
		if errors.As(err, &qe) {
			writeJSON(w, http.StatusTooManyRequests, quotaBody{
				QuotaError:   qe,
				ResetSeconds: int(qe.ResetWindow.Seconds()),
			})
			return
		}
		s.log.Error("cook failed: %v", err)
		writeError(w, http.StatusBadGateway, "could not generate a recipe, try another photo")
		return
	}

	id := uuid.NewString()
	s.setCurrent(id, dish)
	writeJSON(w, http.StatusOK, dishBody{ID: id, Recipe: dish.Recipe, ImageURL: dish.ImageURL})
}

func (s *Server) currentRecipe(w http.ResponseWriter, _ *http.Request) {
	id, dish, _ := s.snapshot()
	if dish == nil {
		writeError(w, http.StatusNotFound, "no recipe yet")
		return
	}
	writeJSON(w, http.StatusOK, dishBody{ID: id, Recipe: dish.Recipe, ImageURL: dish.ImageURL})
}

// ── Speech control ──────────────────────────────────────────────

func (s *Server) speechPlay(w http.ResponseWriter, r *http.Request) {
	_, dish, segments := s.snapshot()
	if dish == nil {
		writeError(w, http.StatusConflict, "no recipe to read")
		return
	}

	var req playRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid play request")
			return
		}
	}
	if err := s.speech.Play(segments, req.From); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.speech.Status())
}

func (s *Server) speechPause(w http.ResponseWriter, _ *http.Request) {
	s.speech.Pause()
	writeJSON(w, http.StatusOK, s.speech.Status())
}

func (s *Server) speechResume(w http.ResponseWriter, _ *http.Request) {
	s.speech.Resume()
	writeJSON(w, http.StatusOK, s.speech.Status())
}

func (s *Server) speechStop(w http.ResponseWriter, _ *http.Request) {
	s.speech.Stop()
	writeJSON(w, http.StatusOK, s.speech.Status())
}

func (s *Server) speechStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.speech.Status())
}

func (s *Server) speechSelfTest(w http.ResponseWriter, r *http.Request) {
	if err := s.speech.SelfTest(r.Context()); err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, domain.ErrNoListeners) && !errors.Is(err, domain.ErrBackendUnavailable) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
