package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"

	"github.com/abhisek/masterysheet/internal/model"
	"github.com/abhisek/masterysheet/internal/sheet"
	"github.com/abhisek/masterysheet/internal/store"
)

const maxBodyBytes = 1 << 20

// Error messages returned in the "error" field.
const (
	msgInvalidMastery = "Invalid mastery"
	msgInvalidSkill   = "Invalid character skill"
	msgInvalidID      = "Invalid id"
	msgNotFound       = "Character skill not found"
	msgDuplicate      = "Character skill already exists"
	msgInternal       = "Internal server error"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	skills       store.SkillRepo
	logger       *zap.Logger
	origins      []string
	updateSchema *jsonschema.Schema
	createSchema *jsonschema.Schema
}

// NewHandler creates a new API handler. origins lists the CORS origins
// allowed to call the API; nil allows any.
func NewHandler(skills store.SkillRepo, logger *zap.Logger, origins []string) (*Handler, error) {
	update, err := compileSchema("character-skill-update", updateSchema())
	if err != nil {
		return nil, err
	}
	create, err := compileSchema("character-skill-create", createSchema())
	if err != nil {
		return nil, err
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return &Handler{
		skills:       skills,
		logger:       logger,
		origins:      origins,
		updateSchema: update,
		createSchema: create,
	}, nil
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
	}))

	r.Get("/health", h.healthCheck)

	r.Route("/character-skill", func(r chi.Router) {
		r.Post("/", h.createSkill)
		r.Get("/{id}", h.getSkill)
		r.Patch("/{id}", h.updateSkill)
		r.Get("/{id}/history", h.skillHistory)
	})

	r.Route("/character/{id}", func(r chi.Router) {
		r.Get("/", h.characterSheet)
		r.Get("/skills", h.characterSkills)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createSkill(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := validateBody(h.createSchema, raw); err != nil {
		h.logger.Debug("rejected create body", zap.Error(err))
		writeError(w, http.StatusBadRequest, msgInvalidSkill)
		return
	}

	var in model.CharacterSkillCreate
	if err := json.Unmarshal(raw, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidSkill)
		return
	}

	skill, err := h.skills.Create(r.Context(), in)
	if err != nil {
		h.writeStoreError(w, r, "create character skill", err)
		return
	}
	writeJSON(w, http.StatusCreated, skill)
}

func (h *Handler) getSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	skill, err := h.skills.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "get character skill", err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (h *Handler) updateSkill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if err := validateBody(h.updateSchema, raw); err != nil {
		h.logger.Debug("rejected update body", zap.Uint("skill_id", id), zap.Error(err))
		writeError(w, http.StatusBadRequest, msgInvalidMastery)
		return
	}

	var in model.CharacterSkillUpdate
	if err := json.Unmarshal(raw, &in); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidMastery)
		return
	}

	skill, err := h.skills.UpdateMastery(r.Context(), id, in.Mastery, middleware.GetReqID(r.Context()))
	if err != nil {
		h.writeStoreError(w, r, "update mastery", err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

func (h *Handler) skillHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	if _, err := h.skills.Get(r.Context(), id); err != nil {
		h.writeStoreError(w, r, "get character skill", err)
		return
	}
	changes, err := h.skills.History(r.Context(), id, limit)
	if err != nil {
		h.writeStoreError(w, r, "mastery history", err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}

func (h *Handler) characterSkills(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	skills, err := h.skills.ListByCharacter(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "list character skills", err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// characterSheet renders the skills of a character as HTML display cells.
func (h *Handler) characterSheet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	skills, err := h.skills.ListByCharacter(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, "list character skills", err)
		return
	}

	board := sheet.NewBoard()
	for _, s := range skills {
		board.Add(sheet.IDFromUint(s.ID), s.Name, s.Mastery)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := sheet.RenderHTML(w, fmt.Sprintf("Character %d", id), board); err != nil {
		h.logger.Error("render character sheet", zap.Uint("character_id", id), zap.Error(err))
	}
}

func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	return raw, true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, msgDuplicate)
	default:
		h.logger.Error(op,
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
