package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cognigen/cognigen-backend/internal/http/response"
	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
	"github.com/cognigen/cognigen-backend/internal/platform/ctxutil"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

const maxBodyBytes = 1 << 20

type LearningPathHandler struct {
	log      *logger.Logger
	learning learningmod.Usecases
}

func NewLearningPathHandler(log *logger.Logger, learning learningmod.Usecases) *LearningPathHandler {
	return &LearningPathHandler{
		log:      log.With("handler", "LearningPathHandler"),
		learning: learning,
	}
}

// POST /api/learning-paths/generate
func (h *LearningPathHandler) GenerateLearningPath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req learningmod.GeneratePathInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID = userID

	path, err := h.learning.GeneratePath(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "learning_path_generate_failed")
		return
	}
	response.RespondCreated(c, path)
}

// GET /api/learning-paths
func (h *LearningPathHandler) ListLearningPaths(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rows, err := h.learning.ListPaths(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, err, "learning_path_list_failed")
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/learning-paths/:id
func (h *LearningPathHandler) GetLearningPath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	path, err := h.learning.GetPath(c.Request.Context(), userID, pathID)
	if err != nil {
		response.RespondErr(c, err, "learning_path_load_failed")
		return
	}
	response.RespondOK(c, path)
}

// PATCH /api/learning-paths/:id
func (h *LearningPathHandler) UpdateLearningPath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.UpdatePathInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID

	path, err := h.learning.UpdatePath(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "learning_path_update_failed")
		return
	}
	response.RespondOK(c, path)
}

// DELETE /api/learning-paths/:id
func (h *LearningPathHandler) DeleteLearningPath(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	if err := h.learning.DeletePath(c.Request.Context(), userID, pathID); err != nil {
		response.RespondErr(c, err, "learning_path_delete_failed")
		return
	}
	response.RespondMessage(c, "Learning path deleted successfully")
}

func requireUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_path_id", errors.New("invalid learning path id"))
		return uuid.Nil, false
	}
	return id, true
}

func cellIndexParam(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(strings.TrimSpace(c.Param("cellIndex")))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cell_index", errors.New("cell index must be an integer"))
		return 0, false
	}
	return idx, true
}

// bindBody decodes an optional JSON body into dst.
func bindBody(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return false
	}
	return true
}
