package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cognigen/cognigen-backend/internal/http/response"
	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
)

// POST /api/learning-paths/:id/topics/:topicId/submodules/:subId/cells
func (h *LearningPathHandler) AddCell(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.AddCellInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID
	req.TopicID, req.SubmoduleID = c.Param("topicId"), c.Param("subId")

	sub, err := h.learning.AddCell(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "cell_add_failed")
		return
	}
	response.RespondCreated(c, sub)
}

// PATCH /api/learning-paths/:id/topics/:topicId/submodules/:subId/cells/:cellIndex
func (h *LearningPathHandler) UpdateCell(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	idx, ok := cellIndexParam(c)
	if !ok {
		return
	}
	var req learningmod.UpdateCellInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID, req.Index = userID, pathID, idx
	req.TopicID, req.SubmoduleID = c.Param("topicId"), c.Param("subId")

	sub, err := h.learning.UpdateCell(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "cell_update_failed")
		return
	}
	response.RespondOK(c, sub)
}

// DELETE /api/learning-paths/:id/topics/:topicId/submodules/:subId/cells/:cellIndex
func (h *LearningPathHandler) DeleteCell(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	idx, ok := cellIndexParam(c)
	if !ok {
		return
	}
	sub, err := h.learning.DeleteCell(c.Request.Context(), userID, pathID, c.Param("topicId"), c.Param("subId"), idx)
	if err != nil {
		response.RespondErr(c, err, "cell_delete_failed")
		return
	}
	response.RespondOK(c, sub)
}

// PATCH /api/learning-paths/:id/topics/:topicId/submodules/:subId/reorder-cells
func (h *LearningPathHandler) ReorderCells(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.ReorderCellsInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID
	req.TopicID, req.SubmoduleID = c.Param("topicId"), c.Param("subId")

	sub, err := h.learning.ReorderCells(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "cell_reorder_failed")
		return
	}
	response.RespondOK(c, sub)
}
