package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cognigen/cognigen-backend/internal/http/response"
	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
)

// POST /api/learning-paths/:id/topics/:topicId/submodules
func (h *LearningPathHandler) AddSubmodule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.AddSubmoduleInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID, req.TopicID = userID, pathID, c.Param("topicId")

	sub, err := h.learning.AddSubmodule(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "submodule_add_failed")
		return
	}
	response.RespondCreated(c, sub)
}

// PATCH /api/learning-paths/:id/topics/:topicId/submodules/:subId
func (h *LearningPathHandler) UpdateSubmodule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.UpdateSubmoduleInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID
	req.TopicID, req.SubmoduleID = c.Param("topicId"), c.Param("subId")

	sub, err := h.learning.UpdateSubmodule(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "submodule_update_failed")
		return
	}
	response.RespondOK(c, sub)
}

// DELETE /api/learning-paths/:id/topics/:topicId/submodules/:subId
func (h *LearningPathHandler) DeleteSubmodule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	if _, err := h.learning.DeleteSubmodule(c.Request.Context(), userID, pathID, c.Param("topicId"), c.Param("subId")); err != nil {
		response.RespondErr(c, err, "submodule_delete_failed")
		return
	}
	response.RespondMessage(c, "Submodule deleted")
}

// PATCH /api/learning-paths/:id/topics/:topicId/reorder-submodules
func (h *LearningPathHandler) ReorderSubmodules(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.ReorderSubmodulesInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID, req.TopicID = userID, pathID, c.Param("topicId")

	topic, err := h.learning.ReorderSubmodules(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "submodule_reorder_failed")
		return
	}
	response.RespondOK(c, topic)
}

// PATCH /api/learning-paths/:id/topics/:topicId/submodules/:subId/complete
func (h *LearningPathHandler) MarkSubmoduleComplete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	path, err := h.learning.MarkSubmoduleComplete(c.Request.Context(), userID, pathID, c.Param("topicId"), c.Param("subId"))
	if err != nil {
		response.RespondErr(c, err, "submodule_complete_failed")
		return
	}
	response.RespondOK(c, path)
}

type generateQuizResponse struct {
	Success          bool `json:"success"`
	UpdatedSubmodule any  `json:"updatedSubmodule"`
}

// POST /api/learning-paths/:id/topics/:topicId/submodules/:subId/generate-quiz
func (h *LearningPathHandler) GenerateMiniQuiz(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	sub, err := h.learning.GenerateMiniQuiz(c.Request.Context(), userID, pathID, c.Param("topicId"), c.Param("subId"))
	if err != nil {
		response.RespondErr(c, err, "quiz_generation_failed")
		return
	}
	response.RespondOK(c, generateQuizResponse{Success: true, UpdatedSubmodule: sub})
}
