package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cognigen/cognigen-backend/internal/http/response"
	learningmod "github.com/cognigen/cognigen-backend/internal/modules/learning"
)

// POST /api/learning-paths/:id/topics
func (h *LearningPathHandler) AddTopic(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.AddTopicInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID

	topic, err := h.learning.AddTopic(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "topic_add_failed")
		return
	}
	response.RespondCreated(c, topic)
}

// PATCH /api/learning-paths/:id/topics/:topicId
func (h *LearningPathHandler) UpdateTopic(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.UpdateTopicInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID, req.TopicID = userID, pathID, c.Param("topicId")

	topic, err := h.learning.UpdateTopic(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "topic_update_failed")
		return
	}
	response.RespondOK(c, topic)
}

// DELETE /api/learning-paths/:id/topics/:topicId
func (h *LearningPathHandler) DeleteTopic(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	if _, err := h.learning.DeleteTopic(c.Request.Context(), userID, pathID, c.Param("topicId")); err != nil {
		response.RespondErr(c, err, "topic_delete_failed")
		return
	}
	response.RespondMessage(c, "Topic deleted")
}

// PATCH /api/learning-paths/:id/reorder-topics
func (h *LearningPathHandler) ReorderTopics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.ReorderTopicsInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID = userID, pathID

	path, err := h.learning.ReorderTopics(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "topic_reorder_failed")
		return
	}
	response.RespondOK(c, path)
}

type generateContentResponse struct {
	Success      bool `json:"success"`
	UpdatedTopic any  `json:"updatedTopic"`
}

// POST /api/learning-paths/:id/topics/:topicId/generate-content
func (h *LearningPathHandler) GenerateTopicContent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	pathID, ok := pathIDParam(c)
	if !ok {
		return
	}
	var req learningmod.GenerateTopicContentInput
	if !bindBody(c, &req) {
		return
	}
	req.UserID, req.PathID, req.TopicID = userID, pathID, c.Param("topicId")

	topic, err := h.learning.GenerateTopicContent(c.Request.Context(), req)
	if err != nil {
		response.RespondErr(c, err, "content_generation_failed")
		return
	}
	response.RespondOK(c, generateContentResponse{Success: true, UpdatedTopic: topic})
}
