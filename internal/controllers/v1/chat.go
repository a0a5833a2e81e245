package v1

import (
	"net/http"

	"github.com/finadvisor/backend/internal/budget"
	"github.com/finadvisor/backend/internal/chat"
	"github.com/finadvisor/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// titleLength bounds session titles derived from the first message.
const titleLength = 30

// RegisterChatRoutes registers the chat routes with the RouterGroup
// that is passed. All of them require authentication.
func RegisterChatRoutes(r *gin.RouterGroup, service *budget.Service, client *chat.Client) {
	r.POST("", SendMessage(service, client))

	{
		r.GET("/sessions", GetSessions)
		r.POST("/sessions", CreateSession)
		r.DELETE("/sessions/:id", DeleteSession)
		r.GET("/sessions/:id/messages", GetMessages)
	}
}

// getSession loads a session of the authenticated user. Sessions of
// other users are indistinguishable from absent ones.
func getSession(c *gin.Context, id uuid.UUID) (models.ChatSession, error) {
	var session models.ChatSession
	err := models.DB.Where("id = ? AND user_id = ?", id, userID(c)).First(&session).Error
	return session, err
}

func sessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleLength {
		return string(runes[:titleLength])
	}

	return message
}

// @Summary      Send a message
// @Description  Stores the message, asks the AI for a reply and returns it. Creates a session when no session ID is given
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      ChatRequest  true  "Message"
// @Success      200      {object}  ChatResponse
// @Failure      400      {object}  httpError
// @Failure      404      {object}  httpError
// @Failure      502      {object}  httpError
// @Router       /v1/chat [post]
func SendMessage(service *budget.Service, client *chat.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request ChatRequest
		if err := bindData(c, &request); err != nil {
			return
		}

		var session models.ChatSession
		if request.SessionID != nil {
			var err error
			if session, err = getSession(c, *request.SessionID); err != nil {
				serviceError(c, err)
				return
			}
		} else {
			session = models.ChatSession{
				UserID:      userID(c),
				Title:       sessionTitle(request.Message),
				SessionType: models.SessionTypeChat,
			}
			if request.BudgetMode {
				session.SessionType = models.SessionTypeBudget
			}

			if err := models.DB.Create(&session).Error; err != nil {
				serviceError(c, err)
				return
			}
		}

		var history []models.ChatMessage
		if err := models.DB.Where(&models.ChatMessage{SessionID: session.ID}).Order("created_at ASC").Find(&history).Error; err != nil {
			serviceError(c, err)
			return
		}

		var snapshots []budget.PeriodSnapshot
		if request.BudgetMode || session.SessionType == models.SessionTypeBudget {
			var err error
			if snapshots, err = service.Snapshot(c.Request.Context(), owner(c)); err != nil {
				serviceError(c, err)
				return
			}
		}

		userMessage := models.ChatMessage{SessionID: session.ID, Role: models.RoleUser, Content: request.Message}
		if err := models.DB.Create(&userMessage).Error; err != nil {
			serviceError(c, err)
			return
		}

		reply, err := client.Complete(c.Request.Context(), chat.BuildContext(history, snapshots, request.Message))
		if err != nil {
			serviceError(c, err)
			return
		}

		assistantMessage := models.ChatMessage{SessionID: session.ID, Role: models.RoleAssistant, Content: reply}
		if err := models.DB.Create(&assistantMessage).Error; err != nil {
			serviceError(c, err)
			return
		}

		c.JSON(http.StatusOK, ChatResponse{Data: ChatReply{SessionID: session.ID, Message: assistantMessage}})
	}
}

// @Summary      List sessions
// @Tags         Chat
// @Produce      json
// @Success      200  {object}  SessionListResponse
// @Router       /v1/chat/sessions [get]
func GetSessions(c *gin.Context) {
	var sessions []models.ChatSession
	if err := models.DB.Where(&models.ChatSession{UserID: userID(c)}).Order("updated_at DESC").Find(&sessions).Error; err != nil {
		serviceError(c, err)
		return
	}

	info := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		var count int64
		if err := models.DB.Model(&models.ChatMessage{}).Where(&models.ChatMessage{SessionID: session.ID}).Count(&count).Error; err != nil {
			serviceError(c, err)
			return
		}

		info = append(info, SessionInfo{ChatSession: session, MessageCount: count})
	}

	c.JSON(http.StatusOK, SessionListResponse{Data: info})
}

// @Summary      Create a session
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        session  body      SessionEditable  true  "Session"
// @Success      201      {object}  SessionResponse
// @Failure      400      {object}  httpError
// @Router       /v1/chat/sessions [post]
func CreateSession(c *gin.Context) {
	var editable SessionEditable
	if err := bindData(c, &editable); err != nil {
		return
	}

	session := models.ChatSession{
		UserID:      userID(c),
		Title:       editable.Title,
		SessionType: editable.SessionType,
	}
	if session.SessionType == "" {
		session.SessionType = models.SessionTypeChat
	}

	if err := models.DB.Create(&session).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Data: session})
}

// @Summary      Delete a session
// @Description  Deletes the session and all of its messages
// @Tags         Chat
// @Param        id  path  string  true  "ID of the session"
// @Success      204
// @Failure      400  {object}  httpError
// @Failure      404  {object}  httpError
// @Router       /v1/chat/sessions/{id} [delete]
func DeleteSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	session, err := getSession(c, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(&models.ChatMessage{SessionID: session.ID}).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}

		return tx.Delete(&session).Error
	})
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary      List messages
// @Description  Returns the messages of a session, oldest first
// @Tags         Chat
// @Produce      json
// @Param        id  path      string  true  "ID of the session"
// @Success      200  {object}  MessageListResponse
// @Failure      400  {object}  httpError
// @Failure      404  {object}  httpError
// @Router       /v1/chat/sessions/{id}/messages [get]
func GetMessages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	session, err := getSession(c, id)
	if err != nil {
		serviceError(c, err)
		return
	}

	var messages []models.ChatMessage
	if err := models.DB.Where(&models.ChatMessage{SessionID: session.ID}).Order("created_at ASC").Find(&messages).Error; err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageListResponse{Data: messages})
}
