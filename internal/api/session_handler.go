package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"alcyxob/coaching-platform/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler drives a client's live workout session.
type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// StartSessionRequest optionally names the workout activity to run. Without it the
// workout scheduled for today is used.
type StartSessionRequest struct {
	ActivityID string `json:"activityId"`
}

// UpdateSetRequest patches one set slot of an exercise.
type UpdateSetRequest struct {
	ExerciseID string   `json:"exerciseId" binding:"required"`
	Index      int      `json:"index" binding:"min=0"`
	Weight     *float64 `json:"weight"`
	Reps       *int     `json:"reps"`
	Completed  *bool    `json:"completed"`
}

// SelectRoundRequest jumps to a round of a superset group.
type SelectRoundRequest struct {
	Round int `json:"round" binding:"min=1"`
}

// FinishSessionRequest closes a session with the client's feedback.
type FinishSessionRequest struct {
	EffortRating int    `json:"effortRating" binding:"min=0,max=10"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// ActiveSessionResponse points at the client's running session.
type ActiveSessionResponse struct {
	SessionID string       `json:"sessionId"`
	View      session.View `json:"session"`
}

// sessionAction runs one session call for the path's session id and the current user.
type sessionAction func(c *gin.Context, sessionID string, clientID primitive.ObjectID) (session.View, error)

// handle wraps an action with identity checks and the common response. Failed actions
// that produced a snapshot still report it so the client can re-render.
func (h *SessionHandler) handle(action sessionAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID, ok := currentUser(c)
		if !ok {
			return
		}
		view, err := action(c, c.Param("sessionId"), clientID)
		if err != nil {
			code := statusFor(err)
			if code == http.StatusConflict || code == http.StatusBadRequest {
				c.AbortWithStatusJSON(code, gin.H{"error": err.Error(), "session": view})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Router /client/sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}
	var activityID *primitive.ObjectID
	if req.ActivityID != "" {
		id, err := primitive.ObjectIDFromHex(req.ActivityID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid activityId format.")
			return
		}
		activityID = &id
	}

	started, err := h.sessionService.Start(c.Request.Context(), clientID, activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, started)
}

// @Router /client/sessions/active [get]
func (h *SessionHandler) Active(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	id, found := h.sessionService.Active(clientID)
	if !found {
		abortWithError(c, http.StatusNotFound, session.ErrSessionNotFound.Error())
		return
	}
	view, err := h.sessionService.View(id, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ActiveSessionResponse{SessionID: id, View: view})
}

// @Router /client/sessions/{sessionId} [get]
func (h *SessionHandler) View() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.View(id, clientID)
	})
}

// @Router /client/sessions/{sessionId}/begin [post]
func (h *SessionHandler) Begin() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.Begin(id, clientID)
	})
}

// @Router /client/sessions/{sessionId}/screening/exclusions [post]
func (h *SessionHandler) SubmitExclusions() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req domain.Exclusions
		if err := c.ShouldBindJSON(&req); err != nil {
			return session.View{}, domain.NewValidationError("body", err.Error())
		}
		return h.sessionService.SubmitExclusions(id, clientID, req)
	})
}

// @Router /client/sessions/{sessionId}/screening/vitals [post]
func (h *SessionHandler) SubmitVitals() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req domain.Vitals
		if err := c.ShouldBindJSON(&req); err != nil {
			return session.View{}, domain.NewValidationError("body", err.Error())
		}
		return h.sessionService.SubmitVitals(id, clientID, req)
	})
}

// @Router /client/sessions/{sessionId}/screening/sequelae [post]
func (h *SessionHandler) ConfirmSequelae() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req domain.Sequelae
		if err := c.ShouldBindJSON(&req); err != nil {
			return session.View{}, domain.NewValidationError("body", err.Error())
		}
		return h.sessionService.ConfirmSequelae(id, clientID, req)
	})
}

// @Router /client/sessions/{sessionId}/pause [post]
func (h *SessionHandler) Pause() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.Pause(id, clientID)
	})
}

// @Router /client/sessions/{sessionId}/resume [post]
func (h *SessionHandler) Resume() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.Resume(id, clientID)
	})
}

// @Router /client/sessions/{sessionId}/sets [put]
func (h *SessionHandler) UpdateSet() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req UpdateSetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return session.View{}, domain.NewValidationError("body", err.Error())
		}
		exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
		if err != nil || exerciseID.IsZero() {
			return session.View{}, domain.NewValidationError("exerciseId", "is not a valid id")
		}
		patch := session.SetPatch{Weight: req.Weight, Reps: req.Reps, Completed: req.Completed}
		return h.sessionService.UpdateSet(id, clientID, exerciseID, req.Index, patch)
	})
}

// @Router /client/sessions/{sessionId}/groups/{groupKey}/advance [post]
func (h *SessionHandler) AdvanceRound() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.AdvanceRound(id, clientID, c.Param("groupKey"))
	})
}

// @Router /client/sessions/{sessionId}/groups/{groupKey}/round [put]
func (h *SessionHandler) SelectRound() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req SelectRoundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return session.View{}, domain.NewValidationError("round", err.Error())
		}
		return h.sessionService.SelectRound(id, clientID, c.Param("groupKey"), req.Round)
	})
}

// @Router /client/sessions/{sessionId}/finish [post]
func (h *SessionHandler) Finish() gin.HandlerFunc {
	return h.handle(func(c *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		var req FinishSessionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				return session.View{}, domain.NewValidationError("body", err.Error())
			}
		}
		return h.sessionService.Finish(c.Request.Context(), id, clientID, req.EffortRating, req.Notes)
	})
}

// @Router /client/sessions/{sessionId}/dismiss [post]
func (h *SessionHandler) Dismiss() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.Dismiss(id, clientID)
	})
}

// @Router /client/sessions/{sessionId}/cancel [post]
func (h *SessionHandler) Cancel() gin.HandlerFunc {
	return h.handle(func(_ *gin.Context, id string, clientID primitive.ObjectID) (session.View, error) {
		return h.sessionService.Cancel(id, clientID)
	})
}
