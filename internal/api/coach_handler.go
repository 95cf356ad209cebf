package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler serves workout and program authoring plus client assignments.
type CoachHandler struct {
	workoutService    service.WorkoutService
	programService    service.ProgramService
	assignmentService service.AssignmentService
	rosterService     service.RosterService
	logStore          service.LogStore
}

func NewCoachHandler(
	workoutService service.WorkoutService,
	programService service.ProgramService,
	assignmentService service.AssignmentService,
	rosterService service.RosterService,
	logStore service.LogStore,
) *CoachHandler {
	return &CoachHandler{
		workoutService:    workoutService,
		programService:    programService,
		assignmentService: assignmentService,
		rosterService:     rosterService,
		logStore:          logStore,
	}
}

// AssignProgramRequest assigns a program starting on a calendar date.
type AssignProgramRequest struct {
	ProgramID string `json:"programId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"` // YYYY-MM-DD
}

// AddClientRequest links an existing client account by email.
type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// WorkoutResponse is a workout with its blocks clustered into exercise groups.
type WorkoutResponse struct {
	*domain.Workout
	Groups [][]domain.ExerciseGroup `json:"groups"`
}

func (h *CoachHandler) workoutResponse(w *domain.Workout) WorkoutResponse {
	resp := WorkoutResponse{Workout: w, Groups: make([][]domain.ExerciseGroup, len(w.Blocks))}
	for i := range w.Blocks {
		resp.Groups[i] = h.workoutService.GroupBlock(&w.Blocks[i])
	}
	return resp
}

// --- Workouts ---

// @Router /coach/workouts [post]
func (h *CoachHandler) CreateWorkout(c *gin.Context) {
	h.saveWorkout(c, primitive.NilObjectID, http.StatusCreated)
}

// @Router /coach/workouts/{workoutId} [put]
func (h *CoachHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := paramID(c, "workoutId")
	if !ok {
		return
	}
	h.saveWorkout(c, workoutID, http.StatusOK)
}

func (h *CoachHandler) saveWorkout(c *gin.Context, workoutID primitive.ObjectID, status int) {
	coachID, ok := currentUser(c)
	if !ok {
		return
	}
	var req domain.Workout
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	req.ID = workoutID

	saved, err := h.workoutService.SaveWorkout(c.Request.Context(), coachID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, h.workoutResponse(saved))
}

// @Router /coach/workouts [get]
func (h *CoachHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// @Router /coach/workouts/{workoutId} [get]
func (h *CoachHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := paramID(c, "workoutId")
	if !ok {
		return
	}
	w, err := h.workoutService.GetWorkout(c.Request.Context(), workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.workoutResponse(w))
}

// @Router /coach/workouts/{workoutId} [delete]
func (h *CoachHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := paramID(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Programs ---

// @Router /coach/programs [post]
func (h *CoachHandler) CreateProgram(c *gin.Context) {
	h.saveProgram(c, primitive.NilObjectID, http.StatusCreated)
}

// @Router /coach/programs/{programId} [put]
func (h *CoachHandler) UpdateProgram(c *gin.Context) {
	programID, ok := paramID(c, "programId")
	if !ok {
		return
	}
	h.saveProgram(c, programID, http.StatusOK)
}

func (h *CoachHandler) saveProgram(c *gin.Context, programID primitive.ObjectID, status int) {
	coachID, ok := currentUser(c)
	if !ok {
		return
	}
	var req domain.TrainingProgram
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	req.ID = programID

	saved, err := h.programService.SaveProgram(c.Request.Context(), coachID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, saved)
}

// @Router /coach/programs [get]
func (h *CoachHandler) ListPrograms(c *gin.Context) {
	programs, err := h.programService.ListPrograms(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

// @Router /coach/programs/{programId} [get]
func (h *CoachHandler) GetProgram(c *gin.Context) {
	programID, ok := paramID(c, "programId")
	if !ok {
		return
	}
	p, err := h.programService.GetProgram(c.Request.Context(), programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Router /coach/programs/{programId} [delete]
func (h *CoachHandler) DeleteProgram(c *gin.Context) {
	programID, ok := paramID(c, "programId")
	if !ok {
		return
	}
	if err := h.programService.DeleteProgram(c.Request.Context(), programID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Clients ---

// @Router /coach/clients [post]
func (h *CoachHandler) AddClient(c *gin.Context) {
	coachID, ok := currentUser(c)
	if !ok {
		return
	}
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	client, err := h.rosterService.AddClientByEmail(c.Request.Context(), coachID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// @Router /coach/clients [get]
func (h *CoachHandler) ListClients(c *gin.Context) {
	coachID, ok := currentUser(c)
	if !ok {
		return
	}
	clients, err := h.rosterService.ListClients(c.Request.Context(), coachID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]UserResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, MapUserToResponse(&clients[i]))
	}
	c.JSON(http.StatusOK, resp)
}


// @Router /coach/clients/{clientId}/assignment [put]
func (h *CoachHandler) AssignProgram(c *gin.Context) {
	coachID, ok := currentUser(c)
	if !ok {
		return
	}
	clientID, ok := paramID(c, "clientId")
	if !ok {
		return
	}
	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid programId format.")
		return
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD.")
		return
	}

	assignment, err := h.assignmentService.AssignProgram(c.Request.Context(), coachID, clientID, programID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// @Router /coach/clients/{clientId}/assignment [get]
func (h *CoachHandler) GetAssignment(c *gin.Context) {
	clientID, ok := paramID(c, "clientId")
	if !ok {
		return
	}
	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

// @Router /coach/clients/{clientId}/assignment [delete]
func (h *CoachHandler) UnassignProgram(c *gin.Context) {
	clientID, ok := paramID(c, "clientId")
	if !ok {
		return
	}
	if err := h.assignmentService.UnassignProgram(c.Request.Context(), clientID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Router /coach/clients/{clientId}/history [get]
func (h *CoachHandler) ClientHistory(c *gin.Context) {
	clientID, ok := paramID(c, "clientId")
	if !ok {
		return
	}
	history, err := h.logStore.ListAll(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
