package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/metrics"
	"alcyxob/coaching-platform/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ClientHandler serves the client side: today's plan, history and activity logs.
type ClientHandler struct {
	assignmentService service.AssignmentService
	activityService   service.ActivityService
	logStore          service.LogStore
	metrics           *metrics.Manager
	now               func() time.Time
}

func NewClientHandler(
	assignmentService service.AssignmentService,
	activityService service.ActivityService,
	logStore service.LogStore,
	metricsManager *metrics.Manager,
) *ClientHandler {
	return &ClientHandler{
		assignmentService: assignmentService,
		activityService:   activityService,
		logStore:          logStore,
		metrics:           metricsManager,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// DayStatusResponse tells whether a program day has been logged.
type DayStatusResponse struct {
	Completed bool                 `json:"completed"`
	Latest    *domain.ClientDayLog `json:"latest,omitempty"`
}

// PhotoUploadURLRequest asks for a presigned direct upload.
type PhotoUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// FailedUpload names a file that was not stored.
type FailedUpload struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

// UploadPhotosResponse lists stored photos next to the ones that failed.
type UploadPhotosResponse struct {
	Uploads []domain.Upload `json:"uploads"`
	Failed  []FailedUpload  `json:"failed,omitempty"`
}

// @Router /client/today [get]
func (h *ClientHandler) GetToday(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	today, err := h.assignmentService.ResolveToday(c.Request.Context(), clientID, h.now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, today)
}

// @Router /client/history [get]
func (h *ClientHandler) GetHistory(c *gin.Context) {
	clientID, ok := currentUser(c)
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

// @Router /client/days/{dayId}/status [get]
func (h *ClientHandler) GetDayStatus(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := paramID(c, "dayId")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	completed, err := h.logStore.HasAnyLog(ctx, clientID, dayID)
	if err != nil {
		respondError(c, err)
		return
	}
	latest, err := h.logStore.GetLatest(ctx, clientID, dayID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DayStatusResponse{Completed: completed, Latest: latest})
}

// @Router /client/days/{dayId}/activity-logs [get]
func (h *ClientHandler) ListActivityLogs(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	dayID, ok := paramID(c, "dayId")
	if !ok {
		return
	}
	logs, err := h.activityService.ListActivityLogs(c.Request.Context(), clientID, dayID)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []domain.ClientActivityLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// @Router /client/activities/{activityId}/logs [post]
func (h *ClientHandler) SaveActivityLog(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	activityID, ok := paramID(c, "activityId")
	if !ok {
		return
	}
	var payload domain.ActivityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.activityService.SaveActivityLog(c.Request.Context(), clientID, activityID, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	h.metrics.CounterActivityLogs.WithLabelValues(string(entry.Type)).Inc()
	c.JSON(http.StatusOK, entry)
}

// UploadPhotos stores up to three progress photos sent as multipart "photos" parts.
// Optional "labels" values pair with the files by position.
// @Router /client/photos [post]
func (h *ClientHandler) UploadPhotos(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Expected a multipart form with photos.")
		return
	}
	headers := form.File["photos"]
	labels := form.Value["labels"]

	files := make([]service.PhotoFile, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			log.WithField("file", fh.Filename).Warnf("could not open multipart file: %s", err)
			abortWithError(c, http.StatusBadRequest, "Could not read "+fh.Filename)
			return
		}
		defer f.Close()

		pf := service.PhotoFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
		if i < len(labels) {
			pf.Label = labels[i]
		}
		files = append(files, pf)
	}

	uploads, err := h.activityService.UploadPhotos(c.Request.Context(), clientID, files)
	var partial *domain.PartialUploadFailure
	switch {
	case errors.As(err, &partial):
		resp := UploadPhotosResponse{Uploads: uploads}
		for _, f := range partial.Failed {
			resp.Failed = append(resp.Failed, FailedUpload{FileName: f.FileName, Error: f.Err.Error()})
		}
		code := http.StatusMultiStatus
		if len(uploads) == 0 {
			code = http.StatusBadGateway
		}
		c.JSON(code, resp)
	case err != nil:
		respondError(c, err)
	default:
		c.JSON(http.StatusCreated, UploadPhotosResponse{Uploads: uploads})
	}
}

// @Router /client/photos/upload-url [post]
func (h *ClientHandler) PhotoUploadURL(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	var req PhotoUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	target, err := h.activityService.PhotoUploadURL(c.Request.Context(), clientID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, target)
}

// @Router /client/photos/confirm [post]
func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.PhotoConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.activityService.ConfirmPhotoUpload(c.Request.Context(), clientID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// @Router /client/photos [get]
func (h *ClientHandler) ListPhotos(c *gin.Context) {
	clientID, ok := currentUser(c)
	if !ok {
		return
	}
	photos, err := h.activityService.ListPhotos(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}
