package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxMeasurements = 3
	maxPhotos       = 3
)

var (
	ErrWorkoutActivity = errors.New("workout activities are logged through a session")
	ErrUploadNotOwned  = errors.New("object key does not belong to this client")
)

// PhotoFile is one file of a multi-file photo upload.
type PhotoFile struct {
	FileName    string
	ContentType string
	Label       string
	Size        int64
	Body        io.Reader
}

// PhotoUploadTarget is where a client PUTs a photo directly. ObjectKey is reported back
// through ConfirmPhotoUpload once the PUT succeeded.
type PhotoUploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	ObjectKey string `json:"objectKey"`
}

// PhotoConfirmation describes a photo uploaded through a presigned URL.
type PhotoConfirmation struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size"`
	Label       string `json:"label"`
}

// PhotoView is a stored photo with a short-lived viewing link.
type PhotoView struct {
	domain.Upload
	ViewURL string `json:"viewUrl,omitempty"`
}

// ActivityService captures the lightweight, non-workout activities of a program day.
type ActivityService interface {
	SaveActivityLog(ctx context.Context, clientID, activityID primitive.ObjectID, payload domain.ActivityPayload) (*domain.ClientActivityLog, error)
	ListActivityLogs(ctx context.Context, clientID, dayID primitive.ObjectID) ([]domain.ClientActivityLog, error)
	// UploadPhotos stores files one after another. Files that fail are skipped and reported
	// through a *domain.PartialUploadFailure returned next to the stored uploads.
	UploadPhotos(ctx context.Context, clientID primitive.ObjectID, files []PhotoFile) ([]domain.Upload, error)
	// PhotoUploadURL returns a presigned PUT URL and the public URL the object will have.
	PhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, fileName, contentType string) (*PhotoUploadTarget, error)
	ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, in PhotoConfirmation) (*domain.Upload, error)
	ListPhotos(ctx context.Context, clientID primitive.ObjectID) ([]PhotoView, error)
}

type activityService struct {
	store       repository.Store
	assignments AssignmentService
	files       storage.FileStorage
	now         func() time.Time
}

func NewActivityService(store repository.Store, assignments AssignmentService, files storage.FileStorage) ActivityService {
	return &activityService{
		store:       store,
		assignments: assignments,
		files:       files,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *activityService) SaveActivityLog(ctx context.Context, clientID, activityID primitive.ObjectID, payload domain.ActivityPayload) (*domain.ClientActivityLog, error) {
	activity, day, err := s.assignments.Activity(ctx, clientID, activityID)
	if err != nil {
		return nil, err
	}

	entry := &domain.ClientActivityLog{
		ClientID:    clientID,
		ActivityID:  activity.ID,
		DayID:       day.ID,
		Type:        activity.Type,
		CompletedAt: s.now(),
	}

	upsert := false
	switch activity.Type {
	case domain.ActivityWorkout:
		return nil, ErrWorkoutActivity
	case domain.ActivityWalking:
		if payload.Steps <= 0 {
			return nil, domain.NewValidationError("steps", "must be greater than 0")
		}
		entry.Data = domain.ActivityPayload{Steps: payload.Steps, Completed: true, Comment: payload.Comment}
		upsert = true
	case domain.ActivityMetrics:
		if err := validateMeasurements(payload.Measurements); err != nil {
			return nil, err
		}
		entry.Data = domain.ActivityPayload{Measurements: payload.Measurements, Completed: true, Comment: payload.Comment}
		upsert = true
	case domain.ActivityPhoto:
		if err := validatePhotos(payload.Photos); err != nil {
			return nil, err
		}
		entry.Data = domain.ActivityPayload{Photos: payload.Photos, Completed: true, Comment: payload.Comment}
	case domain.ActivityForm, domain.ActivityCustom:
		if !payload.Completed {
			return nil, domain.NewValidationError("completed", "must be true")
		}
		entry.Data = domain.ActivityPayload{Completed: true, Comment: payload.Comment}
	default:
		return nil, domain.NewValidationError("type", fmt.Sprintf("unsupported activity type %q", activity.Type))
	}

	var id primitive.ObjectID
	if upsert {
		id, err = s.store.ActivityLogs.Upsert(ctx, entry)
	} else {
		id, err = s.store.ActivityLogs.Create(ctx, entry)
	}
	if err != nil {
		return nil, domain.Persist("save activity log", err)
	}
	entry.ID = id

	log.WithFields(log.Fields{
		"client":   clientID.Hex(),
		"activity": activity.ID.Hex(),
		"type":     activity.Type,
	}).Info("activity logged")
	return entry, nil
}

func validateMeasurements(ms []domain.Measurement) error {
	if len(ms) == 0 || len(ms) > maxMeasurements {
		return domain.NewValidationError("measurements", fmt.Sprintf("between 1 and %d are required", maxMeasurements))
	}
	for i, m := range ms {
		if strings.TrimSpace(m.Label) == "" {
			return domain.NewValidationError(fmt.Sprintf("measurements[%d].label", i), "is required")
		}
		if m.Value <= 0 {
			return domain.NewValidationError(fmt.Sprintf("measurements[%d].value", i), "must be greater than 0")
		}
	}
	return nil
}

func validatePhotos(ps []domain.Photo) error {
	if len(ps) == 0 || len(ps) > maxPhotos {
		return domain.NewValidationError("photos", fmt.Sprintf("between 1 and %d are required", maxPhotos))
	}
	for i, p := range ps {
		if strings.TrimSpace(p.URL) == "" {
			return domain.NewValidationError(fmt.Sprintf("photos[%d].url", i), "is required")
		}
	}
	return nil
}

func (s *activityService) ListActivityLogs(ctx context.Context, clientID, dayID primitive.ObjectID) ([]domain.ClientActivityLog, error) {
	logs, err := s.store.ActivityLogs.ListByClientAndDay(ctx, clientID, dayID)
	if err != nil {
		return nil, domain.Persist("list activity logs", err)
	}
	return logs, nil
}

func (s *activityService) UploadPhotos(ctx context.Context, clientID primitive.ObjectID, files []PhotoFile) ([]domain.Upload, error) {
	if len(files) == 0 || len(files) > maxPhotos {
		return nil, domain.NewValidationError("files", fmt.Sprintf("between 1 and %d are required", maxPhotos))
	}

	uploads := make([]domain.Upload, 0, len(files))
	var failed []domain.FileFailure
	for _, f := range files {
		u, err := s.uploadOne(ctx, clientID, f)
		if err != nil {
			log.WithFields(log.Fields{"client": clientID.Hex(), "file": f.FileName}).Warnf("photo upload failed: %s", err)
			failed = append(failed, domain.FileFailure{FileName: f.FileName, Err: err})
			continue
		}
		uploads = append(uploads, *u)
	}

	if len(failed) > 0 {
		return uploads, &domain.PartialUploadFailure{Failed: failed}
	}
	return uploads, nil
}

func (s *activityService) uploadOne(ctx context.Context, clientID primitive.ObjectID, f PhotoFile) (*domain.Upload, error) {
	if !strings.HasPrefix(f.ContentType, "image/") {
		return nil, domain.NewValidationError("contentType", "must be an image")
	}
	key := photoKey(clientID, f.FileName)
	if err := s.files.PutObject(ctx, key, f.ContentType, f.Body, f.Size); err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		ClientID:    clientID,
		ObjectKey:   key,
		URL:         s.files.PublicURL(key),
		Label:       f.Label,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedAt:  s.now(),
	}
	id, err := s.store.Uploads.Create(ctx, upload)
	if err != nil {
		// The object is useless without its row.
		if delErr := s.files.DeleteObject(ctx, key); delErr != nil {
			log.WithField("key", key).Errorf("failed to remove orphaned object: %s", delErr)
		}
		return nil, domain.Persist("save upload", err)
	}
	upload.ID = id
	return upload, nil
}

func (s *activityService) PhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, fileName, contentType string) (*PhotoUploadTarget, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.NewValidationError("contentType", "must be an image")
	}
	key := photoKey(clientID, fileName)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("could not prepare photo upload: %w", err)
	}
	return &PhotoUploadTarget{UploadURL: uploadURL, PublicURL: s.files.PublicURL(key), ObjectKey: key}, nil
}

func (s *activityService) ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, in PhotoConfirmation) (*domain.Upload, error) {
	if !strings.HasPrefix(in.ObjectKey, photoPrefix(clientID)) {
		return nil, ErrUploadNotOwned
	}
	if !strings.HasPrefix(in.ContentType, "image/") {
		return nil, domain.NewValidationError("contentType", "must be an image")
	}

	upload := &domain.Upload{
		ClientID:    clientID,
		ObjectKey:   in.ObjectKey,
		URL:         s.files.PublicURL(in.ObjectKey),
		Label:       in.Label,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        in.Size,
		UploadedAt:  s.now(),
	}
	id, err := s.store.Uploads.Create(ctx, upload)
	if err != nil {
		return nil, domain.Persist("confirm upload", err)
	}
	upload.ID = id
	return upload, nil
}

func (s *activityService) ListPhotos(ctx context.Context, clientID primitive.ObjectID) ([]PhotoView, error) {
	uploads, err := s.store.Uploads.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, domain.Persist("list uploads", err)
	}
	views := make([]PhotoView, 0, len(uploads))
	for _, u := range uploads {
		view := PhotoView{Upload: u}
		viewURL, err := s.files.GeneratePresignedDownloadURL(ctx, u.ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.WithField("key", u.ObjectKey).Warnf("could not sign photo link: %s", err)
		} else {
			view.ViewURL = viewURL
		}
		views = append(views, view)
	}
	return views, nil
}

func photoPrefix(clientID primitive.ObjectID) string {
	return "progress-photos/" + clientID.Hex() + "/"
}

func photoKey(clientID primitive.ObjectID, fileName string) string {
	return photoPrefix(clientID) + uuid.NewString() + strings.ToLower(path.Ext(fileName))
}
