package cronsim

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cronhq/cron-console/pkg/types"
	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// nextRunFormat matches the real backend's displayed timestamp layout.
const nextRunFormat = "02-01-2006 15:04:05"

// Handler serves the cron manager HTTP contract against an in-memory Store.
type Handler struct {
	store    *Store
	logger   *logrus.Logger
	sched    *Scheduler
	runDelay time.Duration
}

func NewHandler(store *Store, logger *logrus.Logger) *Handler {
	return &Handler{
		store:    store,
		logger:   logger,
		runDelay: 2 * time.Second,
	}
}

// AttachScheduler wires a scheduler that is resynced after every mutation.
func (h *Handler) AttachScheduler(sched *Scheduler) {
	h.sched = sched
}

// SetRunDelay controls how long a manual run holds its lock. Tests shorten
// it to keep the 409 window observable without slow sleeps.
func (h *Handler) SetRunDelay(d time.Duration) {
	h.runDelay = d
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.store.List()
	for i := range jobs {
		jobs[i].NextRun = h.nextRun(jobs[i].Schedule, jobs[i].IsActive)
		jobs[i].Status = watchStatus(h.store.Log(jobs[i].ID))
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJobRequest(w, r)
	if !ok {
		return
	}

	// The real backend rejects an unparseable schedule on create with 404.
	if _, err := cron.ParseStandard(req.Schedule); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Invalid Cron Expression"})
		return
	}

	job := h.store.Create(req)
	job.NextRun = h.nextRun(job.Schedule, job.IsActive)
	h.resync()

	h.logger.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"job_name": job.Name,
		"schedule": job.Schedule,
	}).Info("Job created")

	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	req, ok := decodeJobRequest(w, r)
	if !ok {
		return
	}

	// On update the real backend surfaces a bad schedule (and a missing
	// job) as a 500, not a 404.
	if _, err := cron.ParseStandard(req.Schedule); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Invalid Cron Expression"})
		return
	}

	if _, found := h.store.Update(jobID, req); !found {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail": fmt.Sprintf("Internal server error: job %d not found", jobID),
		})
		return
	}
	h.resync()

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Successfully updated data."})
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	if !h.store.Delete(jobID) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}
	h.resync()

	h.logger.WithFields(logrus.Fields{"job_id": jobID}).Info("Job deleted")
	writeJSON(w, http.StatusOK, map[string]string{"INFO": fmt.Sprintf("Deleted %d Successfully", jobID)})
}

func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	job, found := h.store.Get(jobID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}

	pid, ok := h.store.TryLock(jobID)
	if !ok {
		writeJSON(w, http.StatusConflict, map[string]string{
			"detail": fmt.Sprintf("Job already running with PID %d", pid),
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"job_id":   jobID,
		"job_name": job.Name,
		"pid":      pid,
	}).Info("Job launched in background")

	go func() {
		time.Sleep(h.runDelay)
		h.store.AppendLog(jobID, fmt.Sprintf("[%s] %s\nSuccess\n",
			time.Now().Format("2006-01-02 15:04:05"), job.Command))
		h.store.Unlock(jobID)
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Job launched in background (PID: %d). Check the logs to follow execution.", pid),
		"pid":     pid,
	})
}

func (h *Handler) ToggleJob(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	active, found := h.store.ToggleActive(jobID)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}
	h.resync()

	message := "Job disabled"
	if active {
		message = "Job enabled"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"is_active": active,
		"message":   message,
	})
}

func (h *Handler) RefreshLogs(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	if _, found := h.store.Get(jobID); !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"log_content": h.store.Log(jobID),
	})
}

func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	jobID := pathID(r)
	if _, found := h.store.Get(jobID); !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}

	h.store.ClearLog(jobID)
	h.logger.WithFields(logrus.Fields{"job_id": jobID}).Info("Logs cleared")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logs cleared successfully",
	})
}

func (h *Handler) nextRun(schedule string, active bool) string {
	if !active {
		return ""
	}
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return ""
	}
	return sched.Next(time.Now()).Format(nextRunFormat)
}

func (h *Handler) resync() {
	if h.sched == nil {
		return
	}
	if err := h.sched.Sync(); err != nil {
		h.logger.Errorf("Failed to resync scheduler: %v", err)
	}
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func decodeJobRequest(w http.ResponseWriter, r *http.Request) (types.JobRequest, bool) {
	var req types.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "Invalid request body"})
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
