package api

import (
	"net/http"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTTP API on top of the service layer.
type Handler struct {
	projects  service.ProjectService
	tasks     service.TaskService
	init      service.InitService
	templates service.TemplateService
	log       logrus.FieldLogger
}

func NewHandler(
	projects service.ProjectService,
	tasks service.TaskService,
	init service.InitService,
	templates service.TemplateService,
	log logrus.FieldLogger,
) *Handler {
	return &Handler{projects: projects, tasks: tasks, init: init, templates: templates, log: log}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := req.toDomain()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.projects.Create(r.Context(), p); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.GetByID(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// FundProject is the funded-project trigger.
func (h *Handler) FundProject(w http.ResponseWriter, r *http.Request) {
	var req fundRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.init.InitializeProject(r.Context(), domain.FundedProjectEvent{
		DevelopmentProjectID: mux.Vars(r)["projectId"],
		ProjectType:          req.ProjectType,
		FundingAmount:        req.FundingAmount,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInitResponse(res))
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := taskFilterFromQuery(mux.Vars(r)["projectId"], r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tasks, err := h.tasks.GetTasks(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func taskFilterFromQuery(projectID string, r *http.Request) (domain.TaskFilter, error) {
	q := r.URL.Query()
	filter := domain.TaskFilter{ProjectID: projectID}
	if v := q.Get("status"); v != "" {
		st, err := domain.ParseTaskStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &st
	}
	if v := q.Get("priority"); v != "" {
		p, err := domain.ParsePriority(v)
		if err != nil {
			return filter, err
		}
		filter.Priority = &p
	}
	if v := q.Get("assignee"); v != "" {
		filter.AssigneeID = &v
	}
	switch v := q.Get("parent"); v {
	case "":
	case "root":
		filter.RootsOnly = true
	default:
		filter.ParentID = &v
	}
	return filter, nil
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	task, err := req.toDomain(mux.Vars(r)["projectId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.tasks.CreateTask(r.Context(), task); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) Hierarchy(w http.ResponseWriter, r *http.Request) {
	roots, err := h.tasks.GetTaskHierarchy(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNodeResponses(roots))
}

func (h *Handler) CriticalPath(w http.ResponseWriter, r *http.Request) {
	sched, err := h.tasks.CalculateCriticalPath(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(sched))
}

func (h *Handler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	ms, err := h.init.ListMilestones(r.Context(), mux.Vars(r)["projectId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMilestoneResponses(ms))
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.tasks.GetTask(r.Context(), mux.Vars(r)["taskId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	patch, err := req.toDomain()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	t, err := h.tasks.UpdateTask(r.Context(), mux.Vars(r)["taskId"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *Handler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.PercentComplete == nil {
		h.writeError(w, r, domain.ErrPercentOutOfRange)
		return
	}
	res, err := h.tasks.UpdateTaskProgress(r.Context(), mux.Vars(r)["taskId"], *req.PercentComplete)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	parents := res.Parents
	if parents == nil {
		parents = map[string]float64{}
	}
	writeJSON(w, http.StatusOK, progressResponse{
		Task:           toTaskResponse(res.Task),
		ProjectPercent: res.ProjectPercent,
		Parents:        parents,
	})
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.DeleteTask(r.Context(), mux.Vars(r)["taskId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	lists := h.templates.List()
	out := make([]templateSummary, 0, len(lists))
	for _, l := range lists {
		out = append(out, toTemplateSummary(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	l, err := h.templates.Get(domain.ProjectType(mux.Vars(r)["projectType"]))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}
