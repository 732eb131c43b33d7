package roles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	reportModels "reportdesk/internal/domain/models/report"
	reportRepo "reportdesk/internal/domain/repositories/report"
	reportSvc "reportdesk/internal/domain/services/report"
	"reportdesk/internal/schema"
	"reportdesk/internal/service/render"
	"reportdesk/internal/service/report"
)

// Engine is the read side shared by the three role services: it loads a
// project into a store snapshot and paginates, renders and exports it.
type Engine struct {
	schema   *schema.Schema
	projects reportRepo.ProjectRepository
	renderer *render.Renderer
	exporter *render.Exporter
	cache    reportSvc.PageCache
	logger   *slog.Logger
}

// NewEngine wires the report engine. cache may be nil.
func NewEngine(
	s *schema.Schema,
	projects reportRepo.ProjectRepository,
	renderer *render.Renderer,
	exporter *render.Exporter,
	cache reportSvc.PageCache,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		schema:   s,
		projects: projects,
		renderer: renderer,
		exporter: exporter,
		cache:    cache,
		logger:   logger,
	}
}

// Schema returns the report schema in use.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// load returns the student's project, or an unsaved empty one.
func (e *Engine) load(ctx context.Context, student *models.User) (*report.Store, *reportModels.Project, bool, error) {
	p, err := e.projects.GetByStudent(ctx, student.ID)
	exists := true
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, false, fmt.Errorf("read project: %w", err)
		}
		p = reportModels.EmptyProject(student.ID, student.MentorID)
		exists = false
	}
	return report.NewStore(e.schema, p, report.WithProfile(student)), p, exists, nil
}

func (e *Engine) view(ctx context.Context, student *models.User) (*reportSvc.ProjectView, error) {
	st, p, exists, err := e.load(ctx, student)
	if err != nil {
		return nil, err
	}

	v := &reportSvc.ProjectView{
		StudentID:  student.ID,
		ReviewerID: p.ReviewerID,
		Sections:   make([]reportModels.SectionRecord, 0, len(e.schema.OrderedLeaves())),
		Images:     p.Images,
		Progress:   report.ComputeProgress(st),
		Breakdown:  report.Breakdown(st),
	}
	for _, sec := range e.schema.OrderedLeaves() {
		v.Sections = append(v.Sections, st.Get(sec.ID))
	}
	if exists {
		updated := p.UpdatedAt
		v.UpdatedAt = &updated
	}
	if v.Images == nil {
		v.Images = []string{}
	}
	return v, nil
}

func (e *Engine) pages(ctx context.Context, student *models.User) (*reportSvc.PagesView, error) {
	st, _, _, err := e.load(ctx, student)
	if err != nil {
		return nil, err
	}
	doc := render.NewDocument(st)
	return &reportSvc.PagesView{Pages: doc.Pages, Contents: doc.Contents}, nil
}

// renderPage returns the PNG of one page, through the cache when present.
// Cache failures are logged and otherwise ignored.
func (e *Engine) renderPage(ctx context.Context, student *models.User, index int) ([]byte, error) {
	st, _, _, err := e.load(ctx, student)
	if err != nil {
		return nil, err
	}
	doc := render.NewDocument(st)
	if err := render.NewViewer(doc.Pages).Seek(index); err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		if key, err = doc.CacheKey(index); err != nil {
			return nil, err
		}
		if png, ok, err := e.cache.Get(ctx, key); err != nil {
			e.logger.Warn("page cache read failed", "student_id", student.ID, "page", index, "error", err)
		} else if ok {
			return png, nil
		}
	}

	png, err := e.renderer.RenderPNG(ctx, doc, index)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, png); err != nil {
			e.logger.Warn("page cache write failed", "student_id", student.ID, "page", index, "error", err)
		}
	}
	return png, nil
}

func (e *Engine) exportPDF(ctx context.Context, student *models.User, w io.Writer) error {
	st, _, _, err := e.load(ctx, student)
	if err != nil {
		return err
	}
	if err := e.exporter.Export(ctx, w, render.NewDocument(st)); err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	e.logger.Info("report exported", "student_id", student.ID)
	return nil
}

// progressByStudent computes progress for each student without profile
// overlays. Students with no project are at zero.
func (e *Engine) progressByStudent(ctx context.Context, students []models.User) (map[string]reportModels.Progress, error) {
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	projects, err := e.projects.ListByStudents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	byStudent := make(map[string]*reportModels.Project, len(projects))
	for i := range projects {
		byStudent[projects[i].StudentID] = &projects[i]
	}

	out := make(map[string]reportModels.Progress, len(students))
	for _, s := range students {
		out[s.ID] = report.ComputeProgress(report.NewStore(e.schema, byStudent[s.ID]))
	}
	return out, nil
}

func (e *Engine) summaries(ctx context.Context, students []models.User) ([]reportSvc.StudentSummary, error) {
	progress, err := e.progressByStudent(ctx, students)
	if err != nil {
		return nil, err
	}
	out := make([]reportSvc.StudentSummary, len(students))
	for i, s := range students {
		out[i] = reportSvc.StudentSummary{Student: s, Progress: progress[s.ID]}
	}
	return out, nil
}
