package roles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"reportdesk/internal/domain"
	"reportdesk/internal/domain/models"
	reportModels "reportdesk/internal/domain/models/report"
	"reportdesk/internal/domain/repositories"
	"reportdesk/internal/schema"
	"reportdesk/internal/service/auth"
	"reportdesk/internal/service/render"
)

// mockProjectRepo keeps projects in memory with the same field-level
// semantics as the postgres repository.
type mockProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*reportModels.Project
	calls    int
	ensured  int
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: map[string]*reportModels.Project{}}
}

func (m *mockProjectRepo) GetByStudent(_ context.Context, studentID string) (*reportModels.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.projects[studentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.Sections = make(map[string]reportModels.StoredSection, len(p.Sections))
	for k, v := range p.Sections {
		cp.Sections[k] = v
	}
	cp.Images = append([]string(nil), p.Images...)
	return &cp, nil
}

func (m *mockProjectRepo) Ensure(_ context.Context, studentID, reviewerID string) (*reportModels.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if p, ok := m.projects[studentID]; ok {
		return p, nil
	}
	m.ensured++
	p := reportModels.EmptyProject(studentID, reviewerID)
	p.ID = "proj-" + studentID
	p.CreatedAt = time.Now()
	m.projects[studentID] = p
	return p, nil
}

func (m *mockProjectRepo) WriteSection(_ context.Context, studentID, sectionID string, content json.RawMessage, status reportModels.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.projects[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	sec := p.Sections[sectionID]
	sec.Content = content
	sec.Status = status
	p.Sections[sectionID] = sec
	return nil
}

func (m *mockProjectRepo) WriteReview(_ context.Context, studentID, sectionID string, status reportModels.Status, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.projects[studentID]
	if !ok {
		return &domain.InvalidTransitionError{SectionID: sectionID, To: string(status), Reason: "section has no saved record"}
	}
	sec, ok := p.Sections[sectionID]
	if !ok {
		return &domain.InvalidTransitionError{SectionID: sectionID, To: string(status), Reason: "section has no saved record"}
	}
	sec.Status = status
	sec.Comment = comment
	p.Sections[sectionID] = sec
	return nil
}

func (m *mockProjectRepo) ApproveSections(_ context.Context, studentID string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.projects[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range ids {
		if sec, ok := p.Sections[id]; ok {
			sec.Status = reportModels.StatusApproved
			p.Sections[id] = sec
		}
	}
	return nil
}

func (m *mockProjectRepo) AppendImages(_ context.Context, studentID string, urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	p, ok := m.projects[studentID]
	if !ok {
		return domain.ErrNotFound
	}
	seen := map[string]bool{}
	for _, u := range p.Images {
		seen[u] = true
	}
	for _, u := range urls {
		if !seen[u] {
			p.Images = append(p.Images, u)
			seen[u] = true
		}
	}
	return nil
}

func (m *mockProjectRepo) ListByStudents(_ context.Context, ids []string) ([]reportModels.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []reportModels.Project
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectRepo) DeleteByStudent(_ context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, studentID)
	return nil
}

func (m *mockProjectRepo) seed(studentID string, sections map[string]reportModels.StoredSection) {
	p := reportModels.EmptyProject(studentID, "")
	p.ID = "proj-" + studentID
	for k, v := range sections {
		p.Sections[k] = v
	}
	m.projects[studentID] = p
}

type mockUserRepo struct {
	mu        sync.Mutex
	users     map[string]*models.User
	createErr error
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) ListByMentor(_ context.Context, mentorID string) ([]models.User, error) {
	return m.filter(func(u *models.User) bool { return u.MentorID == mentorID }), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	return m.filter(func(u *models.User) bool { return u.Role == role }), nil
}

func (m *mockUserRepo) IsPaid(ctx context.Context, id string) (bool, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsPaid, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) filter(keep func(*models.User) bool) []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.users {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type mockClassRepo struct {
	classes []models.Class
	counts  map[string]int
}

func (m *mockClassRepo) Create(_ context.Context, c *models.Class) error {
	c.ID = "class-new"
	m.classes = append(m.classes, *c)
	return nil
}
func (m *mockClassRepo) List(context.Context) ([]models.Class, error) { return m.classes, nil }
func (m *mockClassRepo) CountStudents(context.Context) (map[string]int, error) {
	return m.counts, nil
}

// mockTxManager runs fn inline.
type mockTxManager struct{ runs int }

func (m *mockTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.runs++
	return fn(ctx)
}

type mockObjectStore struct {
	keys     []string
	prefixes []string
	err      error
}

func (m *mockObjectStore) Upload(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	io.Copy(io.Discard, r)
	m.keys = append(m.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func (m *mockObjectStore) DeletePrefix(_ context.Context, prefix string) error {
	m.prefixes = append(m.prefixes, prefix)
	return m.err
}

type mockIdentity struct {
	created   []string
	deleted   []string
	createErr error
	deleteErr error
}

func (m *mockIdentity) CreateUser(_ context.Context, email, _ string, _ map[string]interface{}) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.created = append(m.created, email)
	return fmt.Sprintf("acct-%d", len(m.created)), nil
}

func (m *mockIdentity) DeleteUser(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockCache struct {
	data       map[string][]byte
	gets, sets int
	err        error
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.gets++
	if m.err != nil {
		return nil, false, m.err
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Set(_ context.Context, key string, png []byte) error {
	m.sets++
	if m.err != nil {
		return m.err
	}
	m.data[key] = png
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Document{
		Name:  "roles-test",
		Title: "Roles Test",
		Layout: schema.Layout{
			CharsPerLine: 85, MaxLines: 36, MaxLinesWithHeading: 30,
			RowsPerTablePage: 12, TOCPages: 1, TOCSplit: 10,
		},
		Sections: []*schema.Section{
			{
				ID: "titlePage", Title: "Title Page", Kind: reportModels.KindForm, Progress: true,
				Fields: []schema.FormField{
					{Key: "studentName", Label: "Student", Profile: "name", MaxLength: 20},
					{Key: "companyName", Label: "Company", Default: "IBM"},
				},
			},
			{ID: "toc", Title: "INDEX", Kind: reportModels.KindTOC},
			{ID: "abstract", Title: "Abstract", Kind: reportModels.KindText, Progress: true},
			{ID: "orgInfo", Title: "Organization", Kind: reportModels.KindText, Subheading: true, Progress: true},
			{ID: "weeklyOverview", Title: "Weekly Overview", Kind: reportModels.KindTable, Progress: true},
			{ID: "screenshots", Title: "Screenshots", Kind: reportModels.KindImage, Progress: true},
		},
	})
	if err != nil {
		t.Fatalf("schema.New() error = %v", err)
	}
	return s
}

type fixture struct {
	projects *mockProjectRepo
	users    *mockUserRepo
	classes  *mockClassRepo
	tx       *mockTxManager
	objects  *mockObjectStore
	identity *mockIdentity
	cache    *mockCache
	engine   *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		projects: newMockProjectRepo(),
		users: &mockUserRepo{users: map[string]*models.User{
			"stu-1": {ID: "stu-1", Name: "Asha Rao", Email: "asha@example.com", Role: models.RoleStudent, MentorID: "rev-1", ClassID: "class-a", IsPaid: true},
			"stu-2": {ID: "stu-2", Name: "Ben Ito", Role: models.RoleStudent, MentorID: "rev-1"},
			"stu-3": {ID: "stu-3", Name: "Cy Lee", Role: models.RoleStudent, MentorID: "rev-2", IsPaid: true},
			"rev-1": {ID: "rev-1", Name: "Dr. Mehta", Role: models.RoleReviewer},
			"rev-2": {ID: "rev-2", Name: "Dr. Shah", Role: models.RoleReviewer},
			"hod":   {ID: "hod", Name: "HOD", Role: models.RoleAdmin},
		}},
		classes: &mockClassRepo{
			classes: []models.Class{{ID: "class-a", Name: "MCA 2025", Department: "MCA"}},
			counts:  map[string]int{"class-a": 1},
		},
		tx:       &mockTxManager{},
		objects:  &mockObjectStore{},
		identity: &mockIdentity{},
		cache:    &mockCache{data: map[string][]byte{}},
	}
	renderer := render.NewRenderer(nil, discardLogger())
	f.engine = NewEngine(testSchema(t), f.projects, renderer, render.NewExporter(renderer, discardLogger()), f.cache, discardLogger())
	return f
}

func (f *fixture) user(id string) *models.User {
	u, _ := f.users.GetByID(context.Background(), id)
	return u
}

func (f *fixture) authorizer() *auth.MentorAuthorizer {
	return auth.NewMentorAuthorizer(f.users)
}

func (f *fixture) student() *studentService {
	return NewStudentService(f.engine, f.projects, f.authorizer(), f.objects, f.tx, discardLogger()).(*studentService)
}

func (f *fixture) reviewer() *reviewerService {
	return NewReviewerService(f.engine, f.projects, f.users, f.authorizer(), discardLogger()).(*reviewerService)
}

func (f *fixture) admin() *adminService {
	return NewAdminService(f.engine, f.projects, f.users, f.classes, f.authorizer(), f.identity, f.objects, f.tx, discardLogger()).(*adminService)
}

func rawJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func storedSection(t *testing.T, content interface{}, status reportModels.Status, comment string) reportModels.StoredSection {
	return reportModels.StoredSection{Content: rawJSON(t, content), Status: status, Comment: comment}
}

func lines(n int) string {
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("line")
	}
	return b.String()
}

var errBoom = errors.New("boom")
