// Package testutil provides in-memory stand-ins for the mongo
// repositories, redis caches, and the generative-text service so
// pipeline tests run without external infrastructure.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"schoolpulse/internal/model"
)

// ProjectRepo is an in-memory repository.ProjectRepo
type ProjectRepo struct {
	mu       sync.Mutex
	Projects map[string]*model.Project
	Err      error
}

func NewProjectRepo(projects ...*model.Project) *ProjectRepo {
	r := &ProjectRepo{Projects: make(map[string]*model.Project)}
	for _, p := range projects {
		r.Projects[p.ID] = p
	}
	return r
}

func (r *ProjectRepo) Create(ctx context.Context, project *model.Project) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		project.ID = fmt.Sprintf("p%d", len(r.Projects)+1)
	}
	r.Projects[project.ID] = project
	return project.ID, nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Projects[id], nil
}

func (r *ProjectRepo) GetBySchoolID(ctx context.Context, schoolID string) ([]*model.Project, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Project
	for _, p := range r.Projects {
		if p.SchoolID == schoolID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProjectRepo) Update(ctx context.Context, project *model.Project) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Projects[project.ID] = project
	return nil
}

// QuestionRepo is an in-memory repository.QuestionRepo
type QuestionRepo struct {
	mu        sync.Mutex
	Questions []*model.Question
	Err       error
}

func NewQuestionRepo(questions ...*model.Question) *QuestionRepo {
	return &QuestionRepo{Questions: questions}
}

func (r *QuestionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if question.ID == "" {
		question.ID = fmt.Sprintf("q%d", len(r.Questions)+1)
	}
	r.Questions = append(r.Questions, question)
	return question.ID, nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.Questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, nil
}

func (r *QuestionRepo) GetByProject(ctx context.Context, projectID string) ([]*model.Question, error) {
	return r.filter(func(q *model.Question) bool { return q.ProjectID == projectID })
}

func (r *QuestionRepo) GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Question, error) {
	return r.filter(func(q *model.Question) bool {
		return q.ProjectID == projectID && q.RespondentType == rt
	})
}

func (r *QuestionRepo) filter(keep func(*model.Question) bool) ([]*model.Question, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Question
	for _, q := range r.Questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.Questions {
		if q.ID == id {
			r.Questions = append(r.Questions[:i], r.Questions[i+1:]...)
			return nil
		}
	}
	return nil
}

// ResponseRepo is an in-memory repository.ResponseRepo
type ResponseRepo struct {
	mu        sync.Mutex
	Responses []*model.Response
	Err       error
}

func NewResponseRepo(responses ...*model.Response) *ResponseRepo {
	return &ResponseRepo{Responses: responses}
}

func (r *ResponseRepo) Create(ctx context.Context, response *model.Response) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if response.ID == "" {
		response.ID = fmt.Sprintf("r%d", len(r.Responses)+1)
	}
	r.Responses = append(r.Responses, response)
	return nil
}

func (r *ResponseRepo) GetByProject(ctx context.Context, projectID string) ([]*model.Response, error) {
	return r.filter(func(resp *model.Response) bool { return resp.ProjectID == projectID })
}

func (r *ResponseRepo) GetByQuestion(ctx context.Context, questionID string) ([]*model.Response, error) {
	return r.filter(func(resp *model.Response) bool { return resp.QuestionID == questionID })
}

func (r *ResponseRepo) GetByProjectAndType(ctx context.Context, projectID string, rt model.RespondentType) ([]*model.Response, error) {
	return r.filter(func(resp *model.Response) bool {
		return resp.ProjectID == projectID && resp.RespondentType == rt
	})
}

func (r *ResponseRepo) GetBySession(ctx context.Context, sessionID string) ([]*model.Response, error) {
	return r.filter(func(resp *model.Response) bool { return resp.SessionID == sessionID })
}

func (r *ResponseRepo) filter(keep func(*model.Response) bool) ([]*model.Response, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Response
	for _, resp := range r.Responses {
		if keep(resp) {
			out = append(out, resp)
		}
	}
	return out, nil
}

// ReportRepo is an in-memory repository.ReportRepo
type ReportRepo struct {
	mu      sync.Mutex
	Reports map[string]*model.Report
	Err     error
}

func NewReportRepo() *ReportRepo {
	return &ReportRepo{Reports: make(map[string]*model.Report)}
}

func (r *ReportRepo) Save(ctx context.Context, report *model.Report) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports[report.ProjectID] = report
	return nil
}

func (r *ReportRepo) GetByProject(ctx context.Context, projectID string) (*model.Report, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Reports[projectID], nil
}

// SessionCache is an in-memory cache.SessionCache
type SessionCache struct {
	mu       sync.Mutex
	Sessions map[string]*model.SurveySession
}

func NewSessionCache(sessions ...*model.SurveySession) *SessionCache {
	c := &SessionCache{Sessions: make(map[string]*model.SurveySession)}
	for _, s := range sessions {
		c.Sessions[s.ID] = s
	}
	return c
}

func (c *SessionCache) Set(ctx context.Context, session *model.SurveySession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sessions[session.ID] = session
	return nil
}

func (c *SessionCache) Get(ctx context.Context, id string) (*model.SurveySession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Sessions[id], nil
}

func (c *SessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Sessions, id)
	return nil
}

// GenerationCache is an in-memory cache.GenerationCache
type GenerationCache struct {
	mu     sync.Mutex
	locks  map[string]bool
	Status map[string]string
	// Locked forces TryLock to fail, simulating a concurrent holder
	Locked bool
}

func NewGenerationCache() *GenerationCache {
	return &GenerationCache{
		locks:  make(map[string]bool),
		Status: make(map[string]string),
	}
}

func (c *GenerationCache) TryLock(ctx context.Context, projectID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Locked || c.locks[projectID] {
		return false, nil
	}
	c.locks[projectID] = true
	return true, nil
}

func (c *GenerationCache) Unlock(ctx context.Context, projectID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, projectID)
	return nil
}

func (c *GenerationCache) SetStatus(ctx context.Context, projectID, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Status[projectID] = status
	return nil
}

func (c *GenerationCache) GetStatus(ctx context.Context, projectID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Status[projectID], nil
}

// Generator is a scripted generative-text service. It satisfies
// service.Generator without importing it.
type Generator struct {
	mu         sync.Mutex
	Disabled   bool
	Output     string
	Err        error
	Calls      int
	LastPrompt string
}

func (g *Generator) Enabled() bool { return !g.Disabled }

func (g *Generator) GenerateAnalysis(ctx context.Context, prompt string) (string, error) {
	return g.generate(prompt)
}

func (g *Generator) GenerateReport(ctx context.Context, prompt string) (string, error) {
	return g.generate(prompt)
}

func (g *Generator) generate(prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls++
	g.LastPrompt = prompt
	if g.Err != nil {
		return "", g.Err
	}
	return g.Output, nil
}
