package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/coursekit/coursekit/internal/builder"
	"github.com/coursekit/coursekit/internal/model"
	appErr "github.com/coursekit/coursekit/internal/pkg/errors"
	"github.com/coursekit/coursekit/internal/pkg/timeutil"
	"github.com/coursekit/coursekit/internal/registry"
	"github.com/coursekit/coursekit/internal/repo"
)

type TemplateService struct {
	templates *repo.TemplateRepo
	reg       *registry.Registry
}

func NewTemplateService(templates *repo.TemplateRepo, reg *registry.Registry) *TemplateService {
	return &TemplateService{templates: templates, reg: reg}
}

func (s *TemplateService) Create(ctx context.Context, userID, name, description string, doc builder.Document) (*model.LayoutTemplate, error) {
	if name == "" {
		return nil, appErr.ErrInvalid
	}
	content, err := builder.Encode(ctx, builder.Normalize(ctx, doc, s.reg), s.reg)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	tpl := &model.LayoutTemplate{
		ID:          newID(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Content:     string(content),
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) List(ctx context.Context, userID string) ([]model.LayoutTemplateMeta, error) {
	return s.templates.ListMeta(ctx, userID)
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID string) error {
	return s.templates.Delete(ctx, userID, templateID)
}

// Instantiate decodes a template's content and re-mints every node ID so the
// instantiated sections never collide with an existing page's nodes.
func (s *TemplateService) Instantiate(ctx context.Context, userID, templateID string) ([]builder.Section, error) {
	tpl, err := s.templates.Get(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	doc, err := builder.Decode(ctx, []byte(tpl.Content), s.reg)
	if err != nil {
		return nil, err
	}
	doc = builder.RemintIDs(doc)
	return doc.Sections, nil
}

// SeedBuiltins inserts the shipped layout templates; existing rows are left
// alone.
func (s *TemplateService) SeedBuiltins(ctx context.Context) error {
	for _, seed := range builtinTemplates {
		now := timeutil.NowUnix()
		err := s.templates.Create(ctx, &model.LayoutTemplate{
			ID:          seed.id,
			UserID:      "",
			Name:        seed.name,
			Description: seed.description,
			Content:     seed.content,
			BuiltIn:     1,
			Ctime:       now,
			Mtime:       now,
		})
		if err != nil && !appErr.IsConflict(err) {
			return err
		}
		if appErr.IsConflict(err) {
			continue
		}
		logutil.GetLogger(ctx).Info("seeded builtin layout template", zap.String("name", seed.name))
	}
	return nil
}

type templateSeed struct {
	id          string
	name        string
	description string
	content     string
}

var builtinTemplates = []templateSeed{
	{
		id:          "builtin-course-landing",
		name:        "Course landing",
		description: "Hero heading, course intro and a registration form",
		content: `{"version":"1.0.0","sections":[` +
			`{"id":"section_0_1","settings":{},"columns":[{"id":"col_0_1","width":100,"settings":{},"widgets":[` +
			`{"id":"widget_0_1","type":"heading","settings":{"title":"Course title","tag":"h1"}},` +
			`{"id":"widget_0_2","type":"text","settings":{"content":"Describe the course here."}}]}]},` +
			`{"id":"section_0_2","settings":{},"columns":[` +
			`{"id":"col_0_2","width":60,"settings":{},"widgets":[{"id":"widget_0_3","type":"video","settings":{}}]},` +
			`{"id":"col_0_3","width":40,"settings":{},"widgets":[{"id":"widget_0_4","type":"course_register","settings":{}}]}]}]}`,
	},
	{
		id:          "builtin-course-catalog",
		name:        "Course catalog",
		description: "Filter form above a course card grid",
		content: `{"version":"1.0.0","sections":[` +
			`{"id":"section_0_3","settings":{},"columns":[{"id":"col_0_4","width":100,"settings":{},"widgets":[` +
			`{"id":"widget_0_5","type":"course_filter","settings":{}},` +
			`{"id":"widget_0_6","type":"course_card","settings":{"course_id":""}}]}]}]}`,
	},
	{
		id:          "builtin-teacher-profile",
		name:        "Teacher profile",
		description: "Portrait next to a biography",
		content: `{"version":"1.0.0","sections":[` +
			`{"id":"section_0_4","settings":{},"columns":[` +
			`{"id":"col_0_5","width":30,"settings":{},"widgets":[{"id":"widget_0_7","type":"image","settings":{}}]},` +
			`{"id":"col_0_6","width":70,"settings":{},"widgets":[{"id":"widget_0_8","type":"text","settings":{}}]}]}]}`,
	},
}
