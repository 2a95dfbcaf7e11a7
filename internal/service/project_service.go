package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/duoledger/internal/models"
	"github.com/mmynk/duoledger/internal/storage"
	"github.com/mmynk/duoledger/pkg/api"
	"github.com/mmynk/duoledger/pkg/api/apiconnect"
)

var _ apiconnect.ProjectServiceHandler = (*ProjectService)(nil)

// listConcurrency bounds parallel member lookups in ListProjects.
const listConcurrency = 4

// ProjectService implements the Connect ProjectService.
type ProjectService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewProjectService creates a new ProjectService with the given storage backend.
func NewProjectService(store storage.Store, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: store, logger: logger}
}

// CreateProject creates a project with the caller as its host.
func (s *ProjectService) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.ProjectResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.Name == "" {
		return nil, invalidArgument("name", fmt.Errorf("required"))
	}

	projectType := models.ProjectType(req.Msg.Type)
	switch projectType {
	case "":
		projectType = models.ProjectPublic
	case models.ProjectPublic, models.ProjectPrivate:
	default:
		return nil, invalidArgument("type", fmt.Errorf("must be public or private, got %q", req.Msg.Type))
	}

	rates, err := validateRates(req.Msg.Rates)
	if err != nil {
		return nil, toConnectError(err)
	}

	owner := models.Member{UserID: userID, Role: models.RoleHost}
	if user, err := s.store.GetUserByID(ctx, userID); err == nil && user != nil {
		owner.DisplayName = user.DisplayName
	}

	project := &models.Project{Name: req.Msg.Name, Type: projectType, Rates: rates}
	if err := s.store.CreateProject(ctx, project, owner); err != nil {
		s.logger.ErrorContext(ctx, "CreateProject failed", "error", err)
		return nil, toConnectError(err)
	}
	owner.ProjectID = project.ID

	s.logger.InfoContext(ctx, "Project created", "project_id", project.ID, "user_id", userID)
	return connect.NewResponse(&api.ProjectResponse{Project: projectToProto(project, []models.Member{owner})}), nil
}

// GetProject returns a project with its members.
func (s *ProjectService) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.ProjectResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	project, members, err := requireMember(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ProjectResponse{Project: projectToProto(project, members)}), nil
}

// ListProjects returns every project the caller belongs to.
func (s *ProjectService) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	projects, err := s.store.ListProjectsForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Project, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, p := range projects {
		g.Go(func() error {
			members, err := s.store.ListMembers(gctx, p.ID)
			if err != nil {
				return err
			}
			out[i] = projectToProto(p, members)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.ListProjectsResponse{Projects: out}), nil
}

// AddMember adds a registered user to the project by email.
func (s *ProjectService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.ProjectResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	project, current, err := requireMember(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	role := models.Role(req.Msg.Role)
	switch role {
	case "":
		role = models.RoleGuest
	case models.RoleHost, models.RoleGuest:
	default:
		return nil, invalidArgument("role", fmt.Errorf("must be host or guest, got %q", req.Msg.Role))
	}
	// A project has exactly one host; role-based splits depend on it.
	if role == models.RoleHost && hasRole(current, models.RoleHost) {
		return nil, invalidArgument("role", fmt.Errorf("project already has a host"))
	}

	user, err := s.store.GetUserByEmail(ctx, req.Msg.Email)
	if err != nil {
		return nil, toConnectError(err)
	}
	if user == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("user %q: %w", req.Msg.Email, storage.ErrNotFound))
	}

	member := models.Member{ProjectID: project.ID, UserID: user.ID, Role: role, DisplayName: user.DisplayName}
	if err := s.store.AddMember(ctx, member); err != nil {
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	s.logger.InfoContext(ctx, "Member added", "project_id", project.ID, "member_id", user.ID, "role", role)
	return connect.NewResponse(&api.ProjectResponse{Project: projectToProto(project, members)}), nil
}

// SetRates replaces the project's exchange rates.
func (s *ProjectService) SetRates(ctx context.Context, req *connect.Request[api.SetRatesRequest]) (*connect.Response[api.ProjectResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	project, members, err := requireMember(ctx, s.store, req.Msg.ProjectID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	rates, err := validateRates(req.Msg.Rates)
	if err != nil {
		return nil, toConnectError(err)
	}
	if err := s.store.SetRates(ctx, project.ID, rates); err != nil {
		return nil, toConnectError(err)
	}
	project.Rates = rates

	s.logger.InfoContext(ctx, "Rates updated", "project_id", project.ID, "currencies", len(rates))
	return connect.NewResponse(&api.ProjectResponse{Project: projectToProto(project, members)}), nil
}

// ListCategories returns the shared category list.
func (s *ProjectService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, toConnectError(err)
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = &api.Category{ID: c.ID, Name: c.Name, Color: c.Color}
	}
	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// UpsertCategory creates or renames a category. The settlement category is
// reserved.
func (s *ProjectService) UpsertCategory(ctx context.Context, req *connect.Request[api.UpsertCategoryRequest]) (*connect.Response[api.UpsertCategoryResponse], error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, toConnectError(err)
	}
	c := req.Msg.Category
	if c == nil || c.ID == "" || c.Name == "" {
		return nil, invalidArgument("category", fmt.Errorf("id and name are required"))
	}
	if c.ID == models.SettlementCategoryID {
		return nil, invalidArgument("category", fmt.Errorf("%q is reserved", c.ID))
	}

	if err := s.store.UpsertCategory(ctx, models.Category{ID: c.ID, Name: c.Name, Color: c.Color}); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.UpsertCategoryResponse{Category: c}), nil
}

func hasRole(members []models.Member, role models.Role) bool {
	for _, m := range members {
		if m.Role == role {
			return true
		}
	}
	return false
}
