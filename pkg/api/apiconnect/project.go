package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/duoledger/pkg/api"
)

// ProjectServiceName is the fully-qualified name of the ProjectService.
const ProjectServiceName = "duoledger.v1.ProjectService"

const (
	ProjectServiceCreateProjectProcedure  = "/duoledger.v1.ProjectService/CreateProject"
	ProjectServiceGetProjectProcedure     = "/duoledger.v1.ProjectService/GetProject"
	ProjectServiceListProjectsProcedure   = "/duoledger.v1.ProjectService/ListProjects"
	ProjectServiceAddMemberProcedure      = "/duoledger.v1.ProjectService/AddMember"
	ProjectServiceSetRatesProcedure       = "/duoledger.v1.ProjectService/SetRates"
	ProjectServiceListCategoriesProcedure = "/duoledger.v1.ProjectService/ListCategories"
	ProjectServiceUpsertCategoryProcedure = "/duoledger.v1.ProjectService/UpsertCategory"
)

// ProjectServiceHandler is the server side of the ProjectService, which manages projects, members, rates and categories.
type ProjectServiceHandler interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.ProjectResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.ProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.ProjectResponse], error)
	SetRates(context.Context, *connect.Request[api.SetRatesRequest]) (*connect.Response[api.ProjectResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	UpsertCategory(context.Context, *connect.Request[api.UpsertCategoryRequest]) (*connect.Response[api.UpsertCategoryResponse], error)
}

// NewProjectServiceHandler returns the mount path and handler for svc.
func NewProjectServiceHandler(svc ProjectServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ProjectServiceCreateProjectProcedure, connect.NewUnaryHandler(ProjectServiceCreateProjectProcedure, svc.CreateProject, opts...))
	mux.Handle(ProjectServiceGetProjectProcedure, connect.NewUnaryHandler(ProjectServiceGetProjectProcedure, svc.GetProject, opts...))
	mux.Handle(ProjectServiceListProjectsProcedure, connect.NewUnaryHandler(ProjectServiceListProjectsProcedure, svc.ListProjects, opts...))
	mux.Handle(ProjectServiceAddMemberProcedure, connect.NewUnaryHandler(ProjectServiceAddMemberProcedure, svc.AddMember, opts...))
	mux.Handle(ProjectServiceSetRatesProcedure, connect.NewUnaryHandler(ProjectServiceSetRatesProcedure, svc.SetRates, opts...))
	mux.Handle(ProjectServiceListCategoriesProcedure, connect.NewUnaryHandler(ProjectServiceListCategoriesProcedure, svc.ListCategories, opts...))
	mux.Handle(ProjectServiceUpsertCategoryProcedure, connect.NewUnaryHandler(ProjectServiceUpsertCategoryProcedure, svc.UpsertCategory, opts...))
	return "/" + ProjectServiceName + "/", mux
}

// ProjectServiceClient calls a remote ProjectService.
type ProjectServiceClient interface {
	CreateProject(context.Context, *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.ProjectResponse], error)
	GetProject(context.Context, *connect.Request[api.GetProjectRequest]) (*connect.Response[api.ProjectResponse], error)
	ListProjects(context.Context, *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.ProjectResponse], error)
	SetRates(context.Context, *connect.Request[api.SetRatesRequest]) (*connect.Response[api.ProjectResponse], error)
	ListCategories(context.Context, *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error)
	UpsertCategory(context.Context, *connect.Request[api.UpsertCategoryRequest]) (*connect.Response[api.UpsertCategoryResponse], error)
}

// NewProjectServiceClient creates a client for the service mounted at baseURL.
func NewProjectServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProjectServiceClient {
	opts = clientOptions(opts)
	return &projectServiceClient{
		createProject:  connect.NewClient[api.CreateProjectRequest, api.ProjectResponse](httpClient, baseURL+ProjectServiceCreateProjectProcedure, opts...),
		getProject:     connect.NewClient[api.GetProjectRequest, api.ProjectResponse](httpClient, baseURL+ProjectServiceGetProjectProcedure, opts...),
		listProjects:   connect.NewClient[api.ListProjectsRequest, api.ListProjectsResponse](httpClient, baseURL+ProjectServiceListProjectsProcedure, opts...),
		addMember:      connect.NewClient[api.AddMemberRequest, api.ProjectResponse](httpClient, baseURL+ProjectServiceAddMemberProcedure, opts...),
		setRates:       connect.NewClient[api.SetRatesRequest, api.ProjectResponse](httpClient, baseURL+ProjectServiceSetRatesProcedure, opts...),
		listCategories: connect.NewClient[api.ListCategoriesRequest, api.ListCategoriesResponse](httpClient, baseURL+ProjectServiceListCategoriesProcedure, opts...),
		upsertCategory: connect.NewClient[api.UpsertCategoryRequest, api.UpsertCategoryResponse](httpClient, baseURL+ProjectServiceUpsertCategoryProcedure, opts...),
	}
}

type projectServiceClient struct {
	createProject  *connect.Client[api.CreateProjectRequest, api.ProjectResponse]
	getProject     *connect.Client[api.GetProjectRequest, api.ProjectResponse]
	listProjects   *connect.Client[api.ListProjectsRequest, api.ListProjectsResponse]
	addMember      *connect.Client[api.AddMemberRequest, api.ProjectResponse]
	setRates       *connect.Client[api.SetRatesRequest, api.ProjectResponse]
	listCategories *connect.Client[api.ListCategoriesRequest, api.ListCategoriesResponse]
	upsertCategory *connect.Client[api.UpsertCategoryRequest, api.UpsertCategoryResponse]
}

func (c *projectServiceClient) CreateProject(ctx context.Context, req *connect.Request[api.CreateProjectRequest]) (*connect.Response[api.ProjectResponse], error) {
	return c.createProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) GetProject(ctx context.Context, req *connect.Request[api.GetProjectRequest]) (*connect.Response[api.ProjectResponse], error) {
	return c.getProject.CallUnary(ctx, req)
}

func (c *projectServiceClient) ListProjects(ctx context.Context, req *connect.Request[api.ListProjectsRequest]) (*connect.Response[api.ListProjectsResponse], error) {
	return c.listProjects.CallUnary(ctx, req)
}

func (c *projectServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.ProjectResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *projectServiceClient) SetRates(ctx context.Context, req *connect.Request[api.SetRatesRequest]) (*connect.Response[api.ProjectResponse], error) {
	return c.setRates.CallUnary(ctx, req)
}

func (c *projectServiceClient) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	return c.listCategories.CallUnary(ctx, req)
}

func (c *projectServiceClient) UpsertCategory(ctx context.Context, req *connect.Request[api.UpsertCategoryRequest]) (*connect.Response[api.UpsertCategoryResponse], error) {
	return c.upsertCategory.CallUnary(ctx, req)
}
