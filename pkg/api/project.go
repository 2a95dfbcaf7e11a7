package api

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
}

type Project struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      string             `json:"type"`
	Rates     map[string]float64 `json:"rates,omitempty"`
	Members   []*Member          `json:"members,omitempty"`
	CreatedAt int64              `json:"createdAt"`
}

type CreateProjectRequest struct {
	Name  string             `json:"name"`
	Type  string             `json:"type"`
	Rates map[string]float64 `json:"rates,omitempty"`
}

type GetProjectRequest struct {
	ProjectID string `json:"projectId"`
}

// ProjectResponse is returned by every RPC that yields a single project.
type ProjectResponse struct {
	Project *Project `json:"project"`
}

type ListProjectsRequest struct{}

type ListProjectsResponse struct {
	Projects []*Project `json:"projects"`
}

// AddMemberRequest invites a registered user by email.
type AddMemberRequest struct {
	ProjectID string `json:"projectId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type SetRatesRequest struct {
	ProjectID string             `json:"projectId"`
	Rates     map[string]float64 `json:"rates"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type UpsertCategoryRequest struct {
	Category *Category `json:"category"`
}

type UpsertCategoryResponse struct {
	Category *Category `json:"category"`
}
