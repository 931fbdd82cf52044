package dto

import (
	"net/http"
	"rentfy/internal/domains/user/model"
	"rentfy/shared/constant"
	gDto "rentfy/shared/dto"
	"rentfy/shared/failure"
	"slices"
	"strings"
)

// Summary is the public view of a user embedded in other resources.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Summary) FromModel(user model.User) {
	s.ID = user.ID
	s.Name = user.Name
	s.Email = user.Email
}

type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"isVerified"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
	r.Phone = user.Phone
	r.Role = user.Role
	r.IsVerified = user.IsVerified
	r.Active = user.Active
	r.Metadata.FromModel(user.Metadata)
}

type UpdateUserRequest struct {
	Name       *string `db:"name"        json:"name"       validate:"omitempty,min=2,max=100"`
	Phone      *string `db:"phone"       json:"phone"      validate:"omitempty,max=32"`
	Role       *string `db:"role"        json:"role"       validate:"omitempty,oneof=GUEST HOST ADMIN"`
	Active     *bool   `db:"active"      json:"active"`
	IsVerified *bool   `db:"is_verified" json:"isVerified"`
}

func (u UpdateUserRequest) IsEmpty() bool {
	return u == UpdateUserRequest{}
}

// Privileged reports whether the request touches account fields only an admin may change.
func (u UpdateUserRequest) Privileged() bool {
	return u.Role != nil || u.Active != nil || u.IsVerified != nil
}

type GetUsersResponse struct {
	Pagination gDto.Pagination `json:"pagination"`
	Users      []UserResponse  `json:"users"`
}

func (r *GetUsersResponse) FromModels(models []model.User, params gDto.QueryParams, total int) {
	r.Pagination = gDto.NewPagination(params.Page, params.Limit, total)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type UserFilter struct {
	Email string
	Role  string
}

func (f *UserFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.Email = strings.ToLower(strings.TrimSpace(query.Get(constant.RequestParamEmail)))
	f.Role = query.Get(constant.RequestParamRole)

	allowed := []string{constant.RoleGuest, constant.RoleHost, constant.RoleAdmin}
	if f.Role != "" && !slices.Contains(allowed, f.Role) {
		return failure.Validation("invalid role filter", map[string]any{ //nolint:wrapcheck
			"role":    f.Role,
			"allowed": allowed,
		})
	}

	return nil
}

func (f *UserFilter) ToFilterGroup() gDto.FilterGroup {
	filters := []any{}

	if f.Email != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldEmail, Value: f.Email, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.Role != "" {
		filters = append(filters, gDto.Filter{Field: model.FieldRole, Value: f.Role, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: filters}
}
