package auth

import (
	"fmt"

	"github.com/segyhp/lab-loan-engine/internal/domain"
	apperrors "github.com/segyhp/lab-loan-engine/pkg/errors"
)

type Resource string

const (
	ResourceLab          Resource = "lab"
	ResourceEquipment    Resource = "equipment"
	ResourceLoan         Resource = "loan"
	ResourceUser         Resource = "user"
	ResourceNotification Resource = "notification"
	ResourceReport       Resource = "report"
)

type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionReturn Action = "return"
	ActionSweep  Action = "sweep"
)

type permission struct {
	resource Resource
	action   Action
}

// permissions is the whole authorization table. Ownership and lab scoping
// for ordinary users are enforced by the services on top of it.
var permissions = map[permission][]domain.Role{
	{ResourceLab, ActionList}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceLab, ActionRead}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceLab, ActionCreate}: {domain.RoleAdmin},
	{ResourceLab, ActionUpdate}: {domain.RoleAdmin},
	{ResourceLab, ActionDelete}: {domain.RoleAdmin},

	{ResourceEquipment, ActionList}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceEquipment, ActionRead}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceEquipment, ActionCreate}: {domain.RoleAdmin},
	{ResourceEquipment, ActionUpdate}: {domain.RoleAdmin},
	{ResourceEquipment, ActionDelete}: {domain.RoleAdmin},

	{ResourceLoan, ActionList}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceLoan, ActionRead}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceLoan, ActionCreate}: {domain.RoleAdmin, domain.RoleUser},
	{ResourceLoan, ActionReturn}: {domain.RoleAdmin, domain.RoleUser},
	{ResourceLoan, ActionDelete}: {domain.RoleAdmin},
	{ResourceLoan, ActionSweep}:  {domain.RoleAdmin},

	{ResourceUser, ActionList}:   {domain.RoleAdmin},
	{ResourceUser, ActionRead}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceUser, ActionCreate}: {domain.RoleAdmin},
	{ResourceUser, ActionUpdate}: {domain.RoleAdmin, domain.RoleUser},
	{ResourceUser, ActionDelete}: {domain.RoleAdmin},

	{ResourceNotification, ActionList}:   {domain.RoleAdmin, domain.RoleUser},
	{ResourceNotification, ActionUpdate}: {domain.RoleAdmin, domain.RoleUser},
	{ResourceNotification, ActionDelete}: {domain.RoleAdmin, domain.RoleUser},

	{ResourceReport, ActionRead}: {domain.RoleAdmin},
}

// Allowed looks the pair up in the table. Pairs that are not listed are denied.
func Allowed(role domain.Role, resource Resource, action Action) bool {
	for _, r := range permissions[permission{resource, action}] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a Forbidden error when id may not perform action on resource.
func Authorize(id Identity, resource Resource, action Action) error {
	if !id.Role.Valid() {
		return apperrors.WrapForbidden(fmt.Sprintf("unknown role %q", id.Role))
	}
	if !Allowed(id.Role, resource, action) {
		return apperrors.WrapForbidden(fmt.Sprintf("role %s may not %s %s", id.Role, action, resource))
	}
	return nil
}
