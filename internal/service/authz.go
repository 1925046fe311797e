package service

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/shenikar/emergency_dispatch/internal/models"
)

// transitionModel: субъект - роль, объект - исходный статус, действие - целевой статус
const transitionModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// TransitionAuthorizer проверяет, может ли роль выполнить переход.
// Политики строятся из таблицы переходов, поэтому таблица остаётся единственным источником правил.
type TransitionAuthorizer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewTransitionAuthorizer() (*TransitionAuthorizer, error) {
	m, err := model.NewModelFromString(transitionModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transition model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create transition enforcer: %w", err)
	}

	for _, rule := range models.TransitionTable() {
		for _, role := range rule.Roles {
			if _, err := enforcer.AddPolicy(string(role), string(rule.From), string(rule.To)); err != nil {
				return nil, fmt.Errorf("failed to add transition policy %s %s->%s: %w", role, rule.From, rule.To, err)
			}
		}
	}

	return &TransitionAuthorizer{enforcer: enforcer}, nil
}

// Allowed сообщает, разрешён ли роли переход from -> to
func (a *TransitionAuthorizer) Allowed(role models.Role, from, to models.IncidentStatus) (bool, error) {
	ok, err := a.enforcer.Enforce(string(role), string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate transition policy: %w", err)
	}
	return ok, nil
}
