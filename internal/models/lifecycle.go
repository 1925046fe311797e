package models

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль участника, от имени которого выполняется действие
type Role string

const (
	RoleReporter         Role = "reporter"
	RoleDispatcher       Role = "dispatcher"
	RoleSystem           Role = "system"
	RoleResourceOperator Role = "resource_operator"
	RoleFacilityOperator Role = "facility_operator"
)

// Valid проверяет, что роль известна
func (r Role) Valid() bool {
	switch r {
	case RoleReporter, RoleDispatcher, RoleSystem, RoleResourceOperator, RoleFacilityOperator:
		return true
	}
	return false
}

// Actor - пара (userId, role), уже проверенная внешним сервисом авторизации
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor используется для автоматических назначений
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// TransitionRule - разрешённый переход и роли, которым он доступен
type TransitionRule struct {
	From  IncidentStatus
	To    IncidentStatus
	Roles []Role
}

// transitionTable - единственный источник правды о допустимых переходах.
// assigned -> pending означает отказ экипажа от назначения.
var transitionTable = []TransitionRule{
	{From: StatusPending, To: StatusAssigned, Roles: []Role{RoleDispatcher, RoleSystem}},
	{From: StatusPending, To: StatusCancelled, Roles: []Role{RoleReporter, RoleDispatcher, RoleSystem}},
	{From: StatusAssigned, To: StatusEnRoute, Roles: []Role{RoleResourceOperator}},
	{From: StatusAssigned, To: StatusPending, Roles: []Role{RoleResourceOperator}},
	{From: StatusAssigned, To: StatusCancelled, Roles: []Role{RoleResourceOperator}},
	{From: StatusEnRoute, To: StatusArrived, Roles: []Role{RoleResourceOperator}},
	{From: StatusEnRoute, To: StatusCancelled, Roles: []Role{RoleResourceOperator}},
	{From: StatusArrived, To: StatusAtHospital, Roles: []Role{RoleResourceOperator}},
	{From: StatusArrived, To: StatusCancelled, Roles: []Role{RoleResourceOperator}},
	{From: StatusAtHospital, To: StatusCompleted, Roles: []Role{RoleFacilityOperator}},
}

// TransitionTable возвращает копию таблицы переходов
func TransitionTable() []TransitionRule {
	rules := make([]TransitionRule, len(transitionTable))
	for i, r := range transitionTable {
		rules[i] = TransitionRule{From: r.From, To: r.To, Roles: append([]Role(nil), r.Roles...)}
	}
	return rules
}

// CanTransition сообщает, есть ли переход from -> to в таблице
func CanTransition(from, to IncidentStatus) bool {
	for _, r := range transitionTable {
		if r.From == from && r.To == to {
			return true
		}
	}
	return false
}

// AssignmentUpdate - смена исхода назначения в рамках перехода
type AssignmentUpdate struct {
	ID      uuid.UUID
	Outcome AssignmentOutcome
}

// TransitionChange - всё, что должно примениться атомарно при переходе.
// Хранилище применяет изменение целиком или откатывает его.
type TransitionChange struct {
	IncidentID      uuid.UUID
	FromStatus      IncidentStatus
	ToStatus        IncidentStatus
	ExpectedVersion int
	At              time.Time

	// новые значения полей инцидента
	AssignedResourceID    *uuid.UUID
	DestinationFacilityID *uuid.UUID
	ResolvedAt            *time.Time

	// NewAssignment создаётся вместе с переводом машины в занятые
	NewAssignment *Assignment
	// AssignmentUpdate меняет исход текущего активного назначения
	AssignmentUpdate *AssignmentUpdate
	// ReleaseResourceID возвращает машину в доступные
	ReleaseResourceID *uuid.UUID
}
