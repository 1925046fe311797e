package service

import "errors"

var (
	// ErrNotFound - запрошенной записи нет в хранилище
	ErrNotFound = errors.New("not found")
	// ErrNoResourceFound - в радиусе нет свободной машины; инцидент остаётся в pending
	ErrNoResourceFound = errors.New("no available resource within radius")
	// ErrIllegalTransition - перехода нет в таблице состояний
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrUnauthorized - роль или личность участника не допускает переход
	ErrUnauthorized = errors.New("actor is not permitted to perform this transition")
	// ErrConflict - проигрыш гонки за инцидент; нужно перечитать состояние и повторить
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrResourceUnavailable - выбранная машина уже занята
	ErrResourceUnavailable = errors.New("resource is not available")
	// ErrInvalidInput - некорректные входные данные
	ErrInvalidInput = errors.New("invalid input")
)
